package main

import (
	"fmt"
	"os"

	"github.com/hyperifyio/tensorcore/pkg/einops"
	"github.com/hyperifyio/tensorcore/pkg/tensor"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// batchStep is one record of a --pattern-file YAML document: a single
// einops operation applied in sequence to the running tensor (SPEC_FULL
// §2: "a YAML list of {pattern, op, axes} records applied in sequence to
// one input tensor").
type batchStep struct {
	Op       string         `yaml:"op"`
	Pattern  string         `yaml:"pattern"`
	Axes     map[string]int `yaml:"axes"`
	ReduceOp string         `yaml:"reduce_op"`
	KeepDims bool           `yaml:"keep_dims"`
}

func newBatchCmd() *cobra.Command {
	var data, dtypeName, patternFile string

	cmd := &cobra.Command{
		Use:   "batch --data=<json> --pattern-file=steps.yaml",
		Short: "Apply a YAML-declared sequence of rearrange/reduce/repeat steps",
		RunE: func(cmd *cobra.Command, _ []string) error {
			dt, err := parseDtype(dtypeName)
			if err != nil {
				return err
			}
			in, err := tensorFromJSON(dt, data)
			if err != nil {
				return err
			}
			raw, err := os.ReadFile(patternFile)
			if err != nil {
				return fmt.Errorf("reading --pattern-file: %w", err)
			}
			var steps []batchStep
			if err := yaml.Unmarshal(raw, &steps); err != nil {
				return fmt.Errorf("parsing --pattern-file: %w", err)
			}

			t := in
			for i, step := range steps {
				t, err = runStep(t, step)
				if err != nil {
					return fmt.Errorf("step %d (%s %q): %w", i, step.Op, step.Pattern, err)
				}
			}

			rendered, err := tensorToJSON(t)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return nil
		},
	}

	cmd.Flags().StringVar(&data, "data", "", "tensor literal for the first step's input")
	cmd.Flags().StringVar(&dtypeName, "dtype", "f64", "element dtype")
	cmd.Flags().StringVar(&patternFile, "pattern-file", "", "YAML file of {op, pattern, axes} steps")
	cmd.MarkFlagRequired("data")
	cmd.MarkFlagRequired("pattern-file")

	return cmd
}

func runStep(t *tensor.Tensor, step batchStep) (*tensor.Tensor, error) {
	switch step.Op {
	case "rearrange":
		return einops.Rearrange(t, step.Pattern, step.Axes)
	case "repeat":
		return einops.Repeat(t, step.Pattern, step.Axes)
	case "reduce":
		op, err := reduceOpFromName(step.ReduceOp)
		if err != nil {
			return nil, err
		}
		return einops.Reduce(t, step.Pattern, op, step.Axes, step.KeepDims)
	default:
		return nil, fmt.Errorf("unknown batch step op %q (want rearrange, reduce, or repeat)", step.Op)
	}
}
