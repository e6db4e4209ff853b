package main

import (
	"fmt"
	"strings"

	"github.com/hyperifyio/tensorcore/pkg/einops"
	"github.com/hyperifyio/tensorcore/pkg/kernel"
	"github.com/spf13/cobra"
)

func reduceOpFromName(name string) (kernel.ReduceOp, error) {
	switch strings.ToLower(name) {
	case "sum":
		return kernel.Sum, nil
	case "mean":
		return kernel.Mean, nil
	case "max":
		return kernel.Max, nil
	case "min":
		return kernel.Min, nil
	default:
		return 0, fmt.Errorf("unknown reduce op %q (want sum, mean, max, or min)", name)
	}
}

func newReduceCmd() *cobra.Command {
	var data, dtypeName, pattern, axes, opName string
	var keepDims bool

	cmd := &cobra.Command{
		Use:   "reduce --data=<json> --pattern='b c -> b' --op=sum",
		Short: "Run einops_reduce on a JSON tensor literal",
		RunE: func(cmd *cobra.Command, _ []string) error {
			dt, err := parseDtype(dtypeName)
			if err != nil {
				return err
			}
			in, err := tensorFromJSON(dt, data)
			if err != nil {
				return err
			}
			axisSizes, err := parseAxisSizes(axes)
			if err != nil {
				return err
			}
			op, err := reduceOpFromName(opName)
			if err != nil {
				return err
			}
			out, err := einops.Reduce(in, pattern, op, axisSizes, keepDims)
			if err != nil {
				return err
			}
			rendered, err := tensorToJSON(out)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return nil
		},
	}

	cmd.Flags().StringVar(&data, "data", "", "tensor literal, e.g. [[1,2,3],[4,5,6]]")
	cmd.Flags().StringVar(&dtypeName, "dtype", "f64", "element dtype")
	cmd.Flags().StringVar(&pattern, "pattern", "", "einops pattern, e.g. 'b c -> b'")
	cmd.Flags().StringVar(&axes, "axes", "", "comma-separated name=value axis-size hints")
	cmd.Flags().StringVar(&opName, "op", "sum", "reduce op: sum, mean, max, or min")
	cmd.Flags().BoolVar(&keepDims, "keep-dims", false, "keep reduced axes as size-1 dims")
	cmd.MarkFlagRequired("data")
	cmd.MarkFlagRequired("pattern")

	return cmd
}
