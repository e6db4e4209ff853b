package main

import (
	"fmt"

	"github.com/hyperifyio/tensorcore/pkg/einops"
	"github.com/spf13/cobra"
)

func newRepeatCmd() *cobra.Command {
	var data, dtypeName, pattern, axes string

	cmd := &cobra.Command{
		Use:   "repeat --data=<json> --pattern='w -> (w w2)' --axes='w2=2'",
		Short: "Run einops_repeat on a JSON tensor literal",
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
			out, err := einops.Repeat(in, pattern, axisSizes)
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

	cmd.Flags().StringVar(&data, "data", "", "tensor literal, e.g. [1,2,3]")
	cmd.Flags().StringVar(&dtypeName, "dtype", "f64", "element dtype")
	cmd.Flags().StringVar(&pattern, "pattern", "", "einops pattern, e.g. 'w -> (w w2)'")
	cmd.Flags().StringVar(&axes, "axes", "", "comma-separated name=value sizes for new output axes")
	cmd.MarkFlagRequired("data")
	cmd.MarkFlagRequired("pattern")

	return cmd
}
