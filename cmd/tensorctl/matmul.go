package main

import (
	"fmt"

	"github.com/hyperifyio/tensorcore/pkg/kernel"
	"github.com/spf13/cobra"
)

func newMatMulCmd() *cobra.Command {
	var a, b, dtypeName string

	cmd := &cobra.Command{
		Use:   "matmul --a=<json> --b=<json>",
		Short: "Run the matmul kernel primitive on two JSON tensor literals",
		RunE: func(cmd *cobra.Command, _ []string) error {
			dt, err := parseDtype(dtypeName)
			if err != nil {
				return err
			}
			ta, err := tensorFromJSON(dt, a)
			if err != nil {
				return err
			}
			tb, err := tensorFromJSON(dt, b)
			if err != nil {
				return err
			}
			out, err := kernel.MatMul(ta, tb)
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

	cmd.Flags().StringVar(&a, "a", "", "left-hand tensor literal")
	cmd.Flags().StringVar(&b, "b", "", "right-hand tensor literal")
	cmd.Flags().StringVar(&dtypeName, "dtype", "f64", "element dtype for both operands")
	cmd.MarkFlagRequired("a")
	cmd.MarkFlagRequired("b")

	return cmd
}
