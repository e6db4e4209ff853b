package main

import (
	"fmt"

	"github.com/hyperifyio/tensorcore/pkg/kernel"
	"github.com/spf13/cobra"
)

func newSoftmaxCmd() *cobra.Command {
	var data, dtypeName string
	var axis int
	var logForm bool

	cmd := &cobra.Command{
		Use:   "softmax --data=<json> --axis=0",
		Short: "Run the softmax (or --log, log-softmax) kernel primitive",
		RunE: func(cmd *cobra.Command, _ []string) error {
			dt, err := parseDtype(dtypeName)
			if err != nil {
				return err
			}
			in, err := tensorFromJSON(dt, data)
			if err != nil {
				return err
			}
			fn := kernel.Softmax
			if logForm {
				fn = kernel.LogSoftmax
			}
			res, err := fn(in, axis)
			if err != nil {
				return err
			}
			rendered, err := tensorToJSON(res)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return nil
		},
	}

	cmd.Flags().StringVar(&data, "data", "", "tensor literal, e.g. [1.0,2.0,3.0]")
	cmd.Flags().StringVar(&dtypeName, "dtype", "f64", "element dtype")
	cmd.Flags().IntVar(&axis, "axis", 0, "axis to normalize along")
	cmd.Flags().BoolVar(&logForm, "log", false, "compute log-softmax instead of softmax")
	cmd.MarkFlagRequired("data")

	return cmd
}
