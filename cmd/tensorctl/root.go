package main

import (
	"github.com/spf13/cobra"
)

// NewRootCmd builds the tensorctl command tree, following the
// cmd/pockettts convention in the retrieval pack (a NewXCmd() constructor
// per subcommand, registered on a root; the root itself defines no flags).
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tensorctl",
		Short: "Inspect the tensorcore kernel and einops engine from the command line",
		Long: "tensorctl loads a tensor from a JSON literal, runs one rearrange/reduce/\n" +
			"repeat/matmul/softmax operation, and prints the result as JSON.\n" +
			"It exists to exercise pkg/einops and pkg/kernel end to end; it is not\n" +
			"part of the core's contract.",
		SilenceUsage: true,
	}

	cmd.AddCommand(newRearrangeCmd())
	cmd.AddCommand(newReduceCmd())
	cmd.AddCommand(newRepeatCmd())
	cmd.AddCommand(newMatMulCmd())
	cmd.AddCommand(newSoftmaxCmd())
	cmd.AddCommand(newBatchCmd())

	return cmd
}
