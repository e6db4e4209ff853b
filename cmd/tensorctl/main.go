// Command tensorctl is a thin demonstration front-end over pkg/einops
// and pkg/kernel: the "public tensor-construction API" spec.md
// §1 calls an out-of-scope external collaborator, implemented here only
// far enough to load a tensor from a JSON literal, run one operation
// named on the command line, and print the result.
//
// Grounded on cmd/pockettts's main.go in the retrieval pack: a bare
// Execute() call with the error printed to stderr and a non-zero exit.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
