package kernel

import "github.com/hyperifyio/tensorcore/pkg/tensor"

// Slice extracts the half-open region [starts, ends) of in into a
// fresh, independent tensor (spec §4.C, "materializing slice"). It is
// a thin kernel-level wrapper over tensor.MaterializeSlice, exposing the
// materializing slice alongside the other kernel primitives. pkg/ops
// calls tensor.MaterializeSlice directly, and plans have no slice step.
func Slice(in *tensor.Tensor, starts, ends []int) (*tensor.Tensor, error) {
	return tensor.MaterializeSlice(in, starts, ends)
}
