package tensor

import (
	"github.com/hyperifyio/tensorcore/pkg/layout"
	"github.com/hyperifyio/tensorcore/pkg/terrors"
)

// Reshape returns a tensor with shape newShape over the same data. If t
// is C-contiguous this is a zero-copy view (new stride, same buffer,
// same offset); otherwise the data is materialized into a fresh
// contiguous buffer first (spec §4.G, "Reshape/Permute manipulate
// shape/stride (no copy) where the layout remains contiguous-after-
// shape-merge; otherwise, materialize").
func Reshape(t *Tensor, newShape []int) (*Tensor, error) {
	if layout.Len(newShape) != t.Len() {
		return nil, terrors.New(terrors.ShapeError, "cannot reshape %v (%d elements) to %v (%d elements)", t.shape, t.Len(), newShape, layout.Len(newShape))
	}
	base := t
	if !t.IsContiguous() {
		base = t.Clone()
	}
	return &Tensor{
		buf:    base.buf,
		dt:     base.dt,
		shape:  append([]int{}, newShape...),
		stride: layout.ComputeStrides(newShape),
		offset: base.offset,
	}, nil
}

// Permute returns a view of t with dimensions reordered according to
// perm (a permutation of 0..rank-1). No data is copied; the result may
// be non-contiguous.
func Permute(t *Tensor, perm []int) (*Tensor, error) {
	if len(perm) != t.Rank() {
		return nil, terrors.New(terrors.ShapeError, "permutation length %d does not match rank %d", len(perm), t.Rank())
	}
	seen := make([]bool, len(perm))
	newShape := make([]int, len(perm))
	newStride := make([]int, len(perm))
	for i, p := range perm {
		if p < 0 || p >= t.Rank() {
			return nil, terrors.New(terrors.ShapeError, "permutation index %d out of range for rank %d", p, t.Rank())
		}
		if seen[p] {
			return nil, terrors.New(terrors.ShapeError, "duplicate dimension %d in permutation %v", p, perm)
		}
		seen[p] = true
		newShape[i] = t.shape[p]
		newStride[i] = t.stride[p]
	}
	return &Tensor{
		buf:    t.buf,
		dt:     t.dt,
		shape:  newShape,
		stride: newStride,
		offset: t.offset,
	}, nil
}

// Expand returns a view of t broadcast to targetShape: every dimension
// of t that is 1 and whose target is larger is given stride 0 (spec
// §4.G, Tile/Expand). targetShape must be broadcast-compatible with
// t.Shape(); dimensions that are already equal are left untouched.
func Expand(t *Tensor, targetShape []int) (*Tensor, error) {
	if len(targetShape) < t.Rank() {
		return nil, terrors.New(terrors.ShapeError, "cannot expand rank %d to lower rank %d", t.Rank(), len(targetShape))
	}
	off := len(targetShape) - t.Rank()
	newShape := append([]int(nil), targetShape...)
	newStride := make([]int, len(targetShape))
	for i := 0; i < off; i++ {
		newStride[i] = 0
	}
	for i := 0; i < t.Rank(); i++ {
		d := t.shape[i]
		td := targetShape[off+i]
		switch {
		case d == td:
			newStride[off+i] = t.stride[i]
		case d == 1:
			newStride[off+i] = 0
		default:
			return nil, terrors.New(terrors.ShapeError, "cannot expand dimension %d from %d to %d", i, d, td)
		}
	}
	return &Tensor{
		buf:    t.buf,
		dt:     t.dt,
		shape:  newShape,
		stride: newStride,
		offset: t.offset,
	}, nil
}

// MaterializeSlice copies the region [starts, ends) of t into a fresh
// C-contiguous tensor (spec §4.C, "materializing slice").
func MaterializeSlice(t *Tensor, starts, ends []int) (*Tensor, error) {
	if len(starts) != t.Rank() || len(ends) != t.Rank() {
		return nil, terrors.New(terrors.ShapeError, "slice bounds rank %d/%d do not match tensor rank %d", len(starts), len(ends), t.Rank())
	}
	outShape := make([]int, t.Rank())
	for i := range outShape {
		if starts[i] < 0 || ends[i] > t.shape[i] || starts[i] > ends[i] {
			return nil, terrors.New(terrors.ShapeError, "invalid slice bounds [%d:%d) for dimension %d of size %d", starts[i], ends[i], i, t.shape[i])
		}
		outShape[i] = ends[i] - starts[i]
	}
	view := &Tensor{
		buf:    t.buf,
		dt:     t.dt,
		shape:  outShape,
		stride: t.stride,
		offset: t.calculateIndex(starts),
	}
	return view.Clone(), nil
}

// Flatten returns a 1-D view of t, equivalent to Reshape(t, []int{t.Len()}).
func Flatten(t *Tensor) (*Tensor, error) {
	return Reshape(t, []int{t.Len()})
}

// Transpose reverses all dimensions of t, the rank-agnostic
// generalization of a 2D matrix transpose (op_descriptor "transpose" in
// spec §6).
func Transpose(t *Tensor) (*Tensor, error) {
	perm := make([]int, t.Rank())
	for i := range perm {
		perm[i] = t.Rank() - 1 - i
	}
	return Permute(t, perm)
}
