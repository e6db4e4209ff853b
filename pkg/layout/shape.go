// Package layout implements shape/stride bookkeeping for the tensor
// kernel (spec §4.B): row-major stride computation, contiguity checks,
// NumPy-style broadcasting, and the coordinate <-> flat-index
// conversions the kernel primitives and the einops executor drive their
// traversals with.
//
// It is grounded on two sources in the retrieval pack: the index/stride
// arithmetic in github.com/hyperifyio/gnd's
// pkg/bitnet/tensor.Tensor.calculateIndex/calculateIndices (the teacher
// repo), generalized from a single hard-coded ternary tensor to a
// reusable shape type; and the named-dimension Shape type from
// emer-etable (other_examples/.../etensor-shape.go.go), whose
// RowMajorStrides/IsRowMajor shape this package's ComputeStrides and
// IsContiguous.
package layout

import (
	"github.com/hyperifyio/tensorcore/pkg/terrors"
)

// ComputeStrides returns the row-major (C-order) strides for shape: the
// last dimension has stride 1, and each preceding dimension's stride is
// the product of all sizes to its right.
func ComputeStrides(shape []int) []int {
	stride := make([]int, len(shape))
	acc := 1
	for i := len(shape) - 1; i >= 0; i-- {
		stride[i] = acc
		acc *= shape[i]
	}
	return stride
}

// IsContiguous reports whether stride is exactly the row-major stride
// set for shape.
func IsContiguous(shape, stride []int) bool {
	if len(shape) != len(stride) {
		return false
	}
	want := ComputeStrides(shape)
	for i := range want {
		if want[i] != stride[i] {
			return false
		}
	}
	return true
}

// Len returns the product of shape's dimensions (the element count). An
// empty shape (rank 0, a scalar) has length 1.
func Len(shape []int) int {
	n := 1
	for _, d := range shape {
		n *= d
	}
	return n
}

// BroadcastShapes right-aligns a and b and takes the pairwise max
// dimension, per NumPy broadcasting rules. It fails with a ShapeError if
// any aligned pair is incompatible (neither equal nor one of them is 1).
func BroadcastShapes(a, b []int) ([]int, error) {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	out := make([]int, n)
	for i := 0; i < n; i++ {
		ai, bi := 1, 1
		if off := n - len(a); i >= off {
			ai = a[i-off]
		}
		if off := n - len(b); i >= off {
			bi = b[i-off]
		}
		switch {
		case ai == bi:
			out[i] = ai
		case ai == 1:
			out[i] = bi
		case bi == 1:
			out[i] = ai
		default:
			return nil, terrors.New(terrors.ShapeError, "cannot broadcast shapes %v and %v: dim %d is %d vs %d", a, b, i, ai, bi)
		}
	}
	return out, nil
}

// FlatToCoord converts a row-major flat index into a coordinate vector
// for shape.
func FlatToCoord(i int, shape []int) []int {
	coord := make([]int, len(shape))
	for d := len(shape) - 1; d >= 0; d-- {
		if shape[d] == 0 {
			coord[d] = 0
			continue
		}
		coord[d] = i % shape[d]
		i /= shape[d]
	}
	return coord
}

// CoordToFlat converts a coordinate vector into a flat index using
// stride, i.e. it computes the dot product of coord and stride.
func CoordToFlat(coord []int, stride []int) int {
	flat := 0
	for i, c := range coord {
		flat += c * stride[i]
	}
	return flat
}

// broadcastCoord maps an output coordinate back to the corresponding
// input coordinate for a (possibly lower-rank) input shape, replicating
// a size-1 dim by always indexing it at 0.
func broadcastCoord(outCoord []int, inShape []int) []int {
	off := len(outCoord) - len(inShape)
	inCoord := make([]int, len(inShape))
	for i, d := range inShape {
		oc := outCoord[off+i]
		if d == 1 {
			inCoord[i] = 0
		} else {
			inCoord[i] = oc
		}
	}
	return inCoord
}

// Iter walks out_shape in row-major order, producing for every flat
// output index the corresponding coordinate into each of the registered
// input shapes (spec §4.B, broadcast_iter). Iteration is deterministic:
// flat index 0, 1, 2, ... in row-major order of outShape.
type Iter struct {
	outShape []int
	inShapes [][]int
	total    int
	next     int
}

// NewIter builds a broadcast iterator over outShape, tracking one
// coordinate per shape in inShapes. Each inShapes[k] must already
// broadcast-align with outShape (callers normally pass the shapes that
// produced outShape via BroadcastShapes).
func NewIter(outShape []int, inShapes [][]int) *Iter {
	return &Iter{outShape: outShape, inShapes: inShapes, total: Len(outShape)}
}

// Len reports the total number of output positions the iterator will
// visit.
func (it *Iter) Len() int { return it.total }

// Next returns the next output flat index and the per-input coordinate
// vectors, or ok=false once exhausted.
func (it *Iter) Next() (outFlat int, inCoords [][]int, ok bool) {
	if it.next >= it.total {
		return 0, nil, false
	}
	outFlat = it.next
	outCoord := FlatToCoord(outFlat, it.outShape)
	inCoords = make([][]int, len(it.inShapes))
	for k, sh := range it.inShapes {
		inCoords[k] = broadcastCoord(outCoord, sh)
	}
	it.next++
	return outFlat, inCoords, true
}

// Reset rewinds the iterator to the first output position.
func (it *Iter) Reset() { it.next = 0 }
