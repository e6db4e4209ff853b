// Package tensor implements the tensor handle described in spec §3:
// (buffer, dtype, shape, stride, offset, c_contiguous flag). Views share
// a buffer with their producer; the executor never mutates an input
// buffer and always writes fresh, exact-length output buffers (spec
// §5).
//
// Grounded on github.com/hyperifyio/gnd's pkg/bitnet/tensor.Tensor: the
// shape/stride/data layout and the calculateIndex/calculateIndices
// helpers are the same idea, generalized from a single hard-coded
// []int8 ternary buffer to the full dtype.Dtype enum via
// pkg/dtype.Buffer's generic typed views, and from the teacher's
// internal sync.RWMutex-guarded single-tensor API to the
// single-threaded-per-tensor cooperative model spec §5 asks for (no
// per-tensor locking; callers serialize access themselves, same as the
// teacher's higher-level Interpreter does for its slots).
package tensor

import (
	"github.com/hyperifyio/tensorcore/pkg/dtype"
	"github.com/hyperifyio/tensorcore/pkg/layout"
	"github.com/hyperifyio/tensorcore/pkg/terrors"
)

// Tensor is a handle over a typed, strided view of a Buffer.
type Tensor struct {
	buf    *dtype.Buffer
	dt     dtype.Dtype
	shape  []int
	stride []int
	offset int // element offset, not byte offset

	// namedShape carries the diagnostic axis names pkg/einops attaches to
	// a resolved pattern's output dimensions (SPEC_FULL §3 supplement);
	// nil unless WithNames has been called.
	namedShape *layout.Shape
}

// New allocates a fresh, zero-filled, C-contiguous tensor of the given
// dtype and shape.
func New(dt dtype.Dtype, shape []int) *Tensor {
	n := layout.Len(shape)
	buf := dtype.Allocate(n * dt.Size())
	return &Tensor{
		buf:    buf,
		dt:     dt,
		shape:  append([]int{}, shape...),
		stride: layout.ComputeStrides(shape),
		offset: 0,
	}
}

// NewView constructs a tensor that shares buf with its producer. The
// caller is responsible for keeping the producer (and therefore buf)
// alive for as long as the view is used (spec §3, §5).
func NewView(buf *dtype.Buffer, dt dtype.Dtype, shape, stride []int, offset int) *Tensor {
	return &Tensor{
		buf:    buf,
		dt:     dt,
		shape:  append([]int(nil), shape...),
		stride: append([]int(nil), stride...),
		offset: offset,
	}
}

// FromSlice builds a fresh C-contiguous tensor from element data,
// copying it into a new buffer. len(data) must equal the product of
// shape.
func FromSlice[T dtype.Numeric](dt dtype.Dtype, data []T, shape []int) (*Tensor, error) {
	if len(data) != layout.Len(shape) {
		return nil, terrors.New(terrors.ShapeError, "data has %d elements, shape %v expects %d", len(data), shape, layout.Len(shape))
	}
	t := New(dt, shape)
	dst := MustData[T](t)
	copy(dst, data)
	return t, nil
}

// Dtype returns the tensor's element type.
func (t *Tensor) Dtype() dtype.Dtype { return t.dt }

// Shape returns the tensor's dimension sizes. Callers must not mutate
// the returned slice.
func (t *Tensor) Shape() []int { return t.shape }

// Stride returns the tensor's element strides. Callers must not mutate
// the returned slice.
func (t *Tensor) Stride() []int { return t.stride }

// Offset returns the tensor's element offset into its buffer.
func (t *Tensor) Offset() int { return t.offset }

// Rank returns the number of dimensions.
func (t *Tensor) Rank() int { return len(t.shape) }

// Len returns the number of elements the shape describes.
func (t *Tensor) Len() int { return layout.Len(t.shape) }

// Buffer exposes the backing buffer, for device-boundary code and
// cloning. Kernel/einops code should prefer Data[T].
func (t *Tensor) Buffer() *dtype.Buffer { return t.buf }

// IsContiguous reports whether the tensor's strides are row-major for
// its current shape (spec §3 invariant: c_contiguous).
func (t *Tensor) IsContiguous() bool { return layout.IsContiguous(t.shape, t.stride) }

// WithNames attaches diagnostic axis names (SPEC_FULL §3 supplement) by
// building a pkg/layout.Shape over t's current dims/strides and naming
// each dimension, returning the same tensor for chaining.
func (t *Tensor) WithNames(names []string) *Tensor {
	t.namedShape = layout.NewWithStrides(t.shape, t.stride).WithNames(names)
	return t
}

// Names returns the tensor's diagnostic axis names, or nil if unset.
func (t *Tensor) Names() []string {
	if t.namedShape == nil {
		return nil
	}
	return t.namedShape.Names
}

// NamedShape returns the pkg/layout.Shape WithNames attached, or nil if
// unset. Exposes DimName/DimIndexByName lookups to callers that want
// name-indexed access instead of the raw Names slice.
func (t *Tensor) NamedShape() *layout.Shape { return t.namedShape }

// Dispose releases the tensor's buffer. Safe to call more than once;
// does not affect other tensors sharing the same buffer (the buffer
// itself is only actually freed when its producer disposes it - spec
// §5, "views don't release the producer's buffer").
func (t *Tensor) Dispose() {
	if t == nil {
		return
	}
	t.buf.Dispose()
	t.shape = nil
	t.stride = nil
}

// Clone makes an independent, C-contiguous copy of the tensor's
// contents (spec §3, "cloning produces an independent copy"). If t is
// not contiguous, Clone materializes row-major order first.
func (t *Tensor) Clone() *Tensor {
	out := New(t.dt, t.shape)
	copyElements(t, out)
	return out
}

// Data returns the full element slice backing the tensor's buffer. Note
// this is the buffer's entire typed view, not scoped to the tensor's
// offset/shape/stride; callers index it using Offset/Stride, the way
// the kernel primitives do.
func Data[T dtype.Numeric](t *Tensor) ([]T, error) {
	return dtype.TypedView[T](t.buf)
}

// MustData is Data without the error return, for call sites that have
// already validated the tensor's dtype against T.
func MustData[T dtype.Numeric](t *Tensor) []T {
	v, err := Data[T](t)
	if err != nil {
		panic(err)
	}
	return v
}

// calculateIndex mirrors the teacher's Tensor.calculateIndex: the flat
// element index for a coordinate under this tensor's strides and
// offset.
func (t *Tensor) calculateIndex(coord []int) int {
	idx := t.offset
	for i, c := range coord {
		idx += c * t.stride[i]
	}
	return idx
}

// calculateCoord mirrors the teacher's Tensor.calculateIndices: the
// coordinate for a position in row-major traversal order of the
// tensor's own shape (not a buffer-relative flat index).
func calculateCoord(pos int, shape []int) []int {
	return layout.FlatToCoord(pos, shape)
}

// copyElements writes src's logical contents (respecting its
// shape/stride/offset) into dst in row-major order. dst must be a fresh
// C-contiguous tensor of the same shape and dtype as src.
func copyElements(src, dst *Tensor) {
	switch src.dt {
	case dtype.I8:
		copyTyped[int8](src, dst)
	case dtype.U8:
		copyTyped[uint8](src, dst)
	case dtype.I16:
		copyTyped[int16](src, dst)
	case dtype.U16:
		copyTyped[uint16](src, dst)
	case dtype.I32:
		copyTyped[int32](src, dst)
	case dtype.U32:
		copyTyped[uint32](src, dst)
	case dtype.F32:
		copyTyped[float32](src, dst)
	case dtype.F64:
		copyTyped[float64](src, dst)
	case dtype.I64:
		copyTyped[int64](src, dst)
	case dtype.U64:
		copyTyped[uint64](src, dst)
	}
}

func copyTyped[T dtype.Numeric](src, dst *Tensor) {
	srcData := MustData[T](src)
	dstData := MustData[T](dst)
	n := src.Len()
	for pos := 0; pos < n; pos++ {
		coord := calculateCoord(pos, src.shape)
		dstData[pos] = srcData[src.calculateIndex(coord)]
	}
}

// Get retrieves the element at coord as a float64, widening integer
// types. It exists for tests and the CLI's pretty-printer; kernels use
// the typed Data[T] accessors directly for performance.
func (t *Tensor) Get(coord []int) (float64, error) {
	if len(coord) != len(t.shape) {
		return 0, terrors.New(terrors.ShapeError, "expected %d indices, got %d", len(t.shape), len(coord))
	}
	idx := t.calculateIndex(coord)
	switch t.dt {
	case dtype.I8:
		return float64(MustData[int8](t)[idx]), nil
	case dtype.U8:
		return float64(MustData[uint8](t)[idx]), nil
	case dtype.I16:
		return float64(MustData[int16](t)[idx]), nil
	case dtype.U16:
		return float64(MustData[uint16](t)[idx]), nil
	case dtype.I32:
		return float64(MustData[int32](t)[idx]), nil
	case dtype.U32:
		return float64(MustData[uint32](t)[idx]), nil
	case dtype.F32:
		return float64(MustData[float32](t)[idx]), nil
	case dtype.F64:
		return MustData[float64](t)[idx], nil
	case dtype.I64:
		return float64(MustData[int64](t)[idx]), nil
	case dtype.U64:
		return float64(MustData[uint64](t)[idx]), nil
	default:
		return 0, terrors.New(terrors.DtypeError, "unsupported dtype %v", t.dt)
	}
}
