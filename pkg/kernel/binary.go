package kernel

import (
	"github.com/hyperifyio/tensorcore/pkg/dtype"
	"github.com/hyperifyio/tensorcore/pkg/layout"
	"github.com/hyperifyio/tensorcore/pkg/tensor"
	"github.com/hyperifyio/tensorcore/pkg/terrors"
)

// BinaryOp names a binary kernel primitive (spec §4.C).
type BinaryOp int

const (
	Add BinaryOp = iota
	Sub
	Mul
	Div
)

// PromoteBinary picks the default output dtype for a binary op between
// a and b, per spec §4.C: same dtype stays that dtype (so integer
// arithmetic round-trips exactly, spec §8's "(A+B)-B == A" property);
// mixing a wide integer with anything else promotes to f64; mixing any
// two distinct non-wide dtypes (int-int of different widths, or
// int-float) also promotes to f64, mirroring the matmul promotion table
// in spec §4.C ("int×float -> f64; float×float -> f64").
func PromoteBinary(a, b dtype.Dtype) dtype.Dtype {
	if a == b {
		return a
	}
	return dtype.F64
}

// Binary applies op element-wise to a and b with NumPy-style
// broadcasting (spec §4.C). The output dtype is PromoteBinary(a.Dtype(),
// b.Dtype()).
func Binary(op BinaryOp, a, b *tensor.Tensor) (*tensor.Tensor, error) {
	outShape, err := layout.BroadcastShapes(a.Shape(), b.Shape())
	if err != nil {
		return nil, err
	}
	outDt := PromoteBinary(a.Dtype(), b.Dtype())

	if outDt.IsWide() {
		return binaryWide(op, a, b, outShape, outDt)
	}
	if outDt == dtype.F64 {
		return binaryFloat(op, a, b, outShape)
	}
	switch outDt {
	case dtype.I8:
		return binarySameDtype[int8](op, a, b, outShape, outDt)
	case dtype.U8:
		return binarySameDtype[uint8](op, a, b, outShape, outDt)
	case dtype.I16:
		return binarySameDtype[int16](op, a, b, outShape, outDt)
	case dtype.U16:
		return binarySameDtype[uint16](op, a, b, outShape, outDt)
	case dtype.I32:
		return binarySameDtype[int32](op, a, b, outShape, outDt)
	case dtype.U32:
		return binarySameDtype[uint32](op, a, b, outShape, outDt)
	case dtype.F32:
		return binarySameDtype[float32](op, a, b, outShape, outDt)
	default:
		return nil, terrors.New(terrors.DtypeError, "unsupported dtype %v for binary op", outDt)
	}
}

// sameShapeContiguous reports whether a and b can use the tight fast
// path: identical shape and both C-contiguous (spec §4.C, "Fast path").
func sameShapeContiguous(a, b *tensor.Tensor, outShape []int) bool {
	if !a.IsContiguous() || !b.IsContiguous() {
		return false
	}
	if len(a.Shape()) != len(outShape) || len(b.Shape()) != len(outShape) {
		return false
	}
	for i, d := range outShape {
		if a.Shape()[i] != d || b.Shape()[i] != d {
			return false
		}
	}
	return true
}

func applyOp[T dtype.Numeric](op BinaryOp, x, y T) T {
	switch op {
	case Add:
		return x + y
	case Sub:
		return x - y
	case Mul:
		return x * y
	case Div:
		return x / y
	default:
		panic("kernel: unknown binary op")
	}
}

// binarySameDtype handles the case where both inputs already share
// dt (an integer or float dtype, not wide): compute directly in T's
// domain. Division by zero follows Go/IEEE-754 semantics for T (a trap
// for integers, Inf/NaN for floats) except that spec §4.C only
// specifies the wide-integer sentinel explicitly; non-wide integer
// division by zero cannot occur without first checking, so Div guards
// it and reports a ShapeError-free DtypeError instead of panicking.
func binarySameDtype[T dtype.Numeric](op BinaryOp, a, b *tensor.Tensor, outShape []int, dt dtype.Dtype) (*tensor.Tensor, error) {
	out := tensor.New(dt, outShape)
	outData := tensor.MustData[T](out)
	aData := tensor.MustData[T](a)
	bData := tensor.MustData[T](b)

	if sameShapeContiguous(a, b, outShape) {
		ao, bo := a.Offset(), b.Offset()
		for i := range outData {
			x, y := aData[ao+i], bData[bo+i]
			if op == Div && dt.Class() == dtype.ClassInteger && y == 0 {
				return nil, terrors.New(terrors.DtypeError, "integer division by zero")
			}
			outData[i] = applyOp(op, x, y)
		}
		return out, nil
	}

	it := layout.NewIter(outShape, [][]int{a.Shape(), b.Shape()})
	aStride, bStride := a.Stride(), b.Stride()
	for {
		flat, coords, ok := it.Next()
		if !ok {
			break
		}
		x := aData[a.Offset()+layout.CoordToFlat(coords[0], aStride)]
		y := bData[b.Offset()+layout.CoordToFlat(coords[1], bStride)]
		if op == Div && dt.Class() == dtype.ClassInteger && y == 0 {
			return nil, terrors.New(terrors.DtypeError, "integer division by zero")
		}
		outData[flat] = applyOp(op, x, y)
	}
	return out, nil
}

func binaryFloat(op BinaryOp, a, b *tensor.Tensor, outShape []int) (*tensor.Tensor, error) {
	out := tensor.New(dtype.F64, outShape)
	outData := tensor.MustData[float64](out)
	it := layout.NewIter(outShape, [][]int{a.Shape(), b.Shape()})
	aStride, bStride := a.Stride(), b.Stride()
	for {
		flat, coords, ok := it.Next()
		if !ok {
			break
		}
		x := widenAt(a, a.Offset()+layout.CoordToFlat(coords[0], aStride))
		y := widenAt(b, b.Offset()+layout.CoordToFlat(coords[1], bStride))
		outData[flat] = applyOp(op, x, y)
	}
	return out, nil
}

// widenAt reads the element at flat buffer index idx and widens it to
// float64, regardless of t's concrete dtype.
func widenAt(t *tensor.Tensor, idx int) float64 {
	switch t.Dtype() {
	case dtype.I8:
		return float64(tensor.MustData[int8](t)[idx])
	case dtype.U8:
		return float64(tensor.MustData[uint8](t)[idx])
	case dtype.I16:
		return float64(tensor.MustData[int16](t)[idx])
	case dtype.U16:
		return float64(tensor.MustData[uint16](t)[idx])
	case dtype.I32:
		return float64(tensor.MustData[int32](t)[idx])
	case dtype.U32:
		return float64(tensor.MustData[uint32](t)[idx])
	case dtype.F32:
		return float64(tensor.MustData[float32](t)[idx])
	case dtype.F64:
		return tensor.MustData[float64](t)[idx]
	case dtype.I64:
		return float64(tensor.MustData[int64](t)[idx])
	case dtype.U64:
		return float64(tensor.MustData[uint64](t)[idx])
	default:
		panic("kernel: widenAt unsupported dtype")
	}
}

// binaryWide handles outputs in the wide-integer domain (spec §4.C):
// "Division by zero for wide integers produces +MAX_WIDE if dividend >
// 0 else -MAX_WIDE". Only reached when a and b share the same wide
// dtype (PromoteBinary only returns a wide dtype when a==b==that
// dtype).
func binaryWide(op BinaryOp, a, b *tensor.Tensor, outShape []int, dt dtype.Dtype) (*tensor.Tensor, error) {
	if dt == dtype.I64 {
		return binaryWideSigned(op, a, b, outShape)
	}
	return binaryWideUnsigned(op, a, b, outShape)
}

func binaryWideSigned(op BinaryOp, a, b *tensor.Tensor, outShape []int) (*tensor.Tensor, error) {
	out := tensor.New(dtype.I64, outShape)
	outData := tensor.MustData[int64](out)
	aData := tensor.MustData[int64](a)
	bData := tensor.MustData[int64](b)
	maxW, minW := dtype.I64.WideExtremes()

	it := layout.NewIter(outShape, [][]int{a.Shape(), b.Shape()})
	aStride, bStride := a.Stride(), b.Stride()
	for {
		flat, coords, ok := it.Next()
		if !ok {
			break
		}
		x := aData[a.Offset()+layout.CoordToFlat(coords[0], aStride)]
		y := bData[b.Offset()+layout.CoordToFlat(coords[1], bStride)]
		if op == Div && y == 0 {
			if x > 0 {
				outData[flat] = maxW
			} else {
				outData[flat] = minW
			}
			continue
		}
		outData[flat] = applyOp(op, x, y)
	}
	return out, nil
}

func binaryWideUnsigned(op BinaryOp, a, b *tensor.Tensor, outShape []int) (*tensor.Tensor, error) {
	out := tensor.New(dtype.U64, outShape)
	outData := tensor.MustData[uint64](out)
	aData := tensor.MustData[uint64](a)
	bData := tensor.MustData[uint64](b)
	maxW, minW := dtype.WideExtremesU64()

	it := layout.NewIter(outShape, [][]int{a.Shape(), b.Shape()})
	aStride, bStride := a.Stride(), b.Stride()
	for {
		flat, coords, ok := it.Next()
		if !ok {
			break
		}
		x := aData[a.Offset()+layout.CoordToFlat(coords[0], aStride)]
		y := bData[b.Offset()+layout.CoordToFlat(coords[1], bStride)]
		if op == Div && y == 0 {
			if x > 0 {
				outData[flat] = maxW
			} else {
				outData[flat] = minW
			}
			continue
		}
		outData[flat] = applyOp(op, x, y)
	}
	return out, nil
}
