// Package kernel implements the element-wise unary/binary ops,
// reductions, softmax/log-softmax, matmul, and materializing slice
// described in spec §4.C. It operates directly on *tensor.Tensor
// values, reading through their stride/offset and always writing a
// fresh C-contiguous output (spec §5: "the executor never mutates an
// input buffer").
//
// Grounded on github.com/hyperifyio/gnd's
// pkg/bitnet/tensor.Tensor.{Add,MatMul,Softmax,Scale} for the traversal
// shape (iterate flat positions, convert to coordinates, index through
// strides), generalized from the teacher's single ternary int8 dtype to
// the full pkg/dtype.Dtype set and from the teacher's goroutine-per-
// chunk parallel traversal to a single traversal loop per spec §5's
// "atomic unit from the caller's perspective" requirement (parallelism
// inside one op is still permitted by spec §5 but is not required for
// correctness, and keeping the loop sequential makes the broadcast/
// strided index math easier to audit).
package kernel

import (
	"math"

	"github.com/hyperifyio/tensorcore/pkg/dtype"
	"github.com/hyperifyio/tensorcore/pkg/layout"
	"github.com/hyperifyio/tensorcore/pkg/tensor"
	"github.com/hyperifyio/tensorcore/pkg/terrors"
)

// UnaryOp names a unary kernel primitive (spec §4.C).
type UnaryOp int

const (
	Neg UnaryOp = iota
	Abs
	Square
	Sqrt
	Exp
	Log
	Sin
	Cos
)

// floatOutput reports whether op always produces a float64 tensor
// (spec §4.C: "Float-output ops (sqrt/exp/log/sin/cos) coerce integers
// via widening to f64 then compute").
func floatOutput(op UnaryOp) bool {
	switch op {
	case Sqrt, Exp, Log, Sin, Cos:
		return true
	default:
		return false
	}
}

func floatFn(op UnaryOp) func(float64) float64 {
	switch op {
	case Sqrt:
		return math.Sqrt
	case Exp:
		return math.Exp
	case Log:
		return math.Log
	case Sin:
		return math.Sin
	case Cos:
		return math.Cos
	default:
		panic("kernel: floatFn called on non-float-output op")
	}
}

// Unary applies op to every element of in, per spec §4.C.
func Unary(op UnaryOp, in *tensor.Tensor) (*tensor.Tensor, error) {
	if floatOutput(op) {
		return unaryToFloat(op, in)
	}
	switch in.Dtype() {
	case dtype.I8:
		return unaryPreserving[int8](op, in, dtype.I8)
	case dtype.U8:
		return unaryPreserving[uint8](op, in, dtype.U8)
	case dtype.I16:
		return unaryPreserving[int16](op, in, dtype.I16)
	case dtype.U16:
		return unaryPreserving[uint16](op, in, dtype.U16)
	case dtype.I32:
		return unaryPreserving[int32](op, in, dtype.I32)
	case dtype.U32:
		return unaryPreserving[uint32](op, in, dtype.U32)
	case dtype.F32:
		return unaryPreserving[float32](op, in, dtype.F32)
	case dtype.F64:
		return unaryPreserving[float64](op, in, dtype.F64)
	case dtype.I64:
		return unaryPreserving[int64](op, in, dtype.I64)
	case dtype.U64:
		return unaryPreserving[uint64](op, in, dtype.U64)
	default:
		return nil, terrors.New(terrors.DtypeError, "unsupported dtype %v for unary op", in.Dtype())
	}
}

// unaryToFloat widens any input dtype to float64 and applies op's math
// function, per spec §4.C.
func unaryToFloat(op UnaryOp, in *tensor.Tensor) (*tensor.Tensor, error) {
	f := floatFn(op)
	out := tensor.New(dtype.F64, in.Shape())
	outData := tensor.MustData[float64](out)
	each(in, func(pos int, v float64) {
		outData[pos] = f(v)
	})
	return out, nil
}

// each widens whatever dtype in holds to float64 and calls fn once per
// element, in row-major order of in's shape.
func each(in *tensor.Tensor, fn func(pos int, v float64)) {
	switch in.Dtype() {
	case dtype.I8:
		eachTyped(in, fn, func(v int8) float64 { return float64(v) })
	case dtype.U8:
		eachTyped(in, fn, func(v uint8) float64 { return float64(v) })
	case dtype.I16:
		eachTyped(in, fn, func(v int16) float64 { return float64(v) })
	case dtype.U16:
		eachTyped(in, fn, func(v uint16) float64 { return float64(v) })
	case dtype.I32:
		eachTyped(in, fn, func(v int32) float64 { return float64(v) })
	case dtype.U32:
		eachTyped(in, fn, func(v uint32) float64 { return float64(v) })
	case dtype.F32:
		eachTyped(in, fn, func(v float32) float64 { return float64(v) })
	case dtype.F64:
		eachTyped(in, fn, func(v float64) float64 { return v })
	case dtype.I64:
		eachTyped(in, fn, func(v int64) float64 { return float64(v) })
	case dtype.U64:
		eachTyped(in, fn, func(v uint64) float64 { return float64(v) })
	}
}

func eachTyped[T dtype.Numeric](in *tensor.Tensor, fn func(pos int, v float64), widen func(T) float64) {
	data := tensor.MustData[T](in)
	n := in.Len()
	shape := in.Shape()
	stride := in.Stride()
	offset := in.Offset()
	if in.IsContiguous() {
		for i := 0; i < n; i++ {
			fn(i, widen(data[offset+i]))
		}
		return
	}
	for i := 0; i < n; i++ {
		coord := layout.FlatToCoord(i, shape)
		idx := offset + layout.CoordToFlat(coord, stride)
		fn(i, widen(data[idx]))
	}
}

// unaryPreserving applies op in T's native domain, preserving dtype
// (spec §4.C: "neg/abs/square preserve integer class").
func unaryPreserving[T dtype.Numeric](op UnaryOp, in *tensor.Tensor, outDt dtype.Dtype) (*tensor.Tensor, error) {
	fn, err := preservingFn[T](op, outDt)
	if err != nil {
		return nil, err
	}
	out := tensor.New(outDt, in.Shape())
	outData := tensor.MustData[T](out)
	inData := tensor.MustData[T](in)
	shape := in.Shape()
	stride := in.Stride()
	offset := in.Offset()
	n := in.Len()
	if in.IsContiguous() {
		for i := 0; i < n; i++ {
			outData[i] = fn(inData[offset+i])
		}
		return out, nil
	}
	for i := 0; i < n; i++ {
		coord := layout.FlatToCoord(i, shape)
		idx := offset + layout.CoordToFlat(coord, stride)
		outData[i] = fn(inData[idx])
	}
	return out, nil
}

func preservingFn[T dtype.Numeric](op UnaryOp, dt dtype.Dtype) (func(T) T, error) {
	switch op {
	case Neg:
		if !dt.Signed() {
			return nil, terrors.New(terrors.DtypeError, "neg is undefined for unsigned dtype %v", dt)
		}
		return func(v T) T { return -v }, nil
	case Abs:
		if !dt.Signed() {
			return func(v T) T { return v }, nil // spec §4.C: "for unsigned, abs is identity"
		}
		return func(v T) T {
			if v < 0 {
				return -v
			}
			return v
		}, nil
	case Square:
		return func(v T) T { return v * v }, nil
	default:
		return nil, terrors.New(terrors.DtypeError, "unary op %d does not preserve dtype", op)
	}
}
