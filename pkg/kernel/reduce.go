package kernel

import (
	"github.com/hyperifyio/tensorcore/pkg/dtype"
	"github.com/hyperifyio/tensorcore/pkg/layout"
	"github.com/hyperifyio/tensorcore/pkg/tensor"
	"github.com/hyperifyio/tensorcore/pkg/terrors"
)

// ReduceOp names a reduction kernel primitive. Sum and Mean are named by
// spec §4.C; Max and Min are the extension spec §4.C explicitly leaves
// room for ("extendable to max/min") and SPEC_FULL §3 adopts.
type ReduceOp int

const (
	Sum ReduceOp = iota
	Mean
	Max
	Min
)

// WideInt is the set of dtypes that use the dedicated wide-integer
// accumulation path (spec §4.C: "Accumulator is ... wide integer for
// wide int inputs").
type WideInt interface{ int64 | uint64 }

// Reduce reduces in over axes (nil = all axes / global reduction,
// non-nil empty = identity copy, otherwise the given axes normalized
// per spec §4.C) combining elements with op, per spec §4.C.
func Reduce(op ReduceOp, in *tensor.Tensor, axes []int, keepDims bool) (*tensor.Tensor, error) {
	rank := in.Rank()

	if axes != nil && len(axes) == 0 {
		return in.Clone(), nil
	}

	var reduceAxes map[int]bool
	if axes == nil {
		reduceAxes = make(map[int]bool, rank)
		for i := 0; i < rank; i++ {
			reduceAxes[i] = true
		}
	} else {
		var err error
		reduceAxes, err = normalizeAxes(axes, rank)
		if err != nil {
			return nil, err
		}
	}

	outShape := computeReduceOutShape(in.Shape(), reduceAxes, keepDims)

	if in.Dtype().IsWide() {
		if in.Dtype() == dtype.I64 {
			return reduceWide[int64](op, in, reduceAxes, outShape, keepDims, dtype.I64)
		}
		return reduceWide[uint64](op, in, reduceAxes, outShape, keepDims, dtype.U64)
	}
	return reduceNonWide(op, in, reduceAxes, outShape, keepDims)
}

func normalizeAxes(axes []int, rank int) (map[int]bool, error) {
	m := make(map[int]bool, len(axes))
	for _, a := range axes {
		orig := a
		if a < 0 {
			a += rank
		}
		if a < 0 || a >= rank {
			return nil, terrors.New(terrors.ShapeError, "reduce axis %d out of range for rank %d", orig, rank)
		}
		if m[a] {
			return nil, terrors.New(terrors.ShapeError, "duplicate reduce axis %d", a)
		}
		m[a] = true
	}
	return m, nil
}

func computeReduceOutShape(shape []int, reduceAxes map[int]bool, keepDims bool) []int {
	if keepDims {
		out := append([]int(nil), shape...)
		for a := range reduceAxes {
			out[a] = 1
		}
		return out
	}
	out := make([]int, 0, len(shape))
	for i, d := range shape {
		if !reduceAxes[i] {
			out = append(out, d)
		}
	}
	return out
}

// projectCoord maps an input coordinate to the output coordinate it
// contributes to: reduced dims are zeroed when keepDims is set, or
// dropped entirely otherwise.
func projectCoord(coord []int, reduceAxes map[int]bool, keepDims bool) []int {
	if keepDims {
		out := append([]int(nil), coord...)
		for a := range reduceAxes {
			out[a] = 0
		}
		return out
	}
	out := make([]int, 0, len(coord))
	for i, c := range coord {
		if !reduceAxes[i] {
			out = append(out, c)
		}
	}
	return out
}

// reduceNonWide handles every dtype except I64/U64: the accumulator is
// always float64 (spec §4.C: "f64 ... otherwise"), and the output dtype
// is the input dtype for Sum/Max/Min (cast back from the accumulator)
// or F64 for Mean (a mean of integers is generally fractional).
func reduceNonWide(op ReduceOp, in *tensor.Tensor, reduceAxes map[int]bool, outShape []int, keepDims bool) (*tensor.Tensor, error) {
	n := layout.Len(outShape)
	acc := make([]float64, n)
	cnt := make([]int, n)
	outStride := layout.ComputeStrides(outShape)
	shape := in.Shape()

	each(in, func(pos int, v float64) {
		coord := layout.FlatToCoord(pos, shape)
		outCoord := projectCoord(coord, reduceAxes, keepDims)
		of := layout.CoordToFlat(outCoord, outStride)
		switch op {
		case Sum, Mean:
			acc[of] += v
			cnt[of]++
		case Max:
			if cnt[of] == 0 || v > acc[of] {
				acc[of] = v
			}
			cnt[of]++
		case Min:
			if cnt[of] == 0 || v < acc[of] {
				acc[of] = v
			}
			cnt[of]++
		}
	})

	if op == Mean {
		for i := range acc {
			if cnt[i] > 0 {
				acc[i] /= float64(cnt[i])
			}
		}
	}

	outDt := in.Dtype()
	if op == Mean {
		outDt = dtype.F64
	}
	out := tensor.New(outDt, outShape)
	castFromFloat64(out, acc)
	return out, nil
}

func castFromFloat64(out *tensor.Tensor, acc []float64) {
	switch out.Dtype() {
	case dtype.I8:
		dst := tensor.MustData[int8](out)
		for i, v := range acc {
			dst[i] = int8(v)
		}
	case dtype.U8:
		dst := tensor.MustData[uint8](out)
		for i, v := range acc {
			dst[i] = uint8(v)
		}
	case dtype.I16:
		dst := tensor.MustData[int16](out)
		for i, v := range acc {
			dst[i] = int16(v)
		}
	case dtype.U16:
		dst := tensor.MustData[uint16](out)
		for i, v := range acc {
			dst[i] = uint16(v)
		}
	case dtype.I32:
		dst := tensor.MustData[int32](out)
		for i, v := range acc {
			dst[i] = int32(v)
		}
	case dtype.U32:
		dst := tensor.MustData[uint32](out)
		for i, v := range acc {
			dst[i] = uint32(v)
		}
	case dtype.F32:
		dst := tensor.MustData[float32](out)
		for i, v := range acc {
			dst[i] = float32(v)
		}
	case dtype.F64:
		copy(tensor.MustData[float64](out), acc)
	}
}

// reduceWide handles I64/U64 inputs with a native-domain accumulator,
// per spec §4.C.
func reduceWide[T WideInt](op ReduceOp, in *tensor.Tensor, reduceAxes map[int]bool, outShape []int, keepDims bool, outDt dtype.Dtype) (*tensor.Tensor, error) {
	data := tensor.MustData[T](in)
	shape := in.Shape()
	stride := in.Stride()
	offset := in.Offset()
	outStride := layout.ComputeStrides(outShape)

	n := layout.Len(outShape)
	acc := make([]T, n)
	cnt := make([]int, n)
	have := make([]bool, n)

	inLen := in.Len()
	for pos := 0; pos < inLen; pos++ {
		coord := layout.FlatToCoord(pos, shape)
		idx := offset + layout.CoordToFlat(coord, stride)
		v := data[idx]
		outCoord := projectCoord(coord, reduceAxes, keepDims)
		of := layout.CoordToFlat(outCoord, outStride)
		switch op {
		case Sum, Mean:
			acc[of] += v
			cnt[of]++
		case Max:
			if !have[of] || v > acc[of] {
				acc[of] = v
			}
			have[of] = true
			cnt[of]++
		case Min:
			if !have[of] || v < acc[of] {
				acc[of] = v
			}
			have[of] = true
			cnt[of]++
		}
	}

	if op == Mean {
		for i := range acc {
			if cnt[i] > 0 {
				acc[i] = acc[i] / T(cnt[i])
			}
		}
	}

	out := tensor.New(outDt, outShape)
	copy(tensor.MustData[T](out), acc)
	return out, nil
}
