package kernel

import (
	"gonum.org/v1/gonum/floats"

	"github.com/hyperifyio/tensorcore/pkg/dtype"
	"github.com/hyperifyio/tensorcore/pkg/layout"
	"github.com/hyperifyio/tensorcore/pkg/tensor"
	"github.com/hyperifyio/tensorcore/pkg/terrors"
)

// MatMul multiplies a and b following NumPy's matmul stacking rules
// (spec §4.C): a 1-D operand is promoted to a matrix by prepending
// (lhs) or appending (rhs) a size-1 axis, then squeezed back out of
// the result; the trailing two dimensions of each operand are treated
// as matrices and every dimension before that is a broadcast batch
// dimension. The output dtype follows PromoteBinary, matching the
// element-wise ops' promotion table (spec §4.C).
//
// The 2-D dot-product inner loop is delegated to
// gonum.org/v1/gonum/floats.Dot (SPEC_FULL §2), keeping the batching
// and broadcasting logic here and the numerically-sensitive
// accumulation in a vetted library routine.
func MatMul(a, b *tensor.Tensor) (*tensor.Tensor, error) {
	if a.Rank() == 0 || b.Rank() == 0 {
		return nil, terrors.New(terrors.ShapeError, "matmul operands must have rank >= 1, got ranks %d and %d", a.Rank(), b.Rank())
	}

	aIs1D := a.Rank() == 1
	bIs1D := b.Rank() == 1

	aMat := a
	if aIs1D {
		var err error
		aMat, err = tensor.Reshape(a, []int{1, a.Shape()[0]})
		if err != nil {
			return nil, err
		}
	}
	bMat := b
	if bIs1D {
		var err error
		bMat, err = tensor.Reshape(b, []int{b.Shape()[0], 1})
		if err != nil {
			return nil, err
		}
	}

	aShape := aMat.Shape()
	bShape := bMat.Shape()
	aRows, aCols := aShape[len(aShape)-2], aShape[len(aShape)-1]
	bRows, bCols := bShape[len(bShape)-2], bShape[len(bShape)-1]
	if aCols != bRows {
		return nil, terrors.New(terrors.ShapeError, "matmul inner dimensions do not match: %d vs %d", aCols, bRows)
	}
	aBatch := aShape[:len(aShape)-2]
	bBatch := bShape[:len(bShape)-2]

	batchShape, err := layout.BroadcastShapes(aBatch, bBatch)
	if err != nil {
		return nil, err
	}
	outDt := PromoteBinary(a.Dtype(), b.Dtype())

	aTarget := append(append([]int{}, batchShape...), aRows, aCols)
	bTarget := append(append([]int{}, batchShape...), bRows, bCols)
	aExp, err := tensor.Expand(aMat, aTarget)
	if err != nil {
		return nil, err
	}
	bExp, err := tensor.Expand(bMat, bTarget)
	if err != nil {
		return nil, err
	}

	fullShape := append(append([]int{}, batchShape...), aRows, bCols)
	out := tensor.New(outDt, fullShape)

	if outDt.IsWide() {
		if outDt == dtype.I64 {
			matmulWide[int64](aExp, bExp, out, batchShape, aRows, aCols, bCols)
		} else {
			matmulWide[uint64](aExp, bExp, out, batchShape, aRows, aCols, bCols)
		}
	} else {
		matmulFloat(aExp, bExp, out, batchShape, aRows, aCols, bCols)
	}

	// Squeeze back the axes introduced by 1-D promotion: the last
	// dimension (size bCols==1) if b was promoted, the second-to-last
	// (size aRows==1) if a was promoted.
	if !aIs1D && !bIs1D {
		return out, nil
	}
	finalShape := make([]int, 0, len(fullShape))
	lastIdx := len(fullShape) - 1
	secondLastIdx := len(fullShape) - 2
	for i, d := range fullShape {
		if bIs1D && i == lastIdx {
			continue
		}
		if aIs1D && i == secondLastIdx {
			continue
		}
		finalShape = append(finalShape, d)
	}
	return tensor.Reshape(out, finalShape)
}

// matmulFloat handles every non-wide output dtype: each dot product is
// computed in float64 via gonum's floats.Dot and cast back to the
// output dtype (spec §4.C "f64 ... otherwise" accumulation rule, same
// as Reduce).
func matmulFloat(aExp, bExp, out *tensor.Tensor, batchShape []int, rows, inner, cols int) {
	outStride := out.Stride()
	batchLen := layout.Len(batchShape)

	rowBuf := make([]float64, inner)
	colBuf := make([]float64, inner)

	aStride := aExp.Stride()
	bStride := bExp.Stride()
	aRowStride, aColStride := aStride[len(aStride)-2], aStride[len(aStride)-1]
	bRowStride, bColStride := bStride[len(bStride)-2], bStride[len(bStride)-1]

	for bi := 0; bi < batchLen; bi++ {
		batchCoord := layout.FlatToCoord(bi, batchShape)
		aBase := aExp.Offset() + batchBase(aExp, batchCoord)
		bBase := bExp.Offset() + batchBase(bExp, batchCoord)
		outBase := layout.CoordToFlat(batchCoord, outStride[:len(batchShape)])

		for i := 0; i < rows; i++ {
			for k := 0; k < inner; k++ {
				rowBuf[k] = widenAt(aExp, aBase+i*aRowStride+k*aColStride)
			}
			for j := 0; j < cols; j++ {
				for k := 0; k < inner; k++ {
					colBuf[k] = widenAt(bExp, bBase+k*bRowStride+j*bColStride)
				}
				v := floats.Dot(rowBuf, colBuf)
				of := outBase + i*cols + j
				castScalarFromFloat64(out, of, v)
			}
		}
	}
}

// matmulWide handles matmul where both operands share a wide integer
// dtype: the dot product accumulates natively in T, avoiding the
// float64 precision loss that would defeat the wide-integer contract
// (spec §4.C).
func matmulWide[T WideInt](aExp, bExp, out *tensor.Tensor, batchShape []int, rows, inner, cols int) {
	aData := tensor.MustData[T](aExp)
	bData := tensor.MustData[T](bExp)
	outData := tensor.MustData[T](out)
	outStride := out.Stride()
	batchLen := layout.Len(batchShape)

	aStride := aExp.Stride()
	bStride := bExp.Stride()
	aRowStride, aColStride := aStride[len(aStride)-2], aStride[len(aStride)-1]
	bRowStride, bColStride := bStride[len(bStride)-2], bStride[len(bStride)-1]

	for bi := 0; bi < batchLen; bi++ {
		batchCoord := layout.FlatToCoord(bi, batchShape)
		aBase := aExp.Offset() + batchBase(aExp, batchCoord)
		bBase := bExp.Offset() + batchBase(bExp, batchCoord)
		outBase := layout.CoordToFlat(batchCoord, outStride[:len(batchShape)])

		for i := 0; i < rows; i++ {
			for j := 0; j < cols; j++ {
				var sum T
				for k := 0; k < inner; k++ {
					x := aData[aBase+i*aRowStride+k*aColStride]
					y := bData[bBase+k*bRowStride+j*bColStride]
					sum += x * y
				}
				outData[outBase+i*cols+j] = sum
			}
		}
	}
}

// batchBase computes the flat offset (excluding t.Offset()) of the
// matrix located at batchCoord within t's leading batch dimensions.
func batchBase(t *tensor.Tensor, batchCoord []int) int {
	stride := t.Stride()
	base := 0
	for i, c := range batchCoord {
		base += c * stride[i]
	}
	return base
}

func castScalarFromFloat64(out *tensor.Tensor, idx int, v float64) {
	switch out.Dtype() {
	case dtype.I8:
		tensor.MustData[int8](out)[idx] = int8(v)
	case dtype.U8:
		tensor.MustData[uint8](out)[idx] = uint8(v)
	case dtype.I16:
		tensor.MustData[int16](out)[idx] = int16(v)
	case dtype.U16:
		tensor.MustData[uint16](out)[idx] = uint16(v)
	case dtype.I32:
		tensor.MustData[int32](out)[idx] = int32(v)
	case dtype.U32:
		tensor.MustData[uint32](out)[idx] = uint32(v)
	case dtype.F32:
		tensor.MustData[float32](out)[idx] = float32(v)
	case dtype.F64:
		tensor.MustData[float64](out)[idx] = v
	}
}
