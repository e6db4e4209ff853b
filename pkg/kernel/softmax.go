package kernel

import (
	"math"

	"github.com/hyperifyio/tensorcore/pkg/dtype"
	"github.com/hyperifyio/tensorcore/pkg/layout"
	"github.com/hyperifyio/tensorcore/pkg/tensor"
	"github.com/hyperifyio/tensorcore/pkg/terrors"
)

// Softmax computes a numerically stable softmax of in along axis,
// per spec §4.C: subtract the per-axis max before exponentiating so
// large inputs do not overflow, then normalize by the per-axis sum.
// Like the other float-output ops, integer inputs are widened to f64
// first and the result is always f64.
func Softmax(in *tensor.Tensor, axis int) (*tensor.Tensor, error) {
	return softmaxImpl(in, axis, false)
}

// LogSoftmax computes log(Softmax(in, axis)) without the intermediate
// division, computing x - max - log(sum(exp(x - max))) directly for
// better numerical precision near zero (spec §4.C).
func LogSoftmax(in *tensor.Tensor, axis int) (*tensor.Tensor, error) {
	return softmaxImpl(in, axis, true)
}

func softmaxImpl(in *tensor.Tensor, axis int, logForm bool) (*tensor.Tensor, error) {
	rank := in.Rank()
	if axis < 0 {
		axis += rank
	}
	if axis < 0 || axis >= rank {
		return nil, terrors.New(terrors.ShapeError, "softmax axis %d out of range for rank %d", axis, rank)
	}

	shape := in.Shape()
	axisLen := shape[axis]
	if axisLen == 0 {
		return tensor.New(dtype.F64, shape), nil
	}

	out := tensor.New(dtype.F64, shape)
	outData := tensor.MustData[float64](out)
	outStride := out.Stride()

	outerShape := make([]int, 0, rank-1)
	for i, d := range shape {
		if i != axis {
			outerShape = append(outerShape, d)
		}
	}
	outerLen := layout.Len(outerShape)

	fullCoord := make([]int, rank)
	for outerPos := 0; outerPos < outerLen; outerPos++ {
		outerCoord := layout.FlatToCoord(outerPos, outerShape)
		j := 0
		for i := 0; i < rank; i++ {
			if i == axis {
				fullCoord[i] = 0
			} else {
				fullCoord[i] = outerCoord[j]
				j++
			}
		}
		base := layout.CoordToFlat(fullCoord, outStride)
		stepOut := outStride[axis]

		max := math.Inf(-1)
		for k := 0; k < axisLen; k++ {
			fullCoord[axis] = k
			v := widenCoord(in, fullCoord)
			if v > max {
				max = v
			}
		}

		sum := 0.0
		for k := 0; k < axisLen; k++ {
			fullCoord[axis] = k
			v := widenCoord(in, fullCoord)
			e := math.Exp(v - max)
			outData[base+k*stepOut] = e
			sum += e
		}

		if logForm {
			logSum := math.Log(sum)
			for k := 0; k < axisLen; k++ {
				fullCoord[axis] = k
				outData[base+k*stepOut] = widenCoord(in, fullCoord) - max - logSum
			}
		} else {
			for k := 0; k < axisLen; k++ {
				outData[base+k*stepOut] /= sum
			}
		}
	}
	return out, nil
}

// widenCoord reads the element of t at coord and widens it to float64,
// regardless of t's concrete dtype.
func widenCoord(t *tensor.Tensor, coord []int) float64 {
	idx := t.Offset() + layout.CoordToFlat(coord, t.Stride())
	return widenAt(t, idx)
}
