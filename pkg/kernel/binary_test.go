package kernel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyperifyio/tensorcore/pkg/dtype"
	"github.com/hyperifyio/tensorcore/pkg/tensor"
)

func TestBinaryAddSameDtypeExact(t *testing.T) {
	a, err := tensor.FromSlice[int32](dtype.I32, []int32{1, 2, 3}, []int{3})
	require.NoError(t, err)
	b, err := tensor.FromSlice[int32](dtype.I32, []int32{10, 20, 30}, []int{3})
	require.NoError(t, err)

	out, err := Binary(Add, a, b)
	require.NoError(t, err)
	assert.Equal(t, dtype.I32, out.Dtype())
	assert.Equal(t, []int32{11, 22, 33}, tensor.MustData[int32](out)[:3])
}

func TestBinaryAddSubRoundTripIsExact(t *testing.T) {
	a, err := tensor.FromSlice[int32](dtype.I32, []int32{100}, []int{1})
	require.NoError(t, err)
	b, err := tensor.FromSlice[int32](dtype.I32, []int32{37}, []int{1})
	require.NoError(t, err)

	sum, err := Binary(Add, a, b)
	require.NoError(t, err)
	back, err := Binary(Sub, sum, b)
	require.NoError(t, err)
	assert.Equal(t, tensor.MustData[int32](a)[:1], tensor.MustData[int32](back)[:1])
}

func TestBinaryMixedDtypePromotesToF64(t *testing.T) {
	a, err := tensor.FromSlice[int32](dtype.I32, []int32{1, 2}, []int{2})
	require.NoError(t, err)
	b, err := tensor.FromSlice[float32](dtype.F32, []float32{0.5, 0.5}, []int{2})
	require.NoError(t, err)

	out, err := Binary(Add, a, b)
	require.NoError(t, err)
	assert.Equal(t, dtype.F64, out.Dtype())
	assert.InDeltaSlice(t, []float64{1.5, 2.5}, tensor.MustData[float64](out)[:2], 1e-9)
}

func TestBinaryBroadcasts(t *testing.T) {
	a, err := tensor.FromSlice[float64](dtype.F64, []float64{1, 2, 3, 4, 5, 6}, []int{2, 3})
	require.NoError(t, err)
	b, err := tensor.FromSlice[float64](dtype.F64, []float64{10, 20, 30}, []int{3})
	require.NoError(t, err)

	out, err := Binary(Add, a, b)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3}, out.Shape())
	assert.Equal(t, []float64{11, 22, 33, 14, 25, 36}, tensor.MustData[float64](out)[:6])
}

func TestBinaryIntegerDivisionByZeroErrors(t *testing.T) {
	a, err := tensor.FromSlice[int32](dtype.I32, []int32{10}, []int{1})
	require.NoError(t, err)
	b, err := tensor.FromSlice[int32](dtype.I32, []int32{0}, []int{1})
	require.NoError(t, err)

	_, err = Binary(Div, a, b)
	assert.Error(t, err)
}

func TestBinaryWideDivisionByZeroSentinel(t *testing.T) {
	a, err := tensor.FromSlice[int64](dtype.I64, []int64{5, -5}, []int{2})
	require.NoError(t, err)
	b, err := tensor.FromSlice[int64](dtype.I64, []int64{0, 0}, []int{2})
	require.NoError(t, err)

	out, err := Binary(Div, a, b)
	require.NoError(t, err)
	maxW, minW := dtype.I64.WideExtremes()
	assert.Equal(t, []int64{maxW, minW}, tensor.MustData[int64](out)[:2])
}

func TestBinaryWideUnsignedDivisionByZeroSentinel(t *testing.T) {
	a, err := tensor.FromSlice[uint64](dtype.U64, []uint64{7}, []int{1})
	require.NoError(t, err)
	b, err := tensor.FromSlice[uint64](dtype.U64, []uint64{0}, []int{1})
	require.NoError(t, err)

	out, err := Binary(Div, a, b)
	require.NoError(t, err)
	maxW, _ := dtype.WideExtremesU64()
	assert.Equal(t, maxW, tensor.MustData[uint64](out)[0])
}
