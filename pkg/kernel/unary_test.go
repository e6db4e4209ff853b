package kernel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyperifyio/tensorcore/pkg/dtype"
	"github.com/hyperifyio/tensorcore/pkg/tensor"
)

func TestUnaryNegPreservesDtype(t *testing.T) {
	in, err := tensor.FromSlice[int32](dtype.I32, []int32{1, -2, 3}, []int{3})
	require.NoError(t, err)

	out, err := Unary(Neg, in)
	require.NoError(t, err)
	assert.Equal(t, dtype.I32, out.Dtype())
	assert.Equal(t, []int32{-1, 2, -3}, tensor.MustData[int32](out)[:3])
}

func TestUnaryNegRejectsUnsigned(t *testing.T) {
	in, err := tensor.FromSlice[uint8](dtype.U8, []uint8{1, 2}, []int{2})
	require.NoError(t, err)

	_, err = Unary(Neg, in)
	assert.Error(t, err)
}

func TestUnaryAbsUnsignedIsIdentity(t *testing.T) {
	in, err := tensor.FromSlice[uint16](dtype.U16, []uint16{1, 2}, []int{2})
	require.NoError(t, err)

	out, err := Unary(Abs, in)
	require.NoError(t, err)
	assert.Equal(t, []uint16{1, 2}, tensor.MustData[uint16](out)[:2])
}

func TestUnarySqrtWidensToF64(t *testing.T) {
	in, err := tensor.FromSlice[int32](dtype.I32, []int32{4, 9}, []int{2})
	require.NoError(t, err)

	out, err := Unary(Sqrt, in)
	require.NoError(t, err)
	assert.Equal(t, dtype.F64, out.Dtype())
	data := tensor.MustData[float64](out)
	assert.InDelta(t, 2.0, data[0], 1e-9)
	assert.InDelta(t, 3.0, data[1], 1e-9)
}

func TestUnarySquare(t *testing.T) {
	in, err := tensor.FromSlice[float32](dtype.F32, []float32{2, -3}, []int{2})
	require.NoError(t, err)

	out, err := Unary(Square, in)
	require.NoError(t, err)
	data := tensor.MustData[float32](out)
	assert.Equal(t, float32(4), data[0])
	assert.Equal(t, float32(9), data[1])
}
