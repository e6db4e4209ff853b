package kernel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyperifyio/tensorcore/pkg/dtype"
	"github.com/hyperifyio/tensorcore/pkg/tensor"
)

func TestSliceExtractsRegion(t *testing.T) {
	in, err := tensor.FromSlice[int32](dtype.I32, []int32{1, 2, 3, 4, 5, 6, 7, 8, 9}, []int{3, 3})
	require.NoError(t, err)

	out, err := Slice(in, []int{1, 1}, []int{3, 3})
	require.NoError(t, err)
	assert.Equal(t, []int{2, 2}, out.Shape())
	assert.Equal(t, []int32{5, 6, 8, 9}, tensor.MustData[int32](out)[:4])
}

func TestSliceOutOfBoundsErrors(t *testing.T) {
	in, err := tensor.FromSlice[int32](dtype.I32, []int32{1, 2, 3, 4}, []int{2, 2})
	require.NoError(t, err)

	_, err = Slice(in, []int{0, 0}, []int{3, 2})
	assert.Error(t, err)
}
