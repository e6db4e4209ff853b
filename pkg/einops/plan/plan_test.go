package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyperifyio/tensorcore/pkg/dtype"
	"github.com/hyperifyio/tensorcore/pkg/einops/ast"
	"github.com/hyperifyio/tensorcore/pkg/einops/resolve"
	"github.com/hyperifyio/tensorcore/pkg/einops/validate"
	"github.com/hyperifyio/tensorcore/pkg/kernel"
	"github.com/hyperifyio/tensorcore/pkg/tensor"
)

// mustResolve parses and resolves pattern against inputShape, failing the
// test on any front-end error. It mirrors the parse->validate->resolve
// half of pkg/einops.Rearrange/Reduce/Repeat, without going through that
// package, so plan.Build* can be exercised directly.
func mustResolve(t *testing.T, pattern string, op validate.OpKind, inputShape []int, axisSizes map[string]int) *resolve.Resolved {
	t.Helper()
	p, err := ast.Parse(pattern)
	require.NoError(t, err)
	require.NoError(t, validate.Validate(p, op, axisSizes))
	r, err := resolve.Resolve(p, inputShape, axisSizes, op)
	require.NoError(t, err)
	return r
}

func TestBuildRearrange_Transpose(t *testing.T) {
	r := mustResolve(t, "h w -> w h", validate.Rearrange, []int{2, 3}, nil)
	pl, err := BuildRearrange(r)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 2}, pl.OutputShape)

	in, err := tensor.FromSlice[int32](dtype.I32, []int32{1, 2, 3, 4, 5, 6}, []int{2, 3})
	require.NoError(t, err)
	out, err := Execute(pl, in)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 2}, out.Shape())
	assert.Equal(t, []int32{1, 4, 2, 5, 3, 6}, tensor.MustData[int32](out)[:6])
}

func TestBuildRearrange_SplitAxis(t *testing.T) {
	r := mustResolve(t, "b (h w) -> b h w", validate.Rearrange, []int{1, 6}, map[string]int{"h": 2})
	pl, err := BuildRearrange(r)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, pl.OutputShape)
}

func TestBuildReduce_DropsAxisWithSum(t *testing.T) {
	r := mustResolve(t, "b c -> b", validate.Reduce, []int{2, 3}, nil)
	pl, err := BuildReduce(r, kernel.Sum)
	require.NoError(t, err)

	in, err := tensor.FromSlice[int32](dtype.I32, []int32{1, 2, 3, 4, 5, 6}, []int{2, 3})
	require.NoError(t, err)
	out, err := Execute(pl, in)
	require.NoError(t, err)
	assert.Equal(t, []int{2}, out.Shape())
	assert.Equal(t, []int32{6, 15}, tensor.MustData[int32](out)[:2])
}

func TestBuildReduceKeepDims_AppendsTrailingOnes(t *testing.T) {
	r := mustResolve(t, "b c -> b", validate.Reduce, []int{2, 3}, nil)
	pl, err := BuildReduceKeepDims(r, kernel.Sum, true)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 1}, pl.OutputShape)
}

func TestBuildRepeat_InsertsNewAxis(t *testing.T) {
	r := mustResolve(t, "w -> (w w2)", validate.Repeat, []int{3}, map[string]int{"w2": 2})
	pl, err := BuildRepeat(r)
	require.NoError(t, err)

	in, err := tensor.FromSlice[int32](dtype.I32, []int32{1, 2, 3}, []int{3})
	require.NoError(t, err)
	out, err := Execute(pl, in)
	require.NoError(t, err)
	assert.Equal(t, []int32{1, 1, 2, 2, 3, 3}, tensor.MustData[int32](out)[:6])
}

func TestBuildRearrange_RejectsDroppedAxis(t *testing.T) {
	// validate.Rearrange would already reject "b c -> b" (not a
	// permutation), so resolve it under the Reduce rules instead and
	// exercise the planner's own guard directly by calling build with no
	// reduce op.
	r := mustResolve(t, "b c -> b", validate.Reduce, []int{2, 3}, nil)
	_, err := build(r, nil, false)
	assert.Error(t, err)
}
