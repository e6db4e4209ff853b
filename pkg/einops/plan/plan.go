// Package plan turns a resolved einops pattern (pkg/einops/resolve) into
// an ordered list of kernel-level steps, and executes that list against
// a concrete tensor (spec §4.G, "Planner & Executor").
//
// Every step is one of the five primitives the kernel already exposes
// as no-copy-where-possible view operations: Reshape, Permute, Expand
// (spec's "Tile"), Reduce, or a no-op Identity. Rearrange and reduce
// share one plan shape (flatten, permute, optionally reduce, merge);
// repeat additionally inserts new axes via a reshape-then-expand pair,
// the reshape→tile→reshape plan SPEC_FULL.md §3 describes (repeat has no
// other strategy).
package plan

import (
	"github.com/hyperifyio/tensorcore/pkg/einops/resolve"
	"github.com/hyperifyio/tensorcore/pkg/kernel"
	"github.com/hyperifyio/tensorcore/pkg/terrors"
)

// StepKind tags one plan step's variant (spec §9's tagged-union design:
// a new StepKind must be added to Executor's switch, which returns a
// ShapeError on an unrecognized kind rather than silently skipping it).
type StepKind int

const (
	Identity StepKind = iota
	Reshape
	Permute
	Expand
	ReduceStep
)

// Step is one unit of the plan. Only the fields relevant to Kind are
// populated.
type Step struct {
	Kind       StepKind
	Shape      []int
	Perm       []int
	ReduceOp   kernel.ReduceOp
	ReduceAxes []int
	KeepDims   bool
}

// Plan is the ordered list of Steps a pattern compiles to, plus the
// shape the final tensor must have.
type Plan struct {
	Steps       []Step
	OutputShape []int
}

// slot is one position in the pre-merge flattened output axis order:
// either an axis carried over from the input (fromInput) or one that
// must be inserted from scratch (a literal singleton or a repeat's new
// axis).
type slot struct {
	name       string
	size       int
	fromInput  bool
}

// BuildRearrange compiles a rearrange pattern's resolved form into a
// Plan: no axes are dropped, so ReduceStep is never emitted.
func BuildRearrange(r *resolve.Resolved) (*Plan, error) {
	return build(r, nil, false)
}

// BuildReduce compiles a reduce pattern's resolved form into a Plan.
// Axes present in the input's flattened order but absent from the
// output are reduced with op.
func BuildReduce(r *resolve.Resolved, op kernel.ReduceOp) (*Plan, error) {
	return build(r, &op, false)
}

// BuildReduceKeepDims is BuildReduce with keep_dims support (spec §4.C's
// keep_dims flag, threaded through einops_reduce per SPEC_FULL §0). Each
// axis the output pattern drops is preserved as a trailing size-1
// dimension instead of disappearing from the result's rank — the
// pattern itself still only names the kept axes, so keep_dims does not
// change which axis occupies which *named* position, only whether the
// dropped ones leave a trailing 1 behind.
func BuildReduceKeepDims(r *resolve.Resolved, op kernel.ReduceOp, keepDims bool) (*Plan, error) {
	return build(r, &op, keepDims)
}

// BuildRepeat compiles a repeat pattern's resolved form into a Plan.
// Output axes with no counterpart in the input are inserted via an
// Expand (broadcast-from-1) step.
func BuildRepeat(r *resolve.Resolved) (*Plan, error) {
	return build(r, nil, false)
}

func build(r *resolve.Resolved, reduceOp *kernel.ReduceOp, keepDims bool) (*Plan, error) {
	slots := flattenSlots(r)

	keepSet := make(map[string]bool, len(slots))
	for _, s := range slots {
		if s.fromInput {
			keepSet[s.name] = true
		}
	}

	inputOrder := make([]string, len(r.InputFlat))
	for i, fa := range r.InputFlat {
		inputOrder[i] = fa.Name
	}

	var reduceAxes []int
	var baseOrder []string
	for i, name := range inputOrder {
		if keepSet[name] {
			baseOrder = append(baseOrder, name)
		} else {
			reduceAxes = append(reduceAxes, i)
		}
	}
	if reduceOp == nil && len(reduceAxes) > 0 {
		return nil, terrors.New(terrors.ShapeError, "pattern drops input axes without a reduce operation")
	}

	fullySplitShape := make([]int, len(r.InputFlat))
	for i, fa := range r.InputFlat {
		fullySplitShape[i] = fa.Size
	}

	var steps []Step
	steps = append(steps, Step{Kind: Reshape, Shape: append([]int(nil), fullySplitShape...)})

	currentShape := fullySplitShape
	currentOrder := inputOrder

	if len(reduceAxes) > 0 {
		steps = append(steps, Step{Kind: ReduceStep, ReduceOp: *reduceOp, ReduceAxes: reduceAxes, KeepDims: false})
		currentOrder = baseOrder
		currentShape = sizesOf(r, baseOrder)
	}

	wantOrder := make([]string, 0, len(currentOrder))
	for _, s := range slots {
		if s.fromInput {
			wantOrder = append(wantOrder, s.name)
		}
	}

	perm, err := permutationOf(currentOrder, wantOrder)
	if err != nil {
		return nil, err
	}
	steps = appendPermute(steps, perm)
	currentShape = permuteShape(currentShape, perm)

	hasInserts := false
	for _, s := range slots {
		if !s.fromInput {
			hasInserts = true
			break
		}
	}

	if hasInserts {
		preExpand := make([]int, len(slots))
		target := make([]int, len(slots))
		next := 0
		for i, s := range slots {
			if s.fromInput {
				preExpand[i] = currentShape[next]
				next++
			} else {
				preExpand[i] = 1
			}
			target[i] = s.size
		}
		steps = append(steps, Step{Kind: Reshape, Shape: append([]int(nil), preExpand...)})
		steps = append(steps, Step{Kind: Expand, Shape: append([]int(nil), target...)})
		currentShape = target
	}

	finalShape := append([]int(nil), r.OutputShape...)
	if keepDims && len(reduceAxes) > 0 {
		// Reshape is agnostic to where trailing size-1 dims land in the
		// target shape (the element count and row-major order are
		// unchanged), so appending one 1 per dropped axis here is
		// sufficient to satisfy keep_dims without re-deriving a
		// position for each dropped axis among the named ones.
		for range reduceAxes {
			finalShape = append(finalShape, 1)
		}
	}

	// After a Permute or an Expand, the tensor is a non-contiguous view
	// (reordered strides, or stride-0 broadcast dims); force a final
	// materializing reshape so the result is always contiguous even when
	// the target shape already matches.
	permuted := !isIdentityPerm(perm)
	if hasInserts || permuted || !shapesEqual(currentShape, finalShape) {
		steps = append(steps, Step{Kind: Reshape, Shape: append([]int(nil), finalShape...)})
	}

	if len(steps) == 0 {
		steps = []Step{{Kind: Identity}}
	}

	return &Plan{Steps: steps, OutputShape: finalShape}, nil
}

// flattenSlots walks r.OutputGroups into the pre-merge, ungrouped axis
// order: one slot per name in every group, plus one anonymous
// size-1 slot for each empty (singleton) group.
func flattenSlots(r *resolve.Resolved) []slot {
	inputNames := make(map[string]bool, len(r.InputFlat))
	for _, fa := range r.InputFlat {
		inputNames[fa.Name] = true
	}

	var slots []slot
	for gi, g := range r.OutputGroups {
		if len(g.Names) == 0 {
			slots = append(slots, slot{name: syntheticSingletonName(gi), size: 1, fromInput: false})
			continue
		}
		for _, name := range g.Names {
			slots = append(slots, slot{name: name, size: r.AxisDims[name], fromInput: inputNames[name]})
		}
	}
	return slots
}

func syntheticSingletonName(i int) string {
	return "__singleton_" + itoa(i)
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	digits := []byte{}
	for i > 0 {
		digits = append([]byte{byte('0' + i%10)}, digits...)
		i /= 10
	}
	return string(digits)
}

func sizesOf(r *resolve.Resolved, order []string) []int {
	out := make([]int, len(order))
	for i, name := range order {
		out[i] = r.AxisDims[name]
	}
	return out
}

// permutationOf returns perm such that applying Permute(perm) to a
// tensor whose axes are in `from` order yields `to` order: perm[i] is
// the position in `from` of the axis that should end up at output
// position i.
func permutationOf(from, to []string) ([]int, error) {
	if len(from) != len(to) {
		return nil, terrors.New(terrors.ShapeError, "internal error: axis count mismatch (%d vs %d) while building permutation", len(from), len(to))
	}
	pos := make(map[string]int, len(from))
	for i, n := range from {
		pos[n] = i
	}
	perm := make([]int, len(to))
	for i, n := range to {
		p, ok := pos[n]
		if !ok {
			return nil, terrors.New(terrors.ShapeError, "internal error: axis %q missing while building permutation", n)
		}
		perm[i] = p
	}
	return perm, nil
}

func permuteShape(shape []int, perm []int) []int {
	out := make([]int, len(perm))
	for i, p := range perm {
		out[i] = shape[p]
	}
	return out
}

func isIdentityPerm(perm []int) bool {
	for i, p := range perm {
		if p != i {
			return false
		}
	}
	return true
}

func appendPermute(steps []Step, perm []int) []Step {
	if isIdentityPerm(perm) {
		return steps
	}
	return append(steps, Step{Kind: Permute, Perm: append([]int(nil), perm...)})
}

func shapesEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
