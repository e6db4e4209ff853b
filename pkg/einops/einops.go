// Package einops wires the pattern engine's four stages (scanner/ast,
// validate, resolve, plan) into the three operations spec §6 exposes to
// callers: Rearrange, Reduce, and Repeat. Each is parse → validate →
// resolve → plan → execute, in that order, per spec §4.G's "Failure
// semantics": a parser/validator/resolver error surfaces before any
// plan step runs, so a failing call never mutates or partially
// populates an output tensor.
package einops

import (
	"github.com/hyperifyio/tensorcore/pkg/einops/ast"
	"github.com/hyperifyio/tensorcore/pkg/einops/plan"
	"github.com/hyperifyio/tensorcore/pkg/einops/resolve"
	"github.com/hyperifyio/tensorcore/pkg/einops/validate"
	"github.com/hyperifyio/tensorcore/pkg/kernel"
	"github.com/hyperifyio/tensorcore/pkg/tensor"
	"github.com/hyperifyio/tensorcore/pkg/tlog"
)

// Rearrange permutes/reshapes in according to pattern (e.g.
// "b (h ph) (w pw) c -> b h w (ph pw c)"), per spec §4.G. axisSizes
// supplies hints for composite axes the shape alone cannot factor
// (at most one unknown per composite); pass nil when the pattern is
// fully determined by in's shape.
func Rearrange(in *tensor.Tensor, pattern string, axisSizes map[string]int) (*tensor.Tensor, error) {
	p, r, err := parseAndResolve(pattern, validate.Rearrange, in.Shape(), axisSizes)
	if err != nil {
		return nil, err
	}
	pl, err := plan.BuildRearrange(r)
	if err != nil {
		return nil, err
	}
	tlog.DebugLogf("einops: rearrange %q -> %d plan step(s), output shape %v", p.Meta.Source, len(pl.Steps), pl.OutputShape)
	out, err := plan.Execute(pl, in)
	if err != nil {
		return nil, err
	}
	return attachOutputNames(out, r, pl), nil
}

// Reduce applies op along the axes present in the input side of
// pattern but absent from its output side, per spec §4.G. keepDims
// mirrors the reduce kernel's keep_dims flag (spec §4.C): when true,
// reduced axes are kept as size-1 dims instead of being dropped.
func Reduce(in *tensor.Tensor, pattern string, op kernel.ReduceOp, axisSizes map[string]int, keepDims bool) (*tensor.Tensor, error) {
	p, r, err := parseAndResolve(pattern, validate.Reduce, in.Shape(), axisSizes)
	if err != nil {
		return nil, err
	}
	pl, err := plan.BuildReduceKeepDims(r, op, keepDims)
	if err != nil {
		return nil, err
	}
	tlog.DebugLogf("einops: reduce %q -> %d plan step(s), output shape %v", p.Meta.Source, len(pl.Steps), pl.OutputShape)
	out, err := plan.Execute(pl, in)
	if err != nil {
		return nil, err
	}
	return attachOutputNames(out, r, pl), nil
}

// Repeat expands in according to pattern, introducing any axis named
// only on the output side with the size given in axisSizes (spec
// §4.E/§4.G: "new" axes must have explicit positive sizes).
func Repeat(in *tensor.Tensor, pattern string, axisSizes map[string]int) (*tensor.Tensor, error) {
	p, r, err := parseAndResolve(pattern, validate.Repeat, in.Shape(), axisSizes)
	if err != nil {
		return nil, err
	}
	pl, err := plan.BuildRepeat(r)
	if err != nil {
		return nil, err
	}
	tlog.DebugLogf("einops: repeat %q -> %d plan step(s), output shape %v", p.Meta.Source, len(pl.Steps), pl.OutputShape)
	out, err := plan.Execute(pl, in)
	if err != nil {
		return nil, err
	}
	return attachOutputNames(out, r, pl), nil
}

// attachOutputNames labels out's dimensions with the axis names the
// pattern bound them to (SPEC_FULL §3 debug metadata), via
// pkg/tensor.Tensor.WithNames / pkg/layout.Shape. keep_dims reduce can
// leave out with more trailing dimensions than r.OutputNames() has
// entries for (one size-1 dim per dropped axis); those are left
// unnamed.
func attachOutputNames(out *tensor.Tensor, r *resolve.Resolved, pl *plan.Plan) *tensor.Tensor {
	names := r.OutputNames()
	if extra := len(pl.OutputShape) - len(names); extra > 0 {
		names = append(names, make([]string, extra)...)
	}
	return out.WithNames(names)
}

// parseAndResolve runs the shared front half of every einops operation:
// scan+parse (pkg/einops/ast), validate (pkg/einops/validate) against
// op's rules, then resolve (pkg/einops/resolve) against inputShape.
func parseAndResolve(pattern string, op validate.OpKind, inputShape []int, axisSizes map[string]int) (*ast.Pattern, *resolve.Resolved, error) {
	p, err := ast.Parse(pattern)
	if err != nil {
		return nil, nil, err
	}
	if err := validate.Validate(p, op, axisSizes); err != nil {
		return nil, nil, err
	}
	r, err := resolve.Resolve(p, inputShape, axisSizes, op)
	if err != nil {
		return nil, nil, err
	}
	return p, r, nil
}
