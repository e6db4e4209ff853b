// Package resolve implements the einops axis resolver (spec §4.F): it
// binds a parsed Pattern's axis names to the concrete dimensions of an
// input shape, factors composites (inferring at most one unknown per
// group), tracks the ellipsis span, and computes the final output
// shape plus the flattened axis bookkeeping pkg/einops/plan needs to
// build its reshape/permute/reduce steps.
package resolve

import (
	"fmt"
	"strings"

	"github.com/hyperifyio/tensorcore/pkg/einops/ast"
	"github.com/hyperifyio/tensorcore/pkg/einops/validate"
	"github.com/hyperifyio/tensorcore/pkg/terrors"
)

// FlatAxis is one dimension of the fully-split intermediate shape the
// planner reshapes the input into (spec §4.G step 2): every composite
// has been split into its simple axes, and the ellipsis span has been
// expanded into one synthetic-named slot per captured dimension.
type FlatAxis struct {
	Name string
	Size int
}

// OutputGroup is one top-level slot of the output pattern, already
// merged the way it will appear in the final output shape: a Simple
// axis or a Singleton is a group of zero-or-one names, a Composite (or
// an ellipsis nested inside one) merges several names' product into
// one dimension.
type OutputGroup struct {
	Names []string
	Size  int
}

// Resolved is the bound form of a Pattern against one concrete input
// shape (spec §3, "Resolved pattern"), extended with the flattened
// axis-order bookkeeping the planner consumes.
type Resolved struct {
	AxisDims      map[string]int
	EllipsisNames []string
	EllipsisDims  []int
	InputFlat     []FlatAxis
	OutputShape   []int
	OutputGroups  []OutputGroup
}

// OutputNames returns one diagnostic name per dimension of OutputShape,
// for attaching to the result tensor as SPEC_FULL §3's debug metadata
// (pkg/tensor.Tensor.WithNames / pkg/layout.Shape). A group with a
// single axis name uses that name verbatim; a merged composite group
// joins its component names with "_"; an unnamed (singleton) group
// yields "".
func (r *Resolved) OutputNames() []string {
	names := make([]string, len(r.OutputGroups))
	for i, g := range r.OutputGroups {
		names[i] = strings.Join(g.Names, "_")
	}
	return names
}

// Resolve binds p against inputShape, per spec §4.F. axisSizes is the
// caller-supplied {name -> size} hint map: required for axes repeat
// introduces on the output side, optional (but must match if given) for
// input-side axes and composite factoring. op distinguishes Rearrange
// from Reduce/Repeat for the one rule that differs per spec §4.E: an
// input ellipsis must be referenced by the output for Rearrange (a
// rearrange output is a permutation of the input, so it can never
// drop the captured dims), but Reduce is explicitly allowed to drop
// them ("output may drop axes") — e.g. "... c -> c" reduces over the
// entire ellipsis-captured span.
func Resolve(p *ast.Pattern, inputShape []int, axisSizes map[string]int, op validate.OpKind) (*Resolved, error) {
	src := p.Meta.Source
	axisDims := make(map[string]int, len(axisSizes))
	for k, v := range axisSizes {
		axisDims[k] = v
	}

	consuming := 0
	ellipsisAt := -1
	for i, n := range p.Input {
		if n.Kind == ast.EllipsisNode {
			ellipsisAt = i
		} else {
			consuming++
		}
	}
	rank := len(inputShape)
	ellipsisSpan := 0
	if ellipsisAt >= 0 {
		ellipsisSpan = rank - consuming
		if ellipsisSpan < 0 {
			return nil, terrors.WithPattern(terrors.ShapeError, src, "pattern requires at least %d dims, input has rank %d", consuming, rank)
		}
	} else if consuming != rank {
		return nil, terrors.WithPattern(terrors.ShapeError, src, "pattern expects %d dims, input has rank %d", consuming, rank)
	}

	var inputFlat []FlatAxis
	var ellipsisNames []string
	var ellipsisDims []int
	dimIdx := 0

	for _, n := range p.Input {
		if n.Kind == ast.EllipsisNode {
			for k := 0; k < ellipsisSpan; k++ {
				name := fmt.Sprintf("__ellipsis_%d", k)
				size := inputShape[dimIdx]
				dimIdx++
				ellipsisNames = append(ellipsisNames, name)
				ellipsisDims = append(ellipsisDims, size)
				axisDims[name] = size
				inputFlat = append(inputFlat, FlatAxis{Name: name, Size: size})
			}
			continue
		}

		dim := inputShape[dimIdx]
		dimIdx++

		switch n.Kind {
		case ast.Simple:
			if existing, ok := axisDims[n.Name]; ok {
				if existing != dim {
					return nil, terrors.WithPattern(terrors.ShapeError, src, "axis %q: observed dimension %d does not match expected %d", n.Name, dim, existing)
				}
			} else {
				axisDims[n.Name] = dim
			}
			inputFlat = append(inputFlat, FlatAxis{Name: n.Name, Size: dim})
		case ast.SingletonNode:
			if dim != 1 {
				return nil, terrors.WithPattern(terrors.ShapeError, src, "singleton axis expects dimension 1, observed %d", dim)
			}
		case ast.Composite:
			flat, err := resolveInputComposite(n, dim, axisDims, src)
			if err != nil {
				return nil, err
			}
			inputFlat = append(inputFlat, flat...)
		default:
			return nil, terrors.WithPattern(terrors.PatternValidationError, src, "unsupported node on input side")
		}
	}

	outputGroups, err := resolveOutputSide(p.Output, axisDims, ellipsisNames, src)
	if err != nil {
		return nil, err
	}

	if op == validate.Rearrange && ellipsisSpan > 0 && !referencesEllipsis(p.Output) {
		return nil, terrors.WithPattern(terrors.ShapeError, src, "input ellipsis captures %d dimension(s) not referenced by the output pattern", ellipsisSpan)
	}

	outputShape := make([]int, 0, len(outputGroups))
	for _, g := range outputGroups {
		outputShape = append(outputShape, g.Size)
	}

	return &Resolved{
		AxisDims:      axisDims,
		EllipsisNames: ellipsisNames,
		EllipsisDims:  ellipsisDims,
		InputFlat:     inputFlat,
		OutputShape:   outputShape,
		OutputGroups:  outputGroups,
	}, nil
}

// resolveInputComposite flattens a composite's children to simple axis
// names and resolves their sizes against dim, inferring at most one
// unknown (spec §4.F step 4).
func resolveInputComposite(n ast.Node, dim int, axisDims map[string]int, src string) ([]FlatAxis, error) {
	var names []string
	if err := collectCompositeNames(n.Children, &names, src); err != nil {
		return nil, err
	}

	known := 1
	var unknown string
	unknownCount := 0
	for _, name := range names {
		if size, ok := axisDims[name]; ok {
			known *= size
		} else {
			unknown = name
			unknownCount++
		}
	}
	if unknownCount > 1 {
		return nil, terrors.WithPattern(terrors.ShapeError, src, "composite has more than one unknown axis")
	}
	if unknownCount == 1 {
		if known == 0 || dim%known != 0 {
			return nil, terrors.WithPattern(terrors.ShapeError, src, "cannot factor composite: dimension %d is not evenly divisible by known product %d", dim, known)
		}
		axisDims[unknown] = dim / known
	} else if known != dim {
		return nil, terrors.WithPattern(terrors.ShapeError, src, "composite product %d does not match observed dimension %d", known, dim)
	}

	flat := make([]FlatAxis, 0, len(names))
	for _, name := range names {
		flat = append(flat, FlatAxis{Name: name, Size: axisDims[name]})
	}
	return flat, nil
}

// collectCompositeNames flattens a composite's children into an
// ordered list of simple axis names. Singletons inside a composite
// contribute a factor of 1 with no name; nested composites flatten
// further; an ellipsis is not valid on the input side of a composite.
func collectCompositeNames(children []ast.Node, names *[]string, src string) error {
	for _, c := range children {
		switch c.Kind {
		case ast.Simple:
			*names = append(*names, c.Name)
		case ast.SingletonNode:
			// contributes a factor of 1, no name
		case ast.Composite:
			if err := collectCompositeNames(c.Children, names, src); err != nil {
				return err
			}
		case ast.EllipsisNode:
			return terrors.WithPattern(terrors.PatternValidationError, src, "ellipsis is not allowed inside an input-side composite")
		}
	}
	return nil
}

// resolveOutputSide builds the ordered top-level output groups (spec
// §4.F "Output shape construction"). A top-level ellipsis expands into
// one group per captured dimension (so those dims stay un-merged in
// the output shape); an ellipsis nested inside a composite instead
// flattens its captured dims into that composite's product (spec §9).
func resolveOutputSide(nodes []ast.Node, axisDims map[string]int, ellipsisNames []string, src string) ([]OutputGroup, error) {
	var groups []OutputGroup
	for _, n := range nodes {
		if n.Kind == ast.EllipsisNode {
			for _, name := range ellipsisNames {
				size, ok := axisDims[name]
				if !ok {
					return nil, terrors.WithPattern(terrors.ShapeError, src, "internal error: unbound ellipsis slot %q", name)
				}
				groups = append(groups, OutputGroup{Names: []string{name}, Size: size})
			}
			continue
		}
		names, size, err := resolveOutputGroup(n, axisDims, ellipsisNames, src)
		if err != nil {
			return nil, err
		}
		groups = append(groups, OutputGroup{Names: names, Size: size})
	}
	return groups, nil
}

// resolveOutputGroup resolves one output node to a merged (names,
// size) pair, recursing into composites and flattening any nested
// ellipsis into the product (spec §9 design note).
func resolveOutputGroup(n ast.Node, axisDims map[string]int, ellipsisNames []string, src string) ([]string, int, error) {
	switch n.Kind {
	case ast.Simple:
		size, ok := axisDims[n.Name]
		if !ok {
			return nil, 0, terrors.WithPattern(terrors.ShapeError, src, "output axis %q is not bound to a known dimension", n.Name)
		}
		return []string{n.Name}, size, nil
	case ast.SingletonNode:
		return nil, 1, nil
	case ast.EllipsisNode:
		size := 1
		for _, name := range ellipsisNames {
			size *= axisDims[name]
		}
		return append([]string(nil), ellipsisNames...), size, nil
	case ast.Composite:
		var names []string
		size := 1
		for _, c := range n.Children {
			childNames, childSize, err := resolveOutputGroup(c, axisDims, ellipsisNames, src)
			if err != nil {
				return nil, 0, err
			}
			names = append(names, childNames...)
			size *= childSize
		}
		return names, size, nil
	default:
		return nil, 0, terrors.WithPattern(terrors.PatternValidationError, src, "unsupported node on output side")
	}
}

func referencesEllipsis(nodes []ast.Node) bool {
	for _, n := range nodes {
		if n.Kind == ast.EllipsisNode {
			return true
		}
		if n.Kind == ast.Composite && referencesEllipsis(n.Children) {
			return true
		}
	}
	return false
}
