// Package validate implements the einops pattern validator (spec
// §4.E): the per-operation-kind semantic rules a syntactically valid
// AST must still satisfy before the axis resolver (pkg/einops/resolve)
// runs.
package validate

import (
	"github.com/hyperifyio/tensorcore/pkg/einops/ast"
	"github.com/hyperifyio/tensorcore/pkg/terrors"
)

// OpKind names which of the three einops operations a pattern is being
// validated for; each has its own extra rules (spec §4.E).
type OpKind int

const (
	Rearrange OpKind = iota
	Reduce
	Repeat
)

// Validate checks p against the common rules (at most one ellipsis per
// side, unique axis names per side, no empty composites for
// rearrange/reduce) and the rules specific to op. axisSizes is the
// caller-provided {name -> size} map (spec §4.F input); it is only
// consulted for Repeat, to check that axes new to the output side have
// an explicit positive size.
func Validate(p *ast.Pattern, op OpKind, axisSizes map[string]int) error {
	var inNames, outNames []string
	var inEllipsis, outEllipsis int
	var inComposite, outComposite bool
	var inEmptyComposite, outEmptyComposite bool

	analyzeSide(p.Input, &inNames, &inEllipsis, &inComposite, &inEmptyComposite)
	analyzeSide(p.Output, &outNames, &outEllipsis, &outComposite, &outEmptyComposite)

	if inEllipsis > 1 {
		return terrors.WithPattern(terrors.PatternValidationError, p.Meta.Source, "at most one ellipsis is allowed on the input side")
	}
	if outEllipsis > 1 {
		return terrors.WithPattern(terrors.PatternValidationError, p.Meta.Source, "at most one ellipsis is allowed on the output side")
	}
	if dup := firstDuplicate(inNames); dup != "" {
		return terrors.WithPattern(terrors.PatternValidationError, p.Meta.Source, "duplicate axis name %q in input", dup)
	}
	if dup := firstDuplicate(outNames); dup != "" {
		return terrors.WithPattern(terrors.PatternValidationError, p.Meta.Source, "duplicate axis name %q in output", dup)
	}

	switch op {
	case Rearrange:
		if inEmptyComposite || outEmptyComposite {
			return terrors.WithPattern(terrors.PatternValidationError, p.Meta.Source, "empty composite () is not allowed for rearrange")
		}
		if !sameMultiset(inNames, outNames) {
			return terrors.WithPattern(terrors.PatternValidationError, p.Meta.Source, "rearrange output axes must be a permutation of the input axes")
		}
	case Reduce:
		if inEmptyComposite || outEmptyComposite {
			return terrors.WithPattern(terrors.PatternValidationError, p.Meta.Source, "empty composite () is not allowed for reduce")
		}
		inSet := toSet(inNames)
		for _, n := range outNames {
			if !inSet[n] {
				return terrors.WithPattern(terrors.PatternValidationError, p.Meta.Source, "reduce output axis %q is not present in the input", n)
			}
		}
	case Repeat:
		if inComposite {
			return terrors.WithPattern(terrors.PatternValidationError, p.Meta.Source, "composite axes are not allowed on the input side of repeat")
		}
		inSet := toSet(inNames)
		for _, n := range outNames {
			if inSet[n] {
				continue
			}
			size, ok := axisSizes[n]
			if !ok {
				return terrors.WithPattern(terrors.AxisError, p.Meta.Source, "repeat introduces new axis %q with no provided size", n)
			}
			if size <= 0 {
				return terrors.WithPattern(terrors.AxisError, p.Meta.Source, "repeat axis %q size must be a positive integer, got %d", n, size)
			}
		}
	}
	return nil
}

// analyzeSide walks nodes (recursing into composites, since an
// ellipsis may appear nested inside one per spec §9) collecting the
// flattened simple-axis names in order, the ellipsis occurrence count,
// whether any composite (possibly empty) was seen.
func analyzeSide(nodes []ast.Node, names *[]string, ellipsisCount *int, hasComposite *bool, emptyComposite *bool) {
	for _, n := range nodes {
		switch n.Kind {
		case ast.Simple:
			*names = append(*names, n.Name)
		case ast.SingletonNode:
			// contributes no name
		case ast.EllipsisNode:
			*ellipsisCount++
		case ast.Composite:
			*hasComposite = true
			if len(n.Children) == 0 {
				*emptyComposite = true
			}
			analyzeSide(n.Children, names, ellipsisCount, hasComposite, emptyComposite)
		}
	}
}

func firstDuplicate(names []string) string {
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if seen[n] {
			return n
		}
		seen[n] = true
	}
	return ""
}

func toSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}

func sameMultiset(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	counts := make(map[string]int, len(a))
	for _, n := range a {
		counts[n]++
	}
	for _, n := range b {
		counts[n]--
	}
	for _, c := range counts {
		if c != 0 {
			return false
		}
	}
	return true
}
