package validate

import (
	"errors"
	"testing"

	"github.com/hyperifyio/tensorcore/pkg/einops/ast"
	"github.com/hyperifyio/tensorcore/pkg/terrors"
)

func mustParse(t *testing.T, src string) *ast.Pattern {
	t.Helper()
	p, err := ast.Parse(src)
	if err != nil {
		t.Fatalf("Parse(%q) error: %v", src, err)
	}
	return p
}

func TestValidateRearrangeOK(t *testing.T) {
	p := mustParse(t, "h w -> w h")
	if err := Validate(p, Rearrange, nil); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidateRearrangeUnknownOutputAxis(t *testing.T) {
	p := mustParse(t, "h w -> h w c")
	err := Validate(p, Rearrange, nil)
	requireKind(t, err, terrors.PatternValidationError)
}

func TestValidateReduceOutputSubsetOfInput(t *testing.T) {
	p := mustParse(t, "b c -> b")
	if err := Validate(p, Reduce, nil); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidateReduceOutputAxisNotInInput(t *testing.T) {
	p := mustParse(t, "b c -> b d")
	err := Validate(p, Reduce, nil)
	requireKind(t, err, terrors.PatternValidationError)
}

func TestValidateRepeatNewAxisMissingSize(t *testing.T) {
	p := mustParse(t, "w -> w w2")
	err := Validate(p, Repeat, nil)
	requireKind(t, err, terrors.AxisError)
}

func TestValidateRepeatNewAxisWithSize(t *testing.T) {
	p := mustParse(t, "w -> w w2")
	if err := Validate(p, Repeat, map[string]int{"w2": 2}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidateRepeatNonPositiveSize(t *testing.T) {
	p := mustParse(t, "w -> w w2")
	err := Validate(p, Repeat, map[string]int{"w2": 0})
	requireKind(t, err, terrors.AxisError)
}

func TestValidateRepeatRejectsInputComposite(t *testing.T) {
	p := mustParse(t, "(a b) -> a b")
	err := Validate(p, Repeat, nil)
	requireKind(t, err, terrors.PatternValidationError)
}

func TestValidateDuplicateAxisInInput(t *testing.T) {
	p := mustParse(t, "h h -> h")
	err := Validate(p, Rearrange, nil)
	requireKind(t, err, terrors.PatternValidationError)
}

func TestValidateMultipleEllipsisRejected(t *testing.T) {
	p := mustParse(t, "a ... ... -> a")
	err := Validate(p, Rearrange, nil)
	requireKind(t, err, terrors.PatternValidationError)
}

func TestValidateEmptyCompositeRejectedForRearrange(t *testing.T) {
	p := mustParse(t, "a () -> a")
	err := Validate(p, Rearrange, nil)
	requireKind(t, err, terrors.PatternValidationError)
}

func requireKind(t *testing.T, err error, want terrors.Kind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected an error of kind %v, got nil", want)
	}
	var e *terrors.Error
	if !errors.As(err, &e) {
		t.Fatalf("expected a *terrors.Error, got %T: %v", err, err)
	}
	if e.Kind != want {
		t.Fatalf("expected kind %v, got %v", want, e.Kind)
	}
}
