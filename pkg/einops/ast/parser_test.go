package ast

import (
	"errors"
	"testing"

	"github.com/hyperifyio/tensorcore/pkg/terrors"
)

func TestParseSimplePattern(t *testing.T) {
	p, err := Parse("h w -> w h")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if len(p.Input) != 2 || len(p.Output) != 2 {
		t.Fatalf("Input=%v Output=%v", p.Input, p.Output)
	}
	if p.Input[0].Kind != Simple || p.Input[0].Name != "h" {
		t.Errorf("Input[0] = %+v", p.Input[0])
	}
	if p.Output[0].Name != "w" || p.Output[1].Name != "h" {
		t.Errorf("Output = %+v", p.Output)
	}
}

func TestParseComposite(t *testing.T) {
	p, err := Parse("b (h ph) w -> b h (ph w)")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if p.Input[1].Kind != Composite || len(p.Input[1].Children) != 2 {
		t.Fatalf("Input[1] = %+v", p.Input[1])
	}
	if p.Output[2].Kind != Composite || len(p.Output[2].Children) != 2 {
		t.Fatalf("Output[2] = %+v", p.Output[2])
	}
}

func TestParseEllipsisAndSingleton(t *testing.T) {
	p, err := Parse("b ... 1 -> 1 ... b")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if p.Input[1].Kind != EllipsisNode || p.Input[2].Kind != SingletonNode {
		t.Fatalf("Input = %+v", p.Input)
	}
}

func TestParseEmptyComposite(t *testing.T) {
	p, err := Parse("a () -> a")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if p.Input[1].Kind != Composite || len(p.Input[1].Children) != 0 {
		t.Fatalf("expected empty composite, got %+v", p.Input[1])
	}
}

func TestParseMissingArrow(t *testing.T) {
	_, err := Parse("h w")
	requirePatternParseError(t, err)
}

func TestParseMultipleArrows(t *testing.T) {
	_, err := Parse("h -> w -> c")
	requirePatternParseError(t, err)
}

func TestParseUnbalancedParen(t *testing.T) {
	_, err := Parse("(h w -> h w")
	requirePatternParseError(t, err)
}

func TestParseUnexpectedClosingParen(t *testing.T) {
	_, err := Parse("h w) -> h w")
	requirePatternParseError(t, err)
}

func requirePatternParseError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected an error")
	}
	if !errors.Is(err, terrors.ErrPatternParse) {
		t.Fatalf("expected PatternParseError, got %v", err)
	}
}
