package scanner

import (
	"errors"
	"testing"

	"github.com/hyperifyio/tensorcore/pkg/terrors"
)

func kinds(tokens []Token) []Kind {
	ks := make([]Kind, len(tokens))
	for i, t := range tokens {
		ks[i] = t.Kind
	}
	return ks
}

func sameKinds(got, want []Kind) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

func TestScanSimplePattern(t *testing.T) {
	toks, err := Scan("h w -> w h")
	if err != nil {
		t.Fatalf("Scan error: %v", err)
	}
	want := []Kind{Axis, Axis, Arrow, Axis, Axis, EOF}
	if got := kinds(toks); !sameKinds(got, want) {
		t.Errorf("kinds = %v, want %v", got, want)
	}
}

func TestScanCompositeAndEllipsisAndSingleton(t *testing.T) {
	toks, err := Scan("b (h ph) ... 1 -> b h")
	if err != nil {
		t.Fatalf("Scan error: %v", err)
	}
	want := []Kind{Axis, LParen, Axis, Axis, RParen, Ellipsis, Singleton, Arrow, Axis, Axis, EOF}
	if got := kinds(toks); !sameKinds(got, want) {
		t.Errorf("kinds = %v, want %v", got, want)
	}
}

func TestScanMalformedArrow(t *testing.T) {
	_, err := Scan("h w - w h")
	if err == nil {
		t.Fatalf("expected error for malformed arrow")
	}
	var e *terrors.Error
	if !errors.As(err, &e) || e.Kind != terrors.PatternParseError {
		t.Errorf("expected PatternParseError, got %v", err)
	}
}

func TestScanUnmatchedClosingParen(t *testing.T) {
	_, err := Scan("h w) -> h w")
	if err == nil {
		t.Fatalf("expected error for unmatched closing paren")
	}
	if !errors.Is(err, terrors.ErrPatternParse) {
		t.Errorf("expected ErrPatternParse, got %v", err)
	}
}

func TestScanUnbalancedOpenParen(t *testing.T) {
	_, err := Scan("(h w -> h w")
	if err == nil {
		t.Fatalf("expected error for unbalanced open paren")
	}
	if !errors.Is(err, terrors.ErrPatternParse) {
		t.Errorf("expected ErrPatternParse, got %v", err)
	}
}

func TestScanInvalidCharacter(t *testing.T) {
	_, err := Scan("h w -> h % w")
	if err == nil {
		t.Fatalf("expected error for invalid character")
	}
	if !errors.Is(err, terrors.ErrPatternParse) {
		t.Errorf("expected ErrPatternParse, got %v", err)
	}
}
