// Package scanner implements the character scanner half of the einops
// pattern engine (spec §4.D): it turns a pattern string such as
// "b (h ph) w -> b h (ph w)" into a flat token stream with source
// positions, the input the ast package's parser consumes.
//
// Grounded on github.com/hyperifyio/gnd's pkg/parsers.LineParser: a
// pos-indexed scan over the raw string, small single-purpose
// classifier predicates (IsWhitespace, IsQuote, ...) living next to the
// scanner, and errors built with fmt.Errorf naming the byte position —
// generalized from the teacher's line-oriented instruction tokens to
// the einops grammar's identifier/arrow/paren/ellipsis/singleton token
// set (spec §6, "Einops pattern grammar").
package scanner

// Kind identifies a token's grammatical role.
type Kind int

const (
	Axis Kind = iota
	Arrow
	LParen
	RParen
	Ellipsis
	Singleton
	EOF
)

func (k Kind) String() string {
	switch k {
	case Axis:
		return "axis"
	case Arrow:
		return "arrow"
	case LParen:
		return "lparen"
	case RParen:
		return "rparen"
	case Ellipsis:
		return "ellipsis"
	case Singleton:
		return "singleton"
	case EOF:
		return "eof"
	default:
		return "unknown"
	}
}

// Position is a byte-offset span into the original pattern string
// (spec §3, "Pattern AST" nodes each carry a source Position).
type Position struct {
	Start int
	End   int
}

// Token is one lexical unit of a pattern string.
type Token struct {
	Kind Kind
	Text string
	Pos  Position
}
