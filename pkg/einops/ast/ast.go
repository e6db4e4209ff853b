// Package ast defines the einops pattern AST (spec §3, "Pattern AST")
// and the recursive-descent parser that builds it from the scanner's
// token stream (spec §4.D).
package ast

import "github.com/hyperifyio/tensorcore/pkg/einops/scanner"

// NodeKind tags an AST node's variant (spec §9: "tagged unions over
// inheritance ... every new op kind must force a compile-time or
// runtime exhaustiveness check").
type NodeKind int

const (
	Simple NodeKind = iota
	Composite
	EllipsisNode
	SingletonNode
)

// Node is one element of a pattern side: a bare axis name, a
// parenthesized group of children, the ellipsis, or the literal 1.
type Node struct {
	Kind     NodeKind
	Name     string // set when Kind == Simple
	Children []Node // set when Kind == Composite
	Pos      scanner.Position
}

// Meta carries the diagnostic bookkeeping spec §3 attaches to a
// Pattern: the original source, the arrow's position, and how many
// top-level tokens appeared on each side.
type Meta struct {
	Source           string
	ArrowPos         scanner.Position
	InputTokenCount  int
	OutputTokenCount int
}

// Pattern is the parsed form of an einops pattern string: an input
// side, an output side, and the Meta describing where they came from.
type Pattern struct {
	Input  []Node
	Output []Node
	Meta   Meta
}
