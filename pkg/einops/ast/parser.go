package ast

import (
	"github.com/hyperifyio/tensorcore/pkg/einops/scanner"
	"github.com/hyperifyio/tensorcore/pkg/terrors"
)

// Parse scans and parses src into a Pattern (spec §4.D). Scanner-level
// failures (invalid character, malformed arrow, unbalanced paren) and
// parser-level failures (missing/multiple arrow, unexpected token) both
// surface as *terrors.Error with Kind PatternParseError.
func Parse(src string) (*Pattern, error) {
	tokens, err := scanner.Scan(src)
	if err != nil {
		return nil, err
	}
	p := &parser{tokens: tokens, src: src}

	input, err := p.parseSide()
	if err != nil {
		return nil, err
	}
	tok := p.tokens[p.i]
	if tok.Kind != scanner.Arrow {
		if tok.Kind == scanner.EOF {
			return nil, terrors.WithPattern(terrors.PatternParseError, src, "missing arrow \"->\"")
		}
		return nil, terrors.NewAt(terrors.PatternParseError, src, span(tok.Pos), "unexpected token %v before arrow", tok.Kind)
	}
	arrowPos := tok.Pos
	p.i++

	output, err := p.parseSide()
	if err != nil {
		return nil, err
	}
	tok = p.tokens[p.i]
	switch tok.Kind {
	case scanner.EOF:
		// ok
	case scanner.Arrow:
		return nil, terrors.NewAt(terrors.PatternParseError, src, span(tok.Pos), "multiple arrows in pattern")
	default:
		return nil, terrors.NewAt(terrors.PatternParseError, src, span(tok.Pos), "unexpected token %v after output side", tok.Kind)
	}

	return &Pattern{
		Input:  input,
		Output: output,
		Meta: Meta{
			Source:           src,
			ArrowPos:         arrowPos,
			InputTokenCount:  len(input),
			OutputTokenCount: len(output),
		},
	}, nil
}

func span(p scanner.Position) terrors.Span {
	return terrors.Span{Start: p.Start, End: p.End}
}

type parser struct {
	tokens []scanner.Token
	src    string
	i      int
}

// parseSide parses a run of tokens up to (but not consuming) the next
// Arrow, RParen, or EOF — the natural stopping points for both a
// top-level side and a composite's children (spec §6 grammar: `side :=
// (token (' '+ token)*)?`; whitespace is not a token, so this is just
// "tokens until a terminator").
func (p *parser) parseSide() ([]Node, error) {
	var nodes []Node
	for {
		tok := p.tokens[p.i]
		if tok.Kind == scanner.Arrow || tok.Kind == scanner.RParen || tok.Kind == scanner.EOF {
			break
		}
		node, err := p.parseToken()
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

func (p *parser) parseToken() (Node, error) {
	tok := p.tokens[p.i]
	switch tok.Kind {
	case scanner.Axis:
		p.i++
		return Node{Kind: Simple, Name: tok.Text, Pos: tok.Pos}, nil
	case scanner.Singleton:
		p.i++
		return Node{Kind: SingletonNode, Pos: tok.Pos}, nil
	case scanner.Ellipsis:
		p.i++
		return Node{Kind: EllipsisNode, Pos: tok.Pos}, nil
	case scanner.LParen:
		start := tok.Pos.Start
		p.i++
		children, err := p.parseSide()
		if err != nil {
			return Node{}, err
		}
		closing := p.tokens[p.i]
		if closing.Kind != scanner.RParen {
			return Node{}, terrors.NewAt(terrors.PatternParseError, p.src, terrors.Span{Start: start, End: closing.Pos.End}, "unbalanced paren: missing ')'")
		}
		p.i++
		return Node{Kind: Composite, Children: children, Pos: scanner.Position{Start: start, End: closing.Pos.End}}, nil
	default:
		return Node{}, terrors.NewAt(terrors.PatternParseError, p.src, span(tok.Pos), "unexpected token %v", tok.Kind)
	}
}
