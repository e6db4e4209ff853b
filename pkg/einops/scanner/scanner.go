package scanner

import (
	"github.com/hyperifyio/tensorcore/pkg/terrors"
)

// Scanner tokenizes a single pattern string, in the style of the
// teacher's LineParser: a string plus a byte cursor, advanced one rune
// at a time by small classifier-driven steps.
type Scanner struct {
	src string
	pos int
}

// New returns a Scanner over src.
func New(src string) *Scanner {
	return &Scanner{src: src}
}

func (s *Scanner) isEOF() bool { return s.pos >= len(s.src) }

func (s *Scanner) skipWhitespace() {
	for !s.isEOF() && isWhitespace(s.src[s.pos]) {
		s.pos++
	}
}

// Scan tokenizes the whole source into a token stream terminated by an
// EOF token, or fails with a PatternParseError (spec §4.D:
// InvalidCharacter, MalformedArrow, UnmatchedParen).
func (s *Scanner) Scan() ([]Token, error) {
	var tokens []Token
	parenDepth := 0
	for {
		s.skipWhitespace()
		if s.isEOF() {
			tokens = append(tokens, Token{Kind: EOF, Pos: Position{Start: s.pos, End: s.pos}})
			break
		}
		start := s.pos
		c := s.src[s.pos]
		switch {
		case isLParen(c):
			s.pos++
			parenDepth++
			tokens = append(tokens, Token{Kind: LParen, Text: "(", Pos: Position{start, s.pos}})
		case isRParen(c):
			if parenDepth == 0 {
				return nil, terrors.NewAt(terrors.PatternParseError, s.src, terrors.Span{Start: start, End: start + 1}, "unmatched closing paren at offset %d", start)
			}
			parenDepth--
			s.pos++
			tokens = append(tokens, Token{Kind: RParen, Text: ")", Pos: Position{start, s.pos}})
		case isDash(c):
			tok, err := s.scanArrow(start)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, tok)
		case isDot(c):
			tok, err := s.scanEllipsis(start)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, tok)
		case c == '1':
			s.pos++
			tokens = append(tokens, Token{Kind: Singleton, Text: "1", Pos: Position{start, s.pos}})
		case isIdentStart(c):
			tokens = append(tokens, s.scanAxis(start))
		default:
			return nil, terrors.NewAt(terrors.PatternParseError, s.src, terrors.Span{Start: start, End: start + 1}, "invalid character %q at offset %d", c, start)
		}
	}
	if parenDepth > 0 {
		return nil, terrors.NewAt(terrors.PatternParseError, s.src, terrors.Span{Start: s.pos, End: s.pos}, "unbalanced paren: %d unclosed '('", parenDepth)
	}
	return tokens, nil
}

func (s *Scanner) scanArrow(start int) (Token, error) {
	s.pos++ // consume '-'
	if s.isEOF() || !isGT(s.src[s.pos]) {
		return Token{}, terrors.NewAt(terrors.PatternParseError, s.src, terrors.Span{Start: start, End: s.pos}, "malformed arrow: '-' not followed by '>' at offset %d", start)
	}
	s.pos++ // consume '>'
	return Token{Kind: Arrow, Text: "->", Pos: Position{start, s.pos}}, nil
}

func (s *Scanner) scanEllipsis(start int) (Token, error) {
	for i := 0; i < 3; i++ {
		if s.isEOF() || !isDot(s.src[s.pos]) {
			return Token{}, terrors.NewAt(terrors.PatternParseError, s.src, terrors.Span{Start: start, End: s.pos}, "malformed ellipsis at offset %d", start)
		}
		s.pos++
	}
	return Token{Kind: Ellipsis, Text: "...", Pos: Position{start, s.pos}}, nil
}

func (s *Scanner) scanAxis(start int) Token {
	for !s.isEOF() && isIdentCont(s.src[s.pos]) {
		s.pos++
	}
	return Token{Kind: Axis, Text: s.src[start:s.pos], Pos: Position{start, s.pos}}
}

// Scan is a convenience wrapper that scans src in one call.
func Scan(src string) ([]Token, error) {
	return New(src).Scan()
}
