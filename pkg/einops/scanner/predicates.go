package scanner

// isWhitespace mirrors the teacher's pkg/parsers.IsWhitespace, extended
// to newline since pattern strings may be passed in from multi-line
// --pattern-file batches.
func isWhitespace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// isIdentStart reports whether c can begin an axis identifier (spec
// §6 grammar: `IDENT := [A-Za-z_][A-Za-z0-9_]*`).
func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// isIdentCont reports whether c can continue an axis identifier.
func isIdentCont(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

func isLParen(c byte) bool { return c == '(' }
func isRParen(c byte) bool { return c == ')' }
func isDash(c byte) bool   { return c == '-' }
func isGT(c byte) bool     { return c == '>' }
func isDot(c byte) bool    { return c == '.' }
