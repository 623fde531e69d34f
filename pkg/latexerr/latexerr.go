// Package latexerr defines the two error kinds surfaced by the core:
// TokenParseError (the lexer could not produce a well-formed token) and
// ParseError (a parser rejected the tokens it saw).
//
// Both carry the offending character position and a diagnostic message,
// so callers can point at the exact source location rather than unpack
// a bare fmt.Errorf string.
package latexerr

import "fmt"

// TokenParseError reports that the tokenizer could not produce a
// well-formed token at the current cursor position, e.g. a '\begin' not
// followed by '{name}' when environments are enabled, or a backslash at
// end of input with no macro name to read.
type TokenParseError struct {
	Pos     int
	Message string
}

func (e *TokenParseError) Error() string {
	return fmt.Sprintf("token parse error at position %d: %s", e.Pos, e.Message)
}

// NewTokenParseError constructs a TokenParseError at pos.
func NewTokenParseError(pos int, format string, args ...any) *TokenParseError {
	return &TokenParseError{Pos: pos, Message: fmt.Sprintf(format, args...)}
}

// ParseError reports that a parser rejected the tokens it saw, e.g. a
// required delimited argument was not found, or an unknown argument
// spec was requested.
//
// PartialNodes holds whatever nodes the parser had already assembled
// before failing; it is opaque to the core (Node is a concern of a
// higher layer) and may be nil.
type ParseError struct {
	Pos          int
	Message      string
	PartialNodes []any
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at position %d: %s", e.Pos, e.Message)
}

// NewParseError constructs a ParseError at pos with no partial nodes.
func NewParseError(pos int, format string, args ...any) *ParseError {
	return &ParseError{Pos: pos, Message: fmt.Sprintf(format, args...)}
}

// WithPartialNodes returns a copy of e carrying the given partial node
// list, for parsers that want to report how far they got.
func (e *ParseError) WithPartialNodes(nodes []any) *ParseError {
	cp := *e
	cp.PartialNodes = nodes
	return &cp
}
