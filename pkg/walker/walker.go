// Package walker implements the Parser/Walker protocol: the indirection
// layer through which every parser in the framework recurses.
//
// Parsers never call each other directly. A parser that needs to parse
// nested content asks the Walker to do it via ParseContent, which drives
// a sequence of sibling parsers and threads carryover information
// between them without ever mutating the ParsingState the caller
// passed in. Parser is a capability interface rather than a concrete
// function type so that combinator-style parsers and configured parser
// values can sit behind it uniformly.
package walker

import (
	"github.com/cwbudde/go-latexnodes/pkg/parsingstate"
	"github.com/cwbudde/go-latexnodes/pkg/tokenreader"
)

// Node is an opaque parse result. The walker and parser framework never
// inspect its shape; producing and interpreting nodes is a concern of a
// higher layer built on top of this core. It is an alias so that node
// lists flow freely between []Node and []any call sites.
type Node = any

// CarryoverInfo is what one parser hands forward to the sibling parsers
// that follow it in the same ParseContent call. It never affects
// parsers that already ran, and it never escapes back to the caller of
// ParseContent.
type CarryoverInfo struct {
	// StateOverrides are applied, in order, to derive the ParsingState
	// seen by the next sibling parser and every sibling after it; a
	// later sibling's overrides are applied on top of the state derived
	// so far.
	StateOverrides []parsingstate.Option
	// Extra carries free-form information (e.g. "a paragraph break was
	// just seen") that doesn't fit as a state override. ParseContent
	// does not pass it on: the following siblings never see it.
	Extra map[string]any
}

// Parser is anything that can consume tokens from reader, starting at
// state, and produce nodes plus carryover for whatever comes next.
//
// kwargs is an open bag of parser-specific options, mirroring the
// source framework's **kwargs convention; parsers that don't recognize
// a key must ignore it rather than error.
type Parser interface {
	Parse(w *Walker, reader *tokenreader.TokenReader, state *parsingstate.ParsingState, kwargs map[string]any) ([]Node, CarryoverInfo, error)
}

// ParserFunc adapts a plain function to the Parser interface.
type ParserFunc func(w *Walker, reader *tokenreader.TokenReader, state *parsingstate.ParsingState, kwargs map[string]any) ([]Node, CarryoverInfo, error)

func (f ParserFunc) Parse(w *Walker, reader *tokenreader.TokenReader, state *parsingstate.ParsingState, kwargs map[string]any) ([]Node, CarryoverInfo, error) {
	return f(w, reader, state, kwargs)
}

// TraceFunc is an optional low-overhead hook invoked around each
// sibling parser in ParseContent. Left nil, it costs nothing; the core
// does no logging of its own.
type TraceFunc func(event string, parserIndex int, pos int)

// Walker orchestrates parsing by driving parsers through ParseContent.
// A single Walker is typically shared across an entire parse.
type Walker struct {
	trace TraceFunc
}

// Option configures a Walker.
type Option func(*Walker)

// WithTrace installs a trace hook.
func WithTrace(fn TraceFunc) Option {
	return func(w *Walker) { w.trace = fn }
}

// New creates a Walker.
func New(opts ...Option) *Walker {
	w := &Walker{}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// ParseContent runs parsers in order against reader, threading carryover
// from each parser to the ones that follow it. The state passed in by
// the caller is never modified: each sibling sees either that exact
// state, or a derived SubContext built from the previous sibling's
// carryover, never a mutation in place.
//
// If a parser returns an error, ParseContent stops and returns the
// nodes accumulated so far (including any nodes the failing parser
// returned) alongside the error, so a caller that wants
// partial results (e.g. to attach them to a latexerr.ParseError) can use
// them.
func (w *Walker) ParseContent(parsers []Parser, reader *tokenreader.TokenReader, state *parsingstate.ParsingState, kwargs map[string]any) ([]Node, error) {
	var nodes []Node
	current := state
	var carry CarryoverInfo

	for i, p := range parsers {
		if len(carry.StateOverrides) > 0 {
			current = current.SubContext(carry.StateOverrides...)
		}

		if w.trace != nil {
			w.trace("before_parser", i, reader.CurPos())
		}

		ns, c, err := p.Parse(w, reader, current, kwargs)
		if w.trace != nil {
			w.trace("after_parser", i, reader.CurPos())
		}
		if err != nil {
			return append(nodes, ns...), err
		}

		nodes = append(nodes, ns...)
		carry = c
	}

	return nodes, nil
}
