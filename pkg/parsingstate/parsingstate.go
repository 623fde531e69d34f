// Package parsingstate implements the immutable context object consulted
// by the token reader and by every parser in the framework.
//
// ParsingState values are never mutated in place. A parser that needs a
// locally different context (entering math mode, a verbatim argument, a
// nested group) derives a child via SubContext and passes the child
// down; the parent is untouched, so sibling parsers further up the call
// graph keep seeing their own state.
package parsingstate

import "github.com/cwbudde/go-latexnodes/pkg/catalog"

// MathDelimiterPair names an opening/closing pair of math-mode
// delimiters recognized by the tokenizer. The tokenizer's recognition of
// '$', '$$', '\(', '\)', '\[', '\]' is built in; this table only
// records the pairing information for callers and for parsers that need
// to know what a given opening delimiter's matching closer is.
type MathDelimiterPair struct {
	Open  string
	Close string
}

// DefaultMathDelimiters is the pairing table for the four LaTeX math
// delimiter forms the tokenizer recognizes.
func DefaultMathDelimiters() []MathDelimiterPair {
	return []MathDelimiterPair{
		{Open: "$", Close: "$"},
		{Open: "$$", Close: "$$"},
		{Open: `\(`, Close: `\)`},
		{Open: `\[`, Close: `\]`},
	}
}

// defaultMacroAlphaChars is the ASCII-letters default for the set of
// characters that may extend a macro name.
const defaultMacroAlphaChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// ParsingState is the immutable context consulted by the tokenizer and
// by every parser. Two states are independent: overriding a field on
// one via SubContext never affects any other state that shares the
// same parent.
type ParsingState struct {
	source string

	inMathMode        bool
	mathModeDelimiter string // "" if not in math mode

	enableComments                bool
	enableEnvironments            bool
	enableDoubleNewlineParagraphs bool

	macroAlphaChars map[rune]struct{}

	macros       catalog.MacroCatalog
	environments catalog.EnvironmentCatalog
	specials     catalog.SpecialsCatalog

	mathDelimiters []MathDelimiterPair
}

// Option overrides one field of a ParsingState. Options are applied in
// New (against the defaults New sets) and in SubContext (against a
// copy of the parent).
type Option func(*ParsingState)

// WithInMathMode sets the math-mode flag and the delimiter that opened
// it. Passing inMath=true with an empty delimiter is a contract
// violation and panics: a math-mode state must always know which
// delimiter opened it.
func WithInMathMode(inMath bool, delimiter string) Option {
	return func(ps *ParsingState) {
		if inMath && delimiter == "" {
			panic("parsingstate: WithInMathMode(true, ...) requires a non-empty delimiter")
		}
		ps.inMathMode = inMath
		if !inMath {
			delimiter = ""
		}
		ps.mathModeDelimiter = delimiter
	}
}

// WithEnableComments toggles '%' comment recognition.
func WithEnableComments(enable bool) Option {
	return func(ps *ParsingState) { ps.enableComments = enable }
}

// WithEnableEnvironments toggles '\begin{...}'/'\end{...}' composite
// token recognition.
func WithEnableEnvironments(enable bool) Option {
	return func(ps *ParsingState) { ps.enableEnvironments = enable }
}

// WithEnableDoubleNewlineParagraphs toggles splitting a blank-line run
// into its own paragraph-break char token.
func WithEnableDoubleNewlineParagraphs(enable bool) Option {
	return func(ps *ParsingState) { ps.enableDoubleNewlineParagraphs = enable }
}

// WithMacroAlphaChars overrides the set of characters that may extend a
// macro name after the backslash.
func WithMacroAlphaChars(chars string) Option {
	return func(ps *ParsingState) { ps.macroAlphaChars = runeSet(chars) }
}

// WithCatalogs overrides the macro, environment, and specials catalogs.
// A nil catalog is treated as "no entries" by callers, not as "leave
// unchanged" — pass the previous value explicitly to keep it.
func WithCatalogs(macros catalog.MacroCatalog, environments catalog.EnvironmentCatalog, specials catalog.SpecialsCatalog) Option {
	return func(ps *ParsingState) {
		ps.macros = macros
		ps.environments = environments
		ps.specials = specials
	}
}

// WithMathDelimiters overrides the math delimiter pairing table.
func WithMathDelimiters(pairs []MathDelimiterPair) Option {
	return func(ps *ParsingState) { ps.mathDelimiters = pairs }
}

// WithMathModeFlag sets the math-mode flag without touching the
// delimiter. Unlike WithInMathMode it does not require the delimiter in
// the same call: entering math mode this way relies on the delimiter
// already being set on the parent state, or on a later option supplying
// it. New and SubContext still enforce that a math-mode state always
// carries a delimiter.
func WithMathModeFlag(on bool) Option {
	return func(ps *ParsingState) {
		ps.inMathMode = on
		if !on {
			ps.mathModeDelimiter = ""
		}
	}
}

func runeSet(chars string) map[rune]struct{} {
	set := make(map[rune]struct{}, len(chars))
	for _, r := range chars {
		set[r] = struct{}{}
	}
	return set
}

// New constructs a ParsingState over source with the default flags
// (in_math_mode=false, comments/environments/paragraphs enabled, macro
// alpha set = ASCII letters) and the caller's catalogs, then applies
// opts on top.
func New(source string, opts ...Option) *ParsingState {
	ps := &ParsingState{
		source:                        source,
		enableComments:                true,
		enableEnvironments:            true,
		enableDoubleNewlineParagraphs: true,
		macroAlphaChars:               runeSet(defaultMacroAlphaChars),
		mathDelimiters:                DefaultMathDelimiters(),
	}
	for _, opt := range opts {
		opt(ps)
	}
	ps.assertValid()
	return ps
}

// SubContext returns a new ParsingState equal to ps except for the
// fields opts override. ps itself is never modified.
func (ps *ParsingState) SubContext(opts ...Option) *ParsingState {
	child := *ps // shallow copy: value fields copy, map/slice fields are shared read-only
	for _, opt := range opts {
		opt(&child)
	}
	child.assertValid()
	return &child
}

// assertValid enforces the state contract after options are applied: a
// math-mode state must know which delimiter opened it.
func (ps *ParsingState) assertValid() {
	if ps.inMathMode && ps.mathModeDelimiter == "" {
		panic("parsingstate: in math mode without a math mode delimiter")
	}
}

// Source returns the full source string this state was built over.
func (ps *ParsingState) Source() string { return ps.source }

// InMathMode reports whether this state is inside math mode.
func (ps *ParsingState) InMathMode() bool { return ps.inMathMode }

// MathModeDelimiter returns the opening delimiter literal that
// introduced the current math mode, or "" if not in math mode.
func (ps *ParsingState) MathModeDelimiter() string { return ps.mathModeDelimiter }

// EnableComments reports whether '%' starts a comment.
func (ps *ParsingState) EnableComments() bool { return ps.enableComments }

// EnableEnvironments reports whether '\begin'/'\end' get the composite
// environment-token treatment.
func (ps *ParsingState) EnableEnvironments() bool { return ps.enableEnvironments }

// EnableDoubleNewlineParagraphs reports whether a blank-line run splits
// off its own paragraph-break token.
func (ps *ParsingState) EnableDoubleNewlineParagraphs() bool {
	return ps.enableDoubleNewlineParagraphs
}

// IsMacroAlphaChar reports whether r may extend a macro name after the
// backslash.
func (ps *ParsingState) IsMacroAlphaChar(r rune) bool {
	_, ok := ps.macroAlphaChars[r]
	return ok
}

// Macros returns the macro catalog, or nil if none was supplied.
func (ps *ParsingState) Macros() catalog.MacroCatalog { return ps.macros }

// Environments returns the environment catalog, or nil if none was
// supplied.
func (ps *ParsingState) Environments() catalog.EnvironmentCatalog { return ps.environments }

// Specials returns the specials catalog, or nil if none was supplied.
func (ps *ParsingState) Specials() catalog.SpecialsCatalog { return ps.specials }

// MathDelimiters returns the math delimiter pairing table.
func (ps *ParsingState) MathDelimiters() []MathDelimiterPair { return ps.mathDelimiters }

// MathClosingDelimiter returns the closing delimiter paired with open,
// per the state's math delimiter table.
func (ps *ParsingState) MathClosingDelimiter(open string) (string, bool) {
	for _, pair := range ps.mathDelimiters {
		if pair.Open == open {
			return pair.Close, true
		}
	}
	return "", false
}
