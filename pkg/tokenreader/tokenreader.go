// Package tokenreader implements the re-entrant LaTex tokenizer: a
// stateful cursor over the source whose recognition of the next token
// depends on the *parsing state* passed in at every call, not on any
// state the reader keeps itself (besides the cursor position and a
// single-token peek cache).
//
// The reader works over a precomputed []rune slice rather than decoding
// UTF-8 on the fly: positions are rune offsets, and MoveToPosChars needs
// O(1) random-access repositioning.
package tokenreader

import (
	"errors"

	"github.com/cwbudde/go-latexnodes/pkg/latexerr"
	"github.com/cwbudde/go-latexnodes/pkg/parsingstate"
	"github.com/cwbudde/go-latexnodes/pkg/token"
)

// ErrEndOfStream is returned by PeekToken/NextToken when the cursor is
// at the end of the input and no further token can be produced. It is
// not a TokenParseError: reaching the end of well-formed input is not a
// failure.
var ErrEndOfStream = errors.New("tokenreader: end of stream")

// TokenReader is a stateful cursor over LaTeX source. It is exclusively
// owned by the walker driving the current parse; it is not safe to
// share across concurrent parses.
type TokenReader struct {
	src []rune
	pos int

	cache *cacheEntry
}

type cacheEntry struct {
	pos   int
	state *parsingstate.ParsingState
	tok   token.Token
	err   error
}

// New creates a TokenReader positioned at the start of source.
func New(source string) *TokenReader {
	return &TokenReader{src: []rune(source)}
}

// CurPos reports the current cursor position, in characters.
func (tr *TokenReader) CurPos() int {
	return tr.pos
}

// MoveToPosChars repositions the cursor to an absolute character index.
// Any peek cache is invalidated; the next peek recomputes from scratch.
func (tr *TokenReader) MoveToPosChars(pos int) {
	tr.pos = pos
	tr.cache = nil
}

// PeekToken returns the next token without advancing the cursor. Two
// consecutive peeks with the same parsing state return equal tokens;
// the result is memoized until the cursor moves or a different state is
// supplied.
func (tr *TokenReader) PeekToken(state *parsingstate.ParsingState) (token.Token, error) {
	if tr.cache != nil && tr.cache.pos == tr.pos && tr.cache.state == state {
		return tr.cache.tok, tr.cache.err
	}
	tok, err := tr.scan(state)
	tr.cache = &cacheEntry{pos: tr.pos, state: state, tok: tok, err: err}
	return tok, err
}

// NextToken returns the next token and advances the cursor past it,
// including any PostSpace it absorbed.
func (tr *TokenReader) NextToken(state *parsingstate.ParsingState) (token.Token, error) {
	tok, err := tr.PeekToken(state)
	if err != nil {
		return tok, err
	}
	tr.pos = tok.PosEnd
	tr.cache = nil
	return tok, nil
}

// scan performs the actual recognition at the current cursor position.
func (tr *TokenReader) scan(state *parsingstate.ParsingState) (token.Token, error) {
	start := tr.pos

	wsEnd, paraStart, paraEnd, isPara := tr.whitespaceSpan(start, state.EnableDoubleNewlineParagraphs())
	if isPara {
		return token.Token{
			Kind:     token.Char,
			Arg:      string(tr.src[paraStart:paraEnd]),
			Pos:      paraStart,
			PosEnd:   paraEnd,
			PreSpace: string(tr.src[start:paraStart]),
		}, nil
	}

	preSpace := string(tr.src[start:wsEnd])
	p := wsEnd

	if p >= len(tr.src) {
		return token.Token{}, ErrEndOfStream
	}

	c := tr.src[p]
	switch {
	case c == '\\':
		return tr.scanMacro(p, preSpace, state)
	case c == '%' && state.EnableComments():
		return tr.scanComment(p, preSpace, state)
	case c == '{':
		return token.Token{Kind: token.BraceOpen, Arg: "{", Pos: p, PosEnd: p + 1, PreSpace: preSpace}, nil
	case c == '}':
		return token.Token{Kind: token.BraceClose, Arg: "}", Pos: p, PosEnd: p + 1, PreSpace: preSpace}, nil
	case c == '$':
		return tr.scanDollar(p, preSpace, state), nil
	default:
		if length, ok := tr.matchSpecials(state, p); ok {
			return token.Token{Kind: token.Specials, Arg: string(tr.src[p : p+length]), Pos: p, PosEnd: p + length, PreSpace: preSpace}, nil
		}
		return token.Token{Kind: token.Char, Arg: string(c), Pos: p, PosEnd: p + 1, PreSpace: preSpace}, nil
	}
}

func (tr *TokenReader) matchSpecials(state *parsingstate.ParsingState, p int) (int, bool) {
	specials := state.Specials()
	if specials == nil {
		return 0, false
	}
	_, length, ok := specials.MatchAt(tr.src, p)
	return length, ok
}

// scanMacro recognizes a control sequence starting at the backslash
// position p.
func (tr *TokenReader) scanMacro(p int, preSpace string, state *parsingstate.ParsingState) (token.Token, error) {
	if p+1 >= len(tr.src) {
		return token.Token{}, latexerr.NewTokenParseError(p, "macro name expected after backslash at end of input")
	}

	c2 := tr.src[p+1]

	switch c2 {
	case '(', ')':
		arg := "\\" + string(c2)
		return token.Token{Kind: token.MathmodeInline, Arg: arg, Pos: p, PosEnd: p + 2, PreSpace: preSpace}, nil
	case '[', ']':
		arg := "\\" + string(c2)
		return token.Token{Kind: token.MathmodeDisplay, Arg: arg, Pos: p, PosEnd: p + 2, PreSpace: preSpace}, nil
	}

	if !state.IsMacroAlphaChar(c2) {
		// Symbolic (non-alpha) macro name: exactly the one character,
		// no trailing whitespace absorption.
		return token.Token{Kind: token.Macro, Arg: string(c2), Pos: p, PosEnd: p + 2, PreSpace: preSpace}, nil
	}

	nameEnd := p + 1
	for nameEnd < len(tr.src) && state.IsMacroAlphaChar(tr.src[nameEnd]) {
		nameEnd++
	}
	name := string(tr.src[p+1 : nameEnd])

	if state.EnableEnvironments() && (name == "begin" || name == "end") {
		if nameEnd >= len(tr.src) || tr.src[nameEnd] != '{' {
			return token.Token{}, latexerr.NewTokenParseError(p, "expected '{' immediately after \\%s", name)
		}
		nameStart := nameEnd + 1
		j := nameStart
		for j < len(tr.src) && tr.src[j] != '}' {
			j++
		}
		if j >= len(tr.src) {
			return token.Token{}, latexerr.NewTokenParseError(p, "unterminated environment name after \\%s{", name)
		}
		envName := string(tr.src[nameStart:j])
		kind := token.BeginEnvironment
		if name == "end" {
			kind = token.EndEnvironment
		}
		return token.Token{Kind: kind, Arg: envName, Pos: p, PosEnd: j + 1, PreSpace: preSpace}, nil
	}

	// bounded absorption: trailing whitespace never eats into a
	// paragraph break
	postEnd := tr.boundedTrailingWhitespaceEnd(nameEnd, state.EnableDoubleNewlineParagraphs())
	postSpace := string(tr.src[nameEnd:postEnd])
	return token.Token{Kind: token.Macro, Arg: name, Pos: p, PosEnd: postEnd, PreSpace: preSpace, PostSpace: postSpace}, nil
}

// scanComment recognizes a '%'-introduced comment starting at position
// p (the '%' itself).
func (tr *TokenReader) scanComment(p int, preSpace string, state *parsingstate.ParsingState) (token.Token, error) {
	bodyStart := p + 1
	j := bodyStart
	for j < len(tr.src) && tr.src[j] != '\n' {
		j++
	}
	body := string(tr.src[bodyStart:j])

	postEnd := tr.boundedTrailingWhitespaceEnd(j, state.EnableDoubleNewlineParagraphs())
	postSpace := string(tr.src[j:postEnd])

	return token.Token{Kind: token.Comment, Arg: body, Pos: p, PosEnd: postEnd, PreSpace: preSpace, PostSpace: postSpace}, nil
}

// scanDollar recognizes '$' or '$$' at position p.
//
// The tokenizer is greedy (prefers "$$") EXCEPT when the incoming
// parsing state is already inside a single-dollar inline math span
// (InMathMode && MathModeDelimiter == "$"): then a single '$' always
// closes that span, even when immediately followed by another '$' that
// opens the next one. This is the one place the tokenizer reads the
// math-mode flag to influence its greedy choice, rather than just a
// token's kind.
func (tr *TokenReader) scanDollar(p int, preSpace string, state *parsingstate.ParsingState) token.Token {
	if state.InMathMode() && state.MathModeDelimiter() == "$" {
		return token.Token{Kind: token.MathmodeInline, Arg: "$", Pos: p, PosEnd: p + 1, PreSpace: preSpace}
	}
	if p+1 < len(tr.src) && tr.src[p+1] == '$' {
		return token.Token{Kind: token.MathmodeDisplay, Arg: "$$", Pos: p, PosEnd: p + 2, PreSpace: preSpace}
	}
	return token.Token{Kind: token.MathmodeInline, Arg: "$", Pos: p, PosEnd: p + 1, PreSpace: preSpace}
}

// whitespaceSpan scans the maximal whitespace run starting at start. If
// enablePara is set and that run contains the earliest run of two
// newlines separated only by spaces/tabs, it reports the paragraph
// break's [paraStart, paraEnd) span within it and isPara=true.
func (tr *TokenReader) whitespaceSpan(start int, enablePara bool) (wsEnd, paraStart, paraEnd int, isPara bool) {
	i := start
	for i < len(tr.src) && isWhitespaceRune(tr.src[i]) {
		i++
	}
	wsEnd = i

	if !enablePara {
		return wsEnd, 0, 0, false
	}

	for j := start; j < wsEnd; j++ {
		if tr.src[j] != '\n' {
			continue
		}
		k := j + 1
		for k < wsEnd && (tr.src[k] == ' ' || tr.src[k] == '\t') {
			k++
		}
		if k < wsEnd && tr.src[k] == '\n' {
			return wsEnd, j, k + 1, true
		}
	}
	return wsEnd, 0, 0, false
}

// boundedTrailingWhitespaceEnd absorbs trailing whitespace starting at
// start, same as whitespaceSpan, but truncated to stop before a
// paragraph break rather than ever including one.
func (tr *TokenReader) boundedTrailingWhitespaceEnd(start int, enablePara bool) int {
	wsEnd, paraStart, _, isPara := tr.whitespaceSpan(start, enablePara)
	if isPara {
		return paraStart
	}
	return wsEnd
}

func isWhitespaceRune(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}
