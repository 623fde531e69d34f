package parsers

import (
	"github.com/cwbudde/go-latexnodes/pkg/latexerr"
	"github.com/cwbudde/go-latexnodes/pkg/parsingstate"
	"github.com/cwbudde/go-latexnodes/pkg/tokenreader"
	"github.com/cwbudde/go-latexnodes/pkg/walker"
)

// mirroredDelimiters pairs bracket-like opening characters with their
// closer, for DelimitedVerbatimParser's autodetection mode.
var mirroredDelimiters = map[rune]rune{
	'{': '}',
	'[': ']',
	'(': ')',
	'<': '>',
}

// DelimitedVerbatimParser reads a raw, untokenized span of source
// between a delimiter pair, bypassing the token reader entirely. This
// is the one primitive that must read characters directly rather than
// through PeekToken/NextToken: a verbatim body may contain characters
// (backslashes, braces, '%') that would otherwise be tokenized, and the
// whole point of a verbatim argument is that they are not.
type DelimitedVerbatimParser struct {
	// DelimiterChars, if non-zero, pins the expected opening/closing
	// rune pair. Left as the zero value, the parser takes the first
	// non-whitespace character at or after the cursor as the opener and
	// looks it up in
	// mirroredDelimiters for the matching closer, defaulting to the
	// same character closing itself (e.g. '|...|').
	DelimiterChars [2]rune
}

var _ walker.Parser = (*DelimitedVerbatimParser)(nil)

func (vp *DelimitedVerbatimParser) Parse(w *walker.Walker, reader *tokenreader.TokenReader, state *parsingstate.ParsingState, kwargs map[string]any) ([]walker.Node, walker.CarryoverInfo, error) {
	src := []rune(state.Source())
	pos := reader.CurPos()

	for pos < len(src) && isVerbatimSpace(src[pos]) {
		pos++
	}
	if pos >= len(src) {
		return nil, walker.CarryoverInfo{}, latexerr.NewParseError(pos, "expected a verbatim argument, found end of input")
	}

	openCh := src[pos]
	if vp.DelimiterChars[0] != 0 && openCh != vp.DelimiterChars[0] {
		return nil, walker.CarryoverInfo{}, latexerr.NewParseError(pos, "expected verbatim delimiter %q, found %q", vp.DelimiterChars[0], openCh)
	}

	closeCh := openCh
	if vp.DelimiterChars[1] != 0 {
		closeCh = vp.DelimiterChars[1]
	} else if mirrored, ok := mirroredDelimiters[openCh]; ok {
		closeCh = mirrored
	}

	start := pos + 1
	j := start
	for j < len(src) && src[j] != closeCh {
		j++
	}
	if j >= len(src) {
		return nil, walker.CarryoverInfo{}, latexerr.NewParseError(pos, "unterminated verbatim argument, expected closing %q", closeCh)
	}

	body := string(src[start:j])
	reader.MoveToPosChars(j + 1)

	return []walker.Node{VerbatimNode{Text: body, Pos: pos, PosEnd: j + 1}}, walker.CarryoverInfo{}, nil
}

// isVerbatimSpace reports whether r is whitespace to be skipped before
// an autodetected or explicit verbatim opening delimiter: the first
// non-space character after entry is the delimiter.
func isVerbatimSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}
