package parsers

import (
	"github.com/cwbudde/go-latexnodes/pkg/parsingstate"
	"github.com/cwbudde/go-latexnodes/pkg/token"
	"github.com/cwbudde/go-latexnodes/pkg/tokenreader"
	"github.com/cwbudde/go-latexnodes/pkg/walker"
)

// OptionalCharsMarkerParser recognizes an optional literal marker (the
// 's' star-argument spec, or a 't<c>' single-character spec). Absence
// of the marker is not an error but a valid outcome, reported via
// CharsMarkerNode.Found; the only error Parse returns is one the token
// reader raised while peeking.
type OptionalCharsMarkerParser struct {
	// Chars is the literal marker text to look for, e.g. "*".
	Chars string
	// AllowPreSpace allows whitespace before the marker; otherwise
	// whitespace before it means the marker is absent.
	AllowPreSpace bool
}

var _ walker.Parser = (*OptionalCharsMarkerParser)(nil)

func (mp *OptionalCharsMarkerParser) Parse(w *walker.Walker, reader *tokenreader.TokenReader, state *parsingstate.ParsingState, kwargs map[string]any) ([]walker.Node, walker.CarryoverInfo, error) {
	tok, err := reader.PeekToken(state)
	if err == tokenreader.ErrEndOfStream {
		return []walker.Node{CharsMarkerNode{Chars: mp.Chars, Found: false, Pos: reader.CurPos(), PosEnd: reader.CurPos()}}, walker.CarryoverInfo{}, nil
	}
	if err != nil {
		return nil, walker.CarryoverInfo{}, err
	}

	matches := tok.Kind == token.Char && tok.Arg == mp.Chars
	if matches && !mp.AllowPreSpace && tok.PreSpace != "" {
		matches = false
	}

	if !matches {
		return []walker.Node{CharsMarkerNode{Chars: mp.Chars, Found: false, Pos: tok.Pos, PosEnd: tok.Pos}}, walker.CarryoverInfo{}, nil
	}

	reader.NextToken(state)
	return []walker.Node{CharsMarkerNode{Chars: mp.Chars, Found: true, Pos: tok.Pos, PosEnd: tok.PosEnd}}, walker.CarryoverInfo{}, nil
}
