package parsers

import (
	"github.com/cwbudde/go-latexnodes/pkg/latexerr"
	"github.com/cwbudde/go-latexnodes/pkg/parsingstate"
	"github.com/cwbudde/go-latexnodes/pkg/token"
	"github.com/cwbudde/go-latexnodes/pkg/tokenreader"
	"github.com/cwbudde/go-latexnodes/pkg/walker"
)

// DelimitedGroupParser parses a group bracketed by an arbitrary
// open/close literal pair ("{","}" for a mandatory argument, "[","]"
// for an optional one, or any other pair a catalog entry names via the
// 'r<a><b>'/'d<a><b>' argument specs).
//
// TODO: every one of the standard argument types can in principle be
// preceded by a comment (e.g. a macro call split across a line with a
// trailing '%' before its next argument); this parser does not yet skip
// one.
type DelimitedGroupParser struct {
	// Delimiters is the [open, close] literal pair.
	Delimiters [2]string
	// Optional makes a missing opening delimiter not an error: Parse
	// returns no nodes and nil error instead.
	Optional bool
	// AllowPreSpace allows whitespace between the previous token and the
	// opening delimiter. When false, any PreSpace on the opening token
	// makes an optional group absent (and a required one malformed)
	// rather than merely preceded by space.
	AllowPreSpace bool
}

var _ walker.Parser = (*DelimitedGroupParser)(nil)

func (gp *DelimitedGroupParser) matchesOpen(tok token.Token) bool {
	open := gp.Delimiters[0]
	isOpen := (open == "{" && tok.Kind == token.BraceOpen) || (tok.Kind == token.Char && tok.Arg == open)
	if !isOpen {
		return false
	}
	if !gp.AllowPreSpace && tok.PreSpace != "" {
		return false
	}
	return true
}

// isOpenToken reports whether tok is another occurrence of the opening
// delimiter, ignoring AllowPreSpace (which only gates the group's own
// entry, not nested occurrences inside its body).
func (gp *DelimitedGroupParser) isOpenToken(tok token.Token) bool {
	open := gp.Delimiters[0]
	return (open == "{" && tok.Kind == token.BraceOpen) || (tok.Kind == token.Char && tok.Arg == open)
}

func (gp *DelimitedGroupParser) matchesClose(tok token.Token) bool {
	closer := gp.Delimiters[1]
	if closer == "}" && tok.Kind == token.BraceClose {
		return true
	}
	return tok.Kind == token.Char && tok.Arg == closer
}

func (gp *DelimitedGroupParser) Parse(w *walker.Walker, reader *tokenreader.TokenReader, state *parsingstate.ParsingState, kwargs map[string]any) ([]walker.Node, walker.CarryoverInfo, error) {
	tok, err := reader.PeekToken(state)
	if err == tokenreader.ErrEndOfStream {
		if gp.Optional {
			return nil, walker.CarryoverInfo{}, nil
		}
		return nil, walker.CarryoverInfo{}, latexerr.NewParseError(reader.CurPos(), "expected %q, found end of input", gp.Delimiters[0])
	}
	if err != nil {
		return nil, walker.CarryoverInfo{}, err
	}

	if !gp.matchesOpen(tok) {
		if gp.Optional {
			return nil, walker.CarryoverInfo{}, nil
		}
		return nil, walker.CarryoverInfo{}, latexerr.NewParseError(tok.Pos, "expected %q", gp.Delimiters[0])
	}
	reader.NextToken(state)

	body := gp.Body()
	var nodes []any
	// depth tracks nesting of same-literal delimiter pairs (e.g. a
	// 'r()' argument containing its own balanced parentheses): the
	// group only ends when a close is seen at depth 1. Brace groups
	// never actually hit the depth>1 branch here because the body's
	// ExpressionParser already consumes a nested '{...}' as one
	// recursive GroupNode, so the next peek after it is always the
	// real matching close.
	depth := 1
	for {
		next, err := reader.PeekToken(state)
		if err == tokenreader.ErrEndOfStream {
			return nil, walker.CarryoverInfo{}, latexerr.NewParseError(reader.CurPos(), "unterminated group, expected %q", gp.Delimiters[1])
		}
		if err != nil {
			return nil, walker.CarryoverInfo{}, err
		}
		if gp.matchesClose(next) {
			depth--
			if depth == 0 {
				reader.NextToken(state)
				break
			}
		} else if next.Kind == token.Char && gp.isOpenToken(next) {
			depth++
		}

		sub, err := w.ParseContent([]walker.Parser{body}, reader, state, kwargs)
		if err != nil {
			return nil, walker.CarryoverInfo{}, err
		}
		nodes = append(nodes, sub...)
	}

	return []walker.Node{GroupNode{Open: gp.Delimiters[0], Close: gp.Delimiters[1], Nodes: nodes, Pos: tok.Pos, PosEnd: reader.CurPos()}}, walker.CarryoverInfo{}, nil
}

// Body returns the parser used for the group's contents: a plain
// ExpressionParser unless a caller wants something else.
func (gp *DelimitedGroupParser) Body() walker.Parser {
	return &ExpressionParser{IncludeSkippedComments: true}
}
