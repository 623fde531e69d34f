package parsers

import (
	"github.com/cwbudde/go-latexnodes/pkg/latexerr"
	"github.com/cwbudde/go-latexnodes/pkg/parsingstate"
	"github.com/cwbudde/go-latexnodes/pkg/token"
	"github.com/cwbudde/go-latexnodes/pkg/tokenreader"
	"github.com/cwbudde/go-latexnodes/pkg/walker"
)

// ExpressionParser parses exactly one LaTeX expression: a single
// character, a brace group, a macro (plus whatever arguments its
// catalog signature calls for), a math-mode span, an environment, or a
// specials match. Comments encountered before the expression are
// skipped (and optionally kept as CommentNodes) rather than treated as
// part of it.
type ExpressionParser struct {
	// IncludeSkippedComments keeps leading comments as CommentNodes in
	// the returned node list instead of discarding them.
	IncludeSkippedComments bool
	// SingleTokenRequiringArgIsError makes it an error for a macro whose
	// catalog entry reports RequiresArgs()==true to end up with zero
	// parsed arguments (e.g. because the catalog has no signature for
	// it), rather than silently producing an argument-less MacroNode.
	SingleTokenRequiringArgIsError bool
}

var _ walker.Parser = (*ExpressionParser)(nil)

func (ep *ExpressionParser) Parse(w *walker.Walker, reader *tokenreader.TokenReader, state *parsingstate.ParsingState, kwargs map[string]any) ([]walker.Node, walker.CarryoverInfo, error) {
	var skipped []walker.Node

	for {
		tok, err := reader.PeekToken(state)
		if err == tokenreader.ErrEndOfStream {
			return skipped, walker.CarryoverInfo{}, latexerr.NewParseError(reader.CurPos(), "expected an expression, found end of input")
		}
		if err != nil {
			return skipped, walker.CarryoverInfo{}, err
		}

		if tok.Kind == token.Comment {
			reader.NextToken(state)
			if ep.IncludeSkippedComments {
				skipped = append(skipped, CommentNode{Text: tok.Arg, Pos: tok.Pos, PosEnd: tok.PosEnd})
			}
			continue
		}

		nodes, carry, err := ep.parseOne(w, reader, state, tok, kwargs)
		if err != nil {
			return skipped, walker.CarryoverInfo{}, err
		}
		return append(skipped, nodes...), carry, nil
	}
}

func (ep *ExpressionParser) parseOne(w *walker.Walker, reader *tokenreader.TokenReader, state *parsingstate.ParsingState, tok token.Token, kwargs map[string]any) ([]walker.Node, walker.CarryoverInfo, error) {
	switch tok.Kind {
	case token.Char:
		reader.NextToken(state)
		return []walker.Node{CharNode{Text: tok.Arg, Pos: tok.Pos, PosEnd: tok.PosEnd}}, walker.CarryoverInfo{}, nil

	case token.Specials:
		reader.NextToken(state)
		return []walker.Node{SpecialsNode{Text: tok.Arg, Pos: tok.Pos, PosEnd: tok.PosEnd}}, walker.CarryoverInfo{}, nil

	case token.BraceOpen:
		reader.NextToken(state)
		nodes, end, err := ep.parseUntilClose(w, reader, state, kwargs, closeOnBrace)
		if err != nil {
			return nil, walker.CarryoverInfo{}, err
		}
		return []walker.Node{GroupNode{Open: "{", Close: "}", Nodes: nodes, Pos: tok.Pos, PosEnd: end}}, walker.CarryoverInfo{}, nil

	case token.MathmodeInline, token.MathmodeDisplay:
		reader.NextToken(state)
		display := tok.Kind == token.MathmodeDisplay
		closer, ok := state.MathClosingDelimiter(tok.Arg)
		if !ok {
			closer = tok.Arg
		}
		mathState := state.SubContext(parsingstate.WithInMathMode(true, tok.Arg))
		nodes, end, err := ep.parseUntilClose(w, reader, mathState, kwargs, closeOnMathDelimiter(closer))
		if err != nil {
			return nil, walker.CarryoverInfo{}, err
		}
		return []walker.Node{MathNode{Delimiter: tok.Arg, Display: display, Nodes: nodes, Pos: tok.Pos, PosEnd: end}}, walker.CarryoverInfo{}, nil

	case token.BeginEnvironment:
		reader.NextToken(state)
		nodes, end, err := ep.parseUntilClose(w, reader, state, kwargs, closeOnEndEnvironment(tok.Arg))
		if err != nil {
			return nil, walker.CarryoverInfo{}, err
		}
		return []walker.Node{EnvironmentNode{Name: tok.Arg, Nodes: nodes, Pos: tok.Pos, PosEnd: end}}, walker.CarryoverInfo{}, nil

	case token.Macro:
		reader.NextToken(state)
		return ep.parseMacro(w, reader, state, tok, kwargs)

	case token.EndEnvironment:
		return nil, walker.CarryoverInfo{}, latexerr.NewParseError(tok.Pos, "unexpected \\end{%s} with no matching \\begin", tok.Arg)

	case token.BraceClose:
		return nil, walker.CarryoverInfo{}, latexerr.NewParseError(tok.Pos, "unexpected '}'")

	default:
		return nil, walker.CarryoverInfo{}, latexerr.NewParseError(tok.Pos, "unexpected token %s", tok.Kind)
	}
}

// closePredicate reports whether tok (already peeked, not yet consumed)
// ends the body being collected, and if so whether it should itself be
// consumed as part of the closing (true) or left for the caller.
type closePredicate func(tok token.Token) (done bool, consume bool, mismatchErr error)

func closeOnBrace(tok token.Token) (bool, bool, error) {
	return tok.Kind == token.BraceClose, true, nil
}

func closeOnMathDelimiter(closer string) closePredicate {
	return func(tok token.Token) (bool, bool, error) {
		if tok.Kind != token.MathmodeInline && tok.Kind != token.MathmodeDisplay {
			return false, false, nil
		}
		if tok.Arg != closer {
			return true, true, latexerr.NewParseError(tok.Pos, "math mode ended by %q, expected %q", tok.Arg, closer)
		}
		return true, true, nil
	}
}

func closeOnEndEnvironment(name string) closePredicate {
	return func(tok token.Token) (bool, bool, error) {
		if tok.Kind != token.EndEnvironment {
			return false, false, nil
		}
		if tok.Arg != name {
			return true, true, latexerr.NewParseError(tok.Pos, "mismatched \\end{%s}, expected \\end{%s}", tok.Arg, name)
		}
		return true, true, nil
	}
}

// parseUntilClose repeatedly runs an ExpressionParser through the
// walker, one expression at a time, until the upcoming token satisfies
// done. It never calls itself directly: every recursive step goes
// through w.ParseContent, per the walker's indirection contract.
func (ep *ExpressionParser) parseUntilClose(w *walker.Walker, reader *tokenreader.TokenReader, state *parsingstate.ParsingState, kwargs map[string]any, done closePredicate) ([]any, int, error) {
	var nodes []any
	for {
		tok, err := reader.PeekToken(state)
		if err == tokenreader.ErrEndOfStream {
			return nodes, reader.CurPos(), latexerr.NewParseError(reader.CurPos(), "unexpected end of input, expected closing delimiter")
		}
		if err != nil {
			return nodes, reader.CurPos(), err
		}

		isDone, consume, mismatchErr := done(tok)
		if isDone {
			if consume {
				reader.NextToken(state)
			}
			if mismatchErr != nil {
				return nodes, reader.CurPos(), mismatchErr
			}
			return nodes, reader.CurPos(), nil
		}

		sub, err := w.ParseContent([]walker.Parser{ep}, reader, state, kwargs)
		if err != nil {
			return append(nodes, sub...), reader.CurPos(), err
		}
		nodes = append(nodes, sub...)
	}
}

func (ep *ExpressionParser) parseMacro(w *walker.Walker, reader *tokenreader.TokenReader, state *parsingstate.ParsingState, tok token.Token, kwargs map[string]any) ([]walker.Node, walker.CarryoverInfo, error) {
	var signature string
	var requiresArgs bool
	if macros := state.Macros(); macros != nil {
		if spec, ok := macros.LookupMacro(tok.Arg); ok {
			signature = spec.Signature()
			requiresArgs = spec.RequiresArgs()
		}
	}

	argParsers, err := ParseArgSpecs(signature)
	if err != nil {
		return nil, walker.CarryoverInfo{}, latexerr.NewParseError(tok.Pos, "macro \\%s: %s", tok.Arg, err)
	}

	var args []any
	if len(argParsers) > 0 {
		walkerParsers := make([]walker.Parser, len(argParsers))
		for i, ap := range argParsers {
			walkerParsers[i] = ap
		}
		nodes, err := w.ParseContent(walkerParsers, reader, state, kwargs)
		if err != nil {
			return nil, walker.CarryoverInfo{}, latexerr.NewParseError(tok.Pos, "macro \\%s: %s", tok.Arg, err)
		}
		args = nodes
	}

	if ep.SingleTokenRequiringArgIsError && requiresArgs && len(args) == 0 {
		return nil, walker.CarryoverInfo{}, latexerr.NewParseError(tok.Pos, "macro \\%s requires arguments but none could be parsed", tok.Arg)
	}

	return []walker.Node{MacroNode{Name: tok.Arg, Args: args, Pos: tok.Pos, PosEnd: reader.CurPos()}}, walker.CarryoverInfo{}, nil
}
