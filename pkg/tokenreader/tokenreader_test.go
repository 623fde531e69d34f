package tokenreader

import (
	"testing"

	"github.com/cwbudde/go-latexnodes/pkg/catalog"
	"github.com/cwbudde/go-latexnodes/pkg/parsingstate"
	"github.com/cwbudde/go-latexnodes/pkg/token"
)

func collect(t *testing.T, source string, state *parsingstate.ParsingState) []token.Token {
	t.Helper()
	r := New(source)
	var toks []token.Token
	for {
		tok, err := r.NextToken(state)
		if err == ErrEndOfStream {
			break
		}
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		toks = append(toks, tok)
	}
	return toks
}

func TestPlainChars(t *testing.T) {
	state := parsingstate.New("abc")
	toks := collect(t, "abc", state)

	if len(toks) != 3 {
		t.Fatalf("expected 3 tokens, got %d", len(toks))
	}
	for i, want := range []string{"a", "b", "c"} {
		if toks[i].Kind != token.Char || toks[i].Arg != want {
			t.Fatalf("tokens[%d] wrong. expected char(%q), got %s", i, want, toks[i])
		}
	}
}

func TestMacroAlphaRun(t *testing.T) {
	state := parsingstate.New(`\textbf x`)
	toks := collect(t, `\textbf x`, state)

	if len(toks) != 2 {
		t.Fatalf("expected 2 tokens, got %d: %v", len(toks), toks)
	}
	if toks[0].Kind != token.Macro || toks[0].Arg != "textbf" {
		t.Fatalf("tokens[0] wrong: %s", toks[0])
	}
	if toks[0].PostSpace != " " {
		t.Fatalf("expected macro to absorb trailing space, got PostSpace=%q", toks[0].PostSpace)
	}
	if toks[1].Kind != token.Char || toks[1].Arg != "x" {
		t.Fatalf("tokens[1] wrong: %s", toks[1])
	}
}

func TestMacroSymbolicSingleChar(t *testing.T) {
	state := parsingstate.New(`\, x`)
	toks := collect(t, `\, x`, state)

	if toks[0].Kind != token.Macro || toks[0].Arg != "," {
		t.Fatalf("tokens[0] wrong: %s", toks[0])
	}
	if toks[0].PostSpace != "" {
		t.Fatalf("expected symbolic macro to not absorb trailing space, got PostSpace=%q", toks[0].PostSpace)
	}
}

func TestCommentAbsorbsTrailingWhitespace(t *testing.T) {
	source := "% Comment here\n  more stuff"
	state := parsingstate.New(source)
	toks := collect(t, source, state)

	if toks[0].Kind != token.Comment {
		t.Fatalf("tokens[0] wrong kind: %s", toks[0])
	}
	if toks[0].Arg != " Comment here" {
		t.Fatalf("tokens[0].Arg wrong. expected=%q, got=%q", " Comment here", toks[0].Arg)
	}
	if toks[0].PostSpace != "\n  " {
		t.Fatalf("tokens[0].PostSpace wrong. expected=%q, got=%q", "\n  ", toks[0].PostSpace)
	}
}

func TestCommentsDisabledYieldsPlainChar(t *testing.T) {
	state := parsingstate.New("100% done", parsingstate.WithEnableComments(false))
	toks := collect(t, "100% done", state)

	// "100" then literal '%' then " done" split into individual chars.
	if toks[3].Kind != token.Char || toks[3].Arg != "%" {
		t.Fatalf("tokens[3] wrong, expected literal '%%' char, got %s", toks[3])
	}
}

func TestParagraphBreakSplitsFromPrecedingMacro(t *testing.T) {
	source := "\\mymacro\n\nNew"
	state := parsingstate.New(source)
	toks := collect(t, source, state)

	var para *token.Token
	for i := range toks {
		if toks[i].Kind == token.Char && toks[i].Arg == "\n\n" {
			para = &toks[i]
			break
		}
	}
	if para == nil {
		t.Fatalf("expected a paragraph-break char token, got %v", toks)
	}
	if toks[0].PostSpace != "" {
		t.Fatalf("expected macro to absorb zero trailing whitespace ahead of a paragraph break, got PostSpace=%q", toks[0].PostSpace)
	}
	if para.Pos != toks[0].PosEnd {
		t.Fatalf("expected paragraph token to start exactly where the macro token ended: para.Pos=%d macro.PosEnd=%d", para.Pos, toks[0].PosEnd)
	}
}

func TestParagraphBreaksDisabled(t *testing.T) {
	source := "a\n\nb"
	state := parsingstate.New(source, parsingstate.WithEnableDoubleNewlineParagraphs(false))
	toks := collect(t, source, state)

	for _, tok := range toks {
		if tok.Arg == "\n\n" {
			t.Fatalf("did not expect a paragraph-break token with paragraphs disabled, got %v", toks)
		}
	}
}

func TestBraceTokens(t *testing.T) {
	state := parsingstate.New("{a}")
	toks := collect(t, "{a}", state)

	if toks[0].Kind != token.BraceOpen || toks[2].Kind != token.BraceClose {
		t.Fatalf("brace tokens wrong: %v", toks)
	}
}

func TestBeginEndEnvironment(t *testing.T) {
	source := `\begin{itemize}x\end{itemize}`
	state := parsingstate.New(source)
	toks := collect(t, source, state)

	if toks[0].Kind != token.BeginEnvironment || toks[0].Arg != "itemize" {
		t.Fatalf("tokens[0] wrong: %s", toks[0])
	}
	if toks[2].Kind != token.EndEnvironment || toks[2].Arg != "itemize" {
		t.Fatalf("tokens[2] wrong: %s", toks[2])
	}
}

func TestBeginWithoutBraceIsTokenParseError(t *testing.T) {
	source := `\begin foo`
	state := parsingstate.New(source)
	r := New(source)

	_, err := r.NextToken(state)
	if err == nil {
		t.Fatalf("expected a TokenParseError, got nil")
	}
}

func TestNoEnvironmentsLeavesBeginAsOrdinaryMacro(t *testing.T) {
	source := `\begin{x}`
	state := parsingstate.New(source, parsingstate.WithEnableEnvironments(false))
	toks := collect(t, source, state)

	if toks[0].Kind != token.Macro || toks[0].Arg != "begin" {
		t.Fatalf("tokens[0] wrong: %s", toks[0])
	}
	if toks[1].Kind != token.BraceOpen {
		t.Fatalf("tokens[1] wrong: %s", toks[1])
	}
}

func TestBracketMathDelimiters(t *testing.T) {
	source := `\[x\]`
	state := parsingstate.New(source)
	toks := collect(t, source, state)

	if toks[0].Kind != token.MathmodeDisplay || toks[0].Arg != `\[` {
		t.Fatalf("tokens[0] wrong: %s", toks[0])
	}
	if toks[2].Kind != token.MathmodeDisplay || toks[2].Arg != `\]` {
		t.Fatalf("tokens[2] wrong: %s", toks[2])
	}
}

func TestDoubleDollarIsGreedyOutsideMathMode(t *testing.T) {
	source := "$$x$$"
	state := parsingstate.New(source)
	toks := collect(t, source, state)

	if toks[0].Kind != token.MathmodeDisplay || toks[0].Arg != "$$" {
		t.Fatalf("tokens[0] wrong: %s", toks[0])
	}
	if toks[2].Kind != token.MathmodeDisplay || toks[2].Arg != "$$" {
		t.Fatalf("tokens[2] wrong: %s", toks[2])
	}
}

func TestSingleDollarClosesSingleDollarMathEvenBeforeAnotherDollar(t *testing.T) {
	// Inside a state that is already in single-$ math mode, a '$'
	// always closes it, even if immediately followed by another '$'
	// that would otherwise open a new span.
	mathState := parsingstate.New("$$", parsingstate.WithInMathMode(true, "$"))
	r := New("$$")

	tok, err := r.NextToken(mathState)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tok.Kind != token.MathmodeInline || tok.Arg != "$" {
		t.Fatalf("expected a single '$' closer, got %s", tok)
	}
}

func TestMoveToPosCharsRepositions(t *testing.T) {
	state := parsingstate.New("abcdef")
	r := New("abcdef")

	first, _ := r.NextToken(state)
	if first.Arg != "a" {
		t.Fatalf("expected first token 'a', got %s", first)
	}

	r.MoveToPosChars(3)
	if r.CurPos() != 3 {
		t.Fatalf("CurPos() wrong after MoveToPosChars. expected=3, got=%d", r.CurPos())
	}
	tok, _ := r.NextToken(state)
	if tok.Arg != "d" {
		t.Fatalf("expected token 'd' after repositioning, got %s", tok)
	}
}

func TestPeekTokenIsIdempotent(t *testing.T) {
	state := parsingstate.New(`\vec`)
	r := New(`\vec`)

	first, err := r.PeekToken(state)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := r.PeekToken(state)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != second {
		t.Fatalf("expected two consecutive peeks to be equal: %v != %v", first, second)
	}
}

func TestSpecialsCatalogMatch(t *testing.T) {
	state := parsingstate.New("a~b", parsingstate.WithCatalogs(nil, nil, tildeSpecials{}))
	toks := collect(t, "a~b", state)

	if toks[1].Kind != token.Specials || toks[1].Arg != "~" {
		t.Fatalf("tokens[1] wrong: %s", toks[1])
	}
}

func TestTokenStreamCoversSourceWithoutOverlap(t *testing.T) {
	sources := []string{
		"Some Chars",
		"   \t\n \t\\somemacro and more",
		"% Comment here\n  more",
		"\\mymacro\n\nNew",
		"\\begin{enumerate}[(i)]x\\end{enumerate}",
		"$\\zeta$$\\gamma$",
	}

	for _, source := range sources {
		state := parsingstate.New(source)
		r := New(source)
		src := []rune(source)

		var rebuilt string
		prevEnd := 0
		for {
			tok, err := r.NextToken(state)
			if err == ErrEndOfStream {
				break
			}
			if err != nil {
				t.Fatalf("source %q: unexpected error: %v", source, err)
			}
			if tok.Pos > tok.PosEnd {
				t.Fatalf("source %q: token %s violates Pos <= PosEnd", source, tok)
			}
			if tok.Pos-len([]rune(tok.PreSpace)) != prevEnd {
				t.Fatalf("source %q: token %s leaves a gap after offset %d", source, tok, prevEnd)
			}
			rebuilt += tok.PreSpace + string(src[tok.Pos:tok.PosEnd])
			prevEnd = tok.PosEnd
		}

		if rebuilt != string(src[:r.CurPos()]) {
			t.Fatalf("source %q: token stream does not reconstruct the source prefix: %q", source, rebuilt)
		}
	}
}

type tildeSpecials struct{}

func (tildeSpecials) MatchAt(src []rune, offset int) (catalog.SpecialsSpec, int, bool) {
	if offset < len(src) && src[offset] == '~' {
		return struct{}{}, 1, true
	}
	return nil, 0, false
}
