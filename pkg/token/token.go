// Package token defines the tagged token record produced by the LaTeX
// tokenizer and consumed by the parser framework.
//
// Positions are Unicode scalar (rune) offsets into the source string, not
// byte offsets: a multi-byte rune such as 'Δ' or '🚀' still advances a
// position by exactly one.
package token

import "fmt"

// Kind identifies the syntactic category of a Token.
type Kind int

// Token kinds recognized by the tokenizer.
const (
	// Char is a single ordinary source character, or a paragraph-break
	// run when Arg is the paragraph separator (see ParsingState).
	Char Kind = iota
	// Macro is a control sequence: a backslash followed by either a
	// maximal run of macro-alpha characters, or exactly one other
	// character.
	Macro
	// Comment is a '%'-introduced comment, present only when the
	// parsing state has comments enabled.
	Comment
	// BraceOpen is a literal '{'.
	BraceOpen
	// BraceClose is a literal '}'.
	BraceClose
	// MathmodeInline is an inline math delimiter: '$' or '\(' or '\)'.
	MathmodeInline
	// MathmodeDisplay is a display math delimiter: '$$' or '\[' or '\]'.
	MathmodeDisplay
	// BeginEnvironment is a composite '\begin{name}' token.
	BeginEnvironment
	// EndEnvironment is a composite '\end{name}' token.
	EndEnvironment
	// Specials is a token matched against the parsing state's specials
	// catalog (e.g. '~', '---').
	Specials
)

// String renders a Kind using its LaTeX-facing name, mainly for error
// messages and debug output.
func (k Kind) String() string {
	switch k {
	case Char:
		return "char"
	case Macro:
		return "macro"
	case Comment:
		return "comment"
	case BraceOpen:
		return "brace_open"
	case BraceClose:
		return "brace_close"
	case MathmodeInline:
		return "mathmode_inline"
	case MathmodeDisplay:
		return "mathmode_display"
	case BeginEnvironment:
		return "begin_environment"
	case EndEnvironment:
		return "end_environment"
	case Specials:
		return "specials"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Token is an ephemeral, immutable value describing one lexical unit of
// LaTeX source.
//
// Invariant: Pos <= PosEnd; the substring covering [Pos, PosEnd) is the
// token body plus any PostSpace it absorbed. PreSpace is the whitespace
// immediately preceding Pos and is not part of [Pos, PosEnd).
type Token struct {
	Kind Kind
	// Arg is the token's payload: the macro name, the comment body, the
	// literal delimiter character(s), or the environment name.
	Arg string
	// Pos is the character offset where the token body starts.
	Pos int
	// PosEnd is the exclusive character offset where the token
	// (including any absorbed PostSpace) ends.
	PosEnd int
	// PreSpace is whitespace consumed immediately before Pos.
	PreSpace string
	// PostSpace is whitespace absorbed after a macro name or a
	// comment's terminating newline. Empty for tokens that never
	// absorb trailing space.
	PostSpace string
}

// Len returns the number of characters spanned by [Pos, PosEnd).
func (t Token) Len() int {
	return t.PosEnd - t.Pos
}

// String gives a compact debug rendering, e.g. macro("vec", 3..8).
func (t Token) String() string {
	return fmt.Sprintf("%s(%q, %d..%d)", t.Kind, t.Arg, t.Pos, t.PosEnd)
}
