package latexerr

import "testing"

func TestTokenParseErrorMessage(t *testing.T) {
	err := NewTokenParseError(5, "macro name expected after %s", `\`)
	expected := `token parse error at position 5: macro name expected after \`
	if err.Error() != expected {
		t.Fatalf("Error() wrong. expected=%q, got=%q", expected, err.Error())
	}
	if err.Pos != 5 {
		t.Fatalf("Pos wrong. expected=5, got=%d", err.Pos)
	}
}

func TestParseErrorMessageAndPartialNodes(t *testing.T) {
	err := NewParseError(12, "expected %q", "}")
	if err.PartialNodes != nil {
		t.Fatalf("expected nil PartialNodes on a freshly constructed ParseError")
	}

	withNodes := err.WithPartialNodes([]any{"a", "b"})
	if len(withNodes.PartialNodes) != 2 {
		t.Fatalf("expected 2 partial nodes, got %d", len(withNodes.PartialNodes))
	}
	if err.PartialNodes != nil {
		t.Fatalf("WithPartialNodes must not mutate the receiver")
	}
	expected := `parse error at position 12: expected "}"`
	if withNodes.Error() != expected {
		t.Fatalf("Error() wrong. expected=%q, got=%q", expected, withNodes.Error())
	}
}
