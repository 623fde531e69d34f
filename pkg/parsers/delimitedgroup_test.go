package parsers

import (
	"testing"

	"github.com/cwbudde/go-latexnodes/pkg/parsingstate"
	"github.com/cwbudde/go-latexnodes/pkg/tokenreader"
	"github.com/cwbudde/go-latexnodes/pkg/walker"
)

func TestDelimitedGroupParserBracketPresent(t *testing.T) {
	source := "[x] rest"
	reader := tokenreader.New(source)
	state := parsingstate.New(source)
	w := walker.New()

	gp := &DelimitedGroupParser{Delimiters: [2]string{"[", "]"}, Optional: true}
	nodes, _, err := gp.Parse(w, reader, state, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(nodes) != 1 {
		t.Fatalf("expected 1 node, got %d", len(nodes))
	}
	if reader.CurPos() != 3 {
		t.Fatalf("expected cursor at 3, got %d", reader.CurPos())
	}
}

func TestDelimitedGroupParserOptionalAbsentDoesNotConsume(t *testing.T) {
	source := "plain text"
	reader := tokenreader.New(source)
	state := parsingstate.New(source)
	w := walker.New()

	gp := &DelimitedGroupParser{Delimiters: [2]string{"[", "]"}, Optional: true}
	nodes, _, err := gp.Parse(w, reader, state, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(nodes) != 0 {
		t.Fatalf("expected no nodes, got %d", len(nodes))
	}
	if reader.CurPos() != 0 {
		t.Fatalf("expected cursor unchanged, got %d", reader.CurPos())
	}
}

func TestDelimitedGroupParserRequiredMissingIsError(t *testing.T) {
	source := "plain text"
	reader := tokenreader.New(source)
	state := parsingstate.New(source)
	w := walker.New()

	gp := &DelimitedGroupParser{Delimiters: [2]string{"(", ")"}, Optional: false}
	if _, _, err := gp.Parse(w, reader, state, nil); err == nil {
		t.Fatalf("expected an error for a missing required delimiter")
	}
}

func TestDelimitedGroupParserNestedBalancedPairs(t *testing.T) {
	source := "(a(b)c) rest"
	reader := tokenreader.New(source)
	state := parsingstate.New(source)
	w := walker.New()

	gp := &DelimitedGroupParser{Delimiters: [2]string{"(", ")"}, Optional: false}
	nodes, _, err := gp.Parse(w, reader, state, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reader.CurPos() != 7 {
		t.Fatalf("expected cursor to land after the outer ')' at 7, got %d", reader.CurPos())
	}
	if len(nodes) != 1 {
		t.Fatalf("expected 1 node, got %d", len(nodes))
	}
}

func TestDelimitedGroupParserDisallowsPreSpaceWhenConfigured(t *testing.T) {
	source := " [x]"
	reader := tokenreader.New(source)
	state := parsingstate.New(source)
	w := walker.New()

	gp := &DelimitedGroupParser{Delimiters: [2]string{"[", "]"}, Optional: true, AllowPreSpace: false}
	nodes, _, err := gp.Parse(w, reader, state, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(nodes) != 0 {
		t.Fatalf("expected the group to be treated as absent due to leading space, got %d nodes", len(nodes))
	}
}

func TestDelimitedGroupParserUnterminatedIsError(t *testing.T) {
	source := "(a, b"
	reader := tokenreader.New(source)
	state := parsingstate.New(source)
	w := walker.New()

	gp := &DelimitedGroupParser{Delimiters: [2]string{"(", ")"}, Optional: false}
	if _, _, err := gp.Parse(w, reader, state, nil); err == nil {
		t.Fatalf("expected an error for an unterminated group")
	}
}
