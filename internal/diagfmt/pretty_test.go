package diagfmt_test

import (
	"bytes"
	"strings"
	"testing"

	"ace/internal/diag"
	"ace/internal/diagfmt"
	"ace/internal/source"
)

func TestPrettyRendersHeaderAndSourceLine(t *testing.T) {
	buf := &source.FileBuffer{Path: "demo.ace", Text: "add(a: i32, b: i32): i32 {\n\tret a + c;\n}\n"}
	loc := source.Location{Buf: buf, Begin: 32, End: 33} // the "c" in "a + c"

	bag := diag.NewBag(8)
	bag.Add(diag.New(diag.CodeUndefinedSymbolRef, loc, "undefined symbol \"c\""))

	var out bytes.Buffer
	diagfmt.Pretty(&out, bag, diagfmt.Options{Context: 1})

	rendered := out.String()
	if !strings.Contains(rendered, "demo.ace:2:") {
		t.Fatalf("expected a demo.ace:2:<col> header, got:\n%s", rendered)
	}
	if !strings.Contains(rendered, "error") {
		t.Fatalf("expected the error severity to appear, got:\n%s", rendered)
	}
	if !strings.Contains(rendered, "UndefinedSymbolRef") {
		t.Fatalf("expected the code name to appear, got:\n%s", rendered)
	}
	if !strings.Contains(rendered, "ret a + c;") {
		t.Fatalf("expected the offending source line to appear, got:\n%s", rendered)
	}
	if !strings.Contains(rendered, "^") {
		t.Fatalf("expected a caret underline, got:\n%s", rendered)
	}
}

func TestPrettyRendersNotesWhenEnabled(t *testing.T) {
	buf := &source.FileBuffer{Path: "demo.ace", Text: "x: i32 = 1;\nx: i32 = 2;\n"}
	first := source.Location{Buf: buf, Begin: 0, End: 1}
	second := source.Location{Buf: buf, Begin: 12, End: 13}

	d := diag.New(diag.CodeSymbolRedefinition, second, "symbol \"x\" redefined").
		WithNote(first, "previous definition here")

	bag := diag.NewBag(4)
	bag.Add(d)

	var out bytes.Buffer
	diagfmt.Pretty(&out, bag, diagfmt.Options{Context: 0, ShowNotes: true})

	rendered := out.String()
	if !strings.Contains(rendered, "previous definition here") {
		t.Fatalf("expected the note message to appear, got:\n%s", rendered)
	}
}

func TestPrettyOmitsColorWhenDisabled(t *testing.T) {
	buf := &source.FileBuffer{Path: "demo.ace", Text: "ret 1;\n"}
	loc := source.Location{Buf: buf, Begin: 0, End: 3}
	bag := diag.NewBag(1)
	bag.Add(diag.New(diag.CodeUnexpectedToken, loc, "unexpected token"))

	var out bytes.Buffer
	diagfmt.Pretty(&out, bag, diagfmt.Options{Color: false})

	if strings.Contains(out.String(), "\x1b[") {
		t.Fatalf("expected no ANSI escape codes with Color disabled, got:\n%q", out.String())
	}
}
