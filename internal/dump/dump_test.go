package dump_test

import (
	"bytes"
	"testing"

	"ace/internal/diag"
	"ace/internal/dump"
	"ace/internal/source"
	"ace/internal/token"
)

func TestEncodeDecodeTokensRoundTrips(t *testing.T) {
	buf := &source.FileBuffer{Path: "demo.ace", Text: "ret 1;"}
	toks := []token.Token{
		{Kind: token.KwRet, Text: "ret", Loc: source.Location{Buf: buf, Begin: 0, End: 3}},
		{Kind: token.IntLit, Text: "1", Loc: source.Location{Buf: buf, Begin: 4, End: 5}},
		{Kind: token.Semicolon, Text: ";", Loc: source.Location{Buf: buf, Begin: 5, End: 6}},
	}

	var out bytes.Buffer
	if err := dump.EncodeTokens(&out, toks); err != nil {
		t.Fatalf("EncodeTokens: %v", err)
	}

	decoded, err := dump.DecodeTokens(&out)
	if err != nil {
		t.Fatalf("DecodeTokens: %v", err)
	}
	if len(decoded.Tokens) != len(toks) {
		t.Fatalf("expected %d tokens, got %d", len(toks), len(decoded.Tokens))
	}
	if decoded.Tokens[0].Kind != "ret" || decoded.Tokens[0].File != "demo.ace" {
		t.Fatalf("unexpected first record: %+v", decoded.Tokens[0])
	}
	if decoded.Tokens[1].Begin != 4 || decoded.Tokens[1].End != 5 {
		t.Fatalf("unexpected offsets: %+v", decoded.Tokens[1])
	}
}

func TestEncodeDecodeDiagnosticsRoundTrips(t *testing.T) {
	buf := &source.FileBuffer{Path: "demo.ace", Text: "x: i32 = 1;\nx: i32 = 2;\n"}
	first := source.Location{Buf: buf, Begin: 0, End: 1}
	second := source.Location{Buf: buf, Begin: 12, End: 13}

	bag := diag.NewBag(4)
	bag.Add(diag.New(diag.CodeSymbolRedefinition, second, `symbol "x" redefined`).
		WithNote(first, "previous definition here"))

	var out bytes.Buffer
	if err := dump.EncodeDiagnostics(&out, bag); err != nil {
		t.Fatalf("EncodeDiagnostics: %v", err)
	}

	decoded, err := dump.DecodeDiagnostics(&out)
	if err != nil {
		t.Fatalf("DecodeDiagnostics: %v", err)
	}
	if !decoded.HasErrors {
		t.Fatal("expected HasErrors to be true")
	}
	if len(decoded.Diagnostics) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", len(decoded.Diagnostics))
	}
	d := decoded.Diagnostics[0]
	if d.Severity != "error" || d.Code != "SymbolRedefinition" {
		t.Fatalf("unexpected record: %+v", d)
	}
	if len(d.Notes) != 1 || d.Notes[0].Message != "previous definition here" {
		t.Fatalf("unexpected notes: %+v", d.Notes)
	}
}
