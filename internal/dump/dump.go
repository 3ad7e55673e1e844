// Package dump serializes tokens and diagnostics to msgpack for machine
// consumption by external tooling (editors, CI pipelines). Unlike an
// on-disk compilation cache, this package has no read-back/invalidation
// lifecycle: it is a one-way CLI output format, so TokenRecord/
// DiagnosticRecord are
// write-only views that flatten source positions into plain fields
// rather than round-tripping a Buffer.
package dump

import (
	"io"

	"github.com/vmihailenco/msgpack/v5"

	"ace/internal/diag"
	"ace/internal/token"
)

// schemaVersion guards against silently decoding a dump produced by an
// incompatible release of this tool.
const schemaVersion uint16 = 1

// TokenRecord is one token flattened for wire transport: byte offsets
// rather than a Buffer reference, since the consumer (an editor, a CI
// job) has no access to this process's in-memory source.Buffer values.
type TokenRecord struct {
	Kind  string
	Text  string
	File  string
	Begin int
	End   int
}

// TokenDump is the envelope written for `acec tokenize --format=msgpack`.
type TokenDump struct {
	Schema uint16
	Tokens []TokenRecord
}

// NoteRecord is one diagnostic note flattened for wire transport.
type NoteRecord struct {
	Message string
	File    string
	Begin   int
	End     int
}

// DiagnosticRecord is one diagnostic flattened for wire transport.
type DiagnosticRecord struct {
	Severity string
	Code     string
	Message  string
	File     string
	Begin    int
	End      int
	Notes    []NoteRecord
}

// DiagnosticDump is the envelope written for `acec check --format=msgpack`
// and `acec build --format=msgpack`.
type DiagnosticDump struct {
	Schema      uint16
	Diagnostics []DiagnosticRecord
	HasErrors   bool
}

// EncodeTokens writes toks to w as a msgpack TokenDump.
func EncodeTokens(w io.Writer, toks []token.Token) error {
	dump := TokenDump{Schema: schemaVersion, Tokens: make([]TokenRecord, len(toks))}
	for i, t := range toks {
		dump.Tokens[i] = TokenRecord{
			Kind:  t.Kind.String(),
			Text:  t.Text,
			File:  t.Loc.Buf.Name(),
			Begin: t.Loc.Begin,
			End:   t.Loc.End,
		}
	}
	return msgpack.NewEncoder(w).Encode(&dump)
}

// DecodeTokens reads a msgpack TokenDump previously written by
// EncodeTokens. It exists alongside EncodeTokens so a round trip can be
// tested without an external consumer; the CLI itself only ever encodes.
func DecodeTokens(r io.Reader) (TokenDump, error) {
	var dump TokenDump
	err := msgpack.NewDecoder(r).Decode(&dump)
	return dump, err
}

// EncodeDiagnostics writes bag to w as a msgpack DiagnosticDump.
func EncodeDiagnostics(w io.Writer, bag *diag.Bag) error {
	items := bag.Items()
	dump := DiagnosticDump{
		Schema:      schemaVersion,
		Diagnostics: make([]DiagnosticRecord, len(items)),
		HasErrors:   bag.HasErrors(),
	}
	for i, d := range items {
		notes := make([]NoteRecord, len(d.Notes))
		for j, n := range d.Notes {
			notes[j] = NoteRecord{
				Message: n.Message,
				File:    n.Loc.Buf.Name(),
				Begin:   n.Loc.Begin,
				End:     n.Loc.End,
			}
		}
		dump.Diagnostics[i] = DiagnosticRecord{
			Severity: d.Severity.String(),
			Code:     d.Code.String(),
			Message:  d.Message,
			File:     d.Loc.Buf.Name(),
			Begin:    d.Loc.Begin,
			End:      d.Loc.End,
			Notes:    notes,
		}
	}
	return msgpack.NewEncoder(w).Encode(&dump)
}

// DecodeDiagnostics reads a msgpack DiagnosticDump previously written by
// EncodeDiagnostics.
func DecodeDiagnostics(r io.Reader) (DiagnosticDump, error) {
	var dump DiagnosticDump
	err := msgpack.NewDecoder(r).Decode(&dump)
	return dump, err
}
