package mono_test

import (
	"testing"

	"ace/internal/mono"
	"ace/internal/source"
	"ace/internal/types"
)

func testLocation() source.Location {
	buf := &source.FileBuffer{Path: "t.ace", Text: "x"}
	return source.NewLocation(buf, 0, 1)
}

func TestRecordCreatesEntryOnFirstUse(t *testing.T) {
	r := mono.NewRecorder()
	sym := mono.SymbolRef(10)
	args := []types.TypeID{1, 2}

	e := r.Record(mono.KindFunc, sym, args, testLocation(), mono.SymbolRef(1), "call site")
	if e == nil {
		t.Fatal("expected a non-nil entry")
	}
	if r.Len() != 1 {
		t.Fatalf("expected 1 entry, got %d", r.Len())
	}
	if len(e.UseSites) != 1 {
		t.Fatalf("expected 1 use site, got %d", len(e.UseSites))
	}
}

func TestRecordDeduplicatesIdenticalUseSites(t *testing.T) {
	r := mono.NewRecorder()
	sym := mono.SymbolRef(10)
	args := []types.TypeID{1, 2}
	loc := testLocation()

	r.Record(mono.KindFunc, sym, args, loc, mono.SymbolRef(1), "note")
	e := r.Record(mono.KindFunc, sym, args, loc, mono.SymbolRef(1), "note")
	if len(e.UseSites) != 1 {
		t.Fatalf("expected use sites to dedupe, got %d", len(e.UseSites))
	}
}

func TestRecordDistinguishesTypeArgOrder(t *testing.T) {
	r := mono.NewRecorder()
	sym := mono.SymbolRef(10)

	r.Record(mono.KindFunc, sym, []types.TypeID{1, 2}, testLocation(), 0, "")
	r.Record(mono.KindFunc, sym, []types.TypeID{2, 1}, testLocation(), 0, "")
	if r.Len() != 2 {
		t.Fatalf("expected 2 distinct entries, got %d", r.Len())
	}
}

func TestRecordIgnoresEmptyTypeArgs(t *testing.T) {
	r := mono.NewRecorder()
	r.Record(mono.KindFunc, mono.SymbolRef(10), nil, testLocation(), 0, "")
	if r.Len() != 0 {
		t.Fatalf("expected no entry for a non-generic reference, got %d", r.Len())
	}
}

func TestRecordIgnoresInvalidSymbol(t *testing.T) {
	r := mono.NewRecorder()
	r.Record(mono.KindFunc, mono.SymbolRef(0), []types.TypeID{1}, testLocation(), 0, "")
	if r.Len() != 0 {
		t.Fatalf("expected no entry for an invalid symbol, got %d", r.Len())
	}
}

func TestLookupFindsRecordedInstantiation(t *testing.T) {
	r := mono.NewRecorder()
	sym := mono.SymbolRef(4)
	args := []types.TypeID{9}
	r.Record(mono.KindType, sym, args, testLocation(), 0, "")

	e, ok := r.Lookup(sym, args)
	if !ok {
		t.Fatal("expected lookup to find the entry")
	}
	if e.Kind != mono.KindType {
		t.Fatalf("got kind %v", e.Kind)
	}
}

func TestLookupMissReturnsFalse(t *testing.T) {
	r := mono.NewRecorder()
	if _, ok := r.Lookup(mono.SymbolRef(99), []types.TypeID{1}); ok {
		t.Fatal("expected no entry for an unrecorded symbol")
	}
}

func TestNewInstanceKeyStableForEqualArgs(t *testing.T) {
	k1 := mono.NewInstanceKey(mono.SymbolRef(7), []types.TypeID{1, 2})
	k2 := mono.NewInstanceKey(mono.SymbolRef(7), []types.TypeID{1, 2})
	if k1 != k2 {
		t.Fatalf("expected equal keys, got %v != %v", k1, k2)
	}
}

func TestNormalizeTypeArgsClones(t *testing.T) {
	orig := []types.TypeID{1, 2, 3}
	norm := mono.NormalizeTypeArgs(orig)
	norm[0] = 99
	if orig[0] == 99 {
		t.Fatal("NormalizeTypeArgs must not alias its input")
	}
}
