package symbols_test

import (
	"testing"

	"ace/internal/mono"
	"ace/internal/source"
	"ace/internal/symbols"
	"ace/internal/types"
)

func ident(name string) source.Ident { return source.Ident{Name: name} }

func TestNewTableSeedsDistinctErrorSymbols(t *testing.T) {
	table := symbols.NewTable()
	if table.ErrorSymbol() == symbols.NoSymbolID {
		t.Fatal("expected a valid error symbol")
	}
	if table.Symbol(table.ErrorSymbol()).Kind != symbols.KindError {
		t.Fatal("expected ErrorSymbol to report KindError")
	}
}

func TestDefineAddsToScopeOverloadSet(t *testing.T) {
	table := symbols.NewTable()
	root := table.RootID()
	id := table.Define(&symbols.Symbol{Kind: symbols.KindGlobalVar, Name: ident("x"), Scope: root})

	got := table.LookupLocal(root, "x")
	if len(got) != 1 || got[0] != id {
		t.Fatalf("expected [%v], got %v", id, got)
	}
}

func TestDefinePanicsAfterFreeze(t *testing.T) {
	table := symbols.NewTable()
	table.Freeze()

	defer func() {
		if recover() == nil {
			t.Fatal("expected Define to panic after Freeze")
		}
	}()
	table.Define(&symbols.Symbol{Kind: symbols.KindGlobalVar, Name: ident("x"), Scope: table.RootID()})
}

func TestLookupWalksParentChain(t *testing.T) {
	table := symbols.NewTable()
	root := table.RootID()
	outer := table.Define(&symbols.Symbol{Kind: symbols.KindGlobalVar, Name: ident("shared"), Scope: root})

	child := table.CreateChild(root, symbols.ScopeFunction, "f", source.Location{})
	if got := table.Lookup(child, "shared"); len(got) != 1 || got[0] != outer {
		t.Fatalf("expected lookup to find %v via the parent chain, got %v", outer, got)
	}
	if got := table.LookupLocal(child, "shared"); len(got) != 0 {
		t.Fatalf("expected LookupLocal to stay local, got %v", got)
	}
}

func TestLookupStopsAtShadowingScope(t *testing.T) {
	table := symbols.NewTable()
	root := table.RootID()
	table.Define(&symbols.Symbol{Kind: symbols.KindGlobalVar, Name: ident("x"), Scope: root})

	child := table.CreateChild(root, symbols.ScopeFunction, "f", source.Location{})
	inner := table.Define(&symbols.Symbol{Kind: symbols.KindLocalVar, Name: ident("x"), Scope: child})

	got := table.Lookup(child, "x")
	if len(got) != 1 || got[0] != inner {
		t.Fatalf("expected inner shadow %v, got %v", inner, got)
	}
}

func TestInstantiationCacheRoundTrips(t *testing.T) {
	table := symbols.NewTable()
	root := table.RootID()
	key := mono.NewInstanceKey(mono.SymbolRef(7), []types.TypeID{1, 2})

	if _, ok := table.Instantiation(root, key); ok {
		t.Fatal("expected a cache miss before StoreInstantiation")
	}
	inst := table.Define(&symbols.Symbol{Kind: symbols.KindFunction, Name: ident("id$i32"), Scope: root})
	table.StoreInstantiation(root, key, inst)

	got, ok := table.Instantiation(root, key)
	if !ok || got != inst {
		t.Fatalf("expected cached instance %v, got %v (ok=%v)", inst, got, ok)
	}
}

func TestInstantiationCacheIsScopeLocal(t *testing.T) {
	table := symbols.NewTable()
	root := table.RootID()
	other := table.CreateChild(root, symbols.ScopeFunction, "g", source.Location{})
	key := mono.NewInstanceKey(mono.SymbolRef(7), []types.TypeID{1})

	inst := table.Define(&symbols.Symbol{Kind: symbols.KindFunction, Name: ident("id$i32"), Scope: root})
	table.StoreInstantiation(root, key, inst)

	if _, ok := table.Instantiation(other, key); ok {
		t.Fatal("expected instantiation cache to not leak across sibling scopes")
	}
}
