package symbols_test

import (
	"testing"

	"ace/internal/ast"
	"ace/internal/diag"
	"ace/internal/source"
	"ace/internal/symbols"
)

func symbolName(names ...string) ast.SymbolName {
	secs := make([]ast.PathSection, len(names))
	for i, n := range names {
		secs[i] = ast.PathSection{Name: ident(n)}
	}
	return ast.SymbolName{Sections: secs}
}

func TestResolveFindsLocalSymbol(t *testing.T) {
	table := symbols.NewTable()
	root := table.RootID()
	id := table.Define(&symbols.Symbol{Kind: symbols.KindGlobalVar, Name: ident("count"), Scope: root, Vis: ast.Pub})

	r := symbols.NewResolver(table)
	bag := diag.NewBag(10)
	got := r.Resolve(root, symbolName("count"), symbols.ValueCategory, bag)

	if got != id {
		t.Fatalf("expected %v, got %v", id, got)
	}
	if bag.Len() != 0 {
		t.Fatalf("expected no diagnostics, got %d", bag.Len())
	}
}

func TestResolveUndefinedYieldsErrorFallback(t *testing.T) {
	table := symbols.NewTable()
	r := symbols.NewResolver(table)
	bag := diag.NewBag(10)

	got := r.Resolve(table.RootID(), symbolName("nope"), symbols.ValueCategory, bag)
	if got != table.ErrorSymbol() {
		t.Fatalf("expected the ValueCategory error fallback, got %v", got)
	}
	if !bag.HasErrors() {
		t.Fatal("expected UndefinedSymbolRef to be recorded")
	}
}

func TestResolveCategoryMismatchYieldsIncorrectCategory(t *testing.T) {
	table := symbols.NewTable()
	root := table.RootID()
	table.Define(&symbols.Symbol{Kind: symbols.KindModule, Name: ident("m"), Scope: root, Vis: ast.Pub, ModuleBody: root})

	r := symbols.NewResolver(table)
	bag := diag.NewBag(10)
	got := r.Resolve(root, symbolName("m"), symbols.ValueCategory, bag)

	if !bag.HasErrors() {
		t.Fatal("expected a category-mismatch diagnostic")
	}
	if got == symbols.NoSymbolID {
		t.Fatal("expected an error-fallback symbol, not NoSymbolID")
	}
}

func TestResolveAmbiguousWhenMultipleCandidatesMatchCategory(t *testing.T) {
	table := symbols.NewTable()
	root := table.RootID()
	// Resolve does not choose among same-name candidates of one category,
	// and Table.Define performs no redefinition check (Builder.define
	// does), so two same-name globals defined straight into the table
	// leave two ValueCategory candidates and trigger
	// CodeAmbiguousSymbolRef.
	table.Define(&symbols.Symbol{Kind: symbols.KindGlobalVar, Name: ident("dup"), Scope: root, Vis: ast.Pub})
	table.Define(&symbols.Symbol{Kind: symbols.KindGlobalVar, Name: ident("dup"), Scope: root, Vis: ast.Pub})

	r := symbols.NewResolver(table)
	bag := diag.NewBag(10)
	r.Resolve(root, symbolName("dup"), symbols.ValueCategory, bag)

	if !bag.HasErrors() {
		t.Fatal("expected CodeAmbiguousSymbolRef")
	}
}

func TestResolvePrivateSymbolInaccessibleFromSiblingModule(t *testing.T) {
	table := symbols.NewTable()
	root := table.RootID()

	modAScope := table.CreateChild(root, symbols.ScopeModule, "a", source.Location{})
	table.Define(&symbols.Symbol{Kind: symbols.KindModule, Name: ident("a"), Scope: root, Vis: ast.Pub, ModuleBody: modAScope})
	table.Define(&symbols.Symbol{Kind: symbols.KindGlobalVar, Name: ident("secret"), Scope: modAScope, Vis: ast.Priv})

	modBScope := table.CreateChild(root, symbols.ScopeModule, "b", source.Location{})
	table.Define(&symbols.Symbol{Kind: symbols.KindModule, Name: ident("b"), Scope: root, Vis: ast.Pub, ModuleBody: modBScope})

	r := symbols.NewResolver(table)
	bag := diag.NewBag(10)
	got := r.Resolve(modBScope, symbolName("a", "secret"), symbols.ValueCategory, bag)

	if !bag.HasErrors() {
		t.Fatal("expected CodeInaccessibleSymbol from a sibling module")
	}
	if got != table.ErrorSymbol() {
		t.Fatalf("expected the ValueCategory error fallback, got %v", got)
	}
}

func TestResolvePrivateSymbolAccessibleWithinOwnModule(t *testing.T) {
	table := symbols.NewTable()
	root := table.RootID()
	modScope := table.CreateChild(root, symbols.ScopeModule, "a", source.Location{})
	table.Define(&symbols.Symbol{Kind: symbols.KindModule, Name: ident("a"), Scope: root, Vis: ast.Pub, ModuleBody: modScope})
	secret := table.Define(&symbols.Symbol{Kind: symbols.KindGlobalVar, Name: ident("secret"), Scope: modScope, Vis: ast.Priv})

	nested := table.CreateChild(modScope, symbols.ScopeFunction, "f", source.Location{})

	r := symbols.NewResolver(table)
	bag := diag.NewBag(10)
	got := r.Resolve(nested, symbolName("secret"), symbols.ValueCategory, bag)

	if got != secret {
		t.Fatalf("expected %v, got %v (diags=%d)", secret, got, bag.Len())
	}
}

func TestResolveAbsolutePathStartsAtRoot(t *testing.T) {
	table := symbols.NewTable()
	root := table.RootID()
	modScope := table.CreateChild(root, symbols.ScopeModule, "a", source.Location{})
	table.Define(&symbols.Symbol{Kind: symbols.KindModule, Name: ident("a"), Scope: root, Vis: ast.Pub, ModuleBody: modScope})
	val := table.Define(&symbols.Symbol{Kind: symbols.KindGlobalVar, Name: ident("x"), Scope: modScope, Vis: ast.Pub})

	nested := table.CreateChild(modScope, symbols.ScopeFunction, "f", source.Location{})

	r := symbols.NewResolver(table)
	bag := diag.NewBag(10)
	name := symbolName("a", "x")
	name.Absolute = true
	got := r.Resolve(nested, name, symbols.ValueCategory, bag)

	if got != val {
		t.Fatalf("expected %v, got %v (diags=%d)", val, got, bag.Len())
	}
}

func TestResolveTypeArgsOnNonGenericIsCategoryError(t *testing.T) {
	table := symbols.NewTable()
	root := table.RootID()
	table.Define(&symbols.Symbol{Kind: symbols.KindFunction, Name: ident("plain"), Scope: root, Vis: ast.Pub})

	name := symbolName("plain")
	name.Sections[0].TypeArgs = []*ast.TypeName{{}}

	r := symbols.NewResolver(table)
	bag := diag.NewBag(10)
	r.Resolve(root, name, symbols.ValueCategory, bag)

	if !bag.HasErrors() {
		t.Fatal("expected IncorrectSymbolCategory for type args on a non-generic symbol")
	}
}
