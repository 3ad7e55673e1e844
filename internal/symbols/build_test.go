package symbols_test

import (
	"testing"

	"ace/internal/ast"
	"ace/internal/diag"
	"ace/internal/symbols"
	"ace/internal/types"
)

func newBuilder() *symbols.Builder {
	table := symbols.NewTable()
	return symbols.NewBuilder(table, types.NewInterner())
}

func TestSeedNativeTypesRegistersEveryBootstrapType(t *testing.T) {
	b := newBuilder()
	b.SeedNativeTypes()

	for _, desc := range types.NativeDescs {
		id, ok := b.NativeTypeID(desc.Name)
		if !ok {
			t.Fatalf("expected %s to be seeded", desc.Name)
		}
		if id == 0 {
			t.Fatalf("expected a non-zero TypeID for %s", desc.Name)
		}
	}
	if _, ok := b.NativeTypeID("NotAType"); ok {
		t.Fatal("expected an unknown name to miss")
	}
}

func TestSeedNativeTypesStructHasAStructBody(t *testing.T) {
	b := newBuilder()
	b.SeedNativeTypes()

	structID := b.Table.NativeTypes["I32"]
	sym := b.Table.Symbol(structID)
	if sym.Kind != symbols.KindStruct {
		t.Fatalf("expected I32 to be a struct symbol, got %v", sym.Kind)
	}
	if sym.StructBody == symbols.NoScopeID {
		t.Fatal("expected I32 to have a struct body scope")
	}
}

// Promoted itemBase fields (Vis, Loc) can't be set via a keyed composite
// literal from outside package ast, so every helper below constructs the
// node bare and assigns Vis afterward — the same pattern internal/parser
// itself uses.

func structSyntax(name string, vis ast.Visibility) *ast.StructSyntax {
	s := &ast.StructSyntax{Name: ident(name)}
	s.Vis = vis
	return s
}

func TestCreateStructThenRedefinitionDiagnoses(t *testing.T) {
	b := newBuilder()
	bag := diag.NewBag(10)
	root := b.Table.RootID()

	b.CreateSymbolsForFile(&ast.File{Items: []ast.Item{structSyntax("Point", ast.Pub)}}, root, ast.Pub, bag)
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics on first definition: %v", bag.Items())
	}

	b.CreateSymbolsForFile(&ast.File{Items: []ast.Item{structSyntax("Point", ast.Pub)}}, root, ast.Pub, bag)
	if !bag.HasErrors() {
		t.Fatal("expected CodeSymbolRedefinition for a duplicate struct name")
	}
}

func functionSyntax(name string, paramTypes ...*ast.TypeName) *ast.FunctionSyntax {
	f := &ast.FunctionSyntax{Name: ident(name)}
	for i, pt := range paramTypes {
		f.Params = append(f.Params, &ast.FnParamSyntax{Name: ident("p"), Type: pt, Index: i})
	}
	return f
}

func TestFunctionsWithDistinctSignaturesOverload(t *testing.T) {
	b := newBuilder()
	bag := diag.NewBag(10)
	root := b.Table.RootID()

	file := &ast.File{Items: []ast.Item{
		functionSyntax("f"),
		functionSyntax("f", &ast.TypeName{Name: symbolName("I32")}),
	}}
	b.SeedNativeTypes()
	b.CreateSymbolsForFile(file, root, ast.Pub, bag)
	b.ResolveTypes(bag)

	overloads := b.Table.LookupLocal(root, "f")
	if len(overloads) != 2 {
		t.Fatalf("expected 2 overloads of f, got %d (diags=%v)", len(overloads), bag.Items())
	}
}

func TestFunctionsWithSameSignatureRedefine(t *testing.T) {
	b := newBuilder()
	bag := diag.NewBag(10)
	root := b.Table.RootID()

	file := &ast.File{Items: []ast.Item{
		functionSyntax("f"),
		functionSyntax("f"),
	}}
	b.CreateSymbolsForFile(file, root, ast.Pub, bag)

	if !bag.HasErrors() {
		t.Fatal("expected CodeSymbolRedefinition for two identical-signature functions")
	}
}

func moduleSyntax(name string, items ...ast.Item) *ast.ModuleSyntax {
	m := &ast.ModuleSyntax{Name: ident(name), Items: items}
	m.Vis = ast.Pub
	return m
}

func TestModulesSplitAcrossFilesMerge(t *testing.T) {
	b := newBuilder()
	bag := diag.NewBag(10)
	root := b.Table.RootID()

	b.CreateSymbolsForFile(&ast.File{Items: []ast.Item{moduleSyntax("net", functionSyntax("dial"))}}, root, ast.Pub, bag)
	b.CreateSymbolsForFile(&ast.File{Items: []ast.Item{moduleSyntax("net", functionSyntax("listen"))}}, root, ast.Pub, bag)

	if bag.HasErrors() {
		t.Fatalf("expected module split across files to merge without redefinition, got %v", bag.Items())
	}

	mods := b.Table.LookupLocal(root, "net")
	if len(mods) != 1 {
		t.Fatalf("expected exactly one net module symbol, got %d", len(mods))
	}
	modSym := b.Table.Symbol(mods[0])
	if len(b.Table.LookupLocal(modSym.ModuleBody, "dial")) != 1 || len(b.Table.LookupLocal(modSym.ModuleBody, "listen")) != 1 {
		t.Fatal("expected both dial and listen to land in the merged module body")
	}
}

func fieldSyntax(name string, ty *ast.TypeName) *ast.FieldSyntax {
	f := &ast.FieldSyntax{Name: ident(name), Type: ty}
	f.Vis = ast.Pub
	return f
}

func TestResolveTypesPopulatesFieldType(t *testing.T) {
	b := newBuilder()
	bag := diag.NewBag(10)
	b.SeedNativeTypes()
	root := b.Table.RootID()

	i32Name := ast.SymbolName{Absolute: true, Sections: []ast.PathSection{{Name: ident("std")}, {Name: ident("i32")}, {Name: ident("I32")}}}
	s := structSyntax("Point", ast.Pub)
	s.Fields = []*ast.FieldSyntax{fieldSyntax("x", &ast.TypeName{Name: i32Name})}

	b.CreateSymbolsForFile(&ast.File{Items: []ast.Item{s}}, root, ast.Pub, bag)
	b.ResolveTypes(bag)
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}

	structID := b.Table.LookupLocal(root, "Point")[0]
	fieldID := b.Table.Symbol(structID).StructFields[0]
	fieldSym := b.Table.Symbol(fieldID)
	if fieldSym.FieldType == 0 {
		t.Fatal("expected field type to be resolved to a concrete TypeID")
	}
}
