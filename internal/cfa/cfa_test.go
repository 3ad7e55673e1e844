package cfa_test

import (
	"testing"

	"ace/internal/ast"
	"ace/internal/cfa"
	"ace/internal/diag"
	"ace/internal/lexer"
	"ace/internal/parser"
	"ace/internal/sema"
	"ace/internal/source"
	"ace/internal/symbols"
	"ace/internal/types"
)

func findFunction(file *ast.File, name string) *ast.FunctionSyntax {
	for _, it := range file.Items {
		if f, ok := it.(*ast.FunctionSyntax); ok && f.Name.Name == name {
			return f
		}
	}
	return nil
}

func findFunctionSymbol(t *symbols.Table, scope symbols.ScopeID, name string) *symbols.Symbol {
	for _, id := range t.Scope(scope).Symbols() {
		sym := t.Symbol(id)
		if sym.Kind == symbols.KindFunction && sym.Name.Name == name {
			return sym
		}
	}
	return nil
}

// lowered parses, binds, type-checks, and lowers a single named function,
// returning its body plus the table/interner/return type needed to run
// the CFA check over it.
func lowered(t *testing.T, src, fnName string) (*sema.Block, *symbols.Table, *types.Interner, types.TypeID) {
	t.Helper()
	buf := &source.FileBuffer{Path: "test.ace", Text: src}
	bag := diag.NewBag(64)
	toks := lexer.Lex(buf, bag)
	p := parser.New(toks, buf, bag)
	file := p.ParseFile(1)
	if bag.HasErrors() {
		t.Fatalf("parse errors: %+v", bag.Items())
	}

	table := symbols.NewTable()
	interner := types.NewInterner()
	builder := symbols.NewBuilder(table, interner)
	builder.SeedNativeTypes()
	builder.CreateSymbolsForFile(file, table.RootID(), ast.Pub, bag)
	builder.ResolveTypes(bag)
	if bag.HasErrors() {
		t.Fatalf("symbol-build errors: %+v", bag.Items())
	}

	fn := findFunction(file, fnName)
	sym := findFunctionSymbol(table, table.RootID(), fnName)
	if fn == nil || sym == nil {
		t.Fatalf("function %q not found", fnName)
	}

	binder := sema.NewBinder(table, interner)
	body := binder.BindFunctionBody(fn.Body, bag)
	if bag.HasErrors() {
		t.Fatalf("bind errors: %+v", bag.Items())
	}
	body = sema.NewChecker(table, interner, sym.FnSig.Return).Run(body, bag)
	if bag.HasErrors() {
		t.Fatalf("type-check errors: %+v", bag.Items())
	}
	body = sema.NewLowerer(table, interner, fn.Body.Scope()).Run(body)
	return body, table, interner, sym.FnSig.Return
}

func voidType(t *testing.T, table *symbols.Table, in *types.Interner) types.TypeID {
	t.Helper()
	id, ok := table.NativeTypes["Void"]
	if !ok {
		t.Fatal("Void native type not seeded")
	}
	return in.Nominal(types.NominalKey(id))
}

func TestCFADetectsMissingElseReturn(t *testing.T) {
	body, table, interner, ret := lowered(t, "f(n: i32): i32 { if n > 0 { ret 1; } }", "f")
	void := voidType(t, table, interner)
	bag := diag.NewBag(4)
	res := cfa.Check(body, ret, void, interner, bag)
	if res.AllPathsReturn {
		t.Fatal("expected a missing-else path to be flagged as not all paths returning")
	}
	if !bag.HasErrors() {
		t.Fatal("expected a NotAllControlPathsReturn diagnostic")
	}
}

func TestCFAAcceptsElseReturn(t *testing.T) {
	body, table, interner, ret := lowered(t, "f(n: i32): i32 { if n > 0 { ret 1; } else { ret 2; } }", "f")
	void := voidType(t, table, interner)
	bag := diag.NewBag(4)
	res := cfa.Check(body, ret, void, interner, bag)
	if !res.AllPathsReturn {
		t.Fatal("expected both if/else arms returning to satisfy CFA")
	}
	if bag.HasErrors() {
		t.Fatalf("expected no diagnostics, got %+v", bag.Items())
	}
}

func TestCFAAcceptsTrailingReturnAfterLoop(t *testing.T) {
	body, table, interner, ret := lowered(t, "f(n: i32): i32 { while n > 0 { n = n - 1; } ret n; }", "f")
	void := voidType(t, table, interner)
	bag := diag.NewBag(4)
	res := cfa.Check(body, ret, void, interner, bag)
	if !res.AllPathsReturn {
		t.Fatal("expected the trailing ret after the loop to satisfy CFA")
	}
	if bag.HasErrors() {
		t.Fatalf("expected no diagnostics, got %+v", bag.Items())
	}
}

func TestCFAAcceptsReturnInsideNestedBlock(t *testing.T) {
	body, table, interner, ret := lowered(t, "f(n: i32): i32 { { ret n; } }", "f")
	void := voidType(t, table, interner)
	bag := diag.NewBag(4)
	res := cfa.Check(body, ret, void, interner, bag)
	if !res.AllPathsReturn {
		t.Fatal("expected a ret inside a bare nested block to satisfy CFA")
	}
	if bag.HasErrors() {
		t.Fatalf("expected no diagnostics, got %+v", bag.Items())
	}
}

func TestCFAFlagsNestedBlockFallingThrough(t *testing.T) {
	body, table, interner, ret := lowered(t, "f(n: i32): i32 { { n = n + 1; } }", "f")
	void := voidType(t, table, interner)
	bag := diag.NewBag(4)
	res := cfa.Check(body, ret, void, interner, bag)
	if res.AllPathsReturn {
		t.Fatal("expected a nested block with no ret to still fall through")
	}
	if !bag.HasErrors() {
		t.Fatal("expected a NotAllControlPathsReturn diagnostic")
	}
}

func TestCFAIgnoresVoidReturn(t *testing.T) {
	body, table, interner, ret := lowered(t, "f(n: i32): void { if n > 0 { ret; } }", "f")
	void := voidType(t, table, interner)
	bag := diag.NewBag(4)
	cfa.Check(body, ret, void, interner, bag)
	if bag.HasErrors() {
		t.Fatalf("expected a void-returning function to never trigger NotAllControlPathsReturn, got %+v", bag.Items())
	}
}
