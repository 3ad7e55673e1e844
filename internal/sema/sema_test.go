package sema_test

import (
	"testing"

	"ace/internal/ast"
	"ace/internal/diag"
	"ace/internal/lexer"
	"ace/internal/parser"
	"ace/internal/sema"
	"ace/internal/source"
	"ace/internal/symbols"
	"ace/internal/types"
)

// fixture builds a fully decl-resolved symbol table and type interner for
// a single source file, the way the driver does for one
// compilation unit, minus the concurrent file loading.
type fixture struct {
	file    *ast.File
	table   *symbols.Table
	types   *types.Interner
	builder *symbols.Builder
	bag     *diag.Bag
}

func compile(t *testing.T, src string) *fixture {
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
	return &fixture{file: file, table: table, types: interner, builder: builder, bag: bag}
}

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

// pipeline runs a single function named fnName through Bind, the
// type-check fixed point, and the lowering fixed point, returning the
// final lowered body.
func (fx *fixture) pipeline(t *testing.T, fnName string) *sema.Block {
	t.Helper()
	fn := findFunction(fx.file, fnName)
	if fn == nil {
		t.Fatalf("function %q not found in parsed file", fnName)
	}
	sym := findFunctionSymbol(fx.table, fx.table.RootID(), fnName)
	if sym == nil {
		t.Fatalf("function symbol %q not found", fnName)
	}

	binder := sema.NewBinder(fx.table, fx.types)
	body := binder.BindFunctionBody(fn.Body, fx.bag)
	if fx.bag.HasErrors() {
		t.Fatalf("bind errors: %+v", fx.bag.Items())
	}

	checker := sema.NewChecker(fx.table, fx.types, sym.FnSig.Return)
	body = checker.Run(body, fx.bag)
	if fx.bag.HasErrors() {
		t.Fatalf("type-check errors: %+v", fx.bag.Items())
	}

	lowerer := sema.NewLowerer(fx.table, fx.types, fn.Body.Scope())
	return lowerer.Run(body)
}

func TestBindArithmeticWidensOperands(t *testing.T) {
	fx := compile(t, "add(a: i32, b: i64): i64 { ret a + b; }")
	body := fx.pipeline(t, "add")

	ret, ok := body.Stmts[0].(*sema.RetStmt)
	if !ok {
		t.Fatalf("expected first statement to be a RetStmt, got %T", body.Stmts[0])
	}
	bin, ok := ret.Value.(*sema.BinaryExpr)
	if !ok {
		t.Fatalf("expected ret value to be a BinaryExpr, got %T", ret.Value)
	}
	if _, ok := bin.Left.(*sema.ConvertExpr); !ok {
		t.Fatalf("expected the i32 operand to be wrapped in a ConvertExpr (widen to i64), got %T", bin.Left)
	}
	if !fx.types.Equal(bin.Type(), bin.Right.Type()) {
		t.Fatalf("expected binary expression type to match the i64 operand")
	}
}

func TestLowerIfProducesLabelsAndJumps(t *testing.T) {
	fx := compile(t, "pick(cond: bool): i32 { if cond { ret 1; } else { ret 0; } }")
	body := fx.pipeline(t, "pick")

	var sawCondJump, sawLabel bool
	for _, s := range body.Stmts {
		switch s.(type) {
		case *sema.CondJumpStmt:
			sawCondJump = true
		case *sema.LabelStmt:
			sawLabel = true
		case *sema.IfStmt:
			t.Fatalf("IfStmt should not survive lowering")
		}
	}
	if !sawCondJump {
		t.Fatal("expected lowering to produce a CondJumpStmt for the if condition")
	}
	if !sawLabel {
		t.Fatal("expected lowering to produce at least one LabelStmt")
	}
}

func TestLowerWhileProducesLoopBackedge(t *testing.T) {
	fx := compile(t, "spin(n: i32): i32 { while n > 0 { n = n - 1; } ret n; }")
	body := fx.pipeline(t, "spin")

	var jumps, condJumps, labels int
	for _, s := range body.Stmts {
		switch s.(type) {
		case *sema.JumpStmt:
			jumps++
		case *sema.CondJumpStmt:
			condJumps++
		case *sema.LabelStmt:
			labels++
		case *sema.WhileStmt:
			t.Fatalf("WhileStmt should not survive lowering")
		}
	}
	if jumps == 0 || condJumps == 0 || labels == 0 {
		t.Fatalf("expected while-loop lowering to produce jumps/condjumps/labels, got jumps=%d condJumps=%d labels=%d", jumps, condJumps, labels)
	}
}

func TestLowerAssertRewritesToGuardedExit(t *testing.T) {
	fx := compile(t, "check(n: i32): i32 { assert n > 0; ret n; }")
	body := fx.pipeline(t, "check")

	var sawExit bool
	for _, s := range body.Stmts {
		if _, ok := s.(*sema.ExitStmt); ok {
			sawExit = true
		}
		if _, ok := s.(*sema.AssertStmt); ok {
			t.Fatalf("AssertStmt should not survive lowering")
		}
	}
	if !sawExit {
		t.Fatal("expected assert to lower into a guarded ExitStmt")
	}
}

func TestLowerCompoundAssignDesugars(t *testing.T) {
	fx := compile(t, "bump(n: i32): i32 { n += 1; ret n; }")
	body := fx.pipeline(t, "bump")

	assign, ok := body.Stmts[0].(*sema.AssignStmt)
	if !ok {
		t.Fatalf("expected compound-assign to desugar into an AssignStmt, got %T", body.Stmts[0])
	}
	bin, ok := assign.Value.(*sema.BinaryExpr)
	if !ok {
		t.Fatalf("expected desugared assignment value to be a BinaryExpr, got %T", assign.Value)
	}
	if bin.Op != ast.BinAdd {
		t.Fatalf("expected the desugared operator to be '+', got %v", bin.Op)
	}
}

func TestLowerLogicalAndDesugarsToGuardedAssign(t *testing.T) {
	fx := compile(t, "both(a: bool, b: bool): bool { ret a && b; }")
	body := fx.pipeline(t, "both")

	var sawCondJump, sawVarDecl bool
	for _, s := range body.Stmts {
		switch st := s.(type) {
		case *sema.CondJumpStmt:
			sawCondJump = true
		case *sema.VarDeclStmt:
			sawVarDecl = true
		case *sema.RetStmt:
			if _, ok := st.Value.(*sema.BinaryExpr); ok {
				t.Fatal("a logical-and BinaryExpr should not survive lowering")
			}
			if _, ok := st.Value.(*sema.IdentExpr); !ok {
				t.Fatalf("expected the ret value to be a reference to the hoisted local, got %T", st.Value)
			}
		}
	}
	if !sawCondJump {
		t.Fatal("expected && to lower into a CondJumpStmt")
	}
	if !sawVarDecl {
		t.Fatal("expected && to hoist a local variable declaration")
	}
}

func TestLowerLogicalOrInValuePosition(t *testing.T) {
	fx := compile(t, "pick(a: bool, b: bool): bool { x: bool = a || b; ret x; }")
	body := fx.pipeline(t, "pick")

	for _, s := range body.Stmts {
		if ifs, ok := s.(*sema.IfStmt); ok {
			t.Fatalf("IfStmt should not survive lowering, got %+v", ifs)
		}
		if bin, ok := s.(*sema.ExprStmt); ok {
			if _, ok := bin.Value.(*sema.BinaryExpr); ok {
				t.Fatal("a logical-or BinaryExpr should not survive lowering")
			}
		}
	}
}

// TestBindFreeCallCachesGenericInstantiation exercises bindFreeCall
// directly (bind only, no type-check) since argument-to-type-parameter
// conversion is the monomorphizer's job and isn't implemented here; what
// this test checks is that two identically-instantiated call sites share
// one cached FunctionSymbol, not that the call type-checks end to end.
func TestBindFreeCallCachesGenericInstantiation(t *testing.T) {
	fx := compile(t, `
id[T](x: T): T { ret x; }

two(): i32 {
	a: i32 = id[i32](1);
	b: i32 = id[i32](2);
	ret 0;
}
`)
	fn := findFunction(fx.file, "two")
	binder := sema.NewBinder(fx.table, fx.types)
	body := binder.BindFunctionBody(fn.Body, fx.bag)

	var calls []*sema.StaticCallExpr
	for _, s := range body.Stmts {
		if vd, ok := s.(*sema.VarDeclStmt); ok {
			if call, ok := vd.Init.(*sema.StaticCallExpr); ok {
				calls = append(calls, call)
			}
		}
	}
	if len(calls) != 2 {
		t.Fatalf("expected 2 bound calls to id[i32], got %d", len(calls))
	}
	if calls[0].Func != calls[1].Func {
		t.Fatalf("expected both id[i32] calls to resolve to the same cached instance, got %v and %v", calls[0].Func, calls[1].Func)
	}
	genericID := findFunctionSymbol(fx.table, fx.table.RootID(), "id")
	if calls[0].Func == genericID.ID {
		t.Fatal("expected the call to resolve to the cached instance, not the uninstantiated generic itself")
	}
	if binder.Recorder.Len() != 1 {
		t.Fatalf("expected one distinct recorded instantiation for id[i32], got %d", binder.Recorder.Len())
	}
}

func TestBindStructFieldAccess(t *testing.T) {
	fx := compile(t, `
Point: struct {
	pub x: i32,
	pub y: i32,
}

sum(p: Point): i32 {
	ret p.x + p.y;
}
`)
	body := fx.pipeline(t, "sum")
	ret, ok := body.Stmts[0].(*sema.RetStmt)
	if !ok {
		t.Fatalf("expected a RetStmt, got %T", body.Stmts[0])
	}
	bin, ok := ret.Value.(*sema.BinaryExpr)
	if !ok {
		t.Fatalf("expected a BinaryExpr, got %T", ret.Value)
	}
	if _, ok := bin.Left.(*sema.MemberExpr); !ok {
		t.Fatalf("expected the left operand to bind as a MemberExpr, got %T", bin.Left)
	}
}
