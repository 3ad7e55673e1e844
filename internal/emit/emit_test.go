package emit_test

import (
	"testing"

	"ace/internal/ast"
	"ace/internal/emit"
	"ace/internal/sema"
	"ace/internal/symbols"
	"ace/internal/types"
)

// fakeEmitter is a minimal in-memory Emitter used to exercise
// EmitStmt/EmitExpr's dispatch without any real code generation.
type fakeEmitter struct {
	current  emit.Block
	blocks   map[symbols.SymbolID]emit.Block
	storage  map[symbols.SymbolID]emit.Value
	dropped  []emit.Value
	retVal   emit.Value
	retVoid  bool
	branched []emit.Block
	exited   bool
}

func newFakeEmitter() *fakeEmitter {
	return &fakeEmitter{
		current: "entry",
		blocks:  map[symbols.SymbolID]emit.Block{},
		storage: map[symbols.SymbolID]emit.Value{},
	}
}

func (f *fakeEmitter) CurrentBlock() emit.Block { return f.current }
func (f *fakeEmitter) SetBlock(b emit.Block)    { f.current = b }
func (f *fakeEmitter) NewBlock(name string) emit.Block {
	return name
}
func (f *fakeEmitter) Branch(target emit.Block) {
	f.branched = append(f.branched, target)
	f.current = target
}
func (f *fakeEmitter) CondBranch(cond emit.Value, then, els emit.Block) {
	f.branched = append(f.branched, then, els)
}
func (f *fakeEmitter) BlockFor(label symbols.SymbolID) emit.Block {
	if b, ok := f.blocks[label]; ok {
		return b
	}
	b := emit.Block(label)
	f.blocks[label] = b
	return b
}
func (f *fakeEmitter) StorageFor(local symbols.SymbolID) emit.Value {
	if v, ok := f.storage[local]; ok {
		return v
	}
	v := emit.Value("addr")
	f.storage[local] = v
	return v
}
func (f *fakeEmitter) Runtime(fn emit.RuntimeFunc) emit.Value { return fn }
func (f *fakeEmitter) Const(lit *ast.LiteralExpr, ty types.TypeID) emit.Value {
	return "const:" + lit.Text
}
func (f *fakeEmitter) Load(addr emit.Value, ty types.TypeID) emit.Value { return addr }
func (f *fakeEmitter) Store(addr emit.Value, val emit.Value)           {}
func (f *fakeEmitter) Unary(op ast.UnaryOp, operand emit.Value, ty types.TypeID) emit.Value {
	return operand
}
func (f *fakeEmitter) Binary(op ast.BinaryOp, lhs, rhs emit.Value, ty types.TypeID) emit.Value {
	return "binop"
}
func (f *fakeEmitter) Convert(kind sema.ConvertKind, val emit.Value, from, to types.TypeID, ctor symbols.SymbolID) emit.Value {
	return val
}
func (f *fakeEmitter) Call(fn symbols.SymbolID, args []emit.Value, ty types.TypeID) emit.Value {
	return "call"
}
func (f *fakeEmitter) FieldAddr(receiver emit.Value, field symbols.SymbolID) emit.Value {
	return "fieldaddr"
}
func (f *fakeEmitter) StructNew(ty types.TypeID, fields map[symbols.SymbolID]emit.Value) emit.Value {
	return "struct"
}
func (f *fakeEmitter) AddrOf(val emit.Value) emit.Value       { return val }
func (f *fakeEmitter) SizeOf(ty types.TypeID) emit.Value      { return "sizeof" }
func (f *fakeEmitter) TypeInfoPtr(ty types.TypeID) emit.Value { return "typeinfo" }
func (f *fakeEmitter) VtblPtr(ty types.TypeID) emit.Value     { return "vtbl" }
func (f *fakeEmitter) Ret(val emit.Value, hasValue bool) {
	f.retVal, f.retVoid = val, !hasValue
}
func (f *fakeEmitter) Exit() { f.exited = true }
func (f *fakeEmitter) Drop(val emit.Value, ty types.TypeID) {
	f.dropped = append(f.dropped, val)
}

func literalExpr(text string, ty types.TypeID) *sema.LiteralExpr {
	lit := &sema.LiteralExpr{Raw: &ast.LiteralExpr{Text: text}}
	lit.Ty = ty
	return lit
}

func TestEmitExprLiteral(t *testing.T) {
	em := newFakeEmitter()
	res, err := emit.EmitExpr(literalExpr("42", 1), em)
	if err != nil {
		t.Fatalf("EmitExpr: %v", err)
	}
	if res.Value != "const:42" {
		t.Fatalf("got %v", res.Value)
	}
}

func TestEmitExprBinaryPropagatesCleanups(t *testing.T) {
	em := newFakeEmitter()
	left := &sema.ConvertExpr{Kind: sema.ConvertImplicitCtor, Value: literalExpr("1", 1), Ctor: symbols.SymbolID(7)}
	left.Ty = 1
	right := literalExpr("2", 1)
	bin := &sema.BinaryExpr{Op: ast.BinInvalid, Left: left, Right: right}
	bin.Ty = 1

	res, err := emit.EmitExpr(bin, em)
	if err != nil {
		t.Fatalf("EmitExpr: %v", err)
	}
	if res.Value != "binop" {
		t.Fatalf("got %v", res.Value)
	}
	if len(res.Cleanups) != 1 {
		t.Fatalf("expected the left operand's cleanup to propagate, got %d", len(res.Cleanups))
	}
}

func TestEmitExprErrorExprFails(t *testing.T) {
	em := newFakeEmitter()
	errExpr := &sema.ErrorExpr{}
	if _, err := emit.EmitExpr(errExpr, em); err == nil {
		t.Fatal("expected error emitting ErrorExpr")
	}
}

func TestEmitStmtRetRunsCleanupsFromImplicitCtor(t *testing.T) {
	em := newFakeEmitter()
	inner := literalExpr("0", 1)
	conv := &sema.ConvertExpr{Kind: sema.ConvertImplicitCtor, Value: inner, Ctor: symbols.SymbolID(7)}
	conv.Ty = 2

	ret := &sema.RetStmt{Value: conv}
	if err := emit.EmitStmt(ret, em); err != nil {
		t.Fatalf("EmitStmt: %v", err)
	}
	if em.retVoid {
		t.Fatal("expected non-void return")
	}
	if len(em.dropped) != 1 {
		t.Fatalf("expected one cleanup drop, got %d", len(em.dropped))
	}
}

func TestEmitStmtExitSetsExited(t *testing.T) {
	em := newFakeEmitter()
	if err := emit.EmitStmt(&sema.ExitStmt{}, em); err != nil {
		t.Fatalf("EmitStmt: %v", err)
	}
	if !em.exited {
		t.Fatal("expected Exit to be called")
	}
}

func TestEmitStmtLabelAndJump(t *testing.T) {
	em := newFakeEmitter()
	label := symbols.SymbolID(5)

	if err := emit.EmitStmt(&sema.LabelStmt{Label: label}, em); err != nil {
		t.Fatalf("EmitStmt(label): %v", err)
	}
	if err := emit.EmitStmt(&sema.JumpStmt{Target: label}, em); err != nil {
		t.Fatalf("EmitStmt(jump): %v", err)
	}
	if len(em.branched) != 1 {
		t.Fatalf("expected one branch recorded, got %d", len(em.branched))
	}
}

func TestEmitStmtRejectsPreLoweringNodes(t *testing.T) {
	em := newFakeEmitter()
	if err := emit.EmitStmt(&sema.IfStmt{}, em); err == nil {
		t.Fatal("expected IfStmt to be rejected")
	}
	if err := emit.EmitStmt(&sema.WhileStmt{}, em); err == nil {
		t.Fatal("expected WhileStmt to be rejected")
	}
}

func TestEmitStmtAssignToIdent(t *testing.T) {
	em := newFakeEmitter()
	sym := symbols.SymbolID(3)
	target := &sema.IdentExpr{Symbol: sym}
	target.LValue = true
	target.Ty = 1
	value := literalExpr("9", 1)

	assign := &sema.AssignStmt{Target: target, Value: value}
	if err := emit.EmitStmt(assign, em); err != nil {
		t.Fatalf("EmitStmt(assign): %v", err)
	}
}
