package sema

import (
	"strconv"

	"ace/internal/ast"
	"ace/internal/source"
	"ace/internal/symbols"
	"ace/internal/token"
	"ace/internal/types"
)

// Lowerer implements the lowering fixed point: if/elif/else and
// while rewrite to labels and jumps, assert rewrites to a guarded exit
// and is then itself lowered, compound assignment desugars to a plain
// assignment of a (possibly user-operator) binary expression, a
// short-circuiting `&&`/`||` rewrites to a fresh local plus an if/else
// that fills it in, and every surviving user-operator Unary/BinaryExpr
// rewrites to a StaticCall. Anonymous labels and locals are allocated in
// the enclosing function's own scope, named sequentially per function.
type Lowerer struct {
	Table *symbols.Table
	Types *types.Interner
	FnScope symbols.ScopeID
	counter int
}

// NewLowerer creates a Lowerer that allocates its anonymous labels into
// fnScope.
func NewLowerer(t *symbols.Table, in *types.Interner, fnScope symbols.ScopeID) *Lowerer {
	return &Lowerer{Table: t, Types: in, FnScope: fnScope}
}

// Run applies the fixed point over body. A single pass already eliminates
// every pre-lowering statement form it sees directly (If/While/Assert/
// CompoundAssign), but a rewrite step can itself introduce a fresh one —
// assert's rewrite into an IfStmt, or a value-position &&/|| hoisting an
// IfStmt out to statement level — so the loop re-walks the block until a
// pass makes no further change.
func (l *Lowerer) Run(body *Block) *Block {
	for i := 0; i < 4; i++ {
		changed := false
		body = l.lowerBlockTop(body, &changed)
		if !changed {
			break
		}
	}
	return body
}

func (l *Lowerer) newLabel(hint string) symbols.SymbolID {
	l.counter++
	name := source.Ident{Name: "__anon_" + hint + "_" + strconv.Itoa(l.counter)}
	return l.Table.Define(&symbols.Symbol{Kind: symbols.KindLabel, Name: name, Scope: l.FnScope, LabelOwnerFunc: symbols.NoSymbolID})
}

// newLocal allocates a fresh function-scoped local of type ty, for a
// value lowering manufactures rather than one the source declared.
func (l *Lowerer) newLocal(ty types.TypeID) symbols.SymbolID {
	l.counter++
	name := source.Ident{Name: "__anon_logical_" + strconv.Itoa(l.counter)}
	return l.Table.Define(&symbols.Symbol{Kind: symbols.KindLocalVar, Name: name, Vis: ast.Priv, VarType: ty, Scope: l.FnScope})
}

// boolLiteral synthesizes a bound `true`/`false` literal at loc, for the
// arm of a lowered &&/|| that doesn't evaluate the right operand.
func (l *Lowerer) boolLiteral(val bool, loc source.Location) Expr {
	kind := token.KwFalse
	text := "false"
	if val {
		kind = token.KwTrue
		text = "true"
	}
	raw := ast.NewLiteralExpr(loc, ast.NoScopeID, kind, text)
	return &LiteralExpr{exprBase: exprBase{Loc: loc, Ty: l.boolType()}, Raw: raw}
}

func (l *Lowerer) lowerBlockTop(blk *Block, changed *bool) *Block {
	var out []Stmt
	for _, s := range blk.Stmts {
		expanded, did := l.lowerStmt(s)
		if did {
			*changed = true
		}
		out = append(out, expanded...)
	}
	blk.Stmts = out
	return blk
}

func (l *Lowerer) lowerStmt(s Stmt) ([]Stmt, bool) {
	switch st := s.(type) {
	case *Block:
		changed := false
		return []Stmt{l.lowerBlockTop(st, &changed)}, changed
	case *IfStmt:
		return l.lowerIf(st), true
	case *WhileStmt:
		return l.lowerWhile(st), true
	case *AssertStmt:
		return l.lowerAssert(st), true
	case *CompoundAssignStmt:
		return l.lowerCompoundAssign(st), true
	case *AssignStmt:
		var pre []Stmt
		st.Target = l.lowerExpr(st.Target, &pre)
		st.Value = l.lowerExpr(st.Value, &pre)
		return append(pre, st), len(pre) > 0
	case *ExprStmt:
		var pre []Stmt
		st.Value = l.lowerExpr(st.Value, &pre)
		return append(pre, st), len(pre) > 0
	case *RetStmt:
		var pre []Stmt
		if st.Value != nil {
			st.Value = l.lowerExpr(st.Value, &pre)
		}
		return append(pre, st), len(pre) > 0
	case *VarDeclStmt:
		var pre []Stmt
		if st.Init != nil {
			st.Init = l.lowerExpr(st.Init, &pre)
		}
		return append(pre, st), len(pre) > 0
	default:
		return []Stmt{s}, false
	}
}

// lowerIf rewrites an if/elif*/else? chain into a flat label/cond-jump
// sequence. Each arm's condition becomes a two-way branch to
// its own body label or the next arm's test label; falling off any body
// jumps straight to the chain's end label.
func (l *Lowerer) lowerIf(st *IfStmt) []Stmt {
	type arm struct {
		cond Expr
		body *Block
	}
	arms := make([]arm, 0, len(st.Elif)+1)
	arms = append(arms, arm{st.Cond, st.Then})
	for _, e := range st.Elif {
		arms = append(arms, arm{e.Cond, e.Body})
	}

	endLabel := l.newLabel("if_end")
	var elseLabel symbols.SymbolID
	if st.Else != nil {
		elseLabel = l.newLabel("if_else")
	}

	var out []Stmt
	for i, a := range arms {
		bodyLabel := l.newLabel("if_then")
		var nextLabel symbols.SymbolID
		switch {
		case i+1 < len(arms):
			nextLabel = l.newLabel("if_cond")
		case st.Else != nil:
			nextLabel = elseLabel
		default:
			nextLabel = endLabel
		}
		var pre []Stmt
		cond := l.lowerExpr(a.cond, &pre)
		out = append(out, pre...)
		out = append(out, &CondJumpStmt{stmtBase: stmtBase{Loc: a.cond.Location()}, Cond: cond, Then: bodyLabel, Else: nextLabel})
		out = append(out, &LabelStmt{stmtBase: stmtBase{Loc: a.body.Location()}, Label: bodyLabel})
		changed := false
		out = append(out, l.lowerBlockTop(a.body, &changed).Stmts...)
		out = append(out, &JumpStmt{stmtBase: stmtBase{Loc: a.body.Location()}, Target: endLabel})
		if nextLabel != endLabel && nextLabel != elseLabel {
			out = append(out, &LabelStmt{stmtBase: stmtBase{Loc: a.body.Location()}, Label: nextLabel})
		}
	}
	if st.Else != nil {
		out = append(out, &LabelStmt{stmtBase: stmtBase{Loc: st.Else.Location()}, Label: elseLabel})
		changed := false
		out = append(out, l.lowerBlockTop(st.Else, &changed).Stmts...)
	}
	out = append(out, &LabelStmt{stmtBase: stmtBase{Loc: st.Loc}, Label: endLabel})
	return out
}

// lowerWhile rewrites `while cond { body }` into jump/label/cond-jump
//: unconditionally jump to the condition test first (so a
// false condition runs the body zero times), loop the body back to the
// test, and branch out once the condition fails.
func (l *Lowerer) lowerWhile(st *WhileStmt) []Stmt {
	condLabel := l.newLabel("while_cond")
	bodyLabel := l.newLabel("while_body")
	endLabel := l.newLabel("while_end")

	var out []Stmt
	out = append(out, &JumpStmt{stmtBase: stmtBase{Loc: st.Loc}, Target: condLabel})
	out = append(out, &LabelStmt{stmtBase: stmtBase{Loc: st.Body.Location()}, Label: bodyLabel})
	changed := false
	out = append(out, l.lowerBlockTop(st.Body, &changed).Stmts...)
	out = append(out, &LabelStmt{stmtBase: stmtBase{Loc: st.Cond.Location()}, Label: condLabel})
	var pre []Stmt
	cond := l.lowerExpr(st.Cond, &pre)
	out = append(out, pre...)
	out = append(out, &CondJumpStmt{stmtBase: stmtBase{Loc: st.Cond.Location()}, Cond: cond, Then: bodyLabel, Else: endLabel})
	out = append(out, &LabelStmt{stmtBase: stmtBase{Loc: st.Loc}, Label: endLabel})
	return out
}

// lowerAssert rewrites `assert cond;` into `if !cond { exit; }` and
// immediately re-lowers the synthesized IfStmt.
func (l *Lowerer) lowerAssert(st *AssertStmt) []Stmt {
	notCond := &UnaryExpr{exprBase: exprBase{Loc: st.Cond.Location(), Ty: l.boolType()}, Op: ast.UnaryNot, Operand: st.Cond}
	thenBlock := &Block{stmtBase: stmtBase{Loc: st.Loc}, Scope: l.FnScope, Stmts: []Stmt{&ExitStmt{stmtBase: stmtBase{Loc: st.Loc}}}}
	ifForm := &IfStmt{stmtBase: stmtBase{Loc: st.Loc}, Cond: notCond, Then: thenBlock}
	return l.lowerIf(ifForm)
}

// lowerCompoundAssign rewrites `lhs OP= rhs;` into `lhs = lhs OP rhs;`,
// resolving OP through the same user-operator lookup an ordinary
// BinaryExpr uses.
func (l *Lowerer) lowerCompoundAssign(st *CompoundAssignStmt) []Stmt {
	var pre []Stmt
	lhs := l.lowerExpr(st.Target, &pre)
	rhs := l.lowerExpr(st.Value, &pre)
	var overload symbols.SymbolID
	if ov, ok := lookupBinaryOverload(l.Table, l.Types, lhs.Type(), rhs.Type(), st.Op); ok {
		overload = ov
	}
	bin := &BinaryExpr{exprBase: exprBase{Loc: st.Loc, Ty: lhs.Type()}, Op: st.Op, Left: lhs, Right: rhs, Overload: overload}
	assign := &AssignStmt{stmtBase: stmtBase{Loc: st.Loc}, Target: st.Target, Value: l.lowerExpr(bin, &pre)}
	return append(pre, assign)
}

// lowerExpr rewrites a surviving user-operator Unary/BinaryExpr into a
// StaticCall and a short-circuiting &&/|| into an if/else over a fresh
// local, recursing into every expression's children regardless. Any
// statements a rewrite needs to run before e's value is available (a
// local's declaration, the if/else that fills it in) are appended to
// *out, in the order they must execute, so the caller can splice them in
// immediately before the statement that needed e's value.
func (l *Lowerer) lowerExpr(e Expr, out *[]Stmt) Expr {
	switch ex := e.(type) {
	case *BinaryExpr:
		if ex.Op == ast.BinAnd || ex.Op == ast.BinOr {
			return l.lowerLogical(ex, out)
		}
		ex.Left = l.lowerExpr(ex.Left, out)
		ex.Right = l.lowerExpr(ex.Right, out)
		if ex.Overload != symbols.NoSymbolID {
			return &StaticCallExpr{exprBase: ex.exprBase, Func: ex.Overload, Args: []Expr{ex.Left, ex.Right}}
		}
		return ex
	case *UnaryExpr:
		ex.Operand = l.lowerExpr(ex.Operand, out)
		if ex.Overload != symbols.NoSymbolID {
			return &StaticCallExpr{exprBase: ex.exprBase, Func: ex.Overload, Args: []Expr{ex.Operand}}
		}
		return ex
	case *StaticCallExpr:
		for i := range ex.Args {
			ex.Args[i] = l.lowerExpr(ex.Args[i], out)
		}
		return ex
	case *CallExpr:
		ex.Callee = l.lowerExpr(ex.Callee, out)
		for i := range ex.Args {
			ex.Args[i] = l.lowerExpr(ex.Args[i], out)
		}
		return ex
	case *MemberExpr:
		ex.Receiver = l.lowerExpr(ex.Receiver, out)
		return ex
	case *ConvertExpr:
		ex.Value = l.lowerExpr(ex.Value, out)
		return ex
	case *CastExpr:
		ex.Value = l.lowerExpr(ex.Value, out)
		return ex
	case *AddrOfExpr:
		ex.Value = l.lowerExpr(ex.Value, out)
		return ex
	case *DerefAsExpr:
		ex.Value = l.lowerExpr(ex.Value, out)
		return ex
	case *StructConstructExpr:
		for i := range ex.Fields {
			ex.Fields[i].Value = l.lowerExpr(ex.Fields[i].Value, out)
		}
		return ex
	default:
		return e
	}
}

// lowerLogical rewrites `a && b` to `if a { b } else { false }`, and its
// dual `a || b` to `if a { true } else { b }` — the right operand is
// only ever lowered into the arm that actually reaches it, which is what
// keeps its side effects (and any hoisting a nested &&/|| within it
// needs) short-circuited. The lowered core has no expression-level
// conditional, so the if/else instead fills in a fresh local and the
// surviving expression is a plain reference to it; *out collects the
// local's declaration and the if/else, which the caller splices in
// ahead of the statement that consumes the result. The injected IfStmt
// is itself pre-lowering and gets reduced to jumps on the fixed point's
// next pass over this block.
func (l *Lowerer) lowerLogical(ex *BinaryExpr, out *[]Stmt) Expr {
	left := l.lowerExpr(ex.Left, out)
	tmp := l.newLocal(ex.Ty)
	ref := func() Expr { return &IdentExpr{exprBase: exprBase{Loc: ex.Loc, Ty: ex.Ty, LValue: true}, Symbol: tmp} }
	fill := func(v Expr) Stmt { return &AssignStmt{stmtBase: stmtBase{Loc: ex.Loc}, Target: ref(), Value: v} }

	var thenStmts, elseStmts []Stmt
	if ex.Op == ast.BinAnd {
		right := l.lowerExpr(ex.Right, &thenStmts)
		thenStmts = append(thenStmts, fill(right))
		elseStmts = append(elseStmts, fill(l.boolLiteral(false, ex.Loc)))
	} else {
		right := l.lowerExpr(ex.Right, &elseStmts)
		thenStmts = append(thenStmts, fill(l.boolLiteral(true, ex.Loc)))
		elseStmts = append(elseStmts, fill(right))
	}

	*out = append(*out, &VarDeclStmt{stmtBase: stmtBase{Loc: ex.Loc}, Symbol: tmp})
	*out = append(*out, &IfStmt{
		stmtBase: stmtBase{Loc: ex.Loc},
		Cond:     left,
		Then:     &Block{stmtBase: stmtBase{Loc: ex.Loc}, Scope: l.FnScope, Stmts: thenStmts},
		Else:     &Block{stmtBase: stmtBase{Loc: ex.Loc}, Scope: l.FnScope, Stmts: elseStmts},
	})
	return ref()
}

func (l *Lowerer) boolType() types.TypeID {
	id, ok := l.Table.NativeTypes["Bool"]
	if !ok {
		return 0
	}
	return l.Types.Nominal(types.NominalKey(id))
}
