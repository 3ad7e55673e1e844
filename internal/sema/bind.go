package sema

import (
	"ace/internal/ast"
	"ace/internal/diag"
	"ace/internal/mono"
	"ace/internal/symbols"
	"ace/internal/token"
	"ace/internal/types"
)

// Binder implements the create_sema: a post-order walk over a
// parsed function body that resolves every name to a symbol, binds
// member access to a field or method symbol, matches struct-construction
// fields, and performs user-operator lookup — producing a Block tree with
// every Expr already carrying a (possibly error-fallback) Type.
//
// Binder runs once per function body, after the decl phase's two passes
// have populated Table with every symbol in the compilation but before
// Table.Freeze, since nested blocks still need to Define LocalVar and
// Label symbols into freshly created child scopes.
type Binder struct {
	Table *symbols.Table
	Types *types.Interner
	Resolver *symbols.Resolver

	// Recorder logs every template-instantiation request this Binder
	// serves, independent of the cache itself (symbols.Table.Instantiation):
	// a history of who asked for (generic, type-args), for a future
	// deduction-conflict diagnostic to consult.
	Recorder *mono.Recorder

	// currentFn is the symbol of the function body currently being bound,
	// recorded as the UseSite.Caller on every instantiation request. Zero
	// while binding top-level code with no enclosing function symbol.
	currentFn symbols.SymbolID
}

// NewBinder creates a Binder over an already decl-phase-populated table.
func NewBinder(t *symbols.Table, in *types.Interner) *Binder {
	return &Binder{Table: t, Types: in, Resolver: symbols.NewResolver(t), Recorder: mono.NewRecorder()}
}

// SetCurrentFunction records fnSym as the enclosing function symbol for
// whatever body is bound next, attributed as the UseSite.Caller on any
// template-instantiation request that body makes.
func (b *Binder) SetCurrentFunction(fnSym symbols.SymbolID) {
	b.currentFn = fnSym
}

func (b *Binder) nativeType(name string) types.TypeID {
	id, ok := b.Table.NativeTypes[name]
	if !ok {
		return 0
	}
	return b.Types.Nominal(types.NominalKey(id))
}

func (b *Binder) errType() types.TypeID {
	return b.Types.Nominal(types.NominalKey(b.Table.ErrorSymbol()))
}

// BindFunctionBody binds fn's already-parsed body block, which shares the
// function's own scope.
func (b *Binder) BindFunctionBody(body *ast.BlockStmt, bag *diag.Bag) *Block {
	return b.bindBlockIn(body.Scope(), body, bag)
}

// bindBlock binds a nested block, creating its own child scope: every
// BlockStmt beyond a function's own top-level body gets one.
func (b *Binder) bindBlock(parentScope symbols.ScopeID, blk *ast.BlockStmt, bag *diag.Bag) *Block {
	scope := b.Table.CreateChild(parentScope, symbols.ScopeBlock, "", blk.Loc)
	blk.SetScope(scope)
	return b.bindBlockIn(scope, blk, bag)
}

func (b *Binder) bindBlockIn(scope symbols.ScopeID, blk *ast.BlockStmt, bag *diag.Bag) *Block {
	out := &Block{stmtBase: stmtBase{Loc: blk.Loc}, Scope: scope}
	for _, s := range blk.Stmts {
		out.Stmts = append(out.Stmts, b.bindStmt(scope, s, bag))
	}
	out.Stmts = append(out.Stmts, &BlockEndStmt{stmtBase: stmtBase{Loc: blk.Loc}, Owner: scope})
	return out
}

func (b *Binder) bindStmt(scope symbols.ScopeID, s ast.Stmt, bag *diag.Bag) Stmt {
	switch st := s.(type) {
	case *ast.BlockStmt:
		return b.bindBlock(scope, st, bag)
	case *ast.IfStmt:
		return b.bindIf(scope, st, bag)
	case *ast.WhileStmt:
		return b.bindWhile(scope, st, bag)
	case *ast.RetStmt:
		var v Expr
		if st.Value != nil {
			v = b.bindExpr(scope, st.Value, bag)
		}
		return &RetStmt{stmtBase: stmtBase{Loc: st.Loc}, Value: v}
	case *ast.ExitStmt:
		return &ExitStmt{stmtBase: stmtBase{Loc: st.Loc}}
	case *ast.AssertStmt:
		return &AssertStmt{stmtBase: stmtBase{Loc: st.Loc}, Cond: b.bindExpr(scope, st.Cond, bag)}
	case *ast.VarDeclStmt:
		return b.bindVarDecl(scope, st, bag)
	case *ast.ExprStmt:
		return &ExprStmt{stmtBase: stmtBase{Loc: st.Loc}, Value: b.bindExpr(scope, st.Value, bag)}
	case *ast.AssignStmt:
		return &AssignStmt{stmtBase: stmtBase{Loc: st.Loc}, Target: b.bindExpr(scope, st.Target, bag), Value: b.bindExpr(scope, st.Value, bag)}
	case *ast.CompoundAssignStmt:
		base, _ := st.Op.CompoundBaseOp()
		return &CompoundAssignStmt{
			stmtBase: stmtBase{Loc: st.Loc},
			Op: binOpForToken(base),
			Target: b.bindExpr(scope, st.Target, bag),
			Value: b.bindExpr(scope, st.Value, bag),
		}
	default:
		return &ExprStmt{stmtBase: stmtBase{Loc: s.Location()}, Value: &ErrorExpr{exprBase: exprBase{Loc: s.Location(), Ty: b.errType()}}}
	}
}

func (b *Binder) bindIf(scope symbols.ScopeID, st *ast.IfStmt, bag *diag.Bag) Stmt {
	out := &IfStmt{stmtBase: stmtBase{Loc: st.Loc}, Cond: b.bindExpr(scope, st.Cond, bag), Then: b.bindBlock(scope, st.Then, bag)}
	for _, arm := range st.Elif {
		out.Elif = append(out.Elif, ElifArm{Cond: b.bindExpr(scope, arm.Cond, bag), Body: b.bindBlock(scope, arm.Body, bag)})
	}
	if st.Else != nil {
		out.Else = b.bindBlock(scope, st.Else, bag)
	}
	return out
}

func (b *Binder) bindWhile(scope symbols.ScopeID, st *ast.WhileStmt, bag *diag.Bag) Stmt {
	return &WhileStmt{stmtBase: stmtBase{Loc: st.Loc}, Cond: b.bindExpr(scope, st.Cond, bag), Body: b.bindBlock(scope, st.Body, bag)}
}

func (b *Binder) bindVarDecl(scope symbols.ScopeID, st *ast.VarDeclStmt, bag *diag.Bag) Stmt {
	var init Expr
	if st.Init != nil {
		init = b.bindExpr(scope, st.Init, bag)
	}
	ty := b.errType()
	switch {
	case st.Type != nil:
		ty = b.resolveTypeName(scope, st.Type, bag)
	case init != nil:
		ty = init.Type()
	}
	id := b.Table.Define(&symbols.Symbol{Kind: symbols.KindLocalVar, Name: st.Name, Vis: ast.Priv, VarType: ty, Scope: scope})
	return &VarDeclStmt{stmtBase: stmtBase{Loc: st.Loc}, Symbol: id, Init: init}
}

func (b *Binder) resolveTypeName(scope symbols.ScopeID, tn *ast.TypeName, bag *diag.Bag) types.TypeID {
	target := b.Resolver.Resolve(scope, tn.Name, symbols.TypeCategory, bag)
	result := b.Types.Nominal(types.NominalKey(target))
	for i := len(tn.Modifiers) - 1; i >= 0; i-- {
		switch tn.Modifiers[i] {
		case ast.ModRef:
			result = b.Types.Ref(result)
		case ast.ModStrongPtr:
			result = b.Types.StrongPtr(result)
		case ast.ModWeakPtr:
			result = b.Types.WeakPtr(result)
		}
	}
	return result
}

func binOpForToken(k token.Kind) ast.BinaryOp {
	switch k {
	case token.PipePipe:
		return ast.BinOr
	case token.AmpAmp:
		return ast.BinAnd
	case token.Pipe:
		return ast.BinBitOr
	case token.Caret:
		return ast.BinBitXor
	case token.Amp:
		return ast.BinBitAnd
	case token.EqEq:
		return ast.BinEq
	case token.BangEq:
		return ast.BinNe
	case token.Lt:
		return ast.BinLt
	case token.LtEq:
		return ast.BinLe
	case token.Gt:
		return ast.BinGt
	case token.GtEq:
		return ast.BinGe
	case token.Shl:
		return ast.BinShl
	case token.Shr:
		return ast.BinShr
	case token.Plus:
		return ast.BinAdd
	case token.Minus:
		return ast.BinSub
	case token.Star:
		return ast.BinMul
	case token.Slash:
		return ast.BinDiv
	case token.Percent:
		return ast.BinMod
	default:
		return ast.BinInvalid
	}
}
