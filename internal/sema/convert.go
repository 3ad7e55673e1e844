package sema

import (
	"ace/internal/diag"
	"ace/internal/symbols"
	"ace/internal/token"
	"ace/internal/types"
)

// Checker runs the type-check fixed point over one function body:
// every expression that needs converting to a target type gets wrapped in
// the matching ConvertExpr, trying each conversion rule in order (L-value ->
// R-value, Ref auto-deref, numeric widening, implicit single-arg
// constructor, strong -> weak erasure); anything left over after all five
// rules fail is an InvalidImplicitConversion diagnostic. An unsuffixed
// integer literal takes an integer target type directly, with no
// conversion node.
type Checker struct {
	Table *symbols.Table
	Types *types.Interner
	Return types.TypeID // the enclosing function's declared return type
}

// NewChecker creates a Checker for one function's body, fixing Return for
// the duration of the walk (ret-statement checking needs it).
func NewChecker(t *symbols.Table, in *types.Interner, ret types.TypeID) *Checker {
	return &Checker{Table: t, Types: in, Return: ret}
}

// Run applies the fixed point: two passes suffice for any real program
// (a widening can only ever expose a further widening, never regress),
// so the loop is capped at a small constant rather than left unbounded.
func (c *Checker) Run(body *Block, bag *diag.Bag) *Block {
	for i := 0; i < 4; i++ {
		changed := false
		body = c.checkBlock(body, &changed, bag)
		if !changed {
			break
		}
	}
	return body
}

func (c *Checker) checkBlock(blk *Block, changed *bool, bag *diag.Bag) *Block {
	for i, s := range blk.Stmts {
		blk.Stmts[i] = c.checkStmt(s, changed, bag)
	}
	return blk
}

func (c *Checker) checkStmt(s Stmt, changed *bool, bag *diag.Bag) Stmt {
	switch st := s.(type) {
	case *Block:
		return c.checkBlock(st, changed, bag)
	case *IfStmt:
		st.Cond = c.coerce(st.Cond, c.boolType(), changed, bag)
		st.Then = c.checkBlock(st.Then, changed, bag)
		for i := range st.Elif {
			st.Elif[i].Cond = c.coerce(st.Elif[i].Cond, c.boolType(), changed, bag)
			st.Elif[i].Body = c.checkBlock(st.Elif[i].Body, changed, bag)
		}
		if st.Else != nil {
			st.Else = c.checkBlock(st.Else, changed, bag)
		}
		return st
	case *WhileStmt:
		st.Cond = c.coerce(st.Cond, c.boolType(), changed, bag)
		st.Body = c.checkBlock(st.Body, changed, bag)
		return st
	case *RetStmt:
		if st.Value != nil {
			st.Value = c.coerce(st.Value, c.Return, changed, bag)
		}
		return st
	case *AssertStmt:
		st.Cond = c.coerce(st.Cond, c.boolType(), changed, bag)
		return st
	case *VarDeclStmt:
		if st.Init != nil {
			st.Init = c.coerce(st.Init, c.Table.Symbol(st.Symbol).VarType, changed, bag)
		}
		return st
	case *ExprStmt:
		st.Value = c.visit(st.Value, changed, bag)
		return st
	case *AssignStmt:
		if !st.Target.IsLValue() {
			bag.Add(diag.New(diag.CodeExpectedLValue, st.Target.Location(), "assignment target is not an lvalue"))
		}
		st.Value = c.coerce(st.Value, st.Target.Type(), changed, bag)
		return st
	case *CompoundAssignStmt:
		if !st.Target.IsLValue() {
			bag.Add(diag.New(diag.CodeExpectedLValue, st.Target.Location(), "assignment target is not an lvalue"))
		}
		st.Value = c.visit(st.Value, changed, bag)
		return st
	default:
		return s
	}
}

// visit walks into an expression's children without forcing a target
// type, still running conversions on StaticCallExpr arguments (the one
// place an Expr's children have a statically-known required type without
// an enclosing statement providing it).
func (c *Checker) visit(e Expr, changed *bool, bag *diag.Bag) Expr {
	switch ex := e.(type) {
	case *StaticCallExpr:
		sig := c.sigFor(ex.Func)
		offset := 0
		if sig.HasSelf {
			offset = 1
		}
		for i := offset; i < len(ex.Args); i++ {
			pi := i - offset
			if pi < len(sig.ParamTypes) {
				ex.Args[i] = c.coerce(ex.Args[i], sig.ParamTypes[pi], changed, bag)
			}
		}
		return ex
	case *MemberExpr:
		ex.Receiver = c.visit(ex.Receiver, changed, bag)
		return ex
	case *BinaryExpr:
		ex.Left = c.visit(ex.Left, changed, bag)
		ex.Right = c.visit(ex.Right, changed, bag)
		return ex
	case *UnaryExpr:
		ex.Operand = c.visit(ex.Operand, changed, bag)
		return ex
	case *AddrOfExpr:
		ex.Value = c.visit(ex.Value, changed, bag)
		return ex
	case *CastExpr:
		ex.Value = c.visit(ex.Value, changed, bag)
		return c.checkExplicitCast(ex, bag)
	case *DerefAsExpr:
		ex.Value = c.visit(ex.Value, changed, bag)
		return ex
	default:
		return e
	}
}

func (c *Checker) sigFor(fn symbols.SymbolID) symbols.Signature {
	sym := c.Table.Symbol(fn)
	if sym.Kind == symbols.KindPrototype {
		return sym.ProtoSig
	}
	return sym.FnSig
}

// coerce runs visit then inserts a conversion to target if needed,
// diagnosing CodeInvalidImplicitConversion when every rule fails. An
// unsuffixed integer literal is narrowed to an integer target by retyping
// it in place.
func (c *Checker) coerce(e Expr, target types.TypeID, changed *bool, bag *diag.Bag) Expr {
	e = c.visit(e, changed, bag)
	if target == 0 || c.Types.Equal(e.Type(), target) {
		return e
	}
	if lit, ok := e.(*LiteralExpr); ok && lit.Raw != nil && lit.Raw.Kind == token.IntLit {
		if to, ok := c.nativeDesc(target); ok && (to.Shape == types.NativeSignedInt || to.Shape == types.NativeUnsignedInt) {
			lit.Ty = target
			*changed = true
			return lit
		}
	}
	converted, ok := c.convert(e, target)
	if !ok {
		bag.Add(diag.Newf(diag.CodeInvalidImplicitConversion, e.Location(),
			"cannot implicitly convert to the expected type"))
		return e
	}
	*changed = true
	return converted
}

// convert implements rules 1-5 in order.
func (c *Checker) convert(e Expr, target types.TypeID) (Expr, bool) {
	// Rule 1: L-value -> R-value, only meaningful once types already
	// match (otherwise one of rules 2-5 still needs to run).
	if e.IsLValue() && c.Types.Equal(e.Type(), target) {
		return &ConvertExpr{exprBase: exprBase{Loc: e.Location(), Ty: target}, Kind: ConvertToRValue, Value: e}, true
	}

	// Rule 2: Ref auto-deref.
	if inner, ok := c.Types.Deref(e.Type()); ok {
		wrapped := &ConvertExpr{exprBase: exprBase{Loc: e.Location(), Ty: inner, LValue: true}, Kind: ConvertAutoDeref, Value: e}
		if c.Types.Equal(inner, target) {
			return wrapped, true
		}
		if out, ok := c.convert(wrapped, target); ok {
			return out, true
		}
	}

	// Rule 3: numeric widening along the native lattice.
	if from, ok := c.nativeDesc(e.Type()); ok {
		if to, ok := c.nativeDesc(target); ok && types.NativeWidens(from, to) {
			return &ConvertExpr{exprBase: exprBase{Loc: e.Location(), Ty: target}, Kind: ConvertWiden, Value: e}, true
		}
	}

	// Rule 4: implicit single-argument constructor invocation.
	if ctor, ok := c.findImplicitCtor(e.Type(), target); ok {
		return &ConvertExpr{exprBase: exprBase{Loc: e.Location(), Ty: target}, Kind: ConvertImplicitCtor, Value: e, Ctor: ctor}, true
	}

	// Rule 5: strong pointer -> weak pointer erasure.
	if c.Types.Kind(e.Type()) == types.KindStrongPtr && c.Types.Kind(target) == types.KindWeakPtr {
		if c.Types.Equal(c.Types.Inner(e.Type()), c.Types.Inner(target)) {
			return &ConvertExpr{exprBase: exprBase{Loc: e.Location(), Ty: target}, Kind: ConvertStrongToWeak, Value: e}, true
		}
	}

	return e, false
}

func (c *Checker) nativeDesc(ty types.TypeID) (types.NativeDesc, bool) {
	if c.Types.Kind(ty) != types.KindNominal {
		return types.NativeDesc{}, false
	}
	id := symbols.SymbolID(c.Types.NominalKey(ty))
	sym := c.Table.Symbol(id)
	for _, d := range types.NativeDescs {
		if d.Name == sym.Name.Name {
			return d, true
		}
	}
	return types.NativeDesc{}, false
}

func (c *Checker) findImplicitCtor(from, to types.TypeID) (symbols.SymbolID, bool) {
	if c.Types.Kind(to) != types.KindNominal {
		return symbols.NoSymbolID, false
	}
	sym := c.Table.Symbol(symbols.SymbolID(c.Types.NominalKey(to)))
	for _, implID := range sym.InherentImpls {
		impl := c.Table.Symbol(implID)
		for _, fnID := range impl.ImplFunctions {
			fn := c.Table.Symbol(fnID)
			if fn.FnCategory != symbols.Static || fn.FnSig.Arity() != 1 {
				continue
			}
			if fn.FnSig.Return == to && c.Types.Equal(fn.FnSig.ParamTypes[0], from) {
				return fnID, true
			}
		}
	}
	return symbols.NoSymbolID, false
}

func (c *Checker) boolType() types.TypeID {
	for name, id := range c.Table.NativeTypes {
		if name == "Bool" {
			return c.Types.Nominal(types.NominalKey(id))
		}
	}
	return 0
}

// checkExplicitCast validates `cast[T](e)` against the explicit-cast rule
// set, replacing CastExpr with a ConvertExpr
// once validated, or diagnosing CodeInvalidExplicitConversion.
func (c *Checker) checkExplicitCast(ex *CastExpr, bag *diag.Bag) Expr {
	if c.Types.Equal(ex.Value.Type(), ex.Ty) {
		return ex.Value
	}
	if converted, ok := c.convert(ex.Value, ex.Ty); ok {
		return converted
	}
	fromNative, fromOK := c.nativeDesc(ex.Value.Type())
	toNative, toOK := c.nativeDesc(ex.Ty)
	if fromOK && toOK {
		switch {
		case fromNative.Shape == toNative.Shape:
			return &ConvertExpr{exprBase: exprBase{Loc: ex.Loc, Ty: ex.Ty}, Kind: ConvertExplicitWiden, Value: ex.Value}
		case (fromNative.Shape == types.NativeSignedInt || fromNative.Shape == types.NativeUnsignedInt) && toNative.Shape == types.NativeFloat:
			return &ConvertExpr{exprBase: exprBase{Loc: ex.Loc, Ty: ex.Ty}, Kind: ConvertExplicitWiden, Value: ex.Value}
		case fromNative.Shape == types.NativeFloat && (toNative.Shape == types.NativeSignedInt || toNative.Shape == types.NativeUnsignedInt):
			return &ConvertExpr{exprBase: exprBase{Loc: ex.Loc, Ty: ex.Ty}, Kind: ConvertExplicitWiden, Value: ex.Value}
		}
	}
	bag.Add(diag.New(diag.CodeInvalidExplicitConversion, ex.Loc, "invalid cast"))
	return &ConvertExpr{exprBase: exprBase{Loc: ex.Loc, Ty: ex.Ty}, Kind: ConvertExplicitWiden, Value: ex.Value}
}
