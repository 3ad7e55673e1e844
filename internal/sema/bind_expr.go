package sema

import (
	"ace/internal/ast"
	"ace/internal/diag"
	"ace/internal/mono"
	"ace/internal/symbols"
	"ace/internal/token"
	"ace/internal/types"
)

func (b *Binder) bindExpr(scope symbols.ScopeID, e ast.Expr, bag *diag.Bag) Expr {
	switch ex := e.(type) {
	case *ast.LiteralExpr:
		return b.bindLiteral(ex)
	case *ast.IdentExpr:
		return b.bindIdent(scope, ex, bag)
	case *ast.MemberExpr:
		return b.bindMemberAsValue(scope, ex, bag)
	case *ast.CallExpr:
		return b.bindCall(scope, ex, bag)
	case *ast.UnaryExpr:
		return b.bindUnary(scope, ex, bag)
	case *ast.BinaryExpr:
		return b.bindBinary(scope, ex, bag)
	case *ast.CastExpr:
		return b.bindCast(scope, ex, bag)
	case *ast.StructConstructExpr:
		return b.bindStructConstruct(scope, ex, bag)
	case *ast.AddrOfExpr:
		v := b.bindExpr(scope, ex.Value, bag)
		return &AddrOfExpr{exprBase: exprBase{Loc: ex.Loc, Ty: b.Types.StrongPtr(v.Type())}, Value: v}
	case *ast.SizeOfExpr:
		t := b.resolveTypeName(scope, ex.Target, bag)
		return &SizeOfExpr{exprBase: exprBase{Loc: ex.Loc, Ty: b.nativeType("U64")}, Target: t}
	case *ast.DerefAsExpr:
		t := b.resolveTypeName(scope, ex.Target, bag)
		v := b.bindExpr(scope, ex.Value, bag)
		return &DerefAsExpr{exprBase: exprBase{Loc: ex.Loc, Ty: t, LValue: true}, Value: v}
	case *ast.TypeInfoPtrExpr:
		t := b.resolveTypeName(scope, ex.Target, bag)
		return &TypeInfoPtrExpr{exprBase: exprBase{Loc: ex.Loc, Ty: b.Types.StrongPtr(b.nativeType("Void"))}, Target: t}
	case *ast.VtblPtrExpr:
		t := b.resolveTypeName(scope, ex.Target, bag)
		return &VtblPtrExpr{exprBase: exprBase{Loc: ex.Loc, Ty: b.Types.StrongPtr(b.nativeType("Void"))}, Target: t}
	default:
		return &ErrorExpr{exprBase: exprBase{Loc: e.Location(), Ty: b.errType()}}
	}
}

func (b *Binder) bindLiteral(ex *ast.LiteralExpr) Expr {
	ty := b.literalType(ex.Kind)
	return &LiteralExpr{exprBase: exprBase{Loc: ex.Loc, Ty: ty}, Raw: ex}
}

// literalType picks a literal token's native type.
func (b *Binder) literalType(k token.Kind) types.TypeID {
	switch k {
	case token.I8Lit:
		return b.nativeType("I8")
	case token.I16Lit:
		return b.nativeType("I16")
	case token.I32Lit:
		return b.nativeType("I32")
	case token.I64Lit:
		return b.nativeType("I64")
	case token.U8Lit:
		return b.nativeType("U8")
	case token.U16Lit:
		return b.nativeType("U16")
	case token.U32Lit:
		return b.nativeType("U32")
	case token.U64Lit:
		return b.nativeType("U64")
	case token.F32Lit:
		return b.nativeType("F32")
	case token.F64Lit:
		return b.nativeType("F64")
	case token.IntLit:
		return b.nativeType("Int")
	case token.KwTrue, token.KwFalse:
		return b.nativeType("Bool")
	default:
		return b.errType()
	}
}

func (b *Binder) bindIdent(scope symbols.ScopeID, ex *ast.IdentExpr, bag *diag.Bag) Expr {
	id := b.Resolver.Resolve(scope, ex.Name, symbols.ValueCategory, bag)
	sym := b.Table.Symbol(id)
	ty := b.errType()
	lvalue := false
	switch sym.Kind {
	case symbols.KindLocalVar, symbols.KindGlobalVar:
		ty = sym.VarType
		lvalue = true
	case symbols.KindParam, symbols.KindSelfParam:
		ty = sym.ParamType
		lvalue = true
	case symbols.KindField:
		ty = sym.FieldType
		lvalue = true
	case symbols.KindFunction:
		ty = sym.FnSig.Return
	}
	return &IdentExpr{exprBase: exprBase{Loc: ex.Loc, Ty: ty, LValue: lvalue}, Symbol: id}
}

// bindMemberAsValue binds `Receiver.Name` where the result is used as a
// value (field read); when Name instead names a method, CallExpr binding
// intercepts the raw ast.MemberExpr before reaching here.
func (b *Binder) bindMemberAsValue(scope symbols.ScopeID, ex *ast.MemberExpr, bag *diag.Bag) Expr {
	recv := b.bindExpr(scope, ex.Receiver, bag)
	fieldID, ok := b.resolveMember(recv.Type(), ex.Name.Name)
	if !ok {
		bag.Add(diag.New(diag.CodeUndefinedSymbolRef, ex.Name.Loc, "no member '"+ex.Name.Name+"' on this type"))
		return &ErrorExpr{exprBase: exprBase{Loc: ex.Loc, Ty: b.errType()}}
	}
	fsym := b.Table.Symbol(fieldID)
	ty := b.errType()
	lvalue := false
	if fsym.Kind == symbols.KindField {
		ty = fsym.FieldType
		lvalue = true
	} else if fsym.Kind == symbols.KindFunction {
		ty = fsym.FnSig.Return
	}
	return &MemberExpr{exprBase: exprBase{Loc: ex.Loc, Ty: ty, LValue: lvalue}, Receiver: recv, Field: fieldID}
}

// resolveMember finds the field or instance-method symbol named name on
// the struct backing recvType, auto-dereffing through Ref/StrongPtr/
// WeakPtr layers first.
func (b *Binder) resolveMember(recvType types.TypeID, name string) (symbols.SymbolID, bool) {
	base := b.underlyingNominal(recvType)
	if base == symbols.NoSymbolID {
		return symbols.NoSymbolID, false
	}
	sym := b.Table.Symbol(base)
	for _, fid := range sym.StructFields {
		if b.Table.Symbol(fid).Name.Name == name {
			return fid, true
		}
	}
	for _, implID := range append(append([]symbols.SymbolID{}, sym.InherentImpls...), sym.TraitImpls...) {
		impl := b.Table.Symbol(implID)
		for _, fnID := range impl.ImplFunctions {
			if b.Table.Symbol(fnID).Name.Name == name {
				return fnID, true
			}
		}
	}
	return symbols.NoSymbolID, false
}

// underlyingNominal strips Ref/StrongPtr/WeakPtr wrappers to the struct or
// trait symbol a type ultimately names, or NoSymbolID if ty isn't (or
// doesn't resolve to) a nominal type.
func (b *Binder) underlyingNominal(ty types.TypeID) symbols.SymbolID {
	return underlyingNominalOf(b.Types, ty)
}

func (b *Binder) bindCall(scope symbols.ScopeID, ex *ast.CallExpr, bag *diag.Bag) Expr {
	if mem, ok := ex.Callee.(*ast.MemberExpr); ok {
		return b.bindMethodCall(scope, ex, mem, bag)
	}
	if id, ok := ex.Callee.(*ast.IdentExpr); ok {
		return b.bindFreeCall(scope, ex, id, bag)
	}
	callee := b.bindExpr(scope, ex.Callee, bag)
	bag.Add(diag.New(diag.CodeIncorrectSymbolCategory, ex.Loc, "expression is not callable"))
	args := make([]Expr, len(ex.Args))
	for i, a := range ex.Args {
		args[i] = b.bindExpr(scope, a, bag)
	}
	return &CallExpr{exprBase: exprBase{Loc: ex.Loc, Ty: b.errType()}, Callee: callee, Args: args}
}

func (b *Binder) bindFreeCall(scope symbols.ScopeID, ex *ast.CallExpr, id *ast.IdentExpr, bag *diag.Bag) Expr {
	fnID := b.Resolver.Resolve(scope, id.Name, symbols.ValueCategory, bag)
	fnSym := b.Table.Symbol(fnID)
	args := make([]Expr, len(ex.Args))
	for i, a := range ex.Args {
		args[i] = b.bindExpr(scope, a, bag)
	}
	if fnSym.Kind != symbols.KindFunction {
		bag.Add(diag.New(diag.CodeIncorrectSymbolCategory, id.Loc, "'"+id.Name.Sections[len(id.Name.Sections)-1].Name.Name+"' is not a function"))
		return &StaticCallExpr{exprBase: exprBase{Loc: ex.Loc, Ty: b.errType()}, Func: b.Table.ErrorSymbol(), Args: args}
	}

	target, targetSym := fnID, fnSym
	if typeArgs := id.Name.Sections[len(id.Name.Sections)-1].TypeArgs; len(typeArgs) > 0 {
		target = b.instantiation(scope, fnID, fnSym, typeArgs, bag)
		targetSym = b.Table.Symbol(target)
	}
	return &StaticCallExpr{exprBase: exprBase{Loc: ex.Loc, Ty: targetSym.FnSig.Return}, Func: target, Args: args}
}

// instantiation resolves a call's bracketed section type arguments
// against the symbol-table instance cache, returning the one
// FunctionSymbol cached for that (generic, type-args) pair across every
// call site that requests it, creating the entry on first request.
// Substituting the type arguments through the generic's own body is
// out of scope (the driver never compiles a body belonging to a function
// with type params — see DESIGN.md), so the cached instance carries the
// generic's declared signature as-is; what this cache buys is identity,
// not a specialized signature: repeated `id[i32](...)` requests resolve
// to the same SymbolID instead of silently re-deriving the generic each
// time.
func (b *Binder) instantiation(scope symbols.ScopeID, genericID symbols.SymbolID, generic *symbols.Symbol, typeArgs []*ast.TypeName, bag *diag.Bag) symbols.SymbolID {
	args := make([]types.TypeID, len(typeArgs))
	for i, ta := range typeArgs {
		args[i] = b.resolveTypeName(scope, ta, bag)
	}
	key := mono.NewInstanceKey(mono.SymbolRef(genericID), args)
	site := typeArgs[0].Loc
	b.Recorder.Record(mono.KindFunc, mono.SymbolRef(genericID), args, site, mono.SymbolRef(b.currentFn), "")
	if cached, ok := b.Table.Instantiation(generic.Scope, key); ok {
		return cached
	}
	inst := &symbols.Symbol{
		Kind:        symbols.KindFunction,
		Scope:       generic.Scope,
		Name:        generic.Name,
		Vis:         generic.Vis,
		FnCategory:  generic.FnCategory,
		FnSig:       generic.FnSig,
		FnHasBody:   generic.FnHasBody,
		FnBodyLoc:   generic.FnBodyLoc,
		OperatorTok: generic.OperatorTok,
	}
	instID := b.Table.DefineInstantiation(inst)
	b.Table.StoreInstantiation(generic.Scope, key, instID)
	return instID
}

// bindMethodCall desugars `recv.Name(args...)` into a StaticCallExpr with
// the receiver spliced in as an implicit self argument.
func (b *Binder) bindMethodCall(scope symbols.ScopeID, ex *ast.CallExpr, mem *ast.MemberExpr, bag *diag.Bag) Expr {
	recv := b.bindExpr(scope, mem.Receiver, bag)
	fnID, ok := b.resolveMember(recv.Type(), mem.Name.Name)
	args := make([]Expr, 0, len(ex.Args)+1)
	for _, a := range ex.Args {
		args = append(args, b.bindExpr(scope, a, bag))
	}
	if !ok {
		bag.Add(diag.New(diag.CodeUndefinedSymbolRef, mem.Name.Loc, "no method '"+mem.Name.Name+"' on this type"))
		return &StaticCallExpr{exprBase: exprBase{Loc: ex.Loc, Ty: b.errType()}, Func: b.Table.ErrorSymbol(), Args: args}
	}
	fnSym := b.Table.Symbol(fnID)
	if fnSym.Kind != symbols.KindFunction || fnSym.FnCategory != symbols.Instance {
		bag.Add(diag.New(diag.CodeIncorrectSymbolCategory, mem.Name.Loc, "'"+mem.Name.Name+"' is not a method"))
		return &StaticCallExpr{exprBase: exprBase{Loc: ex.Loc, Ty: b.errType()}, Func: b.Table.ErrorSymbol(), Args: args}
	}
	full := append([]Expr{recv}, args...)
	return &StaticCallExpr{exprBase: exprBase{Loc: ex.Loc, Ty: fnSym.FnSig.Return}, Func: fnID, Args: full}
}

func (b *Binder) bindUnary(scope symbols.ScopeID, ex *ast.UnaryExpr, bag *diag.Bag) Expr {
	operand := b.bindExpr(scope, ex.Operand, bag)
	if overload, ok := lookupUnaryOverload(b.Table, b.Types, operand.Type(), ex.Op); ok {
		fnSym := b.Table.Symbol(overload)
		return &UnaryExpr{exprBase: exprBase{Loc: ex.Loc, Ty: fnSym.FnSig.Return}, Op: ex.Op, Operand: operand, Overload: overload}
	}
	return &UnaryExpr{exprBase: exprBase{Loc: ex.Loc, Ty: operand.Type()}, Op: ex.Op, Operand: operand}
}

// bindBinary implements the user-operator lookup: `&&`/`||` bind
// directly with no overload search; every other operator first searches
// the left operand's inherent+trait-impl set for an exact-argument-type
// overload, falling back to the built-in operation on native types.
func (b *Binder) bindBinary(scope symbols.ScopeID, ex *ast.BinaryExpr, bag *diag.Bag) Expr {
	left := b.bindExpr(scope, ex.Left, bag)
	right := b.bindExpr(scope, ex.Right, bag)
	if ex.Op == ast.BinAnd || ex.Op == ast.BinOr {
		return &BinaryExpr{exprBase: exprBase{Loc: ex.Loc, Ty: b.nativeType("Bool")}, Op: ex.Op, Left: left, Right: right}
	}
	if overload, ok := lookupBinaryOverload(b.Table, b.Types, left.Type(), right.Type(), ex.Op); ok {
		fnSym := b.Table.Symbol(overload)
		return &BinaryExpr{exprBase: exprBase{Loc: ex.Loc, Ty: fnSym.FnSig.Return}, Op: ex.Op, Left: left, Right: right, Overload: overload}
	}
	ty := resultTypeForBuiltin(ex.Op, left.Type(), b)
	return &BinaryExpr{exprBase: exprBase{Loc: ex.Loc, Ty: ty}, Op: ex.Op, Left: left, Right: right}
}

func resultTypeForBuiltin(op ast.BinaryOp, lhs types.TypeID, b *Binder) types.TypeID {
	switch op {
	case ast.BinEq, ast.BinNe, ast.BinLt, ast.BinLe, ast.BinGt, ast.BinGe:
		return b.nativeType("Bool")
	default:
		return lhs
	}
}

func (b *Binder) bindCast(scope symbols.ScopeID, ex *ast.CastExpr, bag *diag.Bag) Expr {
	target := b.resolveTypeName(scope, ex.Target, bag)
	v := b.bindExpr(scope, ex.Value, bag)
	return &CastExpr{exprBase: exprBase{Loc: ex.Loc, Ty: target}, Value: v}
}

func (b *Binder) bindStructConstruct(scope symbols.ScopeID, ex *ast.StructConstructExpr, bag *diag.Bag) Expr {
	target := b.resolveTypeName(scope, ex.Type, bag)
	base := b.underlyingNominal(target)
	if base == symbols.NoSymbolID {
		bag.Add(diag.New(diag.CodeIncorrectSymbolCategory, ex.Loc, "not a struct type"))
		return &ErrorExpr{exprBase: exprBase{Loc: ex.Loc, Ty: b.errType()}}
	}
	structSym := b.Table.Symbol(base)
	seen := map[string]bool{}
	var fields []FieldInit
	for _, fi := range ex.Fields {
		if seen[fi.Name.Name] {
			bag.Add(diag.New(diag.CodeIncorrectSymbolType, fi.Name.Loc, "duplicate field '"+fi.Name.Name+"'"))
			continue
		}
		seen[fi.Name.Name] = true
		var fieldID symbols.SymbolID
		found := false
		for _, fid := range structSym.StructFields {
			if b.Table.Symbol(fid).Name.Name == fi.Name.Name {
				fieldID, found = fid, true
				break
			}
		}
		val := b.bindExpr(scope, fi.Value, bag)
		if !found {
			bag.Add(diag.New(diag.CodeIncorrectSymbolType, fi.Name.Loc, "unknown field '"+fi.Name.Name+"'"))
			continue
		}
		fields = append(fields, FieldInit{Field: fieldID, Value: val})
	}
	for _, fid := range structSym.StructFields {
		name := b.Table.Symbol(fid).Name.Name
		if !seen[name] {
			bag.Add(diag.New(diag.CodeIncorrectSymbolType, ex.Loc, "missing field '"+name+"'"))
		}
	}
	return &StructConstructExpr{exprBase: exprBase{Loc: ex.Loc, Ty: target}, Fields: fields}
}
