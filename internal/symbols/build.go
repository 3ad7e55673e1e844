package symbols

import (
	"ace/internal/ast"
	"ace/internal/diag"
	"ace/internal/source"
	"ace/internal/types"
)

// Builder runs the decl-phase over a set of parsed files: CreateSymbol
// dispatch followed by a second pass resolving every
// TypeName into a concrete types.TypeID, once every struct/trait/alias
// in the compilation has a symbol to resolve against. Splitting into two
// passes is what lets two structs in the same module reference each
// other regardless of declaration order.
type Builder struct {
	Table    *Table
	Types    *types.Interner
	Resolver *Resolver

	pendingFields  []pendingField
	pendingParams  []pendingParam
	pendingReturns []pendingReturn
	pendingVars    []pendingVar
	pendingAliases []pendingAlias
	pendingImpls   []pendingImpl
	pendingUses    []pendingUse
}

type pendingField struct {
	sym  SymbolID
	syn  *ast.FieldSyntax
	scope ScopeID
}

type pendingParam struct {
	sym   SymbolID
	syn   *ast.FnParamSyntax
	scope ScopeID
}

type pendingReturn struct {
	fn     SymbolID
	proto  SymbolID // mutually exclusive with fn; one of the two is set
	syn    *ast.TypeName
	scope  ScopeID
}

type pendingVar struct {
	sym   SymbolID
	syn   *ast.GlobalVarSyntax
	scope ScopeID
}

type pendingAlias struct {
	sym   SymbolID
	syn   ast.SymbolName
	scope ScopeID
}

type pendingImpl struct {
	sym    SymbolID
	syn    *ast.ImplSyntax
	scope  ScopeID
}

type pendingUse struct {
	scope ScopeID
	syn   *ast.UseSyntax
}

// NewBuilder creates a Builder over an already-constructed Table (with
// its root scope) and a fresh type interner.
func NewBuilder(t *Table, in *types.Interner) *Builder {
	return &Builder{Table: t, Types: in, Resolver: NewResolver(t)}
}

// CreateSymbolsForFile runs symbol creation over one
// parsed file's top-level items, attaching them to moduleScope (typically
// the Table's root scope for the package's implicit top-level module).
func (b *Builder) CreateSymbolsForFile(file *ast.File, moduleScope ScopeID, vis ast.Visibility, bag *diag.Bag) {
	file.SetScope(moduleScope)
	b.createItems(file.Items, moduleScope, bag)
}

func (b *Builder) createItems(items []ast.Item, scope ScopeID, bag *diag.Bag) {
	decls := make([]ast.Decl, len(items))
	for i, it := range items {
		decls[i] = it
	}
	ast.SortDecls(decls)
	for _, d := range decls {
		b.createItem(d.(ast.Item), scope, bag)
	}
}

func (b *Builder) createItem(item ast.Item, scope ScopeID, bag *diag.Bag) {
	switch it := item.(type) {
	case *ast.ModuleSyntax:
		b.createModule(it, scope, bag)
	case *ast.StructSyntax:
		b.createStruct(it, scope, bag)
	case *ast.TraitSyntax:
		b.createTrait(it, scope, bag)
	case *ast.FunctionSyntax:
		b.createFunction(it, scope, Static, bag)
	case *ast.GlobalVarSyntax:
		b.createGlobalVar(it, scope, bag)
	case *ast.ImplSyntax:
		b.createImpl(it, scope, bag)
	case *ast.UseSyntax:
		b.pendingUses = append(b.pendingUses, pendingUse{scope: scope, syn: it})
	}
}

// define inserts sym, diagnosing CodeSymbolRedefinition when name is
// already taken in scope by a non-overloadable kind.
func (b *Builder) define(scope ScopeID, sym *Symbol, bag *diag.Bag) SymbolID {
	sym.Scope = scope
	existing := b.Table.LookupLocal(scope, sym.Name.Name)
	for _, e := range existing {
		es := b.Table.Symbol(e)
		if sym.Kind == KindFunction && es.Kind == KindFunction {
			if !sameSignatureShape(es.FnSig, sym.FnSig) {
				continue
			}
		}
		bag.Add(diag.New(diag.CodeSymbolRedefinition, sym.Name.Loc,
			"redefinition of '"+sym.Name.Name+"'").
			WithNote(b.Table.Symbol(e).Name.Loc, "previous definition here"))
		return e
	}
	return b.Table.Define(sym)
}

func sameSignatureShape(a, b Signature) bool {
	if a.Arity() != b.Arity() || a.HasSelf != b.HasSelf {
		return false
	}
	for i := range a.ParamTypes {
		if a.ParamTypes[i] != b.ParamTypes[i] {
			return false
		}
	}
	return true
}

func (b *Builder) createModule(m *ast.ModuleSyntax, scope ScopeID, bag *diag.Bag) {
	// Modules split across files merge into one symbol+scope:
	// reuse an existing KindModule of the same name rather than redefining.
	var modSym *Symbol
	var modID SymbolID
	for _, e := range b.Table.LookupLocal(scope, m.Name.Name) {
		if s := b.Table.Symbol(e); s.Kind == KindModule {
			modSym, modID = s, e
			break
		}
	}
	if modSym == nil {
		modID = b.define(scope, &Symbol{Kind: KindModule, Name: m.Name, Vis: m.Vis}, bag)
		modSym = b.Table.Symbol(modID)
		modSym.ModuleBody = b.Table.CreateChild(scope, ScopeModule, m.Name.Name, m.Loc)
	}
	m.SetScope(modSym.ModuleBody)
	b.createItems(m.Items, modSym.ModuleBody, bag)
}

func (b *Builder) createStruct(s *ast.StructSyntax, scope ScopeID, bag *diag.Bag) {
	id := b.define(scope, &Symbol{Kind: KindStruct, Name: s.Name, Vis: s.Vis}, bag)
	sym := b.Table.Symbol(id)
	sym.StructBody = b.Table.CreateChild(scope, ScopeStruct, s.Name.Name, s.Loc)
	s.SetScope(sym.StructBody)

	sym.TypeParams = b.createTypeParams(s.TypeParams, sym.StructBody, bag)

	for _, f := range s.Fields {
		fid := b.define(sym.StructBody, &Symbol{Kind: KindField, Name: f.Name, Vis: f.Vis, FieldOwner: id, FieldIndex: len(sym.StructFields)}, bag)
		sym.StructFields = append(sym.StructFields, fid)
		f.SetScope(sym.StructBody)
		b.pendingFields = append(b.pendingFields, pendingField{sym: fid, syn: f, scope: sym.StructBody})
	}
}

func (b *Builder) createTrait(t *ast.TraitSyntax, scope ScopeID, bag *diag.Bag) {
	id := b.define(scope, &Symbol{Kind: KindTrait, Name: t.Name, Vis: t.Vis}, bag)
	sym := b.Table.Symbol(id)
	sym.TraitBody = b.Table.CreateChild(scope, ScopeTrait, t.Name.Name, t.Loc)
	sym.TraitProtoScope = b.Table.CreateChild(sym.TraitBody, ScopeTraitProto, t.Name.Name+"::proto", t.Loc)
	t.SetScope(sym.TraitBody)

	// TraitSelf: a trait body implicitly
	// binds `Self` to an ImplSelfAlias pointing back at the trait itself,
	// letting prototype signatures mention Self before any impl exists.
	selfAlias := &Symbol{Kind: KindImplSelfAlias, Name: source.Ident{Name: "Self", Loc: t.Loc}, Vis: ast.Pub, Scope: sym.TraitBody}
	b.Table.Define(selfAlias)
	selfAlias.AliasTarget = b.Types.Nominal(types.NominalKey(id))
	sym.TypeParams = b.createTypeParams(t.TypeParams, sym.TraitBody, bag)

	for i, p := range t.Prototypes {
		pid := b.define(sym.TraitProtoScope, &Symbol{Kind: KindPrototype, Name: p.Name, Vis: ast.Pub, ProtoParentTrait: id, ProtoIndex: i}, bag)
		sym.Prototypes = append(sym.Prototypes, pid)
		p.SetScope(sym.TraitProtoScope)
		psym := b.Table.Symbol(pid)
		psym.ProtoSig.HasSelf = p.HasSelf
		for _, par := range p.Params {
			b.pendingParams = append(b.pendingParams, pendingParam{sym: pid, syn: par, scope: sym.TraitProtoScope})
		}
		if p.ReturnType != nil {
			b.pendingReturns = append(b.pendingReturns, pendingReturn{proto: pid, syn: p.ReturnType, scope: sym.TraitProtoScope})
		}
	}
}

func (b *Builder) createTypeParams(params []*ast.TypeParamSyntax, scope ScopeID, bag *diag.Bag) []SymbolID {
	out := make([]SymbolID, 0, len(params))
	for _, p := range params {
		id := b.define(scope, &Symbol{Kind: KindTypeParam, Name: p.Name, Vis: ast.Pub, TypeParamIndex: p.Index}, bag)
		p.SetScope(scope)
		out = append(out, id)
	}
	return out
}

func (b *Builder) createFunction(f *ast.FunctionSyntax, scope ScopeID, cat FnCategory, bag *diag.Bag) {
	id := b.define(scope, &Symbol{
		Kind:        KindFunction,
		Name:        f.Name,
		Vis:         visibilityOf(f),
		FnCategory:  cat,
		FnHasBody:   f.Body != nil,
		FnBodyLoc:   f.Loc,
		OperatorTok: f.OperatorTok,
	}, bag)
	sym := b.Table.Symbol(id)
	fnScope := b.Table.CreateChild(scope, ScopeFunction, f.Name.Name, f.Loc)
	f.SetScope(fnScope)
	if f.Body != nil {
		// Nested block scopes are created lazily by the binder as it walks
		// statements; the function's own top-level body block shares the
		// function scope directly, the same way a function's params do.
		f.Body.SetScope(fnScope)
	}
	sym.TypeParams = b.createTypeParams(f.TypeParams, fnScope, bag)

	for _, p := range f.Params {
		kind := KindParam
		if p.IsSelf {
			kind = KindSelfParam
		}
		pid := b.Table.Define(&Symbol{Kind: kind, Name: p.Name, Vis: ast.Pub, ParamIndex: p.Index, Scope: fnScope})
		p.SetScope(fnScope)
		if p.IsSelf {
			sym.FnSig.HasSelf = true
			switch p.SelfMod {
			case ast.ModSelfByRef:
				sym.FnSig.SelfKind = SelfByRef
			case ast.ModSelfStrongPtr:
				sym.FnSig.SelfKind = SelfStrongPtr
			default:
				sym.FnSig.SelfKind = SelfByValue
			}
			b.Table.Symbol(pid).ParamSelf = sym.FnSig.SelfKind
			continue
		}
		sym.FnSig.ParamNames = append(sym.FnSig.ParamNames, p.Name.Name)
		b.pendingParams = append(b.pendingParams, pendingParam{sym: id, syn: p, scope: fnScope})
	}
	if f.ReturnType != nil {
		b.pendingReturns = append(b.pendingReturns, pendingReturn{fn: id, syn: f.ReturnType, scope: fnScope})
	}
}

func visibilityOf(f *ast.FunctionSyntax) ast.Visibility {
	if f.HasModifier(ast.ModPub) {
		return ast.Pub
	}
	return ast.Priv
}

func (b *Builder) createGlobalVar(g *ast.GlobalVarSyntax, scope ScopeID, bag *diag.Bag) {
	id := b.define(scope, &Symbol{Kind: KindGlobalVar, Name: g.Name, Vis: g.Vis}, bag)
	g.SetScope(scope)
	b.pendingVars = append(b.pendingVars, pendingVar{sym: id, syn: g, scope: scope})
}

func (b *Builder) createImpl(i *ast.ImplSyntax, scope ScopeID, bag *diag.Bag) {
	kind := KindInherentImpl
	if i.IsTraitImpl {
		kind = KindTraitImpl
	}
	id := b.Table.Define(&Symbol{Kind: kind, Name: source.Ident{Name: "<impl>", Loc: i.Loc}, Vis: ast.Priv, Scope: scope})
	sym := b.Table.Symbol(id)
	sym.ImplScope = b.Table.CreateChild(scope, ScopeImpl, "", i.Loc)
	i.SetScope(sym.ImplScope)
	sym.TypeParams = b.createTypeParams(i.TypeParams, sym.ImplScope, bag)

	// The Self alias is bound once the target struct is known (second
	// pass), since TargetName may itself be a not-yet-resolved forward
	// reference within the same module.
	b.Table.Define(&Symbol{Kind: KindImplSelfAlias, Name: source.Ident{Name: "Self", Loc: i.Loc}, Vis: ast.Pub, Scope: sym.ImplScope})

	for _, fn := range i.Functions {
		b.createFunction(fn, sym.ImplScope, Instance, bag)
		fnID := b.Table.LookupLocal(sym.ImplScope, fn.Name.Name)
		if len(fnID) > 0 {
			sym.ImplFunctions = append(sym.ImplFunctions, fnID[len(fnID)-1])
		}
	}

	b.pendingImpls = append(b.pendingImpls, pendingImpl{sym: id, syn: i, scope: scope})
}

// ResolveTypes runs the second decl-phase pass. Must run after every file's CreateSymbolsForFile call
// and before Table.Freeze.
func (b *Builder) ResolveTypes(bag *diag.Bag) {
	for _, p := range b.pendingFields {
		p.syn.Type.SetScope(p.scope)
		t := b.resolveTypeName(p.scope, p.syn.Type, bag)
		b.Table.Symbol(p.sym).FieldType = t
	}
	for _, p := range b.pendingParams {
		t := b.resolveTypeName(p.scope, p.syn.Type, bag)
		sym := b.Table.Symbol(p.sym)
		if sym.Kind == KindPrototype {
			sym.ProtoSig.ParamTypes = append(sym.ProtoSig.ParamTypes, t)
		} else {
			sym.FnSig.ParamTypes = append(sym.FnSig.ParamTypes, t)
		}
	}
	for _, p := range b.pendingReturns {
		t := b.resolveTypeName(p.scope, p.syn, bag)
		if p.fn != NoSymbolID {
			b.Table.Symbol(p.fn).FnSig.Return = t
		} else {
			b.Table.Symbol(p.proto).ProtoSig.Return = t
		}
	}
	for _, p := range b.pendingVars {
		if p.syn.Type != nil {
			b.Table.Symbol(p.sym).VarType = b.resolveTypeName(p.scope, p.syn.Type, bag)
		}
	}
	for _, p := range b.pendingImpls {
		target := b.Resolver.Resolve(p.scope, p.syn.TargetName, TypeCategory, bag)
		sym := b.Table.Symbol(p.sym)
		sym.ImplTarget = target
		if p.syn.IsTraitImpl {
			sym.ImplTrait = b.Resolver.Resolve(p.scope, p.syn.TraitName, TraitCategory, bag)
		}
		if selfIDs := b.Table.LookupLocal(sym.ImplScope, "Self"); len(selfIDs) > 0 {
			b.Table.Symbol(selfIDs[0]).AliasTarget = b.Types.Nominal(types.NominalKey(target))
		}
		targetSym := b.Table.Symbol(target)
		if p.syn.IsTraitImpl {
			targetSym.TraitImpls = append(targetSym.TraitImpls, p.sym)
		} else {
			targetSym.InherentImpls = append(targetSym.InherentImpls, p.sym)
		}
	}
	for _, u := range b.pendingUses {
		trait := b.Resolver.Resolve(u.scope, u.syn.TraitName, TraitCategory, bag)
		b.Table.AddUse(u.scope, trait)
	}
}

// resolveTypeName resolves a TypeName's SymbolName to a nominal symbol,
// then wraps it with Ref/StrongPtr/WeakPtr per its modifiers, outermost
// last.
func (b *Builder) resolveTypeName(scope ScopeID, tn *ast.TypeName, bag *diag.Bag) types.TypeID {
	target := b.Resolver.Resolve(scope, tn.Name, TypeCategory, bag)
	base := b.Types.Nominal(types.NominalKey(target))
	result := base
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
