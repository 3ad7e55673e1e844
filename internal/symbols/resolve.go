package symbols

import (
	"ace/internal/ast"
	"ace/internal/diag"
)

// Category constrains which symbol Kinds a resolution call will accept for
// its final section.
type Category uint8

const (
	// AnyCategory accepts every Kind.
	AnyCategory Category = iota
	// TypeCategory accepts only symbols for which Symbol.IsType is true.
	TypeCategory
	// ValueCategory accepts module-level values: functions, globals,
	// locals, params, fields reached through a value path.
	ValueCategory
	// ModuleCategory accepts only KindModule, used while walking
	// intermediate path sections.
	ModuleCategory
	// TraitCategory accepts only KindTrait, used where a path must name a
	// trait (an impl's trait, a `use` target).
	TraitCategory
)

func (c Category) accepts(s *Symbol) bool {
	switch c {
	case AnyCategory:
		return true
	case TypeCategory:
		return s.IsType()
	case ValueCategory:
		switch s.Kind {
		case KindFunction, KindGlobalVar, KindLocalVar, KindParam, KindSelfParam, KindField:
			return true
		default:
			return false
		}
	case ModuleCategory:
		return s.Kind == KindModule
	case TraitCategory:
		return s.Kind == KindTrait
	default:
		return false
	}
}

func (c Category) errorFallback(t *Table) SymbolID {
	switch c {
	case ModuleCategory:
		return t.errModule
	case TraitCategory:
		return t.errTrait
	case ValueCategory:
		return t.errVar
	case TypeCategory:
		return t.errStruct
	default:
		return t.errVar
	}
}

// Resolver carries the mutable state a single SymbolName resolution needs:
// the table being queried and, for access-modifier checks, the module
// subtree the reference originates from.
type Resolver struct {
	Table *Table
}

// NewResolver creates a Resolver over t.
func NewResolver(t *Table) *Resolver { return &Resolver{Table: t} }

// Resolve implements the resolution procedure for a SymbolName
// used as an expression/type reference. fromScope is the lexical scope
// the reference occurs in (used both as the relative starting point and
// as the origin for access-modifier checks). On any failure the returned
// SymbolID is the category's canonical error-symbol fallback and the
// failure is appended to bag — callers never need to special-case a
// failed resolution themselves.
func (r *Resolver) Resolve(fromScope ScopeID, name ast.SymbolName, want Category, bag *diag.Bag) SymbolID {
	if len(name.Sections) == 0 {
		return want.errorFallback(r.Table)
	}

	scope := fromScope
	if name.Absolute {
		scope = r.Table.RootID()
	}

	// Walk every section but the last, entering that scope before
	// resolving the next section. Each such section must name a module
	// (ModuleCategory); a trait there is diagnosed as the wrong kind of
	// symbol.
	for i := 0; i < len(name.Sections)-1; i++ {
		sec := name.Sections[i]
		cat := ModuleCategory
		id, ok := r.resolveSection(fromScope, scope, !name.Absolute && i == 0, sec, cat, bag)
		if !ok {
			return want.errorFallback(r.Table)
		}
		sym := r.Table.Symbol(id)
		switch sym.Kind {
		case KindModule:
			scope = sym.ModuleBody
		case KindTrait:
			scope = sym.TraitBody
		default:
			bag.Add(diag.New(diag.CodeIncorrectSymbolCategory, sec.Loc,
				"'"+sec.Name.Name+"' does not name a module or trait"))
			return want.errorFallback(r.Table)
		}
		// From the second section on, lookup within a scope provider is
		// always "local to that scope", never lexical-walk-to-root.
		_ = i
	}

	last := name.Sections[len(name.Sections)-1]
	lexical := !name.Absolute && len(name.Sections) == 1
	id, ok := r.resolveSection(fromScope, scope, lexical, last, want, bag)
	if !ok {
		return want.errorFallback(r.Table)
	}

	if len(last.TypeArgs) > 0 {
		// Template instantiation is driven by internal/sema (it alone
		// knows how to structurally clone a syntax body); symbols only
		// exposes the cache. A bare reference with type args but no
		// generic target is a category error.
		sym := r.Table.Symbol(id)
		if len(sym.TypeParams) == 0 {
			bag.Add(diag.New(diag.CodeIncorrectSymbolCategory, last.Loc,
				"'"+last.Name.Name+"' is not generic"))
			return want.errorFallback(r.Table)
		}
	}

	return id
}

// resolveSection resolves one path section within scope, either by
// lexical walk-to-root (the very first section of a relative name) or by
// direct local lookup (every other section, since once you've entered a
// module/trait scope explicitly the remaining sections are resolved
// strictly inside it). Access is checked from fromScope, the scope the
// reference occurs in.
func (r *Resolver) resolveSection(fromScope, scope ScopeID, lexical bool, sec ast.PathSection, want Category, bag *diag.Bag) (SymbolID, bool) {
	var candidates []SymbolID
	if lexical {
		candidates = r.Table.Lookup(scope, sec.Name.Name)
	} else {
		candidates = r.Table.LookupLocal(scope, sec.Name.Name)
	}

	if len(candidates) == 0 {
		bag.Add(diag.New(diag.CodeUndefinedSymbolRef, sec.Loc, "undefined reference to '"+sec.Name.Name+"'"))
		return NoSymbolID, false
	}

	matched := make([]SymbolID, 0, 1)
	for _, c := range candidates {
		if want.accepts(r.Table.Symbol(c)) {
			matched = append(matched, c)
		}
	}

	switch len(matched) {
	case 0:
		bag.Add(diag.New(diag.CodeIncorrectSymbolCategory, sec.Loc,
			"'"+sec.Name.Name+"' does not refer to the expected kind of symbol"))
		return NoSymbolID, false
	case 1:
		id := matched[0]
		if !r.checkAccess(fromScope, id) {
			bag.Add(diag.New(diag.CodeInaccessibleSymbol, sec.Loc, "'"+sec.Name.Name+"' is not accessible here"))
			return NoSymbolID, false
		}
		return id, true
	default:
		bag.Add(diag.New(diag.CodeAmbiguousSymbolRef, sec.Loc, "ambiguous reference to '"+sec.Name.Name+"'"))
		return NoSymbolID, false
	}
}

// checkAccess enforces that a private symbol is visible
// only within its defining scope's module subtree. Public symbols are
// always visible; this is the only Visibility value checked here —
// trait-impl-specific access questions belong to the binder, which knows
// the trait being implemented.
func (r *Resolver) checkAccess(fromScope ScopeID, id SymbolID) bool {
	sym := r.Table.Symbol(id)
	if sym.Vis != ast.Priv {
		return true
	}
	owningModule := r.enclosingModule(sym.Scope)
	for s := fromScope; s != NoScopeID; s = r.Table.Scope(s).Parent() {
		if s == owningModule {
			return true
		}
	}
	return owningModule == NoScopeID
}

// enclosingModule walks up from scope to find the nearest ScopeModule (or
// ScopeRoot, which behaves like the implicit top-level module).
func (r *Resolver) enclosingModule(scope ScopeID) ScopeID {
	for s := scope; s != NoScopeID; s = r.Table.Scope(s).Parent() {
		k := r.Table.Scope(s).Kind()
		if k == ScopeModule || k == ScopeRoot {
			return s
		}
	}
	return NoScopeID
}
