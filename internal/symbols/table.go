package symbols

import (
	"fmt"

	"fortio.org/safecast"

	"ace/internal/mono"
	"ace/internal/source"
)

// Table is the compilation-wide arena of scopes and symbols.
// After decl-phase finalization it is read-only; Define panics
// if called once Freeze has run, catching a phase-ordering bug instead of
// silently corrupting a resolver's understanding of the tree.
type Table struct {
	scopes []*Scope
	symbols []*Symbol
	frozen bool

	errModule SymbolID
	errStruct SymbolID
	errTrait SymbolID
	errFunction SymbolID
	errVar SymbolID

	// NativeTypes maps a bootstrap native type's capitalized name ("I32",
	// "Bool", ...) to its struct symbol, populated once by
	// Builder.SeedNativeTypes.
	NativeTypes map[string]SymbolID
}

// NewTable creates a Table with its root scope already materialized.
func NewTable() *Table {
	t := &Table{
		scopes: []*Scope{nil}, // index 0 invalid
		symbols: []*Symbol{nil},
	}
	root := &Scope{kind: ScopeRoot, parent: NoScopeID, level: 0, bySimpleName: map[string][]SymbolID{}}
	t.scopes = append(t.scopes, root)
	root.id = ScopeID(len(t.scopes) - 1)
	t.seedErrorSymbols()
	return t
}

func (t *Table) seedErrorSymbols() {
	mk := func(kind Kind, name string) SymbolID {
		return t.rawDefine(&Symbol{Kind: kind, Scope: t.RootID(), Name: source.Ident{Name: name}})
	}
	t.errModule = mk(KindModule, "<error-module>")
	t.errStruct = mk(KindStruct, "<error-struct>")
	t.errTrait = mk(KindTrait, "<error-trait>")
	t.errFunction = mk(KindFunction, "<error-function>")
	t.errVar = mk(KindLocalVar, "<error-var>")
	for _, id := range []SymbolID{t.errModule, t.errStruct, t.errTrait, t.errFunction, t.errVar} {
		t.symbols[id].Kind = KindError
	}
}

// ErrorSymbol returns the canonical fallback symbol substituted whenever
// resolution fails. All five are distinct
// SymbolIDs so a category check against the expected variant still fails
// cleanly rather than spuriously matching.
func (t *Table) ErrorSymbol() SymbolID { return t.errVar }

// RootID returns the compilation's single root scope.
func (t *Table) RootID() ScopeID { return t.scopes[1].id }

// Scope returns the scope for id.
func (t *Table) Scope(id ScopeID) *Scope { return t.scopes[id] }

// Symbol returns the symbol for id.
func (t *Table) Symbol(id SymbolID) *Symbol { return t.symbols[id] }

// CreateChild creates a new named or anonymous child scope of parent
// ("every other scope is obtained via create_child(name) or
// create_child() (anonymous)").
func (t *Table) CreateChild(parent ScopeID, kind ScopeKind, name string, loc source.Location) ScopeID {
	p := t.scopes[parent]
	s := &Scope{
		kind: kind,
		parent: parent,
		level: p.level + 1,
		name: name,
		loc: loc,
		bySimpleName: map[string][]SymbolID{},
	}
	t.scopes = append(t.scopes, s)
	id, err := safecast.Conv[uint32](len(t.scopes) - 1)
	if err != nil {
		panic(fmt.Errorf("symbols: scope arena overflow: %w", err))
	}
	s.id = ScopeID(id)
	p.children = append(p.children, s.id)
	return s.id
}

// rawDefine inserts sym directly without any redefinition check, used
// only for the error-symbol bootstrap above and by Define and
// DefineInstantiation below.
func (t *Table) rawDefine(sym *Symbol) SymbolID {
	t.symbols = append(t.symbols, sym)
	id, err := safecast.Conv[uint32](len(t.symbols) - 1)
	if err != nil {
		panic(fmt.Errorf("symbols: symbol arena overflow: %w", err))
	}
	sym.ID = SymbolID(id)
	return sym.ID
}

// Define registers sym in its Scope's symbol table. It performs no
// redefinition check: the caller (Builder.define in
// internal/symbols/build.go) diagnoses redefinitions and decides what
// "same signature" means per-kind (functions may overload).
func (t *Table) Define(sym *Symbol) SymbolID {
	if t.frozen {
		panic("symbols: Define called after decl-phase Freeze")
	}
	id := t.rawDefine(sym)
	scope := t.scopes[sym.Scope]
	scope.bySimpleName[sym.Name.Name] = append(scope.bySimpleName[sym.Name.Name], id)
	scope.order = append(scope.order, id)
	return id
}

// Freeze marks decl-phase complete: no later phase may insert new
// symbols into any scope.
func (t *Table) Freeze() { t.frozen = true }

// AddUse records that scope brings trait into its own use-set.
func (t *Table) AddUse(scope ScopeID, trait SymbolID) {
	s := t.scopes[scope]
	s.usedTraits = append(s.usedTraits, trait)
}

// LookupLocal returns the overload set declared directly in scope under
// name, without walking parents.
func (t *Table) LookupLocal(scope ScopeID, name string) []SymbolID {
	return t.scopes[scope].bySimpleName[name]
}

// Lookup walks the parent chain from scope to root, returning the first
// scope (innermost first) with a non-empty overload set for name —
// the relative-resolution case.
func (t *Table) Lookup(scope ScopeID, name string) []SymbolID {
	for s := scope; s != NoScopeID; s = t.scopes[s].parent {
		if ids := t.scopes[s].bySimpleName[name]; len(ids) > 0 {
			return ids
		}
	}
	return nil
}

// DefineInstantiation registers sym in the arena without adding it to its
// scope's name-indexed overload set: a template instance is reached only
// through Instantiation's cache lookup, never by a later name-based
// Lookup/LookupLocal, so it must not shadow or collide with the generic
// symbol it was instantiated from.
func (t *Table) DefineInstantiation(sym *Symbol) SymbolID {
	if t.frozen {
		panic("symbols: DefineInstantiation called after decl-phase Freeze")
	}
	return t.rawDefine(sym)
}

// Instantiation looks up a previously cached template instance.
func (t *Table) Instantiation(scope ScopeID, key mono.InstanceKey) (SymbolID, bool) {
	s := t.scopes[scope]
	if s.instantiating == nil {
		return NoSymbolID, false
	}
	id, ok := s.instantiating[key]
	return id, ok
}

// StoreInstantiation caches a newly created template instance.
func (t *Table) StoreInstantiation(scope ScopeID, key mono.InstanceKey, inst SymbolID) {
	s := t.scopes[scope]
	if s.instantiating == nil {
		s.instantiating = map[mono.InstanceKey]SymbolID{}
	}
	s.instantiating[key] = inst
}
