package symbols

import (
	"ace/internal/mono"
	"ace/internal/source"
)

// ScopeKind enumerates supported scope categories.
type ScopeKind uint8

const (
	ScopeInvalid ScopeKind = iota
	// ScopeRoot is the single compilation-wide root.
	ScopeRoot
	// ScopeModule is a module body.
	ScopeModule
	// ScopeStruct is a struct body (for its type-params and, indirectly
	// via impls, its methods).
	ScopeStruct
	// ScopeTrait is a trait body.
	ScopeTrait
	// ScopeTraitProto is a trait's prototype list scope.
	ScopeTraitProto
	// ScopeImpl is an impl block's own scope (hosts its type-params and
	// an ImplSelfAlias for `Self`).
	ScopeImpl
	// ScopeFunction is a function body scope.
	ScopeFunction
	// ScopeBlock is a nested block scope.
	ScopeBlock
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeRoot:
		return "root"
	case ScopeModule:
		return "module"
	case ScopeStruct:
		return "struct"
	case ScopeTrait:
		return "trait"
	case ScopeTraitProto:
		return "trait-proto"
	case ScopeImpl:
		return "impl"
	case ScopeFunction:
		return "function"
	case ScopeBlock:
		return "block"
	default:
		return "invalid"
	}
}

// Scope is a lexical region owning a table of symbols plus any number of
// child scopes. The tree is rooted at the single per-
// compilation Scope created by NewTable.
type Scope struct {
	id       ScopeID
	kind     ScopeKind
	parent   ScopeID
	children []ScopeID
	name     string // non-empty for named scopes (modules, structs, traits, functions)
	level    int
	loc      source.Location

	bySimpleName map[string][]SymbolID // unqualified name -> overload set
	order        []SymbolID            // declaration order, for deterministic iteration

	usedTraits []SymbolID // traits brought in by `use`

	instantiating map[mono.InstanceKey]SymbolID // template-instantiation cache
}

func (s *Scope) ID() ScopeID      { return s.id }
func (s *Scope) Kind() ScopeKind  { return s.kind }
func (s *Scope) Parent() ScopeID  { return s.parent }
func (s *Scope) Name() string     { return s.name }
func (s *Scope) Level() int       { return s.level }
func (s *Scope) Children() []ScopeID { return s.children }

// Symbols returns the symbols declared directly in this scope, in
// declaration order.
func (s *Scope) Symbols() []SymbolID { return s.order }

// UsedTraits returns the traits this scope's `use` declarations brought
// in for trait-impl lookup.
func (s *Scope) UsedTraits() []SymbolID { return s.usedTraits }
