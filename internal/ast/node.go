package ast

import "ace/internal/source"

// Node is implemented by every syntax tree element: it knows
// its own span, its owning scope, and how to enumerate its children for
// generic tree walks.
type Node interface {
	Location() source.Location
	Scope() ScopeID
	Children() []Node
}

// DeclOrder is the coarse bucket a declaration sorts into for symbol
// creation. Declarations are processed in DeclOrder, then
// DeclSuborder, globally across the whole compilation.
type DeclOrder uint8

const (
	// BeforeType: type parameters, modules, trait-self.
	BeforeType DeclOrder = iota
	// TypeOrder: structs and traits — the nominal types themselves.
	TypeOrder
	// TypeReimport: re-exports that must see types defined in their
	// source scope.
	TypeReimport
	// TypeAlias: impl self-aliases.
	TypeAlias
	// AfterType: fields, functions, prototypes, globals, impls, locals,
	// uses.
	AfterType
)

// Decl is implemented by every syntax node that participates in symbol
// creation. The actual CreateSymbol dispatch
// lives in internal/symbols/build.go rather than as a method here, since
// ast must not import symbols (see package doc).
type Decl interface {
	Node
	DeclOrder() DeclOrder
	DeclSuborder() int
}
