package ast

import "ace/internal/source"

// TypeModifier is one prefix modifier applicable to a TypeName.
// Modifier application is canonical: `&&T` is forbidden and the
// type layer normalizes composites, but the syntax layer records exactly
// what was written so that diagnostic can fire.
type TypeModifier uint8

const (
	// ModNone applies no modifier.
	ModNone TypeModifier = iota
	// ModRef is '&' (reference).
	ModRef
	// ModStrongPtr is '*' (auto strong pointer).
	ModStrongPtr
	// ModWeakPtr is '~' (weak pointer).
	ModWeakPtr
)

// PathSection is one `Name ['[' TypeArgs ']']` segment of a SymbolName.
type PathSection struct {
	Loc      source.Location
	Name     source.Ident
	TypeArgs []*TypeName
}

// SymbolName is `[ '::' ] Section { '::' Section }`.
type SymbolName struct {
	Loc      source.Location
	Absolute bool
	Sections []PathSection
}

// TypeName is `{ '&' | '*' | '~' } SymbolName`. Modifiers
// are recorded outermost-first as written.
type TypeName struct {
	Loc       source.Location
	Modifiers []TypeModifier
	Name      SymbolName
	scopeID   ScopeID
}

func (t *TypeName) Location() source.Location { return t.Loc }
func (t *TypeName) Scope() ScopeID             { return t.scopeID }
func (t *TypeName) Children() []Node           { return nil }

// SetScope is called once by the parser immediately after construction.
func (t *TypeName) SetScope(id ScopeID) { t.scopeID = id }

// ConstraintSyntax is one `T: Trait1 + Trait2` entry of a where-clause.
type ConstraintSyntax struct {
	Loc       source.Location
	Param     source.Ident
	Bounds    []SymbolName
	scopeID   ScopeID
}

func (c *ConstraintSyntax) Location() source.Location { return c.Loc }
func (c *ConstraintSyntax) Scope() ScopeID             { return c.scopeID }
func (c *ConstraintSyntax) Children() []Node           { return nil }
func (c *ConstraintSyntax) SetScope(id ScopeID)        { c.scopeID = id }

// TypeParamSyntax is one `[T, U]` generic parameter declaration.
type TypeParamSyntax struct {
	Loc     source.Location
	Name    source.Ident
	Index   int
	scopeID ScopeID
}

func (p *TypeParamSyntax) Location() source.Location { return p.Loc }
func (p *TypeParamSyntax) Scope() ScopeID             { return p.scopeID }
func (p *TypeParamSyntax) Children() []Node           { return nil }
func (p *TypeParamSyntax) DeclOrder() DeclOrder       { return BeforeType }
func (p *TypeParamSyntax) DeclSuborder() int          { return p.Index }
func (p *TypeParamSyntax) SetScope(id ScopeID)        { p.scopeID = id }
