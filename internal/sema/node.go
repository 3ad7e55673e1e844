// Package sema implements the bound (post name-resolution)
// tree, the binder that produces it from a parsed ast.File, the
// type-check fixed-point driver, the lowering fixed-point driver, and the
// glue that feeds the result to control-flow analysis.
package sema

import (
	"ace/internal/source"
	"ace/internal/symbols"
	"ace/internal/types"
)

// Expr is every bound expression node. Unlike ast.Expr, a sema Expr
// always carries a resolved Type — binding never leaves a node
// type-less, substituting an error type instead.
type Expr interface {
	Location() source.Location
	Type() types.TypeID
	IsLValue() bool
	Children() []Expr
}

type exprBase struct {
	Loc source.Location
	Ty types.TypeID
	LValue bool
}

func (e exprBase) Location() source.Location { return e.Loc }
func (e exprBase) Type() types.TypeID { return e.Ty }
func (e exprBase) IsLValue() bool { return e.LValue }

// Stmt is every bound statement node, pre- or post-lowering.
type Stmt interface {
	Location() source.Location
}

type stmtBase struct {
	Loc source.Location
}

func (s stmtBase) Location() source.Location { return s.Loc }

// Block is a bound `{ Stmt* }`, carrying the scope it was bound against.
type Block struct {
	stmtBase
	Scope symbols.ScopeID
	Stmts []Stmt
}
