package sema

import (
	"ace/internal/ast"
	"ace/internal/symbols"
)

// ElifArm is one bound `elif cond { body }` arm (pre-lowering only).
type ElifArm struct {
	Cond Expr
	Body *Block
}

// IfStmt is the pre-lowering bound `if/elif/else` form. It never
// survives the lowering driver's fixed point.
type IfStmt struct {
	stmtBase
	Cond Expr
	Then *Block
	Elif []ElifArm
	Else *Block
}

// WhileStmt is the pre-lowering bound `while` form.
type WhileStmt struct {
	stmtBase
	Cond Expr
	Body *Block
}

// RetStmt is `ret [expr];`. Value is nil for a void return.
type RetStmt struct {
	stmtBase
	Value Expr
}

// ExitStmt is `exit;` — an unconditional abnormal-termination statement.
type ExitStmt struct{ stmtBase }

// AssertStmt is the pre-lowering `assert cond;` form.
type AssertStmt struct {
	stmtBase
	Cond Expr
}

// VarDeclStmt is a bound local-variable declaration, already carrying its
// LocalVar symbol.
type VarDeclStmt struct {
	stmtBase
	Symbol symbols.SymbolID
	Init   Expr // nil if the declaration has no initializer
}

// ExprStmt is a bare expression used as a statement.
type ExprStmt struct {
	stmtBase
	Value Expr
}

// AssignStmt is `lhs = rhs;`.
type AssignStmt struct {
	stmtBase
	Target Expr
	Value  Expr
}

// CompoundAssignStmt is the pre-lowering `lhs OP= rhs;` form.
type CompoundAssignStmt struct {
	stmtBase
	Op     ast.BinaryOp
	Target Expr
	Value  Expr
}

// GroupStmt transparently sequences statements produced by a single
// source construct that must lower to more than one bound statement
// (e.g. a temporary's declaration alongside the expression that uses it),
// without introducing a new lexical scope the way Block does. Grounded on
// the original front-end's BoundGroupStmt node.
type GroupStmt struct {
	stmtBase
	Stmts []Stmt
}

// BlockEndStmt marks the point at which a Block's locals go out of scope,
// a hook control-flow analysis and the (out-of-scope) emitter use to run
// per-block cleanup without re-deriving block boundaries from Block
// nesting. Grounded on the original front-end's BoundBlockEnd node.
type BlockEndStmt struct {
	stmtBase
	Owner symbols.ScopeID
}

// LabelStmt declares a jump target.
type LabelStmt struct {
	stmtBase
	Label symbols.SymbolID
}

// JumpStmt is an unconditional jump to Target (post-lowering).
type JumpStmt struct {
	stmtBase
	Target symbols.SymbolID
}

// CondJumpStmt is a two-way branch: jump to Then if Cond is true,
// otherwise to Else.
type CondJumpStmt struct {
	stmtBase
	Cond Expr
	Then symbols.SymbolID
	Else symbols.SymbolID
}
