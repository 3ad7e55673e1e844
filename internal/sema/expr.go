package sema

import (
	"ace/internal/ast"
	"ace/internal/symbols"
	"ace/internal/types"
)

// ErrorExpr stands in for an expression the binder or type-checker could
// not make sense of, carrying the error type so later phases never see a
// nil Expr.
type ErrorExpr struct{ exprBase }

func (e *ErrorExpr) Children() []Expr { return nil }

// LiteralExpr is a bound integer/float/bool/string literal. Raw keeps the
// original token around: the binder picks the literal's native type from
// its kind, and the type checker uses the kind to narrow an unsuffixed
// integer literal to its expected type.
type LiteralExpr struct {
	exprBase
	Raw *ast.LiteralExpr
}

func (e *LiteralExpr) Children() []Expr { return nil }

// IdentExpr is a name reference resolved to a symbol.
type IdentExpr struct {
	exprBase
	Symbol symbols.SymbolID
}

func (e *IdentExpr) Children() []Expr { return nil }

// MemberExpr is `Receiver.Name` bound to a field or an instance-method
// symbol.
// When Field names an instance function, this node only ever appears as
// a CallExpr's Callee — the binder rewrites the call as a StaticCallExpr
// with the receiver spliced in as an implicit self argument.
type MemberExpr struct {
	exprBase
	Receiver Expr
	Field    symbols.SymbolID
}

func (e *MemberExpr) Children() []Expr { return []Expr{e.Receiver} }

// CallExpr is a call through a first-class callee expression. Ace has no
// first-class functions in its surface grammar, so a bound CallExpr only
// ever wraps a callee that did not bind to a function (already
// diagnosed by the binder); legitimate calls bind directly to
// StaticCallExpr.
type CallExpr struct {
	exprBase
	Callee Expr
	Args   []Expr
}

func (e *CallExpr) Children() []Expr {
	out := make([]Expr, 0, len(e.Args)+1)
	out = append(out, e.Callee)
	return append(out, e.Args...)
}

// StaticCallExpr is a direct call to a resolved function symbol. For an
// instance method, Args[0] is the (already-converted) receiver, spliced
// in as an implicit self argument during binding; for a
// lowered user-operator call, Func is the resolved overload.
type StaticCallExpr struct {
	exprBase
	Func symbols.SymbolID
	Args []Expr
}

func (e *StaticCallExpr) Children() []Expr { return e.Args }

// UnaryExpr is a bound prefix-unary expression. Overload is non-zero when
// the operator resolved to a user-defined `op` overload;
// otherwise the operator is a built-in and Overload is NoSymbolID.
type UnaryExpr struct {
	exprBase
	Op       ast.UnaryOp
	Operand  Expr
	Overload symbols.SymbolID
}

func (e *UnaryExpr) Children() []Expr { return []Expr{e.Operand} }

// BinaryExpr is a bound infix-binary expression. `&&`/`||` always bind
// directly; every other
// operator may resolve to a user overload.
type BinaryExpr struct {
	exprBase
	Op       ast.BinaryOp
	Left     Expr
	Right    Expr
	Overload symbols.SymbolID
}

func (e *BinaryExpr) Children() []Expr { return []Expr{e.Left, e.Right} }

// ConvertKind enumerates the implicit/explicit conversions the type
// checker inserts.
type ConvertKind uint8

const (
	ConvertInvalid ConvertKind = iota
	// ConvertToRValue materializes an lvalue as a value.
	ConvertToRValue
	// ConvertAutoDeref strips one Ref layer.
	ConvertAutoDeref
	// ConvertWiden is a numeric widening along the native lattice.
	ConvertWiden
	// ConvertImplicitCtor invokes a single-argument constructor function
	// implicitly.
	ConvertImplicitCtor
	// ConvertStrongToWeak erases a strong pointer to a weak one.
	ConvertStrongToWeak
	// ConvertExplicitWiden is the widening `cast[T](e)` performs beyond
	// what plain numeric widening allows implicitly.
	ConvertExplicitWiden
)

// ConvertExpr wraps Value with an inserted conversion to Ty. Ctor is set
// only for ConvertImplicitCtor, naming the constructor function invoked.
type ConvertExpr struct {
	exprBase
	Kind  ConvertKind
	Value Expr
	Ctor  symbols.SymbolID
}

func (e *ConvertExpr) Children() []Expr { return []Expr{e.Value} }

// CastExpr is `cast[T](e)` once Target has resolved to a concrete Ty and
// the conversion has been validated against the explicit-cast rule set
//. A cast that survives validation degrades to a ConvertExpr
// around Value; CastExpr itself never appears after type-checking — kept
// here only as the binder's initial (unchecked) representation.
type CastExpr struct {
	exprBase
	Value Expr
}

func (e *CastExpr) Children() []Expr { return []Expr{e.Value} }

// DerefAsExpr is `deref_as[T](e)`: reinterprets a pointer's pointee type.
type DerefAsExpr struct {
	exprBase
	Value Expr
}

func (e *DerefAsExpr) Children() []Expr { return []Expr{e.Value} }

// FieldInit is one bound `name: value` entry of a StructConstructExpr.
type FieldInit struct {
	Field symbols.SymbolID
	Value Expr
}

// StructConstructExpr is `new TypeName{ field: value, ... }` once every
// named field has been matched to a StructFields entry.
type StructConstructExpr struct {
	exprBase
	Fields []FieldInit
}

func (e *StructConstructExpr) Children() []Expr {
	out := make([]Expr, len(e.Fields))
	for i, f := range e.Fields {
		out[i] = f.Value
	}
	return out
}

// AddrOfExpr is `addr_of(e)`.
type AddrOfExpr struct {
	exprBase
	Value Expr
}

func (e *AddrOfExpr) Children() []Expr { return []Expr{e.Value} }

// SizeOfExpr is `size_of[T]`; Target is carried via Ty.
type SizeOfExpr struct {
	exprBase
	Target types.TypeID
}

func (e *SizeOfExpr) Children() []Expr { return nil }

// TypeInfoPtrExpr is `type_info_ptr[T]`.
type TypeInfoPtrExpr struct {
	exprBase
	Target types.TypeID
}

func (e *TypeInfoPtrExpr) Children() []Expr { return nil }

// VtblPtrExpr is `vtbl_ptr[T]`.
type VtblPtrExpr struct {
	exprBase
	Target types.TypeID
}

func (e *VtblPtrExpr) Children() []Expr { return nil }
