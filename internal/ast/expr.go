package ast

import (
	"ace/internal/source"
	"ace/internal/token"
)

// Expr is implemented by every expression syntax node. create_sema() dispatch lives in internal/sema, not
// here, since ast must not import sema.
type Expr interface {
	Node
}

type exprBase struct {
	Loc     source.Location
	scopeID ScopeID
}

func (e *exprBase) Location() source.Location { return e.Loc }
func (e *exprBase) Scope() ScopeID             { return e.scopeID }
func (e *exprBase) SetScope(id ScopeID)        { e.scopeID = id }

// LiteralExpr is an integer/float/bool/string literal token turned into an
// expression node. Kind distinguishes among the suffixed literal forms.
type LiteralExpr struct {
	exprBase
	Kind token.Kind
	Text string
}

func (e *LiteralExpr) Children() []Node { return nil }

// IdentExpr is a bare or qualified name reference, resolved to a symbol
// during binding.
type IdentExpr struct {
	exprBase
	Name SymbolName
}

func (e *IdentExpr) Children() []Node { return nil }

// MemberExpr is `Receiver.Name`.
type MemberExpr struct {
	exprBase
	Receiver Expr
	Name     source.Ident
}

func (e *MemberExpr) Children() []Node { return []Node{e.Receiver} }

// CallExpr is `Callee(Args...)`.
type CallExpr struct {
	exprBase
	Callee Expr
	Args   []Expr
}

func (e *CallExpr) Children() []Node {
	out := make([]Node, 0, len(e.Args)+1)
	out = append(out, e.Callee)
	for _, a := range e.Args {
		out = append(out, a)
	}
	return out
}

// UnaryOp enumerates the prefix unary operator spellings.
type UnaryOp uint8

const (
	UnaryInvalid UnaryOp = iota
	UnaryNot             // !
	UnaryNeg             // -
	UnaryBitNot          // ~
	UnaryLock            // lock
	UnaryBox             // box
	UnaryUnbox           // unbox
)

// UnaryExpr is a prefix-unary expression. Whether it resolves to a
// built-in operation or a user-defined `op` overload is decided during
// binding.
type UnaryExpr struct {
	exprBase
	Op      UnaryOp
	Operand Expr
}

func (e *UnaryExpr) Children() []Node { return []Node{e.Operand} }

// BinaryOp enumerates the infix operator spellings.
type BinaryOp uint8

const (
	BinInvalid BinaryOp = iota
	BinOr              // ||
	BinAnd             // &&
	BinBitOr           // |
	BinBitXor          // ^
	BinBitAnd          // &
	BinEq              // ==
	BinNe              // !=
	BinLt              // <
	BinLe              // <=
	BinGt              // >
	BinGe              // >=
	BinShl             // <<
	BinShr             // >>
	BinAdd             // +
	BinSub             // -
	BinMul             // *
	BinDiv             // /
	BinMod             // %
)

// BinaryExpr is an infix-binary expression, precedence already resolved
// by the parser's climbing loop. `&&`/`||` bind as built-in operations
// without user-op lookup; every other op first looks for a user-defined
// `op` overload during binding.
type BinaryExpr struct {
	exprBase
	Op    BinaryOp
	Left  Expr
	Right Expr
}

func (e *BinaryExpr) Children() []Node { return []Node{e.Left, e.Right} }

// CastExpr is `cast[T](e)`.
type CastExpr struct {
	exprBase
	Target *TypeName
	Value  Expr
}

func (e *CastExpr) Children() []Node { return []Node{e.Value} }

// FieldInitExpr is one `name: value` entry in a struct-construction
// expression.
type FieldInitExpr struct {
	Loc   source.Location
	Name  source.Ident
	Value Expr
}

// StructConstructExpr is `new TypeName{ field: value, ... }`.
type StructConstructExpr struct {
	exprBase
	Type   *TypeName
	Fields []FieldInitExpr
}

func (e *StructConstructExpr) Children() []Node {
	out := make([]Node, 0, len(e.Fields))
	for _, f := range e.Fields {
		out = append(out, f.Value)
	}
	return out
}

// AddrOfExpr is `addr_of(e)`.
type AddrOfExpr struct {
	exprBase
	Value Expr
}

func (e *AddrOfExpr) Children() []Node { return []Node{e.Value} }

// SizeOfExpr is `size_of[T]`.
type SizeOfExpr struct {
	exprBase
	Target *TypeName
}

func (e *SizeOfExpr) Children() []Node { return nil }

// DerefAsExpr is `deref_as[T](e)`.
type DerefAsExpr struct {
	exprBase
	Target *TypeName
	Value  Expr
}

func (e *DerefAsExpr) Children() []Node { return []Node{e.Value} }

// TypeInfoPtrExpr is `type_info_ptr[T]`.
type TypeInfoPtrExpr struct {
	exprBase
	Target *TypeName
}

func (e *TypeInfoPtrExpr) Children() []Node { return nil }

// VtblPtrExpr is `vtbl_ptr[T]`.
type VtblPtrExpr struct {
	exprBase
	Target *TypeName
}

func (e *VtblPtrExpr) Children() []Node { return nil }

// NewLiteralExpr constructs a LiteralExpr with its scope pre-attached.
func NewLiteralExpr(loc source.Location, scope ScopeID, kind token.Kind, text string) *LiteralExpr {
	return &LiteralExpr{exprBase: exprBase{Loc: loc, scopeID: scope}, Kind: kind, Text: text}
}
