package sema

import (
	"ace/internal/ast"
	"ace/internal/symbols"
	"ace/internal/types"
)

// underlyingNominalOf strips Ref/StrongPtr/WeakPtr wrappers down to the
// nominal symbol a type ultimately names, shared between binding,
// type-checking, and lowering's operator-overload lookups.
func underlyingNominalOf(in *types.Interner, ty types.TypeID) symbols.SymbolID {
	for {
		switch in.Kind(ty) {
		case types.KindRef, types.KindStrongPtr, types.KindWeakPtr:
			ty = in.Inner(ty)
		case types.KindNominal:
			return symbols.SymbolID(in.NominalKey(ty))
		default:
			return symbols.NoSymbolID
		}
	}
}

// lookupUnaryOverload implements the user-operator lookup for a
// prefix-unary operator: search operandType's inherent+trait-impl set for
// a zero-argument `op` function spelling the same token.
func lookupUnaryOverload(t *symbols.Table, in *types.Interner, operandType types.TypeID, op ast.UnaryOp) (symbols.SymbolID, bool) {
	base := underlyingNominalOf(in, operandType)
	if base == symbols.NoSymbolID {
		return symbols.NoSymbolID, false
	}
	tok := unaryOpToken(op)
	if tok == "" {
		return symbols.NoSymbolID, false
	}
	sym := t.Symbol(base)
	for _, implID := range append(append([]symbols.SymbolID{}, sym.InherentImpls...), sym.TraitImpls...) {
		impl := t.Symbol(implID)
		for _, fnID := range impl.ImplFunctions {
			fn := t.Symbol(fnID)
			if fn.OperatorTok == tok && fn.FnSig.Arity() == 0 {
				return fnID, true
			}
		}
	}
	return symbols.NoSymbolID, false
}

func unaryOpToken(op ast.UnaryOp) string {
	switch op {
	case ast.UnaryNot:
		return "!"
	case ast.UnaryNeg:
		return "-"
	case ast.UnaryBitNot:
		return "~"
	default:
		return ""
	}
}

// lookupBinaryOverload implements the user-operator lookup for an
// infix-binary operator: search lhsType's inherent+trait-impl set for a
// one-argument `op` function spelling the same token whose parameter type
// exactly matches rhsType.
func lookupBinaryOverload(t *symbols.Table, in *types.Interner, lhsType, rhsType types.TypeID, op ast.BinaryOp) (symbols.SymbolID, bool) {
	base := underlyingNominalOf(in, lhsType)
	if base == symbols.NoSymbolID {
		return symbols.NoSymbolID, false
	}
	tok := binaryOpToken(op)
	if tok == "" {
		return symbols.NoSymbolID, false
	}
	sym := t.Symbol(base)
	for _, implID := range append(append([]symbols.SymbolID{}, sym.InherentImpls...), sym.TraitImpls...) {
		impl := t.Symbol(implID)
		for _, fnID := range impl.ImplFunctions {
			fn := t.Symbol(fnID)
			if fn.OperatorTok != tok || fn.FnSig.Arity() != 1 {
				continue
			}
			if in.Equal(fn.FnSig.ParamTypes[0], rhsType) {
				return fnID, true
			}
		}
	}
	return symbols.NoSymbolID, false
}

func binaryOpToken(op ast.BinaryOp) string {
	switch op {
	case ast.BinBitOr:
		return "|"
	case ast.BinBitXor:
		return "^"
	case ast.BinBitAnd:
		return "&"
	case ast.BinEq:
		return "=="
	case ast.BinNe:
		return "!="
	case ast.BinLt:
		return "<"
	case ast.BinLe:
		return "<="
	case ast.BinGt:
		return ">"
	case ast.BinGe:
		return ">="
	case ast.BinShl:
		return "<<"
	case ast.BinShr:
		return ">>"
	case ast.BinAdd:
		return "+"
	case ast.BinSub:
		return "-"
	case ast.BinMul:
		return "*"
	case ast.BinDiv:
		return "/"
	case ast.BinMod:
		return "%"
	default:
		return ""
	}
}
