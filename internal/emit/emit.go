// Package emit defines the narrow contract between Sema and a code
// generation backend. Backend code generation itself — a complete
// textual IR emitter — is explicitly out of scope here, so this
// package ships only the interface a backend would
// implement plus the two dispatch entry points Sema exposes to it. No
// concrete Emitter lives in this module.
package emit

import (
	"fmt"

	"ace/internal/ast"
	"ace/internal/sema"
	"ace/internal/symbols"
	"ace/internal/types"
)

// Value is an opaque handle to whatever SSA-like value a backend's
// Emitter produces (e.g. an LLVM value reference). Sema never inspects
// it — only threads it between emit calls.
type Value any

// Block is an opaque handle to a backend basic block, threaded the
// same way Value is.
type Block any

// RuntimeFunc names one of the native C runtime functions a backend
// must expose a callable handle for.
type RuntimeFunc uint8

const (
	RuntimeMalloc RuntimeFunc = iota
	RuntimeFree
	RuntimePrintf
	RuntimeExit
)

// Emitter is the exact surface grants Sema: block/builder
// access, a label→block mapping, a locals→storage mapping, and handles
// to native runtime functions. Nothing else is required, and Sema's
// dispatchers below never call anything beyond this interface.
type Emitter interface {
	// CurrentBlock returns the block new instructions append to.
	CurrentBlock() Block
	// SetBlock redirects subsequent emission to b.
	SetBlock(b Block)
	// NewBlock creates a fresh, unreachable-until-branched-to block.
	NewBlock(name string) Block
	// Branch emits an unconditional jump, terminating the current block.
	Branch(target Block)
	// CondBranch emits a two-way conditional jump, terminating the
	// current block.
	CondBranch(cond Value, then, els Block)

	// BlockFor resolves a lowered label symbol to its block, creating
	// one on first reference so forward jumps bind correctly.
	BlockFor(label symbols.SymbolID) Block

	// StorageFor resolves a local variable symbol to its storage
	// address. The backend is expected to have allocated storage for
	// every local in the enclosing function's prologue.
	StorageFor(local symbols.SymbolID) Value

	// Runtime returns a callable handle to a native runtime function.
	Runtime(fn RuntimeFunc) Value

	// Const materializes a bound literal as a value of the given type.
	Const(lit *ast.LiteralExpr, ty types.TypeID) Value
	// Load reads the value currently stored at addr.
	Load(addr Value, ty types.TypeID) Value
	// Store writes val to addr.
	Store(addr Value, val Value)

	Unary(op ast.UnaryOp, operand Value, ty types.TypeID) Value
	Binary(op ast.BinaryOp, lhs, rhs Value, ty types.TypeID) Value
	// Convert performs one of sema's ConvertKind conversions.
	Convert(kind sema.ConvertKind, val Value, from, to types.TypeID, ctor symbols.SymbolID) Value

	// Call invokes a resolved function symbol.
	Call(fn symbols.SymbolID, args []Value, ty types.TypeID) Value
	// FieldAddr computes the address of a field within receiver.
	FieldAddr(receiver Value, field symbols.SymbolID) Value
	// StructNew materializes a struct value from its bound field inits.
	StructNew(ty types.TypeID, fields map[symbols.SymbolID]Value) Value

	AddrOf(val Value) Value
	SizeOf(ty types.TypeID) Value
	TypeInfoPtr(ty types.TypeID) Value
	VtblPtr(ty types.TypeID) Value

	// Ret emits a return, with hasValue false for a void return.
	Ret(val Value, hasValue bool)
	// Exit emits the abnormal-termination sequence `exit;` lowers to.
	Exit()
	// Drop runs val's destructor, if its type has one.
	Drop(val Value, ty types.TypeID)
}

// Cleanup is one deferred drop an ExprEmitResult's caller must run once
// the expression's value has been consumed.
type Cleanup struct {
	Value Value
	Type types.TypeID
}

// ExprEmitResult is emit_expr's return value: the expression's SSA-like
// value handle plus any temporaries the caller must drop afterward.
type ExprEmitResult struct {
	Value Value
	Cleanups []Cleanup
}

func runCleanups(em Emitter, res ExprEmitResult) {
	for _, c := range res.Cleanups {
		em.Drop(c.Value, c.Type)
	}
}

// EmitStmt renders one bound statement into em's current block
//. Stmt must already have passed through
// lowering: IfStmt, WhileStmt, CompoundAssignStmt, and AssertStmt only
// ever appear pre-lowering and are rejected here.
func EmitStmt(s sema.Stmt, em Emitter) error {
	switch st := s.(type) {
	case *sema.LabelStmt:
		em.SetBlock(em.BlockFor(st.Label))
		return nil

	case *sema.JumpStmt:
		em.Branch(em.BlockFor(st.Target))
		return nil

	case *sema.CondJumpStmt:
		res, err := EmitExpr(st.Cond, em)
		if err != nil {
			return err
		}
		em.CondBranch(res.Value, em.BlockFor(st.Then), em.BlockFor(st.Else))
		runCleanups(em, res)
		return nil

	case *sema.RetStmt:
		if st.Value == nil {
			em.Ret(nil, false)
			return nil
		}
		res, err := EmitExpr(st.Value, em)
		if err != nil {
			return err
		}
		em.Ret(res.Value, true)
		runCleanups(em, res)
		return nil

	case *sema.ExitStmt:
		em.Exit()
		return nil

	case *sema.VarDeclStmt:
		if st.Init == nil {
			return nil
		}
		res, err := EmitExpr(st.Init, em)
		if err != nil {
			return err
		}
		em.Store(em.StorageFor(st.Symbol), res.Value)
		runCleanups(em, res)
		return nil

	case *sema.ExprStmt:
		res, err := EmitExpr(st.Value, em)
		if err != nil {
			return err
		}
		runCleanups(em, res)
		return nil

	case *sema.AssignStmt:
		rhs, err := EmitExpr(st.Value, em)
		if err != nil {
			return err
		}
		addr, err := emitLValueAddr(st.Target, em)
		if err != nil {
			return err
		}
		em.Store(addr, rhs.Value)
		runCleanups(em, rhs)
		return nil

	case *sema.GroupStmt:
		for _, inner := range st.Stmts {
			if err := EmitStmt(inner, em); err != nil {
				return err
			}
		}
		return nil

	case *sema.BlockEndStmt:
		// Scope-exit hook: the backend's own scope bookkeeping (not
		// exposed through this narrow contract) runs per-local drops
		// here. Sema has nothing further to emit.
		return nil

	case *sema.IfStmt, *sema.WhileStmt, *sema.CompoundAssignStmt, *sema.AssertStmt:
		return fmt.Errorf("emit: %T must be lowered before emission", s)

	default:
		return fmt.Errorf("emit: unhandled statement %T", s)
	}
}

// emitLValueAddr computes the storage address an AssignStmt target
// refers to. Only the lvalue-producing Expr kinds bound during
// type-checking ever appear here.
func emitLValueAddr(e sema.Expr, em Emitter) (Value, error) {
	switch ex := e.(type) {
	case *sema.IdentExpr:
		return em.StorageFor(ex.Symbol), nil
	case *sema.MemberExpr:
		recv, err := EmitExpr(ex.Receiver, em)
		if err != nil {
			return nil, err
		}
		runCleanups(em, recv)
		return em.FieldAddr(recv.Value, ex.Field), nil
	default:
		return nil, fmt.Errorf("emit: %T is not an lvalue", e)
	}
}

// EmitExpr renders one bound expression, returning its value handle and
// any temporaries the caller owns.
func EmitExpr(e sema.Expr, em Emitter) (ExprEmitResult, error) {
	switch ex := e.(type) {
	case *sema.ErrorExpr:
		return ExprEmitResult{}, fmt.Errorf("emit: ErrorExpr reached emission at %v", ex.Location())

	case *sema.LiteralExpr:
		return ExprEmitResult{Value: em.Const(ex.Raw, ex.Type())}, nil

	case *sema.IdentExpr:
		addr := em.StorageFor(ex.Symbol)
		if ex.IsLValue() {
			return ExprEmitResult{Value: addr}, nil
		}
		return ExprEmitResult{Value: em.Load(addr, ex.Type())}, nil

	case *sema.MemberExpr:
		recv, err := EmitExpr(ex.Receiver, em)
		if err != nil {
			return ExprEmitResult{}, err
		}
		addr := em.FieldAddr(recv.Value, ex.Field)
		res := ExprEmitResult{Cleanups: recv.Cleanups}
		if ex.IsLValue() {
			res.Value = addr
		} else {
			res.Value = em.Load(addr, ex.Type())
		}
		return res, nil

	case *sema.CallExpr:
		// Only ever wraps a binding failure; Callee is an ErrorExpr.
		return EmitExpr(ex.Callee, em)

	case *sema.StaticCallExpr:
		args := make([]Value, len(ex.Args))
		var cleanups []Cleanup
		for i, a := range ex.Args {
			res, err := EmitExpr(a, em)
			if err != nil {
				return ExprEmitResult{}, err
			}
			args[i] = res.Value
			cleanups = append(cleanups, res.Cleanups...)
		}
		return ExprEmitResult{Value: em.Call(ex.Func, args, ex.Type()), Cleanups: cleanups}, nil

	case *sema.UnaryExpr:
		operand, err := EmitExpr(ex.Operand, em)
		if err != nil {
			return ExprEmitResult{}, err
		}
		return ExprEmitResult{Value: em.Unary(ex.Op, operand.Value, ex.Type()), Cleanups: operand.Cleanups}, nil

	case *sema.BinaryExpr:
		lhs, err := EmitExpr(ex.Left, em)
		if err != nil {
			return ExprEmitResult{}, err
		}
		rhs, err := EmitExpr(ex.Right, em)
		if err != nil {
			return ExprEmitResult{}, err
		}
		cleanups := append(lhs.Cleanups, rhs.Cleanups...)
		return ExprEmitResult{Value: em.Binary(ex.Op, lhs.Value, rhs.Value, ex.Type()), Cleanups: cleanups}, nil

	case *sema.ConvertExpr:
		inner, err := EmitExpr(ex.Value, em)
		if err != nil {
			return ExprEmitResult{}, err
		}
		val := em.Convert(ex.Kind, inner.Value, ex.Value.Type(), ex.Type(), ex.Ctor)
		res := ExprEmitResult{Value: val, Cleanups: inner.Cleanups}
		if ex.Kind == sema.ConvertImplicitCtor {
			res.Cleanups = append(res.Cleanups, Cleanup{Value: val, Type: ex.Type()})
		}
		return res, nil

	case *sema.CastExpr:
		// Degrades to ConvertExpr once validated; never survives
		// type-checking in practice, but fall through defensively.
		return EmitExpr(ex.Value, em)

	case *sema.DerefAsExpr:
		return EmitExpr(ex.Value, em)

	case *sema.StructConstructExpr:
		fields := make(map[symbols.SymbolID]Value, len(ex.Fields))
		var cleanups []Cleanup
		for _, f := range ex.Fields {
			res, err := EmitExpr(f.Value, em)
			if err != nil {
				return ExprEmitResult{}, err
			}
			fields[f.Field] = res.Value
			cleanups = append(cleanups, res.Cleanups...)
		}
		val := em.StructNew(ex.Type(), fields)
		cleanups = append(cleanups, Cleanup{Value: val, Type: ex.Type()})
		return ExprEmitResult{Value: val, Cleanups: cleanups}, nil

	case *sema.AddrOfExpr:
		inner, err := EmitExpr(ex.Value, em)
		if err != nil {
			return ExprEmitResult{}, err
		}
		return ExprEmitResult{Value: em.AddrOf(inner.Value), Cleanups: inner.Cleanups}, nil

	case *sema.SizeOfExpr:
		return ExprEmitResult{Value: em.SizeOf(ex.Target)}, nil

	case *sema.TypeInfoPtrExpr:
		return ExprEmitResult{Value: em.TypeInfoPtr(ex.Target)}, nil

	case *sema.VtblPtrExpr:
		return ExprEmitResult{Value: em.VtblPtr(ex.Target)}, nil

	default:
		return ExprEmitResult{}, fmt.Errorf("emit: unhandled expression %T", e)
	}
}
