// Package cfa implements control-flow analysis: once a function body has
// been fully lowered to the label/jump primitive core, walk it as a
// linear program and determine whether every path from entry reaches a
// Return or Exit before falling off the implicit tail.
//
// This package walks the lowered sema tree directly — an "instruction
// stream with one terminating op per block" shape — rather than building
// a separate MIR, since lowering already reduces a body to exactly the
// node kinds a CFG needs.
package cfa

import (
	"ace/internal/diag"
	"ace/internal/sema"
	"ace/internal/symbols"
	"ace/internal/types"
)

// Result carries the outcome of one function body's analysis.
type Result struct {
	// AllPathsReturn is false when at least one path reaches the
	// implicit tail without a Return or Exit.
	AllPathsReturn bool
}

// Check runs the reachability walk over body (already lowered) and
// reports NotAllControlPathsReturn when the function's declared return
// type is non-unit and some path falls off the end. The diagnostic is
// anchored at body's location; Check is not given the function's name
// and does not point at it.
func Check(body *sema.Block, returnType types.TypeID, unit types.TypeID, in *types.Interner, bag *diag.Bag) Result {
	a := &analyzer{stmts: body.Stmts, labels: indexLabels(body.Stmts)}
	if len(a.stmts) == 0 {
		a.fellOffTail = true
	} else {
		visited := make([]bool, len(a.stmts))
		a.visit(0, visited)
	}

	allReturn := !a.fellOffTail
	if !allReturn && (unit == 0 || !in.Equal(returnType, unit)) {
		bag.Add(diag.New(diag.CodeNotAllControlPathsReturn, body.Location(),
			"not all control paths return a value"))
	}
	return Result{AllPathsReturn: allReturn}
}

// allStmtsReturn reports whether every path through a self-contained
// statement list (a nested Block's own Stmts) reaches a Return or Exit,
// by running the same reachability walk Check runs at the top level.
func allStmtsReturn(stmts []sema.Stmt) bool {
	if len(stmts) == 0 {
		return false
	}
	a := &analyzer{stmts: stmts, labels: indexLabels(stmts)}
	visited := make([]bool, len(a.stmts))
	a.visit(0, visited)
	return !a.fellOffTail
}

// indexLabels maps each label symbol to the statement index it names, so
// Jump/CondJump targets resolve to a program point in one step.
func indexLabels(stmts []sema.Stmt) map[symbols.SymbolID]int {
	out := make(map[symbols.SymbolID]int, len(stmts))
	for i, s := range stmts {
		if l, ok := s.(*sema.LabelStmt); ok {
			out[l.Label] = i
		}
	}
	return out
}

// analyzer performs a depth-first walk over program points (statement
// indices), stopping at any point already visited — this is what makes a
// backward jump into an infinite loop terminate the walk instead of
// recursing forever, and is also what gives "a loop with no path out
// still diverges" for free: every point a loop can reach gets visited
// exactly once, however many times control cycles through it.
type analyzer struct {
	stmts []sema.Stmt
	labels map[symbols.SymbolID]int
	fellOffTail bool
}

func (a *analyzer) visit(pc int, visited []bool) {
	for {
		if pc >= len(a.stmts) {
			a.fellOffTail = true
			return
		}
		if visited[pc] {
			return
		}
		visited[pc] = true

		switch st := a.stmts[pc].(type) {
		case *sema.JumpStmt:
			pc = a.labels[st.Target]
			continue
		case *sema.CondJumpStmt:
			a.visit(a.labels[st.Then], visited)
			pc = a.labels[st.Else]
			continue
		case *sema.RetStmt, *sema.ExitStmt:
			return
		case *sema.Block:
			// Lowering never flattens a bare nested block into its
			// parent's statement list (only if/while/assert do, via
			// their own label/jump expansion), so a nested Block can
			// still reach here with a Return/Exit as its own last
			// reachable statement. Its jumps and labels are self
			// contained — they were lowered against this same nested
			// Stmts slice — so a fresh walk scoped to just this slice
			// answers whether falling into it also falls out the
			// other side.
			if allStmtsReturn(st.Stmts) {
				return
			}
			pc++
			continue
		default:
			pc++
			continue
		}
	}
}
