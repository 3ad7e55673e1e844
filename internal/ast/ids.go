// Package ast defines the immutable concrete syntax tree produced by the
// parser: declarations, statements, expressions, and type
// expressions, each carrying a source.Location and a lexical ScopeID.
//
// The tree is plain Go pointers rather than an arena-of-indices: Go's
// garbage collector already gives the "freely aliased, immutable node"
// property the original compiler approximated with shared_ptr. Scopes
// and symbols, which need stable cross-referencing identity for the
// template-instantiation cache, still use arena-style typed indices in
// internal/symbols, matching the recommendation there.
package ast

// ScopeID is an opaque handle to the lexical scope a node was parsed in.
// ast itself carries no scope behavior — internal/symbols owns the scope
// arena and interprets these handles as indices, keeping ast independent
// of the symbols package it hands these handles to.
type ScopeID uint32

// NoScopeID marks a node that has not yet been assigned a scope.
const NoScopeID ScopeID = 0

// FileID identifies one parsed source file.
type FileID uint32
