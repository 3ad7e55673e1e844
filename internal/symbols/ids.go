// Package symbols implements the scope tree, the symbol
// table, name resolution (including nested/generic/trait paths), and
// access-modifier enforcement. Scopes own their symbols; symbols never
// outlive their defining scope.
package symbols

import "ace/internal/ast"

// ScopeID aliases ast.ScopeID: the parser mints these handles while
// building the syntax tree, and this package is the arena that actually
// backs them. Using a type alias (not a new named type) lets every
// ast.Node's Scope() value be used directly as an index here with no
// translation step.
type ScopeID = ast.ScopeID

// NoScopeID aliases ast.NoScopeID.
const NoScopeID = ast.NoScopeID

// SymbolID identifies a symbol within the compilation's single global
// symbol arena. The zero value is invalid (no symbol).
type SymbolID uint32

// NoSymbolID marks "no symbol" / a not-yet-resolved reference.
const NoSymbolID SymbolID = 0
