package ast

import "ace/internal/source"

// File is the parse result of a single source buffer: a flat list of
// top-level items rooted at the package module. Multiple Files can contribute PartialDeclSyntax items to
// the same module when a module is split across files.
type File struct {
	ID FileID
	Loc source.Location
	scopeID ScopeID
	Items []Item
}

func (f *File) Location() source.Location { return f.Loc }
func (f *File) Scope() ScopeID { return f.scopeID }
func (f *File) SetScope(id ScopeID) { f.scopeID = id }
func (f *File) Children() []Node {
	out := make([]Node, len(f.Items))
	for i, it := range f.Items {
		out[i] = it
	}
	return out
}

// SortDecls stable-sorts decls by (DeclOrder, DeclSuborder), the total
// order requires symbol creation to run in, globally across the
// whole compilation.
func SortDecls(decls []Decl) {
	// insertion sort: decl lists per scope are small, and the stability
	// requirement (equal-order decls keep source order) rules out a
	// plain sort.Slice with a non-stable comparator shortcut.
	for i := 1; i < len(decls); i++ {
		for j := i; j > 0 && less(decls[j], decls[j-1]); j-- {
			decls[j], decls[j-1] = decls[j-1], decls[j]
		}
	}
}

func less(a, b Decl) bool {
	if a.DeclOrder() != b.DeclOrder() {
		return a.DeclOrder() < b.DeclOrder()
	}
	return a.DeclSuborder() < b.DeclSuborder()
}
