// Package types implements the structural half of the type model:
// interning of composite (modified) types over an opaque nominal backing
// key. It has no knowledge of what a nominal key represents — symbols,
// which does import types, is the layer that ties a NominalKey back to an
// actual Struct/Trait/TypeParam/TypeAlias symbol. This mirrors the
// split kept deliberately one-directional: types imports no other
// compiler package, symbols depends on both ast and types.
package types

import "fmt"

// NominalKey is an opaque identifier for whatever the symbols layer
// considers a "named type" (a struct, a trait, a type parameter, or a
// type alias's target). types treats it as a bare comparable value.
type NominalKey uint32

// Kind tags which shape a TypeID's Interner entry has.
type Kind uint8

const (
	KindInvalid Kind = iota
	// KindNominal is a struct, trait, type parameter, or alias target.
	KindNominal
	// KindRef is `&Inner`.
	KindRef
	// KindStrongPtr is `*Inner`.
	KindStrongPtr
	// KindWeakPtr is `~Inner`.
	KindWeakPtr
)

// TypeID indexes into an Interner's table. The zero value is invalid.
type TypeID uint32

// entry is the canonical description of one interned type.
type entry struct {
	kind Kind
	nominal NominalKey
	inner TypeID
}

// Interner canonicalizes and caches composite types so that structurally
// equal types share one TypeID.
type Interner struct {
	entries []entry
	byKey map[entry]TypeID
}

// NewInterner creates an empty Interner.
func NewInterner() *Interner {
	return &Interner{
		entries: []entry{{}}, // index 0 reserved as invalid
		byKey: make(map[entry]TypeID),
	}
}

func (in *Interner) intern(e entry) TypeID {
	if id, ok := in.byKey[e]; ok {
		return id
	}
	in.entries = append(in.entries, e)
	id := TypeID(len(in.entries) - 1)
	in.byKey[e] = id
	return id
}

// Nominal returns (interning if needed) the TypeID for a bare nominal
// type backed by key.
func (in *Interner) Nominal(key NominalKey) TypeID {
	return in.intern(entry{kind: KindNominal, nominal: key})
}

// Ref returns `&inner`, collapsing `&&T` to `&T`.
func (in *Interner) Ref(inner TypeID) TypeID {
	if in.Kind(inner) == KindRef {
		return inner
	}
	return in.intern(entry{kind: KindRef, inner: inner})
}

// StrongPtr returns `*inner`.
func (in *Interner) StrongPtr(inner TypeID) TypeID {
	return in.intern(entry{kind: KindStrongPtr, inner: inner})
}

// WeakPtr returns `~inner`.
func (in *Interner) WeakPtr(inner TypeID) TypeID {
	return in.intern(entry{kind: KindWeakPtr, inner: inner})
}

// Kind reports the shape of id.
func (in *Interner) Kind(id TypeID) Kind {
	if int(id) >= len(in.entries) {
		return KindInvalid
	}
	return in.entries[id].kind
}

// NominalKey returns the backing key of a KindNominal type. Panics if id
// is not nominal — callers must check Kind first.
func (in *Interner) NominalKey(id TypeID) NominalKey {
	e := in.entries[id]
	if e.kind != KindNominal {
		panic(fmt.Sprintf("types: NominalKey on non-nominal type %d", id))
	}
	return e.nominal
}

// Inner returns the wrapped type of a Ref/StrongPtr/WeakPtr type.
func (in *Interner) Inner(id TypeID) TypeID {
	e := in.entries[id]
	if e.kind != KindRef && e.kind != KindStrongPtr && e.kind != KindWeakPtr {
		panic(fmt.Sprintf("types: Inner on non-modified type %d", id))
	}
	return e.inner
}

// Deref strips one Ref layer, returning (inner, true) if id is a Ref, or
// (id, false) otherwise — used by the implicit-conversion rule "Ref ->
// referent (auto-deref)".
func (in *Interner) Deref(id TypeID) (TypeID, bool) {
	if in.Kind(id) == KindRef {
		return in.Inner(id), true
	}
	return id, false
}

// Equal reports whether a and b are the same interned type. Since every
// composite is canonicalized on construction, equality is just identity.
func (in *Interner) Equal(a, b TypeID) bool { return a == b }
