// Package mono implements the template instantiation cache
// key and use-site bookkeeping. internal/symbols owns the actual cache
// map; this package supplies the comparable key type that cache is
// keyed by, plus a use-site recorder sema can consult when diagnosing
// deduction conflicts. SymbolRef mirrors symbols.SymbolID's
// representation rather than importing symbols directly: symbols
// already imports mono for InstanceKey, so mono importing symbols back
// would cycle — the same split types/NominalKey uses to stay acyclic
// under symbols.
//
// Cloning a cached key's generic body into an actual monomorphized
// function (substituting type arguments through the body and emitting
// code for the result) has no home here: code emission is out of scope,
// and compiling a generic function's body only matters once there's a
// body to emit code for (see DESIGN.md's Open Question on generic
// function body compilation). This package only supplies the
// symbol-level cache key and lookup bookkeeping.
package mono

import (
	"slices"
	"strconv"
	"strings"

	"ace/internal/source"
	"ace/internal/types"
)

// SymbolRef mirrors symbols.SymbolID's underlying uint32 representation.
// Callers construct one with SymbolRef(sym) at the call site, where sym
// is already a symbols.SymbolID.
type SymbolRef uint32

// Kind identifies what sort of generic entity is being instantiated.
type Kind uint8

const (
	KindFunc Kind = iota
	KindType
	KindTag
)

// InstanceKey is the comparable cache key a scope's instantiation map is
// keyed by ("keyed by (generic_symbol, type_args)"). Go maps
// can't key on slices directly, so ArgsKey holds a stable string
// encoding of the normalized type arguments.
type InstanceKey struct {
	Sym SymbolRef
	ArgsKey string
}

// NewInstanceKey builds the cache key for sym instantiated with args.
// args is normalized (cloned, not erased to structural shape — nominal
// identity stays distinct from its underlying type) before being encoded.
func NewInstanceKey(sym SymbolRef, args []types.TypeID) InstanceKey {
	return InstanceKey{Sym: sym, ArgsKey: argsKey(NormalizeTypeArgs(args))}
}

// NormalizeTypeArgs produces the canonical argument slice an
// InstanceKey is derived from, cloned so callers can't mutate a cached
// entry's TypeArgs out from under the map.
func NormalizeTypeArgs(args []types.TypeID) []types.TypeID {
	if len(args) == 0 {
		return nil
	}
	return slices.Clone(args)
}

// UseSite records one location a cached instantiation was requested
// from.
type UseSite struct {
	Loc source.Location
	Caller SymbolRef
	Note string
}

// Entry captures every use site recorded for one cached instantiation.
type Entry struct {
	Kind Kind
	Key InstanceKey
	TypeArgs []types.TypeID
	UseSites []UseSite
}

// Recorder tracks use sites for instantiations the symbol table has
// already cached, for diagnostics and introspection — not the cache
// itself (that is the per-scope map behind symbols.Table.Instantiation),
// a log of who asked.
type Recorder struct {
	entries map[InstanceKey]*Entry
}

// NewRecorder creates an empty use-site recorder.
func NewRecorder() *Recorder {
	return &Recorder{entries: make(map[InstanceKey]*Entry)}
}

// Record notes that sym was instantiated with typeArgs at site, creating
// the entry on first use. A no-op on a nil receiver, an invalid symbol,
// or an empty argument list (a non-generic reference instantiates
// nothing).
func (r *Recorder) Record(kind Kind, sym SymbolRef, typeArgs []types.TypeID, site source.Location, caller SymbolRef, note string) *Entry {
	if r == nil || sym == 0 || len(typeArgs) == 0 {
		return nil
	}
	if r.entries == nil {
		r.entries = make(map[InstanceKey]*Entry)
	}

	normalized := NormalizeTypeArgs(typeArgs)
	key := InstanceKey{Sym: sym, ArgsKey: argsKey(normalized)}
	entry := r.entries[key]
	if entry == nil {
		entry = &Entry{Kind: kind, Key: key, TypeArgs: normalized}
		r.entries[key] = entry
	}

	if site.Buf != nil {
		us := UseSite{Loc: site, Caller: caller, Note: note}
		if !slices.Contains(entry.UseSites, us) {
			entry.UseSites = append(entry.UseSites, us)
		}
	}
	return entry
}

// Lookup returns the recorded entry for sym instantiated with args, and
// whether one exists.
func (r *Recorder) Lookup(sym SymbolRef, args []types.TypeID) (*Entry, bool) {
	if r == nil || r.entries == nil {
		return nil, false
	}
	e, ok := r.entries[InstanceKey{Sym: sym, ArgsKey: argsKey(NormalizeTypeArgs(args))}]
	return e, ok
}

// Len reports the number of distinct instantiations recorded.
func (r *Recorder) Len() int {
	if r == nil {
		return 0
	}
	return len(r.entries)
}

func argsKey(args []types.TypeID) string {
	if len(args) == 0 {
		return ""
	}
	var b strings.Builder
	for i, arg := range args {
		if i > 0 {
			b.WriteByte('#')
		}
		b.WriteString(strconv.FormatUint(uint64(arg), 10))
	}
	return b.String()
}
