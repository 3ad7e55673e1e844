// Package mono implements the keying and cache bookkeeping for generic
// template instantiation: given a generic symbol and a tuple
// of type arguments, at most one instance is ever created.
package mono

import (
	"strings"

	"ace/internal/types"
)

// GenericKey is an opaque identifier for the generic symbol being
// instantiated (a function, struct, trait, or impl). mono does not know
// what it represents — symbols supplies it, typically its own SymbolID.
type GenericKey uint32

// CacheKey uniquely identifies one instantiation: a generic symbol
// plus a concrete, ordered tuple of type arguments.
type CacheKey struct {
	Generic GenericKey
	args string // canonical encoding of the TypeID tuple, used as a map key
}

// NewCacheKey builds a CacheKey. TypeIDs already being canonical
// (types.Interner guarantees structural equality implies identity), their
// numeric values alone are a sound cache key.
func NewCacheKey(generic GenericKey, args []types.TypeID) CacheKey {
	var b strings.Builder
	for i, a := range args {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(itoa(uint32(a)))
	}
	return CacheKey{Generic: generic, args: b.String()}
}

func itoa(v uint32) string {
	if v == 0 {
		return "0"
	}
	var buf [10]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	return string(buf[i:])
}

// Cache maps CacheKeys to already-created instance identifiers. The
// value type is generic (an opaque symbol-id-like uint32) so symbols can
// store whatever identity makes sense for the kind of thing being
// instantiated (function symbol, struct symbol, ...).
type Cache struct {
	instances map[CacheKey]uint32
}

// NewCache creates an empty instantiation cache.
func NewCache() *Cache {
	return &Cache{instances: make(map[CacheKey]uint32)}
}

// Lookup returns the previously cached instance for key, if any.
func (c *Cache) Lookup(key CacheKey) (uint32, bool) {
	id, ok := c.instances[key]
	return id, ok
}

// Store records instance as the result for key. Calling Store twice for
// the same key with different values is a cache-consistency bug — it
// panics rather than silently overwriting, since guarantees
// "the previously-created instance is returned on subsequent requests."
func (c *Cache) Store(key CacheKey, instance uint32) {
	if existing, ok := c.instances[key]; ok && existing != instance {
		panic("mono: instantiation cache collision for an already-cached key")
	}
	c.instances[key] = instance
}
