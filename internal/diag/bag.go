package diag

import (
	"fmt"

	"fortio.org/safecast"
)

// Bag accumulates diagnostics up to a fixed capacity. Every phase merges
// its own bag into its caller's rather than ever discarding a diagnostic.
type Bag struct {
	items []Diagnostic
	cap   uint32
}

// NewBag creates a Bag bounded at capacity diagnostics.
func NewBag(capacity int) *Bag {
	c, err := safecast.Conv[uint32](capacity)
	if err != nil {
		panic(fmt.Errorf("diag: bag capacity overflow: %w", err))
	}
	return &Bag{items: make([]Diagnostic, 0, c), cap: c}
}

// Add appends d, reporting false if the bag's capacity was already
// reached (the diagnostic is dropped only in that overflow case — the
// cap exists purely to keep pathological inputs from producing unbounded
// diagnostic output, not to drop diagnostics silently in the normal case).
func (b *Bag) Add(d Diagnostic) bool {
	if uint32(len(b.items)) >= b.cap {
		return false
	}
	b.items = append(b.items, d)
	return true
}

// Merge appends every diagnostic from other into b, growing b's capacity
// if needed so no diagnostic is lost across a merge.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	needed := uint32(len(b.items) + len(other.items))
	if needed > b.cap {
		b.cap = needed
	}
	b.items = append(b.items, other.items...)
}

// Items returns the accumulated diagnostics. Read-only: callers must not
// mutate the returned slice in place.
func (b *Bag) Items() []Diagnostic { return b.items }

// Len returns the number of accumulated diagnostics.
func (b *Bag) Len() int { return len(b.items) }

// HasErrors reports whether any diagnostic has Error severity. A
// compilation succeeds iff this is false for the final bag.
func (b *Bag) HasErrors() bool {
	for _, d := range b.items {
		if d.Severity == Error {
			return true
		}
	}
	return false
}

// HasWarnings reports whether any diagnostic has Warning severity.
func (b *Bag) HasWarnings() bool {
	for _, d := range b.items {
		if d.Severity == Warning {
			return true
		}
	}
	return false
}
