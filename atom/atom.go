// Package atom interns strings as small integer identifiers.
//
// An Atom stands in for a string when crossing a boundary where passing
// strings is costly, for example a font family name handed from a guest
// module to the drawing surface. Atoms are process-local: they have no
// persisted or transmitted representation.
//
// A Table is created explicitly and handed to every component that needs it:
//
//	atoms := atom.NewTable()
//	atoms.Register(5, "Arial")
//	name, ok := atoms.String(5) // "Arial", true
package atom

import (
	"hash/fnv"
	"iter"
	"slices"
	"sync"

	"github.com/gogpu/glyphhost/internal/bimap"
)

// Atom is a numeric identifier for a registered string.
type Atom uint32

// Table is a bidirectional mapping between atoms and strings.
//
// The two directions are always mutual inverses: registering a pair removes
// any earlier pair that used the same atom or the same string.
//
// Table is safe for concurrent use.
type Table struct {
	mu    sync.RWMutex
	pairs *bimap.Map[Atom, string]
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{pairs: bimap.New[Atom, string](64)}
}

// String returns the string registered for a.
// The boolean is false if a was never registered.
func (t *Table) String(a Atom) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.pairs.Value(a)
}

// Number returns the atom registered for s.
// The boolean is false if s was never registered.
func (t *Table) Number(s string) (Atom, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.pairs.Key(s)
}

// Has reports whether a is registered.
func (t *Table) Has(a Atom) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.pairs.Value(a)
	return ok
}

// Register pairs a with s.
//
// Callers own atom allocation. Reusing a for a different string replaces the
// old pair entirely: the old string no longer resolves to a.
func (t *Table) Register(a Atom, s string) {
	t.mu.Lock()
	t.pairs.Put(a, s)
	t.mu.Unlock()
}

// Intern returns the atom for s, registering it if needed.
//
// New atoms are derived from the 32-bit FNV-1a hash of s. When that value is
// already owned by another string the next free value is used, so Intern
// never takes over a pair registered by someone else.
func (t *Table) Intern(s string) Atom {
	t.mu.RLock()
	a, ok := t.pairs.Key(s)
	t.mu.RUnlock()
	if ok {
		return a
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if a, ok := t.pairs.Key(s); ok {
		return a
	}
	a = Hash(s)
	for {
		if _, taken := t.pairs.Value(a); !taken {
			break
		}
		a++
	}
	t.pairs.Put(a, s)
	return a
}

// Len returns the number of registered pairs.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.pairs.Len()
}

// All iterates over a snapshot of the table ordered by atom.
func (t *Table) All() iter.Seq2[Atom, string] {
	t.mu.RLock()
	keys := t.pairs.Keys()
	values := make(map[Atom]string, len(keys))
	for _, k := range keys {
		values[k], _ = t.pairs.Value(k)
	}
	t.mu.RUnlock()
	slices.Sort(keys)

	return func(yield func(Atom, string) bool) {
		for _, k := range keys {
			if !yield(k, values[k]) {
				return
			}
		}
	}
}

// Hash returns the 32-bit FNV-1a hash of s as an Atom.
// It is the preferred atom for s but not necessarily the one Intern assigns.
func Hash(s string) Atom {
	h := fnv.New32a()
	_, _ = h.Write([]byte(s)) // fnv.Write never returns an error
	return Atom(h.Sum32())
}
