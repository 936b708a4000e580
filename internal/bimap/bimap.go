// Package bimap provides a bijective map between two comparable types.
package bimap

// Map is a one-to-one mapping between keys and values.
//
// Every mutation keeps the forward and reverse directions mutual inverses:
// for each stored pair, Value(k) returns v and Key(v) returns k. Putting a
// pair evicts any earlier pair that shared either its key or its value.
//
// Map is not safe for concurrent use; callers must synchronize.
type Map[K, V comparable] struct {
	forward map[K]V
	reverse map[V]K
}

// New creates an empty Map with room for size pairs.
func New[K, V comparable](size int) *Map[K, V] {
	return &Map[K, V]{
		forward: make(map[K]V, size),
		reverse: make(map[V]K, size),
	}
}

// Put stores the pair (k, v).
// Any pair previously holding k or v is removed first.
// It reports whether an existing pair was displaced.
func (m *Map[K, V]) Put(k K, v V) bool {
	if old, ok := m.forward[k]; ok && old == v {
		return false
	}
	displaced := m.DeleteKey(k)
	if m.DeleteValue(v) {
		displaced = true
	}
	m.forward[k] = v
	m.reverse[v] = k
	return displaced
}

// Value returns the value paired with k.
func (m *Map[K, V]) Value(k K) (V, bool) {
	v, ok := m.forward[k]
	return v, ok
}

// Key returns the key paired with v.
func (m *Map[K, V]) Key(v V) (K, bool) {
	k, ok := m.reverse[v]
	return k, ok
}

// DeleteKey removes the pair holding k.
// It reports whether a pair was removed.
func (m *Map[K, V]) DeleteKey(k K) bool {
	v, ok := m.forward[k]
	if !ok {
		return false
	}
	delete(m.forward, k)
	delete(m.reverse, v)
	return true
}

// DeleteValue removes the pair holding v.
// It reports whether a pair was removed.
func (m *Map[K, V]) DeleteValue(v V) bool {
	k, ok := m.reverse[v]
	if !ok {
		return false
	}
	delete(m.reverse, v)
	delete(m.forward, k)
	return true
}

// Len returns the number of pairs.
func (m *Map[K, V]) Len() int {
	return len(m.forward)
}

// Keys returns all keys in unspecified order.
func (m *Map[K, V]) Keys() []K {
	keys := make([]K, 0, len(m.forward))
	for k := range m.forward {
		keys = append(keys, k)
	}
	return keys
}
