package ordered

import "iter"

// Map is a sorted-array associative container with unique keys.
//
// Lookup is O(log n) binary search; insert and erase are O(n) worst case
// because the contiguous tail is shifted. Iteration walks the backing slice
// in key order. The zero Map is not usable; construct with NewMap.
type Map[K, V any] struct {
	core[K, V]
}

// NewMap returns an empty Map ordered by cmp.
func NewMap[K, V any](cmp Compare[K]) *Map[K, V] {
	return &Map[K, V]{core[K, V]{cmp: cmp}}
}

// Len returns the number of entries.
func (m *Map[K, V]) Len() int { return m.len() }

// Find returns the position of key, or (insertion point, false) when absent.
func (m *Map[K, V]) Find(key K) (pos int, ok bool) {
	return search(m.entries, m.cmp, key)
}

// Get returns the value mapped to key. The second result reports presence;
// an absent key yields the zero value, never a panic.
func (m *Map[K, V]) Get(key K) (V, bool) {
	if pos, ok := search(m.entries, m.cmp, key); ok {
		return m.entries[pos].Value, true
	}
	var zero V
	return zero, false
}

// At returns the entry at pos in key order. Panics when pos is out of range.
func (m *Map[K, V]) At(pos int) Entry[K, V] { return m.at(pos) }

// Insert adds key→value if key is absent and reports the key's position.
// When an equal key already exists nothing is mutated, the existing entry's
// position is returned and inserted is false.
func (m *Map[K, V]) Insert(key K, value V) (pos int, inserted bool) {
	pos, found := search(m.entries, m.cmp, key)
	if found {
		return pos, false
	}
	m.insertAt(pos, Entry[K, V]{Key: key, Value: value})
	return pos, true
}

// InsertWithHint behaves exactly like Insert but first checks, in O(1),
// whether hint is a valid insertion point by comparing against the hint's
// immediate neighbors. A correct hint (typically the position returned by the
// previous insertion, plus one) makes sequential insertion amortized O(1);
// a wrong hint falls back to the binary-search path and costs nothing but
// the two comparisons.
func (m *Map[K, V]) InsertWithHint(hint int, key K, value V) (pos int, inserted bool) {
	p, found, ok := tryHint(m.entries, m.cmp, hint, key)
	if !ok {
		return m.Insert(key, value)
	}
	if found {
		return p, false
	}
	m.insertAt(p, Entry[K, V]{Key: key, Value: value})
	return p, true
}

// InsertRange bulk-inserts entries. The input may be unsorted and may contain
// duplicate keys; it is copied to a scratch buffer, stable-sorted if needed
// and merged with the existing sequence in a single pass. For every key the
// first-encountered value wins: entries already in the map beat incoming
// ones, earlier incoming entries beat later duplicates.
func (m *Map[K, V]) InsertRange(entries []Entry[K, V]) {
	m.mergeUnique(entries)
}

// Set maps key to value unconditionally, inserting or overwriting, and
// reports whether a new entry was created.
func (m *Map[K, V]) Set(key K, value V) (pos int, created bool) {
	pos, found := search(m.entries, m.cmp, key)
	if found {
		m.entries[pos].Value = value
		return pos, false
	}
	m.insertAt(pos, Entry[K, V]{Key: key, Value: value})
	return pos, true
}

// Erase removes the entry with the given key, closing the gap by shifting the
// tail left. Returns the number of entries removed (0 or 1).
func (m *Map[K, V]) Erase(key K) int {
	pos, found := search(m.entries, m.cmp, key)
	if !found {
		return 0
	}
	return m.eraseRange(pos, pos+1)
}

// EraseAt removes the entry at pos. Panics when pos is out of range.
func (m *Map[K, V]) EraseAt(pos int) { m.eraseRange(pos, pos+1) }

// EraseRange removes entries in [i, j). Panics on an invalid range.
func (m *Map[K, V]) EraseRange(i, j int) int { return m.eraseRange(i, j) }

// LowerBound returns the first position whose key is not less than key.
func (m *Map[K, V]) LowerBound(key K) int { return lowerBound(m.entries, m.cmp, key) }

// UpperBound returns the first position whose key is strictly greater
// than key.
func (m *Map[K, V]) UpperBound(key K) int { return upperBound(m.entries, m.cmp, key) }

// EqualRange returns the half-open position range [lo, hi) of entries whose
// key equals key; for a unique-key map the range spans at most one entry.
func (m *Map[K, V]) EqualRange(key K) (lo, hi int) {
	lo = lowerBound(m.entries, m.cmp, key)
	if lo < len(m.entries) && m.cmp(m.entries[lo].Key, key) == 0 {
		return lo, lo + 1
	}
	return lo, lo
}

// Count returns the number of entries with the given key (0 or 1).
func (m *Map[K, V]) Count(key K) int {
	lo, hi := m.EqualRange(key)
	return hi - lo
}

// All iterates entries in ascending key order. The map must not be mutated
// during iteration.
func (m *Map[K, V]) All() iter.Seq2[K, V] { return m.all() }

// Backward iterates entries in descending key order.
func (m *Map[K, V]) Backward() iter.Seq2[K, V] { return m.backward() }

// Entries returns an independent copy of the sorted entry sequence.
func (m *Map[K, V]) Entries() []Entry[K, V] { return m.clone() }

// Clone returns a deep copy of the map sharing only the comparator.
func (m *Map[K, V]) Clone() *Map[K, V] {
	return &Map[K, V]{core[K, V]{cmp: m.cmp, entries: m.clone()}}
}

// Clear removes all entries.
func (m *Map[K, V]) Clear() { m.clear() }
