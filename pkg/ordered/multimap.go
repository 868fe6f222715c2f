package ordered

import "iter"

// MultiMap is a sorted-array associative container that allows multiple
// entries with equal keys. Insertion is stable: a new entry is placed after
// every existing entry with an equal key, so the relative order within an
// equal-key run always reflects insertion order.
type MultiMap[K, V any] struct {
	core[K, V]
}

// NewMultiMap returns an empty MultiMap ordered by cmp.
func NewMultiMap[K, V any](cmp Compare[K]) *MultiMap[K, V] {
	return &MultiMap[K, V]{core[K, V]{cmp: cmp}}
}

// Len returns the number of entries, counting duplicates.
func (m *MultiMap[K, V]) Len() int { return m.len() }

// Find returns the position of the first entry with the given key, or
// (insertion point, false) when no such entry exists.
func (m *MultiMap[K, V]) Find(key K) (pos int, ok bool) {
	return search(m.entries, m.cmp, key)
}

// At returns the entry at pos in key order. Panics when pos is out of range.
func (m *MultiMap[K, V]) At(pos int) Entry[K, V] { return m.at(pos) }

// Insert adds key→value at the upper bound of its equal-key run, keeping the
// run in insertion order, and returns the position of the new entry.
func (m *MultiMap[K, V]) Insert(key K, value V) int {
	pos := upperBound(m.entries, m.cmp, key)
	m.insertAt(pos, Entry[K, V]{Key: key, Value: value})
	return pos
}

// InsertWithHint inserts key→value at hint when the hint's immediate
// neighbors admit the key there (prev <= key <= next), falling back to the
// upper-bound binary search otherwise. A hint inside an equal-key run places
// the entry at the hinted position rather than at the end of the run.
func (m *MultiMap[K, V]) InsertWithHint(hint int, key K, value V) int {
	pos, ok := tryHintMulti(m.entries, m.cmp, hint, key)
	if !ok {
		pos = upperBound(m.entries, m.cmp, key)
	}
	m.insertAt(pos, Entry[K, V]{Key: key, Value: value})
	return pos
}

// InsertRange bulk-inserts entries, keeping every duplicate. The input is
// copied, stable-sorted if unsorted and merged in one pass; existing entries
// precede incoming entries with equal keys and incoming duplicates keep their
// relative order.
func (m *MultiMap[K, V]) InsertRange(entries []Entry[K, V]) {
	m.mergeMulti(entries)
}

// Erase removes every entry whose key equals key (the full contiguous run)
// and returns the number removed.
func (m *MultiMap[K, V]) Erase(key K) int {
	lo, hi := m.EqualRange(key)
	return m.eraseRange(lo, hi)
}

// EraseAt removes the single entry at pos. Panics when pos is out of range.
func (m *MultiMap[K, V]) EraseAt(pos int) { m.eraseRange(pos, pos+1) }

// EraseRange removes entries in [i, j). Panics on an invalid range.
func (m *MultiMap[K, V]) EraseRange(i, j int) int { return m.eraseRange(i, j) }

// LowerBound returns the first position whose key is not less than key.
func (m *MultiMap[K, V]) LowerBound(key K) int { return lowerBound(m.entries, m.cmp, key) }

// UpperBound returns the first position whose key is strictly greater
// than key.
func (m *MultiMap[K, V]) UpperBound(key K) int { return upperBound(m.entries, m.cmp, key) }

// EqualRange returns the half-open position range [lo, hi) spanning the
// contiguous run of entries whose key equals key.
func (m *MultiMap[K, V]) EqualRange(key K) (lo, hi int) {
	return lowerBound(m.entries, m.cmp, key), upperBound(m.entries, m.cmp, key)
}

// Count returns the number of entries with the given key.
func (m *MultiMap[K, V]) Count(key K) int {
	lo, hi := m.EqualRange(key)
	return hi - lo
}

// All iterates entries in ascending key order, duplicates in insertion
// order. The map must not be mutated during iteration.
func (m *MultiMap[K, V]) All() iter.Seq2[K, V] { return m.all() }

// Backward iterates entries in descending key order.
func (m *MultiMap[K, V]) Backward() iter.Seq2[K, V] { return m.backward() }

// Entries returns an independent copy of the sorted entry sequence.
func (m *MultiMap[K, V]) Entries() []Entry[K, V] { return m.clone() }

// Clone returns a deep copy of the multimap sharing only the comparator.
func (m *MultiMap[K, V]) Clone() *MultiMap[K, V] {
	return &MultiMap[K, V]{core[K, V]{cmp: m.cmp, entries: m.clone()}}
}

// Clear removes all entries.
func (m *MultiMap[K, V]) Clear() { m.clear() }
