package ordered

import "iter"

// MultiSet is a sorted-array container of keys that allows duplicates.
// Duplicate keys keep their insertion order within the equal-key run.
type MultiSet[K any] struct {
	core[K, struct{}]
}

// NewMultiSet returns an empty MultiSet ordered by cmp.
func NewMultiSet[K any](cmp Compare[K]) *MultiSet[K] {
	return &MultiSet[K]{core[K, struct{}]{cmp: cmp}}
}

// Len returns the number of keys, counting duplicates.
func (s *MultiSet[K]) Len() int { return s.len() }

// Contains reports whether at least one key equal to key is present.
func (s *MultiSet[K]) Contains(key K) bool {
	_, ok := search(s.entries, s.cmp, key)
	return ok
}

// Find returns the position of the first key equal to key, or (insertion
// point, false) when absent.
func (s *MultiSet[K]) Find(key K) (pos int, ok bool) {
	return search(s.entries, s.cmp, key)
}

// At returns the key at pos in sorted order. Panics when pos is out of range.
func (s *MultiSet[K]) At(pos int) K { return s.at(pos).Key }

// Insert adds key at the upper bound of its equal-key run and returns the
// position of the new key.
func (s *MultiSet[K]) Insert(key K) int {
	pos := upperBound(s.entries, s.cmp, key)
	s.insertAt(pos, Entry[K, struct{}]{Key: key})
	return pos
}

// InsertWithHint inserts key at hint when the neighbors admit it there,
// falling back to the upper-bound binary search otherwise.
func (s *MultiSet[K]) InsertWithHint(hint int, key K) int {
	pos, ok := tryHintMulti(s.entries, s.cmp, hint, key)
	if !ok {
		pos = upperBound(s.entries, s.cmp, key)
	}
	s.insertAt(pos, Entry[K, struct{}]{Key: key})
	return pos
}

// InsertRange bulk-inserts keys, keeping every duplicate, stable.
func (s *MultiSet[K]) InsertRange(keys []K) {
	entries := make([]Entry[K, struct{}], len(keys))
	for i, k := range keys {
		entries[i] = Entry[K, struct{}]{Key: k}
	}
	s.mergeMulti(entries)
}

// Erase removes the full contiguous run of keys equal to key and returns the
// number removed.
func (s *MultiSet[K]) Erase(key K) int {
	lo, hi := s.EqualRange(key)
	return s.eraseRange(lo, hi)
}

// EraseAt removes the single key at pos. Panics when pos is out of range.
func (s *MultiSet[K]) EraseAt(pos int) { s.eraseRange(pos, pos+1) }

// EraseRange removes keys in [i, j). Panics on an invalid range.
func (s *MultiSet[K]) EraseRange(i, j int) int { return s.eraseRange(i, j) }

// LowerBound returns the first position whose key is not less than key.
func (s *MultiSet[K]) LowerBound(key K) int { return lowerBound(s.entries, s.cmp, key) }

// UpperBound returns the first position whose key is strictly greater
// than key.
func (s *MultiSet[K]) UpperBound(key K) int { return upperBound(s.entries, s.cmp, key) }

// EqualRange returns the half-open position range [lo, hi) spanning the run
// of keys equal to key.
func (s *MultiSet[K]) EqualRange(key K) (lo, hi int) {
	return lowerBound(s.entries, s.cmp, key), upperBound(s.entries, s.cmp, key)
}

// Count returns the number of keys equal to key.
func (s *MultiSet[K]) Count(key K) int {
	lo, hi := s.EqualRange(key)
	return hi - lo
}

// All iterates keys in ascending order, duplicates in insertion order. The
// set must not be mutated during iteration.
func (s *MultiSet[K]) All() iter.Seq[K] {
	return func(yield func(K) bool) {
		for i := range s.entries {
			if !yield(s.entries[i].Key) {
				return
			}
		}
	}
}

// Keys returns an independent sorted copy of the keys.
func (s *MultiSet[K]) Keys() []K {
	keys := make([]K, len(s.entries))
	for i := range s.entries {
		keys[i] = s.entries[i].Key
	}
	return keys
}

// Clone returns a deep copy of the multiset sharing only the comparator.
func (s *MultiSet[K]) Clone() *MultiSet[K] {
	return &MultiSet[K]{core[K, struct{}]{cmp: s.cmp, entries: s.clone()}}
}

// Clear removes all keys.
func (s *MultiSet[K]) Clear() { s.clear() }
