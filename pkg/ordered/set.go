package ordered

import "iter"

// Set is a sorted-array container of unique keys. It shares the Map core
// with an empty value type, so the backing storage is exactly the keys.
type Set[K any] struct {
	core[K, struct{}]
}

// NewSet returns an empty Set ordered by cmp.
func NewSet[K any](cmp Compare[K]) *Set[K] {
	return &Set[K]{core[K, struct{}]{cmp: cmp}}
}

// Len returns the number of keys.
func (s *Set[K]) Len() int { return s.len() }

// Contains reports whether key is present.
func (s *Set[K]) Contains(key K) bool {
	_, ok := search(s.entries, s.cmp, key)
	return ok
}

// Find returns the position of key, or (insertion point, false) when absent.
func (s *Set[K]) Find(key K) (pos int, ok bool) {
	return search(s.entries, s.cmp, key)
}

// At returns the key at pos in sorted order. Panics when pos is out of range.
func (s *Set[K]) At(pos int) K { return s.at(pos).Key }

// Insert adds key if absent and reports its position. An already-present key
// leaves the set unchanged and inserted false.
func (s *Set[K]) Insert(key K) (pos int, inserted bool) {
	pos, found := search(s.entries, s.cmp, key)
	if found {
		return pos, false
	}
	s.insertAt(pos, Entry[K, struct{}]{Key: key})
	return pos, true
}

// InsertWithHint behaves like Insert, first trying hint as the insertion
// point with an O(1) neighbor check and falling back to binary search.
func (s *Set[K]) InsertWithHint(hint int, key K) (pos int, inserted bool) {
	p, found, ok := tryHint(s.entries, s.cmp, hint, key)
	if !ok {
		return s.Insert(key)
	}
	if found {
		return p, false
	}
	s.insertAt(p, Entry[K, struct{}]{Key: key})
	return p, true
}

// InsertRange bulk-inserts keys, discarding duplicates within the input and
// against existing keys.
func (s *Set[K]) InsertRange(keys []K) {
	entries := make([]Entry[K, struct{}], len(keys))
	for i, k := range keys {
		entries[i] = Entry[K, struct{}]{Key: k}
	}
	s.mergeUnique(entries)
}

// Erase removes key and returns the number of keys removed (0 or 1).
func (s *Set[K]) Erase(key K) int {
	pos, found := search(s.entries, s.cmp, key)
	if !found {
		return 0
	}
	return s.eraseRange(pos, pos+1)
}

// EraseAt removes the key at pos. Panics when pos is out of range.
func (s *Set[K]) EraseAt(pos int) { s.eraseRange(pos, pos+1) }

// EraseRange removes keys in [i, j). Panics on an invalid range.
func (s *Set[K]) EraseRange(i, j int) int { return s.eraseRange(i, j) }

// LowerBound returns the first position whose key is not less than key.
func (s *Set[K]) LowerBound(key K) int { return lowerBound(s.entries, s.cmp, key) }

// UpperBound returns the first position whose key is strictly greater
// than key.
func (s *Set[K]) UpperBound(key K) int { return upperBound(s.entries, s.cmp, key) }

// Count returns the number of keys equal to key (0 or 1).
func (s *Set[K]) Count(key K) int {
	if s.Contains(key) {
		return 1
	}
	return 0
}

// All iterates keys in ascending order. The set must not be mutated during
// iteration.
func (s *Set[K]) All() iter.Seq[K] {
	return func(yield func(K) bool) {
		for i := range s.entries {
			if !yield(s.entries[i].Key) {
				return
			}
		}
	}
}

// Keys returns an independent sorted copy of the keys.
func (s *Set[K]) Keys() []K {
	keys := make([]K, len(s.entries))
	for i := range s.entries {
		keys[i] = s.entries[i].Key
	}
	return keys
}

// Clone returns a deep copy of the set sharing only the comparator.
func (s *Set[K]) Clone() *Set[K] {
	return &Set[K]{core[K, struct{}]{cmp: s.cmp, entries: s.clone()}}
}

// Clear removes all keys.
func (s *Set[K]) Clear() { s.clear() }
