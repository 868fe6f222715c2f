// Package ordered provides sorted-array-backed associative containers.
//
// The containers store their elements in one contiguous, growable slice kept
// sorted by a caller-supplied comparator. Compared to a tree or hash map this
// trades O(n) worst-case structural mutation (the tail is shifted on insert
// and erase) for O(log n) binary-search lookup, cache-friendly ordered
// iteration and zero per-element allocation. That is the right trade for
// directory entry tables: lookups and ordered scans vastly outnumber
// mutations, and entries are small.
//
// Four variants are provided:
//   - Map[K, V]: unique keys mapping to values
//   - Set[K]: unique keys, no values
//   - MultiMap[K, V]: duplicate keys allowed, insertion order preserved
//     within a run of equal keys
//   - MultiSet[K]: duplicate keys, no values
//
// All variants share the same core and the same positional model: operations
// report positions as plain integer indexes into the sorted sequence. Any
// structural mutation invalidates positions at or after the mutated index.
//
// Containers are not safe for concurrent use; callers provide their own
// synchronization (see pkg/fs for the directory index locking discipline).
package ordered

// Entry is a single key/value element of a Map or MultiMap.
type Entry[K, V any] struct {
	Key   K
	Value V
}

// Compare is a three-way comparator over keys: negative if a sorts before b,
// zero if the keys are equivalent, positive if a sorts after b. It must
// implement a total order. strings.Compare and bytes.Compare have the right
// shape for byte-string keys.
type Compare[K any] func(a, b K) int
