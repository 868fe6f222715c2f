package ordered

import (
	"fmt"
	"iter"
	"slices"
)

// core holds the state shared by every container variant: the comparator and
// the contiguous sorted backing slice. The variant types layer their unique-
// or multi-key insertion and erase policies on top of it.
type core[K, V any] struct {
	cmp     Compare[K]
	entries []Entry[K, V]
}

func (c *core[K, V]) len() int { return len(c.entries) }

// at returns the entry at pos. pos must be in [0, Len()); out-of-range access
// is a caller bug and panics, matching the contract that direct positional
// access requires presence.
func (c *core[K, V]) at(pos int) Entry[K, V] {
	if pos < 0 || pos >= len(c.entries) {
		panic(fmt.Sprintf("ordered: position %d out of range [0,%d)", pos, len(c.entries)))
	}
	return c.entries[pos]
}

// insertAt places e at pos, shifting the tail right by one. Positions at or
// after pos are invalidated.
func (c *core[K, V]) insertAt(pos int, e Entry[K, V]) {
	c.entries = slices.Insert(c.entries, pos, e)
}

// eraseRange removes entries in [i, j) and closes the gap by shifting the
// tail left. Returns the number of entries removed.
func (c *core[K, V]) eraseRange(i, j int) int {
	if i < 0 || j > len(c.entries) || i > j {
		panic(fmt.Sprintf("ordered: erase range [%d,%d) out of range [0,%d)", i, j, len(c.entries)))
	}
	c.entries = slices.Delete(c.entries, i, j)
	return j - i
}

func (c *core[K, V]) clear() { c.entries = nil }

// clone returns an independent copy of the backing slice.
func (c *core[K, V]) clone() []Entry[K, V] {
	return slices.Clone(c.entries)
}

// all iterates entries in ascending key order. The container must not be
// structurally mutated while the iteration is live.
func (c *core[K, V]) all() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for i := range c.entries {
			if !yield(c.entries[i].Key, c.entries[i].Value) {
				return
			}
		}
	}
}

// backward iterates entries in descending key order.
func (c *core[K, V]) backward() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for i := len(c.entries) - 1; i >= 0; i-- {
			if !yield(c.entries[i].Key, c.entries[i].Value) {
				return
			}
		}
	}
}

// sortedCopy copies incoming into a scratch slice and stable-sorts it by key
// unless it is already sorted. The input slice is never modified.
func sortedCopy[K, V any](cmp Compare[K], incoming []Entry[K, V]) []Entry[K, V] {
	scratch := slices.Clone(incoming)
	if !slices.IsSortedFunc(scratch, func(a, b Entry[K, V]) int { return cmp(a.Key, b.Key) }) {
		slices.SortStableFunc(scratch, func(a, b Entry[K, V]) int { return cmp(a.Key, b.Key) })
	}
	return scratch
}

// mergeUnique merges incoming (arbitrary order, duplicates allowed) into the
// sorted backing slice in one pass, keeping keys unique. The first value
// encountered for a key wins: entries already present beat incoming ones, and
// an earlier incoming entry beats a later duplicate. Cost is dominated by the
// stable sort of unsorted input, O((n+m) log m); the merge itself is O(n+m).
func (c *core[K, V]) mergeUnique(incoming []Entry[K, V]) {
	if len(incoming) == 0 {
		return
	}
	scratch := sortedCopy(c.cmp, incoming)

	merged := make([]Entry[K, V], 0, len(c.entries)+len(scratch))
	i, j := 0, 0
	for i < len(c.entries) && j < len(scratch) {
		switch cv := c.cmp(c.entries[i].Key, scratch[j].Key); {
		case cv < 0:
			merged = append(merged, c.entries[i])
			i++
		case cv > 0:
			merged = appendUnique(merged, c.cmp, scratch[j])
			j++
		default:
			// Existing entry wins; the incoming duplicate is discarded.
			merged = append(merged, c.entries[i])
			i++
			j++
		}
	}
	merged = append(merged, c.entries[i:]...)
	for ; j < len(scratch); j++ {
		merged = appendUnique(merged, c.cmp, scratch[j])
	}
	c.entries = merged
}

// appendUnique appends e unless its key equals the key of the last merged
// entry, which happens when the incoming range itself carries duplicates
// (stable sort keeps the first occurrence in front).
func appendUnique[K, V any](merged []Entry[K, V], cmp Compare[K], e Entry[K, V]) []Entry[K, V] {
	if n := len(merged); n > 0 && cmp(merged[n-1].Key, e.Key) == 0 {
		return merged
	}
	return append(merged, e)
}

// mergeMulti merges incoming into the sorted backing slice keeping every
// entry. The merge is stable: existing entries precede incoming entries with
// equal keys, and incoming duplicates keep their relative order.
func (c *core[K, V]) mergeMulti(incoming []Entry[K, V]) {
	if len(incoming) == 0 {
		return
	}
	scratch := sortedCopy(c.cmp, incoming)

	merged := make([]Entry[K, V], 0, len(c.entries)+len(scratch))
	i, j := 0, 0
	for i < len(c.entries) && j < len(scratch) {
		// <= keeps existing entries ahead of equal incoming keys.
		if c.cmp(c.entries[i].Key, scratch[j].Key) <= 0 {
			merged = append(merged, c.entries[i])
			i++
		} else {
			merged = append(merged, scratch[j])
			j++
		}
	}
	merged = append(merged, c.entries[i:]...)
	merged = append(merged, scratch[j:]...)
	c.entries = merged
}
