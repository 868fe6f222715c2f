package ordered

// lowerBound returns the first position in the sorted slice whose key is not
// less than key, or len(entries) if every key is smaller. O(log n).
func lowerBound[K, V any](entries []Entry[K, V], cmp Compare[K], key K) int {
	lo, hi := 0, len(entries)
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		if cmp(entries[mid].Key, key) < 0 {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

// upperBound returns the first position in the sorted slice whose key is
// strictly greater than key, or len(entries) if no such key exists. O(log n).
func upperBound[K, V any](entries []Entry[K, V], cmp Compare[K], key K) int {
	lo, hi := 0, len(entries)
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		if cmp(entries[mid].Key, key) <= 0 {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

// search returns the position of key and whether it is present. When the key
// is absent the returned position is its insertion point (the lower bound).
func search[K, V any](entries []Entry[K, V], cmp Compare[K], key K) (int, bool) {
	pos := lowerBound(entries, cmp, key)
	if pos < len(entries) && cmp(entries[pos].Key, key) == 0 {
		return pos, true
	}
	return pos, false
}

// tryHint checks in O(1) whether hint is a usable position for inserting key
// into the sorted slice. It only inspects the hint's immediate neighbors.
//
// Results:
//   - ok=false: the hint is useless (out of range, or inconsistent with the
//     neighbors); the caller must fall back to a full binary search.
//   - ok=true, found=true: an entry with an equal key already sits at pos.
//   - ok=true, found=false: pos is a valid insertion point for key, i.e.
//     every key before pos is <= key and every key at or after pos is >= key.
//
// tryHint never mutates and never panics on a bad hint; combining it with
// lowerBound gives amortized O(1) search for monotonic insertion patterns.
func tryHint[K, V any](entries []Entry[K, V], cmp Compare[K], hint int, key K) (pos int, found, ok bool) {
	n := len(entries)
	if hint < 0 || hint > n {
		return 0, false, false
	}
	// Key must not sort after the entry at the hint.
	if hint < n {
		switch c := cmp(key, entries[hint].Key); {
		case c == 0:
			return hint, true, true
		case c > 0:
			return 0, false, false
		}
	}
	// Key must not sort before the entry preceding the hint.
	if hint > 0 {
		switch c := cmp(entries[hint-1].Key, key); {
		case c == 0:
			return hint - 1, true, true
		case c > 0:
			return 0, false, false
		}
	}
	return hint, false, true
}

// tryHintMulti is the duplicate-tolerant variant of tryHint: any hint whose
// neighbors satisfy prev <= key <= next is accepted as an insertion point,
// including positions inside a run of equal keys. found is never reported
// because multi containers insert unconditionally.
func tryHintMulti[K, V any](entries []Entry[K, V], cmp Compare[K], hint int, key K) (pos int, ok bool) {
	n := len(entries)
	if hint < 0 || hint > n {
		return 0, false
	}
	if hint < n && cmp(key, entries[hint].Key) > 0 {
		return 0, false
	}
	if hint > 0 && cmp(entries[hint-1].Key, key) > 0 {
		return 0, false
	}
	return hint, true
}
