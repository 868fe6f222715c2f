package ordered

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMultiMap_DuplicatesStable(t *testing.T) {
	m := NewMultiMap[string, int](strings.Compare)

	m.Insert("a", 1)
	m.Insert("a", 2)
	m.Insert("a", 3)

	require.Equal(t, 3, m.Len())
	assert.Equal(t, 3, m.Count("a"))

	// Values sit in insertion order within the equal-key run.
	lo, hi := m.EqualRange("a")
	var values []int
	for i := lo; i < hi; i++ {
		values = append(values, m.At(i).Value)
	}
	assert.Equal(t, []int{1, 2, 3}, values)
}

// TestMultiMap_EraseMiddleByPosition checks the stability property: after
// inserting [a,a,a] and erasing the second occurrence by position, the
// remaining two keep their original relative order.
func TestMultiMap_EraseMiddleByPosition(t *testing.T) {
	m := NewMultiMap[string, int](strings.Compare)
	m.Insert("a", 1)
	m.Insert("a", 2)
	m.Insert("a", 3)

	m.EraseAt(1)

	require.Equal(t, 2, m.Len())
	assert.Equal(t, 1, m.At(0).Value)
	assert.Equal(t, 3, m.At(1).Value)
}

func TestMultiMap_EraseRemovesFullRun(t *testing.T) {
	m := NewMultiMap[string, int](strings.Compare)
	m.Insert("a", 1)
	m.Insert("b", 1)
	m.Insert("b", 2)
	m.Insert("b", 3)
	m.Insert("c", 1)

	assert.Equal(t, 3, m.Erase("b"))
	assert.Equal(t, 0, m.Erase("b"))
	assert.Equal(t, 2, m.Len())
	assert.Equal(t, 0, m.Count("b"))
	assert.Equal(t, 1, m.Count("a"))
	assert.Equal(t, 1, m.Count("c"))
}

func TestMultiMap_InsertWithHint(t *testing.T) {
	reference := NewMultiMap[string, int](strings.Compare)
	for i, k := range []string{"b", "a", "b", "c", "b"} {
		reference.Insert(k, i)
	}

	// A wrong hint must still produce a sorted sequence of the same length.
	for hint := -1; hint <= 6; hint++ {
		m := NewMultiMap[string, int](strings.Compare)
		for i, k := range []string{"b", "a", "b", "c", "b"} {
			m.InsertWithHint(hint, k, i)
		}
		require.Equal(t, reference.Len(), m.Len(), "hint %d lost entries", hint)

		entries := m.Entries()
		for i := 1; i < len(entries); i++ {
			require.LessOrEqual(t, strings.Compare(entries[i-1].Key, entries[i].Key), 0,
				"hint %d broke sortedness", hint)
		}
	}
}

func TestMultiMap_InsertRangeStable(t *testing.T) {
	m := NewMultiMap[string, int](strings.Compare)
	m.Insert("b", 1)
	m.Insert("b", 2)

	m.InsertRange([]Entry[string, int]{{"b", 3}, {"a", 1}, {"b", 4}})

	require.Equal(t, 5, m.Len())

	// Existing run first, then incoming in their original order.
	lo, hi := m.EqualRange("b")
	var values []int
	for i := lo; i < hi; i++ {
		values = append(values, m.At(i).Value)
	}
	assert.Equal(t, []int{1, 2, 3, 4}, values)
}

func TestMultiSet_Basics(t *testing.T) {
	s := NewMultiSet[int](func(a, b int) int { return a - b })

	s.Insert(5)
	s.Insert(3)
	s.Insert(5)
	s.Insert(5)

	assert.Equal(t, 4, s.Len())
	assert.Equal(t, 3, s.Count(5))
	assert.True(t, s.Contains(3))

	lo, hi := s.EqualRange(5)
	assert.Equal(t, 1, lo)
	assert.Equal(t, 4, hi)

	assert.Equal(t, 3, s.Erase(5))
	assert.False(t, s.Contains(5))
	assert.Equal(t, []int{3}, s.Keys())
}

func TestMultiSet_InsertRange(t *testing.T) {
	s := NewMultiSet[int](func(a, b int) int { return a - b })
	s.InsertRange([]int{4, 1, 4, 2})

	assert.Equal(t, []int{1, 2, 4, 4}, s.Keys())

	s.InsertRange([]int{3, 4})
	assert.Equal(t, []int{1, 2, 3, 4, 4, 4}, s.Keys())
}
