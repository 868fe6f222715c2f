package fs

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSnapshot(names ...string) []DirEntry {
	entries := make([]DirEntry, len(names))
	for i, name := range names {
		entries[i] = DirEntry{Name: name, Ino: uint64(i + 1)}
	}
	return entries
}

func TestCursorTable_BeginIssuesNonzeroCookies(t *testing.T) {
	table := NewCursorTable(DefaultCursorTableConfig())

	seen := make(map[uint64]bool)
	for range 100 {
		cookie, err := table.Begin(testSnapshot("a"))
		require.NoError(t, err)
		require.NotZero(t, cookie)
		require.False(t, seen[cookie], "cookie %d issued twice among live cursors", cookie)
		seen[cookie] = true
	}
	assert.Equal(t, 100, table.Len())
}

func TestCursorTable_CookieCollisionRetry(t *testing.T) {
	table := NewCursorTable(DefaultCursorTableConfig())

	draws := []uint64{7}
	table.randUint64 = func() uint64 {
		d := draws[0]
		if len(draws) > 1 {
			draws = draws[1:]
		}
		return d
	}

	first, err := table.Begin(testSnapshot("a"))
	require.NoError(t, err)
	require.Equal(t, uint64(7), first)

	// Zero and the taken cookie are both rejected before a fresh draw lands.
	draws = []uint64{0, 7, 9}
	second, err := table.Begin(testSnapshot("b"))
	require.NoError(t, err)
	assert.Equal(t, uint64(9), second)
	assert.Equal(t, 2, table.Len())
}

func TestCursorTable_CookieSpaceExhausted(t *testing.T) {
	table := NewCursorTable(DefaultCursorTableConfig())
	table.randUint64 = func() uint64 { return 7 }

	_, err := table.Begin(testSnapshot("a"))
	require.NoError(t, err)

	// Every draw now collides; the bounded retry gives up instead of
	// spinning forever.
	_, err = table.Begin(testSnapshot("b"))
	require.True(t, IsCode(err, ErrConsistency))
	assert.Equal(t, 1, table.Len())
}

func TestCursorTable_Paging(t *testing.T) {
	table := NewCursorTable(DefaultCursorTableConfig())
	cookie, err := table.Begin(testSnapshot("a", "b", "c", "d", "e"))
	require.NoError(t, err)

	batch, err := table.Next(cookie, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, entryNames(batch))

	batch, err = table.Next(cookie, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "d"}, entryNames(batch))

	// The final batch is shorter; the cursor stays registered until the
	// exhaustion is observed.
	batch, err = table.Next(cookie, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"e"}, entryNames(batch))
	assert.Equal(t, 1, table.Len())

	_, err = table.Next(cookie, 2)
	require.True(t, IsCode(err, ErrExhausted))
	assert.Zero(t, table.Len())

	// The cookie is invalid once the listing terminated.
	_, err = table.Next(cookie, 2)
	assert.True(t, IsCode(err, ErrInvalidCursor))
}

func TestCursorTable_UnknownCookie(t *testing.T) {
	table := NewCursorTable(DefaultCursorTableConfig())

	_, err := table.Next(12345, 10)
	assert.True(t, IsCode(err, ErrInvalidCursor))
}

func TestCursorTable_InvalidBatchSize(t *testing.T) {
	table := NewCursorTable(DefaultCursorTableConfig())
	cookie, err := table.Begin(testSnapshot("a"))
	require.NoError(t, err)

	_, err = table.Next(cookie, 0)
	assert.True(t, IsCode(err, ErrInvalidArgument))
	_, err = table.Next(cookie, -1)
	assert.True(t, IsCode(err, ErrInvalidArgument))
}

func TestCursorTable_EmptySnapshot(t *testing.T) {
	table := NewCursorTable(DefaultCursorTableConfig())
	cookie, err := table.Begin(nil)
	require.NoError(t, err)

	_, err = table.Next(cookie, 10)
	assert.True(t, IsCode(err, ErrExhausted))
	assert.Zero(t, table.Len())
}

func TestCursorTable_TTLExpiry(t *testing.T) {
	table := NewCursorTable(CursorTableConfig{TTL: 10 * time.Millisecond})
	cookie, err := table.Begin(testSnapshot("a", "b"))
	require.NoError(t, err)

	time.Sleep(30 * time.Millisecond)

	_, err = table.Next(cookie, 1)
	assert.True(t, IsCode(err, ErrInvalidCursor), "an expired cursor behaves like an unknown cookie")
	assert.Zero(t, table.Len())
}

func TestCursorTable_LRUCapEviction(t *testing.T) {
	table := NewCursorTable(CursorTableConfig{MaxCursors: 2})

	first, err := table.Begin(testSnapshot("a"))
	require.NoError(t, err)
	second, err := table.Begin(testSnapshot("b"))
	require.NoError(t, err)

	// Touch the first cursor so the second becomes least recently used.
	_, err = table.Next(first, 1)
	require.NoError(t, err)

	third, err := table.Begin(testSnapshot("c"))
	require.NoError(t, err)
	assert.Equal(t, 2, table.Len())

	_, err = table.Next(second, 1)
	assert.True(t, IsCode(err, ErrInvalidCursor), "the LRU cursor must have been evicted")

	_, err = table.Next(third, 1)
	assert.NoError(t, err)
}

func TestList_InvalidBatchSizeRegistersNoCursor(t *testing.T) {
	filesystem := New(DefaultConfig())
	root := filesystem.Root()

	for _, max := range []int{0, -1} {
		_, err := filesystem.List(root, 0, max)
		assert.True(t, IsCode(err, ErrInvalidArgument), "batch size %d must be rejected", max)
	}
	assert.Zero(t, filesystem.cursors.Len(), "a rejected listing must not leave a cursor behind")
}

// TestList_SnapshotIsolation runs the full isolation scenario: a directory
// holding {A,B,C} is listed page by page while B is removed and D added
// mid-listing; the listing still yields exactly {A,B,C}, then terminates,
// then the cookie is invalid.
func TestList_SnapshotIsolation(t *testing.T) {
	filesystem := New(DefaultConfig())
	root := filesystem.Root()

	dir, err := filesystem.Mkdir(root, "dir", 0o755, 0, 0)
	require.NoError(t, err)
	require.NoError(t, dir.Add("A", 100))
	require.NoError(t, dir.Add("B", 101))
	require.NoError(t, dir.Add("C", 102))

	// First page: ".", "..", "A" in sorted order.
	page, err := filesystem.List(dir, 0, 3)
	require.NoError(t, err)
	require.False(t, page.EOF)
	assert.Equal(t, []string{".", "..", "A"}, entryNames(page.Entries))
	cookie := page.Cookie
	require.NotZero(t, cookie)

	// Mutate the directory mid-listing.
	require.NoError(t, dir.Remove("B"))
	require.NoError(t, dir.Add("D", 103))

	// The listing still serves the frozen snapshot.
	page, err = filesystem.List(dir, cookie, 3)
	require.NoError(t, err)
	require.False(t, page.EOF)
	assert.Equal(t, []string{"B", "C"}, entryNames(page.Entries))

	// Next call observes the exhaustion.
	page, err = filesystem.List(dir, cookie, 3)
	require.NoError(t, err)
	assert.True(t, page.EOF)
	assert.Empty(t, page.Entries)

	// The cookie is dead afterwards.
	_, err = filesystem.List(dir, cookie, 3)
	assert.True(t, IsCode(err, ErrInvalidCursor))

	// A fresh listing sees the mutated directory.
	page, err = filesystem.List(dir, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{".", "..", "A", "C", "D"}, entryNames(page.Entries))
}

func entryNames(entries []DirEntry) []string {
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	return names
}

func ExampleFilesystem_List() {
	filesystem := New(DefaultConfig())
	root := filesystem.Root()

	for _, name := range []string{"beta", "alpha", "gamma"} {
		if _, err := filesystem.CreateFile(root, name, 0o644, 0, 0); err != nil {
			panic(err)
		}
	}

	cookie := uint64(0)
	for {
		page, err := filesystem.List(root, cookie, 2)
		if err != nil {
			panic(err)
		}
		if page.EOF {
			break
		}
		for _, entry := range page.Entries {
			fmt.Println(entry.Name)
		}
		cookie = page.Cookie
	}
	// Output:
	// .
	// ..
	// alpha
	// beta
	// gamma
}
