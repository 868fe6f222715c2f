package fs

import (
	"container/list"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/marmos91/ramfs/internal/logger"
)

// cookieRetries bounds the search for an unused random cookie before the
// table declares its cookie space broken.
const cookieRetries = 64

// CursorTableConfig holds the tunables of a cursor table.
type CursorTableConfig struct {
	// TTL is how long an idle cursor survives between calls. Zero disables
	// expiry. Abandoned listings (never resumed to exhaustion) are reclaimed
	// by this timer.
	TTL time.Duration

	// MaxCursors caps the number of live cursors; when full, the least
	// recently used cursor is evicted to admit a new one. Zero means
	// unlimited.
	MaxCursors int

	// Metrics receives cursor lifecycle events. Nil selects the no-op
	// implementation.
	Metrics Metrics
}

// DefaultCursorTableConfig returns production defaults: five-minute TTL,
// at most 10000 live cursors.
func DefaultCursorTableConfig() CursorTableConfig {
	return CursorTableConfig{TTL: 5 * time.Minute, MaxCursors: 10000}
}

// readdirCursor is one paused iteration over a frozen directory snapshot.
type readdirCursor struct {
	cookie   uint64
	snapshot []DirEntry
	pos      int
	lastUsed time.Time
	lruElem  *list.Element
}

// CursorTable registers paused directory listings under opaque nonzero
// cookies, letting a listing span multiple calls without holding the
// directory lock between them. Each cursor iterates a private snapshot taken
// at creation, so a paged listing is equivalent to one taken atomically at
// cursor-creation time no matter how the directory mutates meanwhile.
//
// The table is an explicit instance rather than ambient package state, so
// independent filesystems (and tests) get independent cookie spaces. One
// mutex guards the whole table; every call is a short, memory-only critical
// section.
//
// Abandoned listings would otherwise pin their snapshots forever, so the
// table reclaims cursors with a TTL plus an LRU cap, both configurable.
type CursorTable struct {
	mu      sync.Mutex
	cursors map[uint64]*readdirCursor
	lru     *list.List // front = most recently used, values are cookies
	ttl     time.Duration
	max     int
	metrics Metrics

	// randUint64 is the cookie source; swapped out in tests to force
	// collisions.
	randUint64 func() uint64
}

// NewCursorTable constructs a cursor table with the given configuration.
func NewCursorTable(cfg CursorTableConfig) *CursorTable {
	m := cfg.Metrics
	if m == nil {
		m = noopMetrics{}
	}
	return &CursorTable{
		cursors:    make(map[uint64]*readdirCursor),
		lru:        list.New(),
		ttl:        cfg.TTL,
		max:        cfg.MaxCursors,
		metrics:    m,
		randUint64: rand.Uint64,
	}
}

// Len returns the number of live cursors.
func (t *CursorTable) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.cursors)
}

// Begin registers a new cursor over snapshot and returns its cookie. The
// cookie is a random nonzero value unique among live cursors; collisions are
// retried a bounded number of times, after which the table reports
// ErrConsistency rather than looping forever.
func (t *CursorTable) Begin(snapshot []DirEntry) (uint64, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.sweepExpiredLocked()
	if t.max > 0 && len(t.cursors) >= t.max {
		t.evictOldestLocked()
	}

	cookie, err := t.freshCookieLocked()
	if err != nil {
		return 0, err
	}

	cur := &readdirCursor{
		cookie:   cookie,
		snapshot: snapshot,
		lastUsed: time.Now(),
	}
	cur.lruElem = t.lru.PushFront(cookie)
	t.cursors[cookie] = cur
	t.metrics.CursorOpened()
	return cookie, nil
}

// Next returns up to max entries from the cursor identified by cookie and
// advances it.
//
// An unknown cookie yields ErrInvalidCursor. A cursor whose position already
// sits at the snapshot end is deleted and yields ErrExhausted, the terminal
// state of the listing; the cookie is invalid afterwards. Otherwise the
// cursor stays registered, including after the call that returns the final
// entries, so the caller's next call observes the exhaustion.
func (t *CursorTable) Next(cookie uint64, max int) ([]DirEntry, error) {
	if max <= 0 {
		return nil, &StoreError{
			Code:    ErrInvalidArgument,
			Message: fmt.Sprintf("batch size %d must be positive", max),
		}
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	cur, ok := t.cursors[cookie]
	if ok && t.expiredLocked(cur) {
		t.dropLocked(cur, "expired")
		ok = false
	}
	if !ok {
		return nil, &StoreError{
			Code:    ErrInvalidCursor,
			Message: fmt.Sprintf("no listing cursor for cookie %d", cookie),
		}
	}

	if cur.pos >= len(cur.snapshot) {
		t.dropLocked(cur, "exhausted")
		return nil, &StoreError{
			Code:    ErrExhausted,
			Message: "listing exhausted",
		}
	}

	end := min(cur.pos+max, len(cur.snapshot))
	batch := cur.snapshot[cur.pos:end:end]
	cur.pos = end
	cur.lastUsed = time.Now()
	t.lru.MoveToFront(cur.lruElem)
	return batch, nil
}

// freshCookieLocked draws a random nonzero cookie not currently in use.
func (t *CursorTable) freshCookieLocked() (uint64, error) {
	for range cookieRetries {
		cookie := t.randUint64()
		if cookie == 0 {
			continue
		}
		if _, taken := t.cursors[cookie]; !taken {
			return cookie, nil
		}
	}
	logger.Error("readdir cookie space exhausted after %d retries (%d live cursors)",
		cookieRetries, len(t.cursors))
	return 0, &StoreError{
		Code:    ErrConsistency,
		Message: "could not allocate a fresh readdir cookie",
	}
}

func (t *CursorTable) expiredLocked(cur *readdirCursor) bool {
	return t.ttl > 0 && time.Since(cur.lastUsed) > t.ttl
}

// sweepExpiredLocked walks the LRU tail and drops cursors past their TTL.
// The list is ordered by recency, so the walk stops at the first live one.
func (t *CursorTable) sweepExpiredLocked() {
	if t.ttl == 0 {
		return
	}
	for {
		oldest := t.lru.Back()
		if oldest == nil {
			break
		}
		cur := t.cursors[oldest.Value.(uint64)]
		if !t.expiredLocked(cur) {
			break
		}
		t.dropLocked(cur, "expired")
	}
}

// evictOldestLocked removes the least recently used cursor to make room.
func (t *CursorTable) evictOldestLocked() {
	oldest := t.lru.Back()
	if oldest == nil {
		return
	}
	cur := t.cursors[oldest.Value.(uint64)]
	t.dropLocked(cur, "evicted")
	logger.Debug("evicted readdir cursor %d at table capacity %d", cur.cookie, t.max)
}

func (t *CursorTable) dropLocked(cur *readdirCursor, reason string) {
	t.lru.Remove(cur.lruElem)
	delete(t.cursors, cur.cookie)
	t.metrics.CursorClosed(reason)
}
