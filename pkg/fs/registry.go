package fs

import "sync"

// Registry is the process-wide table of live filesystem objects, keyed by
// inode number. It owns object lifetime: directories reference their
// children only by number, so removing an object here is what actually ends
// its life.
//
// Thread safety: all operations are guarded by one read-write mutex. The
// registry lock is leaf-level; no registry method takes a directory entry
// lock or an attribute lock.
type Registry struct {
	mu      sync.RWMutex
	nodes   map[uint64]Node
	nextIno uint64
}

// NewRegistry returns an empty registry. Inode numbers start at 1; number 0
// is reserved as the "no inode" sentinel.
func NewRegistry() *Registry {
	return &Registry{nodes: make(map[uint64]Node), nextIno: 1}
}

// AllocateIno reserves and returns a fresh inode number.
func (r *Registry) AllocateIno() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	ino := r.nextIno
	r.nextIno++
	return ino
}

// Put registers a node under its inode number.
func (r *Registry) Put(n Node) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nodes[n.Ino()] = n
}

// GetByNumber returns the node with the given inode number, or nil when no
// live object has that number.
func (r *Registry) GetByNumber(ino uint64) Node {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.nodes[ino]
}

// Remove deletes the node with the given inode number and returns it, or nil
// when absent.
func (r *Registry) Remove(ino uint64) Node {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := r.nodes[ino]
	delete(r.nodes, ino)
	return n
}

// Len returns the number of live objects.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.nodes)
}
