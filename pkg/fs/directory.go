package fs

import (
	"strings"
	"sync"

	"github.com/marmos91/ramfs/pkg/ordered"
)

// DirEntry is one (name, inode number) pair of a directory listing.
type DirEntry struct {
	Name string
	Ino  uint64
}

// SelfName and ParentName are the conventional self and parent
// back-reference entries. They are stored as ordinary entries holding inode
// numbers; object ownership lives entirely in the Registry, so the
// back-references create no cycle in this core.
const (
	SelfName   = "."
	ParentName = ".."
)

// Directory is the authoritative, concurrency-safe name→inode-number table
// of one directory.
//
// The entry table is an ordered.Map guarded by its own reader/writer lock,
// separate from the inode attribute lock: Lookup, IsEmpty and Snapshot run
// under shared access and proceed concurrently with each other, while Add,
// Update and Remove hold exclusive access for their whole duration. The
// accounting update triggered by Add/Remove happens while the entry lock is
// still held (no observable skew between entry state and reported size) but
// runs under the attribute lock, keeping the two locks layered, never
// entangled.
type Directory struct {
	inode

	childMu  sync.RWMutex
	children *ordered.Map[string, uint64]

	space   SpaceChecker
	acct    Accountant
	resolve Resolver
}

// NewDirectory creates a directory index bound to its collaborators. The
// space checker and resolver may be nil (no space limit, every entry treated
// as live); the accountant must not be, as every entry mutation reports a
// size delta through it.
func NewDirectory(ino uint64, mode, uid, gid uint32, space SpaceChecker, acct Accountant, resolve Resolver) *Directory {
	return &Directory{
		// Link count 2: the parent's entry and the "." self-reference.
		inode:    newInode(ino, KindDirectory, mode, uid, gid, 2),
		children: ordered.NewMap[string, uint64](strings.Compare),
		space:    space,
		acct:     acct,
		resolve:  resolve,
	}
}

// Kind returns KindDirectory.
func (d *Directory) Kind() Kind { return KindDirectory }

// Lookup returns the inode number mapped to name. Shared access; concurrent
// lookups proceed together.
func (d *Directory) Lookup(name string) (uint64, bool) {
	d.childMu.RLock()
	defer d.childMu.RUnlock()
	return d.children.Get(name)
}

// Len returns the number of entries, counting the self and parent
// references.
func (d *Directory) Len() int {
	d.childMu.RLock()
	defer d.childMu.RUnlock()
	return d.children.Len()
}

// Add inserts a new entry mapping name to ino.
//
// Exclusive access. Fails with ErrAlreadyExists when the name is taken and
// with ErrNoSpace when the space checker rejects the growth; both leave the
// directory untouched. On success the entry byte cost is reported as a
// positive size delta and mtime/ctime are bumped.
func (d *Directory) Add(name string, ino uint64) error {
	if err := checkName(name); err != nil {
		return err
	}

	d.childMu.Lock()
	defer d.childMu.Unlock()

	if _, exists := d.children.Get(name); exists {
		return &StoreError{
			Code:    ErrAlreadyExists,
			Message: "entry already exists",
			Path:    name,
		}
	}

	elemSize := EntrySize(name)
	if d.space != nil && !d.space.HasSpaceFor(d, elemSize) {
		return &StoreError{
			Code:    ErrNoSpace,
			Message: "no space left for entry",
			Path:    name,
		}
	}

	d.children.Insert(name, ino)

	if err := d.acct.ReportSizeDelta(d, int64(elemSize)); err != nil {
		// Roll the entry back so the index and the accounted size agree.
		d.children.Erase(name)
		return err
	}
	d.touchModified()
	return nil
}

// Update rebinds an existing entry to a new inode number.
//
// Exclusive access. Fails with ErrNotFound when the name is absent. The
// entry byte cost doesn't depend on the inode number, so no size delta is
// reported; mtime/ctime are bumped.
func (d *Directory) Update(name string, ino uint64) error {
	d.childMu.Lock()
	defer d.childMu.Unlock()

	if _, found := d.children.Find(name); !found {
		return &StoreError{
			Code:    ErrNotFound,
			Message: "entry not found",
			Path:    name,
		}
	}
	d.children.Set(name, ino)

	d.touchModified()
	return nil
}

// Remove deletes the entry with the given name.
//
// Exclusive access. Fails with ErrNotFound when the name is absent. On
// success the entry byte cost is reported as a negative size delta and
// mtime/ctime are bumped.
//
// Remove does not check whether the entry names a non-empty directory;
// that policy belongs to the caller (see Filesystem.Rmdir).
func (d *Directory) Remove(name string) error {
	d.childMu.Lock()
	defer d.childMu.Unlock()

	ino, exists := d.children.Get(name)
	if !exists {
		return &StoreError{
			Code:    ErrNotFound,
			Message: "entry not found",
			Path:    name,
		}
	}
	d.children.Erase(name)

	if err := d.acct.ReportSizeDelta(d, -int64(EntrySize(name))); err != nil {
		// Roll the entry back so the index and the accounted size agree.
		d.children.Insert(name, ino)
		return err
	}
	d.touchModified()
	return nil
}

// IsEmpty reports whether the directory holds no live entries besides the
// self and parent references. An entry is live when the resolver returns an
// object for its inode number and that object still has links.
//
// Shared access.
func (d *Directory) IsEmpty() bool {
	d.childMu.RLock()
	defer d.childMu.RUnlock()

	for name, ino := range d.children.All() {
		if name == SelfName || name == ParentName {
			continue
		}
		if d.resolve == nil {
			return false
		}
		if n := d.resolve.GetByNumber(ino); n != nil && n.Nlink() > 0 {
			return false
		}
	}
	return true
}

// Snapshot returns an immutable copy of the full entry sequence in sorted
// order. Shared access; the copy is what paged listings iterate, so later
// mutations of the directory are never observed through it.
func (d *Directory) Snapshot() []DirEntry {
	d.childMu.RLock()
	defer d.childMu.RUnlock()

	entries := make([]DirEntry, 0, d.children.Len())
	for name, ino := range d.children.All() {
		entries = append(entries, DirEntry{Name: name, Ino: ino})
	}
	return entries
}

// checkName validates an entry name: non-empty, within the component length
// limit, no embedded NUL or path separator. The self and parent names pass;
// whether they may be created or removed is the caller's policy.
func checkName(name string) error {
	if name == "" || len(name) > NameMax {
		return &StoreError{
			Code:    ErrInvalidArgument,
			Message: "invalid entry name length",
			Path:    name,
		}
	}
	if strings.IndexByte(name, 0) >= 0 || strings.IndexByte(name, '/') >= 0 {
		return &StoreError{
			Code:    ErrInvalidArgument,
			Message: "entry name contains invalid byte",
			Path:    name,
		}
	}
	return nil
}
