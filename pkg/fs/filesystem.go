package fs

import (
	"fmt"
	"sync/atomic"

	"github.com/marmos91/ramfs/internal/logger"
)

// Config holds the tunables of a Filesystem instance.
type Config struct {
	// BlockSize is the allocation unit for block accounting. Zero selects
	// DefaultBlockSize.
	BlockSize uint64

	// CapacityBlocks caps the filesystem-wide used-block count; Add and
	// Truncate growth is refused once the budget is exhausted. Zero means
	// unlimited.
	CapacityBlocks uint64

	// Cursors configures the paged-listing cursor table.
	Cursors CursorTableConfig

	// Metrics receives operational events. Nil selects the no-op
	// implementation.
	Metrics Metrics
}

// DefaultConfig returns production defaults: 4 KiB blocks, unlimited
// capacity, default cursor table.
func DefaultConfig() Config {
	return Config{
		BlockSize: DefaultBlockSize,
		Cursors:   DefaultCursorTableConfig(),
	}
}

// Stats is a point-in-time view of the filesystem's resource accounting.
type Stats struct {
	BlockSize      uint64
	UsedBlocks     int64
	CapacityBlocks uint64
	Inodes         int
}

// Filesystem ties the metadata core together: the object registry, the
// per-directory entry indexes, the listing cursor table and the global block
// accounting. It is the production implementation of the Accountant,
// SpaceChecker and Resolver collaborators that Directory depends on.
//
// All operations are synchronous, touch only memory and complete in bounded
// time; no lock is ever held across a call boundary. Operations on different
// directories proceed fully in parallel; within one directory, mutations are
// linearized by its entry lock.
type Filesystem struct {
	blockSize  uint64
	maxBlocks  uint64
	usedBlocks atomic.Int64

	registry *Registry
	cursors  *CursorTable
	metrics  Metrics

	root *Directory
}

// New constructs a filesystem with a root directory already in place.
func New(cfg Config) *Filesystem {
	if cfg.BlockSize == 0 {
		cfg.BlockSize = DefaultBlockSize
	}
	m := cfg.Metrics
	if m == nil {
		m = noopMetrics{}
	}
	if cfg.Cursors.Metrics == nil {
		cfg.Cursors.Metrics = m
	}

	f := &Filesystem{
		blockSize: cfg.BlockSize,
		maxBlocks: cfg.CapacityBlocks,
		registry:  NewRegistry(),
		cursors:   NewCursorTable(cfg.Cursors),
		metrics:   m,
	}

	ino := f.registry.AllocateIno()
	root := f.newDirectory(ino, 0o755, 0, 0)
	f.registry.Put(root)
	f.initDirectory(root, ino)
	f.root = root
	return f
}

// Root returns the root directory.
func (f *Filesystem) Root() *Directory { return f.root }

// Registry returns the object registry.
func (f *Filesystem) Registry() *Registry { return f.registry }

// Stats returns the current resource accounting.
func (f *Filesystem) Stats() Stats {
	return Stats{
		BlockSize:      f.blockSize,
		UsedBlocks:     f.usedBlocks.Load(),
		CapacityBlocks: f.maxBlocks,
		Inodes:         f.registry.Len(),
	}
}

// ============================================================================
// Collaborator implementations consumed by Directory
// ============================================================================

// ReportSizeDelta applies a signed byte delta to the object's size under its
// attribute lock, recomputes its block count against the filesystem block
// size and moves the global used-block counter by the block difference.
func (f *Filesystem) ReportSizeDelta(n Node, delta int64) error {
	return n.base().applySizeDelta(delta, f.blockSize, f.updateUsedBlocks)
}

// HasSpaceFor reports whether additionalBytes of growth fits the block
// budget. With no configured capacity every request fits.
func (f *Filesystem) HasSpaceFor(d *Directory, additionalBytes uint64) bool {
	if f.maxBlocks == 0 {
		return true
	}
	needed := blocksFor(additionalBytes, f.blockSize)
	return f.usedBlocks.Load()+int64(needed) <= int64(f.maxBlocks)
}

func (f *Filesystem) updateUsedBlocks(delta int64) {
	used := f.usedBlocks.Add(delta)
	if used < 0 {
		// The per-inode underflow check should make this unreachable.
		logger.Error("used-block counter went negative: %d (delta %d)", used, delta)
	}
	f.metrics.SetUsedBlocks(used)
}

// retire releases an object's accounted blocks when it leaves the registry.
func (f *Filesystem) retire(n Node) {
	if blocks := n.Attr().Blocks; blocks > 0 {
		f.updateUsedBlocks(-int64(blocks))
	}
}

// newDirectory constructs a directory bound to this filesystem's
// collaborators. The space checker is attached by initDirectory once the
// bootstrap entries are in place.
func (f *Filesystem) newDirectory(ino uint64, mode, uid, gid uint32) *Directory {
	return NewDirectory(ino, mode, uid, gid, nil, f, f.registry)
}

// initDirectory charges a fresh directory's base cost and installs the self
// and parent back-references as ordinary entries. The bootstrap cost is
// charged but not gated by the space check; capacity gating applies from the
// entry that links the directory into the tree onwards.
func (f *Filesystem) initDirectory(d *Directory, parentIno uint64) {
	// The directory is not yet reachable from the tree, so these cannot
	// race and cannot fail: no duplicate names, and no space gate yet.
	_ = f.ReportSizeDelta(d, dirBaseSize)
	_ = d.Add(SelfName, d.Ino())
	_ = d.Add(ParentName, parentIno)
	d.space = f
}

// ============================================================================
// Tree operations
// ============================================================================

// Child resolves name in parent to a live object.
func (f *Filesystem) Child(parent *Directory, name string) (Node, error) {
	ino, ok := parent.Lookup(name)
	if !ok {
		return nil, &StoreError{Code: ErrNotFound, Message: "entry not found", Path: name}
	}
	n := f.registry.GetByNumber(ino)
	if n == nil {
		return nil, &StoreError{Code: ErrNotFound, Message: "entry has no live object", Path: name}
	}
	return n, nil
}

// Mkdir creates a subdirectory of parent. The new directory starts with its
// "." and ".." entries and link count 2; the parent gains a link for the
// ".." back-reference.
func (f *Filesystem) Mkdir(parent *Directory, name string, mode, uid, gid uint32) (*Directory, error) {
	d, err := f.mkdir(parent, name, mode, uid, gid)
	f.metrics.DirectoryOp("mkdir", statusOf(err))
	return d, err
}

func (f *Filesystem) mkdir(parent *Directory, name string, mode, uid, gid uint32) (*Directory, error) {
	if err := checkCreatableName(name); err != nil {
		return nil, err
	}

	ino := f.registry.AllocateIno()
	child := f.newDirectory(ino, mode, uid, gid)
	f.registry.Put(child)
	f.initDirectory(child, parent.Ino())

	if err := f.link(parent, name, child); err != nil {
		f.registry.Remove(ino)
		f.retire(child)
		return nil, err
	}
	parent.addLink()
	return child, nil
}

// CreateFile creates a regular file entry in parent.
func (f *Filesystem) CreateFile(parent *Directory, name string, mode, uid, gid uint32) (*File, error) {
	file, err := f.createFile(parent, name, mode, uid, gid)
	f.metrics.DirectoryOp("create", statusOf(err))
	return file, err
}

func (f *Filesystem) createFile(parent *Directory, name string, mode, uid, gid uint32) (*File, error) {
	if err := checkCreatableName(name); err != nil {
		return nil, err
	}

	ino := f.registry.AllocateIno()
	file := &File{inode: newInode(ino, KindRegular, mode, uid, gid, 1)}
	f.registry.Put(file)

	if err := f.link(parent, name, file); err != nil {
		f.registry.Remove(ino)
		return nil, err
	}
	return file, nil
}

// CreateSymlink creates a symbolic link entry in parent. The link's size is
// the length of its target path.
func (f *Filesystem) CreateSymlink(parent *Directory, name, target string, uid, gid uint32) (*Symlink, error) {
	link, err := f.createSymlink(parent, name, target, uid, gid)
	f.metrics.DirectoryOp("symlink", statusOf(err))
	return link, err
}

func (f *Filesystem) createSymlink(parent *Directory, name, target string, uid, gid uint32) (*Symlink, error) {
	if err := checkCreatableName(name); err != nil {
		return nil, err
	}
	if target == "" {
		return nil, &StoreError{Code: ErrInvalidArgument, Message: "empty symlink target", Path: name}
	}

	ino := f.registry.AllocateIno()
	link := &Symlink{inode: newInode(ino, KindSymlink, 0o777, uid, gid, 1), target: target}
	f.registry.Put(link)
	_ = f.ReportSizeDelta(link, int64(len(target)))

	if err := f.link(parent, name, link); err != nil {
		f.registry.Remove(ino)
		f.retire(link)
		return nil, err
	}
	return link, nil
}

// MkNod creates a special file (device node, socket or FIFO) in parent.
func (f *Filesystem) MkNod(parent *Directory, name string, mode, uid, gid uint32, rdev uint64) (*Special, error) {
	sp, err := f.mkNod(parent, name, mode, uid, gid, rdev)
	f.metrics.DirectoryOp("mknod", statusOf(err))
	return sp, err
}

func (f *Filesystem) mkNod(parent *Directory, name string, mode, uid, gid uint32, rdev uint64) (*Special, error) {
	if err := checkCreatableName(name); err != nil {
		return nil, err
	}

	ino := f.registry.AllocateIno()
	sp := &Special{inode: newInode(ino, KindSpecial, mode, uid, gid, 1)}
	sp.attr.Rdev = rdev
	f.registry.Put(sp)

	if err := f.link(parent, name, sp); err != nil {
		f.registry.Remove(ino)
		return nil, err
	}
	return sp, nil
}

// Link adds a new name in parent for an existing non-directory object and
// increments its link count.
func (f *Filesystem) Link(parent *Directory, name string, n Node) error {
	err := f.hardLink(parent, name, n)
	f.metrics.DirectoryOp("link", statusOf(err))
	return err
}

func (f *Filesystem) hardLink(parent *Directory, name string, n Node) error {
	if err := checkCreatableName(name); err != nil {
		return err
	}
	if n.Kind() == KindDirectory {
		return &StoreError{Code: ErrIsDirectory, Message: "cannot hard-link a directory", Path: name}
	}
	if err := parent.Add(name, n.Ino()); err != nil {
		return err
	}
	n.base().addLink()
	return nil
}

// link installs an entry for a freshly created object; the object already
// carries the link count for this entry.
func (f *Filesystem) link(parent *Directory, name string, n Node) error {
	return parent.Add(name, n.Ino())
}

// Unlink removes the entry name from parent and drops the target's link
// count. An object whose last link is removed leaves the registry and
// releases its accounted blocks.
func (f *Filesystem) Unlink(parent *Directory, name string) error {
	err := f.unlink(parent, name)
	f.metrics.DirectoryOp("unlink", statusOf(err))
	return err
}

func (f *Filesystem) unlink(parent *Directory, name string) error {
	if name == SelfName || name == ParentName {
		return &StoreError{Code: ErrInvalidArgument, Message: "cannot unlink reserved entry", Path: name}
	}

	ino, ok := parent.Lookup(name)
	if !ok {
		return &StoreError{Code: ErrNotFound, Message: "entry not found", Path: name}
	}
	n := f.registry.GetByNumber(ino)
	if n != nil && n.Kind() == KindDirectory {
		return &StoreError{Code: ErrIsDirectory, Message: "entry is a directory", Path: name}
	}

	if err := parent.Remove(name); err != nil {
		return err
	}
	if n != nil && n.base().dropLink() == 0 {
		f.registry.Remove(ino)
		f.retire(n)
	}
	return nil
}

// Rmdir removes the subdirectory entry name from parent. The target must be
// a directory with no live entries besides its self and parent references;
// the non-empty check is exactly Directory.IsEmpty, evaluated before the
// entry is removed.
func (f *Filesystem) Rmdir(parent *Directory, name string) error {
	err := f.rmdir(parent, name)
	f.metrics.DirectoryOp("rmdir", statusOf(err))
	return err
}

func (f *Filesystem) rmdir(parent *Directory, name string) error {
	if name == SelfName || name == ParentName {
		return &StoreError{Code: ErrInvalidArgument, Message: "cannot remove reserved entry", Path: name}
	}

	ino, ok := parent.Lookup(name)
	if !ok {
		return &StoreError{Code: ErrNotFound, Message: "entry not found", Path: name}
	}
	n := f.registry.GetByNumber(ino)
	if n == nil {
		return &StoreError{Code: ErrNotFound, Message: "entry has no live object", Path: name}
	}
	child, ok := n.(*Directory)
	if !ok {
		return &StoreError{Code: ErrNotDirectory, Message: "entry is not a directory", Path: name}
	}
	if !child.IsEmpty() {
		return &StoreError{Code: ErrNotEmpty, Message: "directory not empty", Path: name}
	}

	if err := parent.Remove(name); err != nil {
		return err
	}
	parent.base().dropLink() // loses the ".." back-reference

	f.registry.Remove(ino)
	f.retire(child)
	return nil
}

// Update rebinds an existing entry in parent to a different inode number.
func (f *Filesystem) Update(parent *Directory, name string, ino uint64) error {
	err := parent.Update(name, ino)
	f.metrics.DirectoryOp("update", statusOf(err))
	return err
}

// Truncate sets a regular file's size, reporting the difference through the
// accounting path. Growth is subject to the space check.
func (f *Filesystem) Truncate(file *File, newSize uint64) error {
	err := f.truncate(file, newSize)
	f.metrics.DirectoryOp("truncate", statusOf(err))
	return err
}

func (f *Filesystem) truncate(file *File, newSize uint64) error {
	oldSize := file.Attr().Size
	if newSize == oldSize {
		return nil
	}
	delta := int64(newSize) - int64(oldSize)
	if delta > 0 && f.maxBlocks != 0 && !f.HasSpaceFor(nil, uint64(delta)) {
		return &StoreError{Code: ErrNoSpace, Message: "no space left for file growth"}
	}
	if err := f.ReportSizeDelta(file, delta); err != nil {
		return err
	}
	file.touchModified()
	return nil
}

// ============================================================================
// Paged listing surface
// ============================================================================

// ListPage is one batch of a paged directory listing.
type ListPage struct {
	// Entries is the batch, in sorted name order.
	Entries []DirEntry

	// Cookie resumes the listing on the next call. Zero when the listing
	// has terminated.
	Cookie uint64

	// EOF marks the terminal page. The page carrying the final entries has
	// EOF false; the following call observes the exhaustion and returns an
	// empty page with EOF true.
	EOF bool
}

// List serves one batch of a paged directory listing.
//
// A zero cookie starts a fresh listing: the directory's entry sequence is
// snapshotted under shared access, a cursor is registered over the snapshot
// and the first batch is served. A nonzero cookie resumes the cursor it
// identifies. Because each cursor iterates its private snapshot, concurrent
// Add/Remove on the directory is never observed mid-listing: the listing is
// equivalent to one taken atomically at cursor-creation time.
func (f *Filesystem) List(d *Directory, cookie uint64, maxEntries int) (*ListPage, error) {
	page, err := f.list(d, cookie, maxEntries)
	f.metrics.DirectoryOp("list", statusOf(err))
	return page, err
}

func (f *Filesystem) list(d *Directory, cookie uint64, maxEntries int) (*ListPage, error) {
	// Reject a bad batch size before a fresh listing registers its cursor;
	// otherwise the cursor would be orphaned until eviction reclaims it.
	if maxEntries <= 0 {
		return nil, &StoreError{
			Code:    ErrInvalidArgument,
			Message: fmt.Sprintf("batch size %d must be positive", maxEntries),
		}
	}

	if cookie == 0 {
		var err error
		cookie, err = f.cursors.Begin(d.Snapshot())
		if err != nil {
			return nil, err
		}
	}

	entries, err := f.cursors.Next(cookie, maxEntries)
	if err != nil {
		if IsCode(err, ErrExhausted) {
			return &ListPage{EOF: true}, nil
		}
		return nil, err
	}
	return &ListPage{Entries: entries, Cookie: cookie}, nil
}

// checkCreatableName rejects names that pass the entry-level check but may
// not be created through the tree operations.
func checkCreatableName(name string) error {
	if name == SelfName || name == ParentName {
		return &StoreError{Code: ErrInvalidArgument, Message: "reserved entry name", Path: name}
	}
	return checkName(name)
}
