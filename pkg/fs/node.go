// Package fs implements the in-memory metadata core of a userspace
// filesystem: per-directory name→inode indexes backed by pkg/ordered,
// cursor-based paged directory listings, and size/block accounting feeding a
// filesystem-wide used-block counter.
//
// Locking discipline:
//
// Every inode carries one lock guarding its attribute fields (size, blocks,
// link count, timestamps). Directories additionally carry a dedicated
// reader/writer lock guarding only their entry table. Entry mutations hold
// the entry lock exclusively for their whole duration and report the size
// delta through the accounting path while still holding it, so entry state
// and reported size never skew; the accounting update itself runs under the
// attribute lock. Lock order is always entry lock → attribute lock and no
// operation ever holds the entry locks of two directories at once.
package fs

import (
	"sync"
	"time"
)

// Kind discriminates the closed set of inode kinds. Dispatch on Kind is
// resolved once at the call site; there is no down-casting between kinds.
type Kind int

const (
	// KindRegular is a regular file
	KindRegular Kind = iota

	// KindDirectory is a directory
	KindDirectory

	// KindSymlink is a symbolic link
	KindSymlink

	// KindSpecial is a device node, socket or FIFO
	KindSpecial
)

// String returns the kind name for logs.
func (k Kind) String() string {
	switch k {
	case KindRegular:
		return "regular"
	case KindDirectory:
		return "directory"
	case KindSymlink:
		return "symlink"
	case KindSpecial:
		return "special"
	default:
		return "unknown"
	}
}

// Attr holds the attribute fields of an inode. Size and Blocks are
// maintained by the accounting path; Blocks is always ceil(Size/BlockSize).
type Attr struct {
	Ino    uint64
	Kind   Kind
	Mode   uint32
	UID    uint32
	GID    uint32
	Nlink  uint32
	Size   uint64
	Blocks uint64
	Rdev   uint64
	Atime  time.Time
	Mtime  time.Time
	Ctime  time.Time
}

// Node is a filesystem object held by the Registry. The concrete types are
// exactly File, Directory, Symlink and Special; the unexported method keeps
// the set closed to this package.
type Node interface {
	// Kind returns the inode kind.
	Kind() Kind

	// Ino returns the inode number.
	Ino() uint64

	// Attr returns a consistent copy of the attribute fields.
	Attr() Attr

	// Nlink returns the current link count.
	Nlink() uint32

	base() *inode
}

// inode is the attribute state embedded in every node kind. Its mutex guards
// only the attribute fields; a directory's entry table has its own lock.
type inode struct {
	mu   sync.RWMutex
	attr Attr
}

func newInode(ino uint64, kind Kind, mode, uid, gid, nlink uint32) inode {
	now := time.Now()
	return inode{attr: Attr{
		Ino:   ino,
		Kind:  kind,
		Mode:  mode,
		UID:   uid,
		GID:   gid,
		Nlink: nlink,
		Atime: now,
		Mtime: now,
		Ctime: now,
	}}
}

func (n *inode) base() *inode { return n }

// Ino returns the inode number. Immutable after construction, no lock.
func (n *inode) Ino() uint64 { return n.attr.Ino }

// Attr returns a consistent copy of the attribute fields.
func (n *inode) Attr() Attr {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.attr
}

// Nlink returns the current link count.
func (n *inode) Nlink() uint32 {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.attr.Nlink
}

// addLink increments the link count and bumps ctime.
func (n *inode) addLink() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.attr.Nlink++
	n.attr.Ctime = time.Now()
}

// dropLink decrements the link count and bumps ctime. Returns the remaining
// count. Dropping below zero is a caller bug; the count saturates at zero.
func (n *inode) dropLink() uint32 {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.attr.Nlink > 0 {
		n.attr.Nlink--
	}
	n.attr.Ctime = time.Now()
	return n.attr.Nlink
}

// touchModified bumps mtime and ctime after a content-visible change.
func (n *inode) touchModified() {
	n.mu.Lock()
	defer n.mu.Unlock()
	now := time.Now()
	n.attr.Mtime = now
	n.attr.Ctime = now
}

// File is a regular file inode. Content I/O lives outside this core; the
// file only carries attributes and participates in size accounting.
type File struct {
	inode
}

// Kind returns KindRegular.
func (f *File) Kind() Kind { return KindRegular }

// Symlink is a symbolic link inode holding its target path.
type Symlink struct {
	inode
	target string
}

// Kind returns KindSymlink.
func (s *Symlink) Kind() Kind { return KindSymlink }

// Target returns the link target path. Immutable after creation.
func (s *Symlink) Target() string { return s.target }

// Special is a device node, socket or FIFO inode.
type Special struct {
	inode
}

// Kind returns KindSpecial.
func (s *Special) Kind() Kind { return KindSpecial }
