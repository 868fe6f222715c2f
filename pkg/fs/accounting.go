package fs

import (
	"fmt"

	"github.com/marmos91/ramfs/internal/logger"
)

// DefaultBlockSize is the allocation unit used for block accounting when the
// configuration doesn't override it.
const DefaultBlockSize = 4096

// NameMax is the longest accepted directory entry name, matching the usual
// platform path-component limit.
const NameMax = 255

// entryOverhead is the accounted per-entry memory cost beyond the name
// bytes: the backing-slice slot (string header plus inode number) and its
// share of container bookkeeping.
const entryOverhead = 32

// dirBaseSize is the accounted cost of an empty directory's entry table.
const dirBaseSize = 64

// EntrySize returns the accounted byte cost of a directory entry with the
// given name. Add reports +EntrySize(name) and Remove reports the negation.
func EntrySize(name string) uint64 {
	return entryOverhead + uint64(len(name))
}

// blocksFor returns ceil(size/blockSize).
func blocksFor(size, blockSize uint64) uint64 {
	return (size + blockSize - 1) / blockSize
}

// Accountant converts a signed byte delta on an object into a block-count
// change and applies the block difference to the filesystem-wide used-block
// counter. Filesystem is the production implementation.
type Accountant interface {
	// ReportSizeDelta applies delta to the object's size, recomputes its
	// block count and, if the block count changed, updates the global
	// used-block counter by the difference. A delta that would drive the
	// size below zero aborts with ErrConsistency.
	ReportSizeDelta(n Node, delta int64) error
}

// SpaceChecker answers the yes/no space question consulted by Directory.Add
// before committing an entry.
type SpaceChecker interface {
	// HasSpaceFor reports whether the filesystem can absorb additionalBytes
	// of growth in the given directory.
	HasSpaceFor(d *Directory, additionalBytes uint64) bool
}

// Resolver resolves inode numbers to live objects. Directory.IsEmpty uses it
// to test entry liveness; Filesystem's Registry is the production
// implementation.
type Resolver interface {
	// GetByNumber returns the object with the given inode number, or nil.
	GetByNumber(ino uint64) Node
}

// applySizeDelta is the single mutation path for an inode's size and block
// fields. It runs under the attribute lock, which is distinct from and
// always acquired after a directory's entry lock.
//
// updateUsed receives the signed block-count difference and is only invoked
// when the block count actually changed.
func (n *inode) applySizeDelta(delta int64, blockSize uint64, updateUsed func(int64)) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if delta < 0 && uint64(-delta) > n.attr.Size {
		logger.Error("size accounting underflow on inode %d: size=%d delta=%d",
			n.attr.Ino, n.attr.Size, delta)
		return &StoreError{
			Code:    ErrConsistency,
			Message: fmt.Sprintf("size delta %d underflows size %d", delta, n.attr.Size),
		}
	}

	newSize := uint64(int64(n.attr.Size) + delta)
	oldBlocks := n.attr.Blocks
	newBlocks := blocksFor(newSize, blockSize)

	n.attr.Size = newSize
	n.attr.Blocks = newBlocks
	if newBlocks != oldBlocks && updateUsed != nil {
		updateUsed(int64(newBlocks) - int64(oldBlocks))
	}
	return nil
}
