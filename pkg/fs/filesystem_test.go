package fs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RootBootstrap(t *testing.T) {
	filesystem := New(DefaultConfig())
	root := filesystem.Root()

	require.NotNil(t, root)
	assert.Equal(t, KindDirectory, root.Kind())
	assert.Equal(t, uint32(2), root.Nlink())

	// Root is its own parent.
	self, ok := root.Lookup(SelfName)
	require.True(t, ok)
	parent, ok := root.Lookup(ParentName)
	require.True(t, ok)
	assert.Equal(t, root.Ino(), self)
	assert.Equal(t, root.Ino(), parent)

	stats := filesystem.Stats()
	assert.Equal(t, 1, stats.Inodes)
	assert.Positive(t, stats.UsedBlocks, "root bootstrap is charged")
}

func TestMkdir(t *testing.T) {
	filesystem := New(DefaultConfig())
	root := filesystem.Root()

	dir, err := filesystem.Mkdir(root, "dir", 0o750, 7, 8)
	require.NoError(t, err)

	assert.Equal(t, uint32(2), dir.Nlink(), "a fresh directory holds its own '.' link plus the parent entry")
	assert.Equal(t, uint32(3), root.Nlink(), "the parent gains a link for the child's '..'")

	self, ok := dir.Lookup(SelfName)
	require.True(t, ok)
	assert.Equal(t, dir.Ino(), self)
	up, ok := dir.Lookup(ParentName)
	require.True(t, ok)
	assert.Equal(t, root.Ino(), up)

	attr := dir.Attr()
	assert.Equal(t, uint32(0o750), attr.Mode)
	assert.Equal(t, uint32(7), attr.UID)
	assert.Equal(t, uint32(8), attr.GID)

	resolved, err := filesystem.Child(root, "dir")
	require.NoError(t, err)
	assert.Same(t, Node(dir), resolved)

	_, err = filesystem.Mkdir(root, "dir", 0o755, 0, 0)
	assert.True(t, IsCode(err, ErrAlreadyExists))
	assert.Equal(t, uint32(3), root.Nlink(), "a failed mkdir must not leak a parent link")
	assert.Equal(t, 2, filesystem.Registry().Len(), "a failed mkdir must not leak an inode")
}

func TestMkdir_ReservedNames(t *testing.T) {
	filesystem := New(DefaultConfig())
	root := filesystem.Root()

	for _, name := range []string{SelfName, ParentName} {
		_, err := filesystem.Mkdir(root, name, 0o755, 0, 0)
		assert.True(t, IsCode(err, ErrInvalidArgument), "name %q must be rejected", name)
	}
}

func TestCreateFile(t *testing.T) {
	filesystem := New(DefaultConfig())
	root := filesystem.Root()

	file, err := filesystem.CreateFile(root, "data.bin", 0o644, 1, 1)
	require.NoError(t, err)

	assert.Equal(t, KindRegular, file.Kind())
	assert.Equal(t, uint32(1), file.Nlink())
	assert.Zero(t, file.Attr().Size)
	assert.Same(t, Node(file), filesystem.Registry().GetByNumber(file.Ino()))

	_, err = filesystem.CreateFile(root, "data.bin", 0o644, 1, 1)
	assert.True(t, IsCode(err, ErrAlreadyExists))
	assert.Equal(t, 2, filesystem.Registry().Len())
}

func TestCreateSymlink(t *testing.T) {
	filesystem := New(DefaultConfig())
	root := filesystem.Root()

	link, err := filesystem.CreateSymlink(root, "latest", "releases/v2", 0, 0)
	require.NoError(t, err)

	assert.Equal(t, "releases/v2", link.Target())
	assert.Equal(t, uint64(len("releases/v2")), link.Attr().Size)
	assert.Equal(t, uint32(1), link.Nlink())

	_, err = filesystem.CreateSymlink(root, "broken", "", 0, 0)
	assert.True(t, IsCode(err, ErrInvalidArgument))
}

func TestMkNod(t *testing.T) {
	filesystem := New(DefaultConfig())
	root := filesystem.Root()

	sp, err := filesystem.MkNod(root, "null", 0o666, 0, 0, 0x0103)
	require.NoError(t, err)

	assert.Equal(t, KindSpecial, sp.Kind())
	assert.Equal(t, uint64(0x0103), sp.Attr().Rdev)
}

func TestLinkUnlink_Lifecycle(t *testing.T) {
	filesystem := New(DefaultConfig())
	root := filesystem.Root()

	file, err := filesystem.CreateFile(root, "a", 0o644, 0, 0)
	require.NoError(t, err)
	ino := file.Ino()

	require.NoError(t, filesystem.Link(root, "b", file))
	assert.Equal(t, uint32(2), file.Nlink())

	// Removing one name keeps the object alive through the other.
	require.NoError(t, filesystem.Unlink(root, "a"))
	assert.Equal(t, uint32(1), file.Nlink())
	require.NotNil(t, filesystem.Registry().GetByNumber(ino))

	resolved, err := filesystem.Child(root, "b")
	require.NoError(t, err)
	assert.Same(t, Node(file), resolved)

	// The last unlink retires the object.
	require.NoError(t, filesystem.Unlink(root, "b"))
	assert.Nil(t, filesystem.Registry().GetByNumber(ino))
	assert.Equal(t, 1, filesystem.Registry().Len())
}

func TestLink_DirectoryRefused(t *testing.T) {
	filesystem := New(DefaultConfig())
	root := filesystem.Root()

	dir, err := filesystem.Mkdir(root, "dir", 0o755, 0, 0)
	require.NoError(t, err)

	err = filesystem.Link(root, "alias", dir)
	assert.True(t, IsCode(err, ErrIsDirectory))
}

func TestUnlink_Errors(t *testing.T) {
	filesystem := New(DefaultConfig())
	root := filesystem.Root()

	err := filesystem.Unlink(root, "missing")
	assert.True(t, IsCode(err, ErrNotFound))

	err = filesystem.Unlink(root, SelfName)
	assert.True(t, IsCode(err, ErrInvalidArgument))

	_, err = filesystem.Mkdir(root, "dir", 0o755, 0, 0)
	require.NoError(t, err)
	err = filesystem.Unlink(root, "dir")
	assert.True(t, IsCode(err, ErrIsDirectory), "unlink must refuse directories")
}

func TestRmdir(t *testing.T) {
	filesystem := New(DefaultConfig())
	root := filesystem.Root()

	dir, err := filesystem.Mkdir(root, "dir", 0o755, 0, 0)
	require.NoError(t, err)
	ino := dir.Ino()
	usedBefore := filesystem.Stats().UsedBlocks

	require.NoError(t, filesystem.Rmdir(root, "dir"))

	assert.Equal(t, uint32(2), root.Nlink(), "removing the child returns the '..' link")
	assert.Nil(t, filesystem.Registry().GetByNumber(ino))
	_, ok := root.Lookup("dir")
	assert.False(t, ok)
	assert.Less(t, filesystem.Stats().UsedBlocks, usedBefore, "the child's blocks are released")
}

func TestRmdir_Errors(t *testing.T) {
	filesystem := New(DefaultConfig())
	root := filesystem.Root()

	err := filesystem.Rmdir(root, "missing")
	assert.True(t, IsCode(err, ErrNotFound))

	err = filesystem.Rmdir(root, ParentName)
	assert.True(t, IsCode(err, ErrInvalidArgument))

	_, err = filesystem.CreateFile(root, "file", 0o644, 0, 0)
	require.NoError(t, err)
	err = filesystem.Rmdir(root, "file")
	assert.True(t, IsCode(err, ErrNotDirectory))

	dir, err := filesystem.Mkdir(root, "dir", 0o755, 0, 0)
	require.NoError(t, err)
	_, err = filesystem.CreateFile(dir, "inner", 0o644, 0, 0)
	require.NoError(t, err)
	err = filesystem.Rmdir(root, "dir")
	assert.True(t, IsCode(err, ErrNotEmpty))

	// Emptying the directory makes it removable.
	require.NoError(t, filesystem.Unlink(dir, "inner"))
	assert.NoError(t, filesystem.Rmdir(root, "dir"))
}

func TestUpdate_Rebind(t *testing.T) {
	filesystem := New(DefaultConfig())
	root := filesystem.Root()

	first, err := filesystem.CreateFile(root, "name", 0o644, 0, 0)
	require.NoError(t, err)
	second, err := filesystem.CreateFile(root, "other", 0o644, 0, 0)
	require.NoError(t, err)

	require.NoError(t, filesystem.Update(root, "name", second.Ino()))

	ino, ok := root.Lookup("name")
	require.True(t, ok)
	assert.Equal(t, second.Ino(), ino)
	assert.NotEqual(t, first.Ino(), ino)

	err = filesystem.Update(root, "missing", second.Ino())
	assert.True(t, IsCode(err, ErrNotFound))
}

func TestTruncate_Accounting(t *testing.T) {
	filesystem := New(DefaultConfig())
	root := filesystem.Root()

	file, err := filesystem.CreateFile(root, "data", 0o644, 0, 0)
	require.NoError(t, err)
	usedBefore := filesystem.Stats().UsedBlocks

	require.NoError(t, filesystem.Truncate(file, 3*DefaultBlockSize+1))

	attr := file.Attr()
	assert.Equal(t, uint64(3*DefaultBlockSize+1), attr.Size)
	assert.Equal(t, uint64(4), attr.Blocks)
	assert.Equal(t, usedBefore+4, filesystem.Stats().UsedBlocks)

	require.NoError(t, filesystem.Truncate(file, 1))
	attr = file.Attr()
	assert.Equal(t, uint64(1), attr.Size)
	assert.Equal(t, uint64(1), attr.Blocks)
	assert.Equal(t, usedBefore+1, filesystem.Stats().UsedBlocks)

	require.NoError(t, filesystem.Truncate(file, 0))
	assert.Equal(t, usedBefore, filesystem.Stats().UsedBlocks)
}

func TestTruncate_GrowthGated(t *testing.T) {
	filesystem := New(Config{BlockSize: DefaultBlockSize, CapacityBlocks: 4})
	root := filesystem.Root()

	file, err := filesystem.CreateFile(root, "data", 0o644, 0, 0)
	require.NoError(t, err)

	// Root bootstrap holds one block; three more fit.
	require.NoError(t, filesystem.Truncate(file, 3*DefaultBlockSize))

	err = filesystem.Truncate(file, 5*DefaultBlockSize)
	require.True(t, IsCode(err, ErrNoSpace))
	assert.Equal(t, uint64(3*DefaultBlockSize), file.Attr().Size, "a refused truncate leaves the size untouched")

	// Shrinking is never gated.
	assert.NoError(t, filesystem.Truncate(file, 0))
}

func TestReportSizeDelta_UnderflowRefused(t *testing.T) {
	filesystem := New(DefaultConfig())
	root := filesystem.Root()

	file, err := filesystem.CreateFile(root, "data", 0o644, 0, 0)
	require.NoError(t, err)

	err = filesystem.ReportSizeDelta(file, -1)
	require.True(t, IsCode(err, ErrConsistency))
	assert.Zero(t, file.Attr().Size)
	assert.Zero(t, file.Attr().Blocks)
}

func TestCapacity_AddRefusedWhenFull(t *testing.T) {
	// One block of capacity is fully consumed by the root bootstrap, so any
	// further entry is refused.
	filesystem := New(Config{BlockSize: DefaultBlockSize, CapacityBlocks: 1})
	root := filesystem.Root()

	_, err := filesystem.CreateFile(root, "file", 0o644, 0, 0)
	require.True(t, IsCode(err, ErrNoSpace))

	_, ok := root.Lookup("file")
	assert.False(t, ok)
	assert.Equal(t, 1, filesystem.Registry().Len(), "the refused object must not leak into the registry")
}

func TestStats(t *testing.T) {
	filesystem := New(Config{BlockSize: 512, CapacityBlocks: 100})
	root := filesystem.Root()

	_, err := filesystem.Mkdir(root, "dir", 0o755, 0, 0)
	require.NoError(t, err)

	stats := filesystem.Stats()
	assert.Equal(t, uint64(512), stats.BlockSize)
	assert.Equal(t, uint64(100), stats.CapacityBlocks)
	assert.Equal(t, 2, stats.Inodes)
	assert.Positive(t, stats.UsedBlocks)
}
