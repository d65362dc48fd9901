package fs_test

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/stale/internal/adapters/fs"
	"go.trai.ch/stale/internal/core/domain"
)

type walkResult struct {
	rels []string
	errs []error
}

func walk(t *testing.T, root string, opts domain.WalkOptions) walkResult {
	t.Helper()
	var res walkResult
	for entry, err := range fs.NewWalker().Walk(root, opts) {
		if err != nil {
			res.errs = append(res.errs, err)
			continue
		}
		res.rels = append(res.rels, entry.RelPath)
	}
	slices.Sort(res.rels)
	return res
}

func defaultOpts() domain.WalkOptions {
	return domain.NewScanConfig().WalkOptions()
}

func writeTree(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, f := range files {
		p := filepath.Join(root, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o750))
		require.NoError(t, os.WriteFile(p, []byte(f), 0o600))
	}
}

func TestWalker_Walk(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, "a.txt", "dir1/b.txt", "dir1/nested/c.txt", "dir2/d.txt")

	res := walk(t, tmpDir, defaultOpts())

	require.Empty(t, res.errs)
	assert.Equal(t, []string{
		".",
		"a.txt",
		"dir1",
		"dir1/b.txt",
		"dir1/nested",
		"dir1/nested/c.txt",
		"dir2",
		"dir2/d.txt",
	}, res.rels)
}

func TestWalker_Walk_EntryMetadata(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, "dir1/b.txt")

	entries := map[string]*domain.Entry{}
	for entry, err := range fs.NewWalker().Walk(tmpDir, defaultOpts()) {
		require.NoError(t, err)
		entries[entry.RelPath] = entry
	}

	root := entries["."]
	require.NotNil(t, root)
	assert.Equal(t, tmpDir, root.Path)
	assert.Equal(t, 0, root.Depth)
	assert.True(t, root.IsDir())

	file := entries["dir1/b.txt"]
	require.NotNil(t, file)
	assert.Equal(t, filepath.Join(tmpDir, "dir1", "b.txt"), file.Path)
	assert.Equal(t, 2, file.Depth)
	assert.False(t, file.IsDir())
	assert.False(t, file.IsSymlink())

	info, err := os.Stat(file.Path)
	require.NoError(t, err)
	mtime, err := file.ModTime()
	require.NoError(t, err)
	assert.True(t, info.ModTime().Equal(mtime))
}

func TestWalker_Walk_MaxDepth(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, "a.txt", "dir1/b.txt", "dir1/nested/c.txt")

	tests := []struct {
		name  string
		depth int
		want  []string
	}{
		{name: "root only", depth: 0, want: []string{"."}},
		{name: "one level", depth: 1, want: []string{".", "a.txt", "dir1"}},
		{name: "two levels", depth: 2, want: []string{".", "a.txt", "dir1", "dir1/b.txt", "dir1/nested"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := domain.NewScanConfig(domain.WithMaxDepth(tt.depth)).WalkOptions()
			res := walk(t, tmpDir, opts)
			require.Empty(t, res.errs)
			assert.Equal(t, tt.want, res.rels)
		})
	}
}

func TestWalker_Walk_MaxOpenHandlesDoesNotChangeResult(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir,
		"a/b/c/d/e/f.txt",
		"a/b/c/g.txt",
		"a/h.txt",
		"i/j/k.txt",
	)

	want := walk(t, tmpDir, defaultOpts())
	for _, limit := range []int{1, 2, 3} {
		opts := domain.NewScanConfig(domain.WithMaxOpenHandles(limit)).WalkOptions()
		got := walk(t, tmpDir, opts)
		require.Empty(t, got.errs)
		assert.Equal(t, want.rels, got.rels, "max open handles %d", limit)
	}
}

func TestWalker_Walk_ManyEntriesWithSingleHandle(t *testing.T) {
	tmpDir := t.TempDir()
	var files []string
	for _, dir := range []string{"x", "y"} {
		for i := range 150 {
			files = append(files, filepath.ToSlash(filepath.Join(dir, "sub", string(rune('a'+i%26))+string(rune('a'+i/26))+".txt")))
		}
	}
	writeTree(t, tmpDir, files...)

	opts := domain.NewScanConfig(domain.WithMaxOpenHandles(1)).WalkOptions()
	res := walk(t, tmpDir, opts)

	require.Empty(t, res.errs)
	assert.Len(t, res.rels, 1+2+2+len(files))
}

func TestWalker_Walk_RootFile(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, "main.c")

	var entries []*domain.Entry
	for entry, err := range fs.NewWalker().Walk(filepath.Join(tmpDir, "main.c"), defaultOpts()) {
		require.NoError(t, err)
		entries = append(entries, entry)
	}

	require.Len(t, entries, 1)
	assert.Equal(t, "main.c", entries[0].RelPath)
	assert.False(t, entries[0].IsDir())
}

func TestWalker_Walk_MissingRoot(t *testing.T) {
	res := walk(t, filepath.Join(t.TempDir(), "missing"), defaultOpts())

	assert.Empty(t, res.rels)
	require.Len(t, res.errs, 1)
	assert.ErrorIs(t, res.errs[0], domain.ErrIO)
	assert.ErrorIs(t, res.errs[0], os.ErrNotExist)
}

func TestWalker_Walk_Symlinks(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, "src/a.txt", "outside/b.txt")
	require.NoError(t, os.Symlink(filepath.Join(tmpDir, "outside"), filepath.Join(tmpDir, "src", "linked")))

	src := filepath.Join(tmpDir, "src")

	t.Run("not followed", func(t *testing.T) {
		res := walk(t, src, defaultOpts())
		require.Empty(t, res.errs)
		assert.Equal(t, []string{".", "a.txt", "linked"}, res.rels)
	})

	t.Run("not followed link to directory is a directory", func(t *testing.T) {
		for entry, err := range fs.NewWalker().Walk(src, defaultOpts()) {
			require.NoError(t, err)
			if entry.RelPath == "linked" {
				assert.True(t, entry.IsSymlink())
				assert.True(t, entry.IsDir())
			}
		}
	})

	t.Run("followed", func(t *testing.T) {
		opts := domain.NewScanConfig(domain.WithFollowLinks(true)).WalkOptions()
		res := walk(t, src, opts)
		require.Empty(t, res.errs)
		assert.Equal(t, []string{".", "a.txt", "linked", "linked/b.txt"}, res.rels)
	})
}

func TestWalker_Walk_SymlinkMarkedAsLink(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, "a.txt")
	require.NoError(t, os.Symlink(filepath.Join(tmpDir, "a.txt"), filepath.Join(tmpDir, "b.txt")))

	for _, follow := range []bool{false, true} {
		opts := domain.NewScanConfig(domain.WithFollowLinks(follow)).WalkOptions()
		for entry, err := range fs.NewWalker().Walk(tmpDir, opts) {
			require.NoError(t, err)
			if entry.RelPath == "b.txt" {
				assert.True(t, entry.IsSymlink())
				assert.False(t, entry.IsDir())
			}
		}
	}
}

func TestWalker_Walk_SymlinkLoop(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, "dir/a.txt")
	require.NoError(t, os.Symlink(tmpDir, filepath.Join(tmpDir, "dir", "loop")))

	opts := domain.NewScanConfig(domain.WithFollowLinks(true)).WalkOptions()
	res := walk(t, tmpDir, opts)

	require.Len(t, res.errs, 1)
	assert.ErrorIs(t, res.errs[0], domain.ErrTraversal)
	assert.ErrorIs(t, res.errs[0], domain.ErrSymlinkLoop)
	assert.Equal(t, []string{".", "dir", "dir/a.txt"}, res.rels)
}

func TestWalker_Walk_BrokenLink(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, "a.txt")
	require.NoError(t, os.Symlink(filepath.Join(tmpDir, "gone"), filepath.Join(tmpDir, "dangling")))

	t.Run("not followed is a leaf", func(t *testing.T) {
		res := walk(t, tmpDir, defaultOpts())
		require.Empty(t, res.errs)
		assert.Equal(t, []string{".", "a.txt", "dangling"}, res.rels)
	})

	t.Run("followed is an error and the walk continues", func(t *testing.T) {
		opts := domain.NewScanConfig(domain.WithFollowLinks(true)).WalkOptions()
		res := walk(t, tmpDir, opts)
		require.Len(t, res.errs, 1)
		assert.ErrorIs(t, res.errs[0], domain.ErrTraversal)
		assert.ErrorIs(t, res.errs[0], domain.ErrBrokenLink)
		assert.Equal(t, []string{".", "a.txt"}, res.rels)
	})
}

func TestWalker_Walk_RootSymlink(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, "real/a.txt")
	root := filepath.Join(tmpDir, "root")
	require.NoError(t, os.Symlink(filepath.Join(tmpDir, "real"), root))

	t.Run("followed by default", func(t *testing.T) {
		res := walk(t, root, defaultOpts())
		require.Empty(t, res.errs)
		assert.Equal(t, []string{".", "a.txt"}, res.rels)
	})

	t.Run("leaf when disabled", func(t *testing.T) {
		opts := domain.NewScanConfig(domain.WithFollowRootLinks(false)).WalkOptions()
		var entries []*domain.Entry
		for entry, err := range fs.NewWalker().Walk(root, opts) {
			require.NoError(t, err)
			entries = append(entries, entry)
		}
		require.Len(t, entries, 1)
		assert.Equal(t, ".", entries[0].RelPath)
		assert.True(t, entries[0].IsSymlink())
		assert.True(t, entries[0].IsDir())
	})

	t.Run("link to file when disabled", func(t *testing.T) {
		fileLink := filepath.Join(tmpDir, "file-link")
		require.NoError(t, os.Symlink(filepath.Join(tmpDir, "real", "a.txt"), fileLink))
		opts := domain.NewScanConfig(domain.WithFollowRootLinks(false)).WalkOptions()
		var entries []*domain.Entry
		for entry, err := range fs.NewWalker().Walk(fileLink, opts) {
			require.NoError(t, err)
			entries = append(entries, entry)
		}
		require.Len(t, entries, 1)
		assert.Equal(t, "file-link", entries[0].RelPath)
		assert.False(t, entries[0].IsDir())
	})

	t.Run("follow links implies root", func(t *testing.T) {
		opts := domain.NewScanConfig(
			domain.WithFollowRootLinks(false),
			domain.WithFollowLinks(true),
		).WalkOptions()
		res := walk(t, root, opts)
		require.Empty(t, res.errs)
		assert.Equal(t, []string{".", "a.txt"}, res.rels)
	})
}

func TestWalker_Walk_UnreadableDirectory(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permissions are not enforced for root")
	}

	tmpDir := t.TempDir()
	writeTree(t, tmpDir, "a.txt", "locked/b.txt", "z/c.txt")
	locked := filepath.Join(tmpDir, "locked")
	require.NoError(t, os.Chmod(locked, 0o000))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o750) })

	res := walk(t, tmpDir, defaultOpts())

	require.Len(t, res.errs, 1)
	assert.ErrorIs(t, res.errs[0], domain.ErrIO)
	assert.ErrorIs(t, res.errs[0], os.ErrPermission)
	assert.Equal(t, []string{".", "a.txt", "locked", "z", "z/c.txt"}, res.rels)
}

func TestWalker_Walk_SameFileSystem(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, "a.txt", "dir/b.txt")

	opts := domain.NewScanConfig(domain.WithSameFileSystem(true)).WalkOptions()
	var rels []string
	var errs []error
	for entry, err := range fs.NewWalker().Walk(tmpDir, opts) {
		if err != nil {
			errs = append(errs, err)
			continue
		}
		rels = append(rels, entry.RelPath)
	}

	if len(errs) > 0 {
		require.Len(t, errs, 1)
		assert.ErrorIs(t, errs[0], domain.ErrCrossDeviceUnsupported)
		assert.Empty(t, rels)
		return
	}
	slices.Sort(rels)
	assert.Equal(t, []string{".", "a.txt", "dir", "dir/b.txt"}, rels)
}

func TestWalker_Walk_EarlyBreak(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, "a/1.txt", "b/2.txt", "c/3.txt")

	count := 0
	for _, err := range fs.NewWalker().Walk(tmpDir, defaultOpts()) {
		require.NoError(t, err)
		count++
		if count == 2 {
			break
		}
	}
	assert.Equal(t, 2, count)
}

func TestWalker_Walk_ErrorsAreTyped(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.Symlink(filepath.Join(tmpDir, "gone"), filepath.Join(tmpDir, "dangling")))

	opts := domain.NewScanConfig(domain.WithFollowLinks(true)).WalkOptions()
	for _, err := range fs.NewWalker().Walk(tmpDir, opts) {
		if err == nil {
			continue
		}
		assert.False(t, errors.Is(err, domain.ErrIO))
		assert.True(t, errors.Is(err, os.ErrNotExist))
	}
}
