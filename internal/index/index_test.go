package index

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnyUserName/docbatch/internal/batch"
)

func touch(t *testing.T, root, rel string, size int) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, make([]byte, size), 0o644))
}

func relPaths(d DirectoryIndex) []string {
	out := make([]string, len(d))
	for i, e := range d {
		out[i] = e.RelPath
	}
	return out
}

func TestScanFiltersAndSorts(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "b.PDF", 3)
	touch(t, root, "A.pdf", 1)
	touch(t, root, "sub/c.pdf", 2)
	touch(t, root, "Sub2/a.png", 4)
	touch(t, root, "notes.txt", 5)

	idx, err := Scan(root, "pdf")
	require.NoError(t, err)
	assert.Equal(t, []string{"A.pdf", "b.PDF", "sub/c.pdf"}, relPaths(idx))
	assert.Equal(t, "pdf", idx[1].Ext)
	assert.Equal(t, int64(3), idx[1].Size)
	assert.Equal(t, filepath.Join(root, "sub", "c.pdf"), idx[2].AbsPath)

	all, err := Scan(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"A.pdf", "b.PDF", "notes.txt", "sub/c.pdf", "Sub2/a.png"}, relPaths(all))

	again, err := Scan(root)
	require.NoError(t, err)
	assert.Equal(t, all, again)
}

func TestScanEmptyIsNotError(t *testing.T) {
	idx, err := Scan(t.TempDir(), "pdf")
	require.NoError(t, err)
	assert.Empty(t, idx)
}

func TestScanMissingRoot(t *testing.T) {
	_, err := Scan(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, batch.ErrNotFound))
}

func TestExtHelpers(t *testing.T) {
	assert.Equal(t, "jpg", Ext("/x/Photo.JPG"))
	assert.Equal(t, "JPG", RawExt("/x/Photo.JPG"))
	assert.Equal(t, "/x/Photo", StripExt("/x/Photo.JPG"))
	assert.Equal(t, "", Ext("/x/README"))
}
