package dupes

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnyUserName/docbatch/internal/batch"
)

func write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestFindOnePair(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.txt")
	b := filepath.Join(dir, "sub", "b.txt")
	c := filepath.Join(dir, "c.txt")
	write(t, a, "same bytes")
	write(t, b, "same bytes")
	write(t, c, "different")

	det, err := Find(dir, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, det.Files())
	assert.Equal(t, []Record{{Original: a, Duplicate: b}}, det.Records())
}

func TestFindMultipleDuplicatesShareOriginal(t *testing.T) {
	dir := t.TempDir()
	write(t, filepath.Join(dir, "1"), "x")
	write(t, filepath.Join(dir, "2"), "x")
	write(t, filepath.Join(dir, "3"), "x")

	det, err := Find(dir, nil)
	require.NoError(t, err)
	recs := det.Records()
	require.Len(t, recs, 2)
	for _, r := range recs {
		assert.Equal(t, filepath.Join(dir, "1"), r.Original)
	}
}

func TestFindMissingRoot(t *testing.T) {
	_, err := Find(filepath.Join(t.TempDir(), "nope"), nil)
	assert.ErrorIs(t, err, batch.ErrNotFound)
}

func TestText(t *testing.T) {
	assert.Equal(t, "No duplicate files found.", Text(nil))
	got := Text([]Record{{Original: "a", Duplicate: "b"}})
	assert.Equal(t, "Duplicate files found:\n\nOriginal: a\nDuplicate: b\n", got)
}

func TestReport(t *testing.T) {
	dir := t.TempDir()
	write(t, filepath.Join(dir, "a"), "1")
	write(t, filepath.Join(dir, "b"), "2")

	r, err := Report(context.Background(), batch.NewEnv(), dir)
	require.NoError(t, err)
	assert.Equal(t, "No duplicate files found.", r.Text())
	assert.Equal(t, 2, r.Stats.Inputs)
}

func TestDetectorCountsOnlyAddedFiles(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.txt")
	b := filepath.Join(dir, "b.txt")
	write(t, a, "same")
	write(t, b, "same")

	d := NewDetector()
	_, dup, err := d.Add(a)
	require.NoError(t, err)
	assert.False(t, dup)

	// The original's digest is computed lazily, so removing it makes the
	// second add fail after fingerprinting.
	require.NoError(t, os.Remove(a))
	_, _, err = d.Add(b)
	require.Error(t, err)

	assert.Equal(t, 1, d.Files())
	assert.Empty(t, d.Records())
}
