// Package index lists the files under a directory in a deterministic order.
package index

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/AnyUserName/docbatch/internal/batch"
)

// FileEntry represents a discovered file.
type FileEntry struct {
	// AbsPath is the path on disk (root joined with RelPath).
	AbsPath string
	// RelPath is the path relative to the indexed root, slash-separated.
	RelPath string
	// Ext is the lower-cased extension without the dot, "" if none.
	Ext string
	// Size is the file size in bytes.
	Size int64
}

// DirectoryIndex is ordered case-insensitively by RelPath.
type DirectoryIndex []FileEntry

// Paths returns the absolute paths in index order.
func (d DirectoryIndex) Paths() []string {
	out := make([]string, len(d))
	for i, e := range d {
		out[i] = e.AbsPath
	}
	return out
}

// Common extension sets.
var (
	PDF          = []string{"pdf"}
	PNGJPG       = []string{"png", "jpg"}
	Images       = []string{"jpeg", "jpg", "png"}
	ImagesAndPDF = []string{"jpeg", "jpg", "pdf", "png"}
)

// Scan walks root and returns every file whose extension is in exts.
// With no exts, every file is returned.
func Scan(root string, exts ...string) (DirectoryIndex, error) {
	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", batch.ErrNotFound, root)
		}
		return nil, fmt.Errorf("stat %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", batch.ErrNotFound, root)
	}

	want := make(map[string]bool, len(exts))
	for _, e := range exts {
		want[strings.TrimPrefix(strings.ToLower(e), ".")] = true
	}

	var entries DirectoryIndex
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}

		ext := Ext(path)
		if len(want) > 0 && !want[ext] {
			return nil
		}

		fi, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		entries = append(entries, FileEntry{
			AbsPath: path,
			RelPath: filepath.ToSlash(rel),
			Ext:     ext,
			Size:    fi.Size(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}

	// Filesystem enumeration order must never leak into results.
	sort.Slice(entries, func(i, j int) bool {
		a, b := strings.ToLower(entries[i].RelPath), strings.ToLower(entries[j].RelPath)
		if a != b {
			return a < b
		}
		return entries[i].RelPath < entries[j].RelPath
	})
	return entries, nil
}

// Ext returns the lower-cased extension of path without the dot.
func Ext(path string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}

// RawExt returns the extension of path as written, without the dot.
func RawExt(path string) string {
	return strings.TrimPrefix(filepath.Ext(path), ".")
}

// StripExt returns path without its extension.
func StripExt(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path))
}
