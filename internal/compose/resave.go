package compose

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/AnyUserName/docbatch/internal/batch"
	"github.com/AnyUserName/docbatch/internal/index"
	"github.com/AnyUserName/docbatch/internal/pdfops"
	"github.com/AnyUserName/docbatch/internal/report"
)

// Generic names used by Sanitize.
const (
	SanitizedPDF   = "document"
	SanitizedImage = "image"
)

// Resave rewrites every PDF and image in place without document
// metadata. PDFs lose their info dictionary and XMP stream, images are
// decoded and re-encoded so EXIF and ancillary chunks are dropped.
func Resave(ctx context.Context, env *batch.Env, root string) (*report.Result, error) {
	return resave(ctx, env, root, false)
}

// Sanitize is Resave followed by renaming each output to a generic
// name ("document.pdf", "image.<ext>"), so the file name leaks nothing.
func Sanitize(ctx context.Context, env *batch.Env, root string) (*report.Result, error) {
	return resave(ctx, env, root, true)
}

func resave(_ context.Context, env *batch.Env, root string, sanitize bool) (*report.Result, error) {
	files, err := index.Scan(root, index.ImagesAndPDF...)
	if err != nil {
		return nil, err
	}
	op := "resave"
	if sanitize {
		op = "sanitize"
	}
	r := report.New(op, root)
	enc := encoders(env)
	claimed := make(map[string]bool)

	env.Each(r.Operation, r, files.Paths(), func(path string) error {
		before, err := fileSize(path)
		if err != nil {
			return err
		}

		ext := index.RawExt(path)
		tmp, err := tempSibling(path, ext)
		if err != nil {
			return err
		}
		defer os.Remove(tmp)

		if index.Ext(path) == "pdf" {
			if err := pdfops.StripMetadata(path, tmp); err != nil {
				return err
			}
		} else {
			img, err := open(path)
			if err != nil {
				return err
			}
			if err := enc.Save(tmp, img); err != nil {
				return err
			}
		}

		target := path
		if sanitize {
			target = genericName(path, claimed)
		}
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("remove %s: %w", path, err)
		}
		if err := os.Rename(tmp, target); err != nil {
			return fmt.Errorf("rename %s: %w", tmp, err)
		}
		claimed[target] = true

		after, err := fileSize(target)
		if err != nil {
			return err
		}
		r.AddOutput(target, path)
		r.Line("%s %s", target, SizeChange(before, after))
		return nil
	})

	r.ComputeStats(len(files))
	return r, nil
}

// SizeChange formats "<old> KB to <new> KB (<pct>%)".
func SizeChange(before, after int64) string {
	oldKB := float64(before) / 1024
	newKB := float64(after) / 1024
	pct := 0.0
	if before > 0 {
		pct = (newKB - oldKB) / oldKB * 100
	}
	return fmt.Sprintf("%.1f KB to %.1f KB (%.1f%%)", oldKB, newKB, pct)
}

// genericName picks the sanitized name for path. A name written earlier
// in the run, or held by another file, gets a "-2", "-3", ... suffix
// instead of being overwritten.
func genericName(path string, claimed map[string]bool) string {
	dir := filepath.Dir(path)
	base := SanitizedImage
	if index.Ext(path) == "pdf" {
		base = SanitizedPDF
	}
	ext := "." + index.RawExt(path)

	name := filepath.Join(dir, base+ext)
	taken := func(p string) bool {
		if claimed[p] {
			return true
		}
		if p == path {
			return false
		}
		_, err := os.Lstat(p)
		return err == nil
	}
	for n := 2; taken(name); n++ {
		name = filepath.Join(dir, base+"-"+strconv.Itoa(n)+ext)
	}
	return name
}

// tempSibling reserves a file in path's directory ending in ext.
func tempSibling(path, ext string) (string, error) {
	f, err := os.CreateTemp(filepath.Dir(path), ".docbatch-*."+ext)
	if err != nil {
		return "", fmt.Errorf("create temp for %s: %w", path, err)
	}
	name := f.Name()
	if err := f.Close(); err != nil {
		os.Remove(name)
		return "", err
	}
	return name, nil
}
