// Package dupes finds files with identical content.
package dupes

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/AnyUserName/docbatch/internal/batch"
	"github.com/AnyUserName/docbatch/internal/hasher"
	"github.com/AnyUserName/docbatch/internal/report"
)

// Record pairs a duplicate with the first file seen carrying the same
// content.
type Record struct {
	Original  string
	Duplicate string
}

type candidate struct {
	path   string
	digest *hasher.Digest
}

func (c *candidate) sum() (hasher.Digest, error) {
	if c.digest == nil {
		d, err := hasher.DigestFile(c.path)
		if err != nil {
			return hasher.Digest{}, err
		}
		c.digest = &d
	}
	return *c.digest, nil
}

// Detector tracks originals as files are fed in walk order. Files are
// bucketed by xxHash fingerprint; the blake2b digest is only computed
// when a bucket already holds a file.
type Detector struct {
	buckets map[uint64][]*candidate
	records []Record
	files   int
}

// NewDetector returns an empty detector.
func NewDetector() *Detector {
	return &Detector{buckets: make(map[uint64][]*candidate)}
}

// Add feeds one file. It returns the original path and true when path
// duplicates a file added earlier.
func (d *Detector) Add(path string) (string, bool, error) {
	fp, err := hasher.FingerprintFile(path)
	if err != nil {
		return "", false, err
	}

	c := &candidate{path: path}
	bucket := d.buckets[fp]
	if len(bucket) > 0 {
		sum, err := c.sum()
		if err != nil {
			return "", false, err
		}
		for _, orig := range bucket {
			other, err := orig.sum()
			if err != nil {
				return "", false, err
			}
			if other == sum {
				d.files++
				d.records = append(d.records, Record{Original: orig.path, Duplicate: path})
				return orig.path, true, nil
			}
		}
	}
	d.files++
	d.buckets[fp] = append(bucket, c)
	return "", false, nil
}

// Records returns the pairs found so far in discovery order.
func (d *Detector) Records() []Record {
	return d.records
}

// Files is the number of files added successfully so far.
func (d *Detector) Files() int {
	return d.files
}

// Find walks root in filesystem order and feeds every regular file to a
// new Detector. Unreadable files are passed to onErr and skipped.
func Find(root string, onErr func(path string, err error)) (*Detector, error) {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", batch.ErrNotFound, root)
	}

	det := NewDetector()
	err = filepath.WalkDir(root, func(path string, e fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if !e.Type().IsRegular() {
			return nil
		}
		if _, _, err := det.Add(path); err != nil && onErr != nil {
			onErr(path, err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	return det, nil
}

// Text renders records the way the duplicates operation reports them.
func Text(records []Record) string {
	if len(records) == 0 {
		return "No duplicate files found."
	}
	var b strings.Builder
	b.WriteString("Duplicate files found:\n")
	for _, r := range records {
		fmt.Fprintf(&b, "\nOriginal: %s\nDuplicate: %s\n", r.Original, r.Duplicate)
	}
	return b.String()
}

// Report runs Find over root. Nothing is written to disk.
func Report(_ context.Context, env *batch.Env, root string) (*report.Result, error) {
	r := report.New("duplicates", root)
	det, err := Find(root, func(path string, err error) {
		r.Fail(path, err)
		env.Log.WithField("file", path).WithError(err).Warn("hash failed")
	})
	if err != nil {
		return nil, err
	}
	r.Lines = []string{Text(det.Records())}
	r.ComputeStats(det.Files() + len(r.Failures))
	return r, nil
}
