package pdfops

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/AnyUserName/docbatch/internal/batch"
	"github.com/AnyUserName/docbatch/internal/index"
	"github.com/AnyUserName/docbatch/internal/report"
)

// Range is a 1-based inclusive page range. End 0 means the last page of
// whichever document the range is applied to.
type Range struct {
	Start int
	End   int
}

// ParseRange accepts "s-e", "-e", "s-" and "n".
func ParseRange(s string) (Range, error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, "-")

	num := func(v string) (int, error) {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil || n < 1 {
			return 0, fmt.Errorf("%w: page range %q: %q is not a positive page number", batch.ErrInvalidInput, s, v)
		}
		return n, nil
	}

	switch len(parts) {
	case 1:
		n, err := num(parts[0])
		if err != nil {
			return Range{}, err
		}
		return Range{Start: n, End: n}, nil
	case 2:
		var r Range
		a, b := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
		if a == "" && b == "" {
			return Range{}, fmt.Errorf("%w: page range %q is empty", batch.ErrInvalidInput, s)
		}
		r.Start = 1
		if a != "" {
			n, err := num(a)
			if err != nil {
				return Range{}, err
			}
			r.Start = n
		}
		if b != "" {
			n, err := num(b)
			if err != nil {
				return Range{}, err
			}
			r.End = n
		}
		if r.End != 0 && r.Start > r.End {
			return Range{}, fmt.Errorf("%w: page range %q starts after it ends", batch.ErrInvalidInput, s)
		}
		return r, nil
	}
	return Range{}, fmt.Errorf("%w: page range %q", batch.ErrInvalidInput, s)
}

// Resolve applies r to a document with pageCount pages. ok is false when
// the range starts past the last page; an end past it is clamped.
func (r Range) Resolve(pageCount int) (start, end int, ok bool) {
	if r.Start > pageCount {
		return 0, 0, false
	}
	end = r.End
	if end == 0 || end > pageCount {
		end = pageCount
	}
	return r.Start, end, true
}

// RangeFileName is "<start>-<end> <file name>".
func RangeFileName(start, end int, src string) string {
	return fmt.Sprintf("%d-%d %s", start, end, filepath.Base(src))
}

// ExportRange writes the range read from the input provider of every PDF
// under root to "<start>-<end> <name>" next to the source.
func ExportRange(_ context.Context, env *batch.Env, root string) (*report.Result, error) {
	in, ok := env.ReadInput()
	if !ok {
		return nil, fmt.Errorf("%w: no page range given", batch.ErrNoCredential)
	}
	rng, err := ParseRange(in)
	if err != nil {
		return nil, err
	}
	files, err := index.Scan(root, index.PDF...)
	if err != nil {
		return nil, err
	}

	r := report.New("page-range", root)
	env.Each(r.Operation, r, files.Paths(), func(path string) error {
		n, err := PageCount(path)
		if err != nil {
			return err
		}
		start, end, ok := rng.Resolve(n)
		if !ok {
			r.Skip(path, fmt.Sprintf("range starts after page %d", n))
			return nil
		}

		out := filepath.Join(filepath.Dir(path), RangeFileName(start, end, path))
		sel := []string{fmt.Sprintf("%d-%d", start, end)}
		if err := api.TrimFile(path, out, sel, newConfig()); err != nil {
			return fmt.Errorf("extract pages %d-%d: %w", start, end, err)
		}
		r.AddOutput(out, path)
		return nil
	})

	r.ComputeStats(len(files))
	return r, nil
}
