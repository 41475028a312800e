package pdfops

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/AnyUserName/docbatch/internal/batch"
	"github.com/AnyUserName/docbatch/internal/index"
	"github.com/AnyUserName/docbatch/internal/report"
)

// MergedPrefix marks the merge output.
const MergedPrefix = "!merged_"

// Merge concatenates every PDF under root, in index order, into
// "<root>/!merged_<first file name>". Documents without pages contribute
// nothing and unreadable ones are recorded as failures.
func Merge(_ context.Context, env *batch.Env, root string) (*report.Result, error) {
	files, err := index.Scan(root, index.PDF...)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no PDF files found to merge in %s", batch.ErrNoInput, root)
	}

	r := report.New("merge-pdf", root)
	var inputs []string
	env.Each(r.Operation, r, files.Paths(), func(path string) error {
		n, err := PageCount(path)
		if err != nil {
			return err
		}
		if n == 0 {
			r.Skip(path, "no pages")
			return nil
		}
		inputs = append(inputs, path)
		return nil
	})

	if len(inputs) > 0 {
		out := filepath.Join(root, MergedPrefix+filepath.Base(files[0].AbsPath))
		if err := api.MergeCreateFile(inputs, out, false, newConfig()); err != nil {
			return r, fmt.Errorf("merge into %s: %w", out, err)
		}
		r.AddOutput(out, "")
		r.Line("Merge PDF Result: %s", out)
	}

	r.ComputeStats(len(files))
	return r, nil
}
