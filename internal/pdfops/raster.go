package pdfops

import (
	"context"
	"fmt"
	"os"

	"github.com/AnyUserName/docbatch/internal/batch"
	"github.com/AnyUserName/docbatch/internal/index"
	"github.com/AnyUserName/docbatch/internal/report"
)

// PageImageName is "<name> <i>.png" with i counted from zero.
func PageImageName(src string, i int) string {
	return fmt.Sprintf("%s %d.png", index.StripExt(src), i)
}

// rasterize renders every page of path into a scratch directory and
// calls fn with that directory and the page images in order. The
// directory is removed afterwards.
func rasterize(ctx context.Context, env *batch.Env, path string, fn func(dir string, pages []string) error) error {
	dir, err := scratchDir(path)
	if err != nil {
		return err
	}
	defer os.RemoveAll(dir)

	pages, err := env.Caps.PDFRasterizer.Rasterize(ctx, path, dir, env.Options.RasterDPI)
	if err != nil {
		return fmt.Errorf("rasterize %s: %w", path, err)
	}
	return fn(dir, pages)
}

// ToImages renders every page of every PDF under root to
// "<name> <i>.png". Without a rasterizer nothing is written.
func ToImages(ctx context.Context, env *batch.Env, root string) (*report.Result, error) {
	if env.Caps.PDFRasterizer == nil {
		return nil, fmt.Errorf("%w: pdftoppm not found in PATH", batch.ErrExternalToolMissing)
	}
	files, err := index.Scan(root, index.PDF...)
	if err != nil {
		return nil, err
	}

	r := report.New("pdf-to-image", root)
	env.Each(r.Operation, r, files.Paths(), func(path string) error {
		return rasterize(ctx, env, path, func(_ string, pages []string) error {
			for i, p := range pages {
				out := PageImageName(path, i)
				if err := os.Rename(p, out); err != nil {
					return fmt.Errorf("move page %d: %w", i, err)
				}
				r.AddOutput(out, path)
			}
			return nil
		})
	})

	r.ComputeStats(len(files))
	return r, nil
}
