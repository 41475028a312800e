package pdfops

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/AnyUserName/docbatch/internal/batch"
	"github.com/AnyUserName/docbatch/internal/index"
	"github.com/AnyUserName/docbatch/internal/report"
)

// ContrastPercent converts a contrast multiplier (1.25 = 25% more
// contrast) to the percentage imaging.AdjustContrast takes.
func ContrastPercent(factor float64) float64 {
	return (factor - 1) * 100
}

// EnhanceContrast rasterizes every page of every PDF under root, raises
// its contrast and assembles the pages into "<name>_inc_contrast.pdf",
// each at its original page size.
func EnhanceContrast(ctx context.Context, env *batch.Env, root string) (*report.Result, error) {
	switch {
	case env.Caps.PDFRasterizer == nil:
		return nil, fmt.Errorf("%w: no PDF rasterizer", batch.ErrCapabilityUnavailable)
	case !env.Caps.ImageAssembler:
		return nil, fmt.Errorf("%w: no image to PDF assembler", batch.ErrCapabilityUnavailable)
	}
	files, err := index.Scan(root, index.PDF...)
	if err != nil {
		return nil, err
	}

	pct := ContrastPercent(env.Options.ContrastFactor)
	r := report.New("contrast", root)
	env.Each(r.Operation, r, files.Paths(), func(path string) error {
		dims, err := api.PageDimsFile(path)
		if err != nil {
			return fmt.Errorf("page sizes %s: %w", path, err)
		}

		return rasterize(ctx, env, path, func(dir string, pages []string) error {
			if len(pages) == 0 {
				r.Skip(path, "no pages")
				return nil
			}
			if len(pages) != len(dims) {
				return fmt.Errorf("rasterizer returned %d pages for %d", len(pages), len(dims))
			}

			tmp := filepath.Join(dir, "assembled.pdf")
			for i, p := range pages {
				img, err := imaging.Open(p)
				if err != nil {
					return fmt.Errorf("decode page %d: %w", i+1, err)
				}
				enhanced := filepath.Join(dir, fmt.Sprintf("enhanced-%d.png", i+1))
				if err := imaging.Save(imaging.AdjustContrast(img, pct), enhanced); err != nil {
					return fmt.Errorf("save page %d: %w", i+1, err)
				}
				if err := appendImagePage(enhanced, tmp, dims[i]); err != nil {
					return err
				}
			}

			out := index.StripExt(path) + "_inc_contrast.pdf"
			if err := os.Rename(tmp, out); err != nil {
				return fmt.Errorf("move %s: %w", out, err)
			}
			r.AddOutput(out, path)
			return nil
		})
	})

	r.ComputeStats(len(files))
	return r, nil
}
