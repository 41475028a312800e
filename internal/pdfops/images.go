package pdfops

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/AnyUserName/docbatch/internal/batch"
	"github.com/AnyUserName/docbatch/internal/index"
	"github.com/AnyUserName/docbatch/internal/report"
)

// PageWidth is the width in points of a page built from an image: an
// 850 pixel wide page at 100 dpi.
const PageWidth = 850.0 / 100 * 72

// ImagePageDim is the page size for a width x height pixel image.
func ImagePageDim(width, height int) types.Dim {
	return types.Dim{Width: PageWidth, Height: PageWidth * float64(height) / float64(width)}
}

// appendImagePage adds imgPath as a new page of size dim to dst, creating
// dst when it does not exist. The image is centered and scaled to fit.
func appendImagePage(imgPath, dst string, dim types.Dim) error {
	imp := pdfcpu.DefaultImportConfig()
	imp.PageDim = &dim
	imp.UserDim = true
	imp.Pos = types.Center
	imp.Scale = 1.0
	imp.ScaleAbs = false
	if err := api.ImportImagesFile([]string{imgPath}, dst, imp, newConfig()); err != nil {
		return fmt.Errorf("import %s: %w", imgPath, err)
	}
	return nil
}

func removeIfExists(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func imageConfig(path string) (image.Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return image.Config{}, err
	}
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return image.Config{}, fmt.Errorf("decode %s: %w", path, err)
	}
	return cfg, nil
}

// ImagesToPDF writes "<name>.pdf" holding a single page for every PNG
// and JPG image under root.
func ImagesToPDF(_ context.Context, env *batch.Env, root string) (*report.Result, error) {
	if !env.Caps.ImageAssembler {
		return nil, fmt.Errorf("%w: no image to PDF assembler", batch.ErrCapabilityUnavailable)
	}
	files, err := index.Scan(root, index.PNGJPG...)
	if err != nil {
		return nil, err
	}

	r := report.New("image-to-pdf", root)
	env.Each(r.Operation, r, files.Paths(), func(path string) error {
		cfg, err := imageConfig(path)
		if err != nil {
			return err
		}
		if cfg.Width == 0 || cfg.Height == 0 {
			return fmt.Errorf("empty image %dx%d", cfg.Width, cfg.Height)
		}

		out := index.StripExt(path) + ".pdf"
		if err := removeIfExists(out); err != nil {
			return err
		}
		if err := appendImagePage(path, out, ImagePageDim(cfg.Width, cfg.Height)); err != nil {
			return err
		}
		r.AddOutput(out, path)
		return nil
	})

	r.ComputeStats(len(files))
	return r, nil
}
