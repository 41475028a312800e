package compose

import (
	"context"
	"fmt"

	"github.com/AnyUserName/docbatch/internal/batch"
	"github.com/AnyUserName/docbatch/internal/index"
	"github.com/AnyUserName/docbatch/internal/report"
)

// ConvertPNGJPG turns PNG files into JPEG and JPEG files into PNG,
// keeping the base name.
func ConvertPNGJPG(_ context.Context, env *batch.Env, root string) (*report.Result, error) {
	files, err := index.Scan(root, index.Images...)
	if err != nil {
		return nil, err
	}
	r := report.New("convert-png-jpg", root)
	enc := encoders(env)

	env.Each(r.Operation, r, files.Paths(), func(path string) error {
		img, err := open(path)
		if err != nil {
			return err
		}
		target := "png"
		if index.Ext(path) == "png" {
			target = "jpg"
		}
		out := index.StripExt(path) + "." + target
		if err := enc.Save(out, img); err != nil {
			return err
		}
		r.AddOutput(out, path)
		return nil
	})

	r.ComputeStats(len(files))
	return r, nil
}

// ToICO writes "<name>.ico" for every image.
func ToICO(_ context.Context, env *batch.Env, root string) (*report.Result, error) {
	files, err := index.Scan(root, index.Images...)
	if err != nil {
		return nil, err
	}
	r := report.New("to-ico", root)
	enc := encoders(env)

	env.Each(r.Operation, r, files.Paths(), func(path string) error {
		img, err := open(path)
		if err != nil {
			return err
		}
		out := index.StripExt(path) + ".ico"
		if err := enc.Save(out, img); err != nil {
			return err
		}
		r.AddOutput(out, path)
		return nil
	})

	r.ComputeStats(len(files))
	return r, nil
}

// ConvertSVGWebP renders SVG and WEBP files to "<name>.png". SVG files
// are skipped when no vector rasterizer was detected.
func ConvertSVGWebP(ctx context.Context, env *batch.Env, root string) (*report.Result, error) {
	files, err := index.Scan(root, "svg", "webp")
	if err != nil {
		return nil, err
	}
	r := report.New("convert-svg-webp", root)
	enc := encoders(env)
	svg := env.Caps.SVGRasterizer

	env.Each(r.Operation, r, files.Paths(), func(path string) error {
		out := index.StripExt(path) + ".png"

		if index.Ext(path) == "svg" {
			if svg == nil {
				r.Skip(path, fmt.Sprintf("%s: no vector rasterizer", batch.Kind(batch.ErrCapabilityUnavailable)))
				return nil
			}
			if err := svg.RasterizeSVG(ctx, path, out); err != nil {
				return err
			}
			r.AddOutput(out, path)
			return nil
		}

		img, err := open(path)
		if err != nil {
			return err
		}
		if err := enc.Save(out, img); err != nil {
			return err
		}
		r.AddOutput(out, path)
		return nil
	})

	r.ComputeStats(len(files))
	return r, nil
}
