package compose

import (
	"context"
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"github.com/AnyUserName/docbatch/internal/batch"
	"github.com/AnyUserName/docbatch/internal/edge"
	"github.com/AnyUserName/docbatch/internal/encoder"
	"github.com/AnyUserName/docbatch/internal/index"
	"github.com/AnyUserName/docbatch/internal/report"
)

// CropRatio is the share of each dimension kept by the percentage crop.
const CropRatio = 0.9

// CenteredCrop returns the rectangle covering ratio of each dimension,
// centered in a width x height image. Sizes and edges round half to even.
func CenteredCrop(width, height int, ratio float64) image.Rectangle {
	nw := roundHalfEven(float64(width) * ratio)
	nh := roundHalfEven(float64(height) * ratio)
	return image.Rect(
		roundHalfEven(float64(width-nw)/2),
		roundHalfEven(float64(height-nh)/2),
		roundHalfEven(float64(width+nw)/2),
		roundHalfEven(float64(height+nh)/2),
	)
}

// CropTemplates cuts images whose exact size is in the template table
// into "<name> !CROPPED <i>.<ext>". Other sizes are left untouched.
func CropTemplates(_ context.Context, env *batch.Env, root string) (*report.Result, error) {
	files, err := index.Scan(root, index.PNGJPG...)
	if err != nil {
		return nil, err
	}
	r := report.New("crop-template", root)
	enc := encoders(env)

	env.Each(r.Operation, r, files.Paths(), func(path string) error {
		img, err := open(path)
		if err != nil {
			return err
		}
		b := img.Bounds()
		regions, ok := env.Templates.Lookup(b.Dx(), b.Dy())
		if !ok {
			env.Log.WithField("file", path).Debugf("no template for %dx%d", b.Dx(), b.Dy())
			return nil
		}
		for i, rect := range regions {
			out := fmt.Sprintf("%s !CROPPED %d.%s", index.StripExt(path), i+1, index.RawExt(path))
			if err := enc.Save(out, imaging.Crop(img, rect.Add(b.Min))); err != nil {
				return err
			}
			r.AddOutput(out, path)
		}
		return nil
	})

	r.ComputeStats(len(files))
	return r, nil
}

// CropPercent keeps the centered 90% of every image as
// "<name> !CROPPED 90.<ext>".
func CropPercent(_ context.Context, env *batch.Env, root string) (*report.Result, error) {
	files, err := index.Scan(root, index.Images...)
	if err != nil {
		return nil, err
	}
	r := report.New("crop-90", root)
	enc := encoders(env)

	env.Each(r.Operation, r, files.Paths(), func(path string) error {
		img, err := open(path)
		if err != nil {
			return err
		}
		b := img.Bounds()
		rect := CenteredCrop(b.Dx(), b.Dy(), CropRatio).Add(b.Min)
		out := fmt.Sprintf("%s !CROPPED 90.%s", index.StripExt(path), index.RawExt(path))
		if err := enc.Save(out, imaging.Crop(img, rect)); err != nil {
			return err
		}
		r.AddOutput(out, path)
		return nil
	})

	r.ComputeStats(len(files))
	return r, nil
}

// CropEdges removes solid-color borders, writing "<name>_cropped.<ext>".
func CropEdges(_ context.Context, env *batch.Env, root string) (*report.Result, error) {
	files, err := index.Scan(root, index.Images...)
	if err != nil {
		return nil, err
	}
	r := report.New("crop-edges", root)
	enc := encoders(env)

	env.Each(r.Operation, r, files.Paths(), func(path string) error {
		img, err := open(path)
		if err != nil {
			return err
		}
		rgb := imaging.Clone(encoder.FlattenRGB(img))
		b := rgb.Bounds()

		region := edge.FindCropRegion(rgb, env.Options.EdgeThreshold)
		if !region.Valid(b.Dx(), b.Dy()) {
			return fmt.Errorf("inconsistent edge scan %s for %dx%d image", region, b.Dx(), b.Dy())
		}

		out := fmt.Sprintf("%s_cropped.%s", index.StripExt(path), index.RawExt(path))
		if err := enc.Save(out, imaging.Crop(rgb, region.Rect())); err != nil {
			return err
		}
		r.AddOutput(out, path)
		r.Line("Cropped: %s", out)
		return nil
	})

	r.ComputeStats(len(files))
	return r, nil
}
