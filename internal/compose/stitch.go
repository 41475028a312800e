package compose

import (
	"context"
	"fmt"
	"image"
	"path/filepath"

	"github.com/disintegration/imaging"

	"github.com/AnyUserName/docbatch/internal/batch"
	"github.com/AnyUserName/docbatch/internal/encoder"
	"github.com/AnyUserName/docbatch/internal/index"
	"github.com/AnyUserName/docbatch/internal/report"
)

// Stitched output names, written to the root directory.
const (
	VerticalPNG   = "!vertical.png"
	VerticalJPG   = "!vertical.jpg"
	HorizontalPNG = "!horizontal.png"
	HorizontalJPG = "!horizontal.jpg"
)

// ScaledHeight is the height of a width x height image scaled to
// targetWidth, aspect ratio kept.
func ScaledHeight(width, height, targetWidth int) int {
	return atLeastOne(roundHalfEven(float64(targetWidth) / float64(width) * float64(height)))
}

// ScaledWidth is the width of a width x height image scaled to
// targetHeight, aspect ratio kept.
func ScaledWidth(width, height, targetHeight int) int {
	return atLeastOne(roundHalfEven(float64(targetHeight) / float64(height) * float64(width)))
}

func atLeastOne(v int) int {
	if v < 1 {
		return 1
	}
	return v
}

// StackVertical scales every image to the widest width and stacks them
// top to bottom in order.
func StackVertical(imgs []image.Image) *image.NRGBA {
	maxW := 0
	for _, img := range imgs {
		maxW = max(maxW, img.Bounds().Dx())
	}

	scaled := make([]image.Image, len(imgs))
	total := 0
	for i, img := range imgs {
		b := img.Bounds()
		h := ScaledHeight(b.Dx(), b.Dy(), maxW)
		scaled[i] = resizeRGB(img, maxW, h)
		total += h
	}

	dst := imaging.New(maxW, total, image.Black)
	y := 0
	for _, s := range scaled {
		dst = imaging.Paste(dst, s, image.Pt(0, y))
		y += s.Bounds().Dy()
	}
	return dst
}

// StackHorizontal scales every image to the tallest height and places
// them left to right in order.
func StackHorizontal(imgs []image.Image) *image.NRGBA {
	maxH := 0
	for _, img := range imgs {
		maxH = max(maxH, img.Bounds().Dy())
	}

	scaled := make([]image.Image, len(imgs))
	total := 0
	for i, img := range imgs {
		b := img.Bounds()
		w := ScaledWidth(b.Dx(), b.Dy(), maxH)
		scaled[i] = resizeRGB(img, w, maxH)
		total += w
	}

	dst := imaging.New(total, maxH, image.Black)
	x := 0
	for _, s := range scaled {
		dst = imaging.Paste(dst, s, image.Pt(x, 0))
		x += s.Bounds().Dx()
	}
	return dst
}

// resizeRGB drops alpha before resampling so transparent regions keep
// their color channels.
func resizeRGB(img image.Image, w, h int) image.Image {
	rgb := encoder.FlattenRGB(img)
	b := rgb.Bounds()
	if b.Dx() == w && b.Dy() == h {
		return rgb
	}
	return imaging.Resize(rgb, w, h, imaging.CatmullRom)
}

// MergeImages stitches every image in root into one vertical and one
// horizontal strip, each saved as PNG and JPEG.
func MergeImages(_ context.Context, env *batch.Env, root string) (*report.Result, error) {
	files, err := index.Scan(root, index.Images...)
	if err != nil {
		return nil, err
	}
	switch len(files) {
	case 0:
		return nil, fmt.Errorf("%w: no images to merge in %s", batch.ErrNoInput, root)
	case 1:
		return nil, fmt.Errorf("%w: need more than one image to merge", batch.ErrInsufficientInput)
	}

	r := report.New("merge-images", root)
	var imgs []image.Image
	env.Each(r.Operation, r, files.Paths(), func(path string) error {
		img, err := open(path)
		if err != nil {
			return err
		}
		imgs = append(imgs, img)
		return nil
	})
	if len(imgs) < 2 {
		r.ComputeStats(len(files))
		return r, fmt.Errorf("%w: fewer than two images could be decoded", batch.ErrInsufficientInput)
	}

	enc := encoders(env)
	vertical := StackVertical(imgs)
	horizontal := StackHorizontal(imgs)
	outputs := []struct {
		name string
		img  image.Image
	}{
		{VerticalPNG, vertical},
		{VerticalJPG, vertical},
		{HorizontalPNG, horizontal},
		{HorizontalJPG, horizontal},
	}

	for _, o := range outputs {
		path := filepath.Join(root, o.name)
		if err := enc.Save(path, o.img); err != nil {
			return r, err
		}
		r.AddOutput(path, "")
	}

	r.ComputeStats(len(files))
	return r, nil
}
