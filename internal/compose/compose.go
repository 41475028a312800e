// Package compose implements the raster image operations: template and
// percentage crops, edge crops, stitching and format conversions.
//
// Outputs are written next to their source using fixed name markers and
// always replace an existing file of the same name.
package compose

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"os"

	"github.com/disintegration/imaging"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/AnyUserName/docbatch/internal/batch"
	"github.com/AnyUserName/docbatch/internal/encoder"
)

// open decodes the image at path.
func open(path string) (image.Image, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

func encoders(env *batch.Env) *encoder.Registry {
	return encoder.NewRegistry(env.Options.JPEGQuality)
}

// roundHalfEven rounds x to the nearest integer, ties to even.
func roundHalfEven(x float64) int {
	return int(math.RoundToEven(x))
}

func fileSize(path string) (int64, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return fi.Size(), nil
}
