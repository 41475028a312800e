package edge

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func filled(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

var white = color.NRGBA{255, 255, 255, 255}

func TestFindCropRegionWhiteBorder(t *testing.T) {
	img := filled(100, 100, white)
	// Non-uniform interior, every edge pixel of the interior far from white.
	for y := 10; y < 90; y++ {
		for x := 10; x < 90; x++ {
			img.SetNRGBA(x, y, color.NRGBA{uint8(x), uint8(y), 100, 255})
		}
	}

	r := FindCropRegion(img, DefaultThreshold)
	assert.Equal(t, CropRegion{10, 10, 90, 90}, r)
	assert.True(t, r.Valid(100, 100))
}

func TestFindCropRegionUniform(t *testing.T) {
	r := FindCropRegion(filled(40, 30, color.NRGBA{12, 34, 56, 255}), DefaultThreshold)
	assert.Equal(t, CropRegion{0, 0, 40, 30}, r)
}

func TestFindCropRegionThreshold(t *testing.T) {
	img := filled(20, 20, white)
	// Within tolerance, so still border.
	img.SetNRGBA(5, 5, color.NRGBA{246, 250, 255, 255})
	assert.Equal(t, CropRegion{0, 0, 20, 20}, FindCropRegion(img, DefaultThreshold))

	img.SetNRGBA(5, 5, color.NRGBA{240, 250, 255, 255})
	assert.Equal(t, CropRegion{5, 5, 6, 6}, FindCropRegion(img, DefaultThreshold))
}

func TestFindCropRegionIndependentScans(t *testing.T) {
	// Top half black, bottom half white. Top scan (ref black) stops at the
	// first white row, bottom scan (ref white) stops at the last black row.
	img := filled(10, 10, white)
	for y := 0; y < 5; y++ {
		for x := 0; x < 10; x++ {
			img.SetNRGBA(x, y, color.NRGBA{0, 0, 0, 255})
		}
	}
	r := FindCropRegion(img, DefaultThreshold)
	assert.Equal(t, 5, r.Top)
	assert.Equal(t, 5, r.Bottom)
	assert.False(t, r.Valid(10, 10))
}

func TestSimilarIgnoresAlpha(t *testing.T) {
	assert.True(t, Similar(color.NRGBA{1, 2, 3, 0}, color.NRGBA{1, 2, 3, 255}, 0))
	assert.False(t, Similar(color.NRGBA{0, 0, 0, 255}, color.NRGBA{0, 0, 11, 255}, 10))
}
