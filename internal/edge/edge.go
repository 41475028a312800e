// Package edge finds the content region of an image bordered by solid
// color. Each of the four edges is scanned inward on its own against a
// corner reference color; the bounds are not reconciled with each other.
package edge

import (
	"fmt"
	"image"
	"image/color"
)

// DefaultThreshold is the per-channel tolerance for "same color".
const DefaultThreshold = 10

// CropRegion is a half-open pixel rectangle (Right and Bottom exclusive).
type CropRegion struct {
	Left, Top, Right, Bottom int
}

// Rect converts r to an image.Rectangle.
func (r CropRegion) Rect() image.Rectangle {
	return image.Rect(r.Left, r.Top, r.Right, r.Bottom)
}

// Valid reports whether 0 <= left < right <= width and 0 <= top < bottom <= height.
func (r CropRegion) Valid(width, height int) bool {
	return r.Left >= 0 && r.Left < r.Right && r.Right <= width &&
		r.Top >= 0 && r.Top < r.Bottom && r.Bottom <= height
}

func (r CropRegion) String() string {
	return fmt.Sprintf("(%d, %d, %d, %d)", r.Left, r.Top, r.Right, r.Bottom)
}

// Similar reports whether every RGB channel of a and b differs by at most
// threshold. Alpha is ignored.
func Similar(a, b color.NRGBA, threshold int) bool {
	return absDiff(a.R, b.R) <= threshold &&
		absDiff(a.G, b.G) <= threshold &&
		absDiff(a.B, b.B) <= threshold
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}

// FindCropRegion scans img from all four edges. The top-left corner is
// the reference for the top and left scans, top-right for the right scan
// and bottom-left for the bottom scan. A uniform image yields its full
// extent.
func FindCropRegion(img *image.NRGBA, threshold int) CropRegion {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return CropRegion{}
	}
	at := func(x, y int) color.NRGBA {
		return img.NRGBAAt(b.Min.X+x, b.Min.Y+y)
	}

	topRef := at(0, 0)
	bottomRef := at(0, h-1)
	leftRef := at(0, 0)
	rightRef := at(w-1, 0)

	rowDiffers := func(y int, ref color.NRGBA) bool {
		for x := 0; x < w; x++ {
			if !Similar(at(x, y), ref, threshold) {
				return true
			}
		}
		return false
	}
	colDiffers := func(x int, ref color.NRGBA) bool {
		for y := 0; y < h; y++ {
			if !Similar(at(x, y), ref, threshold) {
				return true
			}
		}
		return false
	}

	top := 0
	for y := 0; y < h; y++ {
		if rowDiffers(y, topRef) {
			top = y
			break
		}
	}

	bottom := h - 1
	for y := h - 1; y >= 0; y-- {
		if rowDiffers(y, bottomRef) {
			bottom = y
			break
		}
	}

	left := 0
	for x := 0; x < w; x++ {
		if colDiffers(x, leftRef) {
			left = x
			break
		}
	}

	right := w - 1
	for x := w - 1; x >= 0; x-- {
		if colDiffers(x, rightRef) {
			right = x
			break
		}
	}

	return CropRegion{Left: left, Top: top, Right: right + 1, Bottom: bottom + 1}
}
