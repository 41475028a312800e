package encoder

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
)

// JPEGEncoder encodes images to JPEG using Go's standard library.
type JPEGEncoder struct{}

func (e *JPEGEncoder) Format() string       { return "jpeg" }
func (e *JPEGEncoder) Extensions() []string { return []string{"jpg", "jpeg"} }

// Encode flattens img to opaque RGB before encoding.
func (e *JPEGEncoder) Encode(img image.Image, quality int) ([]byte, error) {
	if quality <= 0 || quality > 100 {
		quality = 95
	}

	var buf bytes.Buffer
	buf.Grow(256 * 1024)

	err := jpeg.Encode(&buf, FlattenRGB(img), &jpeg.Options{Quality: quality})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// FlattenRGB drops the alpha channel of img. Color channels keep their
// straight (non-premultiplied) values, so a transparent red pixel becomes
// opaque red rather than black.
func FlattenRGB(img image.Image) *image.RGBA {
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))

	switch src := img.(type) {
	case *image.YCbCr, *image.Gray, *image.CMYK:
		draw.Draw(out, out.Bounds(), src, b.Min, draw.Src)
		return out
	}

	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			c := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			out.SetRGBA(x, y, color.RGBA{R: c.R, G: c.G, B: c.B, A: 255})
		}
	}
	return out
}
