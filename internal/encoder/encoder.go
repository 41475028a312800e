// Package encoder writes images in the format implied by an output
// file extension.
package encoder

import (
	"image"
)

// Encoder encodes an image to a specific format.
type Encoder interface {
	// Format returns the output format name (e.g. "jpeg", "png", "ico").
	Format() string

	// Encode converts the image to bytes at the given quality (1-100).
	// Lossless formats ignore quality.
	Encode(img image.Image, quality int) ([]byte, error)

	// Extensions returns the file extensions (without dot) this encoder writes.
	Extensions() []string
}
