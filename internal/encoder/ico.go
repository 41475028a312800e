package encoder

import (
	"bytes"
	"encoding/binary"
	"image"

	"github.com/disintegration/imaging"
)

// maxIconSide is the largest dimension an ICO directory entry can describe.
const maxIconSide = 256

// ICOEncoder writes a Windows icon holding one PNG-compressed image.
// Images larger than 256 pixels on a side are scaled down to fit.
type ICOEncoder struct{}

func (e *ICOEncoder) Format() string       { return "ico" }
func (e *ICOEncoder) Extensions() []string { return []string{"ico"} }

func (e *ICOEncoder) Encode(img image.Image, _ int) ([]byte, error) {
	b := img.Bounds()
	if b.Dx() > maxIconSide || b.Dy() > maxIconSide {
		img = imaging.Fit(img, maxIconSide, maxIconSide, imaging.Lanczos)
		b = img.Bounds()
	}

	payload, err := (&PNGEncoder{}).Encode(img, 0)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	// ICONDIR: reserved, type (1 = icon), image count.
	for _, v := range []uint16{0, 1, 1} {
		binary.Write(&buf, binary.LittleEndian, v)
	}
	// ICONDIRENTRY; a 0 width/height byte means 256.
	buf.WriteByte(byte(b.Dx() % maxIconSide))
	buf.WriteByte(byte(b.Dy() % maxIconSide))
	buf.WriteByte(0)                                    // palette size
	buf.WriteByte(0)                                    // reserved
	binary.Write(&buf, binary.LittleEndian, uint16(1))  // color planes
	binary.Write(&buf, binary.LittleEndian, uint16(32)) // bits per pixel
	binary.Write(&buf, binary.LittleEndian, uint32(len(payload)))
	binary.Write(&buf, binary.LittleEndian, uint32(6+16))
	buf.Write(payload)
	return buf.Bytes(), nil
}
