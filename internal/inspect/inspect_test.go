package inspect

import (
	"context"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnyUserName/docbatch/internal/batch"
	"github.com/AnyUserName/docbatch/internal/pdfops/pdftest"
)

func TestFormatSize(t *testing.T) {
	assert.Equal(t, "0 bytes (0.00 KB)", FormatSize(0))
	assert.Equal(t, "1,234 bytes (1.21 KB)", FormatSize(1234))
	assert.Equal(t, "1,048,576 bytes (1.00 MB)", FormatSize(1<<20))
}

func TestGroupThousands(t *testing.T) {
	for in, want := range map[int64]string{
		7:        "7",
		999:      "999",
		1000:     "1,000",
		123456:   "123,456",
		-1234567: "-1,234,567",
	} {
		assert.Equal(t, want, groupThousands(in))
	}
}

func TestMode(t *testing.T) {
	assert.Equal(t, "RGB", Mode(color.YCbCrModel))
	assert.Equal(t, "L", Mode(color.GrayModel))
	assert.Equal(t, "RGBA", Mode(color.NRGBAModel))
	assert.Equal(t, "RGB", Mode(color.RGBAModel))
	assert.Equal(t, "P", Mode(color.Palette{color.Black}))
}

func TestDescribe(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, imaging.Save(imaging.New(30, 20, color.White), filepath.Join(dir, "a.jpg")))
	require.NoError(t, pdftest.Write(filepath.Join(dir, "b.pdf"),
		[]pdftest.Page{{Width: 100, Height: 100}},
		map[string]string{"Title": "Report"}))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "c.txt"), []byte("ignored"), 0o644))

	r, err := Describe(context.Background(), batch.NewEnv(), dir)
	require.NoError(t, err)
	require.Empty(t, r.Failures)
	require.Len(t, r.Lines, 2)

	assert.True(t, strings.HasPrefix(r.Lines[0], "1. "+filepath.Join(dir, "a.jpg")+"\n\tFile Size: "))
	assert.Contains(t, r.Lines[0], "Width, Height, Mode = (30, 20, RGB) JPEG")

	assert.True(t, strings.HasPrefix(r.Lines[1], "2. "+filepath.Join(dir, "b.pdf")))
	assert.Contains(t, r.Lines[1], "\n\tMetadata:")
	assert.Contains(t, r.Lines[1], "\n\tTitle: Report")
}

func TestExifTagsWithoutExif(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.png")
	require.NoError(t, imaging.Save(imaging.New(2, 2, color.White), path))

	tags, err := ExifTags(path)
	require.NoError(t, err)
	assert.Empty(t, tags)
}

func TestDescribeOpaquePNGIsRGB(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, imaging.Save(imaging.New(4, 3, color.White), filepath.Join(dir, "opaque.png")))
	require.NoError(t, imaging.Save(imaging.New(4, 3, color.NRGBA{R: 255, A: 100}), filepath.Join(dir, "see-through.png")))

	r, err := Describe(context.Background(), batch.NewEnv(), dir)
	require.NoError(t, err)
	require.Len(t, r.Lines, 2)
	assert.Contains(t, r.Lines[0], "(4, 3, RGB) PNG")
	assert.Contains(t, r.Lines[1], "(4, 3, RGBA) PNG")
}

func TestExifTagsReadError(t *testing.T) {
	_, err := ExifTags(t.TempDir())
	assert.Error(t, err)
}
