package compose

import (
	"context"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnyUserName/docbatch/internal/batch"
)

func writeImage(t *testing.T, path string, w, h int, c color.Color) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, imaging.Save(imaging.New(w, h, c), path))
}

func imageSize(t *testing.T, path string) (int, int) {
	t.Helper()
	img, err := imaging.Open(path)
	require.NoError(t, err)
	return img.Bounds().Dx(), img.Bounds().Dy()
}

func TestCenteredCrop(t *testing.T) {
	tests := []struct {
		w, h int
		want image.Rectangle
	}{
		{1000, 1000, image.Rect(50, 50, 950, 950)},
		{101, 101, image.Rect(5, 5, 96, 96)},
		{15, 15, image.Rect(0, 0, 14, 14)},
		{200, 100, image.Rect(10, 5, 190, 95)},
	}
	for _, tt := range tests {
		got := CenteredCrop(tt.w, tt.h, CropRatio)
		assert.Equal(t, tt.want, got, "%dx%d", tt.w, tt.h)
	}
}

func TestCropTemplates(t *testing.T) {
	dir := t.TempDir()
	writeImage(t, filepath.Join(dir, "single.png"), 1280, 1080, color.White)
	writeImage(t, filepath.Join(dir, "dual.png"), 2560, 720, color.White)
	writeImage(t, filepath.Join(dir, "other.png"), 640, 480, color.White)

	r, err := CropTemplates(context.Background(), batch.NewEnv(), dir)
	require.NoError(t, err)
	require.Len(t, r.Outputs, 3)
	assert.Empty(t, r.Failures)

	w, h := imageSize(t, filepath.Join(dir, "single !CROPPED 1.png"))
	assert.Equal(t, [2]int{1280, 720}, [2]int{w, h})
	for _, name := range []string{"dual !CROPPED 1.png", "dual !CROPPED 2.png"} {
		w, h := imageSize(t, filepath.Join(dir, name))
		assert.Equal(t, [2]int{1280, 720}, [2]int{w, h}, name)
	}
	assert.NoFileExists(t, filepath.Join(dir, "other !CROPPED 1.png"))
}

func TestCropPercent(t *testing.T) {
	dir := t.TempDir()
	writeImage(t, filepath.Join(dir, "a.png"), 1000, 1000, color.White)

	r, err := CropPercent(context.Background(), batch.NewEnv(), dir)
	require.NoError(t, err)
	require.Len(t, r.Outputs, 1)

	w, h := imageSize(t, filepath.Join(dir, "a !CROPPED 90.png"))
	assert.Equal(t, 900, w)
	assert.Equal(t, 900, h)
}

func TestCropEdges(t *testing.T) {
	dir := t.TempDir()
	img := imaging.New(100, 100, color.White)
	for y := 10; y < 90; y++ {
		for x := 10; x < 90; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 0, A: 255})
		}
	}
	require.NoError(t, imaging.Save(img, filepath.Join(dir, "border.png")))

	r, err := CropEdges(context.Background(), batch.NewEnv(), dir)
	require.NoError(t, err)
	require.Empty(t, r.Failures)

	w, h := imageSize(t, filepath.Join(dir, "border_cropped.png"))
	assert.Equal(t, 80, w)
	assert.Equal(t, 80, h)
}

func TestMergeImages(t *testing.T) {
	dir := t.TempDir()
	writeImage(t, filepath.Join(dir, "a.png"), 100, 50, color.White)
	writeImage(t, filepath.Join(dir, "b.jpg"), 50, 50, color.Black)

	r, err := MergeImages(context.Background(), batch.NewEnv(), dir)
	require.NoError(t, err)
	assert.Len(t, r.Outputs, 4)

	w, h := imageSize(t, filepath.Join(dir, VerticalPNG))
	assert.Equal(t, 100, w)
	assert.Equal(t, 150, h)

	w, h = imageSize(t, filepath.Join(dir, HorizontalJPG))
	assert.Equal(t, 150, w)
	assert.Equal(t, 50, h)
}

func TestMergeImagesInputCount(t *testing.T) {
	dir := t.TempDir()
	_, err := MergeImages(context.Background(), batch.NewEnv(), dir)
	assert.ErrorIs(t, err, batch.ErrNoInput)

	writeImage(t, filepath.Join(dir, "only.png"), 10, 10, color.White)
	_, err = MergeImages(context.Background(), batch.NewEnv(), dir)
	assert.ErrorIs(t, err, batch.ErrInsufficientInput)
	assert.NoFileExists(t, filepath.Join(dir, VerticalPNG))
}

func TestScaledDimensions(t *testing.T) {
	assert.Equal(t, 150, ScaledHeight(100, 150, 100))
	assert.Equal(t, 100, ScaledHeight(50, 50, 100))
	// 3/2*5 = 7.5 rounds to even
	assert.Equal(t, 8, ScaledHeight(2, 5, 3))
	assert.Equal(t, 100, ScaledWidth(1000, 10, 1))
	// 1/1000*10 rounds to 0 and is clamped
	assert.Equal(t, 1, ScaledWidth(10, 1000, 1))
}

func TestConvertPNGJPG(t *testing.T) {
	dir := t.TempDir()
	writeImage(t, filepath.Join(dir, "a.png"), 20, 10, color.NRGBA{R: 255, A: 128})
	writeImage(t, filepath.Join(dir, "b.jpeg"), 20, 10, color.White)

	r, err := ConvertPNGJPG(context.Background(), batch.NewEnv(), dir)
	require.NoError(t, err)
	assert.Len(t, r.Outputs, 2)
	assert.FileExists(t, filepath.Join(dir, "a.jpg"))
	assert.FileExists(t, filepath.Join(dir, "b.png"))
}

func TestToICO(t *testing.T) {
	dir := t.TempDir()
	writeImage(t, filepath.Join(dir, "logo.png"), 512, 256, color.White)

	r, err := ToICO(context.Background(), batch.NewEnv(), dir)
	require.NoError(t, err)
	require.Len(t, r.Outputs, 1)

	data, err := os.ReadFile(filepath.Join(dir, "logo.ico"))
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 0, 1, 0, 1, 0}, data[:6])
}

type fakeSVG struct{ calls int }

func (f *fakeSVG) Name() string { return "fake" }

func (f *fakeSVG) RasterizeSVG(_ context.Context, _, pngPath string) error {
	f.calls++
	return imaging.Save(imaging.New(4, 4, color.White), pngPath)
}

func TestConvertSVGWebP(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "icon.svg"), []byte("<svg/>"), 0o644))

	r, err := ConvertSVGWebP(context.Background(), batch.NewEnv(), dir)
	require.NoError(t, err)
	require.Len(t, r.Skipped, 1)
	assert.Contains(t, r.Skipped[0].Reason, "CapabilityUnavailable")
	assert.NoFileExists(t, filepath.Join(dir, "icon.png"))

	env := batch.NewEnv()
	svg := &fakeSVG{}
	env.Caps.SVGRasterizer = svg
	r, err = ConvertSVGWebP(context.Background(), env, dir)
	require.NoError(t, err)
	assert.Equal(t, 1, svg.calls)
	assert.Len(t, r.Outputs, 1)
	assert.FileExists(t, filepath.Join(dir, "icon.png"))
}

func TestSanitizeImages(t *testing.T) {
	dir := t.TempDir()
	writeImage(t, filepath.Join(dir, "a.png"), 8, 8, color.White)
	writeImage(t, filepath.Join(dir, "b.png"), 8, 8, color.Black)

	r, err := Sanitize(context.Background(), batch.NewEnv(), dir)
	require.NoError(t, err)
	require.Empty(t, r.Failures)
	assert.Len(t, r.Lines, 2)

	assert.NoFileExists(t, filepath.Join(dir, "a.png"))
	assert.NoFileExists(t, filepath.Join(dir, "b.png"))
	assert.FileExists(t, filepath.Join(dir, "image.png"))
	assert.FileExists(t, filepath.Join(dir, "image-2.png"))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2, "no temp files left behind")
}

func TestResaveKeepsName(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "photo.jpg")
	writeImage(t, path, 16, 16, color.White)

	r, err := Resave(context.Background(), batch.NewEnv(), dir)
	require.NoError(t, err)
	require.Len(t, r.Outputs, 1)
	assert.Equal(t, path, r.Outputs[0].Path)
	assert.FileExists(t, path)
}

func TestSizeChange(t *testing.T) {
	assert.Equal(t, "2.0 KB to 1.0 KB (-50.0%)", SizeChange(2048, 1024))
	assert.Equal(t, "0.0 KB to 0.0 KB (0.0%)", SizeChange(0, 0))
}
