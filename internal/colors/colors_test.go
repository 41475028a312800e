package colors

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnyUserName/docbatch/internal/batch"
)

func TestAnalyzeOpaque(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 1))
	img.Set(0, 0, color.RGBA{255, 0, 0, 255})
	img.Set(1, 0, color.RGBA{255, 0, 0, 255})
	img.Set(2, 0, color.RGBA{0, 0, 255, 255})
	img.Set(3, 0, color.RGBA{0, 255, 0, 255})

	avg, top, err := Analyze(img)
	require.NoError(t, err)
	// 510/4 = 127.5 truncates
	assert.Equal(t, RGB{127, 63, 63}, avg)
	require.Len(t, top, 3)
	assert.Equal(t, Frequency{RGB{255, 0, 0}, 2}, top[0])
	// tie between blue and green keeps first-seen order
	assert.Equal(t, RGB{0, 0, 255}, top[1].Color)
	assert.Equal(t, RGB{0, 255, 0}, top[2].Color)
}

func TestAnalyzeSkipsTranslucent(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 1))
	img.Set(0, 0, color.NRGBA{10, 20, 30, 255})
	img.Set(1, 0, color.NRGBA{200, 200, 200, 254})
	img.Set(2, 0, color.NRGBA{200, 200, 200, 0})

	avg, top, err := Analyze(img)
	require.NoError(t, err)
	assert.Equal(t, RGB{10, 20, 30}, avg)
	assert.Len(t, top, 1)
}

func TestAnalyzeFullyTransparent(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	_, _, err := Analyze(img)
	assert.ErrorIs(t, err, errNoOpaquePixels)
}

func TestAnalyzeGrayHasNoAlphaFilter(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 2, 1))
	img.SetGray(0, 0, color.Gray{Y: 100})
	img.SetGray(1, 0, color.Gray{Y: 200})

	avg, _, err := Analyze(img)
	require.NoError(t, err)
	assert.Equal(t, RGB{150, 150, 150}, avg)
}

func TestSummaryString(t *testing.T) {
	s := Summary{
		Path:    "/x/a.png",
		Average: RGB{1, 2, 3},
		Top:     []Frequency{{RGB{255, 255, 255}, 9}},
	}
	want := "Filename: /x/a.png\nAverage color: #010203\nColor: #ffffff, Frequency: 9"
	assert.Equal(t, want, s.String())
}

func TestReport(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.png", "b.png"} {
		img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
		for i := range img.Pix {
			img.Pix[i] = 255
		}
		f, err := os.Create(filepath.Join(dir, name))
		require.NoError(t, err)
		require.NoError(t, png.Encode(f, img))
		require.NoError(t, f.Close())
	}

	r, err := Report(context.Background(), batch.NewEnv(), dir)
	require.NoError(t, err)

	block := "Average color: #ffffff\nColor: #ffffff, Frequency: 4"
	want := "Filename: " + filepath.Join(dir, "a.png") + "\n" + block +
		"\n\n" +
		"Filename: " + filepath.Join(dir, "b.png") + "\n" + block
	assert.Equal(t, want, r.Text())
}

func TestAnalyzeFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "white.jpg")
	require.NoError(t, imaging.Save(imaging.New(8, 8, color.White), path))

	s, err := AnalyzeFile(path)
	require.NoError(t, err)
	assert.Equal(t, path, s.Path)
	assert.Equal(t, "#ffffff", s.Average.Hex())

	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.png"), []byte("not an image"), 0o644))
	_, err = AnalyzeFile(filepath.Join(dir, "broken.png"))
	assert.Error(t, err)
}
