// Package colors reports the average and most frequent colors of images.
package colors

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"sort"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/AnyUserName/docbatch/internal/batch"
	"github.com/AnyUserName/docbatch/internal/index"
	"github.com/AnyUserName/docbatch/internal/report"
)

// TopN is how many frequent colors each summary lists.
const TopN = 3

// errNoOpaquePixels is returned for images whose pixels are all
// partially or fully transparent.
var errNoOpaquePixels = errors.New("no opaque pixels")

// RGB is one color sample without alpha.
type RGB struct {
	R, G, B uint8
}

// Hex formats c as "#rrggbb".
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Frequency is a color and how many sampled pixels carry it.
type Frequency struct {
	Color RGB
	Count int
}

// Summary is the analysis of one image.
type Summary struct {
	Path    string
	Average RGB
	Top     []Frequency
}

// String renders the summary block.
func (s Summary) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Filename: %s\nAverage color: %s", s.Path, s.Average.Hex())
	for _, f := range s.Top {
		fmt.Fprintf(&b, "\nColor: %s, Frequency: %d", f.Color.Hex(), f.Count)
	}
	return b.String()
}

// hasAlpha reports whether img's color model carries an alpha channel.
func hasAlpha(img image.Image) bool {
	switch m := img.(type) {
	case *image.NRGBA, *image.RGBA, *image.NRGBA64, *image.RGBA64:
		return true
	case *image.Paletted:
		for _, c := range m.Palette {
			if _, _, _, a := c.RGBA(); a != 0xffff {
				return true
			}
		}
	}
	return false
}

// Analyze computes the channel means and the TopN most frequent colors.
// When img has an alpha channel only fully opaque pixels are sampled.
// Means are truncated; frequency ties keep first-seen order.
func Analyze(img image.Image) (RGB, []Frequency, error) {
	b := img.Bounds()
	filter := hasAlpha(img)

	var sumR, sumG, sumB, n uint64
	counts := make(map[RGB]int)
	var order []RGB

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			if filter && c.A != 255 {
				continue
			}
			px := RGB{c.R, c.G, c.B}
			sumR += uint64(c.R)
			sumG += uint64(c.G)
			sumB += uint64(c.B)
			n++
			if _, seen := counts[px]; !seen {
				order = append(order, px)
			}
			counts[px]++
		}
	}
	if n == 0 {
		return RGB{}, nil, errNoOpaquePixels
	}

	avg := RGB{uint8(sumR / n), uint8(sumG / n), uint8(sumB / n)}

	top := make([]Frequency, len(order))
	for i, c := range order {
		top[i] = Frequency{Color: c, Count: counts[c]}
	}
	sort.SliceStable(top, func(i, j int) bool { return top[i].Count > top[j].Count })
	if len(top) > TopN {
		top = top[:TopN]
	}
	return avg, top, nil
}

// AnalyzeFile decodes path and analyzes it.
func AnalyzeFile(path string) (Summary, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return Summary{}, fmt.Errorf("decode %s: %w", path, err)
	}
	avg, top, err := Analyze(img)
	if err != nil {
		return Summary{}, fmt.Errorf("analyze %s: %w", path, err)
	}
	return Summary{Path: path, Average: avg, Top: top}, nil
}

// Report analyzes every image under root. Summaries are separated by a
// blank line.
func Report(_ context.Context, env *batch.Env, root string) (*report.Result, error) {
	files, err := index.Scan(root, index.Images...)
	if err != nil {
		return nil, err
	}
	r := report.New("colors", root)

	env.Each(r.Operation, r, files.Paths(), func(path string) error {
		s, err := AnalyzeFile(path)
		if err != nil {
			return err
		}
		if len(r.Lines) > 0 {
			r.Line("")
		}
		r.Line("%s", s)
		return nil
	})

	r.ComputeStats(len(files))
	return r, nil
}
