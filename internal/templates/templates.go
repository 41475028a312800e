// Package templates maps known capture sizes to the regions cut out of
// them by the template crop.
package templates

import (
	"fmt"
	"image"
	"sort"
)

// Size is an exact image dimension used as a table key.
type Size struct {
	Width  int
	Height int
}

// Template maps one capture size to the regions cut out of it.
type Template struct {
	Width   int      `mapstructure:"width" yaml:"width"`
	Height  int      `mapstructure:"height" yaml:"height"`
	Regions [][4]int `mapstructure:"regions" yaml:"regions"` // [left, top, right, bottom]
}

// Table is the crop-template lookup keyed by exact dimensions.
type Table struct {
	entries map[Size][]image.Rectangle
}

// Built-in templates: a 1280x1080 capture keeps its top 720 rows, dual
// 1280x720 and 1920x1080+1280x1080 monitor captures split per monitor.
var builtin = []Template{
	{Width: 1280, Height: 1080, Regions: [][4]int{{0, 0, 1280, 720}}},
	{Width: 2560, Height: 720, Regions: [][4]int{{0, 0, 1280, 720}, {1280, 0, 2560, 720}}},
	{Width: 3200, Height: 1080, Regions: [][4]int{{0, 0, 1920, 1080}, {1920, 0, 3200, 1080}}},
}

// Default returns a table holding only the built-in templates.
func Default() *Table {
	t := &Table{entries: make(map[Size][]image.Rectangle)}
	for _, tpl := range builtin {
		// Built-ins are known valid.
		_ = t.Add(tpl)
	}
	return t
}

// Add registers tpl, replacing any existing entry for the same size.
func (t *Table) Add(tpl Template) error {
	if len(tpl.Regions) == 0 {
		return fmt.Errorf("template %dx%d: no regions", tpl.Width, tpl.Height)
	}
	rects := make([]image.Rectangle, 0, len(tpl.Regions))
	for i, r := range tpl.Regions {
		rect := image.Rect(r[0], r[1], r[2], r[3])
		if r[0] < 0 || r[1] < 0 || r[0] >= r[2] || r[1] >= r[3] || r[2] > tpl.Width || r[3] > tpl.Height {
			return fmt.Errorf("template %dx%d region %d: %v outside image", tpl.Width, tpl.Height, i+1, r)
		}
		rects = append(rects, rect)
	}
	t.entries[Size{tpl.Width, tpl.Height}] = rects
	return nil
}

// Lookup returns the regions for an image of the given size.
func (t *Table) Lookup(width, height int) ([]image.Rectangle, bool) {
	r, ok := t.entries[Size{width, height}]
	return r, ok
}

// Sizes lists the registered sizes, widest first.
func (t *Table) Sizes() []Size {
	out := make([]Size, 0, len(t.entries))
	for s := range t.entries {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Width != out[j].Width {
			return out[i].Width > out[j].Width
		}
		return out[i].Height > out[j].Height
	})
	return out
}
