package pdfops

import (
	"context"
	"fmt"
	"io"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/AnyUserName/docbatch/internal/batch"
	"github.com/AnyUserName/docbatch/internal/index"
	"github.com/AnyUserName/docbatch/internal/report"
)

// Orientation selects how Stitch arranges pages.
type Orientation int

const (
	Vertical Orientation = iota
	Horizontal
)

func (o Orientation) String() string {
	if o == Horizontal {
		return "horizontal"
	}
	return "vertical"
}

// Placement is the lower-left corner of a page on the stitched page, in
// PDF user space.
type Placement struct {
	X, Y float64
}

// Layout places pages of the given sizes on one page.
//
// Vertical: width is the widest page, height the sum of heights, and
// pages run top to bottom in order, so page i sits at
// y = total height - sum of the heights of pages 0..i.
// Horizontal: width is the sum of widths, height the tallest page, and
// pages run left to right in reverse order, so the last page is leftmost.
func Layout(dims []types.Dim, o Orientation) ([]Placement, types.Dim) {
	places := make([]Placement, len(dims))
	var size types.Dim

	switch o {
	case Vertical:
		for _, d := range dims {
			size.Height += d.Height
			size.Width = max(size.Width, d.Width)
		}
		y := size.Height
		for i, d := range dims {
			y -= d.Height
			places[i] = Placement{X: 0, Y: y}
		}
	case Horizontal:
		x := 0.0
		for i := len(dims) - 1; i >= 0; i-- {
			places[i] = Placement{X: x, Y: 0}
			x += dims[i].Width
			size.Height = max(size.Height, dims[i].Height)
		}
		size.Width = x
	}
	return places, size
}

// stitchPage is one source page turned into a form XObject.
type stitchPage struct {
	form types.IndirectRef
	box  *types.Rectangle
}

// StitchFile writes every page of src onto a single page of dst. Page
// content is embedded as form XObjects, so nothing is rasterized.
func StitchFile(src, dst string, o Orientation) error {
	ctx, err := readContext(src)
	if err != nil {
		return err
	}
	if ctx.PageCount < 2 {
		return fmt.Errorf("stitch %s: need at least 2 pages, have %d", src, ctx.PageCount)
	}

	pages := make([]stitchPage, ctx.PageCount)
	dims := make([]types.Dim, ctx.PageCount)
	for i := range pages {
		p, err := pageForm(ctx, i+1)
		if err != nil {
			return fmt.Errorf("stitch %s: %w", src, err)
		}
		pages[i] = p
		dims[i] = types.Dim{Width: p.box.Width(), Height: p.box.Height()}
	}

	places, size := Layout(dims, o)

	var content []byte
	xobjects := types.Dict{}
	for i, p := range pages {
		name := fmt.Sprintf("Fm%d", i)
		xobjects[name] = p.form
		tx := places[i].X - p.box.LL.X
		ty := places[i].Y - p.box.LL.Y
		content = fmt.Appendf(content, "q 1 0 0 1 %.4f %.4f cm /%s Do Q\n", tx, ty, name)
	}

	if err := replacePages(ctx, content, xobjects, size); err != nil {
		return fmt.Errorf("stitch %s: %w", src, err)
	}
	if err := api.WriteContextFile(ctx, dst); err != nil {
		return fmt.Errorf("write %s: %w", dst, err)
	}
	return nil
}

// pageForm wraps page pageNr's content and resources in a form XObject
// whose bounding box is the page's media box.
func pageForm(ctx *model.Context, pageNr int) (stitchPage, error) {
	_, _, inh, err := ctx.PageDict(pageNr, true)
	if err != nil {
		return stitchPage{}, fmt.Errorf("page %d: %w", pageNr, err)
	}
	if inh == nil || inh.MediaBox == nil {
		return stitchPage{}, fmt.Errorf("page %d: no media box", pageNr)
	}

	var content []byte
	r, err := pdfcpu.ExtractPageContent(ctx, pageNr)
	if err != nil {
		return stitchPage{}, fmt.Errorf("page %d content: %w", pageNr, err)
	}
	if r != nil {
		if content, err = io.ReadAll(r); err != nil {
			return stitchPage{}, fmt.Errorf("page %d content: %w", pageNr, err)
		}
	}

	d := types.Dict{
		"Type":    types.Name("XObject"),
		"Subtype": types.Name("Form"),
		"BBox":    inh.MediaBox.Array(),
	}
	if inh.Resources != nil {
		d["Resources"] = inh.Resources
	}
	sd := types.NewStreamDict(d, 0, nil, nil, nil)
	sd.Content = content
	if err := sd.Encode(); err != nil {
		return stitchPage{}, fmt.Errorf("page %d form: %w", pageNr, err)
	}

	ref, err := ctx.IndRefForNewObject(sd)
	if err != nil {
		return stitchPage{}, fmt.Errorf("page %d form: %w", pageNr, err)
	}
	return stitchPage{form: *ref, box: inh.MediaBox}, nil
}

// replacePages swaps the document's page tree for a single page of the
// given size. Catalog entries that point into the old page tree are
// dropped so the old pages are not written.
func replacePages(ctx *model.Context, content []byte, xobjects types.Dict, size types.Dim) error {
	sd := types.NewStreamDict(types.Dict{}, 0, nil, nil, nil)
	sd.Content = content
	if err := sd.Encode(); err != nil {
		return err
	}
	contentRef, err := ctx.IndRefForNewObject(sd)
	if err != nil {
		return err
	}

	page := types.Dict{
		"Type":      types.Name("Page"),
		"MediaBox":  types.NewNumberArray(0, 0, size.Width, size.Height),
		"Resources": types.Dict{"XObject": xobjects},
		"Contents":  *contentRef,
	}
	pageRef, err := ctx.IndRefForNewObject(page)
	if err != nil {
		return err
	}

	pagesRef, err := ctx.IndRefForNewObject(types.Dict{
		"Type":  types.Name("Pages"),
		"Kids":  types.Array{*pageRef},
		"Count": types.Integer(1),
	})
	if err != nil {
		return err
	}
	page["Parent"] = *pagesRef

	catalog, err := ctx.Catalog()
	if err != nil {
		return err
	}
	catalog["Pages"] = *pagesRef
	for _, k := range []string{"Outlines", "StructTreeRoot", "PageLabels", "Dests", "OpenAction", "AcroForm"} {
		delete(catalog, k)
	}
	ctx.PageCount = 1
	return nil
}

// Stitch writes "<name>_vertical.pdf" and "<name>_horizontal.pdf" for
// every PDF under root with at least two pages.
func Stitch(_ context.Context, env *batch.Env, root string) (*report.Result, error) {
	files, err := index.Scan(root, index.PDF...)
	if err != nil {
		return nil, err
	}
	r := report.New("stitch-pdf", root)

	env.Each(r.Operation, r, files.Paths(), func(path string) error {
		n, err := PageCount(path)
		if err != nil {
			return err
		}
		if n < 2 {
			r.Skip(path, "less than 2 pages")
			return nil
		}
		for _, o := range []Orientation{Vertical, Horizontal} {
			out := fmt.Sprintf("%s_%s.pdf", index.StripExt(path), o)
			if err := StitchFile(path, out, o); err != nil {
				return err
			}
			r.AddOutput(out, path)
			r.Line("Created %s stitched PDF: %s", o, out)
		}
		return nil
	})

	r.ComputeStats(len(files))
	return r, nil
}
