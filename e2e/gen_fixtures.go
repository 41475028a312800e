//go:build ignore

// gen_fixtures creates a small mixed directory of images and PDFs for the
// end-to-end smoke run.
// Usage: go run gen_fixtures.go <output_dir>
package main

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"

	"github.com/AnyUserName/docbatch/internal/pdfops/pdftest"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: gen_fixtures <output_dir>")
		os.Exit(1)
	}
	dir := os.Args[1]
	must(os.MkdirAll(filepath.Join(dir, "cards"), 0o755))

	// Banner (JPEG, 400x225)
	must(imaging.Save(gradient(400, 225), filepath.Join(dir, "banner.jpg"), imaging.JPEGQuality(85)))

	// Cards (PNG, 200x150 each) with a white border for crop-edges.
	for i := 1; i <= 3; i++ {
		name := fmt.Sprintf("card-%d.png", i)
		must(imaging.Save(solidWithBorder(200, 150, uint8(i*60)), filepath.Join(dir, "cards", name)))
	}
	// Byte-identical copy for the duplicate report.
	data, err := os.ReadFile(filepath.Join(dir, "cards", "card-1.png"))
	must(err)
	must(os.WriteFile(filepath.Join(dir, "card-1 copy.png"), data, 0o644))

	// Alpha image
	must(imaging.Save(alphaGradient(100, 100), filepath.Join(dir, "logo.png")))

	// Dual 1280x720 capture matching a built-in crop template.
	must(imaging.Save(gradient(2560, 720), filepath.Join(dir, "capture.png")))

	// PDFs
	must(pdftest.Write(filepath.Join(dir, "report.pdf"), []pdftest.Page{
		{Width: 612, Height: 792}, {Width: 612, Height: 792}, {Width: 612, Height: 396},
	}, map[string]string{"Title": "Quarterly report", "Author": "Fixtures"}))
	must(pdftest.Write(filepath.Join(dir, "letter.pdf"), []pdftest.Page{{Width: 612, Height: 792}}, nil))

	fmt.Fprintf(os.Stderr, "[gen_fixtures] created 10 fixtures in %s\n", dir)
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

func gradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x * 255 / w),
				G: uint8(y * 255 / h),
				B: 128,
				A: 255,
			})
		}
	}
	return img
}

func solidWithBorder(w, h int, base uint8) *image.NRGBA {
	img := imaging.New(w, h, color.White)
	inner := imaging.New(w-8, h-8, color.NRGBA{R: base, G: base + 40, B: base + 80, A: 255})
	return imaging.Paste(img, inner, image.Pt(4, 4))
}

func alphaGradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: 220, G: 60, B: 30,
				A: uint8(x * 255 / w),
			})
		}
	}
	return img
}
