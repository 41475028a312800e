// Package inspect builds the file information report: sizes, image
// geometry with EXIF tags, and PDF document information.
package inspect

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"

	"github.com/AnyUserName/docbatch/internal/batch"
	"github.com/AnyUserName/docbatch/internal/index"
	"github.com/AnyUserName/docbatch/internal/pdfops"
	"github.com/AnyUserName/docbatch/internal/report"
)

// FormatSize renders n as "1,234 bytes (1.21 KB)", switching to MB from
// one mebibyte up.
func FormatSize(n int64) string {
	if n < 1<<20 {
		return fmt.Sprintf("%s bytes (%.2f KB)", groupThousands(n), float64(n)/1024)
	}
	return fmt.Sprintf("%s bytes (%.2f MB)", groupThousands(n), float64(n)/(1<<20))
}

func groupThousands(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	var b strings.Builder
	for i, c := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

// Mode names the color layout of a decoded image.
func Mode(m color.Model) string {
	switch m {
	case color.GrayModel:
		return "L"
	case color.Gray16Model:
		return "I;16"
	case color.YCbCrModel:
		return "RGB"
	case color.CMYKModel:
		return "CMYK"
	case color.RGBAModel, color.RGBA64Model:
		// Opaque truecolor; PNG decodes it into RGBA without an alpha chunk.
		return "RGB"
	case color.NRGBAModel, color.NRGBA64Model:
		return "RGBA"
	}
	if _, ok := m.(color.Palette); ok {
		return "P"
	}
	return "unknown"
}

// Tag is one EXIF field.
type Tag struct {
	Name  string
	Value string
}

type tagWalker struct{ tags []Tag }

func (w *tagWalker) Walk(name exif.FieldName, tag *tiff.Tag) error {
	w.tags = append(w.tags, Tag{Name: string(name), Value: tag.String()})
	return nil
}

// ExifTags returns the EXIF tags of the image at path sorted by name.
// Files without EXIF data yield no tags and no error; read failures are
// returned.
func ExifTags(path string) ([]Tag, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	// The file is in memory, so decode errors are about the data: either
	// there is no EXIF segment or it is unusable.
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil && (x == nil || exif.IsCriticalError(err)) {
		return nil, nil
	}
	w := &tagWalker{}
	if err := x.Walk(w); err != nil {
		return nil, err
	}
	sort.Slice(w.tags, func(i, j int) bool { return w.tags[i].Name < w.tags[j].Name })
	return w.tags, nil
}

func describeImage(b *strings.Builder, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	cfg, format, err := image.DecodeConfig(f)
	f.Close()
	if err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	fmt.Fprintf(b, "\n\tWidth, Height, Mode = (%d, %d, %s) %s",
		cfg.Width, cfg.Height, Mode(cfg.ColorModel), strings.ToUpper(format))

	tags, err := ExifTags(path)
	if err != nil {
		return err
	}
	for _, t := range tags {
		fmt.Fprintf(b, "\n\t%-25s: %s", t.Name, t.Value)
	}
	return nil
}

func describePDF(b *strings.Builder, path string) error {
	fields, err := pdfops.Info(path)
	if err != nil {
		return err
	}
	b.WriteString("\n\tMetadata:")
	for _, f := range fields {
		fmt.Fprintf(b, "\n\t%s: %s", f.Key, f.Value)
	}
	return nil
}

// Describe lists every image and PDF under root with a numbered entry.
func Describe(_ context.Context, env *batch.Env, root string) (*report.Result, error) {
	files, err := index.Scan(root, index.ImagesAndPDF...)
	if err != nil {
		return nil, err
	}
	r := report.New("info", root)

	n := 0
	env.Each(r.Operation, r, files.Paths(), func(path string) error {
		fi, err := os.Stat(path)
		if err != nil {
			return err
		}
		n++
		var b strings.Builder
		fmt.Fprintf(&b, "%d. %s\n\tFile Size: %s", n, path, FormatSize(fi.Size()))

		if index.Ext(path) == "pdf" {
			err = describePDF(&b, path)
		} else {
			err = describeImage(&b, path)
		}
		if err != nil {
			return err
		}
		r.Line("%s", b.String())
		return nil
	})

	r.ComputeStats(len(files))
	return r, nil
}
