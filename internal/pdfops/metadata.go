package pdfops

import (
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// Field is one document information entry.
type Field struct {
	Key   string
	Value string
}

// Info returns the non-empty document information fields of the PDF at
// path in a fixed order.
func Info(path string) ([]Field, error) {
	ctx, err := readContext(path)
	if err != nil {
		return nil, err
	}
	all := []Field{
		{"Title", ctx.Title},
		{"Author", ctx.Author},
		{"Subject", ctx.Subject},
		{"Keywords", ctx.Keywords},
		{"Creator", ctx.Creator},
		{"Producer", ctx.Producer},
		{"CreationDate", ctx.XRefTable.CreationDate},
		{"ModDate", ctx.ModDate},
	}
	var out []Field
	for _, f := range all {
		if f.Value != "" {
			out = append(out, f)
		}
	}
	return out, nil
}

// StripMetadata rewrites src to dst without its document information
// dictionary and XMP metadata stream. Pages are kept as they are.
func StripMetadata(src, dst string) error {
	ctx, err := readContext(src)
	if err != nil {
		return err
	}

	catalog, err := ctx.Catalog()
	if err != nil {
		return fmt.Errorf("catalog %s: %w", src, err)
	}
	delete(catalog, "Metadata")

	ctx.Info = nil
	ctx.Title, ctx.Author, ctx.Subject, ctx.Keywords = "", "", "", ""
	ctx.Creator, ctx.Producer, ctx.XRefTable.CreationDate, ctx.ModDate = "", "", "", ""

	if err := api.WriteContextFile(ctx, dst); err != nil {
		return fmt.Errorf("write %s: %w", dst, err)
	}
	return nil
}
