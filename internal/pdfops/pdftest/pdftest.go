// Package pdftest writes minimal, valid PDF files for tests.
package pdftest

import (
	"bytes"
	"fmt"
	"os"
	"sort"
)

// Page is one page's media box size in points.
type Page struct {
	Width, Height float64
}

// Write creates a PDF at path with one page per entry in pages. Each
// page draws a single diagonal line. info, when non-empty, becomes the
// document information dictionary.
func Write(path string, pages []Page, info map[string]string) error {
	return os.WriteFile(path, Build(pages, info), 0o644)
}

// Build returns the bytes Write would produce.
func Build(pages []Page, info map[string]string) []byte {
	var buf bytes.Buffer
	var offsets []int

	obj := func(body string) {
		offsets = append(offsets, buf.Len())
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", len(offsets), body)
	}

	buf.WriteString("%PDF-1.4\n")
	obj("<< /Type /Catalog /Pages 2 0 R >>")

	kids := ""
	for i := range pages {
		kids += fmt.Sprintf("%d 0 R ", 3+2*i)
	}
	obj(fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", kids, len(pages)))

	for i, p := range pages {
		content := fmt.Sprintf("0 0 m %g %g l S", p.Width, p.Height)
		obj(fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 %g %g] /Resources << >> /Contents %d 0 R >>",
			p.Width, p.Height, 4+2*i))
		obj(fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content))
	}

	infoRef := ""
	if len(info) > 0 {
		keys := make([]string, 0, len(info))
		for k := range info {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var d bytes.Buffer
		d.WriteString("<<")
		for _, k := range keys {
			fmt.Fprintf(&d, " /%s (%s)", k, info[k])
		}
		d.WriteString(" >>")
		obj(d.String())
		infoRef = fmt.Sprintf(" /Info %d 0 R", len(offsets))
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(offsets)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R%s >>\nstartxref\n%d\n%%%%EOF\n",
		len(offsets)+1, infoRef, xref)
	return buf.Bytes()
}
