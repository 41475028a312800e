package engine

import (
	"github.com/AnyUserName/docbatch/internal/colors"
	"github.com/AnyUserName/docbatch/internal/compose"
	"github.com/AnyUserName/docbatch/internal/dupes"
	"github.com/AnyUserName/docbatch/internal/inspect"
	"github.com/AnyUserName/docbatch/internal/pdfops"
	"github.com/AnyUserName/docbatch/internal/rename"
)

// Builtin lists the operations every engine starts with.
func Builtin() []Operation {
	return []Operation{
		// PDF
		{Name: "merge-pdf", Short: "Merge all PDFs into !merged_<first>", Run: pdfops.Merge},
		{Name: "stitch-pdf", Short: "Stitch each PDF's pages onto one vertical and one horizontal page", Run: pdfops.Stitch},
		{Name: "page-range", Short: "Export a page range of every PDF", Input: TextInput,
			Prompt: "Page range (s-e, -e, s- or n): ", Run: pdfops.ExportRange},
		{Name: "encrypt-pdf", Short: "Write an AES-256 encrypted copy of every PDF", Input: SecretInput,
			Prompt: "Password: ", Run: pdfops.Encrypt},
		{Name: "contrast", Short: "Raise the contrast of every PDF page", Run: pdfops.EnhanceContrast},
		{Name: "pdf-to-image", Short: "Render every PDF page to PNG", Run: pdfops.ToImages},
		{Name: "image-to-pdf", Short: "Turn every PNG/JPG into a one-page PDF", Run: pdfops.ImagesToPDF},

		// PDF and images
		{Name: "resave", Short: "Rewrite PDFs and images in place without metadata", Run: compose.Resave},
		{Name: "sanitize", Short: "Resave and rename to document.pdf / image.<ext>", Run: compose.Sanitize},
		{Name: "info", Short: "List sizes, image geometry, EXIF and PDF metadata", Run: inspect.Describe},

		// Images
		{Name: "crop-template", Short: "Cut known capture sizes into their template regions", Run: compose.CropTemplates},
		{Name: "crop-90", Short: "Keep the centered 90% of every image", Run: compose.CropPercent},
		{Name: "crop-edges", Short: "Trim solid-color borders", Run: compose.CropEdges},
		{Name: "merge-images", Short: "Stitch all images vertically and horizontally", Run: compose.MergeImages},
		{Name: "convert-png-jpg", Short: "Convert PNG to JPEG and JPEG to PNG", Run: compose.ConvertPNGJPG},
		{Name: "to-ico", Short: "Write an .ico for every image", Run: compose.ToICO},
		{Name: "convert-svg-webp", Short: "Render SVG and WEBP files to PNG", Run: compose.ConvertSVGWebP},
		{Name: "colors", Short: "Report average and most frequent colors", Run: colors.Report},

		// Any file
		{Name: "duplicates", Short: "Report files with identical content", Run: dupes.Report},
		{Name: "rename", Short: "Rename all files to <base>-<n>.<ext>", Input: TextInput,
			Prompt: "Base name: ", Run: rename.Run},
	}
}
