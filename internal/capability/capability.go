// Package capability probes optional external tools once at startup.
package capability

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/AnyUserName/docbatch/internal/batch"
)

// Tools names the executables to look for. Empty fields fall back to the
// default executable names.
type Tools struct {
	Pdftoppm    string `mapstructure:"pdftoppm"`
	RsvgConvert string `mapstructure:"rsvg_convert"`
}

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (osExecutor) LookPath(file string) (string, error) { return exec.LookPath(file) }

func (osExecutor) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// Detect resolves each tool on PATH and returns the capability set.
// Missing tools leave the matching rasterizer nil.
func Detect(tools Tools) batch.Capabilities {
	return detect(tools, osExecutor{})
}

func detect(tools Tools, ex executor) batch.Capabilities {
	if tools.Pdftoppm == "" {
		tools.Pdftoppm = "pdftoppm"
	}
	if tools.RsvgConvert == "" {
		tools.RsvgConvert = "rsvg-convert"
	}

	// pdfcpu is linked in, so image assembly is always possible.
	caps := batch.Capabilities{ImageAssembler: true}
	if path, err := ex.LookPath(tools.Pdftoppm); err == nil {
		caps.PDFRasterizer = &Pdftoppm{path: path, exec: ex}
	}
	if path, err := ex.LookPath(tools.RsvgConvert); err == nil {
		caps.SVGRasterizer = &RsvgConvert{path: path, exec: ex}
	}
	return caps
}

// Status is one row of the capability table.
type Status struct {
	Name      string `json:"name"`
	Available bool   `json:"available"`
	Provider  string `json:"provider,omitempty"`
}

// Describe lists the capabilities in a stable order.
func Describe(c batch.Capabilities) []Status {
	out := []Status{
		{Name: "pdf-rasterizer"},
		{Name: "vector-rasterizer"},
		{Name: "image-to-pdf-assembler", Available: c.ImageAssembler},
	}
	if c.PDFRasterizer != nil {
		out[0].Available = true
		out[0].Provider = c.PDFRasterizer.Name()
	}
	if c.SVGRasterizer != nil {
		out[1].Available = true
		out[1].Provider = c.SVGRasterizer.Name()
	}
	if c.ImageAssembler {
		out[2].Provider = "pdfcpu"
	}
	return out
}

// Pdftoppm rasterizes PDFs by shelling out to poppler's pdftoppm.
// Install: brew install poppler / apt install poppler-utils
type Pdftoppm struct {
	path string
	exec executor
}

func (p *Pdftoppm) Name() string { return "pdftoppm" }

// Rasterize writes page-<n>.png files into outDir and returns them in
// page order.
func (p *Pdftoppm) Rasterize(ctx context.Context, pdfPath, outDir string, dpi int) ([]string, error) {
	if dpi <= 0 {
		dpi = 200
	}
	prefix := filepath.Join(outDir, "page")
	out, err := p.exec.Run(ctx, p.path, "-png", "-r", strconv.Itoa(dpi), pdfPath, prefix)
	if err != nil {
		return nil, fmt.Errorf("pdftoppm: %w: %s", err, strings.TrimSpace(string(out)))
	}
	return collectPages(outDir, "page-")
}

// collectPages finds <prefix><n>.png files in dir ordered numerically by n.
func collectPages(dir, prefix string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	type page struct {
		n    int
		path string
	}
	var pages []page
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, ".png") {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(name, prefix), ".png"))
		if err != nil {
			continue
		}
		pages = append(pages, page{n, filepath.Join(dir, name)})
	}
	sort.Slice(pages, func(i, j int) bool { return pages[i].n < pages[j].n })

	paths := make([]string, len(pages))
	for i, p := range pages {
		paths[i] = p.path
	}
	return paths, nil
}

// RsvgConvert rasterizes SVG files with librsvg's rsvg-convert.
// Install: brew install librsvg / apt install librsvg2-bin
type RsvgConvert struct {
	path string
	exec executor
}

func (r *RsvgConvert) Name() string { return "rsvg-convert" }

func (r *RsvgConvert) RasterizeSVG(ctx context.Context, svgPath, pngPath string) error {
	out, err := r.exec.Run(ctx, r.path, "-f", "png", "-o", pngPath, svgPath)
	if err != nil {
		return fmt.Errorf("rsvg-convert: %w: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}
