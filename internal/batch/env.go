// Package batch holds the types every batch operation receives: the
// input provider, progress observer, tuning options, detected
// capabilities and the error taxonomy.
package batch

import (
	"context"
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/AnyUserName/docbatch/internal/report"
	"github.com/AnyUserName/docbatch/internal/templates"
)

// Reporter receives the human-readable summary of an operation.
type Reporter interface {
	Report(text string)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(text string)

func (f ReporterFunc) Report(text string) { f(text) }

// InputProvider supplies one piece of free-text user input.
// ok is false when the user gave no value.
type InputProvider interface {
	ReadInput() (value string, ok bool)
}

// StaticInput is an InputProvider backed by a fixed string.
// An empty or whitespace-only string counts as no value.
type StaticInput string

func (s StaticInput) ReadInput() (string, bool) {
	if strings.TrimSpace(string(s)) == "" {
		return "", false
	}
	return string(s), true
}

// Observer is notified as an operation walks its file set.
type Observer interface {
	Begin(op string, total int)
	Step(path string, err error)
	End()
}

// NopObserver ignores all progress notifications.
type NopObserver struct{}

func (NopObserver) Begin(string, int)  {}
func (NopObserver) Step(string, error) {}
func (NopObserver) End()               {}

// Options are the tunables operations read.
type Options struct {
	EdgeThreshold  int
	JPEGQuality    int
	RasterDPI      int
	ContrastFactor float64
}

// DefaultOptions mirrors the configuration defaults.
func DefaultOptions() Options {
	return Options{
		EdgeThreshold:  10,
		JPEGQuality:    95,
		RasterDPI:      200,
		ContrastFactor: 1.25,
	}
}

// PDFRasterizer renders every page of a PDF to PNG files in outDir and
// returns their paths in page order.
type PDFRasterizer interface {
	Name() string
	Rasterize(ctx context.Context, pdfPath, outDir string, dpi int) ([]string, error)
}

// SVGRasterizer renders an SVG file to PNG.
type SVGRasterizer interface {
	Name() string
	RasterizeSVG(ctx context.Context, svgPath, pngPath string) error
}

// Capabilities are detected once at startup. A nil rasterizer means the
// capability is unavailable.
type Capabilities struct {
	PDFRasterizer  PDFRasterizer
	SVGRasterizer  SVGRasterizer
	ImageAssembler bool
}

// Env is passed to every operation.
type Env struct {
	Input     InputProvider
	Log       *logrus.Entry
	Observer  Observer
	Options   Options
	Caps      Capabilities
	Templates *templates.Table
}

// NewEnv returns an Env with silent logging, no input and default options.
func NewEnv() *Env {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return &Env{
		Input:     StaticInput(""),
		Log:       logrus.NewEntry(l),
		Observer:  NopObserver{},
		Options:   DefaultOptions(),
		Caps:      Capabilities{ImageAssembler: true},
		Templates: templates.Default(),
	}
}

// ReadInput reads the single input value. Empty strings count as absent.
func (e *Env) ReadInput() (string, bool) {
	if e.Input == nil {
		return "", false
	}
	v, ok := e.Input.ReadInput()
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func (e *Env) observer() Observer {
	if e.Observer == nil {
		return NopObserver{}
	}
	return e.Observer
}

// Each runs fn for every path in order, one at a time. A non-nil error
// from fn is recorded as a per-file failure and the batch continues.
func (e *Env) Each(op string, r *report.Result, paths []string, fn func(path string) error) {
	obs := e.observer()
	obs.Begin(op, len(paths))
	defer obs.End()

	for _, p := range paths {
		err := fn(p)
		if err != nil {
			r.Fail(p, err)
			e.Log.WithFields(logrus.Fields{"op": op, "file": p}).WithError(err).Warn("file failed")
		} else {
			e.Log.WithFields(logrus.Fields{"op": op, "file": p}).Debug("file done")
		}
		obs.Step(p, err)
	}
}
