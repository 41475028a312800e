// Package pdfops implements the PDF batch operations on top of pdfcpu:
// merge, stitch, page ranges, encryption, metadata stripping, contrast
// enhancement and conversion between PDF pages and images.
package pdfops

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

func init() {
	// pdfcpu would otherwise create a config directory under the user's
	// home on first use.
	api.DisableConfigDir()
}

func newConfig() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}

// readContext loads, validates and optimizes the PDF at path.
func readContext(path string) (*model.Context, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	ctx, err := api.ReadValidateAndOptimize(bytes.NewReader(data), newConfig())
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return ctx, nil
}

// PageCount returns the number of pages in the PDF at path.
func PageCount(path string) (int, error) {
	ctx, err := readContext(path)
	if err != nil {
		return 0, err
	}
	return ctx.PageCount, nil
}

// baseName is path's file name without its extension.
func baseName(path string) string {
	name := filepath.Base(path)
	return name[:len(name)-len(filepath.Ext(name))]
}

// scratchDir creates a hidden working directory next to path. Keeping it
// on the same filesystem lets results be renamed into place.
func scratchDir(path string) (string, error) {
	dir, err := os.MkdirTemp(filepath.Dir(path), ".docbatch-*")
	if err != nil {
		return "", fmt.Errorf("create scratch dir for %s: %w", path, err)
	}
	return dir, nil
}
