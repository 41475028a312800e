package encoder

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Registry selects an encoder by output file extension.
type Registry struct {
	byExt   map[string]Encoder
	quality int
}

// NewRegistry creates a registry with every built-in encoder. quality
// applies to lossy formats.
func NewRegistry(quality int) *Registry {
	r := &Registry{
		byExt:   make(map[string]Encoder),
		quality: quality,
	}

	all := []Encoder{
		&JPEGEncoder{},
		&PNGEncoder{},
		&ICOEncoder{},
	}
	for _, enc := range all {
		for _, ext := range enc.Extensions() {
			r.byExt[ext] = enc
		}
	}
	return r
}

// Get returns the encoder for ext (case-insensitive, with or without the
// leading dot), or nil.
func (r *Registry) Get(ext string) Encoder {
	return r.byExt[strings.TrimPrefix(strings.ToLower(ext), ".")]
}

// Encode encodes img in the format implied by ext.
func (r *Registry) Encode(img image.Image, ext string) ([]byte, error) {
	enc := r.Get(ext)
	if enc == nil {
		return nil, fmt.Errorf("no encoder for .%s", ext)
	}
	return enc.Encode(img, r.quality)
}

// Save encodes img in the format implied by path's extension and writes
// it, replacing any existing file.
func (r *Registry) Save(path string, img image.Image) error {
	data, err := r.Encode(img, filepath.Ext(path))
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// String returns a summary of supported extensions.
func (r *Registry) String() string {
	exts := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return fmt.Sprintf("encoders: %s", strings.Join(exts, ", "))
}
