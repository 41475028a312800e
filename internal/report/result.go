// Package report collects what a batch operation did and renders it as
// status text or as a JSON/YAML document.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"
)

// New creates an empty result.
func New(operation, root string) *Result {
	return &Result{
		Version:     SupportedVersion,
		Operation:   operation,
		Root:        root,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Outputs:     []Output{},
	}
}

// AddOutput records a written file, reading its size from disk.
func (r *Result) AddOutput(path, source string) {
	var size int64
	if fi, err := os.Stat(path); err == nil {
		size = fi.Size()
	}
	r.Outputs = append(r.Outputs, Output{Path: path, Source: source, Size: size})
}

// Skip records an input left alone.
func (r *Result) Skip(path, reason string) {
	r.Skipped = append(r.Skipped, Skip{Path: path, Reason: reason})
}

// Fail records a per-file failure.
func (r *Result) Fail(path string, err error) {
	r.Failures = append(r.Failures, Failure{Path: path, Error: err.Error()})
}

// Line appends operation-specific status text.
func (r *Result) Line(format string, args ...any) {
	r.Lines = append(r.Lines, fmt.Sprintf(format, args...))
}

// ComputeStats recalculates aggregate counts. inputs is the number of
// files the operation considered.
func (r *Result) ComputeStats(inputs int) {
	s := Stats{
		Inputs:  inputs,
		Outputs: len(r.Outputs),
		Skipped: len(r.Skipped),
		Failed:  len(r.Failures),
	}
	for _, o := range r.Outputs {
		s.Bytes += o.Size
	}
	r.Stats = s
}

// Text renders the human-readable summary. Operation-specific lines win
// over the generic "Created" listing.
func (r *Result) Text() string {
	var b strings.Builder
	if len(r.Lines) > 0 {
		b.WriteString(strings.Join(r.Lines, "\n"))
	} else {
		for i, o := range r.Outputs {
			if i > 0 {
				b.WriteByte('\n')
			}
			b.WriteString("Created: ")
			b.WriteString(o.Path)
		}
	}
	for _, s := range r.Skipped {
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "Skipping %s: %s.", s.Path, s.Reason)
	}
	for _, f := range r.Failures {
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "Failed %s: %s", f.Path, f.Error)
	}
	if b.Len() == 0 {
		return fmt.Sprintf("%s: nothing to do.", r.Operation)
	}
	return b.String()
}

// WriteJSON serializes the result to path.
func WriteJSON(r *Result, path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o644)
}

// WriteYAML serializes the result to path as YAML.
func WriteYAML(r *Result, path string) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// WriteFile picks JSON or YAML from path's extension.
func WriteFile(r *Result, path string) error {
	lower := strings.ToLower(path)
	if strings.HasSuffix(lower, ".yaml") || strings.HasSuffix(lower, ".yml") {
		return WriteYAML(r, path)
	}
	return WriteJSON(r, path)
}

// ReadFile loads a result written by WriteFile.
func ReadFile(path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var r Result
	lower := strings.ToLower(path)
	if strings.HasSuffix(lower, ".yaml") || strings.HasSuffix(lower, ".yml") {
		err = yaml.Unmarshal(data, &r)
	} else {
		err = json.Unmarshal(data, &r)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &r, nil
}
