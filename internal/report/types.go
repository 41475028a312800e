package report

// Result is the outcome of one batch operation.
type Result struct {
	Version     int       `json:"version" yaml:"version"`
	Operation   string    `json:"operation" yaml:"operation"`
	Root        string    `json:"root" yaml:"root"`
	GeneratedAt string    `json:"generated_at" yaml:"generated_at"`
	Outputs     []Output  `json:"outputs" yaml:"outputs"`
	Skipped     []Skip    `json:"skipped,omitempty" yaml:"skipped,omitempty"`
	Failures    []Failure `json:"failures,omitempty" yaml:"failures,omitempty"`
	Lines       []string  `json:"lines,omitempty" yaml:"lines,omitempty"` // operation-specific status text
	Stats       Stats     `json:"stats" yaml:"stats"`
}

// Output is one file written by the operation.
type Output struct {
	Path   string `json:"path" yaml:"path"`
	Source string `json:"source,omitempty" yaml:"source,omitempty"`
	Size   int64  `json:"size" yaml:"size"` // bytes on disk
}

// Skip is an input the operation deliberately left alone.
type Skip struct {
	Path   string `json:"path" yaml:"path"`
	Reason string `json:"reason" yaml:"reason"`
}

// Failure is an input that could not be processed; the batch continued.
type Failure struct {
	Path  string `json:"path" yaml:"path"`
	Error string `json:"error" yaml:"error"`
}

// Stats aggregates counts.
type Stats struct {
	Inputs  int   `json:"inputs" yaml:"inputs"`
	Outputs int   `json:"outputs" yaml:"outputs"`
	Skipped int   `json:"skipped" yaml:"skipped"`
	Failed  int   `json:"failed" yaml:"failed"`
	Bytes   int64 `json:"output_bytes" yaml:"output_bytes"`
}

// SupportedVersion is the current schema version.
const SupportedVersion = 1
