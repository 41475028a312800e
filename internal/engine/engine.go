// Package engine registers the batch operations and runs them one at a
// time against a directory.
package engine

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/AnyUserName/docbatch/internal/batch"
	"github.com/AnyUserName/docbatch/internal/metrics"
	"github.com/AnyUserName/docbatch/internal/report"
	"github.com/AnyUserName/docbatch/internal/templates"
)

// Func is the signature every operation implements.
type Func func(ctx context.Context, env *batch.Env, root string) (*report.Result, error)

// InputKind tells front ends whether and how to ask for input.
type InputKind int

const (
	NoInput InputKind = iota
	TextInput
	SecretInput // entered without echo
)

func (k InputKind) String() string {
	switch k {
	case TextInput:
		return "text"
	case SecretInput:
		return "secret"
	}
	return "none"
}

// Operation is one registered batch operation.
type Operation struct {
	Name   string
	Short  string
	Input  InputKind
	Prompt string // shown when Input is not NoInput
	Run    Func
}

// Config holds everything operations need besides their directory.
type Config struct {
	Options   batch.Options
	Caps      batch.Capabilities
	Templates *templates.Table
	Log       *logrus.Logger
	Observer  batch.Observer
}

// Engine dispatches operations by name. Runs never overlap.
type Engine struct {
	cfg Config
	ops map[string]Operation

	mu sync.Mutex
}

// New creates an engine with every built-in operation registered.
func New(cfg Config) *Engine {
	if cfg.Log == nil {
		cfg.Log = logrus.New()
		cfg.Log.SetOutput(io.Discard)
	}
	if cfg.Templates == nil {
		cfg.Templates = templates.Default()
	}
	if cfg.Observer == nil {
		cfg.Observer = batch.NopObserver{}
	}
	e := &Engine{cfg: cfg, ops: make(map[string]Operation)}
	for _, op := range Builtin() {
		e.Register(op)
	}
	return e
}

// Register adds op, replacing any operation of the same name.
func (e *Engine) Register(op Operation) {
	e.ops[op.Name] = op
}

// Operations lists registered operations sorted by name.
func (e *Engine) Operations() []Operation {
	out := make([]Operation, 0, len(e.ops))
	for _, op := range e.ops {
		out = append(out, op)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Lookup returns the operation called name.
func (e *Engine) Lookup(name string) (Operation, bool) {
	op, ok := e.ops[name]
	return op, ok
}

// Capabilities reports what was detected at startup.
func (e *Engine) Capabilities() batch.Capabilities {
	return e.cfg.Caps
}

// Run executes operation name over dir. The reporter, when not nil, is
// called exactly once with the summary or the error description. The
// result is nil when the operation aborted before processing files.
func (e *Engine) Run(ctx context.Context, name, dir string, rep batch.Reporter, input batch.InputProvider) (*report.Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	start := time.Now()
	res, err := e.run(ctx, name, dir, input)
	elapsed := time.Since(start)

	var text string
	var outcome metrics.Outcome
	if res != nil {
		outcome = metrics.Outcome{Outputs: res.Stats.Outputs, Skipped: res.Stats.Skipped, Failed: res.Stats.Failed}
	}
	if err != nil {
		text = ErrorText(err)
		e.cfg.Log.WithFields(logrus.Fields{"op": name, "dir": dir, "kind": batch.Kind(err)}).WithError(err).Error("operation failed")
	} else {
		text = res.Text()
		e.cfg.Log.WithFields(logrus.Fields{
			"op":       name,
			"dir":      dir,
			"outputs":  res.Stats.Outputs,
			"failed":   res.Stats.Failed,
			"duration": elapsed.Round(time.Millisecond),
		}).Info("operation done")
	}
	if _, known := e.ops[name]; known {
		metrics.RecordOperation(name, batch.Kind(err), elapsed, outcome)
	}
	if rep != nil {
		rep.Report(text)
	}
	return res, err
}

func (e *Engine) run(ctx context.Context, name, dir string, input batch.InputProvider) (*report.Result, error) {
	op, ok := e.ops[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown operation %q", batch.ErrInvalidInput, name)
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", batch.ErrNotFound, dir)
	}
	if input == nil {
		input = batch.StaticInput("")
	}

	env := &batch.Env{
		Input:     input,
		Log:       e.cfg.Log.WithField("op", name),
		Observer:  e.cfg.Observer,
		Options:   e.cfg.Options,
		Caps:      e.cfg.Caps,
		Templates: e.cfg.Templates,
	}
	return op.Run(ctx, env, dir)
}

// ErrorText is the report line for a failed operation: the taxonomy
// kind followed by the error.
func ErrorText(err error) string {
	return fmt.Sprintf("%s: %v", batch.Kind(err), err)
}
