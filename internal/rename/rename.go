// Package rename renames a file set to "<base>-<n>.<ext>" through
// unique temporary names, so no rename ever lands on a name another
// member of the set still holds.
package rename

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/AnyUserName/docbatch/internal/batch"
	"github.com/AnyUserName/docbatch/internal/index"
	"github.com/AnyUserName/docbatch/internal/report"
)

// Swapped in tests to simulate failures mid-batch.
var renameFunc = os.Rename

// TempPrefix starts every staging name.
const TempPrefix = "_temp"

// CollisionError reports a final name already held by a file outside the
// set being renamed.
type CollisionError struct {
	Source string
	Target string
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("rename %s: %s already exists", e.Source, e.Target)
}

func (e *CollisionError) Unwrap() error { return batch.ErrInvalidInput }

// IsCollision reports whether err is a *CollisionError.
func IsCollision(err error) bool {
	var e *CollisionError
	return errors.As(err, &e)
}

// Step moves one file from Original to Final through Temp.
type Step struct {
	Original string
	Temp     string
	Final    string
}

// Plan is the full set of moves, computed before anything is touched.
type Plan struct {
	Base  string
	Steps []Step
}

// FinalName is "<base>-<seq>" with seq zero-padded to the digit count
// of total, plus ".<ext>" when ext is not empty.
func FinalName(base string, seq, total int, ext string) string {
	width := len(strconv.Itoa(total))
	name := fmt.Sprintf("%s-%0*d", base, width, seq)
	if ext != "" {
		name += "." + ext
	}
	return name
}

// NewPlan computes temp and final paths for files in order. Files stay
// in their own directory. Planning fails if a final path is held by a
// file that is not part of the set.
func NewPlan(files index.DirectoryIndex, base string) (*Plan, error) {
	base = strings.TrimSpace(base)
	if base == "" || strings.ContainsAny(base, `/\`) || base == "." || base == ".." {
		return nil, fmt.Errorf("%w: invalid base name %q", batch.ErrInvalidInput, base)
	}

	members := make(map[string]bool, len(files))
	for _, f := range files {
		members[f.AbsPath] = true
	}

	taken := make(map[string]bool)
	exists := func(p string) bool {
		if members[p] || taken[p] {
			return true
		}
		_, err := os.Lstat(p)
		return err == nil
	}

	// Finals are fixed first so no temp can land on one.
	p := &Plan{Base: base, Steps: make([]Step, 0, len(files))}
	for i, f := range files {
		final := filepath.Join(filepath.Dir(f.AbsPath), FinalName(base, i+1, len(files), index.RawExt(f.AbsPath)))
		if !members[final] {
			if _, err := os.Lstat(final); err == nil {
				return nil, &CollisionError{Source: f.AbsPath, Target: final}
			}
		}
		taken[final] = true
		p.Steps = append(p.Steps, Step{Original: f.AbsPath, Final: final})
	}

	for i := range p.Steps {
		s := &p.Steps[i]
		s.Temp = tempPath(filepath.Dir(s.Original), i+1, index.RawExt(s.Original), exists)
		taken[s.Temp] = true
	}
	return p, nil
}

func tempPath(dir string, k int, ext string, exists func(string) bool) string {
	suffix := ""
	if ext != "" {
		suffix = "." + ext
	}
	stem := fmt.Sprintf("%s-%d", TempPrefix, k)
	path := filepath.Join(dir, stem+suffix)
	for n := 1; exists(path); n++ {
		path = filepath.Join(dir, fmt.Sprintf("%s-%d%s", stem, n, suffix))
	}
	return path
}

// Apply moves every file to its temp name, then every temp to its final
// name. On failure the moves already made are undone as far as possible
// and the first error is returned.
func Apply(p *Plan) error {
	for i, s := range p.Steps {
		if err := renameFunc(s.Original, s.Temp); err != nil {
			rollbackTemps(p.Steps[:i])
			return fmt.Errorf("stage %s: %w", s.Original, err)
		}
	}
	for i, s := range p.Steps {
		if err := renameFunc(s.Temp, s.Final); err != nil {
			for j := i - 1; j >= 0; j-- {
				renameFunc(p.Steps[j].Final, p.Steps[j].Temp)
			}
			rollbackTemps(p.Steps)
			return fmt.Errorf("rename %s: %w", s.Original, err)
		}
	}
	return nil
}

func rollbackTemps(steps []Step) {
	for j := len(steps) - 1; j >= 0; j-- {
		renameFunc(steps[j].Temp, steps[j].Original)
	}
}

// Run renames every file under root using the base name from the input
// provider.
func Run(_ context.Context, env *batch.Env, root string) (*report.Result, error) {
	base, ok := env.ReadInput()
	if !ok {
		return nil, fmt.Errorf("%w: no base name given", batch.ErrNoCredential)
	}
	files, err := index.Scan(root)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no files to rename in %s", batch.ErrNoInput, root)
	}

	plan, err := NewPlan(files, base)
	if err != nil {
		return nil, err
	}
	if err := Apply(plan); err != nil {
		return nil, err
	}

	r := report.New("rename", root)
	for _, s := range plan.Steps {
		r.AddOutput(s.Final, s.Original)
		r.Line("%s -> %s", s.Original, s.Final)
		env.Log.WithField("file", s.Original).Debugf("renamed to %s", s.Final)
	}
	r.ComputeStats(len(files))
	return r, nil
}
