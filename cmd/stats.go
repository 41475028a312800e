package cmd

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AnyUserName/docbatch/internal/report"
)

var statsCmd = &cobra.Command{
	Use:   "stats <report_file>",
	Short: "Display statistics for a saved operation report",
	Args:  cobra.ExactArgs(1),
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(_ *cobra.Command, args []string) error {
	r, err := report.ReadFile(args[0])
	if err != nil {
		return err
	}
	printStats(r)
	return nil
}

func printStats(r *report.Result) {
	fmt.Println()
	fmt.Printf("  Report version:   %d\n", r.Version)
	fmt.Printf("  Generated:        %s\n", r.GeneratedAt)
	fmt.Printf("  Operation:        %s\n", r.Operation)
	fmt.Printf("  Directory:        %s\n", r.Root)
	fmt.Println()

	s := r.Stats
	fmt.Printf("  Inputs:           %d\n", s.Inputs)
	fmt.Printf("  Outputs:          %d\n", s.Outputs)
	fmt.Printf("  Skipped:          %d\n", s.Skipped)
	fmt.Printf("  Failed:           %d\n", s.Failed)
	fmt.Printf("  Output size:      %s\n", formatBytes(s.Bytes))
	fmt.Println()

	// Per-extension breakdown.
	extStats := map[string]struct {
		count int
		bytes int64
	}{}
	for _, o := range r.Outputs {
		ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(o.Path), "."))
		if ext == "" {
			ext = "(none)"
		}
		es := extStats[ext]
		es.count++
		es.bytes += o.Size
		extStats[ext] = es
	}
	if len(extStats) > 0 {
		exts := make([]string, 0, len(extStats))
		for e := range extStats {
			exts = append(exts, e)
		}
		sort.Strings(exts)
		fmt.Println("  Output breakdown:")
		for _, e := range exts {
			es := extStats[e]
			fmt.Printf("    %-6s  %4d files  %s\n", e, es.count, formatBytes(es.bytes))
		}
		fmt.Println()
	}

	if len(r.Skipped) > 0 {
		fmt.Printf("  Skipped (%d):\n", len(r.Skipped))
		for _, sk := range r.Skipped {
			fmt.Printf("    - %s: %s\n", sk.Path, sk.Reason)
		}
		fmt.Println()
	}
	if len(r.Failures) > 0 {
		fmt.Printf("  Failures (%d):\n", len(r.Failures))
		for _, f := range r.Failures {
			fmt.Printf("    ⚠ %s: %s\n", f.Path, f.Error)
		}
		fmt.Println()
	}
}
