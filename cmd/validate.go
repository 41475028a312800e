package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/AnyUserName/docbatch/internal/report"
)

var validateCmd = &cobra.Command{
	Use:   "validate <report_file>",
	Short: "Validate a saved report and check its output files still exist",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(_ *cobra.Command, args []string) error {
	r, err := report.ReadFile(args[0])
	if err != nil {
		return err
	}

	errs := validateReport(r)
	if len(errs) == 0 {
		fmt.Println("  ✓ Report is valid")
		fmt.Printf("  ✓ %d outputs, all files present\n", len(r.Outputs))
		return nil
	}

	fmt.Printf("  ✗ Report has %d error(s):\n", len(errs))
	for _, e := range errs {
		fmt.Printf("    • %s\n", e)
	}
	return fmt.Errorf("validation failed with %d errors", len(errs))
}

func validateReport(r *report.Result) []string {
	var errs []string

	if r.Version != report.SupportedVersion {
		errs = append(errs, fmt.Sprintf("unsupported report version: %d", r.Version))
	}
	if r.Operation == "" {
		errs = append(errs, "missing operation")
	}

	seen := map[string]bool{}
	var total int64
	for i, o := range r.Outputs {
		if o.Path == "" {
			errs = append(errs, fmt.Sprintf("output[%d]: missing path", i))
			continue
		}
		if seen[o.Path] {
			errs = append(errs, fmt.Sprintf("output[%d]: duplicate path %q", i, o.Path))
		}
		seen[o.Path] = true
		total += o.Size

		info, err := os.Stat(o.Path)
		if err != nil {
			errs = append(errs, fmt.Sprintf("output[%d]: file not found: %s", i, o.Path))
		} else if info.Size() != o.Size {
			errs = append(errs, fmt.Sprintf("output[%d]: size mismatch: report=%d, disk=%d", i, o.Size, info.Size()))
		}
	}

	// Stats consistency.
	if r.Stats.Outputs != len(r.Outputs) {
		errs = append(errs, fmt.Sprintf("stats.outputs mismatch: %d != %d", r.Stats.Outputs, len(r.Outputs)))
	}
	if r.Stats.Skipped != len(r.Skipped) {
		errs = append(errs, fmt.Sprintf("stats.skipped mismatch: %d != %d", r.Stats.Skipped, len(r.Skipped)))
	}
	if r.Stats.Failed != len(r.Failures) {
		errs = append(errs, fmt.Sprintf("stats.failed mismatch: %d != %d", r.Stats.Failed, len(r.Failures)))
	}
	if r.Stats.Bytes != total {
		errs = append(errs, fmt.Sprintf("stats.output_bytes mismatch: %d != %d", r.Stats.Bytes, total))
	}
	return errs
}
