package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/AnyUserName/docbatch/internal/batch"
	"github.com/AnyUserName/docbatch/internal/engine"
	"github.com/AnyUserName/docbatch/internal/metrics"
	"github.com/AnyUserName/docbatch/internal/report"
)

var (
	runInput       string
	runReportFile  string
	runMetricsFile string
	runNoProgress  bool
)

var runCmd = &cobra.Command{
	Use:   "run <operation> <dir>",
	Short: "Run one batch operation over a directory",
	Long: `Runs a single operation over every matching file under <dir>.

Operations that need a value (page-range, encrypt-pdf, rename) prompt for
it on a terminal, or take it from --input.`,
}

func init() {
	runCmd.PersistentFlags().StringVarP(&runInput, "input", "i", "", "value for operations that ask for one")
	runCmd.PersistentFlags().StringVarP(&runReportFile, "report-file", "r", "", "write the result as .json or .yaml")
	runCmd.PersistentFlags().StringVar(&runMetricsFile, "metrics-file", "", "write Prometheus metrics in textfile format (overrides metrics_file)")
	runCmd.PersistentFlags().BoolVar(&runNoProgress, "no-progress", false, "disable the progress bar")

	for _, op := range engine.Builtin() {
		runCmd.AddCommand(operationCmd(op))
	}
	rootCmd.AddCommand(runCmd)
}

func operationCmd(op engine.Operation) *cobra.Command {
	return &cobra.Command{
		Use:   op.Name + " <dir>",
		Short: op.Short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOperation(cmd.Context(), op, args[0])
		},
	}
}

func runOperation(ctx context.Context, op engine.Operation, dir string) error {
	start := time.Now()

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("resolve directory: %w", err)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	var obs batch.Observer = batch.NopObserver{}
	if !runNoProgress && term.IsTerminal(int(os.Stderr.Fd())) {
		obs = &progressObserver{}
	}
	eng, err := newEngine(obs)
	if err != nil {
		return err
	}

	logVerbose("operation: %s", op.Name)
	logVerbose("directory: %s", absDir)

	reporter := batch.ReporterFunc(func(text string) { fmt.Println(text) })
	res, runErr := eng.Run(ctx, op.Name, absDir, reporter, inputFor(op))

	if res != nil && runReportFile != "" {
		if err := report.WriteFile(res, runReportFile); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
	}
	metricsFile := runMetricsFile
	if metricsFile == "" {
		metricsFile = cfg.MetricsFile
	}
	if metricsFile != "" {
		if err := metrics.WriteTextfile(metricsFile); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}
	if runErr != nil {
		return reportedError{runErr}
	}
	if verbose {
		printRunReport(res, time.Since(start))
	}
	return nil
}

// inputFor picks where the operation's value comes from: the flag,
// a terminal prompt, or piped stdin.
func inputFor(op engine.Operation) batch.InputProvider {
	if op.Input == engine.NoInput {
		return batch.StaticInput("")
	}
	if runInput != "" {
		return batch.StaticInput(runInput)
	}
	return &promptInput{prompt: op.Prompt, secret: op.Input == engine.SecretInput}
}

// promptInput asks for the value only when the operation reads it.
type promptInput struct {
	prompt string
	secret bool
}

func (p *promptInput) ReadInput() (string, bool) {
	fd := int(os.Stdin.Fd())
	interactive := term.IsTerminal(fd)
	if interactive {
		fmt.Fprint(os.Stderr, p.prompt)
	}

	var value string
	if p.secret && interactive {
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			logVerbose("read password: %v", err)
			return "", false
		}
		value = string(b)
	} else {
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			return "", false
		}
		value = strings.TrimRight(line, "\r\n")
	}
	return batch.StaticInput(value).ReadInput()
}

// progressObserver draws one bar per operation on stderr.
type progressObserver struct {
	bar *pb.ProgressBar
}

func (o *progressObserver) Begin(op string, total int) {
	if total == 0 {
		return
	}
	o.bar = pb.New(total).
		SetTemplateString(op + ` {{ bar . " " "━" "━" " " " "}} {{counters .}} {{rtime .}}`).
		SetWriter(os.Stderr).
		Start()
}

func (o *progressObserver) Step(string, error) {
	if o.bar != nil {
		o.bar.Increment()
	}
}

func (o *progressObserver) End() {
	if o.bar != nil {
		o.bar.Finish()
		o.bar = nil
	}
}

func printRunReport(r *report.Result, elapsed time.Duration) {
	s := r.Stats
	fmt.Fprintln(os.Stderr)
	fmt.Fprintf(os.Stderr, "  Operation:   %s\n", r.Operation)
	fmt.Fprintf(os.Stderr, "  Inputs:      %d\n", s.Inputs)
	fmt.Fprintf(os.Stderr, "  Outputs:     %d (%s)\n", s.Outputs, formatBytes(s.Bytes))
	if s.Skipped > 0 {
		fmt.Fprintf(os.Stderr, "  Skipped:     %d\n", s.Skipped)
	}
	if s.Failed > 0 {
		fmt.Fprintf(os.Stderr, "  Failed:      %d\n", s.Failed)
	}
	fmt.Fprintf(os.Stderr, "  Time:        %s\n", elapsed.Round(time.Millisecond))
	fmt.Fprintln(os.Stderr)
}

func formatBytes(b int64) string {
	switch {
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}
