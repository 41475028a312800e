package cmd

import (
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/AnyUserName/docbatch/internal/batch"
	"github.com/AnyUserName/docbatch/internal/capability"
	"github.com/AnyUserName/docbatch/internal/config"
	"github.com/AnyUserName/docbatch/internal/engine"
	"github.com/AnyUserName/docbatch/internal/logging"
)

var (
	version = "0.1.0"
	verbose bool
	cfgFile string

	v   = viper.New()
	cfg *config.Config
	log *logrus.Logger
)

var rootCmd = &cobra.Command{
	Use:   "docbatch",
	Short: "Batch PDF and image transformations over a directory",
	Long: `docbatch applies one transformation to every matching file under a
directory: merging, stitching, splitting and encrypting PDFs, cropping,
stitching and converting images, plus color, duplicate and metadata reports.

Each operation is a subcommand of "run". Results are printed as status
text and can be exported as a JSON or YAML report.`,
	Version:           version,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// Execute runs the root command.
func Execute() error {
	err := rootCmd.Execute()
	var re reportedError
	if err != nil && !errors.As(err, &re) {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return err
}

// reportedError wraps an error whose text was already printed.
type reportedError struct{ error }

func (e reportedError) Unwrap() error { return e.error }

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./docbatch.yaml or ~/.config/docbatch/docbatch.yaml)")
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"docbatch %s (%s/%s, %s)\n",
		version, runtime.GOOS, runtime.GOARCH, runtime.Version(),
	))
}

// setup loads configuration and builds the logger before any subcommand.
func setup(_ *cobra.Command, _ []string) error {
	if err := config.Init(v, cfgFile); err != nil {
		return err
	}
	c, err := config.Load(v)
	if err != nil {
		return err
	}
	level := c.LogLevel
	if verbose {
		level = "debug"
	}
	l, err := logging.New(level, os.Stderr)
	if err != nil {
		return err
	}
	cfg, log = c, l

	if used := v.ConfigFileUsed(); used != "" {
		logVerbose("config: %s", used)
	}
	return nil
}

// newEngine builds an engine from the loaded configuration.
func newEngine(obs batch.Observer) (*engine.Engine, error) {
	tbl, err := cfg.TemplateTable()
	if err != nil {
		return nil, err
	}
	caps := capability.Detect(cfg.Tools)
	for _, s := range capability.Describe(caps) {
		logVerbose("capability %s: available=%t %s", s.Name, s.Available, s.Provider)
	}
	return engine.New(engine.Config{
		Options:   cfg.Options(),
		Caps:      caps,
		Templates: tbl,
		Log:       log,
		Observer:  obs,
	}), nil
}

// logVerbose logs a message at debug level, shown only with --verbose or
// log_level: debug.
func logVerbose(format string, args ...any) {
	if log != nil {
		log.Debugf(format, args...)
	}
}
