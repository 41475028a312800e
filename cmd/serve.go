package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/AnyUserName/docbatch/internal/batch"
	"github.com/AnyUserName/docbatch/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the operations over a local HTTP API",
	Long: `Starts an HTTP server exposing:

  GET  /api/v1/operations
  GET  /api/v1/capabilities
  POST /api/v1/operations/{name}   {"dir": "...", "input": "..."}
  GET  /metrics

Operations run one at a time.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides serve.addr)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	addr := serveAddr
	if addr == "" {
		addr = cfg.Serve.Addr
	}
	eng, err := newEngine(batch.NopObserver{})
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = server.New(eng, log).ListenAndServe(ctx, addr)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
