package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dkrebs/navilex/internal/llm"
	"github.com/dkrebs/navilex/internal/server"
)

var serveAddr string

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the JSON REST API server",
	Long: `Serve exposes lookups, text analysis, and word frequency over HTTP.

Endpoints:
  GET  /api/lookup/{word}[?nr=N]
  POST /api/analyze
  POST /api/word-frequency
  GET  /api/health`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config, :8080)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}

	resolver, words := newRuntime(cfg)

	glosser, err := llm.NewGlosser(cfg.LLM)
	if err != nil {
		return fmt.Errorf("configure gloss hints: %w", err)
	}
	if verbose && glosser != nil {
		fmt.Fprintln(os.Stderr, "Gloss hints enabled")
	}

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      server.New(resolver, words, glosser, cfg.Server.AllowedOrigins).Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 10 * time.Minute,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		fmt.Fprintf(os.Stderr, "Listening on %s\n", cfg.Server.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	fmt.Fprintln(os.Stderr, "Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		fmt.Fprintf(os.Stderr, "Warning: shutdown: %v\n", err)
	}

	if err := words.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: word cache flush: %v\n", err)
	}
	return nil
}
