package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/shopcheck/credo/internal/api"
	"github.com/shopcheck/credo/internal/database"
	"github.com/shopcheck/credo/internal/llm"
	"github.com/shopcheck/credo/internal/pipeline"
	"github.com/shopcheck/credo/internal/retrieve"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP analysis service",
	Long: `Serve starts the Credo HTTP API: the analyze endpoint, its SSE
progress stream, the page preview endpoint, and the key/audit admin
surface backed by SQLite.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := database.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer store.Close()

	var agent retrieve.Agent
	if !cfg.Pipeline.DevMode {
		agent, err = retrieve.NewAgent(&cfg.Retrieval)
		if err != nil {
			return fmt.Errorf("failed to initialize retrieval agent: %w", err)
		}
	}

	provider, err := llm.NewProvider(&cfg.LLM)
	if err != nil {
		return fmt.Errorf("failed to initialize LLM provider: %w", err)
	}
	if provider != nil {
		log.Info().Str("provider", provider.Name()).Msg("Insight summarizer enabled")
	}

	orchestrator := pipeline.New(agent, llm.NewSummarizer(provider), &cfg.Pipeline)
	previewer := retrieve.NewPreviewer(&cfg.Retrieval)

	handler := api.NewHandler(orchestrator, previewer, store)
	router := api.NewRouter(cfg, handler, store)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // SSE streams stay open past any fixed write deadline
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Int("port", cfg.Server.Port).
			Bool("dev_mode", cfg.Pipeline.DevMode).
			Str("retrieval_mode", cfg.Retrieval.Mode).
			Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("Shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}

	log.Info().Msg("Server stopped")
	return nil
}
