package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dgallion1/syllaboss/internal/api"
	"github.com/dgallion1/syllaboss/internal/extract"
	"github.com/dgallion1/syllaboss/internal/notion"
	"github.com/dgallion1/syllaboss/internal/pipeline"
	"github.com/dgallion1/syllaboss/internal/populate"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the upload form and JSON API",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	log := newLogger()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		return err
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	policy, err := populate.ParsePolicy(cfg.EmptySection)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	// Initialize clients.
	stats := extract.NewLLMStats(time.Hour)
	ex, err := newExtractor(ctx, cfg, stats, log)
	if err != nil {
		return err
	}
	defer ex.Close()
	nc := notion.NewClient(cfg.NotionBaseURL, cfg.NotionVersion, cfg.NotionMaxBlocks, cfg.PublishTimeout)
	defer nc.Close()

	// Initialize pipeline.
	store := pipeline.NewStore(cfg.ArtifactTTL, log)
	go store.Sweep(ctx, cfg.ArtifactTTL/4)
	runner := pipeline.NewRunner(ex, populate.NewCatalog(cfg.TemplateDir), nc, store, pipeline.Options{
		OutputDir:      cfg.OutputDir,
		ExtractTimeout: cfg.ExtractTimeout,
		PublishTimeout: cfg.PublishTimeout,
		EmptySection:   policy,
	}, log)

	// Initialize HTTP server.
	srv := api.NewServer(runner, stats, log, cfg, loc)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.ExtractTimeout + cfg.PublishTimeout + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		select {
		case <-sigCh:
		case <-ctx.Done():
		}
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)
		cancel()
	}()

	log.Info("starting syllaboss",
		"port", cfg.Port,
		"provider", cfg.ExtractProvider,
		"output_dir", cfg.OutputDir,
		"auth", cfg.APIKey != "",
	)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("server error", "error", err)
		return err
	}
	return nil
}
