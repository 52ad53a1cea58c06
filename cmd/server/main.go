package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/dwesley/courseforge/internal/api"
	"github.com/dwesley/courseforge/internal/config"
	"github.com/dwesley/courseforge/internal/export"
	"github.com/dwesley/courseforge/internal/generate"
	"github.com/dwesley/courseforge/internal/importer"
	"github.com/dwesley/courseforge/internal/pipeline"
	"github.com/dwesley/courseforge/internal/site"
	"github.com/dwesley/courseforge/internal/store"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st := store.NewSiteStore(cfg.SiteDir, cfg.BackupKeep, log)
	imp := importer.New(cfg.RawDir, st.AssetsDir(), log)
	imp.FallbackPdftotext = cfg.PDFFallbackPdftotext

	var gen generate.Generator
	var client *generate.Client
	if cfg.UseLLM {
		client = generate.NewClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel)
		gen = client
	}

	scaffold := site.NewScaffolder(st, log)

	// Navbar entries come from course.yaml when present; builds name the
	// course themselves.
	var navbar []site.NavItem
	if c, err := config.LoadCourse(filepath.Join(cfg.SourceDir, "course.yaml")); err == nil {
		for _, item := range c.Navbar {
			navbar = append(navbar, site.NavItem{Name: item.Name, Link: item.Link})
		}
	}

	runner := pipeline.NewRunner(imp, scaffold, gen, navbar, log)
	orch := pipeline.NewOrchestrator(runner, cfg.JobTTL, cfg.MaxQueueSize, log)
	orch.Start(ctx)

	exp := export.NewExporter(st, log)
	srv := api.NewServer(orch, st, exp, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		orch.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		if client != nil {
			client.Close()
		}
	}()

	log.Info("starting courseforge", "port", cfg.Port, "site", cfg.SiteDir)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
