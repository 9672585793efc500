// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/othala/internal/api"
	"github.com/starford/othala/internal/audit"
	"github.com/starford/othala/internal/hierarchy"
	"github.com/starford/othala/internal/index"
	"github.com/starford/othala/internal/mcpserver"
	"github.com/starford/othala/internal/noteservice"
	"github.com/starford/othala/internal/reconcile"
	"github.com/starford/othala/internal/sse"
	"github.com/starford/othala/internal/storage"
)

// core holds the wired components shared by the HTTP server and the
// one-shot CLI commands.
type core struct {
	store  storage.Provider
	db     *index.DB
	trail  *audit.Trail
	runner *reconcile.Runner
	svc    *noteservice.Service
}

// buildCore wires storage, the SQLite index, the hierarchy classifier,
// and the reconcile runner from config. The returned cleanup closes the
// index database.
func buildCore(cfg *Config, logger *slog.Logger) (*core, func(), error) {
	if err := os.MkdirAll(cfg.Vault.Path, 0o755); err != nil {
		return nil, nil, fmt.Errorf("create vault dir: %w", err)
	}

	store, err := storage.NewFS(cfg.Vault.Path, cfg.Vault.SkipDirs)
	if err != nil {
		return nil, nil, fmt.Errorf("init storage: %w", err)
	}

	db, err := index.Open(cfg.SQLite.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("init index: %w", err)
	}

	cls, err := hierarchy.NewClassifier(cfg.Vault.Path, cfg.Vault.RootIndex)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("init classifier: %w", err)
	}

	trail := audit.New(cfg.Reconcile.AuditLog)
	runner := reconcile.NewRunner(store, cls, trail, logger, cfg.Reconcile.Workers)
	svc := noteservice.NewService(store, db, runner, trail, logger)

	c := &core{store: store, db: db, trail: trail, runner: runner, svc: svc}
	return c, func() { db.Close() }, nil
}

// startupReconcile runs the configured alignment pass before the first
// index sync so the index reflects corrected notes from the start.
func (c *core) startupReconcile(ctx context.Context, cfg *Config, logger *slog.Logger) {
	if !cfg.Reconcile.Enabled {
		return
	}
	rpt, err := c.runner.Run(ctx, cfg.Reconcile.DryRun)
	if err != nil {
		logger.Warn("startup reconcile failed", slog.String("error", err.Error()))
		return
	}
	logger.Info("startup reconcile done",
		slog.Int("files", rpt.Stats.Files),
		slog.Int("changed", rpt.Stats.Changed),
		slog.Int("field_edits", rpt.Stats.FieldEdits),
		slog.Bool("dry_run", rpt.DryRun))
}

// Run starts the server: HTTP API, file watcher, and SSE broker. It blocks
// until ctx is cancelled or a shutdown signal arrives.
func Run(ctx context.Context, cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is required")
	}

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("vault_path", cfg.Vault.Path),
		slog.String("sqlite_path", cfg.SQLite.Path),
		slog.Bool("reconcile_enabled", cfg.Reconcile.Enabled),
		slog.String("log_level", cfg.App.LogLevel.String()))

	c, cleanup, err := buildCore(cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	// Align frontmatter, then run the initial index sync over the result.
	c.startupReconcile(ctx, cfg, logger)
	if err := index.Sync(c.db, c.store, logger); err != nil {
		logger.Warn("initial sync failed", slog.String("error", err.Error()))
	}

	// SSE broker.
	broker := sse.NewBroker(2 * time.Second)
	defer broker.Close()
	c.svc.OnReconciled = func(stats reconcile.Stats) {
		broker.PublishReconciled(stats)
	}

	// Build API router; the broker serves /api/events behind the same auth.
	apiRouter := api.NewRouter(c.svc, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker, cfg.Vault.Path)

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Mount API routes under /api.
	r.Mount("/api", apiRouter)

	// Course resources are linked from notes at absolute /resources URLs,
	// so the download route lives at the root, behind the same auth.
	rh := api.NewResourceHandler(cfg.Vault.Path)
	r.With(api.AuthMiddleware(cfg.Auth.AuthEnabled(), cfg.Auth.Token)).
		Get("/resources/{filename}", rh.ServeFile)

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Start file watcher with SSE callback. When reconcile is enabled the
	// watcher aligns a note's frontmatter before indexing it.
	g.Go(func() error {
		wopts := index.WatchOptions{
			VaultRoot: cfg.Vault.Path,
			SkipDirs:  cfg.Vault.SkipDirs,
			DryRun:    cfg.Reconcile.DryRun,
		}
		if cfg.Reconcile.Enabled {
			wopts.Runner = c.runner
		}
		return index.Watch(gCtx, c.db, c.store, wopts, logger, func(kind, path string) {
			broker.PublishNoteEvent(kind, path)
		})
	})

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// cliLogger builds the logger for one-shot commands. It writes to stderr
// so command output on stdout stays parseable.
func cliLogger(level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// RunSync reconciles and reindexes the vault once, without starting the
// server. With dryRun the vault is left untouched and the report shows
// what would change. With force the index is cleared first so every note
// is re-read regardless of checksums.
func RunSync(ctx context.Context, cfg *Config, dryRun, force bool) (*reconcile.Report, error) {
	logger := cliLogger(cfg.App.LogLevel)

	c, cleanup, err := buildCore(cfg, logger)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	rpt, err := c.runner.Run(ctx, dryRun)
	if err != nil {
		return nil, err
	}

	if force {
		if err := c.db.Reset(); err != nil {
			return nil, err
		}
	}
	if err := index.Sync(c.db, c.store, logger); err != nil {
		return nil, err
	}
	return rpt, nil
}

// RunCheck runs a dry reconcile pass and reports which notes diverge from
// their folder position. Nothing is written.
func RunCheck(ctx context.Context, cfg *Config) (*reconcile.Report, error) {
	logger := cliLogger(cfg.App.LogLevel)

	c, cleanup, err := buildCore(cfg, logger)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	return c.runner.Run(ctx, true)
}

// RunMCP serves the MCP interface on stdin/stdout. Logs go to stderr
// because stdout carries the protocol.
func RunMCP(ctx context.Context, cfg *Config) error {
	logger := cliLogger(cfg.App.LogLevel)
	slog.SetDefault(logger)

	c, cleanup, err := buildCore(cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	c.startupReconcile(ctx, cfg, logger)
	if err := index.Sync(c.db, c.store, logger); err != nil {
		logger.Warn("initial sync failed", slog.String("error", err.Error()))
	}

	return mcpserver.New(c.svc, c.store).ServeStdio()
}
