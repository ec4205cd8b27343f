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

	"github.com/aldenvik/dagbok/internal/api"
	"github.com/aldenvik/dagbok/internal/confwatch"
	"github.com/aldenvik/dagbok/internal/kvstore"
	"github.com/aldenvik/dagbok/internal/mcpserver"
	"github.com/aldenvik/dagbok/internal/notes"
	"github.com/aldenvik/dagbok/internal/sse"
	pkgconfig "github.com/aldenvik/dagbok/pkg/config"
)

func newApplication(opts []Option) (*application, error) {
	app := &application{}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	return app, nil
}

func openStore(cfg *Config) (kvstore.Provider, error) {
	switch cfg.Store.Backend {
	case StoreBackendFS:
		return kvstore.NewFS(cfg.Store.Path)
	default:
		return kvstore.OpenSQLite(cfg.Store.Path)
	}
}

// Run starts the HTTP service with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config

	// Structured JSON logger; the level is shared with the config
	// watcher so it can be changed at runtime.
	level := new(slog.LevelVar)
	level.Set(cfg.App.SlogLevel())
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("store_backend", cfg.Store.Backend),
		slog.String("store_path", cfg.Store.Path),
		slog.String("week_starts_on", cfg.Notes.WeekStartsOn),
		slog.String("log_level", cfg.App.SlogLevel().String()))

	store, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("init store: %w", err)
	}
	defer store.Close()

	repo := notes.NewRepo(store, cfg.Notes.WeekStart())

	// SSE broker for note change events.
	broker := sse.NewBroker()
	defer broker.Close()

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints.
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

	r.Mount("/", api.NewRouter(repo, broker))

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Watch the config file and apply log level changes at runtime.
	if app.configPath != "" {
		configPath := app.configPath
		g.Go(func() error {
			return confwatch.Watch(gCtx, configPath, logger, func() {
				fresh := NewDefaultConfig()
				if err := pkgconfig.Load(configPath, fresh); err != nil {
					logger.Warn("config reload failed", slog.String("error", err.Error()))
					return
				}
				if level.Level() != fresh.App.SlogLevel() {
					logger.Info("log level changed",
						slog.String("from", level.Level().String()),
						slog.String("to", fresh.App.SlogLevel().String()))
					level.Set(fresh.App.SlogLevel())
				}
			})
		})
	}

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

// RunMCP starts the MCP stdio server with the given options.
func RunMCP(_ context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config

	// Logs go to stderr: stdout carries the MCP protocol.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.App.SlogLevel(),
	}))
	slog.SetDefault(logger)

	store, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("init store: %w", err)
	}
	defer store.Close()

	repo := notes.NewRepo(store, cfg.Notes.WeekStart())

	logger.Info("MCP server starting on stdio",
		slog.String("store_backend", cfg.Store.Backend),
		slog.String("store_path", cfg.Store.Path))

	return mcpserver.New(repo).ServeStdio()
}
