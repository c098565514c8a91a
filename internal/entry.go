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

	"github.com/tessirov/pressgate/internal/drafts"
	"github.com/tessirov/pressgate/internal/mcpserver"
	"github.com/tessirov/pressgate/internal/session"
	"github.com/tessirov/pressgate/internal/wordpress"
)

// Run starts the application with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	// Structured JSON logger on stderr; stdout belongs to the stdio
	// transport.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("transport", cfg.App.Transport),
		slog.String("site_url", cfg.WordPress.SiteURL),
		slog.String("drafts_path", cfg.Drafts.Path),
		slog.Bool("optimizer_enabled", cfg.Optimizer.Enabled()),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// Session seeded from config; the authenticate tool can reconfigure
	// it at runtime.
	sess := session.New(session.Settings{
		SiteURL:     cfg.WordPress.SiteURL,
		Username:    cfg.WordPress.Username,
		AppPassword: cfg.WordPress.AppPassword,
		Password:    cfg.WordPress.Password,
	})

	wpOpts := []wordpress.Option{
		wordpress.WithLogger(logger),
	}
	if cfg.Limits.RequestsPerSecond > 0 {
		wpOpts = append(wpOpts, wordpress.WithRateLimit(cfg.Limits.RequestsPerSecond))
	}
	if cfg.Optimizer.Enabled() {
		wpOpts = append(wpOpts, wordpress.WithOptimizer(cfg.Optimizer.Endpoint, cfg.Optimizer.APIKey))
	}
	wp := wordpress.New(sess, wpOpts...)

	store, err := drafts.NewStore(cfg.Drafts.Path)
	if err != nil {
		return fmt.Errorf("init draft store: %w", err)
	}

	srv := mcpserver.New(sess, wp, store, logger)

	// Startup reachability probe. A failure is logged but not fatal: the
	// site may come up later or be reconfigured through the tools.
	if cfg.WordPress.SiteURL != "" {
		if wp.TestConnection(ctx, cfg.WordPress.SiteURL) {
			logger.Info("WordPress site reachable", slog.String("site_url", cfg.WordPress.SiteURL))
		} else {
			logger.Warn("WordPress site unreachable", slog.String("site_url", cfg.WordPress.SiteURL))
		}
	}

	// Signals cancel the context so the stdio transport unblocks too.
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gCtx := errgroup.WithContext(ctx)

	// Reload credentials when the config file changes.
	if app.configPath != "" {
		g.Go(func() error {
			watchConfig(gCtx, app.configPath, logger, sess)
			return nil
		})
	}

	var httpServer *http.Server

	switch cfg.App.Transport {
	case TransportHTTP:
		r := chi.NewRouter()
		r.Use(middleware.RequestID)
		r.Use(middleware.RealIP)
		r.Use(middleware.Recoverer)

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

		r.Mount("/mcp", srv.HTTPHandler())

		httpServer = &http.Server{
			Addr:    cfg.App.HTTP.Address(),
			Handler: r,
		}

		g.Go(func() error {
			logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("HTTP server error: %w", err)
			}
			return nil
		})
	default:
		g.Go(func() error {
			logger.Info("Starting stdio server")
			if err := srv.ServeStdio(gCtx); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("stdio server error: %w", err)
			}
			return nil
		})
	}

	// Shut the HTTP server down gracefully once the context is cancelled.
	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("Shutting down...")

		if httpServer != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
			}
		}

		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped")
	return nil
}
