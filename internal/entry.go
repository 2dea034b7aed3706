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
	"golang.org/x/time/rate"

	"github.com/starford/lifeflow/internal/api"
	"github.com/starford/lifeflow/internal/clock"
	"github.com/starford/lifeflow/internal/configwatch"
	"github.com/starford/lifeflow/internal/metrics"
	"github.com/starford/lifeflow/internal/scheduler"
	"github.com/starford/lifeflow/internal/sse"
	"github.com/starford/lifeflow/internal/store"
	pkgconfig "github.com/starford/lifeflow/pkg/config"
)

// Run starts the HTTP server with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config

	logger, level, logCloser := newLogger(cfg.App, app.logOutput)
	defer logCloser.Close()
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("sqlite_path", cfg.SQLite.Path),
		slog.String("export_dir", cfg.Export.Dir),
		slog.Bool("scheduler_enabled", cfg.Scheduler.Enabled),
		slog.String("log_level", cfg.App.LogLevel.String()))

	comps, err := openComponents(cfg, clock.System, logger)
	if err != nil {
		return err
	}
	defer comps.Close()

	if _, err := store.Reconcile(ctx, comps.db, clock.System(), logger); err != nil {
		logger.Warn("initial reconcile failed", slog.String("error", err.Error()))
	}

	broker := sse.NewBroker(sse.Options{})
	defer broker.Close()

	limiter := cfg.App.RateLimit.Limiter()

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           newHTTPHandler(cfg, comps, broker, limiter),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	if app.configPath != "" {
		g.Go(func() error {
			err := configwatch.Watch(gCtx, app.configPath, logger, func() {
				reloadConfig(app.configPath, level, limiter, logger)
			})
			if err != nil {
				// Serving continues without live reload.
				logger.Warn("config watch stopped", slog.String("error", err.Error()))
			}
			return nil
		})
	}

	if cfg.Scheduler.Enabled {
		sched := scheduler.New(comps.notify, cfg.Scheduler.Interval, logger)
		g.Go(func() error {
			return sched.Run(gCtx)
		})
	}

	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

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

		return errShutdown
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errShutdown) {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// errShutdown cancels the group so the watcher and scheduler stop together
// with the server.
var errShutdown = errors.New("shutdown")

func newHTTPHandler(cfg *Config, comps *components, broker *sse.Broker, limiter *rate.Limiter) http.Handler {
	apiRouter := api.NewRouter(api.Services{
		Tasks:    comps.tasks,
		Habits:   comps.habits,
		Notify:   comps.notify,
		Exporter: comps.exporter,
		Events:   broker,
	}, api.Options{
		Limiter: limiter,
		Events:  broker,
	})

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(api.CORS(cfg.App.CORSOrigins))

	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		writeStatus(w, http.StatusOK, "ok")
	})
	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		if err := comps.db.Ping(r.Context()); err != nil {
			slog.Error("readiness check failed", slog.String("error", err.Error()))
			writeStatus(w, http.StatusServiceUnavailable, "unavailable")
			return
		}
		writeStatus(w, http.StatusOK, "ok")
	})
	r.Handle("/metrics", metrics.Handler())

	r.Mount("/api", apiRouter)
	return r
}

func writeStatus(w http.ResponseWriter, code int, status string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = fmt.Fprintf(w, `{"status":%q}`, status)
}

// reloadConfig re-reads the config file and applies the settings that can
// change without a restart. Invalid files are logged and ignored.
func reloadConfig(path string, level *slog.LevelVar, limiter *rate.Limiter, logger *slog.Logger) {
	next := NewDefaultConfig()
	if err := pkgconfig.Load(path, next); err != nil {
		logger.Warn("config reload rejected", slog.String("error", err.Error()))
		return
	}

	level.Set(next.App.LogLevel)
	if limiter != nil && next.App.RateLimit.RPS > 0 {
		limiter.SetLimit(rate.Limit(next.App.RateLimit.RPS))
		limiter.SetBurst(next.App.RateLimit.Burst)
	}
	logger.Info("config reloaded",
		slog.String("log_level", next.App.LogLevel.String()),
		slog.Float64("rate_limit_rps", next.App.RateLimit.RPS))
}
