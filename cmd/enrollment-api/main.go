// main is the entry point of the Enrollment API application.
//
// STARTUP SEQUENCE:
//  1. Load configuration from a YAML file
//  2. Initialise the logger
//  3. Open the storage backend (in memory, or SQLite)
//  4. Build the coordinator and, if asked, seed sample data
//  5. Register all HTTP routes
//  6. Run the HTTP server until an OS signal (Ctrl+C / kill) arrives
//  7. Gracefully shut down: finish in-flight requests, then exit
//
// RUNNING THE SERVER:
//
//	go run ./cmd/enrollment-api --config=config/local.yaml
//
// or (with the environment variable):
//
//	CONFIG_PATH=config/local.yaml go run ./cmd/enrollment-api
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/juju/clock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"github.com/aanand-mishra/enrollment-api/internal/config"
	"github.com/aanand-mishra/enrollment-api/internal/coordinator"
	"github.com/aanand-mishra/enrollment-api/internal/http/router"
	"github.com/aanand-mishra/enrollment-api/internal/metrics"
	"github.com/aanand-mishra/enrollment-api/internal/seed"
	"github.com/aanand-mishra/enrollment-api/internal/storage"
	"github.com/aanand-mishra/enrollment-api/internal/storage/memory"
	"github.com/aanand-mishra/enrollment-api/internal/storage/sqlite"
)

func main() {
	// ── 1. Load Config ────────────────────────────────────────────────────
	// MustLoad exits the process if anything is wrong, so from here on the
	// config is guaranteed valid.
	cfg := config.MustLoad()

	// ── 2. Initialise Logger ──────────────────────────────────────────────
	// Handlers call slog.Info(...) directly, so the logger is also made
	// the process default.
	log := setupLogger(cfg.Env)
	slog.SetDefault(log)

	log.Info("starting enrollment-api",
		slog.String("env", cfg.Env),
		slog.String("version", "1.0.0"),
	)

	// ── 3. Initialise Storage ─────────────────────────────────────────────
	// Everything downstream sees the storage.Storage INTERFACE only.
	store, err := openStorage(cfg)
	if err != nil {
		log.Error("failed to initialise storage",
			slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer store.Close()

	log.Info("storage initialised",
		slog.String("backend", cfg.StorageBackend))

	// ── 4. Coordinator + optional seed data ───────────────────────────────
	coord := coordinator.New(store)

	if cfg.Seed {
		sum, err := seed.Run(coord, store.Courses())
		if err != nil {
			log.Error("failed to seed sample data", slog.String("error", err.Error()))
			os.Exit(1)
		}
		log.Info("sample data seeded",
			slog.Int("students", sum.Students),
			slog.Int("courses", sum.Courses),
			slog.Int("enrollments", sum.Enrollments))
	}

	// ── 5. Register HTTP Routes ───────────────────────────────────────────
	// A dedicated registry (instead of the global default) keeps /metrics
	// limited to what we register here.
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	handler := router.New(router.Deps{
		Log:         log,
		Storage:     store,
		Coordinator: coord,
		Metrics:     metrics.New(reg),
		Gatherer:    reg,
	})

	server := &http.Server{
		Addr:    cfg.HTTPServer.Addr,
		Handler: handler,

		// Production hardening: set timeouts to prevent slow-client attacks.
		ReadTimeout:  cfg.HTTPServer.ReadTimeout,
		WriteTimeout: cfg.HTTPServer.WriteTimeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	// ── 6. Run until a signal arrives ─────────────────────────────────────
	// signal.NotifyContext cancels ctx on Ctrl+C (SIGINT) or SIGTERM (sent
	// by `kill <pid>` or container orchestrators).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The errgroup runs the server and the shutdown watcher side by side.
	// If ListenAndServe fails on its own, gctx is cancelled and the watcher
	// returns too.
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("server started", slog.String("address", cfg.HTTPServer.Addr))

		// ListenAndServe returns http.ErrServerClosed when Shutdown() is
		// called. That's expected, not an error.
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// ── 7. Graceful Shutdown ──────────────────────────────────────────────
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutdown signal received, stopping server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPServer.ShutdownTimeout)
		defer cancel()

		// Stops accepting new connections and waits for active requests
		// to complete (up to the deadline).
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server stopped with error", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log.Info("server stopped gracefully")
}

// openStorage picks the backend named in the config. Both backends get the
// wall clock and random UUIDs.
func openStorage(cfg *config.Config) (storage.Storage, error) {
	switch cfg.StorageBackend {
	case config.BackendSQLite:
		return sqlite.New(cfg.StoragePath, clock.WallClock, storage.NewUUID)
	default:
		return memory.New(clock.WallClock, storage.NewUUID), nil
	}
}

// setupLogger returns a *slog.Logger configured for the given environment.
//
// Development (dev): human-readable text output at DEBUG level.
// Production (prod): machine-readable JSON output at INFO level.
func setupLogger(env string) *slog.Logger {
	switch env {
	case "prod":
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}),
		)
	case "staging":
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}),
		)
	default: // "dev" and anything unrecognised
		return slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}),
		)
	}
}
