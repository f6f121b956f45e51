// Package main is the entry point for the stay API server.
// Its sole responsibility is wiring dependencies together and starting the server.
// No business logic belongs here.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx" driver for goose
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/GuyBarda/airbxb-backend/internal/config"
	"github.com/GuyBarda/airbxb-backend/internal/events"
	"github.com/GuyBarda/airbxb-backend/internal/handler"
	"github.com/GuyBarda/airbxb-backend/internal/middleware"
	"github.com/GuyBarda/airbxb-backend/internal/repo"
	"github.com/GuyBarda/airbxb-backend/internal/service"
	"github.com/GuyBarda/airbxb-backend/migrations"
)

func main() {
	// --- Config -----------------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		// Use plain stderr before the logger is configured.
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// --- Store ------------------------------------------------------------
	stays, closeStore, err := openStore(context.Background(), cfg)
	if err != nil {
		slog.Error("failed to open stay store", "driver", cfg.StoreDriver, "error", err)
		os.Exit(1)
	}
	defer closeStore()
	slog.Info("stay store ready", "driver", cfg.StoreDriver)

	// --- Events -----------------------------------------------------------
	var publisher service.EventPublisher = events.Noop{}
	if cfg.NATSURL != "" {
		nc, err := events.Connect(cfg.NATSURL, logger)
		if err != nil {
			slog.Error("failed to connect to NATS", "error", err)
			os.Exit(1)
		}
		defer nc.Drain() //nolint:errcheck
		publisher = events.NewNATSPublisher(nc, cfg.NATSSubjectPrefix)
		slog.Info("stay events enabled", "subject_prefix", cfg.NATSSubjectPrefix)
	}

	svc := service.NewStayService(stays, publisher, logger)

	// --- Router -----------------------------------------------------------
	// RequestID → RealIP → Logger → Recoverer → CORS → metrics → body limit
	// → auth → rate limit. Auth runs before the limiter so signed-in
	// callers are limited per user rather than per IP.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewRequestMetrics())
	r.Use(middleware.NewMaxBodySizeHandler(cfg.MaxBodyBytes))
	if cfg.JWTSecret != "" {
		r.Use(middleware.NewAuthenticator(cfg.JWTSecret))
	}
	r.Use(middleware.NewRateLimiter(cfg.RateLimitPerMinute, time.Minute))

	r.Handle("/metrics", promhttp.Handler())
	r.Mount("/", handler.NewServer(svc, logger).Routes())

	// --- HTTP Server ------------------------------------------------------
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown: wait for OS signal, then give in-flight requests
	// up to 15 seconds to complete before forcefully closing.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// openStore connects the stay store selected by cfg.StoreDriver and returns
// it with a function that releases its resources.
func openStore(ctx context.Context, cfg config.Config) (repo.StayRepo, func(), error) {
	switch cfg.StoreDriver {
	case config.DriverMongo:
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			return nil, nil, fmt.Errorf("connect mongo: %w", err)
		}
		closeFn := func() { _ = client.Disconnect(context.Background()) }
		pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx, nil); err != nil {
			closeFn()
			return nil, nil, fmt.Errorf("ping mongo: %w", err)
		}
		return repo.NewMongoStayRepo(client.Database(cfg.MongoDatabase)), closeFn, nil

	case config.DriverPostgres:
		if err := migrate(ctx, cfg.DatabaseURL); err != nil {
			return nil, nil, err
		}
		// pgxpool.New does not open connections immediately; Ping does.
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("create database pool: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("ping database: %w", err)
		}
		return repo.NewPgStayRepo(pool), pool.Close, nil

	case config.DriverMemory:
		slog.Warn("using in-memory stay store; data is lost on restart")
		return repo.NewMemoryStayRepo(), func() {}, nil
	}
	return nil, nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}

// migrate applies pending goose migrations through a short-lived database/sql handle.
func migrate(ctx context.Context, dsn string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("open database for migrations: %w", err)
	}
	defer db.Close()

	results, err := migrations.Up(ctx, db)
	if err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	for _, res := range results {
		slog.Info("migration applied", "source", res.Source.Path, "duration", res.Duration)
	}
	return nil
}
