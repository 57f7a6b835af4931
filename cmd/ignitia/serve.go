package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"ignitia/internal/cache"
	"ignitia/internal/database"
	"ignitia/internal/handlers"
	"ignitia/internal/middleware"
	"ignitia/internal/render"
	"ignitia/internal/router"
	"ignitia/internal/session"
	"ignitia/internal/startup"
	"ignitia/internal/storage"
	"ignitia/internal/store"
)

// loginRateLimit is the number of login attempts allowed per client per minute.
const loginRateLimit = 10

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(os.Stdout)
	if err != nil {
		return err
	}

	// Connect to PostgreSQL.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		return err
	}
	defer db.Close()

	// Run pending migrations.
	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		return err
	}

	// Seed development data (no-op if users already exist).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			slog.Error("failed to seed database", "error", err)
			return err
		}
	}

	// Connect to Valkey for sessions.
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyAddr(), cfg.ValkeyPassword, cfg.ValkeyDB)
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		return err
	}
	defer valkeyClient.Close()

	// Outside development, session cookies are Secure (HTTPS-only).
	secure := !cfg.IsDev()
	sessionStore := session.NewStore(valkeyClient, secure)

	renderer, err := render.New()
	if err != nil {
		slog.Error("failed to initialize export renderer", "error", err)
		return err
	}

	// Object storage is optional; without it publishing answers 503.
	var publisher handlers.Publisher
	storageClient, err := storage.New(cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3PublicURL)
	if err != nil {
		slog.Error("failed to initialize S3 storage", "error", err)
		return err
	}
	if storageClient != nil {
		publisher = storageClient
		slog.Info("s3 storage configured", "endpoint", cfg.S3Endpoint, "bucket", storageClient.Bucket())
	} else {
		slog.Warn("s3 storage not configured, publishing disabled")
	}

	generator := startup.NewGenerator(newRegistry(cfg))

	generateLimiter := middleware.NewRateLimiter(cfg.GenerateRateLimit, time.Minute)
	defer generateLimiter.Stop()
	loginLimiter := middleware.NewRateLimiter(loginRateLimit, time.Minute)
	defer loginLimiter.Stop()

	r := router.New(router.Deps{
		Sessions:      sessionStore,
		HSTS:          secure,
		TrustProxy:    cfg.TrustProxy,
		GenerateLimit: generateLimiter,
		LoginLimit:    loginLimiter,
		Ideas:         handlers.NewIdeas(generator),
		Generations:   handlers.NewGenerations(store.NewGenerationStore(db), renderer, publisher),
		Auth:          handlers.NewAuth(sessionStore, store.NewUserStore(db)),
		Health: handlers.NewHealth(
			handlers.Check{Name: "postgres", Ping: db.PingContext},
			handlers.Check{Name: "valkey", Ping: func(ctx context.Context) error {
				return valkeyClient.Ping(ctx).Err()
			}},
		),
	})

	// WriteTimeout must cover a full LLM round trip on /generate.
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      150 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			slog.Error("server failed to start", "error", err)
			return err
		}
		return nil
	case <-ctx.Done():
		slog.Info("shutdown signal received")
	}

	// Give active requests up to 30 seconds to complete.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		return err
	}

	slog.Info("server stopped gracefully")
	return nil
}
