// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/recipeshare/recipeshare/internal/config"
	"github.com/recipeshare/recipeshare/internal/handler/api"
	"github.com/recipeshare/recipeshare/internal/imagegen"
	"github.com/recipeshare/recipeshare/internal/middleware"
	"github.com/recipeshare/recipeshare/internal/service"
	"github.com/recipeshare/recipeshare/internal/session"
	"github.com/recipeshare/recipeshare/internal/store"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func main() {
	// Parse CLI flags
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "RecipeShare - recipe sharing platform API\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  RECIPESHARE_SESSION_SECRET      Session encryption key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  RECIPESHARE_DATABASE_URL        Postgres URL (empty: local SQLite)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  RECIPESHARE_SQLITE_PATH         SQLite database path (default: ./data/recipeshare.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  RECIPESHARE_SERVER_PORT         Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  RECIPESHARE_ENV                 Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  RECIPESHARE_ADMIN_SECURITY_CODE Security code for the seeded admin account\n")
		_, _ = fmt.Fprintf(os.Stderr, "  RECIPESHARE_OPENAI_API_KEY      OpenAI key for recipe image generation (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  RECIPESHARE_MINIO_ENDPOINT      Object store endpoint for generated images (optional)\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if *showVersion {
		_, _ = fmt.Printf("recipeshare %s (commit: %s, built: %s)\n", appVersion, appGitCommit, appBuildTime)
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env file if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Setup logger
	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// Initialize database
	var db *sqlx.DB
	if cfg.UsePostgres() {
		slog.Info("initializing database", "driver", "postgres")
		db, err = store.OpenPostgres(cfg.DatabaseURL)
	} else {
		if mkErr := os.MkdirAll(filepath.Dir(cfg.SQLitePath), 0755); mkErr != nil {
			return fmt.Errorf("creating data directory: %w", mkErr)
		}
		slog.Info("initializing database", "driver", "sqlite", "path", cfg.SQLitePath)
		db, err = store.OpenSQLite(cfg.SQLitePath)
	}
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sqlx.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	// Run migrations
	slog.Info("running database migrations")
	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database ready")

	// Seed the default admin account
	ctx := context.Background()
	if err := store.Seed(ctx, db, cfg.AdminSecurityCode); err != nil {
		return fmt.Errorf("seeding database: %w", err)
	}

	// Initialize session manager
	sessionManager := session.New(db, cfg.IsDevelopment())
	slog.Info("session manager initialized")

	// Initialize services
	activityService := service.NewActivityService(db)
	accountService := service.NewAccountService(db, activityService)
	recipeService := service.NewRecipeService(db, activityService)
	savedService := service.NewSavedService(db, recipeService)
	queueService := service.NewQueueService(db, activityService)
	dashboardService := service.NewDashboardService(db, activityService)

	// Initialize image generation pipeline (optional feature)
	generator := imagegen.NewGenerator(cfg.OpenAIAPIKey, cfg.OpenAIChatModel, cfg.OpenAIImageModel)
	uploader, err := imagegen.NewUploader(imagegen.UploaderConfig{
		Endpoint:      cfg.MinioEndpoint,
		AccessKey:     cfg.MinioAccessKey,
		SecretKey:     cfg.MinioSecretKey,
		Bucket:        cfg.MinioBucket,
		UseSSL:        cfg.MinioUseSSL,
		PublicBaseURL: cfg.MinioPublicBaseURL,
	})
	if err != nil {
		return fmt.Errorf("initializing object store: %w", err)
	}
	if uploader != nil {
		if err := uploader.EnsureBucket(ctx); err != nil {
			return fmt.Errorf("ensuring image bucket: %w", err)
		}
	}
	imageService := imagegen.NewService(generator, uploader)
	slog.Info("image generation initialized", "available", imageService.Available())

	// Initialize login protection
	loginProtection := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())
	slog.Info("login protection initialized",
		"ip_rate_limit", "0.5 req/s",
		"max_failed_attempts", 5,
		"lockout_duration", "15m",
	)

	// Rate limit for unauthenticated write endpoints
	publicLimit := httprate.LimitByIP(cfg.PublicRateLimit, time.Minute)

	apiHandler := api.NewHandler(
		sessionManager,
		accountService,
		recipeService,
		savedService,
		queueService,
		dashboardService,
		activityService,
		imageService,
		loginProtection,
	)

	// Hourly sweep of expired admin session rows. Expired rows are also
	// deleted lazily on access.
	var sweeper *cron.Cron
	if cfg.SessionSweep {
		sweeper = cron.New()
		_, err := sweeper.AddFunc("@hourly", func() {
			n, err := store.New(db).DeleteExpiredAdminSessions(context.Background(), time.Now().UTC())
			if err != nil {
				slog.Error("session sweep failed", "error", err)
				return
			}
			if n > 0 {
				slog.Info("expired admin sessions removed", "count", n)
			}
		})
		if err != nil {
			return fmt.Errorf("scheduling session sweep: %w", err)
		}
		sweeper.Start()
		defer sweeper.Stop()
		slog.Info("session sweep scheduled", "interval", "1h")
	}

	// Create router
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))

	if len(cfg.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.CORSOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.Use(sessionManager.LoadAndSave)
	r.Use(middleware.CSRF(middleware.CSRFConfig{
		AuthKey:        []byte(cfg.SessionSecret)[:32],
		TrustedOrigins: cfg.CORSOrigins,
	}))
	slog.Info("CSRF protection initialized")

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		if err := db.PingContext(req.Context()); err != nil {
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = fmt.Fprintln(w, "ok")
	})

	r.Mount("/api/v1", apiHandler.Routes(db, publicLimit))
	slog.Info("REST API v1 mounted at /api/v1")

	// Create server with appropriate timeouts
	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      3 * time.Minute, // Image generation holds the request open
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	// Start server in goroutine
	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
