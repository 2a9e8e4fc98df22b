// Copyright (c) 2026 Marquee Theater Collective <dev@marquee.nyc>
// All rights reserved. See LICENSE for details.

// Package main is the entry point for the Marquee CMS server. It loads
// configuration, connects to services, sets up routing, and starts the
// HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"marquee/internal/cache"
	"marquee/internal/compose"
	"marquee/internal/config"
	"marquee/internal/database"
	"marquee/internal/handlers"
	"marquee/internal/middleware"
	"marquee/internal/render"
	"marquee/internal/router"
	"marquee/internal/storage"
	"marquee/internal/store"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
	)

	// Connect to PostgreSQL.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run pending migrations.
	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	// Connect to Valkey. The projection cache degrades to a no-op when
	// the connection fails, so a cache outage never takes the site down.
	var projCache *cache.ProjectionCache
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Warn("valkey unavailable — serving without projection cache", "error", err)
	} else {
		defer valkeyClient.Close()
		projCache = cache.NewProjectionCache(valkeyClient, cache.DefaultProjectionTTL)
	}

	// Connect to S3-compatible object storage (optional — the app works
	// without it; media uploads are disabled and keys resolve against
	// MEDIA_BASE_URL).
	var storageClient *storage.Client
	if cfg.S3Endpoint != "" && cfg.S3AccessKey != "" {
		storageClient, err = storage.New(
			cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey,
			cfg.S3Bucket, cfg.S3PublicURL,
		)
		if err != nil {
			slog.Error("failed to initialize S3 storage", "error", err)
			os.Exit(1)
		}
		if storageClient != nil {
			slog.Info("s3 storage connected",
				"endpoint", cfg.S3Endpoint,
				"bucket", cfg.S3Bucket,
			)
		}
	} else {
		slog.Warn("s3 storage not configured — media uploads disabled")
	}

	// Initialize the HTML renderer for the public site views.
	renderer, err := render.New()
	if err != nil {
		slog.Error("failed to initialize renderer", "error", err)
		os.Exit(1)
	}

	// Initialize data stores.
	pageStore := store.NewPageStore(db)
	widgetStore := store.NewWidgetStore(db)
	catalogStore := store.NewCatalogStore(db)

	// The composer turns pages and catalog entities into projections.
	media := storage.NewResolver(storageClient, cfg.MediaBaseURL)
	composer := compose.NewComposer(pageStore, widgetStore, catalogStore, media, logger)

	// Create handler groups with their dependencies.
	publicHandlers := handlers.NewPublic(composer, renderer, projCache)
	adminHandlers := handlers.NewAdmin(pageStore, widgetStore, catalogStore, projCache, storageClient)

	// Rate limiting protects the public surface from scrapers.
	limiter := middleware.NewRateLimiter(300, time.Minute)
	defer limiter.Stop()

	// Set up the Chi router with all middleware and routes.
	r := router.New(publicHandlers, adminHandlers, limiter)

	// Create the HTTP server with sensible timeouts. WriteTimeout covers
	// media uploads, which can push tens of megabytes.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	// Give active requests up to 30 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
