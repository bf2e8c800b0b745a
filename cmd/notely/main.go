// Package main is the entry point for the Notely API server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"notely/internal/cache"
	"notely/internal/config"
	"notely/internal/database"
	"notely/internal/handlers"
	"notely/internal/identity"
	"notely/internal/metrics"
	"notely/internal/router"
	"notely/internal/session"
	"notely/internal/store"
)

func main() {
	// Structured logger — text output; level tightens outside development.
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

	// Connect to Valkey (sessions + popular-feed cache).
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	// Session store backed by Valkey. In non-development environments,
	// mark session cookies as Secure (HTTPS-only).
	sessionStore := session.NewStore(valkeyClient, !cfg.IsDev())

	// Initialize data stores.
	userStore := store.NewUserStore(db)
	categoryStore := store.NewCategoryStore(db)
	postStore := store.NewPostStore(db)

	popularCache := cache.NewPopularCache(valkeyClient, cache.DefaultPopularTTL)

	// Outbound identity-provider client; Noop when none is configured.
	var provider identity.Provider = identity.Noop{}
	if cfg.IdentityProviderURL != "" {
		provider = identity.NewHTTPProvider(cfg.IdentityProviderURL, cfg.IdentityProviderKey)
		slog.Info("identity provider configured", "url", cfg.IdentityProviderURL)
	} else {
		slog.Warn("identity provider not configured — user sync is local-only")
	}

	m := metrics.New()

	// Create handler groups with their dependencies.
	r := router.New(router.Deps{
		Sessions:   sessionStore,
		Metrics:    m,
		CORSOrigin: cfg.CORSOrigin,
		Auth:       handlers.NewAuth(userStore, sessionStore),
		Posts:      handlers.NewPosts(postStore, categoryStore, popularCache),
		Categories: handlers.NewCategories(categoryStore, postStore),
		Users:      handlers.NewUsers(userStore, postStore, provider, sessionStore),
	})

	// Create the HTTP server with sensible timeouts.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
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
