// cmd/service/main.go
package main

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

	"github-activity/internal/activity"
	"github-activity/internal/api"
	"github-activity/internal/cache"
	"github-activity/internal/config"
	"github-activity/internal/details"
	"github-activity/internal/github"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Application startup error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Initialize structured logger
	logLevel := new(slog.LevelVar)
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	logger := slog.New(handler)
	slog.SetDefault(logger)

	// 2. Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	setLogLevel(cfg.LogLevel, logLevel)
	logger.Info("Configuration loaded successfully")
	if !cfg.HasToken() {
		logger.Warn("GITHUB_TOKEN is not set; contribution data requires PROXY_BASE_URL")
	}

	// 3. Setup context for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// 4. Initialize application components
	router, err := newRouter(cfg, logger)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// 5. Start the HTTP server in a separate goroutine
	serverErr := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	// 6. Wait for shutdown signal
	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
	case <-ctx.Done():
		logger.Info("Shutdown signal received. Exiting.")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	return nil
}

// newRouter wires the GitHub clients, caches and services behind the API router.
func newRouter(cfg *config.Config, logger *slog.Logger) (http.Handler, error) {
	ghClient, err := github.NewClient(cfg.GithubToken, logger, clientOptions(cfg)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GitHub client: %w", err)
	}

	activityOpts := []activity.Option{
		activity.WithStatsTTL(cfg.StatsCacheTTL),
		activity.WithLanguageLimit(cfg.LanguageLimit),
		activity.WithTokenScope(func(token string) activity.Upstream { return ghClient.WithToken(token) }),
	}
	var detailFetcher details.Fetcher = ghClient
	if cfg.ProxyBaseURL != "" {
		proxy := github.NewProxyClient(cfg.ProxyBaseURL, cfg.HTTPTimeout, logger)
		activityOpts = append(activityOpts, activity.WithProxy(proxy))
		if !cfg.HasToken() {
			detailFetcher = proxy
		}
	}

	statsCache := cache.New()
	activitySvc := activity.NewService(ghClient, statsCache, logger, activityOpts...)
	detailSvc := details.NewService(detailFetcher, cfg.DetailFetchTimeout, logger)

	return api.NewRouter(api.Deps{
		Activity:        activitySvc,
		Details:         detailSvc,
		Upstream:        ghClient,
		DefaultUsername: cfg.GithubUsername,
	}, logger), nil
}

func clientOptions(cfg *config.Config) []github.Option {
	opts := []github.Option{
		github.WithTimeout(cfg.HTTPTimeout),
		github.WithRetry(cfg.MaxRetries, 500*time.Millisecond, 30*time.Second),
	}
	if cfg.GithubAPIURL != "" {
		opts = append(opts, github.WithBaseURL(cfg.GithubAPIURL))
	}
	if cfg.GithubGraphQLURL != "" {
		opts = append(opts, github.WithGraphQLURL(cfg.GithubGraphQLURL))
	}
	return opts
}

func setLogLevel(level string, v *slog.LevelVar) {
	switch level {
	case "debug":
		v.Set(slog.LevelDebug)
	case "warn":
		v.Set(slog.LevelWarn)
	case "error":
		v.Set(slog.LevelError)
	default:
		v.Set(slog.LevelInfo)
	}
}
