package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/nekogravitycat/hourglass-gateway/internal/app"
	"github.com/nekogravitycat/hourglass-gateway/internal/config"
	"github.com/nekogravitycat/hourglass-gateway/internal/logging"
)

func main() {
	// For receiving Ctrl+C / SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Init logger
	logging.Init(cfg.IsProduction)
	defer logging.Sync()
	logger := logging.L()

	// A missing key is not fatal: the server still runs, but proxied
	// calls will fail upstream authorization.
	if cfg.APIKey == "" {
		logger.Warn("API_KEY not found in environment variables, upstream calls will fail")
	} else {
		logger.Info("API key loaded", zap.String("key", cfg.MaskedAPIKey()))
	}

	// Init components
	container := app.NewContainer(app.Config{
		AllowedOrigins:  cfg.AllowedOrigins,
		UpstreamBaseURL: cfg.UpstreamBaseURL,
		APIKey:          cfg.APIKey,
		UpstreamTimeout: cfg.UpstreamTimeout,
		Logger:          logger,
	})
	defer container.Upstream.Close()

	// Use http.Server for graceful shutdown
	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: container.Router,
	}

	// Run server in separate goroutine
	go func() {
		logger.Info("server running",
			zap.String("addr", cfg.HTTPAddr),
			zap.String("upstream", cfg.UpstreamBaseURL),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	// Wait for Ctrl+C
	<-ctx.Done()
	logger.Info("shutdown signal received")

	// Create a shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Shutdown HTTP server
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server exited gracefully")
}
