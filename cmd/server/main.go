package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/heidericklucas/slack-toxicity-monitor/internal/config"
	"github.com/heidericklucas/slack-toxicity-monitor/internal/handler"
	"github.com/heidericklucas/slack-toxicity-monitor/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.LogLevel); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	slackHandler, err := handler.NewSlackHandler(cfg)
	if err != nil {
		logger.GetLogger().Fatal("failed to create slack handler", zap.Error(err))
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: slackHandler.Router(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.GetLogger().Info("starting server", zap.Int("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.GetLogger().Fatal("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.GetLogger().Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.GetLogger().Error("server shutdown failed", zap.Error(err))
	}

	// Let in-flight moderation goroutines finish before exiting.
	slackHandler.Drain()
}
