// Command revoke-worker consumes user revoke messages from the broker and
// purges the revoked user's data.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"studentwallet/internal/config"
	"studentwallet/internal/database"
	"studentwallet/internal/events"
	"studentwallet/internal/logger"
	"studentwallet/internal/server"
	"studentwallet/internal/services"
)

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Named("revoke-worker")

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if cfg.AMQPURL == "" {
		return fmt.Errorf("AMQP_URL is required")
	}
	if cfg.IsDevelopment() {
		return fmt.Errorf("the development database lives inside the API process; set APP_MODE=production")
	}

	dbManager, err := database.NewManager(database.NewConfig(cfg))
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer dbManager.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	handler := server.RevokeHandler(services.NewUserService(dbManager.DB()))

	log.Infow("Worker starting", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	err = events.ConsumeWithReconnect(ctx, cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, handler)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info("Worker stopped")
	return nil
}
