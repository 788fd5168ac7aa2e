package main

import (
	"fmt"
	"os"
	"time"

	"studentwallet/internal/config"
	"studentwallet/internal/database"
	"studentwallet/internal/events"
	"studentwallet/internal/logger"
	"studentwallet/internal/platform"
	"studentwallet/internal/server"
	"studentwallet/internal/services"
)

// @title           Student Wallet API
// @version         1.0
// @description     Personal finance backend for the student wallet chat mini-app: transactions, budgets, savings goals and statistics.
// @termsOfService  http://swagger.io/terms/

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	dbManager, provider, err := openBackend(appConfig)
	if err != nil {
		return err
	}
	defer func() {
		if err := dbManager.Close(); err != nil {
			log.Warnw("Failed to close database", "error", err)
		}
	}()

	db := dbManager.DB()

	// Revokes are queued for cmd/revoke-worker when a broker is configured.
	var publisher events.Publisher
	if appConfig.AMQPURL != "" {
		client, err := events.NewRedialingPublisher(appConfig.AMQPURL, appConfig.AMQPExchange, appConfig.AMQPQueue)
		if err != nil {
			return fmt.Errorf("failed to connect to broker: %w", err)
		}
		defer client.Close()
		publisher = client
	} else {
		publisher = events.NewDirectPublisher(server.RevokeHandler(services.NewUserService(db)))
	}

	router := server.NewRouter(server.Deps{
		DB:            db,
		Provider:      provider,
		Publisher:     publisher,
		Location:      appConfig.Timezone,
		DevMode:       appConfig.IsDevelopment(),
		WebhookAPIKey: appConfig.WebhookAPIKey,
	})

	log.Infow("Server starting", "port", appConfig.Port, "mode", appConfig.AppMode, "timezone", appConfig.Timezone.String())
	return router.Run(":" + appConfig.Port)
}

// openBackend selects the data store and identity provider for the app mode.
func openBackend(cfg *config.Config) (*database.Manager, platform.Provider, error) {
	if cfg.IsDevelopment() {
		dbManager, err := database.NewDevManager(time.Now().In(cfg.Timezone))
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open development database: %w", err)
		}
		dev := database.DevUser()
		return dbManager, platform.NewDevProvider(dev.ID, dev.Name, dev.Email), nil
	}

	dbManager, err := database.NewManager(database.NewConfig(cfg))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create database manager: %w", err)
	}
	if err := dbManager.RunMigrations(); err != nil {
		return nil, nil, fmt.Errorf("failed to run database migrations: %w", err)
	}
	return dbManager, platform.NewZaloProvider(cfg.ZaloGraphURL, cfg.RequestTimeout), nil
}
