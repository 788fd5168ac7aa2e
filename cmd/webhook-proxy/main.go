// Command webhook-proxy relays chat-platform webhook calls to the
// configured automation endpoint.
package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"studentwallet/internal/config"
	"studentwallet/internal/forward"
	"studentwallet/internal/logger"
	"studentwallet/internal/middleware"
)

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if cfg.WebhookTargetURL == "" {
		return fmt.Errorf("WEBHOOK_TARGET_URL is required")
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	forward.NewProxy(cfg.WebhookTargetURL, cfg.ForwardAPIKey, cfg.RequestTimeout).Register(router)

	logger.Named("proxy").Infow("Webhook proxy starting", "port", cfg.ProxyPort, "target", cfg.WebhookTargetURL)
	return router.Run(":" + cfg.ProxyPort)
}
