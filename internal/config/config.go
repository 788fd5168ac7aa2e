package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Data modes. Development keeps everything in a local SQLite database seeded
// with sample data; production talks to the hosted Postgres backend.
const (
	ModeDevelopment = "development"
	ModeProduction  = "production"
)

// Config holds application configuration
type Config struct {
	// Runtime
	Env      string
	AppMode  string
	Timezone *time.Location

	// Server
	Port      string
	ProxyPort string

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// JWT
	JWTSecret        string
	JWTExpirationDur time.Duration

	// Chat platform
	ZaloGraphURL     string
	WebhookTargetURL string
	ForwardAPIKey    string
	WebhookAPIKey    string
	RequestTimeout   time.Duration

	// Broker (optional; empty URL disables the queue)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
}

var appConfig *Config

// Load loads configuration from environment variables
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		Env:     getEnv("ENV", "development"),
		AppMode: strings.ToLower(getEnv("APP_MODE", ModeDevelopment)),

		Port:      getEnv("PORT", "8080"),
		ProxyPort: getEnv("PROXY_PORT", "3000"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBName:     getEnv("DB_NAME", "postgres"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		JWTSecret: getEnv("JWT_SECRET", "fallback-secret-key-for-dev-only"),

		ZaloGraphURL:     getEnv("ZALO_GRAPH_URL", "https://graph.zalo.me/v2.0"),
		WebhookTargetURL: os.Getenv("WEBHOOK_TARGET_URL"),
		ForwardAPIKey:    os.Getenv("FORWARD_API_KEY"),
		WebhookAPIKey:    os.Getenv("WEBHOOK_API_KEY"),

		AMQPURL:      os.Getenv("AMQP_URL"),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "wallet"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "user_revoked"),
	}

	if config.AppMode != ModeDevelopment && config.AppMode != ModeProduction {
		return nil, fmt.Errorf("invalid APP_MODE %q: must be development or production", config.AppMode)
	}

	expStr := getEnv("JWT_EXPIRES_IN", "24h")
	expDur, err := time.ParseDuration(expStr)
	if err != nil {
		log.Printf("Warning: invalid JWT_EXPIRES_IN value '%s', falling back to 24h\n", expStr)
		expDur = 24 * time.Hour
	}
	config.JWTExpirationDur = expDur

	timeout, err := parseTimeout(os.Getenv("REQUEST_TIMEOUT"))
	if err != nil {
		return nil, err
	}
	config.RequestTimeout = timeout

	loc, err := time.LoadLocation(getEnv("APP_TIMEZONE", "Asia/Ho_Chi_Minh"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_TIMEZONE: %w", err)
	}
	config.Timezone = loc

	appConfig = config
	return config, nil
}

// Get returns the application configuration
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

// IsDevelopment reports whether the local sample-data store is in use.
func (c *Config) IsDevelopment() bool {
	return c.AppMode == ModeDevelopment
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseTimeout(s string) (time.Duration, error) {
	if s == "" {
		return 30 * time.Second, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid REQUEST_TIMEOUT %q: %w", s, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("REQUEST_TIMEOUT must be positive, got %v", d)
	}
	return d, nil
}
