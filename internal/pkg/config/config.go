package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the process reads from the environment. A .env
// file, when present, seeds the environment before parsing.
type Config struct {
	ServiceName string
	Env         string
	Addr        string

	DatabaseURL string

	StripeKey      string
	GatewayTimeout time.Duration

	KafkaBrokers []string
	KafkaTopic   string

	JWTSecret string
}

func Load() (*Config, error) {
	// Missing .env is fine; real deployments inject the environment directly.
	_ = godotenv.Load()

	cfg := &Config{
		ServiceName:    getenvDefault("SERVICE_NAME", "shop-ease"),
		Env:            getenvDefault("ENV", "dev"),
		Addr:           getenvDefault("HTTP_ADDR", ":8080"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		StripeKey:      os.Getenv("STRIPE_TEST_KEY"),
		KafkaTopic:     getenvDefault("KAFKA_NOTIFICATION_TOPIC", "shop-ease.notifications"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		GatewayTimeout: 10 * time.Second,
	}

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}

	if raw := os.Getenv("PAYMENT_GATEWAY_TIMEOUT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("config: parse PAYMENT_GATEWAY_TIMEOUT: %w", err)
		}
		cfg.GatewayTimeout = d
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("config: DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("config: JWT_SECRET is required")
	}

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
