package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port             string
	Env              string
	RedisURL         string
	CartTTL          time.Duration
	KafkaBrokers     []string
	CheckoutTopic    string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresHost     string
	PostgresPort     string
	PostgresSSLMode  string
}

// Load resolves the service configuration from the environment. Broker and
// database settings are required; a missing value is a startup error, not
// something to discover at runtime.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		// no .env file is fine in containers
	}

	cfg := Config{
		Port:             getEnv("PORT", "8086"),
		Env:              getEnv("APP_ENV", "development"),
		RedisURL:         getEnv("REDIS_URL", "redis://localhost:6379"),
		CartTTL:          time.Hour * 24 * 7,
		KafkaBrokers:     splitBrokers(os.Getenv("KAFKA_BROKERS")),
		CheckoutTopic:    os.Getenv("CHECKOUT_TOPIC"),
		PostgresUser:     os.Getenv("POSTGRES_USER"),
		PostgresPassword: os.Getenv("POSTGRES_PASSWORD"),
		PostgresDB:       os.Getenv("POSTGRES_DB"),
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
	}

	if len(cfg.KafkaBrokers) == 0 {
		return cfg, fmt.Errorf("KAFKA_BROKERS is required")
	}
	if cfg.CheckoutTopic == "" {
		return cfg, fmt.Errorf("CHECKOUT_TOPIC is required")
	}
	if cfg.PostgresUser == "" || cfg.PostgresPassword == "" || cfg.PostgresDB == "" {
		return cfg, fmt.Errorf("postgres config incomplete")
	}
	return cfg, nil
}

// PostgresDSN builds the gorm DSN from the resolved config.
func (c Config) PostgresDSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.PostgresHost, c.PostgresUser, c.PostgresPassword, c.PostgresDB, c.PostgresPort, c.PostgresSSLMode,
	)
}

func splitBrokers(raw string) []string {
	if raw == "" {
		return nil
	}
	var brokers []string
	for _, b := range strings.Split(raw, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
