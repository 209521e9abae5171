package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port                 string
	Env                  string
	PostgresUser         string
	PostgresPassword     string
	PostgresDB           string
	PostgresHost         string
	PostgresPort         string
	PostgresSSLMode      string
	KafkaBrokers         []string
	CheckoutTopic        string
	CheckoutGroupID      string
	DeadLetterTopic      string
	PaymentRequestTopic  string
	PaymentEventsTopic   string
	PaymentEventsGroupID string
	MaxAttempts          int
}

// LoadConfig resolves everything from the environment at startup. Broker
// destinations and database credentials are required; missing values fail
// the boot rather than surfacing mid-stream.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// no .env file is fine in containers
	}

	cfg := &Config{
		Port:                 getEnv("PORT", "8083"),
		Env:                  getEnv("APP_ENV", "development"),
		PostgresUser:         os.Getenv("POSTGRES_USER"),
		PostgresPassword:     os.Getenv("POSTGRES_PASSWORD"),
		PostgresDB:           os.Getenv("POSTGRES_DB"),
		PostgresHost:         getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:         getEnv("POSTGRES_PORT", "5432"),
		PostgresSSLMode:      getEnv("POSTGRES_SSLMODE", "disable"),
		KafkaBrokers:         splitBrokers(os.Getenv("KAFKA_BROKERS")),
		CheckoutTopic:        os.Getenv("CHECKOUT_TOPIC"),
		CheckoutGroupID:      getEnv("CHECKOUT_GROUP_ID", "order-service"),
		DeadLetterTopic:      getEnv("CHECKOUT_DLT_TOPIC", "checkout.requested.dlt"),
		PaymentRequestTopic:  os.Getenv("PAYMENT_REQUEST_TOPIC"),
		PaymentEventsTopic:   getEnv("PAYMENT_EVENTS_TOPIC", "payment.events"),
		PaymentEventsGroupID: getEnv("PAYMENT_EVENTS_GROUP_ID", "order-service"),
		MaxAttempts:          getEnvInt("CHECKOUT_MAX_ATTEMPTS", 3),
	}

	if cfg.PostgresUser == "" || cfg.PostgresPassword == "" || cfg.PostgresDB == "" {
		return nil, fmt.Errorf("database config incomplete")
	}
	if len(cfg.KafkaBrokers) == 0 {
		return nil, fmt.Errorf("KAFKA_BROKERS is required")
	}
	if cfg.CheckoutTopic == "" {
		return nil, fmt.Errorf("CHECKOUT_TOPIC is required")
	}
	if cfg.PaymentRequestTopic == "" {
		return nil, fmt.Errorf("PAYMENT_REQUEST_TOPIC is required")
	}
	return cfg, nil
}

func (c *Config) PostgresDSN() string {
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

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return fallback
}
