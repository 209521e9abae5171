package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port                string
	Env                 string
	KafkaBrokers        []string
	PaymentRequestTopic string
	PaymentRequestGroup string
	PaymentEventsTopic  string
	Currency            string
	StripeSecretKey     string
	StripeWebhookSecret string
	PostgresUser        string
	PostgresPassword    string
	PostgresDB          string
	PostgresHost        string
	PostgresPort        string
	PostgresSSLMode     string
}

func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		// no .env file is fine in containers
	}

	cfg := Config{
		Port:                getEnv("PORT", "8087"),
		Env:                 getEnv("APP_ENV", "development"),
		KafkaBrokers:        splitBrokers(os.Getenv("KAFKA_BROKERS")),
		PaymentRequestTopic: os.Getenv("PAYMENT_REQUEST_TOPIC"),
		PaymentRequestGroup: getEnv("PAYMENT_REQUEST_GROUP_ID", "payment-service"),
		PaymentEventsTopic:  getEnv("PAYMENT_EVENTS_TOPIC", "payment.events"),
		Currency:            getEnv("PAYMENT_CURRENCY", "usd"),
		StripeSecretKey:     os.Getenv("STRIPE_API_KEY"),
		StripeWebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),
		PostgresUser:        os.Getenv("POSTGRES_USER"),
		PostgresPassword:    os.Getenv("POSTGRES_PASSWORD"),
		PostgresDB:          os.Getenv("POSTGRES_DB"),
		PostgresHost:        getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:        getEnv("POSTGRES_PORT", "5432"),
		PostgresSSLMode:     getEnv("POSTGRES_SSLMODE", "disable"),
	}

	if len(cfg.KafkaBrokers) == 0 {
		return cfg, fmt.Errorf("KAFKA_BROKERS is required")
	}
	if cfg.PaymentRequestTopic == "" {
		return cfg, fmt.Errorf("PAYMENT_REQUEST_TOPIC is required")
	}
	if cfg.StripeSecretKey == "" || cfg.StripeWebhookSecret == "" {
		return cfg, fmt.Errorf("stripe config incomplete")
	}
	if cfg.PostgresUser == "" || cfg.PostgresPassword == "" || cfg.PostgresDB == "" {
		return cfg, fmt.Errorf("postgres config incomplete")
	}
	return cfg, nil
}

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
