package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Env                string
	DatabaseURL        string
	RabbitMQURL        string
	WorkerMode         string
	ReportTimezone     string
	TopItemsLimit      int
	ConsumerMaxRetries int
	ConsumerRetryDelay time.Duration
}

func Load() Config {
	cfg := Config{
		Env:                getEnv("APP_ENV", "development"),
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		RabbitMQURL:        getEnv("RABBITMQ_URL", ""),
		WorkerMode:         getEnv("RABBITMQ_WORKER_MODE", "daemon"),
		ReportTimezone:     getEnv("REPORT_TIMEZONE", "UTC"),
		TopItemsLimit:      getEnvInt("TOP_ITEMS_LIMIT", 10),
		ConsumerMaxRetries: getEnvInt("CONSUMER_MAX_RETRIES", 5),
		ConsumerRetryDelay: getEnvDuration("CONSUMER_RETRY_DELAY", 5*time.Second),
	}

	if cfg.TopItemsLimit <= 0 {
		cfg.TopItemsLimit = 10
	}

	return cfg
}

func getEnv(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func getEnvInt(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}
