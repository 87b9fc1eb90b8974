package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"marketplace/internal/adapters/out/postgres"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	HTTPPort        string
	ShutdownTimeout time.Duration
	LogLevel        string

	Postgres postgres.Settings

	// RabbitMQURL is optional; notifications are only logged without it.
	RabbitMQURL string
	// RedisAddr is optional; earnings are read uncached without it.
	RedisAddr        string
	EarningsCacheTTL time.Duration

	RelaySchedule           string
	RelayBatch              int
	NotificationMaxAttempts int
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("HTTP_PORT", "8080")
	v.SetDefault("SHUTDOWN_TIMEOUT", "10s")
	v.SetDefault("LOG_LEVEL", "info")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "marketplace")
	v.SetDefault("DB_SSLMODE", "disable")

	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("EARNINGS_CACHE_TTL", "30s")

	v.SetDefault("NOTIFICATION_RELAY_SCHEDULE", "*/5 * * * * *")
	v.SetDefault("NOTIFICATION_RELAY_BATCH", 100)
	v.SetDefault("NOTIFICATION_MAX_ATTEMPTS", 10)
}

// LoadConfig reads envFile when it exists, then the process environment.
// Variables already set in the environment win over the file.
func LoadConfig(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	cfg := Config{
		HTTPPort:        v.GetString("HTTP_PORT"),
		ShutdownTimeout: v.GetDuration("SHUTDOWN_TIMEOUT"),
		LogLevel:        v.GetString("LOG_LEVEL"),
		Postgres: postgres.Settings{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			Name:     v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		RabbitMQURL:             v.GetString("RABBITMQ_URL"),
		RedisAddr:               v.GetString("REDIS_ADDR"),
		EarningsCacheTTL:        v.GetDuration("EARNINGS_CACHE_TTL"),
		RelaySchedule:           v.GetString("NOTIFICATION_RELAY_SCHEDULE"),
		RelayBatch:              v.GetInt("NOTIFICATION_RELAY_BATCH"),
		NotificationMaxAttempts: v.GetInt("NOTIFICATION_MAX_ATTEMPTS"),
	}

	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	var problems []error
	if c.HTTPPort == "" {
		problems = append(problems, errors.New("HTTP_PORT is empty"))
	}
	if c.Postgres.Host == "" || c.Postgres.Name == "" {
		problems = append(problems, errors.New("DB_HOST and DB_NAME are required"))
	}
	if c.ShutdownTimeout <= 0 {
		problems = append(problems, errors.New("SHUTDOWN_TIMEOUT must be positive"))
	}
	return errors.Join(problems...)
}

func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
