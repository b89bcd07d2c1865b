// Package config loads runtime settings from the environment and an optional .env file.
package config

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

type Config struct {
	Port            string        `mapstructure:"PORT"`
	Environment     string        `mapstructure:"ENVIRONMENT"`
	LogLevel        string        `mapstructure:"LOG_LEVEL"`
	StorageDriver   string        `mapstructure:"STORAGE_DRIVER"`
	DataFile        string        `mapstructure:"DATA_FILE"`
	DatabaseURL     string        `mapstructure:"DATABASE_URL"`
	DBMaxConns      int32         `mapstructure:"DB_MAX_CONNS"`
	DBMinConns      int32         `mapstructure:"DB_MIN_CONNS"`
	KafkaBrokers    []string      `mapstructure:"-"`
	KafkaTopic      string        `mapstructure:"KAFKA_TOPIC"`
	CORSOrigins     string        `mapstructure:"CORS_ORIGINS"`
	RateLimitMax    int           `mapstructure:"RATE_LIMIT_MAX"`
	RateLimitWindow time.Duration `mapstructure:"RATE_LIMIT_WINDOW"`
	BodyLimit       int           `mapstructure:"BODY_LIMIT"`
	APIURL          string        `mapstructure:"API_URL"`
	ClientTimeout   time.Duration `mapstructure:"CLIENT_TIMEOUT"`
}

var keys = []string{
	"PORT", "ENVIRONMENT", "LOG_LEVEL", "STORAGE_DRIVER", "DATA_FILE",
	"DATABASE_URL", "DB_MAX_CONNS", "DB_MIN_CONNS", "KAFKA_BROKERS", "KAFKA_TOPIC",
	"CORS_ORIGINS", "RATE_LIMIT_MAX", "RATE_LIMIT_WINDOW", "BODY_LIMIT",
	"API_URL", "CLIENT_TIMEOUT",
}

// Load reads .env if present, then the process environment.
func Load() (*Config, error) {
	// a missing .env is fine
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "5000")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("STORAGE_DRIVER", "file")
	v.SetDefault("DATA_FILE", "clinic_db.json")
	v.SetDefault("DB_MAX_CONNS", 30)
	v.SetDefault("DB_MIN_CONNS", 5)
	v.SetDefault("KAFKA_TOPIC", "clinic.doctors")
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("RATE_LIMIT_MAX", 100)
	v.SetDefault("RATE_LIMIT_WINDOW", "15m")
	v.SetDefault("BODY_LIMIT", 1024*1024)
	v.SetDefault("API_URL", "http://localhost:5000")
	v.SetDefault("CLIENT_TIMEOUT", "0s")

	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind %s: %w", key, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.KafkaBrokers = splitList(v.GetString("KAFKA_BROKERS"))
	cfg.StorageDriver = strings.ToLower(strings.TrimSpace(cfg.StorageDriver))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks combinations that cannot work at runtime.
func (c *Config) Validate() error {
	switch c.StorageDriver {
	case "file":
		if c.DataFile == "" {
			return fmt.Errorf("DATA_FILE is required for file storage")
		}
	case "postgres":
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for postgres storage")
		}
	default:
		return fmt.Errorf("STORAGE_DRIVER must be file or postgres, got %q", c.StorageDriver)
	}
	if c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("DB_MIN_CONNS (%d) exceeds DB_MAX_CONNS (%d)", c.DBMinConns, c.DBMaxConns)
	}
	if c.RateLimitMax < 0 {
		return fmt.Errorf("RATE_LIMIT_MAX must not be negative")
	}
	return nil
}

func (c *Config) IsDev() bool {
	return c.Environment == "development"
}

// IsProduction returns true when the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// KafkaEnabled reports whether change events should be published.
func (c *Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

// Logger builds the application logger on stdout.
func (c *Config) Logger() zerolog.Logger {
	return c.LoggerTo(os.Stdout)
}

// LoggerTo builds a logger writing to w: colored console output in
// development, JSON lines otherwise.
func (c *Config) LoggerTo(w io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	logger := zerolog.New(w).With().Timestamp().Logger()
	if c.IsDev() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: w}).With().Timestamp().Logger()
	}
	return logger.Level(level)
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
