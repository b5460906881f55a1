package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Application settings
type Config struct {
	Server      ServerConfig
	Logging     LoggingConfig
	Source      SourceConfig
	Credentials CredentialConfig
	Export      ExportConfig
}

// Server settings
type ServerConfig struct {
	Port            string        `validate:"required,numeric"`
	RequestTimeout  time.Duration `validate:"gt=0"`
	ShutdownTimeout time.Duration `validate:"gt=0"`
}

// SourceConfig describes where records come from
type SourceConfig struct {
	RecordsAPIURL      string        `validate:"omitempty,url"`
	HealthAPIURL       string        `validate:"omitempty,url"`
	LiveProducts       []string      `validate:"dive,required"`
	FetchTimeout       time.Duration `validate:"gt=0"`
	RateLimitPerSecond int           `validate:"gt=0"`
	FallbackPath       string
}

type CredentialConfig struct {
	Backend     string `validate:"oneof=static redis"`
	Key         string `validate:"required"`
	StaticToken string
	RedisAddr   string `validate:"required_if=Backend redis"`
	RedisPrefix string
	RedisDB     int `validate:"gte=0"`
}

type ExportConfig struct {
	SheetName string `validate:"required"`
}

// Logging settings
type LoggingConfig struct {
	Level string `validate:"oneof=trace debug info warn warning error fatal panic"`
}

func Load() (*Config, error) {
	// a missing .env is fine, the environment wins anyway
	_ = godotenv.Load()

	config := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			RequestTimeout:  getDurationEnv("REQUEST_TIMEOUT", "30s"),
			ShutdownTimeout: getDurationEnv("SHUTDOWN_TIMEOUT", "10s"),
		},
		Source: SourceConfig{
			RecordsAPIURL:      getEnv("RECORDS_API_URL", ""),
			HealthAPIURL:       getEnv("HEALTH_API_URL", ""),
			LiveProducts:       getListEnv("LIVE_PRODUCTS", "abertura-conta"),
			FetchTimeout:       getDurationEnv("FETCH_TIMEOUT", "15s"),
			RateLimitPerSecond: getIntEnv("RATE_LIMIT_PER_SECOND", 10),
			FallbackPath:       getEnv("FALLBACK_DATASET_PATH", ""),
		},
		Credentials: CredentialConfig{
			Backend:     getEnv("CREDENTIAL_BACKEND", "static"),
			Key:         getEnv("CREDENTIAL_KEY", "token"),
			StaticToken: getEnv("API_TOKEN", ""),
			RedisAddr:   getEnv("REDIS_ADDR", ""),
			RedisPrefix: getEnv("REDIS_PREFIX", "oppdash:"),
			RedisDB:     getIntEnv("REDIS_DB", 0),
		},
		Export: ExportConfig{
			SheetName: getEnv("EXPORT_SHEET_NAME", "Dados"),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks the struct tags above
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getDurationEnv(key, defaultValue string) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}

func getListEnv(key, defaultValue string) []string {
	raw := getEnv(key, defaultValue)
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
