package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	ExampleFormatIndexed  = "indexed"
	ExampleFormatBodyText = "body_text"
)

type Config struct {
	SourcePath  string
	SheetName   string
	EndpointURL string
	AuthToken   string
	Cookie      string

	ExampleFormat string
	OutputPath    string
	DryRun        bool
	HTTPTimeout   time.Duration

	LogFile       string
	LogLevel      string
	LogMaxSizeMB  int
	LogMaxBackups int

	SandboxPort string
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		SourcePath:  os.Getenv("SOURCE_PATH"),
		SheetName:   os.Getenv("SHEET_NAME"),
		EndpointURL: os.Getenv("ENDPOINT_URL"),
		AuthToken:   os.Getenv("AUTH_TOKEN"),
		Cookie:      os.Getenv("COOKIE"),

		ExampleFormat: envOr("EXAMPLE_FORMAT", ExampleFormatIndexed),
		OutputPath:    os.Getenv("OUTPUT_PATH"),
		DryRun:        envBool("DRY_RUN", false),
		HTTPTimeout:   envDuration("HTTP_TIMEOUT", 30*time.Second),

		LogFile:       envOr("LOG_FILE", "process_requests.log"),
		LogLevel:      envOr("LOG_LEVEL", "info"),
		LogMaxSizeMB:  envInt("LOG_MAX_SIZE_MB", 5),
		LogMaxBackups: envInt("LOG_MAX_BACKUPS", 3),

		SandboxPort: os.Getenv("SANDBOX_PORT"),
	}

	if cfg.SourcePath == "" {
		cfg.SourcePath = "jsons.csv"
		log.Info().Msg("SOURCE_PATH not set, using default: jsons.csv")
	}

	if cfg.SandboxPort == "" {
		cfg.SandboxPort = "8089"
	}

	if cfg.LogMaxSizeMB <= 0 {
		cfg.LogMaxSizeMB = 5
	}
	if cfg.LogMaxBackups <= 0 {
		cfg.LogMaxBackups = 3
	}

	return cfg, nil
}

// Validate checks the settings a submission run needs. Endpoint and token
// are only required when documents are actually sent.
func (c *Config) Validate() error {
	if c.SourcePath == "" {
		return errors.New("SOURCE_PATH is required")
	}

	switch c.ExampleFormat {
	case ExampleFormatIndexed, ExampleFormatBodyText:
	default:
		return fmt.Errorf("EXAMPLE_FORMAT must be %q or %q, got %q", ExampleFormatIndexed, ExampleFormatBodyText, c.ExampleFormat)
	}

	if c.DryRun {
		return nil
	}

	if c.EndpointURL == "" {
		log.Error().Msg("ENDPOINT_URL environment variable is not set")
		return errors.New("ENDPOINT_URL is required")
	}
	if !strings.HasPrefix(c.EndpointURL, "http://") && !strings.HasPrefix(c.EndpointURL, "https://") {
		return fmt.Errorf("ENDPOINT_URL must be an http(s) URL, got %q", c.EndpointURL)
	}
	if c.AuthToken == "" {
		log.Error().Msg("AUTH_TOKEN environment variable is not set")
		return errors.New("AUTH_TOKEN is required")
	}

	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		log.Warn().Str("key", key).Str("value", v).Msg("invalid integer, using default")
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
		log.Warn().Str("key", key).Str("value", v).Msg("invalid boolean, using default")
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		log.Warn().Str("key", key).Str("value", v).Msg("invalid duration, using default")
	}
	return fallback
}
