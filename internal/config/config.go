// Package config gathers process configuration from the environment.
// Command-line flags, where present, override these values in cmd/triage.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aretw0/triage/internal/llm"
	"github.com/aretw0/triage/internal/logging"
	"github.com/aretw0/triage/internal/sanitize"
	"github.com/aretw0/triage/pkg/classifier"
	"github.com/aretw0/triage/pkg/domain"
)

// Config is the full runtime configuration of a triage process.
type Config struct {
	LLM             llm.Config
	ClassifyTimeout time.Duration
	LogLevel        string
	LogFormat       string
	MaxInputSize    int
	Redis           RedisConfig
}

// RedisConfig points at the optional outcome counter store.
// An empty Addr disables it.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// Enabled reports whether a Redis address was configured.
func (r RedisConfig) Enabled() bool {
	return r.Addr != ""
}

// FromEnv reads every TRIAGE_* variable plus the provider credentials.
// Malformed numeric or duration values are reported by Validate, not here.
func FromEnv() Config {
	cfg := Config{
		LLM:             llm.ConfigFromEnv(),
		ClassifyTimeout: classifier.DefaultTimeout,
		LogLevel:        envOr("TRIAGE_LOG_LEVEL", "info"),
		LogFormat:       envOr("TRIAGE_LOG_FORMAT", logging.FormatText),
		MaxInputSize:    sanitize.MaxInputSize(),
		Redis: RedisConfig{
			Addr:     os.Getenv("TRIAGE_REDIS_ADDR"),
			Password: os.Getenv("TRIAGE_REDIS_PASSWORD"),
		},
	}

	if v := os.Getenv("TRIAGE_CLASSIFY_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.ClassifyTimeout = d
		} else {
			cfg.ClassifyTimeout = -1
		}
	}
	if v := os.Getenv("TRIAGE_REDIS_DB"); v != "" {
		if db, err := strconv.Atoi(v); err == nil {
			cfg.Redis.DB = db
		} else {
			cfg.Redis.DB = -1
		}
	}
	return cfg
}

// Validate checks the settings shared by every command. Provider
// credentials are checked separately by ValidateClassifier, since only
// some commands need them.
func (c Config) Validate() error {
	var problems []string
	if c.ClassifyTimeout <= 0 {
		problems = append(problems, "TRIAGE_CLASSIFY_TIMEOUT must be a positive duration")
	}
	switch strings.ToLower(c.LogFormat) {
	case logging.FormatText, logging.FormatJSON:
	default:
		problems = append(problems, fmt.Sprintf("TRIAGE_LOG_FORMAT %q is not one of text, json", c.LogFormat))
	}
	if c.Redis.DB < 0 {
		problems = append(problems, "TRIAGE_REDIS_DB must be a non-negative integer")
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", domain.ErrConfiguration, strings.Join(problems, "; "))
	}
	return nil
}

// ValidateClassifier checks Validate plus the selected provider's credential.
func (c Config) ValidateClassifier() error {
	if err := c.Validate(); err != nil {
		return err
	}
	return c.LLM.Validate()
}

// Logger builds the process logger from LogLevel and LogFormat.
func (c Config) Logger() *slog.Logger {
	return logging.New(logging.ParseLevel(c.LogLevel), c.LogFormat)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
