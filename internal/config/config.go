// Package config loads runtime settings from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage drivers accepted by STORAGE_DRIVER.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

const minJWTSecretLen = 32

// Config holds every setting the server and CLI read at start-up.
type Config struct {
	Port           string
	StorageDriver  string
	DatabasePath   string
	DatabaseURL    string
	JWTSecret      string
	BcryptCost     int
	CookieSecure   bool
	RedisURL       string
	BestMatchTTL   time.Duration
	SweepInterval  time.Duration
	RequestTimeout time.Duration
	LogLevel       string
}

// Load reads a .env file when present, then the environment. Values that
// fail to parse are reported; range checks are left to Validate.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{
		Port:          envOrDefault("PORT", "8080"),
		StorageDriver: strings.ToLower(envOrDefault("STORAGE_DRIVER", DriverSQLite)),
		DatabasePath:  envOrDefault("DATABASE_PATH", "mockmatch.db"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		// Default to secure cookies; disable only for local development.
		CookieSecure: os.Getenv("COOKIE_SECURE") != "false",
		RedisURL:     os.Getenv("REDIS_URL"),
		LogLevel:     envOrDefault("LOG_LEVEL", "info"),
	}

	var errs []error
	var err error
	if cfg.BcryptCost, err = intEnv("BCRYPT_COST", 12); err != nil {
		errs = append(errs, err)
	}
	if cfg.BestMatchTTL, err = durationEnv("BEST_MATCH_TTL", 60*time.Second); err != nil {
		errs = append(errs, err)
	}
	if cfg.SweepInterval, err = durationEnv("SWEEP_INTERVAL", time.Minute); err != nil {
		errs = append(errs, err)
	}
	if cfg.RequestTimeout, err = durationEnv("REQUEST_TIMEOUT", 30*time.Second); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return cfg, nil
}

// Validate checks the settings needed to serve requests.
func (c *Config) Validate() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET environment variable is required"))
	} else if len(c.JWTSecret) < minJWTSecretLen {
		errs = append(errs, fmt.Errorf("JWT_SECRET must be at least %d characters for HMAC-SHA256 security", minJWTSecretLen))
	}
	if c.BcryptCost < 4 || c.BcryptCost > 14 {
		errs = append(errs, fmt.Errorf("BCRYPT_COST must be between 4 and 14, got %d", c.BcryptCost))
	}
	if err := c.ValidateStorage(); err != nil {
		errs = append(errs, err)
	}
	if c.BestMatchTTL <= 0 {
		errs = append(errs, errors.New("BEST_MATCH_TTL must be positive"))
	}
	if c.SweepInterval <= 0 {
		errs = append(errs, errors.New("SWEEP_INTERVAL must be positive"))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, errors.New("REQUEST_TIMEOUT must be positive"))
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// ValidateStorage checks only the storage settings. Commands that never
// issue tokens, like migrate, use it instead of Validate.
func (c *Config) ValidateStorage() error {
	switch c.StorageDriver {
	case DriverSQLite:
		if c.DatabasePath == "" {
			return errors.New("DATABASE_PATH is required for the sqlite driver")
		}
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required for the postgres driver")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("STORAGE_DRIVER must be one of sqlite, postgres or memory, got %q", c.StorageDriver)
	}
	return nil
}

// SlogLevel returns the configured level, falling back to info.
func (c *Config) SlogLevel() slog.Level {
	level, err := ParseLogLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

// ParseLogLevel accepts debug, info, warn or error in any case.
func ParseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("LOG_LEVEL %q is not a valid level", s)
	}
	return level, nil
}

func envOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func intEnv(key string, defaultVal int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return parsed, nil
}

func durationEnv(key string, defaultVal time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	parsed, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return parsed, nil
}
