package config_test

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msomdec/mockmatch/internal/config"
)

const validSecret = "0123456789abcdef0123456789abcdef"

var keys = []string{
	"PORT", "STORAGE_DRIVER", "DATABASE_PATH", "DATABASE_URL", "JWT_SECRET",
	"BCRYPT_COST", "COOKIE_SECURE", "REDIS_URL", "BEST_MATCH_TTL",
	"SWEEP_INTERVAL", "REQUEST_TIMEOUT", "LOG_LEVEL",
}

// clearEnv blanks every key Load reads so the host environment cannot leak
// into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, config.DriverSQLite, cfg.StorageDriver)
	assert.Equal(t, "mockmatch.db", cfg.DatabasePath)
	assert.Equal(t, 12, cfg.BcryptCost)
	assert.True(t, cfg.CookieSecure)
	assert.Empty(t, cfg.RedisURL)
	assert.Equal(t, 60*time.Second, cfg.BestMatchTTL)
	assert.Equal(t, time.Minute, cfg.SweepInterval)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())

	assert.Error(t, cfg.Validate(), "missing JWT_SECRET must fail validation")
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("STORAGE_DRIVER", "Postgres")
	t.Setenv("DATABASE_URL", "postgres://localhost/mockmatch")
	t.Setenv("JWT_SECRET", validSecret)
	t.Setenv("BCRYPT_COST", "4")
	t.Setenv("COOKIE_SECURE", "false")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("BEST_MATCH_TTL", "5m")
	t.Setenv("SWEEP_INTERVAL", "30s")
	t.Setenv("REQUEST_TIMEOUT", "2s")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg, err := config.Load()
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, config.DriverPostgres, cfg.StorageDriver)
	assert.Equal(t, 4, cfg.BcryptCost)
	assert.False(t, cfg.CookieSecure)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
	assert.Equal(t, 5*time.Minute, cfg.BestMatchTTL)
	assert.Equal(t, 30*time.Second, cfg.SweepInterval)
	assert.Equal(t, 2*time.Second, cfg.RequestTimeout)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
}

func TestLoad_ParseErrors(t *testing.T) {
	clearEnv(t)
	t.Setenv("BCRYPT_COST", "twelve")
	t.Setenv("SWEEP_INTERVAL", "often")

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BCRYPT_COST")
	assert.Contains(t, err.Error(), "SWEEP_INTERVAL")
}

func TestValidate(t *testing.T) {
	valid := func() *config.Config {
		return &config.Config{
			Port:           "8080",
			StorageDriver:  config.DriverSQLite,
			DatabasePath:   "mockmatch.db",
			JWTSecret:      validSecret,
			BcryptCost:     12,
			BestMatchTTL:   time.Minute,
			SweepInterval:  time.Minute,
			RequestTimeout: time.Second,
			LogLevel:       "info",
		}
	}
	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(c *config.Config)
		want   string
	}{
		{"short secret", func(c *config.Config) { c.JWTSecret = "short" }, "JWT_SECRET"},
		{"cost too low", func(c *config.Config) { c.BcryptCost = 3 }, "BCRYPT_COST"},
		{"cost too high", func(c *config.Config) { c.BcryptCost = 15 }, "BCRYPT_COST"},
		{"unknown driver", func(c *config.Config) { c.StorageDriver = "mongo" }, "STORAGE_DRIVER"},
		{"postgres without url", func(c *config.Config) { c.StorageDriver = config.DriverPostgres }, "DATABASE_URL"},
		{"zero ttl", func(c *config.Config) { c.BestMatchTTL = 0 }, "BEST_MATCH_TTL"},
		{"negative sweep", func(c *config.Config) { c.SweepInterval = -time.Second }, "SWEEP_INTERVAL"},
		{"zero timeout", func(c *config.Config) { c.RequestTimeout = 0 }, "REQUEST_TIMEOUT"},
		{"bad log level", func(c *config.Config) { c.LogLevel = "loud" }, "LOG_LEVEL"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := valid()
			tc.mutate(c)
			err := c.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestValidateStorage_Memory(t *testing.T) {
	c := &config.Config{StorageDriver: config.DriverMemory}
	assert.NoError(t, c.ValidateStorage())
}
