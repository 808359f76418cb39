package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

// unsetEnv clears keys for the duration of the test
func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestLoadDefaults(t *testing.T) {
	unsetEnv(t, "PORT", "ENV", "STORE_DRIVER", "REDIS_URL", "MATCH_CACHE_TTL", "JWT_SECRET",
		"CLEANUP_INTERVAL", "MATCH_RETENTION", "CORS_ALLOWED_ORIGINS", "LOG_LEVEL", "DB_MAX_CONNS", "DB_AUTO_MIGRATE")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, StoreDriverPostgres, cfg.Store.Driver)
	assert.Empty(t, cfg.Redis.URL)
	assert.Equal(t, 5*time.Minute, cfg.Redis.MatchCacheTTL)
	assert.Equal(t, 720*time.Hour, cfg.Maintenance.MatchRetention)
	assert.Empty(t, cfg.Server.CORSOrigins)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", "Memory")
	t.Setenv("REDIS_URL", "redis://cache:6379/1")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("CLEANUP_INTERVAL", "0s")
	t.Setenv("DB_MAX_CONNS", "10")
	t.Setenv("FCM_ENABLED", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StoreDriverMemory, cfg.Store.Driver)
	assert.Equal(t, "redis://cache:6379/1", cfg.Redis.URL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSOrigins)
	assert.Zero(t, cfg.Maintenance.CleanupInterval)
	assert.Equal(t, int32(10), cfg.Database.MaxConns)
	assert.True(t, cfg.Firebase.Enabled)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Run("duration", func(t *testing.T) {
		t.Setenv("MATCH_CACHE_TTL", "soon")
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "MATCH_CACHE_TTL")
	})

	t.Run("driver", func(t *testing.T) {
		t.Setenv("STORE_DRIVER", "mysql")
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "STORE_DRIVER")
	})

	t.Run("default secret in production", func(t *testing.T) {
		t.Setenv("ENV", "production")
		t.Setenv("JWT_SECRET", "change-me-in-production")
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "JWT_SECRET")
	})
}

func TestNewLogger(t *testing.T) {
	cfg := &Config{Log: LogConfig{Level: "warn"}}
	logger, err := cfg.NewLogger()
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))

	cfg.Log.Level = "loud"
	_, err = cfg.NewLogger()
	assert.Error(t, err)
}
