package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromEnvDefaults(t *testing.T) {
	for _, key := range []string{
		"APP_ENV", "DB_PATH", "DB_DRIVER", "REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB",
		"CACHE_TTL", "GRPC_PORT", "GRPC_REFLECTION_ENABLED", "GRPC_LOGGING_ENABLED",
	} {
		t.Setenv(key, "")
	}

	cfg := LoadFromEnv()

	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, "sqlite3", cfg.DBDriver)
	assert.Equal(t, "./data/checklists.db", cfg.DBPath)
	assert.Equal(t, 50051, cfg.GRPCPort)
	assert.Equal(t, 2*time.Minute, cfg.CacheTTL)
	assert.False(t, cfg.GRPCReflectionEnabled)
	assert.True(t, cfg.GRPCLoggingEnabled)
	assert.False(t, cfg.CacheEnabled())
}

func TestLoadFromEnvOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("DB_PATH", "/tmp/x.db")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("REDIS_PASSWORD", "secret")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("CACHE_TTL", "45s")
	t.Setenv("GRPC_PORT", "6000")
	t.Setenv("GRPC_REFLECTION_ENABLED", "true")
	t.Setenv("GRPC_LOGGING_ENABLED", "false")

	cfg := LoadFromEnv()

	assert.Equal(t, "production", cfg.AppEnv)
	assert.Equal(t, "/tmp/x.db", cfg.DBPath)
	assert.Equal(t, "redis:6379", cfg.RedisAddr)
	assert.Equal(t, "secret", cfg.RedisPassword)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, 45*time.Second, cfg.CacheTTL)
	assert.Equal(t, 6000, cfg.GRPCPort)
	assert.True(t, cfg.GRPCReflectionEnabled)
	assert.False(t, cfg.GRPCLoggingEnabled)
	assert.True(t, cfg.CacheEnabled())
}

func TestLoadFromEnvMalformedValues(t *testing.T) {
	t.Setenv("GRPC_PORT", "not-a-port")
	t.Setenv("REDIS_DB", "x")
	t.Setenv("GRPC_REFLECTION_ENABLED", "maybe")
	t.Setenv("CACHE_TTL", "-5s")

	cfg := LoadFromEnv()

	assert.Equal(t, 50051, cfg.GRPCPort)
	assert.Equal(t, 0, cfg.RedisDB)
	assert.False(t, cfg.GRPCReflectionEnabled)
	assert.Equal(t, 2*time.Minute, cfg.CacheTTL)
}

func TestCacheTTLSeconds(t *testing.T) {
	t.Setenv("CACHE_TTL", "90")
	assert.Equal(t, 90*time.Second, LoadFromEnv().CacheTTL)
}

func TestNewLogger(t *testing.T) {
	for _, env := range []string{"production", "development"} {
		logger, err := NewLogger(&Config{AppEnv: env})
		require.NoError(t, err)
		assert.NotNil(t, logger)
	}
}
