package config_test

import (
	"testing"
	"time"

	"go-madrasah/internal/config"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()

	assert.NoError(t, err)
	assert.Equal(t, "3000", cfg.HTTP.Port)
	assert.Equal(t, config.CacheBackendMemory, cfg.Cache.Backend)
	assert.Equal(t, 5*time.Minute, cfg.Cache.RuleTTL)
	assert.Equal(t, 256, cfg.Notification.QueueSize)
	assert.Equal(t, 40, cfg.HTTP.Burst)
	assert.Equal(t, 10*time.Second, cfg.HTTP.ShutdownTimeout)
	assert.Equal(t, "@every 1m", cfg.Cache.SweepEvery)
	assert.Contains(t, cfg.DB.DSN(), "dbname=madrasah")
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("CACHE_BACKEND", "REDIS")
	t.Setenv("NOTIFICATION_WORKERS", "4")
	t.Setenv("CACHE_RULE_TTL", "30s")

	cfg, err := config.Load()

	assert.NoError(t, err)
	assert.Equal(t, "8080", cfg.HTTP.Port)
	assert.Equal(t, config.CacheBackendRedis, cfg.Cache.Backend)
	assert.Equal(t, 4, cfg.Notification.Workers)
	assert.Equal(t, 30*time.Second, cfg.Cache.RuleTTL)
}

func TestLoad_Invalid(t *testing.T) {
	t.Run("unknown cache backend", func(t *testing.T) {
		t.Setenv("CACHE_BACKEND", "memcached")
		_, err := config.Load()
		assert.Error(t, err)
	})

	t.Run("production requires jwt secret", func(t *testing.T) {
		t.Setenv("APP_ENV", "production")
		t.Setenv("JWT_SECRET", "")
		_, err := config.Load()
		assert.Error(t, err)
	})
}
