package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CAMPAIGN_API_AUTH_ENABLED", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "development", cfg.Server.Env)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "memory", cfg.Cache.Backend)
	assert.False(t, cfg.ClickHouse.Enabled)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("CAMPAIGN_API_AUTH_ENABLED", "false")
	t.Setenv("CAMPAIGN_API_HTTP_ADDR", ":9999")
	t.Setenv("CAMPAIGN_API_DB_PORT", "5433")
	t.Setenv("CAMPAIGN_API_CACHE_BACKEND", "redis")
	t.Setenv("CAMPAIGN_API_CACHE_TTL", "15m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9999", cfg.Server.Addr)
	assert.Equal(t, 5433, cfg.Database.Port)
	assert.Equal(t, "redis", cfg.Cache.Backend)
	assert.Equal(t, 15*time.Minute, cfg.Cache.TTL)
}

func TestLoadRequiresMasterKeyWhenAuthEnabled(t *testing.T) {
	t.Setenv("CAMPAIGN_API_AUTH_ENABLED", "true")
	t.Setenv("CAMPAIGN_API_KEY_MASTER", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsUnknownCacheBackend(t *testing.T) {
	t.Setenv("CAMPAIGN_API_AUTH_ENABLED", "false")
	t.Setenv("CAMPAIGN_API_CACHE_BACKEND", "memcached")

	_, err := Load()
	assert.Error(t, err)
}

func TestDSN(t *testing.T) {
	d := DatabaseConfig{
		Host: "db", Port: 5432, User: "u", Password: "p", DBName: "campaigns", SSLMode: "disable",
	}
	assert.Equal(t, "postgres://u:p@db:5432/campaigns?sslmode=disable", d.DSN())
}
