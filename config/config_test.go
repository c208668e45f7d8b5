package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/padel?sslmode=disable")
	t.Setenv("JWT_SECRET_KEY", "test-secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, 15*time.Second, cfg.CacheTTL)
	assert.Equal(t, time.Minute, cfg.SweepInterval)
	assert.Empty(t, cfg.RedisURL)
	assert.False(t, cfg.R2Enabled())
}

func TestLoadRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET_KEY", "test-secret")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsBadPort(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/padel")
	t.Setenv("JWT_SECRET_KEY", "test-secret")
	t.Setenv("SERVER_PORT", "70000")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadParsesDurations(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/padel")
	t.Setenv("JWT_SECRET_KEY", "test-secret")
	t.Setenv("CACHE_TTL", "30s")
	t.Setenv("SWEEP_INTERVAL", "5m")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, cfg.CacheTTL)
	assert.Equal(t, 5*time.Minute, cfg.SweepInterval)
}

func TestR2Enabled(t *testing.T) {
	cfg := &Config{
		R2AccountID:       "acc",
		R2AccessKeyID:     "key",
		R2SecretAccessKey: "secret",
		R2BucketName:      "bucket",
		R2PublicBaseURL:   "https://cdn.example.com",
	}
	assert.True(t, cfg.R2Enabled())

	cfg.R2BucketName = ""
	assert.False(t, cfg.R2Enabled())
}
