package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvironDefaults(t *testing.T) {
	cfg, err := FromEnviron([]string{"PATH=/usr/bin", "HOME="})
	require.NoError(t, err)

	assert.Equal(t, Default(), cfg)
	assert.False(t, cfg.UseRedis())
}

func TestFromEnvironOverrides(t *testing.T) {
	cfg, err := FromEnviron([]string{
		"HTTP_ADDR=:9090",
		"SHUTDOWN_TIMEOUT=10s",
		"REDIS_ADDR=localhost:6379",
		"REDIS_DB=3",
		"SESSION_TTL=90m",
		"CALC_DISPLAY_WIDTH=12",
		"CALC_PREVIEW_WIDTH=30",
		"OTEL_LOGS_ENABLED=true",
	})
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, 90*time.Minute, cfg.SessionTTL)
	assert.Equal(t, 12, cfg.DisplayWidth)
	assert.Equal(t, 30, cfg.PreviewWidth)
	assert.True(t, cfg.OTelLogsEnabled)
	assert.True(t, cfg.UseRedis())
}

func TestFromEnvironInvalid(t *testing.T) {
	tests := map[string][]string{
		"bad duration": {"SESSION_TTL=soon"},
		"bad int":      {"REDIS_DB=three"},
		"zero width":   {"CALC_DISPLAY_WIDTH=0"},
		"negative ttl": {"SESSION_TTL=-1h"},
	}

	for name, environ := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := FromEnviron(environ)
			assert.Error(t, err)
		})
	}
}
