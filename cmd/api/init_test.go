package main

import (
	"context"
	"testing"

	"go-chi-calculator/internal/config"
	"go-chi-calculator/internal/engine"
	"go-chi-calculator/internal/observability"
	"go-chi-calculator/internal/session"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestInitStoreDefaultsToMemory(t *testing.T) {
	observability.Logger = zap.NewNop()

	store, closeStore, err := initStore(context.Background(), config.Default())
	require.NoError(t, err)
	t.Cleanup(func() { _ = closeStore() })

	assert.IsType(t, &session.MemoryStore{}, store)
}

func TestInitStoreUsesRedis(t *testing.T) {
	observability.Logger = zap.NewNop()
	mr := miniredis.RunT(t)

	cfg := config.Default()
	cfg.RedisAddr = mr.Addr()
	cfg.SessionPrefix = "test:"

	store, closeStore, err := initStore(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = closeStore() })

	require.IsType(t, &session.RedisStore{}, store)
	require.NoError(t, store.Save(context.Background(), "abc", engine.DefaultState()))
	assert.True(t, mr.Exists("test:abc"))
}

func TestInitStoreRedisUnreachable(t *testing.T) {
	observability.Logger = zap.NewNop()
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	cfg := config.Default()
	cfg.RedisAddr = addr

	_, _, err := initStore(context.Background(), cfg)
	assert.Error(t, err)
}
