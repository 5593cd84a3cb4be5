package main

import (
	"context"
	"fmt"

	"go-chi-calculator/internal/calculator"
	"go-chi-calculator/internal/config"
	"go-chi-calculator/internal/observability"
	"go-chi-calculator/internal/session"

	"go.uber.org/zap"
)

// initMetrics initialises all metric providers and application-specific
// metric instruments. Add new domain InitMetrics calls here as the project grows.
func initMetrics(ctx context.Context) (func(context.Context) error, error) {
	shutdown, err := observability.InitMetrics(ctx)
	if err != nil {
		return nil, err
	}

	if err := calculator.InitMetrics(); err != nil {
		return nil, err
	}

	return shutdown, nil
}

// initStore picks the session store: Redis when REDIS_ADDR is set,
// otherwise an in-process map. The returned func releases it.
func initStore(ctx context.Context, cfg config.Config) (session.Store, func() error, error) {
	if !cfg.UseRedis() {
		observability.Logger.Info("using in-memory session store")
		return session.NewMemoryStore(), func() error { return nil }, nil
	}

	store := session.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB,
		session.WithTTL(cfg.SessionTTL),
		session.WithPrefix(cfg.SessionPrefix),
	)

	if err := store.Ping(ctx); err != nil {
		_ = store.Close()
		return nil, nil, fmt.Errorf("connect redis %s: %w", cfg.RedisAddr, err)
	}

	observability.Logger.Info("using redis session store",
		zap.String("addr", cfg.RedisAddr),
		zap.Int("db", cfg.RedisDB),
		zap.Duration("ttl", cfg.SessionTTL),
	)

	return store, store.Close, nil
}
