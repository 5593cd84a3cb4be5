package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go-chi-calculator/internal/engine"

	backend "github.com/redis/go-redis/v9"
)

const defaultPrefix = "calculator:session:"

// RedisStore keeps each session as a JSON document under <prefix><id>.
type RedisStore struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*RedisStore)

// WithTTL expires sessions that have not been saved for ttl. Zero keeps
// them forever.
func WithTTL(ttl time.Duration) Option {
	return func(s *RedisStore) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix for sessions.
func WithPrefix(prefix string) Option {
	return func(s *RedisStore) {
		s.prefix = prefix
	}
}

func NewRedisStore(address, password string, db int, opts ...Option) *RedisStore {
	client := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewRedisStoreFromClient(client, opts...)
}

func NewRedisStoreFromClient(client *backend.Client, opts ...Option) *RedisStore {
	store := &RedisStore{
		client: client,
		prefix: defaultPrefix,
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

func (s *RedisStore) key(id string) string {
	return s.prefix + id
}

// Ping checks that the server is reachable.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) Load(ctx context.Context, id string) (engine.State, error) {
	val, err := s.client.Get(ctx, s.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return engine.State{}, ErrNotFound
		}
		return engine.State{}, fmt.Errorf("get session %s: %w", id, err)
	}

	var state engine.State
	if err := json.Unmarshal(val, &state); err != nil {
		return engine.State{}, fmt.Errorf("decode session %s: %w", id, err)
	}

	return state, nil
}

func (s *RedisStore) Save(ctx context.Context, id string, state engine.State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", id, err)
	}

	if err := s.client.Set(ctx, s.key(id), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("save session %s: %w", id, err)
	}

	return nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	n, err := s.client.Del(ctx, s.key(id)).Result()
	if err != nil {
		return fmt.Errorf("delete session %s: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
