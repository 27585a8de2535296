// Package redisstore mirrors session state into Redis.
package redisstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/niksmo/storefront/internal/core/port"
	"github.com/redis/go-redis/v9"
)

var _ port.StateStorage = (*Store)(nil)

const (
	defaultPrefix = "storefront:"
	defaultTTL    = 30 * 24 * time.Hour
)

type Opt func(*Store)

func PrefixOpt(prefix string) Opt {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// TTLOpt sets the expiry refreshed on every save. Zero keeps keys forever.
func TTLOpt(ttl time.Duration) Opt {
	return func(s *Store) {
		s.ttl = ttl
	}
}

type Store struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func New(client *redis.Client, opts ...Opt) *Store {
	s := &Store{client: client, prefix: defaultPrefix, ttl: defaultTTL}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Save(ctx context.Context, key string, value []byte) error {
	const op = "redisstore.Save"

	if err := s.client.Set(ctx, s.prefix+key, value, s.ttl).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Store) Load(ctx context.Context, key string) ([]byte, error) {
	const op = "redisstore.Load"

	data, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%s: %w", op, port.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return data, nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	const op = "redisstore.Delete"

	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.client.Close()
}
