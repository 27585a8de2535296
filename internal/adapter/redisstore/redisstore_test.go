package redisstore_test

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/niksmo/storefront/internal/adapter/redisstore"
	"github.com/niksmo/storefront/internal/core/port"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStore(t *testing.T, opts ...redisstore.Opt) (*redisstore.Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s := redisstore.New(client, opts...)
	t.Cleanup(func() { _ = s.Close() })
	return s, mr
}

func TestStore(t *testing.T) {
	s, mr := setupStore(t, redisstore.PrefixOpt("test:"), redisstore.TTLOpt(time.Hour))
	ctx := t.Context()

	_, err := s.Load(ctx, "s1:cart")
	assert.ErrorIs(t, err, port.ErrNotFound)

	require.NoError(t, s.Save(ctx, "s1:cart", []byte(`[{"quantity":1}]`)))
	assert.True(t, mr.Exists("test:s1:cart"))
	assert.Equal(t, time.Hour, mr.TTL("test:s1:cart"))

	data, err := s.Load(ctx, "s1:cart")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"quantity":1}]`, string(data))

	require.NoError(t, s.Delete(ctx, "s1:cart"))
	_, err = s.Load(ctx, "s1:cart")
	assert.ErrorIs(t, err, port.ErrNotFound)

	require.NoError(t, s.Delete(ctx, "missing"))
}

func TestStoreExpiry(t *testing.T) {
	s, mr := setupStore(t, redisstore.TTLOpt(time.Minute))
	ctx := t.Context()

	require.NoError(t, s.Save(ctx, "s1:user", []byte(`{}`)))
	mr.FastForward(2 * time.Minute)

	_, err := s.Load(ctx, "s1:user")
	assert.ErrorIs(t, err, port.ErrNotFound)
}

func TestStoreUnavailable(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	s := redisstore.New(client)
	t.Cleanup(func() { _ = s.Close() })

	err := s.Save(t.Context(), "s1:cart", []byte(`[]`))
	require.Error(t, err)
	assert.NotErrorIs(t, err, port.ErrNotFound)
}
