package localstore_test

import (
	"context"
	"testing"

	"github.com/niksmo/storefront/internal/adapter/localstore"
	"github.com/niksmo/storefront/internal/core/port"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreInMemory(t *testing.T) {
	s, err := localstore.Open(localstore.Config{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	ctx := t.Context()

	_, err = s.Load(ctx, "s1:wishlist")
	assert.ErrorIs(t, err, port.ErrNotFound)

	require.NoError(t, s.Save(ctx, "s1:wishlist", []byte(`[]`)))
	require.NoError(t, s.Save(ctx, "s1:wishlist", []byte(`[{"product":{"id":"1"}}]`)))

	data, err := s.Load(ctx, "s1:wishlist")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"product":{"id":"1"}}]`, string(data))

	require.NoError(t, s.Delete(ctx, "s1:wishlist"))
	_, err = s.Load(ctx, "s1:wishlist")
	assert.ErrorIs(t, err, port.ErrNotFound)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	assert.ErrorIs(t, s.Save(cancelled, "k", nil), context.Canceled)
}

func TestStorePersistent(t *testing.T) {
	dir := t.TempDir()

	s, err := localstore.Open(localstore.Config{Path: dir})
	require.NoError(t, err)
	require.NoError(t, s.Save(t.Context(), "s1:user", []byte(`{"id":"u1"}`)))
	require.NoError(t, s.Close())

	reopened, err := localstore.Open(localstore.Config{Path: dir})
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })

	data, err := reopened.Load(t.Context(), "s1:user")
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"u1"}`, string(data))
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := localstore.Open(localstore.Config{})
	assert.Error(t, err)
}
