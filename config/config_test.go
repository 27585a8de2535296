package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFile(t *testing.T) {
	t.Run("Full", func(t *testing.T) {
		cfg, err := LoadFile("testdata/full.yaml")
		require.NoError(t, err)

		assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
		assert.Equal(t, 3*time.Second, cfg.RequestTimeout)
		assert.Equal(t, CatalogSQL, cfg.Catalog.Source)
		assert.Equal(t, StateRedis, cfg.State.Backend)
		assert.Equal(t, 2, cfg.State.RedisDB)
		assert.Equal(t, 24*time.Hour, cfg.State.RedisTTL)
		assert.Equal(t, 500, cfg.State.SessionsMax)
		assert.Equal(t, 10*time.Minute, cfg.State.SessionIdleTTL)
		assert.Equal(t, 10*time.Millisecond, cfg.Auth.Latency)
		assert.Zero(t, cfg.Contact.Latency)
		assert.Equal(t, 150.0, cfg.Pricing.FreeShippingThreshold)
		assert.Equal(t, "subtotal", cfg.Pricing.TaxBasis)
		assert.Equal(t, []string{"localhost:19092", "localhost:29092"}, cfg.Broker.SeedBrokers)
		assert.True(t, cfg.Broker.Enabled())
		assert.False(t, cfg.Broker.TLSEnabled())
		assert.Equal(t, "popularity", cfg.Broker.PopularityGroup)
	})

	t.Run("Defaults", func(t *testing.T) {
		cfg, err := LoadFile("testdata/minimal.yaml")
		require.NoError(t, err)

		assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
		assert.Equal(t, ":8081", cfg.HTTPServerAddr)
		assert.Equal(t, CatalogMemory, cfg.Catalog.Source)
		assert.Equal(t, StateBadger, cfg.State.Backend)
		assert.True(t, cfg.State.BadgerInMemory)
		assert.Equal(t, 10000, cfg.State.SessionsMax)
		assert.Equal(t, 30*time.Minute, cfg.State.SessionIdleTTL)
		assert.Equal(t, 1500*time.Millisecond, cfg.Contact.Latency)
		assert.Equal(t, 5.99, cfg.Pricing.ShippingFee)
		assert.Equal(t, "after_discount", cfg.Pricing.TaxBasis)
		assert.Equal(t, 12, cfg.Pricing.ItemsPerPage)
		assert.Equal(t, "storefront-orders", cfg.Broker.Topics.Orders)
		assert.False(t, cfg.Broker.Enabled())
	})

	t.Run("UnknownKey", func(t *testing.T) {
		_, err := LoadFile("testdata/unknown_key.yaml")
		assert.Error(t, err)
	})

	t.Run("Invalid", func(t *testing.T) {
		_, err := LoadFile("testdata/invalid.yaml")
		require.Error(t, err)
		assert.ErrorContains(t, err, "catalog.sql_db")
		assert.ErrorContains(t, err, "state.redis_addr")
		assert.ErrorContains(t, err, "state.sessions_max")
		assert.ErrorContains(t, err, "broker.schema_registry_urls")
	})

	t.Run("Missing", func(t *testing.T) {
		_, err := LoadFile("testdata/missing.yaml")
		assert.Error(t, err)
	})
}
