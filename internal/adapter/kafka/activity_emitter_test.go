package kafka

import (
	"testing"
	"time"

	"github.com/lovoo/goka"
	"github.com/lovoo/goka/tester"
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActivityCodec(t *testing.T) {
	var c activityCodec

	_, err := c.Encode("not an activity")
	assert.ErrorIs(t, err, ErrInvalidValueType)

	a := domain.Activity{
		SessionID: "s1",
		Kind:      domain.ActivityCartAdd,
		ProductID: "7",
		Quantity:  2,
		At:        time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC),
	}
	data, err := c.Encode(a)
	require.NoError(t, err)

	decoded, err := c.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, a, decoded)

	_, err = c.Decode([]byte("{"))
	assert.Error(t, err)
}

func TestActivityEmitter(t *testing.T) {
	const topic = "storefront-activity"
	gkt := tester.New(t)
	tracker := gkt.NewQueueTracker(topic)

	e, err := NewActivityEmitter(ActivityEmitterConfig{
		Topic: topic,
		Opts:  []goka.EmitterOption{goka.WithEmitterTester(gkt)},
	})
	require.NoError(t, err)
	t.Cleanup(e.Close)

	a := domain.Activity{SessionID: "s1", Kind: domain.ActivityWishlistAdd, ProductID: "3"}
	require.NoError(t, e.EmitActivity(t.Context(), a))

	key, value, ok := tracker.Next()
	require.True(t, ok)
	assert.Equal(t, "s1", key)
	assert.Equal(t, a, value)

	t.Run("NoSession", func(t *testing.T) {
		err := e.EmitActivity(t.Context(), domain.Activity{Kind: domain.ActivityLogin})
		assert.Error(t, err)
	})

	t.Run("Listener", func(t *testing.T) {
		e.Listener()(domain.Activity{SessionID: "s2", Kind: domain.ActivityLogout})

		key, _, ok := tracker.Next()
		require.True(t, ok)
		assert.Equal(t, "s2", key)
	})
}

func TestNewActivityEmitterNoTopic(t *testing.T) {
	_, err := NewActivityEmitter(ActivityEmitterConfig{})
	assert.Error(t, err)
}
