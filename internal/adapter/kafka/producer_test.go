package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/pkg/retry"
	"github.com/niksmo/storefront/pkg/schema"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"
)

type MockProducerClient struct {
	mock.Mock
}

func (c *MockProducerClient) ProduceSync(
	ctx context.Context, rs ...*kgo.Record,
) kgo.ProduceResults {
	args := c.Called(ctx, rs)
	err := args.Error(0)
	results := make(kgo.ProduceResults, len(rs))
	for i, r := range rs {
		results[i] = kgo.ProduceResult{Record: r, Err: err}
	}
	return results
}

func (c *MockProducerClient) Close() {
	c.Called()
}

type jsonEncoder struct{}

func (jsonEncoder) Encode(v any) ([]byte, error) {
	return json.Marshal(v)
}

func clientOpt(cl ProducerClient) ProducerOpt {
	return func(opts *producerOpts) error {
		opts.cl = cl
		return nil
	}
}

func fastRetryOpt(attempts int) ProducerOpt {
	return ProducerRetryOpt(retry.RetryConfig{
		MaxAttempts: attempts,
		Backoff:     retry.LinearBackoff(time.Millisecond),
		ShouldRetry: shouldRetryProduce,
	})
}

func sampleOrder() domain.Order {
	return domain.Order{
		ID:        "CMD-1767225600000-4F3A9C1B",
		SessionID: "s1",
		Items: []domain.OrderItem{
			{ProductID: "7", ProductName: "Robe", Quantity: 1, Price: decimal.RequireFromString("89.99")},
		},
		Totals: domain.OrderTotals{
			Subtotal:  decimal.RequireFromString("89.99"),
			Shipping:  decimal.RequireFromString("5.99"),
			Tax:       decimal.RequireFromString("15.3"),
			Discount:  decimal.RequireFromString("13.5"),
			Total:     decimal.RequireFromString("97.78"),
			PromoCode: "SAVE15",
		},
		PaymentMethod: domain.CheckoutCard,
		PaymentStatus: domain.PaymentPaid,
		OrderStatus:   domain.OrderProcessing,
		CreatedAt:     time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestNewOrdersProducer(t *testing.T) {
	t.Run("NoOpts", func(t *testing.T) {
		_, err := NewOrdersProducer()
		assert.ErrorIs(t, err, ErrTooFewOpts)
	})

	t.Run("NilEncoder", func(t *testing.T) {
		_, err := NewOrdersProducer(
			clientOpt(new(MockProducerClient)),
			ProducerEncoderOpt(nil),
		)
		require.Error(t, err)
	})
}

func TestOrdersProducer(t *testing.T) {
	t.Run("Published", func(t *testing.T) {
		cl := new(MockProducerClient)
		cl.On("ProduceSync", mock.Anything, mock.Anything).Return(nil).Once()

		p, err := NewOrdersProducer(clientOpt(cl), ProducerEncoderOpt(jsonEncoder{}))
		require.NoError(t, err)

		o := sampleOrder()
		require.NoError(t, p.PublishOrder(t.Context(), o))
		cl.AssertExpectations(t)

		rs := cl.Calls[0].Arguments.Get(1).([]*kgo.Record)
		require.Len(t, rs, 1)
		assert.Equal(t, o.ID, string(rs[0].Key))

		var s schema.OrderPlacedV1
		require.NoError(t, json.Unmarshal(rs[0].Value, &s))
		assert.Equal(t, "15.30", s.Totals.Tax)
		assert.Equal(t, "13.50", s.Totals.Discount)
		assert.Equal(t, "89.99", s.Items[0].Price)
		assert.Equal(t, "paid", s.PaymentStatus)
	})

	t.Run("RetriesRetriable", func(t *testing.T) {
		cl := new(MockProducerClient)
		cl.On("ProduceSync", mock.Anything, mock.Anything).
			Return(kerr.NotLeaderForPartition).Once()
		cl.On("ProduceSync", mock.Anything, mock.Anything).Return(nil).Once()

		p, err := NewOrdersProducer(
			clientOpt(cl), ProducerEncoderOpt(jsonEncoder{}), fastRetryOpt(3),
		)
		require.NoError(t, err)

		require.NoError(t, p.PublishOrder(t.Context(), sampleOrder()))
		cl.AssertNumberOfCalls(t, "ProduceSync", 2)
	})

	t.Run("NonRetriable", func(t *testing.T) {
		cl := new(MockProducerClient)
		cl.On("ProduceSync", mock.Anything, mock.Anything).
			Return(kerr.MessageTooLarge)

		p, err := NewOrdersProducer(
			clientOpt(cl), ProducerEncoderOpt(jsonEncoder{}), fastRetryOpt(3),
		)
		require.NoError(t, err)

		err = p.PublishOrder(t.Context(), sampleOrder())
		assert.ErrorIs(t, err, kerr.MessageTooLarge)
		cl.AssertNumberOfCalls(t, "ProduceSync", 1)
	})

	t.Run("Exhausted", func(t *testing.T) {
		brokerDown := errors.New("broker down")
		cl := new(MockProducerClient)
		cl.On("ProduceSync", mock.Anything, mock.Anything).Return(brokerDown)

		p, err := NewOrdersProducer(
			clientOpt(cl), ProducerEncoderOpt(jsonEncoder{}), fastRetryOpt(2),
		)
		require.NoError(t, err)

		err = p.PublishOrder(t.Context(), sampleOrder())
		assert.ErrorIs(t, err, brokerDown)
		cl.AssertNumberOfCalls(t, "ProduceSync", 2)
	})

	t.Run("CanceledContext", func(t *testing.T) {
		cl := new(MockProducerClient)
		p, err := NewOrdersProducer(clientOpt(cl), ProducerEncoderOpt(jsonEncoder{}))
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(t.Context())
		cancel()
		assert.ErrorIs(t, p.PublishOrder(ctx, sampleOrder()), context.Canceled)
		cl.AssertNotCalled(t, "ProduceSync", mock.Anything, mock.Anything)
	})

	t.Run("Close", func(t *testing.T) {
		cl := new(MockProducerClient)
		cl.On("Close").Once()
		p, err := NewOrdersProducer(clientOpt(cl), ProducerEncoderOpt(jsonEncoder{}))
		require.NoError(t, err)

		p.Close()
		cl.AssertExpectations(t)
	})
}
