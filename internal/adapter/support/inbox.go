// Package support provides the storefront's mock support inbox. Messages
// are logged and kept in memory; nothing is mailed.
package support

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

var _ port.ContactInbox = (*MockInbox)(nil)

const defaultLatency = 1500 * time.Millisecond

type MockInboxOpt func(*MockInbox)

func LatencyOpt(d time.Duration) MockInboxOpt {
	return func(i *MockInbox) {
		i.latency = d
	}
}

func NowOpt(now func() time.Time) MockInboxOpt {
	return func(i *MockInbox) {
		i.now = now
	}
}

type MockInbox struct {
	mu       sync.Mutex
	messages []domain.ContactMessage
	latency  time.Duration
	now      func() time.Time
}

func NewMockInbox(opts ...MockInboxOpt) *MockInbox {
	i := &MockInbox{latency: defaultLatency, now: time.Now}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

func (i *MockInbox) SubmitContact(
	ctx context.Context, m domain.ContactMessage,
) (domain.ContactReceipt, error) {
	const op = "MockInbox.SubmitContact"

	if err := i.wait(ctx); err != nil {
		return domain.ContactReceipt{}, fmt.Errorf("%s: %w", op, err)
	}

	receipt := domain.ContactReceipt{ID: uuid.NewString(), ReceivedAt: i.now()}

	i.mu.Lock()
	i.messages = append(i.messages, m)
	i.mu.Unlock()

	slog.Info(
		"contact message received",
		"op", op, "id", receipt.ID, "subject", m.Subject, "email", m.Email,
	)
	return receipt, nil
}

// Messages returns the messages taken so far, oldest first.
func (i *MockInbox) Messages() []domain.ContactMessage {
	i.mu.Lock()
	defer i.mu.Unlock()
	return append([]domain.ContactMessage(nil), i.messages...)
}

func (i *MockInbox) wait(ctx context.Context) error {
	if i.latency <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(i.latency)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
