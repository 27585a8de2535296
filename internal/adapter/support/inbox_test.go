package support_test

import (
	"context"
	"testing"
	"time"

	"github.com/niksmo/storefront/internal/adapter/support"
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockInboxSubmit(t *testing.T) {
	at := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	i := support.NewMockInbox(support.LatencyOpt(0), support.NowOpt(func() time.Time { return at }))

	m := domain.ContactMessage{
		Name:    "Jean Dupont",
		Email:   "jean@example.fr",
		Subject: domain.SubjectReturn,
		Message: "Je souhaite retourner ma veste.",
	}
	r, err := i.SubmitContact(t.Context(), m)
	require.NoError(t, err)
	assert.Len(t, r.ID, 36)
	assert.Equal(t, at, r.ReceivedAt)

	other, err := i.SubmitContact(t.Context(), m)
	require.NoError(t, err)
	assert.NotEqual(t, r.ID, other.ID)

	assert.Equal(t, []domain.ContactMessage{m, m}, i.Messages())
}

func TestMockInboxLatency(t *testing.T) {
	i := support.NewMockInbox(support.LatencyOpt(time.Hour))

	ctx, cancel := context.WithTimeout(t.Context(), 10*time.Millisecond)
	defer cancel()

	_, err := i.SubmitContact(ctx, domain.ContactMessage{})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Empty(t, i.Messages())
}
