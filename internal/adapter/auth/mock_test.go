package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/niksmo/storefront/internal/adapter/auth"
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockProviderAuthenticate(t *testing.T) {
	p := auth.NewMockProvider(auth.LatencyOpt(0))

	u, err := p.Authenticate(t.Context(), " Jean.Dupont@Example.fr ", "anything")
	require.NoError(t, err)
	assert.Equal(t, "jean.dupont@example.fr", u.Email)
	assert.Equal(t, "Jean Dupont", u.Name)
	assert.True(t, u.IsLoggedIn)
	require.Len(t, u.Addresses, 1)
	assert.Equal(t, "75001", u.Addresses[0].PostalCode)
	require.Len(t, u.PaymentMethods, 1)
	assert.Equal(t, "4242", u.PaymentMethods[0].Last4)

	again, err := p.Authenticate(t.Context(), "jean.dupont@example.fr", "other")
	require.NoError(t, err)
	assert.Equal(t, u.ID, again.ID)

	other, err := p.Authenticate(t.Context(), "marie@example.fr", "")
	require.NoError(t, err)
	assert.NotEqual(t, u.ID, other.ID)
	assert.Equal(t, "Marie", other.Name)
}

func TestMockProviderRegister(t *testing.T) {
	p := auth.NewMockProvider(auth.LatencyOpt(0))

	u, err := p.Register(t.Context(), domain.Registration{
		FirstName: "Marie",
		LastName:  "Curie",
		Email:     "Marie@Example.fr",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, "Marie Curie", u.Name)
	assert.Equal(t, "marie@example.fr", u.Email)
	assert.Empty(t, u.Addresses)
	assert.Empty(t, u.PaymentMethods)
}

func TestMockProviderLatency(t *testing.T) {
	p := auth.NewMockProvider(auth.LatencyOpt(time.Hour))

	ctx, cancel := context.WithTimeout(t.Context(), 10*time.Millisecond)
	defer cancel()

	_, err := p.Authenticate(ctx, "jean@example.fr", "")
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	_, err = p.Register(ctx, domain.Registration{})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
