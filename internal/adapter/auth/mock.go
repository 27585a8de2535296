// Package auth provides the storefront's mock authentication. It never
// checks credentials: any email signs in and gets a user fabricated from
// it. Swap it for a real port.AuthProvider to authenticate for real.
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

var _ port.AuthProvider = (*MockProvider)(nil)

const defaultLatency = time.Second

type MockProviderOpt func(*MockProvider)

func LatencyOpt(d time.Duration) MockProviderOpt {
	return func(p *MockProvider) {
		p.latency = d
	}
}

type MockProvider struct {
	latency time.Duration
}

func NewMockProvider(opts ...MockProviderOpt) *MockProvider {
	p := &MockProvider{latency: defaultLatency}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Authenticate signs in any email. The user ID is derived from the email
// so the same shopper gets the same ID across sessions.
func (p *MockProvider) Authenticate(
	ctx context.Context, email, _ string,
) (domain.User, error) {
	const op = "MockProvider.Authenticate"

	if err := p.wait(ctx); err != nil {
		return domain.User{}, fmt.Errorf("%s: %w", op, err)
	}

	email = strings.TrimSpace(strings.ToLower(email))
	user := domain.User{
		ID:         uuid.NewSHA1(uuid.NameSpaceURL, []byte("mailto:"+email)).String(),
		Name:       nameFromEmail(email),
		Email:      email,
		IsLoggedIn: true,
		Addresses: []domain.Address{
			{
				ID:         "1",
				Street:     "123 Rue de la République",
				City:       "Paris",
				PostalCode: "75001",
				Country:    "France",
				IsDefault:  true,
			},
		},
		PaymentMethods: []domain.PaymentMethod{
			{
				ID:          "1",
				Type:        domain.PaymentMethodCard,
				Last4:       "4242",
				Brand:       "Visa",
				ExpiryMonth: 12,
				ExpiryYear:  2025,
				IsDefault:   true,
			},
		},
	}

	slog.Debug("mock user signed in", "op", op, "user", user.ID)
	return user, nil
}

func (p *MockProvider) Register(
	ctx context.Context, r domain.Registration,
) (domain.User, error) {
	const op = "MockProvider.Register"

	if err := p.wait(ctx); err != nil {
		return domain.User{}, fmt.Errorf("%s: %w", op, err)
	}

	user := domain.User{
		ID:             uuid.NewString(),
		Name:           strings.TrimSpace(r.FirstName) + " " + strings.TrimSpace(r.LastName),
		Email:          strings.TrimSpace(strings.ToLower(r.Email)),
		Avatar:         r.Avatar,
		IsLoggedIn:     true,
		Addresses:      []domain.Address{},
		PaymentMethods: []domain.PaymentMethod{},
	}

	slog.Debug("mock user registered", "op", op, "user", user.ID)
	return user, nil
}

func (p *MockProvider) wait(ctx context.Context) error {
	if p.latency <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(p.latency)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// nameFromEmail turns "jean.dupont@x" into "Jean Dupont".
func nameFromEmail(email string) string {
	local, _, _ := strings.Cut(email, "@")
	parts := strings.FieldsFunc(local, func(r rune) bool {
		return r == '.' || r == '_' || r == '-' || r == '+'
	})
	for i, part := range parts {
		runes := []rune(part)
		runes[0] = unicode.ToUpper(runes[0])
		parts[i] = string(runes)
	}
	if len(parts) == 0 {
		return "Utilisateur"
	}
	return strings.Join(parts, " ")
}
