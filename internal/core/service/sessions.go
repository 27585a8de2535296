package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
	"github.com/niksmo/storefront/internal/core/shop"
	"golang.org/x/sync/singleflight"
)

const (
	defaultSessionsMax    = 10000
	defaultSessionIdleTTL = 30 * time.Minute
)

type SessionsOpt func(*Sessions)

// ActivityListenerOpt subscribes fn to the activity of every session the
// registry opens.
func ActivityListenerOpt(fn func(domain.Activity)) SessionsOpt {
	return func(s *Sessions) {
		s.listeners = append(s.listeners, fn)
	}
}

func StoreOpts(opts ...shop.Opt) SessionsOpt {
	return func(s *Sessions) {
		s.storeOpts = append(s.storeOpts, opts...)
	}
}

// CacheOpt bounds the open stores: at most size sessions, each dropped after
// idle without access. Non-positive values keep the defaults.
func CacheOpt(size int, idle time.Duration) SessionsOpt {
	return func(s *Sessions) {
		if size > 0 {
			s.maxStores = size
		}
		if idle > 0 {
			s.idleTTL = idle
		}
	}
}

// Sessions keeps the stores of recently active sessions. A store dropped
// from the registry is rebuilt from storage on the next access.
type Sessions struct {
	storage   port.StateStorage
	auth      port.AuthProvider
	listeners []func(domain.Activity)
	storeOpts []shop.Opt
	maxStores int
	idleTTL   time.Duration

	stores *expirable.LRU[string, *shop.Store]
	sfg    singleflight.Group
}

func NewSessions(
	storage port.StateStorage, auth port.AuthProvider, opts ...SessionsOpt,
) *Sessions {
	s := &Sessions{
		storage:   storage,
		auth:      auth,
		maxStores: defaultSessionsMax,
		idleTTL:   defaultSessionIdleTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.stores = expirable.NewLRU(s.maxStores, onEvict, s.idleTTL)
	return s
}

func onEvict(sessionID string, _ *shop.Store) {
	slog.Debug("session store released", "session", sessionID)
}

// Get returns the store of the session and keeps it open. The first access
// hydrates it from storage; concurrent first accesses share a single
// hydration.
func (s *Sessions) Get(ctx context.Context, sessionID string) (*shop.Store, error) {
	const op = "Sessions.Get"

	if sessionID == "" {
		return nil, fmt.Errorf("%s: empty session id", op)
	}

	if store, ok := s.stores.Get(sessionID); ok {
		s.stores.Add(sessionID, store)
		return store, nil
	}

	v, err, _ := s.sfg.Do(sessionID, func() (any, error) {
		if store, ok := s.stores.Get(sessionID); ok {
			return store, nil
		}

		store := s.open(ctx, sessionID)
		for _, fn := range s.listeners {
			store.OnActivity(fn)
		}
		s.stores.Add(sessionID, store)
		return store, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return v.(*shop.Store), nil
}

// View returns the state of the session without keeping a store open for
// it. An open store is read directly; otherwise the state is read from
// storage.
func (s *Sessions) View(ctx context.Context, sessionID string) (shop.State, error) {
	const op = "Sessions.View"

	if sessionID == "" {
		return shop.State{}, fmt.Errorf("%s: empty session id", op)
	}

	if store, ok := s.stores.Get(sessionID); ok {
		return store.Snapshot(), nil
	}
	return s.open(ctx, sessionID).Snapshot(), nil
}

func (s *Sessions) open(ctx context.Context, sessionID string) *shop.Store {
	store := shop.NewStore(sessionID, s.storage, s.auth, s.storeOpts...)
	store.Hydrate(context.WithoutCancel(ctx))
	return store
}

func (s *Sessions) Len() int {
	return s.stores.Len()
}
