package shop_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
	"github.com/niksmo/storefront/internal/core/shop"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStorage struct {
	mu      sync.Mutex
	data    map[string][]byte
	saveErr error
}

func newMemStorage() *memStorage {
	return &memStorage{data: make(map[string][]byte)}
}

func (m *memStorage) Save(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.data[key] = value
	return nil
}

func (m *memStorage) Load(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, port.ErrNotFound
	}
	return v, nil
}

func (m *memStorage) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *memStorage) has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data[key]
	return ok
}

type syncAuth struct {
	err error
}

func (a syncAuth) Authenticate(_ context.Context, email, _ string) (domain.User, error) {
	if a.err != nil {
		return domain.User{}, a.err
	}
	return domain.User{ID: "u1", Name: "Jean", Email: email}, nil
}

func (a syncAuth) Register(_ context.Context, r domain.Registration) (domain.User, error) {
	if a.err != nil {
		return domain.User{}, a.err
	}
	return domain.User{ID: "u2", Name: r.FirstName + " " + r.LastName, Email: r.Email}, nil
}

var (
	phone  = domain.Product{ID: "1", Name: "iPhone", Price: 1229.99}
	shoes  = domain.Product{ID: "12", Name: "Nike Air", Price: 139.99}
	tshirt = domain.Product{ID: "4", Name: "T-shirt", Price: 19.99}
)

var fixedNow = time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)

func newStore(storage port.StateStorage, auth port.AuthProvider) *shop.Store {
	return shop.NewStore("s1", storage, auth, shop.NowOpt(func() time.Time { return fixedNow }))
}

func assertTotals(t *testing.T, st shop.State) {
	t.Helper()
	total := decimal.Zero
	count := 0
	for _, it := range st.Cart {
		total = total.Add(decimal.NewFromFloat(it.Product.Price).Mul(decimal.NewFromInt(int64(it.Quantity))))
		count += it.Quantity
		assert.Positive(t, it.Quantity)
	}
	assert.True(t, total.Equal(st.CartTotal), "total %s != %s", total, st.CartTotal)
	assert.Equal(t, count, st.CartItemsCount)
}

func TestStoreCart(t *testing.T) {
	ctx := t.Context()
	storage := newMemStorage()
	s := newStore(storage, syncAuth{})

	require.NoError(t, s.AddToCart(ctx, phone, 1, shop.Selection{}))
	require.NoError(t, s.AddToCart(ctx, shoes, 2, shop.Selection{Size: "42", Color: "Blanc"}))
	require.NoError(t, s.AddToCart(ctx, shoes, 1, shop.Selection{Size: "44"}))
	require.NoError(t, s.AddToCart(ctx, tshirt, 3, shop.Selection{}))

	st := s.Snapshot()
	require.Len(t, st.Cart, 3)
	assert.Equal(t, 3, st.Cart[1].Quantity)
	assert.Equal(t, "42", st.Cart[1].SelectedSize)
	assert.Equal(t, fixedNow, st.Cart[0].AddedAt)
	assert.Equal(t, 7, st.CartItemsCount)
	assert.Equal(t, "1709.93", st.CartTotal.StringFixed(2))
	assertTotals(t, st)

	require.NoError(t, s.UpdateCartItemQuantity(ctx, tshirt.ID, 1))
	assertTotals(t, s.Snapshot())

	require.NoError(t, s.RemoveFromCart(ctx, phone.ID))
	st = s.Snapshot()
	assert.Len(t, st.Cart, 2)
	assertTotals(t, st)

	assert.ErrorIs(t, s.RemoveFromCart(ctx, phone.ID), shop.ErrItemNotFound)
	assert.ErrorIs(t, s.UpdateCartItemQuantity(ctx, phone.ID, 2), shop.ErrItemNotFound)
	assert.ErrorIs(t, s.AddToCart(ctx, phone, 0, shop.Selection{}), domain.ErrInvalidQuantity)

	var persisted []domain.CartItem
	raw, err := storage.Load(ctx, "s1:cart")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &persisted))
	assert.Len(t, persisted, 2)

	s.ClearCart(ctx)
	st = s.Snapshot()
	assert.Empty(t, st.Cart)
	assert.True(t, st.CartTotal.IsZero())
	assert.Zero(t, st.CartItemsCount)
	assert.False(t, storage.has("s1:cart"))
}

func TestStoreUpdateToZeroRemoves(t *testing.T) {
	ctx := t.Context()

	updated := newStore(newMemStorage(), syncAuth{})
	removed := newStore(newMemStorage(), syncAuth{})
	for _, s := range []*shop.Store{updated, removed} {
		require.NoError(t, s.AddToCart(ctx, phone, 2, shop.Selection{}))
		require.NoError(t, s.AddToCart(ctx, tshirt, 1, shop.Selection{}))
	}

	require.NoError(t, updated.UpdateCartItemQuantity(ctx, phone.ID, 0))
	require.NoError(t, removed.RemoveFromCart(ctx, phone.ID))

	a, b := updated.Snapshot(), removed.Snapshot()
	assert.Equal(t, a.Cart, b.Cart)
	assert.True(t, a.CartTotal.Equal(b.CartTotal))
	assert.Equal(t, a.CartItemsCount, b.CartItemsCount)

	require.NoError(t, updated.UpdateCartItemQuantity(ctx, tshirt.ID, -3))
	assert.Empty(t, updated.Snapshot().Cart)
}

func TestStoreWishlist(t *testing.T) {
	ctx := t.Context()
	storage := newMemStorage()
	s := newStore(storage, syncAuth{})

	s.AddToWishlist(ctx, phone)
	s.AddToWishlist(ctx, phone)
	s.AddToWishlist(ctx, shoes)

	assert.Len(t, s.Snapshot().Wishlist, 2)
	assert.True(t, s.IsInWishlist(phone.ID))
	assert.False(t, s.IsInWishlist(tshirt.ID))

	require.NoError(t, s.RemoveFromWishlist(ctx, phone.ID))
	assert.False(t, s.IsInWishlist(phone.ID))
	assert.ErrorIs(t, s.RemoveFromWishlist(ctx, phone.ID), shop.ErrItemNotFound)
	assert.True(t, storage.has("s1:wishlist"))

	s.ClearWishlist(ctx)
	assert.Empty(t, s.Snapshot().Wishlist)
	assert.False(t, storage.has("s1:wishlist"))
}

func TestStoreUser(t *testing.T) {
	ctx := t.Context()

	t.Run("LoginLogout", func(t *testing.T) {
		storage := newMemStorage()
		s := newStore(storage, syncAuth{})

		assert.ErrorIs(t,
			s.UpdateProfile(ctx, domain.ProfilePatch{}), domain.ErrNotLoggedIn)

		require.NoError(t, s.Login(ctx, "jean@example.fr", "whatever"))
		st := s.Snapshot()
		require.True(t, st.IsLoggedIn())
		assert.Equal(t, "jean@example.fr", st.User.Email)
		assert.False(t, st.Loading[shop.SectionUser])
		assert.True(t, storage.has("s1:user"))

		name := "Jean Dupont"
		require.NoError(t, s.UpdateProfile(ctx, domain.ProfilePatch{Name: &name}))
		st = s.Snapshot()
		assert.Equal(t, name, st.User.Name)
		assert.Equal(t, "jean@example.fr", st.User.Email)

		s.Logout(ctx)
		assert.Nil(t, s.Snapshot().User)
		assert.False(t, storage.has("s1:user"))
	})

	t.Run("Register", func(t *testing.T) {
		s := newStore(newMemStorage(), syncAuth{})
		require.NoError(t, s.Register(ctx, domain.Registration{
			FirstName: "Marie", LastName: "Curie", Email: "marie@example.fr",
		}))
		assert.Equal(t, "Marie Curie", s.Snapshot().User.Name)
	})

	t.Run("Failure", func(t *testing.T) {
		authErr := errors.New("service unavailable")
		s := newStore(newMemStorage(), syncAuth{err: authErr})

		err := s.Login(ctx, "jean@example.fr", "x")
		assert.ErrorIs(t, err, authErr)

		st := s.Snapshot()
		assert.Nil(t, st.User)
		assert.False(t, st.Loading[shop.SectionUser])
		assert.Equal(t, "service unavailable", st.Errors[shop.SectionUser])
	})
}

type blockingAuth struct {
	syncAuth
	release chan struct{}
}

func (a blockingAuth) Authenticate(ctx context.Context, email, pw string) (domain.User, error) {
	<-a.release
	return a.syncAuth.Authenticate(ctx, email, pw)
}

func TestStoreLoadingCounter(t *testing.T) {
	auth := blockingAuth{release: make(chan struct{})}
	s := newStore(newMemStorage(), auth)

	loading := make(chan bool, 16)
	cancel := s.Subscribe(func(st shop.State) { loading <- st.Loading[shop.SectionUser] })
	defer cancel()

	var wg sync.WaitGroup
	for range 2 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, s.Login(t.Context(), "a@b.fr", "x"))
		}()
	}

	assert.True(t, <-loading)
	assert.True(t, <-loading)

	auth.release <- struct{}{}
	assert.True(t, <-loading, "second login still pending")

	auth.release <- struct{}{}
	wg.Wait()
	assert.False(t, <-loading)
	assert.False(t, s.Snapshot().Loading[shop.SectionUser])
}

func TestStorePersistFailure(t *testing.T) {
	storage := newMemStorage()
	storage.saveErr = errors.New("disk full")
	s := newStore(storage, syncAuth{})

	ctx := t.Context()

	require.NoError(t, s.AddToCart(ctx, phone, 1, shop.Selection{}))
	s.AddToWishlist(ctx, shoes)
	require.NoError(t, s.Login(ctx, "jean@example.fr", "x"))

	st := s.Snapshot()
	assert.Len(t, st.Cart, 1, "mutation is not rolled back")
	assert.Equal(t, 1, st.CartItemsCount)
	assert.Len(t, st.Wishlist, 1)
	assert.True(t, st.IsLoggedIn())
	assert.Equal(t, "disk full", st.Errors[shop.SectionCart])
	assert.Equal(t, "disk full", st.Errors[shop.SectionWishlist])
	assert.Equal(t, "disk full", st.Errors[shop.SectionUser])
	assert.False(t, storage.has("s1:cart"))

	storage.saveErr = nil
	require.NoError(t, s.AddToCart(ctx, phone, 1, shop.Selection{}))
	st = s.Snapshot()
	assert.Empty(t, st.Errors[shop.SectionCart])
	assert.Equal(t, 2, st.CartItemsCount)
	assert.True(t, storage.has("s1:cart"))
}

func TestStoreHydrate(t *testing.T) {
	ctx := t.Context()

	t.Run("RoundTrip", func(t *testing.T) {
		storage := newMemStorage()
		s := newStore(storage, syncAuth{})
		require.NoError(t, s.AddToCart(ctx, phone, 2, shop.Selection{Color: "Noir"}))
		s.AddToWishlist(ctx, shoes)
		require.NoError(t, s.Login(ctx, "jean@example.fr", "x"))

		restored := newStore(storage, syncAuth{})
		restored.Hydrate(ctx)

		st := restored.Snapshot()
		require.Len(t, st.Cart, 1)
		assert.Equal(t, "Noir", st.Cart[0].SelectedColor)
		assert.Equal(t, 2, st.CartItemsCount)
		assert.Len(t, st.Wishlist, 1)
		assert.True(t, st.IsLoggedIn())
		for _, l := range st.Loading {
			assert.False(t, l)
		}
	})

	t.Run("MergesAndDropsBadEntries", func(t *testing.T) {
		storage := newMemStorage()
		cart, err := json.Marshal([]domain.CartItem{
			{Product: phone, Quantity: 1},
			{Product: phone, Quantity: 2},
			{Product: tshirt, Quantity: 0},
		})
		require.NoError(t, err)
		storage.data["s1:cart"] = cart
		storage.data["s1:wishlist"] = []byte("{not json")

		s := newStore(storage, syncAuth{})
		s.Hydrate(ctx)

		st := s.Snapshot()
		require.Len(t, st.Cart, 1)
		assert.Equal(t, 3, st.Cart[0].Quantity)
		assertTotals(t, st)
		assert.Empty(t, st.Wishlist)
		assert.Nil(t, st.User)
	})
}

func TestStoreActivity(t *testing.T) {
	s := newStore(newMemStorage(), syncAuth{})

	var got []domain.Activity
	cancel := s.OnActivity(func(a domain.Activity) { got = append(got, a) })

	require.NoError(t, s.AddToCart(t.Context(), phone, 2, shop.Selection{}))
	s.AddToWishlist(t.Context(), phone)
	s.AddToWishlist(t.Context(), phone)
	cancel()
	s.ClearCart(t.Context())

	require.Len(t, got, 2)
	assert.Equal(t, domain.Activity{
		SessionID: "s1",
		Kind:      domain.ActivityCartAdd,
		ProductID: phone.ID,
		Quantity:  2,
		At:        fixedNow,
	}, got[0])
	assert.Equal(t, domain.ActivityWishlistAdd, got[1].Kind)
}
