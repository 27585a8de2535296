// Package shop holds the per-session state container: cart, wishlist and
// the logged-in user. The Store is the single source of truth; the
// StateStorage port only receives a serialized copy after every mutation
// and is read back once by Hydrate. A failed write never fails the
// mutation, it is reported in State.Errors for the section.
package shop

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

var ErrItemNotFound = errors.New("item not found")

// Selection is the optional variant picked when adding to the cart.
type Selection struct {
	Size  string
	Color string
}

type Opt func(*Store)

func NowOpt(now func() time.Time) Opt {
	return func(s *Store) {
		s.now = now
	}
}

type Store struct {
	sessionID string
	storage   port.StateStorage
	auth      port.AuthProvider
	now       func() time.Time

	mu    sync.Mutex
	state state

	subsMu       sync.Mutex
	nextSubID    int
	subs         map[int]func(State)
	activitySubs map[int]func(domain.Activity)
}

func NewStore(
	sessionID string, storage port.StateStorage, auth port.AuthProvider, opts ...Opt,
) *Store {
	s := &Store{
		sessionID:    sessionID,
		storage:      storage,
		auth:         auth,
		now:          time.Now,
		state:        newState(),
		subs:         make(map[int]func(State)),
		activitySubs: make(map[int]func(domain.Activity)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) SessionID() string {
	return s.sessionID
}

func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.snapshot()
}

// Subscribe registers fn to receive a snapshot after every state change.
// The returned func cancels the subscription.
func (s *Store) Subscribe(fn func(State)) (cancel func()) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	id := s.nextSubID
	s.nextSubID++
	s.subs[id] = fn
	return func() {
		s.subsMu.Lock()
		delete(s.subs, id)
		s.subsMu.Unlock()
	}
}

// OnActivity registers fn to receive every shopper action applied to the
// session.
func (s *Store) OnActivity(fn func(domain.Activity)) (cancel func()) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	id := s.nextSubID
	s.nextSubID++
	s.activitySubs[id] = fn
	return func() {
		s.subsMu.Lock()
		delete(s.activitySubs, id)
		s.subsMu.Unlock()
	}
}

func (s *Store) IsInWishlist(productID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.wishlistIndex(productID) >= 0
}

// AddToCart increments the quantity of an existing entry or appends a new
// one. Entries are keyed by product ID; the selection of an existing entry
// is kept.
func (s *Store) AddToCart(
	ctx context.Context, p domain.Product, quantity int, sel Selection,
) error {
	const op = "Store.AddToCart"

	if quantity <= 0 {
		return fmt.Errorf("%s: %w", op, domain.ErrInvalidQuantity)
	}

	s.mu.Lock()
	s.addToCart(p, quantity, sel, s.now())
	s.state.recount()
	s.persistLocked(ctx, SectionCart)
	snap := s.state.snapshot()
	s.mu.Unlock()

	s.publish(snap, domain.Activity{
		Kind: domain.ActivityCartAdd, ProductID: p.ID, Quantity: quantity,
	})
	return nil
}

func (s *Store) addToCart(p domain.Product, quantity int, sel Selection, at time.Time) {
	if i := s.state.cartIndex(p.ID); i >= 0 {
		s.state.cart[i].Quantity += quantity
		return
	}
	s.state.cart = append(s.state.cart, domain.CartItem{
		Product:       p,
		Quantity:      quantity,
		SelectedSize:  sel.Size,
		SelectedColor: sel.Color,
		AddedAt:       at,
	})
}

// UpdateCartItemQuantity sets the quantity of a cart entry. A quantity of
// zero or less removes the entry.
func (s *Store) UpdateCartItemQuantity(
	ctx context.Context, productID string, quantity int,
) error {
	const op = "Store.UpdateCartItemQuantity"

	if quantity <= 0 {
		return wrap(op, s.RemoveFromCart(ctx, productID))
	}

	s.mu.Lock()
	i := s.state.cartIndex(productID)
	if i < 0 {
		s.mu.Unlock()
		return fmt.Errorf("%s: %w", op, ErrItemNotFound)
	}
	s.state.cart[i].Quantity = quantity
	s.state.recount()
	s.persistLocked(ctx, SectionCart)
	snap := s.state.snapshot()
	s.mu.Unlock()

	s.publish(snap, domain.Activity{
		Kind: domain.ActivityCartUpdate, ProductID: productID, Quantity: quantity,
	})
	return nil
}

func (s *Store) RemoveFromCart(ctx context.Context, productID string) error {
	const op = "Store.RemoveFromCart"

	s.mu.Lock()
	i := s.state.cartIndex(productID)
	if i < 0 {
		s.mu.Unlock()
		return fmt.Errorf("%s: %w", op, ErrItemNotFound)
	}
	s.state.cart = slices.Delete(s.state.cart, i, i+1)
	s.state.recount()
	s.persistLocked(ctx, SectionCart)
	snap := s.state.snapshot()
	s.mu.Unlock()

	s.publish(snap, domain.Activity{
		Kind: domain.ActivityCartRemove, ProductID: productID,
	})
	return nil
}

func (s *Store) ClearCart(ctx context.Context) {
	s.mu.Lock()
	s.state.cart = nil
	s.state.recount()
	s.dropLocked(ctx, SectionCart)
	snap := s.state.snapshot()
	s.mu.Unlock()

	s.publish(snap, domain.Activity{Kind: domain.ActivityCartClear})
}

// AddToWishlist is idempotent: a product already in the wishlist is left
// untouched.
func (s *Store) AddToWishlist(ctx context.Context, p domain.Product) {
	s.mu.Lock()
	if s.state.wishlistIndex(p.ID) >= 0 {
		s.mu.Unlock()
		return
	}
	s.state.wishlist = append(s.state.wishlist, domain.WishlistItem{
		Product: p, AddedAt: s.now(),
	})
	s.persistLocked(ctx, SectionWishlist)
	snap := s.state.snapshot()
	s.mu.Unlock()

	s.publish(snap, domain.Activity{
		Kind: domain.ActivityWishlistAdd, ProductID: p.ID,
	})
}

func (s *Store) RemoveFromWishlist(ctx context.Context, productID string) error {
	const op = "Store.RemoveFromWishlist"

	s.mu.Lock()
	i := s.state.wishlistIndex(productID)
	if i < 0 {
		s.mu.Unlock()
		return fmt.Errorf("%s: %w", op, ErrItemNotFound)
	}
	s.state.wishlist = slices.Delete(s.state.wishlist, i, i+1)
	s.persistLocked(ctx, SectionWishlist)
	snap := s.state.snapshot()
	s.mu.Unlock()

	s.publish(snap, domain.Activity{
		Kind: domain.ActivityWishlistRemove, ProductID: productID,
	})
	return nil
}

func (s *Store) ClearWishlist(ctx context.Context) {
	s.mu.Lock()
	s.state.wishlist = nil
	s.dropLocked(ctx, SectionWishlist)
	snap := s.state.snapshot()
	s.mu.Unlock()

	s.publish(snap, domain.Activity{Kind: domain.ActivityWishlistClear})
}

// Login authenticates through the auth provider. A failure sets the user
// section error and keeps the previous user.
func (s *Store) Login(ctx context.Context, email, password string) error {
	const op = "Store.Login"

	return s.signIn(ctx, op, func(ctx context.Context) (domain.User, error) {
		return s.auth.Authenticate(ctx, email, password)
	})
}

func (s *Store) Register(ctx context.Context, r domain.Registration) error {
	const op = "Store.Register"

	return s.signIn(ctx, op, func(ctx context.Context) (domain.User, error) {
		return s.auth.Register(ctx, r)
	})
}

func (s *Store) signIn(
	ctx context.Context, op string, call func(context.Context) (domain.User, error),
) error {
	log := slog.With("op", op, "session", s.sessionID)

	s.mu.Lock()
	s.state.pending[SectionUser]++
	s.state.setError(SectionUser, nil)
	snap := s.state.snapshot()
	s.mu.Unlock()
	s.notify(snap)

	user, callErr := call(ctx)

	s.mu.Lock()
	s.state.pending[SectionUser]--
	if callErr != nil {
		s.state.setError(SectionUser, callErr)
		log.Warn("sign in failed", "err", callErr)
	} else {
		user.IsLoggedIn = true
		s.state.user = &user
		s.persistLocked(ctx, SectionUser)
	}
	snap = s.state.snapshot()
	s.mu.Unlock()

	if callErr != nil {
		s.notify(snap)
		return fmt.Errorf("%s: %w", op, callErr)
	}
	s.publish(snap, domain.Activity{Kind: domain.ActivityLogin})
	return nil
}

func (s *Store) Logout(ctx context.Context) {
	s.mu.Lock()
	if s.state.user == nil {
		s.mu.Unlock()
		return
	}
	s.state.user = nil
	s.dropLocked(ctx, SectionUser)
	snap := s.state.snapshot()
	s.mu.Unlock()

	s.publish(snap, domain.Activity{Kind: domain.ActivityLogout})
}

// UpdateProfile shallow-merges the patch into the current user.
func (s *Store) UpdateProfile(ctx context.Context, patch domain.ProfilePatch) error {
	const op = "Store.UpdateProfile"

	s.mu.Lock()
	if s.state.user == nil {
		s.mu.Unlock()
		return fmt.Errorf("%s: %w", op, domain.ErrNotLoggedIn)
	}
	user := patch.Apply(*s.state.user)
	s.state.user = &user
	s.persistLocked(ctx, SectionUser)
	snap := s.state.snapshot()
	s.mu.Unlock()

	s.notify(snap)
	return nil
}

// Hydrate loads the persisted sections once. Missing keys leave a section
// empty; unreadable or malformed entries are logged and skipped.
func (s *Store) Hydrate(ctx context.Context) {
	const op = "Store.Hydrate"
	log := slog.With("op", op, "session", s.sessionID)

	sections := []Section{SectionCart, SectionWishlist, SectionUser}

	s.mu.Lock()
	for _, sec := range sections {
		s.state.pending[sec]++
	}
	s.mu.Unlock()

	raw := make(map[Section][]byte, len(sections))
	for _, sec := range sections {
		data, err := s.storage.Load(ctx, s.key(sec))
		if err != nil {
			if !errors.Is(err, port.ErrNotFound) {
				log.Error("failed to load section", "section", sec, "err", err)
			}
			continue
		}
		raw[sec] = data
	}

	s.mu.Lock()
	defer func() {
		snap := s.state.snapshot()
		s.mu.Unlock()
		s.notify(snap)
	}()

	for _, sec := range sections {
		s.state.pending[sec]--
	}

	if data, ok := raw[SectionCart]; ok {
		var items []domain.CartItem
		if err := json.Unmarshal(data, &items); err != nil {
			log.Error("malformed cart entry", "err", err)
		} else {
			for _, it := range items {
				if it.Quantity <= 0 {
					continue
				}
				sel := Selection{Size: it.SelectedSize, Color: it.SelectedColor}
				s.addToCart(it.Product, it.Quantity, sel, it.AddedAt)
			}
			s.state.recount()
		}
	}

	if data, ok := raw[SectionWishlist]; ok {
		var items []domain.WishlistItem
		if err := json.Unmarshal(data, &items); err != nil {
			log.Error("malformed wishlist entry", "err", err)
		} else {
			for _, it := range items {
				if s.state.wishlistIndex(it.Product.ID) < 0 {
					s.state.wishlist = append(s.state.wishlist, it)
				}
			}
		}
	}

	if data, ok := raw[SectionUser]; ok {
		var user domain.User
		if err := json.Unmarshal(data, &user); err != nil {
			log.Error("malformed user entry", "err", err)
		} else if user.IsLoggedIn {
			s.state.user = &user
		}
	}
}

func (s *Store) key(sec Section) string {
	return s.sessionID + ":" + string(sec)
}

// persistLocked writes the section to storage. A failure is recorded as the
// section error; the in-memory change is kept.
func (s *Store) persistLocked(ctx context.Context, sec Section) {
	const op = "Store.persist"

	var v any
	switch sec {
	case SectionCart:
		v = s.state.cart
	case SectionWishlist:
		v = s.state.wishlist
	case SectionUser:
		v = s.state.user
	}

	data, err := json.Marshal(v)
	if err == nil {
		err = s.storage.Save(ctx, s.key(sec), data)
	}
	s.storageResult(op, sec, err)
}

func (s *Store) dropLocked(ctx context.Context, sec Section) {
	const op = "Store.drop"
	s.storageResult(op, sec, s.storage.Delete(ctx, s.key(sec)))
}

func (s *Store) storageResult(op string, sec Section, err error) {
	s.state.setError(sec, err)
	if err != nil {
		slog.Warn(
			"failed to mirror section",
			"op", op, "session", s.sessionID, "section", sec, "err", err,
		)
	}
}

func (s *Store) publish(snap State, a domain.Activity) {
	s.notify(snap)

	a.SessionID = s.sessionID
	a.At = s.now()

	s.subsMu.Lock()
	fns := make([]func(domain.Activity), 0, len(s.activitySubs))
	for _, fn := range s.activitySubs {
		fns = append(fns, fn)
	}
	s.subsMu.Unlock()

	for _, fn := range fns {
		fn(a)
	}
}

func (s *Store) notify(snap State) {
	s.subsMu.Lock()
	fns := make([]func(State), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subsMu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", op, err)
}
