package shop

import (
	"maps"
	"slices"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/pricing"
	"github.com/shopspring/decimal"
)

type Section string

const (
	SectionCart     Section = "cart"
	SectionWishlist Section = "wishlist"
	SectionUser     Section = "user"
)

// State is a read-only copy of a session. CartTotal and CartItemsCount
// always match Cart.
type State struct {
	Cart           []domain.CartItem
	Wishlist       []domain.WishlistItem
	User           *domain.User
	CartTotal      decimal.Decimal
	CartItemsCount int
	Loading        map[Section]bool
	Errors         map[Section]string
}

func (s State) IsLoggedIn() bool {
	return s.User != nil && s.User.IsLoggedIn
}

type state struct {
	cart           []domain.CartItem
	wishlist       []domain.WishlistItem
	user           *domain.User
	cartTotal      decimal.Decimal
	cartItemsCount int
	pending        map[Section]int
	errors         map[Section]string
}

func newState() state {
	return state{
		pending: make(map[Section]int),
		errors:  make(map[Section]string),
	}
}

func (s *state) snapshot() State {
	loading := make(map[Section]bool, 3)
	for _, sec := range []Section{SectionCart, SectionWishlist, SectionUser} {
		loading[sec] = s.pending[sec] > 0
	}

	var user *domain.User
	if s.user != nil {
		u := *s.user
		u.Addresses = slices.Clone(u.Addresses)
		u.PaymentMethods = slices.Clone(u.PaymentMethods)
		user = &u
	}

	return State{
		Cart:           slices.Clone(s.cart),
		Wishlist:       slices.Clone(s.wishlist),
		User:           user,
		CartTotal:      s.cartTotal,
		CartItemsCount: s.cartItemsCount,
		Loading:        loading,
		Errors:         maps.Clone(s.errors),
	}
}

func (s *state) cartIndex(productID string) int {
	return slices.IndexFunc(s.cart, func(it domain.CartItem) bool {
		return it.Product.ID == productID
	})
}

func (s *state) wishlistIndex(productID string) int {
	return slices.IndexFunc(s.wishlist, func(it domain.WishlistItem) bool {
		return it.Product.ID == productID
	})
}

// recount recomputes the cart derivatives. Every cart mutation ends with it.
func (s *state) recount() {
	s.cartTotal = pricing.Subtotal(s.cart)
	s.cartItemsCount = pricing.ItemsCount(s.cart)
}

func (s *state) setError(sec Section, err error) {
	if err == nil {
		delete(s.errors, sec)
		return
	}
	s.errors[sec] = err.Error()
}
