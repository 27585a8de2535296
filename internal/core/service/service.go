package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/niksmo/storefront/internal/core/catalog"
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
	"github.com/niksmo/storefront/internal/core/pricing"
	"github.com/niksmo/storefront/internal/core/shop"
	"github.com/niksmo/storefront/internal/core/validation"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidPromoCode      = errors.New("invalid promo code")
	ErrPopularityUnavailable = errors.New("popularity is unavailable")
	ErrContactUnavailable    = errors.New("contact inbox is unavailable")
)

// CartView is the cart as shown to the shopper. An empty cart has no
// summary. SyncError is the last failure to mirror the cart to storage.
type CartView struct {
	Items      []domain.CartItem
	Empty      bool
	ItemsCount int
	Summary    *pricing.Summary
	SyncError  string
}

type WishlistView struct {
	Items     []domain.WishlistItem
	SyncError string
}

type ProfileView struct {
	User      domain.User
	SyncError string
}

type Opt func(*Service)

func RulesOpt(r pricing.Rules) Opt {
	return func(s *Service) {
		s.rules = r
	}
}

func ItemsPerPageOpt(n int) Opt {
	return func(s *Service) {
		s.perPage = n
	}
}

// PopularityOpt enables product popularity lookups.
func PopularityOpt(r port.PopularityReader) Opt {
	return func(s *Service) {
		s.popularity = r
	}
}

// ContactOpt enables the contact form.
func ContactOpt(inbox port.ContactInbox) Opt {
	return func(s *Service) {
		s.contact = inbox
	}
}

func NowOpt(now func() time.Time) Opt {
	return func(s *Service) {
		s.now = now
	}
}

type Service struct {
	catalog    port.CatalogRepository
	sessions   *Sessions
	orders     port.OrderPublisher
	popularity port.PopularityReader
	contact    port.ContactInbox
	rules      pricing.Rules
	perPage    int
	now        func() time.Time
}

func New(
	catalog port.CatalogRepository,
	sessions *Sessions,
	orders port.OrderPublisher,
	opts ...Opt,
) Service {
	s := Service{
		catalog:  catalog,
		sessions: sessions,
		orders:   orders,
		rules:    pricing.DefaultRules(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

func (s Service) Products(
	ctx context.Context, f domain.ProductFilters, page int,
) (catalog.Page, error) {
	const op = "Service.Products"

	products, categories, err := s.catalogData(ctx)
	if err != nil {
		return catalog.Page{}, fmt.Errorf("%s: %w", op, err)
	}

	b := catalog.NewBrowser(s.perPage)
	b.SetFilters(f)
	b.SetPage(page)
	return b.Result(products, categories), nil
}

func (s Service) Product(ctx context.Context, slug string) (domain.Product, error) {
	const op = "Service.Product"

	p, err := s.catalog.ProductBySlug(ctx, slug)
	if err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

type ProductReviews struct {
	Reviews []domain.Review
	Stats   domain.RatingStats
}

// Reviews returns the reviews of a product with their rating distribution.
func (s Service) Reviews(ctx context.Context, slug string) (ProductReviews, error) {
	const op = "Service.Reviews"

	p, err := s.catalog.ProductBySlug(ctx, slug)
	if err != nil {
		return ProductReviews{}, fmt.Errorf("%s: %w", op, err)
	}
	rs, err := s.catalog.ReviewsByProduct(ctx, p.ID)
	if err != nil {
		return ProductReviews{}, fmt.Errorf("%s: %w", op, err)
	}
	return ProductReviews{Reviews: rs, Stats: domain.NewRatingStats(rs)}, nil
}

func (s Service) RelatedProducts(ctx context.Context, slug string) ([]domain.Product, error) {
	const op = "Service.RelatedProducts"

	p, err := s.catalog.ProductBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	all, err := s.catalog.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return catalog.Related(p, all, catalog.DefaultRelatedLimit), nil
}

// Popularity reports how many units of the product were added to carts.
func (s Service) Popularity(ctx context.Context, slug string) (domain.Popularity, error) {
	const op = "Service.Popularity"

	if s.popularity == nil {
		return domain.Popularity{}, fmt.Errorf("%s: %w", op, ErrPopularityUnavailable)
	}

	p, err := s.catalog.ProductBySlug(ctx, slug)
	if err != nil {
		return domain.Popularity{}, fmt.Errorf("%s: %w", op, err)
	}
	n, err := s.popularity.CartAdds(ctx, p.ID)
	if err != nil {
		return domain.Popularity{}, fmt.Errorf("%s: %w", op, err)
	}
	return domain.Popularity{ProductID: p.ID, CartAdds: n}, nil
}

// Categories returns the categories with their product counts.
func (s Service) Categories(ctx context.Context) ([]domain.Category, error) {
	const op = "Service.Categories"

	products, categories, err := s.catalogData(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return catalog.WithCounts(categories, products), nil
}

func (s Service) Cart(ctx context.Context, sessionID, promo string) (CartView, error) {
	const op = "Service.Cart"

	st, err := s.sessions.View(ctx, sessionID)
	if err != nil {
		return CartView{}, fmt.Errorf("%s: %w", op, err)
	}
	return s.cartView(st, promo), nil
}

// Quote summarizes the cart with a promo code. Unlike Cart, an unknown
// code is an error.
func (s Service) Quote(ctx context.Context, sessionID, promo string) (pricing.Summary, error) {
	const op = "Service.Quote"

	if !s.rules.ValidPromoCode(promo) {
		return pricing.Summary{}, fmt.Errorf("%s: %w", op, ErrInvalidPromoCode)
	}

	st, err := s.sessions.View(ctx, sessionID)
	if err != nil {
		return pricing.Summary{}, fmt.Errorf("%s: %w", op, err)
	}

	items := st.Cart
	if len(items) == 0 {
		return pricing.Summary{}, fmt.Errorf("%s: %w", op, domain.ErrEmptyCart)
	}
	return s.rules.Summarize(items, promo), nil
}

func (s Service) AddToCart(
	ctx context.Context, sessionID, productID string, quantity int, sel shop.Selection,
) (CartView, error) {
	const op = "Service.AddToCart"

	p, err := s.catalog.ProductByID(ctx, productID)
	if err != nil {
		return CartView{}, fmt.Errorf("%s: %w", op, err)
	}

	return s.mutateCart(ctx, op, sessionID, func(store *shop.Store) error {
		return store.AddToCart(ctx, p, quantity, sel)
	})
}

func (s Service) UpdateCartItem(
	ctx context.Context, sessionID, productID string, quantity int,
) (CartView, error) {
	const op = "Service.UpdateCartItem"

	return s.mutateCart(ctx, op, sessionID, func(store *shop.Store) error {
		return store.UpdateCartItemQuantity(ctx, productID, quantity)
	})
}

func (s Service) RemoveFromCart(
	ctx context.Context, sessionID, productID string,
) (CartView, error) {
	const op = "Service.RemoveFromCart"

	return s.mutateCart(ctx, op, sessionID, func(store *shop.Store) error {
		return store.RemoveFromCart(ctx, productID)
	})
}

func (s Service) ClearCart(ctx context.Context, sessionID string) (CartView, error) {
	const op = "Service.ClearCart"

	return s.mutateCart(ctx, op, sessionID, func(store *shop.Store) error {
		store.ClearCart(ctx)
		return nil
	})
}

func (s Service) Wishlist(ctx context.Context, sessionID string) (WishlistView, error) {
	const op = "Service.Wishlist"

	st, err := s.sessions.View(ctx, sessionID)
	if err != nil {
		return WishlistView{}, fmt.Errorf("%s: %w", op, err)
	}
	return wishlistView(st), nil
}

func (s Service) AddToWishlist(
	ctx context.Context, sessionID, productID string,
) (WishlistView, error) {
	const op = "Service.AddToWishlist"

	p, err := s.catalog.ProductByID(ctx, productID)
	if err != nil {
		return WishlistView{}, fmt.Errorf("%s: %w", op, err)
	}

	return s.mutateWishlist(ctx, op, sessionID, func(store *shop.Store) error {
		store.AddToWishlist(ctx, p)
		return nil
	})
}

func (s Service) RemoveFromWishlist(
	ctx context.Context, sessionID, productID string,
) (WishlistView, error) {
	const op = "Service.RemoveFromWishlist"

	return s.mutateWishlist(ctx, op, sessionID, func(store *shop.Store) error {
		return store.RemoveFromWishlist(ctx, productID)
	})
}

func (s Service) ClearWishlist(ctx context.Context, sessionID string) (WishlistView, error) {
	const op = "Service.ClearWishlist"

	return s.mutateWishlist(ctx, op, sessionID, func(store *shop.Store) error {
		store.ClearWishlist(ctx)
		return nil
	})
}

func (s Service) Login(ctx context.Context, sessionID, email, password string) (ProfileView, error) {
	const op = "Service.Login"

	return s.signIn(ctx, op, sessionID, func(store *shop.Store) error {
		return store.Login(ctx, email, password)
	})
}

// Register validates the form before reaching the auth provider.
func (s Service) Register(
	ctx context.Context, sessionID string, r domain.Registration,
) (ProfileView, error) {
	const op = "Service.Register"

	if err := validation.ValidateRegistration(r); err != nil {
		return ProfileView{}, fmt.Errorf("%s: %w", op, err)
	}

	return s.signIn(ctx, op, sessionID, func(store *shop.Store) error {
		return store.Register(ctx, r)
	})
}

func (s Service) Logout(ctx context.Context, sessionID string) error {
	const op = "Service.Logout"

	store, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	store.Logout(ctx)
	return nil
}

func (s Service) Profile(ctx context.Context, sessionID string) (ProfileView, error) {
	const op = "Service.Profile"

	st, err := s.sessions.View(ctx, sessionID)
	if err != nil {
		return ProfileView{}, fmt.Errorf("%s: %w", op, err)
	}
	if !st.IsLoggedIn() {
		return ProfileView{}, fmt.Errorf("%s: %w", op, domain.ErrNotLoggedIn)
	}
	return profileView(st), nil
}

func (s Service) UpdateProfile(
	ctx context.Context, sessionID string, patch domain.ProfilePatch,
) (ProfileView, error) {
	const op = "Service.UpdateProfile"

	store, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return ProfileView{}, fmt.Errorf("%s: %w", op, err)
	}
	if err := store.UpdateProfile(ctx, patch); err != nil {
		return ProfileView{}, fmt.Errorf("%s: %w", op, err)
	}
	return profileView(store.Snapshot()), nil
}

// PlaceOrder validates the checkout form, prices the cart, publishes the
// order and empties the cart. The cart is kept when publishing fails.
func (s Service) PlaceOrder(
	ctx context.Context, sessionID string, form domain.CheckoutForm, promo string,
) (domain.Order, error) {
	const op = "Service.PlaceOrder"
	log := slog.With("op", op, "session", sessionID)

	if err := validation.ValidateCheckout(form); err != nil {
		return domain.Order{}, fmt.Errorf("%s: %w", op, err)
	}

	store, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return domain.Order{}, fmt.Errorf("%s: %w", op, err)
	}

	st := store.Snapshot()
	if len(st.Cart) == 0 {
		return domain.Order{}, fmt.Errorf("%s: %w", op, domain.ErrEmptyCart)
	}

	order := s.newOrder(sessionID, st, form, promo)

	if err := s.orders.PublishOrder(ctx, order); err != nil {
		log.Error("failed to publish order", "order", order.ID, "err", err)
		return domain.Order{}, fmt.Errorf("%s: %w", op, err)
	}

	store.ClearCart(ctx)
	if msg := store.Snapshot().Errors[shop.SectionCart]; msg != "" {
		log.Warn("order placed but cleared cart not mirrored", "order", order.ID, "err", msg)
	}

	log.Info("order placed", "order", order.ID, "total", order.Totals.Total.StringFixed(2))
	return order, nil
}

func (s Service) AddProduct(ctx context.Context, p domain.Product) (domain.Product, error) {
	const op = "Service.AddProduct"

	p, err := s.catalog.AddProduct(ctx, p)
	if err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

func (s Service) UpdateProduct(
	ctx context.Context, id string, patch domain.ProductPatch,
) (domain.Product, error) {
	const op = "Service.UpdateProduct"

	p, err := s.catalog.UpdateProduct(ctx, id, patch)
	if err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

func (s Service) DeleteProduct(ctx context.Context, id string) error {
	const op = "Service.DeleteProduct"

	if err := s.catalog.DeleteProduct(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s Service) AddCategory(ctx context.Context, c domain.Category) (domain.Category, error) {
	const op = "Service.AddCategory"

	c, err := s.catalog.AddCategory(ctx, c)
	if err != nil {
		return domain.Category{}, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}

func (s Service) UpdateCategory(
	ctx context.Context, id string, patch domain.CategoryPatch,
) (domain.Category, error) {
	const op = "Service.UpdateCategory"

	c, err := s.catalog.UpdateCategory(ctx, id, patch)
	if err != nil {
		return domain.Category{}, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}

func (s Service) DeleteCategory(ctx context.Context, id string) error {
	const op = "Service.DeleteCategory"

	if err := s.catalog.DeleteCategory(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s Service) catalogData(ctx context.Context) ([]domain.Product, []domain.Category, error) {
	products, err := s.catalog.ListProducts(ctx)
	if err != nil {
		return nil, nil, err
	}
	categories, err := s.catalog.ListCategories(ctx)
	if err != nil {
		return nil, nil, err
	}
	return products, categories, nil
}

func (s Service) mutateCart(
	ctx context.Context, op, sessionID string, fn func(*shop.Store) error,
) (CartView, error) {
	store, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return CartView{}, fmt.Errorf("%s: %w", op, err)
	}
	if err := fn(store); err != nil {
		return CartView{}, fmt.Errorf("%s: %w", op, err)
	}
	return s.cartView(store.Snapshot(), ""), nil
}

func (s Service) mutateWishlist(
	ctx context.Context, op, sessionID string, fn func(*shop.Store) error,
) (WishlistView, error) {
	store, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return WishlistView{}, fmt.Errorf("%s: %w", op, err)
	}
	if err := fn(store); err != nil {
		return WishlistView{}, fmt.Errorf("%s: %w", op, err)
	}
	return wishlistView(store.Snapshot()), nil
}

func (s Service) signIn(
	ctx context.Context, op, sessionID string, fn func(*shop.Store) error,
) (ProfileView, error) {
	store, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return ProfileView{}, fmt.Errorf("%s: %w", op, err)
	}
	if err := fn(store); err != nil {
		return ProfileView{}, fmt.Errorf("%s: %w", op, err)
	}

	st := store.Snapshot()
	if st.User == nil {
		return ProfileView{}, fmt.Errorf("%s: %w", op, domain.ErrNotLoggedIn)
	}
	return profileView(st), nil
}

func (s Service) cartView(st shop.State, promo string) CartView {
	syncErr := st.Errors[shop.SectionCart]
	if len(st.Cart) == 0 {
		return CartView{Items: []domain.CartItem{}, Empty: true, SyncError: syncErr}
	}
	summary := s.rules.Summarize(st.Cart, promo)
	return CartView{
		Items:      st.Cart,
		ItemsCount: st.CartItemsCount,
		Summary:    &summary,
		SyncError:  syncErr,
	}
}

func wishlistView(st shop.State) WishlistView {
	return WishlistView{Items: st.Wishlist, SyncError: st.Errors[shop.SectionWishlist]}
}

// profileView expects a logged-in state.
func profileView(st shop.State) ProfileView {
	return ProfileView{User: *st.User, SyncError: st.Errors[shop.SectionUser]}
}

func (s Service) newOrder(
	sessionID string, st shop.State, form domain.CheckoutForm, promo string,
) domain.Order {
	now := s.now()
	summary := s.rules.Summarize(st.Cart, promo)

	items := make([]domain.OrderItem, 0, len(st.Cart))
	for _, it := range st.Cart {
		items = append(items, domain.OrderItem{
			ProductID:   it.Product.ID,
			ProductName: it.Product.Name,
			Quantity:    it.Quantity,
			Price:       decimalPrice(it.Product.Price),
			Image:       it.Product.Image,
		})
	}

	paymentStatus, orderStatus := domain.PaymentPaid, domain.OrderProcessing
	if form.PaymentMethod == domain.CheckoutCash {
		paymentStatus, orderStatus = domain.PaymentPending, domain.OrderPending
	}

	var userID string
	if st.User != nil {
		userID = st.User.ID
	}

	return domain.Order{
		ID:        newOrderID(now),
		UserID:    userID,
		SessionID: sessionID,
		Items:     items,
		Totals: domain.OrderTotals{
			Subtotal:  summary.Subtotal,
			Shipping:  summary.Shipping,
			Tax:       summary.Tax,
			Discount:  summary.Discount,
			Total:     summary.Total,
			PromoCode: summary.PromoCode,
		},
		ShippingAddress: form.ShippingAddress,
		PaymentMethod:   form.PaymentMethod,
		PaymentStatus:   paymentStatus,
		OrderStatus:     orderStatus,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// newOrderID returns CMD-<unix millis>-<8 random upper-case hex chars>.
func newOrderID(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("CMD-%d-%s", now.UnixMilli(), suffix)
}

func decimalPrice(price float64) decimal.Decimal {
	return decimal.NewFromFloat(price).Round(2)
}

func (s Service) SubmitContact(
	ctx context.Context, m domain.ContactMessage,
) (domain.ContactReceipt, error) {
	const op = "Service.SubmitContact"

	if err := validation.ValidateContact(m); err != nil {
		return domain.ContactReceipt{}, fmt.Errorf("%s: %w", op, err)
	}
	if s.contact == nil {
		return domain.ContactReceipt{}, fmt.Errorf("%s: %w", op, ErrContactUnavailable)
	}

	m.Name = strings.TrimSpace(m.Name)
	m.Email = strings.ToLower(strings.TrimSpace(m.Email))
	m.Message = strings.TrimSpace(m.Message)

	receipt, err := s.contact.SubmitContact(ctx, m)
	if err != nil {
		return domain.ContactReceipt{}, fmt.Errorf("%s: %w", op, err)
	}
	return receipt, nil
}
