package httphandler

import (
	"time"

	"github.com/niksmo/storefront/internal/core/catalog"
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/pricing"
	"github.com/niksmo/storefront/internal/core/service"
	"github.com/shopspring/decimal"
)

type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

type (
	Product struct {
		domain.Product
		StockStatus domain.StockStatus `json:"stock_status"`
	}

	ProductsPage struct {
		Items        []Product `json:"items"`
		CurrentPage  int       `json:"current_page"`
		TotalPages   int       `json:"total_pages"`
		ItemsPerPage int       `json:"items_per_page"`
		TotalItems   int       `json:"total_items"`
	}
)

func toProduct(p domain.Product) Product {
	return Product{Product: p, StockStatus: p.StockStatus()}
}

func toProducts(ps []domain.Product) []Product {
	out := make([]Product, len(ps))
	for i, p := range ps {
		out[i] = toProduct(p)
	}
	return out
}

func toProductsPage(p catalog.Page) ProductsPage {
	return ProductsPage{
		Items:        toProducts(p.Items),
		CurrentPage:  p.CurrentPage,
		TotalPages:   p.TotalPages,
		ItemsPerPage: p.ItemsPerPage,
		TotalItems:   p.TotalItems,
	}
}

// Amounts are decimal strings with two fraction digits.
type (
	Summary struct {
		Subtotal                 string `json:"subtotal"`
		Shipping                 string `json:"shipping"`
		Tax                      string `json:"tax"`
		Discount                 string `json:"discount"`
		Total                    string `json:"total"`
		RemainingForFreeShipping string `json:"remaining_for_free_shipping"`
		PromoCode                string `json:"promo_code,omitempty"`
		ItemsCount               int    `json:"items_count"`
	}

	// SyncError reports that the last change was applied but not saved.
	Cart struct {
		Items      []domain.CartItem `json:"items"`
		Empty      bool              `json:"empty"`
		ItemsCount int               `json:"items_count"`
		Summary    *Summary          `json:"summary,omitempty"`
		SyncError  string            `json:"sync_error,omitempty"`
	}

	CartItemRequest struct {
		ProductID     string `json:"product_id"`
		Quantity      int    `json:"quantity"`
		SelectedSize  string `json:"selected_size"`
		SelectedColor string `json:"selected_color"`
	}

	QuantityRequest struct {
		Quantity *int `json:"quantity"`
	}

	PromoRequest struct {
		PromoCode string `json:"promo_code"`
	}
)

func amount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func toSummary(s pricing.Summary) Summary {
	return Summary{
		Subtotal:                 amount(s.Subtotal),
		Shipping:                 amount(s.Shipping),
		Tax:                      amount(s.Tax),
		Discount:                 amount(s.Discount),
		Total:                    amount(s.Total),
		RemainingForFreeShipping: amount(s.RemainingForFreeShipping),
		PromoCode:                s.PromoCode,
		ItemsCount:               s.ItemsCount,
	}
}

func toCart(v service.CartView) Cart {
	c := Cart{
		Items:      v.Items,
		Empty:      v.Empty,
		ItemsCount: v.ItemsCount,
		SyncError:  v.SyncError,
	}
	if c.Items == nil {
		c.Items = []domain.CartItem{}
	}
	if v.Summary != nil {
		s := toSummary(*v.Summary)
		c.Summary = &s
	}
	return c
}

type (
	WishlistItemRequest struct {
		ProductID string `json:"product_id"`
	}

	Wishlist struct {
		Items     []domain.WishlistItem `json:"items"`
		SyncError string                `json:"sync_error,omitempty"`
	}
)

func toWishlist(v service.WishlistView) Wishlist {
	items := v.Items
	if items == nil {
		items = []domain.WishlistItem{}
	}
	return Wishlist{Items: items, SyncError: v.SyncError}
}

type Reviews struct {
	Items []domain.Review    `json:"items"`
	Stats domain.RatingStats `json:"stats"`
}

func toReviews(pr service.ProductReviews) Reviews {
	items := pr.Reviews
	if items == nil {
		items = []domain.Review{}
	}
	return Reviews{Items: items, Stats: pr.Stats}
}

type (
	LoginRequest struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	Profile struct {
		domain.User
		SyncError string `json:"sync_error,omitempty"`
	}
)

func toProfile(v service.ProfileView) Profile {
	return Profile{User: v.User, SyncError: v.SyncError}
}

type (
	CheckoutRequest struct {
		domain.CheckoutForm
		PromoCode string `json:"promo_code"`
	}

	OrderItem struct {
		ProductID   string `json:"product_id"`
		ProductName string `json:"product_name"`
		Quantity    int    `json:"quantity"`
		Price       string `json:"price"`
		Image       string `json:"image,omitempty"`
	}

	OrderTotals struct {
		Subtotal  string `json:"subtotal"`
		Shipping  string `json:"shipping"`
		Tax       string `json:"tax"`
		Discount  string `json:"discount"`
		Total     string `json:"total"`
		PromoCode string `json:"promo_code,omitempty"`
	}

	Order struct {
		ID              string                 `json:"id"`
		Items           []OrderItem            `json:"items"`
		Totals          OrderTotals            `json:"totals"`
		ShippingAddress domain.ShippingAddress `json:"shipping_address"`
		PaymentMethod   domain.CheckoutPayment `json:"payment_method"`
		PaymentStatus   domain.PaymentStatus   `json:"payment_status"`
		OrderStatus     domain.OrderStatus     `json:"order_status"`
		CreatedAt       time.Time              `json:"created_at"`
	}
)

func toOrder(o domain.Order) Order {
	items := make([]OrderItem, len(o.Items))
	for i, item := range o.Items {
		items[i] = OrderItem{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Price:       amount(item.Price),
			Image:       item.Image,
		}
	}
	return Order{
		ID:    o.ID,
		Items: items,
		Totals: OrderTotals{
			Subtotal:  amount(o.Totals.Subtotal),
			Shipping:  amount(o.Totals.Shipping),
			Tax:       amount(o.Totals.Tax),
			Discount:  amount(o.Totals.Discount),
			Total:     amount(o.Totals.Total),
			PromoCode: o.Totals.PromoCode,
		},
		ShippingAddress: o.ShippingAddress,
		PaymentMethod:   o.PaymentMethod,
		PaymentStatus:   o.PaymentStatus,
		OrderStatus:     o.OrderStatus,
		CreatedAt:       o.CreatedAt,
	}
}
