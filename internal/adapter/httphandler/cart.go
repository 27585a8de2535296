package httphandler

import (
	"context"
	"net/http"

	"github.com/niksmo/storefront/internal/core/pricing"
	"github.com/niksmo/storefront/internal/core/service"
	"github.com/niksmo/storefront/internal/core/shop"
)

type CartService interface {
	Cart(ctx context.Context, sessionID, promo string) (service.CartView, error)
	Quote(ctx context.Context, sessionID, promo string) (pricing.Summary, error)
	AddToCart(
		ctx context.Context, sessionID, productID string, quantity int, sel shop.Selection,
	) (service.CartView, error)
	UpdateCartItem(ctx context.Context, sessionID, productID string, quantity int) (service.CartView, error)
	RemoveFromCart(ctx context.Context, sessionID, productID string) (service.CartView, error)
	ClearCart(ctx context.Context, sessionID string) (service.CartView, error)
}

// GET v1/cart?promo=, POST v1/cart/promo, POST v1/cart/items,
// PATCH|DELETE v1/cart/items/{id}, DELETE v1/cart
type CartHandler struct {
	svc CartService
}

func RegisterCart(mux *http.ServeMux, svc CartService) {
	h := CartHandler{svc}
	mux.HandleFunc("GET /v1/cart", h.GetCart)
	mux.HandleFunc("POST /v1/cart/promo", h.PostPromo)
	mux.HandleFunc("POST /v1/cart/items", h.PostItem)
	mux.HandleFunc("PATCH /v1/cart/items/{id}", h.PatchItem)
	mux.HandleFunc("DELETE /v1/cart/items/{id}", h.DeleteItem)
	mux.HandleFunc("DELETE /v1/cart", h.DeleteCart)
}

func (h CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.GetCart"

	v, err := h.svc.Cart(r.Context(), sessionID(r), r.URL.Query().Get("promo"))
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, toCart(v))
}

// PostPromo quotes the cart with a promo code; unknown codes are rejected.
func (h CartHandler) PostPromo(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.PostPromo"

	var req PromoRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	s, err := h.svc.Quote(r.Context(), sessionID(r), req.PromoCode)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, toSummary(s))
}

func (h CartHandler) PostItem(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.PostItem"

	var req CartItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.ProductID == "" {
		writeError(w, http.StatusBadRequest, "product_id is required")
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	sel := shop.Selection{Size: req.SelectedSize, Color: req.SelectedColor}
	v, err := h.svc.AddToCart(r.Context(), sessionID(r), req.ProductID, req.Quantity, sel)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCart(v))
}

// PatchItem sets the quantity; an explicit zero or less removes the item.
func (h CartHandler) PatchItem(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.PatchItem"

	var req QuantityRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Quantity == nil {
		writeError(w, http.StatusBadRequest, "quantity is required")
		return
	}

	v, err := h.svc.UpdateCartItem(r.Context(), sessionID(r), r.PathValue("id"), *req.Quantity)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, toCart(v))
}

func (h CartHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.DeleteItem"

	v, err := h.svc.RemoveFromCart(r.Context(), sessionID(r), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, toCart(v))
}

func (h CartHandler) DeleteCart(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.DeleteCart"

	v, err := h.svc.ClearCart(r.Context(), sessionID(r))
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, toCart(v))
}

type WishlistService interface {
	Wishlist(ctx context.Context, sessionID string) (service.WishlistView, error)
	AddToWishlist(ctx context.Context, sessionID, productID string) (service.WishlistView, error)
	RemoveFromWishlist(ctx context.Context, sessionID, productID string) (service.WishlistView, error)
	ClearWishlist(ctx context.Context, sessionID string) (service.WishlistView, error)
}

// GET v1/wishlist, POST v1/wishlist/items, DELETE v1/wishlist/items/{id},
// DELETE v1/wishlist
type WishlistHandler struct {
	svc WishlistService
}

func RegisterWishlist(mux *http.ServeMux, svc WishlistService) {
	h := WishlistHandler{svc}
	mux.HandleFunc("GET /v1/wishlist", h.GetWishlist)
	mux.HandleFunc("POST /v1/wishlist/items", h.PostItem)
	mux.HandleFunc("DELETE /v1/wishlist/items/{id}", h.DeleteItem)
	mux.HandleFunc("DELETE /v1/wishlist", h.DeleteWishlist)
}

func (h WishlistHandler) GetWishlist(w http.ResponseWriter, r *http.Request) {
	const op = "WishlistHandler.GetWishlist"

	v, err := h.svc.Wishlist(r.Context(), sessionID(r))
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, toWishlist(v))
}

func (h WishlistHandler) PostItem(w http.ResponseWriter, r *http.Request) {
	const op = "WishlistHandler.PostItem"

	var req WishlistItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.ProductID == "" {
		writeError(w, http.StatusBadRequest, "product_id is required")
		return
	}

	v, err := h.svc.AddToWishlist(r.Context(), sessionID(r), req.ProductID)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusCreated, toWishlist(v))
}

func (h WishlistHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	const op = "WishlistHandler.DeleteItem"

	v, err := h.svc.RemoveFromWishlist(r.Context(), sessionID(r), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, toWishlist(v))
}

func (h WishlistHandler) DeleteWishlist(w http.ResponseWriter, r *http.Request) {
	const op = "WishlistHandler.DeleteWishlist"

	v, err := h.svc.ClearWishlist(r.Context(), sessionID(r))
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, toWishlist(v))
}
