package httphandler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/niksmo/storefront/internal/core/domain"
)

type CheckoutService interface {
	PlaceOrder(
		ctx context.Context, sessionID string, form domain.CheckoutForm, promo string,
	) (domain.Order, error)
}

// POST v1/checkout (response 201 Created, 422 Unprocessable entity)
type CheckoutHandler struct {
	svc CheckoutService
}

func RegisterCheckout(mux *http.ServeMux, svc CheckoutService) {
	h := CheckoutHandler{svc}
	mux.HandleFunc("POST /v1/checkout", h.PostCheckout)
}

func (h CheckoutHandler) PostCheckout(w http.ResponseWriter, r *http.Request) {
	const op = "CheckoutHandler.PostCheckout"
	log := slog.With("op", op)

	var req CheckoutRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	o, err := h.svc.PlaceOrder(r.Context(), sessionID(r), req.CheckoutForm, req.PromoCode)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}

	log.Info("order placed", "orderID", o.ID, "nItems", len(o.Items))
	writeJSON(w, http.StatusCreated, toOrder(o))
}
