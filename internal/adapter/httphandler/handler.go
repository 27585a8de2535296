package httphandler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/service"
	"github.com/niksmo/storefront/internal/core/shop"
	"github.com/niksmo/storefront/internal/core/validation"
)

const maxBodyBytes = 1 << 20

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON data")
		slog.Warn("failed to parse JSON", "path", r.URL.Path, "err", err)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to write response body", "err", err)
	}
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, errorResponse{Error: msg})
}

// writeServiceError maps use-case errors to HTTP statuses. Unknown errors
// are logged and reported as 500 without details.
func writeServiceError(w http.ResponseWriter, op string, err error) {
	var verr *validation.Errors
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Error:  validation.ErrInvalid.Error(),
			Fields: verr.Fields,
		})
	case errors.Is(err, domain.ErrProductNotFound),
		errors.Is(err, domain.ErrCategoryNotFound),
		errors.Is(err, shop.ErrItemNotFound):
		writeError(w, http.StatusNotFound, rootMessage(err))
	case errors.Is(err, domain.ErrNotLoggedIn):
		writeError(w, http.StatusUnauthorized, domain.ErrNotLoggedIn.Error())
	case errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrInvalidProduct),
		errors.Is(err, domain.ErrInvalidCategory):
		writeError(w, http.StatusBadRequest, rootMessage(err))
	case errors.Is(err, domain.ErrEmptyCart),
		errors.Is(err, service.ErrInvalidPromoCode):
		writeError(w, http.StatusUnprocessableEntity, rootMessage(err))
	case errors.Is(err, service.ErrPopularityUnavailable),
		errors.Is(err, service.ErrContactUnavailable),
		errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusServiceUnavailable, "unavailable")
	default:
		slog.Error("request failed", "op", op, "err", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

var publicErrors = []error{
	domain.ErrProductNotFound,
	domain.ErrCategoryNotFound,
	domain.ErrInvalidQuantity,
	domain.ErrInvalidProduct,
	domain.ErrInvalidCategory,
	domain.ErrEmptyCart,
	shop.ErrItemNotFound,
	service.ErrInvalidPromoCode,
}

// rootMessage strips the op chain and keeps the sentinel message.
func rootMessage(err error) string {
	for _, target := range publicErrors {
		if errors.Is(err, target) {
			return target.Error()
		}
	}
	return err.Error()
}
