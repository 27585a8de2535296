package httphandler

import (
	"context"
	"net/http"

	"github.com/niksmo/storefront/internal/core/domain"
)

type ContactService interface {
	SubmitContact(ctx context.Context, m domain.ContactMessage) (domain.ContactReceipt, error)
}

// POST v1/contact
type ContactHandler struct {
	svc ContactService
}

func RegisterContact(mux *http.ServeMux, svc ContactService) {
	h := ContactHandler{svc}
	mux.HandleFunc("POST /v1/contact", h.PostMessage)
}

func (h ContactHandler) PostMessage(w http.ResponseWriter, r *http.Request) {
	const op = "ContactHandler.PostMessage"

	var m domain.ContactMessage
	if !decodeJSON(w, r, &m) {
		return
	}

	receipt, err := h.svc.SubmitContact(r.Context(), m)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusAccepted, receipt)
}
