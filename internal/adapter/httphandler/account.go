package httphandler

import (
	"context"
	"net/http"
	"strings"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/service"
)

type AccountService interface {
	Login(ctx context.Context, sessionID, email, password string) (service.ProfileView, error)
	Register(ctx context.Context, sessionID string, r domain.Registration) (service.ProfileView, error)
	Logout(ctx context.Context, sessionID string) error
	Profile(ctx context.Context, sessionID string) (service.ProfileView, error)
	UpdateProfile(
		ctx context.Context, sessionID string, patch domain.ProfilePatch,
	) (service.ProfileView, error)
}

// POST v1/auth/login, v1/auth/register, v1/auth/logout
// GET|PATCH v1/profile
type AccountHandler struct {
	svc AccountService
}

func RegisterAccount(mux *http.ServeMux, svc AccountService) {
	h := AccountHandler{svc}
	mux.HandleFunc("POST /v1/auth/login", h.PostLogin)
	mux.HandleFunc("POST /v1/auth/register", h.PostRegister)
	mux.HandleFunc("POST /v1/auth/logout", h.PostLogout)
	mux.HandleFunc("GET /v1/profile", h.GetProfile)
	mux.HandleFunc("PATCH /v1/profile", h.PatchProfile)
}

func (h AccountHandler) PostLogin(w http.ResponseWriter, r *http.Request) {
	const op = "AccountHandler.PostLogin"

	var req LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	v, err := h.svc.Login(r.Context(), sessionID(r), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, toProfile(v))
}

func (h AccountHandler) PostRegister(w http.ResponseWriter, r *http.Request) {
	const op = "AccountHandler.PostRegister"

	var req domain.Registration
	if !decodeJSON(w, r, &req) {
		return
	}

	v, err := h.svc.Register(r.Context(), sessionID(r), req)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusCreated, toProfile(v))
}

func (h AccountHandler) PostLogout(w http.ResponseWriter, r *http.Request) {
	const op = "AccountHandler.PostLogout"

	if err := h.svc.Logout(r.Context(), sessionID(r)); err != nil {
		writeServiceError(w, op, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h AccountHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	const op = "AccountHandler.GetProfile"

	v, err := h.svc.Profile(r.Context(), sessionID(r))
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, toProfile(v))
}

func (h AccountHandler) PatchProfile(w http.ResponseWriter, r *http.Request) {
	const op = "AccountHandler.PatchProfile"

	var patch domain.ProfilePatch
	if !decodeJSON(w, r, &patch) {
		return
	}

	v, err := h.svc.UpdateProfile(r.Context(), sessionID(r), patch)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, toProfile(v))
}
