package httphandler

import (
	"context"
	"net/http"

	"github.com/niksmo/storefront/internal/core/domain"
)

type AdminService interface {
	AddProduct(ctx context.Context, p domain.Product) (domain.Product, error)
	UpdateProduct(ctx context.Context, id string, patch domain.ProductPatch) (domain.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	AddCategory(ctx context.Context, c domain.Category) (domain.Category, error)
	UpdateCategory(ctx context.Context, id string, patch domain.CategoryPatch) (domain.Category, error)
	DeleteCategory(ctx context.Context, id string) error
}

// POST v1/admin/products, PATCH|DELETE v1/admin/products/{id}
// POST v1/admin/categories, PATCH|DELETE v1/admin/categories/{id}
type AdminHandler struct {
	svc AdminService
}

func RegisterAdmin(mux *http.ServeMux, svc AdminService) {
	h := AdminHandler{svc}
	mux.HandleFunc("POST /v1/admin/products", h.PostProduct)
	mux.HandleFunc("PATCH /v1/admin/products/{id}", h.PatchProduct)
	mux.HandleFunc("DELETE /v1/admin/products/{id}", h.DeleteProduct)
	mux.HandleFunc("POST /v1/admin/categories", h.PostCategory)
	mux.HandleFunc("PATCH /v1/admin/categories/{id}", h.PatchCategory)
	mux.HandleFunc("DELETE /v1/admin/categories/{id}", h.DeleteCategory)
}

func (h AdminHandler) PostProduct(w http.ResponseWriter, r *http.Request) {
	const op = "AdminHandler.PostProduct"

	var p domain.Product
	if !decodeJSON(w, r, &p) {
		return
	}

	added, err := h.svc.AddProduct(r.Context(), p)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusCreated, toProduct(added))
}

func (h AdminHandler) PatchProduct(w http.ResponseWriter, r *http.Request) {
	const op = "AdminHandler.PatchProduct"

	var patch domain.ProductPatch
	if !decodeJSON(w, r, &patch) {
		return
	}

	p, err := h.svc.UpdateProduct(r.Context(), r.PathValue("id"), patch)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, toProduct(p))
}

func (h AdminHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	const op = "AdminHandler.DeleteProduct"

	if err := h.svc.DeleteProduct(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, op, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h AdminHandler) PostCategory(w http.ResponseWriter, r *http.Request) {
	const op = "AdminHandler.PostCategory"

	var c domain.Category
	if !decodeJSON(w, r, &c) {
		return
	}

	added, err := h.svc.AddCategory(r.Context(), c)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusCreated, added)
}

func (h AdminHandler) PatchCategory(w http.ResponseWriter, r *http.Request) {
	const op = "AdminHandler.PatchCategory"

	var patch domain.CategoryPatch
	if !decodeJSON(w, r, &patch) {
		return
	}

	c, err := h.svc.UpdateCategory(r.Context(), r.PathValue("id"), patch)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h AdminHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	const op = "AdminHandler.DeleteCategory"

	if err := h.svc.DeleteCategory(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, op, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
