package httphandler

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/niksmo/storefront/internal/core/catalog"
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/service"
)

type CatalogService interface {
	Products(ctx context.Context, f domain.ProductFilters, page int) (catalog.Page, error)
	Product(ctx context.Context, slug string) (domain.Product, error)
	RelatedProducts(ctx context.Context, slug string) ([]domain.Product, error)
	Reviews(ctx context.Context, slug string) (service.ProductReviews, error)
	Popularity(ctx context.Context, slug string) (domain.Popularity, error)
	Categories(ctx context.Context) ([]domain.Category, error)
}

// GET v1/products?category=&search=&sort=&min_price=&max_price=&rating=&in_stock=&page=
// GET v1/products/{slug}, v1/products/{slug}/related, v1/products/{slug}/popularity
// GET v1/products/{slug}/reviews
// GET v1/categories
type CatalogHandler struct {
	svc CatalogService
}

func RegisterCatalog(mux *http.ServeMux, svc CatalogService) {
	h := CatalogHandler{svc}
	mux.HandleFunc("GET /v1/products", h.GetProducts)
	mux.HandleFunc("GET /v1/products/{slug}", h.GetProduct)
	mux.HandleFunc("GET /v1/products/{slug}/related", h.GetRelated)
	mux.HandleFunc("GET /v1/products/{slug}/popularity", h.GetPopularity)
	mux.HandleFunc("GET /v1/products/{slug}/reviews", h.GetReviews)
	mux.HandleFunc("GET /v1/categories", h.GetCategories)
}

func (h CatalogHandler) GetProducts(w http.ResponseWriter, r *http.Request) {
	const op = "CatalogHandler.GetProducts"

	filters, page, err := parseProductsQuery(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.svc.Products(r.Context(), filters, page)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductsPage(res))
}

func (h CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	const op = "CatalogHandler.GetProduct"

	p, err := h.svc.Product(r.Context(), r.PathValue("slug"))
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, toProduct(p))
}

func (h CatalogHandler) GetRelated(w http.ResponseWriter, r *http.Request) {
	const op = "CatalogHandler.GetRelated"

	ps, err := h.svc.RelatedProducts(r.Context(), r.PathValue("slug"))
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, toProducts(ps))
}

func (h CatalogHandler) GetReviews(w http.ResponseWriter, r *http.Request) {
	const op = "CatalogHandler.GetReviews"

	pr, err := h.svc.Reviews(r.Context(), r.PathValue("slug"))
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, toReviews(pr))
}

func (h CatalogHandler) GetPopularity(w http.ResponseWriter, r *http.Request) {
	const op = "CatalogHandler.GetPopularity"

	p, err := h.svc.Popularity(r.Context(), r.PathValue("slug"))
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h CatalogHandler) GetCategories(w http.ResponseWriter, r *http.Request) {
	const op = "CatalogHandler.GetCategories"

	cs, err := h.svc.Categories(r.Context())
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	if cs == nil {
		cs = []domain.Category{}
	}
	writeJSON(w, http.StatusOK, cs)
}

func parseProductsQuery(q url.Values) (f domain.ProductFilters, page int, err error) {
	f.Category = q.Get("category")
	f.Search = q.Get("search")

	if s := q.Get("sort"); s != "" {
		f.SortBy = domain.SortBy(s)
		if !f.SortBy.Valid() {
			return f, 0, fmt.Errorf("unknown sort %q", s)
		}
	}

	if f.MinPrice, err = optionalFloat(q, "min_price"); err != nil {
		return f, 0, err
	}
	if f.MaxPrice, err = optionalFloat(q, "max_price"); err != nil {
		return f, 0, err
	}
	if f.Rating, err = optionalFloat(q, "rating"); err != nil {
		return f, 0, err
	}

	if s := q.Get("in_stock"); s != "" {
		if f.InStock, err = strconv.ParseBool(s); err != nil {
			return f, 0, fmt.Errorf("invalid in_stock %q", s)
		}
	}

	page = 1
	if s := q.Get("page"); s != "" {
		if page, err = strconv.Atoi(s); err != nil || page < 1 {
			return f, 0, fmt.Errorf("invalid page %q", s)
		}
	}
	return f, page, nil
}

func optionalFloat(q url.Values, key string) (*float64, error) {
	s := q.Get(key)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return nil, fmt.Errorf("invalid %s %q", key, s)
	}
	return &v, nil
}
