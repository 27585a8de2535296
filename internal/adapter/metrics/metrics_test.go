package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddleware(t *testing.T) {
	m := New()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/products/{slug}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	h := m.Middleware(mux)

	for range 2 {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/products/missing", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	assert.Equal(t, 2.0, testutil.ToFloat64(
		m.httpRequests.WithLabelValues("GET", "GET /v1/products/{slug}", "404"),
	))
	assert.Equal(t, 1.0, testutil.ToFloat64(
		m.httpRequests.WithLabelValues("GET", "unmatched", "404"),
	))
}

func TestActivityListener(t *testing.T) {
	m := New()
	listen := m.ActivityListener()

	listen(domain.Activity{Kind: domain.ActivityCartAdd})
	listen(domain.Activity{Kind: domain.ActivityCartAdd})
	listen(domain.Activity{Kind: domain.ActivityLogout})

	assert.Equal(t, 2.0, testutil.ToFloat64(m.activity.WithLabelValues("cart_add")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.activity.WithLabelValues("logout")))
}

func TestHandler(t *testing.T) {
	m := New()
	m.ActivityListener()(domain.Activity{Kind: domain.ActivityWishlistAdd})

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(
		string(body), `storefront_shop_activity_total{kind="wishlist_add"} 1`,
	))
}
