package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/niksmo/storefront/internal/adapter/memory"
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogRead(t *testing.T) {
	c := memory.NewSeededCatalog()

	ps, err := c.ListProducts(t.Context())
	require.NoError(t, err)
	assert.Len(t, ps, 13)

	cs, err := c.ListCategories(t.Context())
	require.NoError(t, err)
	assert.Len(t, cs, 5)

	p, err := c.ProductBySlug(t.Context(), "airpods-pro-3")
	require.NoError(t, err)
	assert.Equal(t, "3", p.ID)

	p, err = c.ProductByID(t.Context(), "12")
	require.NoError(t, err)
	assert.Equal(t, "Nike", p.Brand)

	_, err = c.ProductBySlug(t.Context(), "missing")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)

	t.Run("ReturnsCopies", func(t *testing.T) {
		ps, err := c.ListProducts(t.Context())
		require.NoError(t, err)
		ps[0].Name = "changed"

		again, err := c.ListProducts(t.Context())
		require.NoError(t, err)
		assert.Equal(t, "iPhone 15 Pro Max", again[0].Name)
	})
}

func TestCatalogReviews(t *testing.T) {
	c := memory.NewSeededCatalog()

	rs, err := c.ReviewsByProduct(t.Context(), "1")
	require.NoError(t, err)
	require.Len(t, rs, 4)
	assert.Equal(t, "r4", rs[0].ID)
	for i := 1; i < len(rs); i++ {
		assert.False(t, rs[i].CreatedAt.After(rs[i-1].CreatedAt))
	}

	rs, err = c.ReviewsByProduct(t.Context(), "2")
	require.NoError(t, err)
	assert.Empty(t, rs)

	bare := memory.NewCatalog(nil, nil)
	rs, err = bare.ReviewsByProduct(t.Context(), "1")
	require.NoError(t, err)
	assert.Empty(t, rs)
}

func TestCatalogProductAdmin(t *testing.T) {
	created := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	clock := created
	c := memory.NewCatalog(nil, nil, memory.NowOpt(func() time.Time { return clock }))

	p, err := c.AddProduct(t.Context(), domain.Product{
		Name:     "Gourde inox",
		Slug:     "gourde-inox",
		Category: "Sport & Fitness",
		Price:    19.9,
		Stock:    5,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, created, p.CreatedAt)

	clock = created.Add(time.Hour)
	price := 24.9
	updated, err := c.UpdateProduct(t.Context(), p.ID, domain.ProductPatch{Price: &price})
	require.NoError(t, err)
	assert.Equal(t, 24.9, updated.Price)
	assert.Equal(t, "Gourde inox", updated.Name)
	assert.Equal(t, clock, updated.UpdatedAt)
	assert.Equal(t, created, updated.CreatedAt)

	negative := -1
	_, err = c.UpdateProduct(t.Context(), p.ID, domain.ProductPatch{Stock: &negative})
	assert.ErrorIs(t, err, domain.ErrInvalidProduct)

	_, err = c.UpdateProduct(t.Context(), "missing", domain.ProductPatch{Price: &price})
	assert.ErrorIs(t, err, domain.ErrProductNotFound)

	require.NoError(t, c.DeleteProduct(t.Context(), p.ID))
	assert.ErrorIs(t, c.DeleteProduct(t.Context(), p.ID), domain.ErrProductNotFound)

	_, err = c.AddProduct(t.Context(), domain.Product{Name: "no slug"})
	assert.ErrorIs(t, err, domain.ErrInvalidProduct)
}

func TestCatalogUniqueSlug(t *testing.T) {
	c := memory.NewSeededCatalog()

	_, err := c.AddProduct(t.Context(), domain.Product{
		Name:     "AirPods copie",
		Slug:     "airpods-pro-3",
		Category: "Électronique",
		Price:    99,
	})
	require.ErrorIs(t, err, domain.ErrInvalidProduct)
	assert.Contains(t, err.Error(), "airpods-pro-3")

	taken := "airpods-pro-3"
	_, err = c.UpdateProduct(t.Context(), "13", domain.ProductPatch{Slug: &taken})
	require.ErrorIs(t, err, domain.ErrInvalidProduct)

	p, err := c.ProductByID(t.Context(), "13")
	require.NoError(t, err)
	assert.Equal(t, "tapis-yoga-premium", p.Slug)

	t.Run("OwnSlugKept", func(t *testing.T) {
		own := "tapis-yoga-premium"
		name := "Tapis de yoga"
		updated, err := c.UpdateProduct(t.Context(), "13", domain.ProductPatch{Slug: &own, Name: &name})
		require.NoError(t, err)
		assert.Equal(t, name, updated.Name)
	})

	ps, err := c.ListProducts(t.Context())
	require.NoError(t, err)
	assert.Len(t, ps, 13)
}

func TestCatalogCategoryAdmin(t *testing.T) {
	c := memory.NewCatalog(nil, nil)

	cat, err := c.AddCategory(t.Context(), domain.Category{Name: "Jardin", Slug: "jardin"})
	require.NoError(t, err)

	desc := "Outils et mobilier de jardin"
	updated, err := c.UpdateCategory(t.Context(), cat.ID, domain.CategoryPatch{Description: &desc})
	require.NoError(t, err)
	assert.Equal(t, desc, updated.Description)

	empty := ""
	_, err = c.UpdateCategory(t.Context(), cat.ID, domain.CategoryPatch{Name: &empty})
	assert.ErrorIs(t, err, domain.ErrInvalidCategory)

	require.NoError(t, c.DeleteCategory(t.Context(), cat.ID))
	assert.ErrorIs(t, c.DeleteCategory(t.Context(), cat.ID), domain.ErrCategoryNotFound)
}

func TestCatalogLatency(t *testing.T) {
	c := memory.NewSeededCatalog(memory.LatencyOpt(time.Hour))

	ctx, cancel := context.WithTimeout(t.Context(), 10*time.Millisecond)
	defer cancel()

	_, err := c.ListProducts(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
