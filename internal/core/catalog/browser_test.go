package catalog_test

import (
	"testing"

	"github.com/niksmo/storefront/internal/adapter/memory"
	"github.com/niksmo/storefront/internal/core/catalog"
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestBrowser(t *testing.T) {
	products := memory.SeedProducts()
	categories := memory.SeedCategories()

	t.Run("Defaults", func(t *testing.T) {
		b := catalog.NewBrowser(0)
		assert.Equal(t, 1, b.Page())
		assert.Equal(t, domain.SortNewest, b.Filters().SortBy)

		page := b.Result(products, categories)
		assert.Len(t, page.Items, catalog.DefaultItemsPerPage)
		assert.Equal(t, "6", page.Items[0].ID)
	})

	t.Run("FilterChangeResetsPage", func(t *testing.T) {
		b := catalog.NewBrowser(5)
		b.SetPage(3)
		assert.Equal(t, 3, b.Page())

		b.SetFilters(domain.ProductFilters{Category: "mode-homme"})
		assert.Equal(t, 1, b.Page())
		assert.Len(t, b.Result(products, categories).Items, 3)
	})

	t.Run("SearchChangeResetsPage", func(t *testing.T) {
		b := catalog.NewBrowser(5)
		b.SetPage(2)
		b.SetSearch("pro")
		assert.Equal(t, 1, b.Page())
		assert.Equal(t, "pro", b.Filters().Search)
	})

	t.Run("SortChangeResetsPage", func(t *testing.T) {
		b := catalog.NewBrowser(5)
		b.SetPage(2)
		b.SetSort(domain.SortPriceAsc)
		assert.Equal(t, 1, b.Page())
		assert.Equal(t, "13", b.Result(products, categories).Items[0].ID)
	})

	t.Run("SetPageKeepsFilters", func(t *testing.T) {
		b := catalog.NewBrowser(2)
		b.SetFilters(domain.ProductFilters{Category: "electronique", SortBy: domain.SortPriceAsc})
		b.SetPage(2)

		page := b.Result(products, categories)
		assert.Equal(t, 2, page.CurrentPage)
		assert.Equal(t, 2, page.TotalPages)
		assert.Equal(t, []string{"2"}, ids(page.Items))
	})

	t.Run("NonPositivePage", func(t *testing.T) {
		b := catalog.NewBrowser(2)
		b.SetPage(-4)
		assert.Equal(t, 1, b.Page())
	})
}
