package catalog

import "github.com/niksmo/storefront/internal/core/domain"

// Browser keeps the listing state of one shopper: the active filters and
// the current page. Any change to filters, search or sort moves back to
// page 1.
type Browser struct {
	filters domain.ProductFilters
	page    int
	perPage int
}

func NewBrowser(perPage int) *Browser {
	if perPage <= 0 {
		perPage = DefaultItemsPerPage
	}
	return &Browser{
		filters: domain.ProductFilters{SortBy: domain.SortNewest},
		page:    1,
		perPage: perPage,
	}
}

func (b *Browser) Filters() domain.ProductFilters {
	return b.filters
}

func (b *Browser) Page() int {
	return b.page
}

func (b *Browser) SetFilters(f domain.ProductFilters) {
	b.filters = f
	b.page = 1
}

func (b *Browser) SetSearch(q string) {
	b.filters.Search = q
	b.page = 1
}

func (b *Browser) SetSort(by domain.SortBy) {
	b.filters.SortBy = by
	b.page = 1
}

func (b *Browser) SetPage(page int) {
	if page < 1 {
		page = 1
	}
	b.page = page
}

// Result runs the pipeline over products with the current state.
func (b *Browser) Result(products []domain.Product, categories []domain.Category) Page {
	filtered := Filter(products, categories, b.filters)
	return Paginate(filtered, b.page, b.perPage)
}
