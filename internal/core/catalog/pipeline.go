package catalog

import (
	"cmp"
	"slices"
	"strings"

	"github.com/niksmo/storefront/internal/core/domain"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

const (
	DefaultItemsPerPage = 12
	DefaultRelatedLimit = 4
)

type Page struct {
	Items        []domain.Product `json:"items"`
	CurrentPage  int              `json:"current_page"`
	TotalPages   int              `json:"total_pages"`
	ItemsPerPage int              `json:"items_per_page"`
	TotalItems   int              `json:"total_items"`
}

// Filter narrows and orders products in a fixed sequence: text search,
// category, price range, rating, stock, then sort. The input slice is not
// modified.
func Filter(
	products []domain.Product, categories []domain.Category, f domain.ProductFilters,
) []domain.Product {
	out := make([]domain.Product, 0, len(products))
	categoryName, hasCategory := categoryNameBySlug(categories, f.Category)
	query := strings.ToLower(strings.TrimSpace(f.Search))

	for _, p := range products {
		if query != "" && !matchText(p, query) {
			continue
		}
		if hasCategory && p.Category != categoryName {
			continue
		}
		if f.MinPrice != nil && p.Price < *f.MinPrice {
			continue
		}
		if f.MaxPrice != nil && p.Price > *f.MaxPrice {
			continue
		}
		if f.Rating != nil && p.Rating < *f.Rating {
			continue
		}
		if f.InStock && p.Stock <= 0 {
			continue
		}
		out = append(out, p)
	}

	Sort(out, f.SortBy)
	return out
}

// Sort orders products in place. An empty SortBy means newest first.
func Sort(products []domain.Product, by domain.SortBy) {
	switch by {
	case domain.SortPriceAsc:
		slices.SortStableFunc(products, func(a, b domain.Product) int {
			return cmp.Compare(a.Price, b.Price)
		})
	case domain.SortPriceDesc:
		slices.SortStableFunc(products, func(a, b domain.Product) int {
			return cmp.Compare(b.Price, a.Price)
		})
	case domain.SortName:
		c := collate.New(language.French)
		slices.SortStableFunc(products, func(a, b domain.Product) int {
			return c.CompareString(a.Name, b.Name)
		})
	case domain.SortRating:
		slices.SortStableFunc(products, func(a, b domain.Product) int {
			return cmp.Compare(b.Rating, a.Rating)
		})
	case domain.SortNewest, "":
		slices.SortStableFunc(products, func(a, b domain.Product) int {
			return b.CreatedAt.Compare(a.CreatedAt)
		})
	}
}

// Paginate slices products into pages of perPage items. Pages are 1-based;
// a page below 1 is treated as 1 and a page past the end is empty.
func Paginate(products []domain.Product, page, perPage int) Page {
	if perPage <= 0 {
		perPage = DefaultItemsPerPage
	}
	if page < 1 {
		page = 1
	}

	total := len(products)
	p := Page{
		Items:        []domain.Product{},
		CurrentPage:  page,
		TotalPages:   (total + perPage - 1) / perPage,
		ItemsPerPage: perPage,
		TotalItems:   total,
	}

	start := (page - 1) * perPage
	if start >= total {
		return p
	}
	end := min(start+perPage, total)
	p.Items = products[start:end]
	return p
}

// Related returns up to limit products of the same category, excluding
// the product itself, in catalog order.
func Related(p domain.Product, all []domain.Product, limit int) []domain.Product {
	if limit <= 0 {
		limit = DefaultRelatedLimit
	}
	out := make([]domain.Product, 0, limit)
	for _, other := range all {
		if len(out) == limit {
			break
		}
		if other.Category == p.Category && other.ID != p.ID {
			out = append(out, other)
		}
	}
	return out
}

// WithCounts sets ProductsCount of each category from the product list.
func WithCounts(categories []domain.Category, products []domain.Product) []domain.Category {
	counts := make(map[string]int, len(categories))
	for _, p := range products {
		counts[p.Category]++
	}
	out := make([]domain.Category, len(categories))
	for i, c := range categories {
		c.ProductsCount = counts[c.Name]
		out[i] = c
	}
	return out
}

func categoryNameBySlug(categories []domain.Category, slug string) (string, bool) {
	if slug == "" {
		return "", false
	}
	for _, c := range categories {
		if c.Slug == slug {
			return c.Name, true
		}
	}
	return "", false
}

func matchText(p domain.Product, query string) bool {
	return strings.Contains(strings.ToLower(p.Name), query) ||
		strings.Contains(strings.ToLower(p.Description), query) ||
		strings.Contains(strings.ToLower(p.Category), query)
}
