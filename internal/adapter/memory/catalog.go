package memory

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

var _ port.CatalogRepository = (*Catalog)(nil)

type Opt func(*Catalog)

// LatencyOpt delays every call by d, imitating a remote catalog.
func LatencyOpt(d time.Duration) Opt {
	return func(c *Catalog) {
		c.latency = d
	}
}

func NowOpt(now func() time.Time) Opt {
	return func(c *Catalog) {
		c.now = now
	}
}

// ReviewsOpt sets the product reviews the catalog serves.
func ReviewsOpt(reviews []domain.Review) Opt {
	return func(c *Catalog) {
		c.reviews = slices.Clone(reviews)
	}
}

// Catalog is an in-memory catalog repository. Reads return copies.
type Catalog struct {
	mu         sync.RWMutex
	products   []domain.Product
	categories []domain.Category
	reviews    []domain.Review
	latency    time.Duration
	now        func() time.Time
}

func NewCatalog(
	products []domain.Product, categories []domain.Category, opts ...Opt,
) *Catalog {
	c := &Catalog{
		products:   slices.Clone(products),
		categories: slices.Clone(categories),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewSeededCatalog returns a catalog holding the sample data set.
func NewSeededCatalog(opts ...Opt) *Catalog {
	opts = append([]Opt{ReviewsOpt(SeedReviews())}, opts...)
	return NewCatalog(SeedProducts(), SeedCategories(), opts...)
}

func (c *Catalog) ListProducts(ctx context.Context) ([]domain.Product, error) {
	const op = "Catalog.ListProducts"

	if err := c.wait(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.products), nil
}

func (c *Catalog) ListCategories(ctx context.Context) ([]domain.Category, error) {
	const op = "Catalog.ListCategories"

	if err := c.wait(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.categories), nil
}

func (c *Catalog) ProductByID(ctx context.Context, id string) (domain.Product, error) {
	return c.findProduct(ctx, "Catalog.ProductByID", func(p domain.Product) bool {
		return p.ID == id
	})
}

func (c *Catalog) ProductBySlug(ctx context.Context, slug string) (domain.Product, error) {
	return c.findProduct(ctx, "Catalog.ProductBySlug", func(p domain.Product) bool {
		return p.Slug == slug
	})
}

// ReviewsByProduct returns the reviews of a product, newest first.
func (c *Catalog) ReviewsByProduct(ctx context.Context, productID string) ([]domain.Review, error) {
	const op = "Catalog.ReviewsByProduct"

	if err := c.wait(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	var rs []domain.Review
	for _, r := range c.reviews {
		if r.ProductID == productID {
			rs = append(rs, r)
		}
	}
	slices.SortStableFunc(rs, func(a, b domain.Review) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return rs, nil
}

func (c *Catalog) AddProduct(ctx context.Context, p domain.Product) (domain.Product, error) {
	const op = "Catalog.AddProduct"

	if err := c.wait(ctx); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}
	if err := p.Validate(); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	now := c.now()
	p.ID = uuid.NewString()
	p.CreatedAt = now
	p.UpdatedAt = now

	c.mu.Lock()
	if c.slugTaken(p.Slug, "") {
		c.mu.Unlock()
		return domain.Product{}, fmt.Errorf("%s: %w: slug %q is taken", op, domain.ErrInvalidProduct, p.Slug)
	}
	c.products = append(c.products, p)
	c.mu.Unlock()

	slog.Info("product added", "op", op, "id", p.ID, "slug", p.Slug)
	return p, nil
}

func (c *Catalog) UpdateProduct(
	ctx context.Context, id string, patch domain.ProductPatch,
) (domain.Product, error) {
	const op = "Catalog.UpdateProduct"

	if err := c.wait(ctx); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	i := slices.IndexFunc(c.products, func(p domain.Product) bool { return p.ID == id })
	if i < 0 {
		return domain.Product{}, fmt.Errorf("%s: %w", op, domain.ErrProductNotFound)
	}

	updated := patch.Apply(c.products[i], c.now())
	if err := updated.Validate(); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}
	if c.slugTaken(updated.Slug, id) {
		return domain.Product{}, fmt.Errorf(
			"%s: %w: slug %q is taken", op, domain.ErrInvalidProduct, updated.Slug,
		)
	}
	c.products[i] = updated
	return updated, nil
}

func (c *Catalog) DeleteProduct(ctx context.Context, id string) error {
	const op = "Catalog.DeleteProduct"

	if err := c.wait(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	n := len(c.products)
	c.products = slices.DeleteFunc(c.products, func(p domain.Product) bool { return p.ID == id })
	if len(c.products) == n {
		return fmt.Errorf("%s: %w", op, domain.ErrProductNotFound)
	}
	return nil
}

func (c *Catalog) AddCategory(ctx context.Context, cat domain.Category) (domain.Category, error) {
	const op = "Catalog.AddCategory"

	if err := c.wait(ctx); err != nil {
		return domain.Category{}, fmt.Errorf("%s: %w", op, err)
	}
	if err := cat.Validate(); err != nil {
		return domain.Category{}, fmt.Errorf("%s: %w", op, err)
	}

	cat.ID = uuid.NewString()

	c.mu.Lock()
	c.categories = append(c.categories, cat)
	c.mu.Unlock()
	return cat, nil
}

func (c *Catalog) UpdateCategory(
	ctx context.Context, id string, patch domain.CategoryPatch,
) (domain.Category, error) {
	const op = "Catalog.UpdateCategory"

	if err := c.wait(ctx); err != nil {
		return domain.Category{}, fmt.Errorf("%s: %w", op, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	i := slices.IndexFunc(c.categories, func(cat domain.Category) bool { return cat.ID == id })
	if i < 0 {
		return domain.Category{}, fmt.Errorf("%s: %w", op, domain.ErrCategoryNotFound)
	}

	updated := patch.Apply(c.categories[i])
	if err := updated.Validate(); err != nil {
		return domain.Category{}, fmt.Errorf("%s: %w", op, err)
	}
	c.categories[i] = updated
	return updated, nil
}

func (c *Catalog) DeleteCategory(ctx context.Context, id string) error {
	const op = "Catalog.DeleteCategory"

	if err := c.wait(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	n := len(c.categories)
	c.categories = slices.DeleteFunc(c.categories, func(cat domain.Category) bool {
		return cat.ID == id
	})
	if len(c.categories) == n {
		return fmt.Errorf("%s: %w", op, domain.ErrCategoryNotFound)
	}
	return nil
}

func (c *Catalog) findProduct(
	ctx context.Context, op string, match func(domain.Product) bool,
) (domain.Product, error) {
	if err := c.wait(ctx); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	i := slices.IndexFunc(c.products, match)
	if i < 0 {
		return domain.Product{}, fmt.Errorf("%s: %w", op, domain.ErrProductNotFound)
	}
	return c.products[i], nil
}

// slugTaken reports whether a product other than exceptID uses slug.
// The caller holds c.mu.
func (c *Catalog) slugTaken(slug, exceptID string) bool {
	return slices.ContainsFunc(c.products, func(p domain.Product) bool {
		return p.Slug == slug && p.ID != exceptID
	})
}

func (c *Catalog) wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if c.latency <= 0 {
		return nil
	}

	timer := time.NewTimer(c.latency)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
