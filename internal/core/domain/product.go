package domain

import (
	"errors"
	"fmt"
	"time"
)

const lowStockLimit = 10

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrInvalidProduct   = errors.New("invalid product")
	ErrInvalidCategory  = errors.New("invalid category")
)

type StockStatus string

const (
	InStock    StockStatus = "in_stock"
	LowStock   StockStatus = "low_stock"
	OutOfStock StockStatus = "out_of_stock"
)

type Product struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Price         float64   `json:"price"`
	OriginalPrice *float64  `json:"original_price,omitempty"`
	Discount      *int      `json:"discount,omitempty"`
	Image         string    `json:"image"`
	Images        []string  `json:"images,omitempty"`
	Category      string    `json:"category"`
	Stock         int       `json:"stock"`
	Rating        float64   `json:"rating"`
	ReviewsCount  int       `json:"reviews_count"`
	Brand         string    `json:"brand,omitempty"`
	Slug          string    `json:"slug"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// StockStatus is only informative, nothing bounds cart quantities by stock.
func (p Product) StockStatus() StockStatus {
	switch {
	case p.Stock <= 0:
		return OutOfStock
	case p.Stock < lowStockLimit:
		return LowStock
	default:
		return InStock
	}
}

// Validate checks the fields the catalog relies on. Rating is 0..5, stock
// and price are never negative.
func (p Product) Validate() error {
	switch {
	case p.Name == "", p.Slug == "", p.Category == "":
		return fmt.Errorf("%w: name, slug and category are required", ErrInvalidProduct)
	case p.Price < 0:
		return fmt.Errorf("%w: negative price", ErrInvalidProduct)
	case p.Stock < 0:
		return fmt.Errorf("%w: negative stock", ErrInvalidProduct)
	case p.Rating < 0 || p.Rating > 5:
		return fmt.Errorf("%w: rating out of range", ErrInvalidProduct)
	}
	return nil
}

type ProductPatch struct {
	Name          *string   `json:"name,omitempty"`
	Description   *string   `json:"description,omitempty"`
	Price         *float64  `json:"price,omitempty"`
	OriginalPrice *float64  `json:"original_price,omitempty"`
	Discount      *int      `json:"discount,omitempty"`
	Image         *string   `json:"image,omitempty"`
	Images        *[]string `json:"images,omitempty"`
	Category      *string   `json:"category,omitempty"`
	Stock         *int      `json:"stock,omitempty"`
	Rating        *float64  `json:"rating,omitempty"`
	ReviewsCount  *int      `json:"reviews_count,omitempty"`
	Brand         *string   `json:"brand,omitempty"`
	Slug          *string   `json:"slug,omitempty"`
}

// Apply merges the set fields into p and refreshes UpdatedAt.
func (pp ProductPatch) Apply(p Product, now time.Time) Product {
	if pp.Name != nil {
		p.Name = *pp.Name
	}
	if pp.Description != nil {
		p.Description = *pp.Description
	}
	if pp.Price != nil {
		p.Price = *pp.Price
	}
	if pp.OriginalPrice != nil {
		p.OriginalPrice = pp.OriginalPrice
	}
	if pp.Discount != nil {
		p.Discount = pp.Discount
	}
	if pp.Image != nil {
		p.Image = *pp.Image
	}
	if pp.Images != nil {
		p.Images = *pp.Images
	}
	if pp.Category != nil {
		p.Category = *pp.Category
	}
	if pp.Stock != nil {
		p.Stock = *pp.Stock
	}
	if pp.Rating != nil {
		p.Rating = *pp.Rating
	}
	if pp.ReviewsCount != nil {
		p.ReviewsCount = *pp.ReviewsCount
	}
	if pp.Brand != nil {
		p.Brand = *pp.Brand
	}
	if pp.Slug != nil {
		p.Slug = *pp.Slug
	}
	p.UpdatedAt = now
	return p
}

type Category struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Slug          string `json:"slug"`
	Description   string `json:"description,omitempty"`
	Image         string `json:"image,omitempty"`
	ProductsCount int    `json:"products_count"`
}

func (c Category) Validate() error {
	if c.Name == "" || c.Slug == "" {
		return fmt.Errorf("%w: name and slug are required", ErrInvalidCategory)
	}
	return nil
}

type CategoryPatch struct {
	Name        *string `json:"name,omitempty"`
	Slug        *string `json:"slug,omitempty"`
	Description *string `json:"description,omitempty"`
	Image       *string `json:"image,omitempty"`
}

func (cp CategoryPatch) Apply(c Category) Category {
	if cp.Name != nil {
		c.Name = *cp.Name
	}
	if cp.Slug != nil {
		c.Slug = *cp.Slug
	}
	if cp.Description != nil {
		c.Description = *cp.Description
	}
	if cp.Image != nil {
		c.Image = *cp.Image
	}
	return c
}

type SortBy string

const (
	SortPriceAsc  SortBy = "price-asc"
	SortPriceDesc SortBy = "price-desc"
	SortName      SortBy = "name"
	SortRating    SortBy = "rating"
	SortNewest    SortBy = "newest"
)

func (s SortBy) Valid() bool {
	switch s {
	case SortPriceAsc, SortPriceDesc, SortName, SortRating, SortNewest:
		return true
	}
	return false
}

// ProductFilters is a query descriptor over the catalog. Nil bounds are
// not applied. Category holds a category slug.
type ProductFilters struct {
	Category string
	MinPrice *float64
	MaxPrice *float64
	Rating   *float64
	InStock  bool
	SortBy   SortBy
	Search   string
}
