package domain

import (
	"errors"
	"time"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be positive")
	ErrEmptyCart       = errors.New("cart is empty")
)

type CartItem struct {
	Product       Product   `json:"product"`
	Quantity      int       `json:"quantity"`
	SelectedSize  string    `json:"selected_size,omitempty"`
	SelectedColor string    `json:"selected_color,omitempty"`
	AddedAt       time.Time `json:"added_at"`
}

type WishlistItem struct {
	Product Product   `json:"product"`
	AddedAt time.Time `json:"added_at"`
}
