package domain

import "time"

type ActivityKind string

const (
	ActivityCartAdd        ActivityKind = "cart_add"
	ActivityCartUpdate     ActivityKind = "cart_update"
	ActivityCartRemove     ActivityKind = "cart_remove"
	ActivityCartClear      ActivityKind = "cart_clear"
	ActivityWishlistAdd    ActivityKind = "wishlist_add"
	ActivityWishlistRemove ActivityKind = "wishlist_remove"
	ActivityWishlistClear  ActivityKind = "wishlist_clear"
	ActivityLogin          ActivityKind = "login"
	ActivityLogout         ActivityKind = "logout"
)

// Activity describes one shopper action on a session.
type Activity struct {
	SessionID string       `json:"session_id"`
	Kind      ActivityKind `json:"kind"`
	ProductID string       `json:"product_id,omitempty"`
	Quantity  int          `json:"quantity,omitempty"`
	At        time.Time    `json:"at"`
}

// Popularity is the number of units of a product added to carts across
// all sessions.
type Popularity struct {
	ProductID string `json:"product_id"`
	CartAdds  int64  `json:"cart_adds"`
}
