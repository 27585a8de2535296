package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type CheckoutPayment string

const (
	CheckoutCard   CheckoutPayment = "card"
	CheckoutPayPal CheckoutPayment = "paypal"
	CheckoutCash   CheckoutPayment = "cash"
)

type ShippingAddress struct {
	FirstName  string `json:"first_name" validate:"notblank"`
	LastName   string `json:"last_name" validate:"notblank"`
	Address    string `json:"address" validate:"notblank"`
	City       string `json:"city" validate:"notblank"`
	PostalCode string `json:"postal_code" validate:"notblank,postal_code_fr"`
	Country    string `json:"country"`
	Phone      string `json:"phone" validate:"notblank,phone_fr"`
}

type CardDetails struct {
	CardNumber string `json:"card_number" validate:"notblank,card_number"`
	CardName   string `json:"card_name" validate:"notblank"`
	ExpiryDate string `json:"expiry_date" validate:"notblank,card_expiry"`
	CVV        string `json:"cvv" validate:"notblank,card_cvv"`
}

type CheckoutForm struct {
	ShippingAddress ShippingAddress `json:"shipping_address"`
	PaymentMethod   CheckoutPayment `json:"payment_method"`
	CardDetails     *CardDetails    `json:"card_details,omitempty"`
}

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
)

type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

type OrderItem struct {
	ProductID   string
	ProductName string
	Quantity    int
	Price       decimal.Decimal
	Image       string
}

type OrderTotals struct {
	Subtotal  decimal.Decimal
	Shipping  decimal.Decimal
	Tax       decimal.Decimal
	Discount  decimal.Decimal
	Total     decimal.Decimal
	PromoCode string
}

type Order struct {
	ID              string
	UserID          string
	SessionID       string
	Items           []OrderItem
	Totals          OrderTotals
	ShippingAddress ShippingAddress
	PaymentMethod   CheckoutPayment
	PaymentStatus   PaymentStatus
	OrderStatus     OrderStatus
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
