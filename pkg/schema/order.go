package schema

import (
	"time"

	"github.com/hamba/avro/v2"
)

// Amounts travel as decimal strings ("107.99") so no precision is lost.
const OrderPlacedSchemaTextV1 = `{
	"type": "record",
	"namespace": "storefront.orders",
	"name": "order_placed",
	"fields": [
		{"name": "order_id", "type": "string"},
		{"name": "user_id", "type": "string"},
		{"name": "session_id", "type": "string"},
		{"name": "items", "type": {
			"type": "array",
			"items": {
				"type": "record",
				"name": "order_item",
				"fields": [
					{"name": "product_id", "type": "string"},
					{"name": "product_name", "type": "string"},
					{"name": "quantity", "type": "int"},
					{"name": "price", "type": "string"},
					{"name": "image", "type": "string"}
				]
			}
		}},
		{"name": "totals", "type": {
			"type": "record",
			"name": "order_totals",
			"fields": [
				{"name": "subtotal", "type": "string"},
				{"name": "shipping", "type": "string"},
				{"name": "tax", "type": "string"},
				{"name": "discount", "type": "string"},
				{"name": "total", "type": "string"},
				{"name": "promo_code", "type": "string"}
			]
		}},
		{"name": "shipping_address", "type": {
			"type": "record",
			"name": "shipping_address",
			"fields": [
				{"name": "first_name", "type": "string"},
				{"name": "last_name", "type": "string"},
				{"name": "address", "type": "string"},
				{"name": "city", "type": "string"},
				{"name": "postal_code", "type": "string"},
				{"name": "country", "type": "string"},
				{"name": "phone", "type": "string"}
			]
		}},
		{"name": "payment_method", "type": "string"},
		{"name": "payment_status", "type": "string"},
		{"name": "order_status", "type": "string"},
		{"name": "created_at", "type": {"type": "long", "logicalType": "timestamp-millis"}}
	]
}`

type (
	OrderPlacedV1 struct {
		OrderID         string            `avro:"order_id"`
		UserID          string            `avro:"user_id"`
		SessionID       string            `avro:"session_id"`
		Items           []OrderItemV1     `avro:"items"`
		Totals          OrderTotalsV1     `avro:"totals"`
		ShippingAddress ShippingAddressV1 `avro:"shipping_address"`
		PaymentMethod   string            `avro:"payment_method"`
		PaymentStatus   string            `avro:"payment_status"`
		OrderStatus     string            `avro:"order_status"`
		CreatedAt       time.Time         `avro:"created_at"`
	}

	OrderItemV1 struct {
		ProductID   string `avro:"product_id"`
		ProductName string `avro:"product_name"`
		Quantity    int    `avro:"quantity"`
		Price       string `avro:"price"`
		Image       string `avro:"image"`
	}

	OrderTotalsV1 struct {
		Subtotal  string `avro:"subtotal"`
		Shipping  string `avro:"shipping"`
		Tax       string `avro:"tax"`
		Discount  string `avro:"discount"`
		Total     string `avro:"total"`
		PromoCode string `avro:"promo_code"`
	}

	ShippingAddressV1 struct {
		FirstName  string `avro:"first_name"`
		LastName   string `avro:"last_name"`
		Address    string `avro:"address"`
		City       string `avro:"city"`
		PostalCode string `avro:"postal_code"`
		Country    string `avro:"country"`
		Phone      string `avro:"phone"`
	}
)

// OrderPlacedV1Avro panics if the schema text is broken.
func OrderPlacedV1Avro() avro.Schema {
	return avro.MustParse(OrderPlacedSchemaTextV1)
}
