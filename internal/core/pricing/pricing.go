// Package pricing holds the stateless cart calculators: subtotal, shipping,
// promo discount, tax and total.
//
// The storefront historically used two shipping fees (5.99 on the cart
// page, 4.99 at checkout) and two tax bases (after or before the promo
// discount). Both variants are exported as named constants; DefaultRules
// picks the cart page variant and the config may select the other one.
package pricing

import (
	"fmt"
	"strings"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/shopspring/decimal"
)

const (
	ShippingFeeCart       = 5.99
	ShippingFeeCheckout   = 4.99
	FreeShippingThreshold = 50.0
	TaxRate               = 0.20
)

type TaxBasis string

const (
	// TaxBasisAfterDiscount taxes (subtotal - discount).
	TaxBasisAfterDiscount TaxBasis = "after_discount"
	// TaxBasisSubtotal taxes the subtotal regardless of the discount.
	TaxBasisSubtotal TaxBasis = "subtotal"
)

var defaultPromoCodes = map[string]decimal.Decimal{
	"PROMO10":   decimal.RequireFromString("0.10"),
	"WELCOME20": decimal.RequireFromString("0.20"),
	"SAVE15":    decimal.RequireFromString("0.15"),
}

const centPlaces = 2

type Rules struct {
	ShippingFee           decimal.Decimal
	FreeShippingThreshold decimal.Decimal
	TaxRate               decimal.Decimal
	TaxBasis              TaxBasis
	PromoCodes            map[string]decimal.Decimal
}

func DefaultRules() Rules {
	return Rules{
		ShippingFee:           decimal.NewFromFloat(ShippingFeeCart),
		FreeShippingThreshold: decimal.NewFromFloat(FreeShippingThreshold),
		TaxRate:               decimal.NewFromFloat(TaxRate),
		TaxBasis:              TaxBasisAfterDiscount,
		PromoCodes:            defaultPromoCodes,
	}
}

// NewRules builds rules from configuration values. Promo codes are the
// fixed storefront whitelist.
func NewRules(
	shippingFee, freeShippingThreshold, taxRate float64, basis TaxBasis,
) (Rules, error) {
	const op = "pricing.NewRules"

	switch basis {
	case TaxBasisAfterDiscount, TaxBasisSubtotal:
	default:
		return Rules{}, fmt.Errorf("%s: unknown tax basis %q", op, basis)
	}

	if shippingFee < 0 || freeShippingThreshold < 0 || taxRate < 0 {
		return Rules{}, fmt.Errorf("%s: negative pricing value", op)
	}

	return Rules{
		ShippingFee:           decimal.NewFromFloat(shippingFee),
		FreeShippingThreshold: decimal.NewFromFloat(freeShippingThreshold),
		TaxRate:               decimal.NewFromFloat(taxRate),
		TaxBasis:              basis,
		PromoCodes:            defaultPromoCodes,
	}, nil
}

// Subtotal is Σ price × quantity.
func (r Rules) Subtotal(items []domain.CartItem) decimal.Decimal {
	return Subtotal(items)
}

func (r Rules) Shipping(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.GreaterThanOrEqual(r.FreeShippingThreshold) {
		return decimal.Zero
	}
	return r.ShippingFee
}

func (r Rules) RemainingForFreeShipping(subtotal decimal.Decimal) decimal.Decimal {
	return decimal.Max(decimal.Zero, r.FreeShippingThreshold.Sub(subtotal))
}

// Discount applies the rate of a known promo code; unknown or empty codes
// yield zero.
func (r Rules) Discount(subtotal decimal.Decimal, code string) decimal.Decimal {
	rate, ok := r.promoRate(code)
	if !ok {
		return decimal.Zero
	}
	return subtotal.Mul(rate)
}

func (r Rules) ValidPromoCode(code string) bool {
	_, ok := r.promoRate(code)
	return ok
}

func (r Rules) Tax(subtotal, discount decimal.Decimal) decimal.Decimal {
	base := subtotal
	if r.TaxBasis == TaxBasisAfterDiscount {
		base = subtotal.Sub(discount)
	}
	return base.Mul(r.TaxRate)
}

func (r Rules) Total(subtotal, shipping, tax, discount decimal.Decimal) decimal.Decimal {
	return Total(subtotal, shipping, tax, discount)
}

type Summary struct {
	Subtotal                 decimal.Decimal
	Shipping                 decimal.Decimal
	Tax                      decimal.Decimal
	Discount                 decimal.Decimal
	Total                    decimal.Decimal
	RemainingForFreeShipping decimal.Decimal
	PromoCode                string
	ItemsCount               int
}

// Summarize computes every figure of the cart summary rounded to cents.
// The total is the sum of the rounded parts. An empty cart summarizes to
// zero, shipping included.
func (r Rules) Summarize(items []domain.CartItem, code string) Summary {
	if len(items) == 0 {
		return Summary{RemainingForFreeShipping: r.FreeShippingThreshold}
	}

	subtotal := r.Subtotal(items)
	discount := r.Discount(subtotal, code)
	tax := r.Tax(subtotal, discount)
	shipping := r.Shipping(subtotal)

	s := Summary{
		Subtotal:                 subtotal.Round(centPlaces),
		Shipping:                 shipping.Round(centPlaces),
		Tax:                      tax.Round(centPlaces),
		Discount:                 discount.Round(centPlaces),
		RemainingForFreeShipping: r.RemainingForFreeShipping(subtotal).Round(centPlaces),
		ItemsCount:               ItemsCount(items),
	}
	s.Total = Total(s.Subtotal, s.Shipping, s.Tax, s.Discount)

	if r.ValidPromoCode(code) {
		s.PromoCode = normalizeCode(code)
	}
	return s
}

func (r Rules) promoRate(code string) (decimal.Decimal, bool) {
	if code == "" {
		return decimal.Zero, false
	}
	rate, ok := r.PromoCodes[normalizeCode(code)]
	return rate, ok
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func Subtotal(items []domain.CartItem) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range items {
		line := decimal.NewFromFloat(it.Product.Price).Mul(decimal.NewFromInt(int64(it.Quantity)))
		sum = sum.Add(line)
	}
	return sum
}

func ItemsCount(items []domain.CartItem) int {
	var n int
	for _, it := range items {
		n += it.Quantity
	}
	return n
}

func Shipping(subtotal decimal.Decimal) decimal.Decimal {
	return DefaultRules().Shipping(subtotal)
}

func Discount(subtotal decimal.Decimal, code string) decimal.Decimal {
	return DefaultRules().Discount(subtotal, code)
}

func Tax(subtotal, discount decimal.Decimal) decimal.Decimal {
	return DefaultRules().Tax(subtotal, discount)
}

func Total(subtotal, shipping, tax, discount decimal.Decimal) decimal.Decimal {
	return subtotal.Add(shipping).Add(tax).Sub(discount)
}
