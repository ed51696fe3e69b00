// Package pricing turns a cart subtotal into the checkout breakdown shown to
// the shopper: shipping, tax and promo discount.
package pricing

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	FreeShippingOver = decimal.NewFromInt(100)
	FlatShipping     = decimal.RequireFromString("9.99")
	TaxRate          = decimal.RequireFromString("0.08")
)

// promos maps upper-cased codes to the fraction of the subtotal they take off.
var promos = map[string]decimal.Decimal{
	"SAVE20": decimal.RequireFromString("0.20"),
}

var ErrInvalidPromo = errors.New("invalid promo code")

type Summary struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Shipping decimal.Decimal `json:"shipping"`
	Tax      decimal.Decimal `json:"tax"`
	Discount decimal.Decimal `json:"discount"`
	Total    decimal.Decimal `json:"total"`
}

// Summarize prices a subtotal. An empty promo code means no discount; an
// unknown one is rejected. Amounts are rounded to cents.
func Summarize(subtotal decimal.Decimal, promoCode string) (Summary, error) {
	discount := decimal.Zero
	if code := strings.ToUpper(strings.TrimSpace(promoCode)); code != "" {
		rate, ok := promos[code]
		if !ok {
			return Summary{}, ErrInvalidPromo
		}
		discount = subtotal.Mul(rate).Round(2)
	}

	shipping := FlatShipping
	if subtotal.GreaterThan(FreeShippingOver) {
		shipping = decimal.Zero
	}
	tax := subtotal.Mul(TaxRate).Round(2)

	return Summary{
		Subtotal: subtotal.Round(2),
		Shipping: shipping,
		Tax:      tax,
		Discount: discount,
		Total:    subtotal.Add(shipping).Add(tax).Sub(discount).Round(2),
	}, nil
}
