package store

import (
	"github.com/shopspring/decimal"

	cartResponse "github.com/mahardika/storefront/cart/pkg/response"
)

// taxRate is the fixed 18% GST applied on top of the subtotal.
var taxRate = decimal.RequireFromString("0.18")

// ComputeTotals is pure and deterministic over the given lines:
// subtotal = Σ(price × quantity), tax = subtotal × 0.18, total = subtotal + tax.
// All three are rounded to 2 decimal places, the currency's minor unit. Cart
// display and checkout both use this, so they can never disagree.
func ComputeTotals(lines []cartResponse.CartLine) cartResponse.Totals {
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.Price.Mul(decimal.NewFromInt32(l.Quantity)))
	}
	subtotal = subtotal.Round(2)
	tax := subtotal.Mul(taxRate).Round(2)
	return cartResponse.Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal.Add(tax).Round(2),
	}
}
