package response

import (
	"github.com/shopspring/decimal"
)

// CartLine is one product entry with quantity inside the user's cart. LineID
// is the server assigned identity; the client never invents one.
type CartLine struct {
	LineID    string          `json:"id"`
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Image     string          `json:"image,omitempty"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int32           `json:"quantity"`
}

type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

type Cart struct {
	Lines      []CartLine `json:"lines"`
	Totals     Totals     `json:"totals"`
	LoadFailed bool       `json:"loadFailed,omitempty"`
}
