package model

import "github.com/shopspring/decimal"

// CartLine is one product in a session cart. Name and unit price are
// snapshots taken when the product was added.
type CartLine struct {
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
}

// Subtotal returns unit price multiplied by quantity.
func (l CartLine) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// CartView is the client-facing cart representation.
type CartView struct {
	Lines []CartLine      `json:"lines"`
	Total decimal.Decimal `json:"total"`
}

// CartAddRequest represents the request payload for adding a product to the cart.
type CartAddRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}
