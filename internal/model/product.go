package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents an item in the garden-supply catalogue.
type Product struct {
	ID          int64           `json:"id" db:"id"`
	Name        string          `json:"name" db:"name"`
	Description string          `json:"description,omitempty" db:"description"`
	Price       decimal.Decimal `json:"price" db:"price"`
	Quantity    int             `json:"quantity" db:"quantity"`
	Category    string          `json:"category" db:"category"`
	Photo       *string         `json:"photo,omitempty" db:"photo"`
	CreatedAt   time.Time       `json:"createdAt" db:"created_at"`
}

// ProductInput carries the fields accepted on product create and update.
// Nil fields are left untouched on update.
type ProductInput struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	Quantity    *int
	Category    *string
}

// InStock reports whether the product has any remaining stock.
func (p *Product) InStock() bool {
	return p.Quantity > 0
}
