package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order represents a customer pickup order. Orders are immutable once created.
type Order struct {
	ID              uuid.UUID `json:"id" db:"id"`
	CustomerName    string    `json:"customer_name" db:"customer_name"`
	Phone           string    `json:"phone" db:"phone"`
	DesiredPickupAt time.Time `json:"desired_pickup_at" db:"desired_pickup_at"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}

// OrderItem is a line item in an order. Name and unit price are snapshots
// taken at order time, so later catalogue changes never touch past orders.
type OrderItem struct {
	ID        uuid.UUID       `json:"-" db:"id"`
	OrderID   uuid.UUID       `json:"-" db:"order_id"`
	ProductID int64           `json:"id" db:"product_id"`
	Name      string          `json:"name" db:"name"`
	UnitPrice decimal.Decimal `json:"unit_price" db:"unit_price"`
	Quantity  int             `json:"qty" db:"quantity"`
}

// OrderRequest represents the request payload for placing an order.
type OrderRequest struct {
	CustomerName    string             `json:"customer_name"`
	Phone           string             `json:"phone"`
	Items           []OrderItemRequest `json:"items"`
	DesiredDatetime string             `json:"desired_datetime"`
}

// OrderItemRequest is a single (product id, quantity) pair in an order request.
type OrderItemRequest struct {
	ProductID int64 `json:"id"`
	Quantity  int   `json:"qty"`
}

// OrderResponse represents the response payload for a placed order.
type OrderResponse struct {
	ID              uuid.UUID   `json:"id"`
	CustomerName    string      `json:"customer_name"`
	Phone           string      `json:"phone"`
	DesiredPickupAt time.Time   `json:"desired_pickup_at"`
	Items           []OrderItem `json:"items"`
	CreatedAt       time.Time   `json:"created_at"`
}
