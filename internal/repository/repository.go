package repository

import (
	"context"

	"garden-store/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ProductRepository defines the interface for catalogue data access.
type ProductRepository interface {
	// GetAll retrieves all products, optionally restricted to rows with
	// remaining stock, ordered by name.
	GetAll(ctx context.Context, inStockOnly bool) ([]model.Product, error)

	// GetByID retrieves a single product by its ID. Returns (nil, nil)
	// when the product does not exist.
	GetByID(ctx context.Context, id int64) (*model.Product, error)

	// Create inserts a new product and fills in its generated ID and
	// creation timestamp.
	Create(ctx context.Context, p *model.Product) error

	// Update replaces all mutable columns of a product. Returns false
	// when the product does not exist.
	Update(ctx context.Context, p *model.Product) (bool, error)

	// Delete removes a product. Returns false when the product does not exist.
	Delete(ctx context.Context, id int64) (bool, error)

	// GetForUpdate retrieves a product inside a transaction with a row
	// lock, so concurrent order placement cannot oversell it. Returns
	// (nil, nil) when the product does not exist.
	GetForUpdate(ctx context.Context, tx pgx.Tx, id int64) (*model.Product, error)

	// DecrementStock reduces a product's quantity within the provided
	// transaction. Returns false when remaining stock is insufficient.
	DecrementStock(ctx context.Context, tx pgx.Tx, id int64, qty int) (bool, error)
}

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// CreateOrder inserts a new order within the provided transaction.
	CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// CreateOrderItems inserts the order's item snapshots within the
	// provided transaction.
	CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error

	// GetByID retrieves an order by its ID along with its items.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, []model.OrderItem, error)
}
