package service

import (
	"context"
	"io"

	"garden-store/internal/model"

	"github.com/google/uuid"
)

// PhotoUpload carries an uploaded product photo through the service layer.
type PhotoUpload struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

// ProductService defines operations for catalogue management.
type ProductService interface {
	// List retrieves the catalogue. Out-of-stock rows are included only
	// for admin callers.
	List(ctx context.Context, includeOutOfStock bool) ([]model.Product, error)

	// Get retrieves a single product. Non-admin callers see out-of-stock
	// products as not found.
	Get(ctx context.Context, id int64, includeOutOfStock bool) (*model.Product, error)

	// Create adds a product to the catalogue, storing the photo if one
	// is supplied. Name, price, quantity and category are required.
	Create(ctx context.Context, input model.ProductInput, photo *PhotoUpload) (*model.Product, error)

	// Update partially replaces a product's fields. The photo is
	// replaced only when a new one is supplied.
	Update(ctx context.Context, id int64, input model.ProductInput, photo *PhotoUpload) (*model.Product, error)

	// Delete removes a product from the catalogue. Existing order
	// records keep their item snapshots.
	Delete(ctx context.Context, id int64) error
}

// CartService defines operations on the session cart.
type CartService interface {
	// View returns the session's cart lines and total.
	View(ctx context.Context, sessionID string) (*model.CartView, error)

	// Add puts a product into the session cart, snapshotting its name
	// and price. Adding the same product again accumulates quantity.
	Add(ctx context.Context, sessionID string, productID int64, quantity int) (model.CartLine, error)

	// Remove drops a product's line from the session cart.
	Remove(ctx context.Context, sessionID string, productID int64) error

	// Clear discards the whole session cart.
	Clear(ctx context.Context, sessionID string) error
}

// OrderService defines operations for order intake.
type OrderService interface {
	// PlaceOrder validates the pickup window and phone, atomically
	// reserves stock for every line, and persists the order. Stock is
	// either reserved for all lines or for none.
	PlaceOrder(ctx context.Context, req *model.OrderRequest) (*model.OrderResponse, error)

	// GetByID retrieves an order with its item snapshots.
	GetByID(ctx context.Context, id uuid.UUID) (*model.OrderResponse, error)
}
