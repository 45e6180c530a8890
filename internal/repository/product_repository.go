package repository

import (
	"context"
	"fmt"

	"garden-store/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// productRepository implements the ProductRepository interface using PostgreSQL.
type productRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(pool *pgxpool.Pool, logger zerolog.Logger) ProductRepository {
	return &productRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "product").Logger(),
	}
}

const productColumns = "id, name, description, price, quantity, category, photo, created_at"

// scanProduct reads one product row. Description and photo are nullable.
func scanProduct(row pgx.Row) (*model.Product, error) {
	var p model.Product
	var description *string
	err := row.Scan(&p.ID, &p.Name, &description, &p.Price, &p.Quantity, &p.Category, &p.Photo, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	if description != nil {
		p.Description = *description
	}
	return &p, nil
}

// GetAll retrieves all products, optionally restricted to rows with stock.
func (r *productRepository) GetAll(ctx context.Context, inStockOnly bool) ([]model.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		ORDER BY name
	`
	if inStockOnly {
		query = `
			SELECT ` + productColumns + `
			FROM products
			WHERE quantity > 0
			ORDER BY name
		`
	}

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		r.logger.Error().Err(err).Bool("in_stock_only", inStockOnly).Msg("failed to query products")
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []model.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan product row")
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, *p)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating product rows")
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// GetByID retrieves a single product by its ID.
func (r *productRepository) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE id = $1
	`

	p, err := scanProduct(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Int64("product_id", id).Msg("product not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Int64("product_id", id).Msg("failed to query product")
		return nil, fmt.Errorf("failed to query product: %w", err)
	}

	return p, nil
}

// Create inserts a new product and fills in its generated columns.
func (r *productRepository) Create(ctx context.Context, p *model.Product) error {
	query := `
		INSERT INTO products (name, description, price, quantity, category, photo)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err := r.pool.QueryRow(ctx, query,
		p.Name, nullable(p.Description), p.Price, p.Quantity, p.Category, p.Photo,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		r.logger.Error().Err(err).Str("name", p.Name).Msg("failed to create product")
		return fmt.Errorf("failed to create product: %w", err)
	}

	r.logger.Debug().Int64("product_id", p.ID).Str("name", p.Name).Msg("product created")
	return nil
}

// Update replaces all mutable columns of a product.
func (r *productRepository) Update(ctx context.Context, p *model.Product) (bool, error) {
	query := `
		UPDATE products
		SET name = $2, description = $3, price = $4, quantity = $5, category = $6, photo = $7
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query,
		p.ID, p.Name, nullable(p.Description), p.Price, p.Quantity, p.Category, p.Photo,
	)
	if err != nil {
		r.logger.Error().Err(err).Int64("product_id", p.ID).Msg("failed to update product")
		return false, fmt.Errorf("failed to update product: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// Delete removes a product.
func (r *productRepository) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := r.pool.Exec(ctx, "DELETE FROM products WHERE id = $1", id)
	if err != nil {
		r.logger.Error().Err(err).Int64("product_id", id).Msg("failed to delete product")
		return false, fmt.Errorf("failed to delete product: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// GetForUpdate retrieves a product inside a transaction with a row lock.
func (r *productRepository) GetForUpdate(ctx context.Context, tx pgx.Tx, id int64) (*model.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE id = $1
		FOR UPDATE
	`

	p, err := scanProduct(tx.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Int64("product_id", id).Msg("product not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Int64("product_id", id).Msg("failed to lock product row")
		return nil, fmt.Errorf("failed to lock product row: %w", err)
	}

	return p, nil
}

// DecrementStock reduces a product's quantity within the provided transaction.
// The WHERE guard keeps quantity from ever going negative.
func (r *productRepository) DecrementStock(ctx context.Context, tx pgx.Tx, id int64, qty int) (bool, error) {
	query := `
		UPDATE products
		SET quantity = quantity - $2
		WHERE id = $1 AND quantity >= $2
	`

	tag, err := tx.Exec(ctx, query, id, qty)
	if err != nil {
		r.logger.Error().
			Err(err).
			Int64("product_id", id).
			Int("quantity", qty).
			Msg("failed to decrement stock")
		return false, fmt.Errorf("failed to decrement stock: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// nullable maps empty strings to NULL.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
