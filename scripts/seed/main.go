// Command seed creates the garden-store schema if it does not exist and
// inserts a handful of sample products for local development.
package main

import (
	"context"
	"fmt"
	"os"

	"garden-store/internal/config"

	"github.com/jackc/pgx/v5"
)

const schema = `
CREATE TABLE IF NOT EXISTS products (
	id          BIGSERIAL PRIMARY KEY,
	name        VARCHAR(255) NOT NULL,
	description TEXT,
	price       DECIMAL(10,2) NOT NULL,
	quantity    INTEGER NOT NULL CHECK (quantity >= 0),
	category    VARCHAR(100) NOT NULL,
	photo       VARCHAR(512),
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS orders (
	id                UUID PRIMARY KEY,
	customer_name     VARCHAR(255) NOT NULL,
	phone             VARCHAR(32)  NOT NULL,
	desired_pickup_at TIMESTAMPTZ  NOT NULL,
	created_at        TIMESTAMPTZ  NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS order_items (
	id         UUID PRIMARY KEY,
	order_id   UUID NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
	product_id BIGINT NOT NULL,
	name       VARCHAR(255) NOT NULL,
	unit_price DECIMAL(10,2) NOT NULL,
	quantity   INTEGER NOT NULL CHECK (quantity > 0)
);
`

type sampleProduct struct {
	name        string
	description string
	price       string
	quantity    int
	category    string
}

var sampleProducts = []sampleProduct{
	{"Garden Hose 20m", "Reinforced rubber hose with brass fittings", "1250.00", 15, "watering"},
	{"Steel Shovel", "Full-tang carbon steel digging shovel", "890.50", 8, "tools"},
	{"Tomato Seeds", "Early-ripening greenhouse variety, 20 seeds", "95.00", 120, "seeds"},
	{"Ceramic Planter 5L", "Frost-resistant glazed planter", "640.00", 24, "pots"},
	{"Universal Fertilizer 3kg", "Granulated NPK 16-16-16", "420.00", 30, "fertilizers"},
	{"Pruning Shears", "Bypass shears with ratchet mechanism", "530.00", 0, "tools"},
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, cfg.Database.ConnectionString())
	if err != nil {
		return fmt.Errorf("unable to connect to database: %w", err)
	}
	defer conn.Close(ctx)

	if _, err := conn.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	var count int
	if err := conn.QueryRow(ctx, "SELECT COUNT(*) FROM products").Scan(&count); err != nil {
		return fmt.Errorf("failed to count products: %w", err)
	}
	if count > 0 {
		fmt.Printf("products table already has %d rows, skipping seed\n", count)
		return nil
	}

	for _, p := range sampleProducts {
		_, err := conn.Exec(ctx,
			`INSERT INTO products (name, description, price, quantity, category)
			 VALUES ($1, $2, $3, $4, $5)`,
			p.name, p.description, p.price, p.quantity, p.category,
		)
		if err != nil {
			return fmt.Errorf("failed to insert %q: %w", p.name, err)
		}
	}

	fmt.Printf("seeded %d products\n", len(sampleProducts))
	return nil
}
