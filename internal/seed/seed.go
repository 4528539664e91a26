package seed

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

type productSeed struct {
	ID          uuid.UUID
	Name        string
	Description string
	PriceCents  int64
	Stock       int
}

// Fixed ids keep the seed idempotent across runs.
var products = []productSeed{
	{
		ID:          uuid.MustParse("7a0d4856-1a42-4b22-8f2a-3d7e9b7c0a01"),
		Name:        "Demo T-Shirt",
		Description: "Soft cotton tee for demo purposes",
		PriceCents:  1999,
		Stock:       25,
	},
	{
		ID:          uuid.MustParse("7a0d4856-1a42-4b22-8f2a-3d7e9b7c0a02"),
		Name:        "Demo Mug",
		Description: "Ceramic mug with demo logo",
		PriceCents:  1299,
		Stock:       40,
	},
	{
		ID:          uuid.MustParse("7a0d4856-1a42-4b22-8f2a-3d7e9b7c0a03"),
		Name:        "Demo Poster",
		Description: "A2 poster, matte finish",
		PriceCents:  899,
		Stock:       10,
	},
}

// Apply inserts basic seed data for manual testing. It is idempotent via ON CONFLICT.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	for _, p := range products {
		if err := upsertProduct(ctx, pool, p); err != nil {
			return fmt.Errorf("upsert product %s: %w", p.Name, err)
		}
	}
	if err := ensureUser(ctx, pool, "demo@example.com", "Demo1234"); err != nil {
		return fmt.Errorf("ensure demo user: %w", err)
	}
	return nil
}

func upsertProduct(ctx context.Context, pool *pgxpool.Pool, p productSeed) error {
	const q = `
INSERT INTO products (id, name, description, price_cents, stock)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (id) DO UPDATE
SET name = EXCLUDED.name,
    description = EXCLUDED.description,
    price_cents = EXCLUDED.price_cents,
    stock = EXCLUDED.stock
`
	_, err := pool.Exec(ctx, q, p.ID.String(), p.Name, p.Description, p.PriceCents, p.Stock)
	return err
}

func ensureUser(ctx context.Context, pool *pgxpool.Pool, email, password string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	const q = `
INSERT INTO users (first_name, last_name, email, password_hash)
VALUES ('Demo', 'User', $1, $2)
ON CONFLICT (email) DO NOTHING
`
	_, err = pool.Exec(ctx, q, email, string(hashed))
	return err
}
