package product

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"onlinestore/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

const productColumns = `id::text, name, COALESCE(description, ''), price_cents, stock, created_at`

func (r *postgresRepo) List(ctx context.Context, filter ListFilter) ([]domain.Product, error) {
	var (
		where []string
		args  []interface{}
	)
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if s := strings.TrimSpace(filter.Search); s != "" {
		// Case-insensitive substring match over name and description.
		p := arg("%" + s + "%")
		where = append(where, fmt.Sprintf("(name ILIKE %s OR description ILIKE %s)", p, p))
	}
	if filter.MinPriceCents != nil {
		where = append(where, "price_cents >= "+arg(*filter.MinPriceCents))
	}
	if filter.MaxPriceCents != nil {
		where = append(where, "price_cents <= "+arg(*filter.MaxPriceCents))
	}
	if filter.InStock {
		where = append(where, "stock > 0")
	}

	q := "SELECT " + productColumns + " FROM products"
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY " + sortClause(filter.SortBy, filter.Descending)

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		r.logger.Printf("product repo: list error=%v", err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.PriceCents, &p.Stock, &p.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		r.logger.Printf("product repo: list rows error=%v", err)
		return nil, err
	}
	return result, nil
}

// sortClause maps the requested sort key onto a whitelisted column; id
// ascending is always appended as the tiebreaker.
func sortClause(sortBy string, descending bool) string {
	col := "id"
	switch sortBy {
	case "name":
		col = "name"
	case "price":
		col = "price_cents"
	}
	dir := "ASC"
	if descending {
		dir = "DESC"
	}
	if col == "id" {
		return "id " + dir
	}
	return fmt.Sprintf("%s %s, id ASC", col, dir)
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	q := "SELECT " + productColumns + " FROM products WHERE id = $1"
	var p domain.Product
	err := r.pool.QueryRow(ctx, q, id).Scan(&p.ID, &p.Name, &p.Description, &p.PriceCents, &p.Stock, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("product repo: get id=%s error=%v", id, err)
		return nil, err
	}
	return &p, nil
}

func (r *postgresRepo) Create(ctx context.Context, in CreateInput) (*domain.Product, error) {
	const q = `
INSERT INTO products (name, description, price_cents, stock)
VALUES ($1, NULLIF($2, ''), $3, $4)
RETURNING ` + productColumns
	var p domain.Product
	err := r.pool.QueryRow(ctx, q, in.Name, in.Description, in.PriceCents, in.Stock).Scan(
		&p.ID, &p.Name, &p.Description, &p.PriceCents, &p.Stock, &p.CreatedAt,
	)
	if err != nil {
		r.logger.Printf("product repo: create name=%q error=%v", in.Name, err)
		return nil, err
	}
	r.logger.Printf("product repo: created id=%s name=%q", p.ID, p.Name)
	return &p, nil
}

func (r *postgresRepo) Update(ctx context.Context, id string, in UpdateInput) (*domain.Product, error) {
	const q = `
UPDATE products
SET name = COALESCE($2, name),
    description = COALESCE($3, description),
    price_cents = COALESCE($4, price_cents),
    stock = COALESCE($5, stock)
WHERE id = $1
RETURNING ` + productColumns
	var p domain.Product
	err := r.pool.QueryRow(ctx, q, id, in.Name, in.Description, in.PriceCents, in.Stock).Scan(
		&p.ID, &p.Name, &p.Description, &p.PriceCents, &p.Stock, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("product repo: update id=%s error=%v", id, err)
		return nil, err
	}
	return &p, nil
}

func (r *postgresRepo) Delete(ctx context.Context, id string) (bool, error) {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		r.logger.Printf("product repo: delete id=%s error=%v", id, err)
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *postgresRepo) Reserve(ctx context.Context, productID string, qty int) (bool, error) {
	if qty <= 0 {
		return false, fmt.Errorf("reserve: quantity must be positive, got %d", qty)
	}
	// The conditional update is the whole concurrency story: two
	// concurrent reservations serialize on the row and the second one
	// re-evaluates stock >= qty against the committed value.
	cmd, err := r.pool.Exec(ctx, `
UPDATE products
SET stock = stock - $2
WHERE id = $1 AND stock >= $2
`, productID, qty)
	if err != nil {
		r.logger.Printf("product repo: reserve id=%s qty=%d error=%v", productID, qty, err)
		return false, err
	}
	return cmd.RowsAffected() == 1, nil
}

func (r *postgresRepo) Restock(ctx context.Context, productID string, qty int) error {
	if qty <= 0 {
		return fmt.Errorf("restock: quantity must be positive, got %d", qty)
	}
	cmd, err := r.pool.Exec(ctx, `
UPDATE products
SET stock = stock + $2
WHERE id = $1
`, productID, qty)
	if err != nil {
		r.logger.Printf("product repo: restock id=%s qty=%d error=%v", productID, qty, err)
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
