package cart

import (
	"context"
	"errors"
	"io"
	"log"

	"onlinestore/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
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

const cartColumns = `id::text, user_id::text, status, created_at`

// Line prices come from the products table at read time, not from a
// snapshot, so totals follow the current catalog price.
const linesQuery = `
SELECT l.id::text, l.cart_id::text, l.product_id::text, l.quantity, p.price_cents, l.created_at
FROM cart_lines l
JOIN products p ON p.id = l.product_id
WHERE l.cart_id = $1
ORDER BY l.created_at ASC, l.id ASC
`

func (r *postgresRepo) Create(ctx context.Context, userID string) (*domain.Cart, error) {
	const q = `
INSERT INTO carts (user_id)
VALUES ($1)
RETURNING ` + cartColumns
	var cart domain.Cart
	err := r.pool.QueryRow(ctx, q, userID).Scan(&cart.ID, &cart.UserID, &cart.Status, &cart.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("cart repo: create user_id=%s error=%v", userID, err)
		return nil, err
	}
	return &cart, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Cart, error) {
	q := "SELECT " + cartColumns + " FROM carts WHERE id = $1"
	return r.fetchCart(ctx, q, id)
}

func (r *postgresRepo) GetCurrentByUser(ctx context.Context, userID string) (*domain.Cart, error) {
	q := "SELECT " + cartColumns + ` FROM carts
WHERE user_id = $1 AND status IS NULL
ORDER BY created_at DESC
LIMIT 1`
	return r.fetchCart(ctx, q, userID)
}

func (r *postgresRepo) fetchCart(ctx context.Context, q string, args ...interface{}) (*domain.Cart, error) {
	var cart domain.Cart
	err := r.pool.QueryRow(ctx, q, args...).Scan(&cart.ID, &cart.UserID, &cart.Status, &cart.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	rows, err := r.pool.Query(ctx, linesQuery, cart.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var line domain.CartLine
		if err := rows.Scan(&line.ID, &line.CartID, &line.ProductID, &line.Quantity, &line.PriceCents, &line.CreatedAt); err != nil {
			return nil, err
		}
		cart.Lines = append(cart.Lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *postgresRepo) UpsertLine(ctx context.Context, cartID, productID string, qty int) error {
	// The status filter makes the write atomic with the lifecycle check:
	// once the cart has a status its lines are frozen, and a checkout
	// committing between a caller's read and this write cannot gain a
	// never-reserved line.
	const q = `
INSERT INTO cart_lines (cart_id, product_id, quantity)
SELECT c.id, $2, $3
FROM carts c
WHERE c.id = $1 AND c.status IS NULL
ON CONFLICT (cart_id, product_id) DO UPDATE
SET quantity = cart_lines.quantity + EXCLUDED.quantity
`
	cmd, err := r.pool.Exec(ctx, q, cartID, productID, qty)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		r.logger.Printf("cart repo: upsert line cart_id=%s product_id=%s error=%v", cartID, productID, err)
		return err
	}
	if cmd.RowsAffected() == 0 {
		return r.cartWriteError(ctx, cartID)
	}
	return nil
}

func (r *postgresRepo) DeleteLine(ctx context.Context, lineID string) (bool, error) {
	const q = `
DELETE FROM cart_lines l
USING carts c
WHERE l.id = $1 AND c.id = l.cart_id AND c.status IS NULL
`
	cmd, err := r.pool.Exec(ctx, q, lineID)
	if err != nil {
		r.logger.Printf("cart repo: delete line id=%s error=%v", lineID, err)
		return false, err
	}
	if cmd.RowsAffected() == 0 {
		err := r.lineWriteError(ctx, lineID)
		if errors.Is(err, domain.ErrNotFound) {
			// Absent line keeps the boolean contract.
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *postgresRepo) SetLineQuantity(ctx context.Context, lineID string, qty int) error {
	const q = `
UPDATE cart_lines l
SET quantity = $2
FROM carts c
WHERE l.id = $1 AND c.id = l.cart_id AND c.status IS NULL
`
	cmd, err := r.pool.Exec(ctx, q, lineID, qty)
	if err != nil {
		r.logger.Printf("cart repo: set line quantity id=%s error=%v", lineID, err)
		return err
	}
	if cmd.RowsAffected() == 0 {
		return r.lineWriteError(ctx, lineID)
	}
	return nil
}

// cartWriteError classifies a status-guarded cart write that matched no
// rows: the cart is gone, or it has entered the order lifecycle.
func (r *postgresRepo) cartWriteError(ctx context.Context, cartID string) error {
	var status *string
	err := r.pool.QueryRow(ctx, `SELECT status FROM carts WHERE id = $1`, cartID).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		return err
	}
	if status != nil {
		return domain.ErrInvalidState
	}
	return domain.ErrNotFound
}

// lineWriteError is the line-keyed variant of cartWriteError.
func (r *postgresRepo) lineWriteError(ctx context.Context, lineID string) error {
	var status *string
	err := r.pool.QueryRow(ctx, `
SELECT c.status
FROM cart_lines l
JOIN carts c ON c.id = l.cart_id
WHERE l.id = $1
`, lineID).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		return err
	}
	if status != nil {
		return domain.ErrInvalidState
	}
	return domain.ErrNotFound
}

func (r *postgresRepo) ClearLines(ctx context.Context, cartID string) (int, error) {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM cart_lines WHERE cart_id = $1`, cartID)
	if err != nil {
		r.logger.Printf("cart repo: clear cart_id=%s error=%v", cartID, err)
		return 0, err
	}
	return int(cmd.RowsAffected()), nil
}

func (r *postgresRepo) Checkout(ctx context.Context, cartID string) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	// The row lock serializes concurrent lifecycle operations per cart.
	status, err := lockCart(ctx, tx, cartID)
	if err != nil {
		return err
	}
	if status != nil {
		return domain.ErrInvalidState
	}

	lines, err := cartLineQuantities(ctx, tx, cartID)
	if err != nil {
		return err
	}
	if len(lines) == 0 {
		return domain.ErrInvalidState
	}

	for _, line := range lines {
		cmd, err := tx.Exec(ctx, `
UPDATE products
SET stock = stock - $2
WHERE id = $1 AND stock >= $2
`, line.productID, line.qty)
		if err != nil {
			return err
		}
		if cmd.RowsAffected() == 0 {
			// Short on stock: the deferred rollback undoes any
			// reservations already made for earlier lines.
			r.logger.Printf("cart repo: checkout cart_id=%s product_id=%s qty=%d insufficient stock", cartID, line.productID, line.qty)
			return domain.ErrInsufficientStock
		}
	}

	if _, err := tx.Exec(ctx, `UPDATE carts SET status = $2 WHERE id = $1`, cartID, domain.StatusPending); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}
	r.logger.Printf("cart repo: checkout cart_id=%s lines=%d", cartID, len(lines))
	return nil
}

func (r *postgresRepo) Transition(ctx context.Context, cartID, status string, restock bool) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	current, err := lockCart(ctx, tx, cartID)
	if err != nil {
		return err
	}
	if current == nil {
		// Never checked out; there is no order to act on.
		return domain.ErrNotFound
	}
	if *current != domain.StatusPending {
		return domain.ErrInvalidState
	}

	if restock {
		lines, err := cartLineQuantities(ctx, tx, cartID)
		if err != nil {
			return err
		}
		for _, line := range lines {
			if _, err := tx.Exec(ctx, `
UPDATE products
SET stock = stock + $2
WHERE id = $1
`, line.productID, line.qty); err != nil {
				return err
			}
		}
	}

	if _, err := tx.Exec(ctx, `UPDATE carts SET status = $2 WHERE id = $1`, cartID, status); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}
	r.logger.Printf("cart repo: transition cart_id=%s status=%s restock=%t", cartID, status, restock)
	return nil
}

func (r *postgresRepo) ForceStatus(ctx context.Context, cartID, status string) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE carts SET status = $2 WHERE id = $1`, cartID, status)
	if err != nil {
		r.logger.Printf("cart repo: force status cart_id=%s status=%s error=%v", cartID, status, err)
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) ListOrders(ctx context.Context) ([]domain.Cart, error) {
	q := "SELECT " + cartColumns + ` FROM carts
WHERE status IS NOT NULL
ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var carts []domain.Cart
	for rows.Next() {
		var cart domain.Cart
		if err := rows.Scan(&cart.ID, &cart.UserID, &cart.Status, &cart.CreatedAt); err != nil {
			return nil, err
		}
		carts = append(carts, cart)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range carts {
		lineRows, err := r.pool.Query(ctx, linesQuery, carts[i].ID)
		if err != nil {
			return nil, err
		}
		for lineRows.Next() {
			var line domain.CartLine
			if err := lineRows.Scan(&line.ID, &line.CartID, &line.ProductID, &line.Quantity, &line.PriceCents, &line.CreatedAt); err != nil {
				lineRows.Close()
				return nil, err
			}
			carts[i].Lines = append(carts[i].Lines, line)
		}
		if err := lineRows.Err(); err != nil {
			lineRows.Close()
			return nil, err
		}
		lineRows.Close()
	}
	return carts, nil
}

func (r *postgresRepo) Stats(ctx context.Context) (domain.Stats, error) {
	// Revenue uses current product prices, not prices at order time.
	const q = `
SELECT
	COUNT(*) FILTER (WHERE status IS NOT NULL),
	COUNT(*) FILTER (WHERE status = $1),
	COALESCE((
		SELECT SUM(l.quantity * p.price_cents)
		FROM carts c
		JOIN cart_lines l ON l.cart_id = c.id
		JOIN products p ON p.id = l.product_id
		WHERE c.status = $2
	), 0)
FROM carts
`
	var stats domain.Stats
	err := r.pool.QueryRow(ctx, q, domain.StatusPending, domain.StatusApproved).Scan(
		&stats.TotalOrders, &stats.PendingOrders, &stats.TotalRevenueCents,
	)
	if err != nil {
		r.logger.Printf("cart repo: stats error=%v", err)
		return domain.Stats{}, err
	}
	return stats, nil
}

type lineQty struct {
	productID string
	qty       int
}

func lockCart(ctx context.Context, tx pgx.Tx, cartID string) (*string, error) {
	var status *string
	err := tx.QueryRow(ctx, `SELECT status FROM carts WHERE id = $1 FOR UPDATE`, cartID).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return status, nil
}

func cartLineQuantities(ctx context.Context, tx pgx.Tx, cartID string) ([]lineQty, error) {
	rows, err := tx.Query(ctx, `
SELECT product_id::text, quantity
FROM cart_lines
WHERE cart_id = $1
ORDER BY product_id
`, cartID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []lineQty
	for rows.Next() {
		var line lineQty
		if err := rows.Scan(&line.productID, &line.qty); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}
