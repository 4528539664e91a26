package cart

import (
	"context"

	"onlinestore/internal/domain"
)

type Repository interface {
	Create(ctx context.Context, userID string) (*domain.Cart, error)
	GetByID(ctx context.Context, id string) (*domain.Cart, error)
	// GetCurrentByUser returns the user's most recent cart that has not
	// yet become an order (status IS NULL).
	GetCurrentByUser(ctx context.Context, userID string) (*domain.Cart, error)

	// UpsertLine inserts a line for (cartID, productID) or increments the
	// existing line's quantity; there is never more than one row per pair.
	// Lines are frozen once the cart has a status: the write and the
	// lifecycle check are one atomic statement, and a cart that became an
	// order reports ErrInvalidState.
	UpsertLine(ctx context.Context, cartID, productID string, qty int) error
	// DeleteLine removes the line, false when absent. Deleting a line whose
	// cart became an order reports ErrInvalidState; reserved stock would
	// otherwise leak on reject.
	DeleteLine(ctx context.Context, lineID string) (bool, error)
	// SetLineQuantity overwrites the quantity under the same frozen-lines
	// guard as DeleteLine.
	SetLineQuantity(ctx context.Context, lineID string, qty int) error
	// ClearLines removes all lines from the cart and reports how many
	// rows were deleted.
	ClearLines(ctx context.Context, cartID string) (int, error)

	// Checkout moves a status-less cart with at least one line to Pending,
	// reserving stock for every line in the same transaction. Nothing is
	// committed when any product is short.
	Checkout(ctx context.Context, cartID string) error
	// Transition moves a Pending cart to a terminal status. When restock
	// is true every line's quantity is returned to its product first.
	Transition(ctx context.Context, cartID, status string, restock bool) error
	// ForceStatus overwrites the status with no lifecycle checks and no
	// restock. Used by the plain status-update path only.
	ForceStatus(ctx context.Context, cartID, status string) error

	ListOrders(ctx context.Context) ([]domain.Cart, error)
	Stats(ctx context.Context) (domain.Stats, error)
}
