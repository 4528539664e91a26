package cart

import (
	"context"
	"errors"

	"onlinestore/internal/domain"
)

type cartRepo interface {
	Create(ctx context.Context, userID string) (*domain.Cart, error)
	GetByID(ctx context.Context, id string) (*domain.Cart, error)
	GetCurrentByUser(ctx context.Context, userID string) (*domain.Cart, error)
	UpsertLine(ctx context.Context, cartID, productID string, qty int) error
	DeleteLine(ctx context.Context, lineID string) (bool, error)
	SetLineQuantity(ctx context.Context, lineID string, qty int) error
	ClearLines(ctx context.Context, cartID string) (int, error)
}

type productRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

type Service struct {
	repo     cartRepo
	products productRepo
}

func New(repo cartRepo, products productRepo) *Service {
	return &Service{repo: repo, products: products}
}

// GetOrCreate returns the user's current cart, creating an empty one as a
// side effect of the read when none exists. Callers rely on an
// always-present cart.
func (s *Service) GetOrCreate(ctx context.Context, userID string) (*domain.Cart, error) {
	cart, err := s.repo.GetCurrentByUser(ctx, userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	// Create reports ErrNotFound when the user itself is missing.
	return s.repo.Create(ctx, userID)
}

// AddItem validates the product and cart, then upserts the (cart, product)
// line. Re-adding a product increments the existing line's quantity.
// Stock is not touched here; it is reserved at checkout. The IsOrder read
// below is a fast path only: the repository re-checks the status
// atomically with the write, so a checkout racing this call cannot slip a
// never-reserved line onto the order.
func (s *Service) AddItem(ctx context.Context, cartID, productID string, qty int) (*domain.Cart, error) {
	if qty <= 0 {
		return nil, domain.NewValidationError("quantity", "must be positive")
	}

	cart, err := s.repo.GetByID(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if cart.IsOrder() {
		return nil, domain.ErrInvalidState
	}
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		return nil, err
	}

	if err := s.repo.UpsertLine(ctx, cartID, productID, qty); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, cartID)
}

// RemoveItem deletes the line, false when absent. Lines of a cart that
// became an order are frozen and surface ErrInvalidState from the repo.
func (s *Service) RemoveItem(ctx context.Context, lineID string) (bool, error) {
	return s.repo.DeleteLine(ctx, lineID)
}

// UpdateItemQuantity overwrites a line's quantity, under the same
// frozen-lines rule as RemoveItem.
func (s *Service) UpdateItemQuantity(ctx context.Context, lineID string, qty int) error {
	if qty <= 0 {
		return domain.NewValidationError("quantity", "must be positive")
	}
	return s.repo.SetLineQuantity(ctx, lineID, qty)
}

// Clear removes every line from the user's current cart. It returns false
// when the user has no current cart or the cart was already empty.
func (s *Service) Clear(ctx context.Context, userID string) (bool, error) {
	cart, err := s.repo.GetCurrentByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	removed, err := s.repo.ClearLines(ctx, cart.ID)
	if err != nil {
		return false, err
	}
	return removed > 0, nil
}
