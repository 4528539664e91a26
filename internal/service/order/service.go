package order

import (
	"context"
	"errors"

	"onlinestore/internal/comments"
	"onlinestore/internal/domain"
	"github.com/jackc/pgx/v5/pgconn"
)

// Stock policy: quantities are reserved when a cart checks out and restored
// when the order is rejected. Adding to a cart never touches stock.

type cartRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Cart, error)
	Checkout(ctx context.Context, cartID string) error
	Transition(ctx context.Context, cartID, status string, restock bool) error
	ForceStatus(ctx context.Context, cartID, status string) error
	ListOrders(ctx context.Context) ([]domain.Cart, error)
}

type Service struct {
	repo     cartRepo
	comments *comments.Store
}

func New(repo cartRepo, store *comments.Store) *Service {
	return &Service{repo: repo, comments: store}
}

// maxRetries bounds how often a serialization failure is retried before it
// surfaces as ErrConflict.
const maxRetries = 3

// Checkout turns the cart into a Pending order, reserving stock for every
// line. An empty cart or one that is already an order fails with
// ErrInvalidState; a short product fails with ErrInsufficientStock and
// leaves all stock untouched.
func (s *Service) Checkout(ctx context.Context, cartID string) (*domain.Order, error) {
	if err := s.withRetry(ctx, func() error {
		return s.repo.Checkout(ctx, cartID)
	}); err != nil {
		return nil, err
	}
	return s.Get(ctx, cartID)
}

// Approve moves a Pending order to Approved. Stock stays committed.
func (s *Service) Approve(ctx context.Context, cartID, comment string) (*domain.Order, error) {
	if err := s.withRetry(ctx, func() error {
		return s.repo.Transition(ctx, cartID, domain.StatusApproved, false)
	}); err != nil {
		return nil, err
	}
	s.comments.Put(cartID, comment)
	return s.Get(ctx, cartID)
}

// Reject moves a Pending order to Rejected and returns every reserved
// quantity to its product.
func (s *Service) Reject(ctx context.Context, cartID, comment string) (*domain.Order, error) {
	if err := s.withRetry(ctx, func() error {
		return s.repo.Transition(ctx, cartID, domain.StatusRejected, true)
	}); err != nil {
		return nil, err
	}
	s.comments.Put(cartID, comment)
	return s.Get(ctx, cartID)
}

// UpdateStatus sets the status directly, bypassing lifecycle checks and the
// reject-time restock. Rejecting through this path leaks reserved stock;
// the admin Reject flow is the safe one.
func (s *Service) UpdateStatus(ctx context.Context, cartID, status, comment string) (*domain.Order, error) {
	if !domain.ValidStatus(status) {
		return nil, domain.NewValidationError("status", "must be one of Pending, Approved, Rejected")
	}
	if err := s.repo.ForceStatus(ctx, cartID, status); err != nil {
		return nil, err
	}
	s.comments.Put(cartID, comment)
	return s.Get(ctx, cartID)
}

// Get returns the order projection for a cart that has entered the
// lifecycle; a status-less cart is not an order and reads as ErrNotFound.
func (s *Service) Get(ctx context.Context, cartID string) (*domain.Order, error) {
	cart, err := s.repo.GetByID(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if !cart.IsOrder() {
		return nil, domain.ErrNotFound
	}
	return s.project(*cart), nil
}

func (s *Service) List(ctx context.Context) ([]domain.Order, error) {
	carts, err := s.repo.ListOrders(ctx)
	if err != nil {
		return nil, err
	}
	orders := make([]domain.Order, 0, len(carts))
	for _, cart := range carts {
		orders = append(orders, *s.project(cart))
	}
	return orders, nil
}

func (s *Service) project(cart domain.Cart) *domain.Order {
	order := &domain.Order{
		Cart:            cart,
		TotalPriceCents: cart.TotalCents(),
	}
	if comment, ok := s.comments.Get(cart.ID); ok {
		order.Comment = comment
	}
	return order
}

func (s *Service) withRetry(ctx context.Context, op func() error) error {
	var err error
	for attempt := 0; attempt < maxRetries; attempt++ {
		err = op()
		if err == nil || !isRetryable(err) {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
	return errors.Join(domain.ErrConflict, err)
}

// isRetryable reports serialization failures and deadlocks, which Postgres
// asks the client to retry.
func isRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == "40001" || pgErr.Code == "40P01"
}
