package admin

import (
	"context"

	"onlinestore/internal/comments"
	"onlinestore/internal/domain"
)

type statsRepo interface {
	Stats(ctx context.Context) (domain.Stats, error)
}

type orderReader interface {
	Get(ctx context.Context, cartID string) (*domain.Order, error)
}

// Service backs the admin oversight endpoints: aggregate stats and order
// lookups enriched with the advisory comment.
type Service struct {
	repo     statsRepo
	orders   orderReader
	comments *comments.Store
}

func New(repo statsRepo, orders orderReader, store *comments.Store) *Service {
	return &Service{repo: repo, orders: orders, comments: store}
}

func (s *Service) Stats(ctx context.Context) (domain.Stats, error) {
	return s.repo.Stats(ctx)
}

// GetWithComment returns the order projection; the comment is already part
// of the projection, this lookup just makes the pairing explicit for the
// admin view.
func (s *Service) GetWithComment(ctx context.Context, cartID string) (*domain.Order, error) {
	return s.orders.Get(ctx, cartID)
}

// Comment attaches or replaces the advisory note on an order without
// changing its status.
func (s *Service) Comment(ctx context.Context, cartID, text string) (*domain.Order, error) {
	order, err := s.orders.Get(ctx, cartID)
	if err != nil {
		return nil, err
	}
	s.comments.Put(cartID, text)
	order.Comment = text
	return order, nil
}
