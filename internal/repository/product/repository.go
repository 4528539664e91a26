package product

import (
	"context"

	"onlinestore/internal/domain"
)

// ListFilter narrows and orders a catalog listing. Price bounds are in
// cents; nil means unbounded. SortBy is one of "name", "price", "id"
// (default "id"); ties are always broken by id ascending.
type ListFilter struct {
	Search        string
	MinPriceCents *int64
	MaxPriceCents *int64
	InStock       bool
	SortBy        string
	Descending    bool
}

// CreateInput carries validated fields for a new product.
type CreateInput struct {
	Name        string
	Description string
	PriceCents  int64
	Stock       int
}

// UpdateInput carries partial update fields; nil fields are left untouched.
type UpdateInput struct {
	Name        *string
	Description *string
	PriceCents  *int64
	Stock       *int
}

type Repository interface {
	List(ctx context.Context, filter ListFilter) ([]domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	Create(ctx context.Context, in CreateInput) (*domain.Product, error)
	Update(ctx context.Context, id string, in UpdateInput) (*domain.Product, error)
	Delete(ctx context.Context, id string) (bool, error)

	// Reserve atomically subtracts qty from the product's stock only when
	// stock >= qty; it returns false without mutation otherwise. qty must
	// be positive.
	Reserve(ctx context.Context, productID string, qty int) (bool, error)
	// Restock atomically adds qty back to the product's stock. qty must be
	// positive.
	Restock(ctx context.Context, productID string, qty int) error
}
