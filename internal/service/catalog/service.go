package catalog

import (
	"context"
	"strings"

	"onlinestore/internal/domain"
	productrepo "onlinestore/internal/repository/product"
)

type Service struct {
	repo productrepo.Repository
}

func New(repo productrepo.Repository) *Service {
	return &Service{repo: repo}
}

type CreateInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	PriceCents  int64  `json:"priceCents"`
	Stock       int    `json:"stock"`
}

// UpdateInput has pointer fields so that only supplied fields overwrite the
// stored record (partial semantics, even behind PUT).
type UpdateInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	PriceCents  *int64  `json:"priceCents"`
	Stock       *int    `json:"stock"`
}

func (s *Service) List(ctx context.Context, filter productrepo.ListFilter) ([]domain.Product, error) {
	return s.repo.List(ctx, filter)
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*domain.Product, error) {
	in.Name = strings.TrimSpace(in.Name)
	fields := map[string]string{}
	if l := len(in.Name); l < 3 || l > 100 {
		fields["name"] = "must be between 3 and 100 characters"
	}
	if in.PriceCents <= 0 {
		fields["priceCents"] = "must be positive"
	}
	if in.Stock < 0 {
		fields["stock"] = "must not be negative"
	}
	if len(in.Description) > 500 {
		fields["description"] = "must be at most 500 characters"
	}
	if len(fields) > 0 {
		return nil, &domain.ValidationError{Fields: fields}
	}
	return s.repo.Create(ctx, productrepo.CreateInput{
		Name:        in.Name,
		Description: in.Description,
		PriceCents:  in.PriceCents,
		Stock:       in.Stock,
	})
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (*domain.Product, error) {
	fields := map[string]string{}
	if in.Name != nil {
		trimmed := strings.TrimSpace(*in.Name)
		if l := len(trimmed); l < 3 || l > 100 {
			fields["name"] = "must be between 3 and 100 characters"
		}
		in.Name = &trimmed
	}
	if in.PriceCents != nil && *in.PriceCents <= 0 {
		fields["priceCents"] = "must be positive"
	}
	if in.Stock != nil && *in.Stock < 0 {
		fields["stock"] = "must not be negative"
	}
	if in.Description != nil && len(*in.Description) > 500 {
		fields["description"] = "must be at most 500 characters"
	}
	if len(fields) > 0 {
		return nil, &domain.ValidationError{Fields: fields}
	}
	return s.repo.Update(ctx, id, productrepo.UpdateInput{
		Name:        in.Name,
		Description: in.Description,
		PriceCents:  in.PriceCents,
		Stock:       in.Stock,
	})
}

func (s *Service) Delete(ctx context.Context, id string) (bool, error) {
	return s.repo.Delete(ctx, id)
}
