package catalog

import (
	"context"
	"strings"
	"testing"

	"onlinestore/internal/domain"
	productrepo "onlinestore/internal/repository/product"
)

type stubRepo struct {
	productrepo.Repository

	created    *domain.Product
	lastCreate productrepo.CreateInput
	updated    *domain.Product
	updateErr  error
	lastUpdate productrepo.UpdateInput
}

func (s *stubRepo) Create(_ context.Context, in productrepo.CreateInput) (*domain.Product, error) {
	s.lastCreate = in
	return s.created, nil
}

func (s *stubRepo) Update(_ context.Context, _ string, in productrepo.UpdateInput) (*domain.Product, error) {
	s.lastUpdate = in
	return s.updated, s.updateErr
}

func TestCreateValidation(t *testing.T) {
	svc := New(&stubRepo{})

	cases := []struct {
		name  string
		in    CreateInput
		field string
	}{
		{"short name", CreateInput{Name: "ab", PriceCents: 100}, "name"},
		{"long name", CreateInput{Name: strings.Repeat("x", 101), PriceCents: 100}, "name"},
		{"zero price", CreateInput{Name: "Widget", PriceCents: 0}, "priceCents"},
		{"negative stock", CreateInput{Name: "Widget", PriceCents: 100, Stock: -1}, "stock"},
		{"long description", CreateInput{Name: "Widget", PriceCents: 100, Description: strings.Repeat("d", 501)}, "description"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tc.in)
			ve, ok := domain.AsValidation(err)
			if !ok {
				t.Fatalf("expected validation error, got %v", err)
			}
			if _, present := ve.Fields[tc.field]; !present {
				t.Fatalf("expected violation on %q, got %v", tc.field, ve.Fields)
			}
		})
	}
}

func TestCreateTrimsNameAndPasses(t *testing.T) {
	repo := &stubRepo{created: &domain.Product{ID: "p1", Name: "Widget"}}
	svc := New(repo)
	got, err := svc.Create(context.Background(), CreateInput{Name: "  Widget  ", PriceCents: 500, Stock: 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != "p1" {
		t.Fatalf("unexpected product: %+v", got)
	}
	if repo.lastCreate.Name != "Widget" || repo.lastCreate.PriceCents != 500 || repo.lastCreate.Stock != 3 {
		t.Fatalf("unexpected repo input: %+v", repo.lastCreate)
	}
}

func TestUpdatePartialSemantics(t *testing.T) {
	repo := &stubRepo{updated: &domain.Product{ID: "p1"}}
	svc := New(repo)

	price := int64(700)
	_, err := svc.Update(context.Background(), "p1", UpdateInput{PriceCents: &price})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lastUpdate.Name != nil || repo.lastUpdate.Description != nil || repo.lastUpdate.Stock != nil {
		t.Fatalf("untouched fields must stay nil: %+v", repo.lastUpdate)
	}
	if repo.lastUpdate.PriceCents == nil || *repo.lastUpdate.PriceCents != 700 {
		t.Fatalf("price not forwarded: %+v", repo.lastUpdate)
	}
}

func TestUpdateValidatesSuppliedFieldsOnly(t *testing.T) {
	svc := New(&stubRepo{})

	bad := "ab"
	_, err := svc.Update(context.Background(), "p1", UpdateInput{Name: &bad})
	if _, ok := domain.AsValidation(err); !ok {
		t.Fatalf("expected validation error, got %v", err)
	}

	price := int64(-5)
	_, err = svc.Update(context.Background(), "p1", UpdateInput{PriceCents: &price})
	if _, ok := domain.AsValidation(err); !ok {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateNotFound(t *testing.T) {
	repo := &stubRepo{updateErr: domain.ErrNotFound}
	svc := New(repo)
	name := "Widget"
	_, err := svc.Update(context.Background(), "missing", UpdateInput{Name: &name})
	if err != domain.ErrNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
