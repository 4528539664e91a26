package user

import (
	"context"
	"errors"
	"testing"

	"onlinestore/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

type stubRepo struct {
	created   *domain.User
	createErr error
	lastInput domain.User
	byEmail   *domain.User
	emailErr  error
	byID      *domain.User
	idErr     error
}

func (s *stubRepo) Create(_ context.Context, u domain.User) (*domain.User, error) {
	s.lastInput = u
	return s.created, s.createErr
}

func (s *stubRepo) GetByID(_ context.Context, _ string) (*domain.User, error) {
	return s.byID, s.idErr
}

func (s *stubRepo) GetByEmail(_ context.Context, _ string) (*domain.User, error) {
	return s.byEmail, s.emailErr
}

type stubCarts struct {
	createdFor []string
	err        error
}

func (s *stubCarts) Create(_ context.Context, userID string) (*domain.Cart, error) {
	s.createdFor = append(s.createdFor, userID)
	return &domain.Cart{ID: "cart", UserID: userID}, s.err
}

func TestRegisterValidation(t *testing.T) {
	svc := New(&stubRepo{}, &stubCarts{})

	_, err := svc.Register(context.Background(), RegisterInput{Email: "not-an-email", Password: "Password1"})
	if _, ok := domain.AsValidation(err); !ok {
		t.Fatalf("expected validation error for email, got %v", err)
	}

	_, err = svc.Register(context.Background(), RegisterInput{Email: "a@b.com", Password: "short"})
	if _, ok := domain.AsValidation(err); !ok {
		t.Fatalf("expected validation error for password, got %v", err)
	}
}

func TestRegisterHashesPasswordAndCreatesCart(t *testing.T) {
	repo := &stubRepo{created: &domain.User{ID: "u1", Email: "a@b.com"}}
	carts := &stubCarts{}
	svc := New(repo, carts)

	_, err := svc.Register(context.Background(), RegisterInput{Email: "A@B.com", Password: "Password1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lastInput.Email != "a@b.com" {
		t.Fatalf("expected lowercased email, got %q", repo.lastInput.Email)
	}
	if repo.lastInput.PasswordHash == "Password1" || repo.lastInput.PasswordHash == "" {
		t.Fatalf("password must be stored hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(repo.lastInput.PasswordHash), []byte("Password1")); err != nil {
		t.Fatalf("stored hash does not verify: %v", err)
	}
	if len(carts.createdFor) != 1 || carts.createdFor[0] != "u1" {
		t.Fatalf("expected a cart created for the new user, got %v", carts.createdFor)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := &stubRepo{createErr: domain.ErrAlreadyExists}
	svc := New(repo, &stubCarts{})
	_, err := svc.Register(context.Background(), RegisterInput{Email: "a@b.com", Password: "Password1"})
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected already exists, got %v", err)
	}
}

func TestAuthenticate(t *testing.T) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("Password1"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	repo := &stubRepo{byEmail: &domain.User{ID: "u1", Email: "a@b.com", PasswordHash: string(hashed)}}
	svc := New(repo, &stubCarts{})

	if _, err := svc.Authenticate(context.Background(), "a@b.com", "Password1"); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if _, err := svc.Authenticate(context.Background(), "a@b.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
}

func TestAuthenticateUnknownEmail(t *testing.T) {
	repo := &stubRepo{emailErr: domain.ErrNotFound}
	svc := New(repo, &stubCarts{})
	if _, err := svc.Authenticate(context.Background(), "nope@b.com", "x"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
}
