package user

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

const userColumns = `id::text, COALESCE(first_name, ''), COALESCE(last_name, ''), email, password_hash, COALESCE(phone, ''), COALESCE(address, ''), created_at`

func (r *postgresRepo) Create(ctx context.Context, u domain.User) (*domain.User, error) {
	const q = `
INSERT INTO users (first_name, last_name, email, password_hash, phone, address)
VALUES (NULLIF($1, ''), NULLIF($2, ''), $3, $4, NULLIF($5, ''), NULLIF($6, ''))
RETURNING ` + userColumns
	var created domain.User
	err := r.pool.QueryRow(ctx, q, u.FirstName, u.LastName, u.Email, u.PasswordHash, u.Phone, u.Address).Scan(
		&created.ID, &created.FirstName, &created.LastName, &created.Email,
		&created.PasswordHash, &created.Phone, &created.Address, &created.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrAlreadyExists
		}
		r.logger.Printf("user repo: create email=%s error=%v", u.Email, err)
		return nil, err
	}
	r.logger.Printf("user repo: created id=%s email=%s", created.ID, created.Email)
	return &created, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	q := "SELECT " + userColumns + " FROM users WHERE id = $1"
	return r.fetchUser(ctx, q, id)
}

func (r *postgresRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	q := "SELECT " + userColumns + " FROM users WHERE email = $1"
	return r.fetchUser(ctx, q, email)
}

func (r *postgresRepo) fetchUser(ctx context.Context, q string, arg string) (*domain.User, error) {
	var u domain.User
	err := r.pool.QueryRow(ctx, q, arg).Scan(
		&u.ID, &u.FirstName, &u.LastName, &u.Email,
		&u.PasswordHash, &u.Phone, &u.Address, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}
