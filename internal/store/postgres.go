package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ayush/movie-review-api/internal/models"
)

const pgUniqueViolation = "23505"

// UserPostgresStore keeps accounts in PostgreSQL, for deployments that
// hold credentials outside the document store.
type UserPostgresStore struct {
	pool *pgxpool.Pool
}

func NewUserPostgresStore(pool *pgxpool.Pool) *UserPostgresStore {
	return &UserPostgresStore{pool: pool}
}

// Migrate creates the users table if it doesn't exist.
func (s *UserPostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			id         UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			name       VARCHAR(255) NOT NULL DEFAULT '',
			username   VARCHAR(255) UNIQUE NOT NULL,
			password   VARCHAR(255) NOT NULL,
			created_at TIMESTAMPTZ  DEFAULT NOW()
		)
	`)
	return err
}

func (s *UserPostgresStore) CreateUser(ctx context.Context, name, username, hashedPassword string) (*models.User, error) {
	u := models.User{Name: name, Username: username, Password: hashedPassword}
	err := s.pool.QueryRow(ctx,
		`INSERT INTO users (name, username, password)
		 VALUES ($1, $2, $3)
		 RETURNING id::text`,
		name, username, hashedPassword,
	).Scan(&u.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("create user %q: %w", username, ErrDuplicate)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &u, nil
}

func (s *UserPostgresStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	err := s.pool.QueryRow(ctx,
		`SELECT id::text, name, username, password FROM users WHERE username = $1`, username,
	).Scan(&u.ID, &u.Name, &u.Username, &u.Password)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
