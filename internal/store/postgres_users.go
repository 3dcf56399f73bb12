package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/serroba/linktree-go/internal/auth"
	"github.com/uptrace/bun"
)

const pgUniqueViolation = "23505"

// PostgresUserStore is a bun-backed implementation of auth.Repository.
type PostgresUserStore struct {
	db *bun.DB
}

// NewPostgresUserStore creates a new Postgres-backed user store.
func NewPostgresUserStore(db *bun.DB) *PostgresUserStore {
	return &PostgresUserStore{db: db}
}

func (s *PostgresUserStore) Create(ctx context.Context, user *auth.User) error {
	_, err := s.db.NewInsert().
		Model(user).
		Returning("id").
		Exec(ctx)
	if err != nil {
		if isUniqueViolation(err) {
			return auth.ErrEmailTaken
		}

		return err
	}

	return nil
}

func (s *PostgresUserStore) GetByEmail(ctx context.Context, email string) (*auth.User, error) {
	user := new(auth.User)

	err := s.db.NewSelect().
		Model(user).
		Where("email = ?", email).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, auth.ErrNotFound
		}

		return nil, err
	}

	return user, nil
}

// isUniqueViolation reports whether err is a unique constraint violation. The
// sqlite branch keeps the store usable under the test dialect.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}

	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
