package auth

import (
	"context"
	"errors"

	"github.com/uptrace/bun"
)

var (
	// ErrNotFound is returned when no user exists for a lookup.
	ErrNotFound = errors.New("user not found")

	// ErrEmailTaken is returned when registering an email that already exists.
	ErrEmailTaken = errors.New("user already exists")
)

// User is a registered account. The password is only ever stored hashed.
type User struct {
	bun.BaseModel `bun:"table:users"`

	ID           int64  `bun:"id,pk,autoincrement"`
	Email        string `bun:"email,notnull,unique"`
	PasswordHash string `bun:"password_hash,notnull"`
}

// Repository defines storage operations for users. Users are created at
// registration and read at login; nothing in this system updates or deletes
// them.
type Repository interface {
	// Create persists a new user. Returns ErrEmailTaken when the email is
	// already registered.
	Create(ctx context.Context, user *User) error

	// GetByEmail finds a user by email. Returns ErrNotFound when absent.
	GetByEmail(ctx context.Context, email string) (*User, error)
}
