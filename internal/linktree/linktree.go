package linktree

import (
	"context"
	"errors"

	"github.com/uptrace/bun"
)

var (
	// ErrNotFound is returned when a linktree or link does not exist
	// (or does not belong to the requesting user).
	ErrNotFound = errors.New("linktree not found")

	// ErrSuffixTaken is returned when creating a linktree with a suffix
	// that is already claimed.
	ErrSuffixTaken = errors.New("linktree suffix already exists")
)

// Linktree is a user-owned collection of links published under a public suffix.
type Linktree struct {
	bun.BaseModel `bun:"table:linktrees"`

	ID     int64  `bun:"id,pk,autoincrement"`
	UserID int64  `bun:"user_id,notnull"`
	Suffix string `bun:"linktree_suffix,notnull,unique"`
}

// Link is a single entry on a linktree page.
type Link struct {
	bun.BaseModel `bun:"table:links"`

	ID         int64  `bun:"id,pk,autoincrement"`
	Text       string `bun:"link_text,notnull"`
	URL        string `bun:"link_url,notnull"`
	LinktreeID int64  `bun:"linktree_id,notnull"`
}

// Repository defines storage operations for linktrees and their links.
// Ownership checks are expressed through the (id, userID) lookups; callers
// must resolve ownership before mutating links.
type Repository interface {
	ListByUser(ctx context.Context, userID int64) ([]Linktree, error)

	// Create persists a new linktree. Returns ErrSuffixTaken when the suffix
	// is already in use.
	Create(ctx context.Context, tree *Linktree) error

	// GetBySuffix finds a linktree by its public suffix, for any owner.
	GetBySuffix(ctx context.Context, suffix string) (*Linktree, error)

	// GetByIDAndUser finds a linktree only if it belongs to the given user.
	GetByIDAndUser(ctx context.Context, id, userID int64) (*Linktree, error)

	// Delete removes a linktree owned by the user, cascading to its links.
	Delete(ctx context.Context, id, userID int64) error

	ListLinks(ctx context.Context, linktreeID int64) ([]Link, error)

	CreateLink(ctx context.Context, link *Link) error

	// UpdateLink updates the text and URL of a link scoped to a linktree.
	UpdateLink(ctx context.Context, link *Link) error

	// DeleteLink removes a link scoped to a linktree.
	DeleteLink(ctx context.Context, linkID, linktreeID int64) error
}
