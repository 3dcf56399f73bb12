package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/serroba/linktree-go/internal/linktree"
	"github.com/uptrace/bun"
)

// PostgresLinktreeStore is a bun-backed implementation of linktree.Repository.
type PostgresLinktreeStore struct {
	db *bun.DB
}

// NewPostgresLinktreeStore creates a new Postgres-backed linktree store.
func NewPostgresLinktreeStore(db *bun.DB) *PostgresLinktreeStore {
	return &PostgresLinktreeStore{db: db}
}

func (s *PostgresLinktreeStore) ListByUser(ctx context.Context, userID int64) ([]linktree.Linktree, error) {
	trees := make([]linktree.Linktree, 0)

	err := s.db.NewSelect().
		Model(&trees).
		Column("id", "linktree_suffix", "user_id").
		Where("user_id = ?", userID).
		Order("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	return trees, nil
}

func (s *PostgresLinktreeStore) Create(ctx context.Context, tree *linktree.Linktree) error {
	_, err := s.db.NewInsert().
		Model(tree).
		Returning("id").
		Exec(ctx)
	if err != nil {
		if isUniqueViolation(err) {
			return linktree.ErrSuffixTaken
		}

		return err
	}

	return nil
}

func (s *PostgresLinktreeStore) GetBySuffix(ctx context.Context, suffix string) (*linktree.Linktree, error) {
	tree := new(linktree.Linktree)

	err := s.db.NewSelect().
		Model(tree).
		Where("linktree_suffix = ?", suffix).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, linktree.ErrNotFound
		}

		return nil, err
	}

	return tree, nil
}

func (s *PostgresLinktreeStore) GetByIDAndUser(ctx context.Context, id, userID int64) (*linktree.Linktree, error) {
	tree := new(linktree.Linktree)

	err := s.db.NewSelect().
		Model(tree).
		Where("id = ? AND user_id = ?", id, userID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, linktree.ErrNotFound
		}

		return nil, err
	}

	return tree, nil
}

// Delete removes a linktree and its links in one transaction. The links table
// also carries ON DELETE CASCADE; deleting explicitly keeps the behavior
// identical across dialects.
func (s *PostgresLinktreeStore) Delete(ctx context.Context, id, userID int64) error {
	return s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewDelete().
			Model((*linktree.Linktree)(nil)).
			Where("id = ? AND user_id = ?", id, userID).
			Exec(ctx)
		if err != nil {
			return err
		}

		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}

		if affected == 0 {
			return linktree.ErrNotFound
		}

		_, err = tx.NewDelete().
			Model((*linktree.Link)(nil)).
			Where("linktree_id = ?", id).
			Exec(ctx)

		return err
	})
}

func (s *PostgresLinktreeStore) ListLinks(ctx context.Context, linktreeID int64) ([]linktree.Link, error) {
	links := make([]linktree.Link, 0)

	err := s.db.NewSelect().
		Model(&links).
		Where("linktree_id = ?", linktreeID).
		Order("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	return links, nil
}

func (s *PostgresLinktreeStore) CreateLink(ctx context.Context, link *linktree.Link) error {
	_, err := s.db.NewInsert().
		Model(link).
		Returning("id").
		Exec(ctx)

	return err
}

func (s *PostgresLinktreeStore) UpdateLink(ctx context.Context, link *linktree.Link) error {
	res, err := s.db.NewUpdate().
		Model(link).
		Column("link_text", "link_url").
		Where("id = ? AND linktree_id = ?", link.ID, link.LinktreeID).
		Exec(ctx)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if affected == 0 {
		return linktree.ErrNotFound
	}

	return nil
}

func (s *PostgresLinktreeStore) DeleteLink(ctx context.Context, linkID, linktreeID int64) error {
	res, err := s.db.NewDelete().
		Model((*linktree.Link)(nil)).
		Where("id = ? AND linktree_id = ?", linkID, linktreeID).
		Exec(ctx)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if affected == 0 {
		return linktree.ErrNotFound
	}

	return nil
}

// Compile-time check.
var _ linktree.Repository = (*PostgresLinktreeStore)(nil)
