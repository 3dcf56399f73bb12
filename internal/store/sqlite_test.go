package store_test

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/serroba/linktree-go/internal/auth"
	"github.com/serroba/linktree-go/internal/linktree"
	"github.com/serroba/linktree-go/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

// newTestDB opens an in-memory SQLite database with the schema the stores
// expect. The stores build dialect-portable queries, so SQLite stands in for
// Postgres in unit tests.
func newTestDB(t *testing.T) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()

	for _, ddl := range []string{
		`CREATE TABLE users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL
		)`,
		`CREATE TABLE linktrees (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL,
			linktree_suffix TEXT NOT NULL UNIQUE
		)`,
		`CREATE TABLE links (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			link_text TEXT NOT NULL,
			link_url TEXT NOT NULL,
			linktree_id INTEGER NOT NULL
		)`,
	} {
		_, err := db.ExecContext(ctx, ddl)
		require.NoError(t, err)
	}

	return db
}

func TestPostgresUserStore(t *testing.T) {
	ctx := context.Background()

	t.Run("creates and finds users", func(t *testing.T) {
		s := store.NewPostgresUserStore(newTestDB(t))

		user := &auth.User{Email: "alice@example.com", PasswordHash: "hash"}
		require.NoError(t, s.Create(ctx, user))
		assert.NotZero(t, user.ID)

		found, err := s.GetByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		assert.Equal(t, user.ID, found.ID)
		assert.Equal(t, "hash", found.PasswordHash)
	})

	t.Run("maps unique violations to ErrEmailTaken", func(t *testing.T) {
		s := store.NewPostgresUserStore(newTestDB(t))

		require.NoError(t, s.Create(ctx, &auth.User{Email: "alice@example.com", PasswordHash: "a"}))

		err := s.Create(ctx, &auth.User{Email: "alice@example.com", PasswordHash: "b"})
		assert.ErrorIs(t, err, auth.ErrEmailTaken)
	})

	t.Run("maps no rows to ErrNotFound", func(t *testing.T) {
		s := store.NewPostgresUserStore(newTestDB(t))

		_, err := s.GetByEmail(ctx, "ghost@example.com")
		assert.ErrorIs(t, err, auth.ErrNotFound)
	})
}

func TestPostgresLinktreeStore(t *testing.T) {
	ctx := context.Background()

	createTree := func(t *testing.T, s *store.PostgresLinktreeStore, userID int64, suffix string) *linktree.Linktree {
		t.Helper()

		tree := &linktree.Linktree{UserID: userID, Suffix: suffix}
		require.NoError(t, s.Create(ctx, tree))
		require.NotZero(t, tree.ID)

		return tree
	}

	createLink := func(t *testing.T, s *store.PostgresLinktreeStore, treeID int64, text, url string) *linktree.Link {
		t.Helper()

		link := &linktree.Link{Text: text, URL: url, LinktreeID: treeID}
		require.NoError(t, s.CreateLink(ctx, link))
		require.NotZero(t, link.ID)

		return link
	}

	t.Run("round trips a linktree", func(t *testing.T) {
		s := store.NewPostgresLinktreeStore(newTestDB(t))
		tree := createTree(t, s, 1, "my-links")

		bySuffix, err := s.GetBySuffix(ctx, "my-links")
		require.NoError(t, err)
		assert.Equal(t, tree.ID, bySuffix.ID)
		assert.Equal(t, int64(1), bySuffix.UserID)

		byID, err := s.GetByIDAndUser(ctx, tree.ID, 1)
		require.NoError(t, err)
		assert.Equal(t, "my-links", byID.Suffix)
	})

	t.Run("suffixes are globally unique", func(t *testing.T) {
		s := store.NewPostgresLinktreeStore(newTestDB(t))
		createTree(t, s, 1, "my-links")

		err := s.Create(ctx, &linktree.Linktree{UserID: 2, Suffix: "my-links"})
		assert.ErrorIs(t, err, linktree.ErrSuffixTaken)
	})

	t.Run("lists trees per user in id order", func(t *testing.T) {
		s := store.NewPostgresLinktreeStore(newTestDB(t))
		createTree(t, s, 1, "first")
		createTree(t, s, 2, "other")
		createTree(t, s, 1, "second")

		trees, err := s.ListByUser(ctx, 1)

		require.NoError(t, err)
		require.Len(t, trees, 2)
		assert.Equal(t, "first", trees[0].Suffix)
		assert.Equal(t, "second", trees[1].Suffix)
	})

	t.Run("scopes lookups by owner", func(t *testing.T) {
		s := store.NewPostgresLinktreeStore(newTestDB(t))
		tree := createTree(t, s, 1, "my-links")

		_, err := s.GetByIDAndUser(ctx, tree.ID, 2)
		assert.ErrorIs(t, err, linktree.ErrNotFound)
	})

	t.Run("delete removes the tree and its links", func(t *testing.T) {
		s := store.NewPostgresLinktreeStore(newTestDB(t))
		tree := createTree(t, s, 1, "my-links")
		createLink(t, s, tree.ID, "Blog", "https://example.com")

		require.NoError(t, s.Delete(ctx, tree.ID, 1))

		_, err := s.GetBySuffix(ctx, "my-links")
		assert.ErrorIs(t, err, linktree.ErrNotFound)

		links, err := s.ListLinks(ctx, tree.ID)
		require.NoError(t, err)
		assert.Empty(t, links)
	})

	t.Run("delete by the wrong owner is not found", func(t *testing.T) {
		s := store.NewPostgresLinktreeStore(newTestDB(t))
		tree := createTree(t, s, 1, "my-links")

		assert.ErrorIs(t, s.Delete(ctx, tree.ID, 2), linktree.ErrNotFound)
	})

	t.Run("updates links in place", func(t *testing.T) {
		s := store.NewPostgresLinktreeStore(newTestDB(t))
		tree := createTree(t, s, 1, "my-links")
		link := createLink(t, s, tree.ID, "Blog", "https://example.com")

		err := s.UpdateLink(ctx, &linktree.Link{
			ID:         link.ID,
			Text:       "New Blog",
			URL:        "https://new.example.com",
			LinktreeID: tree.ID,
		})
		require.NoError(t, err)

		links, err := s.ListLinks(ctx, tree.ID)
		require.NoError(t, err)
		require.Len(t, links, 1)
		assert.Equal(t, "New Blog", links[0].Text)
		assert.Equal(t, "https://new.example.com", links[0].URL)
	})

	t.Run("update scopes links to their tree", func(t *testing.T) {
		s := store.NewPostgresLinktreeStore(newTestDB(t))
		tree := createTree(t, s, 1, "my-links")
		other := createTree(t, s, 1, "other-links")
		link := createLink(t, s, tree.ID, "Blog", "https://example.com")

		err := s.UpdateLink(ctx, &linktree.Link{
			ID:         link.ID,
			Text:       "Hijack",
			URL:        "https://evil.example.com",
			LinktreeID: other.ID,
		})

		assert.ErrorIs(t, err, linktree.ErrNotFound)
	})

	t.Run("lists links in id order", func(t *testing.T) {
		s := store.NewPostgresLinktreeStore(newTestDB(t))
		tree := createTree(t, s, 1, "my-links")
		first := createLink(t, s, tree.ID, "First", "https://one.example.com")
		second := createLink(t, s, tree.ID, "Second", "https://two.example.com")

		links, err := s.ListLinks(ctx, tree.ID)

		require.NoError(t, err)
		require.Len(t, links, 2)
		assert.Equal(t, first.ID, links[0].ID)
		assert.Equal(t, second.ID, links[1].ID)
	})

	t.Run("deleting an unknown link is not found", func(t *testing.T) {
		s := store.NewPostgresLinktreeStore(newTestDB(t))
		tree := createTree(t, s, 1, "my-links")

		assert.ErrorIs(t, s.DeleteLink(ctx, 99, tree.ID), linktree.ErrNotFound)
	})
}
