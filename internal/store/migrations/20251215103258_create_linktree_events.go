package migrations

import (
	"context"

	"github.com/uptrace/bun"
)

func init() {
	Analytics.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			if _, err := db.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS linktree_changes (
					id BIGSERIAL PRIMARY KEY,
					event_id TEXT NOT NULL UNIQUE,
					suffix TEXT NOT NULL,
					action TEXT NOT NULL,
					changed_at TIMESTAMPTZ NOT NULL
				)
			`); err != nil {
				return err
			}

			_, err := db.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS linktree_views (
					id BIGSERIAL PRIMARY KEY,
					event_id TEXT NOT NULL UNIQUE,
					suffix TEXT NOT NULL,
					cache_hit BOOLEAN NOT NULL,
					viewed_at TIMESTAMPTZ NOT NULL,
					client_ip TEXT NOT NULL DEFAULT '',
					user_agent TEXT NOT NULL DEFAULT '',
					referrer TEXT NOT NULL DEFAULT ''
				)
			`)

			return err
		},
		func(ctx context.Context, db *bun.DB) error {
			if _, err := db.ExecContext(ctx, `DROP TABLE IF EXISTS linktree_views`); err != nil {
				return err
			}

			_, err := db.ExecContext(ctx, `DROP TABLE IF EXISTS linktree_changes`)

			return err
		},
	)
}
