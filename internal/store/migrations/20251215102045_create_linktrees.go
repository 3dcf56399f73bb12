package migrations

import (
	"context"

	"github.com/uptrace/bun"
)

func init() {
	Management.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			_, err := db.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS linktrees (
					id BIGSERIAL PRIMARY KEY,
					user_id BIGINT NOT NULL,
					linktree_suffix TEXT NOT NULL UNIQUE
				)
			`)

			return err
		},
		func(ctx context.Context, db *bun.DB) error {
			_, err := db.ExecContext(ctx, `DROP TABLE IF EXISTS linktrees`)

			return err
		},
	)
}
