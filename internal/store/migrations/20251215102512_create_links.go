package migrations

import (
	"context"

	"github.com/uptrace/bun"
)

func init() {
	Management.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			_, err := db.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS links (
					id BIGSERIAL PRIMARY KEY,
					link_text TEXT NOT NULL,
					link_url TEXT NOT NULL,
					linktree_id BIGINT NOT NULL
						REFERENCES linktrees (id) ON DELETE CASCADE
				)
			`)

			return err
		},
		func(ctx context.Context, db *bun.DB) error {
			_, err := db.ExecContext(ctx, `DROP TABLE IF EXISTS links`)

			return err
		},
	)
}
