package store

import (
	"context"
	"time"

	"github.com/serroba/linktree-go/internal/analytics"
	"github.com/uptrace/bun"
)

type changedRow struct {
	bun.BaseModel `bun:"table:linktree_changes"`

	ID        int64     `bun:"id,pk,autoincrement"`
	EventID   string    `bun:"event_id"`
	Suffix    string    `bun:"suffix"`
	Action    string    `bun:"action"`
	ChangedAt time.Time `bun:"changed_at"`
}

type viewedRow struct {
	bun.BaseModel `bun:"table:linktree_views"`

	ID        int64     `bun:"id,pk,autoincrement"`
	EventID   string    `bun:"event_id"`
	Suffix    string    `bun:"suffix"`
	CacheHit  bool      `bun:"cache_hit"`
	ViewedAt  time.Time `bun:"viewed_at"`
	ClientIP  string    `bun:"client_ip"`
	UserAgent string    `bun:"user_agent"`
	Referrer  string    `bun:"referrer"`
}

// Postgres persists analytics events. Inserts are keyed by event id, so
// redelivered messages land exactly once.
type Postgres struct {
	db *bun.DB
}

// NewPostgres creates a new Postgres analytics store.
func NewPostgres(db *bun.DB) *Postgres {
	return &Postgres{db: db}
}

func (p *Postgres) SaveLinktreeChanged(ctx context.Context, event *analytics.LinktreeChangedEvent) error {
	row := &changedRow{
		EventID:   event.EventID,
		Suffix:    event.Suffix,
		Action:    event.Action,
		ChangedAt: event.ChangedAt,
	}

	_, err := p.db.NewInsert().
		Model(row).
		On("CONFLICT (event_id) DO NOTHING").
		Exec(ctx)

	return err
}

func (p *Postgres) SaveLinktreeViewed(ctx context.Context, event *analytics.LinktreeViewedEvent) error {
	row := &viewedRow{
		EventID:   event.EventID,
		Suffix:    event.Suffix,
		CacheHit:  event.CacheHit,
		ViewedAt:  event.ViewedAt,
		ClientIP:  event.ClientIP,
		UserAgent: event.UserAgent,
		Referrer:  event.Referrer,
	}

	_, err := p.db.NewInsert().
		Model(row).
		On("CONFLICT (event_id) DO NOTHING").
		Exec(ctx)

	return err
}

var _ analytics.Store = (*Postgres)(nil)
