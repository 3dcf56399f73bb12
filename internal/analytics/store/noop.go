package store

import (
	"context"

	"github.com/serroba/linktree-go/internal/analytics"
	"go.uber.org/zap"
)

// Noop is a no-op implementation of analytics.Store that logs events.
type Noop struct {
	logger *zap.Logger
}

// NewNoop creates a new no-op analytics store.
func NewNoop(logger *zap.Logger) *Noop {
	return &Noop{logger: logger}
}

func (n *Noop) SaveLinktreeChanged(_ context.Context, event *analytics.LinktreeChangedEvent) error {
	n.logger.Info("linktree changed event received",
		zap.String("suffix", event.Suffix),
		zap.String("action", event.Action),
		zap.Time("changedAt", event.ChangedAt),
	)

	return nil
}

func (n *Noop) SaveLinktreeViewed(_ context.Context, event *analytics.LinktreeViewedEvent) error {
	n.logger.Info("linktree viewed event received",
		zap.String("suffix", event.Suffix),
		zap.Bool("cacheHit", event.CacheHit),
		zap.Time("viewedAt", event.ViewedAt),
		zap.String("referrer", event.Referrer),
	)

	return nil
}
