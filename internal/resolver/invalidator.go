package resolver

import (
	"context"

	"github.com/serroba/linktree-go/internal/analytics"
	"go.uber.org/zap"
)

// Invalidator drops cached records when the management service reports a
// change. Entries expire on their own via TTL; invalidation just shortens the
// staleness window, so failures are logged and swallowed.
type Invalidator struct {
	cache  CacheStore
	logger *zap.Logger
}

// NewInvalidator creates an invalidator over the given cache.
func NewInvalidator(cache CacheStore, logger *zap.Logger) *Invalidator {
	return &Invalidator{
		cache:  cache,
		logger: logger,
	}
}

// HandleLinktreeChanged removes the cached record for the changed suffix.
func (i *Invalidator) HandleLinktreeChanged(ctx context.Context, event *analytics.LinktreeChangedEvent) error {
	if err := i.cache.Delete(ctx, keyPrefix+event.Suffix); err != nil {
		i.logger.Warn("cache invalidation failed",
			zap.String("suffix", event.Suffix),
			zap.String("action", event.Action),
			zap.Error(err),
		)

		return nil
	}

	i.logger.Debug("invalidated cached linktree",
		zap.String("suffix", event.Suffix),
		zap.String("action", event.Action),
	)

	return nil
}
