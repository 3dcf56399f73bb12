package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"github.com/serroba/linktree-go/internal/analytics"
	"github.com/serroba/linktree-go/internal/linktree"
	"github.com/serroba/linktree-go/internal/messaging"
	"github.com/serroba/linktree-go/internal/middleware"
	"github.com/serroba/linktree-go/internal/resolver"
	"go.uber.org/zap"
)

// PublicHandler serves public linktree lookups through the cache-backed
// resolver.
type PublicHandler struct {
	resolver      *resolver.Resolver
	publishViewed messaging.Publish[analytics.LinktreeViewedEvent]
	logger        *zap.Logger
}

// NewPublicHandler creates a new public lookup handler.
func NewPublicHandler(
	res *resolver.Resolver,
	publishViewed messaging.Publish[analytics.LinktreeViewedEvent],
	logger *zap.Logger,
) *PublicHandler {
	return &PublicHandler{
		resolver:      res,
		publishViewed: publishViewed,
		logger:        logger,
	}
}

func (h *PublicHandler) Lookup(ctx context.Context, req *PublicLookupRequest) (*PublicLinktreeResponse, error) {
	if err := linktree.ValidateSuffix(req.Suffix); err != nil {
		return nil, huma.Error400BadRequest(err.Error())
	}

	record, cacheHit, err := h.resolver.Resolve(ctx, req.Suffix)
	if err != nil {
		if errors.Is(err, resolver.ErrNotFound) {
			return nil, huma.Error404NotFound("Linktree not found")
		}

		h.logger.Error("lookup failed", zap.String("suffix", req.Suffix), zap.Error(err))

		return nil, huma.Error500InternalServerError("Internal server error")
	}

	h.notifyViewed(ctx, record.Suffix, cacheHit)

	resp := &PublicLinktreeResponse{}
	resp.Body.Suffix = record.Suffix
	resp.Body.Links = make([]LinkItem, 0, len(record.Links))

	for _, link := range record.Links {
		resp.Body.Links = append(resp.Body.Links, LinkItem{
			ID:   link.ID,
			Text: link.Text,
			URL:  link.URL,
		})
	}

	return resp, nil
}

// notifyViewed publishes a view event best-effort. The lookup result is
// already decided, so publish failures are only logged.
func (h *PublicHandler) notifyViewed(ctx context.Context, suffix string, cacheHit bool) {
	meta := middleware.RequestMetaFromContext(ctx)

	event := &analytics.LinktreeViewedEvent{
		EventID:   uuid.NewString(),
		Suffix:    suffix,
		CacheHit:  cacheHit,
		ViewedAt:  time.Now(),
		ClientIP:  meta.ClientIP,
		UserAgent: meta.UserAgent,
		Referrer:  meta.Referrer,
	}

	if err := h.publishViewed(event); err != nil {
		h.logger.Error("failed to publish viewed event",
			zap.String("suffix", suffix),
			zap.Error(err),
		)
	}
}
