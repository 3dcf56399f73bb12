package handlers

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/linktree-go/internal/analytics"
	"github.com/serroba/linktree-go/internal/linktree"
	"github.com/serroba/linktree-go/internal/messaging"
	"github.com/serroba/linktree-go/internal/middleware"
	"go.uber.org/zap"
)

// LinktreeHandler handles linktree management operations.
type LinktreeHandler struct {
	store          linktree.Repository
	publishChanged messaging.Publish[analytics.LinktreeChangedEvent]
	logger         *zap.Logger
}

// NewLinktreeHandler creates a new linktree handler.
func NewLinktreeHandler(
	store linktree.Repository,
	publishChanged messaging.Publish[analytics.LinktreeChangedEvent],
	logger *zap.Logger,
) *LinktreeHandler {
	return &LinktreeHandler{
		store:          store,
		publishChanged: publishChanged,
		logger:         logger,
	}
}

func (h *LinktreeHandler) List(ctx context.Context, _ *struct{}) (*ListLinktreesResponse, error) {
	userID := middleware.UserIDFromContext(ctx)
	if userID == 0 {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	trees, err := h.store.ListByUser(ctx, userID)
	if err != nil {
		h.logger.Error("failed to list linktrees", zap.Error(err))

		return nil, huma.Error500InternalServerError("Internal server error")
	}

	resp := &ListLinktreesResponse{}
	resp.Body.Linktrees = make([]LinktreeSummary, 0, len(trees))

	for _, tree := range trees {
		resp.Body.Linktrees = append(resp.Body.Linktrees, LinktreeSummary{
			ID:     tree.ID,
			Suffix: tree.Suffix,
		})
	}

	return resp, nil
}

func (h *LinktreeHandler) Create(ctx context.Context, req *CreateLinktreeRequest) (*CreateLinktreeResponse, error) {
	userID := middleware.UserIDFromContext(ctx)
	if userID == 0 {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	if err := linktree.ValidateNewSuffix(req.Body.Suffix); err != nil {
		return nil, huma.Error400BadRequest(err.Error())
	}

	tree := &linktree.Linktree{
		UserID: userID,
		Suffix: req.Body.Suffix,
	}

	if err := h.store.Create(ctx, tree); err != nil {
		if errors.Is(err, linktree.ErrSuffixTaken) {
			return nil, huma.Error409Conflict("Linktree suffix already exists")
		}

		h.logger.Error("failed to create linktree", zap.Error(err))

		return nil, huma.Error500InternalServerError("Internal server error")
	}

	resp := &CreateLinktreeResponse{}
	resp.Body.ID = tree.ID
	resp.Body.Suffix = tree.Suffix
	resp.Body.Message = "Linktree created successfully"

	return resp, nil
}

func (h *LinktreeHandler) Get(ctx context.Context, req *GetLinktreeRequest) (*GetLinktreeResponse, error) {
	userID := middleware.UserIDFromContext(ctx)
	if userID == 0 {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	tree, err := h.store.GetByIDAndUser(ctx, req.LinktreeID, userID)
	if err != nil {
		if errors.Is(err, linktree.ErrNotFound) {
			return nil, huma.Error404NotFound("Linktree not found")
		}

		h.logger.Error("failed to get linktree", zap.Error(err))

		return nil, huma.Error500InternalServerError("Internal server error")
	}

	links, err := h.store.ListLinks(ctx, tree.ID)
	if err != nil {
		h.logger.Error("failed to list links", zap.Error(err))

		return nil, huma.Error500InternalServerError("Internal server error")
	}

	resp := &GetLinktreeResponse{}
	resp.Body.ID = tree.ID
	resp.Body.Suffix = tree.Suffix
	resp.Body.Links = toLinkItems(links)

	return resp, nil
}

func (h *LinktreeHandler) Delete(ctx context.Context, req *DeleteLinktreeRequest) (*MessageResponse, error) {
	userID := middleware.UserIDFromContext(ctx)
	if userID == 0 {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	// Resolve first so the changed event can carry the suffix.
	tree, err := h.store.GetByIDAndUser(ctx, req.LinktreeID, userID)
	if err != nil {
		if errors.Is(err, linktree.ErrNotFound) {
			return nil, huma.Error404NotFound("Linktree not found")
		}

		h.logger.Error("failed to get linktree", zap.Error(err))

		return nil, huma.Error500InternalServerError("Internal server error")
	}

	if err := h.store.Delete(ctx, req.LinktreeID, userID); err != nil {
		if errors.Is(err, linktree.ErrNotFound) {
			return nil, huma.Error404NotFound("Linktree not found")
		}

		h.logger.Error("failed to delete linktree", zap.Error(err))

		return nil, huma.Error500InternalServerError("Internal server error")
	}

	h.notifyChanged(tree.Suffix, analytics.ActionLinktreeDeleted)

	resp := &MessageResponse{}
	resp.Body.Message = "Linktree deleted successfully"

	return resp, nil
}

// PublicBySuffix serves the unauthenticated read the public service fetches.
func (h *LinktreeHandler) PublicBySuffix(ctx context.Context, req *PublicLinktreeRequest) (*PublicLinktreeResponse, error) {
	if err := linktree.ValidateSuffix(req.Suffix); err != nil {
		return nil, huma.Error400BadRequest(err.Error())
	}

	tree, err := h.store.GetBySuffix(ctx, req.Suffix)
	if err != nil {
		if errors.Is(err, linktree.ErrNotFound) {
			return nil, huma.Error404NotFound("Linktree not found")
		}

		h.logger.Error("failed to get linktree by suffix", zap.Error(err))

		return nil, huma.Error500InternalServerError("Internal server error")
	}

	links, err := h.store.ListLinks(ctx, tree.ID)
	if err != nil {
		h.logger.Error("failed to list links", zap.Error(err))

		return nil, huma.Error500InternalServerError("Internal server error")
	}

	resp := &PublicLinktreeResponse{}
	resp.Body.Suffix = tree.Suffix
	resp.Body.Links = toLinkItems(links)

	return resp, nil
}

// notifyChanged publishes a change event best-effort. Publishing failures are
// logged, not surfaced: the mutation already succeeded and cached entries
// expire on their own.
func (h *LinktreeHandler) notifyChanged(suffix, action string) {
	event := analytics.NewLinktreeChangedEvent(suffix, action)

	if err := h.publishChanged(event); err != nil {
		h.logger.Error("failed to publish changed event",
			zap.String("suffix", suffix),
			zap.String("action", action),
			zap.Error(err),
		)
	}
}

func toLinkItems(links []linktree.Link) []LinkItem {
	items := make([]LinkItem, 0, len(links))

	for _, link := range links {
		items = append(items, LinkItem{
			ID:   link.ID,
			Text: link.Text,
			URL:  link.URL,
		})
	}

	return items
}
