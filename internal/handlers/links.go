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

// LinkHandler handles link mutations inside a linktree.
type LinkHandler struct {
	store          linktree.Repository
	publishChanged messaging.Publish[analytics.LinktreeChangedEvent]
	logger         *zap.Logger
}

// NewLinkHandler creates a new link handler.
func NewLinkHandler(
	store linktree.Repository,
	publishChanged messaging.Publish[analytics.LinktreeChangedEvent],
	logger *zap.Logger,
) *LinkHandler {
	return &LinkHandler{
		store:          store,
		publishChanged: publishChanged,
		logger:         logger,
	}
}

func (h *LinkHandler) Create(ctx context.Context, req *CreateLinkRequest) (*LinksResponse, error) {
	tree, err := h.ownedTree(ctx, req.LinktreeID)
	if err != nil {
		return nil, err
	}

	link := &linktree.Link{
		Text:       req.Body.Text,
		URL:        linktree.NormalizeURL(req.Body.URL),
		LinktreeID: tree.ID,
	}

	if err := linktree.ValidateLink(link.Text, link.URL); err != nil {
		return nil, huma.Error400BadRequest(err.Error())
	}

	if err := h.store.CreateLink(ctx, link); err != nil {
		h.logger.Error("failed to create link", zap.Error(err))

		return nil, huma.Error500InternalServerError("Internal server error")
	}

	h.notifyChanged(tree.Suffix, analytics.ActionLinkCreated)

	return h.linksResponse(ctx, tree.ID, "Link added successfully")
}

func (h *LinkHandler) Update(ctx context.Context, req *UpdateLinkRequest) (*LinksResponse, error) {
	tree, err := h.ownedTree(ctx, req.LinktreeID)
	if err != nil {
		return nil, err
	}

	link := &linktree.Link{
		ID:         req.LinkID,
		Text:       req.Body.Text,
		URL:        linktree.NormalizeURL(req.Body.URL),
		LinktreeID: tree.ID,
	}

	if err := linktree.ValidateLink(link.Text, link.URL); err != nil {
		return nil, huma.Error400BadRequest(err.Error())
	}

	if err := h.store.UpdateLink(ctx, link); err != nil {
		if errors.Is(err, linktree.ErrNotFound) {
			return nil, huma.Error404NotFound("Link not found")
		}

		h.logger.Error("failed to update link", zap.Error(err))

		return nil, huma.Error500InternalServerError("Internal server error")
	}

	h.notifyChanged(tree.Suffix, analytics.ActionLinkUpdated)

	return h.linksResponse(ctx, tree.ID, "Link updated successfully")
}

func (h *LinkHandler) Delete(ctx context.Context, req *DeleteLinkRequest) (*LinksResponse, error) {
	tree, err := h.ownedTree(ctx, req.LinktreeID)
	if err != nil {
		return nil, err
	}

	if err := h.store.DeleteLink(ctx, req.LinkID, tree.ID); err != nil {
		if errors.Is(err, linktree.ErrNotFound) {
			return nil, huma.Error404NotFound("Link not found")
		}

		h.logger.Error("failed to delete link", zap.Error(err))

		return nil, huma.Error500InternalServerError("Internal server error")
	}

	h.notifyChanged(tree.Suffix, analytics.ActionLinkDeleted)

	return h.linksResponse(ctx, tree.ID, "Link deleted successfully")
}

// ownedTree loads a linktree and enforces that the current user owns it.
// Ownership failures read as not-found so link ids cannot be probed across
// users.
func (h *LinkHandler) ownedTree(ctx context.Context, linktreeID int64) (*linktree.Linktree, error) {
	userID := middleware.UserIDFromContext(ctx)
	if userID == 0 {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	tree, err := h.store.GetByIDAndUser(ctx, linktreeID, userID)
	if err != nil {
		if errors.Is(err, linktree.ErrNotFound) {
			return nil, huma.Error404NotFound("Linktree not found")
		}

		h.logger.Error("failed to get linktree", zap.Error(err))

		return nil, huma.Error500InternalServerError("Internal server error")
	}

	return tree, nil
}

func (h *LinkHandler) linksResponse(ctx context.Context, linktreeID int64, message string) (*LinksResponse, error) {
	links, err := h.store.ListLinks(ctx, linktreeID)
	if err != nil {
		h.logger.Error("failed to list links", zap.Error(err))

		return nil, huma.Error500InternalServerError("Internal server error")
	}

	resp := &LinksResponse{}
	resp.Body.Message = message
	resp.Body.Links = toLinkItems(links)

	return resp, nil
}

func (h *LinkHandler) notifyChanged(suffix, action string) {
	event := analytics.NewLinktreeChangedEvent(suffix, action)

	if err := h.publishChanged(event); err != nil {
		h.logger.Error("failed to publish changed event",
			zap.String("suffix", suffix),
			zap.String("action", action),
			zap.Error(err),
		)
	}
}
