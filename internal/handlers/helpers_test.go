package handlers_test

import (
	"context"
	"errors"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/linktree-go/internal/linktree"
	"github.com/serroba/linktree-go/internal/messaging"
	"github.com/serroba/linktree-go/internal/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errMock = errors.New("mock error")

// noopPublish returns a publish function that always succeeds.
func noopPublish[T any]() messaging.Publish[T] {
	return func(_ *T) error { return nil }
}

// errorPublish returns a publish function that always fails.
func errorPublish[T any](err error) messaging.Publish[T] {
	return func(_ *T) error { return err }
}

// publishRecorder captures published events for assertions.
type publishRecorder[T any] struct {
	events []*T
}

func (r *publishRecorder[T]) publish(event *T) error {
	r.events = append(r.events, event)

	return nil
}

// failingTreeStore wraps a repository and fails selected methods.
type failingTreeStore struct {
	linktree.Repository

	listErr       error
	createErr     error
	getErr        error
	deleteErr     error
	listLinksErr  error
	createLinkErr error
	updateLinkErr error
	deleteLinkErr error
}

func (s *failingTreeStore) ListByUser(ctx context.Context, userID int64) ([]linktree.Linktree, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}

	return s.Repository.ListByUser(ctx, userID)
}

func (s *failingTreeStore) Create(ctx context.Context, tree *linktree.Linktree) error {
	if s.createErr != nil {
		return s.createErr
	}

	return s.Repository.Create(ctx, tree)
}

func (s *failingTreeStore) GetByIDAndUser(ctx context.Context, id, userID int64) (*linktree.Linktree, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}

	return s.Repository.GetByIDAndUser(ctx, id, userID)
}

func (s *failingTreeStore) Delete(ctx context.Context, id, userID int64) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}

	return s.Repository.Delete(ctx, id, userID)
}

func (s *failingTreeStore) ListLinks(ctx context.Context, linktreeID int64) ([]linktree.Link, error) {
	if s.listLinksErr != nil {
		return nil, s.listLinksErr
	}

	return s.Repository.ListLinks(ctx, linktreeID)
}

func (s *failingTreeStore) CreateLink(ctx context.Context, link *linktree.Link) error {
	if s.createLinkErr != nil {
		return s.createLinkErr
	}

	return s.Repository.CreateLink(ctx, link)
}

func (s *failingTreeStore) UpdateLink(ctx context.Context, link *linktree.Link) error {
	if s.updateLinkErr != nil {
		return s.updateLinkErr
	}

	return s.Repository.UpdateLink(ctx, link)
}

func (s *failingTreeStore) DeleteLink(ctx context.Context, linkID, linktreeID int64) error {
	if s.deleteLinkErr != nil {
		return s.deleteLinkErr
	}

	return s.Repository.DeleteLink(ctx, linkID, linktreeID)
}

// userContext returns a context authenticated as the given user.
func userContext(userID int64) context.Context {
	return middleware.ContextWithUserID(context.Background(), userID)
}

// requireStatus asserts that err carries the given HTTP status and message.
func requireStatus(t *testing.T, err error, status int, message string) {
	t.Helper()

	require.Error(t, err)

	var statusErr huma.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, status, statusErr.GetStatus())
	assert.Equal(t, message, err.Error())
}
