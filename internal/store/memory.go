package store

import (
	"context"
	"sync"

	"github.com/serroba/linktree-go/internal/auth"
	"github.com/serroba/linktree-go/internal/linktree"
)

// MemoryUserStore is an in-memory implementation of auth.Repository.
type MemoryUserStore struct {
	mu     sync.RWMutex
	users  map[string]*auth.User // email -> user
	nextID int64
}

// NewMemoryUserStore creates a new in-memory user store.
func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{
		users:  make(map[string]*auth.User),
		nextID: 1,
	}
}

func (m *MemoryUserStore) Create(_ context.Context, user *auth.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.users[user.Email]; exists {
		return auth.ErrEmailTaken
	}

	user.ID = m.nextID
	m.nextID++

	stored := *user
	m.users[user.Email] = &stored

	return nil
}

func (m *MemoryUserStore) GetByEmail(_ context.Context, email string) (*auth.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	user, ok := m.users[email]
	if !ok {
		return nil, auth.ErrNotFound
	}

	found := *user

	return &found, nil
}

// MemoryLinktreeStore is an in-memory implementation of linktree.Repository.
type MemoryLinktreeStore struct {
	mu         sync.RWMutex
	trees      map[int64]*linktree.Linktree
	links      map[int64]*linktree.Link
	nextTreeID int64
	nextLinkID int64
}

// NewMemoryLinktreeStore creates a new in-memory linktree store.
func NewMemoryLinktreeStore() *MemoryLinktreeStore {
	return &MemoryLinktreeStore{
		trees:      make(map[int64]*linktree.Linktree),
		links:      make(map[int64]*linktree.Link),
		nextTreeID: 1,
		nextLinkID: 1,
	}
}

func (m *MemoryLinktreeStore) ListByUser(_ context.Context, userID int64) ([]linktree.Linktree, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	trees := make([]linktree.Linktree, 0)

	for id := int64(1); id < m.nextTreeID; id++ {
		if tree, ok := m.trees[id]; ok && tree.UserID == userID {
			trees = append(trees, *tree)
		}
	}

	return trees, nil
}

func (m *MemoryLinktreeStore) Create(_ context.Context, tree *linktree.Linktree) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.trees {
		if existing.Suffix == tree.Suffix {
			return linktree.ErrSuffixTaken
		}
	}

	tree.ID = m.nextTreeID
	m.nextTreeID++

	stored := *tree
	m.trees[tree.ID] = &stored

	return nil
}

func (m *MemoryLinktreeStore) GetBySuffix(_ context.Context, suffix string) (*linktree.Linktree, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, tree := range m.trees {
		if tree.Suffix == suffix {
			found := *tree

			return &found, nil
		}
	}

	return nil, linktree.ErrNotFound
}

func (m *MemoryLinktreeStore) GetByIDAndUser(_ context.Context, id, userID int64) (*linktree.Linktree, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	tree, ok := m.trees[id]
	if !ok || tree.UserID != userID {
		return nil, linktree.ErrNotFound
	}

	found := *tree

	return &found, nil
}

func (m *MemoryLinktreeStore) Delete(_ context.Context, id, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	tree, ok := m.trees[id]
	if !ok || tree.UserID != userID {
		return linktree.ErrNotFound
	}

	delete(m.trees, id)

	// Cascade to links, matching the FK behavior.
	for linkID, link := range m.links {
		if link.LinktreeID == id {
			delete(m.links, linkID)
		}
	}

	return nil
}

func (m *MemoryLinktreeStore) ListLinks(_ context.Context, linktreeID int64) ([]linktree.Link, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	links := make([]linktree.Link, 0)

	for id := int64(1); id < m.nextLinkID; id++ {
		if link, ok := m.links[id]; ok && link.LinktreeID == linktreeID {
			links = append(links, *link)
		}
	}

	return links, nil
}

func (m *MemoryLinktreeStore) CreateLink(_ context.Context, link *linktree.Link) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	link.ID = m.nextLinkID
	m.nextLinkID++

	stored := *link
	m.links[link.ID] = &stored

	return nil
}

func (m *MemoryLinktreeStore) UpdateLink(_ context.Context, link *linktree.Link) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.links[link.ID]
	if !ok || existing.LinktreeID != link.LinktreeID {
		return linktree.ErrNotFound
	}

	existing.Text = link.Text
	existing.URL = link.URL

	return nil
}

func (m *MemoryLinktreeStore) DeleteLink(_ context.Context, linkID, linktreeID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	link, ok := m.links[linkID]
	if !ok || link.LinktreeID != linktreeID {
		return linktree.ErrNotFound
	}

	delete(m.links, linkID)

	return nil
}

// Compile-time checks.
var (
	_ auth.Repository     = (*MemoryUserStore)(nil)
	_ linktree.Repository = (*MemoryLinktreeStore)(nil)
)
