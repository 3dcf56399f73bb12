package analytics

import (
	"time"

	"github.com/google/uuid"
)

// Topics for linktree events. Redis streams carry both.
const (
	TopicLinktreeChanged = "linktree.changed"
	TopicLinktreeViewed  = "linktree.viewed"
)

// Actions recorded on LinktreeChangedEvent.
const (
	ActionLinktreeDeleted = "linktree_deleted"
	ActionLinkCreated     = "link_created"
	ActionLinkUpdated     = "link_updated"
	ActionLinkDeleted     = "link_deleted"
)

// LinktreeChangedEvent is emitted by the management service after every
// successful mutation of a linktree's public content. The public service's
// consumer uses it to invalidate cached records.
type LinktreeChangedEvent struct {
	EventID   string    `json:"eventId"`
	Suffix    string    `json:"suffix"`
	Action    string    `json:"action"`
	ChangedAt time.Time `json:"changedAt"`
}

// NewLinktreeChangedEvent builds a changed event with a fresh event id,
// stamped now.
func NewLinktreeChangedEvent(suffix, action string) *LinktreeChangedEvent {
	return &LinktreeChangedEvent{
		EventID:   uuid.NewString(),
		Suffix:    suffix,
		Action:    action,
		ChangedAt: time.Now(),
	}
}

// LinktreeViewedEvent is emitted by the public service on every successful
// lookup.
type LinktreeViewedEvent struct {
	EventID   string    `json:"eventId"`
	Suffix    string    `json:"suffix"`
	CacheHit  bool      `json:"cacheHit"`
	ViewedAt  time.Time `json:"viewedAt"`
	ClientIP  string    `json:"clientIp"`
	UserAgent string    `json:"userAgent"`
	Referrer  string    `json:"referrer,omitempty"`
}
