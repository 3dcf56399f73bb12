package analytics

import "context"

// Store defines the interface for persisting analytics events.
type Store interface {
	SaveLinktreeChanged(ctx context.Context, event *LinktreeChangedEvent) error
	SaveLinktreeViewed(ctx context.Context, event *LinktreeViewedEvent) error
}
