package ratelimit

import (
	"context"
	"time"
)

// Store defines the interface for rate limit data storage.
type Store interface {
	// Record records a request and returns the count of requests in the
	// current window. It automatically prunes expired entries.
	Record(ctx context.Context, key string, window time.Duration) (count int64, err error)
}

// LimitConfig is one window/max pair.
type LimitConfig struct {
	Window time.Duration
	Max    int64
}

// MetadataKey is the key used to store rate limit config in operation metadata.
const MetadataKey = "rateLimit"

// EndpointConfig defines per-endpoint rate limit configuration, attached to
// Huma operations via the Metadata field. When Limits is empty the middleware
// falls back to its default limits.
type EndpointConfig struct {
	Limits []LimitConfig

	// Disabled skips rate limiting entirely for this endpoint.
	Disabled bool
}

// SlidingWindowLimiter enforces a set of limits against a Store.
type SlidingWindowLimiter struct {
	store Store
}

// Exceeded describes which limit was hit.
type Exceeded struct {
	Config LimitConfig
	Count  int64
}

// NewSlidingWindowLimiter creates a limiter over the given store.
func NewSlidingWindowLimiter(store Store) *SlidingWindowLimiter {
	return &SlidingWindowLimiter{store: store}
}

// Allow records a request under each limit's key and reports whether all
// limits hold. Keys combine the caller-provided base key with the window so
// each window tracks independently.
func (l *SlidingWindowLimiter) Allow(ctx context.Context, baseKey string, limits []LimitConfig) (bool, *Exceeded, error) {
	for _, limit := range limits {
		key := baseKey + ":" + limit.Window.String()

		count, err := l.store.Record(ctx, key, limit.Window)
		if err != nil {
			return false, nil, err
		}

		if count > limit.Max {
			return false, &Exceeded{Config: limit, Count: count}, nil
		}
	}

	return true, nil, nil
}
