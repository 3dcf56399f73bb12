// Package resolver implements the cache-aside read path of the public
// linktree service: check the cache, fall back to the management service on a
// miss, and write the result back with a TTL. The cache and the upstream are
// independently failing best-effort dependencies; a failure of one must never
// make the other inaccessible.
package resolver

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"
)

const keyPrefix = "linktree:"

var (
	// ErrNotFound is returned when no linktree exists for a suffix. Upstream
	// transport failures collapse into this error as well; callers cannot
	// distinguish "absent" from "unreachable".
	ErrNotFound = errors.New("linktree not found")

	// ErrCacheMiss is returned by CacheStore implementations when a key is
	// absent (as opposed to the backend failing).
	ErrCacheMiss = errors.New("cache miss")
)

// Record is the public snapshot of a linktree served to anonymous visitors.
// It is a disposable projection; the management database stays authoritative.
type Record struct {
	Suffix string `json:"linktreeSuffix"`
	Links  []Link `json:"links"`
}

// Link is a single public link entry.
type Link struct {
	ID   int64  `json:"id"`
	Text string `json:"link_text"`
	URL  string `json:"link_url"`
}

// CacheStore is a key-value store with native expiry. Get returns ErrCacheMiss
// for absent keys and any other error for backend failures.
type CacheStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Fetcher retrieves a record from the source of truth. Implementations return
// ErrNotFound when the linktree does not exist.
type Fetcher interface {
	FetchBySuffix(ctx context.Context, suffix string) (*Record, error)
}

// Resolver orchestrates the cache-aside lookup.
type Resolver struct {
	cache   CacheStore
	fetcher Fetcher
	ttl     time.Duration
	logger  *zap.Logger
}

// New creates a resolver that caches fetched records for the given TTL.
func New(cache CacheStore, fetcher Fetcher, ttl time.Duration, logger *zap.Logger) *Resolver {
	return &Resolver{
		cache:   cache,
		fetcher: fetcher,
		ttl:     ttl,
		logger:  logger,
	}
}

// Resolve returns the public record for a suffix along with whether it was
// served from cache. The suffix is assumed non-empty (the HTTP layer validates
// it) and is compared verbatim.
//
// Within one call the cache read strictly precedes the upstream fetch, which
// strictly precedes the cache write. Concurrent calls for the same suffix are
// not coordinated; both may fetch upstream.
func (r *Resolver) Resolve(ctx context.Context, suffix string) (*Record, bool, error) {
	key := keyPrefix + suffix

	if record, ok := r.readCache(ctx, key, suffix); ok {
		return record, true, nil
	}

	record, err := r.fetcher.FetchBySuffix(ctx, suffix)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			// Negative results are not cached; a later call re-queries upstream.
			return nil, false, ErrNotFound
		}

		// Upstream degraded. Log distinctly, but keep the external contract:
		// the caller sees the same not-found outcome either way.
		r.logger.Error("upstream fetch failed",
			zap.String("suffix", suffix),
			zap.Error(err),
		)

		return nil, false, ErrNotFound
	}

	r.writeCache(ctx, key, suffix, record)

	return record, false, nil
}

// readCache attempts a cache read. All failure modes (backend down, malformed
// payload) are logged and reported as a miss; the cache is never a source of
// fatal errors.
func (r *Resolver) readCache(ctx context.Context, key, suffix string) (*Record, bool) {
	payload, err := r.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			r.logger.Warn("cache read failed",
				zap.String("suffix", suffix),
				zap.Error(err),
			)
		}

		return nil, false
	}

	var record Record
	if err := json.Unmarshal(payload, &record); err != nil {
		r.logger.Warn("cached record malformed",
			zap.String("suffix", suffix),
			zap.Error(err),
		)

		return nil, false
	}

	return &record, true
}

// writeCache stores a fetched record best-effort. Write failures are swallowed;
// the record is still returned to the current caller, just not cached for the
// next one.
func (r *Resolver) writeCache(ctx context.Context, key, suffix string, record *Record) {
	payload, err := json.Marshal(record)
	if err != nil {
		r.logger.Warn("failed to serialize record for cache",
			zap.String("suffix", suffix),
			zap.Error(err),
		)

		return
	}

	if err := r.cache.Set(ctx, key, payload, r.ttl); err != nil {
		r.logger.Warn("cache write failed",
			zap.String("suffix", suffix),
			zap.Error(err),
		)
	}
}
