package resolver_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/serroba/linktree-go/internal/analytics"
	"github.com/serroba/linktree-go/internal/resolver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var errBackend = errors.New("backend error")

// fakeCache is an in-memory CacheStore whose operations can be forced to fail.
type fakeCache struct {
	data      map[string][]byte
	ttls      map[string]time.Duration
	getErr    error
	setErr    error
	deleteErr error
	gets      int
	sets      int
}

func newFakeCache() *fakeCache {
	return &fakeCache{
		data: make(map[string][]byte),
		ttls: make(map[string]time.Duration),
	}
}

func (c *fakeCache) Get(_ context.Context, key string) ([]byte, error) {
	c.gets++

	if c.getErr != nil {
		return nil, c.getErr
	}

	payload, ok := c.data[key]
	if !ok {
		return nil, resolver.ErrCacheMiss
	}

	return payload, nil
}

func (c *fakeCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.sets++

	if c.setErr != nil {
		return c.setErr
	}

	c.data[key] = value
	c.ttls[key] = ttl

	return nil
}

func (c *fakeCache) Delete(_ context.Context, key string) error {
	if c.deleteErr != nil {
		return c.deleteErr
	}

	delete(c.data, key)

	return nil
}

// fakeFetcher serves records from a map and counts upstream calls.
type fakeFetcher struct {
	records  map[string]*resolver.Record
	fetchErr error
	fetches  int
}

func newFakeFetcher(records ...*resolver.Record) *fakeFetcher {
	f := &fakeFetcher{records: make(map[string]*resolver.Record)}

	for _, record := range records {
		f.records[record.Suffix] = record
	}

	return f
}

func (f *fakeFetcher) FetchBySuffix(_ context.Context, suffix string) (*resolver.Record, error) {
	f.fetches++

	if f.fetchErr != nil {
		return nil, f.fetchErr
	}

	record, ok := f.records[suffix]
	if !ok {
		return nil, resolver.ErrNotFound
	}

	return record, nil
}

func aliceRecord() *resolver.Record {
	return &resolver.Record{
		Suffix: "alice",
		Links: []resolver.Link{
			{ID: 1, Text: "Blog", URL: "https://alice.example.com"},
		},
	}
}

func newResolver(cache *fakeCache, fetcher *fakeFetcher) *resolver.Resolver {
	return resolver.New(cache, fetcher, time.Minute, zap.NewNop())
}

func TestResolve(t *testing.T) {
	t.Run("miss fetches upstream and caches the record", func(t *testing.T) {
		cache := newFakeCache()
		fetcher := newFakeFetcher(aliceRecord())
		res := newResolver(cache, fetcher)

		record, cacheHit, err := res.Resolve(context.Background(), "alice")

		require.NoError(t, err)
		assert.False(t, cacheHit)
		assert.Equal(t, "alice", record.Suffix)
		assert.Len(t, record.Links, 1)
		assert.Equal(t, 1, fetcher.fetches)

		cached, ok := cache.data["linktree:alice"]
		require.True(t, ok)

		var stored resolver.Record
		require.NoError(t, json.Unmarshal(cached, &stored))
		assert.Equal(t, *record, stored)
		assert.Equal(t, time.Minute, cache.ttls["linktree:alice"])
	})

	t.Run("hit skips upstream entirely", func(t *testing.T) {
		cache := newFakeCache()
		fetcher := newFakeFetcher(aliceRecord())
		res := newResolver(cache, fetcher)

		_, _, err := res.Resolve(context.Background(), "alice")
		require.NoError(t, err)

		record, cacheHit, err := res.Resolve(context.Background(), "alice")

		require.NoError(t, err)
		assert.True(t, cacheHit)
		assert.Equal(t, "alice", record.Suffix)
		assert.Equal(t, 1, fetcher.fetches)
	})

	t.Run("unknown suffix is not found and not cached", func(t *testing.T) {
		cache := newFakeCache()
		fetcher := newFakeFetcher()
		res := newResolver(cache, fetcher)

		record, cacheHit, err := res.Resolve(context.Background(), "ghost")

		assert.Nil(t, record)
		assert.False(t, cacheHit)
		assert.ErrorIs(t, err, resolver.ErrNotFound)
		assert.Zero(t, cache.sets)

		// A later call queries upstream again.
		_, _, err = res.Resolve(context.Background(), "ghost")
		assert.ErrorIs(t, err, resolver.ErrNotFound)
		assert.Equal(t, 2, fetcher.fetches)
	})

	t.Run("upstream failure reads as not found", func(t *testing.T) {
		cache := newFakeCache()
		fetcher := newFakeFetcher()
		fetcher.fetchErr = errBackend
		res := newResolver(cache, fetcher)

		record, cacheHit, err := res.Resolve(context.Background(), "alice")

		assert.Nil(t, record)
		assert.False(t, cacheHit)
		assert.ErrorIs(t, err, resolver.ErrNotFound)
		assert.Zero(t, cache.sets)
	})

	t.Run("cache read failure falls through to upstream", func(t *testing.T) {
		cache := newFakeCache()
		cache.getErr = errBackend
		fetcher := newFakeFetcher(aliceRecord())
		res := newResolver(cache, fetcher)

		record, cacheHit, err := res.Resolve(context.Background(), "alice")

		require.NoError(t, err)
		assert.False(t, cacheHit)
		assert.Equal(t, "alice", record.Suffix)
		assert.Equal(t, 1, fetcher.fetches)
	})

	t.Run("cache write failure still returns the record", func(t *testing.T) {
		cache := newFakeCache()
		cache.setErr = errBackend
		fetcher := newFakeFetcher(aliceRecord())
		res := newResolver(cache, fetcher)

		record, cacheHit, err := res.Resolve(context.Background(), "alice")

		require.NoError(t, err)
		assert.False(t, cacheHit)
		assert.Equal(t, "alice", record.Suffix)
	})

	t.Run("malformed cached payload reads as miss", func(t *testing.T) {
		cache := newFakeCache()
		cache.data["linktree:alice"] = []byte("{not json")
		fetcher := newFakeFetcher(aliceRecord())
		res := newResolver(cache, fetcher)

		record, cacheHit, err := res.Resolve(context.Background(), "alice")

		require.NoError(t, err)
		assert.False(t, cacheHit)
		assert.Equal(t, "alice", record.Suffix)
		assert.Equal(t, 1, fetcher.fetches)
	})

	t.Run("linktree with no links is cached like any other", func(t *testing.T) {
		cache := newFakeCache()
		fetcher := newFakeFetcher(&resolver.Record{Suffix: "empty", Links: []resolver.Link{}})
		res := newResolver(cache, fetcher)

		record, cacheHit, err := res.Resolve(context.Background(), "empty")

		require.NoError(t, err)
		assert.False(t, cacheHit)
		assert.Empty(t, record.Links)
		assert.Contains(t, cache.data, "linktree:empty")

		record, cacheHit, err = res.Resolve(context.Background(), "empty")

		require.NoError(t, err)
		assert.True(t, cacheHit)
		assert.NotNil(t, record.Links)
		assert.Empty(t, record.Links)
	})

	t.Run("suffixes are compared verbatim", func(t *testing.T) {
		cache := newFakeCache()
		fetcher := newFakeFetcher(aliceRecord())
		res := newResolver(cache, fetcher)

		_, _, err := res.Resolve(context.Background(), "Alice")

		assert.ErrorIs(t, err, resolver.ErrNotFound)
	})
}

func TestInvalidator(t *testing.T) {
	t.Run("deletes the cached record for the suffix", func(t *testing.T) {
		cache := newFakeCache()
		cache.data["linktree:alice"] = []byte(`{"linktreeSuffix":"alice","links":[]}`)
		cache.data["linktree:bob"] = []byte(`{"linktreeSuffix":"bob","links":[]}`)

		invalidator := resolver.NewInvalidator(cache, zap.NewNop())

		err := invalidator.HandleLinktreeChanged(context.Background(), &analytics.LinktreeChangedEvent{
			Suffix: "alice",
			Action: analytics.ActionLinkUpdated,
		})

		require.NoError(t, err)
		assert.NotContains(t, cache.data, "linktree:alice")
		assert.Contains(t, cache.data, "linktree:bob")
	})

	t.Run("swallows cache failures", func(t *testing.T) {
		cache := newFakeCache()
		cache.deleteErr = errBackend

		invalidator := resolver.NewInvalidator(cache, zap.NewNop())

		err := invalidator.HandleLinktreeChanged(context.Background(), &analytics.LinktreeChangedEvent{
			Suffix: "alice",
			Action: analytics.ActionLinktreeDeleted,
		})

		assert.NoError(t, err)
	})

	t.Run("deleting an absent key is not an error", func(t *testing.T) {
		cache := newFakeCache()

		invalidator := resolver.NewInvalidator(cache, zap.NewNop())

		err := invalidator.HandleLinktreeChanged(context.Background(), &analytics.LinktreeChangedEvent{
			Suffix: "ghost",
			Action: analytics.ActionLinkDeleted,
		})

		assert.NoError(t, err)
	})
}
