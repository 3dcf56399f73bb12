// Package upstream implements the read-only client the public service uses to
// fetch linktree records from the management service.
package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/serroba/linktree-go/internal/resolver"
)

// Client fetches public linktree records over HTTP. It implements
// resolver.Fetcher.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the management service at baseURL. The
// timeout bounds each fetch; callers can tighten it further via context.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// FetchBySuffix retrieves the record for a suffix. A 404 maps to
// resolver.ErrNotFound; any other non-200 status or transport failure is
// returned as an error for the resolver to log.
func (c *Client) FetchBySuffix(ctx context.Context, suffix string) (*resolver.Record, error) {
	endpoint := fmt.Sprintf("%s/public/linktrees/%s", c.baseURL, url.PathEscape(suffix))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build upstream request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upstream request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, resolver.ErrNotFound
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("upstream returned status %d", resp.StatusCode)
	}

	var record resolver.Record
	if err := json.NewDecoder(resp.Body).Decode(&record); err != nil {
		return nil, fmt.Errorf("decode upstream response: %w", err)
	}

	// A linktree with zero links is a valid record, not a miss. Keep the
	// links array non-nil so it serializes as [].
	if record.Links == nil {
		record.Links = []resolver.Link{}
	}

	return &record, nil
}

// Compile-time check.
var _ resolver.Fetcher = (*Client)(nil)
