package health

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/redis/go-redis/v9"
	"github.com/serroba/linktree-go/internal/middleware"
	"github.com/serroba/linktree-go/internal/ratelimit"
	"github.com/uptrace/bun"
)

// Checker defines the interface for checking a dependency's health.
type Checker interface {
	Ping(ctx context.Context) error
}

// RedisChecker adapts redis.Client to the Checker interface.
type RedisChecker struct {
	client *redis.Client
}

// NewRedisChecker creates a new Redis health checker.
func NewRedisChecker(client *redis.Client) *RedisChecker {
	return &RedisChecker{client: client}
}

// Ping checks Redis connectivity.
func (r *RedisChecker) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// DBChecker adapts bun.DB to the Checker interface.
type DBChecker struct {
	db *bun.DB
}

// NewDBChecker creates a new database health checker.
func NewDBChecker(db *bun.DB) *DBChecker {
	return &DBChecker{db: db}
}

// Ping checks database connectivity.
func (d *DBChecker) Ping(ctx context.Context) error {
	return d.db.PingContext(ctx)
}

// Handler handles health check operations. Either checker may be nil when the
// service does not use that backend.
type Handler struct {
	redis Checker
	db    Checker
}

// NewHandler creates a new health handler.
func NewHandler(redis, db Checker) *Handler {
	return &Handler{redis: redis, db: db}
}

// Response is the response for the health check endpoint.
type Response struct {
	Body struct {
		Status   string `json:"status"`
		Redis    string `json:"redis,omitempty"`
		Database string `json:"database,omitempty"`
	}
}

// Check performs a health check of the service and its dependencies.
func (h *Handler) Check(ctx context.Context, _ *struct{}) (*Response, error) {
	resp := &Response{}
	resp.Body.Status = "ok"

	if h.redis != nil {
		if err := h.redis.Ping(ctx); err != nil {
			resp.Body.Redis = "unhealthy"
			resp.Body.Status = "degraded"
		} else {
			resp.Body.Redis = "healthy"
		}
	}

	if h.db != nil {
		if err := h.db.Ping(ctx); err != nil {
			resp.Body.Database = "unhealthy"
			resp.Body.Status = "degraded"
		} else {
			resp.Body.Database = "healthy"
		}
	}

	return resp, nil
}

// RegisterRoutes registers the health check endpoint.
func RegisterRoutes(api huma.API, handler *Handler) {
	huma.Register(api, huma.Operation{
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Description: "Reports the health of the service and its backends.",
		Tags:        []string{"Health"},
		Metadata: map[string]any{
			middleware.PublicKey:  true,
			ratelimit.MetadataKey: ratelimit.EndpointConfig{Disabled: true},
		},
	}, handler.Check)
}
