package handlers

import (
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/linktree-go/internal/middleware"
	"github.com/serroba/linktree-go/internal/ratelimit"
)

// RegisterAuthRoutes registers the auth service routes with per-endpoint rate
// limit configuration. Both endpoints are unauthenticated by definition.
func RegisterAuthRoutes(api huma.API, authHandler *AuthHandler) {
	// POST /auth/register - Create account
	// Tight limits: registration is a bot magnet.
	huma.Register(api, huma.Operation{
		Method:        http.MethodPost,
		Path:          "/auth/register",
		Summary:       "Register a new user",
		Description:   "Creates a user account from an email and password.",
		Tags:          []string{"Auth"},
		DefaultStatus: http.StatusCreated,
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{
				Limits: []ratelimit.LimitConfig{
					{Window: time.Minute, Max: 5},     // 5 per minute
					{Window: time.Hour, Max: 20},      // 20 per hour
					{Window: 24 * time.Hour, Max: 50}, // 50 per day
				},
			},
		},
	}, authHandler.Register)

	// POST /auth/login - Exchange credentials for a token
	huma.Register(api, huma.Operation{
		Method:      http.MethodPost,
		Path:        "/auth/login",
		Summary:     "Log in",
		Description: "Verifies credentials and returns a signed bearer token.",
		Tags:        []string{"Auth"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{
				Limits: []ratelimit.LimitConfig{
					{Window: time.Minute, Max: 10}, // 10 per minute
					{Window: time.Hour, Max: 100},  // 100 per hour
				},
			},
		},
	}, authHandler.Login)
}

// RegisterManagementRoutes registers the linktree and link management routes.
// Everything except the public read requires a bearer token.
func RegisterManagementRoutes(api huma.API, linktreeHandler *LinktreeHandler, linkHandler *LinkHandler) {
	writeLimits := ratelimit.EndpointConfig{
		Limits: []ratelimit.LimitConfig{
			{Window: time.Minute, Max: 30}, // 30 per minute
			{Window: time.Hour, Max: 300},  // 300 per hour
		},
	}

	// GET /linktrees - List the current user's linktrees
	huma.Register(api, huma.Operation{
		Method:      http.MethodGet,
		Path:        "/linktrees",
		Summary:     "List linktrees",
		Description: "Lists the linktrees owned by the authenticated user.",
		Tags:        []string{"Linktrees"},
	}, linktreeHandler.List)

	// POST /linktrees - Create a linktree
	huma.Register(api, huma.Operation{
		Method:        http.MethodPost,
		Path:          "/linktrees",
		Summary:       "Create linktree",
		Description:   "Creates a linktree with a unique public suffix.",
		Tags:          []string{"Linktrees"},
		DefaultStatus: http.StatusCreated,
		Metadata: map[string]any{
			ratelimit.MetadataKey: writeLimits,
		},
	}, linktreeHandler.Create)

	// GET /linktrees/{linktreeId} - Fetch a linktree with its links
	huma.Register(api, huma.Operation{
		Method:      http.MethodGet,
		Path:        "/linktrees/{linktreeId}",
		Summary:     "Get linktree",
		Description: "Returns a linktree owned by the authenticated user, including its links.",
		Tags:        []string{"Linktrees"},
	}, linktreeHandler.Get)

	// DELETE /linktrees/{linktreeId} - Delete a linktree and its links
	huma.Register(api, huma.Operation{
		Method:      http.MethodDelete,
		Path:        "/linktrees/{linktreeId}",
		Summary:     "Delete linktree",
		Description: "Deletes a linktree and all of its links.",
		Tags:        []string{"Linktrees"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: writeLimits,
		},
	}, linktreeHandler.Delete)

	// POST /linktrees/{linktreeId}/links - Add a link
	huma.Register(api, huma.Operation{
		Method:        http.MethodPost,
		Path:          "/linktrees/{linktreeId}/links",
		Summary:       "Add link",
		Description:   "Adds a link to a linktree and returns the updated list.",
		Tags:          []string{"Links"},
		DefaultStatus: http.StatusCreated,
		Metadata: map[string]any{
			ratelimit.MetadataKey: writeLimits,
		},
	}, linkHandler.Create)

	// PATCH /linktrees/{linktreeId}/links/{linkId} - Update a link
	huma.Register(api, huma.Operation{
		Method:      http.MethodPatch,
		Path:        "/linktrees/{linktreeId}/links/{linkId}",
		Summary:     "Update link",
		Description: "Updates a link's text and URL and returns the updated list.",
		Tags:        []string{"Links"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: writeLimits,
		},
	}, linkHandler.Update)

	// DELETE /linktrees/{linktreeId}/links/{linkId} - Remove a link
	huma.Register(api, huma.Operation{
		Method:      http.MethodDelete,
		Path:        "/linktrees/{linktreeId}/links/{linkId}",
		Summary:     "Delete link",
		Description: "Removes a link from a linktree and returns the updated list.",
		Tags:        []string{"Links"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: writeLimits,
		},
	}, linkHandler.Delete)

	// GET /public/linktrees/{suffix} - Unauthenticated read for the public
	// service. Relaxed limits: the cache in front of it absorbs most traffic.
	huma.Register(api, huma.Operation{
		Method:      http.MethodGet,
		Path:        "/public/linktrees/{suffix}",
		Summary:     "Get linktree by suffix",
		Description: "Returns the public snapshot of a linktree by its suffix.",
		Tags:        []string{"Public"},
		Metadata: map[string]any{
			middleware.PublicKey: true,
			ratelimit.MetadataKey: ratelimit.EndpointConfig{
				Limits: []ratelimit.LimitConfig{
					{Window: time.Minute, Max: 600}, // 600 per minute
				},
			},
		},
	}, linktreeHandler.PublicBySuffix)
}

// RegisterPublicRoutes registers the public lookup service routes.
func RegisterPublicRoutes(api huma.API, publicHandler *PublicHandler) {
	// GET /{linktreeSuffix} - Resolve a linktree, cache first
	huma.Register(api, huma.Operation{
		Method:      http.MethodGet,
		Path:        "/{linktreeSuffix}",
		Summary:     "Resolve linktree",
		Description: "Returns a linktree's public links, served from cache when possible.",
		Tags:        []string{"Public"},
		Metadata: map[string]any{
			middleware.PublicKey: true,
			ratelimit.MetadataKey: ratelimit.EndpointConfig{
				Limits: []ratelimit.LimitConfig{
					{Window: time.Minute, Max: 1000}, // 1000 per minute
				},
			},
		},
	}, publicHandler.Lookup)
}
