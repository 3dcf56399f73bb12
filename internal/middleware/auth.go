package middleware

import (
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/linktree-go/internal/auth"
)

// PublicKey marks an operation as reachable without authentication when set
// to true in its metadata.
const PublicKey = "public"

// Authenticate returns a middleware that verifies the Bearer token and puts
// the user id into the request context. Operations flagged public via
// metadata pass through untouched.
func Authenticate(api huma.API, issuer *auth.TokenIssuer) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		if isPublic(ctx) {
			next(ctx)

			return
		}

		token, ok := bearerToken(ctx.Header("Authorization"))
		if !ok {
			_ = huma.WriteErr(api, ctx, http.StatusUnauthorized, "Unauthorized")

			return
		}

		claims, err := issuer.Verify(token)
		if err != nil {
			_ = huma.WriteErr(api, ctx, http.StatusUnauthorized, "Unauthorized")

			return
		}

		userID, err := claims.UserID()
		if err != nil {
			_ = huma.WriteErr(api, ctx, http.StatusUnauthorized, "Unauthorized")

			return
		}

		ctx = huma.WithContext(ctx, ContextWithUserID(ctx.Context(), userID))

		next(ctx)
	}
}

func isPublic(ctx huma.Context) bool {
	op := ctx.Operation()
	if op == nil || op.Metadata == nil {
		return false
	}

	public, ok := op.Metadata[PublicKey].(bool)

	return ok && public
}

func bearerToken(header string) (string, bool) {
	const prefix = "Bearer "

	if !strings.HasPrefix(header, prefix) {
		return "", false
	}

	token := strings.TrimSpace(header[len(prefix):])

	return token, token != ""
}
