package middleware

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/jaevor/go-nanoid"
)

const requestIDLength = 12

// RequestID returns a middleware that tags every request with a short random
// id, echoed in the X-Request-ID response header. Incoming ids from trusted
// proxies are preserved.
func RequestID(_ huma.API) func(ctx huma.Context, next func(huma.Context)) {
	generate, err := nanoid.Standard(requestIDLength)
	if err != nil {
		panic(err) // only possible with an invalid length constant
	}

	return func(ctx huma.Context, next func(huma.Context)) {
		id := ctx.Header("X-Request-ID")
		if id == "" {
			id = generate()
		}

		ctx.SetHeader("X-Request-ID", id)

		next(ctx)
	}
}
