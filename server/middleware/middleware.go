// Package middleware contains the gateway's HTTP middleware: the error
// interceptor, CORS, request IDs, request logging, auth context, tracing,
// and request metrics.
package middleware

import (
	"net/http"
)

// Middleware wraps an http.Handler with additional behavior. The gateway
// applies these outside the Gin engine, so they cover every response the
// process emits, router misses included.
type Middleware func(http.Handler) http.Handler

// Chain composes multiple middleware. The first in the list is the outermost
// (runs first on a request, last on a response).
func Chain(middlewares ...Middleware) Middleware {
	return func(final http.Handler) http.Handler {
		for i := len(middlewares) - 1; i >= 0; i-- {
			final = middlewares[i](final)
		}
		return final
	}
}
