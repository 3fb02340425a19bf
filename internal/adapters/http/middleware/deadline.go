package middleware

import (
	"context"
	"net/http"
	"time"
)

// Deadline bounds the request context by d and leaves the response to the
// handler. Project mutations check the context between steps, so a request
// past its deadline rolls back and the handler reports the outcome.
// A non-positive d disables the bound.
func Deadline(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if d <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
