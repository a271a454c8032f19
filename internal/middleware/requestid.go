package middleware

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/stridelog/stridelog/internal/ctxkeys"
)

const RequestIDHeader = "X-Request-ID"

// WithRequestID adds a request id to the context and response headers,
// reusing the caller's X-Request-ID when present
func WithRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" || len(id) > 128 {
			id = uuid.New().String()
		}
		w.Header().Set(RequestIDHeader, id)
		ctx := ctxkeys.WithRequestID(r.Context(), id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
