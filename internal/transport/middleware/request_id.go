package middleware

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/moltar-social/moltar-backend/pkg/ctxutil"
)

// RequestID tags each request with an X-Request-Id, reusing the caller's if
// present, and mirrors it on the response and context for log correlation.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-Id")
		if id == "" {
			id = uuid.New().String()
		}
		ctx := ctxutil.WithRequestID(r.Context(), id)
		w.Header().Set("X-Request-Id", id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
