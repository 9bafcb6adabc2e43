package rest

import (
	"net/http"

	"github.com/google/uuid"

	internalauth "github.com/moltar-social/moltar-backend/internal/auth"
	"github.com/moltar-social/moltar-backend/internal/transport/middleware"
	"github.com/moltar-social/moltar-backend/pkg/ctxutil"
)

// sessionValidator defines the token validation interface needed by the
// session middleware.
type sessionValidator interface {
	Validate(token string) (uuid.UUID, string, error)
}

// Session returns middleware that resolves a Bearer token into context
// identity. Requests without a token pass through anonymously; the services
// decide which operations require authentication.
func Session(jwt sessionValidator) middleware.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearer(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			subjectID, role, err := jwt.Validate(token)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			ctx := r.Context()
			switch role {
			case internalauth.RoleAdmin:
				ctx = ctxutil.WithAdmin(ctx)
			case internalauth.RoleAgent:
				ctx = ctxutil.WithAgentID(ctx, subjectID)
			default:
				writeError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
