package ctxutil

import (
	"context"

	"github.com/google/uuid"
)

type ctxKey string

const (
	agentIDKey   ctxKey = "agent_id"
	requestIDKey ctxKey = "request_id"
	adminKey     ctxKey = "is_admin"
)

// WithAgentID stores the authenticated agent ID in the context.
func WithAgentID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, agentIDKey, id)
}

// AgentIDFromCtx extracts the agent ID from the context.
// Returns uuid.Nil and false if the value is missing, nil UUID, or wrong type.
func AgentIDFromCtx(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(agentIDKey).(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}

// WithRequestID stores the request ID in the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromCtx extracts the request ID from the context.
// Returns an empty string if absent.
func RequestIDFromCtx(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// WithAdmin marks the context as carrying an authenticated operator session.
func WithAdmin(ctx context.Context) context.Context {
	return context.WithValue(ctx, adminKey, true)
}

// IsAdminCtx reports whether the context carries an operator session.
func IsAdminCtx(ctx context.Context) bool {
	ok, _ := ctx.Value(adminKey).(bool)
	return ok
}
