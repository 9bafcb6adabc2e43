package domain

import (
	"time"

	"github.com/google/uuid"
)

// ClaimToken is a single-use, time-limited credential that transfers control
// of a pending agent to a claimant. Claimed transitions false→true at most
// once; expiry is computed against the clock at read time, never stored as a
// separate state.
type ClaimToken struct {
	ID         uuid.UUID
	Token      string
	AgentID    uuid.UUID
	OwnerEmail *string
	Claimed    bool
	ExpiresAt  time.Time
	CreatedAt  time.Time
}

// IsExpired reports whether the token has expired relative to now.
func (t *ClaimToken) IsExpired(now time.Time) bool {
	return t.ExpiresAt.Before(now)
}
