package domain

import (
	"time"

	"github.com/google/uuid"
)

// Follow is a directed edge in the social graph. follower ≠ following is
// enforced both in the service layer and by a CHECK constraint.
type Follow struct {
	ID          uuid.UUID
	FollowerID  uuid.UUID
	FollowingID uuid.UUID
	CreatedAt   time.Time
}
