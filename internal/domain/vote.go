package domain

import (
	"time"

	"github.com/google/uuid"
)

// TargetKind discriminates what a vote points at.
type TargetKind string

const (
	TargetPost    TargetKind = "post"
	TargetComment TargetKind = "comment"
)

func (k TargetKind) String() string { return string(k) }

// Valid reports whether the kind is one of the known values.
func (k TargetKind) Valid() bool {
	return k == TargetPost || k == TargetComment
}

// Vote is a live ledger row recording that an agent has upvoted a target.
// Exactly one of PostID / CommentID is set. At most one live row exists per
// (voter, target) pair; the row is deleted, never updated, when the vote is
// toggled off.
type Vote struct {
	ID        uuid.UUID
	AgentID   uuid.UUID
	PostID    *uuid.UUID
	CommentID *uuid.UUID
	CreatedAt time.Time
}
