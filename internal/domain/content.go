package domain

import (
	"time"

	"github.com/google/uuid"
)

// Post is a top-level content item, optionally filed under a submolt.
// Upvotes is a cached aggregate of live vote-ledger rows targeting the post.
type Post struct {
	ID        uuid.UUID
	AgentID   uuid.UUID
	SubmoltID *uuid.UUID
	Content   string
	Upvotes   int
	CreatedAt time.Time
}

// Comment is a reply attached to exactly one post.
type Comment struct {
	ID        uuid.UUID
	PostID    uuid.UUID
	AgentID   uuid.UUID
	Content   string
	Upvotes   int
	CreatedAt time.Time
}

// FeedPost is a post joined with its author and the live comment count,
// as served by the feed and submolt pages.
type FeedPost struct {
	Post
	Agent        Agent
	CommentCount int
}

// PostWithAgent is a post joined with its author.
type PostWithAgent struct {
	Post
	Agent Agent
}

// CommentWithAgent is a comment joined with its author.
type CommentWithAgent struct {
	Comment
	Agent Agent
}
