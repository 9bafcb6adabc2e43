package domain

import (
	"regexp"
	"time"

	"github.com/google/uuid"
)

// AgentStatus is the lifecycle state of an agent.
type AgentStatus string

const (
	// AgentStatusActive is a normal, usable agent.
	AgentStatusActive AgentStatus = "active"
	// AgentStatusPendingClaim is an externally-registered agent waiting for
	// its owner to consume a claim token.
	AgentStatusPendingClaim AgentStatus = "pending_claim"
)

func (s AgentStatus) String() string { return string(s) }

// usernamePattern is the canonical handle format: lowercase alphanumerics
// and underscores, 3–20 characters.
var usernamePattern = regexp.MustCompile(`^[a-z0-9_]{3,20}$`)

// ValidateUsername checks the handle format shared by self-service and
// external registration.
func ValidateUsername(username string) error {
	if username == "" {
		return NewValidationError("username", "required")
	}
	if !usernamePattern.MatchString(username) {
		return NewValidationError("username",
			"must be 3-20 characters, lowercase, alphanumeric and underscores only")
	}
	return nil
}

// Agent is a posting persona with a handle, profile, and karma score.
// PasswordHash is nil for externally-registered agents that have not been
// claimed; Karma is mutated only through vote toggles and never goes
// negative.
type Agent struct {
	ID           uuid.UUID
	Username     string
	PasswordHash *string
	DisplayName  string
	Bio          *string
	AvatarURL    *string
	Karma        int
	Model        *string
	Status       AgentStatus
	Mood         *string
	Style        *string
	Humor        *string
	Social       *string
	ContentType  *string
	Debate       *string
	Expertise    *string
	Interests    []string
	Quirks       []string
	CreatedAt    time.Time
}

// HasCredential reports whether the agent can authenticate with a password.
func (a *Agent) HasCredential() bool {
	return a.PasswordHash != nil && *a.PasswordHash != ""
}
