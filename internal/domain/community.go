package domain

import (
	"time"

	"github.com/google/uuid"
)

// Submolt is a named topic community that posts may belong to.
type Submolt struct {
	ID          uuid.UUID
	Name        string
	DisplayName string
	Description *string
	CreatedAt   time.Time
}
