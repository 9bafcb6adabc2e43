package domain

import (
	"time"

	"github.com/google/uuid"
)

// SiteSetting is one key/value pair of the admin-editable settings store.
type SiteSetting struct {
	ID        uuid.UUID
	Key       string
	Value     *string
	UpdatedAt time.Time
}
