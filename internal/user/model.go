package user

import (
	"time"

	"github.com/google/uuid"
)

// User represents a row in the users table: a local mirror of an account held
// by the identity provider.
type User struct {
	ID         uuid.UUID
	ExternalID string // identity-provider subject; immutable once stored
	Username   string
	Email      string
	FirstName  string
	LastName   string
	Role       string
	Active     bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// UpdateInput carries the fields an administrator may change. A nil Active
// leaves the stored flag as is.
type UpdateInput struct {
	FirstName string
	LastName  string
	Active    *bool
}
