package user

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a user record is not found.
var ErrNotFound = errors.New("user not found")

// ErrDuplicateExternalID is returned when a second row is inserted for an
// external id that is already stored.
var ErrDuplicateExternalID = errors.New("user with this external id already exists")

// Repository provides persistence operations on the users table.
type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByExternalID(ctx context.Context, externalID string) (*User, error)
	List(ctx context.Context) ([]User, error)
	// Save overwrites every mutable column of an existing user. ExternalID is
	// never written.
	Save(ctx context.Context, u *User) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Store is a Repository that can also run a unit of work. The Repository passed
// to fn is bound to a transaction that commits when fn returns nil.
type Store interface {
	Repository
	WithinTx(ctx context.Context, fn func(repo Repository) error) error
}
