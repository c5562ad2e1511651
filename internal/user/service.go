package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/daap14/stockroom/internal/auth"
	"github.com/daap14/stockroom/internal/validation"
)

// Sync outcomes reported to a SyncRecorder.
const (
	SyncCreated   = "created"
	SyncUpdated   = "updated"
	SyncUnchanged = "unchanged"
	SyncFailed    = "failed"
)

// SyncRecorder observes the outcome of every synchronization.
type SyncRecorder interface {
	UserSynced(outcome string)
}

// Service implements the user directory operations.
type Service struct {
	store    Store
	recorder SyncRecorder
}

// NewService creates a new user Service. recorder may be nil.
func NewService(store Store, recorder SyncRecorder) *Service {
	return &Service{store: store, recorder: recorder}
}

// Get returns the user with the given id, or ErrNotFound.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.store.GetByID(ctx, id)
}

// List returns every user.
func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.store.List(ctx)
}

// GetByExternalID returns the user synchronized for externalID, or ErrNotFound
// if that subject was never synchronized.
func (s *Service) GetByExternalID(ctx context.Context, externalID string) (*User, error) {
	return s.store.GetByExternalID(ctx, externalID)
}

// GetCurrent returns the stored record of the calling identity.
func (s *Service) GetCurrent(ctx context.Context, caller auth.Identity) (*User, error) {
	return s.GetByExternalID(ctx, caller.Subject)
}

// SyncFromIdentityProvider creates or refreshes the user keyed on externalID.
// A new user is created active; an existing user keeps its active flag. The
// stored role is the first of roles, or auth.DefaultRole when roles is empty.
// Calling it again with the same arguments writes nothing.
func (s *Service) SyncFromIdentityProvider(ctx context.Context, externalID, username, email, firstName, lastName string, roles []string) (*User, error) {
	want := User{
		ExternalID: externalID,
		Username:   username,
		Email:      email,
		FirstName:  firstName,
		LastName:   lastName,
		Role:       auth.PrimaryRole(roles),
	}
	if err := validation.Check(validation.ValidateUserProfile(validation.UserProfileInput{
		ExternalID: want.ExternalID,
		Username:   want.Username,
		Email:      want.Email,
		FirstName:  want.FirstName,
		LastName:   want.LastName,
		Role:       want.Role,
	})); err != nil {
		return nil, err
	}

	u, outcome, err := s.sync(ctx, want)
	if errors.Is(err, ErrDuplicateExternalID) {
		// A concurrent first sync for the same subject won the insert; the
		// retry takes the update path against that row.
		u, outcome, err = s.sync(ctx, want)
	}
	if err != nil {
		s.record(SyncFailed)
		return nil, fmt.Errorf("synchronizing user %s: %w", externalID, err)
	}

	s.record(outcome)
	if outcome != SyncUnchanged {
		slog.Info("user synchronized", "externalId", externalID, "username", username, "role", u.Role, "outcome", outcome)
	}
	return u, nil
}

func (s *Service) sync(ctx context.Context, want User) (*User, string, error) {
	var (
		result  *User
		outcome string
	)
	err := s.store.WithinTx(ctx, func(repo Repository) error {
		existing, err := repo.GetByExternalID(ctx, want.ExternalID)
		if errors.Is(err, ErrNotFound) {
			u := want
			u.Active = true
			if err := repo.Create(ctx, &u); err != nil {
				return err
			}
			result, outcome = &u, SyncCreated
			return nil
		}
		if err != nil {
			return err
		}

		if sameProfile(existing, &want) {
			result, outcome = existing, SyncUnchanged
			return nil
		}

		existing.Username = want.Username
		existing.Email = want.Email
		existing.FirstName = want.FirstName
		existing.LastName = want.LastName
		existing.Role = want.Role
		if err := repo.Save(ctx, existing); err != nil {
			return err
		}
		result, outcome = existing, SyncUpdated
		return nil
	})
	return result, outcome, err
}

func sameProfile(a, b *User) bool {
	return a.Username == b.Username &&
		a.Email == b.Email &&
		a.FirstName == b.FirstName &&
		a.LastName == b.LastName &&
		a.Role == b.Role
}

func (s *Service) record(outcome string) {
	if s.recorder != nil {
		s.recorder.UserSynced(outcome)
	}
}

// Update overwrites first name, last name and, when given, the active flag.
// Username, email, external id and role cannot change through this path.
func (s *Service) Update(ctx context.Context, id uuid.UUID, in UpdateInput) (*User, error) {
	errs := validation.ValidateUserUpdate(validation.UserUpdateInput{FirstName: in.FirstName, LastName: in.LastName})
	if err := validation.Check(errs); err != nil {
		return nil, err
	}

	var updated *User
	err := s.store.WithinTx(ctx, func(repo Repository) error {
		u, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		u.FirstName = in.FirstName
		u.LastName = in.LastName
		if in.Active != nil {
			u.Active = *in.Active
		}
		if err := repo.Save(ctx, u); err != nil {
			return err
		}
		updated = u
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("updating user %s: %w", id, err)
	}

	return updated, nil
}

// Delete permanently removes the user with the given id.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.store.WithinTx(ctx, func(repo Repository) error {
		return repo.Delete(ctx, id)
	})
	if err != nil {
		return fmt.Errorf("deleting user %s: %w", id, err)
	}

	slog.Info("user deleted", "id", id)
	return nil
}
