package validation

import (
	"strings"
	"unicode/utf8"
)

const (
	maxNameLength = 255
	maxRoleLength = 64
)

func tooLong(s string, max int) bool {
	return utf8.RuneCountInString(s) > max
}

// UserUpdateInput is the admin-editable subset of a user.
type UserUpdateInput struct {
	FirstName string
	LastName  string
}

// ValidateUserUpdate validates the names supplied to a user update.
func ValidateUserUpdate(in UserUpdateInput) []FieldError {
	var errs []FieldError

	if tooLong(in.FirstName, maxNameLength) {
		errs = append(errs, FieldError{Field: "firstName", Message: "First name must be at most 255 characters"})
	}
	if tooLong(in.LastName, maxNameLength) {
		errs = append(errs, FieldError{Field: "lastName", Message: "Last name must be at most 255 characters"})
	}

	return errs
}

// UserProfileInput is the claim-derived profile written by a sync.
type UserProfileInput struct {
	ExternalID string
	Username   string
	Email      string
	FirstName  string
	LastName   string
	Role       string
}

// ValidateUserProfile checks a synchronized profile against the column limits.
func ValidateUserProfile(in UserProfileInput) []FieldError {
	var errs []FieldError

	if fe := ValidateExternalID(in.ExternalID); fe != nil {
		errs = append(errs, *fe)
	} else if tooLong(in.ExternalID, maxNameLength) {
		errs = append(errs, FieldError{Field: "externalId", Message: "External id must be at most 255 characters"})
	}
	if tooLong(in.Username, maxNameLength) {
		errs = append(errs, FieldError{Field: "username", Message: "Username must be at most 255 characters"})
	}
	if tooLong(in.Email, maxNameLength) {
		errs = append(errs, FieldError{Field: "email", Message: "Email must be at most 255 characters"})
	}
	errs = append(errs, ValidateUserUpdate(UserUpdateInput{FirstName: in.FirstName, LastName: in.LastName})...)
	if tooLong(in.Role, maxRoleLength) {
		errs = append(errs, FieldError{Field: "role", Message: "Role must be at most 64 characters"})
	}

	return errs
}

// ValidateExternalID rejects a blank identity-provider subject.
func ValidateExternalID(externalID string) *FieldError {
	if strings.TrimSpace(externalID) == "" {
		return &FieldError{Field: "externalId", Message: "External id is required"}
	}
	return nil
}
