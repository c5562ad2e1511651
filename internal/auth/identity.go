package auth

import (
	"slices"
	"strings"
)

// DefaultRole is stored for users whose token grants no application role.
const DefaultRole = "user"

// Identity is the caller as established by a verified bearer token.
// It is passed by value into services and never mutated after construction.
type Identity struct {
	Subject   string
	Username  string
	Email     string
	FirstName string
	LastName  string
	roles     []string
}

// NewIdentity builds an Identity, copying the role list.
func NewIdentity(subject, username, email, firstName, lastName string, roles []string) Identity {
	return Identity{
		Subject:   subject,
		Username:  username,
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
		roles:     slices.Clone(roles),
	}
}

// Roles returns a copy of the granted role names in token order.
func (i Identity) Roles() []string {
	return slices.Clone(i.roles)
}

// HasRole reports whether the identity was granted role.
func (i Identity) HasRole(role string) bool {
	return slices.Contains(i.roles, role)
}

// PrimaryRole is the role persisted for a synchronized user: the first granted
// role, or DefaultRole when none were granted.
func (i Identity) PrimaryRole() string {
	return PrimaryRole(i.roles)
}

// PrimaryRole applies the first-role-wins rule to an arbitrary role list.
func PrimaryRole(roles []string) string {
	if len(roles) == 0 {
		return DefaultRole
	}
	return roles[0]
}

// builtinRole reports roles Keycloak grants to every account.
func builtinRole(role string) bool {
	return role == "offline_access" || role == "uma_authorization" || strings.HasPrefix(role, "default-roles-")
}
