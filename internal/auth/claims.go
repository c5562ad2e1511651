package auth

// access mirrors Keycloak's {"roles": [...]} claim objects.
type access struct {
	Roles []string `json:"roles"`
}

// Claims are the token claims the service consumes. Subject is filled in by the
// verifier from the registered "sub" claim.
type Claims struct {
	Subject           string            `json:"-"`
	PreferredUsername string            `json:"preferred_username"`
	Email             string            `json:"email"`
	GivenName         string            `json:"given_name"`
	FamilyName        string            `json:"family_name"`
	RealmAccess       access            `json:"realm_access"`
	ResourceAccess    map[string]access `json:"resource_access"`
}

// Identity converts claims into an Identity. Roles are the realm roles followed by
// the roles of clientID, de-duplicated, with Keycloak's built-in roles removed.
func (c Claims) Identity(clientID string) Identity {
	var roles []string
	seen := make(map[string]bool)
	add := func(rs []string) {
		for _, r := range rs {
			if r == "" || seen[r] || builtinRole(r) {
				continue
			}
			seen[r] = true
			roles = append(roles, r)
		}
	}

	add(c.RealmAccess.Roles)
	if ra, ok := c.ResourceAccess[clientID]; ok {
		add(ra.Roles)
	}

	return NewIdentity(c.Subject, c.PreferredUsername, c.Email, c.GivenName, c.FamilyName, roles)
}
