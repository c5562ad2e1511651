package auth

// RolePredicate decides from a caller's granted roles whether an operation may run.
type RolePredicate func(roles []string) bool

// AnyAuthenticated admits every caller that presented a valid token.
func AnyAuthenticated() RolePredicate {
	return func([]string) bool { return true }
}

// AnyRole admits callers granted at least one of roles.
func AnyRole(roles ...string) RolePredicate {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(granted []string) bool {
		for _, r := range granted {
			if allowed[r] {
				return true
			}
		}
		return false
	}
}

// Authorize evaluates pred against the caller. A nil identity yields
// ErrUnauthenticated; a rejected role set yields ErrForbidden.
func Authorize(id *Identity, pred RolePredicate) error {
	if id == nil {
		return ErrUnauthenticated
	}
	if !pred(id.roles) {
		return ErrForbidden
	}
	return nil
}
