package middleware

import (
	"errors"
	"net/http"

	"github.com/daap14/stockroom/internal/api/response"
	"github.com/daap14/stockroom/internal/auth"
)

// Guard returns middleware that admits the request only when the caller is
// authenticated and pred accepts the caller's roles. Anonymous callers get 401
// and callers without a required role get 403.
func Guard(pred auth.RolePredicate) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := GetRequestID(r.Context())

			err := auth.Authorize(GetIdentity(r.Context()), pred)
			switch {
			case err == nil:
				next.ServeHTTP(w, r)
			case errors.Is(err, auth.ErrUnauthenticated):
				w.Header().Set("WWW-Authenticate", "Bearer")
				response.Err(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication is required", requestID)
			default:
				response.Err(w, http.StatusForbidden, "FORBIDDEN", "Insufficient permissions", requestID)
			}
		})
	}
}

// RequireRole admits callers granted at least one of roles.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return Guard(auth.AnyRole(roles...))
}

// RequireAuthenticated admits every caller holding a valid token.
func RequireAuthenticated() func(http.Handler) http.Handler {
	return Guard(auth.AnyAuthenticated())
}
