package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/daap14/stockroom/internal/api/response"
	"github.com/daap14/stockroom/internal/auth"
)

const (
	identityKey contextKey = "identity"
	tokenKey    contextKey = "token"
)

// Authenticate is middleware that verifies an "Authorization: Bearer" token and
// stores the resulting Identity in the request context. Requests without an
// Authorization header pass through anonymously; a malformed header or a token
// that fails verification is rejected with 401.
func Authenticate(verifier auth.Verifier, clientID string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			requestID := GetRequestID(r.Context())

			raw, ok := bearerToken(header)
			if !ok {
				w.Header().Set("WWW-Authenticate", `Bearer error="invalid_request"`)
				response.Err(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authorization header must use the Bearer scheme", requestID)
				return
			}

			claims, err := verifier.Verify(r.Context(), raw)
			if err != nil {
				slog.Debug("bearer token rejected", "error", err, "requestId", requestID)
				w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token"`)
				response.Err(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or expired token", requestID)
				return
			}

			identity := claims.Identity(clientID)
			ctx := context.WithValue(r.Context(), identityKey, &identity)
			ctx = context.WithValue(ctx, tokenKey, raw)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// GetIdentity retrieves the authenticated Identity from the request context,
// or nil for anonymous requests.
func GetIdentity(ctx context.Context) *auth.Identity {
	if id, ok := ctx.Value(identityKey).(*auth.Identity); ok {
		return id
	}
	return nil
}

// GetToken retrieves the verified raw bearer token from the request context.
func GetToken(ctx context.Context) string {
	if tok, ok := ctx.Value(tokenKey).(string); ok {
		return tok
	}
	return ""
}

// WithIdentity returns a copy of ctx carrying identity. Handlers under test use
// it in place of Authenticate.
func WithIdentity(ctx context.Context, identity auth.Identity) context.Context {
	return context.WithValue(ctx, identityKey, &identity)
}
