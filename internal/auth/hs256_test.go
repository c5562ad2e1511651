package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daap14/stockroom/internal/auth"
)

const testSecret = "test-secret"

func sign(t *testing.T, method jwt.SigningMethod, key interface{}, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return s
}

func validClaims() jwt.MapClaims {
	return jwt.MapClaims{
		"sub":                "sub-123",
		"preferred_username": "alice",
		"email":              "alice@example.com",
		"given_name":         "Alice",
		"family_name":        "Liddell",
		"realm_access":       map[string]interface{}{"roles": []string{"user"}},
		"resource_access": map[string]interface{}{
			"demo-backend": map[string]interface{}{"roles": []string{"admin"}},
		},
		"iss": "http://idp/realms/demo-realm",
		"exp": time.Now().Add(time.Hour).Unix(),
	}
}

func TestHS256Verifier_Valid(t *testing.T) {
	v, err := auth.NewHS256Verifier(testSecret, "http://idp/realms/demo-realm")
	require.NoError(t, err)

	raw := sign(t, jwt.SigningMethodHS256, []byte(testSecret), validClaims())

	c, err := v.Verify(context.Background(), raw)
	require.NoError(t, err)

	assert.Equal(t, "sub-123", c.Subject)
	assert.Equal(t, "alice", c.PreferredUsername)
	assert.Equal(t, "Alice", c.GivenName)
	id := c.Identity("demo-backend")
	assert.Equal(t, []string{"user", "admin"}, id.Roles())
}

func TestHS256Verifier_Rejects(t *testing.T) {
	v, err := auth.NewHS256Verifier(testSecret, "http://idp/realms/demo-realm")
	require.NoError(t, err)

	expired := validClaims()
	expired["exp"] = time.Now().Add(-time.Minute).Unix()

	noExp := validClaims()
	delete(noExp, "exp")

	wrongIssuer := validClaims()
	wrongIssuer["iss"] = "http://evil/realms/demo-realm"

	noSub := validClaims()
	delete(noSub, "sub")

	tests := []struct {
		name string
		raw  string
	}{
		{"garbage", "not-a-token"},
		{"wrong secret", sign(t, jwt.SigningMethodHS256, []byte("other"), validClaims())},
		{"wrong algorithm", sign(t, jwt.SigningMethodHS512, []byte(testSecret), validClaims())},
		{"expired", sign(t, jwt.SigningMethodHS256, []byte(testSecret), expired)},
		{"missing exp", sign(t, jwt.SigningMethodHS256, []byte(testSecret), noExp)},
		{"wrong issuer", sign(t, jwt.SigningMethodHS256, []byte(testSecret), wrongIssuer)},
		{"missing subject", sign(t, jwt.SigningMethodHS256, []byte(testSecret), noSub)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.Verify(context.Background(), tt.raw)
			assert.ErrorIs(t, err, auth.ErrInvalidToken)
		})
	}
}

func TestNewHS256Verifier_EmptySecret(t *testing.T) {
	_, err := auth.NewHS256Verifier("", "")
	assert.Error(t, err)
}
