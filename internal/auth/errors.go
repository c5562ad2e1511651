package auth

import "errors"

// ErrUnauthenticated is returned when no valid bearer token accompanies a request.
var ErrUnauthenticated = errors.New("unauthenticated")

// ErrForbidden is returned when the caller lacks the role an operation requires.
var ErrForbidden = errors.New("forbidden")

// ErrInvalidToken is returned by verifiers for malformed, expired or badly signed tokens.
var ErrInvalidToken = errors.New("invalid token")
