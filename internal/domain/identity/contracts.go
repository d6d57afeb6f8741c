// Package identity describes authenticated callers of the API.
package identity

import (
	"context"
	"errors"
)

// ErrInvalidToken is returned when a bearer token cannot be verified
var ErrInvalidToken = errors.New("invalid token")

// Principal is an authenticated user
type Principal struct {
	UID    string
	Email  string
	Claims map[string]interface{}
}

// TokenVerifier turns a raw bearer token into a Principal
type TokenVerifier interface {
	// Verify returns an error wrapping ErrInvalidToken when rawToken is not acceptable.
	// Any other error means the token could not be checked at all.
	Verify(ctx context.Context, rawToken string) (*Principal, error)
}
