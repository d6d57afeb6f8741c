package firebase

import (
	"context"
	"fmt"

	"github.com/coolabdulsamad/paystack-integration/internal/domain/identity"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
)

// idTokenVerifier is the part of auth.Client used here
type idTokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

type tokenVerifier struct {
	client idTokenVerifier
}

// NewTokenVerifier creates a TokenVerifier backed by Firebase Authentication
func NewTokenVerifier(ctx context.Context, app *firebase.App) (identity.TokenVerifier, error) {
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create firebase auth client: %w", err)
	}
	return &tokenVerifier{client: client}, nil
}

func (v *tokenVerifier) Verify(ctx context.Context, rawToken string) (*identity.Principal, error) {
	token, err := v.client.VerifyIDToken(ctx, rawToken)
	if err != nil {
		// Expired, revoked, disabled and malformed tokens all report IsIDTokenInvalid
		if auth.IsIDTokenInvalid(err) {
			return nil, fmt.Errorf("%w: %v", identity.ErrInvalidToken, err)
		}
		return nil, fmt.Errorf("failed to verify firebase ID token: %w", err)
	}

	principal := &identity.Principal{
		UID:    token.UID,
		Claims: token.Claims,
	}
	if email, ok := token.Claims["email"].(string); ok {
		principal.Email = email
	}
	return principal, nil
}
