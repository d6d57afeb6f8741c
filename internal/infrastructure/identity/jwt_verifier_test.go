//go:build unit
// +build unit

package identity

import (
	"context"
	"testing"
	"time"

	domainidentity "github.com/coolabdulsamad/paystack-integration/internal/domain/identity"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestJWTVerifier_RoundTrip(t *testing.T) {
	token, err := IssueToken(testSecret, "paystack-integration", "user-1", "user@example.com", time.Hour)
	require.NoError(t, err)

	verifier, err := NewJWTVerifier(testSecret, "paystack-integration")
	require.NoError(t, err)

	principal, err := verifier.Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", principal.UID)
	assert.Equal(t, "user@example.com", principal.Email)
}

func TestJWTVerifier_Rejects(t *testing.T) {
	verifier, err := NewJWTVerifier(testSecret, "paystack-integration")
	require.NoError(t, err)

	expired, err := IssueToken(testSecret, "paystack-integration", "user-1", "", -time.Minute)
	require.NoError(t, err)

	wrongIssuer, err := IssueToken(testSecret, "someone-else", "user-1", "", time.Hour)
	require.NoError(t, err)

	wrongSecret, err := IssueToken("ffffffffffffffffffffffffffffffff", "paystack-integration", "user-1", "", time.Hour)
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1", Issuer: "paystack-integration"},
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	noneAlg, err := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	for name, token := range map[string]string{
		"expired":      expired,
		"wrong issuer": wrongIssuer,
		"wrong secret": wrongSecret,
		"no expiry":    noExpiry,
		"alg none":     noneAlg,
		"garbage":      "not-a-jwt",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := verifier.Verify(context.Background(), token)
			assert.ErrorIs(t, err, domainidentity.ErrInvalidToken)
		})
	}
}

func TestIssueToken_Validation(t *testing.T) {
	_, err := IssueToken("", "", "user-1", "", time.Hour)
	assert.Error(t, err)

	_, err = IssueToken(testSecret, "", "", "", time.Hour)
	assert.Error(t, err)

	_, err = NewJWTVerifier("", "")
	assert.Error(t, err)
}
