package jwt

import (
	"testing"
	"time"

	"loanflow/internal/core/domain"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func TestAccessTokenRoundTrip(t *testing.T) {
	token, err := GenerateAccessToken("user-1", domain.RoleOfficer, secret, time.Hour)
	require.NoError(t, err)

	claims, err := ValidateAccessToken(token, secret)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, domain.RoleOfficer, claims.Role)
	assert.Equal(t, domain.Actor{UserID: "user-1", Role: domain.RoleOfficer}, claims.Actor())
}

func TestAccessTokenWrongSecret(t *testing.T) {
	token, err := GenerateAccessToken("user-1", domain.RoleCustomer, secret, time.Hour)
	require.NoError(t, err)

	_, err = ValidateAccessToken(token, "other-secret")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestAccessTokenExpired(t *testing.T) {
	token, err := GenerateAccessToken("user-1", domain.RoleCustomer, secret, -time.Minute)
	require.NoError(t, err)

	_, err = ValidateAccessToken(token, secret)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestAccessTokenUnknownRoleRejected(t *testing.T) {
	token, err := GenerateAccessToken("user-1", domain.Role("ADMIN"), secret, time.Hour)
	require.NoError(t, err)

	_, err = ValidateAccessToken(token, secret)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestAccessTokenRejectsNoneAlgorithm(t *testing.T) {
	claims := Claims{
		UserID: "user-1",
		Role:   domain.RoleOfficer,
		RegisteredClaims: gojwt.RegisteredClaims{
			Issuer:    issuer,
			ExpiresAt: gojwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	unsigned, err := gojwt.NewWithClaims(gojwt.SigningMethodNone, claims).SignedString(gojwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = ValidateAccessToken(unsigned, secret)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestMissingSecret(t *testing.T) {
	_, err := GenerateAccessToken("user-1", domain.RoleCustomer, "", time.Hour)
	assert.ErrorIs(t, err, ErrNoSecret)

	_, err = ValidateAccessToken("anything", "")
	assert.ErrorIs(t, err, ErrNoSecret)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	token, err := GenerateRefreshToken("user-1", "token-1", secret, 24*time.Hour)
	require.NoError(t, err)

	claims, err := ValidateRefreshToken(token, secret)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "token-1", claims.TokenID)
}
