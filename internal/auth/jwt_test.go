package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestIssueAndDecodeRoundTrip(t *testing.T) {
	now := time.Now().Truncate(time.Second)

	token, err := IssueToken("alice", now, testSecret)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := DecodeToken(token, testSecret)
	require.NoError(t, err)

	assert.Equal(t, "alice", claims.Subject)
	assert.Equal(t, now.Unix(), claims.IssuedAt.Unix())
	assert.Equal(t, now.Add(TokenExpiry).Unix(), claims.ExpiresAt.Unix())
	assert.NotEmpty(t, claims.ID)
}

func TestDecodeRejectsWrongSecret(t *testing.T) {
	token, err := IssueToken("alice", time.Now(), testSecret)
	require.NoError(t, err)

	_, err = DecodeToken(token, "another-secret")
	assert.ErrorIs(t, err, ErrMalformedToken)
}

func TestDecodeRejectsGarbage(t *testing.T) {
	for _, tokenString := range []string{"", "not-a-token", "a.b.c"} {
		_, err := DecodeToken(tokenString, testSecret)
		assert.ErrorIs(t, err, ErrMalformedToken)
	}
}

func TestDecodeDoesNotValidateExpiry(t *testing.T) {
	// Issued two hours ago, so expired one hour ago.
	token, err := IssueToken("alice", time.Now().Add(-2*time.Hour), testSecret)
	require.NoError(t, err)

	claims, err := DecodeToken(token, testSecret)
	require.NoError(t, err)

	assert.Equal(t, "alice", claims.Subject)
	assert.True(t, IsExpired(claims, time.Now()))
}

func TestIsExpiredBoundary(t *testing.T) {
	now := time.Now().Truncate(time.Second)
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now),
		},
	}

	// Expiry equal to now is still usable; one second past is not.
	assert.False(t, IsExpired(claims, now))
	assert.True(t, IsExpired(claims, now.Add(time.Second)))
	assert.False(t, IsExpired(claims, now.Add(-time.Second)))
}

func TestIsExpiredWithoutExpiryClaim(t *testing.T) {
	claims := &Claims{}
	assert.True(t, IsExpired(claims, time.Now()))
}
