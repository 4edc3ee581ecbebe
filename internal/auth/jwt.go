package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenExpiry is the fixed lifetime of every issued token.
const TokenExpiry = time.Hour

// TokenCookieName is the HTTP-only cookie the token travels in when the
// client is not sending an Authorization header.
const TokenCookieName = "board_token"

type Claims struct {
	jwt.RegisteredClaims
}

// IssueToken signs a token for the given subject. The expiry is always
// now + TokenExpiry; the jti claim gives each token a distinct identity.
func IssueToken(subject string, now time.Time, secret string) (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenExpiry)),
			ID:        uuid.NewString(),
			Issuer:    "boardhub",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// DecodeToken checks structure and signature only. Expiry and revocation are
// the caller's responsibility, so claim validation is switched off here.
func DecodeToken(tokenString string, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	}, jwt.WithoutClaimsValidation())

	if err != nil {
		return nil, ErrMalformedToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrMalformedToken
	}

	return claims, nil
}

// IsExpired reports whether the claims expired strictly before now. A token
// whose expiry equals now is still usable.
func IsExpired(claims *Claims, now time.Time) bool {
	if claims.ExpiresAt == nil {
		return true
	}
	return claims.ExpiresAt.Time.Before(now)
}
