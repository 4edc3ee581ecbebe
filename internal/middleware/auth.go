package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/boardhub/api/internal/auth"
	"github.com/gin-gonic/gin"
)

// AuthMiddleware validates the bearer credential before any business logic
// runs: decode, expiry check, revocation check, in that order. On success the
// subject and the raw token are placed in the request context.
func AuthMiddleware(jwtSecret string, revocations *auth.RevocationStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ExtractToken(c)
		if tokenString == "" {
			RecordAuthFailure("missing_credential")
			c.JSON(http.StatusUnauthorized, gin.H{"error": auth.ErrMissingCredential.Error()})
			c.Abort()
			return
		}

		claims, err := auth.DecodeToken(tokenString, jwtSecret)
		if err != nil {
			RecordAuthFailure("malformed")
			c.JSON(http.StatusForbidden, gin.H{"error": auth.ErrMalformedToken.Error()})
			c.Abort()
			return
		}

		if auth.IsExpired(claims, time.Now()) {
			RecordAuthFailure("expired")
			c.JSON(http.StatusForbidden, gin.H{"error": auth.ErrExpiredToken.Error()})
			c.Abort()
			return
		}

		revoked, err := revocations.IsRevoked(c.Request.Context(), tokenString, time.Now())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to check token revocation"})
			c.Abort()
			return
		}
		if revoked {
			RecordAuthFailure("revoked")
			c.JSON(http.StatusForbidden, gin.H{"error": auth.ErrRevokedToken.Error()})
			c.Abort()
			return
		}

		// Set authenticated identity in context
		c.Set("username", claims.Subject)
		c.Set("token", tokenString)

		c.Next()
	}
}

// ExtractToken pulls the credential from the Authorization header, falling
// back to the session cookie. Returns "" when neither is present.
func ExtractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return parts[1]
		}
	}

	if cookie, err := c.Cookie(auth.TokenCookieName); err == nil && cookie != "" {
		return cookie
	}

	return ""
}
