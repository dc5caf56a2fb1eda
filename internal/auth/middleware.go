package auth

import (
	"strings"

	"github.com/gin-gonic/gin"

	apierrors "codeberg.org/squidlabs/server/internal/errors"
)

// context keys set after token validation
const (
	userIDKey   = "user_id"
	usernameKey = "username"
)

// AuthMiddleware requires a valid bearer token and exposes the caller's
// identity to downstream handlers.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := claimsFromHeader(c)
		if !ok {
			apierrors.Unauthorized(c, "valid bearer token required")
			c.Abort()
			return
		}

		c.Set(userIDKey, claims.UserID)
		c.Set(usernameKey, claims.Username)

		c.Next()
	}
}

// OptionalAuthMiddleware validates a bearer token when one is present
// but lets anonymous requests through.
func OptionalAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, ok := claimsFromHeader(c); ok {
			c.Set(userIDKey, claims.UserID)
			c.Set(usernameKey, claims.Username)
		}

		c.Next()
	}
}

// extracts and validates the Authorization header, if any
func claimsFromHeader(c *gin.Context) (*Claims, bool) {
	header := c.GetHeader("Authorization")

	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		return nil, false
	}

	claims, err := ValidateJWT(token)
	if err != nil {
		return nil, false
	}

	return claims, true
}

// extracts the user ID set by the middleware
func GetUserID(c *gin.Context) (string, bool) {
	userID, exists := c.Get(userIDKey)
	if !exists {
		return "", false
	}

	return userID.(string), true
}
