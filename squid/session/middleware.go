package session

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// context key under which the session ID is stored
const contextKey = "session_id"

// Middleware reads the session cookie, issuing a fresh session ID when
// the client has none, and exposes the ID to downstream handlers.
// The cookie is (re)issued on every request so its max-age tracks the
// store TTL.
func Middleware(opts CookieOptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := c.Cookie(CookieName)
		if err != nil || sessionID == "" {
			sessionID, err = GenerateID()
			if err != nil {
				c.AbortWithStatus(http.StatusInternalServerError)
				return
			}
		}

		SetCookie(c.Writer, sessionID, opts)
		c.Set(contextKey, sessionID)

		c.Next()
	}
}

// extracts the session ID from context after Middleware
func IDFromContext(c *gin.Context) (string, bool) {
	sessionID, exists := c.Get(contextKey)

	if !exists {
		return "", false
	}

	return sessionID.(string), true
}
