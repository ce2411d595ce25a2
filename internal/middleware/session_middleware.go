package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// SessionCookieName identifies the browser session that scopes cart and
	// profile state.
	SessionCookieName = "fitstore_session"

	// SessionHeaderName lets non-browser clients pass an explicit session id.
	SessionHeaderName = "X-Session-ID"

	sessionContextKey = "session_id"

	sessionCookieMaxAge = 60 * 60 * 24 * 365
)

// SessionMiddleware resolves the caller's session id, minting a new one and
// setting the cookie when none is presented.
func SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader(SessionHeaderName)
		if sessionID == "" {
			if cookie, err := c.Cookie(SessionCookieName); err == nil {
				sessionID = cookie
			}
		}
		if sessionID == "" {
			sessionID = uuid.NewString()
			c.SetCookie(SessionCookieName, sessionID, sessionCookieMaxAge, "/", "", false, true)
		}

		c.Set(sessionContextKey, sessionID)
		c.Next()
	}
}

// GetSessionID retrieves the session id from gin context.
func GetSessionID(c *gin.Context) (string, bool) {
	sessionID := c.GetString(sessionContextKey)
	return sessionID, sessionID != ""
}
