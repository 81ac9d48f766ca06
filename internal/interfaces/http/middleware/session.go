package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"civic-writer-api/pkg/logger"
)

const (
	SessionIDHeader   = "X-Session-ID"
	SessionCookieName = "writer_session"

	sessionCookieMaxAge = 30 * 24 * 60 * 60
)

// Session identifies the browser or API client for the submission guard.
// It takes X-Session-ID, then the session cookie, and otherwise issues a
// new cookie. No state is stored under the id.
func Session() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader(SessionIDHeader)
		if sessionID == "" {
			if cookie, err := c.Cookie(SessionCookieName); err == nil {
				sessionID = cookie
			}
		}
		if _, err := uuid.Parse(sessionID); err != nil {
			sessionID = uuid.NewString()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(SessionCookieName, sessionID, sessionCookieMaxAge, "/", "", false, true)
		}

		c.Set("session_id", sessionID)
		ctx := logger.WithContext(c.Request.Context(), logger.SessionIDKey, sessionID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// GetSessionID returns the id set by Session.
func GetSessionID(c *gin.Context) string {
	return c.GetString("session_id")
}
