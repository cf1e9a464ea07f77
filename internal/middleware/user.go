package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/eupolar/eupolar-server/internal/domain"
)

const (
	UserIDKey    = "user_id"
	UserIDHeader = "X-User-ID"

	maxUserIDLength = 128
)

// RequireUser reads the authenticated user from the X-User-ID header set by the
// upstream auth proxy and rejects requests without one.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := strings.TrimSpace(c.GetHeader(UserIDHeader))
		if userID == "" {
			abortWithError(c, http.StatusUnauthorized, domain.ErrCodeAuthentication, "missing user identity")
			return
		}
		if len(userID) > maxUserIDLength || strings.ContainsAny(userID, "\r\n\t") {
			abortWithError(c, http.StatusUnauthorized, domain.ErrCodeAuthentication, "invalid user identity")
			return
		}

		c.Set(UserIDKey, userID)
		c.Next()
	}
}

// UserID returns the user set by RequireUser.
func UserID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}
