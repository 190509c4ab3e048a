package delivery

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	UserIDHeader = "X-User-Id"
	userIDKey    = "userID"
)

// UserIDMiddleware stores the X-User-Id header in the context. When required
// is set a missing header aborts the request with 400.
func UserIDMiddleware(required bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := strings.TrimSpace(c.GetHeader(UserIDHeader))
		if userID == "" {
			if required {
				ErrorResponse(c, http.StatusBadRequest, "Missing user identity", UserIDHeader+" header is required")
				return
			}
			c.Next()
			return
		}
		if len(userID) > 64 {
			ErrorResponse(c, http.StatusBadRequest, "Invalid user identity", UserIDHeader+" header is too long")
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

func UserIDFromContext(c *gin.Context) string {
	return c.GetString(userIDKey)
}
