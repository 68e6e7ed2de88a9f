package delivery

import (
	"strings"

	"playtube-backend/internal/auth/token"
	"playtube-backend/pkg/apperror"
	"playtube-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

const userIDKey = "userID"

// AuthMiddleware authenticates requests from the accessToken cookie or a
// Bearer header. Verification is purely cryptographic; no store lookup
// happens on the hot path.
func AuthMiddleware(tokens *token.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := accessTokenFrom(c)
		if tokenStr == "" {
			response.Error(c, apperror.Unauthorized("Unauthorized request"))
			c.Abort()
			return
		}

		claims, err := tokens.Verify(tokenStr, token.KindAccess)
		if err != nil {
			response.Error(c, apperror.Unauthorized("Invalid access token: "+err.Error()))
			c.Abort()
			return
		}

		c.Set(userIDKey, claims.Subject)
		c.Next()
	}
}

// UserID returns the authenticated user's ID set by AuthMiddleware.
func UserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}

func accessTokenFrom(c *gin.Context) string {
	if cookie, err := c.Cookie("accessToken"); err == nil && cookie != "" {
		return cookie
	}
	header := c.GetHeader("Authorization")
	if parts := strings.SplitN(header, " ", 2); len(parts) == 2 && parts[0] == "Bearer" {
		return parts[1]
	}
	return ""
}
