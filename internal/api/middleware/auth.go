package middleware

import (
	"strings"

	"vidtube/internal/api/response"
	"vidtube/internal/config"
	"vidtube/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	ContextKeyUserID  = "currentUserID"
	accessTokenCookie = "accessToken"
)

// Identify attaches the acting user when the request carries an access
// token, from the Authorization header or the accessToken cookie. Requests
// without a token continue anonymously; an invalid token is rejected.
func Identify(cfg *config.JWTConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.Next()
			return
		}

		userID, err := utils.ParseToken(cfg, token)
		if err != nil {
			response.Unauthorized(c, "invalid or expired access token")
			return
		}

		c.Set(ContextKeyUserID, userID)
		c.Next()
	}
}

// AuthRequired rejects anonymous requests; use after Identify
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := GetCurrentUserID(c); !ok {
			response.Unauthorized(c, "unauthorized request")
			return
		}
		c.Next()
	}
}

// GetCurrentUserID returns the acting user, if any
func GetCurrentUserID(c *gin.Context) (uuid.UUID, bool) {
	val, exists := c.Get(ContextKeyUserID)
	if !exists {
		return uuid.Nil, false
	}
	userID, ok := val.(uuid.UUID)
	return userID, ok && userID != uuid.Nil
}

// Actor returns the acting user or uuid.Nil for anonymous requests
func Actor(c *gin.Context) uuid.UUID {
	id, _ := GetCurrentUserID(c)
	return id
}

// extractToken reads a Bearer token, falling back to the cookie
func extractToken(c *gin.Context) string {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	if cookie, err := c.Cookie(accessTokenCookie); err == nil {
		return strings.TrimSpace(cookie)
	}
	return ""
}
