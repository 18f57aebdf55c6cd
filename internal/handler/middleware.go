package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/blogkit/backend/internal/service"
)

const (
	authUserKey     = "auth_user_id"
	requestIDKey    = "request_id"
	requestIDHeader = "X-Request-ID"
)

// RequestIDMiddleware tags every request with a correlation id, reusing
// the caller's X-Request-ID when present.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func RequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// AuthMiddleware verifies the access token from the access cookie or an
// Authorization bearer header and stores the authenticated user id on the
// request. Handlers pass that id into the services explicitly; nothing
// below the handler layer reads request state.
func AuthMiddleware(issuer *service.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractAccessToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			c.Abort()
			return
		}

		claims, err := issuer.VerifyAccessToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			c.Abort()
			return
		}

		c.Set(authUserKey, claims.UserID)
		c.Next()
	}
}

// AuthUserID returns the authenticated user id set by AuthMiddleware.
func AuthUserID(c *gin.Context) (int64, bool) {
	if value, ok := c.Get(authUserKey); ok {
		if id, ok := value.(int64); ok {
			return id, true
		}
	}
	return 0, false
}

func extractAccessToken(c *gin.Context) string {
	if token, err := c.Cookie(accessCookieName); err == nil && token != "" {
		return token
	}
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	return ""
}
