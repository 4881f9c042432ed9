package middleware

import (
	"context"
	"net/http"
	"strings"

	"cleaningmanager/services/user"
	"cleaningmanager/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SessionRestorer resolves a bearer token to its caller.
type SessionRestorer interface {
	RestoreSession(ctx context.Context, idToken string) (*user.Session, error)
}

// SessionAuthMiddleware requires a valid Firebase ID token and stores the
// caller's session in the context.
func SessionAuthMiddleware(users SessionRestorer) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, utils.ErrorResponse{Message: "Missing or invalid Authorization header"})
			return
		}
		session, err := users.RestoreSession(c.Request.Context(), token)
		if err != nil {
			zap.L().Debug("session restore failed", zap.Error(err))
			c.AbortWithStatusJSON(utils.StatusFor(err), utils.ErrorResponse{Message: "Invalid session", Details: err.Error()})
			return
		}
		c.Set(utils.SessionContextKey, session)
		c.Next()
	}
}

// OptionalSessionAuthMiddleware attaches a session when a valid token is
// presented and lets anonymous requests through.
func OptionalSessionAuthMiddleware(users SessionRestorer) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := bearerToken(c); ok {
			if session, err := users.RestoreSession(c.Request.Context(), token); err == nil {
				c.Set(utils.SessionContextKey, session)
			}
		}
		c.Next()
	}
}

// RequireAdmin must run after SessionAuthMiddleware.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !CurrentSession(c).IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, utils.ErrorResponse{Message: "Admin access required"})
			return
		}
		c.Next()
	}
}

// CurrentSession returns the caller's session, or nil for anonymous requests.
func CurrentSession(c *gin.Context) *user.Session {
	v, ok := c.Get(utils.SessionContextKey)
	if !ok {
		return nil
	}
	session, _ := v.(*user.Session)
	return session
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	return token, token != ""
}
