package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"cleaningmanager/models"
	"cleaningmanager/services/user"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type stubRestorer map[string]*user.Session

func (s stubRestorer) RestoreSession(_ context.Context, token string) (*user.Session, error) {
	if session, ok := s[token]; ok {
		return session, nil
	}
	return nil, user.ErrInvalidToken
}

var sessions = stubRestorer{
	"admin-token":   {UID: "a1", User: models.User{ID: "a1", Role: models.RoleAdmin, IsActive: true}},
	"cleaner-token": {UID: "c1", User: models.User{ID: "c1", Role: models.RoleCleaner, IsActive: true}},
}

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", SessionAuthMiddleware(sessions), func(c *gin.Context) {
		c.String(http.StatusOK, CurrentSession(c).UID)
	})
	r.GET("/admin", SessionAuthMiddleware(sessions), RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	r.GET("/optional", OptionalSessionAuthMiddleware(sessions), func(c *gin.Context) {
		if CurrentSession(c) == nil {
			c.String(http.StatusOK, "anonymous")
			return
		}
		c.String(http.StatusOK, CurrentSession(c).UID)
	})
	return r
}

func serve(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, http.NoBody)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestSessionAuthMiddleware(t *testing.T) {
	r := newRouter()

	assert.Equal(t, http.StatusUnauthorized, serve(r, "/me", "").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(r, "/me", "forged").Code)

	rec := serve(r, "/me", "cleaner-token")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "c1", rec.Body.String())
}

func TestRequireAdmin(t *testing.T) {
	r := newRouter()

	assert.Equal(t, http.StatusForbidden, serve(r, "/admin", "cleaner-token").Code)
	assert.Equal(t, http.StatusNoContent, serve(r, "/admin", "admin-token").Code)
}

func TestOptionalSessionAuthMiddleware(t *testing.T) {
	r := newRouter()

	assert.Equal(t, "anonymous", serve(r, "/optional", "").Body.String())
	assert.Equal(t, "anonymous", serve(r, "/optional", "forged").Body.String())
	assert.Equal(t, "a1", serve(r, "/optional", "admin-token").Body.String())
}

func TestRateLimiterPerIP(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(NewRateLimiter(10).Middleware())
	r.GET("/links/:token", func(c *gin.Context) { c.Status(http.StatusOK) })

	request := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/links/abc", http.NoBody)
		req.Header.Set("X-Forwarded-For", ip+", 10.0.0.1")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec.Code
	}

	// Burst of one for ten requests a minute.
	assert.Equal(t, http.StatusOK, request("203.0.113.7"))
	assert.Equal(t, http.StatusTooManyRequests, request("203.0.113.7"))
	assert.Equal(t, http.StatusOK, request("198.51.100.2"))
}
