package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/dkarpov/authgate/internal/entities"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newGateRouter(strategy Strategy, excluded []string) *gin.Engine {
	router := gin.New()
	router.Use(NewMiddleware(strategy, excluded).Handler())
	router.GET("/api/v1/users/me", func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}
		c.JSON(http.StatusOK, user)
	})
	router.GET("/api/v1/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})
	return router
}

func TestMiddleware_ExcludedPathPassesThrough(t *testing.T) {
	repo := setupUserDirectory(t)
	router := newGateRouter(NewBasicAuth(repo, ""), []string{"/api/v1/status"})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/status", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Errorf("excluded path status = %d, want %d", resp.Code, http.StatusOK)
	}
}

func TestMiddleware_NoCredentials(t *testing.T) {
	repo := setupUserDirectory(t)
	router := newGateRouter(NewBasicAuth(repo, ""), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Errorf("no credentials status = %d, want %d", resp.Code, http.StatusUnauthorized)
	}
}

func TestMiddleware_UnresolvedCredentials(t *testing.T) {
	repo := setupUserDirectory(t)
	router := newGateRouter(NewBasicAuth(repo, ""), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	req.Header.Set("Authorization", basicHeader("nobody@b.com", "pw1"))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusForbidden {
		t.Errorf("unresolved credentials status = %d, want %d", resp.Code, http.StatusForbidden)
	}
}

func TestMiddleware_ValidCredentials(t *testing.T) {
	repo := setupUserDirectory(t)
	seedUser(t, repo, "a@b.com", "opensesame")
	router := newGateRouter(NewBasicAuth(repo, ""), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	req.Header.Set("Authorization", basicHeader("a@b.com", "opensesame"))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Errorf("valid credentials status = %d, want %d; body %s", resp.Code, http.StatusOK, resp.Body.String())
	}
}

func TestMiddleware_SessionCookieCountsAsCredentials(t *testing.T) {
	repo := setupUserDirectory(t)
	router := newGateRouter(NewSessionAuth(NewMemoryRegistry(), repo, ""), nil)

	// A cookie for a session that no longer exists: credentials were
	// presented, so the verdict is forbidden rather than unauthorized.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	req.AddCookie(&http.Cookie{Name: DefaultSessionCookieName, Value: "destroyed-session"})
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusForbidden {
		t.Errorf("stale session status = %d, want %d", resp.Code, http.StatusForbidden)
	}
}

func TestMiddleware_NoAuthNeverBlocks(t *testing.T) {
	router := newGateRouter(NewNoAuth(""), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	req.Header.Set("Authorization", "Basic anything")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// NoAuth resolves nobody, so credentialed requests still end 403.
	if resp.Code != http.StatusForbidden {
		t.Errorf("status = %d, want %d", resp.Code, http.StatusForbidden)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Errorf("status without credentials = %d, want %d", resp.Code, http.StatusUnauthorized)
	}
}

type failingStrategy struct {
	base
}

func (failingStrategy) CurrentUser(*http.Request) (*entities.User, error) {
	return nil, errors.New("store down")
}

func TestMiddleware_BackendFailure(t *testing.T) {
	router := newGateRouter(failingStrategy{base: newBase("")}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	req.Header.Set("Authorization", "Basic abc")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusServiceUnavailable {
		t.Errorf("backend failure status = %d, want %d", resp.Code, http.StatusServiceUnavailable)
	}
}
