package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkarpov/authgate/internal/auth"
	"github.com/dkarpov/authgate/internal/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestNewRouter_Status(t *testing.T) {
	router := NewRouter(RouterConfig{})

	resp := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/status", nil)
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"status":"OK"}`, resp.Body.String())
}

func TestNewRouter_HealthWithoutDatabase(t *testing.T) {
	router := NewRouter(RouterConfig{Version: "test"})

	resp := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)

	var health HealthResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &health))
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, "test", health.Version)
	assert.Equal(t, "not configured", health.Checks["database"])
}

func TestNewRouter_SecurityHeaders(t *testing.T) {
	router := NewRouter(RouterConfig{})

	resp := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/status", nil)
	router.ServeHTTP(resp, req)

	assert.Equal(t, "DENY", resp.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", resp.Header().Get("X-Content-Type-Options"))
}

func TestNewRouter_GateAppliesToProtectedPaths(t *testing.T) {
	excluded := config.DefaultExcludedPaths
	strategy := auth.NewNoAuth("")
	router := NewRouter(RouterConfig{
		AuthMiddleware: auth.NewMiddleware(strategy, excluded),
	})

	resp := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/status", nil)
	router.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusOK, resp.Code, "excluded path must pass through the gate")

	resp = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	router.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}
