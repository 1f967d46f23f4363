// Package http wires the authentication core into a gin router. It is
// deliberately thin: all decisions live in the auth package.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dkarpov/authgate/internal/auth"
	"github.com/dkarpov/authgate/internal/config"
	"github.com/dkarpov/authgate/internal/database"
)

// RouterConfig carries the router's dependencies, improving
// testability and reducing parameter count.
type RouterConfig struct {
	Database       *database.Database
	AuthService    *auth.Service
	AuthMiddleware *auth.Middleware
	Registry       auth.SessionRegistry
	AuthConfig     config.Auth
	CSRFSecret     []byte
	SecureCookies  bool
	Version        string
}

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	router.Use(auth.SecurityHeadersMiddleware())

	// CSRF guards the cookie-session surface; header-authenticated
	// requests pass through.
	if len(cfg.CSRFSecret) > 0 {
		router.Use(auth.CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies))
	}

	// The authentication gate runs before every handler.
	if cfg.AuthMiddleware != nil {
		router.Use(cfg.AuthMiddleware.Handler())
	}

	health := NewHealthController(cfg.Database, cfg.Version)
	router.GET("/health", health.Status)
	router.GET("/api/v1/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})

	if cfg.AuthService != nil {
		controller := auth.NewController(cfg.AuthService, cfg.Registry, cfg.AuthConfig)
		controller.RegisterRoutes(router)
	}

	return router
}
