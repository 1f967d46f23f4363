package auth

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dkarpov/authgate/internal/config"
)

// credentialsRequest is the JSON body shared by register and login.
type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// Controller handles the authentication HTTP endpoints: registration,
// session login/logout, identity, and password changes. The registry is
// nil for strategies without server-side sessions.
type Controller struct {
	service  *Service
	registry SessionRegistry
	config   config.Auth
}

// NewController creates a new authentication controller.
func NewController(service *Service, registry SessionRegistry, cfg config.Auth) *Controller {
	return &Controller{service: service, registry: registry, config: cfg}
}

// RegisterRoutes registers the authentication routes on the router.
func (ac *Controller) RegisterRoutes(router *gin.Engine) {
	router.POST("/api/v1/users", ac.Register)
	router.GET("/api/v1/users/me", ac.Me)
	router.PUT("/api/v1/users/me/password", ac.ChangePassword)
	if ac.registry != nil {
		router.POST("/api/v1/auth_session/login", ac.Login)
		router.DELETE("/api/v1/auth_session/logout", ac.Logout)
	}
}

// Register creates a new user account.
func (ac *Controller) Register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	user, err := ac.service.Register(req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmailTaken):
			c.JSON(http.StatusConflict, gin.H{"error": "email already registered"})
		case errors.Is(err, ErrEmailRequired), errors.Is(err, ErrEmailInvalid),
			errors.Is(err, ErrPasswordRequired), errors.Is(err, ErrPasswordTooLong):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			log.Printf("auth: registering user: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create user"})
		}
		return
	}

	c.JSON(http.StatusCreated, user)
}

// Login verifies credentials, creates a session, and sets the session
// cookie.
func (ac *Controller) Login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email missing"})
		return
	}
	if req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "password missing"})
		return
	}

	user, err := ac.service.Authenticate(req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "no user found for this email"})
		case errors.Is(err, ErrInvalidPassword):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "wrong password"})
		default:
			log.Printf("auth: authenticating %s: %v", req.Email, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "authentication failed"})
		}
		return
	}

	sessionID, err := ac.registry.Create(user.ID)
	if err != nil {
		log.Printf("auth: creating session for user %d: %v", user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
		return
	}

	ac.setSessionCookie(c, sessionID, int(ac.config.SessionLifetime.Seconds()))
	c.JSON(http.StatusOK, user)
}

// Logout destroys the current session and clears the cookie.
func (ac *Controller) Logout(c *gin.Context) {
	sessionID, err := c.Cookie(ac.cookieName())
	if err != nil || sessionID == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}

	if err := ac.registry.Destroy(sessionID); err != nil {
		log.Printf("auth: destroying session: %v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "authentication backend unavailable"})
		return
	}

	ac.setSessionCookie(c, "", -1)
	c.JSON(http.StatusOK, gin.H{})
}

// Me returns the authenticated user. The gate has already resolved the
// identity for protected paths.
func (ac *Controller) Me(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}
	c.JSON(http.StatusOK, user)
}

// ChangePassword verifies the current password before storing the new
// hash.
func (ac *Controller) ChangePassword(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}

	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if _, err := ac.service.ChangePassword(user.ID, req.CurrentPassword, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, ErrInvalidPassword):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "wrong password"})
		case errors.Is(err, ErrPasswordRequired), errors.Is(err, ErrPasswordTooLong):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		default:
			log.Printf("auth: changing password for user %d: %v", user.ID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update password"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "password updated"})
}

func (ac *Controller) cookieName() string {
	if ac.config.SessionCookieName == "" {
		return DefaultSessionCookieName
	}
	return ac.config.SessionCookieName
}

func (ac *Controller) setSessionCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(ac.cookieName(), value, maxAge, "/", "", ac.config.SecureCookies, true)
}
