package auth

import (
	"errors"
	"net/http"

	"github.com/dkarpov/authgate/internal/config"
	"github.com/dkarpov/authgate/internal/database/users"
	"github.com/dkarpov/authgate/internal/entities"
)

// DefaultSessionCookieName is used when no cookie name is configured.
const DefaultSessionCookieName = "_my_session_id"

// UserDirectory is the slice of the user store the strategies need:
// lookups only, never writes.
type UserDirectory interface {
	GetByEmail(email string) (*entities.User, error)
	GetByID(id uint) (*entities.User, error)
}

// Strategy decides whether a path requires authentication and resolves
// the current user for a request. Implementations hold only their
// collaborators; every request is evaluated independently.
//
// CurrentUser returns (nil, nil) when the request carries no usable
// credentials; an error is returned only when the backing store fails.
type Strategy interface {
	RequiresAuth(path string, excluded []string) bool
	CurrentUser(r *http.Request) (*entities.User, error)
	AuthorizationHeader(r *http.Request) string
	SessionCookie(r *http.Request) string
}

// base carries the request-reading helpers shared by every strategy.
type base struct {
	cookieName string
}

func newBase(cookieName string) base {
	if cookieName == "" {
		cookieName = DefaultSessionCookieName
	}
	return base{cookieName: cookieName}
}

func (base) RequiresAuth(path string, excluded []string) bool {
	return RequiresAuth(path, excluded)
}

// AuthorizationHeader reads the raw Authorization header value, empty
// when absent.
func (base) AuthorizationHeader(r *http.Request) string {
	if r == nil {
		return ""
	}
	return r.Header.Get("Authorization")
}

// SessionCookie reads the session cookie value, empty when absent.
func (b base) SessionCookie(r *http.Request) string {
	if r == nil {
		return ""
	}
	cookie, err := r.Cookie(b.cookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// NoAuth is the inert default: it never resolves a user, so protected
// paths stay closed until a real strategy is configured.
type NoAuth struct {
	base
}

func NewNoAuth(cookieName string) *NoAuth {
	return &NoAuth{base: newBase(cookieName)}
}

func (*NoAuth) CurrentUser(*http.Request) (*entities.User, error) {
	return nil, nil
}

// BasicAuth resolves users from Basic Authorization credentials on
// every request.
type BasicAuth struct {
	base
	users UserDirectory
}

func NewBasicAuth(dir UserDirectory, cookieName string) *BasicAuth {
	return &BasicAuth{base: newBase(cookieName), users: dir}
}

// CurrentUser runs the extract -> decode -> split -> lookup -> verify
// pipeline. Any stage failing short-circuits to no user.
func (a *BasicAuth) CurrentUser(r *http.Request) (*entities.User, error) {
	token, ok := ExtractBasicToken(a.AuthorizationHeader(r))
	if !ok {
		return nil, nil
	}
	decoded, ok := DecodeToken(token)
	if !ok {
		return nil, nil
	}
	email, password, ok := SplitCredentials(decoded)
	if !ok {
		return nil, nil
	}

	user, err := a.users.GetByEmail(email)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if CheckPassword(password, user.PasswordHash) != nil {
		return nil, nil
	}

	return user, nil
}

// SessionAuth resolves users from a session cookie via a
// SessionRegistry. Pairing it with an expiring or persisted registry
// yields the expiring and persisted variants; the strategy itself is
// unchanged.
type SessionAuth struct {
	base
	registry SessionRegistry
	users    UserDirectory
}

func NewSessionAuth(registry SessionRegistry, dir UserDirectory, cookieName string) *SessionAuth {
	return &SessionAuth{base: newBase(cookieName), registry: registry, users: dir}
}

// CurrentUser resolves cookie -> session -> user id -> user.
func (a *SessionAuth) CurrentUser(r *http.Request) (*entities.User, error) {
	sessionID := a.SessionCookie(r)
	if sessionID == "" {
		return nil, nil
	}

	userID, ok, err := a.registry.UserID(sessionID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	user, err := a.users.GetByID(userID)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

// Registry exposes the registry so the login/logout handlers can create
// and destroy sessions through the same instance the gate reads from.
func (a *SessionAuth) Registry() SessionRegistry {
	return a.registry
}

// ForConfig picks the strategy fixed at startup. Session-based
// strategies receive the registry built for them by the entrypoint
// (plain in-memory, expiring, or SQLite-persisted).
func ForConfig(cfg config.Auth, dir UserDirectory, registry SessionRegistry) Strategy {
	switch cfg.Strategy {
	case config.StrategyBasic:
		return NewBasicAuth(dir, cfg.SessionCookieName)
	case config.StrategySession, config.StrategySessionExp, config.StrategySessionDB:
		return NewSessionAuth(registry, dir, cfg.SessionCookieName)
	default:
		return NewNoAuth(cfg.SessionCookieName)
	}
}
