package auth

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrInvalidUserID is returned when a session is requested for the
	// zero user id.
	ErrInvalidUserID = errors.New("invalid user id")
	// ErrStoreUnavailable wraps backing-store failures so callers can
	// tell them apart from a session that simply does not exist.
	ErrStoreUnavailable = errors.New("session store unavailable")
)

// SessionRegistry maps opaque session identifiers to user ids.
//
// UserID returns (0, false, nil) for a session that is absent or
// expired; an error is returned only when the backing store fails.
// Destroy is idempotent.
type SessionRegistry interface {
	Create(userID uint) (string, error)
	UserID(sessionID string) (uint, bool, error)
	Destroy(sessionID string) error
}

// Sweeper is implemented by registries that can evict expired sessions
// in bulk, for periodic cleanup.
type Sweeper interface {
	Sweep() int
}

type memorySession struct {
	userID    uint
	createdAt time.Time
}

// MemoryRegistry is an in-process SessionRegistry. All operations are
// safe for concurrent use. A non-zero MaxAge turns it into the expiring
// variant: lookups past the age return nothing and evict the entry.
type MemoryRegistry struct {
	mu       sync.RWMutex
	sessions map[string]memorySession
	maxAge   time.Duration
	now      func() time.Time
}

// NewMemoryRegistry creates a registry whose sessions never expire.
func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{
		sessions: make(map[string]memorySession),
		now:      time.Now,
	}
}

// NewExpiringRegistry creates a registry whose sessions expire maxAge
// after creation. A non-positive maxAge disables expiry.
func NewExpiringRegistry(maxAge time.Duration) *MemoryRegistry {
	r := NewMemoryRegistry()
	r.maxAge = maxAge
	return r
}

// Create records a fresh session for the user and returns its id.
func (r *MemoryRegistry) Create(userID uint) (string, error) {
	if userID == 0 {
		return "", ErrInvalidUserID
	}

	sessionID := uuid.NewString()
	r.mu.Lock()
	r.sessions[sessionID] = memorySession{userID: userID, createdAt: r.now()}
	r.mu.Unlock()

	return sessionID, nil
}

// UserID resolves a session id to the user it was created for. Expired
// sessions are treated as absent and lazily evicted.
func (r *MemoryRegistry) UserID(sessionID string) (uint, bool, error) {
	r.mu.RLock()
	sess, ok := r.sessions[sessionID]
	r.mu.RUnlock()
	if !ok {
		return 0, false, nil
	}

	if r.expired(sess) {
		r.mu.Lock()
		delete(r.sessions, sessionID)
		r.mu.Unlock()
		return 0, false, nil
	}

	return sess.userID, true, nil
}

// Destroy removes a session. Destroying an unknown id is a no-op.
func (r *MemoryRegistry) Destroy(sessionID string) error {
	r.mu.Lock()
	delete(r.sessions, sessionID)
	r.mu.Unlock()
	return nil
}

// Sweep removes all expired sessions and returns how many were evicted.
func (r *MemoryRegistry) Sweep() int {
	if r.maxAge <= 0 {
		return 0
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	evicted := 0
	for id, sess := range r.sessions {
		if r.expired(sess) {
			delete(r.sessions, id)
			evicted++
		}
	}
	return evicted
}

// Len reports the number of live entries, expired or not.
func (r *MemoryRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

func (r *MemoryRegistry) expired(sess memorySession) bool {
	return r.maxAge > 0 && r.now().Sub(sess.createdAt) > r.maxAge
}
