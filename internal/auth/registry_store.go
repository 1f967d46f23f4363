package auth

import (
	"bytes"
	"database/sql"
	"encoding/gob"
	"fmt"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/google/uuid"
)

// storeRecord is the gob-encoded payload kept per session in the
// durable store.
type storeRecord struct {
	UserID    uint
	CreatedAt time.Time
}

// StoreRegistry is a SessionRegistry backed by a durable scs.Store, so
// sessions survive process restarts. The contract is identical to
// MemoryRegistry; only the storage medium changes. A non-positive
// lifetime means sessions never expire.
type StoreRegistry struct {
	store    scs.Store
	lifetime time.Duration
	now      func() time.Time
}

// NewStoreRegistry wraps an existing scs.Store.
func NewStoreRegistry(store scs.Store, lifetime time.Duration) *StoreRegistry {
	return &StoreRegistry{
		store:    store,
		lifetime: lifetime,
		now:      time.Now,
	}
}

// NewSQLiteStoreRegistry creates a registry persisted in the given
// SQLite database, creating the sessions table if needed.
func NewSQLiteStoreRegistry(sqlDB *sql.DB, lifetime time.Duration) (*StoreRegistry, error) {
	_, err := sqlDB.Exec(`CREATE TABLE IF NOT EXISTS sessions (
		token TEXT PRIMARY KEY,
		data BLOB NOT NULL,
		expiry REAL NOT NULL
	);
	CREATE INDEX IF NOT EXISTS sessions_expiry_idx ON sessions(expiry);`)
	if err != nil {
		return nil, fmt.Errorf("failed to create sessions table: %w", err)
	}

	return NewStoreRegistry(sqlite3store.New(sqlDB), lifetime), nil
}

// Create records a fresh session for the user and returns its id.
func (r *StoreRegistry) Create(userID uint) (string, error) {
	if userID == 0 {
		return "", ErrInvalidUserID
	}

	rec := storeRecord{UserID: userID, CreatedAt: r.now()}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(rec); err != nil {
		return "", err
	}

	sessionID := uuid.NewString()
	if err := r.store.Commit(sessionID, buf.Bytes(), r.expiry(rec.CreatedAt)); err != nil {
		return "", fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	return sessionID, nil
}

// UserID resolves a session id against the durable store. A corrupt or
// expired entry is deleted and treated as absent; only store failures
// surface as errors.
func (r *StoreRegistry) UserID(sessionID string) (uint, bool, error) {
	data, found, err := r.store.Find(sessionID)
	if err != nil {
		return 0, false, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if !found {
		return 0, false, nil
	}

	var rec storeRecord
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&rec); err != nil {
		_ = r.store.Delete(sessionID)
		return 0, false, nil
	}

	if r.lifetime > 0 && r.now().Sub(rec.CreatedAt) > r.lifetime {
		if err := r.store.Delete(sessionID); err != nil {
			return 0, false, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
		return 0, false, nil
	}

	return rec.UserID, true, nil
}

// Destroy removes a session. Destroying an unknown id is a no-op.
func (r *StoreRegistry) Destroy(sessionID string) error {
	if err := r.store.Delete(sessionID); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// expiry bounds how long the store keeps the row. The read-time check
// in UserID remains authoritative; this only lets the store reclaim
// space on its own schedule.
func (r *StoreRegistry) expiry(createdAt time.Time) time.Time {
	if r.lifetime <= 0 {
		return createdAt.AddDate(100, 0, 0)
	}
	return createdAt.Add(r.lifetime)
}
