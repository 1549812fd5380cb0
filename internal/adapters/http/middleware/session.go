package middleware

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"
)

// SessionTTL is how long an admin login lasts.
const SessionTTL = 24 * time.Hour

// Session represents an authenticated admin session.
type Session struct {
	AdminID   uint      `json:"admin_id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// SessionStore keeps sessions keyed by an opaque cookie token.
type SessionStore interface {
	Create(ctx context.Context, adminID uint, username string) (string, error)
	Get(ctx context.Context, token string) (Session, bool)
	Delete(ctx context.Context, token string) error
}

// MemorySessionStore is an in-process session store. Sessions do not survive a restart.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
	now      func() time.Time
}

// NewMemorySessionStore creates a new in-memory session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]Session),
		now:      time.Now,
	}
}

// Create stores a new session and returns the token.
// PRE: adminID > 0
// POST: Session is stored, token is returned
func (ss *MemorySessionStore) Create(_ context.Context, adminID uint, username string) (string, error) {
	token, err := generateToken()
	if err != nil {
		return "", err
	}
	ss.mu.Lock()
	defer ss.mu.Unlock()
	ss.sessions[token] = Session{AdminID: adminID, Username: username, CreatedAt: ss.now()}
	return token, nil
}

// Get retrieves a session by token.
// PRE: none
// POST: Returns session if present and younger than SessionTTL; expired sessions are removed
func (ss *MemorySessionStore) Get(_ context.Context, token string) (Session, bool) {
	ss.mu.RLock()
	session, ok := ss.sessions[token]
	ss.mu.RUnlock()
	if !ok {
		return Session{}, false
	}
	if ss.now().Sub(session.CreatedAt) > SessionTTL {
		ss.mu.Lock()
		delete(ss.sessions, token)
		ss.mu.Unlock()
		return Session{}, false
	}
	return session, true
}

// Delete removes a session by token.
func (ss *MemorySessionStore) Delete(_ context.Context, token string) error {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	delete(ss.sessions, token)
	return nil
}

func generateToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
