package dialogue

import (
	"sync"
	"time"
)

// SessionStore maps user IDs to their in-progress dialogue session. One
// flow at most per user: putting a new session silently replaces any
// existing one. Sessions idle past the TTL are dropped on next access;
// a zero TTL disables expiry.
type SessionStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	now      func() time.Time
	sessions map[string]*Session
}

// NewSessionStore creates a SessionStore with the given idle TTL.
func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
}

// SetNow overrides the clock, used by tests to exercise expiry.
func (st *SessionStore) SetNow(now func() time.Time) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.now = now
}

// Get returns the user's active session, refreshing its activity time.
// An expired session is discarded and reported as absent.
func (st *SessionStore) Get(userID string) (*Session, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()

	s, ok := st.sessions[userID]
	if !ok {
		return nil, false
	}
	now := st.now()
	if st.ttl > 0 && now.Sub(s.LastActive) > st.ttl {
		delete(st.sessions, userID)
		return nil, false
	}
	s.LastActive = now
	return s, true
}

// Put stores the user's session, replacing any in-progress one.
func (st *SessionStore) Put(userID string, s *Session) {
	st.mu.Lock()
	defer st.mu.Unlock()
	s.LastActive = st.now()
	st.sessions[userID] = s
}

// Delete discards the user's session, if any.
func (st *SessionStore) Delete(userID string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, userID)
}

// Len returns the number of active sessions.
func (st *SessionStore) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}
