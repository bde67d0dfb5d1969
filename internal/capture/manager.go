package capture

import (
	"sync"
)

// Manager keeps at most one capture session per authenticated user.
// Sessions are in-memory only; ending one discards its photos.
type Manager struct {
	mu       sync.Mutex
	sessions map[uint]*Session
}

func NewManager() *Manager {
	return &Manager{
		sessions: make(map[uint]*Session),
	}
}

// Start creates a fresh session for the user, replacing any previous one.
func (m *Manager) Start(userID uint, groups []GroupOption) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := NewSession(userID, groups)
	m.sessions[userID] = s
	return s
}

// Get returns the user's active session, or nil.
func (m *Manager) Get(userID uint) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessions[userID]
}

// End discards the user's session. A Share already in flight is not
// cancelled: it completes against the discarded session and still creates
// its pint.
func (m *Manager) End(userID uint) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, userID)
}
