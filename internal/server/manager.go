package server

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Session is one provisioned remote browser and the viewer attached to it.
type Session struct {
	ID      string
	Backend Backend
	Control *websocket.Conn
	Created time.Time
}

// Manager tracks sessions keyed by session id
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewManager() *Manager {
	return &Manager{sessions: make(map[string]*Session)}
}

func (m *Manager) Add(id string, b Backend) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := &Session{ID: id, Backend: b, Created: time.Now()}
	m.sessions[id] = s
	return s
}

func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Remove deletes the session and returns it with the viewer it had attached.
func (m *Manager) Remove(id string) (*Session, *websocket.Conn, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, nil, false
	}
	delete(m.sessions, id)
	conn := s.Control
	s.Control = nil
	return s, conn, true
}

// SetControl attaches conn as the session's viewer and returns the viewer it
// replaced, if any. ok is false when the session does not exist.
func (m *Manager) SetControl(id string, conn *websocket.Conn) (old *websocket.Conn, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, false
	}
	if s.Control != nil && s.Control != conn {
		old = s.Control
	}
	s.Control = conn
	return old, true
}

func (m *Manager) RemoveControl(id string, conn *websocket.Conn) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return
	}
	if s.Control == conn {
		s.Control = nil
	}
}

// IDs returns a snapshot of session ids.
func (m *Manager) IDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	return ids
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
