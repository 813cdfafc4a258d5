// Package session tracks per-chat presentation state: the id of the
// current menu message and any ancillary messages (photos, map pins)
// sent alongside it.
package session

import "sync"

// Session is the presentation state for a single chat.
type Session struct {
	LastMessageID int
	Ancillary     []int
}

// Manager guards sessions for all chats. Zero value is not usable, use New.
type Manager struct {
	mu       sync.Mutex
	sessions map[int64]*Session
}

func New() *Manager {
	return &Manager{sessions: make(map[int64]*Session)}
}

func (m *Manager) get(chatID int64) *Session {
	s, ok := m.sessions[chatID]
	if !ok {
		s = &Session{}
		m.sessions[chatID] = s
	}
	return s
}

// Last returns the id of the current menu message, 0 if none.
func (m *Manager) Last(chatID int64) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[chatID]; ok {
		return s.LastMessageID
	}
	return 0
}

// SetLast records the id of the message now acting as the menu.
func (m *Manager) SetLast(chatID int64, messageID int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.get(chatID).LastMessageID = messageID
}

// Track appends an ancillary message id for later cleanup.
func (m *Manager) Track(chatID int64, messageID int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.get(chatID)
	s.Ancillary = append(s.Ancillary, messageID)
}

// DrainAncillary returns all tracked ancillary ids and clears the list.
func (m *Manager) DrainAncillary(chatID int64) []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[chatID]
	if !ok || len(s.Ancillary) == 0 {
		return nil
	}
	ids := s.Ancillary
	s.Ancillary = nil
	return ids
}

// Chats lists every chat with live presentation state.
func (m *Manager) Chats() []int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]int64, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	return ids
}

// Forget drops all presentation state for a chat.
func (m *Manager) Forget(chatID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, chatID)
}
