package memory

import (
	"sync"

	"quiz-chat-service/internal/app"
	"quiz-chat-service/internal/domain"
)

// SessionStore is an in-memory implementation of app.SessionRepository.
// The map lock only guards lookup and creation; per-user serialization is
// the session's own concern.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*app.Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*app.Session),
	}
}

func (s *SessionStore) GetOrCreate(userID string) *app.Session {
	s.mu.RLock()
	session, ok := s.sessions[userID]
	s.mu.RUnlock()
	if ok {
		return session
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if session, ok := s.sessions[userID]; ok {
		return session
	}
	session = app.NewSession()
	s.sessions[userID] = session
	return session
}

// Persist is a no-op: sessions live in process memory only.
func (s *SessionStore) Persist(string, domain.SessionState) {}

// Len reports how many users have sessions, for introspection in tests.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
