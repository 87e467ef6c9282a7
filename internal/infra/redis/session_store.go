package redis

import (
	"context"
	"sync"
	"time"

	"quiz-chat-service/internal/app"
	"quiz-chat-service/internal/domain"
	"github.com/redis/go-redis/v9"
)

// SessionStore is a Redis-aware implementation of app.SessionRepository.
// Notes:
//   - Live sessions stay in a local map so per-user transition locking is
//     in-process and cheap.
//   - Redis holds a hash per user mirroring the committed state, so a
//     restarted instance resumes conversations where they left off.
//   - Mirror writes are best-effort; Redis being down degrades to the
//     in-memory behavior.
type SessionStore struct {
	client   *redis.Client
	ttl      time.Duration
	mu       sync.RWMutex
	sessions map[string]*app.Session
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{
		client:   client,
		ttl:      ttl,
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

	if state, err := s.load(userID); err == nil {
		session = app.NewSessionFromState(state)
	} else {
		session = app.NewSession()
	}
	s.sessions[userID] = session
	return session
}

// Persist mirrors the committed state into the user's hash, best-effort.
func (s *SessionStore) Persist(userID string, state domain.SessionState) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	key := s.key(userID)
	pipe := s.client.Pipeline()
	pipe.HSet(ctx, key, "step", state.Step.String(), "questionId", state.QuestionID, "category", state.Category)
	if s.ttl > 0 {
		pipe.Expire(ctx, key, s.ttl)
	}
	_, _ = pipe.Exec(ctx)
}

func (s *SessionStore) load(userID string) (domain.SessionState, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	fields, err := s.client.HGetAll(ctx, s.key(userID)).Result()
	if err != nil {
		return domain.SessionState{}, err
	}
	step, ok := domain.ParseStep(fields["step"])
	if !ok {
		return domain.SessionState{}, domain.ErrSessionNotFound
	}
	return domain.SessionState{
		Step:       step,
		QuestionID: fields["questionId"],
		Category:   fields["category"],
	}, nil
}

func (s *SessionStore) key(userID string) string {
	return "quiz:session:" + userID
}
