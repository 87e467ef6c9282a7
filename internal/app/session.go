package app

import (
	"sync"

	"quiz-chat-service/internal/domain"
)

// Session holds one user's conversation state. The mutex serializes
// transitions for that user: concurrent events (e.g. duplicate webhook
// deliveries) are applied one after the other, so the second always sees
// the state the first committed.
type Session struct {
	mu    sync.Mutex
	state domain.SessionState
}

// NewSession returns a fresh session at the initial step, no filter,
// no current question. Invoked exactly once per new user identifier.
func NewSession() *Session {
	return &Session{state: domain.SessionState{Step: domain.StepAwaitingQuestion}}
}

// NewSessionFromState rebuilds a session from a persisted snapshot.
func NewSessionFromState(state domain.SessionState) *Session {
	return &Session{state: state}
}

// Snapshot returns the committed state.
func (s *Session) Snapshot() domain.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

type transition func(domain.SessionState) (domain.SessionState, []domain.Directive)

// apply runs fn under the session lock and commits the state it returns.
// The state mutation, the produced directives, and the persist callback are
// atomic per invocation: persist runs inside the lock so mirrored states
// land in commit order even when events for one user race.
func (s *Session) apply(fn transition, persist func(domain.SessionState)) (domain.SessionState, []domain.Directive) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, directives := fn(s.state)
	s.state = next
	if persist != nil {
		persist(next)
	}
	return next, directives
}
