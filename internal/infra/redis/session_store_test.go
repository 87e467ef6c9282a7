package redis

import (
	"testing"
	"time"

	"quiz-chat-service/internal/domain"
	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestStore(t *testing.T) (*SessionStore, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewSessionStore(client, time.Minute), mr
}

func TestSessionStorePersistsState(t *testing.T) {
	store, mr := newTestStore(t)

	_ = store.GetOrCreate("u1")
	store.Persist("u1", domain.SessionState{
		Step:       domain.StepAwaitingAnswer,
		QuestionID: "Q7",
		Category:   "math",
	})

	if got := mr.HGet("quiz:session:u1", "step"); got != "awaiting_answer" {
		t.Fatalf("expected step persisted, got %q", got)
	}
	if got := mr.HGet("quiz:session:u1", "questionId"); got != "Q7" {
		t.Fatalf("expected question id persisted, got %q", got)
	}
	if got := mr.HGet("quiz:session:u1", "category"); got != "math" {
		t.Fatalf("expected category persisted, got %q", got)
	}
}

func TestSessionStoreRehydratesAfterRestart(t *testing.T) {
	store, mr := newTestStore(t)

	_ = store.GetOrCreate("u1")
	store.Persist("u1", domain.SessionState{
		Step:       domain.StepAwaitingConfirmation,
		QuestionID: "Q2",
		Category:   "science",
	})

	// A new store over the same redis simulates a restarted instance.
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	restarted := NewSessionStore(client, time.Minute)

	state := restarted.GetOrCreate("u1").Snapshot()
	if state.Step != domain.StepAwaitingConfirmation || state.QuestionID != "Q2" || state.Category != "science" {
		t.Fatalf("expected rehydrated session, got %+v", state)
	}
}

func TestSessionStoreStartsFreshWithoutMirror(t *testing.T) {
	store, _ := newTestStore(t)

	state := store.GetOrCreate("unknown").Snapshot()
	if state.Step != domain.StepAwaitingQuestion || state.QuestionID != "" || state.Category != "" {
		t.Fatalf("expected pristine session, got %+v", state)
	}
}
