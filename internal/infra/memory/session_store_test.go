package memory

import (
	"sync"
	"testing"
)

func TestSessionStoreReturnsSameSession(t *testing.T) {
	store := NewSessionStore()

	first := store.GetOrCreate("u1")
	if first == nil {
		t.Fatalf("expected session")
	}
	if second := store.GetOrCreate("u1"); second != first {
		t.Fatalf("expected the same session instance for one user")
	}
	if other := store.GetOrCreate("u2"); other == first {
		t.Fatalf("expected distinct sessions per user")
	}
	if store.Len() != 2 {
		t.Fatalf("expected 2 sessions, got %d", store.Len())
	}
}

func TestSessionStoreConcurrentCreate(t *testing.T) {
	store := NewSessionStore()

	const workers = 16
	sessions := make([]interface{}, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sessions[i] = store.GetOrCreate("u1")
		}(i)
	}
	wg.Wait()

	for i := 1; i < workers; i++ {
		if sessions[i] != sessions[0] {
			t.Fatalf("concurrent GetOrCreate returned different sessions")
		}
	}
	if store.Len() != 1 {
		t.Fatalf("expected a single session, got %d", store.Len())
	}
}
