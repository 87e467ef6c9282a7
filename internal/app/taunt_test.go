package app

import "testing"

func TestTauntSelectorEmptyPoolFallsBack(t *testing.T) {
	selector := NewTauntSelector(nil)
	if got := selector.Pick(); got != DefaultIncorrectMessage {
		t.Fatalf("expected fallback message, got %q", got)
	}
}

func TestTauntSelectorPicksFromPool(t *testing.T) {
	pool := []string{"too slow", "not even close"}
	selector := NewTauntSelector(pool)
	for i := 0; i < 20; i++ {
		got := selector.Pick()
		if got != pool[0] && got != pool[1] {
			t.Fatalf("pick %q not in pool", got)
		}
	}
}
