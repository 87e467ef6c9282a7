package app

import (
	"math/rand"
	"sync"
	"time"
)

// DefaultIncorrectMessage is used when the taunt pool is empty or taunts
// are disabled.
const DefaultIncorrectMessage = "Wrong answer. Try again!"

// TauntSelector picks a retry message for incorrect answers from a fixed
// pool. An empty pool falls back to DefaultIncorrectMessage.
type TauntSelector struct {
	mu   sync.Mutex
	rnd  *rand.Rand
	pool []string
}

func NewTauntSelector(pool []string) *TauntSelector {
	return &TauntSelector{
		rnd:  rand.New(rand.NewSource(time.Now().UnixNano())),
		pool: pool,
	}
}

// Pick returns a random taunt, or the fixed fallback for an empty pool.
func (t *TauntSelector) Pick() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.pool) == 0 {
		return DefaultIncorrectMessage
	}
	return t.pool[t.rnd.Intn(len(t.pool))]
}
