package solver

import (
	"strconv"
	"sync"

	"github.com/bent101/wordle-expectimax/words"
)

type memoKey struct {
	movesLeft int
	fp        words.Fingerprint
}

// flightKey is the raw fingerprint bytes after the decimal moves left.
func (k memoKey) flightKey() string {
	b := make([]byte, 0, 4+len(k.fp))
	b = strconv.AppendInt(b, int64(k.movesLeft), 10)
	b = append(b, '/')
	b = append(b, k.fp[:]...)
	return string(b)
}

// memo is the in-process result cache. It is shared by every search a
// Solver runs, so it is guarded.
type memo struct {
	mu sync.RWMutex
	m  map[memoKey]GuessResult
}

func newMemo() *memo {
	return &memo{m: map[memoKey]GuessResult{}}
}

func (m *memo) get(k memoKey) (GuessResult, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.m[k]
	return r, ok
}

func (m *memo) put(k memoKey, r GuessResult) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.m[k] = r
}

func (m *memo) len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.m)
}
