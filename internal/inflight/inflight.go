package inflight

import (
	"sync"

	"github.com/synap5e/homehero-web/internal/httperr"
)

// ErrBusy is returned to the second caller acting on an entity that
// already has a call in flight.
var ErrBusy = httperr.ErrBusy

// Guard admits at most one mutating call per key at a time.
type Guard struct {
	mu   sync.Mutex
	busy map[string]struct{}
}

func New() *Guard {
	return &Guard{busy: make(map[string]struct{})}
}

// Acquire claims key. The returned release must be called exactly once,
// typically with defer.
func (g *Guard) Acquire(key string) (release func(), err error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.busy[key]; ok {
		return nil, ErrBusy
	}
	g.busy[key] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.busy, key)
			g.mu.Unlock()
		})
	}, nil
}

func (g *Guard) Busy(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.busy[key]
	return ok
}

// BookingKey namespaces booking ids so other entities can share a guard.
func BookingKey(id string) string {
	return "booking:" + id
}

func ReviewKey(bookingID string) string {
	return "review:" + bookingID
}
