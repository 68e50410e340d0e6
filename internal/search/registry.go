package search

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Registry keeps one Searcher per session id.
type Registry struct {
	mu       sync.Mutex
	items    map[string]*Searcher
	debounce time.Duration
	idle     time.Duration
	log      *zap.Logger
}

func NewRegistry(debounce, idle time.Duration, log *zap.Logger) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	if idle <= 0 {
		idle = 30 * time.Minute
	}
	return &Registry{
		items:    make(map[string]*Searcher),
		debounce: debounce,
		idle:     idle,
		log:      log,
	}
}

// For returns the session's searcher, creating it on first use. The
// backend is refreshed on every call so queries use the latest handle.
func (r *Registry) For(sessionID string, backend Backend) *Searcher {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.items[sessionID]; ok {
		s.SetBackend(backend)
		return s
	}
	s := NewSearcher(backend, r.debounce, r.log.With(zap.String("session", shortID(sessionID))))
	r.items[sessionID] = s
	return s
}

func (r *Registry) Remove(sessionID string) {
	r.mu.Lock()
	s, ok := r.items[sessionID]
	delete(r.items, sessionID)
	r.mu.Unlock()

	if ok {
		s.Close()
	}
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

// Sweep closes searchers idle since before now-idle.
func (r *Registry) Sweep(now time.Time) int {
	r.mu.Lock()
	var stale []*Searcher
	for id, s := range r.items {
		if now.Sub(s.idleSince()) > r.idle {
			stale = append(stale, s)
			delete(r.items, id)
		}
	}
	r.mu.Unlock()

	for _, s := range stale {
		s.Close()
	}
	return len(stale)
}

// Run sweeps periodically until ctx is done.
func (r *Registry) Run(ctx context.Context) {
	ticker := time.NewTicker(r.idle / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := r.Sweep(now); n > 0 {
				r.log.Debug("evicted idle searchers", zap.Int("count", n))
			}
		}
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
