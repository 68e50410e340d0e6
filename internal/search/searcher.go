package search

import (
	"context"
	"net/url"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/synap5e/homehero-web/internal/httperr"
	"github.com/synap5e/homehero-web/internal/models"
)

// Backend runs a composed provider query.
type Backend interface {
	SearchProviders(ctx context.Context, query url.Values) ([]models.ProviderProfile, error)
}

// State is what the search page renders.
type State struct {
	Filters     Filters                  `json:"filters"`
	Query       string                   `json:"query"`
	Results     []models.ProviderProfile `json:"results"`
	HasSearched bool                     `json:"has_searched"`
	Loading     bool                     `json:"loading"`
	Error       string                   `json:"error,omitempty"`
}

// Searcher owns one browser session's search page.
type Searcher struct {
	mu          sync.Mutex
	backend     Backend
	filters     Filters
	results     []models.ProviderProfile
	hasSearched bool
	lastErr     string
	running     int

	// gen orders runs; results from a run older than applied are dropped.
	gen     uint64
	applied uint64

	debouncer *Debouncer
	subs      map[chan State]struct{}
	lastUsed  time.Time
	log       *zap.Logger
}

func NewSearcher(backend Backend, debounce time.Duration, log *zap.Logger) *Searcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Searcher{
		backend:   backend,
		filters:   DefaultFilters(),
		debouncer: NewDebouncer(debounce),
		subs:      make(map[chan State]struct{}),
		lastUsed:  time.Now(),
		log:       log,
	}
}

// SetBackend swaps the backend used by later runs.
func (s *Searcher) SetBackend(b Backend) {
	s.mu.Lock()
	s.backend = b
	s.lastUsed = time.Now()
	s.mu.Unlock()
}

func (s *Searcher) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *Searcher) stateLocked() State {
	results := s.results
	if results == nil {
		results = []models.ProviderProfile{}
	}
	return State{
		Filters:     s.filters,
		Query:       Compose(s.filters).Encode(),
		Results:     results,
		HasSearched: s.hasSearched,
		Loading:     s.running > 0,
		Error:       s.lastErr,
	}
}

// Update replaces the filter set and schedules a debounced query. Filters
// with neither service nor location drop any pending query instead.
func (s *Searcher) Update(f Filters) error {
	if f.SortBy == "" {
		f.SortBy = DefaultSort
	}
	if err := f.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	s.filters = f
	s.lastUsed = time.Now()
	s.mu.Unlock()

	if !f.Searchable() {
		s.debouncer.Cancel()
		s.publish()
		return nil
	}

	s.debouncer.Schedule(func() {
		if _, err := s.run(context.Background(), f); err != nil {
			s.log.Debug("debounced search failed", zap.Error(err))
		}
	})
	s.publish()
	return nil
}

// Search runs the current filters immediately, superseding a pending
// debounced query.
func (s *Searcher) Search(ctx context.Context) (State, error) {
	s.debouncer.Cancel()

	s.mu.Lock()
	f := s.filters
	s.lastUsed = time.Now()
	s.mu.Unlock()

	if !f.Searchable() {
		return s.State(), httperr.Invalid("service", "required", "Please enter service type or location.")
	}
	return s.run(ctx, f)
}

// Clear resets filters and results without querying.
func (s *Searcher) Clear() State {
	s.debouncer.Cancel()

	s.mu.Lock()
	s.filters = DefaultFilters()
	s.results = nil
	s.hasSearched = false
	s.lastErr = ""
	s.gen++
	s.applied = s.gen
	s.lastUsed = time.Now()
	st := s.stateLocked()
	s.mu.Unlock()

	s.broadcast(st)
	return st
}

func (s *Searcher) run(ctx context.Context, f Filters) (State, error) {
	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.running++
	backend := s.backend
	s.mu.Unlock()

	s.publish()
	defer s.publish()

	results, err := func() ([]models.ProviderProfile, error) {
		defer func() {
			s.mu.Lock()
			s.running--
			s.mu.Unlock()
		}()
		return backend.SearchProviders(ctx, Compose(f))
	}()

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen <= s.applied {
		// Superseded by a newer run or a clear.
		return s.stateLocked(), err
	}
	s.applied = gen

	if err != nil {
		s.lastErr = errorMessage(err)
		return s.stateLocked(), err
	}
	s.results = results
	s.hasSearched = true
	s.lastErr = ""
	return s.stateLocked(), nil
}

func errorMessage(err error) string {
	if ae, ok := httperr.AsAPIError(err); ok {
		return ae.Message
	}
	return "Failed to search providers"
}

// Subscribe streams state changes. Slow readers only see the latest state.
func (s *Searcher) Subscribe() (<-chan State, func()) {
	ch := make(chan State, 1)

	s.mu.Lock()
	s.subs[ch] = struct{}{}
	st := s.stateLocked()
	s.mu.Unlock()

	ch <- st

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			if _, ok := s.subs[ch]; ok {
				delete(s.subs, ch)
				close(ch)
			}
			s.mu.Unlock()
		})
	}
}

func (s *Searcher) publish() {
	s.broadcast(s.State())
}

func (s *Searcher) broadcast(st State) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for ch := range s.subs {
		select {
		case ch <- st:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- st:
			default:
			}
		}
	}
}

func (s *Searcher) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUsed
}

// Close drops any pending query and ends every subscription.
func (s *Searcher) Close() {
	s.debouncer.Cancel()

	s.mu.Lock()
	defer s.mu.Unlock()
	for ch := range s.subs {
		delete(s.subs, ch)
		close(ch)
	}
}
