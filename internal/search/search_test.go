package search

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/synap5e/homehero-web/internal/httperr"
	"github.com/synap5e/homehero-web/internal/models"
)

type fakeBackend struct {
	mu      sync.Mutex
	queries []url.Values
	results []models.ProviderProfile
	err     error
}

func (f *fakeBackend) SearchProviders(_ context.Context, q url.Values) ([]models.ProviderProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, q)
	if f.err != nil {
		return nil, f.err
	}
	return f.results, nil
}

func (f *fakeBackend) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queries)
}

func (f *fakeBackend) last() url.Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queries[len(f.queries)-1]
}

func ptr[T any](v T) *T { return &v }

func TestCompose_OnlyConstrainingFacets(t *testing.T) {
	f := DefaultFilters()
	f.Service = "plumber"
	f.MinRating = ptr(4.0)

	assert.Equal(t, "min_rating=4.0&service=plumber", Compose(f).Encode())
}

func TestCompose_AllFacets(t *testing.T) {
	f := Filters{
		Service:       "electrician",
		Location:      "Panaji",
		MaxPrice:      ptr(750.5),
		MinRating:     ptr(3.5),
		MinExperience: ptr(3),
		Available:     true,
		SortBy:        SortPriceLow,
	}

	q := Compose(f)
	assert.Equal(t, "electrician", q.Get("service"))
	assert.Equal(t, "Panaji", q.Get("location"))
	assert.Equal(t, "750.5", q.Get("max_price"))
	assert.Equal(t, "3.5", q.Get("min_rating"))
	assert.Equal(t, "3", q.Get("min_experience"))
	assert.Equal(t, "true", q.Get("available"))
	assert.Equal(t, "price_low", q.Get("sort_by"))
}

func TestCompose_EmptyFilters(t *testing.T) {
	assert.Empty(t, Compose(DefaultFilters()))
	assert.Empty(t, Compose(Filters{Service: "   ", MinExperience: ptr(0)}))
	assert.Empty(t, Compose(Filters{MaxPrice: ptr(0.0)}))
}

func TestFilters_Validate(t *testing.T) {
	tests := []struct {
		name  string
		f     Filters
		field string
	}{
		{"unknown location", Filters{Location: "Atlantis"}, "location"},
		{"odd rating", Filters{MinRating: ptr(4.2)}, "min_rating"},
		{"negative price", Filters{MaxPrice: ptr(-1.0)}, "max_price"},
		{"negative experience", Filters{MinExperience: ptr(-2)}, "min_experience"},
		{"unknown sort", Filters{SortBy: "distance"}, "sort_by"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, httperr.HasField(tt.f.Validate(), tt.field))
		})
	}

	assert.NoError(t, Filters{Location: "Vasco da Gama", MinRating: ptr(3.0), SortBy: SortExperience}.Validate())
}

func TestDebouncer_LastScheduleWins(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)
	var got int32

	for i := 1; i <= 5; i++ {
		v := int32(i)
		d.Schedule(func() { atomic.StoreInt32(&got, v) })
	}

	require.Eventually(t, func() bool { return atomic.LoadInt32(&got) != 0 }, time.Second, 5*time.Millisecond)
	time.Sleep(40 * time.Millisecond)
	assert.Equal(t, int32(5), atomic.LoadInt32(&got))
	assert.False(t, d.Pending())
}

func TestDebouncer_Cancel(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)
	var fired int32

	d.Schedule(func() { atomic.AddInt32(&fired, 1) })
	assert.True(t, d.Pending())
	assert.True(t, d.Cancel())

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(0), atomic.LoadInt32(&fired))
	assert.False(t, d.Cancel())
}

func TestSearcher_BlockedWithoutServiceOrLocation(t *testing.T) {
	be := &fakeBackend{}
	s := NewSearcher(be, 10*time.Millisecond, nil)

	_, err := s.Search(context.Background())
	assert.True(t, httperr.IsValidation(err))

	require.NoError(t, s.Update(Filters{MaxPrice: ptr(500.0), Available: true}))
	time.Sleep(50 * time.Millisecond)

	assert.Equal(t, 0, be.calls())
	assert.False(t, s.State().HasSearched)
}

func TestSearcher_RapidChangesProduceOneQuery(t *testing.T) {
	be := &fakeBackend{results: []models.ProviderProfile{{ProviderID: "p-1"}}}
	s := NewSearcher(be, 30*time.Millisecond, nil)

	for _, svc := range []string{"p", "pl", "plu", "plumb", "plumber"} {
		require.NoError(t, s.Update(Filters{Service: svc, MinRating: ptr(4.0)}))
	}

	require.Eventually(t, func() bool { return be.calls() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(60 * time.Millisecond)

	assert.Equal(t, 1, be.calls())
	assert.Equal(t, "min_rating=4.0&service=plumber", be.last().Encode())

	st := s.State()
	assert.True(t, st.HasSearched)
	assert.False(t, st.Loading)
	assert.Len(t, st.Results, 1)
}

func TestSearcher_ExplicitSearchBypassesDebounce(t *testing.T) {
	be := &fakeBackend{results: []models.ProviderProfile{{ProviderID: "p-1"}}}
	s := NewSearcher(be, time.Hour, nil)

	require.NoError(t, s.Update(Filters{Location: "Margao"}))
	st, err := s.Search(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, be.calls())
	assert.Equal(t, "location=Margao", be.last().Encode())
	assert.True(t, st.HasSearched)
}

func TestSearcher_ClearMakesNoCall(t *testing.T) {
	be := &fakeBackend{results: []models.ProviderProfile{{ProviderID: "p-1"}}}
	s := NewSearcher(be, 20*time.Millisecond, nil)

	require.NoError(t, s.Update(Filters{Service: "cleaner"}))
	_, err := s.Search(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, be.calls())

	require.NoError(t, s.Update(Filters{Service: "painter"}))
	st := s.Clear()

	assert.Empty(t, st.Results)
	assert.False(t, st.HasSearched)
	assert.Equal(t, DefaultFilters(), st.Filters)

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, be.calls())
}

func TestSearcher_ErrorKeepsPriorResults(t *testing.T) {
	be := &fakeBackend{results: []models.ProviderProfile{{ProviderID: "p-1"}}}
	s := NewSearcher(be, time.Hour, nil)

	require.NoError(t, s.Update(Filters{Service: "plumber"}))
	_, err := s.Search(context.Background())
	require.NoError(t, err)

	be.mu.Lock()
	be.err = errors.New("boom")
	be.mu.Unlock()

	st, err := s.Search(context.Background())
	assert.Error(t, err)
	assert.Len(t, st.Results, 1)
	assert.False(t, st.Loading)
	assert.NotEmpty(t, st.Error)
}

func TestSearcher_InvalidUpdateKeepsFilters(t *testing.T) {
	s := NewSearcher(&fakeBackend{}, time.Hour, nil)
	require.NoError(t, s.Update(Filters{Service: "plumber"}))

	err := s.Update(Filters{Service: "plumber", Location: "Nowhere"})
	assert.True(t, httperr.HasField(err, "location"))
	assert.Equal(t, "", s.State().Filters.Location)
}

func TestSearcher_Subscribe(t *testing.T) {
	be := &fakeBackend{results: []models.ProviderProfile{{ProviderID: "p-1"}}}
	s := NewSearcher(be, time.Hour, nil)

	ch, cancel := s.Subscribe()
	defer cancel()

	first := <-ch
	assert.False(t, first.HasSearched)

	require.NoError(t, s.Update(Filters{Service: "plumber"}))
	_, err := s.Search(context.Background())
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		select {
		case st := <-ch:
			return st.HasSearched && !st.Loading
		default:
			return false
		}
	}, time.Second, 5*time.Millisecond)
}

func TestRegistry(t *testing.T) {
	r := NewRegistry(time.Hour, time.Minute, nil)
	be := &fakeBackend{}

	a := r.For("session-a", be)
	assert.Same(t, a, r.For("session-a", be))
	assert.NotSame(t, a, r.For("session-b", be))
	assert.Equal(t, 2, r.Len())

	assert.Equal(t, 2, r.Sweep(time.Now().Add(2*time.Minute)))
	assert.Equal(t, 0, r.Len())

	r.For("session-c", be)
	r.Remove("session-c")
	assert.Equal(t, 0, r.Len())
}
