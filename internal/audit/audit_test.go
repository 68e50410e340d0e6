package audit

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/synap5e/homehero-web/internal/httperr"
	"github.com/synap5e/homehero-web/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// Every pooled connection to :memory: would be a separate database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.ActivityLog{}))
	return db
}

func TestLogger_LogAndList(t *testing.T) {
	db := setupTestDB(t)
	l := New(db)
	ctx := context.Background()

	require.NoError(t, l.Log(ctx, Event{UserID: "u-1", Role: "customer", Action: "booking.cancel", Entity: "booking", EntityID: "b-1", Outcome: OutcomeOK, Metadata: map[string]string{"reason": "sick"}}))
	require.NoError(t, l.Log(ctx, Event{UserID: "u-2", Role: "provider", Action: "booking.respond", Entity: "booking", EntityID: "b-2", Outcome: OutcomeRejected}))
	require.NoError(t, l.Log(ctx, Event{UserID: "u-1", Role: "customer", Action: "review.submit", Entity: "review", EntityID: "b-3", Outcome: OutcomeOK}))

	page, err := l.List(ctx, Query{Entity: "booking"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 50, page.Limit)

	page, err = l.List(ctx, Query{Action: "booking.cancel"})
	require.NoError(t, err)
	require.Len(t, page.Logs, 1)
	assert.JSONEq(t, `{"reason":"sick"}`, page.Logs[0].Metadata)

	page, err = l.List(ctx, Query{Limit: 1, Page: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
	assert.Len(t, page.Logs, 1)

	future := time.Now().Add(time.Hour)
	page, err = l.List(ctx, Query{From: &future})
	require.NoError(t, err)
	assert.Equal(t, int64(0), page.Total)
	assert.NotNil(t, page.Logs)
}

type recordingSink struct {
	mu     sync.Mutex
	events []Event
	block  chan struct{}
}

func (r *recordingSink) Log(_ context.Context, ev Event) error {
	if r.block != nil {
		<-r.block
	}
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.mu.Unlock()
	return nil
}

func TestDispatcher_DeliversOnClose(t *testing.T) {
	sink := &recordingSink{}
	d := NewDispatcher(sink, nil)

	for i := 0; i < 10; i++ {
		d.Dispatch(Event{Action: "booking.create"})
	}
	d.Close()

	assert.Len(t, sink.events, 10)

	// Dispatch after Close is dropped, not a panic.
	assert.NotPanics(t, func() { d.Dispatch(Event{Action: "late"}) })
}

func TestDispatcher_DropsWhenFull(t *testing.T) {
	sink := &recordingSink{block: make(chan struct{})}
	d := NewDispatcher(sink, nil)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 500; i++ {
			d.Dispatch(Event{Action: "flood"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Dispatch blocked on a full queue")
	}

	close(sink.block)
	d.Close()
	assert.Less(t, len(sink.events), 500)
}

func TestOutcomeOf(t *testing.T) {
	assert.Equal(t, OutcomeOK, OutcomeOf(nil))
	assert.Equal(t, OutcomeRejected, OutcomeOf(httperr.Invalid("reason", "required", "x")))
	assert.Equal(t, OutcomeRejected, OutcomeOf(httperr.ErrBusiness("invalid_state")))
	assert.Equal(t, OutcomeRejected, OutcomeOf(httperr.ErrBusy))
	assert.Equal(t, OutcomeFailed, OutcomeOf(httperr.Network(nil)))
}
