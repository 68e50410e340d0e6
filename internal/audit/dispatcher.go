package audit

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

const (
	OutcomeOK       = "ok"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)

type Event struct {
	UserID   string
	Role     string
	Action   string
	Entity   string
	EntityID string
	Outcome  string
	Metadata any
}

// Sink persists one event.
type Sink interface {
	Log(ctx context.Context, ev Event) error
}

// Recorder is what callers depend on to report activity.
type Recorder interface {
	Dispatch(ev Event)
}

// Dispatcher writes events from a single background worker. Dispatch
// never blocks: when the queue is full the event is dropped.
type Dispatcher struct {
	sink  Sink
	queue chan Event
	log   *zap.Logger
	done  chan struct{}
	once  sync.Once
}

func NewDispatcher(sink Sink, log *zap.Logger) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	d := &Dispatcher{
		sink:  sink,
		queue: make(chan Event, 100),
		log:   log,
		done:  make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)
	for ev := range d.queue {
		if err := d.sink.Log(context.Background(), ev); err != nil {
			d.log.Error("activity log write failed",
				zap.Error(err),
				zap.String("action", ev.Action),
				zap.String("entity_id", ev.EntityID),
			)
		}
	}
}

func (d *Dispatcher) Dispatch(ev Event) {
	defer func() {
		// Dispatch after Close.
		if recover() != nil {
			d.log.Warn("activity dispatcher closed, dropping event", zap.String("action", ev.Action))
		}
	}()

	select {
	case d.queue <- ev:
	default:
		d.log.Warn("activity queue full, dropping event", zap.String("action", ev.Action))
	}
}

// Close stops accepting events and waits for queued ones to be written.
func (d *Dispatcher) Close() {
	d.once.Do(func() {
		close(d.queue)
	})
	<-d.done
}

// Nop discards events.
type Nop struct{}

func (Nop) Dispatch(Event) {}
