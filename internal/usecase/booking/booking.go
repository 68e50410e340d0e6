package booking

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/synap5e/homehero-web/internal/api"
	"github.com/synap5e/homehero-web/internal/audit"
	domain "github.com/synap5e/homehero-web/internal/domain/booking"
	"github.com/synap5e/homehero-web/internal/models"
)

// Client is the part of the HomeHero API the booking use cases call.
// *api.Client satisfies it once bound to a session.
type Client interface {
	GetBooking(ctx context.Context, id string) (*models.Booking, error)
	GetProvider(ctx context.Context, id string) (*models.ProviderProfile, error)
	CreateBooking(ctx context.Context, req api.CreateBookingRequest) (*models.Booking, error)
	RespondBooking(ctx context.Context, id, decision string) (*models.Booking, error)
	CancelBooking(ctx context.Context, id, reason string) error
	RescheduleBooking(ctx context.Context, id string, when time.Time, reason string) (*models.Booking, error)
	CompleteBooking(ctx context.Context, id string) (*models.Booking, error)
}

// refetch reads the booking back after a successful mutation so callers
// render backend truth. If the read fails the mutation still stands: the
// caller gets the booking with the status the transition table predicts.
func refetch(ctx context.Context, c Client, log *zap.Logger, prev *models.Booking, action domain.Action) *models.Booking {
	fresh, err := c.GetBooking(ctx, prev.BookingID)
	if err == nil {
		return fresh
	}

	log.Warn("booking refetch failed", zap.String("booking_id", prev.BookingID), zap.Error(err))

	optimistic := *prev
	if from, ok := domain.ParseStatus(prev.Status); ok {
		if to, ok := domain.Next(from, action); ok {
			optimistic.Status = string(to)
		}
	}
	return &optimistic
}

func record(r audit.Recorder, v domain.Viewer, action, bookingID string, err error, meta map[string]any) {
	if err != nil {
		if meta == nil {
			meta = map[string]any{}
		}
		meta["error"] = err.Error()
	}
	r.Dispatch(audit.Event{
		UserID:   v.UserID,
		Role:     v.Role.String(),
		Action:   action,
		Entity:   "booking",
		EntityID: bookingID,
		Outcome:  audit.OutcomeOf(err),
		Metadata: meta,
	})
}

func orNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}

func orNopRecorder(r audit.Recorder) audit.Recorder {
	if r == nil {
		return audit.Nop{}
	}
	return r
}
