package booking

import (
	"context"

	"go.uber.org/zap"

	"github.com/synap5e/homehero-web/internal/audit"
	domain "github.com/synap5e/homehero-web/internal/domain/booking"
	"github.com/synap5e/homehero-web/internal/inflight"
	"github.com/synap5e/homehero-web/internal/models"
)

type CompleteBooking struct {
	guard *inflight.Guard
	audit audit.Recorder
	log   *zap.Logger
}

func NewCompleteBooking(guard *inflight.Guard, recorder audit.Recorder, log *zap.Logger) *CompleteBooking {
	return &CompleteBooking{guard: guard, audit: orNopRecorder(recorder), log: orNop(log)}
}

// Execute marks an accepted booking as done. Only its provider may.
func (uc *CompleteBooking) Execute(
	ctx context.Context,
	c Client,
	v domain.Viewer,
	b *models.Booking,
) (out *models.Booking, err error) {
	defer func() {
		record(uc.audit, v, "booking.complete", b.BookingID, err, nil)
	}()

	if err := domain.CanComplete(v, b); err != nil {
		return nil, err
	}

	release, err := uc.guard.Acquire(inflight.BookingKey(b.BookingID))
	if err != nil {
		return nil, err
	}
	defer release()

	if _, err := c.CompleteBooking(ctx, b.BookingID); err != nil {
		return nil, err
	}
	return refetch(ctx, c, uc.log, b, domain.ActionComplete), nil
}
