package booking

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/synap5e/homehero-web/internal/audit"
	domain "github.com/synap5e/homehero-web/internal/domain/booking"
	"github.com/synap5e/homehero-web/internal/inflight"
	"github.com/synap5e/homehero-web/internal/models"
)

type CancelBooking struct {
	guard *inflight.Guard
	audit audit.Recorder
	log   *zap.Logger
}

func NewCancelBooking(guard *inflight.Guard, recorder audit.Recorder, log *zap.Logger) *CancelBooking {
	return &CancelBooking{guard: guard, audit: orNopRecorder(recorder), log: orNop(log)}
}

// Validate checks the form alone, before the booking is fetched.
func (uc *CancelBooking) Validate(reason string) error {
	return domain.ValidateCancel(reason)
}

// Execute cancels the booking for its customer. The backend may still
// refuse (its cancellation policy is not visible here); that refusal is
// returned unchanged.
func (uc *CancelBooking) Execute(
	ctx context.Context,
	c Client,
	v domain.Viewer,
	b *models.Booking,
	reason string,
) (out *models.Booking, err error) {
	defer func() {
		record(uc.audit, v, "booking.cancel", b.BookingID, err, map[string]any{"reason": reason})
	}()

	if err := uc.Validate(reason); err != nil {
		return nil, err
	}
	if err := domain.CanCancel(v, b); err != nil {
		return nil, err
	}

	release, err := uc.guard.Acquire(inflight.BookingKey(b.BookingID))
	if err != nil {
		return nil, err
	}
	defer release()

	if err := c.CancelBooking(ctx, b.BookingID, strings.TrimSpace(reason)); err != nil {
		return nil, err
	}
	return refetch(ctx, c, uc.log, b, domain.ActionCancel), nil
}
