package booking

import (
	"context"

	"go.uber.org/zap"

	"github.com/synap5e/homehero-web/internal/audit"
	domain "github.com/synap5e/homehero-web/internal/domain/booking"
	"github.com/synap5e/homehero-web/internal/httperr"
	"github.com/synap5e/homehero-web/internal/inflight"
	"github.com/synap5e/homehero-web/internal/models"
)

type RespondBooking struct {
	guard *inflight.Guard
	audit audit.Recorder
	log   *zap.Logger
}

func NewRespondBooking(guard *inflight.Guard, recorder audit.Recorder, log *zap.Logger) *RespondBooking {
	return &RespondBooking{guard: guard, audit: orNopRecorder(recorder), log: orNop(log)}
}

// Validate checks the decision alone, before the booking is fetched.
func (uc *RespondBooking) Validate(decision string) error {
	if _, ok := domain.ParseDecision(decision); !ok {
		return httperr.Invalid("status", "invalid", "Response must be accepted or declined.")
	}
	return nil
}

// Execute accepts or declines a pending booking on behalf of its provider.
func (uc *RespondBooking) Execute(
	ctx context.Context,
	c Client,
	v domain.Viewer,
	b *models.Booking,
	decision string,
) (out *models.Booking, err error) {
	defer func() {
		record(uc.audit, v, "booking.respond", b.BookingID, err, map[string]any{"decision": decision})
	}()

	if err := uc.Validate(decision); err != nil {
		return nil, err
	}
	d, _ := domain.ParseDecision(decision)
	if err := domain.CanRespond(v, b, d); err != nil {
		return nil, err
	}

	release, err := uc.guard.Acquire(inflight.BookingKey(b.BookingID))
	if err != nil {
		return nil, err
	}
	defer release()

	if _, err := c.RespondBooking(ctx, b.BookingID, string(d)); err != nil {
		return nil, err
	}
	return refetch(ctx, c, uc.log, b, d.Action()), nil
}
