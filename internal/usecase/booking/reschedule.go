package booking

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/synap5e/homehero-web/internal/audit"
	domain "github.com/synap5e/homehero-web/internal/domain/booking"
	"github.com/synap5e/homehero-web/internal/inflight"
	"github.com/synap5e/homehero-web/internal/models"
	"github.com/synap5e/homehero-web/internal/timezone"
)

type RescheduleBooking struct {
	guard *inflight.Guard
	audit audit.Recorder
	clock timezone.Clock
	lead  time.Duration
	log   *zap.Logger
}

func NewRescheduleBooking(
	guard *inflight.Guard,
	recorder audit.Recorder,
	clock timezone.Clock,
	lead time.Duration,
	log *zap.Logger,
) *RescheduleBooking {
	return &RescheduleBooking{guard: guard, audit: orNopRecorder(recorder), clock: clock, lead: lead, log: orNop(log)}
}

// Validate checks the form alone, before the booking is fetched.
func (uc *RescheduleBooking) Validate(when time.Time, reason string) error {
	return domain.ValidateReschedule(when, reason, uc.clock.Now(), uc.lead)
}

func (uc *RescheduleBooking) Execute(
	ctx context.Context,
	c Client,
	v domain.Viewer,
	b *models.Booking,
	when time.Time,
	reason string,
) (out *models.Booking, err error) {
	defer func() {
		meta := map[string]any{"reason": reason}
		if !when.IsZero() {
			meta["new_date_time"] = when.Format(time.RFC3339)
		}
		record(uc.audit, v, "booking.reschedule", b.BookingID, err, meta)
	}()

	if err := uc.Validate(when, reason); err != nil {
		return nil, err
	}
	if err := domain.CanReschedule(v, b); err != nil {
		return nil, err
	}

	release, err := uc.guard.Acquire(inflight.BookingKey(b.BookingID))
	if err != nil {
		return nil, err
	}
	defer release()

	if _, err := c.RescheduleBooking(ctx, b.BookingID, when, strings.TrimSpace(reason)); err != nil {
		return nil, err
	}

	return refetch(ctx, c, uc.log, b, domain.ActionReschedule), nil
}
