package booking

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/synap5e/homehero-web/internal/api"
	"github.com/synap5e/homehero-web/internal/audit"
	domain "github.com/synap5e/homehero-web/internal/domain/booking"
	"github.com/synap5e/homehero-web/internal/httperr"
	"github.com/synap5e/homehero-web/internal/inflight"
	"github.com/synap5e/homehero-web/internal/models"
	"github.com/synap5e/homehero-web/internal/timezone"
)

type CreateBookingInput struct {
	ProviderID          string
	ServiceType         string
	DateTime            time.Time
	SpecialInstructions string
}

func (in CreateBookingInput) validate(now time.Time, lead time.Duration) error {
	ve := &httperr.ValidationError{}
	if strings.TrimSpace(in.ProviderID) == "" {
		ve.Add("provider_id", "required", "Provider information not found.")
	}
	if strings.TrimSpace(in.ServiceType) == "" {
		ve.Add("service_type", "required", "Please select a service.")
	}
	if in.DateTime.IsZero() {
		ve.Add("date_time", "required", "Please select date and time.")
	} else if err := domain.ValidateLeadTime(in.DateTime, now, lead); err != nil {
		var lt *httperr.ValidationError
		if errors.As(err, &lt) {
			ve.Fields = append(ve.Fields, lt.Fields...)
		}
	}
	if len(in.SpecialInstructions) > 1000 {
		ve.Add("special_instructions", "too_long", "Special instructions are limited to 1000 characters.")
	}
	return ve.OrNil()
}

type CreateBooking struct {
	guard *inflight.Guard
	audit audit.Recorder
	clock timezone.Clock
	lead  time.Duration
	log   *zap.Logger
}

func NewCreateBooking(
	guard *inflight.Guard,
	recorder audit.Recorder,
	clock timezone.Clock,
	lead time.Duration,
	log *zap.Logger,
) *CreateBooking {
	return &CreateBooking{
		guard: guard,
		audit: orNopRecorder(recorder),
		clock: clock,
		lead:  lead,
		log:   orNop(log),
	}
}

// Execute books the provider for the viewer. The estimated price always
// comes from the provider's current pricing, never from the caller.
func (uc *CreateBooking) Execute(
	ctx context.Context,
	c Client,
	v domain.Viewer,
	in CreateBookingInput,
) (b *models.Booking, err error) {
	defer func() {
		id := ""
		if b != nil {
			id = b.BookingID
		}
		record(uc.audit, v, "booking.create", id, err, map[string]any{
			"provider_id":  in.ProviderID,
			"service_type": in.ServiceType,
		})
	}()

	if v.Role != domain.RoleCustomer {
		return nil, httperr.ErrBusiness("not_allowed_for_role")
	}
	if err := in.validate(uc.clock.Now(), uc.lead); err != nil {
		return nil, err
	}

	release, err := uc.guard.Acquire("booking:new:" + v.UserID)
	if err != nil {
		return nil, err
	}
	defer release()

	provider, err := c.GetProvider(ctx, in.ProviderID)
	if err != nil {
		return nil, err
	}
	if !provider.Availability {
		return nil, httperr.ErrBusiness("provider_unavailable")
	}
	if len(provider.Services) > 0 && !provider.Offers(in.ServiceType) {
		return nil, httperr.Invalid("service_type", "not_offered", "This provider does not offer that service.")
	}

	created, err := c.CreateBooking(ctx, api.CreateBookingRequest{
		ProviderID:          provider.ProviderID,
		ServiceType:         in.ServiceType,
		DateTime:            api.FormatDateTime(in.DateTime),
		SpecialInstructions: strings.TrimSpace(in.SpecialInstructions),
		EstimatedPrice:      provider.Pricing,
	})
	if err != nil {
		return nil, err
	}

	if created.BookingID == "" {
		return created, nil
	}
	fresh, ferr := c.GetBooking(ctx, created.BookingID)
	if ferr != nil {
		uc.log.Warn("booking refetch failed", zap.String("booking_id", created.BookingID), zap.Error(ferr))
		return created, nil
	}
	return fresh, nil
}
