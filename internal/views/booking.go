package views

import (
	domain "github.com/synap5e/homehero-web/internal/domain/booking"
	"github.com/synap5e/homehero-web/internal/models"
)

// BookingView is a booking plus what the viewer may do with it right now.
type BookingView struct {
	models.Booking

	Actions []domain.Action `json:"actions"`
	Busy    bool            `json:"busy"`

	// CancelPolicy is the backend's answer to can-cancel, detail view only.
	CancelPolicy *models.CanCancelResult `json:"cancel_policy,omitempty"`
}

// ActionsFor derives the enabled actions from the transition table. A busy
// booking exposes none; non-participants get none.
func ActionsFor(b *models.Booking, v domain.Viewer, busy bool) []domain.Action {
	if busy || !v.IsParticipant(b) {
		return []domain.Action{}
	}
	status, ok := domain.ParseStatus(b.Status)
	if !ok {
		return []domain.Action{}
	}
	return domain.AllowedActions(status, v.Role).List()
}

func NewBookingView(b models.Booking, v domain.Viewer, busy bool) BookingView {
	return BookingView{
		Booking: b,
		Actions: ActionsFor(&b, v, busy),
		Busy:    busy,
	}
}

// WithCancelPolicy narrows the actions with the backend's can-cancel
// verdict. The table says when cancel is possible at all; the backend may
// still refuse.
func (bv BookingView) WithCancelPolicy(p *models.CanCancelResult) BookingView {
	if p == nil {
		return bv
	}
	bv.CancelPolicy = p
	if !p.CanCancel {
		kept := make([]domain.Action, 0, len(bv.Actions))
		for _, a := range bv.Actions {
			if a != domain.ActionCancel {
				kept = append(kept, a)
			}
		}
		bv.Actions = kept
	}
	return bv
}

// BusyFunc reports whether a booking has a mutating call in flight.
type BusyFunc func(bookingID string) bool

func BookingViews(bs []models.Booking, v domain.Viewer, busy BusyFunc) []BookingView {
	out := make([]BookingView, 0, len(bs))
	for _, b := range bs {
		out = append(out, NewBookingView(b, v, busy != nil && busy(b.BookingID)))
	}
	return out
}

// FilterStatus keeps bookings in the given status; "" or "all" keeps all.
func FilterStatus(bs []models.Booking, status string) []models.Booking {
	if status == "" || status == "all" {
		return bs
	}
	out := make([]models.Booking, 0, len(bs))
	for _, b := range bs {
		if b.Status == status {
			out = append(out, b)
		}
	}
	return out
}
