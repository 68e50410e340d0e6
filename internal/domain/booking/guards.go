package booking

import (
	"github.com/synap5e/homehero-web/internal/httperr"
	"github.com/synap5e/homehero-web/internal/models"
)

// ===============================
// Guards
// ===============================

// Viewer is the signed-in user looking at a booking.
type Viewer struct {
	UserID string
	Role   Role

	// ProviderID is set for providers that have created a profile.
	ProviderID string
}

// IsParticipant reports whether the viewer is the booking's customer or
// its assigned provider. A provider is only a participant when the booking
// names it. Admins read everything but act on nothing.
func (v Viewer) IsParticipant(b *models.Booking) bool {
	switch v.Role {
	case RoleCustomer:
		id := b.CustomerUserID()
		return id == "" || id == v.UserID
	case RoleProvider:
		if pid := b.ProviderProfileID(); pid != "" && v.ProviderID != "" {
			return pid == v.ProviderID
		}
		if uid := b.ProviderUserID(); uid != "" {
			return uid == v.UserID
		}
		// Ownership unknown: no affordances.
		return false
	}
	return false
}

// Check validates that viewer may apply action to the booking as it is now.
func Check(v Viewer, b *models.Booking, action Action) error {
	status, ok := ParseStatus(b.Status)
	if !ok {
		return httperr.ErrBusiness("invalid_state")
	}

	if _, ok := TransitionFor(status, action); !ok {
		return httperr.ErrBusiness("invalid_state")
	}

	if !AllowedActions(status, v.Role).Has(action) {
		return httperr.ErrBusiness("not_allowed_for_role")
	}

	if !v.IsParticipant(b) {
		return httperr.ErrBusiness("not_a_participant")
	}
	return nil
}

func CanCancel(v Viewer, b *models.Booking) error {
	return Check(v, b, ActionCancel)
}

func CanReschedule(v Viewer, b *models.Booking) error {
	return Check(v, b, ActionReschedule)
}

func CanRespond(v Viewer, b *models.Booking, d Decision) error {
	return Check(v, b, d.Action())
}

func CanComplete(v Viewer, b *models.Booking) error {
	return Check(v, b, ActionComplete)
}

// CanReview differs from the others only in its error code: the review
// screen reports an ineligible booking rather than a bad state.
func CanReview(v Viewer, b *models.Booking) error {
	if err := Check(v, b, ActionReview); err != nil {
		if httperr.IsBusiness(err, "invalid_state") {
			return httperr.ErrBusiness("booking_not_eligible")
		}
		return err
	}
	return nil
}
