package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	domain "github.com/synap5e/homehero-web/internal/domain/booking"
	"github.com/synap5e/homehero-web/internal/httperr"
	"github.com/synap5e/homehero-web/internal/httpresp"
	"github.com/synap5e/homehero-web/internal/inflight"
	"github.com/synap5e/homehero-web/internal/models"
	ucBooking "github.com/synap5e/homehero-web/internal/usecase/booking"
	"github.com/synap5e/homehero-web/internal/views"
)

// ======================================================
// HANDLER
// ======================================================

type BookingHandler struct {
	Base

	guard    *inflight.Guard
	timezone string

	create     *ucBooking.CreateBooking
	respond    *ucBooking.RespondBooking
	cancel     *ucBooking.CancelBooking
	reschedule *ucBooking.RescheduleBooking
	complete   *ucBooking.CompleteBooking
}

func NewBookingHandler(
	base Base,
	guard *inflight.Guard,
	tz string,
	create *ucBooking.CreateBooking,
	respond *ucBooking.RespondBooking,
	cancel *ucBooking.CancelBooking,
	reschedule *ucBooking.RescheduleBooking,
	complete *ucBooking.CompleteBooking,
) *BookingHandler {
	return &BookingHandler{
		Base:       base,
		guard:      guard,
		timezone:   tz,
		create:     create,
		respond:    respond,
		cancel:     cancel,
		reschedule: reschedule,
		complete:   complete,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateBookingRequest struct {
	ProviderID          string `json:"provider_id"`
	ServiceType         string `json:"service_type"`
	DateTime            string `json:"date_time"`
	SpecialInstructions string `json:"special_instructions"`
}

type RespondRequest struct {
	Status string `json:"status"`
}

type CancelRequest struct {
	Reason string `json:"reason"`
}

type RescheduleRequest struct {
	NewDateTime string `json:"new_date_time"`
	Reason      string `json:"reason"`
}

// ======================================================
// HELPERS
// ======================================================

// load fetches the booking the action applies to.
func (h *BookingHandler) load(c *gin.Context) (*models.Booking, bool) {
	b, err := h.client(c).GetBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return nil, false
	}
	return b, true
}

func (h *BookingHandler) view(b *models.Booking, v domain.Viewer) views.BookingView {
	return views.NewBookingView(*b, v, h.guard.Busy(inflight.BookingKey(b.BookingID)))
}

// ======================================================
// READ
// ======================================================

// List returns the viewer's bookings, optionally narrowed by ?status=.
func (h *BookingHandler) List(c *gin.Context) {
	status := c.DefaultQuery("status", "all")
	if status != "all" {
		if _, ok := domain.ParseStatus(status); !ok {
			h.fail(c, httperr.Invalid("status", "invalid", "Unknown booking status."))
			return
		}
	}

	v, err := h.viewer(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	bs, err := h.client(c).MyBookings(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}

	out := views.BookingViews(views.FilterStatus(bs, status), v, busyFunc(h.guard))
	httpresp.List(c, out)
}

// Get returns one booking with its actions. For customers the API's
// can-cancel verdict narrows the cancel affordance.
func (h *BookingHandler) Get(c *gin.Context) {
	b, ok := h.load(c)
	if !ok {
		return
	}
	v, err := h.viewer(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	view := h.view(b, v)

	if hasAction(view.Actions, domain.ActionCancel) {
		policy, err := h.client(c).CanCancel(c.Request.Context(), b.BookingID)
		switch {
		case err == nil:
			view = view.WithCancelPolicy(policy)
		case httperr.IsKind(err, httperr.KindUnauthorized):
			h.fail(c, err)
			return
		default:
			h.Log.Debug("can-cancel lookup failed", zap.String("booking_id", b.BookingID), zap.Error(err))
		}
	}

	c.JSON(http.StatusOK, view)
}

func hasAction(actions []domain.Action, a domain.Action) bool {
	for _, x := range actions {
		if x == a {
			return true
		}
	}
	return false
}

// ======================================================
// CREATE
// ======================================================

func (h *BookingHandler) Create(c *gin.Context) {
	var req CreateBookingRequest
	if err := bind(c, &req); err != nil {
		h.fail(c, err)
		return
	}
	when, err := parseWhen("date_time", req.DateTime, h.timezone)
	if err != nil {
		h.fail(c, err)
		return
	}

	v, err := h.viewer(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	b, err := h.create.Execute(c.Request.Context(), h.client(c), v, ucBooking.CreateBookingInput{
		ProviderID:          req.ProviderID,
		ServiceType:         req.ServiceType,
		DateTime:            when,
		SpecialInstructions: req.SpecialInstructions,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	httpresp.Created(c, h.view(b, v))
}

// ======================================================
// TRANSITIONS
// ======================================================

func (h *BookingHandler) Respond(c *gin.Context) {
	var req RespondRequest
	if err := bind(c, &req); err != nil {
		h.fail(c, err)
		return
	}
	if err := h.respond.Validate(req.Status); err != nil {
		h.fail(c, err)
		return
	}
	b, ok := h.load(c)
	if !ok {
		return
	}

	v, err := h.viewer(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	out, err := h.respond.Execute(c.Request.Context(), h.client(c), v, b, req.Status)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, h.view(out, v))
}

func (h *BookingHandler) Cancel(c *gin.Context) {
	var req CancelRequest
	if err := bind(c, &req); err != nil {
		h.fail(c, err)
		return
	}
	if err := h.cancel.Validate(req.Reason); err != nil {
		h.fail(c, err)
		return
	}
	b, ok := h.load(c)
	if !ok {
		return
	}

	v, err := h.viewer(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	out, err := h.cancel.Execute(c.Request.Context(), h.client(c), v, b, req.Reason)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, h.view(out, v))
}

func (h *BookingHandler) Reschedule(c *gin.Context) {
	var req RescheduleRequest
	if err := bind(c, &req); err != nil {
		h.fail(c, err)
		return
	}
	when, err := parseWhen("new_date_time", req.NewDateTime, h.timezone)
	if err != nil {
		h.fail(c, err)
		return
	}
	if err := h.reschedule.Validate(when, req.Reason); err != nil {
		h.fail(c, err)
		return
	}
	b, ok := h.load(c)
	if !ok {
		return
	}

	v, err := h.viewer(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	out, err := h.reschedule.Execute(c.Request.Context(), h.client(c), v, b, when, req.Reason)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, h.view(out, v))
}

func (h *BookingHandler) Complete(c *gin.Context) {
	b, ok := h.load(c)
	if !ok {
		return
	}

	v, err := h.viewer(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	out, err := h.complete.Execute(c.Request.Context(), h.client(c), v, b)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, h.view(out, v))
}
