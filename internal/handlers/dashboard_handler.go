package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/synap5e/homehero-web/internal/httperr"
	"github.com/synap5e/homehero-web/internal/inflight"
	"github.com/synap5e/homehero-web/internal/views"
)

type DashboardHandler struct {
	Base
	guard *inflight.Guard
}

func NewDashboardHandler(base Base, guard *inflight.Guard) *DashboardHandler {
	return &DashboardHandler{Base: base, guard: guard}
}

// Show renders the landing page for the session's role.
func (h *DashboardHandler) Show(c *gin.Context) {
	v, err := h.viewer(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	d, ok := views.DashboardFor(v.Role)
	if !ok {
		httperr.Forbidden(c, "unknown_role", "Your account type has no dashboard.")
		return
	}

	out, err := d.Build(c.Request.Context(), h.client(c), v, busyFunc(h.guard), time.Now())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func busyFunc(g *inflight.Guard) views.BusyFunc {
	return func(bookingID string) bool {
		return g.Busy(inflight.BookingKey(bookingID))
	}
}
