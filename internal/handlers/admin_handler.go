package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/synap5e/homehero-web/internal/audit"
	"github.com/synap5e/homehero-web/internal/httpresp"
	"github.com/synap5e/homehero-web/internal/views"
)

// ======================================================
// HANDLER
// ======================================================

type AdminHandler struct {
	Base
	audit audit.Recorder
}

func NewAdminHandler(base Base, recorder audit.Recorder) *AdminHandler {
	if recorder == nil {
		recorder = audit.Nop{}
	}
	return &AdminHandler{Base: base, audit: recorder}
}

func pageParams(c *gin.Context) (skip, limit int) {
	skip, _ = strconv.Atoi(c.DefaultQuery("skip", "0"))
	if skip < 0 {
		skip = 0
	}
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "100"))
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return skip, limit
}

// ======================================================
// USERS / PROVIDERS / BOOKINGS
// ======================================================

func (h *AdminHandler) Users(c *gin.Context) {
	skip, limit := pageParams(c)
	users, err := h.client(c).AdminUsers(c.Request.Context(), skip, limit)
	if err != nil {
		h.fail(c, err)
		return
	}
	httpresp.List(c, users)
}

// Providers lists profiles; ?pending=true keeps those awaiting approval.
func (h *AdminHandler) Providers(c *gin.Context) {
	skip, limit := pageParams(c)
	providers, err := h.client(c).AdminProviders(c.Request.Context(), skip, limit)
	if err != nil {
		h.fail(c, err)
		return
	}

	if c.Query("pending") == "true" {
		kept := providers[:0]
		for _, p := range providers {
			if !p.IsApproved {
				kept = append(kept, p)
			}
		}
		providers = kept
	}
	httpresp.List(c, providers)
}

func (h *AdminHandler) ApproveProvider(c *gin.Context) {
	id := c.Param("id")
	err := h.client(c).ApproveProvider(c.Request.Context(), id)

	writeAudit(h.audit, h.session(c), "provider.approve", "provider", id, err)
	if err != nil {
		h.fail(c, err)
		return
	}
	httpresp.OK(c, gin.H{"provider_id": id, "is_approved": true})
}

// Bookings is read-only for admins: every view carries no actions.
func (h *AdminHandler) Bookings(c *gin.Context) {
	bs, err := h.client(c).AdminBookings(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	v, err := h.viewer(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	status := c.DefaultQuery("status", "all")
	httpresp.List(c, views.BookingViews(views.FilterStatus(bs, status), v, nil))
}
