package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/synap5e/homehero-web/internal/audit"
	"github.com/synap5e/homehero-web/internal/httperr"
	"github.com/synap5e/homehero-web/internal/httpresp"
)

// ======================================================
// HANDLER
// ======================================================

type AuditLogsHandler struct {
	logger   *audit.Logger
	timezone string
	log      *zap.Logger
}

// NewAuditLogsHandler takes a nil logger when no database is configured;
// List then answers 503.
func NewAuditLogsHandler(logger *audit.Logger, tz string, log *zap.Logger) *AuditLogsHandler {
	return &AuditLogsHandler{logger: logger, timezone: tz, log: log}
}

// List pages through recorded activity, newest first. Filters: action,
// entity, user_id, from and to (YYYY-MM-DD, inclusive).
func (h *AuditLogsHandler) List(c *gin.Context) {
	if h.logger == nil {
		httperr.Write(c, http.StatusServiceUnavailable, "activity_log_disabled", "The activity log is not configured.")
		return
	}

	q := audit.Query{
		Action: c.Query("action"),
		Entity: c.Query("entity"),
		UserID: c.Query("user_id"),
	}
	q.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	q.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))

	if from, ok := parseDay(c.Query("from"), h.timezone); ok {
		q.From = &from
	}
	if to, ok := parseDay(c.Query("to"), h.timezone); ok {
		end := to.Add(24 * time.Hour)
		q.To = &end
	}

	page, err := h.logger.List(c.Request.Context(), q)
	if err != nil {
		h.log.Error("activity list failed", zap.Error(err))
		httperr.Internal(c, "activity_list_failed", "Could not load the activity log.")
		return
	}
	httpresp.Paged(c, page.Logs, page.Page, page.Limit, page.Total)
}
