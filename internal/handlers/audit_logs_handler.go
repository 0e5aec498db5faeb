package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/booking-availability/internal/audit"
	"github.com/BruksfildServices01/booking-availability/internal/httpresp"
)

// ======================================================
// HANDLER
// ======================================================

type AuditLogsHandler struct {
	store audit.Store
}

func NewAuditLogsHandler(store audit.Store) *AuditLogsHandler {
	return &AuditLogsHandler{store: store}
}

// GET /api/me/audit-logs?action=&limit=
func (h *AuditLogsHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	logs, err := h.store.List(c.Request.Context(), businessID(c), c.Query("action"), limit)
	if err != nil {
		respondError(c, err)
		return
	}

	httpresp.List(c, logs)
}
