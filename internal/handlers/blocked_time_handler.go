package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/booking-availability/internal/audit"
	"github.com/BruksfildServices01/booking-availability/internal/domain/schedule"
	"github.com/BruksfildServices01/booking-availability/internal/httperr"
	"github.com/BruksfildServices01/booking-availability/internal/httpresp"
	"github.com/BruksfildServices01/booking-availability/internal/models"
	"github.com/BruksfildServices01/booking-availability/internal/timezone"
)

// BlockedTimeHandler manages manual blocks. Blocks owned by appointments
// are listed but only change through the appointment.
type BlockedTimeHandler struct {
	repo  schedule.Repository
	audit *audit.Dispatcher
}

func NewBlockedTimeHandler(repo schedule.Repository, audit *audit.Dispatcher) *BlockedTimeHandler {
	return &BlockedTimeHandler{repo: repo, audit: audit}
}

type CreateBlockedTimeRequest struct {
	Date   string `json:"date" binding:"required"`
	Start  string `json:"start" binding:"required"`
	End    string `json:"end" binding:"required"`
	Reason string `json:"reason"`
}

// GET /api/me/resources/:id/blocked-times?from=&to=
func (h *BlockedTimeHandler) List(c *gin.Context) {
	resourceID, ok := uintParam(c, "id")
	if !ok {
		return
	}
	bid := businessID(c)
	ctx := c.Request.Context()

	biz, err := h.repo.GetBusiness(ctx, bid)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := ownResource(ctx, h.repo, bid, resourceID); err != nil {
		respondError(c, err)
		return
	}
	loc := timezone.Location(biz.Timezone)

	from, err := parseDateIn(loc, c.Query("from"))
	if err != nil {
		respondError(c, err)
		return
	}
	to := from.AddDate(0, 0, 1)
	if raw := c.Query("to"); raw != "" {
		last, err := parseDateIn(loc, raw)
		if err != nil {
			respondError(c, err)
			return
		}
		to = last.AddDate(0, 0, 1)
	}
	if !to.After(from) {
		httperr.BadRequest(c, "invalid_range", "to must not be before from.")
		return
	}

	blocks, err := h.repo.GetBlockedTimes(ctx, bid, resourceID, from, to)
	if err != nil {
		respondError(c, err)
		return
	}

	httpresp.List(c, blocks)
}

// POST /api/me/resources/:id/blocked-times
func (h *BlockedTimeHandler) Create(c *gin.Context) {
	resourceID, ok := uintParam(c, "id")
	if !ok {
		return
	}
	bid := businessID(c)
	ctx := c.Request.Context()

	var req CreateBlockedTimeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	biz, err := h.repo.GetBusiness(ctx, bid)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := ownResource(ctx, h.repo, bid, resourceID); err != nil {
		respondError(c, err)
		return
	}

	date, err := parseDateIn(timezone.Location(biz.Timezone), req.Date)
	if err != nil {
		respondError(c, err)
		return
	}
	span, err := toClockRanges([]ClockRangeDTO{{Start: req.Start, End: req.End}}, "invalid_date_or_time")
	if err != nil {
		respondError(c, err)
		return
	}
	if !span[0].Valid() {
		respondError(c, schedule.ErrInvalidWindow)
		return
	}
	window := span[0].On(date)

	bt := &models.BlockedTime{
		BusinessID: bid,
		ResourceID: resourceID,
		StartTime:  window.Start,
		EndTime:    window.End,
		Reason:     req.Reason,
	}
	if err := h.repo.InsertBlockedTime(ctx, bt); err != nil {
		respondError(c, err)
		return
	}

	h.audit.Dispatch(audit.Event{
		BusinessID: bid,
		UserID:     actor(c),
		Action:     "blocked_time_created",
		Entity:     "blocked_time",
		EntityID:   &bt.ID,
		Metadata:   map[string]any{"resource_id": resourceID, "reason": req.Reason},
	})

	c.JSON(http.StatusCreated, bt)
}

// DELETE /api/me/resources/:id/blocked-times/:blockId
func (h *BlockedTimeHandler) Delete(c *gin.Context) {
	resourceID, ok := uintParam(c, "id")
	if !ok {
		return
	}
	blockID, ok := uintParam(c, "blockId")
	if !ok {
		return
	}
	bid := businessID(c)

	n, err := h.repo.DeleteManualBlockedTime(c.Request.Context(), bid, resourceID, blockID)
	if err != nil {
		respondError(c, err)
		return
	}
	if n == 0 {
		respondError(c, httperr.ErrBusiness("blocked_time_not_found"))
		return
	}

	h.audit.Dispatch(audit.Event{
		BusinessID: bid,
		UserID:     actor(c),
		Action:     "blocked_time_deleted",
		Entity:     "blocked_time",
		EntityID:   &blockID,
	})

	c.Status(http.StatusNoContent)
}

