package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/booking-availability/internal/audit"
	"github.com/BruksfildServices01/booking-availability/internal/domain/interval"
	"github.com/BruksfildServices01/booking-availability/internal/domain/schedule"
	"github.com/BruksfildServices01/booking-availability/internal/httperr"
)

type WorkingHoursHandler struct {
	repo  schedule.Repository
	audit *audit.Dispatcher
}

func NewWorkingHoursHandler(repo schedule.Repository, audit *audit.Dispatcher) *WorkingHoursHandler {
	return &WorkingHoursHandler{repo: repo, audit: audit}
}

type WorkingDayConfig struct {
	Weekday int             `json:"weekday" binding:"min=0,max=6"`
	Active  bool            `json:"active"`
	Slots   []ClockRangeDTO `json:"slots" binding:"dive"`
	Breaks  []ClockRangeDTO `json:"breaks" binding:"dive"`
}

type WorkingHoursUpdateRequest struct {
	Days []WorkingDayConfig `json:"days" binding:"required,dive"`
}

// ownResource maps a missing resource to resource_not_found.
func ownResource(ctx context.Context, repo schedule.Repository, businessID, resourceID uint) error {
	if _, err := repo.GetResource(ctx, businessID, resourceID); err != nil {
		if errors.Is(err, schedule.ErrNotFound) {
			return httperr.ErrBusiness("resource_not_found")
		}
		return err
	}
	return nil
}

// GET /api/me/resources/:id/working-hours
func (h *WorkingHoursHandler) Get(c *gin.Context) {
	resourceID, ok := uintParam(c, "id")
	if !ok {
		return
	}
	bid := businessID(c)

	if err := ownResource(c.Request.Context(), h.repo, bid, resourceID); err != nil {
		respondError(c, err)
		return
	}

	week, err := h.repo.GetWorkingHours(c.Request.Context(), bid, resourceID)
	if err != nil {
		respondError(c, err)
		return
	}

	days := make([]WorkingDayConfig, 0, len(week))
	for _, wh := range week {
		days = append(days, WorkingDayConfig{
			Weekday: int(wh.Weekday),
			Active:  wh.Active,
			Slots:   fromClockRanges(wh.Slots),
			Breaks:  fromClockRanges(wh.Breaks),
		})
	}

	c.JSON(http.StatusOK, gin.H{"days": days})
}

// PUT /api/me/resources/:id/working-hours replaces the whole week. Weekdays
// left out are closed.
func (h *WorkingHoursHandler) Update(c *gin.Context) {
	resourceID, ok := uintParam(c, "id")
	if !ok {
		return
	}
	bid := businessID(c)

	var req WorkingHoursUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	if err := ownResource(c.Request.Context(), h.repo, bid, resourceID); err != nil {
		respondError(c, err)
		return
	}

	seen := make(map[int]bool, len(req.Days))
	week := make([]schedule.WorkingHours, 0, len(req.Days))
	for _, d := range req.Days {
		if seen[d.Weekday] {
			httperr.BadRequest(c, "duplicate_weekday", "Each weekday may appear once.")
			return
		}
		seen[d.Weekday] = true

		slots, err := toClockRanges(d.Slots, "invalid_slot")
		if err != nil {
			respondError(c, err)
			return
		}
		breaks, err := toClockRanges(d.Breaks, "invalid_break")
		if err != nil {
			respondError(c, err)
			return
		}

		wh := schedule.WorkingHours{
			Weekday: interval.Weekday(d.Weekday),
			Active:  d.Active,
			Slots:   slots,
			Breaks:  breaks,
		}
		if err := wh.Validate(); err != nil {
			respondError(c, err)
			return
		}
		week = append(week, wh)
	}

	if err := h.repo.ReplaceWorkingHours(c.Request.Context(), bid, resourceID, week); err != nil {
		respondError(c, err)
		return
	}

	h.audit.Dispatch(audit.Event{
		BusinessID: bid,
		UserID:     actor(c),
		Action:     "working_hours_updated",
		Entity:     "resource",
		EntityID:   &resourceID,
		Metadata:   req,
	})

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
