package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/booking-availability/internal/domain/schedule"
	"github.com/BruksfildServices01/booking-availability/internal/httperr"
	"github.com/BruksfildServices01/booking-availability/internal/httpresp"
	"github.com/BruksfildServices01/booking-availability/internal/usecase/availability"
)

type AvailabilityHandler struct {
	query *availability.Query
}

func NewAvailabilityHandler(query *availability.Query) *AvailabilityHandler {
	return &AvailabilityHandler{query: query}
}

type SlotDTO struct {
	Start   string    `json:"start"`
	End     string    `json:"end"`
	StartAt time.Time `json:"start_at"`
	EndAt   time.Time `json:"end_at"`
}

type CheckResponse struct {
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
}

func toSlotDTOs(slots []availability.Slot) []SlotDTO {
	out := make([]SlotDTO, 0, len(slots))
	for _, s := range slots {
		out = append(out, SlotDTO{
			Start:   s.Start.Format("15:04"),
			End:     s.End.Format("15:04"),
			StartAt: s.Start,
			EndAt:   s.End,
		})
	}
	return out
}

// ======================================================
// PUBLIC
// ======================================================

// GET /api/public/:slug/availability?resource_id=&service_id=&date=
func (h *AvailabilityHandler) PublicSlots(c *gin.Context) {
	biz, err := h.query.BusinessBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}

	resourceID, ok := uintQuery(c, "resource_id")
	if !ok {
		return
	}
	serviceID, ok := uintQuery(c, "service_id")
	if !ok {
		return
	}
	if resourceID == 0 || serviceID == 0 {
		httperr.BadRequest(c, "invalid_request", "resource_id and service_id are required.")
		return
	}

	slots, err := h.query.Slots(c.Request.Context(), availability.SlotsInput{
		BusinessID: biz.ID,
		ResourceID: resourceID,
		ServiceID:  serviceID,
		Date:       c.Query("date"),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	httpresp.List(c, toSlotDTOs(slots))
}

// GET /api/public/:slug/availability/check?resource_id=&date=&start=&end=
func (h *AvailabilityHandler) PublicCheck(c *gin.Context) {
	biz, err := h.query.BusinessBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}

	resourceID, ok := uintQuery(c, "resource_id")
	if !ok {
		return
	}

	h.check(c, availability.CheckInput{
		BusinessID: biz.ID,
		ResourceID: resourceID,
		Date:       c.Query("date"),
		Start:      c.Query("start"),
		End:        c.Query("end"),
	})
}

// ======================================================
// STAFF
// ======================================================

// GET /api/me/resources/:id/availability?date=&service_id= or &duration=
func (h *AvailabilityHandler) ResourceSlots(c *gin.Context) {
	resourceID, ok := uintParam(c, "id")
	if !ok {
		return
	}
	serviceID, ok := uintQuery(c, "service_id")
	if !ok {
		return
	}

	duration := 0
	if raw := c.Query("duration"); raw != "" {
		d, err := strconv.Atoi(raw)
		if err != nil {
			httperr.BadRequest(c, "invalid_duration", "Invalid duration.")
			return
		}
		duration = d
	}

	slots, err := h.query.Slots(c.Request.Context(), availability.SlotsInput{
		BusinessID:  businessID(c),
		ResourceID:  resourceID,
		ServiceID:   serviceID,
		DurationMin: duration,
		Date:        c.Query("date"),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	httpresp.List(c, toSlotDTOs(slots))
}

// GET /api/me/resources/:id/availability/check?date=&start=&end=
func (h *AvailabilityHandler) ResourceCheck(c *gin.Context) {
	resourceID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	h.check(c, availability.CheckInput{
		BusinessID: businessID(c),
		ResourceID: resourceID,
		Date:       c.Query("date"),
		Start:      c.Query("start"),
		End:        c.Query("end"),
	})
}

func (h *AvailabilityHandler) check(c *gin.Context, in availability.CheckInput) {
	err := h.query.Check(c.Request.Context(), in)
	if err == nil {
		c.JSON(http.StatusOK, CheckResponse{Available: true})
		return
	}
	if reason, ok := schedule.ConflictReason(err); ok {
		c.JSON(http.StatusOK, CheckResponse{Available: false, Reason: string(reason)})
		return
	}
	respondError(c, err)
}
