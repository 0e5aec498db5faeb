package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/booking-availability/internal/httperr"
	"github.com/BruksfildServices01/booking-availability/internal/httpresp"
	"github.com/BruksfildServices01/booking-availability/internal/usecase/reservation"
	"github.com/BruksfildServices01/booking-availability/internal/validators"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	create     *reservation.Create
	confirm    *reservation.Confirm
	cancel     *reservation.Cancel
	reschedule *reservation.Reschedule
	complete   *reservation.Complete
	list       *reservation.ListByDate
}

func NewAppointmentHandler(
	create *reservation.Create,
	confirm *reservation.Confirm,
	cancel *reservation.Cancel,
	reschedule *reservation.Reschedule,
	complete *reservation.Complete,
	list *reservation.ListByDate,
) *AppointmentHandler {
	return &AppointmentHandler{
		create:     create,
		confirm:    confirm,
		cancel:     cancel,
		reschedule: reschedule,
		complete:   complete,
		list:       list,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	ResourceID    uint   `json:"resource_id" binding:"required"`
	ServiceID     uint   `json:"service_id" binding:"required"`
	CustomerName  string `json:"customer_name" binding:"required"`
	CustomerPhone string `json:"customer_phone" binding:"required"`
	CustomerEmail string `json:"customer_email"`
	Date          string `json:"date" binding:"required"`
	Time          string `json:"time" binding:"required"`
	Notes         string `json:"notes"`
}

type CancelAppointmentRequest struct {
	Reason string `json:"reason"`
}

type RescheduleAppointmentRequest struct {
	Date      string `json:"date" binding:"required"`
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time"`
}

// ======================================================
// CREATE / LIST
// ======================================================

// POST /api/me/appointments
func (h *AppointmentHandler) Create(c *gin.Context) {
	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	phone := validators.NormalizePhone(req.CustomerPhone)
	if phone == "" {
		httperr.BadRequest(c, "invalid_phone", "Invalid phone number.")
		return
	}

	ap, err := h.create.Execute(c.Request.Context(), reservation.CreateInput{
		BusinessID:    businessID(c),
		ResourceID:    req.ResourceID,
		ServiceID:     req.ServiceID,
		UserID:        actor(c),
		CustomerName:  req.CustomerName,
		CustomerPhone: phone,
		CustomerEmail: req.CustomerEmail,
		Date:          req.Date,
		Time:          req.Time,
		Notes:         req.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, ap)
}

// GET /api/me/appointments?date=&resource_id=
func (h *AppointmentHandler) ListByDate(c *gin.Context) {
	resourceID, ok := uintQuery(c, "resource_id")
	if !ok {
		return
	}

	list, err := h.list.Execute(c.Request.Context(), businessID(c), resourceID, c.Query("date"))
	if err != nil {
		respondError(c, err)
		return
	}

	httpresp.List(c, list)
}

// ======================================================
// STATUS CHANGES
// ======================================================

// PATCH /api/me/appointments/:id/confirm
func (h *AppointmentHandler) Confirm(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	ap, err := h.confirm.Execute(c.Request.Context(), businessID(c), actor(c), id)
	if err != nil {
		respondError(c, err)
		return
	}

	httpresp.OK(c, ap)
}

// PATCH /api/me/appointments/:id/cancel
func (h *AppointmentHandler) Cancel(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var req CancelAppointmentRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			bindError(c, err)
			return
		}
	}

	ap, err := h.cancel.Execute(c.Request.Context(), businessID(c), actor(c), id, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}

	httpresp.OK(c, ap)
}

// PATCH /api/me/appointments/:id/reschedule
func (h *AppointmentHandler) Reschedule(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var req RescheduleAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	ap, err := h.reschedule.Execute(c.Request.Context(), reservation.RescheduleInput{
		BusinessID:    businessID(c),
		AppointmentID: id,
		UserID:        actor(c),
		Date:          req.Date,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	httpresp.OK(c, ap)
}

// PATCH /api/me/appointments/:id/complete
func (h *AppointmentHandler) Complete(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	ap, err := h.complete.Execute(c.Request.Context(), businessID(c), actor(c), id)
	if err != nil {
		respondError(c, err)
		return
	}

	httpresp.OK(c, ap)
}
