package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/booking-availability/internal/httperr"
	"github.com/BruksfildServices01/booking-availability/internal/usecase/availability"
	"github.com/BruksfildServices01/booking-availability/internal/usecase/reservation"
	"github.com/BruksfildServices01/booking-availability/internal/validators"
)

// ======================================================
// HANDLER
// ======================================================

type PublicHandler struct {
	query  *availability.Query
	create *reservation.Create

	// emailDomainOK is validators.IsEmailDomainValid unless replaced.
	emailDomainOK func(string) bool
}

func NewPublicHandler(query *availability.Query, create *reservation.Create) *PublicHandler {
	return &PublicHandler{
		query:         query,
		create:        create,
		emailDomainOK: validators.IsEmailDomainValid,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type PublicAppointmentRequest struct {
	ResourceID    uint   `json:"resource_id" binding:"required"`
	ServiceID     uint   `json:"service_id" binding:"required"`
	CustomerName  string `json:"customer_name" binding:"required"`
	CustomerPhone string `json:"customer_phone" binding:"required"`
	CustomerEmail string `json:"customer_email"`
	Date          string `json:"date" binding:"required"`
	Time          string `json:"time" binding:"required"`
	Notes         string `json:"notes"`
}

// ======================================================
// CREATE
// ======================================================

// POST /api/public/:slug/appointments
func (h *PublicHandler) CreateAppointment(c *gin.Context) {
	biz, err := h.query.BusinessBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}

	var req PublicAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	phone := validators.NormalizePhone(req.CustomerPhone)
	if phone == "" {
		httperr.BadRequest(c, "invalid_phone", "Invalid phone number.")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.CustomerEmail))
	if email != "" {
		if !validators.IsEmailFormatValid(email) || !h.emailDomainOK(email) {
			httperr.BadRequest(c, "invalid_email", "Invalid email.")
			return
		}
	}

	ap, err := h.create.Execute(c.Request.Context(), reservation.CreateInput{
		BusinessID:    biz.ID,
		ResourceID:    req.ResourceID,
		ServiceID:     req.ServiceID,
		CustomerName:  strings.TrimSpace(req.CustomerName),
		CustomerPhone: phone,
		CustomerEmail: email,
		Date:          req.Date,
		Time:          req.Time,
		Notes:         req.Notes,
		Public:        true,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":         ap.ID,
		"status":     ap.Status,
		"start_time": ap.StartTime,
		"end_time":   ap.EndTime,
	})
}
