package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/booking-availability/internal/domain/schedule"
	"github.com/BruksfildServices01/booking-availability/internal/httperr"
	"github.com/BruksfildServices01/booking-availability/internal/lock"
	"github.com/BruksfildServices01/booking-availability/internal/middleware"
)

var messages = map[string]string{
	"invalid_state":        "Appointment cannot change to that status.",
	"already_cancelled":    "Appointment is already cancelled.",
	"too_soon":             "Start time is too soon.",
	"invalid_window":       "Start must be before end on the same day.",
	"invalid_date":         "Invalid date.",
	"invalid_date_or_time": "Invalid date or time.",
	"invalid_duration":     "Invalid duration.",
	"unsupported_image":    "Image must be JPEG, PNG or WebP.",
	"image_too_large":      "Image is too large.",
}

// respondError maps use case errors onto the HTTP contract.
func respondError(c *gin.Context, err error) {
	_ = c.Error(err)

	if reason, ok := schedule.ConflictReason(err); ok {
		httperr.Conflict(c, string(reason))
		return
	}

	if schedule.IsRepository(err) ||
		errors.Is(err, lock.ErrNotAcquired) ||
		errors.Is(err, context.DeadlineExceeded) {
		httperr.Unavailable(c)
		return
	}

	if errors.Is(err, schedule.ErrNotFound) {
		httperr.NotFound(c, "not_found", "Not found.")
		return
	}

	if code, ok := httperr.BusinessCode(err); ok {
		msg := messages[code]
		if msg == "" {
			msg = strings.ReplaceAll(code, "_", " ")
		}
		if strings.HasSuffix(code, "_not_found") {
			httperr.NotFound(c, code, msg)
			return
		}
		httperr.BadRequest(c, code, msg)
		return
	}

	httperr.Internal(c, "internal_error", "Unexpected error.")
}

func bindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error_code": "invalid_request",
		"message":    "Invalid request.",
		"details":    err.Error(),
	})
}

func uintParam(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		httperr.BadRequest(c, "invalid_"+name, "Invalid "+name+".")
		return 0, false
	}
	return uint(v), true
}

func uintQuery(c *gin.Context, name string) (uint, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_"+name, "Invalid "+name+".")
		return 0, false
	}
	return uint(v), true
}

func businessID(c *gin.Context) uint {
	return c.MustGet(middleware.ContextBusinessID).(uint)
}

func actor(c *gin.Context) *uint {
	id, ok := c.Get(middleware.ContextUserID)
	if !ok {
		return nil
	}
	uid := id.(uint)
	return &uid
}
