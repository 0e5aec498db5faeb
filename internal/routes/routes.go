package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/booking-availability/internal/audit"
	"github.com/BruksfildServices01/booking-availability/internal/domain/schedule"
	"github.com/BruksfildServices01/booking-availability/internal/handlers"
	"github.com/BruksfildServices01/booking-availability/internal/lock"
	"github.com/BruksfildServices01/booking-availability/internal/media"
	"github.com/BruksfildServices01/booking-availability/internal/middleware"
	"github.com/BruksfildServices01/booking-availability/internal/notify"
	"github.com/BruksfildServices01/booking-availability/internal/payment"
	"github.com/BruksfildServices01/booking-availability/internal/usecase/availability"
	"github.com/BruksfildServices01/booking-availability/internal/usecase/reservation"
)

// Deps is everything the HTTP layer needs; main wires the concrete drivers.
type Deps struct {
	Repo       schedule.Repository
	Locker     lock.Locker
	AuditStore audit.Store
	Audit      *audit.Dispatcher
	Notifier   notify.Notifier
	Refunder   payment.Refunder
	Objects    media.ObjectStore
	Logger     *zap.Logger

	JWTSecret           string
	PublicRatePerMinute int

	// Clock defaults to time.Now.
	Clock func() time.Time
}

func RegisterRoutes(r *gin.Engine, d Deps) {

	// ======================================================
	// MIDDLEWARE
	// ======================================================
	r.Use(
		middleware.RequestID(),
		middleware.AccessLog(d.Logger),
		middleware.CORSMiddleware(),
	)

	// ======================================================
	// USE CASES
	// ======================================================
	engine := availability.NewEngine(d.Repo)
	query := availability.NewQuery(d.Repo, engine)

	resDeps := reservation.Deps{
		Repo:     d.Repo,
		Locker:   d.Locker,
		Audit:    d.Audit,
		Notifier: d.Notifier,
		Refunder: d.Refunder,
		Logger:   d.Logger,
		Clock:    d.Clock,
	}

	createUC := reservation.NewCreate(resDeps)
	confirmUC := reservation.NewConfirm(resDeps)
	cancelUC := reservation.NewCancel(resDeps)
	rescheduleUC := reservation.NewReschedule(resDeps)
	completeUC := reservation.NewComplete(resDeps)
	listUC := reservation.NewListByDate(d.Repo)

	uploadPhotoUC := media.NewUploadResourcePhoto(d.Repo, d.Objects, d.Audit)

	// ======================================================
	// HANDLERS
	// ======================================================
	availabilityHandler := handlers.NewAvailabilityHandler(query)
	publicHandler := handlers.NewPublicHandler(query, createUC)
	appointmentHandler := handlers.NewAppointmentHandler(
		createUC,
		confirmUC,
		cancelUC,
		rescheduleUC,
		completeUC,
		listUC,
	)
	workingHoursHandler := handlers.NewWorkingHoursHandler(d.Repo, d.Audit)
	blockedTimeHandler := handlers.NewBlockedTimeHandler(d.Repo, d.Audit)
	photoHandler := handlers.NewResourcePhotoHandler(uploadPhotoUC)
	auditLogsHandler := handlers.NewAuditLogsHandler(d.AuditStore)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ======================================================
	// API
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// PUBLIC
		// ------------------------------
		limiter := middleware.NewRateLimiter(d.PublicRatePerMinute, d.Logger)

		publicAPI := api.Group("/public")
		publicAPI.Use(limiter.Middleware())
		{
			publicAPI.GET("/:slug/availability", availabilityHandler.PublicSlots)
			publicAPI.GET("/:slug/availability/check", availabilityHandler.PublicCheck)
			publicAPI.POST("/:slug/appointments", publicHandler.CreateAppointment)
		}

		// ------------------------------
		// STAFF
		// ------------------------------
		me := api.Group("/me")
		me.Use(middleware.AuthMiddleware(d.JWTSecret))
		{
			me.POST("/appointments", appointmentHandler.Create)
			me.GET("/appointments", appointmentHandler.ListByDate)
			me.PATCH("/appointments/:id/confirm", appointmentHandler.Confirm)
			me.PATCH("/appointments/:id/cancel", appointmentHandler.Cancel)
			me.PATCH("/appointments/:id/reschedule", appointmentHandler.Reschedule)
			me.PATCH("/appointments/:id/complete", appointmentHandler.Complete)

			me.GET("/resources/:id/availability", availabilityHandler.ResourceSlots)
			me.GET("/resources/:id/availability/check", availabilityHandler.ResourceCheck)

			me.GET("/resources/:id/working-hours", workingHoursHandler.Get)
			me.PUT("/resources/:id/working-hours", workingHoursHandler.Update)

			me.GET("/resources/:id/blocked-times", blockedTimeHandler.List)
			me.POST("/resources/:id/blocked-times", blockedTimeHandler.Create)
			me.DELETE("/resources/:id/blocked-times/:blockId", blockedTimeHandler.Delete)

			me.POST("/resources/:id/photo", photoHandler.Upload)

			me.GET("/audit-logs", auditLogsHandler.List)
		}
	}
}
