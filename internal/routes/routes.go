package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/lead-scheduler/internal/audit"
	"github.com/BruksfildServices01/lead-scheduler/internal/config"
	domainAppointment "github.com/BruksfildServices01/lead-scheduler/internal/domain/appointment"
	domainAvailability "github.com/BruksfildServices01/lead-scheduler/internal/domain/availability"
	"github.com/BruksfildServices01/lead-scheduler/internal/handlers"
	"github.com/BruksfildServices01/lead-scheduler/internal/infra/lock"
	"github.com/BruksfildServices01/lead-scheduler/internal/infra/notify"
	"github.com/BruksfildServices01/lead-scheduler/internal/middleware"
	ucAnalytics "github.com/BruksfildServices01/lead-scheduler/internal/usecase/analytics"
	ucAppointment "github.com/BruksfildServices01/lead-scheduler/internal/usecase/appointment"
	ucAvailability "github.com/BruksfildServices01/lead-scheduler/internal/usecase/availability"
)

// Deps are the singletons built in main. Redis and Uploader may be nil.
type Deps struct {
	Config       *config.Config
	Log          *zap.Logger
	Appointments domainAppointment.Repository
	Availability domainAvailability.Repository
	Locker       lock.Locker
	Audit        *audit.Dispatcher
	SMS          notify.Sender
	Uploader     ucAnalytics.Uploader
	Redis        redis.UniversalClient
	Settings     ucAppointment.Settings
	Checks       map[string]handlers.Check
}

func RegisterRoutes(r *gin.Engine, d Deps) {

	// ======================================================
	// GLOBAL MIDDLEWARE
	// ======================================================
	r.Use(
		middleware.RequestID(),
		middleware.Logger(d.Log),
		gin.Recovery(),
		middleware.CORSMiddleware(d.Config.Server.AllowOrigins),
	)

	// ======================================================
	// USE CASES: APPOINTMENTS
	// ======================================================
	getSlotsUC := ucAppointment.NewGetSlots(d.Appointments, d.Availability, d.Settings)

	createBookingUC := ucAppointment.NewCreateBooking(
		d.Appointments,
		d.Locker,
		d.Audit,
		d.Settings,
		d.Log,
	)

	rescheduleUC := ucAppointment.NewRescheduleBooking(
		d.Appointments,
		d.Locker,
		d.Audit,
		d.Settings,
		d.Log,
	)

	updateStatusUC := ucAppointment.NewUpdateStatus(
		d.Appointments,
		d.SMS,
		d.Audit,
		d.Settings,
		d.Log,
	)

	cancelUC := ucAppointment.NewCancelAppointment(updateStatusUC)
	updateNotesUC := ucAppointment.NewUpdateNotes(d.Appointments)
	listUC := ucAppointment.NewListAppointments(d.Appointments)
	listForBusinessUC := ucAppointment.NewListForBusiness(d.Appointments)
	listActivitiesUC := ucAppointment.NewListActivities(d.Appointments)
	detailsUC := ucAppointment.NewGetBookingDetails(d.Appointments)
	linkUC := ucAppointment.NewGetSchedulingLink(d.Appointments, d.Settings)

	// ======================================================
	// USE CASES: AVAILABILITY + ANALYTICS
	// ======================================================
	getTemplateUC := ucAvailability.NewGetTemplate(d.Availability)
	replaceTemplateUC := ucAvailability.NewReplaceTemplate(d.Availability)
	listBlockedUC := ucAvailability.NewListBlockedDates(d.Availability)
	addBlockedUC := ucAvailability.NewAddBlockedDate(d.Availability)
	removeBlockedUC := ucAvailability.NewRemoveBlockedDate(d.Availability)

	statsUC := ucAnalytics.NewGetSchedulingStats(d.Appointments)
	reportUC := ucAnalytics.NewExportReport(d.Appointments, d.Uploader, d.Settings.Location, d.Log)

	// ======================================================
	// HANDLERS
	// ======================================================
	schedulingHandler := handlers.NewSchedulingHandler(
		getSlotsUC,
		createBookingUC,
		detailsUC,
		linkUC,
		listUC,
		updateStatusUC,
		statsUC,
		reportUC,
	)

	appointmentHandler := handlers.NewAppointmentHandler(
		createBookingUC,
		rescheduleUC,
		updateStatusUC,
		updateNotesUC,
		cancelUC,
		listUC,
		d.Settings,
	)

	availabilityHandler := handlers.NewAvailabilityHandler(
		getTemplateUC,
		replaceTemplateUC,
		listBlockedUC,
		addBlockedUC,
		removeBlockedUC,
	)

	businessHandler := handlers.NewBusinessHandler(listForBusinessUC, listActivitiesUC)
	healthHandler := handlers.NewHealthHandler(d.Checks)

	r.GET("/health", healthHandler.Health)

	api := r.Group("/api")
	{
		// ------------------------------
		// PUBLIC (self-service booking)
		// ------------------------------
		public := api.Group("/scheduling")
		{
			public.GET("/slots", schedulingHandler.Slots)
			public.POST(
				"/book",
				middleware.RateLimit(
					d.Redis,
					"book",
					d.Config.Redis.BookRateLimit,
					d.Config.Redis.BookRateWindow,
					d.Log,
				),
				schedulingHandler.Book,
			)
			public.GET("/booking/:businessId", schedulingHandler.Booking)
			public.GET("/link/:businessId", schedulingHandler.Link)
		}

		// ------------------------------
		// CRM
		// ------------------------------
		secured := api.Group("/")
		if d.Config.AuthEnabled() {
			secured.Use(middleware.AuthMiddleware(d.Config.Auth.JWTSecret))
		}
		{
			secured.GET("/scheduling/appointments", schedulingHandler.Appointments)
			secured.PATCH("/scheduling/appointments/:id/status", schedulingHandler.UpdateStatus)
			secured.GET("/scheduling/analytics", schedulingHandler.Analytics)
			secured.GET("/scheduling/analytics/export", schedulingHandler.ExportDownload)
			secured.POST("/scheduling/analytics/export", schedulingHandler.ExportUpload)

			secured.GET("/appointments", appointmentHandler.List)
			secured.POST("/appointments", appointmentHandler.Create)
			secured.PATCH("/appointments/:id", appointmentHandler.Update)
			secured.DELETE("/appointments/:id", appointmentHandler.Cancel)

			secured.GET("/availability", availabilityHandler.GetTemplate)
			secured.POST("/availability", availabilityHandler.ReplaceTemplate)

			secured.GET("/blocked-dates", availabilityHandler.ListBlocked)
			secured.POST("/blocked-dates", availabilityHandler.AddBlocked)
			secured.DELETE("/blocked-dates/:id", availabilityHandler.RemoveBlocked)

			secured.GET("/businesses/:id/appointments", businessHandler.Appointments)
			secured.GET("/businesses/:id/activities", businessHandler.Activities)
		}
	}
}
