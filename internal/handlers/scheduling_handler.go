package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/lead-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/lead-scheduler/internal/infra/export"
	"github.com/BruksfildServices01/lead-scheduler/internal/httperr"
	"github.com/BruksfildServices01/lead-scheduler/internal/httpresp"
	ucAnalytics "github.com/BruksfildServices01/lead-scheduler/internal/usecase/analytics"
	ucAppointment "github.com/BruksfildServices01/lead-scheduler/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

// SchedulingHandler serves the self-service booking flow and the scheduling
// dashboard.
type SchedulingHandler struct {
	getSlots     *ucAppointment.GetSlots
	createBook   *ucAppointment.CreateBooking
	details      *ucAppointment.GetBookingDetails
	link         *ucAppointment.GetSchedulingLink
	list         *ucAppointment.ListAppointments
	updateStatus *ucAppointment.UpdateStatus
	stats        *ucAnalytics.GetSchedulingStats
	report       *ucAnalytics.ExportReport
}

func NewSchedulingHandler(
	getSlots *ucAppointment.GetSlots,
	createBook *ucAppointment.CreateBooking,
	details *ucAppointment.GetBookingDetails,
	link *ucAppointment.GetSchedulingLink,
	list *ucAppointment.ListAppointments,
	updateStatus *ucAppointment.UpdateStatus,
	stats *ucAnalytics.GetSchedulingStats,
	report *ucAnalytics.ExportReport,
) *SchedulingHandler {
	return &SchedulingHandler{
		getSlots:     getSlots,
		createBook:   createBook,
		details:      details,
		link:         link,
		list:         list,
		updateStatus: updateStatus,
		stats:        stats,
		report:       report,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type BookRequest struct {
	BusinessID uint   `json:"businessId" binding:"required"`
	Datetime   string `json:"datetime"`
	Duration   int    `json:"duration" binding:"gte=0"`
	Notes      string `json:"notes"`
}

type StatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ======================================================
// SLOTS
// ======================================================

func (h *SchedulingHandler) Slots(c *gin.Context) {
	businessID, err := uintQuery(c, "businessId")
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	slots, err := h.getSlots.Execute(c.Request.Context(), ucAppointment.GetSlotsInput{
		Date:       c.Query("date"),
		BusinessID: businessID,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	if slots == nil {
		slots = []time.Time{}
	}
	httpresp.OK(c, gin.H{"slots": slots})
}

// ======================================================
// BOOK
// ======================================================

func (h *SchedulingHandler) Book(c *gin.Context) {
	var req BookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "businessId and datetime are required")
		return
	}

	ap, err := h.createBook.Execute(c.Request.Context(), ucAppointment.CreateBookingInput{
		BusinessID:      req.BusinessID,
		Datetime:        req.Datetime,
		Duration:        req.Duration,
		Notes:           req.Notes,
		IsAutoScheduled: true,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Created(c, gin.H{
		"success": true,
		"booking": ap,
	})
}

func (h *SchedulingHandler) Booking(c *gin.Context) {
	businessID, err := uintParam(c, "businessId")
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	out, err := h.details.Execute(c.Request.Context(), businessID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, out)
}

func (h *SchedulingHandler) Link(c *gin.Context) {
	businessID, err := uintParam(c, "businessId")
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	out, err := h.link.Execute(c.Request.Context(), businessID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, out)
}

// ======================================================
// DASHBOARD
// ======================================================

func (h *SchedulingHandler) Appointments(c *gin.Context) {
	out, err := h.list.Execute(c.Request.Context(), domain.ListFilter{})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, out)
}

func (h *SchedulingHandler) UpdateStatus(c *gin.Context) {
	id, err := uintParam(c, "id")
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "status is required")
		return
	}

	ap, err := h.updateStatus.Execute(c.Request.Context(), id, req.Status)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, gin.H{
		"success":     true,
		"appointment": ap,
	})
}

func (h *SchedulingHandler) Analytics(c *gin.Context) {
	out, err := h.stats.Execute(c.Request.Context())
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, out)
}

// ----- export -----

func (h *SchedulingHandler) ExportDownload(c *gin.Context) {
	buf, name, err := h.report.Build(c.Request.Context())
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, export.ContentType, buf.Bytes())
}

func (h *SchedulingHandler) ExportUpload(c *gin.Context) {
	location, err := h.report.Upload(c.Request.Context())
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Created(c, gin.H{"location": location})
}
