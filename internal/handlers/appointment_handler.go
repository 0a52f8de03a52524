package handlers

import (
	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/lead-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/lead-scheduler/internal/httperr"
	"github.com/BruksfildServices01/lead-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/lead-scheduler/internal/models"
	ucAppointment "github.com/BruksfildServices01/lead-scheduler/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

// AppointmentHandler is the CRM side of the ledger: manual bookings and
// edits made by staff.
type AppointmentHandler struct {
	createBook   *ucAppointment.CreateBooking
	reschedule   *ucAppointment.RescheduleBooking
	updateStatus *ucAppointment.UpdateStatus
	updateNotes  *ucAppointment.UpdateNotes
	cancel       *ucAppointment.CancelAppointment
	list         *ucAppointment.ListAppointments
	settings     ucAppointment.Settings
}

func NewAppointmentHandler(
	createBook *ucAppointment.CreateBooking,
	reschedule *ucAppointment.RescheduleBooking,
	updateStatus *ucAppointment.UpdateStatus,
	updateNotes *ucAppointment.UpdateNotes,
	cancel *ucAppointment.CancelAppointment,
	list *ucAppointment.ListAppointments,
	settings ucAppointment.Settings,
) *AppointmentHandler {
	return &AppointmentHandler{
		createBook:   createBook,
		reschedule:   reschedule,
		updateStatus: updateStatus,
		updateNotes:  updateNotes,
		cancel:       cancel,
		list:         list,
		settings:     settings,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	BusinessID      uint   `json:"businessId" binding:"required"`
	Datetime        string `json:"datetime"`
	Duration        int    `json:"duration" binding:"gte=0"`
	Notes           string `json:"notes"`
	IsAutoScheduled *bool  `json:"isAutoScheduled"`
}

// UpdateAppointmentRequest fields are applied in order: datetime, status, notes.
type UpdateAppointmentRequest struct {
	Datetime *string `json:"datetime"`
	Status   *string `json:"status"`
	Notes    *string `json:"notes"`
}

// ======================================================
// CREATE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "businessId and datetime are required")
		return
	}

	auto := false
	if req.IsAutoScheduled != nil {
		auto = *req.IsAutoScheduled
	}

	ap, err := h.createBook.Execute(c.Request.Context(), ucAppointment.CreateBookingInput{
		BusinessID:      req.BusinessID,
		Datetime:        req.Datetime,
		Duration:        req.Duration,
		Notes:           req.Notes,
		IsAutoScheduled: auto,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Created(c, ap)
}

// ======================================================
// LIST
// ======================================================

func (h *AppointmentHandler) List(c *gin.Context) {
	businessID, err := uintQuery(c, "businessId")
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	from, to, err := dayBoundsQuery(c, h.settings.Location)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	out, err := h.list.Execute(c.Request.Context(), domain.ListFilter{
		BusinessID: businessID,
		Status:     c.Query("status"),
		From:       from,
		To:         to,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, out)
}

// ======================================================
// UPDATE
// ======================================================

func (h *AppointmentHandler) Update(c *gin.Context) {
	id, err := uintParam(c, "id")
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	var req UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body")
		return
	}
	if req.Datetime == nil && req.Status == nil && req.Notes == nil {
		httperr.BadRequest(c, "empty_update", "Nothing to update")
		return
	}

	ctx := c.Request.Context()
	var ap *models.Appointment

	if req.Datetime != nil {
		if ap, err = h.reschedule.Execute(ctx, id, *req.Datetime); err != nil {
			httperr.Respond(c, err)
			return
		}
	}

	if req.Status != nil {
		if ap, err = h.updateStatus.Execute(ctx, id, *req.Status); err != nil {
			httperr.Respond(c, err)
			return
		}
	}

	if req.Notes != nil {
		if ap, err = h.updateNotes.Execute(ctx, id, *req.Notes); err != nil {
			httperr.Respond(c, err)
			return
		}
	}

	httpresp.OK(c, ap)
}

// ======================================================
// CANCEL
// ======================================================

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	id, err := uintParam(c, "id")
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	ap, err := h.cancel.Execute(c.Request.Context(), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, gin.H{
		"success":     true,
		"appointment": ap,
	})
}
