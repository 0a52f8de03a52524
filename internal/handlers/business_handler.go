package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/lead-scheduler/internal/httperr"
	"github.com/BruksfildServices01/lead-scheduler/internal/httpresp"
	ucAppointment "github.com/BruksfildServices01/lead-scheduler/internal/usecase/appointment"
)

// BusinessHandler exposes per-lead scheduling history.
type BusinessHandler struct {
	appointments *ucAppointment.ListForBusiness
	activities   *ucAppointment.ListActivities
}

func NewBusinessHandler(
	appointments *ucAppointment.ListForBusiness,
	activities *ucAppointment.ListActivities,
) *BusinessHandler {
	return &BusinessHandler{
		appointments: appointments,
		activities:   activities,
	}
}

func (h *BusinessHandler) Appointments(c *gin.Context) {
	id, err := uintParam(c, "id")
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	out, err := h.appointments.Execute(c.Request.Context(), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, out)
}

func (h *BusinessHandler) Activities(c *gin.Context) {
	id, err := uintParam(c, "id")
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	out, err := h.activities.Execute(
		c.Request.Context(),
		id,
		intQuery(c, "page", 1),
		intQuery(c, "limit", 0),
	)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, out)
}
