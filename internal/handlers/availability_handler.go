package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/lead-scheduler/internal/httperr"
	"github.com/BruksfildServices01/lead-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/lead-scheduler/internal/models"
	ucAvailability "github.com/BruksfildServices01/lead-scheduler/internal/usecase/availability"
)

// AvailabilityHandler owns the weekly template and its blocked-date overrides.
type AvailabilityHandler struct {
	getTemplate     *ucAvailability.GetTemplate
	replaceTemplate *ucAvailability.ReplaceTemplate
	listBlocked     *ucAvailability.ListBlockedDates
	addBlocked      *ucAvailability.AddBlockedDate
	removeBlocked   *ucAvailability.RemoveBlockedDate
}

func NewAvailabilityHandler(
	getTemplate *ucAvailability.GetTemplate,
	replaceTemplate *ucAvailability.ReplaceTemplate,
	listBlocked *ucAvailability.ListBlockedDates,
	addBlocked *ucAvailability.AddBlockedDate,
	removeBlocked *ucAvailability.RemoveBlockedDate,
) *AvailabilityHandler {
	return &AvailabilityHandler{
		getTemplate:     getTemplate,
		replaceTemplate: replaceTemplate,
		listBlocked:     listBlocked,
		addBlocked:      addBlocked,
		removeBlocked:   removeBlocked,
	}
}

type AvailabilityRuleRequest struct {
	DayOfWeek int    `json:"dayOfWeek" binding:"min=0,max=6"`
	StartTime string `json:"startTime" binding:"required"`
	EndTime   string `json:"endTime" binding:"required"`
	Active    *bool  `json:"active"`
}

type BlockedDateRequest struct {
	Date      string  `json:"date" binding:"required"`
	StartTime *string `json:"startTime"`
	EndTime   *string `json:"endTime"`
	Reason    *string `json:"reason"`
}

// ----- weekly template -----

func (h *AvailabilityHandler) GetTemplate(c *gin.Context) {
	rules, err := h.getTemplate.Execute(c.Request.Context())
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, rules)
}

// ReplaceTemplate takes the whole week as a JSON array.
func (h *AvailabilityHandler) ReplaceTemplate(c *gin.Context) {
	var req []AvailabilityRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Body must be a list of availability rules")
		return
	}

	rules := make([]models.AvailabilityRule, 0, len(req))
	for _, r := range req {
		active := true
		if r.Active != nil {
			active = *r.Active
		}
		rules = append(rules, models.AvailabilityRule{
			DayOfWeek: r.DayOfWeek,
			StartTime: r.StartTime,
			EndTime:   r.EndTime,
			Active:    active,
		})
	}

	saved, err := h.replaceTemplate.Execute(c.Request.Context(), rules)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, gin.H{
		"success": true,
		"rules":   saved,
	})
}

// ----- blocked dates -----

func (h *AvailabilityHandler) ListBlocked(c *gin.Context) {
	out, err := h.listBlocked.Execute(c.Request.Context(), c.Query("from"), c.Query("to"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, out)
}

func (h *AvailabilityHandler) AddBlocked(c *gin.Context) {
	var req BlockedDateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "date_required", "Date is required")
		return
	}

	out, err := h.addBlocked.Execute(c.Request.Context(), ucAvailability.AddBlockedDateInput{
		Date:      req.Date,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Reason:    req.Reason,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Created(c, out)
}

func (h *AvailabilityHandler) RemoveBlocked(c *gin.Context) {
	id, err := uintParam(c, "id")
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	if err := h.removeBlocked.Execute(c.Request.Context(), id); err != nil {
		httperr.Respond(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
