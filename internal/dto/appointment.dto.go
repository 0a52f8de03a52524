package dto

import (
	"time"

	"github.com/BruksfildServices01/lead-scheduler/internal/models"
)

// AppointmentWithLead is an appointment joined with the lead fields the
// calendar views display.
type AppointmentWithLead struct {
	ID              uint      `json:"id"`
	BusinessID      uint      `json:"businessId"`
	Datetime        time.Time `json:"datetime"`
	DurationMinutes int       `json:"durationMinutes"`
	Status          string    `json:"status"`
	Notes           string    `json:"notes,omitempty"`
	IsAutoScheduled bool      `json:"isAutoScheduled"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`

	BusinessName  string `json:"businessName"`
	BusinessPhone string `json:"businessPhone"`
	BusinessEmail string `json:"businessEmail,omitempty"`
	BusinessStage string `json:"businessStage"`
	BusinessScore int    `json:"businessScore"`
}

func NewAppointmentWithLead(ap models.Appointment) AppointmentWithLead {
	out := AppointmentWithLead{
		ID:              ap.ID,
		BusinessID:      ap.BusinessID,
		Datetime:        ap.Datetime,
		DurationMinutes: ap.DurationMinutes,
		Status:          ap.Status,
		Notes:           ap.Notes,
		IsAutoScheduled: ap.IsAutoScheduled,
		CreatedAt:       ap.CreatedAt,
		UpdatedAt:       ap.UpdatedAt,
	}
	if ap.Lead != nil {
		out.BusinessName = ap.Lead.Name
		out.BusinessPhone = ap.Lead.Phone
		out.BusinessEmail = ap.Lead.Email
		out.BusinessStage = ap.Lead.Stage
		out.BusinessScore = ap.Lead.Score
	}
	return out
}

type ActivityPage struct {
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	Total      int64             `json:"total"`
	Activities []models.Activity `json:"activities"`
}
