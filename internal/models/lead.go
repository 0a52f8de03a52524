package models

import "time"

// Lead is owned by the CRM; scheduling only reads it and updates the
// stage/appointment-status pair.
type Lead struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Name  string `gorm:"not null" json:"name"`
	Phone string `gorm:"not null" json:"phone"`
	Email string `json:"email,omitempty"`

	Stage             string `gorm:"not null;default:'scraped'" json:"stage"`
	Score             int    `gorm:"default:0" json:"score"`
	AppointmentStatus string `json:"appointmentStatus,omitempty"`

	FirstContactAt  *time.Time `json:"firstContactAt,omitempty"`
	LastContactDate *time.Time `json:"lastContactDate,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

func (Lead) TableName() string {
	return "businesses"
}

// Pipeline stages touched by scheduling.
const (
	StageContacted = "contacted"
	StageScheduled = "scheduled"
)
