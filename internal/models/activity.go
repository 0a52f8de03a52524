package models

import "time"

type Activity struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Type        string `gorm:"not null" json:"type"`
	Description string `gorm:"not null" json:"description"`
	BusinessID  uint   `gorm:"index" json:"businessId"`

	CreatedAt time.Time `json:"createdAt"`
}

func (Activity) TableName() string {
	return "activities"
}

const (
	ActivityAppointmentCreated     = "appointment_created"
	ActivityAppointmentRescheduled = "appointment_rescheduled"
	ActivityAppointmentCancelled   = "appointment_cancelled"
	ActivityAppointmentStatus      = "appointment_status_updated"
	ActivityNoShow                 = "no_show"
	ActivitySMSSent                = "sms_sent"
)
