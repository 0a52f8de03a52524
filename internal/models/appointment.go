package models

import "time"

type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	BusinessID uint  `gorm:"not null;index" json:"businessId"`
	Lead       *Lead `gorm:"foreignKey:BusinessID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"-"`

	Datetime        time.Time `gorm:"not null" json:"datetime"`
	DurationMinutes int       `gorm:"not null;default:30" json:"durationMinutes"`

	// Normalized slot key in the business zone: YYYY-MM-DD and HH:mm.
	SlotDate string `gorm:"size:10;not null" json:"-"`
	SlotTime string `gorm:"size:5;not null" json:"-"`

	Status          string `gorm:"size:20;not null;default:'confirmed'" json:"status"`
	Notes           string `gorm:"type:text" json:"notes,omitempty"`
	IsAutoScheduled bool   `gorm:"not null;default:false" json:"isAutoScheduled"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Appointment) TableName() string {
	return "appointments"
}
