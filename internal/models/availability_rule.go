package models

import "time"

type AvailabilityRule struct {
	ID uint `gorm:"primaryKey" json:"id"`

	DayOfWeek int    `gorm:"not null;index" json:"dayOfWeek"`
	StartTime string `gorm:"size:5;not null" json:"startTime"`
	EndTime   string `gorm:"size:5;not null" json:"endTime"`
	Active    bool   `gorm:"not null;default:true" json:"active"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (AvailabilityRule) TableName() string {
	return "availability_rules"
}
