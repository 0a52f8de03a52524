package models

import "time"

// BlockedDate without StartTime/EndTime blocks the whole day.
type BlockedDate struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Date      string  `gorm:"size:10;not null;index" json:"date"`
	StartTime *string `gorm:"size:5" json:"startTime,omitempty"`
	EndTime   *string `gorm:"size:5" json:"endTime,omitempty"`
	Reason    *string `json:"reason,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

func (BlockedDate) TableName() string {
	return "blocked_dates"
}

func (b BlockedDate) WholeDay() bool {
	return b.StartTime == nil || b.EndTime == nil
}
