package availability

import (
	"time"

	"github.com/BruksfildServices01/lead-scheduler/internal/domain"
	"github.com/BruksfildServices01/lead-scheduler/internal/models"
	"github.com/BruksfildServices01/lead-scheduler/internal/timezone"
)

func ValidateRule(r models.AvailabilityRule) error {
	if r.DayOfWeek < 0 || r.DayOfWeek > 6 {
		return domain.Invalid("invalid_day_of_week", "dayOfWeek must be between 0 and 6")
	}
	start, err := ParseClock(r.StartTime)
	if err != nil {
		return domain.Invalid("invalid_start_time", "Invalid start time format (use HH:mm)")
	}
	end, err := ParseClock(r.EndTime)
	if err != nil {
		return domain.Invalid("invalid_end_time", "Invalid end time format (use HH:mm)")
	}
	if start >= end {
		return domain.Invalid("invalid_time_range", "startTime must be before endTime")
	}
	return nil
}

// ValidateBlock checks the optional partial-day window of a blocked date.
// Both times or neither must be present.
func ValidateBlock(b models.BlockedDate) error {
	if _, err := timezone.ParseDate(b.Date, time.UTC); err != nil {
		return domain.Invalid("invalid_date", "Date is required (use YYYY-MM-DD)")
	}

	if b.StartTime != nil && !ValidClock(*b.StartTime) {
		return domain.Invalid("invalid_start_time", "Invalid start time format (use HH:mm)")
	}
	if b.EndTime != nil && !ValidClock(*b.EndTime) {
		return domain.Invalid("invalid_end_time", "Invalid end time format (use HH:mm)")
	}

	if (b.StartTime == nil) != (b.EndTime == nil) {
		return domain.Invalid("incomplete_time_range", "startTime and endTime must be given together")
	}

	if b.StartTime != nil {
		start, _ := ParseClock(*b.StartTime)
		end, _ := ParseClock(*b.EndTime)
		if start >= end {
			return domain.Invalid("invalid_time_range", "startTime must be before endTime")
		}
	}
	return nil
}
