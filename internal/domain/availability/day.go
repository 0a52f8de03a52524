package availability

import (
	"time"

	"github.com/BruksfildServices01/lead-scheduler/internal/models"
	"github.com/BruksfildServices01/lead-scheduler/internal/timezone"
)

// DaySlots derives the candidate slot starts for day from the weekly rules
// and the blocked dates. day carries the business location. Rules for other
// weekdays, inactive rules and blocks for other dates are ignored.
func DaySlots(
	day time.Time,
	rules []models.AvailabilityRule,
	blocks []models.BlockedDate,
	step time.Duration,
) []time.Time {

	weekday := int(day.Weekday())
	date := day.Format(timezone.DateLayout)

	var open []Interval
	for _, r := range rules {
		if !r.Active || r.DayOfWeek != weekday {
			continue
		}
		start, err := OnDate(day, r.StartTime)
		if err != nil {
			continue
		}
		end, err := OnDate(day, r.EndTime)
		if err != nil || !end.After(start) {
			continue
		}
		open = append(open, Interval{Start: start, End: end})
	}
	if len(open) == 0 {
		return nil
	}

	var blocked []Interval
	for _, b := range blocks {
		if b.Date != date {
			continue
		}
		if b.WholeDay() {
			return nil
		}
		start, err := OnDate(day, *b.StartTime)
		if err != nil {
			continue
		}
		end, err := OnDate(day, *b.EndTime)
		if err != nil {
			continue
		}
		blocked = append(blocked, Interval{Start: start, End: end})
	}

	var slots []time.Time
	for _, iv := range Merge(open) {
		slots = append(slots, Partition(iv, step, blocked)...)
	}
	return slots
}
