package appointment

import (
	"strings"
	"time"

	"github.com/BruksfildServices01/lead-scheduler/internal/domain"
	"github.com/BruksfildServices01/lead-scheduler/internal/timezone"
)

// zone-less layouts are read as business-local wall clock
var localLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// ParseDatetime accepts RFC 3339 (moved into loc) or a zone-less local
// date-time. Seconds and below are dropped.
func ParseDatetime(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, domain.Invalid("datetime_required", "datetime is required")
	}

	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.In(loc).Truncate(time.Minute), nil
	}

	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t.Truncate(time.Minute), nil
		}
	}

	return time.Time{}, domain.Invalid("invalid_datetime", "Invalid datetime format")
}

// SlotKey is the normalized identity of a booking start: date and HH:mm in loc.
func SlotKey(t time.Time, loc *time.Location) (date, hm string) {
	t = t.In(loc)
	return t.Format(timezone.DateLayout), t.Format(timezone.ClockLayout)
}

// DisplayTime renders a start time the way conflict messages show it.
func DisplayTime(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("3:04 PM")
}
