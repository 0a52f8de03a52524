package availability

import (
	"fmt"
	"regexp"
	"time"
)

var clockPattern = regexp.MustCompile(`^\d{2}:\d{2}$`)

// ParseClock parses a strict HH:mm wall-clock value into minutes after midnight.
func ParseClock(hm string) (int, error) {
	if !clockPattern.MatchString(hm) {
		return 0, fmt.Errorf("invalid time %q (use HH:mm)", hm)
	}
	t, err := time.Parse("15:04", hm)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q (use HH:mm)", hm)
	}
	return t.Hour()*60 + t.Minute(), nil
}

func ValidClock(hm string) bool {
	_, err := ParseClock(hm)
	return err == nil
}

// OnDate places an HH:mm value on day's calendar date in day's location.
func OnDate(day time.Time, hm string) (time.Time, error) {
	minutes, err := ParseClock(hm)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(
		day.Year(), day.Month(), day.Day(),
		minutes/60, minutes%60, 0, 0,
		day.Location(),
	), nil
}
