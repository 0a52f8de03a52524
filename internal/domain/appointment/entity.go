package appointment

import (
	"time"

	"github.com/BruksfildServices01/lead-scheduler/internal/models"
)

// ===============================
// Domain Actions
// ===============================

func NewAppointment(
	businessID uint,
	start time.Time,
	durationMinutes int,
	notes string,
	auto bool,
	loc *time.Location,
) *models.Appointment {
	date, hm := SlotKey(start, loc)
	return &models.Appointment{
		BusinessID:      businessID,
		Datetime:        start.In(loc),
		DurationMinutes: durationMinutes,
		SlotDate:        date,
		SlotTime:        hm,
		Status:          string(InitialStatus()),
		Notes:           notes,
		IsAutoScheduled: auto,
	}
}

func Reschedule(ap *models.Appointment, start time.Time, loc *time.Location) error {
	if err := CanReschedule(Status(ap.Status)); err != nil {
		return err
	}

	ap.Datetime = start.In(loc)
	ap.SlotDate, ap.SlotTime = SlotKey(start, loc)
	return nil
}

// SetStatus reports false when the appointment already has the status.
func SetStatus(ap *models.Appointment, to Status) (bool, error) {
	from := Status(ap.Status)
	if from == to {
		return false, nil
	}
	if err := CanTransition(from, to); err != nil {
		return false, err
	}

	ap.Status = string(to)
	return true, nil
}
