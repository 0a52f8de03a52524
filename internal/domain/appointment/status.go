package appointment

import "github.com/BruksfildServices01/lead-scheduler/internal/domain"

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusNoShow    Status = "no-show"
	StatusCancelled Status = "cancelled"
)

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusConfirmed, StatusCompleted, StatusNoShow, StatusCancelled:
		return Status(s), nil
	}
	return "", domain.Invalid(
		"invalid_status",
		"Invalid status. Must be one of: confirmed, completed, no-show, cancelled",
	)
}

// Active reports whether the appointment still holds its slot.
func (s Status) Active() bool {
	return s != StatusCancelled
}

// ===============================
// Validations
// ===============================

// CanTransition rejects any change out of cancelled.
func CanTransition(from, to Status) error {
	if from == StatusCancelled && to != StatusCancelled {
		return domain.Invalid("appointment_cancelled", "Cancelled appointments cannot be changed")
	}
	return nil
}

func CanReschedule(current Status) error {
	if current == StatusCancelled {
		return domain.Invalid("appointment_cancelled", "Cancelled appointments cannot be rescheduled")
	}
	return nil
}

func InitialStatus() Status {
	return StatusConfirmed
}
