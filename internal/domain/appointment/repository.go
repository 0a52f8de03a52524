package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/lead-scheduler/internal/models"
)

// ListFilter narrows ListAppointments; zero values mean "any".
type ListFilter struct {
	BusinessID uint
	Status     string
	From       *time.Time
	To         *time.Time
}

type Repository interface {
	// -------- Lead --------
	GetLead(
		ctx context.Context,
		id uint,
	) (*models.Lead, error)

	// UpdateLeadScheduling leaves stage untouched when it is empty.
	UpdateLeadScheduling(
		ctx context.Context,
		leadID uint,
		stage string,
		appointmentStatus string,
	) error

	// -------- Activity --------
	RecordActivity(
		ctx context.Context,
		a *models.Activity,
	) error

	ListActivities(
		ctx context.Context,
		leadID uint,
		limit int,
		offset int,
	) ([]models.Activity, int64, error)

	// -------- Appointment (create / conflict) --------
	// CreateAppointment returns ErrSlotTaken when storage rejects the slot.
	CreateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// FindActiveAtSlot returns nil, nil when the slot is free. excludeID
	// skips one appointment (0 skips none). The lead is preloaded.
	FindActiveAtSlot(
		ctx context.Context,
		date string,
		hm string,
		excludeID uint,
	) (*models.Appointment, error)

	// -------- Appointment (state change) --------
	GetAppointment(
		ctx context.Context,
		id uint,
	) (*models.Appointment, error)

	UpdateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// UpdateAppointmentNotes writes the notes column only, so it cannot undo
	// a concurrent status or slot change.
	UpdateAppointmentNotes(
		ctx context.Context,
		id uint,
		notes string,
	) error

	CountActiveForLead(
		ctx context.Context,
		leadID uint,
		excludeID uint,
	) (int64, error)

	// -------- Reads --------
	ListActiveForDate(
		ctx context.Context,
		date string,
	) ([]models.Appointment, error)

	// ListForLead orders by datetime, most recent first.
	ListForLead(
		ctx context.Context,
		leadID uint,
	) ([]models.Appointment, error)

	// ListAppointments preloads the lead, most recent first.
	ListAppointments(
		ctx context.Context,
		f ListFilter,
	) ([]models.Appointment, error)

	// Transaction runs fn against a repository bound to one unit of work.
	// Any error from fn rolls everything back.
	Transaction(
		ctx context.Context,
		fn func(tx Repository) error,
	) error
}
