package appointment

import (
	"context"

	domain "github.com/BruksfildServices01/lead-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/lead-scheduler/internal/httperr"
	"github.com/BruksfildServices01/lead-scheduler/internal/models"
)

type UpdateNotes struct {
	repo domain.Repository
}

func NewUpdateNotes(repo domain.Repository) *UpdateNotes {
	return &UpdateNotes{repo: repo}
}

// Execute touches the notes column only; status and slot stay whatever the
// latest committed change left them.
func (uc *UpdateNotes) Execute(
	ctx context.Context,
	appointmentID uint,
	notes string,
) (*models.Appointment, error) {

	var ap *models.Appointment

	err := uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		current, err := getAppointment(ctx, tx, appointmentID)
		if err != nil {
			return err
		}
		if current.Notes == notes {
			ap = current
			return nil
		}

		if err := tx.UpdateAppointmentNotes(ctx, appointmentID, notes); err != nil {
			return err
		}

		ap, err = getAppointment(ctx, tx, appointmentID)
		return err
	})
	if err != nil {
		return nil, httperr.Wrap("notes_update_failed", err)
	}
	return ap, nil
}
