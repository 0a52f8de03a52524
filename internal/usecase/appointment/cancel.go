package appointment

import (
	"context"

	domain "github.com/BruksfildServices01/lead-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/lead-scheduler/internal/models"
)

// CancelAppointment is the soft delete: the row stays with status cancelled.
type CancelAppointment struct {
	status *UpdateStatus
}

func NewCancelAppointment(status *UpdateStatus) *CancelAppointment {
	return &CancelAppointment{status: status}
}

func (uc *CancelAppointment) Execute(
	ctx context.Context,
	appointmentID uint,
) (*models.Appointment, error) {
	return uc.status.Execute(ctx, appointmentID, string(domain.StatusCancelled))
}
