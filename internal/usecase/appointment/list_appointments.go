package appointment

import (
	"context"

	domain "github.com/BruksfildServices01/lead-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/lead-scheduler/internal/dto"
	"github.com/BruksfildServices01/lead-scheduler/internal/httperr"
	"github.com/BruksfildServices01/lead-scheduler/internal/models"
)

type ListAppointments struct {
	repo domain.Repository
}

func NewListAppointments(repo domain.Repository) *ListAppointments {
	return &ListAppointments{repo: repo}
}

func (uc *ListAppointments) Execute(
	ctx context.Context,
	f domain.ListFilter,
) ([]dto.AppointmentWithLead, error) {

	if f.Status != "" {
		if _, err := domain.ParseStatus(f.Status); err != nil {
			return nil, err
		}
	}

	apps, err := uc.repo.ListAppointments(ctx, f)
	if err != nil {
		return nil, httperr.Internal("appointments_list_failed", err)
	}

	out := make([]dto.AppointmentWithLead, 0, len(apps))
	for _, ap := range apps {
		out = append(out, dto.NewAppointmentWithLead(ap))
	}
	return out, nil
}

// ListForBusiness is one lead's history, most recent first.
type ListForBusiness struct {
	repo domain.Repository
}

func NewListForBusiness(repo domain.Repository) *ListForBusiness {
	return &ListForBusiness{repo: repo}
}

func (uc *ListForBusiness) Execute(
	ctx context.Context,
	businessID uint,
) ([]models.Appointment, error) {

	if _, err := getLead(ctx, uc.repo, businessID); err != nil {
		return nil, err
	}

	apps, err := uc.repo.ListForLead(ctx, businessID)
	if err != nil {
		return nil, httperr.Internal("appointments_list_failed", err)
	}
	if apps == nil {
		apps = []models.Appointment{}
	}
	return apps, nil
}
