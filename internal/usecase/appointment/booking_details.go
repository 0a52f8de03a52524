package appointment

import (
	"context"
	"fmt"

	domain "github.com/BruksfildServices01/lead-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/lead-scheduler/internal/dto"
	"github.com/BruksfildServices01/lead-scheduler/internal/httperr"
)

type GetBookingDetails struct {
	repo domain.Repository
}

func NewGetBookingDetails(repo domain.Repository) *GetBookingDetails {
	return &GetBookingDetails{repo: repo}
}

// Execute returns the lead's latest appointment that still holds a slot.
func (uc *GetBookingDetails) Execute(
	ctx context.Context,
	businessID uint,
) (*dto.AppointmentWithLead, error) {

	lead, err := getLead(ctx, uc.repo, businessID)
	if err != nil {
		return nil, err
	}

	apps, err := uc.repo.ListForLead(ctx, businessID)
	if err != nil {
		return nil, httperr.Internal("appointments_list_failed", err)
	}

	for _, ap := range apps {
		if !domain.Status(ap.Status).Active() {
			continue
		}
		ap.Lead = lead
		out := dto.NewAppointmentWithLead(ap)
		return &out, nil
	}

	return nil, httperr.NotFound("booking_not_found", "No booking found")
}

type SchedulingLink struct {
	Link         string `json:"link"`
	BusinessName string `json:"businessName"`
}

type GetSchedulingLink struct {
	repo     domain.Repository
	settings Settings
}

func NewGetSchedulingLink(repo domain.Repository, settings Settings) *GetSchedulingLink {
	return &GetSchedulingLink{repo: repo, settings: settings}
}

func (uc *GetSchedulingLink) Execute(
	ctx context.Context,
	businessID uint,
) (*SchedulingLink, error) {

	lead, err := getLead(ctx, uc.repo, businessID)
	if err != nil {
		return nil, err
	}

	return &SchedulingLink{
		Link:         fmt.Sprintf(uc.settings.SchedulingLink, lead.ID),
		BusinessName: lead.Name,
	}, nil
}
