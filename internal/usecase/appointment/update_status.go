package appointment

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/lead-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/lead-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/lead-scheduler/internal/httperr"
	"github.com/BruksfildServices01/lead-scheduler/internal/infra/notify"
	"github.com/BruksfildServices01/lead-scheduler/internal/models"
)

type UpdateStatus struct {
	repo     domain.Repository
	sms      notify.Sender
	audit    *audit.Dispatcher
	settings Settings
	log      *zap.Logger
}

func NewUpdateStatus(
	repo domain.Repository,
	sms notify.Sender,
	audit *audit.Dispatcher,
	settings Settings,
	log *zap.Logger,
) *UpdateStatus {
	return &UpdateStatus{
		repo:     repo,
		sms:      sms,
		audit:    audit,
		settings: settings,
		log:      log,
	}
}

// Execute moves an appointment to status and refreshes the lead's mirror of
// its latest appointment.
// Repeating the current status changes nothing.
func (uc *UpdateStatus) Execute(
	ctx context.Context,
	appointmentID uint,
	status string,
) (*models.Appointment, error) {

	to, err := domain.ParseStatus(status)
	if err != nil {
		return nil, err
	}

	var (
		ap      *models.Appointment
		lead    *models.Lead
		changed bool
		events  trail
	)

	err = uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		var err error
		ap, err = getAppointment(ctx, tx, appointmentID)
		if err != nil {
			return err
		}

		changed, err = domain.SetStatus(ap, to)
		if err != nil || !changed {
			return err
		}

		if err := tx.UpdateAppointment(ctx, ap); err != nil {
			return err
		}

		lead, err = getLead(ctx, tx, ap.BusinessID)
		if err != nil {
			return err
		}

		switch to {
		case domain.StatusCancelled:
			return uc.cancelled(ctx, tx, ap, lead, &events)
		case domain.StatusNoShow:
			return uc.noShow(ctx, tx, ap, lead, &events)
		default:
			if err := syncLead(ctx, tx, lead, ""); err != nil {
				return err
			}
			return events.record(ctx, tx, ap, models.ActivityAppointmentStatus,
				fmt.Sprintf("Appointment marked as %s", to),
			)
		}
	})
	if err != nil {
		return nil, httperr.Wrap("status_update_failed", err)
	}
	if !changed {
		return ap, nil
	}

	events.flush(uc.audit)

	if to == domain.StatusNoShow {
		uc.sendRebookSMS(ctx, lead)
	}

	uc.log.Info("appointment status updated",
		zap.Uint("appointment_id", ap.ID),
		zap.String("status", string(to)),
	)

	ap.Lead = lead
	return ap, nil
}

// cancelled demotes the lead out of scheduled once nothing active is left.
func (uc *UpdateStatus) cancelled(
	ctx context.Context,
	tx domain.Repository,
	ap *models.Appointment,
	lead *models.Lead,
	events *trail,
) error {

	remaining, err := tx.CountActiveForLead(ctx, lead.ID, ap.ID)
	if err != nil {
		return err
	}

	stage := ""
	if remaining == 0 && lead.Stage == models.StageScheduled {
		stage = models.StageContacted
	}

	if err := syncLead(ctx, tx, lead, stage); err != nil {
		return err
	}

	return events.record(ctx, tx, ap, models.ActivityAppointmentCancelled, "Appointment cancelled")
}

// noShow keeps the stage and queues the rebooking text.
func (uc *UpdateStatus) noShow(
	ctx context.Context,
	tx domain.Repository,
	ap *models.Appointment,
	lead *models.Lead,
	events *trail,
) error {

	if err := syncLead(ctx, tx, lead, ""); err != nil {
		return err
	}

	if err := events.record(ctx, tx, ap, models.ActivityNoShow,
		fmt.Sprintf("Appointment marked as %s", domain.StatusNoShow),
	); err != nil {
		return err
	}

	return events.record(ctx, tx, ap, models.ActivitySMSSent, "Auto-reschedule message sent after no-show")
}

// sendRebookSMS runs after commit; a delivery failure is logged, not returned.
func (uc *UpdateStatus) sendRebookSMS(ctx context.Context, lead *models.Lead) {
	if uc.sms == nil || lead.Phone == "" {
		return
	}

	link := fmt.Sprintf(uc.settings.RebookURL, lead.ID)
	body := notify.RebookMessage(lead.Name, link)

	if err := uc.sms.Send(ctx, lead.Phone, body); err != nil {
		uc.log.Warn("rebook sms failed",
			zap.Uint("business_id", lead.ID),
			zap.String("provider", uc.sms.ProviderID()),
			zap.Error(err),
		)
	}
}
