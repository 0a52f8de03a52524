package appointment

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/lead-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/lead-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/lead-scheduler/internal/httperr"
	"github.com/BruksfildServices01/lead-scheduler/internal/infra/lock"
	"github.com/BruksfildServices01/lead-scheduler/internal/models"
)

const rescheduleLayout = "Jan 2, 3:04 PM"

type RescheduleBooking struct {
	repo     domain.Repository
	locker   lock.Locker
	audit    *audit.Dispatcher
	settings Settings
	log      *zap.Logger
}

func NewRescheduleBooking(
	repo domain.Repository,
	locker lock.Locker,
	audit *audit.Dispatcher,
	settings Settings,
	log *zap.Logger,
) *RescheduleBooking {
	return &RescheduleBooking{
		repo:     repo,
		locker:   locker,
		audit:    audit,
		settings: settings,
		log:      log,
	}
}

// Execute moves an appointment to a new start. The status is kept; moving
// onto the slot it already holds is a no-op.
func (uc *RescheduleBooking) Execute(
	ctx context.Context,
	appointmentID uint,
	datetime string,
) (*models.Appointment, error) {

	loc := uc.settings.Location

	start, err := domain.ParseDatetime(datetime, loc)
	if err != nil {
		return nil, err
	}

	current, err := getAppointment(ctx, uc.repo, appointmentID)
	if err != nil {
		return nil, err
	}
	if err := domain.CanReschedule(domain.Status(current.Status)); err != nil {
		return nil, err
	}

	date, hm := domain.SlotKey(start, loc)
	if current.SlotDate == date && current.SlotTime == hm {
		return current, nil
	}

	unlock, err := uc.locker.Lock(ctx, lock.SlotKey(date, hm))
	if errors.Is(err, lock.ErrNotAcquired) {
		return nil, slotConflict(ctx, uc.repo, uc.settings, start, appointmentID)
	}
	if err != nil {
		return nil, httperr.Internal("slot_lock_failed", err)
	}
	defer unlock()

	var (
		ap     *models.Appointment
		lead   *models.Lead
		events trail
	)

	err = uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		// re-read inside the unit of work
		var err error
		ap, err = getAppointment(ctx, tx, appointmentID)
		if err != nil {
			return err
		}
		old := ap.Datetime

		if err := domain.Reschedule(ap, start, loc); err != nil {
			return err
		}

		holder, err := tx.FindActiveAtSlot(ctx, date, hm, ap.ID)
		if err != nil {
			return err
		}
		if holder != nil {
			return holderConflict(holder, loc)
		}

		if err := tx.UpdateAppointment(ctx, ap); err != nil {
			return err
		}

		// moving a booking can change which one is latest
		lead, err = getLead(ctx, tx, ap.BusinessID)
		if err != nil {
			return err
		}
		if err := syncLead(ctx, tx, lead, ""); err != nil {
			return err
		}

		return events.record(ctx, tx, ap, models.ActivityAppointmentRescheduled,
			fmt.Sprintf("Appointment rescheduled from %s to %s",
				old.In(loc).Format(rescheduleLayout),
				start.In(loc).Format(rescheduleLayout),
			),
		)
	})

	if errors.Is(err, domain.ErrSlotTaken) {
		return nil, slotConflict(ctx, uc.repo, uc.settings, start, appointmentID)
	}
	if err != nil {
		return nil, httperr.Wrap("reschedule_failed", err)
	}

	events.flush(uc.audit)

	uc.log.Info("appointment rescheduled",
		zap.Uint("appointment_id", ap.ID),
		zap.String("slot", date+" "+hm),
	)

	ap.Lead = lead
	return ap, nil
}
