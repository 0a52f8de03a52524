package appointment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/lead-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/lead-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/lead-scheduler/internal/httperr"
	"github.com/BruksfildServices01/lead-scheduler/internal/infra/lock"
	"github.com/BruksfildServices01/lead-scheduler/internal/models"
)

// ======================================================
// INPUT
// ======================================================

type CreateBookingInput struct {
	BusinessID uint
	Datetime   string
	// Duration in minutes; zero takes the configured default.
	Duration        int
	Notes           string
	IsAutoScheduled bool
}

// ======================================================
// USE CASE
// ======================================================

type CreateBooking struct {
	repo     domain.Repository
	locker   lock.Locker
	audit    *audit.Dispatcher
	settings Settings
	log      *zap.Logger
}

func NewCreateBooking(
	repo domain.Repository,
	locker lock.Locker,
	audit *audit.Dispatcher,
	settings Settings,
	log *zap.Logger,
) *CreateBooking {
	return &CreateBooking{
		repo:     repo,
		locker:   locker,
		audit:    audit,
		settings: settings,
		log:      log,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateBooking) Execute(
	ctx context.Context,
	in CreateBookingInput,
) (*models.Appointment, error) {

	loc := uc.settings.Location

	// --------------------------------------------------
	// 1. Input
	// --------------------------------------------------
	if in.BusinessID == 0 || strings.TrimSpace(in.Datetime) == "" {
		return nil, httperr.Validation("missing_fields", "businessId and datetime required")
	}
	start, err := domain.ParseDatetime(in.Datetime, loc)
	if err != nil {
		return nil, err
	}
	if in.Duration < 0 {
		return nil, httperr.Validation("invalid_duration", "duration must be positive")
	}
	duration := in.Duration
	if duration == 0 {
		duration = uc.settings.DefaultDuration
	}

	// --------------------------------------------------
	// 2. Lead
	// --------------------------------------------------
	lead, err := getLead(ctx, uc.repo, in.BusinessID)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 3. Slot critical section
	// --------------------------------------------------
	date, hm := domain.SlotKey(start, loc)
	unlock, err := uc.locker.Lock(ctx, lock.SlotKey(date, hm))
	if errors.Is(err, lock.ErrNotAcquired) {
		return nil, slotConflict(ctx, uc.repo, uc.settings, start, 0)
	}
	if err != nil {
		return nil, httperr.Internal("slot_lock_failed", err)
	}
	defer unlock()

	// --------------------------------------------------
	// 4. Conflict check + insert + lead update, one unit
	// --------------------------------------------------
	ap := domain.NewAppointment(lead.ID, start, duration, in.Notes, in.IsAutoScheduled, loc)
	var events trail

	err = uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		holder, err := tx.FindActiveAtSlot(ctx, date, hm, 0)
		if err != nil {
			return err
		}
		if holder != nil {
			return holderConflict(holder, loc)
		}

		if err := tx.CreateAppointment(ctx, ap); err != nil {
			return err
		}

		if err := syncLead(ctx, tx, lead, models.StageScheduled); err != nil {
			return err
		}

		return events.record(ctx, tx, ap, models.ActivityAppointmentCreated,
			fmt.Sprintf("Appointment scheduled for %s", start.In(loc).Format("Jan 2, 2006 at 3:04 PM")),
		)
	})

	if errors.Is(err, domain.ErrSlotTaken) {
		return nil, slotConflict(ctx, uc.repo, uc.settings, start, 0)
	}
	if err != nil {
		return nil, httperr.Wrap("booking_failed", err)
	}

	// --------------------------------------------------
	// 5. Audit after commit
	// --------------------------------------------------
	events.flush(uc.audit)

	uc.log.Info("appointment booked",
		zap.Uint("appointment_id", ap.ID),
		zap.Uint("business_id", lead.ID),
		zap.String("slot", date+" "+hm),
		zap.Bool("auto", in.IsAutoScheduled),
	)

	ap.Lead = lead
	return ap, nil
}
