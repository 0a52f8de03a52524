package appointment

import (
	"context"
	"errors"
	"time"

	"github.com/BruksfildServices01/lead-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/lead-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/lead-scheduler/internal/httperr"
	"github.com/BruksfildServices01/lead-scheduler/internal/models"
)

// Settings carries the business-wide scheduling knobs shared by the use cases.
type Settings struct {
	Location        *time.Location
	SlotLength      time.Duration
	DefaultDuration int

	// RebookURL and SchedulingLink take the lead id through %d.
	RebookURL      string
	SchedulingLink string

	EarlyAccess EarlyAccess

	// Now is replaced in tests.
	Now func() time.Time
}

// EarlyAccess hides near-term slots from leads scoring below ScoreThreshold,
// except at the PopularSlots most booked times. ScoreThreshold <= 0 turns
// the policy off.
type EarlyAccess struct {
	ScoreThreshold int
	LeadIn         time.Duration
	PopularSlots   int
}

func (s Settings) now() time.Time {
	if s.Now != nil {
		return s.Now().In(s.Location)
	}
	return time.Now().In(s.Location)
}

// ======================================================
// Activity trail
// ======================================================

// trail writes activities inside a transaction and remembers them so they
// can be dispatched once the transaction has committed.
type trail struct {
	events []audit.Event
}

func (t *trail) record(
	ctx context.Context,
	tx domain.Repository,
	ap *models.Appointment,
	kind string,
	description string,
) error {

	a := &models.Activity{
		Type:        kind,
		Description: description,
		BusinessID:  ap.BusinessID,
	}
	if err := tx.RecordActivity(ctx, a); err != nil {
		return err
	}

	t.events = append(t.events, audit.Event{
		BusinessID:  ap.BusinessID,
		Action:      kind,
		Entity:      "appointment",
		EntityID:    ap.ID,
		Description: description,
		OccurredAt:  a.CreatedAt,
	})
	return nil
}

func (t *trail) flush(d *audit.Dispatcher) {
	if d == nil {
		return
	}
	for _, ev := range t.events {
		d.Dispatch(ev)
	}
}

// ======================================================
// Shared lookups
// ======================================================

func getLead(ctx context.Context, repo domain.Repository, id uint) (*models.Lead, error) {
	lead, err := repo.GetLead(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, httperr.NotFound("business_not_found", "Business not found")
	}
	if err != nil {
		return nil, httperr.Internal("lead_lookup_failed", err)
	}
	return lead, nil
}

func getAppointment(ctx context.Context, repo domain.Repository, id uint) (*models.Appointment, error) {
	ap, err := repo.GetAppointment(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, httperr.NotFound("appointment_not_found", "Appointment not found")
	}
	if err != nil {
		return nil, httperr.Internal("appointment_lookup_failed", err)
	}
	return ap, nil
}

// syncLead re-derives the lead's appointment status from its whole ledger,
// inside tx, and moves the stage when one is given.
func syncLead(ctx context.Context, tx domain.Repository, lead *models.Lead, stage string) error {
	apps, err := tx.ListForLead(ctx, lead.ID)
	if err != nil {
		return err
	}

	status := domain.LeadStatus(apps)
	if err := tx.UpdateLeadScheduling(ctx, lead.ID, stage, status); err != nil {
		return err
	}

	if stage != "" {
		lead.Stage = stage
	}
	lead.AppointmentStatus = status
	return nil
}

// slotConflict builds the 409 for a taken slot, naming its current holder
// when one can still be found.
func slotConflict(
	ctx context.Context,
	repo domain.Repository,
	s Settings,
	start time.Time,
	excludeID uint,
) error {

	date, hm := domain.SlotKey(start, s.Location)
	holder, err := repo.FindActiveAtSlot(ctx, date, hm, excludeID)
	if err == nil && holder != nil {
		return holderConflict(holder, s.Location)
	}

	return httperr.Conflict(httperr.ConflictInfo{Time: domain.DisplayTime(start, s.Location)})
}

func holderConflict(holder *models.Appointment, loc *time.Location) error {
	info := httperr.ConflictInfo{Time: domain.DisplayTime(holder.Datetime, loc)}
	if holder.Lead != nil {
		info.BusinessName = holder.Lead.Name
	}
	return httperr.Conflict(info)
}
