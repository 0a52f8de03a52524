package appointment

import (
	"context"
	"strings"
	"time"

	domain "github.com/BruksfildServices01/lead-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/lead-scheduler/internal/domain/availability"
	"github.com/BruksfildServices01/lead-scheduler/internal/httperr"
	"github.com/BruksfildServices01/lead-scheduler/internal/timezone"
)

type GetSlotsInput struct {
	Date string
	// BusinessID is optional; its score drives early access. Unknown ids
	// count as score 0.
	BusinessID uint
}

type GetSlots struct {
	repo     domain.Repository
	schedule availability.Repository
	settings Settings
}

func NewGetSlots(
	repo domain.Repository,
	schedule availability.Repository,
	settings Settings,
) *GetSlots {
	return &GetSlots{
		repo:     repo,
		schedule: schedule,
		settings: settings,
	}
}

// Execute returns the bookable start times for one date in chronological
// order. Past dates and closed days give an empty result.
func (uc *GetSlots) Execute(
	ctx context.Context,
	in GetSlotsInput,
) ([]time.Time, error) {

	loc := uc.settings.Location

	if strings.TrimSpace(in.Date) == "" {
		return nil, httperr.Validation("date_required", "Date parameter required")
	}
	day, err := timezone.ParseDate(in.Date, loc)
	if err != nil {
		return nil, httperr.Validation("invalid_date", "Invalid date (use YYYY-MM-DD)")
	}

	now := uc.settings.now()
	if day.Before(timezone.StartOfDay(now, loc)) {
		return []time.Time{}, nil
	}

	// --------------------------------------------------
	// Template minus blocked dates
	// --------------------------------------------------
	rules, err := uc.schedule.ListActiveRules(ctx, int(day.Weekday()))
	if err != nil {
		return nil, httperr.Internal("rules_lookup_failed", err)
	}
	if len(rules) == 0 {
		return []time.Time{}, nil
	}

	blocks, err := uc.schedule.ListBlockedDates(ctx, in.Date, in.Date)
	if err != nil {
		return nil, httperr.Internal("blocked_dates_lookup_failed", err)
	}

	candidates := availability.DaySlots(day, rules, blocks, uc.settings.SlotLength)
	if len(candidates) == 0 {
		return []time.Time{}, nil
	}

	// --------------------------------------------------
	// Exact-match exclusion of booked slots
	// --------------------------------------------------
	booked, err := uc.repo.ListActiveForDate(ctx, in.Date)
	if err != nil {
		return nil, httperr.Internal("appointments_lookup_failed", err)
	}
	taken := make(map[string]bool, len(booked))
	for _, ap := range booked {
		taken[ap.SlotTime] = true
	}

	open := make([]time.Time, 0, len(candidates))
	for _, s := range candidates {
		if s.Before(now) || taken[s.Format(timezone.ClockLayout)] {
			continue
		}
		open = append(open, s)
	}

	return uc.applyEarlyAccess(ctx, in.BusinessID, now, open)
}

func (uc *GetSlots) applyEarlyAccess(
	ctx context.Context,
	businessID uint,
	now time.Time,
	slots []time.Time,
) ([]time.Time, error) {

	policy := uc.settings.EarlyAccess
	if policy.ScoreThreshold <= 0 || len(slots) == 0 {
		return slots, nil
	}

	horizon := now.Add(policy.LeadIn)
	if !slots[0].Before(horizon) {
		return slots, nil
	}

	score, err := uc.requesterScore(ctx, businessID)
	if err != nil {
		return nil, err
	}
	if score >= policy.ScoreThreshold {
		return slots, nil
	}

	history, err := uc.repo.ListAppointments(ctx, domain.ListFilter{})
	if err != nil {
		return nil, httperr.Internal("appointments_lookup_failed", err)
	}
	popular := map[string]bool{}
	for _, hm := range domain.PopularTimes(history, policy.PopularSlots) {
		popular[hm] = true
	}

	out := make([]time.Time, 0, len(slots))
	for _, s := range slots {
		if s.Before(horizon) && !popular[s.Format(timezone.ClockLayout)] {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (uc *GetSlots) requesterScore(ctx context.Context, businessID uint) (int, error) {
	if businessID == 0 {
		return 0, nil
	}
	lead, err := getLead(ctx, uc.repo, businessID)
	if httperr.KindOf(err) == httperr.KindNotFound {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return lead.Score, nil
}
