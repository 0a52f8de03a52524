package analytics

import (
	"context"
	"math"
	"sort"
	"time"

	domain "github.com/BruksfildServices01/lead-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/lead-scheduler/internal/httperr"
	"github.com/BruksfildServices01/lead-scheduler/internal/models"
)

const maxPopularSlots = 10

type Breakdown struct {
	Confirmed int `json:"confirmed"`
	Completed int `json:"completed"`
	NoShow    int `json:"noShow"`
}

type PopularSlot struct {
	Time      string `json:"time"`
	Scheduled int    `json:"scheduled"`
	Showed    int    `json:"showed"`
	NoShow    int    `json:"noShow"`
}

type Stats struct {
	TotalBookings         int     `json:"totalBookings"`
	ShowRate              int     `json:"showRate"`
	NoShowRate            int     `json:"noShowRate"`
	AvgTimeToBookingHours float64 `json:"avgTimeToBookingHours"`
	// AvgTimeToBooking repeats the hours under the name the dashboard reads.
	AvgTimeToBooking     float64       `json:"avgTimeToBooking"`
	AutoScheduledCount   int           `json:"autoScheduledCount"`
	ManualCount          int           `json:"manualCount"`
	AppointmentBreakdown Breakdown     `json:"appointmentBreakdown"`
	PopularSlots         []PopularSlot `json:"popularSlots"`
	MostPopularTime      string        `json:"mostPopularTime"`
}

type GetSchedulingStats struct {
	repo domain.Repository
}

func NewGetSchedulingStats(repo domain.Repository) *GetSchedulingStats {
	return &GetSchedulingStats{repo: repo}
}

func (uc *GetSchedulingStats) Execute(ctx context.Context) (*Stats, error) {
	apps, err := uc.repo.ListAppointments(ctx, domain.ListFilter{})
	if err != nil {
		return nil, httperr.Internal("analytics_failed", err)
	}
	return Compute(apps), nil
}

// Compute derives the stats from the full ledger. Cancelled appointments
// are ignored throughout.
func Compute(apps []models.Appointment) *Stats {
	s := &Stats{PopularSlots: []PopularSlot{}}

	slots := map[string]*PopularSlot{}
	var waitSum float64
	var waitN int

	for _, ap := range apps {
		status := domain.Status(ap.Status)
		if !status.Active() {
			continue
		}

		s.TotalBookings++
		if ap.IsAutoScheduled {
			s.AutoScheduledCount++
		} else {
			s.ManualCount++
		}

		slot := slots[ap.SlotTime]
		if slot == nil {
			slot = &PopularSlot{Time: ap.SlotTime}
			slots[ap.SlotTime] = slot
		}
		slot.Scheduled++

		switch status {
		case domain.StatusConfirmed:
			s.AppointmentBreakdown.Confirmed++
		case domain.StatusCompleted:
			s.AppointmentBreakdown.Completed++
			slot.Showed++
		case domain.StatusNoShow:
			s.AppointmentBreakdown.NoShow++
			slot.NoShow++
		}

		if h, ok := hoursToBook(ap); ok {
			waitSum += h
			waitN++
		}
	}

	attended := s.AppointmentBreakdown.Completed + s.AppointmentBreakdown.NoShow
	if attended > 0 {
		s.ShowRate = percent(s.AppointmentBreakdown.Completed, attended)
		s.NoShowRate = percent(s.AppointmentBreakdown.NoShow, attended)
	}

	if waitN > 0 {
		s.AvgTimeToBookingHours = math.Round(waitSum/float64(waitN)*10) / 10
		s.AvgTimeToBooking = s.AvgTimeToBookingHours
	}

	for _, slot := range slots {
		s.PopularSlots = append(s.PopularSlots, *slot)
	}
	sort.Slice(s.PopularSlots, func(i, j int) bool {
		a, b := s.PopularSlots[i], s.PopularSlots[j]
		if a.Scheduled != b.Scheduled {
			return a.Scheduled > b.Scheduled
		}
		return a.Time < b.Time
	})
	if len(s.PopularSlots) > maxPopularSlots {
		s.PopularSlots = s.PopularSlots[:maxPopularSlots]
	}
	if len(s.PopularSlots) > 0 {
		s.MostPopularTime = s.PopularSlots[0].Time
	}

	return s
}

// hoursToBook measures from first contact, or lead creation when the lead
// was never contacted, to the booking.
func hoursToBook(ap models.Appointment) (float64, bool) {
	if ap.Lead == nil {
		return 0, false
	}

	var from time.Time
	switch {
	case ap.Lead.FirstContactAt != nil:
		from = *ap.Lead.FirstContactAt
	case !ap.Lead.CreatedAt.IsZero():
		from = ap.Lead.CreatedAt
	default:
		return 0, false
	}

	d := ap.CreatedAt.Sub(from)
	if d < 0 {
		d = 0
	}
	return d.Hours(), true
}

func percent(part, whole int) int {
	return int(math.Round(float64(part) * 100 / float64(whole)))
}
