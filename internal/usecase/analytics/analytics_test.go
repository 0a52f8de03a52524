package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/lead-scheduler/internal/httperr"
	"github.com/BruksfildServices01/lead-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/lead-scheduler/internal/models"
)

func TestCompute(t *testing.T) {
	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	contacted := base.Add(-10 * time.Hour)
	lead := &models.Lead{ID: 1, FirstContactAt: &contacted, CreatedAt: base.Add(-100 * time.Hour)}
	fresh := &models.Lead{ID: 2, CreatedAt: base.Add(-5 * time.Hour)}

	apps := []models.Appointment{
		{SlotTime: "10:00", Status: "completed", Lead: lead, CreatedAt: base, IsAutoScheduled: true},
		{SlotTime: "10:00", Status: "completed", Lead: lead, CreatedAt: base},
		{SlotTime: "10:00", Status: "no-show", Lead: fresh, CreatedAt: base},
		{SlotTime: "14:00", Status: "confirmed", Lead: fresh, CreatedAt: base, IsAutoScheduled: true},
		{SlotTime: "09:00", Status: "cancelled", Lead: lead, CreatedAt: base},
	}

	s := Compute(apps)

	if s.TotalBookings != 4 {
		t.Errorf("total = %d", s.TotalBookings)
	}
	if s.AutoScheduledCount != 2 || s.ManualCount != 2 {
		t.Errorf("auto/manual = %d/%d", s.AutoScheduledCount, s.ManualCount)
	}
	if s.AppointmentBreakdown != (Breakdown{Confirmed: 1, Completed: 2, NoShow: 1}) {
		t.Errorf("breakdown = %+v", s.AppointmentBreakdown)
	}
	// 2 of 3 attended
	if s.ShowRate != 67 || s.NoShowRate != 33 {
		t.Errorf("rates = %d/%d", s.ShowRate, s.NoShowRate)
	}
	// (10 + 10 + 5 + 5) / 4
	if s.AvgTimeToBookingHours != 7.5 || s.AvgTimeToBooking != 7.5 {
		t.Errorf("avg hours = %v", s.AvgTimeToBookingHours)
	}
	if s.MostPopularTime != "10:00" {
		t.Errorf("most popular = %q", s.MostPopularTime)
	}
	if len(s.PopularSlots) != 2 {
		t.Fatalf("popular slots = %+v", s.PopularSlots)
	}
	if s.PopularSlots[0] != (PopularSlot{Time: "10:00", Scheduled: 3, Showed: 2, NoShow: 1}) {
		t.Errorf("top slot = %+v", s.PopularSlots[0])
	}
}

func TestCompute_Empty(t *testing.T) {
	s := Compute(nil)
	if s.TotalBookings != 0 || s.ShowRate != 0 || s.MostPopularTime != "" || s.PopularSlots == nil {
		t.Errorf("empty stats = %+v", s)
	}
}

type fakeUploader struct {
	name string
	size int
	err  error
}

func (f *fakeUploader) Upload(_ context.Context, name string, body []byte) (string, error) {
	f.name, f.size = name, len(body)
	return "s3://bucket/" + name, f.err
}

func TestExportReport(t *testing.T) {
	store := repository.NewMemoryStore()
	ctx := context.Background()

	uc := NewExportReport(store, nil, time.UTC, zap.NewNop())
	buf, name, err := uc.Build(ctx)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if buf.Len() == 0 || name == "" {
		t.Errorf("Build = %d bytes, %q", buf.Len(), name)
	}

	if _, err := uc.Upload(ctx); httperr.KindOf(err) != httperr.KindUnavailable {
		t.Errorf("upload without storage: err = %v", err)
	}

	up := &fakeUploader{}
	uc = NewExportReport(store, up, time.UTC, zap.NewNop())
	loc, err := uc.Upload(ctx)
	if err != nil || loc != "s3://bucket/"+up.name || up.size == 0 {
		t.Errorf("Upload = %q, %v (uploaded %q, %d bytes)", loc, err, up.name, up.size)
	}

	up.err = errors.New("denied")
	if _, err := uc.Upload(ctx); httperr.KindOf(err) != httperr.KindInternal {
		t.Errorf("failed upload: err = %v", err)
	}
}
