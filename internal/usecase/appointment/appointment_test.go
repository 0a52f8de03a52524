package appointment

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/lead-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/lead-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/lead-scheduler/internal/httperr"
	"github.com/BruksfildServices01/lead-scheduler/internal/infra/lock"
	"github.com/BruksfildServices01/lead-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/lead-scheduler/internal/models"
)

// ======================================================
// Fixtures
// ======================================================

type fakeSMS struct {
	mu   sync.Mutex
	sent []string
	err  error
}

func (f *fakeSMS) Send(_ context.Context, to, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, to+": "+body)
	return f.err
}

func (f *fakeSMS) ProviderID() string { return "fake" }

type fixture struct {
	store    *repository.MemoryStore
	settings Settings
	sms      *fakeSMS
	audit    *audit.Dispatcher
	loc      *time.Location
	now      time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	f := &fixture{
		store: repository.NewMemoryStore(),
		sms:   &fakeSMS{},
		audit: audit.NewDispatcher(zap.NewNop()),
		loc:   loc,
		// Friday morning before the test Monday
		now: time.Date(2025, 6, 13, 8, 0, 0, 0, loc),
	}
	f.settings = Settings{
		Location:        loc,
		SlotLength:      30 * time.Minute,
		DefaultDuration: 30,
		RebookURL:       "https://example.com/schedule?lead_id=%d",
		SchedulingLink:  "https://example.com/schedule?lead_id=%d",
		EarlyAccess:     EarlyAccess{ScoreThreshold: 80, LeadIn: 24 * time.Hour, PopularSlots: 3},
		Now:             func() time.Time { return f.now },
	}

	t.Cleanup(func() { _ = f.audit.Close(context.Background()) })
	return f
}

// seedLeads creates n leads with ids 1..n.
func (f *fixture) seedLeads(n int) {
	names := []string{"Acme Plumbing", "Bay Roofing", "Cedar Dental", "Delta Auto", "Evergreen Landscaping", "Fox Bakery", "Granite Works"}
	for i := 0; i < n; i++ {
		f.store.SeedLead(models.Lead{
			Name:  names[i%len(names)],
			Phone: "+1555000000" + string(rune('0'+i)),
			Stage: models.StageContacted,
		})
	}
}

func (f *fixture) mondayTemplate(t *testing.T) {
	t.Helper()
	err := f.store.ReplaceRules(context.Background(), []models.AvailabilityRule{
		{DayOfWeek: 1, StartTime: "09:00", EndTime: "12:00", Active: true},
	})
	if err != nil {
		t.Fatal(err)
	}
}

func (f *fixture) createBooking() *CreateBooking {
	return NewCreateBooking(f.store, lock.NewLocalLocker(), f.audit, f.settings, zap.NewNop())
}

func (f *fixture) updateStatus() *UpdateStatus {
	return NewUpdateStatus(f.store, f.sms, f.audit, f.settings, zap.NewNop())
}

func (f *fixture) book(t *testing.T, businessID uint, datetime string) *models.Appointment {
	t.Helper()
	ap, err := f.createBooking().Execute(context.Background(), CreateBookingInput{
		BusinessID: businessID,
		Datetime:   datetime,
	})
	if err != nil {
		t.Fatalf("book %d at %s: %v", businessID, datetime, err)
	}
	return ap
}

func (f *fixture) activitiesOf(leadID uint, kind string) int {
	n := 0
	for _, a := range f.store.Activities() {
		if a.BusinessID == leadID && a.Type == kind {
			n++
		}
	}
	return n
}

func clocks(slots []time.Time) []string {
	out := make([]string, 0, len(slots))
	for _, s := range slots {
		out = append(out, s.Format("15:04"))
	}
	return out
}

func sameClocks(got []time.Time, want ...string) bool {
	c := clocks(got)
	if len(c) != len(want) {
		return false
	}
	for i := range c {
		if c[i] != want[i] {
			return false
		}
	}
	return true
}

// ======================================================
// Slots
// ======================================================

func TestGetSlots_MondayTemplate(t *testing.T) {
	f := newFixture(t)
	f.mondayTemplate(t)

	slots, err := NewGetSlots(f.store, f.store, f.settings).Execute(context.Background(), GetSlotsInput{Date: "2025-06-16"})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !sameClocks(slots, "09:00", "09:30", "10:00", "10:30", "11:00", "11:30") {
		t.Errorf("slots = %v", clocks(slots))
	}
	if slots[0].Location() != f.loc {
		t.Errorf("slot location = %v", slots[0].Location())
	}
}

func TestGetSlots_EmptyCases(t *testing.T) {
	f := newFixture(t)
	f.mondayTemplate(t)
	uc := NewGetSlots(f.store, f.store, f.settings)
	ctx := context.Background()

	// past date
	if slots, err := uc.Execute(ctx, GetSlotsInput{Date: "2025-06-09"}); err != nil || len(slots) != 0 {
		t.Errorf("past date: %v, %v", clocks(slots), err)
	}
	// no rule on Tuesday
	if slots, err := uc.Execute(ctx, GetSlotsInput{Date: "2025-06-17"}); err != nil || len(slots) != 0 {
		t.Errorf("closed day: %v, %v", clocks(slots), err)
	}
	// whole-day block
	_ = f.store.CreateBlockedDate(ctx, &models.BlockedDate{Date: "2025-06-16"})
	if slots, err := uc.Execute(ctx, GetSlotsInput{Date: "2025-06-16"}); err != nil || len(slots) != 0 {
		t.Errorf("blocked day: %v, %v", clocks(slots), err)
	}
}

func TestGetSlots_BadDate(t *testing.T) {
	f := newFixture(t)
	uc := NewGetSlots(f.store, f.store, f.settings)

	for _, d := range []string{"", "06/16/2025"} {
		if _, err := uc.Execute(context.Background(), GetSlotsInput{Date: d}); httperr.KindOf(err) != httperr.KindValidation {
			t.Errorf("date %q: err = %v", d, err)
		}
	}
}

func TestGetSlots_ExcludesBookedAndBlocked(t *testing.T) {
	f := newFixture(t)
	f.mondayTemplate(t)
	f.seedLeads(2)
	ctx := context.Background()

	f.book(t, 1, "2025-06-16T09:30")
	start, end := "10:30", "11:30"
	_ = f.store.CreateBlockedDate(ctx, &models.BlockedDate{Date: "2025-06-16", StartTime: &start, EndTime: &end})

	slots, err := NewGetSlots(f.store, f.store, f.settings).Execute(ctx, GetSlotsInput{Date: "2025-06-16"})
	if err != nil {
		t.Fatal(err)
	}
	if !sameClocks(slots, "09:00", "10:00", "11:30") {
		t.Errorf("slots = %v", clocks(slots))
	}

	// cancelling frees the slot again
	ap, _ := f.store.FindActiveAtSlot(ctx, "2025-06-16", "09:30", 0)
	if _, err := NewCancelAppointment(f.updateStatus()).Execute(ctx, ap.ID); err != nil {
		t.Fatal(err)
	}
	slots, _ = NewGetSlots(f.store, f.store, f.settings).Execute(ctx, GetSlotsInput{Date: "2025-06-16"})
	if !sameClocks(slots, "09:00", "09:30", "10:00", "11:30") {
		t.Errorf("after cancel slots = %v", clocks(slots))
	}
}

func TestGetSlots_DropsPastSlotsToday(t *testing.T) {
	f := newFixture(t)
	f.mondayTemplate(t)
	f.settings.EarlyAccess.ScoreThreshold = 0
	f.now = time.Date(2025, 6, 16, 10, 10, 0, 0, f.loc)

	slots, err := NewGetSlots(f.store, f.store, f.settings).Execute(context.Background(), GetSlotsInput{Date: "2025-06-16"})
	if err != nil {
		t.Fatal(err)
	}
	if !sameClocks(slots, "10:30", "11:00", "11:30") {
		t.Errorf("slots = %v", clocks(slots))
	}
}

func TestGetSlots_EarlyAccess(t *testing.T) {
	f := newFixture(t)
	f.mondayTemplate(t)
	f.seedLeads(3)
	f.settings.EarlyAccess.PopularSlots = 1
	ctx := context.Background()

	// history: 10:00 is the most booked time
	_ = f.store.ReplaceRules(ctx, []models.AvailabilityRule{
		{DayOfWeek: 1, StartTime: "09:00", EndTime: "12:00", Active: true},
		{DayOfWeek: 2, StartTime: "09:00", EndTime: "12:00", Active: true},
	})
	f.book(t, 1, "2025-06-17T10:00")
	f.book(t, 2, "2025-06-24T10:00")
	f.book(t, 3, "2025-06-24T11:00")

	// Monday is now inside the lead-in window
	f.now = time.Date(2025, 6, 16, 7, 0, 0, 0, f.loc)

	uc := NewGetSlots(f.store, f.store, f.settings)

	cold, err := uc.Execute(ctx, GetSlotsInput{Date: "2025-06-16", BusinessID: 1})
	if err != nil {
		t.Fatal(err)
	}
	if !sameClocks(cold, "10:00") {
		t.Errorf("low score slots = %v", clocks(cold))
	}

	hot := f.store.SeedLead(models.Lead{Name: "Hot Lead", Score: 95})
	all, err := uc.Execute(ctx, GetSlotsInput{Date: "2025-06-16", BusinessID: hot.ID})
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 6 {
		t.Errorf("high score slots = %v", clocks(all))
	}

	// outside the window nobody is gated
	later, _ := uc.Execute(ctx, GetSlotsInput{Date: "2025-06-23", BusinessID: 1})
	if len(later) != 6 {
		t.Errorf("next week slots = %v", clocks(later))
	}
}

// ======================================================
// Booking
// ======================================================

func TestCreateBooking_UpdatesLeadAndAudits(t *testing.T) {
	f := newFixture(t)
	f.seedLeads(1)
	ctx := context.Background()

	ap := f.book(t, 1, "2025-06-16T09:30")
	if ap.Status != "confirmed" || ap.DurationMinutes != 30 || ap.IsAutoScheduled {
		t.Errorf("appointment = %+v", ap)
	}
	if ap.SlotDate != "2025-06-16" || ap.SlotTime != "09:30" {
		t.Errorf("slot = %s %s", ap.SlotDate, ap.SlotTime)
	}

	lead, _ := f.store.GetLead(ctx, 1)
	if lead.Stage != models.StageScheduled || lead.AppointmentStatus != "confirmed" {
		t.Errorf("lead = %+v", lead)
	}
	if n := f.activitiesOf(1, models.ActivityAppointmentCreated); n != 1 {
		t.Errorf("appointment_created activities = %d", n)
	}
}

func TestCreateBooking_Validation(t *testing.T) {
	f := newFixture(t)
	f.seedLeads(1)
	uc := f.createBooking()
	ctx := context.Background()

	cases := map[string]CreateBookingInput{
		"missing business": {Datetime: "2025-06-16T09:30"},
		"missing datetime": {BusinessID: 1},
		"bad datetime":     {BusinessID: 1, Datetime: "soon"},
		"negative length":  {BusinessID: 1, Datetime: "2025-06-16T09:30", Duration: -5},
	}
	for name, in := range cases {
		if _, err := uc.Execute(ctx, in); httperr.KindOf(err) != httperr.KindValidation {
			t.Errorf("%s: err = %v", name, err)
		}
	}

	if _, err := uc.Execute(ctx, CreateBookingInput{BusinessID: 99, Datetime: "2025-06-16T09:30"}); httperr.KindOf(err) != httperr.KindNotFound {
		t.Errorf("unknown lead: err = %v", err)
	}
}

func TestCreateBooking_ConflictNamesHolder(t *testing.T) {
	f := newFixture(t)
	f.seedLeads(7)

	f.book(t, 5, "2025-06-16T09:30")

	_, err := f.createBooking().Execute(context.Background(), CreateBookingInput{
		BusinessID: 7,
		Datetime:   "2025-06-16T09:30",
	})

	var e *httperr.Error
	if !errors.As(err, &e) || e.Kind != httperr.KindConflict {
		t.Fatalf("err = %v, want conflict", err)
	}

	lead5, _ := f.store.GetLead(context.Background(), 5)
	if e.Conflict == nil || e.Conflict.BusinessName != lead5.Name {
		t.Errorf("conflict = %+v, want business %q", e.Conflict, lead5.Name)
	}
	if e.Conflict.Time != "9:30 AM" {
		t.Errorf("conflict time = %q", e.Conflict.Time)
	}

	lead7, _ := f.store.GetLead(context.Background(), 7)
	if lead7.Stage != models.StageContacted {
		t.Errorf("losing lead stage = %s", lead7.Stage)
	}
}

func TestCreateBooking_ConcurrentSameSlot(t *testing.T) {
	for name, locker := range map[string]lock.Locker{
		"local lock":   lock.NewLocalLocker(),
		"storage only": lock.NopLocker{},
	} {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			f.seedLeads(2)
			uc := NewCreateBooking(f.store, locker, f.audit, f.settings, zap.NewNop())

			var wg sync.WaitGroup
			errs := make([]error, 2)
			for i := 0; i < 2; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					_, errs[i] = uc.Execute(context.Background(), CreateBookingInput{
						BusinessID: uint(i + 1),
						Datetime:   "2025-06-16T09:30",
					})
				}(i)
			}
			wg.Wait()

			ok, conflicts := 0, 0
			for _, err := range errs {
				switch {
				case err == nil:
					ok++
				case httperr.KindOf(err) == httperr.KindConflict:
					conflicts++
				default:
					t.Errorf("unexpected error: %v", err)
				}
			}
			if ok != 1 || conflicts != 1 {
				t.Errorf("ok=%d conflicts=%d, want 1 and 1", ok, conflicts)
			}
		})
	}
}

// ======================================================
// Reschedule
// ======================================================

func TestRescheduleBooking(t *testing.T) {
	f := newFixture(t)
	f.seedLeads(2)
	ctx := context.Background()
	uc := NewRescheduleBooking(f.store, lock.NewLocalLocker(), f.audit, f.settings, zap.NewNop())

	a := f.book(t, 1, "2025-06-16T09:30")
	f.book(t, 2, "2025-06-16T10:00")

	if _, err := uc.Execute(ctx, a.ID, "2025-06-16T10:00"); httperr.KindOf(err) != httperr.KindConflict {
		t.Fatalf("onto taken slot: err = %v", err)
	}

	moved, err := uc.Execute(ctx, a.ID, "2025-06-16T11:00")
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if moved.SlotTime != "11:00" || moved.Status != "confirmed" {
		t.Errorf("moved = %+v", moved)
	}
	if n := f.activitiesOf(1, models.ActivityAppointmentRescheduled); n != 1 {
		t.Errorf("rescheduled activities = %d", n)
	}

	// the old slot is free again
	if holder, _ := f.store.FindActiveAtSlot(ctx, "2025-06-16", "09:30", 0); holder != nil {
		t.Errorf("old slot still held by %d", holder.ID)
	}

	if _, err := uc.Execute(ctx, 999, "2025-06-16T11:30"); httperr.KindOf(err) != httperr.KindNotFound {
		t.Errorf("unknown appointment: err = %v", err)
	}

	if _, err := NewCancelAppointment(f.updateStatus()).Execute(ctx, a.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := uc.Execute(ctx, a.ID, "2025-06-16T11:30"); httperr.KindOf(err) != httperr.KindValidation {
		t.Errorf("cancelled appointment: err = %v", err)
	}
}

// ======================================================
// Status
// ======================================================

func TestUpdateStatus_NoShow(t *testing.T) {
	f := newFixture(t)
	f.seedLeads(1)
	ctx := context.Background()

	ap := f.book(t, 1, "2025-06-16T09:30")
	uc := f.updateStatus()

	if _, err := uc.Execute(ctx, ap.ID, "no-show"); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	lead, _ := f.store.GetLead(ctx, 1)
	if lead.Stage != models.StageScheduled {
		t.Errorf("stage = %s, want unchanged", lead.Stage)
	}
	if lead.AppointmentStatus != "no-show" {
		t.Errorf("appointmentStatus = %s", lead.AppointmentStatus)
	}
	if n := f.activitiesOf(1, models.ActivitySMSSent); n != 1 {
		t.Errorf("sms_sent = %d", n)
	}
	if n := f.activitiesOf(1, models.ActivityNoShow); n != 1 {
		t.Errorf("no_show = %d", n)
	}
	if len(f.sms.sent) != 1 {
		t.Fatalf("sms sent = %v", f.sms.sent)
	}
	want := lead.Phone + ": Hey Acme, sorry we missed you! You can rebook here: https://example.com/schedule?lead_id=1"
	if f.sms.sent[0] != want {
		t.Errorf("sms = %q", f.sms.sent[0])
	}

	// repeating the status is a no-op
	if _, err := uc.Execute(ctx, ap.ID, "no-show"); err != nil {
		t.Fatal(err)
	}
	if n := f.activitiesOf(1, models.ActivitySMSSent); n != 1 || len(f.sms.sent) != 1 {
		t.Errorf("repeat no-show produced more events: activities=%d sms=%d", n, len(f.sms.sent))
	}
}

func TestUpdateStatus_SMSFailureKeepsUpdate(t *testing.T) {
	f := newFixture(t)
	f.seedLeads(1)
	f.sms.err = errors.New("provider down")

	ap := f.book(t, 1, "2025-06-16T09:30")
	got, err := f.updateStatus().Execute(context.Background(), ap.ID, "no-show")
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if got.Status != "no-show" {
		t.Errorf("status = %s", got.Status)
	}
}

func TestUpdateStatus_Validation(t *testing.T) {
	f := newFixture(t)
	f.seedLeads(1)
	ap := f.book(t, 1, "2025-06-16T09:30")
	uc := f.updateStatus()

	if _, err := uc.Execute(context.Background(), ap.ID, "scheduled"); httperr.KindOf(err) != httperr.KindValidation {
		t.Errorf("bad status: err = %v", err)
	}
	if _, err := uc.Execute(context.Background(), 42, "completed"); httperr.KindOf(err) != httperr.KindNotFound {
		t.Errorf("unknown appointment: err = %v", err)
	}

	if _, err := uc.Execute(context.Background(), ap.ID, "completed"); err != nil {
		t.Fatal(err)
	}
	if n := f.activitiesOf(1, models.ActivityAppointmentStatus); n != 1 {
		t.Errorf("status activities = %d", n)
	}
}

func TestCancel_DemotesOnlyWithoutOtherActive(t *testing.T) {
	f := newFixture(t)
	f.seedLeads(1)
	ctx := context.Background()
	cancel := NewCancelAppointment(f.updateStatus())

	first := f.book(t, 1, "2025-06-16T09:30")
	second := f.book(t, 1, "2025-06-17T09:30")

	if _, err := cancel.Execute(ctx, first.ID); err != nil {
		t.Fatal(err)
	}
	lead, _ := f.store.GetLead(ctx, 1)
	if lead.Stage != models.StageScheduled {
		t.Errorf("stage after first cancel = %s", lead.Stage)
	}
	if lead.AppointmentStatus != "confirmed" {
		t.Errorf("appointmentStatus after first cancel = %s, want the later booking's confirmed", lead.AppointmentStatus)
	}

	if _, err := cancel.Execute(ctx, second.ID); err != nil {
		t.Fatal(err)
	}
	lead, _ = f.store.GetLead(ctx, 1)
	if lead.Stage != models.StageContacted {
		t.Errorf("stage after last cancel = %s, want contacted", lead.Stage)
	}
	if lead.AppointmentStatus != "cancelled" {
		t.Errorf("appointmentStatus = %s", lead.AppointmentStatus)
	}

	// the row is retained
	kept, err := f.store.GetAppointment(ctx, second.ID)
	if err != nil || kept.Status != "cancelled" {
		t.Errorf("cancelled row = %+v, %v", kept, err)
	}
	if n := f.activitiesOf(1, models.ActivityAppointmentCancelled); n != 2 {
		t.Errorf("cancelled activities = %d", n)
	}

	if _, err := f.updateStatus().Execute(ctx, second.ID, "confirmed"); httperr.KindOf(err) != httperr.KindValidation {
		t.Errorf("reviving cancelled: err = %v", err)
	}
}

// ======================================================
// Reads
// ======================================================

func TestReads(t *testing.T) {
	f := newFixture(t)
	f.seedLeads(2)
	ctx := context.Background()

	if _, err := NewGetBookingDetails(f.store).Execute(ctx, 1); httperr.KindOf(err) != httperr.KindNotFound {
		t.Errorf("details without booking: err = %v", err)
	}

	f.book(t, 1, "2025-06-16T09:30")
	f.book(t, 1, "2025-06-18T09:30")
	f.book(t, 2, "2025-06-17T09:30")

	details, err := NewGetBookingDetails(f.store).Execute(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if details.BusinessName != "Acme Plumbing" || details.Datetime.Day() != 18 {
		t.Errorf("details = %+v", details)
	}

	history, err := NewListForBusiness(f.store).Execute(ctx, 1)
	if err != nil || len(history) != 2 || history[0].SlotDate != "2025-06-18" {
		t.Errorf("history = %+v, %v", history, err)
	}

	all, err := NewListAppointments(f.store).Execute(ctx, domain.ListFilter{})
	if err != nil || len(all) != 3 || all[0].BusinessName == "" {
		t.Errorf("all = %+v, %v", all, err)
	}
	if _, err := NewListAppointments(f.store).Execute(ctx, domain.ListFilter{Status: "bogus"}); httperr.KindOf(err) != httperr.KindValidation {
		t.Errorf("bad status filter: err = %v", err)
	}

	page, err := NewListActivities(f.store).Execute(ctx, 1, 1, 1)
	if err != nil || page.Total != 2 || len(page.Activities) != 1 {
		t.Errorf("activities page = %+v, %v", page, err)
	}

	link, err := NewGetSchedulingLink(f.store, f.settings).Execute(ctx, 2)
	if err != nil || link.Link != "https://example.com/schedule?lead_id=2" || link.BusinessName != "Bay Roofing" {
		t.Errorf("link = %+v, %v", link, err)
	}
}

func TestUpdateNotes(t *testing.T) {
	f := newFixture(t)
	f.seedLeads(1)
	ap := f.book(t, 1, "2025-06-16T09:30")

	got, err := NewUpdateNotes(f.store).Execute(context.Background(), ap.ID, "bring the quote")
	if err != nil || got.Notes != "bring the quote" {
		t.Errorf("notes = %+v, %v", got, err)
	}
}

// staleRepo serves one outdated read of an appointment, as if a concurrent
// change committed right after it was loaded.
type staleRepo struct {
	domain.Repository
	stale *models.Appointment
}

func (r *staleRepo) GetAppointment(ctx context.Context, id uint) (*models.Appointment, error) {
	if r.stale != nil && r.stale.ID == id {
		ap := *r.stale
		r.stale = nil
		return &ap, nil
	}
	return r.Repository.GetAppointment(ctx, id)
}

func (r *staleRepo) Transaction(ctx context.Context, fn func(tx domain.Repository) error) error {
	return r.Repository.Transaction(ctx, func(tx domain.Repository) error {
		return fn(&staleRepo{Repository: tx, stale: r.stale})
	})
}

func TestUpdateNotes_KeepsConcurrentCancel(t *testing.T) {
	f := newFixture(t)
	f.seedLeads(1)
	ctx := context.Background()

	ap := f.book(t, 1, "2025-06-16T09:30")
	before := *ap

	if _, err := NewCancelAppointment(f.updateStatus()).Execute(ctx, ap.ID); err != nil {
		t.Fatal(err)
	}

	got, err := NewUpdateNotes(&staleRepo{Repository: f.store, stale: &before}).Execute(ctx, ap.ID, "left a voicemail")
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if got.Status != "cancelled" || got.Notes != "left a voicemail" {
		t.Errorf("returned = %s / %q", got.Status, got.Notes)
	}

	stored, _ := f.store.GetAppointment(ctx, ap.ID)
	if stored.Status != "cancelled" || stored.Notes != "left a voicemail" {
		t.Errorf("stored = %s / %q, want cancelled with new notes", stored.Status, stored.Notes)
	}
	lead, _ := f.store.GetLead(ctx, 1)
	if lead.Stage != models.StageContacted {
		t.Errorf("stage = %s, want contacted", lead.Stage)
	}
}

func TestLeadMirrorsLatestAppointment(t *testing.T) {
	f := newFixture(t)
	f.seedLeads(1)
	ctx := context.Background()
	status := f.updateStatus()
	reschedule := NewRescheduleBooking(f.store, lock.NewLocalLocker(), f.audit, f.settings, zap.NewNop())

	early := f.book(t, 1, "2025-06-16T09:30")
	late := f.book(t, 1, "2025-06-17T09:30")

	mirror := func(want string) {
		t.Helper()
		lead, _ := f.store.GetLead(ctx, 1)
		if lead.AppointmentStatus != want {
			t.Errorf("appointmentStatus = %s, want %s", lead.AppointmentStatus, want)
		}
	}

	if _, err := status.Execute(ctx, early.ID, "completed"); err != nil {
		t.Fatal(err)
	}
	mirror("confirmed")

	// the completed one becomes the latest
	if _, err := reschedule.Execute(ctx, late.ID, "2025-06-13T10:00"); err != nil {
		t.Fatal(err)
	}
	mirror("completed")

	if _, err := status.Execute(ctx, late.ID, "cancelled"); err != nil {
		t.Fatal(err)
	}
	mirror("completed")

	if _, err := status.Execute(ctx, early.ID, "no-show"); err != nil {
		t.Fatal(err)
	}
	mirror("no-show")
}
