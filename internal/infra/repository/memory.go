package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	domain "github.com/BruksfildServices01/lead-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/lead-scheduler/internal/domain/availability"
	"github.com/BruksfildServices01/lead-scheduler/internal/models"
)

// MemoryStore backs both repositories with process memory. Transactions
// work on a copy that replaces the live data only on success, and the
// slot uniqueness of the postgres index is enforced on every write.
type MemoryStore struct {
	mu   sync.Mutex
	data *memData
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: newMemData(),
	}
}

// SeedLead inserts a lead as the CRM would and returns it with its id.
func (s *MemoryStore) SeedLead(lead models.Lead) models.Lead {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data.leadSeq++
	lead.ID = s.data.leadSeq
	if lead.CreatedAt.IsZero() {
		lead.CreatedAt = s.data.now()
	}
	s.data.leads[lead.ID] = lead
	return lead
}

// Activities returns every recorded activity in insertion order.
func (s *MemoryStore) Activities() []models.Activity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Activity(nil), s.data.activities...)
}

type memData struct {
	now func() time.Time

	leads        map[uint]models.Lead
	appointments map[uint]models.Appointment
	activities   []models.Activity
	rules        []models.AvailabilityRule
	blocks       map[uint]models.BlockedDate

	leadSeq, appointmentSeq, activitySeq, ruleSeq, blockSeq uint
}

func newMemData() *memData {
	return &memData{
		now:          time.Now,
		leads:        map[uint]models.Lead{},
		appointments: map[uint]models.Appointment{},
		blocks:       map[uint]models.BlockedDate{},
	}
}

func (d *memData) clone() *memData {
	c := *d
	c.leads = make(map[uint]models.Lead, len(d.leads))
	for k, v := range d.leads {
		c.leads[k] = v
	}
	c.appointments = make(map[uint]models.Appointment, len(d.appointments))
	for k, v := range d.appointments {
		c.appointments[k] = v
	}
	c.blocks = make(map[uint]models.BlockedDate, len(d.blocks))
	for k, v := range d.blocks {
		c.blocks[k] = v
	}
	c.activities = append([]models.Activity(nil), d.activities...)
	c.rules = append([]models.AvailabilityRule(nil), d.rules...)
	return &c
}

func (d *memData) withLead(ap models.Appointment) models.Appointment {
	if lead, ok := d.leads[ap.BusinessID]; ok {
		l := lead
		ap.Lead = &l
	}
	return ap
}

func (d *memData) slotHolder(date, hm string, excludeID uint) (models.Appointment, bool) {
	ids := make([]uint, 0, len(d.appointments))
	for id := range d.appointments {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		ap := d.appointments[id]
		if id == excludeID || !domain.Status(ap.Status).Active() {
			continue
		}
		if ap.SlotDate == date && ap.SlotTime == hm {
			return ap, true
		}
	}
	return models.Appointment{}, false
}

// --------------------------------------------------
// memData: appointment repository without locking
// --------------------------------------------------

func (d *memData) GetLead(_ context.Context, id uint) (*models.Lead, error) {
	lead, ok := d.leads[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &lead, nil
}

func (d *memData) UpdateLeadScheduling(_ context.Context, leadID uint, stage, appointmentStatus string) error {
	lead, ok := d.leads[leadID]
	if !ok {
		return domain.ErrNotFound
	}
	if stage != "" {
		lead.Stage = stage
	}
	lead.AppointmentStatus = appointmentStatus
	d.leads[leadID] = lead
	return nil
}

func (d *memData) RecordActivity(_ context.Context, a *models.Activity) error {
	d.activitySeq++
	a.ID = d.activitySeq
	if a.CreatedAt.IsZero() {
		a.CreatedAt = d.now()
	}
	d.activities = append(d.activities, *a)
	return nil
}

func (d *memData) ListActivities(_ context.Context, leadID uint, limit, offset int) ([]models.Activity, int64, error) {
	var matched []models.Activity
	for _, a := range d.activities {
		if a.BusinessID == leadID {
			matched = append(matched, a)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})

	total := int64(len(matched))
	if offset >= len(matched) {
		return []models.Activity{}, total, nil
	}
	matched = matched[offset:]
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, total, nil
}

func (d *memData) CreateAppointment(_ context.Context, ap *models.Appointment) error {
	if domain.Status(ap.Status).Active() {
		if _, taken := d.slotHolder(ap.SlotDate, ap.SlotTime, 0); taken {
			return domain.ErrSlotTaken
		}
	}

	d.appointmentSeq++
	ap.ID = d.appointmentSeq
	now := d.now()
	ap.CreatedAt, ap.UpdatedAt = now, now

	row := *ap
	row.Lead = nil
	d.appointments[ap.ID] = row
	return nil
}

func (d *memData) FindActiveAtSlot(_ context.Context, date, hm string, excludeID uint) (*models.Appointment, error) {
	ap, ok := d.slotHolder(date, hm, excludeID)
	if !ok {
		return nil, nil
	}
	ap = d.withLead(ap)
	return &ap, nil
}

func (d *memData) GetAppointment(_ context.Context, id uint) (*models.Appointment, error) {
	ap, ok := d.appointments[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	ap = d.withLead(ap)
	return &ap, nil
}

func (d *memData) UpdateAppointment(_ context.Context, ap *models.Appointment) error {
	if _, ok := d.appointments[ap.ID]; !ok {
		return domain.ErrNotFound
	}
	if domain.Status(ap.Status).Active() {
		if _, taken := d.slotHolder(ap.SlotDate, ap.SlotTime, ap.ID); taken {
			return domain.ErrSlotTaken
		}
	}

	ap.UpdatedAt = d.now()
	row := *ap
	row.Lead = nil
	d.appointments[ap.ID] = row
	return nil
}

func (d *memData) UpdateAppointmentNotes(_ context.Context, id uint, notes string) error {
	row, ok := d.appointments[id]
	if !ok {
		return domain.ErrNotFound
	}
	row.Notes = notes
	row.UpdatedAt = d.now()
	d.appointments[id] = row
	return nil
}

func (d *memData) CountActiveForLead(_ context.Context, leadID, excludeID uint) (int64, error) {
	var n int64
	for id, ap := range d.appointments {
		if id != excludeID && ap.BusinessID == leadID && domain.Status(ap.Status).Active() {
			n++
		}
	}
	return n, nil
}

func (d *memData) ListActiveForDate(_ context.Context, date string) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, ap := range d.appointments {
		if ap.SlotDate == date && domain.Status(ap.Status).Active() {
			out = append(out, ap)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SlotTime < out[j].SlotTime })
	return out, nil
}

func (d *memData) ListForLead(ctx context.Context, leadID uint) ([]models.Appointment, error) {
	apps, err := d.ListAppointments(ctx, domain.ListFilter{BusinessID: leadID})
	if err != nil {
		return nil, err
	}
	for i := range apps {
		apps[i].Lead = nil
	}
	return apps, nil
}

func (d *memData) ListAppointments(_ context.Context, f domain.ListFilter) ([]models.Appointment, error) {
	out := []models.Appointment{}
	for _, ap := range d.appointments {
		if f.BusinessID != 0 && ap.BusinessID != f.BusinessID {
			continue
		}
		if f.Status != "" && ap.Status != f.Status {
			continue
		}
		if f.From != nil && ap.Datetime.Before(*f.From) {
			continue
		}
		if f.To != nil && !ap.Datetime.Before(*f.To) {
			continue
		}
		out = append(out, d.withLead(ap))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Datetime.Equal(out[j].Datetime) {
			return out[i].Datetime.After(out[j].Datetime)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

// Transaction on a view that is already inside one just runs fn.
func (d *memData) Transaction(_ context.Context, fn func(tx domain.Repository) error) error {
	return fn(d)
}

// --------------------------------------------------
// memData: availability repository without locking
// --------------------------------------------------

func (d *memData) listRules(keep func(models.AvailabilityRule) bool) []models.AvailabilityRule {
	out := []models.AvailabilityRule{}
	for _, r := range d.rules {
		if keep(r) {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].DayOfWeek != out[j].DayOfWeek {
			return out[i].DayOfWeek < out[j].DayOfWeek
		}
		return out[i].StartTime < out[j].StartTime
	})
	return out
}

func (d *memData) replaceRules(rules []models.AvailabilityRule) {
	now := d.now()
	d.rules = d.rules[:0]
	for _, r := range rules {
		d.ruleSeq++
		r.ID = d.ruleSeq
		r.CreatedAt, r.UpdatedAt = now, now
		d.rules = append(d.rules, r)
	}
}

func (d *memData) listBlocks(from, to string) []models.BlockedDate {
	out := []models.BlockedDate{}
	for _, b := range d.blocks {
		if from != "" && b.Date < from {
			continue
		}
		if to != "" && b.Date > to {
			continue
		}
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// --------------------------------------------------
// MemoryStore: locked entry points
// --------------------------------------------------

func (s *MemoryStore) GetLead(ctx context.Context, id uint) (*models.Lead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.GetLead(ctx, id)
}

func (s *MemoryStore) UpdateLeadScheduling(ctx context.Context, leadID uint, stage, appointmentStatus string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.UpdateLeadScheduling(ctx, leadID, stage, appointmentStatus)
}

func (s *MemoryStore) RecordActivity(ctx context.Context, a *models.Activity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.RecordActivity(ctx, a)
}

func (s *MemoryStore) ListActivities(ctx context.Context, leadID uint, limit, offset int) ([]models.Activity, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.ListActivities(ctx, leadID, limit, offset)
}

func (s *MemoryStore) CreateAppointment(ctx context.Context, ap *models.Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.CreateAppointment(ctx, ap)
}

func (s *MemoryStore) FindActiveAtSlot(ctx context.Context, date, hm string, excludeID uint) (*models.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.FindActiveAtSlot(ctx, date, hm, excludeID)
}

func (s *MemoryStore) GetAppointment(ctx context.Context, id uint) (*models.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.GetAppointment(ctx, id)
}

func (s *MemoryStore) UpdateAppointment(ctx context.Context, ap *models.Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.UpdateAppointment(ctx, ap)
}

func (s *MemoryStore) UpdateAppointmentNotes(ctx context.Context, id uint, notes string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.UpdateAppointmentNotes(ctx, id, notes)
}

func (s *MemoryStore) CountActiveForLead(ctx context.Context, leadID, excludeID uint) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.CountActiveForLead(ctx, leadID, excludeID)
}

func (s *MemoryStore) ListActiveForDate(ctx context.Context, date string) ([]models.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.ListActiveForDate(ctx, date)
}

func (s *MemoryStore) ListForLead(ctx context.Context, leadID uint) ([]models.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.ListForLead(ctx, leadID)
}

func (s *MemoryStore) ListAppointments(ctx context.Context, f domain.ListFilter) ([]models.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.ListAppointments(ctx, f)
}

// Transaction holds the store lock for the whole unit of work, so
// transactions are serialized against each other and against plain calls.
func (s *MemoryStore) Transaction(ctx context.Context, fn func(tx domain.Repository) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	work := s.data.clone()
	if err := fn(work); err != nil {
		return err
	}
	s.data = work
	return nil
}

func (s *MemoryStore) ListRules(_ context.Context) ([]models.AvailabilityRule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.listRules(func(models.AvailabilityRule) bool { return true }), nil
}

func (s *MemoryStore) ListActiveRules(_ context.Context, dayOfWeek int) ([]models.AvailabilityRule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.listRules(func(r models.AvailabilityRule) bool {
		return r.Active && r.DayOfWeek == dayOfWeek
	}), nil
}

func (s *MemoryStore) ReplaceRules(_ context.Context, rules []models.AvailabilityRule) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.replaceRules(rules)
	return nil
}

func (s *MemoryStore) ListBlockedDates(_ context.Context, from, to string) ([]models.BlockedDate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.listBlocks(from, to), nil
}

func (s *MemoryStore) CreateBlockedDate(_ context.Context, b *models.BlockedDate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data.blockSeq++
	b.ID = s.data.blockSeq
	b.CreatedAt = s.data.now()
	s.data.blocks[b.ID] = *b
	return nil
}

func (s *MemoryStore) DeleteBlockedDate(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data.blocks, id)
	return nil
}

// Compile-time checks
var (
	_ domain.Repository       = (*MemoryStore)(nil)
	_ domain.Repository       = (*memData)(nil)
	_ availability.Repository = (*MemoryStore)(nil)
)
