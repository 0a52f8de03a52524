package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/lead-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/lead-scheduler/internal/models"
)

const pgUniqueViolation = "23505"

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return err
}

// --------------------------------------------------
// Lead
// --------------------------------------------------

func (r *AppointmentGormRepository) GetLead(
	ctx context.Context,
	id uint,
) (*models.Lead, error) {

	var lead models.Lead
	if err := r.db.WithContext(ctx).First(&lead, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &lead, nil
}

func (r *AppointmentGormRepository) UpdateLeadScheduling(
	ctx context.Context,
	leadID uint,
	stage string,
	appointmentStatus string,
) error {

	updates := map[string]any{"appointment_status": appointmentStatus}
	if stage != "" {
		updates["stage"] = stage
	}

	res := r.db.WithContext(ctx).
		Model(&models.Lead{}).
		Where("id = ?", leadID).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// --------------------------------------------------
// Activity
// --------------------------------------------------

func (r *AppointmentGormRepository) RecordActivity(
	ctx context.Context,
	a *models.Activity,
) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *AppointmentGormRepository) ListActivities(
	ctx context.Context,
	leadID uint,
	limit int,
	offset int,
) ([]models.Activity, int64, error) {

	q := r.db.WithContext(ctx).
		Model(&models.Activity{}).
		Where("business_id = ?", leadID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var out []models.Activity
	if err := q.
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&out).Error; err != nil {
		return nil, 0, err
	}

	return out, total, nil
}

// --------------------------------------------------
// Appointment (create / conflict)
// --------------------------------------------------

func (r *AppointmentGormRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	if err := r.db.WithContext(ctx).Omit("Lead").Create(ap).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.ErrSlotTaken
		}
		return err
	}
	return nil
}

func (r *AppointmentGormRepository) FindActiveAtSlot(
	ctx context.Context,
	date string,
	hm string,
	excludeID uint,
) (*models.Appointment, error) {

	q := r.db.WithContext(ctx).
		Preload("Lead").
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where(
			"slot_date = ? AND slot_time = ? AND status <> ?",
			date, hm, string(domain.StatusCancelled),
		)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}

	var ap models.Appointment
	err := q.First(&ap).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ap, nil
}

// --------------------------------------------------
// Appointment (state change)
// --------------------------------------------------

func (r *AppointmentGormRepository) GetAppointment(
	ctx context.Context,
	id uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Lead").
		First(&ap, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &ap, nil
}

func (r *AppointmentGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	if err := r.db.WithContext(ctx).Omit("Lead").Save(ap).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.ErrSlotTaken
		}
		return err
	}
	return nil
}

func (r *AppointmentGormRepository) UpdateAppointmentNotes(
	ctx context.Context,
	id uint,
	notes string,
) error {
	res := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ?", id).
		Update("notes", notes)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *AppointmentGormRepository) CountActiveForLead(
	ctx context.Context,
	leadID uint,
	excludeID uint,
) (int64, error) {

	q := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("business_id = ? AND status <> ?", leadID, string(domain.StatusCancelled))
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// --------------------------------------------------
// Reads
// --------------------------------------------------

func (r *AppointmentGormRepository) ListActiveForDate(
	ctx context.Context,
	date string,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	if err := r.db.WithContext(ctx).
		Select("id", "slot_date", "slot_time", "status").
		Where("slot_date = ? AND status <> ?", date, string(domain.StatusCancelled)).
		Order("slot_time ASC").
		Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

func (r *AppointmentGormRepository) ListForLead(
	ctx context.Context,
	leadID uint,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	if err := r.db.WithContext(ctx).
		Where("business_id = ?", leadID).
		Order("datetime DESC").
		Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

func (r *AppointmentGormRepository) ListAppointments(
	ctx context.Context,
	f domain.ListFilter,
) ([]models.Appointment, error) {

	q := r.db.WithContext(ctx).Preload("Lead")

	if f.BusinessID != 0 {
		q = q.Where("business_id = ?", f.BusinessID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.From != nil {
		q = q.Where("datetime >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("datetime < ?", *f.To)
	}

	var apps []models.Appointment
	if err := q.Order("datetime DESC").Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

func (r *AppointmentGormRepository) Transaction(
	ctx context.Context,
	fn func(tx domain.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&AppointmentGormRepository{db: tx})
	})
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)
