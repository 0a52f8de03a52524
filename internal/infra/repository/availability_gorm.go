package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/lead-scheduler/internal/domain/availability"
	"github.com/BruksfildServices01/lead-scheduler/internal/models"
)

type AvailabilityGormRepository struct {
	db *gorm.DB
}

func NewAvailabilityGormRepository(db *gorm.DB) *AvailabilityGormRepository {
	return &AvailabilityGormRepository{db: db}
}

// --------------------------------------------------
// Weekly template
// --------------------------------------------------

func (r *AvailabilityGormRepository) ListRules(
	ctx context.Context,
) ([]models.AvailabilityRule, error) {

	var rules []models.AvailabilityRule
	if err := r.db.WithContext(ctx).
		Order("day_of_week ASC, start_time ASC").
		Find(&rules).Error; err != nil {
		return nil, err
	}
	return rules, nil
}

func (r *AvailabilityGormRepository) ListActiveRules(
	ctx context.Context,
	dayOfWeek int,
) ([]models.AvailabilityRule, error) {

	var rules []models.AvailabilityRule
	if err := r.db.WithContext(ctx).
		Where("day_of_week = ? AND active = ?", dayOfWeek, true).
		Order("start_time ASC").
		Find(&rules).Error; err != nil {
		return nil, err
	}
	return rules, nil
}

func (r *AvailabilityGormRepository) ReplaceRules(
	ctx context.Context,
	rules []models.AvailabilityRule,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).
			Delete(&models.AvailabilityRule{}).Error; err != nil {
			return err
		}
		if len(rules) == 0 {
			return nil
		}
		for i := range rules {
			rules[i].ID = 0
		}
		return tx.Create(&rules).Error
	})
}

// --------------------------------------------------
// Blocked dates
// --------------------------------------------------

func (r *AvailabilityGormRepository) ListBlockedDates(
	ctx context.Context,
	from string,
	to string,
) ([]models.BlockedDate, error) {

	q := r.db.WithContext(ctx)
	if from != "" {
		q = q.Where("date >= ?", from)
	}
	if to != "" {
		q = q.Where("date <= ?", to)
	}

	var out []models.BlockedDate
	if err := q.Order("date ASC, start_time ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *AvailabilityGormRepository) CreateBlockedDate(
	ctx context.Context,
	b *models.BlockedDate,
) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *AvailabilityGormRepository) DeleteBlockedDate(
	ctx context.Context,
	id uint,
) error {
	return r.db.WithContext(ctx).Delete(&models.BlockedDate{}, id).Error
}

// Compile-time check
var _ availability.Repository = (*AvailabilityGormRepository)(nil)
