package availability

import (
	"context"

	"github.com/BruksfildServices01/lead-scheduler/internal/models"
)

type Repository interface {
	// -------- Weekly template --------
	ListRules(ctx context.Context) ([]models.AvailabilityRule, error)

	ListActiveRules(
		ctx context.Context,
		dayOfWeek int,
	) ([]models.AvailabilityRule, error)

	// ReplaceRules swaps the whole template atomically.
	ReplaceRules(
		ctx context.Context,
		rules []models.AvailabilityRule,
	) error

	// -------- Blocked dates --------
	// from/to are inclusive YYYY-MM-DD bounds; empty means unbounded.
	ListBlockedDates(
		ctx context.Context,
		from string,
		to string,
	) ([]models.BlockedDate, error)

	CreateBlockedDate(
		ctx context.Context,
		b *models.BlockedDate,
	) error

	// DeleteBlockedDate succeeds when the row is already gone.
	DeleteBlockedDate(
		ctx context.Context,
		id uint,
	) error
}
