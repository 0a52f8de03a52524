package availability

import (
	"context"
	"strings"
	"time"

	domain "github.com/BruksfildServices01/lead-scheduler/internal/domain/availability"
	"github.com/BruksfildServices01/lead-scheduler/internal/httperr"
	"github.com/BruksfildServices01/lead-scheduler/internal/models"
	"github.com/BruksfildServices01/lead-scheduler/internal/timezone"
)

type ListBlockedDates struct {
	repo domain.Repository
}

func NewListBlockedDates(repo domain.Repository) *ListBlockedDates {
	return &ListBlockedDates{repo: repo}
}

// Execute takes optional inclusive YYYY-MM-DD bounds.
func (uc *ListBlockedDates) Execute(
	ctx context.Context,
	from string,
	to string,
) ([]models.BlockedDate, error) {

	for _, d := range []string{from, to} {
		if d == "" {
			continue
		}
		if _, err := timezone.ParseDate(d, time.UTC); err != nil {
			return nil, httperr.Validation("invalid_date", "Invalid date (use YYYY-MM-DD)")
		}
	}

	out, err := uc.repo.ListBlockedDates(ctx, from, to)
	if err != nil {
		return nil, httperr.Internal("blocked_dates_list_failed", err)
	}
	if out == nil {
		out = []models.BlockedDate{}
	}
	return out, nil
}

type AddBlockedDateInput struct {
	Date      string
	StartTime *string
	EndTime   *string
	Reason    *string
}

type AddBlockedDate struct {
	repo domain.Repository
}

func NewAddBlockedDate(repo domain.Repository) *AddBlockedDate {
	return &AddBlockedDate{repo: repo}
}

func (uc *AddBlockedDate) Execute(
	ctx context.Context,
	in AddBlockedDateInput,
) (*models.BlockedDate, error) {

	b := &models.BlockedDate{
		Date:      strings.TrimSpace(in.Date),
		StartTime: blankToNil(in.StartTime),
		EndTime:   blankToNil(in.EndTime),
		Reason:    blankToNil(in.Reason),
	}

	if err := domain.ValidateBlock(*b); err != nil {
		return nil, err
	}

	if err := uc.repo.CreateBlockedDate(ctx, b); err != nil {
		return nil, httperr.Internal("blocked_date_create_failed", err)
	}
	return b, nil
}

type RemoveBlockedDate struct {
	repo domain.Repository
}

func NewRemoveBlockedDate(repo domain.Repository) *RemoveBlockedDate {
	return &RemoveBlockedDate{repo: repo}
}

// Execute succeeds whether or not the block still exists.
func (uc *RemoveBlockedDate) Execute(ctx context.Context, id uint) error {
	if err := uc.repo.DeleteBlockedDate(ctx, id); err != nil {
		return httperr.Internal("blocked_date_delete_failed", err)
	}
	return nil
}

// UI forms send "" for untouched optional fields.
func blankToNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
