package appointment

import (
	"context"

	domain "github.com/BruksfildServices01/lead-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/lead-scheduler/internal/dto"
	"github.com/BruksfildServices01/lead-scheduler/internal/httperr"
	"github.com/BruksfildServices01/lead-scheduler/internal/models"
)

const (
	defaultActivityLimit = 50
	maxActivityLimit     = 200
)

type ListActivities struct {
	repo domain.Repository
}

func NewListActivities(repo domain.Repository) *ListActivities {
	return &ListActivities{repo: repo}
}

// Execute pages through one lead's activity trail, newest first. Out of
// range page and limit values fall back to the defaults.
func (uc *ListActivities) Execute(
	ctx context.Context,
	businessID uint,
	page int,
	limit int,
) (*dto.ActivityPage, error) {

	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > maxActivityLimit {
		limit = defaultActivityLimit
	}

	if _, err := getLead(ctx, uc.repo, businessID); err != nil {
		return nil, err
	}

	acts, total, err := uc.repo.ListActivities(ctx, businessID, limit, (page-1)*limit)
	if err != nil {
		return nil, httperr.Internal("activities_list_failed", err)
	}
	if acts == nil {
		acts = []models.Activity{}
	}

	return &dto.ActivityPage{
		Page:       page,
		Limit:      limit,
		Total:      total,
		Activities: acts,
	}, nil
}
