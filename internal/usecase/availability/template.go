package availability

import (
	"context"

	domain "github.com/BruksfildServices01/lead-scheduler/internal/domain/availability"
	"github.com/BruksfildServices01/lead-scheduler/internal/httperr"
	"github.com/BruksfildServices01/lead-scheduler/internal/models"
)

type GetTemplate struct {
	repo domain.Repository
}

func NewGetTemplate(repo domain.Repository) *GetTemplate {
	return &GetTemplate{repo: repo}
}

// Execute lists every rule ordered by weekday; missing days are closed.
func (uc *GetTemplate) Execute(ctx context.Context) ([]models.AvailabilityRule, error) {
	rules, err := uc.repo.ListRules(ctx)
	if err != nil {
		return nil, httperr.Internal("availability_list_failed", err)
	}
	if rules == nil {
		rules = []models.AvailabilityRule{}
	}
	return rules, nil
}

type ReplaceTemplate struct {
	repo domain.Repository
}

func NewReplaceTemplate(repo domain.Repository) *ReplaceTemplate {
	return &ReplaceTemplate{repo: repo}
}

// Execute validates the whole week before touching storage, so a bad rule
// leaves the old template in place.
func (uc *ReplaceTemplate) Execute(
	ctx context.Context,
	rules []models.AvailabilityRule,
) ([]models.AvailabilityRule, error) {

	for _, r := range rules {
		if err := domain.ValidateRule(r); err != nil {
			return nil, err
		}
	}

	if err := uc.repo.ReplaceRules(ctx, rules); err != nil {
		return nil, httperr.Internal("availability_replace_failed", err)
	}

	return NewGetTemplate(uc.repo).Execute(ctx)
}
