package usecase

import (
	"context"

	"github.com/xavierca1/talent-pipeline/internal/entity"
)

type ListLeadsUseCase struct {
	Repo LeadRepositoryInterface
	Now  Clock
}

func NewListLeadsUseCase(repo LeadRepositoryInterface, now Clock) *ListLeadsUseCase {
	return &ListLeadsUseCase{Repo: repo, Now: now}
}

func (uc *ListLeadsUseCase) Execute(ctx context.Context, input ListLeadsInput) (*ListLeadsOutput, error) {
	criteria, err := ParseCriteria(input)
	if err != nil {
		return nil, err
	}

	leads, err := uc.Repo.List(ctx)
	if err != nil {
		return nil, storeError("failed to list leads", err)
	}

	now := uc.Now.now()
	visible := entity.FilterLeads(leads, criteria, now)
	return &ListLeadsOutput{
		Leads:  visible,
		Counts: entity.CountByTab(leads, criteria, now),
		Total:  len(leads),
	}, nil
}

// ParseCriteria turns raw dashboard filter values into criteria. The status tab defaults to pending.
func ParseCriteria(input ListLeadsInput) (entity.FilterCriteria, error) {
	status := entity.StatusPending
	if input.Status != "" {
		s, err := parseStatus(input.Status)
		if err != nil {
			return entity.FilterCriteria{}, err
		}
		status = s
	}

	earnings, err := entity.ParseEarningsThreshold(input.Earnings)
	if err != nil {
		return entity.FilterCriteria{}, &DomainError{Code: CodeInvalidFilter, Message: err.Error(), Err: err}
	}
	recency, err := entity.ParseRecencyThreshold(input.Recency)
	if err != nil {
		return entity.FilterCriteria{}, &DomainError{Code: CodeInvalidFilter, Message: err.Error(), Err: err}
	}

	return entity.FilterCriteria{
		Status:      status,
		SearchQuery: input.Query,
		Earnings:    earnings,
		Recency:     recency,
	}, nil
}
