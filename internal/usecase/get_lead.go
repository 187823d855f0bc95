package usecase

import (
	"context"
	"errors"

	"github.com/xavierca1/talent-pipeline/internal/entity"
)

type GetLeadUseCase struct {
	Repo LeadRepositoryInterface
}

func NewGetLeadUseCase(repo LeadRepositoryInterface) *GetLeadUseCase {
	return &GetLeadUseCase{Repo: repo}
}

func (uc *GetLeadUseCase) Execute(ctx context.Context, id string) (*entity.Lead, error) {
	lead, err := uc.Repo.FindByID(ctx, id)
	if errors.Is(err, entity.ErrLeadNotFound) {
		return nil, &DomainError{Code: CodeLeadNotFound, Message: "lead " + id + " not found", Err: err}
	}
	if err != nil {
		return nil, storeError("failed to load lead", err)
	}
	return lead, nil
}
