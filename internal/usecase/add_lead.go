package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xavierca1/talent-pipeline/internal/entity"
)

type AddLeadUseCase struct {
	Repo   LeadRepositoryInterface
	Events EventPublisher
	Now    Clock
}

func NewAddLeadUseCase(repo LeadRepositoryInterface, events EventPublisher, now Clock) *AddLeadUseCase {
	return &AddLeadUseCase{Repo: repo, Events: events, Now: now}
}

func (uc *AddLeadUseCase) Execute(ctx context.Context, input AddLeadInput) (*AddLeadOutput, error) {
	if errs := ValidateAddLeadInput(input); len(errs) > 0 {
		return nil, validationFailure(errs)
	}

	now := uc.Now.now()
	lead, err := entity.NewLead(entity.LeadDetails{
		FullName:          input.FullName,
		InstagramHandle:   input.InstagramHandle,
		ProfilePicture:    input.ProfilePicture,
		PhoneNumber:       input.PhoneNumber,
		OnlyFansEarnings:  entity.ParseEarnings(string(input.OnlyFansEarnings)),
		CurrentlySignedTo: input.CurrentlySignedTo,
		ReferredBy:        input.ReferredBy,
		WhosTalkingTo:     input.WhosTalkingTo,
		Notes:             input.Notes,
	}, now)
	if err != nil {
		return nil, &DomainError{Code: CodeValidation, Message: err.Error(), Err: err}
	}

	stored, replayed, err := uc.Repo.Create(ctx, lead, input.IdempotencyKey)
	if err != nil {
		return nil, storeError("failed to store lead", err)
	}

	if replayed {
		slog.Info("lead creation replayed", "lead_id", stored.ID, "idempotency_key", input.IdempotencyKey)
		return &AddLeadOutput{Lead: stored, Replayed: true, Msg: fmt.Sprintf("%s was already added.", stored.FullName)}, nil
	}

	msg := fmt.Sprintf("%s has been added successfully.", stored.FullName)
	publish(ctx, uc.Events, entity.NewLeadEvent(entity.EventLeadAdded, "Lead Added", msg, now, stored.ID))
	slog.Info("lead added", "lead_id", stored.ID, "owner", stored.WhosTalkingTo)

	return &AddLeadOutput{Lead: stored, Msg: msg}, nil
}
