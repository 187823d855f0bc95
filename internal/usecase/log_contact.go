package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/xavierca1/talent-pipeline/internal/entity"
)

// LogContactUseCase records a conversation on the lead's timeline and refreshes its last contact.
type LogContactUseCase struct {
	Repo   LeadRepositoryInterface
	Events EventPublisher
	Now    Clock
}

func NewLogContactUseCase(repo LeadRepositoryInterface, events EventPublisher, now Clock) *LogContactUseCase {
	return &LogContactUseCase{Repo: repo, Events: events, Now: now}
}

func (uc *LogContactUseCase) Execute(ctx context.Context, input LogContactInput) (*entity.Lead, error) {
	if errs := ValidateLogContactInput(input); len(errs) > 0 {
		return nil, validationFailure(errs)
	}

	now := uc.Now.now()
	entry := entity.NewConversationEntry(strings.TrimSpace(input.DealStatus), strings.TrimSpace(input.Notes), now)

	lead, err := uc.Repo.AppendEntry(ctx, input.LeadID, entry)
	if errors.Is(err, entity.ErrLeadNotFound) {
		return nil, &DomainError{Code: CodeLeadNotFound, Message: "lead " + input.LeadID + " not found", Err: err}
	}
	if err != nil {
		return nil, storeError("failed to log contact", err)
	}

	publish(ctx, uc.Events, entity.NewLeadEvent(entity.EventContactLogged, "Contact Logged",
		fmt.Sprintf("%s: %s", lead.FullName, entry.DealStatus), now, lead.ID))
	return lead, nil
}
