package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xavierca1/talent-pipeline/internal/entity"
)

type BulkDeleteUseCase struct {
	Repo       LeadRepositoryInterface
	Selections SelectionStore
	Events     EventPublisher
	Now        Clock
}

func NewBulkDeleteUseCase(repo LeadRepositoryInterface, selections SelectionStore, events EventPublisher, now Clock) *BulkDeleteUseCase {
	return &BulkDeleteUseCase{Repo: repo, Selections: selections, Events: events, Now: now}
}

func (uc *BulkDeleteUseCase) Execute(ctx context.Context, input BulkDeleteInput) (*BulkResult, error) {
	ids, err := resolveTargets(ctx, uc.Selections, input.LeadIDs, input.SelectionID)
	if err != nil {
		return nil, err
	}

	removed := []string{}
	if len(ids) > 0 {
		removed, err = uc.Repo.Delete(ctx, ids)
		if err != nil {
			return nil, storeError("failed to delete leads", err)
		}
	}
	clearSelection(ctx, uc.Selections, input.SelectionID)

	msg := fmt.Sprintf("%d leads have been deleted.", len(removed))
	publish(ctx, uc.Events, entity.NewLeadEvent(entity.EventLeadsDeleted, "Leads Deleted", msg, uc.Now.now(), removed...))
	slog.Info("leads deleted", "requested", len(ids), "deleted", len(removed))

	return &BulkResult{Requested: len(ids), Affected: len(removed), AffectedIDs: removed, Msg: msg}, nil
}
