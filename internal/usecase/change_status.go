package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/xavierca1/talent-pipeline/internal/entity"
)

// StatusChangeEntry is the timeline label used when status changes are journaled.
func StatusChangeEntry(status entity.Status) string {
	return "Marked as " + string(status)
}

type ChangeStatusUseCase struct {
	Repo   LeadRepositoryInterface
	Events EventPublisher
	Now    Clock

	// AppendTimeline journals the transition on the lead's timeline.
	// Off by default: only creation seeds the timeline.
	AppendTimeline bool
}

func NewChangeStatusUseCase(repo LeadRepositoryInterface, events EventPublisher, now Clock, appendTimeline bool) *ChangeStatusUseCase {
	return &ChangeStatusUseCase{Repo: repo, Events: events, Now: now, AppendTimeline: appendTimeline}
}

func (uc *ChangeStatusUseCase) Execute(ctx context.Context, input ChangeStatusInput) (*entity.Lead, error) {
	status, err := parseStatus(input.Status)
	if err != nil {
		return nil, err
	}

	now := uc.Now.now()
	lead, err := uc.Repo.UpdateStatus(ctx, input.LeadID, status, input.ExpectedVersion, transitionEntry(uc.AppendTimeline, status, now))
	switch {
	case errors.Is(err, entity.ErrLeadNotFound):
		return nil, &DomainError{Code: CodeLeadNotFound, Message: "lead " + input.LeadID + " not found", Err: err}
	case errors.Is(err, entity.ErrVersionConflict):
		return nil, &DomainError{Code: CodeVersionConflict, Message: "lead " + input.LeadID + " was modified, reload and retry", Err: err}
	case err != nil:
		return nil, storeError("failed to update lead status", err)
	}

	ev := entity.NewLeadEvent(entity.EventLeadUpdated, "Lead Updated",
		fmt.Sprintf("Lead has been marked as %s.", status), now, lead.ID)
	ev.Status = status
	publish(ctx, uc.Events, ev)
	slog.Info("lead status changed", "lead_id", lead.ID, "status", status, "version", lead.Version)

	return lead, nil
}

type BulkChangeStatusUseCase struct {
	Repo       LeadRepositoryInterface
	Selections SelectionStore
	Events     EventPublisher
	Now        Clock

	AppendTimeline bool
}

func NewBulkChangeStatusUseCase(repo LeadRepositoryInterface, selections SelectionStore, events EventPublisher, now Clock, appendTimeline bool) *BulkChangeStatusUseCase {
	return &BulkChangeStatusUseCase{Repo: repo, Selections: selections, Events: events, Now: now, AppendTimeline: appendTimeline}
}

// Execute updates every requested lead that exists. Missing ids are skipped silently.
func (uc *BulkChangeStatusUseCase) Execute(ctx context.Context, input BulkChangeStatusInput) (*BulkResult, error) {
	status, err := parseStatus(input.Status)
	if err != nil {
		return nil, err
	}

	ids, err := resolveTargets(ctx, uc.Selections, input.LeadIDs, input.SelectionID)
	if err != nil {
		return nil, err
	}

	now := uc.Now.now()
	updated := []string{}
	if len(ids) > 0 {
		updated, err = uc.Repo.BulkUpdateStatus(ctx, ids, status, transitionEntry(uc.AppendTimeline, status, now))
		if err != nil {
			return nil, storeError("failed to update lead statuses", err)
		}
	}
	clearSelection(ctx, uc.Selections, input.SelectionID)

	msg := fmt.Sprintf("%d leads updated to %s.", len(updated), status)
	ev := entity.NewLeadEvent(entity.EventBulkUpdated, "Bulk Update Complete", msg, now, updated...)
	ev.Status = status
	publish(ctx, uc.Events, ev)
	slog.Info("bulk status change", "status", status, "requested", len(ids), "updated", len(updated))

	return &BulkResult{Requested: len(ids), Affected: len(updated), AffectedIDs: updated, Msg: msg}, nil
}

func parseStatus(raw string) (entity.Status, error) {
	status, err := entity.ParseStatus(raw)
	if err != nil {
		return "", &DomainError{
			Code:    CodeInvalidStatus,
			Message: fmt.Sprintf("status %q must be pending, signed or dead", raw),
			Err:     err,
		}
	}
	return status, nil
}

func transitionEntry(enabled bool, status entity.Status, now time.Time) *entity.ConversationEntry {
	if !enabled {
		return nil
	}
	e := entity.NewConversationEntry(StatusChangeEntry(status), "", now)
	return &e
}

// resolveTargets picks the explicit ids, falling back to the session's selection.
func resolveTargets(ctx context.Context, selections SelectionStore, ids []string, selectionID string) ([]string, error) {
	if len(ids) == 0 && selectionID != "" {
		if selections == nil {
			return nil, &DomainError{Code: CodeSelectionError, Message: "selections are not enabled"}
		}
		members, err := selections.Members(ctx, selectionID)
		if err != nil {
			return nil, &TechnicalError{Code: CodeSelectionError, Message: "failed to read selection: " + err.Error(), Err: err}
		}
		ids = members
	}
	return dedupe(ids), nil
}

func clearSelection(ctx context.Context, selections SelectionStore, selectionID string) {
	if selections == nil || selectionID == "" {
		return
	}
	if err := selections.Clear(ctx, selectionID); err != nil {
		slog.Warn("selection not cleared", "selection_id", selectionID, "error", err)
	}
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
