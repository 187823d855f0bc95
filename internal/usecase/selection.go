package usecase

import (
	"context"
	"sort"
	"strings"

	"github.com/xavierca1/talent-pipeline/internal/entity"
)

// SelectionUseCase manages the per-session set of leads picked for bulk actions.
// Switching tabs never clears a selection; only DeselectAll or a finished bulk action does.
type SelectionUseCase struct {
	Repo       LeadRepositoryInterface
	Selections SelectionStore
	Now        Clock
}

func NewSelectionUseCase(repo LeadRepositoryInterface, selections SelectionStore, now Clock) *SelectionUseCase {
	return &SelectionUseCase{Repo: repo, Selections: selections, Now: now}
}

// SelectAll selects exactly the leads visible under the given filter, not the whole store.
func (uc *SelectionUseCase) SelectAll(ctx context.Context, selectionID string, filter ListLeadsInput) (*SelectionOutput, error) {
	if err := checkSelectionID(selectionID); err != nil {
		return nil, err
	}
	criteria, err := ParseCriteria(filter)
	if err != nil {
		return nil, err
	}

	leads, err := uc.Repo.List(ctx)
	if err != nil {
		return nil, storeError("failed to list leads", err)
	}
	visible := entity.FilterLeads(leads, criteria, uc.Now.now())

	ids := make([]string, 0, len(visible))
	for _, l := range visible {
		ids = append(ids, l.ID)
	}
	if err := uc.Selections.Replace(ctx, selectionID, ids); err != nil {
		return nil, selectionError(err)
	}
	return uc.Get(ctx, selectionID)
}

func (uc *SelectionUseCase) DeselectAll(ctx context.Context, selectionID string) (*SelectionOutput, error) {
	if err := checkSelectionID(selectionID); err != nil {
		return nil, err
	}
	if err := uc.Selections.Clear(ctx, selectionID); err != nil {
		return nil, selectionError(err)
	}
	return &SelectionOutput{SelectionID: selectionID, LeadIDs: []string{}}, nil
}

func (uc *SelectionUseCase) Toggle(ctx context.Context, selectionID, leadID string, selected bool) (*SelectionOutput, error) {
	if err := checkSelectionID(selectionID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(leadID) == "" {
		return nil, &DomainError{Code: CodeValidation, Message: "lead_id is required"}
	}

	var err error
	if selected {
		err = uc.Selections.Add(ctx, selectionID, leadID)
	} else {
		err = uc.Selections.Remove(ctx, selectionID, leadID)
	}
	if err != nil {
		return nil, selectionError(err)
	}
	return uc.Get(ctx, selectionID)
}

func (uc *SelectionUseCase) Get(ctx context.Context, selectionID string) (*SelectionOutput, error) {
	if err := checkSelectionID(selectionID); err != nil {
		return nil, err
	}
	ids, err := uc.Selections.Members(ctx, selectionID)
	if err != nil {
		return nil, selectionError(err)
	}
	if ids == nil {
		ids = []string{}
	}
	sort.Strings(ids)
	return &SelectionOutput{SelectionID: selectionID, LeadIDs: ids, Count: len(ids)}, nil
}

func checkSelectionID(id string) error {
	if strings.TrimSpace(id) == "" {
		return &DomainError{Code: CodeValidation, Message: "selection_id is required"}
	}
	return nil
}

func selectionError(err error) *TechnicalError {
	return &TechnicalError{Code: CodeSelectionError, Message: "selection store failed: " + err.Error(), Err: err}
}
