package usecase

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/xavierca1/talent-pipeline/internal/entity"
)

const DefaultExportFormat = "csv"

type ExportLeadsUseCase struct {
	Repo       LeadRepositoryInterface
	Selections SelectionStore
	Exporters  map[string]LeadExporter
	Events     EventPublisher
	Now        Clock
}

func NewExportLeadsUseCase(repo LeadRepositoryInterface, selections SelectionStore, exporters map[string]LeadExporter, events EventPublisher, now Clock) *ExportLeadsUseCase {
	return &ExportLeadsUseCase{Repo: repo, Selections: selections, Exporters: exporters, Events: events, Now: now}
}

func (uc *ExportLeadsUseCase) Execute(ctx context.Context, input ExportInput) (*ExportOutput, error) {
	format := strings.ToLower(strings.TrimSpace(input.Format))
	if format == "" {
		format = DefaultExportFormat
	}
	exporter, ok := uc.Exporters[format]
	if !ok {
		return nil, &DomainError{
			Code:    CodeInvalidExport,
			Message: fmt.Sprintf("format %q must be one of %s", format, strings.Join(uc.formats(), ", ")),
		}
	}

	leads, err := uc.Repo.List(ctx)
	if err != nil {
		return nil, storeError("failed to load leads", err)
	}

	if !input.All {
		ids, err := resolveTargets(ctx, uc.Selections, input.LeadIDs, input.SelectionID)
		if err != nil {
			return nil, err
		}
		leads = keepIDs(leads, ids)
	}

	rows := ExportRows(leads)
	var buf bytes.Buffer
	if err := exporter.Write(&buf, rows); err != nil {
		return nil, &TechnicalError{Code: CodeExportError, Message: "failed to encode export: " + err.Error(), Err: err}
	}

	now := uc.Now.now()
	msg := fmt.Sprintf("%d leads exported successfully.", len(rows))
	publish(ctx, uc.Events, entity.NewLeadEvent(entity.EventExportComplete, "Export Complete", msg, now))

	return &ExportOutput{
		Filename:    fmt.Sprintf("leads-%s.%s", now.UTC().Format("20060102-150405"), exporter.Extension()),
		ContentType: exporter.ContentType(),
		Body:        buf.Bytes(),
		Count:       len(rows),
		Msg:         msg,
	}, nil
}

func (uc *ExportLeadsUseCase) formats() []string {
	out := make([]string, 0, len(uc.Exporters))
	for f := range uc.Exporters {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

func ExportRows(leads []entity.Lead) []ExportRow {
	rows := make([]ExportRow, 0, len(leads))
	for _, l := range leads {
		rows = append(rows, ExportRow{
			Name:            l.FullName,
			InstagramHandle: l.InstagramHandle,
			Earnings:        l.OnlyFansEarnings,
			Status:          l.Status,
		})
	}
	return rows
}

// keepIDs filters leads down to ids, preserving store order.
func keepIDs(leads []entity.Lead, ids []string) []entity.Lead {
	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	out := make([]entity.Lead, 0, len(ids))
	for _, l := range leads {
		if _, ok := want[l.ID]; ok {
			out = append(out, l)
		}
	}
	return out
}
