package usecase

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/xavierca1/talent-pipeline/internal/entity"
)

type LeadRepositoryInterface = entity.LeadRepositoryInterface

// EventPublisher is the notification channel. Events are advisory.
type EventPublisher interface {
	Publish(ctx context.Context, event entity.LeadEvent) error
}

// SelectionStore keeps the ids a dashboard session picked for bulk actions.
type SelectionStore interface {
	Replace(ctx context.Context, selectionID string, leadIDs []string) error
	Add(ctx context.Context, selectionID, leadID string) error
	Remove(ctx context.Context, selectionID, leadID string) error
	Members(ctx context.Context, selectionID string) ([]string, error)
	Clear(ctx context.Context, selectionID string) error
}

type LeadExporter interface {
	ContentType() string
	Extension() string
	Write(w io.Writer, rows []ExportRow) error
}

// StatsRecorder receives every freshly computed aggregate (metrics gauges).
type StatsRecorder interface {
	RecordLeadStats(stats entity.LeadStats)
}

type Clock func() time.Time

func (c Clock) now() time.Time {
	if c == nil {
		return time.Now()
	}
	return c()
}

func publish(ctx context.Context, p EventPublisher, ev entity.LeadEvent) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, ev); err != nil {
		slog.Warn("lead event not published", "type", ev.Type, "error", err)
	}
}
