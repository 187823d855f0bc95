package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/xavierca1/talent-pipeline/internal/entity"
)

type LeadLister interface {
	List(ctx context.Context) ([]entity.Lead, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event entity.LeadEvent) error
}

// FollowUpWorker periodically announces pending leads nobody has spoken to for a week.
// A lead is announced again only after its set of overdue leads changes.
type FollowUpWorker struct {
	leads        LeadLister
	events       EventPublisher
	tickInterval time.Duration
	now          func() time.Time

	lastKey string
}

func NewFollowUpWorker(leads LeadLister, events EventPublisher, tickInterval time.Duration) *FollowUpWorker {
	if tickInterval <= 0 {
		tickInterval = time.Hour
	}
	return &FollowUpWorker{
		leads:        leads,
		events:       events,
		tickInterval: tickInterval,
		now:          time.Now,
	}
}

func (w *FollowUpWorker) Start(ctx context.Context) {
	slog.Info("follow-up worker started", "interval", w.tickInterval)

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	w.RunOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			slog.Info("follow-up worker stopped")
			return
		case <-ticker.C:
			w.RunOnce(ctx)
		}
	}
}

// RunOnce scans the pipeline and publishes one event when the overdue set changed.
// It returns the ids of the overdue leads.
func (w *FollowUpWorker) RunOnce(ctx context.Context) []string {
	leads, err := w.leads.List(ctx)
	if err != nil {
		slog.Error("follow-up scan failed", "error", err)
		return nil
	}

	now := w.now()
	var ids, names []string
	for _, l := range leads {
		if entity.NeedsFollowUp(l, now) {
			ids = append(ids, l.ID)
			names = append(names, l.FullName)
		}
	}

	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)
	key := strings.Join(sorted, ",")
	if key == w.lastKey {
		return ids
	}
	w.lastKey = key
	if len(ids) == 0 {
		return ids
	}

	event := entity.NewLeadEvent(entity.EventFollowUpNeeded, "Follow-up Needed",
		fmt.Sprintf("%d leads need a follow-up: %s.", len(ids), strings.Join(names, ", ")),
		now, ids...)
	if err := w.events.Publish(ctx, event); err != nil {
		slog.Warn("follow-up event not published", "error", err)
		w.lastKey = ""
	}
	return ids
}
