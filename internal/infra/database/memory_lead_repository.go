package database

import (
	"context"
	"sync"
	"time"

	"github.com/xavierca1/talent-pipeline/internal/entity"
)

// MemoryLeadRepository keeps the pipeline in process memory.
//
// The collection is copy-on-write: every mutation builds a new slice under the
// write lock and swaps it in, so a List snapshot never observes a half-applied
// write. Mutations wait for the configured latency (honouring ctx) before they
// take the lock, which mimics a remote store without holding it.
type MemoryLeadRepository struct {
	mu          sync.RWMutex
	leads       []entity.Lead
	idempotency map[string]string
	latency     time.Duration
}

func NewMemoryLeadRepository(latency time.Duration, seed ...entity.Lead) *MemoryLeadRepository {
	leads := make([]entity.Lead, 0, len(seed))
	for _, l := range seed {
		leads = append(leads, l.Clone())
	}
	return &MemoryLeadRepository{
		leads:       leads,
		idempotency: make(map[string]string),
		latency:     latency,
	}
}

func (r *MemoryLeadRepository) Create(ctx context.Context, lead *entity.Lead, idempotencyKey string) (*entity.Lead, bool, error) {
	if err := r.wait(ctx); err != nil {
		return nil, false, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if idempotencyKey != "" {
		if id, ok := r.idempotency[idempotencyKey]; ok {
			if i := r.indexOf(id); i >= 0 {
				existing := r.leads[i].Clone()
				return &existing, true, nil
			}
		}
	}
	if r.indexOf(lead.ID) >= 0 {
		return nil, false, entity.ErrDuplicateLead
	}

	next := make([]entity.Lead, 0, len(r.leads)+1)
	next = append(next, lead.Clone())
	next = append(next, r.leads...)
	r.leads = next
	if idempotencyKey != "" {
		r.idempotency[idempotencyKey] = lead.ID
	}

	stored := lead.Clone()
	return &stored, false, nil
}

func (r *MemoryLeadRepository) FindByID(ctx context.Context, id string) (*entity.Lead, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil, entity.ErrLeadNotFound
	}
	l := r.leads[i].Clone()
	return &l, nil
}

func (r *MemoryLeadRepository) List(ctx context.Context) ([]entity.Lead, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	snapshot := r.leads
	r.mu.RUnlock()

	out := make([]entity.Lead, len(snapshot))
	for i, l := range snapshot {
		out[i] = l.Clone()
	}
	return out, nil
}

func (r *MemoryLeadRepository) UpdateStatus(ctx context.Context, id string, status entity.Status, expectedVersion int, entry *entity.ConversationEntry) (*entity.Lead, error) {
	if err := r.wait(ctx); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil, entity.ErrLeadNotFound
	}
	if expectedVersion > 0 && r.leads[i].Version != expectedVersion {
		return nil, entity.ErrVersionConflict
	}

	next := append([]entity.Lead(nil), r.leads...)
	updated := next[i].Clone()
	updated.SetStatus(status, entry, time.Now())
	next[i] = updated
	r.leads = next

	out := updated.Clone()
	return &out, nil
}

func (r *MemoryLeadRepository) BulkUpdateStatus(ctx context.Context, ids []string, status entity.Status, entry *entity.ConversationEntry) ([]string, error) {
	if err := r.wait(ctx); err != nil {
		return nil, err
	}

	want := idSet(ids)
	now := time.Now()

	r.mu.Lock()
	defer r.mu.Unlock()

	next := append([]entity.Lead(nil), r.leads...)
	updated := []string{}
	for i := range next {
		if _, ok := want[next[i].ID]; !ok {
			continue
		}
		l := next[i].Clone()
		var e *entity.ConversationEntry
		if entry != nil {
			fresh := entity.NewConversationEntry(entry.DealStatus, entry.Notes, entry.Date)
			e = &fresh
		}
		l.SetStatus(status, e, now)
		next[i] = l
		updated = append(updated, l.ID)
	}
	r.leads = next
	return updated, nil
}

func (r *MemoryLeadRepository) AppendEntry(ctx context.Context, id string, entry entity.ConversationEntry) (*entity.Lead, error) {
	if err := r.wait(ctx); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil, entity.ErrLeadNotFound
	}

	next := append([]entity.Lead(nil), r.leads...)
	updated := next[i].Clone()
	updated.LogContact(entry)
	next[i] = updated
	r.leads = next

	out := updated.Clone()
	return &out, nil
}

func (r *MemoryLeadRepository) Delete(ctx context.Context, ids []string) ([]string, error) {
	if err := r.wait(ctx); err != nil {
		return nil, err
	}

	want := idSet(ids)

	r.mu.Lock()
	defer r.mu.Unlock()

	next := make([]entity.Lead, 0, len(r.leads))
	removed := []string{}
	for _, l := range r.leads {
		if _, ok := want[l.ID]; ok {
			removed = append(removed, l.ID)
			continue
		}
		next = append(next, l)
	}
	r.leads = next

	for key, id := range r.idempotency {
		if _, ok := want[id]; ok {
			delete(r.idempotency, key)
		}
	}
	return removed, nil
}

// Ping lets the health check treat the memory store like any other dependency.
func (r *MemoryLeadRepository) Ping(ctx context.Context) error {
	return ctx.Err()
}

// indexOf must be called with mu held.
func (r *MemoryLeadRepository) indexOf(id string) int {
	for i := range r.leads {
		if r.leads[i].ID == id {
			return i
		}
	}
	return -1
}

func (r *MemoryLeadRepository) wait(ctx context.Context) error {
	if r.latency <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(r.latency)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func idSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
