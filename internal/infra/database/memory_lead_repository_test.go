package database

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/talent-pipeline/internal/entity"
)

func newLead(t *testing.T, name string) *entity.Lead {
	t.Helper()
	l, err := entity.NewLead(entity.LeadDetails{
		FullName:        name,
		InstagramHandle: name,
		WhosTalkingTo:   "Lisa Chen",
	}, time.Now())
	require.NoError(t, err)
	return l
}

func leadIDs(leads []entity.Lead) []string {
	out := make([]string, 0, len(leads))
	for _, l := range leads {
		out = append(out, l.ID)
	}
	return out
}

func TestMemoryRepo_CreatePrepends(t *testing.T) {
	repo := NewMemoryLeadRepository(0, DemoLeads(time.Now())...)
	ctx := context.Background()

	lead := newLead(t, "jane")
	stored, replayed, err := repo.Create(ctx, lead, "")
	require.NoError(t, err)
	assert.False(t, replayed)
	assert.Equal(t, lead.ID, stored.ID)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 6)
	assert.Equal(t, lead.ID, all[0].ID)
	assert.Equal(t, "1", all[1].ID)
}

func TestMemoryRepo_IdempotentCreate(t *testing.T) {
	repo := NewMemoryLeadRepository(0)
	ctx := context.Background()

	first, _, err := repo.Create(ctx, newLead(t, "jane"), "retry-key")
	require.NoError(t, err)

	second, replayed, err := repo.Create(ctx, newLead(t, "jane"), "retry-key")
	require.NoError(t, err)
	assert.True(t, replayed)
	assert.Equal(t, first.ID, second.ID)

	all, _ := repo.List(ctx)
	assert.Len(t, all, 1)
}

func TestMemoryRepo_DuplicateID(t *testing.T) {
	repo := NewMemoryLeadRepository(0)
	lead := newLead(t, "jane")

	_, _, err := repo.Create(context.Background(), lead, "")
	require.NoError(t, err)
	_, _, err = repo.Create(context.Background(), lead, "")
	assert.ErrorIs(t, err, entity.ErrDuplicateLead)
}

func TestMemoryRepo_UpdateStatus(t *testing.T) {
	repo := NewMemoryLeadRepository(0, DemoLeads(time.Now())...)
	ctx := context.Background()

	updated, err := repo.UpdateStatus(ctx, "1", entity.StatusSigned, 1, nil)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusSigned, updated.Status)
	assert.Equal(t, 2, updated.Version)
	assert.Len(t, updated.ConversationTimeline, 3)

	_, err = repo.UpdateStatus(ctx, "1", entity.StatusDead, 1, nil)
	assert.ErrorIs(t, err, entity.ErrVersionConflict)

	_, err = repo.UpdateStatus(ctx, "missing", entity.StatusDead, 0, nil)
	assert.ErrorIs(t, err, entity.ErrLeadNotFound)

	entry := entity.NewConversationEntry("Marked as dead", "", time.Now())
	updated, err = repo.UpdateStatus(ctx, "1", entity.StatusDead, 0, &entry)
	require.NoError(t, err)
	assert.Len(t, updated.ConversationTimeline, 4)
}

func TestMemoryRepo_ReturnedLeadsAreCopies(t *testing.T) {
	repo := NewMemoryLeadRepository(0, DemoLeads(time.Now())...)
	ctx := context.Background()

	got, err := repo.FindByID(ctx, "1")
	require.NoError(t, err)
	got.Status = entity.StatusDead
	got.ConversationTimeline[0].DealStatus = "tampered"

	again, err := repo.FindByID(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPending, again.Status)
	assert.Equal(t, "Initial Contact", again.ConversationTimeline[0].DealStatus)
}

func TestMemoryRepo_BulkUpdateSkipsMissing(t *testing.T) {
	repo := NewMemoryLeadRepository(0, DemoLeads(time.Now())...)
	ctx := context.Background()
	before, _ := repo.List(ctx)

	updated, err := repo.BulkUpdateStatus(ctx, []string{"missing"}, entity.StatusSigned, nil)
	require.NoError(t, err)
	assert.Empty(t, updated)

	after, _ := repo.List(ctx)
	assert.Equal(t, before, after)

	updated, err = repo.BulkUpdateStatus(ctx, []string{"5", "missing", "2"}, entity.StatusSigned, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"2", "5"}, updated)
}

func TestMemoryRepo_AppendEntry(t *testing.T) {
	repo := NewMemoryLeadRepository(0, DemoLeads(time.Now())...)
	at := time.Now()

	updated, err := repo.AppendEntry(context.Background(), "4", entity.NewConversationEntry("Re-engaged", "", at))
	require.NoError(t, err)
	assert.Equal(t, at, updated.LastTimeSpokenTo)
	assert.Len(t, updated.ConversationTimeline, 3)

	_, err = repo.AppendEntry(context.Background(), "missing", entity.NewConversationEntry("x", "", at))
	assert.ErrorIs(t, err, entity.ErrLeadNotFound)
}

func TestMemoryRepo_Delete(t *testing.T) {
	repo := NewMemoryLeadRepository(0)
	ctx := context.Background()
	lead := newLead(t, "jane")
	_, _, err := repo.Create(ctx, lead, "key")
	require.NoError(t, err)

	removed, err := repo.Delete(ctx, []string{lead.ID, "missing"})
	require.NoError(t, err)
	assert.Equal(t, []string{lead.ID}, removed)

	_, err = repo.FindByID(ctx, lead.ID)
	assert.ErrorIs(t, err, entity.ErrLeadNotFound)

	// The key is released with the lead.
	_, replayed, err := repo.Create(ctx, newLead(t, "jane"), "key")
	require.NoError(t, err)
	assert.False(t, replayed)
}

func TestMemoryRepo_LatencyHonoursContext(t *testing.T) {
	repo := NewMemoryLeadRepository(time.Hour, DemoLeads(time.Now())...)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := repo.UpdateStatus(ctx, "1", entity.StatusSigned, 0, nil)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	got, err := repo.FindByID(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPending, got.Status)
}

func TestMemoryRepo_ConcurrentVersionedUpdates(t *testing.T) {
	repo := NewMemoryLeadRepository(0, DemoLeads(time.Now())...)
	ctx := context.Background()

	const writers = 20
	var wg sync.WaitGroup
	var mu sync.Mutex
	wins, conflicts := 0, 0
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.UpdateStatus(ctx, "1", entity.StatusSigned, 1, nil)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				wins++
			} else if assert.ErrorIs(t, err, entity.ErrVersionConflict) {
				conflicts++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
	assert.Equal(t, writers-1, conflicts)
}

func TestDemoLeads(t *testing.T) {
	now := time.Now()
	leads := DemoLeads(now)

	require.Len(t, leads, 5)
	assert.Equal(t, []string{"1", "2", "3", "4", "5"}, leadIDs(leads))

	s := entity.ComputeStats(leads, now)
	assert.Equal(t, 3, s.PendingLeads)
	assert.Equal(t, 1, s.SignedLeads)
	assert.Equal(t, 1, s.DeadLeads)
	assert.Equal(t, int64(220000), s.TotalRevenue)
	assert.Equal(t, 3, s.HighValueLeads)
	assert.Equal(t, 2, s.NeedsFollowUp)

	for _, l := range leads {
		assert.NoError(t, l.Validate(), l.ID)
		assert.Equal(t, l.ConversationTimeline[0].Date, l.CreatedAt)
	}
}
