package usecase

import (
	"context"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/xavierca1/talent-pipeline/internal/entity"
)

var fixedNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) Create(ctx context.Context, lead *entity.Lead, idempotencyKey string) (*entity.Lead, bool, error) {
	args := m.Called(ctx, lead, idempotencyKey)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	if echo, ok := args.Get(0).(func(*entity.Lead) *entity.Lead); ok {
		return echo(lead), args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*entity.Lead), args.Bool(1), args.Error(2)
}

func (m *MockLeadRepository) FindByID(ctx context.Context, id string) (*entity.Lead, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) List(ctx context.Context) ([]entity.Lead, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) UpdateStatus(ctx context.Context, id string, status entity.Status, expectedVersion int, entry *entity.ConversationEntry) (*entity.Lead, error) {
	args := m.Called(ctx, id, status, expectedVersion, entry)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) BulkUpdateStatus(ctx context.Context, ids []string, status entity.Status, entry *entity.ConversationEntry) ([]string, error) {
	args := m.Called(ctx, ids, status, entry)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockLeadRepository) AppendEntry(ctx context.Context, id string, entry entity.ConversationEntry) (*entity.Lead, error) {
	args := m.Called(ctx, id, entry)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) Delete(ctx context.Context, ids []string) ([]string, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, event entity.LeadEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func eventOfType(t entity.EventType) any {
	return mock.MatchedBy(func(ev entity.LeadEvent) bool { return ev.Type == t })
}

// selectionSet is an in-process SelectionStore for tests.
type selectionSet struct {
	mu   sync.Mutex
	sets map[string][]string
}

func newSelectionSet() *selectionSet {
	return &selectionSet{sets: map[string][]string{}}
}

func (s *selectionSet) Replace(_ context.Context, id string, leadIDs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sets[id] = append([]string(nil), leadIDs...)
	return nil
}

func (s *selectionSet) Add(_ context.Context, id, leadID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.sets[id] {
		if existing == leadID {
			return nil
		}
	}
	s.sets[id] = append(s.sets[id], leadID)
	return nil
}

func (s *selectionSet) Remove(_ context.Context, id, leadID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.sets[id][:0]
	for _, existing := range s.sets[id] {
		if existing != leadID {
			kept = append(kept, existing)
		}
	}
	s.sets[id] = kept
	return nil
}

func (s *selectionSet) Members(_ context.Context, id string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.sets[id]...), nil
}

func (s *selectionSet) Clear(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sets, id)
	return nil
}

// namesExporter writes one lead name per line.
type namesExporter struct{}

func (namesExporter) ContentType() string { return "text/plain" }
func (namesExporter) Extension() string   { return "txt" }

func (namesExporter) Write(w io.Writer, rows []ExportRow) error {
	names := make([]string, 0, len(rows))
	for _, r := range rows {
		names = append(names, r.Name)
	}
	_, err := io.WriteString(w, strings.Join(names, "\n"))
	return err
}

func testLead(id string, status entity.Status, earnings int64, lastContact time.Time) entity.Lead {
	return entity.Lead{
		ID:               id,
		FullName:         "Lead " + id,
		InstagramHandle:  "@lead_" + id,
		OnlyFansEarnings: earnings,
		WhosTalkingTo:    "Lisa Chen",
		Status:           status,
		LastTimeSpokenTo: lastContact,
		Version:          1,
	}
}
