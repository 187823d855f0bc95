package entity

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrLeadNotFound    = errors.New("lead not found")
	ErrInvalidStatus   = errors.New("invalid lead status")
	ErrVersionConflict = errors.New("lead was modified by another request")
	ErrDuplicateLead   = errors.New("lead id already exists")
)

const (
	DefaultProfilePicture = "https://images.unsplash.com/photo-1494790108755-2616b612b29c?w=400"
	HandleMarker          = "@"

	DealStatusLeadAdded = "Lead Added"
	leadAddedNotes      = "New lead added to system"
)

type Status string

const (
	StatusPending Status = "pending"
	StatusSigned  Status = "signed"
	StatusDead    Status = "dead"
)

// Statuses in dashboard tab order.
var Statuses = []Status{StatusPending, StatusSigned, StatusDead}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusSigned, StatusDead:
		return true
	}
	return false
}

func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	if !st.Valid() {
		return "", ErrInvalidStatus
	}
	return st, nil
}

// ConversationEntry is one event of a lead's deal timeline.
type ConversationEntry struct {
	ID         string    `json:"id"`
	Date       time.Time `json:"date"`
	DealStatus string    `json:"deal_status"`
	Notes      string    `json:"notes,omitempty"`
}

func NewConversationEntry(dealStatus, notes string, at time.Time) ConversationEntry {
	return ConversationEntry{
		ID:         uuid.New().String(),
		Date:       at,
		DealStatus: dealStatus,
		Notes:      notes,
	}
}

type Lead struct {
	ID                   string              `json:"id"`
	FullName             string              `json:"full_name"`
	InstagramHandle      string              `json:"instagram_handle"`
	ProfilePicture       string              `json:"profile_picture"`
	PhoneNumber          string              `json:"phone_number,omitempty"`
	OnlyFansEarnings     int64               `json:"only_fans_earnings"`
	CurrentlySignedTo    string              `json:"currently_signed_to,omitempty"`
	ReferredBy           string              `json:"referred_by,omitempty"`
	WhosTalkingTo        string              `json:"whos_talking_to"`
	Notes                string              `json:"notes,omitempty"`
	LastTimeSpokenTo     time.Time           `json:"last_time_spoken_to"`
	Status               Status              `json:"status"`
	ConversationTimeline []ConversationEntry `json:"conversation_timeline"`
	Version              int                 `json:"version"`
	CreatedAt            time.Time           `json:"created_at"`
	UpdatedAt            time.Time           `json:"updated_at"`
}

// LeadDetails are the user-supplied fields of a new lead.
type LeadDetails struct {
	FullName          string
	InstagramHandle   string
	ProfilePicture    string
	PhoneNumber       string
	OnlyFansEarnings  int64
	CurrentlySignedTo string
	ReferredBy        string
	WhosTalkingTo     string
	Notes             string
}

// Factory
func NewLead(d LeadDetails, now time.Time) (*Lead, error) {
	lead := &Lead{
		ID:                uuid.New().String(),
		FullName:          strings.TrimSpace(d.FullName),
		InstagramHandle:   NormalizeHandle(d.InstagramHandle),
		ProfilePicture:    strings.TrimSpace(d.ProfilePicture),
		PhoneNumber:       strings.TrimSpace(d.PhoneNumber),
		OnlyFansEarnings:  d.OnlyFansEarnings,
		CurrentlySignedTo: strings.TrimSpace(d.CurrentlySignedTo),
		ReferredBy:        strings.TrimSpace(d.ReferredBy),
		WhosTalkingTo:     strings.TrimSpace(d.WhosTalkingTo),
		Notes:             strings.TrimSpace(d.Notes),
		LastTimeSpokenTo:  now,
		Status:            StatusPending,
		ConversationTimeline: []ConversationEntry{
			NewConversationEntry(DealStatusLeadAdded, leadAddedNotes, now),
		},
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if lead.ProfilePicture == "" {
		lead.ProfilePicture = DefaultProfilePicture
	}
	lead.OnlyFansEarnings = ClampEarnings(lead.OnlyFansEarnings)

	if err := lead.Validate(); err != nil {
		return nil, err
	}
	return lead, nil
}

func (l *Lead) Validate() error {
	if l.FullName == "" {
		return errors.New("full_name is required")
	}
	if l.InstagramHandle == "" || l.InstagramHandle == HandleMarker {
		return errors.New("instagram_handle is required")
	}
	if l.WhosTalkingTo == "" {
		return errors.New("whos_talking_to is required")
	}
	if !l.Status.Valid() {
		return ErrInvalidStatus
	}
	return nil
}

// Clone returns a deep copy so callers never share the timeline backing array.
func (l Lead) Clone() Lead {
	c := l
	c.ConversationTimeline = append([]ConversationEntry(nil), l.ConversationTimeline...)
	return c
}

// SetStatus moves the lead to status, optionally appending a timeline entry.
func (l *Lead) SetStatus(status Status, entry *ConversationEntry, now time.Time) {
	l.Status = status
	if entry != nil {
		l.ConversationTimeline = append(l.ConversationTimeline, *entry)
	}
	l.Version++
	l.UpdatedAt = now
}

// LogContact appends entry and records it as the latest contact.
func (l *Lead) LogContact(entry ConversationEntry) {
	l.ConversationTimeline = append(l.ConversationTimeline, entry)
	l.LastTimeSpokenTo = entry.Date
	l.Version++
	l.UpdatedAt = entry.Date
}

// NormalizeHandle guarantees the leading "@".
func NormalizeHandle(handle string) string {
	h := strings.TrimSpace(handle)
	if h == "" || strings.HasPrefix(h, HandleMarker) {
		return h
	}
	return HandleMarker + h
}

// ParseEarnings reads a leading integer the way a lenient form field does:
// "150000" -> 150000, "12.9" -> 12, "abc" -> 0. Negative amounts clamp to 0 and
// anything above MaxEarnings saturates.
func ParseEarnings(raw string) int64 {
	s := strings.TrimSpace(raw)
	negative := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		negative = s[0] == '-'
		s = s[1:]
	}

	var n int64
	digits := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			break
		}
		d := int64(r - '0')
		if n > (MaxEarnings-d)/10 {
			n = MaxEarnings
			break
		}
		n = n*10 + d
		digits++
	}
	if digits == 0 || negative {
		return 0
	}
	return n
}

// MaxEarnings bounds a single lead's earnings so pipeline totals stay far from int64 overflow.
const MaxEarnings int64 = 1_000_000_000_000

// ClampEarnings keeps n within [0, MaxEarnings].
func ClampEarnings(n int64) int64 {
	switch {
	case n < 0:
		return 0
	case n > MaxEarnings:
		return MaxEarnings
	}
	return n
}

type LeadRepositoryInterface interface {
	Create(ctx context.Context, lead *Lead, idempotencyKey string) (*Lead, bool, error)
	FindByID(ctx context.Context, id string) (*Lead, error)
	List(ctx context.Context) ([]Lead, error)
	UpdateStatus(ctx context.Context, id string, status Status, expectedVersion int, entry *ConversationEntry) (*Lead, error)
	BulkUpdateStatus(ctx context.Context, ids []string, status Status, entry *ConversationEntry) ([]string, error)
	AppendEntry(ctx context.Context, id string, entry ConversationEntry) (*Lead, error)
	Delete(ctx context.Context, ids []string) ([]string, error)
}
