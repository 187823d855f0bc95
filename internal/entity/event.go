package entity

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventLeadAdded      EventType = "lead.added"
	EventLeadUpdated    EventType = "lead.updated"
	EventBulkUpdated    EventType = "lead.bulk_updated"
	EventLeadsDeleted   EventType = "lead.deleted"
	EventContactLogged  EventType = "lead.contact_logged"
	EventExportComplete EventType = "lead.exported"
	EventFollowUpNeeded EventType = "lead.follow_up_needed"
)

// LeadEvent is an advisory, human-readable result of a pipeline operation.
type LeadEvent struct {
	ID          string    `json:"id"`
	Type        EventType `json:"type"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	LeadIDs     []string  `json:"lead_ids,omitempty"`
	Status      Status    `json:"status,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}

func NewLeadEvent(t EventType, title, description string, at time.Time, leadIDs ...string) LeadEvent {
	return LeadEvent{
		ID:          uuid.New().String(),
		Type:        t,
		Title:       title,
		Description: description,
		LeadIDs:     leadIDs,
		OccurredAt:  at,
	}
}
