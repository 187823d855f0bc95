package mail

import "github.com/xavierca1/talent-pipeline/internal/entity"

type LeadEventEmailData struct {
	Title       string
	Description string
	LeadIDs     []string
	OccurredAt  string
	Type        entity.EventType
}

type EmailSender struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	To       []string
}
