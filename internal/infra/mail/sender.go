package mail

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"time"

	"gopkg.in/gomail.v2"

	"github.com/xavierca1/talent-pipeline/internal/entity"
)

//go:embed templates/*.html
var templates embed.FS

var leadEventTemplate = template.Must(template.ParseFS(templates, "templates/lead_event.html"))

func NewEmailSender(host string, port int, user, password, from string, to []string) *EmailSender {
	return &EmailSender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		From:     from,
		To:       to,
	}
}

// RenderLeadEvent builds the subject and HTML body for event.
func RenderLeadEvent(event entity.LeadEvent) (string, string, error) {
	data := LeadEventEmailData{
		Title:       event.Title,
		Description: event.Description,
		LeadIDs:     event.LeadIDs,
		OccurredAt:  event.OccurredAt.Format(time.RFC1123),
		Type:        event.Type,
	}

	var body bytes.Buffer
	if err := leadEventTemplate.Execute(&body, data); err != nil {
		return "", "", fmt.Errorf("failed to render email template: %w", err)
	}
	return fmt.Sprintf("[Talent Pipeline] %s", event.Title), body.String(), nil
}

func (s *EmailSender) SendLeadEvent(ctx context.Context, event entity.LeadEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(s.To) == 0 {
		slog.Warn("lead event email skipped: no recipients", "event_id", event.ID)
		return nil
	}

	subject, body, err := RenderLeadEvent(event)
	if err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", s.To...)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(s.Host, s.Port, s.User, s.Password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send SMTP email: %w", err)
	}
	return nil
}

// LogNotifier logs events instead of mailing them. Used when MAIL_HOST is unset.
type LogNotifier struct{}

func (LogNotifier) SendLeadEvent(ctx context.Context, event entity.LeadEvent) error {
	slog.InfoContext(ctx, "lead event notification", "event_id", event.ID, "title", event.Title, "description", event.Description)
	return nil
}
