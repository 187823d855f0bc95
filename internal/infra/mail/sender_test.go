package mail

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/talent-pipeline/internal/entity"
)

func TestRenderLeadEvent(t *testing.T) {
	ev := entity.NewLeadEvent(entity.EventFollowUpNeeded, "Follow-up Needed",
		"2 leads need a follow-up: Amanda <Rodriguez>, Zoe Martinez.",
		time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC), "2", "5")

	subject, body, err := RenderLeadEvent(ev)

	require.NoError(t, err)
	assert.Equal(t, "[Talent Pipeline] Follow-up Needed", subject)
	assert.Contains(t, body, "<h2 style=\"margin-bottom: 4px;\">Follow-up Needed</h2>")
	assert.Contains(t, body, "Amanda &lt;Rodriguez&gt;")
	assert.Contains(t, body, "<li>2</li>")
	assert.Contains(t, body, "<li>5</li>")
	assert.Contains(t, body, "Mon, 10 Mar 2025 12:00:00 UTC")
}

func TestRenderLeadEvent_NoLeads(t *testing.T) {
	ev := entity.NewLeadEvent(entity.EventExportComplete, "Export Complete", "0 leads exported successfully.", time.Now())

	_, body, err := RenderLeadEvent(ev)

	require.NoError(t, err)
	assert.NotContains(t, body, "<ul>")
}

func TestSendLeadEvent_NoRecipientsIsSkipped(t *testing.T) {
	s := NewEmailSender("smtp.invalid", 587, "", "", "pipeline@example.com", nil)

	assert.NoError(t, s.SendLeadEvent(context.Background(), entity.LeadEvent{ID: "1", Title: "x"}))
}

func TestSendLeadEvent_CancelledContext(t *testing.T) {
	s := NewEmailSender("smtp.invalid", 587, "", "", "pipeline@example.com", []string{"ops@example.com"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, s.SendLeadEvent(ctx, entity.LeadEvent{ID: "1"}), context.Canceled)
}
