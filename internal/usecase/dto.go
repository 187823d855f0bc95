package usecase

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/xavierca1/talent-pipeline/internal/entity"
)

// EarningsInput accepts earnings as a JSON number or as the raw form string.
type EarningsInput string

func (e *EarningsInput) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	if raw == "null" {
		*e = ""
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*e = EarningsInput(s)
		return nil
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		*e = EarningsInput(strconv.FormatInt(n, 10))
		return nil
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		*e = EarningsInput(strconv.FormatInt(int64(f), 10))
		return nil
	}
	*e = EarningsInput(raw)
	return nil
}

type AddLeadInput struct {
	FullName          string        `json:"full_name" validate:"required,max=200"`
	InstagramHandle   string        `json:"instagram_handle" validate:"required,max=100"`
	ProfilePicture    string        `json:"profile_picture"`
	PhoneNumber       string        `json:"phone_number"`
	OnlyFansEarnings  EarningsInput `json:"only_fans_earnings"`
	CurrentlySignedTo string        `json:"currently_signed_to"`
	ReferredBy        string        `json:"referred_by"`
	WhosTalkingTo     string        `json:"whos_talking_to" validate:"required,max=200"`
	Notes             string        `json:"notes"`

	IdempotencyKey string `json:"-"`
}

func (in AddLeadInput) normalized() AddLeadInput {
	in.FullName = strings.TrimSpace(in.FullName)
	in.InstagramHandle = strings.TrimSpace(in.InstagramHandle)
	if in.InstagramHandle == entity.HandleMarker {
		in.InstagramHandle = ""
	}
	in.WhosTalkingTo = strings.TrimSpace(in.WhosTalkingTo)
	return in
}

type AddLeadOutput struct {
	Lead     *entity.Lead `json:"lead"`
	Replayed bool         `json:"replayed"`
	Msg      string       `json:"msg"`
}

type ChangeStatusInput struct {
	LeadID          string `json:"-"`
	Status          string `json:"status"`
	ExpectedVersion int    `json:"version,omitempty"`
}

type BulkChangeStatusInput struct {
	LeadIDs     []string `json:"lead_ids"`
	SelectionID string   `json:"selection_id,omitempty"`
	Status      string   `json:"status"`
}

type BulkDeleteInput struct {
	LeadIDs     []string `json:"lead_ids"`
	SelectionID string   `json:"selection_id,omitempty"`
}

// BulkResult reports a best-effort bulk action: ids that were not in the store are skipped.
type BulkResult struct {
	Requested   int      `json:"requested"`
	Affected    int      `json:"affected"`
	AffectedIDs []string `json:"affected_ids"`
	Msg         string   `json:"msg"`
}

type LogContactInput struct {
	LeadID     string `json:"-"`
	DealStatus string `json:"deal_status" validate:"required,max=200"`
	Notes      string `json:"notes"`
}

// ListLeadsInput carries the raw dashboard filter values.
type ListLeadsInput struct {
	Status   string `json:"status"`
	Query    string `json:"q"`
	Earnings string `json:"earnings"`
	Recency  string `json:"recency"`
}

type ListLeadsOutput struct {
	Leads  []entity.Lead         `json:"leads"`
	Counts map[entity.Status]int `json:"counts"`
	Total  int                   `json:"total"`
}

type ExportInput struct {
	LeadIDs     []string `json:"lead_ids"`
	SelectionID string   `json:"selection_id,omitempty"`
	All         bool     `json:"all"`
	Format      string   `json:"format"`
}

// ExportRow is the flat shape written by every export format.
type ExportRow struct {
	Name            string        `json:"name"`
	InstagramHandle string        `json:"instagram_handle"`
	Earnings        int64         `json:"earnings"`
	Status          entity.Status `json:"status"`
}

type ExportOutput struct {
	Filename    string
	ContentType string
	Body        []byte
	Count       int
	Msg         string
}

type SelectionOutput struct {
	SelectionID string   `json:"selection_id"`
	LeadIDs     []string `json:"lead_ids"`
	Count       int      `json:"count"`
}
