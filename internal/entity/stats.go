package entity

import (
	"math"
	"time"
)

const (
	HighValueEarnings = 100000
	FollowUpAfterDays = 7
	recentContactDays = 7
)

// LeadStats are the dashboard summary metrics derived from the whole collection.
type LeadStats struct {
	TotalLeads      int     `json:"total_leads"`
	PendingLeads    int     `json:"pending_leads"`
	SignedLeads     int     `json:"signed_leads"`
	DeadLeads       int     `json:"dead_leads"`
	ConversionRate  float64 `json:"conversion_rate"`
	TotalRevenue    int64   `json:"total_revenue"`
	AverageEarnings float64 `json:"average_earnings"`
	HighValueLeads  int     `json:"high_value_leads"`
	RecentContacts  int     `json:"recent_contacts"`
	NeedsFollowUp   int     `json:"needs_follow_up"`
}

// ComputeStats aggregates leads against a single now so one pass is self-consistent.
func ComputeStats(leads []Lead, now time.Time) LeadStats {
	var s LeadStats
	s.TotalLeads = len(leads)
	recentCutoff := now.AddDate(0, 0, -recentContactDays)

	for _, l := range leads {
		switch l.Status {
		case StatusPending:
			s.PendingLeads++
			if NeedsFollowUp(l, now) {
				s.NeedsFollowUp++
			}
		case StatusSigned:
			s.SignedLeads++
			s.TotalRevenue = addSaturating(s.TotalRevenue, ClampEarnings(l.OnlyFansEarnings))
		case StatusDead:
			s.DeadLeads++
		}
		if l.OnlyFansEarnings >= HighValueEarnings {
			s.HighValueLeads++
		}
		if !l.LastTimeSpokenTo.Before(recentCutoff) {
			s.RecentContacts++
		}
	}

	if s.TotalLeads > 0 {
		s.ConversionRate = float64(s.SignedLeads) / float64(s.TotalLeads) * 100
	}
	if s.SignedLeads > 0 {
		s.AverageEarnings = float64(s.TotalRevenue) / float64(s.SignedLeads)
	}
	return s
}

// NeedsFollowUp reports a pending lead nobody has spoken to for a week or more.
func NeedsFollowUp(l Lead, now time.Time) bool {
	return l.Status == StatusPending && DaysSince(l.LastTimeSpokenTo, now) >= FollowUpAfterDays
}

func addSaturating(a, b int64) int64 {
	if b > 0 && a > math.MaxInt64-b {
		return math.MaxInt64
	}
	return a + b
}
