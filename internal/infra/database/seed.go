package database

import (
	"fmt"
	"time"

	"github.com/xavierca1/talent-pipeline/internal/entity"
)

type seedEntry struct {
	daysAgo    int
	dealStatus string
	notes      string
}

type seedLead struct {
	id                string
	fullName          string
	profilePicture    string
	instagramHandle   string
	phoneNumber       string
	earnings          int64
	currentlySignedTo string
	referredBy        string
	whosTalkingTo     string
	notes             string
	lastContactDays   int
	status            entity.Status
	timeline          []seedEntry
}

var demoLeads = []seedLead{
	{
		id:                "1",
		fullName:          "Sarah Johnson",
		instagramHandle:   "@sarah_j_model",
		profilePicture:    "https://images.unsplash.com/photo-1494790108755-2616b612b29c?w=400",
		phoneNumber:       "+1 (555) 123-4567",
		earnings:          150000,
		currentlySignedTo: "Elite Models",
		referredBy:        "Jessica Miller",
		whosTalkingTo:     "Mike Thompson",
		notes:             "Very interested, considering our premium package",
		lastContactDays:   3,
		status:            entity.StatusPending,
		timeline: []seedEntry{
			{10, "Initial Contact", "Reached out via Instagram DM"},
			{7, "First Call Scheduled", "Phone conversation set for this week"},
			{3, "Proposal Sent", "Sent premium management proposal"},
		},
	},
	{
		id:              "2",
		fullName:        "Amanda Rodriguez",
		instagramHandle: "@amanda_r_official",
		profilePicture:  "https://images.unsplash.com/photo-1507003211169-0a1dd7228f2d?w=400",
		phoneNumber:     "+1 (555) 987-6543",
		earnings:        85000,
		whosTalkingTo:   "Lisa Chen",
		notes:           "Needs time to think about the offer",
		lastContactDays: 8,
		status:          entity.StatusPending,
		timeline: []seedEntry{
			{15, "Initial Outreach", "Connected through mutual contact"},
			{8, "Video Call Completed", "Discussed management terms and commission structure"},
		},
	},
	{
		id:              "3",
		fullName:        "Emma Williams",
		instagramHandle: "@emma_w_creator",
		profilePicture:  "https://images.unsplash.com/photo-1438761681033-6461ffad8d80?w=400",
		phoneNumber:     "+1 (555) 456-7890",
		earnings:        220000,
		whosTalkingTo:   "David Parker",
		lastContactDays: 5,
		status:          entity.StatusSigned,
		timeline: []seedEntry{
			{20, "Cold Outreach", "Initial contact via email"},
			{15, "Meeting Scheduled", "In-person meeting arranged"},
			{10, "Contract Negotiation", "Discussing terms and exclusivity"},
			{5, "Signed", "Contract executed, onboarding started"},
		},
	},
	{
		id:              "4",
		fullName:        "Olivia Brown",
		instagramHandle: "@olivia_brown_",
		profilePicture:  "https://images.unsplash.com/photo-1544005313-94ddf0286df2?w=400",
		phoneNumber:     "+1 (555) 321-0987",
		earnings:        45000,
		referredBy:      "Sarah Johnson",
		whosTalkingTo:   "Mike Thompson",
		notes:           "Not interested in our current offering",
		lastContactDays: 12,
		status:          entity.StatusDead,
		timeline: []seedEntry{
			{20, "Referral Received", "Referred by existing client"},
			{12, "Final Follow-up", "Decided to go with a different agency"},
		},
	},
	{
		id:                "5",
		fullName:          "Zoe Martinez",
		instagramHandle:   "@zoe_martinez_model",
		profilePicture:    "https://images.unsplash.com/photo-1534528741775-53994a69daeb?w=400",
		phoneNumber:       "+1 (555) 789-1234",
		earnings:          180000,
		currentlySignedTo: "Independent",
		whosTalkingTo:     "Lisa Chen",
		notes:             "High earner, very interested in our services",
		lastContactDays:   16,
		status:            entity.StatusPending,
		timeline: []seedEntry{
			{25, "Discovery Call", "Initial consultation completed"},
			{16, "Proposal Review", "Reviewing our comprehensive management package"},
		},
	},
}

// DemoLeads builds the demo pipeline with every timestamp relative to now.
func DemoLeads(now time.Time) []entity.Lead {
	daysAgo := func(n int) time.Time { return now.Add(-time.Duration(n) * 24 * time.Hour) }

	out := make([]entity.Lead, 0, len(demoLeads))
	for _, s := range demoLeads {
		timeline := make([]entity.ConversationEntry, 0, len(s.timeline))
		for i, e := range s.timeline {
			entry := entity.NewConversationEntry(e.dealStatus, e.notes, daysAgo(e.daysAgo))
			entry.ID = fmt.Sprintf("%s-%d", s.id, i+1)
			timeline = append(timeline, entry)
		}
		created := timeline[0].Date
		out = append(out, entity.Lead{
			ID:                   s.id,
			FullName:             s.fullName,
			InstagramHandle:      s.instagramHandle,
			ProfilePicture:       s.profilePicture,
			PhoneNumber:          s.phoneNumber,
			OnlyFansEarnings:     s.earnings,
			CurrentlySignedTo:    s.currentlySignedTo,
			ReferredBy:           s.referredBy,
			WhosTalkingTo:        s.whosTalkingTo,
			Notes:                s.notes,
			LastTimeSpokenTo:     daysAgo(s.lastContactDays),
			Status:               s.status,
			ConversationTimeline: timeline,
			Version:              1,
			CreatedAt:            created,
			UpdatedAt:            daysAgo(s.lastContactDays),
		})
	}
	return out
}
