package entity

import (
	"errors"
	"math"
	"strings"
	"time"
)

var (
	ErrInvalidEarningsFilter = errors.New("earnings filter must be one of all, 25k+, 50k+, 100k+")
	ErrInvalidRecencyFilter  = errors.New("recency filter must be one of all, 7+, 14+, 30+")
)

// EarningsThreshold is the minimum monthly earnings a lead must have; 0 disables the filter.
type EarningsThreshold int64

const (
	EarningsAll  EarningsThreshold = 0
	Earnings25k  EarningsThreshold = 25000
	Earnings50k  EarningsThreshold = 50000
	Earnings100k EarningsThreshold = 100000
)

func ParseEarningsThreshold(s string) (EarningsThreshold, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return EarningsAll, nil
	case "25k+":
		return Earnings25k, nil
	case "50k+":
		return Earnings50k, nil
	case "100k+":
		return Earnings100k, nil
	}
	return EarningsAll, ErrInvalidEarningsFilter
}

// RecencyThreshold is the minimum number of whole days since the last contact; 0 disables the filter.
type RecencyThreshold int

const (
	RecencyAll RecencyThreshold = 0
	Recency7   RecencyThreshold = 7
	Recency14  RecencyThreshold = 14
	Recency30  RecencyThreshold = 30
)

func ParseRecencyThreshold(s string) (RecencyThreshold, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return RecencyAll, nil
	case "7+", "7days":
		return Recency7, nil
	case "14+", "14days":
		return Recency14, nil
	case "30+", "30days":
		return Recency30, nil
	}
	return RecencyAll, ErrInvalidRecencyFilter
}

type FilterCriteria struct {
	Status      Status            `json:"status"`
	SearchQuery string            `json:"search_query,omitempty"`
	Earnings    EarningsThreshold `json:"earnings,omitempty"`
	Recency     RecencyThreshold  `json:"recency,omitempty"`
}

// DaysSince counts whole days elapsed from t to now, rounding down.
func DaysSince(t, now time.Time) int {
	return int(math.Floor(now.Sub(t).Hours() / 24))
}

// FilterLeads keeps the leads matching every active criterion, in input order.
// Recency only applies to the pending tab.
func FilterLeads(leads []Lead, c FilterCriteria, now time.Time) []Lead {
	out := make([]Lead, 0, len(leads))
	query := strings.ToLower(strings.TrimSpace(c.SearchQuery))
	for _, l := range leads {
		if l.Status != c.Status {
			continue
		}
		if !matchesRest(l, query, c, now) {
			continue
		}
		out = append(out, l)
	}
	return out
}

// CountByTab returns the filtered size of each status tab under the same search,
// earnings and recency criteria. c.Status is ignored.
func CountByTab(leads []Lead, c FilterCriteria, now time.Time) map[Status]int {
	counts := make(map[Status]int, len(Statuses))
	for _, s := range Statuses {
		counts[s] = 0
	}
	query := strings.ToLower(strings.TrimSpace(c.SearchQuery))
	for _, l := range leads {
		tab := c
		tab.Status = l.Status
		if matchesRest(l, query, tab, now) {
			counts[l.Status]++
		}
	}
	return counts
}

func matchesRest(l Lead, query string, c FilterCriteria, now time.Time) bool {
	if query != "" &&
		!strings.Contains(strings.ToLower(l.FullName), query) &&
		!strings.Contains(strings.ToLower(l.InstagramHandle), query) {
		return false
	}
	if c.Earnings > EarningsAll && l.OnlyFansEarnings < int64(c.Earnings) {
		return false
	}
	if c.Status == StatusPending && c.Recency > RecencyAll &&
		DaysSince(l.LastTimeSpokenTo, now) < int(c.Recency) {
		return false
	}
	return true
}
