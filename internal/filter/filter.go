// Package filter narrows an in-memory key request collection against a
// filter specification without mutating the source or contacting the
// server.
package filter

import (
	"strings"
	"time"

	"ktrn/internal/models"
)

// All is the sentinel value that disables an exact-match filter.
const All = "all"

// Date range selectors. Today/week subtract fixed day counts; month
// uses calendar-month arithmetic with Go's AddDate rollover (subtracting
// one month from March 31 normalizes into early March).
const (
	RangeAll   = "all"
	RangeToday = "today"
	RangeWeek  = "week"
	RangeMonth = "month"
)

// Filters is one view's filter bar state. Zero values and the "all"
// sentinel both leave the corresponding filter disabled.
type Filters struct {
	Search    string
	Status    string
	Site      string
	Partner   string
	DateRange string
}

// None returns the filter specification with every filter disabled.
func None() Filters {
	return Filters{Status: All, Site: All, Partner: All, DateRange: RangeAll}
}

// Apply returns the subset of records matching every enabled filter,
// preserving relative order. It is a pure function of its inputs: the
// source slice is never mutated, and now is passed in rather than read
// from the clock so identical arguments always yield identical output.
func Apply(records []models.KeyRequest, f Filters, now time.Time) []models.KeyRequest {
	out := make([]models.KeyRequest, 0, len(records))
	search := strings.ToLower(strings.TrimSpace(f.Search))
	cutoff, dated := rangeCutoff(f.DateRange, now)

	for _, r := range records {
		if search != "" && !matchesSearch(r, search) {
			continue
		}
		if enabled(f.Status) && string(r.Status) != f.Status {
			continue
		}
		if enabled(f.Site) && r.SiteName != f.Site {
			continue
		}
		if enabled(f.Partner) && r.PartnerName != f.Partner {
			continue
		}
		if dated && r.SubmittedAt().Before(cutoff) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Sites returns the distinct site names present in records, in first
// appearance order, for populating the site filter choices.
func Sites(records []models.KeyRequest) []string {
	seen := make(map[string]struct{}, len(records))
	var sites []string
	for _, r := range records {
		if _, ok := seen[r.SiteName]; ok {
			continue
		}
		seen[r.SiteName] = struct{}{}
		sites = append(sites, r.SiteName)
	}
	return sites
}

func enabled(value string) bool {
	return value != "" && value != All
}

// matchesSearch reports whether the lowered term is a substring of any
// searchable field: requester name, requester email, site name, reason.
func matchesSearch(r models.KeyRequest, term string) bool {
	return strings.Contains(strings.ToLower(r.Username), term) ||
		(r.Email != "" && strings.Contains(strings.ToLower(r.Email), term)) ||
		strings.Contains(strings.ToLower(r.SiteName), term) ||
		strings.Contains(strings.ToLower(r.Reason), term)
}

func rangeCutoff(dateRange string, now time.Time) (time.Time, bool) {
	switch dateRange {
	case RangeToday:
		return now.AddDate(0, 0, -1), true
	case RangeWeek:
		return now.AddDate(0, 0, -7), true
	case RangeMonth:
		return now.AddDate(0, -1, 0), true
	}
	return time.Time{}, false
}
