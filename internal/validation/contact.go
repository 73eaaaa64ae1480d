// Package validation holds pure predicates that reject obviously
// malformed public submissions before they cost a round trip. The
// server re-checks everything; these exist for responsiveness, not
// security.
package validation

import (
	"regexp"
	"sort"
	"strings"
)

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// phoneRegex accepts Rwandan mobile numbers in international form
// (+250 then eight digits) or trunk form (07 then eight digits).
var phoneRegex = regexp.MustCompile(`^(\+250|07)\d{8}$`)

// partnerDomains maps each partner organization to the email domains
// accepted for its submissions. Partners with a gmail.com entry allow
// it for onboarding accounts that predate corporate addresses.
var partnerDomains = map[string][]string{
	"MTN":            {"mtn.com", "gmail.com"},
	"Airtel":         {"airtel.com", "gmail.com"},
	"Liquid Telecom": {"liquidtelecom.com"},
	"KTRN":           {"ktrn.rw"},
}

// Partners returns the known partner names in stable order for form
// choices.
func Partners() []string {
	names := make([]string, 0, len(partnerDomains))
	for name := range partnerDomains {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ValidEmail reports whether email has a syntactically plausible
// local@domain.tld shape and, when a partner is named, whether its
// domain is on that partner's allow-list. An unknown partner accepts
// nothing.
func ValidEmail(email, partner string) bool {
	if !emailRegex.MatchString(email) {
		return false
	}
	if partner == "" {
		return true
	}
	domains, ok := partnerDomains[partner]
	if !ok {
		return false
	}
	at := strings.LastIndex(email, "@")
	domain := strings.ToLower(email[at+1:])
	for _, allowed := range domains {
		if domain == allowed {
			return true
		}
	}
	return false
}

// ValidPhone reports whether phone, after stripping internal
// whitespace, is a +250 or 07 prefixed number followed by exactly
// eight digits.
func ValidPhone(phone string) bool {
	stripped := strings.Join(strings.Fields(phone), "")
	return phoneRegex.MatchString(stripped)
}
