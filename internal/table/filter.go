package table

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"oppdash/internal/domain"
)

// casers are stateful, so each call gets its own
func lower(s string) string {
	return cases.Lower(language.BrazilianPortuguese).String(s)
}

// Filter remembers the last-applied criteria; the evaluation itself is pure
type Filter struct {
	criteria domain.FilterCriteria
}

func (f *Filter) Criteria() domain.FilterCriteria {
	return f.criteria
}

// Apply stores criteria and returns the matching records in input order
func (f *Filter) Apply(records []domain.OpportunityRecord, criteria domain.FilterCriteria) []domain.OpportunityRecord {
	f.criteria = criteria
	return Match(records, criteria)
}

// Clear forgets the criteria and returns the full collection
func (f *Filter) Clear(records []domain.OpportunityRecord) []domain.OpportunityRecord {
	f.criteria = domain.FilterCriteria{}
	return Match(records, f.criteria)
}

// Match returns every record satisfying all active criteria, in input order
func Match(records []domain.OpportunityRecord, criteria domain.FilterCriteria) []domain.OpportunityRecord {
	out := make([]domain.OpportunityRecord, 0, len(records))
	if criteria.IsEmpty() {
		return append(out, records...)
	}

	name := lower(criteria.StoreName)
	for _, r := range records {
		if matches(r, criteria, name) {
			out = append(out, r)
		}
	}
	return out
}

// Matches evaluates a single record
func Matches(r domain.OpportunityRecord, criteria domain.FilterCriteria) bool {
	return matches(r, criteria, lower(criteria.StoreName))
}

func matches(r domain.OpportunityRecord, c domain.FilterCriteria, lowerName string) bool {
	if !contains(r.StoreKey, c.StoreKey) {
		return false
	}
	if !contains(r.TaxID, c.TaxID) {
		return false
	}
	if domain.Active(c.StoreName) && !strings.Contains(lower(r.StoreName), lowerName) {
		return false
	}
	if domain.Active(c.Status) && string(r.Status) != c.Status {
		return false
	}
	if !contains(r.BranchCode, c.BranchCode) {
		return false
	}
	if !contains(r.RegionalManagement, c.RegionalManagement) {
		return false
	}
	if !contains(r.RegionalDirectorate, c.RegionalDirectorate) {
		return false
	}
	if domain.Active(c.Trend) && string(r.Trend) != c.Trend {
		return false
	}
	return true
}

// case-sensitive containment; inactive needles match everything
func contains(value, needle string) bool {
	return !domain.Active(needle) || strings.Contains(value, needle)
}
