package table

import "oppdash/internal/domain"

// TrendCounts counts records per trend; every trend is present, possibly with 0
func TrendCounts(records []domain.OpportunityRecord) map[domain.Trend]int {
	counts := make(map[domain.Trend]int, len(domain.Trends))
	for _, t := range domain.Trends {
		counts[t] = 0
	}
	for _, r := range records {
		counts[r.Trend]++
	}
	return counts
}

// DistinctOptions lists unique non-empty values of a text field in first-seen order
func DistinctOptions(records []domain.OpportunityRecord, field domain.Field) []string {
	get, ok := textFields[field]
	if !ok {
		return []string{}
	}

	seen := make(map[string]struct{})
	out := []string{}
	for _, r := range records {
		v := get(r)
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// Highlight is the product-specific headline counter
type Highlight struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Highlights computes the headline counter for products that have one
func Highlights(product domain.Product, records []domain.OpportunityRecord) (Highlight, bool) {
	var label string
	var match func(domain.OpportunityRecord) bool

	switch product {
	case domain.ProductAccountOpening:
		label = "Lojas ativas sem movimentação"
		match = func(r domain.OpportunityRecord) bool { return r.IsActive() && r.HasNoActivity() }
	case domain.ProductCredit:
		label = "Lojas ativas com consignado habilitado"
		match = func(r domain.OpportunityRecord) bool { return r.IsActive() && r.EnabledProducts.CreditLine }
	case domain.ProductInsurance:
		label = "Lojas ativas com microsseguro habilitado"
		match = func(r domain.OpportunityRecord) bool { return r.IsActive() && r.EnabledProducts.Microinsurance }
	default:
		return Highlight{}, false
	}

	h := Highlight{Label: label}
	for _, r := range records {
		if match(r) {
			h.Count++
		}
	}
	return h, true
}

// Find returns the record with the given key
func Find(records []domain.OpportunityRecord, storeKey string) (domain.OpportunityRecord, bool) {
	for _, r := range records {
		if r.StoreKey == storeKey {
			return r, true
		}
	}
	return domain.OpportunityRecord{}, false
}

// UnassignedMultiplier groups stores with no responsible multiplier
const UnassignedMultiplier = "Sem responsável"

// TeamMember is one multiplier's slice of the collection
type TeamMember struct {
	Multiplier   string `json:"multiplier"`
	Stores       int    `json:"stores"`
	Active       int    `json:"active"`
	Blocked      int    `json:"blocked"`
	Closing      int    `json:"closing"`
	Declining    int    `json:"declining"`
	MonthM0Total int    `json:"monthM0Total"`
	MonthM1Total int    `json:"monthM1Total"`
}

// TeamOverview consolidates the collection per responsible multiplier, in first-seen order
func TeamOverview(records []domain.OpportunityRecord) []TeamMember {
	index := make(map[string]int)
	out := []TeamMember{}

	for _, r := range records {
		name := r.ResponsibleMultiplier
		if name == "" {
			name = UnassignedMultiplier
		}
		i, ok := index[name]
		if !ok {
			i = len(out)
			index[name] = i
			out = append(out, TeamMember{Multiplier: name})
		}

		m := &out[i]
		m.Stores++
		switch r.Status {
		case domain.StatusActive:
			m.Active++
		case domain.StatusBlocked:
			m.Blocked++
		case domain.StatusClosing:
			m.Closing++
		}
		if r.Trend == domain.TrendDeclining {
			m.Declining++
		}
		m.MonthM0Total += r.MonthM0
		m.MonthM1Total += r.MonthM1
	}
	return out
}
