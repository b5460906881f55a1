// Package table holds the pure opportunity-table operations: filtering,
// ordering, marking and export projection. Nothing here blocks or mutates the
// collections it is handed.
package table

import (
	"cmp"
	"strings"
	"time"

	"oppdash/internal/domain"
)

type comparator func(a, b domain.OpportunityRecord) int

func byString(get func(domain.OpportunityRecord) string) comparator {
	return func(a, b domain.OpportunityRecord) int {
		return strings.Compare(get(a), get(b))
	}
}

func byInt(get func(domain.OpportunityRecord) int) comparator {
	return func(a, b domain.OpportunityRecord) int {
		return cmp.Compare(get(a), get(b))
	}
}

func byTime(get func(domain.OpportunityRecord) time.Time) comparator {
	return func(a, b domain.OpportunityRecord) int {
		return get(a).Compare(get(b))
	}
}

// nil dates order before any set date
func byOptionalTime(get func(domain.OpportunityRecord) *time.Time) comparator {
	return func(a, b domain.OpportunityRecord) int {
		ta, tb := get(a), get(b)
		switch {
		case ta == nil && tb == nil:
			return 0
		case ta == nil:
			return -1
		case tb == nil:
			return 1
		default:
			return ta.Compare(*tb)
		}
	}
}

var comparators = map[domain.Field]comparator{
	domain.FieldStoreKey:              byString(func(r domain.OpportunityRecord) string { return r.StoreKey }),
	domain.FieldTaxID:                 byString(func(r domain.OpportunityRecord) string { return r.TaxID }),
	domain.FieldStoreName:             byString(func(r domain.OpportunityRecord) string { return r.StoreName }),
	domain.FieldBranchCode:            byString(func(r domain.OpportunityRecord) string { return r.BranchCode }),
	domain.FieldPhone:                 byString(func(r domain.OpportunityRecord) string { return r.Phone }),
	domain.FieldContactName:           byString(func(r domain.OpportunityRecord) string { return r.ContactName }),
	domain.FieldAddress:               byString(func(r domain.OpportunityRecord) string { return r.Address }),
	domain.FieldPDVName:               byString(func(r domain.OpportunityRecord) string { return r.PDVName }),
	domain.FieldRegionalManagement:    byString(func(r domain.OpportunityRecord) string { return r.RegionalManagement }),
	domain.FieldRegionalDirectorate:   byString(func(r domain.OpportunityRecord) string { return r.RegionalDirectorate }),
	domain.FieldResponsibleMultiplier: byString(func(r domain.OpportunityRecord) string { return r.ResponsibleMultiplier }),
	domain.FieldMonthM3:               byInt(func(r domain.OpportunityRecord) int { return r.MonthM3 }),
	domain.FieldMonthM2:               byInt(func(r domain.OpportunityRecord) int { return r.MonthM2 }),
	domain.FieldMonthM1:               byInt(func(r domain.OpportunityRecord) int { return r.MonthM1 }),
	domain.FieldMonthM0:               byInt(func(r domain.OpportunityRecord) int { return r.MonthM0 }),
	domain.FieldStatus:                byString(func(r domain.OpportunityRecord) string { return string(r.Status) }),
	domain.FieldTrend:                 byString(func(r domain.OpportunityRecord) string { return string(r.Trend) }),
	domain.FieldTabletStatus:          byString(func(r domain.OpportunityRecord) string { return string(r.TabletStatus) }),
	domain.FieldLastAccountingTxDate:  byTime(func(r domain.OpportunityRecord) time.Time { return r.LastAccountingTxDate }),
	domain.FieldLastBusinessTxDate:    byTime(func(r domain.OpportunityRecord) time.Time { return r.LastBusinessTxDate }),
	domain.FieldOpeningDate:           byTime(func(r domain.OpportunityRecord) time.Time { return r.OpeningDate }),
	domain.FieldBlockDate:             byOptionalTime(func(r domain.OpportunityRecord) *time.Time { return r.BlockDate }),
	domain.FieldCertificationDate:     byOptionalTime(func(r domain.OpportunityRecord) *time.Time { return r.CertificationDate }),
}

// Sortable reports whether the field has a comparator
func Sortable(f domain.Field) bool {
	_, ok := comparators[f]
	return ok
}

// text accessors for the option lists shown next to filters
var textFields = map[domain.Field]func(domain.OpportunityRecord) string{
	domain.FieldRegionalManagement:    func(r domain.OpportunityRecord) string { return r.RegionalManagement },
	domain.FieldRegionalDirectorate:   func(r domain.OpportunityRecord) string { return r.RegionalDirectorate },
	domain.FieldBranchCode:            func(r domain.OpportunityRecord) string { return r.BranchCode },
	domain.FieldStatus:                func(r domain.OpportunityRecord) string { return string(r.Status) },
	domain.FieldTrend:                 func(r domain.OpportunityRecord) string { return string(r.Trend) },
	domain.FieldResponsibleMultiplier: func(r domain.OpportunityRecord) string { return r.ResponsibleMultiplier },
	domain.FieldTabletStatus:          func(r domain.OpportunityRecord) string { return string(r.TabletStatus) },
}
