package domain

import (
	"errors"
	"strings"
	"time"
)

// DefaultBlockReason is used when a blocked row arrives without a reason
const DefaultBlockReason = "Motivo não especificado"

var ErrMissingStoreKey = errors.New("row has no store key")

// dateFormats are tried in order for every remote date column
var dateFormats = []string{
	time.RFC3339,          // 2006-01-02T15:04:05Z07:00
	"2006-01-02T15:04:05", // without zone
	"2006-01-02 15:04:05", // YYYY-MM-DD HH:MM:SS
	"2006-01-02",          // YYYY-MM-DD
	"2006/01/02 15:04:05", // YYYY/MM/DD HH:MM:SS
	"2006/01/02",          // YYYY/MM/DD
	"02/01/2006",          // DD/MM/YYYY
}

// ParseDate tries every known layout; ok is false for empty or unparseable input
func ParseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, format := range dateFormats {
		if t, err := time.Parse(format, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func dateOr(value string, fallback time.Time) time.Time {
	if t, ok := ParseDate(value); ok {
		return t
	}
	return fallback
}

func optionalDate(value string) *time.Time {
	if t, ok := ParseDate(value); ok {
		return &t
	}
	return nil
}

func counter(v FlexInt) int {
	if v < 0 {
		return 0
	}
	return int(v)
}

// NormalizeRemoteRow maps one remote row into a record, applying the default table:
//
//	MES_M3..MES_M0                      0 (negatives clamp to 0)
//	SITUACAO                            ativa (also for unknown values)
//	ULT_TRX_CONTABIL, ULT_TRX_NEGOCIO   now
//	DATA_INAUGURACAO                    now
//	DATA_BLOQUEIO                       nil unless blocked; blocked without date -> now
//	MOTIVO_BLOQUEIO                     "" unless blocked; blocked without reason -> DefaultBlockReason
//	DATA_CERTIFICACAO                   nil
//	TENDENCIA                           estavel
//	STATUS_TABLET                       S.Tablet
//	HABILITADO_*                        false
//	other text columns                  ""
func NormalizeRemoteRow(row RemoteRow, now time.Time) (OpportunityRecord, error) {
	key := strings.TrimSpace(row.StoreKey)
	if key == "" {
		return OpportunityRecord{}, ErrMissingStoreKey
	}

	status, ok := ParseStatus(row.Status)
	if !ok {
		status = StatusActive
	}
	trend, ok := ParseTrend(row.Trend)
	if !ok {
		trend = TrendStable
	}
	tablet, ok := ParseTabletStatus(row.TabletStatus)
	if !ok {
		tablet = TabletNone
	}

	rec := OpportunityRecord{
		StoreKey:              key,
		TaxID:                 row.TaxID,
		StoreName:             row.StoreName,
		BranchCode:            row.BranchCode,
		Phone:                 row.Phone,
		ContactName:           row.ContactName,
		Address:               row.Address,
		PDVName:               row.PDVName,
		RegionalManagement:    row.RegionalManagement,
		RegionalDirectorate:   row.RegionalDirectorate,
		ResponsibleMultiplier: row.ResponsibleMultiplier,
		MonthM3:               counter(row.MonthM3),
		MonthM2:               counter(row.MonthM2),
		MonthM1:               counter(row.MonthM1),
		MonthM0:               counter(row.MonthM0),
		Status:                status,
		Trend:                 trend,
		LastAccountingTxDate:  dateOr(row.LastAccountingTxDate, now),
		LastBusinessTxDate:    dateOr(row.LastBusinessTxDate, now),
		OpeningDate:           dateOr(row.OpeningDate, now),
		CertificationDate:     optionalDate(row.CertificationDate),
		TabletStatus:          tablet,
		EnabledProducts: EnabledProducts{
			CreditLine:     bool(row.CreditLineEnabled),
			Microinsurance: bool(row.MicroinsuranceEnabled),
			LimeProduct:    bool(row.LimeEnabled),
		},
	}

	if status == StatusBlocked {
		blockDate := dateOr(row.BlockDate, now)
		rec.BlockDate = &blockDate
		rec.BlockReason = strings.TrimSpace(row.BlockReason)
		if rec.BlockReason == "" {
			rec.BlockReason = DefaultBlockReason
		}
	}

	return rec, nil
}

// NormalizeReport says what NormalizeRemoteRows dropped
type NormalizeReport struct {
	MissingKey int
	Duplicate  int
}

func (r NormalizeReport) Dropped() int {
	return r.MissingKey + r.Duplicate
}

// NormalizeRemoteRows maps a batch, dropping keyless rows and repeated keys (first one wins)
func NormalizeRemoteRows(rows []RemoteRow, now time.Time) ([]OpportunityRecord, NormalizeReport) {
	var report NormalizeReport
	records := make([]OpportunityRecord, 0, len(rows))
	seen := make(map[string]struct{}, len(rows))

	for _, row := range rows {
		rec, err := NormalizeRemoteRow(row, now)
		if err != nil {
			report.MissingKey++
			continue
		}
		if _, dup := seen[rec.StoreKey]; dup {
			report.Duplicate++
			continue
		}
		seen[rec.StoreKey] = struct{}{}
		records = append(records, rec)
	}

	return records, report
}

// EnforceInvariants fixes a record built from bundled data the same way remote rows are fixed
func EnforceInvariants(rec OpportunityRecord, now time.Time) OpportunityRecord {
	if rec.IsBlocked() {
		if rec.BlockDate == nil {
			d := now
			rec.BlockDate = &d
		}
		if strings.TrimSpace(rec.BlockReason) == "" {
			rec.BlockReason = DefaultBlockReason
		}
		return rec
	}
	rec.BlockDate = nil
	rec.BlockReason = ""
	return rec
}
