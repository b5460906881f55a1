package domain

import (
	"strings"
	"time"
)

type Status string

const (
	StatusActive  Status = "ativa"
	StatusBlocked Status = "bloqueada"
	StatusClosing Status = "em processo de encerramento"
)

// Statuses lists the closed status set in display order
var Statuses = []Status{StatusActive, StatusBlocked, StatusClosing}

// ParseStatus accepts the wire value in any case
func ParseStatus(s string) (Status, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, st := range Statuses {
		if string(st) == s {
			return st, true
		}
	}
	return "", false
}

type Trend string

const (
	TrendDeclining Trend = "queda"
	TrendAttention Trend = "atencao"
	TrendStable    Trend = "estavel"
	TrendStarting  Trend = "comecando"
)

var Trends = []Trend{TrendStarting, TrendStable, TrendAttention, TrendDeclining}

func ParseTrend(s string) (Trend, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, t := range Trends {
		if string(t) == s {
			return t, true
		}
	}
	return "", false
}

type TabletStatus string

const (
	TabletInstalled TabletStatus = "Instalado"
	TabletRemoved   TabletStatus = "Retirado"
	TabletNone      TabletStatus = "S.Tablet"
)

func ParseTabletStatus(s string) (TabletStatus, bool) {
	s = strings.TrimSpace(s)
	for _, t := range []TabletStatus{TabletInstalled, TabletRemoved, TabletNone} {
		if strings.EqualFold(string(t), s) {
			return t, true
		}
	}
	return "", false
}

type EnabledProducts struct {
	CreditLine     bool `json:"creditLine" yaml:"creditLine"`
	Microinsurance bool `json:"microinsurance" yaml:"microinsurance"`
	LimeProduct    bool `json:"limeProduct" yaml:"limeProduct"`
}

// OpportunityRecord is one branch/correspondent's state for a product
type OpportunityRecord struct {
	StoreKey string `json:"storeKey"`
	TaxID    string `json:"taxId"`

	StoreName   string `json:"storeName"`
	BranchCode  string `json:"branchCode"`
	Phone       string `json:"phone"`
	ContactName string `json:"contactName"`
	Address     string `json:"address"`
	PDVName     string `json:"pdvName"`

	RegionalManagement    string `json:"regionalManagement"`
	RegionalDirectorate   string `json:"regionalDirectorate"`
	ResponsibleMultiplier string `json:"responsibleMultiplier"`

	// oldest to newest
	MonthM3 int `json:"monthM3"`
	MonthM2 int `json:"monthM2"`
	MonthM1 int `json:"monthM1"`
	MonthM0 int `json:"monthM0"`

	Status Status `json:"status"`
	Trend  Trend  `json:"trend"`

	LastAccountingTxDate time.Time  `json:"lastAccountingTxDate"`
	LastBusinessTxDate   time.Time  `json:"lastBusinessTxDate"`
	OpeningDate          time.Time  `json:"openingDate"`
	BlockDate            *time.Time `json:"blockDate,omitempty"`
	CertificationDate    *time.Time `json:"certificationDate,omitempty"`

	TabletStatus    TabletStatus    `json:"tabletStatus"`
	EnabledProducts EnabledProducts `json:"enabledProducts"`
	BlockReason     string          `json:"blockReason,omitempty"`
}

func (r OpportunityRecord) IsActive() bool {
	return r.Status == StatusActive
}

func (r OpportunityRecord) IsBlocked() bool {
	return r.Status == StatusBlocked
}

// true when all four monthly counters are zero
func (r OpportunityRecord) HasNoActivity() bool {
	return r.MonthM3 == 0 && r.MonthM2 == 0 && r.MonthM1 == 0 && r.MonthM0 == 0
}

// Clone copies the pointer dates so callers can't alias store state
func (r OpportunityRecord) Clone() OpportunityRecord {
	if r.BlockDate != nil {
		d := *r.BlockDate
		r.BlockDate = &d
	}
	if r.CertificationDate != nil {
		d := *r.CertificationDate
		r.CertificationDate = &d
	}
	return r
}

// Dataset is what a product selection resolves to
type Dataset struct {
	Product  Product             `json:"product"`
	Title    string              `json:"title"`
	Overview string              `json:"overview"`
	Records  []OpportunityRecord `json:"records"`
}

func (d Dataset) Clone() Dataset {
	out := d
	if d.Records != nil {
		out.Records = make([]OpportunityRecord, len(d.Records))
		for i, r := range d.Records {
			out.Records[i] = r.Clone()
		}
	}
	return out
}

type LoadState string

const (
	LoadStateUnknown   LoadState = "unknown"
	LoadStateConnected LoadState = "connected"
	LoadStateError     LoadState = "error"
)

// HealthReport is what the records service reports about itself
type HealthReport struct {
	Status      string `json:"status"`
	TableExists bool   `json:"tableExists"`
	RecordCount int    `json:"recordCount"`
}

func (h HealthReport) OK() bool {
	return h.Status == "ok"
}
