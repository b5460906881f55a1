package domain

import "strings"

// AllValues is the sentinel that disables a filter field
const AllValues = "all"

// FilterCriteria holds the operator-entered filter values; empty or "all" means no constraint
type FilterCriteria struct {
	StoreKey            string `json:"storeKey" form:"storeKey"`
	TaxID               string `json:"taxId" form:"taxId"`
	StoreName           string `json:"storeName" form:"storeName"`
	Status              string `json:"status" form:"status"`
	BranchCode          string `json:"branchCode" form:"branchCode"`
	RegionalManagement  string `json:"regionalManagement" form:"regionalManagement"`
	RegionalDirectorate string `json:"regionalDirectorate" form:"regionalDirectorate"`
	Trend               string `json:"trend" form:"trend"`
}

// Active reports whether a single criteria value constrains anything
func Active(value string) bool {
	return value != "" && value != AllValues
}

func (c FilterCriteria) IsEmpty() bool {
	for _, v := range []string{c.StoreKey, c.TaxID, c.StoreName, c.Status, c.BranchCode,
		c.RegionalManagement, c.RegionalDirectorate, c.Trend} {
		if Active(v) {
			return false
		}
	}
	return true
}

// Field names a sortable/filterable record column
type Field string

const (
	FieldNone                  Field = ""
	FieldStoreKey              Field = "storeKey"
	FieldTaxID                 Field = "taxId"
	FieldStoreName             Field = "storeName"
	FieldBranchCode            Field = "branchCode"
	FieldPhone                 Field = "phone"
	FieldContactName           Field = "contactName"
	FieldAddress               Field = "address"
	FieldPDVName               Field = "pdvName"
	FieldRegionalManagement    Field = "regionalManagement"
	FieldRegionalDirectorate   Field = "regionalDirectorate"
	FieldResponsibleMultiplier Field = "responsibleMultiplier"
	FieldMonthM3               Field = "monthM3"
	FieldMonthM2               Field = "monthM2"
	FieldMonthM1               Field = "monthM1"
	FieldMonthM0               Field = "monthM0"
	FieldStatus                Field = "status"
	FieldTrend                 Field = "trend"
	FieldLastAccountingTxDate  Field = "lastAccountingTxDate"
	FieldLastBusinessTxDate    Field = "lastBusinessTxDate"
	FieldOpeningDate           Field = "openingDate"
	FieldBlockDate             Field = "blockDate"
	FieldCertificationDate     Field = "certificationDate"
	FieldTabletStatus          Field = "tabletStatus"
)

// column names the dashboard front end historically sent
var fieldAliases = map[string]Field{
	"chaveloja":                FieldStoreKey,
	"cnpj":                     FieldTaxID,
	"nomeloja":                 FieldStoreName,
	"agencia":                  FieldBranchCode,
	"telefoneloja":             FieldPhone,
	"nomecontato":              FieldContactName,
	"endereco":                 FieldAddress,
	"nomepdv":                  FieldPDVName,
	"gerenciaregional":         FieldRegionalManagement,
	"diretoriaregional":        FieldRegionalDirectorate,
	"multiplicadorresponsavel": FieldResponsibleMultiplier,
	"mesm3":                    FieldMonthM3,
	"mesm2":                    FieldMonthM2,
	"mesm1":                    FieldMonthM1,
	"mesm0":                    FieldMonthM0,
	"situacao":                 FieldStatus,
	"tendencia":                FieldTrend,
	"dataulttrxcontabil":       FieldLastAccountingTxDate,
	"dataulttrxnegocio":        FieldLastBusinessTxDate,
	"datainauguracao":          FieldOpeningDate,
	"databloqueio":             FieldBlockDate,
	"datacertificacao":         FieldCertificationDate,
	"situacaotablet":           FieldTabletStatus,
}

// Fields lists every known column
var Fields = []Field{
	FieldStoreKey, FieldTaxID, FieldStoreName, FieldBranchCode, FieldPhone, FieldContactName,
	FieldAddress, FieldPDVName, FieldRegionalManagement, FieldRegionalDirectorate,
	FieldResponsibleMultiplier, FieldMonthM3, FieldMonthM2, FieldMonthM1, FieldMonthM0,
	FieldStatus, FieldTrend, FieldLastAccountingTxDate, FieldLastBusinessTxDate, FieldOpeningDate,
	FieldBlockDate, FieldCertificationDate, FieldTabletStatus,
}

// ParseField maps a column name to a Field; unknown names yield FieldNone
func ParseField(name string) Field {
	name = strings.TrimSpace(name)
	for _, f := range Fields {
		if string(f) == name {
			return f
		}
	}
	if f, ok := fieldAliases[strings.ToLower(name)]; ok {
		return f
	}
	return FieldNone
}

type SortDirection string

const (
	Ascending  SortDirection = "asc"
	Descending SortDirection = "desc"
)

func (d SortDirection) Flip() SortDirection {
	if d == Ascending {
		return Descending
	}
	return Ascending
}

type SortState struct {
	Column    Field         `json:"column"`
	Direction SortDirection `json:"direction"`
}

// InitialSortState is {none, ascending}
func InitialSortState() SortState {
	return SortState{Column: FieldNone, Direction: Ascending}
}
