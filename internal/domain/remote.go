package domain

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// RemoteRow is one row of the records endpoint, keyed as the backing table names its columns
type RemoteRow struct {
	StoreKey              string   `json:"CHAVE_LOJA"`
	TaxID                 string   `json:"CNPJ"`
	StoreName             string   `json:"NOME_LOJA"`
	MonthM3               FlexInt  `json:"MES_M3"`
	MonthM2               FlexInt  `json:"MES_M2"`
	MonthM1               FlexInt  `json:"MES_M1"`
	MonthM0               FlexInt  `json:"MES_M0"`
	Status                string   `json:"SITUACAO"`
	LastAccountingTxDate  string   `json:"ULT_TRX_CONTABIL"`
	LastBusinessTxDate    string   `json:"ULT_TRX_NEGOCIO"`
	BlockDate             string   `json:"DATA_BLOQUEIO"`
	OpeningDate           string   `json:"DATA_INAUGURACAO"`
	BranchCode            string   `json:"COD_AG"`
	Phone                 string   `json:"TELEFONE"`
	ContactName           string   `json:"CONTATO"`
	RegionalManagement    string   `json:"GER_REGIONAL"`
	RegionalDirectorate   string   `json:"DIR_REGIONAL"`
	Trend                 string   `json:"TENDENCIA"`
	Address               string   `json:"LOCALIZACAO"`
	PDVName               string   `json:"NOME_PDV"`
	ResponsibleMultiplier string   `json:"MULTIPLICADOR_RESPONSAVEL"`
	CertificationDate     string   `json:"DATA_CERTIFICACAO"`
	TabletStatus          string   `json:"STATUS_TABLET"`
	CreditLineEnabled     FlexBool `json:"HABILITADO_CONSIGNADO"`
	MicroinsuranceEnabled FlexBool `json:"HABILITADO_MICROSSEGURO"`
	LimeEnabled           FlexBool `json:"HABILITADO_LIME"`
	BlockReason           string   `json:"MOTIVO_BLOQUEIO"`
}

// FlexInt accepts numbers, numeric strings, booleans and null. Anything it
// cannot read as a number decodes to 0; values are clamped to the int32 range.
type FlexInt int

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = 0
		return nil
	}

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	switch v := raw.(type) {
	case float64:
		*f = clampInt(v)
	case bool:
		if v {
			*f = 1
		} else {
			*f = 0
		}
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			*f = 0
			return nil
		}
		*f = clampInt(n)
	default:
		*f = 0
	}
	return nil
}

func clampInt(v float64) FlexInt {
	switch {
	case math.IsNaN(v):
		return 0
	case v >= math.MaxInt32:
		return math.MaxInt32
	case v <= math.MinInt32:
		return math.MinInt32
	default:
		return FlexInt(math.Trunc(v))
	}
}

// FlexBool treats non-zero numbers and affirmative strings as true
type FlexBool bool

func (f *FlexBool) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = false
		return nil
	}

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	switch v := raw.(type) {
	case bool:
		*f = FlexBool(v)
	case float64:
		*f = v != 0
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "", "0", "false", "n", "nao", "não", "no":
			*f = false
		default:
			*f = true
		}
	default:
		*f = false
	}
	return nil
}
