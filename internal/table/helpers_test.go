package table

import (
	"time"

	"oppdash/internal/domain"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

type isoDates struct{}

func (isoDates) Format(t time.Time) string {
	return t.Format("2006-01-02")
}

func keys(records []domain.OpportunityRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.StoreKey
	}
	return out
}

// a small collection shaped like the credit dataset
func sampleRecords() []domain.OpportunityRecord {
	return []domain.OpportunityRecord{
		{
			StoreKey: "5001", TaxID: "12.345.678/0001-99", StoreName: "Loja Centro", BranchCode: "0001",
			MonthM3: 15, MonthM2: 18, MonthM1: 22, MonthM0: 20,
			Status: domain.StatusActive, Trend: domain.TrendStable,
			LastAccountingTxDate: day("2023-03-25"), LastBusinessTxDate: day("2023-03-27"), OpeningDate: day("2020-05-15"),
			RegionalManagement: "São Paulo Centro", RegionalDirectorate: "Sudeste",
			EnabledProducts: domain.EnabledProducts{CreditLine: true, Microinsurance: true},
		},
		{
			StoreKey: "5002", TaxID: "23.456.789/0001-88", StoreName: "Loja Shopping Vila Olímpia", BranchCode: "0002",
			MonthM3: 10, MonthM2: 12, MonthM1: 15, MonthM0: 18,
			Status: domain.StatusActive, Trend: domain.TrendStarting,
			LastAccountingTxDate: day("2023-03-26"), LastBusinessTxDate: day("2023-03-28"), OpeningDate: day("2021-11-20"),
			RegionalManagement: "São Paulo Zona Sul", RegionalDirectorate: "Sudeste",
			EnabledProducts: domain.EnabledProducts{CreditLine: true, LimeProduct: true},
		},
		{
			StoreKey: "5003", TaxID: "34.567.890/0001-77", StoreName: "Loja Campinas Shopping", BranchCode: "0015",
			MonthM3: 8, MonthM2: 6, MonthM1: 5, MonthM0: 3,
			Status: domain.StatusBlocked, Trend: domain.TrendDeclining,
			LastAccountingTxDate: day("2023-03-25"), LastBusinessTxDate: day("2023-03-25"), OpeningDate: day("2019-03-10"),
			RegionalManagement: "Campinas", RegionalDirectorate: "Interior SP",
			BlockReason: "Documentação", BlockDate: ptr(day("2023-03-26")),
		},
		{
			StoreKey: "5004", TaxID: "45.678.901/0001-66", StoreName: "LOJA RIO BRANCO", BranchCode: "0032",
			MonthM3: 0, MonthM2: 0, MonthM1: 0, MonthM0: 0,
			Status: domain.StatusActive, Trend: domain.TrendStarting,
			LastAccountingTxDate: day("2023-03-01"), LastBusinessTxDate: day("2023-03-01"), OpeningDate: day("2018-06-05"),
			RegionalManagement: "Rio de Janeiro Centro", RegionalDirectorate: "Rio de Janeiro",
		},
		{
			StoreKey: "5005", TaxID: "56.789.012/0001-55", StoreName: "Loja Salvador Shopping", BranchCode: "0048",
			MonthM3: 12, MonthM2: 8, MonthM1: 6, MonthM0: 3,
			Status: domain.StatusClosing, Trend: domain.TrendDeclining,
			LastAccountingTxDate: day("2023-03-10"), LastBusinessTxDate: day("2023-03-15"), OpeningDate: day("2017-09-22"),
			RegionalManagement: "Salvador", RegionalDirectorate: "Nordeste",
			EnabledProducts: domain.EnabledProducts{Microinsurance: true},
		},
	}
}

func ptr[T any](v T) *T {
	return &v
}
