package table

import (
	"fmt"
	"time"

	"oppdash/internal/domain"
)

// ExportHeaders is the fixed column set of the spreadsheet, in order
var ExportHeaders = []string{
	"Chave Loja",
	"CNPJ",
	"Nome Loja",
	"Agência",
	"M-3",
	"M-2",
	"M-1",
	"M0",
	"Situação",
	"Últ. Contábil",
	"Últ. Negócio",
	"Tendência",
	"Gerência Regional",
	"Diretoria Regional",
}

// Export projects the ordered view into one row per record, preserving order
func Export(ordered []domain.OpportunityRecord, dates domain.DateFormatter) domain.Table {
	rows := make([][]any, 0, len(ordered))
	for _, r := range ordered {
		rows = append(rows, []any{
			r.StoreKey,
			r.TaxID,
			r.StoreName,
			r.BranchCode,
			r.MonthM3,
			r.MonthM2,
			r.MonthM1,
			r.MonthM0,
			string(r.Status),
			dates.Format(r.LastAccountingTxDate),
			dates.Format(r.LastBusinessTxDate),
			string(r.Trend),
			r.RegionalManagement,
			r.RegionalDirectorate,
		})
	}

	return domain.Table{
		Headers: append([]string(nil), ExportHeaders...),
		Rows:    rows,
	}
}

// ExportFileName embeds the product display name and the export date
func ExportFileName(product domain.Product, now time.Time) string {
	return fmt.Sprintf("Analítico BE (%s) - %s.xlsx", product.DisplayName(), now.Format("02-01-2006"))
}
