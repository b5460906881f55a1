package table

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oppdash/internal/domain"
)

func TestExportProjection(t *testing.T) {
	records := sampleRecords()

	out := Export(records, isoDates{})

	assert.Equal(t, ExportHeaders, out.Headers)
	require.Len(t, out.Rows, len(records))
	assert.Equal(t, []any{
		"5001", "12.345.678/0001-99", "Loja Centro", "0001",
		15, 18, 22, 20,
		"ativa", "2023-03-25", "2023-03-27", "estavel",
		"São Paulo Centro", "Sudeste",
	}, out.Rows[0])

	for _, row := range out.Rows {
		assert.Len(t, row, len(ExportHeaders))
	}
}

func TestExportPreservesOrder(t *testing.T) {
	ordered := Order(sampleRecords(), domain.SortState{Column: domain.FieldMonthM0, Direction: domain.Descending})

	out := Export(ordered, isoDates{})

	got := make([]string, len(out.Rows))
	for i, row := range out.Rows {
		got[i] = row[0].(string)
	}
	assert.Equal(t, keys(ordered), got)
}

func TestExportEmpty(t *testing.T) {
	out := Export(nil, isoDates{})
	assert.Empty(t, out.Rows)
	assert.Equal(t, ExportHeaders, out.Headers)
}

func TestExportHeadersAreNotShared(t *testing.T) {
	out := Export(nil, isoDates{})
	out.Headers[0] = "changed"
	assert.Equal(t, "Chave Loja", ExportHeaders[0])
}

func TestExportFileName(t *testing.T) {
	now := time.Date(2026, 10, 17, 15, 4, 0, 0, time.UTC)

	assert.Equal(t, "Analítico BE (Crédito) - 17-10-2026.xlsx", ExportFileName(domain.ProductCredit, now))
	assert.Equal(t, "Analítico BE (Abertura De Contas) - 17-10-2026.xlsx", ExportFileName(domain.ProductAccountOpening, now))
	assert.Equal(t, "Analítico BE (Produto) - 17-10-2026.xlsx", ExportFileName(domain.Product("outro"), now))
}
