package table

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"oppdash/internal/domain"
)

func TestTrendCounts(t *testing.T) {
	counts := TrendCounts(sampleRecords())

	assert.Equal(t, map[domain.Trend]int{
		domain.TrendStarting:  2,
		domain.TrendStable:    1,
		domain.TrendAttention: 0,
		domain.TrendDeclining: 2,
	}, counts)
}

func TestDistinctOptions(t *testing.T) {
	records := sampleRecords()

	assert.Equal(t, []string{"Sudeste", "Interior SP", "Rio de Janeiro", "Nordeste"},
		DistinctOptions(records, domain.FieldRegionalDirectorate))
	assert.Len(t, DistinctOptions(records, domain.FieldRegionalManagement), 5)
	assert.Empty(t, DistinctOptions(records, domain.FieldMonthM0))
}

func TestHighlights(t *testing.T) {
	records := sampleRecords()

	h, ok := Highlights(domain.ProductAccountOpening, records)
	assert.True(t, ok)
	assert.Equal(t, 1, h.Count) // only 5004 is active with no activity

	h, ok = Highlights(domain.ProductCredit, records)
	assert.True(t, ok)
	assert.Equal(t, 2, h.Count)

	h, ok = Highlights(domain.ProductInsurance, records)
	assert.True(t, ok)
	assert.Equal(t, 1, h.Count) // 5005 is closing, so only 5001 counts

	_, ok = Highlights(domain.Product("outro"), records)
	assert.False(t, ok)
}

func TestFind(t *testing.T) {
	r, ok := Find(sampleRecords(), "5003")
	assert.True(t, ok)
	assert.Equal(t, "Documentação", r.BlockReason)

	_, ok = Find(sampleRecords(), "0000")
	assert.False(t, ok)
}

func TestTeamOverview(t *testing.T) {
	records := sampleRecords()
	records[0].ResponsibleMultiplier = "Carlos Oliveira"
	records[2].ResponsibleMultiplier = "Carlos Oliveira"
	records[3].ResponsibleMultiplier = "Paulo Mendes"

	team := TeamOverview(records)

	assert.Equal(t, []TeamMember{
		{Multiplier: "Carlos Oliveira", Stores: 2, Active: 1, Blocked: 1, Declining: 1, MonthM0Total: 23, MonthM1Total: 27},
		{Multiplier: UnassignedMultiplier, Stores: 2, Active: 1, Closing: 1, Declining: 1, MonthM0Total: 21, MonthM1Total: 21},
		{Multiplier: "Paulo Mendes", Stores: 1, Active: 1},
	}, team)

	assert.Empty(t, TeamOverview(nil))
}
