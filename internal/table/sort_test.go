package table

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oppdash/internal/domain"
)

func TestSorterToggleProtocol(t *testing.T) {
	s := NewSorter()
	assert.Equal(t, domain.InitialSortState(), s.State())

	assert.Equal(t, domain.SortState{Column: domain.FieldMonthM0, Direction: domain.Ascending}, s.Request(domain.FieldMonthM0))
	assert.Equal(t, domain.SortState{Column: domain.FieldMonthM0, Direction: domain.Descending}, s.Request(domain.FieldMonthM0))
	assert.Equal(t, domain.SortState{Column: domain.FieldMonthM0, Direction: domain.Ascending}, s.Request(domain.FieldMonthM0))

	// switching column always resets to ascending, even from descending
	s.Request(domain.FieldMonthM0)
	assert.Equal(t, domain.SortState{Column: domain.FieldStoreName, Direction: domain.Ascending}, s.Request(domain.FieldStoreName))

	assert.Equal(t, domain.InitialSortState(), s.Request(domain.FieldNone))
	assert.Equal(t, domain.InitialSortState(), s.Request(domain.Field("bogus")))
}

func TestZeroValueSorterStartsAtNone(t *testing.T) {
	var s Sorter
	assert.Equal(t, domain.InitialSortState(), s.State())
	assert.Equal(t, domain.Ascending, s.Request(domain.FieldStoreKey).Direction)
}

func TestOrderNoneKeepsInputOrder(t *testing.T) {
	records := sampleRecords()
	slices.Reverse(records)

	got := Order(records, domain.InitialSortState())
	assert.Equal(t, keys(records), keys(got))
}

func TestOrderByTypes(t *testing.T) {
	records := sampleRecords()

	asc := Order(records, domain.SortState{Column: domain.FieldMonthM1, Direction: domain.Ascending})
	assert.Equal(t, []string{"5004", "5003", "5005", "5002", "5001"}, keys(asc))

	byOpening := Order(records, domain.SortState{Column: domain.FieldOpeningDate, Direction: domain.Ascending})
	assert.Equal(t, []string{"5005", "5004", "5003", "5001", "5002"}, keys(byOpening))

	byName := Order(records, domain.SortState{Column: domain.FieldStoreName, Direction: domain.Ascending})
	// plain byte order: upper-case "LOJA" sorts before "Loja"
	assert.Equal(t, "5004", byName[0].StoreKey)

	byBlock := Order(records, domain.SortState{Column: domain.FieldBlockDate, Direction: domain.Descending})
	assert.Equal(t, "5003", byBlock[0].StoreKey)
}

func TestOrderToggleReverses(t *testing.T) {
	records := sampleRecords()
	s := NewSorter()

	s.Request(domain.FieldMonthM3)
	first := s.Apply(records)
	s.Request(domain.FieldMonthM3)
	second := s.Apply(records)
	s.Request(domain.FieldMonthM3)
	third := s.Apply(records)

	reversed := slices.Clone(keys(first))
	slices.Reverse(reversed)

	assert.Equal(t, reversed, keys(second))
	assert.Equal(t, keys(first), keys(third))
}

func TestOrderIsStable(t *testing.T) {
	records := sampleRecords()

	// sort by key first, then by a column with many ties
	byKey := Order(records, domain.SortState{Column: domain.FieldStoreKey, Direction: domain.Descending})
	require.Equal(t, []string{"5005", "5004", "5003", "5002", "5001"}, keys(byKey))

	for _, dir := range []domain.SortDirection{domain.Ascending, domain.Descending} {
		byDirectorate := Order(byKey, domain.SortState{Column: domain.FieldRegionalDirectorate, Direction: dir})

		var sudeste []string
		for _, r := range byDirectorate {
			if r.RegionalDirectorate == "Sudeste" {
				sudeste = append(sudeste, r.StoreKey)
			}
		}
		assert.Equal(t, []string{"5002", "5001"}, sudeste, dir)
	}

	// equal trend values keep their relative input order in both directions
	byTrendDesc := Order(records, domain.SortState{Column: domain.FieldTrend, Direction: domain.Descending})
	var declining []string
	for _, r := range byTrendDesc {
		if r.Trend == domain.TrendDeclining {
			declining = append(declining, r.StoreKey)
		}
	}
	assert.Equal(t, []string{"5003", "5005"}, declining)
}

func TestOrderReturnsCopy(t *testing.T) {
	records := sampleRecords()
	got := Order(records, domain.SortState{Column: domain.FieldMonthM0, Direction: domain.Descending})
	got[0].StoreKey = "x"

	assert.Equal(t, "5001", records[0].StoreKey)
	assert.NotNil(t, Order(nil, domain.InitialSortState()))
}

func TestEveryFieldIsSortable(t *testing.T) {
	for _, f := range domain.Fields {
		assert.True(t, Sortable(f), f)
	}
	assert.False(t, Sortable(domain.FieldNone))
}
