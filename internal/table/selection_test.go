package table

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"oppdash/internal/domain"
)

func TestSelectionToggleIsIdempotentInPairs(t *testing.T) {
	s := NewSelection()
	s.Toggle("5002")
	before := s.Keys()

	assert.True(t, s.Toggle("5001"))
	assert.True(t, s.IsMarked("5001"))
	assert.False(t, s.Toggle("5001"))
	assert.False(t, s.IsMarked("5001"))

	assert.Equal(t, before, s.Keys())
}

func TestSelectionMarkedFollowsOrderedView(t *testing.T) {
	records := sampleRecords()
	s := NewSelection()

	// marking order must not matter
	s.Toggle("5003")
	s.Toggle("5001")

	assert.Equal(t, []string{"5001", "5003"}, keys(s.Marked(records)))

	ordered := Order(records, domain.SortState{Column: domain.FieldStoreKey, Direction: domain.Descending})
	assert.Equal(t, []string{"5003", "5001"}, keys(s.Marked(ordered)))
}

func TestSelectionReflectsCurrentRecordData(t *testing.T) {
	records := sampleRecords()
	s := NewSelection()
	s.Toggle("5001")

	records[0].ContactName = "Novo Contato"
	marked := s.Marked(records)

	assert.Len(t, marked, 1)
	assert.Equal(t, "Novo Contato", marked[0].ContactName)
}

func TestSelectionKeepsKeysMissingFromCollection(t *testing.T) {
	s := NewSelection()
	s.Toggle("9999")

	assert.Empty(t, s.Marked(sampleRecords()))
	assert.True(t, s.IsMarked("9999"))
	assert.Equal(t, 1, s.Len())
}

func TestZeroValueSelection(t *testing.T) {
	var s Selection
	assert.False(t, s.IsMarked("5001"))
	assert.True(t, s.Toggle("5001"))
	assert.Equal(t, []string{"5001"}, s.Keys())
}
