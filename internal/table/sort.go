package table

import (
	"slices"

	"oppdash/internal/domain"
)

// Sorter owns the active SortState
type Sorter struct {
	state domain.SortState
}

func NewSorter() *Sorter {
	return &Sorter{state: domain.InitialSortState()}
}

func (s *Sorter) State() domain.SortState {
	if s.state.Direction == "" {
		return domain.InitialSortState()
	}
	return s.state
}

// Request applies the toggle protocol: same column flips direction, a new
// column starts ascending. FieldNone (or an unsortable field) resets ordering.
func (s *Sorter) Request(column domain.Field) domain.SortState {
	current := s.State()

	switch {
	case column == domain.FieldNone || !Sortable(column):
		s.state = domain.InitialSortState()
	case current.Column == column:
		s.state = domain.SortState{Column: column, Direction: current.Direction.Flip()}
	default:
		s.state = domain.SortState{Column: column, Direction: domain.Ascending}
	}

	return s.state
}

func (s *Sorter) Apply(records []domain.OpportunityRecord) []domain.OpportunityRecord {
	return Order(records, s.State())
}

// Order returns a stably sorted copy; ties keep their input order in both directions
func Order(records []domain.OpportunityRecord, state domain.SortState) []domain.OpportunityRecord {
	out := slices.Clone(records)
	if out == nil {
		out = []domain.OpportunityRecord{}
	}

	compare, ok := comparators[state.Column]
	if !ok {
		return out
	}

	desc := state.Direction == domain.Descending
	slices.SortStableFunc(out, func(a, b domain.OpportunityRecord) int {
		c := compare(a, b)
		if desc {
			return -c
		}
		return c
	})
	return out
}
