package table

import (
	"slices"

	"oppdash/internal/domain"
)

// Selection is the set of marked store keys. It is independent of any loaded
// collection: keys stay marked even when a reload drops their record.
type Selection struct {
	keys map[string]struct{}
}

func NewSelection() *Selection {
	return &Selection{keys: make(map[string]struct{})}
}

// Toggle adds an absent key or removes a present one; it returns the new membership
func (s *Selection) Toggle(storeKey string) bool {
	if s.keys == nil {
		s.keys = make(map[string]struct{})
	}
	if _, ok := s.keys[storeKey]; ok {
		delete(s.keys, storeKey)
		return false
	}
	s.keys[storeKey] = struct{}{}
	return true
}

func (s *Selection) IsMarked(storeKey string) bool {
	_, ok := s.keys[storeKey]
	return ok
}

func (s *Selection) Len() int {
	return len(s.keys)
}

// Keys returns the marked keys sorted
func (s *Selection) Keys() []string {
	out := make([]string, 0, len(s.keys))
	for k := range s.keys {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

// Marked filters the ordered collection by membership, keeping its order
func (s *Selection) Marked(ordered []domain.OpportunityRecord) []domain.OpportunityRecord {
	out := make([]domain.OpportunityRecord, 0, len(s.keys))
	for _, r := range ordered {
		if s.IsMarked(r.StoreKey) {
			out = append(out, r)
		}
	}
	return out
}
