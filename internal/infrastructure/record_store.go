package infrastructure

import (
	"context"
	"fmt"
	"sync"

	"oppdash/internal/domain"
	"oppdash/pkg/logger"
)

// implements domain.RecordStore interface
type RecordStore struct {
	active   *domain.Dataset
	notFound domain.Product
	mutex    sync.RWMutex
	logger   *logger.Logger
}

// creates an empty record store
func NewRecordStore(logger *logger.Logger) *RecordStore {
	return &RecordStore{logger: logger}
}

// Replace swaps the active collection wholesale
func (s *RecordStore) Replace(ctx context.Context, dataset domain.Dataset) error {
	copied := dataset.Clone()
	if copied.Records == nil {
		copied.Records = []domain.OpportunityRecord{}
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.active = &copied
	s.notFound = ""

	s.logger.WithContext(ctx).WithFields(map[string]any{
		"product": dataset.Product,
		"count":   len(copied.Records),
	}).Info("Replaced active collection")
	return nil
}

// MarkNotFound records that the last selection resolved to nothing
func (s *RecordStore) MarkNotFound(ctx context.Context, product domain.Product) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.active = nil
	s.notFound = product

	s.logger.WithContext(ctx).WithField("product", product).Warn("Selected product has no data")
	return nil
}

func (s *RecordStore) Current(ctx context.Context) (domain.Dataset, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if s.active == nil {
		if s.notFound != "" {
			return domain.Dataset{Product: s.notFound}, fmt.Errorf("product %q: %w", s.notFound, domain.ErrNotFound)
		}
		return domain.Dataset{}, domain.ErrNotFound
	}

	return s.active.Clone(), nil
}
