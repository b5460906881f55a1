package infrastructure

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oppdash/internal/domain"
	"oppdash/pkg/logger"
)

func TestRecordStoreEmpty(t *testing.T) {
	store := NewRecordStore(logger.Discard())

	_, err := store.Current(context.Background())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRecordStoreReplaceIsWholesale(t *testing.T) {
	ctx := context.Background()
	store := NewRecordStore(logger.Discard())

	require.NoError(t, store.Replace(ctx, domain.Dataset{
		Product: domain.ProductCredit,
		Records: []domain.OpportunityRecord{{StoreKey: "5001"}, {StoreKey: "5002"}},
	}))
	require.NoError(t, store.Replace(ctx, domain.Dataset{
		Product: domain.ProductInsurance,
		Records: []domain.OpportunityRecord{{StoreKey: "9001"}},
	}))

	got, err := store.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.ProductInsurance, got.Product)
	require.Len(t, got.Records, 1)
	assert.Equal(t, "9001", got.Records[0].StoreKey)
}

func TestRecordStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewRecordStore(logger.Discard())

	records := []domain.OpportunityRecord{{StoreKey: "5001"}}
	require.NoError(t, store.Replace(ctx, domain.Dataset{Product: domain.ProductCredit, Records: records}))
	records[0].StoreKey = "changed"

	got, err := store.Current(ctx)
	require.NoError(t, err)
	got.Records[0].StoreKey = "also changed"

	again, err := store.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, "5001", again.Records[0].StoreKey)
}

func TestRecordStoreNilRecordsBecomeEmpty(t *testing.T) {
	ctx := context.Background()
	store := NewRecordStore(logger.Discard())

	require.NoError(t, store.Replace(ctx, domain.Dataset{Product: domain.ProductCredit}))

	got, err := store.Current(ctx)
	require.NoError(t, err)
	assert.NotNil(t, got.Records)
	assert.Empty(t, got.Records)
}

func TestRecordStoreMarkNotFound(t *testing.T) {
	ctx := context.Background()
	store := NewRecordStore(logger.Discard())

	require.NoError(t, store.Replace(ctx, domain.Dataset{Product: domain.ProductCredit, Records: []domain.OpportunityRecord{{StoreKey: "5001"}}}))
	require.NoError(t, store.MarkNotFound(ctx, "consorcio"))

	got, err := store.Current(ctx)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.Contains(t, err.Error(), "consorcio")
	assert.Equal(t, domain.Product("consorcio"), got.Product)
	assert.Empty(t, got.Records)
}
