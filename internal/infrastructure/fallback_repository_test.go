package infrastructure

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oppdash/internal/domain"
	"oppdash/pkg/logger"
)

func embeddedRepo(t *testing.T) *FallbackRepository {
	t.Helper()
	repo, err := NewFallbackRepository("", fixedClock(), logger.Discard())
	require.NoError(t, err)
	return repo
}

func TestEmbeddedFallbackProducts(t *testing.T) {
	repo := embeddedRepo(t)

	assert.Equal(t, []domain.Product{
		domain.ProductCredit,
		domain.ProductAccountOpening,
		domain.ProductInsurance,
	}, repo.Products())
}

func TestEmbeddedCreditDataset(t *testing.T) {
	ds, err := embeddedRepo(t).Get(context.Background(), domain.ProductCredit)
	require.NoError(t, err)

	assert.Equal(t, "Estratégia de Crédito", ds.Title)
	require.Len(t, ds.Records, 5)

	first := ds.Records[0]
	assert.Equal(t, "5001", first.StoreKey)
	assert.Equal(t, 20, first.MonthM0)
	assert.Equal(t, "2023-03-25", first.LastAccountingTxDate.Format("2006-01-02"))
	require.NotNil(t, first.CertificationDate)
	assert.Equal(t, "2022-10-05", first.CertificationDate.Format("2006-01-02"))
	assert.Nil(t, first.BlockDate)

	for _, r := range ds.Records {
		assert.Equal(t, domain.StatusActive, r.Status, r.StoreKey)
	}
}

func TestEmbeddedAccountOpeningDataset(t *testing.T) {
	ds, err := embeddedRepo(t).Get(context.Background(), domain.ProductAccountOpening)
	require.NoError(t, err)
	require.Len(t, ds.Records, 6)

	blocked := ds.Records[3]
	assert.Equal(t, "5004", blocked.StoreKey)
	assert.Equal(t, domain.StatusBlocked, blocked.Status)
	require.NotNil(t, blocked.BlockDate)
	assert.Equal(t, "2023-03-02", blocked.BlockDate.Format("2006-01-02"))
	assert.Contains(t, blocked.BlockReason, "irregularidades na documentação")
	assert.Equal(t, domain.TabletRemoved, blocked.TabletStatus)

	assert.Equal(t, domain.StatusClosing, ds.Records[4].Status)
	assert.Equal(t, "Loja Belo Horizonte", ds.Records[5].StoreName)
}

func TestFallbackGetReturnsDeepCopy(t *testing.T) {
	repo := embeddedRepo(t)
	ctx := context.Background()

	ds, err := repo.Get(ctx, domain.ProductAccountOpening)
	require.NoError(t, err)
	ds.Records[0].StoreName = "changed"
	*ds.Records[3].BlockDate = fixedNow

	again, err := repo.Get(ctx, domain.ProductAccountOpening)
	require.NoError(t, err)
	assert.Equal(t, "Loja Centro", again.Records[0].StoreName)
	assert.Equal(t, "2023-03-02", again.Records[3].BlockDate.Format("2006-01-02"))
}

func TestFallbackUnknownProduct(t *testing.T) {
	_, err := embeddedRepo(t).Get(context.Background(), "consorcio")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestParseFallbackEnforcesBlockInvariant(t *testing.T) {
	doc := []byte(`
products:
  - product: teste
    title: Teste
    records:
      - storeKey: "1"
        status: bloqueada
        trend: queda
      - storeKey: "2"
        status: ativa
        trend: estavel
        blockDate: "2023-01-01"
        blockReason: leftover
`)
	repo, err := ParseFallbackDatasets(doc, fixedNow)
	require.NoError(t, err)

	ds, err := repo.Get(context.Background(), "teste")
	require.NoError(t, err)

	require.NotNil(t, ds.Records[0].BlockDate)
	assert.Equal(t, fixedNow, *ds.Records[0].BlockDate)
	assert.Equal(t, domain.DefaultBlockReason, ds.Records[0].BlockReason)
	assert.Equal(t, fixedNow, ds.Records[0].OpeningDate)
	assert.Equal(t, domain.TabletNone, ds.Records[0].TabletStatus)

	assert.Nil(t, ds.Records[1].BlockDate)
	assert.Empty(t, ds.Records[1].BlockReason)
}

func TestParseFallbackRejectsBadDocuments(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not yaml", "products: ["},
		{"missing product", "products:\n  - title: x\n"},
		{"duplicate product", "products:\n  - product: a\n  - product: a\n"},
		{"missing key", "products:\n  - product: a\n    records:\n      - status: ativa\n        trend: queda\n"},
		{"bad status", "products:\n  - product: a\n    records:\n      - storeKey: \"1\"\n        status: fechada\n        trend: queda\n"},
		{"duplicate key", "products:\n  - product: a\n    records:\n      - {storeKey: \"1\", status: ativa, trend: queda}\n      - {storeKey: \"1\", status: ativa, trend: queda}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFallbackDatasets([]byte(tt.doc), fixedNow)
			assert.Error(t, err)
		})
	}
}

func TestFallbackFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "datasets.yaml")
	require.NoError(t, os.WriteFile(path, []byte("products:\n  - product: credito\n    title: Outro\n    records: []\n"), 0o600))

	repo, err := NewFallbackRepository(path, fixedClock(), logger.Discard())
	require.NoError(t, err)

	ds, err := repo.Get(context.Background(), domain.ProductCredit)
	require.NoError(t, err)
	assert.Equal(t, "Outro", ds.Title)
	assert.Empty(t, ds.Records)

	_, err = NewFallbackRepository(filepath.Join(t.TempDir(), "missing.yaml"), fixedClock(), logger.Discard())
	assert.Error(t, err)
}
