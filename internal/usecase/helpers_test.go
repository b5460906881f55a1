package usecase

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"oppdash/internal/domain"
	"oppdash/internal/infrastructure"
	"oppdash/pkg/logger"
	"oppdash/pkg/metrics"
)

var fixedNow = time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC)

func fixedClock() domain.Clock {
	return domain.ClockFunc(func() time.Time { return fixedNow })
}

func testMetrics() *metrics.Metrics {
	return metrics.NewWithRegisterer(prometheus.NewRegistry())
}

// fakeSource answers FetchOpportunities with fetch
type fakeSource struct {
	fetch func(ctx context.Context, token string, product domain.Product) ([]domain.RemoteRow, error)
	calls atomic.Int32
}

func (f *fakeSource) FetchOpportunities(ctx context.Context, token string, product domain.Product) ([]domain.RemoteRow, error) {
	f.calls.Add(1)
	return f.fetch(ctx, token, product)
}

func rowsSource(rows ...domain.RemoteRow) *fakeSource {
	return &fakeSource{fetch: func(context.Context, string, domain.Product) ([]domain.RemoteRow, error) {
		if len(rows) == 0 {
			return nil, domain.ErrSourceEmpty
		}
		return rows, nil
	}}
}

func errSource(err error) *fakeSource {
	return &fakeSource{fetch: func(context.Context, string, domain.Product) ([]domain.RemoteRow, error) {
		return nil, err
	}}
}

type fakeHealth struct {
	report *domain.HealthReport
	err    error
}

func (f fakeHealth) CheckHealth(ctx context.Context) (*domain.HealthReport, error) {
	return f.report, f.err
}

func liveRows() []domain.RemoteRow {
	return []domain.RemoteRow{
		{StoreKey: "7001", StoreName: "Loja Nova", MonthM0: 4, Status: "ativa", Trend: "comecando"},
		{StoreKey: "7002", StoreName: "Loja Bloqueada", Status: "bloqueada"},
		{StoreName: "sem chave"},
		{StoreKey: "7001", StoreName: "Duplicada"},
	}
}

type reconcilerOptions struct {
	source domain.RecordSource
	health domain.HealthChecker
	token  string
	live   []domain.Product
}

func newTestReconciler(t *testing.T, opts reconcilerOptions) *Reconciler {
	t.Helper()

	fallback, err := infrastructure.NewFallbackRepository("", fixedClock(), logger.Discard())
	require.NoError(t, err)

	live := opts.live
	if live == nil {
		live = []domain.Product{domain.ProductAccountOpening}
	}

	return NewReconciler(
		opts.source,
		opts.health,
		infrastructure.NewStaticCredentialStore(map[string]string{"token": opts.token}),
		fallback,
		ReconcilerConfig{LiveProducts: live, CredentialKey: "token", FetchTimeout: time.Second},
		fixedClock(),
		logger.Discard(),
		testMetrics(),
	)
}

func newTestDashboard(t *testing.T, r *Reconciler) *Dashboard {
	t.Helper()
	return NewDashboard(
		r,
		infrastructure.NewRecordStore(logger.Discard()),
		infrastructure.NewExcelWriter(""),
		infrastructure.NewDateFormatter(""),
		fixedClock(),
		logger.Discard(),
		testMetrics(),
	)
}

func storeKeys(records []domain.OpportunityRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.StoreKey
	}
	return out
}
