package infrastructure

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"oppdash/internal/domain"
	"oppdash/pkg/metrics"
)

var fixedNow = time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC)

func fixedClock() domain.Clock {
	return domain.ClockFunc(func() time.Time { return fixedNow })
}

// each test gets its own registry so collectors never collide
func testMetrics() *metrics.Metrics {
	return metrics.NewWithRegisterer(prometheus.NewRegistry())
}
