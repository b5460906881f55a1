// Package app assembles the dashboard from configuration; both the HTTP
// server and the command line client start here.
package app

import (
	"context"
	"fmt"

	"oppdash/internal/domain"
	"oppdash/internal/infrastructure"
	"oppdash/internal/usecase"
	"oppdash/pkg/config"
	"oppdash/pkg/logger"
	"oppdash/pkg/metrics"
)

type App struct {
	Dashboard  *usecase.Dashboard
	Reconciler *usecase.Reconciler
	close      func() error
}

// Close releases the credential backend
func (a *App) Close() error {
	if a.close == nil {
		return nil
	}
	return a.close()
}

func Build(ctx context.Context, cfg *config.Config, log *logger.Logger, m *metrics.Metrics) (*App, error) {
	clock := domain.SystemClock

	fallback, err := infrastructure.NewFallbackRepository(cfg.Source.FallbackPath, clock, log)
	if err != nil {
		return nil, fmt.Errorf("failed to load fallback datasets: %w", err)
	}

	credentials, closer, err := infrastructure.NewCredentialStore(ctx, cfg.Credentials, log)
	if err != nil {
		return nil, err
	}

	var source domain.RecordSource
	var health domain.HealthChecker
	if cfg.Source.RecordsAPIURL != "" {
		client := infrastructure.NewHTTPClient(
			cfg.Source.RecordsAPIURL,
			cfg.Source.HealthAPIURL,
			cfg.Source.FetchTimeout,
			cfg.Source.RateLimitPerSecond,
			log,
			m,
		)
		source = client
		if cfg.Source.HealthAPIURL != "" {
			health = client
		}
	}

	live := make([]domain.Product, len(cfg.Source.LiveProducts))
	for i, p := range cfg.Source.LiveProducts {
		live[i] = domain.Product(p)
	}

	reconciler := usecase.NewReconciler(
		source,
		health,
		credentials,
		fallback,
		usecase.ReconcilerConfig{
			LiveProducts:  live,
			CredentialKey: cfg.Credentials.Key,
			FetchTimeout:  cfg.Source.FetchTimeout,
		},
		clock,
		log,
		m,
	)

	dashboard := usecase.NewDashboard(
		reconciler,
		infrastructure.NewRecordStore(log),
		infrastructure.NewExcelWriter(cfg.Export.SheetName),
		infrastructure.NewDateFormatter(""),
		clock,
		log,
		m,
	)

	log.WithFields(map[string]any{
		"records_api":   cfg.Source.RecordsAPIURL != "",
		"live_products": cfg.Source.LiveProducts,
		"credentials":   cfg.Credentials.Backend,
	}).Info("Dashboard assembled")

	return &App{Dashboard: dashboard, Reconciler: reconciler, close: closer}, nil
}
