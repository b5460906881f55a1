package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"oppdash/internal/domain"
	"oppdash/pkg/logger"
	"oppdash/pkg/metrics"
)

// Operator-facing diagnostics
const (
	MsgTokenMissing    = "Token de autenticação não encontrado"
	MsgSourceEmpty     = "Nenhum registro encontrado na tabela oportunidades_contas. Verifique se o script SQL foi executado corretamente."
	MsgNotResponding   = "Servidor não está respondendo. Verifique se ele está rodando."
	MsgMalformed       = "Servidor respondeu em formato inesperado. Verifique a versão da API de oportunidades."
	MsgHealthDown      = "Não foi possível conectar ao servidor. Verifique se o servidor está rodando na porta correta."
	MsgHealthError     = "Servidor disponível, mas reportou um erro."
	MsgHealthNoTable   = "A tabela oportunidades_contas não foi encontrada no banco de dados."
	MsgHealthNoRecords = "Nenhum registro encontrado na tabela oportunidades_contas. Verifique se o script SQL foi executado."
)

// Where an outcome's records came from
const (
	SourceLive     = "live"
	SourceFallback = "fallback"
	SourceNone     = "none"
)

// Outcome is everything a product selection resolved to
type Outcome struct {
	Dataset    domain.Dataset
	Found      bool
	State      domain.LoadState
	Source     string
	Diagnostic string
	Err        error
}

// UsingFallback is true when bundled data stands in for a failed live load
func (o Outcome) UsingFallback() bool {
	return o.Found && o.Source == SourceFallback && o.State == domain.LoadStateError
}

type ReconcilerConfig struct {
	LiveProducts  []domain.Product
	CredentialKey string
	FetchTimeout  time.Duration
}

// Reconciler decides, per selection, between the live source and the bundled datasets
type Reconciler struct {
	source      domain.RecordSource
	health      domain.HealthChecker
	credentials domain.CredentialStore
	fallback    domain.FallbackRepository
	live        map[domain.Product]struct{}
	liveOrder   []domain.Product
	key         string
	timeout     time.Duration
	clock       domain.Clock
	logger      *logger.Logger
	metrics     *metrics.Metrics
}

// NewReconciler wires the collaborators. source and health may be nil.
func NewReconciler(
	source domain.RecordSource,
	health domain.HealthChecker,
	credentials domain.CredentialStore,
	fallback domain.FallbackRepository,
	cfg ReconcilerConfig,
	clock domain.Clock,
	logger *logger.Logger,
	metrics *metrics.Metrics,
) *Reconciler {
	live := make(map[domain.Product]struct{}, len(cfg.LiveProducts))
	var liveOrder []domain.Product
	if source != nil {
		for _, p := range cfg.LiveProducts {
			if _, dup := live[p]; !dup {
				live[p] = struct{}{}
				liveOrder = append(liveOrder, p)
			}
		}
	}
	if cfg.CredentialKey == "" {
		cfg.CredentialKey = "token"
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 15 * time.Second
	}
	if clock == nil {
		clock = domain.SystemClock
	}

	return &Reconciler{
		source:      source,
		health:      health,
		credentials: credentials,
		fallback:    fallback,
		live:        live,
		liveOrder:   liveOrder,
		key:         cfg.CredentialKey,
		timeout:     cfg.FetchTimeout,
		clock:       clock,
		logger:      logger,
		metrics:     metrics,
	}
}

// IsLive reports whether selections of product try the live source first
func (r *Reconciler) IsLive(product domain.Product) bool {
	_, ok := r.live[product]
	return ok
}

// Products is the catalog: every bundled product plus live-only ones
func (r *Reconciler) Products() []domain.Product {
	products := r.fallback.Products()
	seen := make(map[domain.Product]struct{}, len(products))
	for _, p := range products {
		seen[p] = struct{}{}
	}
	for _, p := range r.liveOrder {
		if _, ok := seen[p]; !ok {
			products = append(products, p)
		}
	}
	return products
}

// Load resolves a product to a dataset. It never returns an error directly;
// failures are reported through Outcome.Err and Outcome.Diagnostic.
func (r *Reconciler) Load(ctx context.Context, product domain.Product) Outcome {
	start := time.Now()
	r.metrics.IncLoadsInProgress()
	defer r.metrics.DecLoadsInProgress()

	ctx = context.WithValue(ctx, logger.ProductKey, string(product))
	log := r.logger.WithContext(ctx)

	static, fallbackErr := r.fallback.Get(ctx, product)
	hasFallback := fallbackErr == nil

	if !r.IsLive(product) {
		out := Outcome{State: domain.LoadStateUnknown, Source: SourceNone}
		if hasFallback {
			out.Dataset, out.Found, out.Source = static, true, SourceFallback
		} else {
			out.Dataset = domain.Dataset{Product: product}
			out.Err = fallbackErr
			log.Warn("Unknown product selected")
		}
		r.record(product, out, start)
		return out
	}

	records, err := r.fetch(ctx, product)
	if err == nil {
		dataset := domain.Dataset{Product: product, Title: product.DisplayName(), Records: records}
		if hasFallback {
			dataset.Title, dataset.Overview = static.Title, static.Overview
		}
		out := Outcome{Dataset: dataset, Found: true, State: domain.LoadStateConnected, Source: SourceLive}
		log.WithField("records", len(records)).Info("Live records applied")
		r.record(product, out, start)
		return out
	}

	out := Outcome{
		State:      domain.LoadStateError,
		Source:     SourceNone,
		Diagnostic: r.diagnose(ctx, err),
		Err:        err,
	}
	if hasFallback {
		out.Dataset, out.Found, out.Source = static, true, SourceFallback
	} else {
		out.Dataset = domain.Dataset{Product: product}
	}

	log.WithError(err).WithFields(map[string]any{
		"diagnostic": out.Diagnostic,
		"fallback":   hasFallback,
	}).Warn("Live load failed")

	r.record(product, out, start)
	return out
}

// fetch runs the single live attempt; no retry
func (r *Reconciler) fetch(ctx context.Context, product domain.Product) ([]domain.OpportunityRecord, error) {
	token, ok, err := r.credentials.Token(ctx, r.key)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrUnauthorized, err)
	}
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	fetchCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	rows, err := r.source.FetchOpportunities(fetchCtx, token, product)
	if err != nil {
		return nil, err
	}

	records, report := domain.NormalizeRemoteRows(rows, r.clock.Now())
	if report.MissingKey > 0 {
		r.metrics.RecordRecordsRejected(string(product), "missing_key", report.MissingKey)
	}
	if report.Duplicate > 0 {
		r.metrics.RecordRecordsRejected(string(product), "duplicate_key", report.Duplicate)
	}
	if report.Dropped() > 0 {
		r.logger.WithContext(ctx).WithFields(map[string]any{
			"missing_key": report.MissingKey,
			"duplicate":   report.Duplicate,
		}).Warn("Dropped remote rows")
	}
	if len(records) == 0 {
		return nil, domain.ErrSourceEmpty
	}

	return records, nil
}

func (r *Reconciler) diagnose(ctx context.Context, err error) string {
	var diagnostic string
	var te *domain.TransportError

	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		return MsgTokenMissing
	case errors.Is(err, domain.ErrSourceEmpty):
		diagnostic = MsgSourceEmpty
	case errors.Is(err, domain.ErrMalformedResponse):
		diagnostic = MsgMalformed
	case errors.As(err, &te) && te.StatusCode != 0 && te.Message != "":
		diagnostic = te.Message
	case errors.As(err, &te):
		diagnostic = MsgNotResponding
	default:
		diagnostic = err.Error()
	}

	if finding := r.probe(ctx); finding != "" && finding != diagnostic {
		diagnostic += " " + finding
	}
	return diagnostic
}

// probe asks the health endpoint what is wrong; it only adds detail
func (r *Reconciler) probe(ctx context.Context) string {
	if r.health == nil || ctx.Err() != nil {
		return ""
	}

	healthCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	report, err := r.health.CheckHealth(healthCtx)
	switch {
	case err != nil:
		return MsgHealthDown
	case !report.OK():
		return MsgHealthError
	case !report.TableExists:
		return MsgHealthNoTable
	case report.RecordCount == 0:
		return MsgHealthNoRecords
	default:
		return ""
	}
}

func (r *Reconciler) record(product domain.Product, out Outcome, start time.Time) {
	r.metrics.RecordLoad(string(product), string(out.State), out.Source, time.Since(start))
	if out.Found {
		r.metrics.RecordRecordsLoaded(string(product), out.Source, len(out.Dataset.Records))
	}
}
