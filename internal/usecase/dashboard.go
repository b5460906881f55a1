package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"oppdash/internal/domain"
	"oppdash/internal/table"
	"oppdash/pkg/logger"
	"oppdash/pkg/metrics"
)

// ErrSuperseded is reported to a selection whose result arrived after a newer one started
var ErrSuperseded = errors.New("selection superseded by a newer one")

// ErrAbandoned is reported when the caller's context ended before the result was committed
var ErrAbandoned = errors.New("selection abandoned by caller")

// FallbackAdvisory is shown while bundled data stands in for the live source
const FallbackAdvisory = "Exibindo dados de referência enquanto a conexão com o servidor não é restabelecida."

// View is the current ordered, filtered projection plus its header state
type View struct {
	Product     domain.Product             `json:"product"`
	DisplayName string                     `json:"displayName"`
	Title       string                     `json:"title"`
	Overview    string                     `json:"overview"`
	Found       bool                       `json:"found"`
	State       domain.LoadState           `json:"state"`
	Source      string                     `json:"source"`
	Diagnostic  string                     `json:"diagnostic,omitempty"`
	Advisory    string                     `json:"advisory,omitempty"`
	Criteria    domain.FilterCriteria      `json:"criteria"`
	Sort        domain.SortState           `json:"sort"`
	Total       int                        `json:"total"`
	Matched     int                        `json:"matched"`
	MarkedCount int                        `json:"markedCount"`
	Records     []domain.OpportunityRecord `json:"records"`
}

// Summary holds the figures computed over the full collection
type Summary struct {
	Product              domain.Product       `json:"product"`
	Total                int                  `json:"total"`
	TrendCounts          map[domain.Trend]int `json:"trendCounts"`
	Highlight            *table.Highlight     `json:"highlight,omitempty"`
	RegionalManagements  []string             `json:"regionalManagements"`
	RegionalDirectorates []string             `json:"regionalDirectorates"`
}

// ManagerView is the consolidated team overview
type ManagerView struct {
	Product domain.Product     `json:"product"`
	Team    []table.TeamMember `json:"team"`
}

// Dashboard owns one operator session: the active product, its load state,
// the filter, the sort state and the marked set.
type Dashboard struct {
	reconciler *Reconciler
	store      domain.RecordStore
	writer     domain.SpreadsheetWriter
	dates      domain.DateFormatter
	clock      domain.Clock
	logger     *logger.Logger
	metrics    *metrics.Metrics

	mu         sync.Mutex
	generation uint64
	cancel     context.CancelFunc
	product    domain.Product
	selected   bool
	outcome    Outcome
	filter     table.Filter
	sorter     table.Sorter
	selection  table.Selection
}

func NewDashboard(
	reconciler *Reconciler,
	store domain.RecordStore,
	writer domain.SpreadsheetWriter,
	dates domain.DateFormatter,
	clock domain.Clock,
	logger *logger.Logger,
	metrics *metrics.Metrics,
) *Dashboard {
	if clock == nil {
		clock = domain.SystemClock
	}
	return &Dashboard{
		reconciler: reconciler,
		store:      store,
		writer:     writer,
		dates:      dates,
		clock:      clock,
		logger:     logger,
		metrics:    metrics,
	}
}

// Products lists the catalog with each product's live flag
func (d *Dashboard) Products() []ProductInfo {
	products := d.reconciler.Products()
	out := make([]ProductInfo, len(products))
	for i, p := range products {
		out[i] = ProductInfo{Product: p, DisplayName: p.DisplayName(), Live: d.reconciler.IsLive(p)}
	}
	return out
}

type ProductInfo struct {
	Product     domain.Product `json:"product"`
	DisplayName string         `json:"displayName"`
	Live        bool           `json:"live"`
}

// Select loads a product and makes it the active one. A selection already in
// flight is cancelled; whichever selection started last is the one committed.
func (d *Dashboard) Select(ctx context.Context, product domain.Product) Outcome {
	d.mu.Lock()
	d.generation++
	gen := d.generation
	if d.cancel != nil {
		d.cancel()
	}
	loadCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	d.mu.Unlock()

	defer cancel()

	out := d.reconciler.Load(loadCtx, product)

	d.mu.Lock()
	defer d.mu.Unlock()

	log := d.logger.WithContext(ctx).WithField("product", product)

	if gen != d.generation {
		d.metrics.RecordStaleLoad()
		log.WithField("generation", gen).Info("Discarded stale selection result")
		out.Err = ErrSuperseded
		return out
	}
	d.cancel = nil

	if err := ctx.Err(); err != nil {
		log.WithError(err).Warn("Selection abandoned by caller")
		out.Err = fmt.Errorf("%w: %w", ErrAbandoned, err)
		return out
	}

	if out.Found {
		if err := d.store.Replace(ctx, out.Dataset); err != nil {
			log.WithError(err).Error("Failed to replace active collection")
			out.Err = fmt.Errorf("failed to store dataset: %w", err)
			return out
		}
	} else if err := d.store.MarkNotFound(ctx, product); err != nil {
		log.WithError(err).Error("Failed to clear active collection")
	}

	d.product = product
	d.selected = true
	d.outcome = Outcome{
		Found:      out.Found,
		State:      out.State,
		Source:     out.Source,
		Diagnostic: out.Diagnostic,
		Err:        out.Err,
	}
	// a new collection starts unfiltered; sort state and marks carry over
	d.filter.Clear(nil)

	d.metrics.RecordOperation("select")
	return out
}

// ApplyFilters replaces the criteria and returns the resulting view
func (d *Dashboard) ApplyFilters(ctx context.Context, criteria domain.FilterCriteria) View {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.filter.Apply(nil, criteria)
	d.metrics.RecordOperation("filter")
	return d.viewLocked(ctx)
}

func (d *Dashboard) ClearFilters(ctx context.Context) View {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.filter.Clear(nil)
	d.metrics.RecordOperation("clear_filters")
	return d.viewLocked(ctx)
}

// RequestSort runs the column toggle protocol
func (d *Dashboard) RequestSort(column domain.Field) domain.SortState {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.metrics.RecordOperation("sort")
	return d.sorter.Request(column)
}

// ToggleMark flips membership of a store key and returns the new membership
func (d *Dashboard) ToggleMark(storeKey string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.metrics.RecordOperation("mark")
	return d.selection.Toggle(storeKey)
}

func (d *Dashboard) View(ctx context.Context) View {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.viewLocked(ctx)
}

// MarkedView is the ordered collection restricted to marked stores
func (d *Dashboard) MarkedView(ctx context.Context) []domain.OpportunityRecord {
	d.mu.Lock()
	defer d.mu.Unlock()

	ordered := d.sorter.Apply(d.recordsLocked(ctx))
	return d.selection.Marked(ordered)
}

// Record looks up one store in the active collection
func (d *Dashboard) Record(ctx context.Context, storeKey string) (domain.OpportunityRecord, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	r, ok := table.Find(d.recordsLocked(ctx), storeKey)
	if !ok {
		return domain.OpportunityRecord{}, fmt.Errorf("store %q: %w", storeKey, domain.ErrNotFound)
	}
	return r, nil
}

func (d *Dashboard) Summary(ctx context.Context) Summary {
	d.mu.Lock()
	defer d.mu.Unlock()

	records := d.recordsLocked(ctx)
	s := Summary{
		Product:              d.product,
		Total:                len(records),
		TrendCounts:          table.TrendCounts(records),
		RegionalManagements:  table.DistinctOptions(records, domain.FieldRegionalManagement),
		RegionalDirectorates: table.DistinctOptions(records, domain.FieldRegionalDirectorate),
	}
	if h, ok := table.Highlights(d.product, records); ok {
		s.Highlight = &h
	}
	return s
}

// Export writes the current ordered, filtered view as a spreadsheet
func (d *Dashboard) Export(ctx context.Context, w io.Writer) (string, int, error) {
	d.mu.Lock()
	if !d.selected {
		d.mu.Unlock()
		return "", 0, fmt.Errorf("nothing selected: %w", domain.ErrNotFound)
	}
	product := d.product
	ordered := d.sorter.Apply(table.Match(d.recordsLocked(ctx), d.filter.Criteria()))
	d.mu.Unlock()

	out := table.Export(ordered, d.dates)
	if err := d.writer.Write(w, out); err != nil {
		return "", 0, fmt.Errorf("failed to write spreadsheet: %w", err)
	}

	d.metrics.RecordExport(len(out.Rows))
	d.logger.WithContext(ctx).WithFields(map[string]any{
		"product": product,
		"rows":    len(out.Rows),
	}).Info("Exported view")

	return table.ExportFileName(product, d.clock.Now()), len(out.Rows), nil
}

// ManagerView returns the team overview; the capability flag is taken as given
func (d *Dashboard) ManagerView(ctx context.Context, isManager bool) (ManagerView, error) {
	if !isManager {
		return ManagerView{}, domain.ErrForbidden
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.metrics.RecordOperation("manager_view")
	return ManagerView{
		Product: d.product,
		Team:    table.TeamOverview(d.recordsLocked(ctx)),
	}, nil
}

func (d *Dashboard) recordsLocked(ctx context.Context) []domain.OpportunityRecord {
	ds, err := d.store.Current(ctx)
	if err != nil {
		return []domain.OpportunityRecord{}
	}
	return ds.Records
}

func (d *Dashboard) viewLocked(ctx context.Context) View {
	v := View{
		Product:     d.product,
		DisplayName: d.product.DisplayName(),
		Found:       d.outcome.Found,
		State:       d.outcome.State,
		Source:      d.outcome.Source,
		Diagnostic:  d.outcome.Diagnostic,
		Criteria:    d.filter.Criteria(),
		Sort:        d.sorter.State(),
		MarkedCount: d.selection.Len(),
		Records:     []domain.OpportunityRecord{},
	}
	if !d.selected {
		v.State = domain.LoadStateUnknown
		v.Source = SourceNone
		return v
	}
	if d.outcome.UsingFallback() {
		v.Advisory = FallbackAdvisory
	}

	ds, err := d.store.Current(ctx)
	if err != nil {
		return v
	}
	v.Title, v.Overview = ds.Title, ds.Overview
	v.Total = len(ds.Records)
	v.Records = d.sorter.Apply(table.Match(ds.Records, v.Criteria))
	v.Matched = len(v.Records)
	return v
}
