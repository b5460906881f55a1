package infrastructure

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"oppdash/internal/domain"
	"oppdash/pkg/logger"
)

//go:embed fallback/datasets.yaml
var embeddedDatasets []byte

type fallbackFile struct {
	Products []fallbackDataset `yaml:"products"`
}

type fallbackDataset struct {
	Product  string           `yaml:"product"`
	Title    string           `yaml:"title"`
	Overview string           `yaml:"overview"`
	Records  []fallbackRecord `yaml:"records"`
}

// dates stay strings here so they go through the same parser as remote rows
type fallbackRecord struct {
	StoreKey              string                 `yaml:"storeKey"`
	TaxID                 string                 `yaml:"taxId"`
	StoreName             string                 `yaml:"storeName"`
	BranchCode            string                 `yaml:"branchCode"`
	Phone                 string                 `yaml:"phone"`
	ContactName           string                 `yaml:"contactName"`
	Address               string                 `yaml:"address"`
	PDVName               string                 `yaml:"pdvName"`
	RegionalManagement    string                 `yaml:"regionalManagement"`
	RegionalDirectorate   string                 `yaml:"regionalDirectorate"`
	ResponsibleMultiplier string                 `yaml:"responsibleMultiplier"`
	MonthM3               int                    `yaml:"monthM3"`
	MonthM2               int                    `yaml:"monthM2"`
	MonthM1               int                    `yaml:"monthM1"`
	MonthM0               int                    `yaml:"monthM0"`
	Status                string                 `yaml:"status"`
	Trend                 string                 `yaml:"trend"`
	LastAccountingTxDate  string                 `yaml:"lastAccountingTxDate"`
	LastBusinessTxDate    string                 `yaml:"lastBusinessTxDate"`
	OpeningDate           string                 `yaml:"openingDate"`
	BlockDate             string                 `yaml:"blockDate"`
	CertificationDate     string                 `yaml:"certificationDate"`
	TabletStatus          string                 `yaml:"tabletStatus"`
	EnabledProducts       domain.EnabledProducts `yaml:"enabledProducts"`
	BlockReason           string                 `yaml:"blockReason"`
}

// implements domain.FallbackRepository interface
type FallbackRepository struct {
	datasets map[domain.Product]domain.Dataset
	order    []domain.Product
}

// NewFallbackRepository loads the bundled datasets, or the file at path when one is given
func NewFallbackRepository(path string, clock domain.Clock, logger *logger.Logger) (*FallbackRepository, error) {
	data := embeddedDatasets
	source := "embedded"
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read fallback datasets: %w", err)
		}
		data = raw
		source = path
	}

	repo, err := ParseFallbackDatasets(data, clock.Now())
	if err != nil {
		return nil, err
	}

	logger.WithFields(map[string]any{
		"source":   source,
		"products": repo.order,
	}).Info("Loaded fallback datasets")

	return repo, nil
}

// ParseFallbackDatasets decodes a datasets document
func ParseFallbackDatasets(data []byte, now time.Time) (*FallbackRepository, error) {
	var file fallbackFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse fallback datasets: %w", err)
	}

	repo := &FallbackRepository{datasets: make(map[domain.Product]domain.Dataset, len(file.Products))}
	for _, fd := range file.Products {
		product := domain.Product(strings.TrimSpace(fd.Product))
		if product == "" {
			return nil, fmt.Errorf("fallback dataset without product name")
		}
		if _, dup := repo.datasets[product]; dup {
			return nil, fmt.Errorf("duplicate fallback dataset %q", product)
		}

		dataset := domain.Dataset{
			Product:  product,
			Title:    fd.Title,
			Overview: fd.Overview,
			Records:  make([]domain.OpportunityRecord, 0, len(fd.Records)),
		}
		seen := make(map[string]struct{}, len(fd.Records))
		for i, fr := range fd.Records {
			rec, err := fr.toRecord(now)
			if err != nil {
				return nil, fmt.Errorf("dataset %q record %d: %w", product, i, err)
			}
			if _, dup := seen[rec.StoreKey]; dup {
				return nil, fmt.Errorf("dataset %q: duplicate store key %q", product, rec.StoreKey)
			}
			seen[rec.StoreKey] = struct{}{}
			dataset.Records = append(dataset.Records, rec)
		}

		repo.datasets[product] = dataset
		repo.order = append(repo.order, product)
	}

	return repo, nil
}

func (fr fallbackRecord) toRecord(now time.Time) (domain.OpportunityRecord, error) {
	key := strings.TrimSpace(fr.StoreKey)
	if key == "" {
		return domain.OpportunityRecord{}, domain.ErrMissingStoreKey
	}
	status, ok := domain.ParseStatus(fr.Status)
	if !ok {
		return domain.OpportunityRecord{}, fmt.Errorf("unknown status %q", fr.Status)
	}
	trend, ok := domain.ParseTrend(fr.Trend)
	if !ok {
		return domain.OpportunityRecord{}, fmt.Errorf("unknown trend %q", fr.Trend)
	}
	tablet, ok := domain.ParseTabletStatus(fr.TabletStatus)
	if !ok {
		tablet = domain.TabletNone
	}

	rec := domain.OpportunityRecord{
		StoreKey:              key,
		TaxID:                 fr.TaxID,
		StoreName:             fr.StoreName,
		BranchCode:            fr.BranchCode,
		Phone:                 fr.Phone,
		ContactName:           fr.ContactName,
		Address:               fr.Address,
		PDVName:               fr.PDVName,
		RegionalManagement:    fr.RegionalManagement,
		RegionalDirectorate:   fr.RegionalDirectorate,
		ResponsibleMultiplier: fr.ResponsibleMultiplier,
		MonthM3:               max(fr.MonthM3, 0),
		MonthM2:               max(fr.MonthM2, 0),
		MonthM1:               max(fr.MonthM1, 0),
		MonthM0:               max(fr.MonthM0, 0),
		Status:                status,
		Trend:                 trend,
		LastAccountingTxDate:  dateOrNow(fr.LastAccountingTxDate, now),
		LastBusinessTxDate:    dateOrNow(fr.LastBusinessTxDate, now),
		OpeningDate:           dateOrNow(fr.OpeningDate, now),
		TabletStatus:          tablet,
		EnabledProducts:       fr.EnabledProducts,
		BlockReason:           fr.BlockReason,
	}
	if t, ok := domain.ParseDate(fr.BlockDate); ok {
		rec.BlockDate = &t
	}
	if t, ok := domain.ParseDate(fr.CertificationDate); ok {
		rec.CertificationDate = &t
	}

	return domain.EnforceInvariants(rec, now), nil
}

func dateOrNow(value string, now time.Time) time.Time {
	if t, ok := domain.ParseDate(value); ok {
		return t
	}
	return now
}

func (r *FallbackRepository) Get(ctx context.Context, product domain.Product) (domain.Dataset, error) {
	dataset, ok := r.datasets[product]
	if !ok {
		return domain.Dataset{}, fmt.Errorf("fallback dataset %q: %w", product, domain.ErrNotFound)
	}
	return dataset.Clone(), nil
}

// Products lists the bundled products in file order
func (r *FallbackRepository) Products() []domain.Product {
	out := make([]domain.Product, len(r.order))
	copy(out, r.order)
	return out
}
