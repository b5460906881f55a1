package domain

import (
	"context"
	"io"
	"time"
)

// interface for the live records service
type RecordSource interface {
	FetchOpportunities(ctx context.Context, token string, product Product) ([]RemoteRow, error)
}

// interface for the optional service status probe
type HealthChecker interface {
	CheckHealth(ctx context.Context) (*HealthReport, error)
}

// read-only bearer token lookup; ok is false when the key is absent
type CredentialStore interface {
	Token(ctx context.Context, key string) (token string, ok bool, err error)
}

// interface for the bundled reference datasets
type FallbackRepository interface {
	Get(ctx context.Context, product Product) (Dataset, error)
	Products() []Product
}

// holds the canonical collection for the active product
type RecordStore interface {
	Replace(ctx context.Context, dataset Dataset) error
	MarkNotFound(ctx context.Context, product Product) error
	Current(ctx context.Context) (Dataset, error)
}

// Table is the flat projection handed to spreadsheet writers
type Table struct {
	Headers []string
	Rows    [][]any
}

// interface for file encoding of exported tables
type SpreadsheetWriter interface {
	Write(w io.Writer, table Table) error
}

// interface for locale date formatting
type DateFormatter interface {
	Format(t time.Time) string
}

type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time {
	return f()
}

// SystemClock reads the wall clock
var SystemClock Clock = ClockFunc(time.Now)
