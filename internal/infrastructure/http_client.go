package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"oppdash/internal/domain"
	"oppdash/pkg/logger"
	"oppdash/pkg/metrics"

	"golang.org/x/time/rate"
)

const defaultServerMessage = "Erro ao comunicar com o servidor"

// upper bound on response bodies we are willing to decode
const maxResponseBytes = 32 << 20

// implements domain.RecordSource and domain.HealthChecker interfaces
type HTTPClient struct {
	client      *http.Client
	recordsURL  string
	healthURL   string
	logger      *logger.Logger
	metrics     *metrics.Metrics
	rateLimiter *rate.Limiter
}

// creates a new HTTP client
func NewHTTPClient(recordsURL, healthURL string, timeout time.Duration, ratePerSecond int, logger *logger.Logger, metrics *metrics.Metrics) *HTTPClient {
	if ratePerSecond <= 0 {
		ratePerSecond = 10
	}
	return &HTTPClient{
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		recordsURL:  recordsURL,
		healthURL:   healthURL,
		logger:      logger,
		metrics:     metrics,
		rateLimiter: rate.NewLimiter(rate.Limit(ratePerSecond), ratePerSecond),
	}
}

// FetchOpportunities issues one authenticated fetch for the product's rows
func (c *HTTPClient) FetchOpportunities(ctx context.Context, token string, product domain.Product) ([]domain.RemoteRow, error) {
	start := time.Now()

	if err := c.rateLimiter.Wait(ctx); err != nil {
		c.metrics.RecordExternalAPIFailure("records", "rate_limit")
		return nil, &domain.TransportError{Err: fmt.Errorf("rate limit exceeded: %w", err)}
	}

	endpoint, err := url.Parse(c.recordsURL)
	if err != nil {
		c.metrics.RecordExternalAPIFailure("records", "request_creation")
		return nil, &domain.TransportError{Err: fmt.Errorf("invalid records URL: %w", err)}
	}
	query := endpoint.Query()
	query.Set("tipoEstrategia", string(product))
	endpoint.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		c.metrics.RecordExternalAPIFailure("records", "request_creation")
		return nil, &domain.TransportError{Err: fmt.Errorf("failed to create request: %w", err)}
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.client.Do(req)
	if err != nil {
		c.metrics.RecordExternalAPIFailure("records", "network_error")
		return nil, &domain.TransportError{Err: fmt.Errorf("failed to fetch opportunities: %w", err)}
	}
	defer resp.Body.Close()

	duration := time.Since(start)

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		c.metrics.RecordExternalAPIFailure("records", "read_body")
		return nil, &domain.TransportError{StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.metrics.RecordExternalAPICall("records", fmt.Sprintf("error_%d", resp.StatusCode), duration)
		return nil, &domain.TransportError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("Erro %d: %s", resp.StatusCode, serverMessage(body)),
		}
	}

	var rows []domain.RemoteRow
	if len(body) > 0 {
		if err := json.Unmarshal(body, &rows); err != nil {
			c.metrics.RecordExternalAPIFailure("records", "json_parse")
			return nil, &domain.TransportError{StatusCode: resp.StatusCode, Err: fmt.Errorf("%w: %w", domain.ErrMalformedResponse, err)}
		}
	}

	c.metrics.RecordExternalAPICall("records", "success", duration)

	if len(rows) == 0 {
		return nil, domain.ErrSourceEmpty
	}

	c.logger.WithContext(ctx).WithFields(map[string]any{
		"url":      c.recordsURL,
		"product":  product,
		"duration": duration,
		"records":  len(rows),
	}).Info("Successfully fetched opportunities")

	return rows, nil
}

// CheckHealth asks the records service about itself
func (c *HTTPClient) CheckHealth(ctx context.Context) (*domain.HealthReport, error) {
	if c.healthURL == "" {
		return nil, fmt.Errorf("health URL not configured")
	}

	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.healthURL, nil)
	if err != nil {
		c.metrics.RecordExternalAPIFailure("health", "request_creation")
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		c.metrics.RecordExternalAPIFailure("health", "network_error")
		return nil, &domain.TransportError{Err: fmt.Errorf("failed to check health: %w", err)}
	}
	defer resp.Body.Close()

	duration := time.Since(start)

	var report domain.HealthReport
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&report); err != nil {
		c.metrics.RecordExternalAPIFailure("health", "json_parse")
		// a non-JSON answer still proves the server is up
		report = domain.HealthReport{Status: fmt.Sprintf("error_%d", resp.StatusCode)}
	}

	c.metrics.RecordExternalAPICall("health", report.Status, duration)

	c.logger.WithContext(ctx).WithFields(map[string]any{
		"status":       report.Status,
		"table_exists": report.TableExists,
		"records":      report.RecordCount,
	}).Debug("Records service health")

	return &report, nil
}

// serverMessage pulls "message" out of an error body
func serverMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || payload.Message == "" {
		return defaultServerMessage
	}
	return payload.Message
}
