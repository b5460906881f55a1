package delivery

import (
	"bytes"
	"errors"
	"mime"
	"net/http"
	"strconv"
	"time"

	"oppdash/internal/delivery/middleware"
	"oppdash/internal/domain"
	"oppdash/internal/usecase"
	"oppdash/pkg/logger"
	"oppdash/pkg/metrics"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// handles HTTP requests
type HTTPHandlers struct {
	dashboard *usecase.Dashboard
	logger    *logger.Logger
	metrics   *metrics.Metrics
}

// creates new HTTP handlers
func NewHTTPHandlers(dashboard *usecase.Dashboard, logger *logger.Logger, metrics *metrics.Metrics) *HTTPHandlers {
	return &HTTPHandlers{
		dashboard: dashboard,
		logger:    logger,
		metrics:   metrics,
	}
}

// HealthCheck returns the health status of the service
func (h *HTTPHandlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":     "healthy",
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
		"service":    "oppdash",
		"version":    "1.0.0",
		"request_id": c.GetString("request_id"),
	})
}

// GetAPIInfo returns API v1 information and available endpoints
func (h *HTTPHandlers) GetAPIInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"api_version": "v1",
		"service":     "Opportunity Dashboard",
		"version":     "1.0.0",
		"description": "Per-product store opportunity table with live loading, bundled fallback data, filtering, sorting, marking and spreadsheet export",
		"endpoints": gin.H{
			"products": gin.H{
				"list":   "GET /api/v1/products",
				"select": "POST /api/v1/products/:product/select",
			},
			"dashboard": gin.H{
				"view":          "GET /api/v1/dashboard",
				"filters":       "POST|DELETE /api/v1/dashboard/filters",
				"sort":          "POST /api/v1/dashboard/sort/:column",
				"toggle_mark":   "POST /api/v1/dashboard/marks/:storeKey",
				"marked":        "GET /api/v1/dashboard/marks",
				"record":        "GET /api/v1/dashboard/records/:storeKey",
				"summary":       "GET /api/v1/dashboard/summary",
				"export":        "GET /api/v1/dashboard/export",
				"manager_view":  "GET /api/v1/dashboard/manager",
				"filter_fields": []string{"storeKey", "taxId", "storeName", "status", "branchCode", "regionalManagement", "regionalDirectorate", "trend"},
			},
			"health":  "GET /health",
			"metrics": "GET /metrics",
		},
		"request_id": c.GetString("request_id"),
	})
}

func (h *HTTPHandlers) ListProducts(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"products":   h.dashboard.Products(),
		"request_id": c.GetString("request_id"),
	})
}

// SelectProduct loads a product and returns the resulting view
func (h *HTTPHandlers) SelectProduct(c *gin.Context) {
	ctx := c.Request.Context()
	requestID := c.GetString("request_id")
	product := domain.Product(c.Param("product"))

	out := h.dashboard.Select(ctx, product)

	switch {
	case errors.Is(out.Err, usecase.ErrSuperseded):
		c.JSON(http.StatusConflict, gin.H{
			"error":      "Selection superseded",
			"message":    "A newer product selection replaced this one",
			"product":    product,
			"request_id": requestID,
		})
		return
	case errors.Is(out.Err, usecase.ErrAbandoned):
		c.JSON(http.StatusRequestTimeout, gin.H{
			"error":      "Request timeout",
			"request_id": requestID,
		})
		return
	case !out.Found:
		c.JSON(http.StatusNotFound, gin.H{
			"error":      "Product not found",
			"message":    "Nenhum dado disponível para este produto.",
			"product":    product,
			"request_id": requestID,
		})
		return
	}

	c.JSON(http.StatusOK, h.dashboard.View(ctx))
}

// GetDashboard returns the current view; with filter=1 the query string replaces the criteria
func (h *HTTPHandlers) GetDashboard(c *gin.Context) {
	ctx := c.Request.Context()

	if c.Query("filter") != "1" {
		c.JSON(http.StatusOK, h.dashboard.View(ctx))
		return
	}

	var criteria domain.FilterCriteria
	if err := c.ShouldBindQuery(&criteria); err != nil {
		h.badRequest(c, "Invalid filter criteria", err)
		return
	}
	c.JSON(http.StatusOK, h.dashboard.ApplyFilters(ctx, criteria))
}

func (h *HTTPHandlers) ApplyFilters(c *gin.Context) {
	var criteria domain.FilterCriteria
	if err := c.ShouldBindJSON(&criteria); err != nil {
		h.badRequest(c, "Invalid filter criteria", err)
		return
	}
	c.JSON(http.StatusOK, h.dashboard.ApplyFilters(c.Request.Context(), criteria))
}

func (h *HTTPHandlers) ClearFilters(c *gin.Context) {
	c.JSON(http.StatusOK, h.dashboard.ClearFilters(c.Request.Context()))
}

// RequestSort runs the toggle protocol; unknown columns reset to unsorted
func (h *HTTPHandlers) RequestSort(c *gin.Context) {
	h.dashboard.RequestSort(domain.ParseField(c.Param("column")))
	c.JSON(http.StatusOK, h.dashboard.View(c.Request.Context()))
}

func (h *HTTPHandlers) ToggleMark(c *gin.Context) {
	storeKey := c.Param("storeKey")
	marked := h.dashboard.ToggleMark(storeKey)

	c.JSON(http.StatusOK, gin.H{
		"storeKey":   storeKey,
		"marked":     marked,
		"request_id": c.GetString("request_id"),
	})
}

func (h *HTTPHandlers) GetMarked(c *gin.Context) {
	records := h.dashboard.MarkedView(c.Request.Context())

	c.JSON(http.StatusOK, gin.H{
		"records":    records,
		"count":      len(records),
		"request_id": c.GetString("request_id"),
	})
}

func (h *HTTPHandlers) GetRecord(c *gin.Context) {
	record, err := h.dashboard.Record(c.Request.Context(), c.Param("storeKey"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":      "Store not found",
			"message":    err.Error(),
			"request_id": c.GetString("request_id"),
		})
		return
	}
	c.JSON(http.StatusOK, record)
}

func (h *HTTPHandlers) GetSummary(c *gin.Context) {
	c.JSON(http.StatusOK, h.dashboard.Summary(c.Request.Context()))
}

// Export streams the current view as an xlsx attachment
func (h *HTTPHandlers) Export(c *gin.Context) {
	ctx := c.Request.Context()
	requestID := c.GetString("request_id")

	var buf bytes.Buffer
	filename, rows, err := h.dashboard.Export(ctx, &buf)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, domain.ErrNotFound) {
			status = http.StatusNotFound
		}
		h.logger.WithContext(ctx).WithError(err).Error("Export failed")
		c.JSON(status, gin.H{
			"error":      "Export failed",
			"message":    err.Error(),
			"request_id": requestID,
		})
		return
	}

	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	c.Header("X-Export-Rows", strconv.Itoa(rows))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func (h *HTTPHandlers) ManagerView(c *gin.Context) {
	view, err := h.dashboard.ManagerView(c.Request.Context(), c.GetBool(middleware.ManagerKey))
	if errors.Is(err, domain.ErrForbidden) {
		c.JSON(http.StatusForbidden, gin.H{
			"error":      "Forbidden",
			"message":    "Disponível apenas para coordenadores e gerentes.",
			"request_id": c.GetString("request_id"),
		})
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *HTTPHandlers) badRequest(c *gin.Context, title string, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":      title,
		"message":    err.Error(),
		"request_id": c.GetString("request_id"),
	})
}
