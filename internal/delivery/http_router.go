package delivery

import (
	"time"

	"oppdash/internal/delivery/middleware"
	"oppdash/pkg/logger"
	"oppdash/pkg/metrics"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

type HTTPRouter struct {
	handlers *HTTPHandlers
	logger   *logger.Logger
	metrics  *metrics.Metrics
	timeout  time.Duration
	gatherer prometheus.Gatherer
}

func NewHTTPRouter(handlers *HTTPHandlers, logger *logger.Logger, metrics *metrics.Metrics, timeout time.Duration) *HTTPRouter {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPRouter{
		handlers: handlers,
		logger:   logger,
		metrics:  metrics,
		timeout:  timeout,
	}
}

// WithGatherer makes /metrics serve a specific registry
func (r *HTTPRouter) WithGatherer(g prometheus.Gatherer) *HTTPRouter {
	r.gatherer = g
	return r
}

func (r *HTTPRouter) SetupRoutes() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(r.logger))
	router.Use(middleware.Recovery(r.logger))
	router.Use(middleware.Metrics(r.metrics))
	router.Use(middleware.Timeout(r.timeout))
	router.Use(middleware.Role())

	config := cors.DefaultConfig()
	config.AllowAllOrigins = true
	config.AllowMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Content-Type", "X-Request-ID", middleware.RoleHeader}
	config.ExposeHeaders = []string{"X-Request-ID", "Content-Disposition", "X-Export-Rows"}

	router.Use(cors.New(config))

	// Health endpoint
	router.GET("/health", r.handlers.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		v1.GET("/", r.handlers.GetAPIInfo)
		v1.GET("", r.handlers.GetAPIInfo)

		products := v1.Group("/products")
		{
			products.GET("", r.handlers.ListProducts)
			products.POST("/:product/select", r.handlers.SelectProduct)
		}

		dashboard := v1.Group("/dashboard")
		{
			dashboard.GET("", r.handlers.GetDashboard)
			dashboard.POST("/filters", r.handlers.ApplyFilters)
			dashboard.DELETE("/filters", r.handlers.ClearFilters)
			dashboard.POST("/sort/:column", r.handlers.RequestSort)
			dashboard.GET("/marks", r.handlers.GetMarked)
			dashboard.POST("/marks/:storeKey", r.handlers.ToggleMark)
			dashboard.GET("/records/:storeKey", r.handlers.GetRecord)
			dashboard.GET("/summary", r.handlers.GetSummary)
			dashboard.GET("/export", r.handlers.Export)
			dashboard.GET("/manager", r.handlers.ManagerView)
		}
	}

	// Prometheus metrics endpoint
	router.GET("/metrics", middleware.PrometheusHandler(r.gatherer))

	return router
}
