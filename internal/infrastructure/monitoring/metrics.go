// Package monitoring provides Prometheus metrics and OpenTelemetry
// tracing for the planner.
package monitoring

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/mealsmith/v2/internal/ports/outbound"
)

// MetricsCollector handles Prometheus metrics collection
type MetricsCollector struct {
	logger *zap.Logger

	// HTTP metrics
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Planner metrics
	plansGeneratedTotal    *prometheus.CounterVec
	plansRejectedTotal     *prometheus.CounterVec
	planGenerationDuration *prometheus.HistogramVec
	planRelaxedSlots       *prometheus.HistogramVec
	planFlaggedDaysTotal   *prometheus.CounterVec
	shoppingListsTotal     prometheus.Counter
	shoppingListLines      prometheus.Histogram

	// Data plane metrics
	catalogRecipes     prometheus.Gauge
	catalogIngredients prometheus.Gauge
	cacheHitsTotal     *prometheus.CounterVec
	cacheMissesTotal   *prometheus.CounterVec
}

// NewMetricsCollector creates a new metrics collector
func NewMetricsCollector(logger *zap.Logger) *MetricsCollector {
	return &MetricsCollector{
		logger: logger,

		httpRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		httpRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status_code"},
		),

		plansGeneratedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "meal_plans_generated_total",
				Help: "Total number of meal plans generated",
			},
			[]string{"diet_profile"},
		),
		plansRejectedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "meal_plans_rejected_total",
				Help: "Total number of generation requests rejected",
			},
			[]string{"reason"},
		),
		planGenerationDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "meal_plan_generation_duration_seconds",
				Help:    "Meal plan generation duration in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
			},
			[]string{"diet_profile"},
		),
		planRelaxedSlots: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "meal_plan_relaxed_slots",
				Help:    "Number of slots relaxed past the calorie band per generated plan",
				Buckets: []float64{0, 1, 2, 3, 5, 8, 13, 21},
			},
			[]string{"diet_profile"},
		),
		planFlaggedDaysTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "meal_plan_flagged_days_total",
				Help: "Total number of generated days marked out of tolerance",
			},
			[]string{"diet_profile"},
		),
		shoppingListsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "shopping_lists_built_total",
				Help: "Total number of shopping lists built",
			},
		),
		shoppingListLines: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "shopping_list_lines",
				Help:    "Number of aggregated lines per shopping list",
				Buckets: prometheus.LinearBuckets(5, 5, 10),
			},
		),

		catalogRecipes: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "catalog_recipes",
				Help: "Number of recipes in the loaded catalog",
			},
		),
		catalogIngredients: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "catalog_ingredients",
				Help: "Number of ingredients in the loaded catalog",
			},
		),
		cacheHitsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cache_hits_total",
				Help: "Total number of cache hits",
			},
			[]string{"object"},
		),
		cacheMissesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cache_misses_total",
				Help: "Total number of cache misses",
			},
			[]string{"object"},
		),
	}
}

// PlanGenerated records a successful generation
func (m *MetricsCollector) PlanGenerated(profileID string, days, relaxedSlots, flaggedDays int, duration time.Duration) {
	m.plansGeneratedTotal.WithLabelValues(profileID).Inc()
	m.planGenerationDuration.WithLabelValues(profileID).Observe(duration.Seconds())
	m.planRelaxedSlots.WithLabelValues(profileID).Observe(float64(relaxedSlots))
	m.planFlaggedDaysTotal.WithLabelValues(profileID).Add(float64(flaggedDays))
}

// PlanRejected records a rejected generation request
func (m *MetricsCollector) PlanRejected(reason string) {
	m.plansRejectedTotal.WithLabelValues(reason).Inc()
}

// ShoppingListBuilt records a built shopping list
func (m *MetricsCollector) ShoppingListBuilt(lines int) {
	m.shoppingListsTotal.Inc()
	m.shoppingListLines.Observe(float64(lines))
}

// CatalogLoaded records the size of the loaded catalog
func (m *MetricsCollector) CatalogLoaded(recipes, ingredients int) {
	m.catalogRecipes.Set(float64(recipes))
	m.catalogIngredients.Set(float64(ingredients))
}

// CacheHit records a cache hit for the given object kind
func (m *MetricsCollector) CacheHit(object string) {
	m.cacheHitsTotal.WithLabelValues(object).Inc()
}

// CacheMiss records a cache miss for the given object kind
func (m *MetricsCollector) CacheMiss(object string) {
	m.cacheMissesTotal.WithLabelValues(object).Inc()
}

// Handler returns the Prometheus scrape handler
func (m *MetricsCollector) Handler() http.Handler {
	return promhttp.Handler()
}

// HTTPMiddleware instruments requests with count and duration metrics.
// The path label uses the route pattern, not the raw URL, to keep
// cardinality bounded.
func (m *MetricsCollector) HTTPMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(recorder, r)

		status := strconv.Itoa(recorder.status)
		path := routePattern(r)
		m.httpRequestsTotal.WithLabelValues(r.Method, path, status).Inc()
		m.httpRequestDuration.WithLabelValues(r.Method, path, status).Observe(time.Since(start).Seconds())
	})
}

// routePattern resolves the chi route pattern once routing has run;
// unmatched requests fall back to the raw path.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return r.URL.Path
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

var _ outbound.PlannerMetrics = (*MetricsCollector)(nil)
