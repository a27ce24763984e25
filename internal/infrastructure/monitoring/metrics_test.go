package monitoring

import (
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"
)

// One collector per process: prometheus registration is global
var (
	collectorOnce sync.Once
	collector     *MetricsCollector
)

func testCollector(t *testing.T) *MetricsCollector {
	t.Helper()
	collectorOnce.Do(func() {
		collector = NewMetricsCollector(zaptest.NewLogger(t))
	})
	return collector
}

func TestMetricsCollector_PlanGenerated(t *testing.T) {
	m := testCollector(t)

	m.PlanGenerated("keto", 7, 2, 1, 150*time.Millisecond)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.plansGeneratedTotal.WithLabelValues("keto")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.planFlaggedDaysTotal.WithLabelValues("keto")))
}

func TestMetricsCollector_PlanRejected(t *testing.T) {
	m := testCollector(t)

	m.PlanRejected("no_candidates")
	m.PlanRejected("no_candidates")

	assert.Equal(t, float64(2), testutil.ToFloat64(m.plansRejectedTotal.WithLabelValues("no_candidates")))
}

func TestMetricsCollector_CatalogLoaded(t *testing.T) {
	m := testCollector(t)

	m.CatalogLoaded(120, 45)

	assert.Equal(t, float64(120), testutil.ToFloat64(m.catalogRecipes))
	assert.Equal(t, float64(45), testutil.ToFloat64(m.catalogIngredients))
}

func TestMetricsCollector_CacheCounters(t *testing.T) {
	m := testCollector(t)

	m.CacheHit("plan")
	m.CacheHit("plan")
	m.CacheMiss("shopping_list")

	assert.Equal(t, float64(2), testutil.ToFloat64(m.cacheHitsTotal.WithLabelValues("plan")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.cacheMissesTotal.WithLabelValues("shopping_list")))
}
