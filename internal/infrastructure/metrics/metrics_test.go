package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"furnicost/internal/domain/costing"
)

func TestObserveCalculation(t *testing.T) {
	m := New()

	m.ObserveCalculation("inline", costing.Result{}, time.Millisecond)
	m.ObserveCalculation("catalog", costing.Result{HasErrors: true, SkippedPaintJobs: []string{"r1", "r2"}}, time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.calculations.WithLabelValues("inline")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.calculations.WithLabelValues("catalog")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.incomplete.WithLabelValues("catalog")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.incomplete.WithLabelValues("inline")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.skippedJobs))
}

func TestObserveHTTPAndImport(t *testing.T) {
	m := New()

	m.ObserveHTTP("GET", "", 404, time.Millisecond)
	m.ObserveHTTP("POST", "/api/v1/pricing/quote", 200, time.Millisecond)
	m.ObserveImport("created", 3)
	m.ObserveImport("failed", 0)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "unmatched", "404")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("POST", "/api/v1/pricing/quote", "200")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.importedRows.WithLabelValues("created")))
}

func TestHandlerExposesPoolGauges(t *testing.T) {
	m := New()
	m.RegisterPool(func() (int32, int32, int32) { return 10, 4, 6 })
	m.ObserveCalculation("inline", costing.Result{}, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "furnicost_db_pool_acquired_conns 4"))
	assert.True(t, strings.Contains(body, `furnicost_costing_calculations_total{source="inline"} 1`))
}
