package telemetry

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verone/backoffice/internal/domain/insight"
)

func newTestMetrics(t *testing.T) *Metrics {
	t.Helper()
	reg := prometheus.NewRegistry()
	m, err := NewMetricsWithRegistry(reg, reg)
	require.NoError(t, err)
	return m
}

func TestNewMetrics(t *testing.T) {
	m, err := NewMetrics()
	require.NoError(t, err)
	assert.NotNil(t, m.Handler())
}

func TestNewMetricsWithRegistry_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewMetricsWithRegistry(reg, reg)
	require.NoError(t, err)

	_, err = NewMetricsWithRegistry(reg, reg)
	assert.Error(t, err)
}

func TestMetrics_ObserveHTTP(t *testing.T) {
	m := newTestMetrics(t)

	m.ObserveHTTP(http.MethodGet, "/api/v1/contracts/:id", http.StatusOK, 20*time.Millisecond)
	m.ObserveHTTP(http.MethodGet, "/api/v1/contracts/:id", http.StatusOK, 30*time.Millisecond)
	m.ObserveHTTP(http.MethodDelete, "/api/v1/contracts/:id", http.StatusNotFound, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/api/v1/contracts/:id", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("DELETE", "/api/v1/contracts/:id", "404")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.httpDuration))
}

func TestMetrics_ObserveSummary(t *testing.T) {
	m := newTestMetrics(t)

	s := insight.NewBusinessSummary(time.Now())
	s.OrdersCount = 12
	s.RevenueTTC = decimal.RequireFromString("4560.50")
	s.TotalCommission = decimal.RequireFromString("310.25")
	s.OpenInvoicesAmount = decimal.RequireFromString("1200")
	s.ActiveCollections = 7
	s.ActiveContracts = 3
	m.ObserveSummary(s)

	assert.Equal(t, 12.0, testutil.ToFloat64(m.orders))
	assert.Equal(t, 4560.5, testutil.ToFloat64(m.revenueTTC))
	assert.Equal(t, 310.25, testutil.ToFloat64(m.commission))
	assert.Equal(t, 1200.0, testutil.ToFloat64(m.openInvoices))
	assert.Equal(t, 7.0, testutil.ToFloat64(m.activeCollections))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.activeContracts))
}

func TestMetrics_ObservePredictionRun(t *testing.T) {
	m := newTestMetrics(t)

	m.ObservePredictionRun(4, nil)
	m.ObservePredictionRun(0, errors.New("db down"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.predictionRuns.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.predictionRuns.WithLabelValues("failure")))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.predictions))
}

func TestMetrics_Handler(t *testing.T) {
	m := newTestMetrics(t)
	m.ObserveHTTP(http.MethodGet, "/health", http.StatusOK, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(body), `http_requests_total{method="GET",path="/health",status="200"} 1`)
	assert.Contains(t, string(body), "verone_prediction_runs_total")
}
