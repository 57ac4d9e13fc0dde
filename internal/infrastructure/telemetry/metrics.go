package telemetry

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/verone/backoffice/internal/domain/insight"
)

const metricsNamespace = "verone"

// Metrics holds the Prometheus collectors of the service
type Metrics struct {
	gatherer prometheus.Gatherer

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	orders            prometheus.Gauge
	revenueTTC        prometheus.Gauge
	commission        prometheus.Gauge
	openInvoices      prometheus.Gauge
	activeCollections prometheus.Gauge
	activeContracts   prometheus.Gauge
	predictions       prometheus.Gauge
	predictionRuns    *prometheus.CounterVec
}

// NewMetrics registers the collectors on a fresh registry, together with
// the Go runtime and process collectors
func NewMetrics() (*Metrics, error) {
	reg := prometheus.NewRegistry()
	if err := reg.Register(collectors.NewGoCollector()); err != nil {
		return nil, err
	}
	if err := reg.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})); err != nil {
		return nil, err
	}
	return NewMetricsWithRegistry(reg, reg)
}

// NewMetricsWithRegistry registers the collectors on reg
func NewMetricsWithRegistry(reg prometheus.Registerer, gatherer prometheus.Gatherer) (*Metrics, error) {
	gauge := func(name, help string) prometheus.Gauge {
		return prometheus.NewGauge(prometheus.GaugeOpts{Namespace: metricsNamespace, Name: name, Help: help})
	}

	m := &Metrics{
		gatherer: gatherer,
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests processed.",
		}, []string{"method", "path", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		orders:            gauge("orders_30d", "LinkMe orders over the summary window."),
		revenueTTC:        gauge("revenue_ttc_30d_euros", "LinkMe revenue incl. VAT over the summary window."),
		commission:        gauge("commission_30d_euros", "Affiliate commission over the summary window."),
		openInvoices:      gauge("open_invoices_euros", "Outstanding amount of finalized and sent invoices."),
		activeCollections: gauge("active_collections", "Active product collections."),
		activeContracts:   gauge("active_contracts", "Rental contracts active today."),
		predictions:       gauge("predictions", "Predictions currently published."),
		predictionRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "prediction_runs_total",
			Help:      "Prediction runs by result.",
		}, []string{"result"}),
	}

	for _, c := range []prometheus.Collector{
		m.httpRequests, m.httpDuration,
		m.orders, m.revenueTTC, m.commission, m.openInvoices,
		m.activeCollections, m.activeContracts, m.predictions, m.predictionRuns,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// ObserveHTTP records one served request. path is the route pattern.
func (m *Metrics) ObserveHTTP(method, path string, status int, elapsed time.Duration) {
	m.httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}

// ObserveSummary publishes the business summary as gauges
func (m *Metrics) ObserveSummary(s insight.BusinessSummary) {
	m.orders.Set(float64(s.OrdersCount))
	m.revenueTTC.Set(s.RevenueTTC.InexactFloat64())
	m.commission.Set(s.TotalCommission.InexactFloat64())
	m.openInvoices.Set(s.OpenInvoicesAmount.InexactFloat64())
	m.activeCollections.Set(float64(s.ActiveCollections))
	m.activeContracts.Set(float64(s.ActiveContracts))
}

// ObservePredictionRun counts a run and the predictions it published
func (m *Metrics) ObservePredictionRun(published int, err error) {
	if err != nil {
		m.predictionRuns.WithLabelValues("failure").Inc()
		return
	}
	m.predictionRuns.WithLabelValues("success").Inc()
	m.predictions.Set(float64(published))
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
