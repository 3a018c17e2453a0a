package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// StorefrontMetrics records checkout and catalog health figures.
type StorefrontMetrics struct {
	checkoutDuration *prometheus.HistogramVec
	checkoutOutcomes *prometheus.CounterVec
	refreshDuration  prometheus.Histogram
	catalogSize      prometheus.Gauge
}

// NewStorefrontMetrics registers the storefront metrics on the provided registerer.
func NewStorefrontMetrics(reg prometheus.Registerer) *StorefrontMetrics {
	if reg == nil {
		return &StorefrontMetrics{}
	}
	checkoutDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "checkout_duration_seconds",
		Help:    "Duration of order submissions in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	checkoutOutcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_submissions_total",
		Help: "Order submissions by outcome.",
	}, []string{"outcome"})
	refreshDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "catalog_refresh_duration_seconds",
		Help:    "Duration of catalog refreshes in seconds.",
		Buckets: prometheus.DefBuckets,
	})
	catalogSize := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "catalog_products",
		Help: "Products in the loaded catalog snapshot.",
	})
	reg.MustRegister(checkoutDuration, checkoutOutcomes, refreshDuration, catalogSize)
	return &StorefrontMetrics{
		checkoutDuration: checkoutDuration,
		checkoutOutcomes: checkoutOutcomes,
		refreshDuration:  refreshDuration,
		catalogSize:      catalogSize,
	}
}

// ObserveCheckout records one submission attempt with its outcome.
func (m *StorefrontMetrics) ObserveCheckout(outcome string, duration time.Duration) {
	if m == nil || m.checkoutDuration == nil {
		return
	}
	label := normalizeLabel(outcome)
	m.checkoutDuration.WithLabelValues(label).Observe(duration.Seconds())
	m.checkoutOutcomes.WithLabelValues(label).Inc()
}

// ObserveCatalogRefresh records a refresh duration and the resulting snapshot size.
func (m *StorefrontMetrics) ObserveCatalogRefresh(duration time.Duration, products int) {
	if m == nil || m.refreshDuration == nil {
		return
	}
	m.refreshDuration.Observe(duration.Seconds())
	m.catalogSize.Set(float64(products))
}

func normalizeLabel(outcome string) string {
	if outcome == "" {
		return "unknown"
	}
	return outcome
}
