package tracker

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Metrics bundles Prometheus collectors for one tracking run.
type Metrics struct {
	Registry         *prometheus.Registry
	FetchesTotal     *prometheus.CounterVec
	ExtractionsTotal *prometheus.CounterVec
	StoreWritesTotal *prometheus.CounterVec
	RunDuration      prometheus.Histogram
	LastPrice        prometheus.Gauge
}

// NewMetrics constructs and registers all metrics on a dedicated registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	fetches := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pricetrack_fetches_total",
			Help: "Product page fetches by outcome.",
		},
		[]string{"outcome"},
	)
	extractions := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pricetrack_extractions_total",
			Help: "Field extractions by outcome.",
		},
		[]string{"outcome"},
	)
	storeWrites := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pricetrack_store_writes_total",
			Help: "Observation appends by outcome.",
		},
		[]string{"outcome"},
	)
	runDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pricetrack_run_duration_seconds",
			Help:    "Wall-clock duration of a full tracking run.",
			Buckets: prometheus.DefBuckets,
		},
	)
	lastPrice := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "pricetrack_last_price",
			Help: "Most recently extracted price, zero when unknown.",
		},
	)

	registry.MustRegister(fetches, extractions, storeWrites, runDuration, lastPrice)

	return &Metrics{
		Registry:         registry,
		FetchesTotal:     fetches,
		ExtractionsTotal: extractions,
		StoreWritesTotal: storeWrites,
		RunDuration:      runDuration,
		LastPrice:        lastPrice,
	}
}

// IncFetch increments the fetch counter for an outcome label.
func (m *Metrics) IncFetch(outcome string) {
	if m == nil {
		return
	}
	m.FetchesTotal.WithLabelValues(outcome).Inc()
}

// IncExtraction increments the extraction counter for an outcome label.
func (m *Metrics) IncExtraction(outcome string) {
	if m == nil {
		return
	}
	m.ExtractionsTotal.WithLabelValues(outcome).Inc()
}

// IncStoreWrite increments the store write counter for an outcome label.
func (m *Metrics) IncStoreWrite(outcome string) {
	if m == nil {
		return
	}
	m.StoreWritesTotal.WithLabelValues(outcome).Inc()
}

// ObserveRunDuration records the duration of a full run.
func (m *Metrics) ObserveRunDuration(d time.Duration) {
	if m == nil {
		return
	}
	m.RunDuration.Observe(d.Seconds())
}

// SetLastPrice records the extracted price.
func (m *Metrics) SetLastPrice(price float64) {
	if m == nil {
		return
	}
	m.LastPrice.Set(price)
}

// Push delivers the registry to a Pushgateway. The process is too
// short-lived to be scraped, so push is the only delivery path.
func (m *Metrics) Push(gateway string) error {
	if m == nil || gateway == "" {
		return nil
	}
	return push.New(gateway, "price_tracker").Gatherer(m.Registry).Push()
}
