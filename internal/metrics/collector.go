// Package metrics exports ledger activity as Prometheus metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/brewops/brewops/internal/models"
	"github.com/brewops/brewops/internal/services/ledger"
)

// Collector owns a private registry and implements ledger.Observer.
type Collector struct {
	registry *prometheus.Registry

	stockMutations *prometheus.CounterVec
	brews          *prometheus.CounterVec
	alerts         prometheus.Counter
	lowStock       prometheus.Gauge
	reserved       *prometheus.GaugeVec
	available      *prometheus.GaugeVec

	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

var _ ledger.Observer = (*Collector)(nil)

// NewCollector creates a collector labelled with the brewery name.
func NewCollector(brewery string) *Collector {
	constLabels := prometheus.Labels{"brewery": brewery}

	c := &Collector{
		registry: prometheus.NewRegistry(),
		stockMutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "brewops_stock_mutations_total",
			Help:        "Stock quantity changes by journal action",
			ConstLabels: constLabels,
		}, []string{"action"}),
		brews: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "brewops_brews_total",
			Help:        "Brew executions by outcome",
			ConstLabels: constLabels,
		}, []string{"result"}),
		alerts: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "brewops_low_stock_alerts_total",
			Help:        "Low stock notifications raised",
			ConstLabels: constLabels,
		}),
		lowStock: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "brewops_low_stock_items",
			Help:        "Items whose available quantity is at or below the minimum level",
			ConstLabels: constLabels,
		}),
		reserved: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "brewops_reserved_quantity",
			Help:        "Quantity reserved by planned brews",
			ConstLabels: constLabels,
		}, []string{"item"}),
		available: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "brewops_available_quantity",
			Help:        "On-hand quantity minus reservations, floored at zero",
			ConstLabels: constLabels,
		}, []string{"item"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "brewops_http_requests_total",
			Help:        "API requests by route and status",
			ConstLabels: constLabels,
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "brewops_http_request_duration_seconds",
			Help:        "API request latency",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	c.registry.MustRegister(
		c.stockMutations,
		c.brews,
		c.alerts,
		c.lowStock,
		c.reserved,
		c.available,
		c.requests,
		c.requestDuration,
		collectors.NewGoCollector(),
	)

	return c
}

// Registry returns the collector's registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

func (c *Collector) StockMutated(action models.LogAction) {
	c.stockMutations.WithLabelValues(string(action)).Inc()
}

func (c *Collector) BrewAttempted(outcome string) {
	c.brews.WithLabelValues(outcome).Inc()
}

func (c *Collector) AlertsRaised(count int) {
	c.alerts.Add(float64(count))
}

// Recomputed replaces the per-item gauges so deleted items disappear.
func (c *Collector) Recomputed(views []models.InventoryView) {
	c.reserved.Reset()
	c.available.Reset()

	low := 0
	for _, v := range views {
		reserved, _ := v.Reserved.Float64()
		available, _ := v.Available.Float64()
		c.reserved.WithLabelValues(v.Item.Name).Set(reserved)
		c.available.WithLabelValues(v.Item.Name).Set(available)
		if v.Low {
			low++
		}
	}
	c.lowStock.Set(float64(low))
}

// ObserveRequest records one API request.
func (c *Collector) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	c.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.requestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
