package metrics

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"tradeJournal/internal/analytics"
	"tradeJournal/internal/app"
)

const namespace = "journal"

// Collector is an app.Observer that exports journal state as Prometheus metrics.
// Each Collector owns its registry.
type Collector struct {
	registry *prometheus.Registry

	changes      *prometheus.CounterVec
	activeTrades prometheus.Gauge
	closedTrades prometheus.Gauge
	winRate      prometheus.Gauge
	profitFactor prometheus.Gauge
	netResult    prometheus.Gauge
}

// NewCollector creates a collector with a fresh registry.
func NewCollector() *Collector {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Collector{
		registry: reg,
		changes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "changes_total",
				Help:      "Total number of journal changes by kind",
			},
			[]string{"kind"},
		),
		activeTrades: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_trades",
			Help:      "Number of open trades",
		}),
		closedTrades: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "closed_trades",
			Help:      "Number of closed trades",
		}),
		winRate: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "win_rate",
			Help:      "Share of closed trades with a positive result (0-1)",
		}),
		profitFactor: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "profit_factor",
			Help:      "Gross profit divided by gross loss, +Inf without losses",
		}),
		netResult: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "net_result",
			Help:      "Gross profit minus gross loss in account currency",
		}),
	}
}

var _ app.Observer = (*Collector)(nil)

// OnChange updates counters and gauges from the post-change snapshot.
func (c *Collector) OnChange(_ context.Context, change app.Change) {
	c.changes.WithLabelValues(string(change.Kind)).Inc()
	c.activeTrades.Set(float64(len(change.Snapshot.Active)))
	c.closedTrades.Set(float64(len(change.Snapshot.Closed)))

	summary := analytics.Summarize(change.Snapshot.Closed)
	c.winRate.Set(summary.WinRate)
	c.profitFactor.Set(summary.ProfitFactor)
	c.netResult.Set(summary.GrossProfit.Sub(summary.GrossLoss).InexactFloat64())
}

// Registry exposes the underlying registry, mainly for tests.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the collector's metrics in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
