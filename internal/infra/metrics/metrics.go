package metrics

import (
	"net/http"

	"github.com/NasaVasa/pricebot/internal/domain"
	"github.com/NasaVasa/pricebot/internal/usecase"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "pricebot"

var (
	_ usecase.MonitorObserver   = (*Metrics)(nil)
	_ usecase.WatchlistObserver = (*Metrics)(nil)
)

type Metrics struct {
	registry *prometheus.Registry

	monitorRuns        *prometheus.CounterVec
	monitorDuration    prometheus.Histogram
	alertsEvaluated    prometheus.Counter
	alertsTriggered    *prometheus.CounterVec
	alertsMalformed    prometheus.Counter
	priceLookupFailed  *prometheus.CounterVec
	notificationFailed prometheus.Counter
	cacheHits          prometheus.Counter
	cacheMisses        prometheus.Counter
	refreshFailed      prometheus.Counter
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		monitorRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "monitor_runs_total",
			Help:      "Monitor runs by result.",
		}, []string{"result"}),
		monitorDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "monitor_run_duration_seconds",
			Help:      "Wall time of completed monitor runs.",
			Buckets:   prometheus.DefBuckets,
		}),
		alertsEvaluated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "alerts_evaluated_total",
			Help:      "Alerts evaluated against a fresh price.",
		}),
		alertsTriggered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "alerts_triggered_total",
			Help:      "Alerts that transitioned to triggered, by market.",
		}, []string{"market"}),
		alertsMalformed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "alerts_malformed_total",
			Help:      "Alerts skipped because their condition could not be evaluated.",
		}),
		priceLookupFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "price_lookup_failures_total",
			Help:      "Symbols whose price was unavailable during a monitor run.",
		}, []string{"symbol"}),
		notificationFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notification_failures_total",
			Help:      "Trigger notifications the transport failed to deliver.",
		}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "watchlist_cache_hits_total",
			Help:      "Watchlist items served from a fresh cached price.",
		}),
		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "watchlist_cache_misses_total",
			Help:      "Watchlist items whose cached price was stale.",
		}),
		refreshFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "watchlist_refresh_failures_total",
			Help:      "Stale watchlist items that could not be refreshed.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.monitorRuns,
		m.monitorDuration,
		m.alertsEvaluated,
		m.alertsTriggered,
		m.alertsMalformed,
		m.priceLookupFailed,
		m.notificationFailed,
		m.cacheHits,
		m.cacheMisses,
		m.refreshFailed,
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) PriceLookupFailed(symbol string) {
	m.priceLookupFailed.WithLabelValues(symbol).Inc()
}

func (m *Metrics) AlertTriggered(market domain.MarketType) {
	m.alertsTriggered.WithLabelValues(string(market)).Inc()
}

func (m *Metrics) NotificationFailed() {
	m.notificationFailed.Inc()
}

func (m *Metrics) RunCompleted(report usecase.RunReport) {
	if report.Skipped {
		m.monitorRuns.WithLabelValues("skipped").Inc()
		return
	}
	m.monitorRuns.WithLabelValues("completed").Inc()
	m.monitorDuration.Observe(report.Duration.Seconds())
	m.alertsEvaluated.Add(float64(report.Evaluated))
	m.alertsMalformed.Add(float64(report.Malformed))
}

func (m *Metrics) RunFailed() {
	m.monitorRuns.WithLabelValues("failed").Inc()
}

func (m *Metrics) CacheHit() {
	m.cacheHits.Inc()
}

func (m *Metrics) CacheMiss() {
	m.cacheMisses.Inc()
}

func (m *Metrics) RefreshFailed() {
	m.refreshFailed.Inc()
}
