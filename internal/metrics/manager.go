package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Manager struct {
	// counters
	CounterStorageWrites   *prometheus.CounterVec
	CounterQuotaExceeded   prometheus.Counter
	CounterExternalRefresh *prometheus.CounterVec
	CounterAIRequests      *prometheus.CounterVec
	CounterBotUpdates      *prometheus.CounterVec
	CounterCalorieGoalsHit prometheus.Counter

	// gauges
	GaugeStreak prometheus.Gauge

	// histograms
	HistAIDuration *prometheus.HistogramVec

	gatherer prometheus.Gatherer
}

func NewTestManager() *Manager {
	return NewManager("reprocket", "test", prometheus.NewRegistry())
}

func NewTestManagerAndRegistry() (*Manager, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return NewManager("reprocket", "test", reg), reg
}

func NewManager(namespace, subsystem string, reg *prometheus.Registry) *Manager {
	factory := promauto.With(reg)

	return &Manager{
		CounterStorageWrites: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "storage_writes",
			Help:      "Collection writes by key and outcome",
		}, []string{"key", "status"}),
		CounterQuotaExceeded: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "storage_quota_exceeded",
			Help:      "Writes rejected because storage is full",
		}),
		CounterExternalRefresh: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "external_refreshes",
			Help:      "Collections reloaded after a write from another instance",
		}, []string{"key"}),
		CounterAIRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "ai_requests",
			Help:      "AI collaborator calls by provider, kind and outcome",
		}, []string{"provider", "kind", "status"}),
		CounterBotUpdates: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "bot_updates",
			Help:      "Telegram updates handled by kind",
		}, []string{"kind"}),
		CounterCalorieGoalsHit: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "calorie_goals_reached",
			Help:      "Days on which intake crossed the calorie goal",
		}),
		GaugeStreak: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "current_streak",
			Help:      "Current workout streak in days",
		}),
		HistAIDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "ai_request_duration_seconds",
			Help:      "Latency of AI collaborator calls",
			Buckets:   []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32},
		}, []string{"provider", "kind"}),
		gatherer: reg,
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
