// Package metrics provides centralized Prometheus metrics registry for the pipeline.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	RunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "spreadline",
		Name:      "runs_total",
		Help:      "Total number of pipeline runs by kind and outcome",
	}, []string{"kind", "outcome"})
	GamesUpsertedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "spreadline",
		Name:      "games_upserted_total",
		Help:      "Total number of games inserted or refreshed from the provider",
	})
	OddsSnapshotsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "spreadline",
		Name:      "odds_snapshots_total",
		Help:      "Total number of odds snapshots written",
	})
	BetsGradedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "spreadline",
		Name:      "bets_graded_total",
		Help:      "Total number of bets graded by result",
	}, []string{"result"})
	BetsPlacedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "spreadline",
		Name:      "bets_placed_total",
		Help:      "Total number of bets placed",
	})
	RecordsSkippedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "spreadline",
		Name:      "records_skipped_total",
		Help:      "Total number of provider records skipped by reason",
	}, []string{"reason"})
	FetchErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "spreadline",
		Name:      "fetch_errors_total",
		Help:      "Total number of provider fetch failures by endpoint",
	}, []string{"endpoint"})
)

// Gauge metrics
var (
	PendingBets = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "spreadline",
		Name:      "pending_bets",
		Help:      "Number of bets awaiting grading",
	})
	CacheHitRatio = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "spreadline",
		Name:      "cache_hit_ratio",
		Help:      "Aggregate cache hit ratio since start",
	})
	LastRunTimestamp = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "spreadline",
		Name:      "last_run_timestamp_seconds",
		Help:      "Unix time of the last completed run by kind",
	}, []string{"kind"})
)

// Histogram metrics
var (
	RunDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "spreadline",
		Name:      "run_duration_seconds",
		Help:      "Duration of pipeline runs in seconds",
		Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
	}, []string{"kind"})
	ProviderRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "spreadline",
		Name:      "provider_request_duration_seconds",
		Help:      "Duration of odds provider HTTP requests in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"endpoint"})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		// Register counter metrics
		registry.MustRegister(RunsTotal)
		registry.MustRegister(GamesUpsertedTotal)
		registry.MustRegister(OddsSnapshotsTotal)
		registry.MustRegister(BetsGradedTotal)
		registry.MustRegister(BetsPlacedTotal)
		registry.MustRegister(RecordsSkippedTotal)
		registry.MustRegister(FetchErrorsTotal)

		// Register gauge metrics
		registry.MustRegister(PendingBets)
		registry.MustRegister(CacheHitRatio)
		registry.MustRegister(LastRunTimestamp)

		// Register histogram metrics
		registry.MustRegister(RunDuration)
		registry.MustRegister(ProviderRequestDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordRun records the outcome and duration of a pipeline run.
func RecordRun(kind, outcome string, durationSeconds float64) {
	RunsTotal.WithLabelValues(kind, outcome).Inc()
	RunDuration.WithLabelValues(kind).Observe(durationSeconds)
	if outcome == "success" {
		LastRunTimestamp.WithLabelValues(kind).SetToCurrentTime()
	}
}

// RecordGamesUpserted records games written during an odds run.
func RecordGamesUpserted(count int) {
	GamesUpsertedTotal.Add(float64(count))
}

// RecordOddsSnapshots records odds snapshots written during an odds run.
func RecordOddsSnapshots(count int) {
	OddsSnapshotsTotal.Add(float64(count))
}

// RecordBetGraded records a single graded bet by result.
func RecordBetGraded(result string) {
	BetsGradedTotal.WithLabelValues(result).Inc()
}

// RecordBetPlaced records a bet placement event.
func RecordBetPlaced() {
	BetsPlacedTotal.Inc()
}

// RecordSkipped records a provider record skipped for the given reason.
func RecordSkipped(reason string) {
	RecordsSkippedTotal.WithLabelValues(reason).Inc()
}

// RecordFetchError records a provider fetch failure for an endpoint.
func RecordFetchError(endpoint string) {
	FetchErrorsTotal.WithLabelValues(endpoint).Inc()
}

// RecordProviderRequest records the latency of one provider request.
func RecordProviderRequest(endpoint string, durationSeconds float64) {
	ProviderRequestDuration.WithLabelValues(endpoint).Observe(durationSeconds)
}

// UpdatePendingBets updates the pending bets gauge.
func UpdatePendingBets(count float64) {
	PendingBets.Set(count)
}
