package observability

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Registry holds every metric of a seeding run. A batch job has no scrape
// endpoint, so the registry is pushed to a Pushgateway at exit instead.
var Registry = prometheus.NewRegistry()

var (
	AIRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_requests_total",
			Help: "Total number of AI requests by provider and operation",
		},
		[]string{"provider", "operation"},
	)
	AIRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ai_request_duration_seconds",
			Help:    "AI request duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
		[]string{"provider", "operation"},
	)

	VectorRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vector_requests_total",
			Help: "Total number of vector index requests by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)
	VectorRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vector_request_duration_seconds",
			Help:    "Vector index request duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"operation"},
	)

	RecordsEmbeddedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "seed_records_embedded_total",
			Help: "Total number of review records embedded",
		},
	)
	ItemsUpsertedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "seed_items_upserted_total",
			Help: "Total number of items the index reported as upserted",
		},
	)
	StageFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "seed_stage_failures_total",
			Help: "Total number of pipeline stage failures by stage and severity",
		},
		[]string{"stage", "severity"},
	)
	LastRunTimestamp = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "seed_last_run_timestamp_seconds",
			Help: "Unix time of the last finished seeding run by outcome",
		},
		[]string{"outcome"},
	)
)

var initOnce sync.Once

// InitMetrics registers all collectors on Registry; safe to call more than once.
func InitMetrics() {
	initOnce.Do(func() {
		Registry.MustRegister(AIRequestsTotal)
		Registry.MustRegister(AIRequestDuration)
		Registry.MustRegister(VectorRequestsTotal)
		Registry.MustRegister(VectorRequestDuration)
		Registry.MustRegister(RecordsEmbeddedTotal)
		Registry.MustRegister(ItemsUpsertedTotal)
		Registry.MustRegister(StageFailuresTotal)
		Registry.MustRegister(LastRunTimestamp)
	})
}

// ObserveVectorRequest records one vector index call.
func ObserveVectorRequest(operation string, start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	VectorRequestsTotal.WithLabelValues(operation, outcome).Inc()
	VectorRequestDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

// FailStage counts a stage failure; severity is "fatal" or "recovered".
func FailStage(stage, severity string) {
	StageFailuresTotal.WithLabelValues(stage, severity).Inc()
}

// MarkRunFinished stamps the end of a run.
func MarkRunFinished(success bool) {
	outcome := "success"
	if !success {
		outcome = "failure"
	}
	LastRunTimestamp.WithLabelValues(outcome).SetToCurrentTime()
}

// PushMetrics sends Registry to the Pushgateway at url under the given job name.
func PushMetrics(ctx context.Context, url, job string) error {
	if url == "" {
		return nil
	}
	if err := push.New(url, job).Gatherer(Registry).PushContext(ctx); err != nil {
		return fmt.Errorf("op=observability.PushMetrics: %w", err)
	}
	return nil
}
