// Package metrics holds Prometheus instruments for record operations.  All
// collectors are registered with the global registry, so mounting
// promhttp.Handler() is enough to expose them on /metrics.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/yanizio/stockroom/internal/record"
)

// Outcome label values.
const (
	OutcomeOK             = "ok"
	OutcomeInvalidState   = "invalid_state"
	OutcomeNotFound       = "not_found"
	OutcomeStorageFailure = "storage_failure"
)

var (
	RecordOpsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "record_operations_total",
			Help: "Cumulative number of entity record operations by outcome.",
		}, []string{"entity", "op", "outcome"})

	RecordOpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "record_operation_duration_seconds",
			Help:    "Wall time of entity record operations, database round trip included.",
			Buckets: prometheus.DefBuckets,
		}, []string{"entity", "op"})
)

func init() {
	prometheus.MustRegister(
		RecordOpsTotal,
		RecordOpDuration,
	)
}

// ObserveRecordOp records one finished operation.  It never inspects or
// alters err beyond classifying it.
func ObserveRecordOp(entity, op string, start time.Time, err error) {
	RecordOpDuration.WithLabelValues(entity, op).Observe(time.Since(start).Seconds())
	RecordOpsTotal.WithLabelValues(entity, op, Outcome(err)).Inc()
}

// Outcome classifies err into one of the Outcome* label values.  Errors
// that are not record errors count as storage failures.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, record.ErrInvalidState):
		return OutcomeInvalidState
	case errors.Is(err, record.ErrNotFound):
		return OutcomeNotFound
	default:
		return OutcomeStorageFailure
	}
}
