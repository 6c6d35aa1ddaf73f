package observability

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	workoutsRecorded = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "workoutlog",
		Subsystem: "log",
		Name:      "workouts_recorded_total",
		Help:      "Number of workouts appended to the log, by type.",
	}, []string{"type"})

	validationFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "workoutlog",
		Subsystem: "log",
		Name:      "validation_failures_total",
		Help:      "Number of rejected form submissions, by submitted type.",
	}, []string{"type"})

	selections = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "workoutlog",
		Subsystem: "log",
		Name:      "selections_total",
		Help:      "Number of times a logged workout was selected.",
	})

	persistenceErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "workoutlog",
		Subsystem: "persistence",
		Name:      "errors_total",
		Help:      "Number of failed key-value store operations, by operation.",
	}, []string{"op"})

	lastRecordedGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "workoutlog",
		Subsystem: "log",
		Name:      "last_workout_recorded_timestamp_seconds",
		Help:      "Unix timestamp of the most recently recorded workout.",
	})
)

func init() {
	prometheus.MustRegister(workoutsRecorded, validationFailures, selections, persistenceErrors, lastRecordedGauge)
}

// RecordWorkoutRecorded counts an appended workout and moves the watermark gauge.
func RecordWorkoutRecorded(kind string, ts time.Time) {
	workoutsRecorded.WithLabelValues(kind).Inc()
	if ts.IsZero() {
		return
	}
	lastRecordedGauge.Set(float64(ts.Unix()))
}

// RecordValidationFailure counts a rejected submission. Unknown types are
// folded into one label to keep cardinality bounded.
func RecordValidationFailure(kind string) {
	kind = strings.ToLower(strings.TrimSpace(kind))
	switch kind {
	case "running", "cycling":
	default:
		kind = "unknown"
	}
	validationFailures.WithLabelValues(kind).Inc()
}

// RecordSelection counts a workout selection.
func RecordSelection() {
	selections.Inc()
}

// RecordPersistenceError counts a failed store operation.
func RecordPersistenceError(op string) {
	persistenceErrors.WithLabelValues(op).Inc()
}
