// SPDX-License-Identifier: MIT
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	streamChecksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "iptved_stream_checks_total",
		Help: "Stream liveness checks by classification",
	}, []string{"classification"}) // classification=REACHABLE|UNREACHABLE|INDETERMINATE

	streamCheckDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "iptved_stream_check_duration_seconds",
		Help:    "Wall-clock duration of stream liveness checks",
		Buckets: prometheus.DefBuckets,
	})

	logoChecksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "iptved_logo_checks_total",
		Help: "Logo reachability checks by outcome",
	}, []string{"outcome"}) // outcome=ok|fail|indeterminate|not_set

	probeQueueTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "iptved_probe_queue_total",
		Help: "Probe pool enqueue attempts by result",
	}, []string{"result"}) // result=accepted|dedup|dropped

	importRowsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "iptved_import_rows_total",
		Help: "Channel rows imported by source format",
	}, []string{"format"}) // format=bulk|m3u|project

	projectOpsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "iptved_project_ops_total",
		Help: "Project container operations by kind and outcome",
	}, []string{"op", "outcome"}) // op=save|load outcome=success|failure
)

// RecordStreamCheck records one stream check outcome and its duration.
func RecordStreamCheck(classification string, seconds float64) {
	streamChecksTotal.WithLabelValues(classification).Inc()
	streamCheckDuration.Observe(seconds)
}

// RecordLogoCheck records one logo check outcome.
func RecordLogoCheck(outcome string) {
	logoChecksTotal.WithLabelValues(outcome).Inc()
}

// IncProbeQueue records a probe pool enqueue result.
func IncProbeQueue(result string) {
	probeQueueTotal.WithLabelValues(result).Inc()
}

// RecordImportRows records the number of rows imported from a given format.
func RecordImportRows(format string, n int) {
	importRowsTotal.WithLabelValues(format).Add(float64(n))
}

// RecordProjectOp records a project save/load outcome.
func RecordProjectOp(op string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	projectOpsTotal.WithLabelValues(op, outcome).Inc()
}
