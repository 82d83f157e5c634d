// Package metrics exposes Prometheus counters for whiteboard operations.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the whiteboard counters. A nil *Metrics is valid and records nothing.
type Metrics struct {
	boardFetches          *prometheus.CounterVec
	mutations             *prometheus.CounterVec
	staffFetchFailures    prometheus.Counter
	historyAppendFailures prometheus.Counter
	authAttempts          *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// New creates the counters and registers them with reg.
func New(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		boardFetches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "whiteboard_board_fetch_total",
				Help: "Board fetches by result (ok, failed).",
			},
			[]string{"result"},
		),
		mutations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "whiteboard_mutations_total",
				Help: "Board mutations by operation and outcome.",
			},
			[]string{"op", "outcome"},
		),
		staffFetchFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "whiteboard_staff_fetch_failures_total",
			Help: "Staff directory scans that failed.",
		}),
		historyAppendFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "whiteboard_history_append_failures_total",
			Help: "Assignment history appends that failed after the board entry was written.",
		}),
		authAttempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "whiteboard_auth_attempts_total",
				Help: "Sign-in attempts by method and status.",
			},
			[]string{"method", "status"},
		),
		gatherer: reg,
	}
	reg.MustRegister(m.boardFetches, m.mutations, m.staffFetchFailures, m.historyAppendFailures, m.authAttempts)
	return m
}

// BoardFetch records a board fetch.
func (m *Metrics) BoardFetch(ok bool) {
	if m == nil {
		return
	}
	result := "ok"
	if !ok {
		result = "failed"
	}
	m.boardFetches.WithLabelValues(result).Inc()
}

// Mutation records a board create or update outcome.
func (m *Metrics) Mutation(op, outcome string) {
	if m == nil {
		return
	}
	m.mutations.WithLabelValues(op, outcome).Inc()
}

// StaffFetchFailed records a failed staff scan.
func (m *Metrics) StaffFetchFailed() {
	if m == nil {
		return
	}
	m.staffFetchFailures.Inc()
}

// HistoryAppendFailed records a history append that failed after its board write.
func (m *Metrics) HistoryAppendFailed() {
	if m == nil {
		return
	}
	m.historyAppendFailures.Inc()
}

// AuthAttempt records a sign-in attempt.
func (m *Metrics) AuthAttempt(method string, success bool) {
	if m == nil {
		return
	}
	status := "success"
	if !success {
		status = "failure"
	}
	m.authAttempts.WithLabelValues(method, status).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
