// Package metrics exposes Prometheus instruments for assessment runs.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels for AssessmentsTotal.
const (
	OutcomeReport    = "report"
	OutcomeEmergency = "emergency"
	OutcomeFailed    = "failed"
	OutcomeRejected  = "rejected"
)

// Pipeline holds the instruments the runner and handlers update. A nil
// *Pipeline is valid and records nothing.
type Pipeline struct {
	AssessmentsTotal *prometheus.CounterVec   // by outcome
	StageCallsTotal  *prometheus.CounterVec   // by stage and status
	StageDuration    *prometheus.HistogramVec // by stage
	SinkErrorsTotal  *prometheus.CounterVec   // by sink
}

// New creates and registers the instruments with reg.
func New(reg prometheus.Registerer) *Pipeline {
	p := &Pipeline{
		AssessmentsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "triage_assessments_total",
			Help: "Assessment requests by outcome",
		}, []string{"outcome"}),
		StageCallsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "triage_stage_calls_total",
			Help: "Model calls per pipeline stage by status",
		}, []string{"stage", "status"}),
		StageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "triage_stage_duration_seconds",
			Help:    "Latency of pipeline stage model calls",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 40, 60},
		}, []string{"stage"}),
		SinkErrorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "triage_sink_errors_total",
			Help: "Report sink write failures",
		}, []string{"sink"}),
	}

	reg.MustRegister(p.AssessmentsTotal, p.StageCallsTotal, p.StageDuration, p.SinkErrorsTotal)
	return p
}

func (p *Pipeline) ObserveStage(stage string, d time.Duration, err error) {
	if p == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	p.StageCallsTotal.WithLabelValues(stage, status).Inc()
	p.StageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *Pipeline) ObserveOutcome(outcome string) {
	if p == nil {
		return
	}
	p.AssessmentsTotal.WithLabelValues(outcome).Inc()
}

func (p *Pipeline) ObserveSinkError(sink string) {
	if p == nil {
		return
	}
	p.SinkErrorsTotal.WithLabelValues(sink).Inc()
}
