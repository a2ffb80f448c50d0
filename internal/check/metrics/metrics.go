package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the check module. All methods are
// safe on a nil receiver.
type Metrics struct {
	// Configurations derived by check type and degraded flag
	ConfigurationsDerived *prometheus.CounterVec

	// Validation outcomes by check type and result
	ValidationOutcome *prometheus.CounterVec

	// Violations by field
	Violations *prometheus.CounterVec

	// Payloads built by kind
	PayloadsBuilt *prometheus.CounterVec

	// Build failures by kind
	BuildErrors *prometheus.CounterVec

	// Submissions by outcome: accepted, invalid, duplicate, failed
	Submissions *prometheus.CounterVec

	DispatchLatency prometheus.Histogram
}

// New creates the check metrics on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		ConfigurationsDerived: f.NewCounterVec(prometheus.CounterOpts{
			Name: "onboard_check_configurations_total",
			Help: "Check configurations derived by check type",
		}, []string{"check_type", "degraded"}),

		ValidationOutcome: f.NewCounterVec(prometheus.CounterOpts{
			Name: "onboard_check_validations_total",
			Help: "Validation outcomes by check type",
		}, []string{"check_type", "outcome"}),

		Violations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "onboard_check_violations_total",
			Help: "Validation violations by field",
		}, []string{"field"}),

		PayloadsBuilt: f.NewCounterVec(prometheus.CounterOpts{
			Name: "onboard_check_payloads_built_total",
			Help: "Outbound payloads built by kind",
		}, []string{"kind"}),

		BuildErrors: f.NewCounterVec(prometheus.CounterOpts{
			Name: "onboard_check_build_errors_total",
			Help: "Request build failures by kind",
		}, []string{"kind"}),

		Submissions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "onboard_check_submissions_total",
			Help: "Check submissions by outcome",
		}, []string{"outcome"}),

		DispatchLatency: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "onboard_check_dispatch_duration_seconds",
			Help:    "Duration of dispatching payloads to the provider",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
	}
}

func (m *Metrics) IncrementConfiguration(checkType string, degraded bool) {
	if m != nil {
		d := "false"
		if degraded {
			d = "true"
		}
		m.ConfigurationsDerived.WithLabelValues(checkType, d).Inc()
	}
}

// ObserveValidation records an outcome and one increment per violated field.
func (m *Metrics) ObserveValidation(checkType string, fields []string) {
	if m == nil {
		return
	}
	outcome := "valid"
	if len(fields) > 0 {
		outcome = "invalid"
	}
	m.ValidationOutcome.WithLabelValues(checkType, outcome).Inc()
	for _, f := range fields {
		m.Violations.WithLabelValues(f).Inc()
	}
}

func (m *Metrics) IncrementPayloadBuilt(kind string) {
	if m != nil {
		m.PayloadsBuilt.WithLabelValues(kind).Inc()
	}
}

func (m *Metrics) IncrementBuildError(kind string) {
	if m != nil {
		m.BuildErrors.WithLabelValues(kind).Inc()
	}
}

func (m *Metrics) IncrementSubmission(outcome string) {
	if m != nil {
		m.Submissions.WithLabelValues(outcome).Inc()
	}
}

func (m *Metrics) ObserveDispatchLatency(d time.Duration) {
	if m != nil {
		m.DispatchLatency.Observe(d.Seconds())
	}
}
