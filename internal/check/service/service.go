// Package service orchestrates the check workflow for a staff user: deriving
// the configuration, validating answers and submitting built payloads to the
// verification provider exactly once.
package service

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"onboard/internal/check/configure"
	"onboard/internal/check/metrics"
	"onboard/internal/check/models"
	"onboard/internal/check/ports"
	"onboard/internal/check/validate"
)

const (
	tracerName = "onboard/internal/check/service"

	defaultSubmissionTTL = 10 * time.Minute
	dispatchTimeout      = 15 * time.Second
)

// Request carries everything one check operation needs.
type Request struct {
	ClientID  string
	Context   models.ClientContext
	Selection models.CheckSelection
	Answers   models.Answers
}

// ConfigureResult is the derived configuration with defaults applied to the selection.
type ConfigureResult struct {
	Selection     models.CheckSelection
	Configuration configure.Configuration
}

// ValidateResult pairs the validation outcome with the configuration it was checked against.
type ValidateResult struct {
	Configuration configure.Configuration
	Validation    models.ValidationResult
}

// SubmitResult reports whether a submission was accepted. Invalid answers
// are not an error: Accepted is false and Validation lists the violations.
type SubmitResult struct {
	Accepted    bool
	Validation  models.ValidationResult
	Payloads    []models.Payload
	Fingerprint string
}

// Service orchestrates configuration, validation and submission.
type Service struct {
	dispatcher ports.Dispatcher
	guard      ports.SubmissionGuard
	auditor    ports.AuditPort
	logger     *slog.Logger
	metrics    *metrics.Metrics
	tracer     trace.Tracer
	ttl        time.Duration
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(auditor ports.AuditPort) Option {
	return func(s *Service) {
		s.auditor = auditor
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tracer
	}
}

// WithSubmissionTTL sets how long a submitted check blocks identical resubmission.
func WithSubmissionTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// New constructs a Service.
func New(dispatcher ports.Dispatcher, guard ports.SubmissionGuard, opts ...Option) *Service {
	s := &Service{
		dispatcher: dispatcher,
		guard:      guard,
		logger:     slog.Default(),
		tracer:     otel.Tracer(tracerName),
		ttl:        defaultSubmissionTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Configure derives the configuration, applies defaults for every field the
// user has not overridden and re-derives against the defaulted selection.
func (s *Service) Configure(ctx context.Context, req Request) (*ConfigureResult, error) {
	ctx, span := s.startSpan(ctx, "check.Configure", req)
	defer span.End()

	cfg := configure.Derive(req.Context, req.Selection)
	sel := configure.ApplyDefaults(cfg, req.Selection)
	cfg = configure.Derive(req.Context, sel)

	s.metrics.IncrementConfiguration(string(cfg.CheckType), cfg.Degraded)
	if cfg.Degraded {
		s.logger.WarnContext(ctx, "client context is incomplete, configuration degraded",
			"client_id", req.ClientID,
			"entity_kind", string(req.Context.EntityKind),
		)
	}
	s.emitAudit(ctx, req, auditConfigured(cfg))

	return &ConfigureResult{Selection: sel, Configuration: cfg}, nil
}

// Validate checks the answers against the configuration for the selection.
func (s *Service) Validate(ctx context.Context, req Request) (*ValidateResult, error) {
	ctx, span := s.startSpan(ctx, "check.Validate", req)
	defer span.End()

	cfg := configure.Derive(req.Context, req.Selection)
	result := validate.WithConfiguration(cfg, req.Context, req.Selection, req.Answers)
	s.metrics.ObserveValidation(string(cfg.CheckType), result.Fields())

	return &ValidateResult{Configuration: cfg, Validation: result}, nil
}
