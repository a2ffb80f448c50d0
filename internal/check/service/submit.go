package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	"onboard/internal/check/configure"
	"onboard/internal/check/models"
	"onboard/internal/check/request"
	"onboard/internal/check/validate"
	dErrors "onboard/pkg/domain-errors"
	"onboard/pkg/platform/sentinel"
)

// Submit validates, builds and dispatches the check. Identical submissions
// for the same client are rejected with a conflict until the submission
// window expires. A failed dispatch releases the claim so the user can retry.
func (s *Service) Submit(ctx context.Context, req Request) (*SubmitResult, error) {
	ctx, span := s.startSpan(ctx, "check.Submit", req)
	defer span.End()

	cfg := configure.Derive(req.Context, req.Selection)
	result := validate.WithConfiguration(cfg, req.Context, req.Selection, req.Answers)
	s.metrics.ObserveValidation(string(cfg.CheckType), result.Fields())
	if !result.Valid() {
		s.metrics.IncrementSubmission("invalid")
		span.SetAttributes(attribute.Int("check.violations", len(result.Violations())))
		s.emitAudit(ctx, req, auditRejected(cfg.CheckType, result))
		return &SubmitResult{Validation: result}, nil
	}

	payloads, err := request.Build(req.Context, req.Selection, req.Answers)
	if err != nil {
		s.metrics.IncrementBuildError(buildErrorKind(err))
		s.metrics.IncrementSubmission("failed")
		span.RecordError(err)
		span.SetStatus(codes.Error, "build failed")
		s.logger.WarnContext(ctx, "check payload could not be built",
			"client_id", req.ClientID,
			"check_type", string(cfg.CheckType),
			"error", err,
		)
		return nil, err
	}
	for _, p := range payloads {
		s.metrics.IncrementPayloadBuilt(string(p.Kind))
	}

	fingerprint, err := Fingerprint(req.ClientID, payloads)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to fingerprint submission")
	}
	span.SetAttributes(attribute.String("check.fingerprint", fingerprint))

	claimed, err := s.guard.Claim(ctx, fingerprint, s.ttl)
	if err != nil {
		s.metrics.IncrementSubmission("failed")
		if errors.Is(err, sentinel.ErrUnavailable) {
			return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "submission guard unavailable")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to claim submission")
	}
	if !claimed {
		s.metrics.IncrementSubmission("duplicate")
		s.logger.InfoContext(ctx, "duplicate check submission rejected",
			"client_id", req.ClientID,
			"fingerprint", fingerprint,
		)
		return nil, dErrors.New(dErrors.CodeConflict, "this check has already been submitted")
	}

	if err := s.dispatchAndAudit(ctx, req, payloads); err != nil {
		if relErr := s.guard.Release(context.WithoutCancel(ctx), fingerprint); relErr != nil {
			s.logger.ErrorContext(ctx, "failed to release submission claim",
				"fingerprint", fingerprint,
				"error", relErr,
			)
		}
		s.metrics.IncrementSubmission("failed")
		span.RecordError(err)
		span.SetStatus(codes.Error, "dispatch failed")
		s.logger.ErrorContext(ctx, "check dispatch failed",
			"client_id", req.ClientID,
			"check_type", string(cfg.CheckType),
			"error", err,
		)
		if errors.Is(err, sentinel.ErrUnavailable) || errors.Is(err, context.DeadlineExceeded) {
			return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "verification provider unavailable, please retry")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to dispatch verification request")
	}

	s.metrics.IncrementSubmission("accepted")
	s.logger.InfoContext(ctx, "check submitted",
		"client_id", req.ClientID,
		"check_type", string(cfg.CheckType),
		"reference", payloads[0].Reference,
	)
	return &SubmitResult{
		Accepted:    true,
		Validation:  result,
		Payloads:    payloads,
		Fingerprint: fingerprint,
	}, nil
}

// dispatchAndAudit publishes the payloads and records the audit event in
// parallel. Only a dispatch failure fails the submission.
func (s *Service) dispatchAndAudit(ctx context.Context, req Request, payloads []models.Payload) error {
	ctx, cancel := context.WithTimeout(ctx, dispatchTimeout)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		start := time.Now()
		err := s.dispatcher.Dispatch(gctx, payloads)
		s.metrics.ObserveDispatchLatency(time.Since(start))
		return err
	})
	g.Go(func() error {
		s.emitAudit(gctx, req, auditSubmitted(payloads))
		return nil
	})
	return g.Wait()
}

// Fingerprint identifies a submission by client and payload content.
func Fingerprint(clientID string, payloads []models.Payload) (string, error) {
	body, err := json.Marshal(payloads)
	if err != nil {
		return "", err
	}
	h := sha256.New()
	h.Write([]byte(clientID))
	h.Write([]byte{0})
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil)), nil
}

func buildErrorKind(err error) string {
	switch {
	case errors.Is(err, request.ErrMissingLinkedRecord):
		return "missing_linked_record"
	case errors.Is(err, request.ErrUnresolvableDocumentReference):
		return "unresolvable_document_reference"
	case errors.Is(err, request.ErrInvalidAnswers):
		return "invalid_answers"
	case dErrors.HasCode(err, dErrors.CodeInternal):
		return "schema"
	default:
		return "other"
	}
}
