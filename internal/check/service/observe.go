package service

import (
	"context"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"onboard/internal/audit"
	"onboard/internal/check/configure"
	"onboard/internal/check/models"
	"onboard/pkg/requestcontext"
)

func (s *Service) startSpan(ctx context.Context, name string, req Request) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, name, trace.WithAttributes(
		attribute.String("client.id", req.ClientID),
		attribute.String("client.entity_kind", string(req.Context.EntityKind)),
		attribute.String("check.type", string(req.Selection.CheckType)),
		attribute.String("request.id", requestcontext.RequestID(ctx)),
	))
}

type auditDetail struct {
	action    audit.Action
	checkType models.CheckType
	reference string
	detail    map[string]string
}

func auditConfigured(cfg configure.Configuration) auditDetail {
	return auditDetail{
		action:    audit.ActionCheckConfigured,
		checkType: cfg.CheckType,
		detail: map[string]string{
			"blocked":  strconv.FormatBool(cfg.Blocked),
			"degraded": strconv.FormatBool(cfg.Degraded),
		},
	}
}

func auditSubmitted(payloads []models.Payload) auditDetail {
	d := auditDetail{action: audit.ActionCheckSubmitted, detail: map[string]string{}}
	if len(payloads) > 0 {
		d.checkType = models.CheckType(payloads[0].Kind)
		d.reference = payloads[0].Reference
		d.detail["payloads"] = strconv.Itoa(len(payloads))
		d.detail["monitoring"] = strconv.FormatBool(payloads[0].Monitoring)
	}
	return d
}

func auditRejected(checkType models.CheckType, result models.ValidationResult) auditDetail {
	return auditDetail{
		action:    audit.ActionCheckRejected,
		checkType: checkType,
		detail: map[string]string{
			"violations": strings.Join(result.Fields(), ","),
		},
	}
}

// emitAudit records an audit event. Failures are logged, never returned.
func (s *Service) emitAudit(ctx context.Context, req Request, d auditDetail) {
	if s.auditor == nil {
		return
	}
	staff := requestcontext.Staff(ctx)
	err := s.auditor.Emit(ctx, audit.Event{
		Action:    d.action,
		RequestID: requestcontext.RequestID(ctx),
		StaffID:   staff.StaffID,
		FirmID:    staff.FirmID,
		ClientID:  req.ClientID,
		CheckType: string(d.checkType),
		Reference: d.reference,
		Detail:    d.detail,
		Timestamp: requestcontext.Now(ctx),
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to emit audit event",
			"action", string(d.action),
			"client_id", req.ClientID,
			"error", err,
		)
	}
}
