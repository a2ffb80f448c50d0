package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"onboard/internal/check/service"
	dErrors "onboard/pkg/domain-errors"
	"onboard/pkg/platform/httputil"
	"onboard/pkg/requestcontext"
)

// Service defines the interface for check operations.
type Service interface {
	Configure(ctx context.Context, req service.Request) (*service.ConfigureResult, error)
	Validate(ctx context.Context, req service.Request) (*service.ValidateResult, error)
	Submit(ctx context.Context, req service.Request) (*service.SubmitResult, error)
}

// Handler wires check endpoints to the check service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a check handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts check endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/checks/configure", h.HandleConfigure)
	r.Post("/checks/validate", h.HandleValidate)
	r.Post("/checks/submit", h.HandleSubmit)
}

// HandleConfigure handles POST /checks/configure requests.
func (h *Handler) HandleConfigure(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := h.prepare(w, r)
	if !ok {
		return
	}

	result, err := h.service.Configure(ctx, req.ToServiceRequest())
	if err != nil {
		h.logger.ErrorContext(ctx, "check configuration failed",
			"request_id", requestID,
			"client_id", req.ClientID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromConfigureResult(result))
}

// HandleValidate handles POST /checks/validate requests.
func (h *Handler) HandleValidate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := h.prepare(w, r)
	if !ok {
		return
	}

	result, err := h.service.Validate(ctx, req.ToServiceRequest())
	if err != nil {
		h.logger.ErrorContext(ctx, "check validation failed",
			"request_id", requestID,
			"client_id", req.ClientID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromValidateResult(result))
}

// HandleSubmit handles POST /checks/submit requests.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := h.prepare(w, r)
	if !ok {
		return
	}

	result, err := h.service.Submit(ctx, req.ToServiceRequest())
	if err != nil {
		h.logger.ErrorContext(ctx, "check submission failed",
			"request_id", requestID,
			"client_id", req.ClientID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	if !result.Accepted {
		h.logger.InfoContext(ctx, "check submission rejected",
			"request_id", requestID,
			"client_id", req.ClientID,
			"violations", len(result.Validation.Violations()),
		)
		httputil.WriteJSON(w, http.StatusUnprocessableEntity, RejectedResponse{
			Error:      string(dErrors.CodeValidation),
			Violations: nonNil(result.Validation.Violations()),
		})
		return
	}

	h.logger.InfoContext(ctx, "check submitted",
		"request_id", requestID,
		"client_id", req.ClientID,
		"staff_id", requestcontext.Staff(ctx).StaffID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusAccepted, FromSubmitResult(result))
}

// prepare requires an authenticated staff member, then decodes and validates the body.
func (h *Handler) prepare(w http.ResponseWriter, r *http.Request) (*CheckRequest, bool) {
	ctx := r.Context()
	if requestcontext.Staff(ctx).IsZero() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return nil, false
	}
	return httputil.DecodeAndPrepare[CheckRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
}
