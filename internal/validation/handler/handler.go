// Package handler wires the validation engine to HTTP. The handler stays
// thin: decode, enforce the batch cap, run the engine, publish severe
// findings, encode.
package handler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"shelfcheck/internal/validation/models"
	pkgerrors "shelfcheck/pkg/errors"
	"shelfcheck/pkg/platform/findings"
	"shelfcheck/pkg/platform/httputil"
	"shelfcheck/pkg/requestcontext"
)

// Service defines the engine operation the handler depends on.
type Service interface {
	Validate(ctx context.Context, records []models.Record, scans map[string]models.ScanInfo) (*models.Report, error)
}

// Handler serves the validation endpoints.
type Handler struct {
	service           Service
	publisher         findings.Publisher
	severityThreshold models.Severity
	maxBatchSize      int
	logger            *slog.Logger
}

// Option configures the handler.
type Option func(*Handler)

// WithPublisher attaches the findings publisher. Default is a nop.
func WithPublisher(p findings.Publisher, threshold models.Severity) Option {
	return func(h *Handler) {
		h.publisher = p
		h.severityThreshold = threshold
	}
}

// WithLogger attaches a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) { h.logger = logger }
}

// New constructs the validation handler.
func New(service Service, maxBatchSize int, opts ...Option) (*Handler, error) {
	if service == nil {
		return nil, fmt.Errorf("validation service is required")
	}
	h := &Handler{
		service:           service,
		publisher:         findings.Nop{},
		severityThreshold: models.SeverityHigh,
		maxBatchSize:      maxBatchSize,
		logger:            slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

// Register mounts validation endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/validate", h.HandleValidate)
}

// HandleValidate handles POST /validate requests.
func (h *Handler) HandleValidate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, err := httputil.Decode[ValidateRequest](r)
	if err != nil {
		h.logger.WarnContext(ctx, "rejected validate request",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	// The duplicate-description pass is O(n^2); the cap is the explicit,
	// reported guard around it. Oversized batches are rejected, never
	// silently truncated.
	if h.maxBatchSize > 0 && len(req.Records) > h.maxBatchSize {
		httputil.WriteError(w, pkgerrors.New(pkgerrors.CodeBadRequest,
			fmt.Sprintf("batch of %d records exceeds the maximum of %d", len(req.Records), h.maxBatchSize)))
		return
	}

	report, err := h.service.Validate(ctx, req.Records, req.ScanData)
	if err != nil {
		h.logger.ErrorContext(ctx, "validation run failed",
			"request_id", requestID,
			"records", len(req.Records),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.publishSevere(ctx, report)

	h.logger.InfoContext(ctx, "validate request served",
		"request_id", requestID,
		"run_id", report.RunID,
		"records", report.RecordCount,
		"findings", len(report.Validations),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, FromReport(report))
}

// publishSevere forwards findings at or above the severity threshold to the
// issue-tracking topic. Publishing is best-effort: a broker outage must not
// fail a validation response the caller already paid for.
func (h *Handler) publishSevere(ctx context.Context, report *models.Report) {
	var events []findings.Event
	for _, v := range report.Validations {
		if !v.Severity.AtLeast(h.severityThreshold) {
			continue
		}
		events = append(events, findings.Event{
			RunID:      report.RunID,
			RuleID:     v.RuleID,
			Layer:      v.Layer.String(),
			Severity:   string(v.Severity),
			Field:      v.Field,
			RecordKey:  v.RecordKey,
			Message:    v.Message,
			Details:    v.Details,
			OccurredAt: report.GeneratedAt,
		})
	}
	if len(events) == 0 {
		return
	}
	if err := h.publisher.Publish(ctx, events); err != nil {
		h.logger.ErrorContext(ctx, "failed to publish findings",
			"run_id", report.RunID,
			"count", len(events),
			"error", err,
		)
	}
}
