// Package validation orchestrates the four-layer product master validation
// engine: rules, standards, ai, and recon passes over an immutable batch,
// reduced into per-domain health scores.
//
// The engine is a pure function of (records, scan telemetry): it holds no
// state across calls and is safe for concurrent use on disjoint inputs.
package validation

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"shelfcheck/internal/validation/anomaly"
	"shelfcheck/internal/validation/metrics"
	"shelfcheck/internal/validation/models"
	"shelfcheck/internal/validation/recon"
	"shelfcheck/internal/validation/rules"
	"shelfcheck/internal/validation/scoring"
	"shelfcheck/internal/validation/standards"
	pkgerrors "shelfcheck/pkg/errors"
)

// RuleEngineInternal tags the synthetic finding emitted when a layer pass
// panics. The panic is still logged and counted; the finding only preserves
// the other layers' output, it never hides the defect.
const RuleEngineInternal = "E001"

// Pass is one validation layer. Layers are held as an ordered collection so
// new ones can be added without touching the aggregator; each receives the
// shared immutable batch and returns its findings.
type Pass interface {
	Layer() models.Layer
	Run(ctx context.Context, batch *models.Batch) []models.Validation
}

// Engine runs the layer passes and aggregates their findings into scores.
type Engine struct {
	passes     []Pass
	aggregator *scoring.Aggregator
	logger     *slog.Logger
	metrics    *metrics.Metrics
}

// Option configures the engine.
type Option func(*Engine)

// WithLogger attaches a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithMetrics attaches Prometheus instruments.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithPasses replaces the default layer set. Intended for tests.
func WithPasses(passes ...Pass) Option {
	return func(e *Engine) { e.passes = passes }
}

// NewEngine constructs the engine with the standard four layers.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		passes: []Pass{
			rules.New(),
			standards.New(),
			anomaly.New(),
			recon.New(),
		},
		aggregator: scoring.New(),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Validate runs every active layer over the batch and returns the findings
// plus the scores map. Malformed record fields never abort the batch; they
// were already degraded to absent during decoding and surface as findings
// where a rule covers them.
func (e *Engine) Validate(ctx context.Context, records []models.Record, scans map[string]models.ScanInfo) (*models.Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.CodeUnavailable, "validation aborted before start")
	}

	start := time.Now()
	batch := models.NewBatch(records, scans)

	active := make([]Pass, 0, len(e.passes))
	for _, p := range e.passes {
		if p.Layer() == models.LayerRecon && !batch.ReconActive() {
			continue
		}
		active = append(active, p)
	}

	// The passes only read the shared batch, so they fan out across
	// goroutines; results are merged and canonically sorted afterwards so
	// output order never depends on scheduling.
	results := make([][]models.Validation, len(active))
	g, gctx := errgroup.WithContext(ctx)
	for i, p := range active {
		g.Go(func() error {
			results[i] = e.runPass(gctx, p, batch)
			return nil
		})
	}
	// Passes convert their own failures into findings; Wait is for the fan-out
	// shape, not error collection.
	_ = g.Wait()

	var findings []models.Validation
	for _, r := range results {
		findings = append(findings, r...)
	}
	models.SortCanonical(findings)
	if findings == nil {
		findings = []models.Validation{}
	}

	for _, f := range findings {
		e.metrics.IncrementFinding(f.Layer.String(), string(f.Severity))
	}

	scores := e.aggregator.Scores(findings, batch.Len(), batch.ReconActive())
	report := &models.Report{
		RunID:       uuid.NewString(),
		RecordCount: batch.Len(),
		ReconActive: batch.ReconActive(),
		Validations: findings,
		Scores:      scores,
		GeneratedAt: time.Now().UTC(),
	}

	e.metrics.ObserveRun(batch.Len(), scores[models.DomainOverall].Score, time.Since(start))
	e.logger.InfoContext(ctx, "validation run complete",
		"run_id", report.RunID,
		"records", report.RecordCount,
		"findings", len(findings),
		"overall_score", scores[models.DomainOverall].Score,
		"recon_active", report.ReconActive,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return report, nil
}

// runPass isolates one layer so a defect inside it cannot corrupt the findings
// already produced by the other layers. A recovered panic becomes a single
// critical engine-internal finding tagging the offending layer.
func (e *Engine) runPass(ctx context.Context, p Pass, batch *models.Batch) (findings []models.Validation) {
	defer func() {
		if r := recover(); r != nil {
			layer := p.Layer()
			e.metrics.IncrementLayerPanic(layer.String())
			e.logger.ErrorContext(ctx, "validation layer panicked",
				"layer", layer,
				"panic", r,
				"records", batch.Len(),
				"stack", string(debug.Stack()),
			)
			findings = []models.Validation{{
				RuleID:    RuleEngineInternal,
				Layer:     layer,
				Severity:  models.SeverityCritical,
				Field:     "",
				RecordKey: "engine:" + layer.String(),
				Message:   fmt.Sprintf("%s layer failed internally; its findings for this run are incomplete", layer),
				Details:   map[string]any{"panic": fmt.Sprint(r)},
			}}
		}
	}()
	return p.Run(ctx, batch)
}
