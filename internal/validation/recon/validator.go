// Package recon implements the reconciliation layer: cross-checking product
// barcodes against warehouse and POS scan telemetry. The layer only runs when
// telemetry is supplied; without it the layer contributes nothing and is
// excluded from scoring rather than scored as perfect.
package recon

import (
	"context"
	"fmt"

	"shelfcheck/internal/validation/models"
)

const (
	RuleNeverWarehouseScanned = "X001"
	RuleNeverPOSScanned       = "X002"
	RuleHighManualKeyRate     = "X003"
	RuleLowScanSuccess        = "X004"
)

// Rates are fractions in [0,1]. Thresholds preserved for fixture
// compatibility.
const (
	maxManualKeyRate = 0.10
	minSuccessRate   = 0.80
)

// Validator is the recon layer. Stateless.
type Validator struct{}

// New constructs the reconciliation validator.
func New() *Validator {
	return &Validator{}
}

// Layer identifies this pass in findings and scoring.
func (v *Validator) Layer() models.Layer { return models.LayerRecon }

// Run cross-checks each barcoded record against telemetry. Records without a
// barcode are skipped entirely - nothing to reconcile is not a failure.
func (v *Validator) Run(ctx context.Context, batch *models.Batch) []models.Validation {
	if !batch.ReconActive() {
		return nil
	}

	var findings []models.Validation
	for i := 0; i < batch.Len(); i++ {
		r := batch.Record(i)
		if r.Barcode.IsBlank() {
			continue
		}
		bc := r.Barcode.String()
		key := batch.Key(i)

		info, scanned := batch.Scan(bc)
		if !scanned {
			// Telemetry supplied but this barcode never appears in it: the
			// product has not been seen by any scanner.
			findings = append(findings,
				neverScanned(RuleNeverWarehouseScanned, "warehouse", key, bc),
				neverScanned(RuleNeverPOSScanned, "pos", key, bc),
			)
			continue
		}

		source := info.Source()
		if !source.SeenAtWarehouse() {
			findings = append(findings, neverScanned(RuleNeverWarehouseScanned, "warehouse", key, bc))
		}
		if !source.SeenAtPOS() {
			findings = append(findings, neverScanned(RuleNeverPOSScanned, "pos", key, bc))
		}

		if rate, ok := info.ManualKeyRate.Float(); ok && rate >= maxManualKeyRate {
			findings = append(findings, finding(RuleHighManualKeyRate, models.SeverityHigh, "barcode", key,
				fmt.Sprintf("barcode %s is manually keyed %.0f%% of the time; label may be unreadable", bc, rate*100),
				map[string]any{"barcode": bc, "manual_key_rate": rate}))
		}
		if rate, ok := info.SuccessRate.Float(); ok && rate < minSuccessRate {
			findings = append(findings, finding(RuleLowScanSuccess, models.SeverityHigh, "barcode", key,
				fmt.Sprintf("barcode %s scans successfully only %.0f%% of the time; label quality issue", bc, rate*100),
				map[string]any{"barcode": bc, "success_rate": rate}))
		}
	}
	return findings
}

func neverScanned(ruleID, source, key, barcode string) models.Validation {
	return finding(ruleID, models.SeverityMedium, "barcode", key,
		fmt.Sprintf("barcode %s has never been scanned at a %s source", barcode, source),
		map[string]any{"barcode": barcode, "scan_source": source})
}

func finding(ruleID string, sev models.Severity, field, key, msg string, details map[string]any) models.Validation {
	return models.Validation{
		RuleID:    ruleID,
		Layer:     models.LayerRecon,
		Severity:  sev,
		Field:     field,
		RecordKey: key,
		Message:   msg,
		Details:   details,
	}
}
