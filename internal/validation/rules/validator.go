// Package rules implements the rules layer: exact, deterministic correctness
// checks over product master records. Findings here are hard defects, not
// style opinions - an invalid check digit is wrong no matter the retailer.
package rules

import (
	"context"
	"fmt"

	"shelfcheck/internal/validation/models"
)

// Rule IDs are stable short codes consumed by downstream remediation tooling.
const (
	RuleInvalidPLU       = "R001"
	RuleInvalidBarcode   = "R002"
	RuleMissingDesc      = "R003"
	RuleDuplicatePLU     = "R004"
	RuleDuplicateBarcode = "R005"
	RuleMissingRetail    = "R006"
	RuleNegativeMargin   = "R007"
	RuleMissingCategory  = "R008"
	RuleInvalidUOM       = "R009"
)

// allowedUOMs is the fixed unit-of-measure vocabulary for the product master.
var allowedUOMs = map[string]bool{
	"ea": true, "each": true, "kg": true, "g": true, "l": true,
	"ml": true, "pack": true, "bunch": true, "punnet": true, "dozen": true,
}

// Validator is the rules layer. It is stateless; duplicate tracking is built
// fresh inside each Run so concurrent calls never share bookkeeping.
type Validator struct{}

// New constructs the rules layer validator.
func New() *Validator {
	return &Validator{}
}

// Layer identifies this pass in findings and scoring.
func (v *Validator) Layer() models.Layer { return models.LayerRules }

// Run checks every record and emits one finding per violation per record.
func (v *Validator) Run(ctx context.Context, batch *models.Batch) []models.Validation {
	// First pass: duplicate bookkeeping, local to this invocation.
	pluCount := make(map[string]int)
	barcodePLUs := make(map[string]map[string]bool)
	for i := 0; i < batch.Len(); i++ {
		r := batch.Record(i)
		if !r.PLUCode.IsBlank() {
			pluCount[r.PLUCode.String()]++
		}
		if !r.Barcode.IsBlank() {
			bc := r.Barcode.String()
			if barcodePLUs[bc] == nil {
				barcodePLUs[bc] = make(map[string]bool)
			}
			barcodePLUs[bc][r.PLUCode.String()] = true
		}
	}

	var findings []models.Validation
	for i := 0; i < batch.Len(); i++ {
		r := batch.Record(i)
		key := batch.Key(i)

		findings = append(findings, v.checkPLU(r, key)...)
		findings = append(findings, v.checkBarcode(r, key)...)

		if r.Description.IsBlank() {
			findings = append(findings, finding(RuleMissingDesc, models.SeverityHigh, "description", key,
				"description is missing", nil))
		}

		// Duplicates are reported per occurrence so each record can be
		// remediated independently.
		if plu := r.PLUCode.String(); !r.PLUCode.IsBlank() && pluCount[plu] > 1 {
			findings = append(findings, finding(RuleDuplicatePLU, models.SeverityHigh, "plu_code", key,
				fmt.Sprintf("PLU code %s is assigned to %d records", plu, pluCount[plu]),
				map[string]any{"plu_code": plu, "occurrences": pluCount[plu]}))
		}
		if bc := r.Barcode.String(); !r.Barcode.IsBlank() && len(barcodePLUs[bc]) > 1 {
			findings = append(findings, finding(RuleDuplicateBarcode, models.SeverityHigh, "barcode", key,
				fmt.Sprintf("barcode %s is shared by %d distinct PLU codes", bc, len(barcodePLUs[bc])),
				map[string]any{"barcode": bc, "distinct_plu_count": len(barcodePLUs[bc])}))
		}

		findings = append(findings, v.checkPricing(r, key)...)

		if r.Category.IsBlank() {
			findings = append(findings, finding(RuleMissingCategory, models.SeverityMedium, "category", key,
				"category is missing", nil))
		}
		if uom := r.UnitOfMeasure.Lower(); !r.UnitOfMeasure.IsBlank() && !allowedUOMs[uom] {
			findings = append(findings, finding(RuleInvalidUOM, models.SeverityMedium, "unit_of_measure", key,
				fmt.Sprintf("unit of measure %q is not in the allowed set", r.UnitOfMeasure.String()),
				map[string]any{"unit_of_measure": r.UnitOfMeasure.String()}))
		}
	}
	return findings
}

func (v *Validator) checkPLU(r models.Record, key string) []models.Validation {
	plu := r.PLUCode.String()
	if r.PLUCode.IsBlank() {
		return []models.Validation{finding(RuleInvalidPLU, models.SeverityHigh, "plu_code", key,
			"PLU code is missing", nil)}
	}
	if !alphanumericCode(plu) {
		return []models.Validation{finding(RuleInvalidPLU, models.SeverityHigh, "plu_code", key,
			fmt.Sprintf("PLU code %q contains invalid characters", plu),
			map[string]any{"plu_code": plu})}
	}
	return nil
}

func (v *Validator) checkBarcode(r models.Record, key string) []models.Validation {
	// A missing barcode is not a rules defect; unscannable products exist.
	// A present barcode must checksum or carry an internal prefix.
	if r.Barcode.IsBlank() {
		return nil
	}
	bc := r.Barcode.String()
	if ValidBarcode(bc) {
		return nil
	}
	return []models.Validation{finding(RuleInvalidBarcode, models.SeverityHigh, "barcode", key,
		fmt.Sprintf("barcode %s is not a valid EAN-13, UPC-A, or internal code", bc),
		map[string]any{"barcode": bc})}
}

func (v *Validator) checkPricing(r models.Record, key string) []models.Validation {
	var findings []models.Validation

	retail, hasRetail := r.RetailPrice.Float()
	cost, hasCost := r.CostPrice.Float()

	if r.Status.Lower() == "active" && (!hasRetail || retail <= 0) {
		details := map[string]any{"status": r.Status.String()}
		if hasRetail {
			details["retail_price"] = retail
		}
		findings = append(findings, finding(RuleMissingRetail, models.SeverityHigh, "retail_price", key,
			"active product has no positive retail price", details))
	}

	// Unparsable prices decoded as absent; the margin check only fires when
	// both sides are genuinely present.
	if hasRetail && hasCost && retail > 0 && cost >= retail {
		findings = append(findings, finding(RuleNegativeMargin, models.SeverityHigh, "cost_price", key,
			fmt.Sprintf("cost price %.2f is at or above retail price %.2f", cost, retail),
			map[string]any{"retail_price": retail, "cost_price": cost}))
	}
	return findings
}

// alphanumericCode allows letters, digits, '-' and '_'.
func alphanumericCode(s string) bool {
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c == '-' || c == '_':
		default:
			return false
		}
	}
	return len(s) > 0
}

func finding(ruleID string, sev models.Severity, field, key, msg string, details map[string]any) models.Validation {
	return models.Validation{
		RuleID:    ruleID,
		Layer:     models.LayerRules,
		Severity:  sev,
		Field:     field,
		RecordKey: key,
		Message:   msg,
		Details:   details,
	}
}
