// Package standards implements the standards layer: business-convention and
// plausibility checks. Records flagged here are usually well-formed but look
// wrong for a retail product master - shouting descriptions, impossible
// margins, a unit of measure that makes no sense for the category.
package standards

import (
	"context"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"shelfcheck/internal/validation/models"
)

const (
	RuleAllCapsDesc     = "S001"
	RuleShortDesc       = "S002"
	RuleMissingSubcat   = "S003"
	RuleImplausibleUOM  = "S004"
	RulePriceOutOfRange = "S005"
	RuleMarginOutOfBand = "S006"
	RuleBadPackSize     = "S007"
)

// Hand-tuned thresholds preserved for fixture compatibility. Changes need a
// review of every downstream consumer keying off these rules.
const (
	maxConsecutiveCapsWords = 3
	minDescriptionLength    = 3
	minRetailPrice          = 0.10
	maxRetailPrice          = 500.00
	minMarginPercent        = 5.0
	maxMarginPercent        = 80.0
)

// uomExpectations maps category conventions to the units that make sense for
// them. Weight-oriented categories sell loose or by weight; each-oriented
// categories sell discrete items.
var uomExpectations = map[string][]string{
	"fruit":      {"kg", "g", "ea", "each"},
	"vegetables": {"kg", "g", "ea", "each"},
	"meat":       {"kg", "g", "ea", "each"},
	"seafood":    {"kg", "g", "ea", "each"},
	"bakery":     {"ea", "each", "pack", "bunch"},
	"grocery":    {"ea", "each", "pack", "bunch"},
	"deli":       {"ea", "each", "pack", "bunch"},
}

// Validator is the standards layer. Stateless.
type Validator struct{}

// New constructs the standards layer validator.
func New() *Validator {
	return &Validator{}
}

// Layer identifies this pass in findings and scoring.
func (v *Validator) Layer() models.Layer { return models.LayerStandards }

// Run applies every convention check to every record.
func (v *Validator) Run(ctx context.Context, batch *models.Batch) []models.Validation {
	var findings []models.Validation
	for i := 0; i < batch.Len(); i++ {
		r := batch.Record(i)
		key := batch.Key(i)

		findings = append(findings, v.checkDescription(r, key)...)

		if !r.Category.IsBlank() && r.Subcategory.IsBlank() {
			findings = append(findings, finding(RuleMissingSubcat, models.SeverityLow, "subcategory", key,
				"category is set but subcategory is blank",
				map[string]any{"category": r.Category.String()}))
		}

		findings = append(findings, v.checkUOM(r, key)...)
		findings = append(findings, v.checkPricing(r, key)...)

		if size, ok := r.PackSize.Float(); ok && size <= 0 {
			findings = append(findings, finding(RuleBadPackSize, models.SeverityMedium, "pack_size", key,
				fmt.Sprintf("pack size %v must be greater than zero", size),
				map[string]any{"pack_size": size}))
		}
	}
	return findings
}

func (v *Validator) checkDescription(r models.Record, key string) []models.Validation {
	// Blank descriptions belong to the rules layer; conventions only judge
	// text that exists.
	if r.Description.IsBlank() {
		return nil
	}
	desc := strings.TrimSpace(r.Description.String())
	var findings []models.Validation

	if utf8.RuneCountInString(desc) < minDescriptionLength {
		findings = append(findings, finding(RuleShortDesc, models.SeverityLow, "description", key,
			fmt.Sprintf("description %q is shorter than %d characters", desc, minDescriptionLength),
			map[string]any{"description": desc}))
	}

	if run := longestCapsRun(desc); run > maxConsecutiveCapsWords {
		findings = append(findings, finding(RuleAllCapsDesc, models.SeverityLow, "description", key,
			fmt.Sprintf("description contains %d consecutive all-caps words", run),
			map[string]any{"consecutive_caps_words": run}))
	}
	return findings
}

func (v *Validator) checkUOM(r models.Record, key string) []models.Validation {
	if r.UnitOfMeasure.IsBlank() || r.Category.IsBlank() {
		return nil
	}
	expected, known := uomExpectations[r.Category.Lower()]
	if !known {
		return nil
	}
	uom := r.UnitOfMeasure.Lower()
	for _, e := range expected {
		if uom == e {
			return nil
		}
	}
	return []models.Validation{finding(RuleImplausibleUOM, models.SeverityMedium, "unit_of_measure", key,
		fmt.Sprintf("unit %q is unusual for category %q", r.UnitOfMeasure.String(), r.Category.String()),
		map[string]any{
			"unit_of_measure": r.UnitOfMeasure.String(),
			"category":        r.Category.String(),
			"expected_units":  expected,
		})}
}

func (v *Validator) checkPricing(r models.Record, key string) []models.Validation {
	var findings []models.Validation

	retail, hasRetail := r.RetailPrice.Float()
	if hasRetail && (retail < minRetailPrice || retail > maxRetailPrice) {
		findings = append(findings, finding(RulePriceOutOfRange, models.SeverityMedium, "retail_price", key,
			fmt.Sprintf("retail price %.2f is outside the plausible range $%.2f-$%.2f", retail, minRetailPrice, maxRetailPrice),
			map[string]any{"retail_price": retail, "min": minRetailPrice, "max": maxRetailPrice}))
	}

	cost, hasCost := r.CostPrice.Float()
	if hasRetail && hasCost && retail > 0 {
		margin := (retail - cost) / retail * 100
		if margin < minMarginPercent || margin > maxMarginPercent {
			findings = append(findings, finding(RuleMarginOutOfBand, models.SeverityMedium, "cost_price", key,
				fmt.Sprintf("margin %.1f%% is outside the expected %.0f%%-%.0f%% band", margin, minMarginPercent, maxMarginPercent),
				map[string]any{"margin_percent": margin, "retail_price": retail, "cost_price": cost}))
		}
	}
	return findings
}

// longestCapsRun counts the longest run of consecutive all-uppercase alphabetic
// words (length > 1). A word containing any lowercase letter resets the run;
// tokens without letters (sizes, codes) neither extend nor reset it.
func longestCapsRun(desc string) int {
	longest, run := 0, 0
	for _, word := range strings.Fields(desc) {
		switch {
		case isCapsWord(word):
			run++
			if run > longest {
				longest = run
			}
		case hasLowercase(word):
			run = 0
		}
	}
	return longest
}

func isCapsWord(word string) bool {
	if utf8.RuneCountInString(word) <= 1 {
		return false
	}
	for _, c := range word {
		if !unicode.IsUpper(c) {
			return false
		}
	}
	return true
}

func hasLowercase(word string) bool {
	for _, c := range word {
		if unicode.IsLower(c) {
			return true
		}
	}
	return false
}

func finding(ruleID string, sev models.Severity, field, key, msg string, details map[string]any) models.Validation {
	return models.Validation{
		RuleID:    ruleID,
		Layer:     models.LayerStandards,
		Severity:  sev,
		Field:     field,
		RecordKey: key,
		Message:   msg,
		Details:   details,
	}
}
