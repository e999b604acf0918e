// Package models defines the data types exchanged by the validation engine:
// input records and scan telemetry, findings, and health scores.
//
// All input fields are optional. String-like fields accept JSON strings or
// numbers; numeric fields accept JSON numbers or numeric strings and decode as
// absent when they cannot be parsed. Malformed data is never an error at this
// level - it degrades to "absent" and is judged by the validators.
package models

import (
	"fmt"
	"sort"
	"time"
)

// Layer identifies one of the four validation passes.
type Layer string

const (
	LayerRules     Layer = "rules"
	LayerStandards Layer = "standards"
	LayerAI        Layer = "ai"
	LayerRecon     Layer = "recon"
)

// IsValid checks if the layer is one of the supported enum values.
func (l Layer) IsValid() bool {
	switch l {
	case LayerRules, LayerStandards, LayerAI, LayerRecon:
		return true
	}
	return false
}

// String returns the string representation.
func (l Layer) String() string { return string(l) }

// Severity ranks how urgently a finding needs remediation.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// IsValid checks if the severity is one of the supported enum values.
func (s Severity) IsValid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

// Rank orders severities from low (0) to critical (3) for threshold checks.
func (s Severity) Rank() int {
	switch s {
	case SeverityLow:
		return 0
	case SeverityMedium:
		return 1
	case SeverityHigh:
		return 2
	case SeverityCritical:
		return 3
	}
	return -1
}

// AtLeast reports whether s is at or above the given threshold.
func (s Severity) AtLeast(threshold Severity) bool {
	return s.Rank() >= threshold.Rank()
}

// ParseSeverity creates a Severity from a string, validating it.
func ParseSeverity(raw string) (Severity, error) {
	s := Severity(raw)
	if !s.IsValid() {
		return "", fmt.Errorf("invalid severity %q", raw)
	}
	return s, nil
}

// Domain is a business grouping of the product master used for reporting,
// orthogonal to Layer.
type Domain string

const (
	DomainPLU       Domain = "plu"
	DomainBarcode   Domain = "barcode"
	DomainPricing   Domain = "pricing"
	DomainHierarchy Domain = "hierarchy"
	DomainSupplier  Domain = "supplier"
	// DomainOverall is the synthetic scores entry combining all layers.
	DomainOverall Domain = "overall"
)

// Domains lists the reportable business domains in presentation order.
// DomainOverall is excluded; it is a derived entry, not a partition member.
func Domains() []Domain {
	return []Domain{DomainPLU, DomainBarcode, DomainPricing, DomainHierarchy, DomainSupplier}
}

// ScanSource identifies where a barcode has been scanned.
type ScanSource string

const (
	ScanSourceWarehouse ScanSource = "warehouse"
	ScanSourcePOS       ScanSource = "pos"
	ScanSourceBoth      ScanSource = "both"
)

// SeenAtWarehouse reports whether the source includes warehouse scans.
func (s ScanSource) SeenAtWarehouse() bool {
	return s == ScanSourceWarehouse || s == ScanSourceBoth
}

// SeenAtPOS reports whether the source includes point-of-sale scans.
func (s ScanSource) SeenAtPOS() bool {
	return s == ScanSourcePOS || s == ScanSourceBoth
}

// Record is a single product master row. Every field is optional; validators
// decide what absence means.
type Record struct {
	PLUCode       FlexString `json:"plu_code"`
	Barcode       FlexString `json:"barcode"`
	Description   FlexString `json:"description"`
	Category      FlexString `json:"category"`
	Subcategory   FlexString `json:"subcategory"`
	UnitOfMeasure FlexString `json:"unit_of_measure"`
	PackSize      FlexNumber `json:"pack_size"`
	SupplierCode  FlexString `json:"supplier_code"`
	Status        FlexString `json:"status"`
	RetailPrice   FlexNumber `json:"retail_price"`
	CostPrice     FlexNumber `json:"cost_price"`
}

// ScanInfo is per-barcode telemetry from warehouse and POS scanners.
type ScanInfo struct {
	ScanSource    FlexString `json:"scan_source"`
	ManualKeyRate FlexNumber `json:"manual_key_rate"`
	SuccessRate   FlexNumber `json:"success_rate"`
}

// Source returns the normalized scan source.
func (s ScanInfo) Source() ScanSource {
	return ScanSource(s.ScanSource.Lower())
}

// Validation is a single finding produced by one layer against one record.
// RuleID values are stable short codes downstream systems key off of.
type Validation struct {
	RuleID    string         `json:"rule_id"`
	Layer     Layer          `json:"layer"`
	Severity  Severity       `json:"severity"`
	Field     string         `json:"field"`
	RecordKey string         `json:"record_key"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
}

// DomainScore summarizes health for one domain (or the overall entry).
// A nil layer score means the layer was inactive for the run, which is
// distinct from a perfect 100.
type DomainScore struct {
	Total       int                `json:"total"`
	Passed      int                `json:"passed"`
	Failed      int                `json:"failed"`
	Score       float64            `json:"score"`
	LayerScores map[Layer]*float64 `json:"layer_scores"`
}

// Report is the result of one engine invocation.
type Report struct {
	RunID       string                 `json:"run_id"`
	RecordCount int                    `json:"record_count"`
	ReconActive bool                   `json:"recon_active"`
	Validations []Validation           `json:"validations"`
	Scores      map[Domain]DomainScore `json:"scores"`
	GeneratedAt time.Time              `json:"generated_at"`
}

// SortCanonical orders findings by (layer, rule_id, record_key, field) so
// engine output is deterministic regardless of how layer passes interleave.
func SortCanonical(vs []Validation) {
	sort.Slice(vs, func(i, j int) bool {
		a, b := vs[i], vs[j]
		if a.Layer != b.Layer {
			return a.Layer < b.Layer
		}
		if a.RuleID != b.RuleID {
			return a.RuleID < b.RuleID
		}
		if a.RecordKey != b.RecordKey {
			return a.RecordKey < b.RecordKey
		}
		return a.Field < b.Field
	})
}
