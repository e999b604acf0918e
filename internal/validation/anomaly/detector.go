// Package anomaly implements the heuristic "ai" layer: keyword-driven category
// mismatch, near-duplicate description detection, and gibberish detection.
//
// Despite the layer label there is no trained model and no randomness here.
// Every sub-check is deterministic: identical input yields identical findings
// in identical order.
package anomaly

import (
	"context"
	"fmt"
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"shelfcheck/internal/validation/models"
)

const (
	RuleCategoryMismatch = "A001"
	RuleNearDuplicate    = "A002"
	RuleGibberish        = "A003"
)

// Hand-tuned thresholds preserved for fixture compatibility.
const (
	jaccardThreshold  = 0.6
	nonAlphaThreshold = 0.5
)

// fillerModifiers are marketing words stripped before duplicate comparison;
// "Organic Bananas" and "Bananas" describe the same product.
var fillerModifiers = []string{"organic", "premium", "free range", "local"}

// Detector is the ai layer. Stateless; the pairwise arena is rebuilt per call.
type Detector struct{}

// New constructs the anomaly detector.
func New() *Detector {
	return &Detector{}
}

// Layer identifies this pass in findings and scoring.
func (d *Detector) Layer() models.Layer { return models.LayerAI }

// Run executes the three heuristic sub-checks.
//
// The near-duplicate pass compares every unordered pair of records: O(n^2) in
// batch size. That is an explicit scaling limit of this layer - callers
// exposing the engine interactively must cap batch size themselves, and any
// cap must be reported to the caller, never applied silently here.
func (d *Detector) Run(ctx context.Context, batch *models.Batch) []models.Validation {
	var findings []models.Validation
	findings = append(findings, d.categoryMismatches(batch)...)
	findings = append(findings, d.nearDuplicates(batch)...)
	findings = append(findings, d.gibberish(batch)...)
	return findings
}

func (d *Detector) categoryMismatches(batch *models.Batch) []models.Validation {
	var findings []models.Validation
	for i := 0; i < batch.Len(); i++ {
		r := batch.Record(i)
		if r.Description.IsBlank() || r.Category.IsBlank() {
			continue
		}
		tokens := tokenSet(r.Description.Lower())
		category := r.Category.Lower()
		for _, kw := range categoryKeywords {
			if !matchesToken(tokens, kw.keyword) {
				continue
			}
			if category != kw.category {
				findings = append(findings, finding(RuleCategoryMismatch, models.SeverityHigh, "category", batch.Key(i),
					fmt.Sprintf("description mentions %q but category is %q (expected %q)",
						kw.keyword, r.Category.String(), kw.category),
					map[string]any{
						"keyword":            kw.keyword,
						"current_category":   r.Category.String(),
						"suggested_category": kw.category,
					}))
			}
			break // first matching keyword decides
		}
	}
	return findings
}

// pairEntry is the precomputed arena for the pairwise pass.
type pairEntry struct {
	index      int
	key        string
	normalized string
	tokens     map[string]bool
}

func (d *Detector) nearDuplicates(batch *models.Batch) []models.Validation {
	entries := make([]pairEntry, 0, batch.Len())
	for i := 0; i < batch.Len(); i++ {
		r := batch.Record(i)
		if r.Description.IsBlank() {
			continue
		}
		norm := NormalizeDescription(r.Description.String())
		if norm == "" {
			continue
		}
		entries = append(entries, pairEntry{
			index:      i,
			key:        batch.Key(i),
			normalized: norm,
			tokens:     tokenSet(norm),
		})
	}

	// One finding per record naming its first counterpart in batch order.
	// Emitting every pairing would flood a batch of N identical descriptions
	// with N*(N-1) findings for the same remediation.
	counterpart := make(map[int]pairEntry)
	similarity := make(map[int]float64)
	for i := 0; i < len(entries); i++ {
		for j := i + 1; j < len(entries); j++ {
			a, b := entries[i], entries[j]
			sim, dup := descriptionsMatch(a, b)
			if !dup {
				continue
			}
			if _, seen := counterpart[a.index]; !seen {
				counterpart[a.index] = b
				similarity[a.index] = sim
			}
			if _, seen := counterpart[b.index]; !seen {
				counterpart[b.index] = a
				similarity[b.index] = sim
			}
		}
	}

	var findings []models.Validation
	for _, e := range entries {
		other, ok := counterpart[e.index]
		if !ok {
			continue
		}
		findings = append(findings, finding(RuleNearDuplicate, models.SeverityMedium, "description", e.key,
			fmt.Sprintf("description is a near-duplicate of record %s", other.key),
			map[string]any{
				"similar_record_key": other.key,
				"normalized":         e.normalized,
				"similarity":         math.Round(similarity[e.index]*100) / 100,
			}))
	}
	return findings
}

// descriptionsMatch applies the duplicate criteria: containment either way, or
// token-set Jaccard similarity above the threshold.
func descriptionsMatch(a, b pairEntry) (float64, bool) {
	sim := jaccard(a.tokens, b.tokens)
	if strings.Contains(a.normalized, b.normalized) || strings.Contains(b.normalized, a.normalized) {
		return sim, true
	}
	return sim, sim > jaccardThreshold
}

func (d *Detector) gibberish(batch *models.Batch) []models.Validation {
	var findings []models.Validation
	for i := 0; i < batch.Len(); i++ {
		r := batch.Record(i)
		if r.Description.IsBlank() {
			continue
		}
		desc := strings.TrimSpace(r.Description.String())
		total := utf8.RuneCountInString(desc)
		if total == 0 {
			continue
		}
		junk := 0
		for _, c := range desc {
			if !unicode.IsLetter(c) && !unicode.IsSpace(c) {
				junk++
			}
		}
		ratio := float64(junk) / float64(total)
		if ratio > nonAlphaThreshold {
			findings = append(findings, finding(RuleGibberish, models.SeverityMedium, "description", batch.Key(i),
				fmt.Sprintf("description is %.0f%% non-alphabetic characters", ratio*100),
				map[string]any{"non_alpha_ratio": math.Round(ratio*100) / 100, "description": desc}))
		}
	}
	return findings
}

// NormalizeDescription lowercases, strips filler modifiers, and collapses
// whitespace. Exported so tests and tooling can reproduce the comparison key.
func NormalizeDescription(desc string) string {
	s := strings.ToLower(desc)
	for _, filler := range fillerModifiers {
		s = strings.ReplaceAll(s, filler, " ")
	}
	return strings.Join(strings.Fields(s), " ")
}

// jaccard computes |A∩B| / |A∪B| over two token sets.
func jaccard(a, b map[string]bool) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	intersection := 0
	for t := range a {
		if b[t] {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

func tokenSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, t := range strings.Fields(s) {
		set[t] = true
	}
	return set
}

// matchesToken checks a keyword against the token set, tolerating a trailing
// plural "s" so "Apples" still implies fruit.
func matchesToken(tokens map[string]bool, keyword string) bool {
	return tokens[keyword] || tokens[keyword+"s"]
}

func finding(ruleID string, sev models.Severity, field, key, msg string, details map[string]any) models.Validation {
	return models.Validation{
		RuleID:    ruleID,
		Layer:     models.LayerAI,
		Severity:  sev,
		Field:     field,
		RecordKey: key,
		Message:   msg,
		Details:   details,
	}
}
