// Package scoring reduces findings from the four validation layers into
// per-domain and overall 0-100 health scores.
//
// A record that fails the same domain in several layers counts once toward the
// domain score: scores track how many records are broken, not how many
// findings were written about them.
package scoring

import (
	"math"

	"shelfcheck/internal/validation/models"
)

// domainRules partitions rule IDs into reporting domains. Supplier currently
// has no active rules and therefore always scores 100.
var domainRules = map[models.Domain][]string{
	models.DomainPLU:     {"R001", "R004"},
	models.DomainBarcode: {"R002", "R005", "X001", "X002", "X003", "X004"},
	models.DomainPricing: {"R006", "R007", "S005", "S006"},
	models.DomainHierarchy: {
		"R003", "R008", "R009",
		"S001", "S002", "S003", "S004", "S007",
		"A001", "A002", "A003",
	},
	models.DomainSupplier: {},
}

// Aggregator computes the scores map for a run. Stateless.
type Aggregator struct {
	ruleDomain map[string]models.Domain
}

// New builds the aggregator and its rule-to-domain index.
func New() *Aggregator {
	index := make(map[string]models.Domain)
	for domain, ruleIDs := range domainRules {
		for _, id := range ruleIDs {
			index[id] = domain
		}
	}
	return &Aggregator{ruleDomain: index}
}

// Scores reduces findings into the domain score map, including the synthetic
// "overall" entry. totalRecords of zero yields 100s everywhere without
// dividing by zero. Inactive layers appear as nil layer scores, never as 100.
func (a *Aggregator) Scores(findings []models.Validation, totalRecords int, reconActive bool) map[models.Domain]models.DomainScore {
	active := ActiveLayers(reconActive)
	activeSet := make(map[models.Layer]bool, len(active))
	for _, l := range active {
		activeSet[l] = true
	}

	type keySet = map[string]bool

	// Distinct failing record keys, bucketed three ways.
	domainLayerFailed := make(map[models.Domain]map[models.Layer]keySet)
	domainFailed := make(map[models.Domain]keySet)
	layerFailed := make(map[models.Layer]keySet)
	anyFailed := make(keySet)

	for _, f := range findings {
		if layerFailed[f.Layer] == nil {
			layerFailed[f.Layer] = make(keySet)
		}
		layerFailed[f.Layer][f.RecordKey] = true

		domain, mapped := a.ruleDomain[f.RuleID]
		if !mapped {
			// Engine-internal findings carry synthetic record keys; counting
			// them in the overall pass/fail tally would overstate Failed past
			// the batch size. They affect layer scores only.
			continue
		}
		anyFailed[f.RecordKey] = true
		if domainFailed[domain] == nil {
			domainFailed[domain] = make(keySet)
			domainLayerFailed[domain] = make(map[models.Layer]keySet)
		}
		domainFailed[domain][f.RecordKey] = true
		if domainLayerFailed[domain][f.Layer] == nil {
			domainLayerFailed[domain][f.Layer] = make(keySet)
		}
		domainLayerFailed[domain][f.Layer][f.RecordKey] = true
	}

	scores := make(map[models.Domain]models.DomainScore, len(domainRules)+1)
	for _, domain := range models.Domains() {
		failed := len(domainFailed[domain])
		layerScores := make(map[models.Layer]*float64, 4)
		for layer := range baseWeights {
			if !activeSet[layer] {
				layerScores[layer] = nil
				continue
			}
			s := percentage(totalRecords, len(domainLayerFailed[domain][layer]))
			layerScores[layer] = &s
		}
		scores[domain] = models.DomainScore{
			Total:       totalRecords,
			Passed:      totalRecords - failed,
			Failed:      failed,
			Score:       percentage(totalRecords, failed),
			LayerScores: layerScores,
		}
	}

	scores[models.DomainOverall] = a.overall(totalRecords, active, activeSet, layerFailed, anyFailed)
	return scores
}

// overall computes the weighted cross-layer entry. Its per-layer scores span
// all findings of the layer regardless of domain; its Score is the weighted
// sum over the renormalized active weights.
func (a *Aggregator) overall(totalRecords int, active []models.Layer, activeSet map[models.Layer]bool, layerFailed map[models.Layer]map[string]bool, anyFailed map[string]bool) models.DomainScore {
	weights := NormalizedWeights(active)

	layerScores := make(map[models.Layer]*float64, 4)
	weighted := 0.0
	for layer := range baseWeights {
		if !activeSet[layer] {
			layerScores[layer] = nil
			continue
		}
		s := percentage(totalRecords, len(layerFailed[layer]))
		layerScores[layer] = &s
		weighted += weights[layer] * s
	}

	failed := len(anyFailed)
	return models.DomainScore{
		Total:       totalRecords,
		Passed:      totalRecords - failed,
		Failed:      failed,
		Score:       round1(weighted),
		LayerScores: layerScores,
	}
}

// percentage scores (total-failed)/total as 0-100 with one decimal. An empty
// batch has nothing wrong with it: 100.
func percentage(total, failed int) float64 {
	if total == 0 {
		return 100.0
	}
	return round1(float64(total-failed) / float64(total) * 100)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
