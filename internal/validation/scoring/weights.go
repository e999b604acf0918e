package scoring

import "shelfcheck/internal/validation/models"

// baseWeights is the fixed contribution of each layer to the overall score.
// Weights over the active layer set must always sum to 1.0; when recon is
// inactive its weight is redistributed proportionally across the rest.
var baseWeights = map[models.Layer]float64{
	models.LayerRules:     0.35,
	models.LayerStandards: 0.30,
	models.LayerAI:        0.20,
	models.LayerRecon:     0.15,
}

// ActiveLayers returns the layer set participating in a run, in canonical
// order. Recon participates only when scan telemetry was supplied.
func ActiveLayers(reconActive bool) []models.Layer {
	layers := []models.Layer{models.LayerRules, models.LayerStandards, models.LayerAI}
	if reconActive {
		layers = append(layers, models.LayerRecon)
	}
	return layers
}

// NormalizedWeights renormalizes the base weights over the given layer set by
// dividing each by their sum, so the result always sums to 1.0. Pure function;
// independently tested.
func NormalizedWeights(active []models.Layer) map[models.Layer]float64 {
	sum := 0.0
	for _, l := range active {
		sum += baseWeights[l]
	}
	weights := make(map[models.Layer]float64, len(active))
	if sum == 0 {
		return weights
	}
	for _, l := range active {
		weights[l] = baseWeights[l] / sum
	}
	return weights
}
