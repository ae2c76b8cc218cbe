package ensemble

import (
	"math"

	"github.com/yourusername/predictsports-engine/internal/models"
)

// Confidence thresholds on the normalized home-win probability.
const (
	veryHighThreshold = 0.65
	highThreshold     = 0.55
	mediumThreshold   = 0.48
)

// Combine merges sub-model outputs with the fixed Weights. Absent models
// simply contribute nothing; the weighted triple is always renormalized
// to sum to 1.
func Combine(outputs map[ModelKind]models.OutcomeDistribution) (*models.EnsembleResult, error) {
	if len(outputs) == 0 {
		return nil, ErrNoModelOutputs
	}

	var weighted models.OutcomeDistribution
	homeWins := make([]float64, 0, len(outputs))
	raw := make(map[string]models.OutcomeDistribution, len(outputs))
	for _, kind := range AllModels {
		d, ok := outputs[kind]
		if !ok {
			continue
		}
		w := Weights[kind]
		weighted.HomeWin += d.HomeWin * w
		weighted.Draw += d.Draw * w
		weighted.AwayWin += d.AwayWin * w
		homeWins = append(homeWins, d.HomeWin)
		raw[string(kind)] = d
	}
	if len(homeWins) == 0 {
		return nil, ErrNoModelOutputs
	}

	final := weighted.Normalize()
	return &models.EnsembleResult{
		OutcomeDistribution: final,
		ModelAgreement:      Agreement(homeWins),
		Confidence:          ConfidenceFor(final.HomeWin),
		Models:              raw,
	}, nil
}

// Agreement is 1 minus the population standard deviation of the
// sub-models' home-win probabilities, clipped to [0,1].
func Agreement(homeWins []float64) float64 {
	if len(homeWins) == 0 {
		return 1
	}
	var mean float64
	for _, p := range homeWins {
		mean += p
	}
	mean /= float64(len(homeWins))

	var variance float64
	for _, p := range homeWins {
		variance += (p - mean) * (p - mean)
	}
	variance /= float64(len(homeWins))

	return clip(1-math.Sqrt(variance), 0, 1)
}

// ConfidenceFor buckets a normalized home-win probability.
func ConfidenceFor(homeWin float64) models.Confidence {
	switch {
	case homeWin > veryHighThreshold:
		return models.ConfidenceVeryHigh
	case homeWin > highThreshold:
		return models.ConfidenceHigh
	case homeWin > mediumThreshold:
		return models.ConfidenceMedium
	default:
		return models.ConfidenceLow
	}
}
