package ensemble

import (
	"fmt"
	"math"
	"sort"

	"github.com/yourusername/predictsports-engine/internal/features"
	"github.com/yourusername/predictsports-engine/internal/models"
)

// MaxGoals bounds the per-side goal enumeration.
const MaxGoals = 5

// DefaultTopN is the number of scorelines returned when the caller asks for none.
const DefaultTopN = 5

// GoalMarketThresholds are the over/under lines priced by GoalMarkets.
var GoalMarketThresholds = []float64{0.5, 1.5, 2.5, 3.5}

// GoalRates returns the Poisson goal rates for the home and away side.
func GoalRates(fs features.FeatureSet) (home, away float64) {
	return fs.HomeStrength * fs.HomeXG, fs.AwayStrength * fs.AwayXG
}

// PoissonPMF is the probability of exactly k events at rate lambda.
func PoissonPMF(k int, lambda float64) float64 {
	if k < 0 || lambda < 0 {
		return 0
	}
	p := math.Exp(-lambda)
	for i := 1; i <= k; i++ {
		p *= lambda / float64(i)
	}
	return p
}

func poissonPMFs(lambda float64) [MaxGoals + 1]float64 {
	var probs [MaxGoals + 1]float64
	for k := range probs {
		probs[k] = PoissonPMF(k, lambda)
	}
	return probs
}

// Scorelines enumerates the (MaxGoals+1)² grid of exact scores under
// independent Poisson goals, sorted by descending probability. Ties keep
// enumeration order (home goals, then away goals). topN outside [1, grid]
// falls back to DefaultTopN or the full grid.
func Scorelines(fs features.FeatureSet, topN int) []models.Scoreline {
	homeLambda, awayLambda := GoalRates(fs)
	home := poissonPMFs(homeLambda)
	away := poissonPMFs(awayLambda)

	grid := make([]models.Scoreline, 0, (MaxGoals+1)*(MaxGoals+1))
	for h := 0; h <= MaxGoals; h++ {
		for a := 0; a <= MaxGoals; a++ {
			grid = append(grid, models.NewScoreline(h, a, home[h]*away[a]))
		}
	}

	sort.SliceStable(grid, func(i, j int) bool {
		return grid[i].Probability > grid[j].Probability
	})

	if topN <= 0 {
		topN = DefaultTopN
	}
	if topN > len(grid) {
		topN = len(grid)
	}
	return grid[:topN]
}

// GoalMarkets prices "over" total-goals markets. For a threshold t only
// cells with both sides in 0..floor(t) are summed, so mass beyond that bound
// is not counted.
func GoalMarkets(fs features.FeatureSet) models.GoalMarkets {
	homeLambda, awayLambda := GoalRates(fs)
	markets := make(models.GoalMarkets, len(GoalMarketThresholds))
	for _, threshold := range GoalMarketThresholds {
		bound := int(math.Floor(threshold))
		var p float64
		for i := 0; i <= bound; i++ {
			for j := 0; j <= bound; j++ {
				if float64(i+j) >= threshold {
					p += PoissonPMF(i, homeLambda) * PoissonPMF(j, awayLambda)
				}
			}
		}
		markets[marketKey(threshold)] = p
	}
	return markets
}

// ExactGoalMarkets prices the same lines from the full Poisson tail. The sum
// of two independent Poisson counts is Poisson with the summed rate.
func ExactGoalMarkets(fs features.FeatureSet) models.GoalMarkets {
	homeLambda, awayLambda := GoalRates(fs)
	total := homeLambda + awayLambda
	markets := make(models.GoalMarkets, len(GoalMarketThresholds))
	for _, threshold := range GoalMarketThresholds {
		var under float64
		for k := 0; float64(k) < threshold; k++ {
			under += PoissonPMF(k, total)
		}
		markets[marketKey(threshold)] = clip(1-under, 0, 1)
	}
	return markets
}

func marketKey(threshold float64) string {
	return fmt.Sprintf("over_%d", int(threshold))
}
