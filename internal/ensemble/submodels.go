package ensemble

import (
	"fmt"
	"math"

	"github.com/yourusername/predictsports-engine/internal/features"
	"github.com/yourusername/predictsports-engine/internal/models"
)

// ModelKind names one of the sub-models.
type ModelKind string

// The closed set of sub-models.
const (
	Poisson  ModelKind = "poisson"
	Logistic ModelKind = "logistic"
	Form     ModelKind = "form"
	Tactical ModelKind = "tactical"
	Market   ModelKind = "market"
)

// AllModels lists every sub-model in combination order.
var AllModels = []ModelKind{Poisson, Logistic, Form, Tactical, Market}

// Weights are the fixed ensemble weights. They sum to 1.
var Weights = map[ModelKind]float64{
	Poisson:  0.30,
	Logistic: 0.25,
	Form:     0.20,
	Tactical: 0.15,
	Market:   0.10,
}

const (
	drawBaseline      = 0.25
	logisticHomeBoost = 0.3
	marketHomeBoost   = 0.15
	tacticalWinShare  = 0.65
	marketFloor       = 0.1
	marketCeiling     = 0.7
)

// Run evaluates a single sub-model. Each field of the returned distribution
// lies in [0,1]; the triple need not sum to 1.
func Run(kind ModelKind, fs features.FeatureSet) (models.OutcomeDistribution, error) {
	var d models.OutcomeDistribution
	switch kind {
	case Poisson:
		d = poissonModel(fs)
	case Logistic:
		d = logisticModel(fs)
	case Form:
		d = formModel(fs)
	case Tactical:
		d = tacticalModel(fs)
	case Market:
		d = marketModel(fs)
	default:
		return models.OutcomeDistribution{}, fmt.Errorf("%w: %q", ErrUnknownModel, kind)
	}
	return clipDistribution(d), nil
}

// poissonModel treats each side's goals as independent Poisson counts capped at 5.
func poissonModel(fs features.FeatureSet) models.OutcomeDistribution {
	homeLambda, awayLambda := GoalRates(fs)
	home := poissonPMFs(homeLambda)
	away := poissonPMFs(awayLambda)

	var d models.OutcomeDistribution
	for goals := 0; goals <= MaxGoals; goals++ {
		d.Draw += home[goals] * away[goals]
		if goals == 0 {
			continue
		}
		var awayBelow, homeBelow float64
		for lower := 0; lower < goals; lower++ {
			awayBelow += away[lower]
			homeBelow += home[lower]
		}
		d.HomeWin += home[goals] * awayBelow
		d.AwayWin += away[goals] * homeBelow
	}
	return d
}

// logisticModel maps the strength gap through a sigmoid and renormalizes.
func logisticModel(fs features.FeatureSet) models.OutcomeDistribution {
	diff := fs.StrengthDiff()
	z := diff
	if fs.IsHomeAdvantage {
		z += logisticHomeBoost
	}

	home := 1 / (1 + math.Exp(-z))
	return models.OutcomeDistribution{
		HomeWin: home,
		Draw:    drawBaseline * (1 - math.Abs(diff)),
		AwayWin: 1 - home,
	}.Normalize()
}

// formModel tilts linearly around a fixed draw baseline. It does not sum to 1.
func formModel(fs features.FeatureSet) models.OutcomeDistribution {
	diff := fs.StrengthDiff()
	return models.OutcomeDistribution{
		HomeWin: 0.5 + diff*0.3,
		Draw:    drawBaseline,
		AwayWin: 0.25 - diff*0.3,
	}
}

// tacticalModel splits a fixed win mass by possession and xG.
func tacticalModel(fs features.FeatureSet) models.OutcomeDistribution {
	home := fs.HomePossession/100 + fs.HomeXG/3
	away := fs.AwayPossession/100 + fs.AwayXG/3

	homeShare, awayShare := 0.5, 0.5
	if total := home + away; total > 0 {
		homeShare, awayShare = home/total, away/total
	}
	return models.OutcomeDistribution{
		HomeWin: homeShare * tacticalWinShare,
		Draw:    drawBaseline,
		AwayWin: awayShare * tacticalWinShare,
	}
}

// marketModel imitates a bookmaker line from the rating gap. The away price
// is derived from the unclipped home price.
func marketModel(fs features.FeatureSet) models.OutcomeDistribution {
	home := 0.5 + fs.StrengthDiff()*0.25
	if fs.IsHomeAdvantage {
		home += marketHomeBoost
	}
	away := 1 - home - drawBaseline
	return models.OutcomeDistribution{
		HomeWin: clip(home, marketFloor, marketCeiling),
		Draw:    drawBaseline,
		AwayWin: clip(away, marketFloor, marketCeiling),
	}
}

func clipDistribution(d models.OutcomeDistribution) models.OutcomeDistribution {
	return models.OutcomeDistribution{
		HomeWin: clip(d.HomeWin, 0, 1),
		Draw:    clip(d.Draw, 0, 1),
		AwayWin: clip(d.AwayWin, 0, 1),
	}
}

func clip(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}
