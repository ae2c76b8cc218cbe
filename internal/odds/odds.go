// Package odds converts outcome probabilities into fair decimal odds.
package odds

import (
	"github.com/shopspring/decimal"

	"github.com/yourusername/predictsports-engine/internal/models"
)

// Places is the number of decimal places odds are rounded to
const Places = 2

// FairOdds holds margin-free decimal odds for the three outcomes.
// A nil price means the outcome has zero probability.
type FairOdds struct {
	HomeWin *decimal.Decimal `json:"home_win"`
	Draw    *decimal.Decimal `json:"draw"`
	AwayWin *decimal.Decimal `json:"away_win"`
}

// Decimal returns the fair decimal price 1/p rounded to Places, or nil for p <= 0
func Decimal(probability float64) *decimal.Decimal {
	if probability <= 0 {
		return nil
	}
	price := decimal.NewFromInt(1).DivRound(decimal.NewFromFloat(probability), Places+4).Round(Places)
	return &price
}

// ForDistribution prices every outcome of a distribution
func ForDistribution(d models.OutcomeDistribution) FairOdds {
	return FairOdds{
		HomeWin: Decimal(d.HomeWin),
		Draw:    Decimal(d.Draw),
		AwayWin: Decimal(d.AwayWin),
	}
}

// ImpliedProbability converts a decimal price back to a probability.
// Prices at or below 1 are not valid odds and yield zero.
func ImpliedProbability(price decimal.Decimal) float64 {
	if price.LessThanOrEqual(decimal.NewFromInt(1)) {
		return 0
	}
	p, _ := decimal.NewFromInt(1).Div(price).Float64()
	return p
}

// Overround returns the book percentage of a set of prices minus one.
// Fair odds give an overround near zero; rounding can push it slightly either way.
func Overround(o FairOdds) float64 {
	total := 0.0
	for _, price := range []*decimal.Decimal{o.HomeWin, o.Draw, o.AwayWin} {
		if price != nil {
			total += ImpliedProbability(*price)
		}
	}
	return total - 1
}
