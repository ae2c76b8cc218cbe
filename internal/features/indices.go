// Package features derives the normalized feature set consumed by the prediction models.
package features

import (
	"math"

	"github.com/yourusername/predictsports-engine/internal/models"
)

// Constants used by the feature formulas.
const (
	neutralForm           = 0.5
	formWindow            = 5
	leagueAvgHomeWinRate  = 0.46
	momentumScale         = 45.0
	idealRestDays         = 7.0
	congestionMatches     = 5.0
	idealTemperature      = 15.0
	defaultWindResistance = 0.5
	defaultRainAffinity   = 0.3
	defaultStageModifier  = 0.5
	baselineCardsPerMatch = 4.0
)

// RecencyWeights are applied to the most recent results first.
var RecencyWeights = []float64{1.0, 0.9, 0.8, 0.7, 0.6}

var resultPoints = map[string]float64{"W": 3, "D": 1, "L": 0}

var strengthWeights = map[rune]float64{'W': 1.0, 'D': 0.5, 'L': 0.0}

var stageModifiers = map[string]float64{"early": 0.7, "mid": 0.5, "late": 0.2}

// FormIndex returns a recency-weighted points ratio in [0,1] for the given
// results, most recent first. An empty sequence is neutral (0.5).
func FormIndex(results []string) float64 {
	return formIndexWeighted(results, RecencyWeights)
}

func formIndexWeighted(results []string, weights []float64) float64 {
	if len(results) == 0 || len(weights) == 0 {
		return neutralForm
	}

	var score float64
	for i, result := range results {
		if i >= formWindow {
			break
		}
		weight := 0.5
		if i < len(weights) {
			weight = weights[i]
		}
		score += resultPoints[result] * weight
	}

	n := len(results)
	if n > len(weights) {
		n = len(weights)
	}
	var weightSum float64
	for _, w := range weights[:n] {
		weightSum += w
	}

	return clip(score/(3*weightSum), 0, 1)
}

// StrengthIndex averages a form string with W=1, D=0.5, L=0. Unknown
// characters count as 0.5 and an empty string is neutral.
func StrengthIndex(form string) float64 {
	if form == "" {
		return neutralForm
	}
	var sum float64
	var n int
	for _, r := range form {
		w, ok := strengthWeights[r]
		if !ok {
			w = 0.5
		}
		sum += w
		n++
	}
	return sum / float64(n)
}

// Momentum is the trend of cumulative points over the trailing 5/10/20
// match windows, in [-1,1].
func Momentum(pointsLast5, pointsLast10, pointsLast20 int) float64 {
	trend := float64(pointsLast5-pointsLast10) + float64(pointsLast10-pointsLast20)
	return clip(trend/momentumScale, -1, 1)
}

// HomeAdvantage compares a team's home win rate with the league average, in [-1,1].
func HomeAdvantage(record models.HomeRecord) float64 {
	rate := float64(record.Wins) / float64(max(record.Played, 1))
	return clip((rate-leagueAvgHomeWinRate)*2, -1, 1)
}

// XGDifferential is the normalized expected-goals gap between the sides.
func XGDifferential(homeXG, awayXG float64) float64 {
	return (homeXG - awayXG) / math.Max(homeXG+awayXG, 1.0)
}

// DefensiveStability is the clean sheet rate penalised by goals conceded, in [0,1].
func DefensiveStability(cleanSheets, goalsConceded, matchesPlayed int) float64 {
	played := float64(max(matchesPlayed, 1))
	cleanSheetRate := float64(cleanSheets) / played
	goalsPerGame := float64(goalsConceded) / played
	return clip(cleanSheetRate-goalsPerGame/3, 0, 1)
}

// Fatigue is 0 for a fresh side and 1 for an exhausted one.
func Fatigue(daysSinceLastMatch, matchesInLast14Days int) float64 {
	restFactor := math.Min(1, float64(daysSinceLastMatch)/idealRestDays)
	congestion := float64(matchesInLast14Days) / congestionMatches
	return clip((1-restFactor)+congestion*0.5, 0, 1)
}

// RotationRisk estimates how likely squad rotation weakens the side, in [0,1].
func RotationRisk(squadDepth, keyPlayersOut int, stage string) float64 {
	modifier, ok := stageModifiers[stage]
	if !ok {
		modifier = defaultStageModifier
	}
	return clip(float64(keyPlayersOut)/float64(max(squadDepth, 1))+modifier, 0, 1)
}

// Motivation reacts to the latest result and the competitive situation.
// previous is chronological, so the last entry is the latest result.
func Motivation(previous []models.PreviousResult, cupParticipation, championshipContention bool) float64 {
	motivation := 0.5
	if n := len(previous); n > 0 {
		switch previous[n-1].Result {
		case "L":
			motivation = 0.7
		case "W":
			motivation = 0.6
		}
	}
	if cupParticipation {
		motivation += 0.15
	}
	if championshipContention {
		motivation += 0.2
	}
	return math.Min(1, motivation)
}

// WeatherImpact is the weather modifier for a team, in [-1,1]. Missing
// readings contribute nothing.
func WeatherImpact(weather *models.WeatherData, affinity models.WeatherAffinity) float64 {
	var wind, rain float64
	temperature := idealTemperature
	if weather != nil {
		wind = models.FloatOr(weather.WindSpeed, 0)
		rain = models.FloatOr(weather.RainProbability, 0)
		temperature = models.FloatOr(weather.Temperature, idealTemperature)
	}

	modifier := 0.0
	modifier -= wind / 50 * models.FloatOr(affinity.WindResistance, defaultWindResistance)
	modifier -= rain * models.FloatOr(affinity.RainAffinity, defaultRainAffinity)
	modifier -= math.Abs(temperature-idealTemperature) / 20 * 0.2

	return clip(modifier, -1, 1)
}

// RefereeBias is positive when the referee's history favours the home side.
func RefereeBias(refereeID string, referees map[string]models.RefereeStats) float64 {
	stats, ok := referees[refereeID]
	if refereeID == "" || !ok {
		return 0
	}
	matches := float64(max(stats.TotalMatches, 1))
	homeBias := float64(stats.HomeWins-stats.AwayWins) / matches
	cardRate := float64(stats.YellowCards) / matches
	return clip(homeBias*0.6+(cardRate-baselineCardsPerMatch)/10*0.4, -1, 1)
}

func clip(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}
