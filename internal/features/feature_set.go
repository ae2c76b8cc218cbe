package features

import (
	"github.com/yourusername/predictsports-engine/internal/models"
)

// Defaults for the extended feature path when the caller omits a value.
const (
	defaultXGAvg              = 1.5
	defaultMatchesPlayed      = 1
	defaultDaysSinceLastMatch = 7
	defaultMatchesIn14Days    = 1
	defaultSquadDepth         = 20
)

// FeatureSet is the immutable set of features derived from one MatchContext.
type FeatureSet struct {
	// Inputs of the ensemble sub-models.
	HomeStrength        float64
	AwayStrength        float64
	HomeXG              float64
	AwayXG              float64
	HomePossession      float64
	AwayPossession      float64
	HomeDefensiveRating float64
	AwayDefensiveRating float64
	IsHomeAdvantage     bool

	Advanced AdvancedFeatures
}

// AdvancedFeatures are the contextual indices derived from the extended match data.
type AdvancedFeatures struct {
	FormIndexHome          float64
	FormIndexAway          float64
	MomentumHome           float64
	MomentumAway           float64
	HomeAdvantage          float64
	XGDifferential         float64
	DefensiveStabilityHome float64
	DefensiveStabilityAway float64
	FatigueHome            float64
	FatigueAway            float64
	RotationRiskHome       float64
	RotationRiskAway       float64
	MotivationHome         float64
	MotivationAway         float64
	WeatherImpact          float64
	RefereeBias            float64
}

// Derive builds the feature set for a match. It never fails: every absent
// optional value falls back to its documented default.
func Derive(match models.MatchContext) FeatureSet {
	return FeatureSet{
		HomeStrength:        StrengthIndex(match.HomeForm),
		AwayStrength:        StrengthIndex(match.AwayForm),
		HomeXG:              match.HomeXG,
		AwayXG:              match.AwayXG,
		HomePossession:      match.HomePossession,
		AwayPossession:      match.AwayPossession,
		HomeDefensiveRating: match.HomeDefensiveRating,
		AwayDefensiveRating: match.AwayDefensiveRating,
		IsHomeAdvantage:     match.HomeAdvantage,
		Advanced:            deriveAdvanced(match.Extended),
	}
}

func deriveAdvanced(ext *models.ExtendedContext) AdvancedFeatures {
	if ext == nil {
		ext = &models.ExtendedContext{}
	}
	home, away := ext.Home, ext.Away
	stage := ext.CompetitionStage
	if stage == "" {
		stage = models.DefaultCompetitionStage
	}

	return AdvancedFeatures{
		FormIndexHome: FormIndex(home.RecentResults),
		FormIndexAway: FormIndex(away.RecentResults),
		MomentumHome:  Momentum(home.PointsLast5, home.PointsLast10, home.PointsLast20),
		MomentumAway:  Momentum(away.PointsLast5, away.PointsLast10, away.PointsLast20),
		HomeAdvantage: HomeAdvantage(home.HomeRecord),
		XGDifferential: XGDifferential(
			models.FloatOr(home.XGAvg, defaultXGAvg),
			models.FloatOr(away.XGAvg, defaultXGAvg),
		),
		DefensiveStabilityHome: DefensiveStability(home.CleanSheets, home.GoalsConceded,
			models.IntOr(home.MatchesPlayed, defaultMatchesPlayed)),
		DefensiveStabilityAway: DefensiveStability(away.CleanSheets, away.GoalsConceded,
			models.IntOr(away.MatchesPlayed, defaultMatchesPlayed)),
		FatigueHome: Fatigue(models.IntOr(home.DaysSinceLastMatch, defaultDaysSinceLastMatch),
			models.IntOr(home.MatchesIn14Days, defaultMatchesIn14Days)),
		FatigueAway: Fatigue(models.IntOr(away.DaysSinceLastMatch, defaultDaysSinceLastMatch),
			models.IntOr(away.MatchesIn14Days, defaultMatchesIn14Days)),
		RotationRiskHome: RotationRisk(models.IntOr(home.SquadDepth, defaultSquadDepth), home.KeyPlayersOut, stage),
		RotationRiskAway: RotationRisk(models.IntOr(away.SquadDepth, defaultSquadDepth), away.KeyPlayersOut, stage),
		MotivationHome:   Motivation(home.PreviousResults, ext.HomeCupParticipation, home.ChampionshipContention),
		MotivationAway:   Motivation(away.PreviousResults, ext.AwayCupParticipation, away.ChampionshipContention),
		WeatherImpact:    WeatherImpact(ext.Weather, home.WeatherAffinity),
		RefereeBias:      RefereeBias(ext.RefereeID, ext.Referees),
	}
}

// Map flattens the feature set into named scalars. Booleans become 0 or 1.
func (f FeatureSet) Map() map[string]float64 {
	adv := f.Advanced
	homeAdv := 0.0
	if f.IsHomeAdvantage {
		homeAdv = 1
	}
	return map[string]float64{
		"home_strength":            f.HomeStrength,
		"away_strength":            f.AwayStrength,
		"home_xg":                  f.HomeXG,
		"away_xg":                  f.AwayXG,
		"home_possession":          f.HomePossession,
		"away_possession":          f.AwayPossession,
		"home_defensive_rating":    f.HomeDefensiveRating,
		"away_defensive_rating":    f.AwayDefensiveRating,
		"is_home_advantage":        homeAdv,
		"form_index_home":          adv.FormIndexHome,
		"form_index_away":          adv.FormIndexAway,
		"momentum_home":            adv.MomentumHome,
		"momentum_away":            adv.MomentumAway,
		"home_advantage":           adv.HomeAdvantage,
		"xg_differential":          adv.XGDifferential,
		"defensive_stability_home": adv.DefensiveStabilityHome,
		"defensive_stability_away": adv.DefensiveStabilityAway,
		"fatigue_home":             adv.FatigueHome,
		"fatigue_away":             adv.FatigueAway,
		"rotation_risk_home":       adv.RotationRiskHome,
		"rotation_risk_away":       adv.RotationRiskAway,
		"motivation_home":          adv.MotivationHome,
		"motivation_away":          adv.MotivationAway,
		"weather_impact":           adv.WeatherImpact,
		"referee_bias":             adv.RefereeBias,
	}
}

// StrengthDiff is home strength minus away strength.
func (f FeatureSet) StrengthDiff() float64 {
	return f.HomeStrength - f.AwayStrength
}
