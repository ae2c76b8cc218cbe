package ensemble

import (
	"fmt"
	"math"

	"github.com/yourusername/predictsports-engine/internal/features"
	"github.com/yourusername/predictsports-engine/internal/models"
)

// Engine runs every sub-model over a derived feature set. It holds no
// per-request state and is safe for concurrent use.
type Engine struct {
	kinds []ModelKind
}

// NewEngine returns an engine running all five sub-models.
func NewEngine() *Engine {
	return &Engine{kinds: AllModels}
}

// MarketSet groups the goal-market views produced for one fixture.
type MarketSet struct {
	Scorelines   []models.Scoreline `json:"scorelines"`
	GoalMarkets  models.GoalMarkets `json:"goal_markets"`
	ExactMarkets models.GoalMarkets `json:"exact_goal_markets"`
}

// Features derives the feature set for a match.
func (e *Engine) Features(match models.MatchContext) (features.FeatureSet, error) {
	if err := checkFinite(match); err != nil {
		return features.FeatureSet{}, err
	}
	return features.Derive(match), nil
}

// Predict derives features, runs each sub-model and combines the outputs.
func (e *Engine) Predict(match models.MatchContext) (*models.EnsembleResult, error) {
	fs, err := e.Features(match)
	if err != nil {
		return nil, err
	}
	return e.PredictFeatures(fs)
}

// PredictFeatures runs the ensemble over an already derived feature set.
func (e *Engine) PredictFeatures(fs features.FeatureSet) (*models.EnsembleResult, error) {
	outputs := make(map[ModelKind]models.OutcomeDistribution, len(e.kinds))
	for _, kind := range e.kinds {
		d, err := Run(kind, fs)
		if err != nil {
			return nil, err
		}
		outputs[kind] = d
	}
	return Combine(outputs)
}

// ScorelinesAndMarkets returns the topN most likely scorelines and the
// over/under goal markets for a feature set.
func (e *Engine) ScorelinesAndMarkets(fs features.FeatureSet, topN int) MarketSet {
	return MarketSet{
		Scorelines:   Scorelines(fs, topN),
		GoalMarkets:  GoalMarkets(fs),
		ExactMarkets: ExactGoalMarkets(fs),
	}
}

func checkFinite(match models.MatchContext) error {
	values := map[string]float64{
		"home_xg":               match.HomeXG,
		"away_xg":               match.AwayXG,
		"home_possession":       match.HomePossession,
		"away_possession":       match.AwayPossession,
		"home_defensive_rating": match.HomeDefensiveRating,
		"away_defensive_rating": match.AwayDefensiveRating,
	}
	for name, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s", ErrInvalidContext, name)
		}
		if v < 0 {
			return fmt.Errorf("%w: %s is negative", ErrInvalidContext, name)
		}
	}
	return nil
}
