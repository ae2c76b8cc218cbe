package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Confidence is the categorical confidence attached to an ensemble prediction.
type Confidence string

// Confidence levels, ordered from weakest to strongest.
const (
	ConfidenceLow      Confidence = "low"
	ConfidenceMedium   Confidence = "medium"
	ConfidenceHigh     Confidence = "high"
	ConfidenceVeryHigh Confidence = "very_high"
)

// OutcomeDistribution is a (home win, draw, away win) probability triple.
type OutcomeDistribution struct {
	HomeWin float64 `json:"home_win"`
	Draw    float64 `json:"draw"`
	AwayWin float64 `json:"away_win"`
}

// Sum returns the total mass of the triple.
func (d OutcomeDistribution) Sum() float64 {
	return d.HomeWin + d.Draw + d.AwayWin
}

// Normalize rescales the triple so it sums to 1. A triple with no mass
// becomes uniform.
func (d OutcomeDistribution) Normalize() OutcomeDistribution {
	total := d.Sum()
	if total <= 0 {
		return OutcomeDistribution{HomeWin: 1.0 / 3, Draw: 1.0 / 3, AwayWin: 1.0 / 3}
	}
	return OutcomeDistribution{
		HomeWin: d.HomeWin / total,
		Draw:    d.Draw / total,
		AwayWin: d.AwayWin / total,
	}
}

// MostLikely returns the label and probability of the strongest outcome.
// Ties resolve in the order home, draw, away.
func (d OutcomeDistribution) MostLikely() (string, float64) {
	label, best := "home_win", d.HomeWin
	if d.Draw > best {
		label, best = "draw", d.Draw
	}
	if d.AwayWin > best {
		label, best = "away_win", d.AwayWin
	}
	return label, best
}

// EnsembleResult is the combined output of all sub-models for one fixture.
type EnsembleResult struct {
	OutcomeDistribution
	ModelAgreement float64                        `json:"model_agreement"`
	Confidence     Confidence                     `json:"confidence"`
	Models         map[string]OutcomeDistribution `json:"models,omitempty"`
}

// Scoreline is the probability of one exact final score.
type Scoreline struct {
	Score       string  `json:"score"`
	HomeGoals   int     `json:"home_goals"`
	AwayGoals   int     `json:"away_goals"`
	Probability float64 `json:"probability"`
}

// NewScoreline builds a scoreline with its "h-a" label.
func NewScoreline(home, away int, probability float64) Scoreline {
	return Scoreline{
		Score:       fmt.Sprintf("%d-%d", home, away),
		HomeGoals:   home,
		AwayGoals:   away,
		Probability: probability,
	}
}

// GoalMarkets maps an over/under market key (e.g. "over_2") to its probability.
type GoalMarkets map[string]float64

// PredictionRecord is a persisted prediction.
type PredictionRecord struct {
	ID             uuid.UUID       `db:"id" json:"id"`
	MatchID        string          `db:"match_id" json:"match_id"`
	HomeTeamID     int             `db:"home_team_id" json:"home_team_id"`
	AwayTeamID     int             `db:"away_team_id" json:"away_team_id"`
	HomeWin        float64         `db:"home_win" json:"home_win"`
	Draw           float64         `db:"draw" json:"draw"`
	AwayWin        float64         `db:"away_win" json:"away_win"`
	ModelAgreement float64         `db:"model_agreement" json:"model_agreement"`
	Confidence     Confidence      `db:"confidence" json:"confidence"`
	ModelVersion   string          `db:"model_version" json:"model_version"`
	Features       json.RawMessage `db:"features" json:"features"`
	PredictedAt    time.Time       `db:"predicted_at" json:"predicted_at"`
}

// NewPredictionRecord builds a record from an ensemble result.
func NewPredictionRecord(ctx MatchContext, result *EnsembleResult, features map[string]float64, modelVersion string) (*PredictionRecord, error) {
	raw, err := json.Marshal(features)
	if err != nil {
		return nil, fmt.Errorf("failed to encode features: %w", err)
	}
	return &PredictionRecord{
		ID:             uuid.New(),
		MatchID:        ctx.MatchID(),
		HomeTeamID:     ctx.HomeTeamID,
		AwayTeamID:     ctx.AwayTeamID,
		HomeWin:        result.HomeWin,
		Draw:           result.Draw,
		AwayWin:        result.AwayWin,
		ModelAgreement: result.ModelAgreement,
		Confidence:     result.Confidence,
		ModelVersion:   modelVersion,
		Features:       raw,
		PredictedAt:    time.Now().UTC(),
	}, nil
}
