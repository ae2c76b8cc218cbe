package service

import (
	"time"

	"github.com/yourusername/predictsports-engine/internal/models"
	"github.com/yourusername/predictsports-engine/internal/odds"
)

// PredictionResponse is the payload returned for a match prediction
type PredictionResponse struct {
	Success      bool        `json:"success"`
	MatchID      string      `json:"match_id"`
	Predictions  Predictions `json:"predictions"`
	ModelVersion string      `json:"model_version"`
	Cached       bool        `json:"cached"`
	PredictedAt  time.Time   `json:"predicted_at"`
}

// Predictions groups the outcome probabilities with the goal views
type Predictions struct {
	Probabilities    models.EnsembleResult `json:"probabilities"`
	Scorelines       []models.Scoreline    `json:"scorelines"`
	GoalMarkets      models.GoalMarkets    `json:"goal_markets"`
	ExactGoalMarkets models.GoalMarkets    `json:"exact_goal_markets"`
}

// AnalysisResponse is the payload returned for a match analysis
type AnalysisResponse struct {
	Success  bool     `json:"success"`
	MatchID  string   `json:"match_id"`
	Analysis Analysis `json:"analysis"`
}

// Analysis summarises the most likely outcome and what drove it
type Analysis struct {
	PredictedOutcome float64           `json:"predicted_outcome"`
	PredictedResult  string            `json:"predicted_result"`
	ConfidenceLevel  models.Confidence `json:"confidence_level"`
	ModelAgreement   float64           `json:"model_agreement"`
	KeyFactors       []string          `json:"key_factors"`
	FairOdds         odds.FairOdds     `json:"fair_odds"`
}

// FeaturesResponse is the payload returned for a feature derivation
type FeaturesResponse struct {
	Success  bool               `json:"success"`
	MatchID  string             `json:"match_id"`
	Features map[string]float64 `json:"features"`
}
