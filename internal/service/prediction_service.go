// Package service implements the prediction use cases served over HTTP and the CLI.
package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/predictsports-engine/internal/cache"
	"github.com/yourusername/predictsports-engine/internal/ensemble"
	"github.com/yourusername/predictsports-engine/internal/logger"
	"github.com/yourusername/predictsports-engine/internal/metrics"
	"github.com/yourusername/predictsports-engine/internal/models"
	"github.com/yourusername/predictsports-engine/internal/odds"
	"github.com/yourusername/predictsports-engine/internal/repository"
)

var matchIDPattern = regexp.MustCompile(`^[0-9]+_vs_[0-9]+$`)

// ErrPersistenceDisabled is returned by read operations when no repository is configured
var ErrPersistenceDisabled = errors.New("prediction persistence is disabled")

// Options configures a PredictionService. Cache and Repository are optional.
type Options struct {
	Cache        cache.Store
	Repository   repository.PredictionRepository
	Logger       *logrus.Logger
	ModelVersion string
	TopN         int
}

// PredictionService runs the ensemble for validated match input, caching
// responses and optionally persisting each fresh prediction.
type PredictionService struct {
	engine       *ensemble.Engine
	cache        cache.Store
	repo         repository.PredictionRepository
	log          *logger.PredictionLogger
	audit        *logger.AuditLogger
	modelVersion string
	topN         int
}

// NewPredictionService creates a prediction service
func NewPredictionService(engine *ensemble.Engine, opts Options) *PredictionService {
	base := opts.Logger
	if base == nil {
		base = logger.Discard()
	}
	topN := opts.TopN
	if topN <= 0 {
		topN = ensemble.DefaultTopN
	}
	return &PredictionService{
		engine:       engine,
		cache:        opts.Cache,
		repo:         opts.Repository,
		log:          logger.NewPredictionLogger(base),
		audit:        logger.NewAuditLogger(base),
		modelVersion: opts.ModelVersion,
		topN:         topN,
	}
}

// Predict returns probabilities, scorelines and goal markets for a match
func (s *PredictionService) Predict(ctx context.Context, input models.MatchInput) (*PredictionResponse, error) {
	return s.predict(ctx, input, true)
}

// Analyze summarises the ensemble prediction for a match. Analyses are not persisted.
func (s *PredictionService) Analyze(ctx context.Context, input models.MatchInput) (*AnalysisResponse, error) {
	resp, err := s.predict(ctx, input, false)
	if err != nil {
		return nil, err
	}

	probs := resp.Predictions.Probabilities
	label, value := probs.MostLikely()

	return &AnalysisResponse{
		Success: true,
		MatchID: resp.MatchID,
		Analysis: Analysis{
			PredictedOutcome: value,
			PredictedResult:  label,
			ConfidenceLevel:  probs.Confidence,
			ModelAgreement:   probs.ModelAgreement,
			KeyFactors:       keyFactors(input.ToContext()),
			FairOdds:         odds.ForDistribution(probs.OutcomeDistribution),
		},
	}, nil
}

// Features returns the derived feature set for a match
func (s *PredictionService) Features(ctx context.Context, input models.MatchInput) (*FeaturesResponse, error) {
	if err := input.Validate(); err != nil {
		metrics.RecordPredictionError("validation")
		return nil, err
	}

	match := input.ToContext()
	fs, err := s.engine.Features(match)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidMatch, err)
	}

	return &FeaturesResponse{
		Success:  true,
		MatchID:  match.MatchID(),
		Features: fs.Map(),
	}, nil
}

// Recent returns the newest stored predictions
func (s *PredictionService) Recent(ctx context.Context, limit int) ([]*models.PredictionRecord, error) {
	if s.repo == nil {
		return nil, ErrPersistenceDisabled
	}
	return s.repo.Recent(ctx, limit)
}

// ByMatch returns the newest stored predictions for a match id such as "12_vs_7"
func (s *PredictionService) ByMatch(ctx context.Context, matchID string, limit int) ([]*models.PredictionRecord, error) {
	if s.repo == nil {
		return nil, ErrPersistenceDisabled
	}
	if !matchIDPattern.MatchString(matchID) {
		return nil, fmt.Errorf("%w: %s", models.ErrInvalidID, matchID)
	}
	return s.repo.ByMatch(ctx, matchID, limit)
}

// Get returns one stored prediction by its id
func (s *PredictionService) Get(ctx context.Context, id string) (*models.PredictionRecord, error) {
	if s.repo == nil {
		return nil, ErrPersistenceDisabled
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", models.ErrInvalidID, id)
	}
	return s.repo.GetByID(ctx, parsed)
}

func (s *PredictionService) predict(ctx context.Context, input models.MatchInput, persist bool) (*PredictionResponse, error) {
	start := time.Now()
	matchID := input.MatchID()

	if err := input.Validate(); err != nil {
		metrics.RecordPredictionError("validation")
		s.log.LogPredictionError(matchID, err.Error())
		return nil, err
	}

	match := input.ToContext()
	key, err := cache.Key(match, s.modelVersion)
	if err != nil {
		return nil, err
	}

	if cached, ok := s.lookup(ctx, key); ok {
		s.log.LogPrediction(matchID, &cached.Predictions.Probabilities, true, elapsedMs(start))
		return cached, nil
	}

	fs, err := s.engine.Features(match)
	if err != nil {
		metrics.RecordPredictionError("invalid_context")
		s.log.LogPredictionError(matchID, err.Error())
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidMatch, err)
	}

	result, err := s.engine.PredictFeatures(fs)
	if err != nil {
		metrics.RecordPredictionError("engine")
		s.log.LogPredictionError(matchID, err.Error())
		return nil, fmt.Errorf("ensemble prediction failed: %w", err)
	}

	markets := s.engine.ScorelinesAndMarkets(fs, s.topN)
	resp := &PredictionResponse{
		Success: true,
		MatchID: matchID,
		Predictions: Predictions{
			Probabilities:    *result,
			Scorelines:       markets.Scorelines,
			GoalMarkets:      markets.GoalMarkets,
			ExactGoalMarkets: markets.ExactMarkets,
		},
		ModelVersion: s.modelVersion,
		PredictedAt:  time.Now().UTC(),
	}

	// Analyze must not fill the cache or the next Predict would skip persistence
	if persist {
		s.store(ctx, key, resp)
		s.persist(ctx, match, result, fs.Map())
	}

	metrics.RecordPrediction(string(result.Confidence), result.ModelAgreement, time.Since(start).Seconds())
	s.log.LogPrediction(matchID, result, false, elapsedMs(start))
	return resp, nil
}

func (s *PredictionService) lookup(ctx context.Context, key string) (*PredictionResponse, bool) {
	if s.cache == nil {
		return nil, false
	}

	var cached PredictionResponse
	err := s.cache.Get(ctx, key, &cached)
	switch {
	case err == nil:
		s.log.LogCacheEvent("get", key, true)
		cached.Cached = true
		return &cached, true
	case errors.Is(err, cache.ErrCacheMiss):
		s.log.LogCacheEvent("get", key, false)
	default:
		s.log.WithError(err).WithField("cache_key", key).Warn("Prediction cache lookup failed")
	}
	return nil, false
}

func (s *PredictionService) store(ctx context.Context, key string, resp *PredictionResponse) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, resp); err != nil {
		s.log.WithError(err).WithField("cache_key", key).Warn("Failed to cache prediction")
		return
	}
	s.log.LogCacheEvent("set", key, false)
}

// persist stores the prediction record. Failures are logged, never returned.
func (s *PredictionService) persist(ctx context.Context, match models.MatchContext, result *models.EnsembleResult, features map[string]float64) {
	if s.repo == nil {
		return
	}

	record, err := models.NewPredictionRecord(match, result, features, s.modelVersion)
	if err != nil {
		s.log.WithError(err).Warn("Failed to build prediction record")
		return
	}
	if err := s.repo.Save(ctx, record); err != nil {
		metrics.RecordPredictionError("persistence")
		s.log.WithError(err).WithField("match_id", record.MatchID).Warn("Failed to persist prediction")
		return
	}

	metrics.RecordPredictionStored()
	s.audit.LogPredictionStored(record.ID.String(), record.MatchID, record.ModelVersion)
}

func keyFactors(match models.MatchContext) []string {
	home := "No home advantage"
	if match.HomeAdvantage {
		home = "Home advantage considered"
	}
	return []string{
		fmt.Sprintf("Form difference: %s vs %s", match.HomeForm, match.AwayForm),
		fmt.Sprintf("Expected goals: %s vs %s", formatDecimal(match.HomeXG), formatDecimal(match.AwayXG)),
		home,
	}
}

// formatDecimal prints whole numbers with one decimal place, e.g. 2 as "2.0".
func formatDecimal(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if v == float64(int64(v)) {
		s += ".0"
	}
	return s
}

func elapsedMs(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000
}
