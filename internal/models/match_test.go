package models

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestToContextAppliesDefaults(t *testing.T) {
	in := MatchInput{HomeTeamID: 1, AwayTeamID: 2}
	ctx := in.ToContext()

	assert.Equal(t, DefaultForm, ctx.HomeForm)
	assert.Equal(t, DefaultForm, ctx.AwayForm)
	assert.Equal(t, DefaultHomeXG, ctx.HomeXG)
	assert.Equal(t, DefaultAwayXG, ctx.AwayXG)
	assert.Equal(t, DefaultPossession, ctx.HomePossession)
	assert.Equal(t, DefaultDefensiveRating, ctx.AwayDefensiveRating)
	assert.True(t, ctx.HomeAdvantage)
	assert.Nil(t, ctx.Extended)
	assert.Equal(t, "1_vs_2", ctx.MatchID())
}

func TestToContextKeepsExplicitZeroValues(t *testing.T) {
	in := MatchInput{
		HomeTeamID:      1,
		AwayTeamID:      2,
		HomeForm:        ptr(""),
		HomeXG:          ptr(0.0),
		IsHomeAdvantage: ptr(false),
	}
	ctx := in.ToContext()

	assert.Equal(t, "", ctx.HomeForm)
	assert.Equal(t, 0.0, ctx.HomeXG)
	assert.False(t, ctx.HomeAdvantage)
}

func TestValidateMatchInput(t *testing.T) {
	tests := []struct {
		name    string
		input   MatchInput
		wantErr bool
	}{
		{
			name:  "minimal valid",
			input: MatchInput{HomeTeamID: 1, AwayTeamID: 2},
		},
		{
			name:    "missing home team",
			input:   MatchInput{AwayTeamID: 2},
			wantErr: true,
		},
		{
			name:    "same teams",
			input:   MatchInput{HomeTeamID: 3, AwayTeamID: 3},
			wantErr: true,
		},
		{
			name:    "bad form characters",
			input:   MatchInput{HomeTeamID: 1, AwayTeamID: 2, HomeForm: ptr("WWX")},
			wantErr: true,
		},
		{
			name:    "possession above 100",
			input:   MatchInput{HomeTeamID: 1, AwayTeamID: 2, AwayPossession: ptr(120.0)},
			wantErr: true,
		},
		{
			name: "extended with unknown stage",
			input: MatchInput{HomeTeamID: 1, AwayTeamID: 2, Extended: &ExtendedContext{
				CompetitionStage: "final",
			}},
			wantErr: true,
		},
		{
			name: "extended with bad recent result",
			input: MatchInput{HomeTeamID: 1, AwayTeamID: 2, Extended: &ExtendedContext{
				Home: TeamContext{RecentResults: []string{"W", "Q"}},
			}},
			wantErr: true,
		},
		{
			name: "extended valid",
			input: MatchInput{HomeTeamID: 1, AwayTeamID: 2, Extended: &ExtendedContext{
				CompetitionStage: "late",
				Home:             TeamContext{RecentResults: []string{"W", "D"}},
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.input.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidMatch))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestOutcomeDistributionNormalize(t *testing.T) {
	d := OutcomeDistribution{HomeWin: 2, Draw: 1, AwayWin: 1}.Normalize()
	assert.InDelta(t, 1.0, d.Sum(), 1e-12)
	assert.InDelta(t, 0.5, d.HomeWin, 1e-12)

	empty := OutcomeDistribution{}.Normalize()
	assert.InDelta(t, 1.0, empty.Sum(), 1e-12)
}

func TestOutcomeDistributionMostLikely(t *testing.T) {
	label, p := OutcomeDistribution{HomeWin: 0.2, Draw: 0.5, AwayWin: 0.3}.MostLikely()
	assert.Equal(t, "draw", label)
	assert.Equal(t, 0.5, p)

	label, _ = OutcomeDistribution{HomeWin: 0.4, Draw: 0.2, AwayWin: 0.4}.MostLikely()
	assert.Equal(t, "home_win", label)
}

func TestPredictionRecordFeatures(t *testing.T) {
	ctx := MatchInput{HomeTeamID: 5, AwayTeamID: 9}.ToContext()
	result := &EnsembleResult{
		OutcomeDistribution: OutcomeDistribution{HomeWin: 0.5, Draw: 0.3, AwayWin: 0.2},
		ModelAgreement:      0.9,
		Confidence:          ConfidenceMedium,
	}

	rec, err := NewPredictionRecord(ctx, result, map[string]float64{"home_strength": 1}, "v1")
	require.NoError(t, err)
	assert.Equal(t, "5_vs_9", rec.MatchID)

	var features map[string]float64
	require.NoError(t, json.Unmarshal(rec.Features, &features))
	assert.Equal(t, 1.0, features["home_strength"])
}
