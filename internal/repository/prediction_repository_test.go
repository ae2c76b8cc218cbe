package repository

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/predictsports-engine/internal/database"
	"github.com/yourusername/predictsports-engine/internal/models"
)

type mockDB struct {
	mock.Mock
}

func (m *mockDB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	called := m.Called(ctx, sql, args)
	return pgconn.NewCommandTag(called.String(0)), called.Error(1)
}

func (m *mockDB) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	called := m.Called(ctx, sql, args)
	rows, _ := called.Get(0).(pgx.Rows)
	return rows, called.Error(1)
}

func (m *mockDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	called := m.Called(ctx, sql, args)
	return called.Get(0).(pgx.Row)
}

type stubRow struct {
	err error
}

func (r stubRow) Scan(dest ...any) error {
	return r.err
}

func sampleRecord(t *testing.T) *models.PredictionRecord {
	t.Helper()
	record, err := models.NewPredictionRecord(
		models.MatchContext{HomeTeamID: 12, AwayTeamID: 7},
		&models.EnsembleResult{
			OutcomeDistribution: models.OutcomeDistribution{HomeWin: 0.5, Draw: 0.3, AwayWin: 0.2},
			ModelAgreement:      0.9,
			Confidence:          models.ConfidenceMedium,
		},
		map[string]float64{"home_xg": 1.5},
		"1.0.0",
	)
	require.NoError(t, err)
	return record
}

func TestSavePrediction(t *testing.T) {
	db := new(mockDB)
	repo := NewPostgresPredictionRepository(db)
	record := sampleRecord(t)

	db.On("Exec", mock.Anything, mock.MatchedBy(func(sql string) bool {
		return strings.Contains(sql, "INSERT INTO predictions")
	}), mock.MatchedBy(func(args []any) bool {
		return len(args) == 12 && args[0] == record.ID && args[1] == "12_vs_7" && args[8] == "medium"
	})).Return("INSERT 0 1", nil).Once()

	require.NoError(t, repo.Save(context.Background(), record))
	db.AssertExpectations(t)
}

func TestSavePredictionError(t *testing.T) {
	db := new(mockDB)
	repo := NewPostgresPredictionRepository(db)

	db.On("Exec", mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("connection reset")).Once()

	err := repo.Save(context.Background(), sampleRecord(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to save prediction")

	assert.Error(t, repo.Save(context.Background(), nil))
}

func TestGetByIDNotFound(t *testing.T) {
	db := new(mockDB)
	repo := NewPostgresPredictionRepository(db)

	db.On("QueryRow", mock.Anything, mock.Anything, mock.Anything).Return(stubRow{err: pgx.ErrNoRows}).Once()

	_, err := repo.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestRecentQueryError(t *testing.T) {
	db := new(mockDB)
	repo := NewPostgresPredictionRepository(db)

	db.On("Query", mock.Anything, mock.Anything, []any{MaxRecentLimit}).Return(nil, errors.New("timeout")).Once()

	_, err := repo.Recent(context.Background(), 5000)
	require.Error(t, err)
	db.AssertExpectations(t)
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, 20, ClampLimit(0))
	assert.Equal(t, 20, ClampLimit(-3))
	assert.Equal(t, 7, ClampLimit(7))
	assert.Equal(t, MaxRecentLimit, ClampLimit(MaxRecentLimit+1))
}

func TestPredictionRepositoryIntegration(t *testing.T) {
	db := database.SetupTestDB(t)
	defer database.TeardownTestDB(t, db)

	repo := NewPostgresPredictionRepository(db.GetPool())
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	record := sampleRecord(t)
	require.NoError(t, repo.Save(ctx, record))

	got, err := repo.GetByID(ctx, record.ID)
	require.NoError(t, err)
	assert.Equal(t, record.MatchID, got.MatchID)
	assert.Equal(t, models.ConfidenceMedium, got.Confidence)

	var features map[string]float64
	require.NoError(t, json.Unmarshal(got.Features, &features))
	assert.Equal(t, 1.5, features["home_xg"])

	recent, err := repo.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 1)

	byMatch, err := repo.ByMatch(ctx, "12_vs_7", 10)
	require.NoError(t, err)
	assert.Len(t, byMatch, 1)
}
