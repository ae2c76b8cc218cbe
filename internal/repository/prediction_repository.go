// Package repository persists prediction records in PostgreSQL.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/yourusername/predictsports-engine/internal/models"
)

// MaxRecentLimit caps list queries
const MaxRecentLimit = 100

const predictionColumns = `id, match_id, home_team_id, away_team_id, home_win, draw, away_win,
	model_agreement, confidence, model_version, features, predicted_at`

// PostgresPredictionRepository implements PredictionRepository for PostgreSQL
type PostgresPredictionRepository struct {
	db DBTX
}

// NewPostgresPredictionRepository creates a new prediction repository
func NewPostgresPredictionRepository(db DBTX) *PostgresPredictionRepository {
	return &PostgresPredictionRepository{db: db}
}

// Save inserts a prediction record
func (r *PostgresPredictionRepository) Save(ctx context.Context, record *models.PredictionRecord) error {
	if record == nil {
		return fmt.Errorf("prediction record is required")
	}

	query := `
		INSERT INTO predictions (` + predictionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.db.Exec(ctx, query,
		record.ID, record.MatchID, record.HomeTeamID, record.AwayTeamID,
		record.HomeWin, record.Draw, record.AwayWin,
		record.ModelAgreement, string(record.Confidence), record.ModelVersion,
		[]byte(record.Features), record.PredictedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save prediction: %w", err)
	}

	return nil
}

// GetByID retrieves a prediction by ID
func (r *PostgresPredictionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.PredictionRecord, error) {
	query := `SELECT ` + predictionColumns + ` FROM predictions WHERE id = $1`

	record, err := scanRecord(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get prediction: %w", err)
	}

	return record, nil
}

// Recent returns the newest predictions first
func (r *PostgresPredictionRepository) Recent(ctx context.Context, limit int) ([]*models.PredictionRecord, error) {
	query := `
		SELECT ` + predictionColumns + `
		FROM predictions
		ORDER BY predicted_at DESC
		LIMIT $1
	`

	rows, err := r.db.Query(ctx, query, ClampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to query recent predictions: %w", err)
	}
	return collectRecords(rows)
}

// ByMatch returns the newest predictions for a match id such as "12_vs_7"
func (r *PostgresPredictionRepository) ByMatch(ctx context.Context, matchID string, limit int) ([]*models.PredictionRecord, error) {
	query := `
		SELECT ` + predictionColumns + `
		FROM predictions
		WHERE match_id = $1
		ORDER BY predicted_at DESC
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, matchID, ClampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to query match predictions: %w", err)
	}
	return collectRecords(rows)
}

// ClampLimit bounds a list limit to [1, MaxRecentLimit], treating non-positive values as 20
func ClampLimit(limit int) int {
	switch {
	case limit <= 0:
		return 20
	case limit > MaxRecentLimit:
		return MaxRecentLimit
	default:
		return limit
	}
}

func collectRecords(rows pgx.Rows) ([]*models.PredictionRecord, error) {
	defer rows.Close()

	var records []*models.PredictionRecord
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan prediction: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating predictions: %w", err)
	}

	return records, nil
}

func scanRecord(row pgx.Row) (*models.PredictionRecord, error) {
	record := &models.PredictionRecord{}
	var confidence string
	var features []byte
	err := row.Scan(
		&record.ID, &record.MatchID, &record.HomeTeamID, &record.AwayTeamID,
		&record.HomeWin, &record.Draw, &record.AwayWin,
		&record.ModelAgreement, &confidence, &record.ModelVersion,
		&features, &record.PredictedAt,
	)
	if err != nil {
		return nil, err
	}
	record.Confidence = models.Confidence(confidence)
	record.Features = features
	return record, nil
}
