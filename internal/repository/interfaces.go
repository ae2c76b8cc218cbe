package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/yourusername/predictsports-engine/internal/models"
)

// PredictionRepository defines the interface for prediction data access
type PredictionRepository interface {
	Save(ctx context.Context, record *models.PredictionRecord) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.PredictionRecord, error)
	Recent(ctx context.Context, limit int) ([]*models.PredictionRecord, error)
	ByMatch(ctx context.Context, matchID string, limit int) ([]*models.PredictionRecord, error)
}

// DBTX is the subset of pgxpool.Pool used by the repositories
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}
