package database

import (
	"context"
	"fmt"
)

const predictionsSchema = `
CREATE TABLE IF NOT EXISTS predictions (
	id              UUID PRIMARY KEY,
	match_id        TEXT NOT NULL,
	home_team_id    INTEGER NOT NULL,
	away_team_id    INTEGER NOT NULL,
	home_win        DOUBLE PRECISION NOT NULL,
	draw            DOUBLE PRECISION NOT NULL,
	away_win        DOUBLE PRECISION NOT NULL,
	model_agreement DOUBLE PRECISION NOT NULL,
	confidence      TEXT NOT NULL,
	model_version   TEXT NOT NULL,
	features        JSONB,
	predicted_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_predictions_predicted_at ON predictions (predicted_at DESC);
CREATE INDEX IF NOT EXISTS idx_predictions_match_id ON predictions (match_id);
`

// EnsureSchema creates the predictions table and its indexes when missing
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, predictionsSchema); err != nil {
		return fmt.Errorf("failed to apply predictions schema: %w", err)
	}
	return nil
}
