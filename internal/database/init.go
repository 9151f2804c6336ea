package database

import (
	"context"
	"fmt"

	"github.com/yourusername/spreadline/internal/config"
)

// schema holds the pipeline tables. The unique constraint on
// games.external_id is the natural key for idempotent upsert; the check on
// completed games guarantees a completed game always carries both scores.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY,
		email VARCHAR(255) UNIQUE NOT NULL,
		username VARCHAR(100) UNIQUE NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS games (
		id UUID PRIMARY KEY,
		external_id VARCHAR(255) UNIQUE NOT NULL,
		sport VARCHAR(50) NOT NULL,
		game_time TIMESTAMPTZ NOT NULL,
		away_team VARCHAR(255) NOT NULL,
		home_team VARCHAR(255) NOT NULL,
		away_score INTEGER,
		home_score INTEGER,
		is_completed BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT completed_games_have_scores CHECK (
			NOT is_completed OR (away_score IS NOT NULL AND home_score IS NOT NULL)
		)
	)`,
	`CREATE TABLE IF NOT EXISTS odds (
		id UUID PRIMARY KEY,
		game_id UUID NOT NULL REFERENCES games(id) ON DELETE CASCADE,
		bookmaker VARCHAR(100) NOT NULL,
		away_ml INTEGER,
		home_ml INTEGER,
		away_spread DOUBLE PRECISION,
		home_spread DOUBLE PRECISION,
		spread_odds INTEGER,
		total_line DOUBLE PRECISION,
		over_odds INTEGER,
		under_odds INTEGER,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT one_snapshot_per_game_bookmaker UNIQUE (game_id, bookmaker)
	)`,
	`CREATE TABLE IF NOT EXISTS bets (
		id UUID PRIMARY KEY,
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		game_id UUID NOT NULL REFERENCES games(id) ON DELETE CASCADE,
		bet_type VARCHAR(20) NOT NULL,
		team VARCHAR(255),
		line DOUBLE PRECISION,
		odds INTEGER NOT NULL,
		stake NUMERIC(12,2) NOT NULL,
		result VARCHAR(20) NOT NULL DEFAULT 'PENDING',
		profit NUMERIC(12,2),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT pending_bets_have_no_profit CHECK (
			(result = 'PENDING') = (profit IS NULL)
		)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_games_game_time ON games (game_time)`,
	`CREATE INDEX IF NOT EXISTS idx_bets_game_result ON bets (game_id, result)`,
	`CREATE INDEX IF NOT EXISTS idx_bets_user ON bets (user_id)`,
}

// Initialize creates a database connection pool and ensures the schema exists.
func Initialize(ctx context.Context, cfg *config.Config) (*DB, error) {
	db, err := NewDB(ctx, &cfg.Database)
	if err != nil {
		return nil, err
	}

	if err := db.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// EnsureSchema applies the pipeline schema idempotently.
func (db *DB) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := db.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement: %w", err)
		}
	}
	return nil
}
