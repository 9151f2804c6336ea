package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/yourusername/spreadline/internal/database"
	"github.com/yourusername/spreadline/internal/models"
)

// PostgresOddsRepository implements OddsRepository for PostgreSQL
type PostgresOddsRepository struct {
	db *database.DB
}

// NewPostgresOddsRepository creates a new odds repository
func NewPostgresOddsRepository(db *database.DB) OddsRepository {
	return &PostgresOddsRepository{db: db}
}

const oddsColumns = `id, game_id, bookmaker, away_ml, home_ml, away_spread,
       home_spread, spread_odds, total_line, over_odds, under_odds, created_at, updated_at`

// ReplaceForGame deletes the previous snapshot for the game before inserting
// the fresh one. Odds is "latest known line", never a history, so at most one
// row survives per game regardless of bookmaker changes between fetches.
func (o *PostgresOddsRepository) ReplaceForGame(ctx context.Context, odds *models.Odds) error {
	q := o.db.Querier(ctx)

	if _, err := q.Exec(ctx, `DELETE FROM odds WHERE game_id = $1`, odds.GameID); err != nil {
		return fmt.Errorf("failed to delete stale odds: %w", err)
	}

	query := `
		INSERT INTO odds (id, game_id, bookmaker, away_ml, home_ml, away_spread,
		                  home_spread, spread_odds, total_line, over_odds, under_odds)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := q.Exec(ctx, query,
		odds.ID, odds.GameID, odds.Bookmaker, odds.AwayML, odds.HomeML, odds.AwaySpread,
		odds.HomeSpread, odds.SpreadOdds, odds.TotalLine, odds.OverOdds, odds.UnderOdds,
	)
	if err != nil {
		return fmt.Errorf("failed to insert odds: %w", err)
	}

	return nil
}

// GetByGameID retrieves the latest snapshot for a game
func (o *PostgresOddsRepository) GetByGameID(ctx context.Context, gameID uuid.UUID) (*models.Odds, error) {
	query := `SELECT ` + oddsColumns + ` FROM odds WHERE game_id = $1`

	odds := &models.Odds{}
	err := o.db.Querier(ctx).QueryRow(ctx, query, gameID).Scan(
		&odds.ID, &odds.GameID, &odds.Bookmaker, &odds.AwayML, &odds.HomeML, &odds.AwaySpread,
		&odds.HomeSpread, &odds.SpreadOdds, &odds.TotalLine, &odds.OverOdds, &odds.UnderOdds,
		&odds.CreatedAt, &odds.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get odds: %w", err)
	}

	return odds, nil
}
