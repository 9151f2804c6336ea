package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/yourusername/spreadline/internal/database"
	"github.com/yourusername/spreadline/internal/models"
)

// PostgresGameRepository implements GameRepository for PostgreSQL
type PostgresGameRepository struct {
	db *database.DB
}

// NewPostgresGameRepository creates a new game repository
func NewPostgresGameRepository(db *database.DB) GameRepository {
	return &PostgresGameRepository{db: db}
}

const gameColumns = `id, external_id, sport, game_time, away_team, home_team,
       away_score, home_score, is_completed, created_at, updated_at`

// Upsert inserts a game keyed by external_id. On conflict only game_time is
// refreshed; the original team names and scores win. The unique constraint
// makes concurrent runs of the same job safe.
func (g *PostgresGameRepository) Upsert(ctx context.Context, game *models.Game) error {
	query := `
		INSERT INTO games (id, external_id, sport, game_time, away_team, home_team)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (external_id) DO UPDATE
		SET game_time = EXCLUDED.game_time, updated_at = NOW()
		RETURNING ` + gameColumns

	row := g.db.Querier(ctx).QueryRow(ctx, query,
		game.ID, game.ExternalID, game.Sport, game.GameTime, game.AwayTeam, game.HomeTeam,
	)
	if err := scanGame(row, game); err != nil {
		return fmt.Errorf("failed to upsert game: %w", err)
	}

	return nil
}

// GetByID retrieves a game by ID
func (g *PostgresGameRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games WHERE id = $1`

	game := &models.Game{}
	err := scanGame(g.db.Querier(ctx).QueryRow(ctx, query, id), game)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return game, nil
}

// GetByExternalID retrieves a game by the upstream provider's identity
func (g *PostgresGameRepository) GetByExternalID(ctx context.Context, externalID string) (*models.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games WHERE external_id = $1`

	game := &models.Game{}
	err := scanGame(g.db.Querier(ctx).QueryRow(ctx, query, externalID), game)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game by external ID: %w", err)
	}

	return game, nil
}

// GetUpcoming retrieves games starting at or after the given instant
func (g *PostgresGameRepository) GetUpcoming(ctx context.Context, from time.Time) ([]*models.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games WHERE game_time >= $1 ORDER BY game_time ASC`

	rows, err := g.db.Querier(ctx).Query(ctx, query, from)
	if err != nil {
		return nil, fmt.Errorf("failed to query upcoming games: %w", err)
	}
	defer rows.Close()

	var games []*models.Game
	for rows.Next() {
		game := &models.Game{}
		if err := scanGame(rows, game); err != nil {
			return nil, fmt.Errorf("failed to scan game: %w", err)
		}
		games = append(games, game)
	}

	return games, rows.Err()
}

// MarkCompleted records the final score. is_completed only ever transitions
// to true; there is no write path back to false.
func (g *PostgresGameRepository) MarkCompleted(ctx context.Context, id uuid.UUID, awayScore, homeScore int) error {
	query := `
		UPDATE games
		SET away_score = $2, home_score = $3, is_completed = TRUE, updated_at = NOW()
		WHERE id = $1
	`

	commandTag, err := g.db.Querier(ctx).Exec(ctx, query, id, awayScore, homeScore)
	if err != nil {
		return fmt.Errorf("failed to mark game completed: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGame(row rowScanner, game *models.Game) error {
	return row.Scan(
		&game.ID, &game.ExternalID, &game.Sport, &game.GameTime, &game.AwayTeam, &game.HomeTeam,
		&game.AwayScore, &game.HomeScore, &game.IsCompleted, &game.CreatedAt, &game.UpdatedAt,
	)
}
