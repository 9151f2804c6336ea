package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/yourusername/spreadline/internal/database"
	"github.com/yourusername/spreadline/internal/models"
)

// PostgresBetRepository implements BetRepository for PostgreSQL
type PostgresBetRepository struct {
	db *database.DB
}

// NewPostgresBetRepository creates a new bet repository
func NewPostgresBetRepository(db *database.DB) BetRepository {
	return &PostgresBetRepository{db: db}
}

const betColumns = `id, user_id, game_id, bet_type, team, line, odds, stake,
       result, profit, created_at, updated_at`

// Create inserts a new pending bet
func (b *PostgresBetRepository) Create(ctx context.Context, bet *models.Bet) error {
	query := `
		INSERT INTO bets (id, user_id, game_id, bet_type, team, line, odds, stake, result)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := b.db.Querier(ctx).Exec(ctx, query,
		bet.ID, bet.UserID, bet.GameID, bet.BetType, bet.Team, bet.Line,
		bet.Odds, bet.Stake, bet.Result,
	)
	if err != nil {
		return fmt.Errorf("failed to create bet: %w", err)
	}

	return nil
}

// GetByID retrieves a bet by ID
func (b *PostgresBetRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Bet, error) {
	query := `SELECT ` + betColumns + ` FROM bets WHERE id = $1`

	bet := &models.Bet{}
	err := scanBet(b.db.Querier(ctx).QueryRow(ctx, query, id), bet)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bet: %w", err)
	}

	return bet, nil
}

// GetByUserID retrieves all bets placed by a user, newest first
func (b *PostgresBetRepository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]*models.Bet, error) {
	query := `SELECT ` + betColumns + ` FROM bets WHERE user_id = $1 ORDER BY created_at DESC`
	return b.queryBets(ctx, query, userID)
}

// GetByUserIDDecided retrieves a user's won and lost bets (pushes and pending
// bets excluded), for the per-team analytics fold.
func (b *PostgresBetRepository) GetByUserIDDecided(ctx context.Context, userID uuid.UUID) ([]*models.Bet, error) {
	query := `SELECT ` + betColumns + ` FROM bets
		WHERE user_id = $1 AND result IN ('WON', 'LOST')
		ORDER BY created_at DESC`
	return b.queryBets(ctx, query, userID)
}

// GetPendingByGameID retrieves all ungraded bets referencing a game
func (b *PostgresBetRepository) GetPendingByGameID(ctx context.Context, gameID uuid.UUID) ([]*models.Bet, error) {
	query := `SELECT ` + betColumns + ` FROM bets
		WHERE game_id = $1 AND result = 'PENDING'
		ORDER BY created_at ASC`
	return b.queryBets(ctx, query, gameID)
}

// Settle transitions a bet from PENDING to a terminal result. The WHERE
// guard makes the transition happen at most once: a second invocation, or a
// concurrent overlapping run, affects zero rows and returns false.
func (b *PostgresBetRepository) Settle(ctx context.Context, id uuid.UUID, result models.BetResult, profit decimal.Decimal) (bool, error) {
	query := `
		UPDATE bets SET result = $2, profit = $3, updated_at = NOW()
		WHERE id = $1 AND result = 'PENDING'
	`

	commandTag, err := b.db.Querier(ctx).Exec(ctx, query, id, result, profit)
	if err != nil {
		return false, fmt.Errorf("failed to settle bet: %w", err)
	}

	return commandTag.RowsAffected() > 0, nil
}

// UpdatePending updates the editable fields of an ungraded bet. A graded bet
// is immutable and yields ErrBetAlreadyGraded.
func (b *PostgresBetRepository) UpdatePending(ctx context.Context, bet *models.Bet) error {
	query := `
		UPDATE bets SET bet_type = $2, team = $3, line = $4, odds = $5, stake = $6, updated_at = NOW()
		WHERE id = $1 AND result = 'PENDING'
	`

	commandTag, err := b.db.Querier(ctx).Exec(ctx, query,
		bet.ID, bet.BetType, bet.Team, bet.Line, bet.Odds, bet.Stake,
	)
	if err != nil {
		return fmt.Errorf("failed to update bet: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		return b.pendingGuardError(ctx, bet.ID)
	}

	return nil
}

// DeletePending removes an ungraded bet. A graded bet is immutable and yields
// ErrBetAlreadyGraded.
func (b *PostgresBetRepository) DeletePending(ctx context.Context, id uuid.UUID) error {
	commandTag, err := b.db.Querier(ctx).Exec(ctx,
		`DELETE FROM bets WHERE id = $1 AND result = 'PENDING'`, id)
	if err != nil {
		return fmt.Errorf("failed to delete bet: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		return b.pendingGuardError(ctx, id)
	}

	return nil
}

// pendingGuardError distinguishes "no such bet" from "bet exists but is
// already graded" after a guarded write affected zero rows.
func (b *PostgresBetRepository) pendingGuardError(ctx context.Context, id uuid.UUID) error {
	var result models.BetResult
	err := b.db.Querier(ctx).QueryRow(ctx, `SELECT result FROM bets WHERE id = $1`, id).Scan(&result)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to check bet state: %w", err)
	}
	if result.IsTerminal() {
		return models.ErrBetAlreadyGraded
	}
	return models.ErrNotFound
}

// GetUserStats computes a user's aggregate record with one grouped query.
func (b *PostgresBetRepository) GetUserStats(ctx context.Context, userID uuid.UUID) (*models.UserStats, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE result = 'PENDING'),
			COUNT(*) FILTER (WHERE result = 'WON'),
			COUNT(*) FILTER (WHERE result = 'LOST'),
			COUNT(*) FILTER (WHERE result = 'PUSH'),
			COALESCE(SUM(stake), 0),
			COALESCE(SUM(profit), 0)
		FROM bets WHERE user_id = $1
	`

	stats := &models.UserStats{UserID: userID}
	err := b.db.Querier(ctx).QueryRow(ctx, query, userID).Scan(
		&stats.TotalBets, &stats.PendingBets, &stats.WonBets, &stats.LostBets,
		&stats.PushBets, &stats.TotalStaked, &stats.TotalProfit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to compute user stats: %w", err)
	}

	stats.WinRate = winRate(stats.WonBets, stats.LostBets)
	stats.ROI = roi(stats.TotalProfit, stats.TotalStaked)

	return stats, nil
}

// ListLeaderboard ranks every user with at least one bet by total profit.
func (b *PostgresBetRepository) ListLeaderboard(ctx context.Context) ([]*models.LeaderboardEntry, error) {
	query := `
		SELECT
			u.id,
			u.username,
			COUNT(b.id),
			COUNT(b.id) FILTER (WHERE b.result = 'WON'),
			COUNT(b.id) FILTER (WHERE b.result = 'LOST'),
			COALESCE(SUM(b.stake), 0),
			COALESCE(SUM(b.profit), 0)
		FROM users u
		JOIN bets b ON b.user_id = u.id
		GROUP BY u.id, u.username
		ORDER BY COALESCE(SUM(b.profit), 0) DESC, u.username ASC
	`

	rows, err := b.db.Querier(ctx).Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []*models.LeaderboardEntry
	for rows.Next() {
		entry := &models.LeaderboardEntry{}
		err := rows.Scan(
			&entry.UserID, &entry.Username, &entry.TotalBets, &entry.WonBets,
			&entry.LostBets, &entry.TotalStaked, &entry.TotalProfit,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard entry: %w", err)
		}
		entry.WinRate = winRate(entry.WonBets, entry.LostBets)
		entry.ROI = roi(entry.TotalProfit, entry.TotalStaked)
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

func (b *PostgresBetRepository) queryBets(ctx context.Context, query string, args ...any) ([]*models.Bet, error) {
	rows, err := b.db.Querier(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query bets: %w", err)
	}
	defer rows.Close()

	var bets []*models.Bet
	for rows.Next() {
		bet := &models.Bet{}
		if err := scanBet(rows, bet); err != nil {
			return nil, fmt.Errorf("failed to scan bet: %w", err)
		}
		bets = append(bets, bet)
	}

	return bets, rows.Err()
}

func scanBet(row rowScanner, bet *models.Bet) error {
	return row.Scan(
		&bet.ID, &bet.UserID, &bet.GameID, &bet.BetType, &bet.Team, &bet.Line,
		&bet.Odds, &bet.Stake, &bet.Result, &bet.Profit, &bet.CreatedAt, &bet.UpdatedAt,
	)
}

// winRate is the share of decided (won or lost) bets that won, in percent.
// Pushes and pending bets do not count as decided.
func winRate(won, lost int) float64 {
	decided := won + lost
	if decided == 0 {
		return 0
	}
	return float64(won) / float64(decided) * 100
}

// roi is total profit over total staked, in percent.
func roi(profit, staked decimal.Decimal) float64 {
	if staked.IsZero() {
		return 0
	}
	ratio, _ := profit.Div(staked).Float64()
	return ratio * 100
}
