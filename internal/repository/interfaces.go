package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/yourusername/spreadline/internal/models"
)

// GameRepository defines the interface for game data access
type GameRepository interface {
	// Upsert inserts the game or, when the external id is already known,
	// refreshes game_time only. Team names from later payloads are not
	// trusted over the original. The passed game is updated in place with
	// the persisted row.
	Upsert(ctx context.Context, game *models.Game) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Game, error)
	GetByExternalID(ctx context.Context, externalID string) (*models.Game, error)
	GetUpcoming(ctx context.Context, from time.Time) ([]*models.Game, error)
	// MarkCompleted sets both final scores and the completion flag. The flag
	// is monotonic: this is the only write path that touches it and it only
	// ever sets true.
	MarkCompleted(ctx context.Context, id uuid.UUID, awayScore, homeScore int) error
}

// OddsRepository defines the interface for odds snapshot data access
type OddsRepository interface {
	// ReplaceForGame deletes any existing snapshot rows for the game and
	// inserts the fresh one, keeping at most one live snapshot per game.
	ReplaceForGame(ctx context.Context, odds *models.Odds) error
	GetByGameID(ctx context.Context, gameID uuid.UUID) (*models.Odds, error)
}

// BetRepository defines the interface for bet data access
type BetRepository interface {
	Create(ctx context.Context, bet *models.Bet) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Bet, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]*models.Bet, error)
	GetByUserIDDecided(ctx context.Context, userID uuid.UUID) ([]*models.Bet, error)
	GetPendingByGameID(ctx context.Context, gameID uuid.UUID) ([]*models.Bet, error)
	// Settle transitions a PENDING bet to a terminal result. It returns
	// false when the bet was already graded, making re-invocation a no-op.
	Settle(ctx context.Context, id uuid.UUID, result models.BetResult, profit decimal.Decimal) (bool, error)
	// UpdatePending and DeletePending refuse to touch graded bets.
	UpdatePending(ctx context.Context, bet *models.Bet) error
	DeletePending(ctx context.Context, id uuid.UUID) error
	GetUserStats(ctx context.Context, userID uuid.UUID) (*models.UserStats, error)
	ListLeaderboard(ctx context.Context) ([]*models.LeaderboardEntry, error)
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}
