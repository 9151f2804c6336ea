package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/spreadline/internal/cache"
	"github.com/yourusername/spreadline/internal/metrics"
	"github.com/yourusername/spreadline/internal/models"
	"github.com/yourusername/spreadline/internal/repository"
)

// BetService exposes bet placement and maintenance. Edits and deletes only
// reach PENDING bets; graded bets are immutable.
type BetService struct {
	bets     repository.BetRepository
	games    repository.GameRepository
	cache    *cache.AggregateCache
	validate *validator.Validate
	logger   *logrus.Logger
}

// NewBetService creates a new bet service
func NewBetService(
	bets repository.BetRepository,
	games repository.GameRepository,
	aggCache *cache.AggregateCache,
	logger *logrus.Logger,
) *BetService {
	return &BetService{
		bets:     bets,
		games:    games,
		cache:    aggCache,
		validate: validator.New(),
		logger:   logger,
	}
}

// PlaceBetInput carries the fields of a new bet. Line and Team are required
// only when the bet type needs them.
type PlaceBetInput struct {
	UserID  uuid.UUID       `validate:"required"`
	GameID  uuid.UUID       `validate:"required"`
	BetType models.BetType  `validate:"required,oneof=MONEYLINE SPREAD TOTAL_OVER TOTAL_UNDER"`
	Team    *string         `validate:"omitempty,min=1"`
	Line    *float64        `validate:"-"`
	Odds    int             `validate:"required"`
	Stake   decimal.Decimal `validate:"required"`
}

// EditBetInput carries the mutable fields of a pending bet.
type EditBetInput struct {
	Team  *string         `validate:"omitempty,min=1"`
	Line  *float64        `validate:"-"`
	Odds  int             `validate:"required"`
	Stake decimal.Decimal `validate:"required"`
}

// PlaceBet validates and records a new PENDING bet. The game only has to
// exist; betting on started or finished games is allowed and such bets
// grade on the next score run.
func (s *BetService) PlaceBet(ctx context.Context, input PlaceBetInput) (*models.Bet, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("invalid bet: %w", err)
	}

	game, err := s.games.GetByID(ctx, input.GameID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrGameNotFound
		}
		return nil, fmt.Errorf("look up game %s: %w", input.GameID, err)
	}

	if err := validateBetFields(input.BetType, input.Team, input.Line, input.Odds, input.Stake, game); err != nil {
		return nil, err
	}

	now := time.Now()
	bet := &models.Bet{
		ID:        uuid.New(),
		UserID:    input.UserID,
		GameID:    input.GameID,
		BetType:   input.BetType,
		Team:      input.Team,
		Line:      input.Line,
		Odds:      input.Odds,
		Stake:     input.Stake,
		Result:    models.BetResultPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.bets.Create(ctx, bet); err != nil {
		return nil, fmt.Errorf("create bet: %w", err)
	}

	metrics.RecordBetPlaced()
	s.cache.InvalidateUser(bet.UserID)
	s.cache.InvalidateLeaderboard()

	s.logger.WithFields(logrus.Fields{
		"bet_id":   bet.ID,
		"user_id":  bet.UserID,
		"game_id":  bet.GameID,
		"bet_type": bet.BetType,
	}).Info("Bet placed")

	return bet, nil
}

// EditBet updates a PENDING bet in place. Returns ErrBetAlreadyGraded when
// the bet has a terminal result.
func (s *BetService) EditBet(ctx context.Context, betID uuid.UUID, input EditBetInput) (*models.Bet, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("invalid bet edit: %w", err)
	}

	bet, err := s.bets.GetByID(ctx, betID)
	if err != nil {
		return nil, err
	}
	if !bet.IsPending() {
		return nil, models.ErrBetAlreadyGraded
	}

	game, err := s.games.GetByID(ctx, bet.GameID)
	if err != nil {
		return nil, fmt.Errorf("look up game %s: %w", bet.GameID, err)
	}

	if err := validateBetFields(bet.BetType, input.Team, input.Line, input.Odds, input.Stake, game); err != nil {
		return nil, err
	}

	bet.Team = input.Team
	bet.Line = input.Line
	bet.Odds = input.Odds
	bet.Stake = input.Stake

	if err := s.bets.UpdatePending(ctx, bet); err != nil {
		return nil, err
	}

	s.cache.InvalidateUser(bet.UserID)
	s.cache.InvalidateLeaderboard()

	return bet, nil
}

// DeleteBet removes a PENDING bet. Returns ErrBetAlreadyGraded when the bet
// has a terminal result.
func (s *BetService) DeleteBet(ctx context.Context, betID uuid.UUID) error {
	bet, err := s.bets.GetByID(ctx, betID)
	if err != nil {
		return err
	}
	if !bet.IsPending() {
		return models.ErrBetAlreadyGraded
	}

	if err := s.bets.DeletePending(ctx, betID); err != nil {
		return err
	}

	s.cache.InvalidateUser(bet.UserID)
	s.cache.InvalidateLeaderboard()

	return nil
}

// GetUserBets returns all of a user's bets, newest first.
func (s *BetService) GetUserBets(ctx context.Context, userID uuid.UUID) ([]*models.Bet, error) {
	return s.bets.GetByUserID(ctx, userID)
}

// validateBetFields enforces the domain rules a struct tag cannot: the
// market's required fields, American odds bounds, a positive stake and a
// team that actually plays in the game.
func validateBetFields(betType models.BetType, team *string, line *float64, odds int, stake decimal.Decimal, game *models.Game) error {
	if betType.RequiresLine() && line == nil {
		return models.ErrMissingLine
	}
	if betType.RequiresTeam() && team == nil {
		return models.ErrMissingTeam
	}
	if odds > -100 && odds < 100 {
		return fmt.Errorf("odds %d are not valid American odds", odds)
	}
	if !stake.IsPositive() {
		return fmt.Errorf("stake must be positive, got %s", stake)
	}
	if team != nil && *team != game.AwayTeam && *team != game.HomeTeam {
		return fmt.Errorf("team %q is not playing in this game", *team)
	}
	return nil
}
