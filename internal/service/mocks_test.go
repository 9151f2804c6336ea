package service

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"

	"github.com/yourusername/spreadline/internal/models"
	"github.com/yourusername/spreadline/internal/oddsapi"
)

func newTestLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// passthroughTx runs the function without a real transaction so the mocks
// underneath see every call.
type passthroughTx struct{}

func (passthroughTx) WithTransaction(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

// MockGameRepository mocks game repository
type MockGameRepository struct {
	mock.Mock
}

func (m *MockGameRepository) Upsert(ctx context.Context, game *models.Game) error {
	args := m.Called(ctx, game)
	return args.Error(0)
}

func (m *MockGameRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Game, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Game), args.Error(1)
}

func (m *MockGameRepository) GetByExternalID(ctx context.Context, externalID string) (*models.Game, error) {
	args := m.Called(ctx, externalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Game), args.Error(1)
}

func (m *MockGameRepository) GetUpcoming(ctx context.Context, from time.Time) ([]*models.Game, error) {
	args := m.Called(ctx, from)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Game), args.Error(1)
}

func (m *MockGameRepository) MarkCompleted(ctx context.Context, id uuid.UUID, awayScore, homeScore int) error {
	args := m.Called(ctx, id, awayScore, homeScore)
	return args.Error(0)
}

// MockOddsRepository mocks odds repository
type MockOddsRepository struct {
	mock.Mock
}

func (m *MockOddsRepository) ReplaceForGame(ctx context.Context, odds *models.Odds) error {
	args := m.Called(ctx, odds)
	return args.Error(0)
}

func (m *MockOddsRepository) GetByGameID(ctx context.Context, gameID uuid.UUID) (*models.Odds, error) {
	args := m.Called(ctx, gameID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Odds), args.Error(1)
}

// MockBetRepository mocks bet repository
type MockBetRepository struct {
	mock.Mock
}

func (m *MockBetRepository) Create(ctx context.Context, bet *models.Bet) error {
	args := m.Called(ctx, bet)
	return args.Error(0)
}

func (m *MockBetRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Bet, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Bet), args.Error(1)
}

func (m *MockBetRepository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]*models.Bet, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Bet), args.Error(1)
}

func (m *MockBetRepository) GetByUserIDDecided(ctx context.Context, userID uuid.UUID) ([]*models.Bet, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Bet), args.Error(1)
}

func (m *MockBetRepository) GetPendingByGameID(ctx context.Context, gameID uuid.UUID) ([]*models.Bet, error) {
	args := m.Called(ctx, gameID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Bet), args.Error(1)
}

func (m *MockBetRepository) Settle(ctx context.Context, id uuid.UUID, result models.BetResult, profit decimal.Decimal) (bool, error) {
	args := m.Called(ctx, id, result, profit)
	return args.Bool(0), args.Error(1)
}

func (m *MockBetRepository) UpdatePending(ctx context.Context, bet *models.Bet) error {
	args := m.Called(ctx, bet)
	return args.Error(0)
}

func (m *MockBetRepository) DeletePending(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockBetRepository) GetUserStats(ctx context.Context, userID uuid.UUID) (*models.UserStats, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserStats), args.Error(1)
}

func (m *MockBetRepository) ListLeaderboard(ctx context.Context) ([]*models.LeaderboardEntry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.LeaderboardEntry), args.Error(1)
}

// MockOddsFetcher mocks the provider odds endpoint
type MockOddsFetcher struct {
	mock.Mock
}

func (m *MockOddsFetcher) FetchOdds(ctx context.Context) ([]oddsapi.RawGame, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]oddsapi.RawGame), args.Error(1)
}

// MockScoreFetcher mocks the provider scores endpoint
type MockScoreFetcher struct {
	mock.Mock
}

func (m *MockScoreFetcher) FetchScores(ctx context.Context) ([]oddsapi.RawScore, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]oddsapi.RawScore), args.Error(1)
}

func intPtr(v int) *int             { return &v }
func floatPtr(v float64) *float64   { return &v }
func strPtr(v string) *string       { return &v }
func decPtr(v decimal.Decimal) *decimal.Decimal { return &v }
