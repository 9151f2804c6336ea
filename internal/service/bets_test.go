package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/spreadline/internal/cache"
	"github.com/yourusername/spreadline/internal/models"
)

func newBetService(bets *MockBetRepository, games *MockGameRepository, aggCache *cache.AggregateCache) *BetService {
	return NewBetService(bets, games, aggCache, newTestLogger())
}

func upcomingGame() *models.Game {
	return &models.Game{
		ID:       uuid.New(),
		AwayTeam: "Team A",
		HomeTeam: "Team B",
		GameTime: time.Now().Add(2 * time.Hour),
	}
}

func validPlaceInput(gameID uuid.UUID) PlaceBetInput {
	return PlaceBetInput{
		UserID:  uuid.New(),
		GameID:  gameID,
		BetType: models.BetTypeMoneyline,
		Team:    strPtr("Team A"),
		Odds:    -150,
		Stake:   decimal.RequireFromString("30"),
	}
}

func TestPlaceBet(t *testing.T) {
	game := upcomingGame()
	input := validPlaceInput(game.ID)

	bets := new(MockBetRepository)
	games := new(MockGameRepository)
	aggCache := cache.NewAggregateCache(time.Minute, 100)
	aggCache.Set(cache.UserStatsKey(input.UserID), "stale")
	aggCache.Set(cache.LeaderboardKey(), "stale")

	games.On("GetByID", mock.Anything, game.ID).Return(game, nil)
	bets.On("Create", mock.Anything, mock.AnythingOfType("*models.Bet")).Return(nil)

	svc := newBetService(bets, games, aggCache)
	bet, err := svc.PlaceBet(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, models.BetResultPending, bet.Result)
	assert.Nil(t, bet.Profit)
	assert.Equal(t, input.UserID, bet.UserID)

	_, found := aggCache.Get(cache.UserStatsKey(input.UserID))
	assert.False(t, found)
	_, found = aggCache.Get(cache.LeaderboardKey())
	assert.False(t, found)
}

// Betting on a game that already started or finished is allowed; existence
// is the only game check.
func TestPlaceBetOnCompletedGame(t *testing.T) {
	game := upcomingGame()
	game.GameTime = time.Now().Add(-3 * time.Hour)
	game.IsCompleted = true
	game.AwayScore = intPtr(70)
	game.HomeScore = intPtr(65)

	bets := new(MockBetRepository)
	games := new(MockGameRepository)

	games.On("GetByID", mock.Anything, game.ID).Return(game, nil)
	bets.On("Create", mock.Anything, mock.AnythingOfType("*models.Bet")).Return(nil)

	svc := newBetService(bets, games, cache.NewAggregateCache(time.Minute, 100))
	_, err := svc.PlaceBet(context.Background(), validPlaceInput(game.ID))
	assert.NoError(t, err)
}

func TestPlaceBetValidation(t *testing.T) {
	game := upcomingGame()

	tests := []struct {
		name    string
		mutate  func(*PlaceBetInput)
		wantErr error
	}{
		{
			name:    "spread without line",
			mutate:  func(in *PlaceBetInput) { in.BetType = models.BetTypeSpread },
			wantErr: models.ErrMissingLine,
		},
		{
			name:    "moneyline without team",
			mutate:  func(in *PlaceBetInput) { in.Team = nil },
			wantErr: models.ErrMissingTeam,
		},
		{
			name:   "odds inside the American gap",
			mutate: func(in *PlaceBetInput) { in.Odds = 50 },
		},
		{
			name:   "negative stake",
			mutate: func(in *PlaceBetInput) { in.Stake = decimal.RequireFromString("-5") },
		},
		{
			name:   "team not in the game",
			mutate: func(in *PlaceBetInput) { in.Team = strPtr("Team C") },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bets := new(MockBetRepository)
			games := new(MockGameRepository)
			games.On("GetByID", mock.Anything, game.ID).Return(game, nil)

			input := validPlaceInput(game.ID)
			tt.mutate(&input)

			svc := newBetService(bets, games, cache.NewAggregateCache(time.Minute, 100))
			_, err := svc.PlaceBet(context.Background(), input)

			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			bets.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestPlaceBetUnknownGame(t *testing.T) {
	gameID := uuid.New()
	bets := new(MockBetRepository)
	games := new(MockGameRepository)
	games.On("GetByID", mock.Anything, gameID).Return(nil, models.ErrNotFound)

	svc := newBetService(bets, games, cache.NewAggregateCache(time.Minute, 100))
	_, err := svc.PlaceBet(context.Background(), validPlaceInput(gameID))

	assert.ErrorIs(t, err, models.ErrGameNotFound)
}

func TestEditBet(t *testing.T) {
	game := upcomingGame()
	bet := pendingBet(game.ID, models.BetTypeSpread, strPtr("Team A"), floatPtr(-3.5), -110, "11")

	bets := new(MockBetRepository)
	games := new(MockGameRepository)
	aggCache := cache.NewAggregateCache(time.Minute, 100)
	aggCache.Set(cache.UserStatsKey(bet.UserID), "stale")

	bets.On("GetByID", mock.Anything, bet.ID).Return(bet, nil)
	games.On("GetByID", mock.Anything, game.ID).Return(game, nil)
	bets.On("UpdatePending", mock.Anything, bet).Return(nil)

	svc := newBetService(bets, games, aggCache)
	updated, err := svc.EditBet(context.Background(), bet.ID, EditBetInput{
		Team:  strPtr("Team B"),
		Line:  floatPtr(3.5),
		Odds:  -105,
		Stake: decimal.RequireFromString("21"),
	})
	require.NoError(t, err)

	assert.Equal(t, "Team B", *updated.Team)
	assert.Equal(t, 3.5, *updated.Line)
	assert.Equal(t, -105, updated.Odds)

	_, found := aggCache.Get(cache.UserStatsKey(bet.UserID))
	assert.False(t, found)
}

func TestEditBetRefusesGraded(t *testing.T) {
	bet := pendingBet(uuid.New(), models.BetTypeMoneyline, strPtr("Team A"), nil, 100, "10")
	bet.Result = models.BetResultWon
	bet.Profit = decPtr(decimal.RequireFromString("10"))

	bets := new(MockBetRepository)
	games := new(MockGameRepository)
	bets.On("GetByID", mock.Anything, bet.ID).Return(bet, nil)

	svc := newBetService(bets, games, cache.NewAggregateCache(time.Minute, 100))
	_, err := svc.EditBet(context.Background(), bet.ID, EditBetInput{
		Team:  strPtr("Team A"),
		Odds:  100,
		Stake: decimal.RequireFromString("10"),
	})

	assert.ErrorIs(t, err, models.ErrBetAlreadyGraded)
	bets.AssertNotCalled(t, "UpdatePending", mock.Anything, mock.Anything)
}

func TestDeleteBet(t *testing.T) {
	bet := pendingBet(uuid.New(), models.BetTypeMoneyline, strPtr("Team A"), nil, 100, "10")

	bets := new(MockBetRepository)
	games := new(MockGameRepository)
	aggCache := cache.NewAggregateCache(time.Minute, 100)
	aggCache.Set(cache.LeaderboardKey(), "stale")

	bets.On("GetByID", mock.Anything, bet.ID).Return(bet, nil)
	bets.On("DeletePending", mock.Anything, bet.ID).Return(nil)

	svc := newBetService(bets, games, aggCache)
	err := svc.DeleteBet(context.Background(), bet.ID)
	require.NoError(t, err)

	_, found := aggCache.Get(cache.LeaderboardKey())
	assert.False(t, found)
}

func TestDeleteBetRefusesGraded(t *testing.T) {
	bet := pendingBet(uuid.New(), models.BetTypeMoneyline, strPtr("Team A"), nil, 100, "10")
	bet.Result = models.BetResultLost
	bet.Profit = decPtr(decimal.RequireFromString("-10"))

	bets := new(MockBetRepository)
	games := new(MockGameRepository)
	bets.On("GetByID", mock.Anything, bet.ID).Return(bet, nil)

	svc := newBetService(bets, games, cache.NewAggregateCache(time.Minute, 100))
	err := svc.DeleteBet(context.Background(), bet.ID)

	assert.ErrorIs(t, err, models.ErrBetAlreadyGraded)
	bets.AssertNotCalled(t, "DeletePending", mock.Anything, mock.Anything)
}
