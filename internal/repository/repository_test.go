package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/spreadline/internal/database"
	"github.com/yourusername/spreadline/internal/models"
)

// These tests need a live Postgres; SetupTestDB skips them when none is
// configured.

func setupRepos(t *testing.T) (*Repositories, *database.DB) {
	t.Helper()
	db := database.SetupTestDB(t)
	t.Cleanup(func() { database.TeardownTestDB(t, db) })

	repos, err := NewRepositories(db)
	require.NoError(t, err)
	return repos, db
}

func newGame(externalID string) *models.Game {
	return &models.Game{
		ID:         uuid.New(),
		ExternalID: externalID,
		Sport:      "basketball_ncaab",
		GameTime:   time.Now().Add(24 * time.Hour).UTC().Truncate(time.Second),
		AwayTeam:   "Team A",
		HomeTeam:   "Team B",
	}
}

func newUser(username string) *models.User {
	return &models.User{
		ID:       uuid.New(),
		Email:    username + "@example.com",
		Username: username,
	}
}

func TestGameUpsert(t *testing.T) {
	repos, _ := setupRepos(t)
	ctx := context.Background()

	externalID := uuid.NewString()
	game := newGame(externalID)
	require.NoError(t, repos.Game.Upsert(ctx, game))

	// Re-fetching the same external id with a new time refreshes game_time
	// only; identity and team names stay.
	later := newGame(externalID)
	later.AwayTeam = "Renamed A"
	later.GameTime = game.GameTime.Add(time.Hour)
	require.NoError(t, repos.Game.Upsert(ctx, later))

	stored, err := repos.Game.GetByExternalID(ctx, externalID)
	require.NoError(t, err)
	assert.Equal(t, game.ID, stored.ID, "conflict keeps the original row")
	assert.Equal(t, "Team A", stored.AwayTeam, "team names are not trusted from later payloads")
	assert.Equal(t, later.GameTime.Unix(), stored.GameTime.Unix())
}

func TestGameMarkCompleted(t *testing.T) {
	repos, _ := setupRepos(t)
	ctx := context.Background()

	game := newGame(uuid.NewString())
	require.NoError(t, repos.Game.Upsert(ctx, game))
	require.NoError(t, repos.Game.MarkCompleted(ctx, game.ID, 70, 65))

	stored, err := repos.Game.GetByID(ctx, game.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsCompleted)
	require.True(t, stored.HasFinalScore())
	assert.Equal(t, 70, *stored.AwayScore)
	assert.Equal(t, 65, *stored.HomeScore)
}

func TestOddsReplaceForGame(t *testing.T) {
	repos, _ := setupRepos(t)
	ctx := context.Background()

	game := newGame(uuid.NewString())
	require.NoError(t, repos.Game.Upsert(ctx, game))

	first := &models.Odds{
		ID:        uuid.New(),
		GameID:    game.ID,
		Bookmaker: "draftkings",
		AwayML:    intPtr(-150),
		HomeML:    intPtr(130),
	}
	require.NoError(t, repos.Odds.ReplaceForGame(ctx, first))

	second := &models.Odds{
		ID:        uuid.New(),
		GameID:    game.ID,
		Bookmaker: "fanduel",
		AwayML:    intPtr(-145),
		HomeML:    intPtr(125),
	}
	require.NoError(t, repos.Odds.ReplaceForGame(ctx, second))

	stored, err := repos.Odds.GetByGameID(ctx, game.ID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, stored.ID, "at most one snapshot per game")
	assert.Equal(t, "fanduel", stored.Bookmaker)
}

func TestBetSettleGuard(t *testing.T) {
	repos, _ := setupRepos(t)
	ctx := context.Background()

	user := newUser("guard-" + uuid.NewString()[:8])
	require.NoError(t, repos.User.Create(ctx, user))
	game := newGame(uuid.NewString())
	require.NoError(t, repos.Game.Upsert(ctx, game))

	bet := &models.Bet{
		ID:      uuid.New(),
		UserID:  user.ID,
		GameID:  game.ID,
		BetType: models.BetTypeMoneyline,
		Team:    strPtr("Team A"),
		Odds:    -150,
		Stake:   decimal.RequireFromString("30"),
		Result:  models.BetResultPending,
	}
	require.NoError(t, repos.Bet.Create(ctx, bet))

	profit := decimal.RequireFromString("20")
	settled, err := repos.Bet.Settle(ctx, bet.ID, models.BetResultWon, profit)
	require.NoError(t, err)
	assert.True(t, settled)

	// A second settle is a no-op, whatever result it carries.
	settled, err = repos.Bet.Settle(ctx, bet.ID, models.BetResultLost, decimal.RequireFromString("-30"))
	require.NoError(t, err)
	assert.False(t, settled)

	stored, err := repos.Bet.GetByID(ctx, bet.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BetResultWon, stored.Result)
	require.NotNil(t, stored.Profit)
	assert.True(t, profit.Equal(*stored.Profit))

	// Graded bets are immutable for the edit and delete paths too.
	err = repos.Bet.DeletePending(ctx, bet.ID)
	assert.ErrorIs(t, err, models.ErrBetAlreadyGraded)
	stored.Stake = decimal.RequireFromString("99")
	err = repos.Bet.UpdatePending(ctx, stored)
	assert.ErrorIs(t, err, models.ErrBetAlreadyGraded)
}

func TestWithTransactionRollsBack(t *testing.T) {
	repos, db := setupRepos(t)
	ctx := context.Background()

	game := newGame(uuid.NewString())
	err := db.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := repos.Game.Upsert(txCtx, game); err != nil {
			return err
		}
		return assert.AnError
	})
	require.Error(t, err)

	_, err = repos.Game.GetByExternalID(ctx, game.ExternalID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestUserStatsRollup(t *testing.T) {
	repos, _ := setupRepos(t)
	ctx := context.Background()

	user := newUser("stats-" + uuid.NewString()[:8])
	require.NoError(t, repos.User.Create(ctx, user))
	game := newGame(uuid.NewString())
	require.NoError(t, repos.Game.Upsert(ctx, game))

	place := func(stake string) *models.Bet {
		bet := &models.Bet{
			ID:      uuid.New(),
			UserID:  user.ID,
			GameID:  game.ID,
			BetType: models.BetTypeMoneyline,
			Team:    strPtr("Team A"),
			Odds:    100,
			Stake:   decimal.RequireFromString(stake),
			Result:  models.BetResultPending,
		}
		require.NoError(t, repos.Bet.Create(ctx, bet))
		return bet
	}

	won := place("10")
	lost := place("20")
	place("5") // stays pending

	_, err := repos.Bet.Settle(ctx, won.ID, models.BetResultWon, decimal.RequireFromString("10"))
	require.NoError(t, err)
	_, err = repos.Bet.Settle(ctx, lost.ID, models.BetResultLost, decimal.RequireFromString("-20"))
	require.NoError(t, err)

	stats, err := repos.Bet.GetUserStats(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalBets)
	assert.Equal(t, 1, stats.PendingBets)
	assert.Equal(t, 1, stats.WonBets)
	assert.Equal(t, 1, stats.LostBets)
	assert.True(t, decimal.RequireFromString("35").Equal(stats.TotalStaked))
	assert.True(t, decimal.RequireFromString("-10").Equal(stats.TotalProfit))
	assert.InDelta(t, 50.0, stats.WinRate, 0.001)
}

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }
