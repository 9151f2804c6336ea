package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/spreadline/internal/oddsapi"
)

func rawGameFixture() oddsapi.RawGame {
	return oddsapi.RawGame{
		ID:           "ext-123",
		SportKey:     "basketball_ncaab",
		CommenceTime: "2026-03-01T23:00:00Z",
		AwayTeam:     "Team A",
		HomeTeam:     "Team B",
		Bookmakers: []oddsapi.RawBookmaker{
			{
				Key: "fanduel",
				Markets: []oddsapi.RawMarket{
					{
						Key: oddsapi.MarketMoneyline,
						Outcomes: []oddsapi.RawOutcome{
							{Name: "Team A", Price: -150},
							{Name: "Team B", Price: 130},
						},
					},
				},
			},
			{
				Key: "draftkings",
				Markets: []oddsapi.RawMarket{
					{
						Key: oddsapi.MarketMoneyline,
						Outcomes: []oddsapi.RawOutcome{
							{Name: "Team A", Price: -145},
							{Name: "Team B", Price: 125},
						},
					},
					{
						Key: oddsapi.MarketSpreads,
						Outcomes: []oddsapi.RawOutcome{
							{Name: "Team A", Price: -110, Point: floatPtr(-3.5)},
							{Name: "Team B", Price: -110, Point: floatPtr(3.5)},
						},
					},
					{
						Key: oddsapi.MarketTotals,
						Outcomes: []oddsapi.RawOutcome{
							{Name: oddsapi.OutcomeOver, Price: -105, Point: floatPtr(141.5)},
							{Name: oddsapi.OutcomeUnder, Price: -115, Point: floatPtr(141.5)},
						},
					},
				},
			},
		},
	}
}

func TestNormalizeGame(t *testing.T) {
	n := NewNormalizer("draftkings", newTestLogger())

	game, err := n.NormalizeGame(rawGameFixture())
	require.NoError(t, err)

	assert.Equal(t, "ext-123", game.ExternalID)
	assert.Equal(t, "basketball_ncaab", game.Sport)
	assert.Equal(t, "Team A", game.AwayTeam)
	assert.Equal(t, "Team B", game.HomeTeam)
	assert.Equal(t, time.Date(2026, 3, 1, 23, 0, 0, 0, time.UTC), game.GameTime)
	assert.False(t, game.IsCompleted)
}

func TestNormalizeGameRejectsBadRecords(t *testing.T) {
	n := NewNormalizer("draftkings", newTestLogger())

	t.Run("bad commence time", func(t *testing.T) {
		raw := rawGameFixture()
		raw.CommenceTime = "tomorrow evening"
		_, err := n.NormalizeGame(raw)
		assert.Error(t, err)
	})

	t.Run("missing team", func(t *testing.T) {
		raw := rawGameFixture()
		raw.HomeTeam = ""
		_, err := n.NormalizeGame(raw)
		assert.Error(t, err)
	})

	t.Run("missing external id", func(t *testing.T) {
		raw := rawGameFixture()
		raw.ID = ""
		_, err := n.NormalizeGame(raw)
		assert.Error(t, err)
	})
}

func TestSelectBookmaker(t *testing.T) {
	t.Run("prefers the primary bookmaker", func(t *testing.T) {
		n := NewNormalizer("draftkings", newTestLogger())
		bm := n.SelectBookmaker(rawGameFixture())
		require.NotNil(t, bm)
		assert.Equal(t, "draftkings", bm.Key)
	})

	t.Run("falls back to the first offer", func(t *testing.T) {
		n := NewNormalizer("draftkings", newTestLogger())
		raw := rawGameFixture()
		raw.Bookmakers = raw.Bookmakers[:1]
		bm := n.SelectBookmaker(raw)
		require.NotNil(t, bm)
		assert.Equal(t, "fanduel", bm.Key)
	})

	t.Run("nil when nobody priced the game", func(t *testing.T) {
		n := NewNormalizer("draftkings", newTestLogger())
		raw := rawGameFixture()
		raw.Bookmakers = nil
		assert.Nil(t, n.SelectBookmaker(raw))
	})
}

func TestNormalizeOdds(t *testing.T) {
	n := NewNormalizer("draftkings", newTestLogger())
	raw := rawGameFixture()
	gameID := uuid.New()

	bm := n.SelectBookmaker(raw)
	require.NotNil(t, bm)

	odds := n.NormalizeOdds(gameID, raw, bm)

	assert.Equal(t, gameID, odds.GameID)
	assert.Equal(t, "draftkings", odds.Bookmaker)

	require.True(t, odds.HasMoneyline())
	assert.Equal(t, -145, *odds.AwayML)
	assert.Equal(t, 125, *odds.HomeML)

	require.True(t, odds.HasSpread())
	assert.Equal(t, -3.5, *odds.AwaySpread)
	assert.Equal(t, 3.5, *odds.HomeSpread)
	require.NotNil(t, odds.SpreadOdds)
	assert.Equal(t, -110, *odds.SpreadOdds)

	require.True(t, odds.HasTotal())
	assert.Equal(t, 141.5, *odds.TotalLine)
	assert.Equal(t, -105, *odds.OverOdds)
	assert.Equal(t, -115, *odds.UnderOdds)
}

func TestNormalizeOddsPartialMarkets(t *testing.T) {
	n := NewNormalizer("draftkings", newTestLogger())
	raw := rawGameFixture()
	// Moneyline only.
	raw.Bookmakers[1].Markets = raw.Bookmakers[1].Markets[:1]

	odds := n.NormalizeOdds(uuid.New(), raw, &raw.Bookmakers[1])

	assert.True(t, odds.HasMoneyline())
	assert.False(t, odds.HasSpread())
	assert.False(t, odds.HasTotal())
	assert.Nil(t, odds.OverOdds)
}

func TestNormalizeScore(t *testing.T) {
	n := NewNormalizer("draftkings", newTestLogger())

	rawScore := func() oddsapi.RawScore {
		return oddsapi.RawScore{
			ID:        "ext-123",
			Completed: true,
			AwayTeam:  "Team A",
			HomeTeam:  "Team B",
			Scores: []oddsapi.RawTeamScore{
				{Name: "Team A", Score: "70"},
				{Name: "Team B", Score: "65"},
			},
		}
	}

	t.Run("completed game with both scores", func(t *testing.T) {
		update, reason := n.NormalizeScore(rawScore())
		require.NotNil(t, update)
		assert.Empty(t, reason)
		assert.Equal(t, "ext-123", update.ExternalID)
		assert.Equal(t, 70, update.AwayScore)
		assert.Equal(t, 65, update.HomeScore)
	})

	t.Run("in-progress game is skipped", func(t *testing.T) {
		raw := rawScore()
		raw.Completed = false
		update, reason := n.NormalizeScore(raw)
		assert.Nil(t, update)
		assert.Equal(t, SkipNotCompleted, reason)
	})

	t.Run("missing team score is skipped", func(t *testing.T) {
		raw := rawScore()
		raw.Scores = raw.Scores[:1]
		update, reason := n.NormalizeScore(raw)
		assert.Nil(t, update)
		assert.Equal(t, SkipMissingScore, reason)
	})

	t.Run("unparseable score is skipped", func(t *testing.T) {
		raw := rawScore()
		raw.Scores[0].Score = "seventy"
		update, reason := n.NormalizeScore(raw)
		assert.Nil(t, update)
		assert.Equal(t, SkipBadScore, reason)
	})

	t.Run("score name not matching either team is skipped", func(t *testing.T) {
		raw := rawScore()
		raw.Scores[1].Name = "Team B Reserves"
		update, reason := n.NormalizeScore(raw)
		assert.Nil(t, update)
		assert.Equal(t, SkipMissingScore, reason)
	})
}
