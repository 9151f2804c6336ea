package service

import (
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/spreadline/internal/models"
	"github.com/yourusername/spreadline/internal/oddsapi"
)

// Normalizer converts raw provider payloads into internal models. It never
// touches storage; per-record failures return errors so the sync services
// can skip the record and keep the run alive.
type Normalizer struct {
	primaryBookmaker string
	logger           *logrus.Logger
}

// NewNormalizer creates a new normalizer
func NewNormalizer(primaryBookmaker string, logger *logrus.Logger) *Normalizer {
	return &Normalizer{
		primaryBookmaker: primaryBookmaker,
		logger:           logger,
	}
}

// NormalizeGame converts one raw odds payload into a Game model. The
// commence time must be RFC3339; it is stored in UTC.
func (n *Normalizer) NormalizeGame(raw oddsapi.RawGame) (*models.Game, error) {
	if raw.ID == "" {
		return nil, fmt.Errorf("game has no external id")
	}
	if raw.AwayTeam == "" || raw.HomeTeam == "" {
		return nil, fmt.Errorf("game %s is missing team names", raw.ID)
	}

	gameTime, err := time.Parse(time.RFC3339, raw.CommenceTime)
	if err != nil {
		return nil, fmt.Errorf("game %s has invalid commence time %q: %w", raw.ID, raw.CommenceTime, err)
	}

	now := time.Now()
	return &models.Game{
		ID:         uuid.New(),
		ExternalID: raw.ID,
		Sport:      raw.SportKey,
		GameTime:   gameTime.UTC(),
		AwayTeam:   raw.AwayTeam,
		HomeTeam:   raw.HomeTeam,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// SelectBookmaker picks the offer to snapshot: the configured primary
// bookmaker when it priced the game, otherwise the first offer. Returns nil
// when the payload carries no bookmakers at all.
func (n *Normalizer) SelectBookmaker(raw oddsapi.RawGame) *oddsapi.RawBookmaker {
	if len(raw.Bookmakers) == 0 {
		return nil
	}

	for i := range raw.Bookmakers {
		if raw.Bookmakers[i].Key == n.primaryBookmaker {
			return &raw.Bookmakers[i]
		}
	}

	return &raw.Bookmakers[0]
}

// NormalizeOdds builds the odds snapshot for a game from one bookmaker's
// markets. Markets the bookmaker did not price leave their fields nil.
func (n *Normalizer) NormalizeOdds(gameID uuid.UUID, raw oddsapi.RawGame, bookmaker *oddsapi.RawBookmaker) *models.Odds {
	now := time.Now()
	odds := &models.Odds{
		ID:        uuid.New(),
		GameID:    gameID,
		Bookmaker: bookmaker.Key,
		CreatedAt: now,
		UpdatedAt: now,
	}

	for _, market := range bookmaker.Markets {
		switch market.Key {
		case oddsapi.MarketMoneyline:
			n.applyMoneyline(odds, raw, market)
		case oddsapi.MarketSpreads:
			n.applySpreads(odds, raw, market)
		case oddsapi.MarketTotals:
			n.applyTotals(odds, market)
		}
	}

	return odds
}

func (n *Normalizer) applyMoneyline(odds *models.Odds, raw oddsapi.RawGame, market oddsapi.RawMarket) {
	for _, outcome := range market.Outcomes {
		price := outcome.Price
		switch outcome.Name {
		case raw.AwayTeam:
			odds.AwayML = &price
		case raw.HomeTeam:
			odds.HomeML = &price
		}
	}
}

func (n *Normalizer) applySpreads(odds *models.Odds, raw oddsapi.RawGame, market oddsapi.RawMarket) {
	for _, outcome := range market.Outcomes {
		if outcome.Point == nil {
			continue
		}
		point := *outcome.Point
		price := outcome.Price
		switch outcome.Name {
		case raw.AwayTeam:
			odds.AwaySpread = &point
			if odds.SpreadOdds == nil {
				odds.SpreadOdds = &price
			}
		case raw.HomeTeam:
			odds.HomeSpread = &point
			if odds.SpreadOdds == nil {
				odds.SpreadOdds = &price
			}
		}
	}
}

func (n *Normalizer) applyTotals(odds *models.Odds, market oddsapi.RawMarket) {
	for _, outcome := range market.Outcomes {
		price := outcome.Price
		switch outcome.Name {
		case oddsapi.OutcomeOver:
			odds.OverOdds = &price
			if outcome.Point != nil {
				line := *outcome.Point
				odds.TotalLine = &line
			}
		case oddsapi.OutcomeUnder:
			odds.UnderOdds = &price
			if odds.TotalLine == nil && outcome.Point != nil {
				line := *outcome.Point
				odds.TotalLine = &line
			}
		}
	}
}

// ScoreUpdate is a normalized final score ready to settle a game.
type ScoreUpdate struct {
	ExternalID string
	AwayScore  int
	HomeScore  int
}

// Skip reasons returned by NormalizeScore.
const (
	SkipNotCompleted = "not_completed"
	SkipMissingScore = "missing_score"
	SkipBadScore     = "unparseable_score"
)

// NormalizeScore extracts the final score from one raw scores payload.
// Returns nil and a skip reason when the record cannot settle a game:
// still in progress, a team score missing, or a score that is not a number.
// Scores are matched to teams by exact name.
func (n *Normalizer) NormalizeScore(raw oddsapi.RawScore) (*ScoreUpdate, string) {
	if !raw.Completed {
		return nil, SkipNotCompleted
	}

	var awayScore, homeScore *int
	for _, teamScore := range raw.Scores {
		value, err := strconv.Atoi(teamScore.Score)
		if err != nil {
			return nil, SkipBadScore
		}
		switch teamScore.Name {
		case raw.AwayTeam:
			v := value
			awayScore = &v
		case raw.HomeTeam:
			v := value
			homeScore = &v
		}
	}

	if awayScore == nil || homeScore == nil {
		return nil, SkipMissingScore
	}

	return &ScoreUpdate{
		ExternalID: raw.ID,
		AwayScore:  *awayScore,
		HomeScore:  *homeScore,
	}, ""
}
