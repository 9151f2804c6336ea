package models

import (
	"time"

	"github.com/google/uuid"
)

// Odds is the latest known line snapshot for one (game, bookmaker) pairing.
// The normalizer replaces the snapshot wholesale on every fetch, so at most
// one row exists per game; there is no line history.
type Odds struct {
	ID         uuid.UUID `db:"id" json:"id" validate:"required,uuid4"`
	GameID     uuid.UUID `db:"game_id" json:"game_id" validate:"required,uuid4"`
	Bookmaker  string    `db:"bookmaker" json:"bookmaker" validate:"required"`
	AwayML     *int      `db:"away_ml" json:"away_ml"`
	HomeML     *int      `db:"home_ml" json:"home_ml"`
	AwaySpread *float64  `db:"away_spread" json:"away_spread"`
	HomeSpread *float64  `db:"home_spread" json:"home_spread"`
	SpreadOdds *int      `db:"spread_odds" json:"spread_odds"`
	TotalLine  *float64  `db:"total_line" json:"total_line"`
	OverOdds   *int      `db:"over_odds" json:"over_odds"`
	UnderOdds  *int      `db:"under_odds" json:"under_odds"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// HasMoneyline reports whether both moneyline prices are present.
func (o *Odds) HasMoneyline() bool {
	return o.AwayML != nil && o.HomeML != nil
}

// HasSpread reports whether a spread market was offered.
func (o *Odds) HasSpread() bool {
	return o.AwaySpread != nil && o.HomeSpread != nil
}

// HasTotal reports whether a totals market was offered.
func (o *Odds) HasTotal() bool {
	return o.TotalLine != nil
}
