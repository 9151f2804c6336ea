package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BetType represents the market a bet was placed on
type BetType string

const (
	BetTypeMoneyline  BetType = "MONEYLINE"
	BetTypeSpread     BetType = "SPREAD"
	BetTypeTotalOver  BetType = "TOTAL_OVER"
	BetTypeTotalUnder BetType = "TOTAL_UNDER"
)

// BetResult represents the settlement state of a bet
type BetResult string

const (
	BetResultPending BetResult = "PENDING"
	BetResultWon     BetResult = "WON"
	BetResultLost    BetResult = "LOST"
	BetResultPush    BetResult = "PUSH"
)

// RequiresLine reports whether the bet type settles against a posted line.
func (t BetType) RequiresLine() bool {
	switch t {
	case BetTypeSpread, BetTypeTotalOver, BetTypeTotalUnder:
		return true
	}
	return false
}

// RequiresTeam reports whether the bet type needs a chosen side.
func (t BetType) RequiresTeam() bool {
	return t == BetTypeMoneyline || t == BetTypeSpread
}

// IsTerminal reports whether the result can no longer change. Graded bets
// are immutable: neither the grader nor the edit path may touch them.
func (r BetResult) IsTerminal() bool {
	return r != BetResultPending
}

// Bet represents a user's wager on a game
type Bet struct {
	ID        uuid.UUID        `db:"id" json:"id" validate:"required,uuid4"`
	UserID    uuid.UUID        `db:"user_id" json:"user_id" validate:"required,uuid4"`
	GameID    uuid.UUID        `db:"game_id" json:"game_id" validate:"required,uuid4"`
	BetType   BetType          `db:"bet_type" json:"bet_type" validate:"required,oneof=MONEYLINE SPREAD TOTAL_OVER TOTAL_UNDER"`
	Team      *string          `db:"team" json:"team"`
	Line      *float64         `db:"line" json:"line"`
	Odds      int              `db:"odds" json:"odds" validate:"required"`
	Stake     decimal.Decimal  `db:"stake" json:"stake" validate:"required"`
	Result    BetResult        `db:"result" json:"result" validate:"required"`
	Profit    *decimal.Decimal `db:"profit" json:"profit"`
	CreatedAt time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt time.Time        `db:"updated_at" json:"updated_at"`
}

// IsPending reports whether the bet has not been graded yet.
// Invariant: result = PENDING exactly when profit is null.
func (b *Bet) IsPending() bool {
	return b.Result == BetResultPending
}

// NetProfit returns the settled profit, zero while pending.
func (b *Bet) NetProfit() decimal.Decimal {
	if b.Profit == nil {
		return decimal.Zero
	}
	return *b.Profit
}
