package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// UserStats is the aggregate betting record for one user.
type UserStats struct {
	UserID      uuid.UUID       `json:"user_id"`
	TotalBets   int             `json:"total_bets"`
	PendingBets int             `json:"pending_bets"`
	WonBets     int             `json:"won_bets"`
	LostBets    int             `json:"lost_bets"`
	PushBets    int             `json:"push_bets"`
	TotalStaked decimal.Decimal `json:"total_staked"`
	TotalProfit decimal.Decimal `json:"total_profit"`
	WinRate     float64         `json:"win_rate"`
	ROI         float64         `json:"roi"`
}

// BetTypeStats is the per-market rollup within a user's analytics.
type BetTypeStats struct {
	BetType     BetType         `json:"bet_type"`
	TotalBets   int             `json:"total_bets"`
	WonBets     int             `json:"won_bets"`
	LostBets    int             `json:"lost_bets"`
	TotalStaked decimal.Decimal `json:"total_staked"`
	TotalProfit decimal.Decimal `json:"total_profit"`
	WinRate     float64         `json:"win_rate"`
	ROI         float64         `json:"roi"`
}

// TeamStats is the per-team rollup within a user's analytics. Only decided
// (won or lost) bets count.
type TeamStats struct {
	Team   string          `json:"team"`
	Bets   int             `json:"bets"`
	Wins   int             `json:"wins"`
	Losses int             `json:"losses"`
	Profit decimal.Decimal `json:"profit"`
	WinRate float64        `json:"win_rate"`
}

// UserAnalytics groups the detailed per-user breakdowns shown on the dashboard.
type UserAnalytics struct {
	BetTypeStats []BetTypeStats `json:"bet_type_stats"`
	TeamStats    []TeamStats    `json:"team_stats"`
}

// LeaderboardEntry is one user's row in the global ranking, ordered by profit.
type LeaderboardEntry struct {
	UserID      uuid.UUID       `json:"user_id"`
	Username    string          `json:"username"`
	TotalBets   int             `json:"total_bets"`
	WonBets     int             `json:"won_bets"`
	LostBets    int             `json:"lost_bets"`
	TotalStaked decimal.Decimal `json:"total_staked"`
	TotalProfit decimal.Decimal `json:"total_profit"`
	WinRate     float64         `json:"win_rate"`
	ROI         float64         `json:"roi"`
}
