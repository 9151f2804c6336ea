package service

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/yourusername/spreadline/internal/models"
)

var (
	decimalHundred = decimal.NewFromInt(100)
)

// GradeBet decides the result of a bet against its completed game. It is a
// pure function: no storage, no side effects. Grading only ever moves a bet
// from PENDING to a terminal result; persistence enforces that transition.
func GradeBet(bet *models.Bet, game *models.Game) (models.BetResult, error) {
	if !game.IsCompleted || !game.HasFinalScore() {
		return models.BetResultPending, models.ErrGameNotCompleted
	}
	if bet.BetType.RequiresLine() && bet.Line == nil {
		return models.BetResultPending, models.ErrMissingLine
	}
	if bet.BetType.RequiresTeam() && bet.Team == nil {
		return models.BetResultPending, models.ErrMissingTeam
	}

	switch bet.BetType {
	case models.BetTypeMoneyline:
		return gradeMoneyline(bet, game)
	case models.BetTypeSpread:
		return gradeSpread(bet, game)
	case models.BetTypeTotalOver:
		return gradeTotal(float64(game.TotalScore()), *bet.Line, true), nil
	case models.BetTypeTotalUnder:
		return gradeTotal(float64(game.TotalScore()), *bet.Line, false), nil
	default:
		return models.BetResultPending, fmt.Errorf("unknown bet type %q", bet.BetType)
	}
}

// gradeMoneyline settles a straight winner pick. There is no push: the
// chosen team must outscore the other.
func gradeMoneyline(bet *models.Bet, game *models.Game) (models.BetResult, error) {
	teamScore, otherScore, err := scoresForTeam(bet, game)
	if err != nil {
		return models.BetResultPending, err
	}

	if teamScore > otherScore {
		return models.BetResultWon, nil
	}
	return models.BetResultLost, nil
}

// gradeSpread settles against the adjusted score: chosen team's points plus
// the line. Landing exactly on the other team's total is a push.
func gradeSpread(bet *models.Bet, game *models.Game) (models.BetResult, error) {
	teamScore, otherScore, err := scoresForTeam(bet, game)
	if err != nil {
		return models.BetResultPending, err
	}

	adjusted := float64(teamScore) + *bet.Line
	switch {
	case adjusted > float64(otherScore):
		return models.BetResultWon, nil
	case adjusted < float64(otherScore):
		return models.BetResultLost, nil
	default:
		return models.BetResultPush, nil
	}
}

// gradeTotal settles an over/under against the combined score. Landing
// exactly on the line is a push either way.
func gradeTotal(total, line float64, over bool) models.BetResult {
	if total == line {
		return models.BetResultPush
	}
	if (total > line) == over {
		return models.BetResultWon
	}
	return models.BetResultLost
}

// scoresForTeam resolves the bet's chosen side against the game by exact
// team name.
func scoresForTeam(bet *models.Bet, game *models.Game) (teamScore, otherScore int, err error) {
	switch *bet.Team {
	case game.AwayTeam:
		return *game.AwayScore, *game.HomeScore, nil
	case game.HomeTeam:
		return *game.HomeScore, *game.AwayScore, nil
	default:
		return 0, 0, fmt.Errorf("bet team %q is not in game %s", *bet.Team, game.ID)
	}
}

// CalculateProfit computes the settled profit for a result in American odds
// convention, rounded to cents. A won bet at positive odds pays
// stake*odds/100; at negative odds stake*100/|odds|. A lost bet forfeits
// the stake, a push returns it.
func CalculateProfit(odds int, stake decimal.Decimal, result models.BetResult) decimal.Decimal {
	switch result {
	case models.BetResultWon:
		oddsDec := decimal.NewFromInt(int64(odds))
		if odds > 0 {
			return stake.Mul(oddsDec).Div(decimalHundred).Round(2)
		}
		return stake.Mul(decimalHundred).Div(oddsDec.Abs()).Round(2)
	case models.BetResultLost:
		return stake.Neg().Round(2)
	default:
		return decimal.Zero
	}
}
