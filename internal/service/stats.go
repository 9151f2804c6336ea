package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/spreadline/internal/cache"
	"github.com/yourusername/spreadline/internal/models"
	"github.com/yourusername/spreadline/internal/repository"
)

// Analytics keeps the per-team rollup to the most profitable sides.
const teamStatsLimit = 10

// StatsService serves the aggregate read views: per-user record, detailed
// analytics and the global leaderboard. Every view checks the aggregate
// cache first and repopulates it on a miss.
type StatsService struct {
	bets   repository.BetRepository
	cache  *cache.AggregateCache
	logger *logrus.Logger
}

// NewStatsService creates a new stats service
func NewStatsService(bets repository.BetRepository, aggCache *cache.AggregateCache, logger *logrus.Logger) *StatsService {
	return &StatsService{
		bets:   bets,
		cache:  aggCache,
		logger: logger,
	}
}

// GetUserStats returns one user's aggregate betting record.
func (s *StatsService) GetUserStats(ctx context.Context, userID uuid.UUID) (*models.UserStats, error) {
	key := cache.UserStatsKey(userID)
	if value, found := s.cache.Get(key); found {
		if stats, ok := value.(*models.UserStats); ok {
			return stats, nil
		}
	}

	stats, err := s.bets.GetUserStats(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load stats for user %s: %w", userID, err)
	}

	s.cache.Set(key, stats)
	return stats, nil
}

// GetUserAnalytics returns one user's per-market and per-team breakdown.
// The folds are explicit and keyed by the bet type enum, so a new market
// shows up by extending the enum rather than editing aggregation SQL.
func (s *StatsService) GetUserAnalytics(ctx context.Context, userID uuid.UUID) (*models.UserAnalytics, error) {
	key := cache.UserAnalyticsKey(userID)
	if value, found := s.cache.Get(key); found {
		if analytics, ok := value.(*models.UserAnalytics); ok {
			return analytics, nil
		}
	}

	bets, err := s.bets.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load bets for user %s: %w", userID, err)
	}

	analytics := &models.UserAnalytics{
		BetTypeStats: foldByBetType(bets),
		TeamStats:    foldByTeam(bets),
	}

	s.cache.Set(key, analytics)
	return analytics, nil
}

// GetLeaderboard returns every user with at least one bet, ordered by total
// profit.
func (s *StatsService) GetLeaderboard(ctx context.Context) ([]*models.LeaderboardEntry, error) {
	key := cache.LeaderboardKey()
	if value, found := s.cache.Get(key); found {
		if entries, ok := value.([]*models.LeaderboardEntry); ok {
			return entries, nil
		}
	}

	entries, err := s.bets.ListLeaderboard(ctx)
	if err != nil {
		return nil, fmt.Errorf("load leaderboard: %w", err)
	}

	s.cache.Set(key, entries)
	return entries, nil
}

// foldByBetType rolls a user's bets up per market, in enum order.
func foldByBetType(bets []*models.Bet) []models.BetTypeStats {
	order := []models.BetType{
		models.BetTypeMoneyline,
		models.BetTypeSpread,
		models.BetTypeTotalOver,
		models.BetTypeTotalUnder,
	}

	byType := make(map[models.BetType]*models.BetTypeStats, len(order))
	for _, betType := range order {
		byType[betType] = &models.BetTypeStats{
			BetType:     betType,
			TotalStaked: decimal.Zero,
			TotalProfit: decimal.Zero,
		}
	}

	for _, bet := range bets {
		stats, ok := byType[bet.BetType]
		if !ok {
			continue
		}
		stats.TotalBets++
		stats.TotalStaked = stats.TotalStaked.Add(bet.Stake)
		stats.TotalProfit = stats.TotalProfit.Add(bet.NetProfit())
		switch bet.Result {
		case models.BetResultWon:
			stats.WonBets++
		case models.BetResultLost:
			stats.LostBets++
		}
	}

	result := make([]models.BetTypeStats, 0, len(order))
	for _, betType := range order {
		stats := byType[betType]
		if stats.TotalBets == 0 {
			continue
		}
		stats.WinRate = winRate(stats.WonBets, stats.LostBets)
		stats.ROI = roi(stats.TotalProfit, stats.TotalStaked)
		result = append(result, *stats)
	}
	return result
}

// foldByTeam rolls a user's decided bets up per chosen team, most
// profitable sides first, capped at teamStatsLimit.
func foldByTeam(bets []*models.Bet) []models.TeamStats {
	byTeam := make(map[string]*models.TeamStats)

	for _, bet := range bets {
		if bet.Team == nil {
			continue
		}
		if bet.Result != models.BetResultWon && bet.Result != models.BetResultLost {
			continue
		}

		stats, ok := byTeam[*bet.Team]
		if !ok {
			stats = &models.TeamStats{Team: *bet.Team, Profit: decimal.Zero}
			byTeam[*bet.Team] = stats
		}
		stats.Bets++
		stats.Profit = stats.Profit.Add(bet.NetProfit())
		if bet.Result == models.BetResultWon {
			stats.Wins++
		} else {
			stats.Losses++
		}
	}

	result := make([]models.TeamStats, 0, len(byTeam))
	for _, stats := range byTeam {
		stats.WinRate = winRate(stats.Wins, stats.Losses)
		result = append(result, *stats)
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].Profit.Equal(result[j].Profit) {
			return result[i].Profit.GreaterThan(result[j].Profit)
		}
		return result[i].Team < result[j].Team
	})

	if len(result) > teamStatsLimit {
		result = result[:teamStatsLimit]
	}
	return result
}

// winRate is the share of decided (won or lost) bets that won, in percent,
// matching the storage-side rollups. Pushes and pending bets do not count.
func winRate(won, lost int) float64 {
	decided := won + lost
	if decided == 0 {
		return 0
	}
	return float64(won) / float64(decided) * 100
}

// roi is total profit over total staked, in percent.
func roi(profit, staked decimal.Decimal) float64 {
	if staked.IsZero() {
		return 0
	}
	ratio, _ := profit.Div(staked).Float64()
	return ratio * 100
}
