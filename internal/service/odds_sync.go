package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/spreadline/internal/cache"
	"github.com/yourusername/spreadline/internal/logger"
	"github.com/yourusername/spreadline/internal/metrics"
	"github.com/yourusername/spreadline/internal/models"
	"github.com/yourusername/spreadline/internal/oddsapi"
	"github.com/yourusername/spreadline/internal/repository"
)

// OddsFetcher is the provider surface the odds run needs.
type OddsFetcher interface {
	FetchOdds(ctx context.Context) ([]oddsapi.RawGame, error)
}

// ScoreFetcher is the provider surface the score run needs.
type ScoreFetcher interface {
	FetchScores(ctx context.Context) ([]oddsapi.RawScore, error)
}

// TxRunner runs a function inside a single database transaction.
type TxRunner interface {
	WithTransaction(ctx context.Context, fn func(context.Context) error) error
}

// OddsSyncService runs the scheduled odds refresh: fetch the current lines,
// upsert games and replace each game's odds snapshot, all in one
// transaction. It also serves the cached today's-games view.
type OddsSyncService struct {
	client     OddsFetcher
	tx         TxRunner
	games      repository.GameRepository
	odds       repository.OddsRepository
	normalizer *Normalizer
	cache      *cache.AggregateCache
	location   *time.Location
	runLog     *logger.RunLogger
}

// NewOddsSyncService creates a new odds sync service
func NewOddsSyncService(
	client OddsFetcher,
	tx TxRunner,
	games repository.GameRepository,
	odds repository.OddsRepository,
	normalizer *Normalizer,
	aggCache *cache.AggregateCache,
	location *time.Location,
	baseLogger *logrus.Logger,
) *OddsSyncService {
	return &OddsSyncService{
		client:     client,
		tx:         tx,
		games:      games,
		odds:       odds,
		normalizer: normalizer,
		cache:      aggCache,
		location:   location,
		runLog:     logger.NewRunLogger(baseLogger, "odds_fetch"),
	}
}

// Run executes one odds refresh. A fetch failure is logged and swallowed,
// the run counts as zero records and the next scheduled trigger is the
// retry. Any storage failure rolls back the whole run.
func (s *OddsSyncService) Run(ctx context.Context) error {
	start := time.Now()
	s.runLog.LogRunStarted()

	rawGames, err := s.client.FetchOdds(ctx)
	if err != nil {
		s.runLog.LogFetchFailed(err)
		metrics.RecordFetchError("odds")
		metrics.RecordRun("odds_fetch", "fetch_failed", time.Since(start).Seconds())
		return nil
	}

	var processed, skipped int
	err = s.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		for _, raw := range rawGames {
			ok, err := s.processGame(txCtx, raw)
			if err != nil {
				return err
			}
			if ok {
				processed++
			} else {
				skipped++
			}
		}
		return nil
	})
	if err != nil {
		s.runLog.LogRunFailed(err, time.Since(start))
		metrics.RecordRun("odds_fetch", "failure", time.Since(start).Seconds())
		return fmt.Errorf("odds run aborted: %w", err)
	}

	// Invalidate only after the transaction committed.
	if processed > 0 {
		s.cache.InvalidateTodaysGames()
	}

	metrics.RecordGamesUpserted(processed)
	metrics.RecordOddsSnapshots(processed)
	metrics.RecordRun("odds_fetch", "success", time.Since(start).Seconds())
	s.runLog.LogRunCompleted(processed, skipped, 0, time.Since(start))

	return nil
}

// processGame upserts one game and replaces its odds snapshot. Malformed
// records and games without bookmakers are skipped, not fatal; storage
// errors abort the transaction.
func (s *OddsSyncService) processGame(ctx context.Context, raw oddsapi.RawGame) (bool, error) {
	game, err := s.normalizer.NormalizeGame(raw)
	if err != nil {
		s.runLog.LogRecordSkipped(raw.ID, err.Error())
		metrics.RecordSkipped("malformed_game")
		return false, nil
	}

	bookmaker := s.normalizer.SelectBookmaker(raw)
	if bookmaker == nil {
		s.runLog.LogRecordSkipped(raw.ID, "no bookmakers priced the game")
		metrics.RecordSkipped("no_bookmakers")
		return false, nil
	}

	if err := s.games.Upsert(ctx, game); err != nil {
		return false, fmt.Errorf("upsert game %s: %w", game.ExternalID, err)
	}

	snapshot := s.normalizer.NormalizeOdds(game.ID, raw, bookmaker)
	if err := s.odds.ReplaceForGame(ctx, snapshot); err != nil {
		return false, fmt.Errorf("replace odds for game %s: %w", game.ExternalID, err)
	}

	return true, nil
}

// TodaysGames returns the homepage slate: games on today's local date, or
// when today is empty, the next date that has games. Served from the
// aggregate cache when warm.
func (s *OddsSyncService) TodaysGames(ctx context.Context) ([]*models.Game, error) {
	if value, found := s.cache.Get(cache.TodaysGamesKey()); found {
		if games, ok := value.([]*models.Game); ok {
			return games, nil
		}
	}

	now := time.Now().In(s.location)
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.location)

	upcoming, err := s.games.GetUpcoming(ctx, startOfDay)
	if err != nil {
		return nil, fmt.Errorf("load upcoming games: %w", err)
	}
	if len(upcoming) == 0 {
		return []*models.Game{}, nil
	}

	// GetUpcoming returns games ordered by start time, so the first game's
	// local date is the slate date.
	slateYear, slateMonth, slateDay := upcoming[0].GameTime.In(s.location).Date()
	slate := make([]*models.Game, 0, len(upcoming))
	for _, game := range upcoming {
		y, m, d := game.GameTime.In(s.location).Date()
		if y == slateYear && m == slateMonth && d == slateDay {
			slate = append(slate, game)
		}
	}

	s.cache.Set(cache.TodaysGamesKey(), slate)
	return slate, nil
}
