package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/spreadline/internal/cache"
	"github.com/yourusername/spreadline/internal/logger"
	"github.com/yourusername/spreadline/internal/metrics"
	"github.com/yourusername/spreadline/internal/models"
	"github.com/yourusername/spreadline/internal/oddsapi"
	"github.com/yourusername/spreadline/internal/repository"
)

// ScoreSyncService runs the scheduled score sync: fetch recent results,
// settle newly completed games and grade every pending bet on them, all in
// one transaction per run.
type ScoreSyncService struct {
	client     ScoreFetcher
	tx         TxRunner
	games      repository.GameRepository
	bets       repository.BetRepository
	normalizer *Normalizer
	cache      *cache.AggregateCache
	runLog     *logger.RunLogger
}

// NewScoreSyncService creates a new score sync service
func NewScoreSyncService(
	client ScoreFetcher,
	tx TxRunner,
	games repository.GameRepository,
	bets repository.BetRepository,
	normalizer *Normalizer,
	aggCache *cache.AggregateCache,
	baseLogger *logrus.Logger,
) *ScoreSyncService {
	return &ScoreSyncService{
		client:     client,
		tx:         tx,
		games:      games,
		bets:       bets,
		normalizer: normalizer,
		cache:      aggCache,
		runLog:     logger.NewRunLogger(baseLogger, "score_sync"),
	}
}

// runTally accumulates what a score run changed, so cache invalidation and
// metrics can happen after the transaction committed.
type runTally struct {
	gamesSettled  int
	skipped       int
	gradedByUser  map[uuid.UUID]int
	gradedResults map[models.BetResult]int
}

func newRunTally() *runTally {
	return &runTally{
		gradedByUser:  make(map[uuid.UUID]int),
		gradedResults: make(map[models.BetResult]int),
	}
}

func (t *runTally) betsGraded() int {
	total := 0
	for _, n := range t.gradedByUser {
		total += n
	}
	return total
}

// Run executes one score sync. A fetch failure is logged and swallowed like
// the odds run. Grading is idempotent: the settle write is guarded on
// PENDING, so overlapping or repeated runs cannot grade a bet twice.
func (s *ScoreSyncService) Run(ctx context.Context) error {
	start := time.Now()
	s.runLog.LogRunStarted()

	rawScores, err := s.client.FetchScores(ctx)
	if err != nil {
		s.runLog.LogFetchFailed(err)
		metrics.RecordFetchError("scores")
		metrics.RecordRun("score_sync", "fetch_failed", time.Since(start).Seconds())
		return nil
	}

	tally := newRunTally()
	err = s.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		for _, raw := range rawScores {
			if err := s.processScore(txCtx, raw, tally); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.runLog.LogRunFailed(err, time.Since(start))
		metrics.RecordRun("score_sync", "failure", time.Since(start).Seconds())
		return fmt.Errorf("score run aborted: %w", err)
	}

	// Invalidate only after the transaction committed: a reader must never
	// repopulate the cache from pre-commit state.
	for userID := range tally.gradedByUser {
		s.cache.InvalidateUser(userID)
	}
	if len(tally.gradedByUser) > 0 {
		s.cache.InvalidateLeaderboard()
	}

	for result, count := range tally.gradedResults {
		for i := 0; i < count; i++ {
			metrics.RecordBetGraded(string(result))
		}
	}
	metrics.RecordRun("score_sync", "success", time.Since(start).Seconds())
	s.runLog.LogRunCompleted(tally.gamesSettled, tally.skipped, tally.betsGraded(), time.Since(start))

	return nil
}

// processScore settles one provider score record: mark the game completed
// if it is not yet, then grade its pending bets. Unknown games and games
// still in progress are skipped; storage errors abort the transaction.
func (s *ScoreSyncService) processScore(ctx context.Context, raw oddsapi.RawScore, tally *runTally) error {
	update, skipReason := s.normalizer.NormalizeScore(raw)
	if update == nil {
		tally.skipped++
		if skipReason != SkipNotCompleted {
			s.runLog.LogRecordSkipped(raw.ID, skipReason)
			metrics.RecordSkipped(skipReason)
		}
		return nil
	}

	game, err := s.games.GetByExternalID(ctx, update.ExternalID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			// The provider reports games this pipeline never tracked.
			tally.skipped++
			return nil
		}
		return fmt.Errorf("look up game %s: %w", update.ExternalID, err)
	}

	if !game.IsCompleted {
		if err := s.games.MarkCompleted(ctx, game.ID, update.AwayScore, update.HomeScore); err != nil {
			return fmt.Errorf("mark game %s completed: %w", update.ExternalID, err)
		}
		game.AwayScore = &update.AwayScore
		game.HomeScore = &update.HomeScore
		game.IsCompleted = true
		tally.gamesSettled++
	}

	// Grade even when the game was already complete: an earlier run may
	// have failed between settling the game and grading its bets.
	return s.gradePending(ctx, game, tally)
}

// gradePending grades every PENDING bet on a completed game. Ungradeable
// bets (missing line, team not in game) are logged and left pending.
func (s *ScoreSyncService) gradePending(ctx context.Context, game *models.Game, tally *runTally) error {
	pending, err := s.bets.GetPendingByGameID(ctx, game.ID)
	if err != nil {
		return fmt.Errorf("load pending bets for game %s: %w", game.ID, err)
	}

	for _, bet := range pending {
		result, err := GradeBet(bet, game)
		if err != nil {
			s.runLog.WithFields(logrus.Fields{
				"bet_id": bet.ID,
				"error":  err.Error(),
			}).Warn("Bet cannot be graded; left pending")
			continue
		}

		profit := CalculateProfit(bet.Odds, bet.Stake, result)
		settled, err := s.bets.Settle(ctx, bet.ID, result, profit)
		if err != nil {
			return fmt.Errorf("settle bet %s: %w", bet.ID, err)
		}
		if !settled {
			// Another run graded it between the read and the write.
			continue
		}

		tally.gradedByUser[bet.UserID]++
		tally.gradedResults[result]++
	}

	return nil
}
