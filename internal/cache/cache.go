// Package cache provides the time-bounded cache fronting the expensive
// aggregate queries (today's games, user stats, analytics, leaderboard).
// Entries are keyed by (operation, identifying argument) and invalidated
// explicitly by the write paths that make them stale. The cache is
// best-effort: correctness of the underlying data never depends on it.
package cache

import (
	"sync"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/yourusername/spreadline/internal/metrics"
)

// Operation names the aggregate view a cache entry holds.
type Operation string

const (
	OpTodaysGames   Operation = "todays_games"
	OpUserStats     Operation = "user_stats"
	OpUserAnalytics Operation = "user_analytics"
	OpLeaderboard   Operation = "leaderboard"
)

// Key identifies one cache entry: the operation plus its identifying
// argument (user id for per-user views, empty for global ones).
type Key struct {
	Op  Operation
	Arg string
}

// String returns string representation of the cache key
func (k Key) String() string {
	if k.Arg == "" {
		return string(k.Op)
	}
	return string(k.Op) + ":" + k.Arg
}

// TodaysGamesKey is the homepage games slate entry.
func TodaysGamesKey() Key {
	return Key{Op: OpTodaysGames}
}

// UserStatsKey is one user's aggregate record entry.
func UserStatsKey(userID uuid.UUID) Key {
	return Key{Op: OpUserStats, Arg: userID.String()}
}

// UserAnalyticsKey is one user's per-bet-type/per-team breakdown entry.
func UserAnalyticsKey(userID uuid.UUID) Key {
	return Key{Op: OpUserAnalytics, Arg: userID.String()}
}

// LeaderboardKey is the global ranking entry.
func LeaderboardKey() Key {
	return Key{Op: OpLeaderboard}
}

// AggregateCache provides in-memory caching for aggregate views
type AggregateCache struct {
	cache     *gocache.Cache
	ttl       time.Duration
	maxSize   int
	mu        sync.RWMutex
	hitCount  uint64
	missCount uint64
}

// NewAggregateCache creates a new aggregate cache
func NewAggregateCache(ttl time.Duration, maxSize int) *AggregateCache {
	return &AggregateCache{
		cache:   gocache.New(ttl, ttl*2),
		ttl:     ttl,
		maxSize: maxSize,
	}
}

// Get retrieves a cached value
func (ac *AggregateCache) Get(key Key) (any, bool) {
	ac.mu.Lock()
	defer ac.mu.Unlock()

	value, found := ac.cache.Get(key.String())
	if found {
		ac.hitCount++
	} else {
		ac.missCount++
	}
	ac.updateMetrics()

	return value, found
}

// Set stores a value under the configured TTL
func (ac *AggregateCache) Set(key Key, value any) {
	ac.mu.Lock()
	defer ac.mu.Unlock()

	if ac.cache.ItemCount() >= ac.maxSize {
		ac.cache.DeleteExpired()
	}

	ac.cache.Set(key.String(), value, ac.ttl)
}

// Delete evicts a single entry
func (ac *AggregateCache) Delete(key Key) {
	ac.mu.Lock()
	defer ac.mu.Unlock()

	ac.cache.Delete(key.String())
}

// InvalidateTodaysGames evicts the homepage games slate after an odds run
// changed game or odds rows.
func (ac *AggregateCache) InvalidateTodaysGames() {
	ac.Delete(TodaysGamesKey())
}

// InvalidateUser evicts one user's stats and analytics entries after a
// grading run or a bet edit/delete touched their bets.
func (ac *AggregateCache) InvalidateUser(userID uuid.UUID) {
	ac.Delete(UserStatsKey(userID))
	ac.Delete(UserAnalyticsKey(userID))
}

// InvalidateLeaderboard evicts the global ranking; any profit change is
// rank-affecting.
func (ac *AggregateCache) InvalidateLeaderboard() {
	ac.Delete(LeaderboardKey())
}

// Clear flushes the entire cache
func (ac *AggregateCache) Clear() {
	ac.mu.Lock()
	defer ac.mu.Unlock()

	ac.cache.Flush()
	ac.hitCount = 0
	ac.missCount = 0
}

// Stats returns cache statistics
func (ac *AggregateCache) Stats() (hits, misses uint64, ratio float64) {
	ac.mu.RLock()
	defer ac.mu.RUnlock()
	return ac.statsLocked()
}

func (ac *AggregateCache) statsLocked() (hits, misses uint64, ratio float64) {
	hits = ac.hitCount
	misses = ac.missCount
	total := hits + misses
	if total > 0 {
		ratio = float64(hits) / float64(total)
	}
	return
}

// updateMetrics updates Prometheus metrics; caller holds the lock.
func (ac *AggregateCache) updateMetrics() {
	_, _, ratio := ac.statsLocked()
	metrics.CacheHitRatio.Set(ratio)
}

// ItemCount returns the number of items in cache
func (ac *AggregateCache) ItemCount() int {
	return ac.cache.ItemCount()
}
