package models

import (
	"time"

	"github.com/google/uuid"
)

// Game represents a single real-world sporting event tracked by the pipeline.
// Games are created on first odds sighting and updated in place; the pipeline
// never deletes them.
type Game struct {
	ID          uuid.UUID `db:"id" json:"id" validate:"required,uuid4"`
	ExternalID  string    `db:"external_id" json:"external_id" validate:"required"`
	Sport       string    `db:"sport" json:"sport"`
	GameTime    time.Time `db:"game_time" json:"game_time" validate:"required"`
	AwayTeam    string    `db:"away_team" json:"away_team" validate:"required"`
	HomeTeam    string    `db:"home_team" json:"home_team" validate:"required"`
	AwayScore   *int      `db:"away_score" json:"away_score"`
	HomeScore   *int      `db:"home_score" json:"home_score"`
	IsCompleted bool      `db:"is_completed" json:"is_completed"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// HasFinalScore reports whether both final scores are present. A completed
// game must always satisfy this.
func (g *Game) HasFinalScore() bool {
	return g.AwayScore != nil && g.HomeScore != nil
}

// IsUpcoming reports whether the game has not started yet.
func (g *Game) IsUpcoming() bool {
	return !g.IsCompleted && g.GameTime.After(time.Now())
}

// TotalScore returns away + home score for a game with a final score.
func (g *Game) TotalScore() int {
	if !g.HasFinalScore() {
		return 0
	}
	return *g.AwayScore + *g.HomeScore
}
