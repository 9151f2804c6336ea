package repository

import (
	"fmt"

	"github.com/yourusername/spreadline/internal/database"
)

// Repositories holds all repository implementations
type Repositories struct {
	Game GameRepository
	Odds OddsRepository
	Bet  BetRepository
	User UserRepository
}

// NewRepositories creates and returns all repository implementations
func NewRepositories(db *database.DB) (*Repositories, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	return &Repositories{
		Game: NewPostgresGameRepository(db),
		Odds: NewPostgresOddsRepository(db),
		Bet:  NewPostgresBetRepository(db),
		User: NewPostgresUserRepository(db),
	}, nil
}
