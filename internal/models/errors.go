package models

import "errors"

// Custom errors
var (
	ErrNotFound         = errors.New("record not found")
	ErrDuplicateKey     = errors.New("duplicate key violation")
	ErrInvalidID        = errors.New("invalid ID format")
	ErrGameNotFound     = errors.New("game not found")
	ErrGameNotCompleted = errors.New("game is not completed")
	ErrBetAlreadyGraded = errors.New("bet has already been graded")
	ErrMissingLine      = errors.New("bet requires a line but has none")
	ErrMissingTeam      = errors.New("bet requires a team but has none")
)
